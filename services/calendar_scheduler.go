package services

import (
	"time"

	"gesschool_go/database"
	"gesschool_go/models"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// CalendarScheduler runs the nightly calendar maintenance: it clears the
// active flag on periods whose end date has passed, promotes the period
// that contains today when no period is flagged, and keeps log
// maintenance running.
type CalendarScheduler struct {
	cron     *cron.Cron
	calendar *CalendarService
	archive  *LogArchiveService
}

func NewCalendarScheduler() *CalendarScheduler {
	return &CalendarScheduler{
		cron:     cron.New(),
		calendar: NewCalendarService(),
		archive:  NewLogArchiveService(),
	}
}

// Start registers the cron entries and launches the scheduler in its own
// goroutine.
func (cs *CalendarScheduler) Start() {
	// Nightly at 00:10, after the date has rolled over
	if _, err := cs.cron.AddFunc("10 0 * * *", cs.RefreshPeriodStatuses); err != nil {
		logrus.WithError(err).Error("Failed to schedule period status refresh")
	}

	// Hourly log flush, daily archive of logs older than 30 days
	if _, err := cs.cron.AddFunc("0 * * * *", func() {
		if err := cs.archive.FlushCachedLogsToDatabase(); err != nil {
			logrus.WithError(err).Warn("Scheduled log flush failed")
		}
	}); err != nil {
		logrus.WithError(err).Error("Failed to schedule log flush")
	}
	if _, err := cs.cron.AddFunc("30 2 * * *", func() {
		if err := cs.archive.ArchiveOldLogs(30); err != nil {
			logrus.WithError(err).Warn("Scheduled log archive failed")
		}
	}); err != nil {
		logrus.WithError(err).Error("Failed to schedule log archive")
	}

	cs.cron.Start()
	logrus.Info("Calendar scheduler started")
}

// Stop halts the scheduler, waiting for running jobs.
func (cs *CalendarScheduler) Stop() {
	ctx := cs.cron.Stop()
	<-ctx.Done()
}

// RefreshPeriodStatuses reconciles active flags with the calendar: a
// period stays flagged only while today falls inside its dates, and when
// nothing is flagged the period containing today takes over.
func (cs *CalendarScheduler) RefreshPeriodStatuses() {
	today := time.Now()

	var stale []models.AcademicPeriod
	err := database.DB.Where("active = ? AND (end_date < ? OR start_date > ?)", true, today, today).
		Find(&stale).Error
	if err != nil {
		logrus.WithError(err).Error("Failed to load stale active periods")
		return
	}

	for i := range stale {
		if err := database.DB.Model(&stale[i]).Update("active", false).Error; err != nil {
			logrus.WithError(err).WithField("period_id", stale[i].ID).Error("Failed to deactivate period")
			continue
		}
		logrus.WithFields(logrus.Fields{
			"period_id": stale[i].ID,
			"name":      stale[i].Name,
		}).Info("Deactivated period outside its date range")
	}

	var activeCount int64
	if err := database.DB.Model(&models.AcademicPeriod{}).Where("active = ?", true).Count(&activeCount).Error; err != nil {
		logrus.WithError(err).Error("Failed to count active periods")
		return
	}
	if activeCount > 0 {
		cs.calendar.invalidateCurrentPeriodCache()
		return
	}

	var next models.AcademicPeriod
	err = database.DB.Where("archived = ? AND start_date <= ? AND end_date >= ?", false, today, today).
		Order("start_date ASC").First(&next).Error
	if err != nil {
		// No period contains today; nothing to promote
		cs.calendar.invalidateCurrentPeriodCache()
		return
	}

	if _, err := cs.calendar.SetActivePeriod(next.ID); err != nil {
		logrus.WithError(err).WithField("period_id", next.ID).Error("Failed to activate current period")
		return
	}
	logrus.WithFields(logrus.Fields{
		"period_id": next.ID,
		"name":      next.Name,
	}).Info("Activated period containing today")
}
