package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gesschool_go/config"
	"gesschool_go/database"
	"gesschool_go/models"
	"gesschool_go/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const currentPeriodCacheKey = "calendar:current_period"

// CalendarService manages academic years and the periods inside them.
// All multi-row invariants (single active year, single active period,
// sibling overlap, sequence numbering) are enforced inside transactions.
type CalendarService struct{}

func NewCalendarService() *CalendarService {
	return &CalendarService{}
}

// CreateYear validates and stores a new academic year.
func (s *CalendarService) CreateYear(year *models.AcademicYear) error {
	if err := year.Validate(); err != nil {
		return err
	}

	return database.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.AcademicYear{}).Where("name = ?", year.Name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return utils.NewValidationError("name", "an academic year with this name already exists")
		}
		return tx.Create(year).Error
	})
}

// UpdateYear applies new dates/description to a year and revalidates the
// containment of its periods.
func (s *CalendarService) UpdateYear(id uint, updated *models.AcademicYear) (*models.AcademicYear, error) {
	var year models.AcademicYear
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&year, id).Error; err != nil {
			return err
		}
		year.Name = updated.Name
		year.StartDate = updated.StartDate
		year.EndDate = updated.EndDate
		year.Description = updated.Description
		if err := year.Validate(); err != nil {
			return err
		}

		var dup int64
		if err := tx.Model(&models.AcademicYear{}).Where("name = ? AND id <> ?", year.Name, id).Count(&dup).Error; err != nil {
			return err
		}
		if dup > 0 {
			return utils.NewValidationError("name", "an academic year with this name already exists")
		}

		var periods []models.AcademicPeriod
		if err := tx.Where("academic_year_id = ?", id).Find(&periods).Error; err != nil {
			return err
		}
		for i := range periods {
			if err := periods[i].Validate(&year); err != nil {
				return utils.NewValidationError("dates", fmt.Sprintf("period %q would fall outside the new year range", periods[i].Name))
			}
		}
		return tx.Save(&year).Error
	})
	if err != nil {
		return nil, err
	}
	return &year, nil
}

// SetActiveYear marks one year active and clears the flag on every other
// year in the same statement batch.
func (s *CalendarService) SetActiveYear(id uint) (*models.AcademicYear, error) {
	var year models.AcademicYear
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&year, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.AcademicYear{}).Where("id <> ?", id).Update("active", false).Error; err != nil {
			return err
		}
		year.Active = true
		return tx.Save(&year).Error
	})
	if err != nil {
		return nil, err
	}
	s.invalidateCurrentPeriodCache()
	return &year, nil
}

// GetYears lists years newest first with their periods preloaded.
func (s *CalendarService) GetYears() ([]models.AcademicYear, error) {
	var years []models.AcademicYear
	err := database.DB.Preload("Periods", func(db *gorm.DB) *gorm.DB {
		return db.Order("sequence ASC")
	}).Order("start_date DESC").Find(&years).Error
	return years, err
}

// GetYear fetches one year with periods.
func (s *CalendarService) GetYear(id uint) (*models.AcademicYear, error) {
	var year models.AcademicYear
	err := database.DB.Preload("Periods", func(db *gorm.DB) *gorm.DB {
		return db.Order("sequence ASC")
	}).First(&year, id).Error
	if err != nil {
		return nil, err
	}
	return &year, nil
}

// CurrentYear returns the active year, or the year containing today when
// none is flagged.
func (s *CalendarService) CurrentYear() (*models.AcademicYear, error) {
	var year models.AcademicYear
	err := database.DB.Where("active = ?", true).First(&year).Error
	if err == nil {
		return &year, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	today := time.Now()
	err = database.DB.Where("start_date <= ? AND end_date >= ?", today, today).First(&year).Error
	if err != nil {
		return nil, err
	}
	return &year, nil
}

// CreatePeriod validates a new period against its year and siblings,
// assigns the default name when blank, then recomputes sibling sequences.
func (s *CalendarService) CreatePeriod(period *models.AcademicPeriod) error {
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var year models.AcademicYear
		if err := tx.First(&year, period.AcademicYearID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return utils.NewValidationError("academic_year_id", "academic year not found")
			}
			return err
		}
		if err := period.Validate(&year); err != nil {
			return err
		}
		if period.Name == "" {
			period.Name = period.DefaultName()
		}

		var siblings []models.AcademicPeriod
		if err := tx.Where("academic_year_id = ? AND period_system = ?", period.AcademicYearID, period.PeriodSystem).
			Find(&siblings).Error; err != nil {
			return err
		}
		if err := validateAgainstSiblings(period, siblings); err != nil {
			return err
		}

		if err := tx.Create(period).Error; err != nil {
			return err
		}
		return s.resequence(tx, period.AcademicYearID, period.PeriodSystem)
	})
	if err != nil {
		return err
	}
	s.invalidateCurrentPeriodCache()
	return nil
}

// UpdatePeriodDates moves a period inside its year. Locked periods reject
// the change; siblings are re-checked for overlap and resequenced.
func (s *CalendarService) UpdatePeriodDates(id uint, start, end models.DateOnly, description string) (*models.AcademicPeriod, error) {
	var period models.AcademicPeriod
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&period, id).Error; err != nil {
			return err
		}
		if period.Locked {
			return utils.NewLockedPeriodError(period.ID, "period dates")
		}

		var year models.AcademicYear
		if err := tx.First(&year, period.AcademicYearID).Error; err != nil {
			return err
		}

		period.StartDate = start
		period.EndDate = end
		period.Description = description
		if err := period.Validate(&year); err != nil {
			return err
		}

		var siblings []models.AcademicPeriod
		if err := tx.Where("academic_year_id = ? AND period_system = ? AND id <> ?",
			period.AcademicYearID, period.PeriodSystem, period.ID).Find(&siblings).Error; err != nil {
			return err
		}
		if err := validateAgainstSiblings(&period, siblings); err != nil {
			return err
		}

		if err := tx.Save(&period).Error; err != nil {
			return err
		}
		return s.resequence(tx, period.AcademicYearID, period.PeriodSystem)
	})
	if err != nil {
		return nil, err
	}
	s.invalidateCurrentPeriodCache()
	return &period, nil
}

// DeletePeriod removes an unlocked period. Remaining siblings keep their
// sequence numbers unless RESEQUENCE_ON_DELETE is enabled.
func (s *CalendarService) DeletePeriod(id uint) error {
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var period models.AcademicPeriod
		if err := tx.First(&period, id).Error; err != nil {
			return err
		}
		if period.Locked {
			return utils.NewLockedPeriodError(period.ID, "period")
		}

		var grades int64
		if err := tx.Model(&models.Grade{}).Where("period_id = ?", id).Count(&grades).Error; err != nil {
			return err
		}
		if grades > 0 {
			return utils.NewValidationError("id", "cannot delete a period that has recorded grades")
		}

		if err := tx.Delete(&period).Error; err != nil {
			return err
		}
		if config.AppConfig != nil && config.AppConfig.ResequenceOnDelete {
			return s.resequence(tx, period.AcademicYearID, period.PeriodSystem)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.invalidateCurrentPeriodCache()
	return nil
}

// SetActivePeriod flags one period active and clears every other period
// of the same academic year. Archived periods cannot be reactivated.
func (s *CalendarService) SetActivePeriod(id uint) (*models.AcademicPeriod, error) {
	var period models.AcademicPeriod
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&period, id).Error; err != nil {
			return err
		}
		if period.Archived {
			return utils.NewValidationError("id", "archived periods cannot be activated")
		}
		if err := deactivateSiblingPeriods(tx, period.AcademicYearID, id).Error; err != nil {
			return err
		}
		period.Active = true
		return tx.Save(&period).Error
	})
	if err != nil {
		return nil, err
	}
	s.invalidateCurrentPeriodCache()
	return &period, nil
}

// LockPeriod freezes a period's grades and dates. Idempotent.
func (s *CalendarService) LockPeriod(id uint) (*models.AcademicPeriod, error) {
	return s.setLocked(id, true)
}

// UnlockPeriod reopens a period. Idempotent; archived periods stay locked.
func (s *CalendarService) UnlockPeriod(id uint) (*models.AcademicPeriod, error) {
	return s.setLocked(id, false)
}

func (s *CalendarService) setLocked(id uint, locked bool) (*models.AcademicPeriod, error) {
	var period models.AcademicPeriod
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&period, id).Error; err != nil {
			return err
		}
		if !locked && period.Archived {
			return utils.NewLockedPeriodError(period.ID, "archived period")
		}
		if locked && period.EndDate.IsZero() {
			return utils.NewValidationError("end_date", "a period without an end date cannot be locked")
		}
		if period.Locked == locked {
			return nil
		}
		period.Locked = locked
		return tx.Save(&period).Error
	})
	if err != nil {
		return nil, err
	}
	return &period, nil
}

// ArchivePeriod marks a period archived. Archiving locks and deactivates
// it; the flag is sticky.
func (s *CalendarService) ArchivePeriod(id uint) (*models.AcademicPeriod, error) {
	var period models.AcademicPeriod
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&period, id).Error; err != nil {
			return err
		}
		if period.Archived {
			return nil
		}
		period.Archived = true
		period.Locked = true
		period.Active = false
		return tx.Save(&period).Error
	})
	if err != nil {
		return nil, err
	}
	s.invalidateCurrentPeriodCache()
	return &period, nil
}

// GetPeriod fetches one period with its year preloaded.
func (s *CalendarService) GetPeriod(id uint) (*models.AcademicPeriod, error) {
	var period models.AcademicPeriod
	if err := database.DB.Preload("AcademicYear").First(&period, id).Error; err != nil {
		return nil, err
	}
	return &period, nil
}

// GetPeriods lists the periods of a year ordered by sequence.
func (s *CalendarService) GetPeriods(yearID uint) ([]models.AcademicPeriod, error) {
	var periods []models.AcademicPeriod
	err := database.DB.Where("academic_year_id = ?", yearID).
		Order("sequence ASC, start_date ASC").Find(&periods).Error
	return periods, err
}

// CurrentPeriod resolves the period in effect now: the explicitly active
// one, or the period whose dates contain today. The result is cached in
// Redis for one minute.
func (s *CalendarService) CurrentPeriod() (*models.AcademicPeriod, error) {
	if cached := s.cachedCurrentPeriod(); cached != nil {
		return cached, nil
	}

	var period models.AcademicPeriod
	err := database.DB.Preload("AcademicYear").Where("active = ? AND archived = ?", true, false).First(&period).Error
	if err == gorm.ErrRecordNotFound {
		today := time.Now()
		err = database.DB.Preload("AcademicYear").
			Where("archived = ? AND start_date <= ? AND end_date >= ?", false, today, today).
			Order("start_date ASC").First(&period).Error
	}
	if err != nil {
		return nil, err
	}

	s.cacheCurrentPeriod(&period)
	return &period, nil
}

// NextPeriod returns the sibling with the next higher sequence, or nil at
// the end of the year.
func (s *CalendarService) NextPeriod(id uint) (*models.AcademicPeriod, error) {
	return s.adjacentPeriod(id, +1)
}

// PreviousPeriod returns the sibling with the next lower sequence, or nil
// at the start of the year.
func (s *CalendarService) PreviousPeriod(id uint) (*models.AcademicPeriod, error) {
	return s.adjacentPeriod(id, -1)
}

func (s *CalendarService) adjacentPeriod(id uint, direction int) (*models.AcademicPeriod, error) {
	var period models.AcademicPeriod
	if err := database.DB.First(&period, id).Error; err != nil {
		return nil, err
	}
	var sibling models.AcademicPeriod
	err := database.DB.Where("academic_year_id = ? AND period_system = ? AND sequence = ?",
		period.AcademicYearID, period.PeriodSystem, period.Sequence+direction).First(&sibling).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sibling, nil
}

// validateAgainstSiblings rejects a period that collides with a sibling
// of the same year and system: a taken period number or overlapping
// dates both report an OverlapError.
func validateAgainstSiblings(period *models.AcademicPeriod, siblings []models.AcademicPeriod) error {
	for i := range siblings {
		if siblings[i].ID == period.ID {
			continue
		}
		if siblings[i].PeriodNumber == period.PeriodNumber {
			return utils.NewOverlapError("period_number",
				fmt.Sprintf("period %d already exists for this year and system", period.PeriodNumber))
		}
		if siblings[i].Overlaps(period) {
			return utils.NewOverlapError("dates",
				fmt.Sprintf("dates overlap %q (%s to %s)", siblings[i].Name,
					siblings[i].StartDate.Format("2006-01-02"), siblings[i].EndDate.Format("2006-01-02")))
		}
	}
	return nil
}

// deactivateSiblingPeriods clears the active flag on every other period
// of one academic year. Periods of other years keep their flag.
func deactivateSiblingPeriods(tx *gorm.DB, yearID, exceptID uint) *gorm.DB {
	return tx.Model(&models.AcademicPeriod{}).
		Where("academic_year_id = ? AND id <> ?", yearID, exceptID).
		Update("active", false)
}

// resequence reloads the siblings of (year, system) and rewrites their
// 1-based sequence numbers by ascending start date.
func (s *CalendarService) resequence(tx *gorm.DB, yearID uint, system string) error {
	var siblings []models.AcademicPeriod
	if err := tx.Where("academic_year_id = ? AND period_system = ?", yearID, system).Find(&siblings).Error; err != nil {
		return err
	}
	models.ComputeSequences(siblings)
	for i := range siblings {
		if err := tx.Model(&models.AcademicPeriod{}).Where("id = ?", siblings[i].ID).
			Update("sequence", siblings[i].Sequence).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *CalendarService) cachedCurrentPeriod() *models.AcademicPeriod {
	redisClient := database.GetRedisClient()
	if redisClient == nil {
		return nil
	}
	ctx := context.Background()
	data, err := redisClient.Get(ctx, currentPeriodCacheKey).Bytes()
	if err != nil {
		return nil
	}
	var period models.AcademicPeriod
	if err := json.Unmarshal(data, &period); err != nil {
		return nil
	}
	return &period
}

func (s *CalendarService) cacheCurrentPeriod(period *models.AcademicPeriod) {
	redisClient := database.GetRedisClient()
	if redisClient == nil {
		return
	}
	data, err := json.Marshal(period)
	if err != nil {
		return
	}
	if err := redisClient.Set(context.Background(), currentPeriodCacheKey, data, time.Minute).Err(); err != nil {
		logrus.WithError(err).Warn("Failed to cache current period")
	}
}

func (s *CalendarService) invalidateCurrentPeriodCache() {
	redisClient := database.GetRedisClient()
	if redisClient == nil {
		return
	}
	if err := redisClient.Del(context.Background(), currentPeriodCacheKey).Err(); err != nil {
		logrus.WithError(err).Warn("Failed to invalidate current period cache")
	}
}
