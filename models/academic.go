package models

import (
	"database/sql/driver"
	"fmt"
	"sort"
	"time"

	"gesschool_go/utils"
)

// Period systems supported by the calendar.
const (
	PeriodSystemTerm      = "TERM"
	PeriodSystemSemester  = "SEMESTER"
	PeriodSystemQuarter   = "QUARTER"
	PeriodSystemTrimester = "TRIMESTER"
	PeriodSystemCustom    = "CUSTOM"
)

// Derived period statuses. Only ARCHIVED is sticky; the rest are computed
// from today's date on every read.
const (
	PeriodStatusPlanned   = "PLANNED"
	PeriodStatusActive    = "ACTIVE"
	PeriodStatusCompleted = "COMPLETED"
	PeriodStatusArchived  = "ARCHIVED"
)

var maxPeriodNumbers = map[string]int{
	PeriodSystemTerm:      3,
	PeriodSystemSemester:  2,
	PeriodSystemQuarter:   4,
	PeriodSystemTrimester: 3,
	PeriodSystemCustom:    6,
}

// MaxPeriodNumber returns the highest allowed period number for a system,
// or 0 when the system is unknown.
func MaxPeriodNumber(system string) int {
	return maxPeriodNumbers[system]
}

// DateOnly stores and serializes calendar dates in YYYY-MM-DD format
type DateOnly struct {
	time.Time
}

func (d *DateOnly) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == "" || s == `""` {
		d.Time = time.Time{}
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (d DateOnly) MarshalJSON() ([]byte, error) {
	if d.Time.IsZero() {
		return []byte("null"), nil
	}
	return []byte(fmt.Sprintf(`"%s"`, d.Time.Format("2006-01-02"))), nil
}

func (d *DateOnly) Scan(value interface{}) error {
	if value == nil {
		d.Time = time.Time{}
		return nil
	}
	if t, ok := value.(time.Time); ok {
		d.Time = t
		return nil
	}
	return fmt.Errorf("cannot scan %T into DateOnly", value)
}

func (d DateOnly) Value() (driver.Value, error) {
	if d.Time.IsZero() {
		return nil, nil
	}
	return d.Time, nil
}

// AcademicYear model
type AcademicYear struct {
	BaseModel
	Name        string   `json:"name" gorm:"size:9;not null;uniqueIndex"`
	StartDate   DateOnly `json:"start_date" gorm:"type:date;not null;index"`
	EndDate     DateOnly `json:"end_date" gorm:"type:date;not null;index"`
	Active      bool     `json:"active" gorm:"default:false;index"`
	Description string   `json:"description" gorm:"type:text"`

	// Relationships
	Periods []AcademicPeriod `json:"periods,omitempty" gorm:"foreignKey:AcademicYearID"`
}

// Validate checks the year name format/sequence and date order.
func (y *AcademicYear) Validate() error {
	if err := utils.ValidateAcademicYearName(y.Name); err != nil {
		return err
	}
	if y.StartDate.IsZero() {
		return utils.NewValidationError("start_date", "start date is required")
	}
	if y.EndDate.IsZero() {
		return utils.NewValidationError("end_date", "end date is required")
	}
	if !y.StartDate.Before(y.EndDate.Time) {
		return utils.NewValidationError("end_date", "end date must be after start date")
	}
	return nil
}

// ContainsDate reports whether the date falls inside the year's range.
func (y *AcademicYear) ContainsDate(t time.Time) bool {
	if y.StartDate.IsZero() || y.EndDate.IsZero() {
		return false
	}
	return !t.Before(y.StartDate.Time) && !t.After(y.EndDate.Time)
}

// AcademicPeriod model (term, semester, quarter, trimester or custom slice
// of an academic year)
type AcademicPeriod struct {
	BaseModel
	AcademicYearID uint     `json:"academic_year_id" gorm:"not null;index;uniqueIndex:idx_year_system_number,priority:1"`
	PeriodSystem   string   `json:"period_system" gorm:"size:10;not null;default:'TERM';uniqueIndex:idx_year_system_number,priority:2"`
	PeriodNumber   int      `json:"period_number" gorm:"not null;uniqueIndex:idx_year_system_number,priority:3"`
	Name           string   `json:"name" gorm:"size:100"`
	StartDate      DateOnly `json:"start_date" gorm:"type:date;index"`
	EndDate        DateOnly `json:"end_date" gorm:"type:date;index"`
	Active         bool     `json:"active" gorm:"default:false;index"`
	Locked         bool     `json:"locked" gorm:"default:false"`
	Archived       bool     `json:"archived" gorm:"default:false"`
	Sequence       int      `json:"sequence" gorm:"default:1"`
	Description    string   `json:"description" gorm:"type:text"`

	// Relationships
	AcademicYear AcademicYear `json:"academic_year,omitempty" gorm:"foreignKey:AcademicYearID"`
}

// DefaultName builds the display name from system and number ("Term 1",
// "Semester 2", ...).
func (p *AcademicPeriod) DefaultName() string {
	labels := map[string]string{
		PeriodSystemTerm:      "Term",
		PeriodSystemSemester:  "Semester",
		PeriodSystemQuarter:   "Quarter",
		PeriodSystemTrimester: "Trimester",
		PeriodSystemCustom:    "Period",
	}
	label, ok := labels[p.PeriodSystem]
	if !ok {
		label = "Period"
	}
	return fmt.Sprintf("%s %d", label, p.PeriodNumber)
}

// Validate checks the period number bound for its system, the date order
// and the containment inside the parent year.
func (p *AcademicPeriod) Validate(year *AcademicYear) error {
	max := MaxPeriodNumber(p.PeriodSystem)
	if max == 0 {
		return utils.NewValidationError("period_system", "unknown period system")
	}
	if p.PeriodNumber < 1 || p.PeriodNumber > max {
		return utils.NewValidationError("period_number",
			fmt.Sprintf("period number must be 1-%d for the %s system", max, p.PeriodSystem))
	}
	if p.StartDate.IsZero() {
		return utils.NewValidationError("start_date", "start date is required")
	}
	if p.EndDate.IsZero() {
		return utils.NewValidationError("end_date", "end date is required")
	}
	if !p.StartDate.Before(p.EndDate.Time) {
		return utils.NewValidationError("end_date", "end date must be after start date")
	}
	if year != nil {
		if p.StartDate.Before(year.StartDate.Time) {
			return utils.NewValidationError("start_date", "period cannot start before the academic year")
		}
		if p.EndDate.After(year.EndDate.Time) {
			return utils.NewValidationError("end_date", "period cannot end after the academic year")
		}
	}
	return nil
}

// Overlaps applies the half-open interval test against a sibling period:
// [start, end) ranges conflict when existing.start < new.end and
// existing.end > new.start.
func (p *AcademicPeriod) Overlaps(other *AcademicPeriod) bool {
	if p.StartDate.IsZero() || p.EndDate.IsZero() || other.StartDate.IsZero() || other.EndDate.IsZero() {
		return false
	}
	return other.StartDate.Before(p.EndDate.Time) && other.EndDate.After(p.StartDate.Time)
}

// StatusOn derives the lifecycle status for a reference date. Archived is
// sticky; otherwise the status follows the date range.
func (p *AcademicPeriod) StatusOn(today time.Time) string {
	if p.Archived {
		return PeriodStatusArchived
	}
	if p.StartDate.IsZero() || p.EndDate.IsZero() {
		return PeriodStatusPlanned
	}
	// Compare on the caller's calendar date; stored dates are UTC midnights
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if day.Before(p.StartDate.Time) {
		return PeriodStatusPlanned
	}
	if day.After(p.EndDate.Time) {
		return PeriodStatusCompleted
	}
	return PeriodStatusActive
}

// Status derives the lifecycle status for today.
func (p *AcademicPeriod) Status() string {
	return p.StatusOn(time.Now())
}

// ContainsDate reports whether the date falls inside the period's range.
func (p *AcademicPeriod) ContainsDate(t time.Time) bool {
	if p.StartDate.IsZero() || p.EndDate.IsZero() {
		return false
	}
	return !t.Before(p.StartDate.Time) && !t.After(p.EndDate.Time)
}

// ComputeSequences assigns 1-based sequence numbers to sibling periods
// (same year and system) ordered by ascending start date. The slice is
// sorted in place and the Sequence fields updated.
func ComputeSequences(periods []AcademicPeriod) {
	sort.SliceStable(periods, func(i, j int) bool {
		return periods[i].StartDate.Before(periods[j].StartDate.Time)
	})
	for i := range periods {
		periods[i].Sequence = i + 1
	}
}
