package models

import (
	"fmt"
	"math"
	"time"

	"gesschool_go/utils"
)

// GradeNotAvailable is the explicit sentinel used when a score cannot be
// classified. Classification fields are never left empty.
const GradeNotAvailable = "N/A"

// Grading display modes
const (
	GradingSystemGES    = "GES"
	GradingSystemLetter = "LETTER"
	GradingSystemBoth   = "BOTH"
)

// GradeBand is one row of a boundary table: the band code and the minimum
// total score that earns it.
type GradeBand struct {
	Code string
	Min  float64
}

// GradeBoundaryConfig holds the institution-wide grading configuration:
// the GES numeric and letter boundary tables, the assessment component
// weights and the passing mark. Exactly one row exists (pk 1).
type GradeBoundaryConfig struct {
	BaseModel
	GradingSystem string `json:"grading_system" gorm:"size:10;not null;default:'GES';type:enum('GES','LETTER','BOTH')"` // GES, LETTER, BOTH
	SchoolName    string `json:"school_name" gorm:"size:200;default:'Ghana Education Service School'"`
	Locked        bool   `json:"locked" gorm:"default:false"`

	// GES numeric bands 1..8; band 9 is the catch-all floor at 0.
	Grade1Min float64 `json:"grade_1_min" gorm:"type:decimal(5,2);default:90.00"`
	Grade2Min float64 `json:"grade_2_min" gorm:"type:decimal(5,2);default:80.00"`
	Grade3Min float64 `json:"grade_3_min" gorm:"type:decimal(5,2);default:70.00"`
	Grade4Min float64 `json:"grade_4_min" gorm:"type:decimal(5,2);default:60.00"`
	Grade5Min float64 `json:"grade_5_min" gorm:"type:decimal(5,2);default:50.00"`
	Grade6Min float64 `json:"grade_6_min" gorm:"type:decimal(5,2);default:40.00"`
	Grade7Min float64 `json:"grade_7_min" gorm:"type:decimal(5,2);default:30.00"`
	Grade8Min float64 `json:"grade_8_min" gorm:"type:decimal(5,2);default:20.00"`

	// Letter bands A+..D; F is the catch-all floor at 0.
	LetterAPlusMin float64 `json:"letter_a_plus_min" gorm:"type:decimal(5,2);default:90.00"`
	LetterAMin     float64 `json:"letter_a_min" gorm:"type:decimal(5,2);default:80.00"`
	LetterBPlusMin float64 `json:"letter_b_plus_min" gorm:"type:decimal(5,2);default:70.00"`
	LetterBMin     float64 `json:"letter_b_min" gorm:"type:decimal(5,2);default:60.00"`
	LetterCPlusMin float64 `json:"letter_c_plus_min" gorm:"type:decimal(5,2);default:50.00"`
	LetterCMin     float64 `json:"letter_c_min" gorm:"type:decimal(5,2);default:40.00"`
	LetterDPlusMin float64 `json:"letter_d_plus_min" gorm:"type:decimal(5,2);default:30.00"`
	LetterDMin     float64 `json:"letter_d_min" gorm:"type:decimal(5,2);default:20.00"`

	// Assessment component weights; must sum to 100.
	HomeworkWeight  float64 `json:"homework_weight" gorm:"type:decimal(5,2);default:20.00"`
	ClassworkWeight float64 `json:"classwork_weight" gorm:"type:decimal(5,2);default:30.00"`
	TestWeight      float64 `json:"test_weight" gorm:"type:decimal(5,2);default:10.00"`
	ExamWeight      float64 `json:"exam_weight" gorm:"type:decimal(5,2);default:40.00"`

	// PassingMark may not exceed the sixth numeric band minimum.
	PassingMark float64 `json:"passing_mark" gorm:"type:decimal(5,2);default:40.00"`
}

// DefaultBoundaryConfig returns the GES standard configuration.
func DefaultBoundaryConfig() *GradeBoundaryConfig {
	return &GradeBoundaryConfig{
		GradingSystem: GradingSystemGES,
		SchoolName:    "Ghana Education Service School",
		Grade1Min:     90, Grade2Min: 80, Grade3Min: 70, Grade4Min: 60,
		Grade5Min: 50, Grade6Min: 40, Grade7Min: 30, Grade8Min: 20,
		LetterAPlusMin: 90, LetterAMin: 80, LetterBPlusMin: 70, LetterBMin: 60,
		LetterCPlusMin: 50, LetterCMin: 40, LetterDPlusMin: 30, LetterDMin: 20,
		HomeworkWeight: 20, ClassworkWeight: 30, TestWeight: 10, ExamWeight: 40,
		PassingMark: 40,
	}
}

// NumericBands returns the nine GES bands ordered 1..9 by descending
// minimum. Band 9 is the floor.
func (c *GradeBoundaryConfig) NumericBands() []GradeBand {
	return []GradeBand{
		{"1", c.Grade1Min}, {"2", c.Grade2Min}, {"3", c.Grade3Min},
		{"4", c.Grade4Min}, {"5", c.Grade5Min}, {"6", c.Grade6Min},
		{"7", c.Grade7Min}, {"8", c.Grade8Min}, {"9", 0},
	}
}

// LetterBands returns the nine letter bands from A+ down to the F floor.
func (c *GradeBoundaryConfig) LetterBands() []GradeBand {
	return []GradeBand{
		{"A+", c.LetterAPlusMin}, {"A", c.LetterAMin}, {"B+", c.LetterBPlusMin},
		{"B", c.LetterBMin}, {"C+", c.LetterCPlusMin}, {"C", c.LetterCMin},
		{"D+", c.LetterDPlusMin}, {"D", c.LetterDMin}, {"F", 0},
	}
}

// Weights returns the four component weights in homework, classwork,
// test, exam order.
func (c *GradeBoundaryConfig) Weights() [4]float64 {
	return [4]float64{c.HomeworkWeight, c.ClassworkWeight, c.TestWeight, c.ExamWeight}
}

// Validate checks every configuration invariant; any violation rejects
// the whole change.
func (c *GradeBoundaryConfig) Validate() error {
	numeric := c.NumericBands()
	for i := 0; i < len(numeric)-1; i++ {
		if numeric[i].Min <= numeric[i+1].Min {
			return utils.NewConfigInconsistentError(
				fmt.Sprintf("grade_%s_min", numeric[i].Code),
				fmt.Sprintf("grade %s minimum must be greater than grade %s minimum", numeric[i].Code, numeric[i+1].Code))
		}
	}
	letters := c.LetterBands()
	for i := 0; i < len(letters)-1; i++ {
		if letters[i].Min <= letters[i+1].Min {
			return utils.NewConfigInconsistentError(
				letterBoundaryField(letters[i].Code),
				fmt.Sprintf("%s minimum must be greater than %s minimum", letters[i].Code, letters[i+1].Code))
		}
	}

	total := c.HomeworkWeight + c.ClassworkWeight + c.TestWeight + c.ExamWeight
	if math.Abs(total-100) > 0.01 {
		return utils.NewConfigInconsistentError("weights",
			fmt.Sprintf("assessment weights must total 100%%, got %.2f%%", total))
	}

	if c.PassingMark < 0 || c.PassingMark > 100 {
		return utils.NewConfigInconsistentError("passing_mark", "passing mark must be between 0 and 100")
	}
	if c.PassingMark > c.Grade6Min {
		return utils.NewConfigInconsistentError("passing_mark",
			fmt.Sprintf("passing mark may not exceed the grade 6 minimum (%.2f)", c.Grade6Min))
	}
	return nil
}

func letterBoundaryField(code string) string {
	switch code {
	case "A+":
		return "letter_a_plus_min"
	case "A":
		return "letter_a_min"
	case "B+":
		return "letter_b_plus_min"
	case "B":
		return "letter_b_min"
	case "C+":
		return "letter_c_plus_min"
	case "C":
		return "letter_c_min"
	case "D+":
		return "letter_d_plus_min"
	case "D":
		return "letter_d_min"
	default:
		return "letter_f"
	}
}

// Subject model
type Subject struct {
	BaseModel
	Name     string `json:"name" gorm:"size:100;not null;uniqueIndex"`
	Code     string `json:"code" gorm:"size:20;uniqueIndex"`
	MustPass bool   `json:"must_pass" gorm:"default:false"`
	Active   bool   `json:"active" gorm:"default:true"`
}

// Student model - the roster slice the grading engine needs; admissions
// and guardian data live elsewhere.
type Student struct {
	BaseModel
	FirstName   string `json:"first_name" gorm:"size:100;not null"`
	LastName    string `json:"last_name" gorm:"size:100;not null"`
	AdmissionNo string `json:"admission_no" gorm:"size:30;uniqueIndex"`
	ClassLevel  string `json:"class_level" gorm:"size:2;not null;index"` // P1..P6, J1..J3
	Active      bool   `json:"active" gorm:"default:true;index"`
}

// FullName returns "First Last".
func (s *Student) FullName() string {
	return fmt.Sprintf("%s %s", s.FirstName, s.LastName)
}

// Grade model - one row per (student, subject, period). The four raw
// component percentages are stored as entered; total score and both
// classifications are derived.
type Grade struct {
	BaseModel
	StudentID      uint `json:"student_id" gorm:"not null;index;uniqueIndex:idx_student_subject_period,priority:1"`
	SubjectID      uint `json:"subject_id" gorm:"not null;index;uniqueIndex:idx_student_subject_period,priority:2"`
	AcademicYearID uint `json:"academic_year_id" gorm:"not null;index"`
	PeriodID       uint `json:"period_id" gorm:"not null;index;uniqueIndex:idx_student_subject_period,priority:3"`

	HomeworkPercent  float64 `json:"homework_percent" gorm:"type:decimal(5,2);default:0.00"`
	ClassworkPercent float64 `json:"classwork_percent" gorm:"type:decimal(5,2);default:0.00"`
	TestPercent      float64 `json:"test_percent" gorm:"type:decimal(5,2);default:0.00"`
	ExamPercent      float64 `json:"exam_percent" gorm:"type:decimal(5,2);default:0.00"`

	TotalScore   *float64 `json:"total_score" gorm:"type:decimal(5,2)"`
	NumericGrade string   `json:"numeric_grade" gorm:"size:3;default:'N/A'"`
	LetterGrade  string   `json:"letter_grade" gorm:"size:3;default:'N/A'"`

	Locked       bool   `json:"locked" gorm:"default:false"`
	Remarks      string `json:"remarks" gorm:"type:text"`
	RecordedByID uint   `json:"recorded_by_id"`

	// Relationships
	Student      Student        `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Subject      Subject        `json:"subject,omitempty" gorm:"foreignKey:SubjectID"`
	AcademicYear AcademicYear   `json:"academic_year,omitempty" gorm:"foreignKey:AcademicYearID"`
	Period       AcademicPeriod `json:"period,omitempty" gorm:"foreignKey:PeriodID"`
	RecordedBy   User           `json:"recorded_by,omitempty" gorm:"foreignKey:RecordedByID"`
}

// IsPassing reports whether the grade clears the configured passing mark.
func (g *Grade) IsPassing(passMark float64) bool {
	return g.TotalScore != nil && *g.TotalScore >= passMark
}

// StudentAttendance model - one row per student per school day. Rows for a
// locked period may not be written.
type StudentAttendance struct {
	BaseModel
	StudentID uint     `json:"student_id" gorm:"not null;index;uniqueIndex:idx_student_period_date,priority:1"`
	PeriodID  uint     `json:"period_id" gorm:"not null;index;uniqueIndex:idx_student_period_date,priority:2"`
	Date      DateOnly `json:"date" gorm:"type:date;not null;uniqueIndex:idx_student_period_date,priority:3"`
	Status    string   `json:"status" gorm:"size:20;not null;default:'present';type:enum('present','absent','late')"` // present, absent, late

	// Relationships
	Student Student        `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Period  AcademicPeriod `json:"period,omitempty" gorm:"foreignKey:PeriodID"`
}

// AttendanceSummary aggregates a student's attendance for a period.
type AttendanceSummary struct {
	PresentDays    int     `json:"present_days"`
	AbsentDays     int     `json:"absent_days"`
	LateDays       int     `json:"late_days"`
	TotalDays      int     `json:"total_days"`
	AttendanceRate float64 `json:"attendance_rate"`
}

// SummarizeAttendance computes the attendance rate for a set of daily
// records; late counts as present.
func SummarizeAttendance(records []StudentAttendance) AttendanceSummary {
	var summary AttendanceSummary
	for _, r := range records {
		summary.TotalDays++
		switch r.Status {
		case "absent":
			summary.AbsentDays++
		case "late":
			summary.LateDays++
			summary.PresentDays++
		default:
			summary.PresentDays++
		}
	}
	if summary.TotalDays > 0 {
		summary.AttendanceRate = math.Round(float64(summary.PresentDays)/float64(summary.TotalDays)*100*100) / 100
	}
	return summary
}

// ReportCard model - the published per-student period summary.
type ReportCard struct {
	BaseModel
	StudentID        uint       `json:"student_id" gorm:"not null;index;uniqueIndex:idx_student_period,priority:1"`
	PeriodID         uint       `json:"period_id" gorm:"not null;index;uniqueIndex:idx_student_period,priority:2"`
	AverageScore     float64    `json:"average_score" gorm:"type:decimal(5,2);default:0.00"`
	OverallGrade     string     `json:"overall_grade" gorm:"size:10;default:'N/A'"`
	Position         string     `json:"position" gorm:"size:20"`
	Published        bool       `json:"published" gorm:"default:false"`
	PublishedAt      *time.Time `json:"published_at"`
	TeacherRemarks   string     `json:"teacher_remarks" gorm:"type:text"`
	PrincipalRemarks string     `json:"principal_remarks" gorm:"type:text"`

	// Relationships
	Student Student        `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Period  AcademicPeriod `json:"period,omitempty" gorm:"foreignKey:PeriodID"`
}
