package services

import (
	"fmt"

	"gesschool_go/database"
	"gesschool_go/models"
	"gesschool_go/utils"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// GradingService computes weighted totals and classifies them against the
// boundary configuration. Score arithmetic goes through decimals so that
// 2dp rounding is exact (round half up), never float-drifted.
type GradingService struct{}

func NewGradingService() *GradingService {
	return &GradingService{}
}

// ComponentScores carries the four raw assessment percentages.
type ComponentScores struct {
	Homework  float64 `json:"homework_percent" validate:"min=0,max=100"`
	Classwork float64 `json:"classwork_percent" validate:"min=0,max=100"`
	Test      float64 `json:"test_percent" validate:"min=0,max=100"`
	Exam      float64 `json:"exam_percent" validate:"min=0,max=100"`
}

// ValidateScores rejects any component outside 0..100.
func ValidateScores(scores ComponentScores) error {
	checks := []struct {
		field string
		value float64
	}{
		{"homework_percent", scores.Homework},
		{"classwork_percent", scores.Classwork},
		{"test_percent", scores.Test},
		{"exam_percent", scores.Exam},
	}
	for _, c := range checks {
		if c.value < 0 || c.value > 100 {
			return utils.NewValidationError(c.field, "score must be between 0 and 100")
		}
	}
	return nil
}

// ComputeTotal applies the configured weights to the raw components and
// rounds half-up to two decimals. With the default 20/30/10/40 weights,
// raw scores 75/80/70/85 yield exactly 80.00. A missing configuration
// yields 0.
func ComputeTotal(scores ComponentScores, cfg *models.GradeBoundaryConfig) float64 {
	if cfg == nil {
		return 0
	}
	hundred := decimal.NewFromInt(100)
	total := decimal.NewFromFloat(scores.Homework).Mul(decimal.NewFromFloat(cfg.HomeworkWeight)).
		Add(decimal.NewFromFloat(scores.Classwork).Mul(decimal.NewFromFloat(cfg.ClassworkWeight))).
		Add(decimal.NewFromFloat(scores.Test).Mul(decimal.NewFromFloat(cfg.TestWeight))).
		Add(decimal.NewFromFloat(scores.Exam).Mul(decimal.NewFromFloat(cfg.ExamWeight))).
		Div(hundred)
	f, _ := total.Round(2).Float64()
	return f
}

// ClassifyNumeric maps a total score onto the GES 1..9 band table. Scores
// outside 0..100 and a missing configuration classify as N/A.
func ClassifyNumeric(total float64, cfg *models.GradeBoundaryConfig) string {
	if cfg == nil {
		return models.GradeNotAvailable
	}
	return classify(total, cfg.NumericBands())
}

// ClassifyLetter maps a total score onto the A+..F band table.
func ClassifyLetter(total float64, cfg *models.GradeBoundaryConfig) string {
	if cfg == nil {
		return models.GradeNotAvailable
	}
	return classify(total, cfg.LetterBands())
}

func classify(total float64, bands []models.GradeBand) string {
	if total < 0 || total > 100 {
		return models.GradeNotAvailable
	}
	for _, band := range bands {
		if total >= band.Min {
			return band.Code
		}
	}
	return models.GradeNotAvailable
}

// BoundaryConfig returns the singleton configuration row.
func (s *GradingService) BoundaryConfig() (*models.GradeBoundaryConfig, error) {
	var cfg models.GradeBoundaryConfig
	if err := database.DB.First(&cfg).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}

// UpdateBoundaryConfig revalidates the whole configuration and, on
// success, recomputes the classification of every grade in an unlocked
// period under the new tables. Any invariant violation rejects the entire
// change.
func (s *GradingService) UpdateBoundaryConfig(updated *models.GradeBoundaryConfig) (*models.GradeBoundaryConfig, error) {
	var cfg models.GradeBoundaryConfig
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&cfg).Error; err != nil {
			return err
		}
		if cfg.Locked {
			return utils.NewValidationError("locked", "grading configuration is locked")
		}

		id := cfg.ID
		createdAt := cfg.CreatedAt
		cfg = *updated
		cfg.ID = id
		cfg.CreatedAt = createdAt

		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := tx.Save(&cfg).Error; err != nil {
			return err
		}
		return s.recomputeUnlockedGrades(tx, &cfg)
	})
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// recomputeUnlockedGrades re-derives total and classifications for every
// grade whose period is not locked. Raw component scores are never
// touched.
func (s *GradingService) recomputeUnlockedGrades(tx *gorm.DB, cfg *models.GradeBoundaryConfig) error {
	var grades []models.Grade
	if err := tx.Joins("JOIN academic_periods ON academic_periods.id = grades.period_id").
		Where("academic_periods.locked = ?", false).
		Find(&grades).Error; err != nil {
		return err
	}

	recomputed := 0
	for i := range grades {
		g := &grades[i]
		scores := ComponentScores{
			Homework:  g.HomeworkPercent,
			Classwork: g.ClassworkPercent,
			Test:      g.TestPercent,
			Exam:      g.ExamPercent,
		}
		total := ComputeTotal(scores, cfg)
		g.TotalScore = &total
		g.NumericGrade = ClassifyNumeric(total, cfg)
		g.LetterGrade = ClassifyLetter(total, cfg)
		if err := tx.Model(&models.Grade{}).Where("id = ?", g.ID).Updates(map[string]interface{}{
			"total_score":   total,
			"numeric_grade": g.NumericGrade,
			"letter_grade":  g.LetterGrade,
		}).Error; err != nil {
			return err
		}
		recomputed++
	}

	logrus.WithField("count", recomputed).Info("Recomputed grades after boundary change")
	return nil
}

// GradeInput is the write payload for recording or updating a grade.
type GradeInput struct {
	StudentID uint `json:"student_id" validate:"required"`
	SubjectID uint `json:"subject_id" validate:"required"`
	PeriodID  uint `json:"period_id" validate:"required"`
	ComponentScores
	Remarks      string `json:"remarks"`
	RecordedByID uint   `json:"-"`
}

// SaveGrade records (or upserts) a grade for (student, subject, period):
// validates the scores, derives total and classifications, and refuses
// writes into locked periods or onto locked grades.
func (s *GradingService) SaveGrade(input GradeInput) (*models.Grade, error) {
	if err := ValidateScores(input.ComponentScores); err != nil {
		return nil, err
	}

	var grade models.Grade
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var period models.AcademicPeriod
		if err := tx.First(&period, input.PeriodID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return utils.NewValidationError("period_id", "period not found")
			}
			return err
		}
		if period.Locked {
			return utils.NewLockedPeriodError(period.ID, "grades")
		}

		var student models.Student
		if err := tx.First(&student, input.StudentID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return utils.NewValidationError("student_id", "student not found")
			}
			return err
		}
		var subject models.Subject
		if err := tx.First(&subject, input.SubjectID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return utils.NewValidationError("subject_id", "subject not found")
			}
			return err
		}

		var cfg models.GradeBoundaryConfig
		if err := tx.First(&cfg).Error; err != nil {
			return err
		}

		// Upsert on the (student, subject, period) key
		err := tx.Where("student_id = ? AND subject_id = ? AND period_id = ?",
			input.StudentID, input.SubjectID, input.PeriodID).First(&grade).Error
		if err != nil && err != gorm.ErrRecordNotFound {
			return err
		}
		if err == nil && grade.Locked {
			return utils.NewLockedPeriodError(period.ID, fmt.Sprintf("grade %d", grade.ID))
		}

		grade.StudentID = input.StudentID
		grade.SubjectID = input.SubjectID
		grade.PeriodID = input.PeriodID
		grade.AcademicYearID = period.AcademicYearID
		grade.HomeworkPercent = input.Homework
		grade.ClassworkPercent = input.Classwork
		grade.TestPercent = input.Test
		grade.ExamPercent = input.Exam
		grade.Remarks = input.Remarks
		if input.RecordedByID != 0 {
			grade.RecordedByID = input.RecordedByID
		}

		total := ComputeTotal(input.ComponentScores, &cfg)
		grade.TotalScore = &total
		grade.NumericGrade = ClassifyNumeric(total, &cfg)
		grade.LetterGrade = ClassifyLetter(total, &cfg)

		return tx.Save(&grade).Error
	})
	if err != nil {
		return nil, err
	}
	return &grade, nil
}

// SetGradeLocked freezes or reopens a single grade row. Toggling is
// refused while the owning period is locked. Idempotent.
func (s *GradingService) SetGradeLocked(id uint, locked bool) (*models.Grade, error) {
	var grade models.Grade
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&grade, id).Error; err != nil {
			return err
		}
		var period models.AcademicPeriod
		if err := tx.First(&period, grade.PeriodID).Error; err != nil {
			return err
		}
		if period.Locked {
			return utils.NewLockedPeriodError(period.ID, "grades")
		}
		if grade.Locked == locked {
			return nil
		}
		grade.Locked = locked
		return tx.Save(&grade).Error
	})
	if err != nil {
		return nil, err
	}
	return &grade, nil
}

// DeleteGrade removes a grade unless its period or the grade itself is
// locked.
func (s *GradingService) DeleteGrade(id uint) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		var grade models.Grade
		if err := tx.First(&grade, id).Error; err != nil {
			return err
		}
		if grade.Locked {
			return utils.NewLockedPeriodError(grade.PeriodID, fmt.Sprintf("grade %d", grade.ID))
		}
		var period models.AcademicPeriod
		if err := tx.First(&period, grade.PeriodID).Error; err != nil {
			return err
		}
		if period.Locked {
			return utils.NewLockedPeriodError(period.ID, "grades")
		}
		return tx.Delete(&grade).Error
	})
}

// GetGrade fetches a grade with student/subject preloaded.
func (s *GradingService) GetGrade(id uint) (*models.Grade, error) {
	var grade models.Grade
	if err := database.DB.Preload("Student").Preload("Subject").First(&grade, id).Error; err != nil {
		return nil, err
	}
	return &grade, nil
}

// GetStudentGrades lists a student's grades for one period.
func (s *GradingService) GetStudentGrades(studentID, periodID uint) ([]models.Grade, error) {
	var grades []models.Grade
	err := database.DB.Preload("Student").Preload("Subject").
		Where("student_id = ? AND period_id = ?", studentID, periodID).
		Order("subject_id ASC").Find(&grades).Error
	return grades, err
}

// GetPeriodGrades lists every grade recorded in a period, optionally
// filtered to one subject.
func (s *GradingService) GetPeriodGrades(periodID, subjectID uint) ([]models.Grade, error) {
	query := database.DB.Preload("Student").Preload("Subject").Where("period_id = ?", periodID)
	if subjectID != 0 {
		query = query.Where("subject_id = ?", subjectID)
	}
	var grades []models.Grade
	err := query.Order("student_id ASC").Find(&grades).Error
	return grades, err
}
