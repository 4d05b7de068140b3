package services

import (
	"fmt"
	"strings"

	"gesschool_go/database"
	"gesschool_go/models"
	"gesschool_go/utils"

	"gorm.io/gorm"
)

// PromotionService decides end-of-year promotion per student by applying
// the policy rules in a fixed order: auto-promotion tier, compulsory
// subjects, the failed-subject allowance, then the attendance floor.
type PromotionService struct{}

func NewPromotionService() *PromotionService {
	return &PromotionService{}
}

// SubjectResult pairs a subject with the student's total score in it.
// MustPass carries the subject's own compulsory flag, which counts in
// addition to the policy's must-pass list.
type SubjectResult struct {
	SubjectName string
	TotalScore  *float64
	MustPass    bool
}

// Evaluate applies the promotion rules to one student's results. Rules
// fire in precedence order; the first that decides wins:
//  1. final-level students never promote (no next class)
//  2. auto-promote tiers always promote
//  3. a failed compulsory subject repeats
//  4. more failed subjects than the allowance repeats
//  5. any failure combined with attendance below the floor repeats
//  6. otherwise promote
func Evaluate(student *models.Student, results []SubjectResult, attendance models.AttendanceSummary, policy *models.PromotionPolicy) models.PromotionDecision {
	decision := models.PromotionDecision{
		StudentID:  student.ID,
		ClassLevel: student.ClassLevel,
	}

	next := models.NextClassLevel(student.ClassLevel)
	if next == "" {
		decision.Eligible = false
		decision.Reason = fmt.Sprintf("%s is the final class level; completion is handled separately", student.ClassLevel)
		return decision
	}

	if policy.IsAutoPromoteLevel(student.ClassLevel) {
		decision.Eligible = true
		decision.NextClassLevel = next
		decision.Reason = fmt.Sprintf("automatic promotion applies to %s", student.ClassLevel)
		return decision
	}

	passMark := policy.PassMarkFor(student.ClassLevel)
	var failed []string
	var failedMustPass []string
	for _, r := range results {
		if r.TotalScore == nil || *r.TotalScore < passMark {
			failed = append(failed, r.SubjectName)
			if r.MustPass || policy.IsMustPassSubject(r.SubjectName) {
				failedMustPass = append(failedMustPass, r.SubjectName)
			}
		}
	}
	decision.FailedSubjects = failed

	if len(failedMustPass) > 0 {
		decision.Eligible = false
		decision.Reason = fmt.Sprintf("failed compulsory subject(s): %s", strings.Join(failedMustPass, ", "))
		return decision
	}

	if len(failed) > policy.MaxFailedSubjects {
		decision.Eligible = false
		decision.Reason = fmt.Sprintf("failed %d subjects; at most %d allowed", len(failed), policy.MaxFailedSubjects)
		return decision
	}

	if len(failed) > 0 && attendance.TotalDays > 0 && attendance.AttendanceRate < policy.MinAttendancePercent {
		decision.Eligible = false
		decision.Reason = fmt.Sprintf("attendance %.2f%% is below the required %.2f%%",
			attendance.AttendanceRate, policy.MinAttendancePercent)
		return decision
	}

	decision.Eligible = true
	decision.NextClassLevel = next
	if len(failed) > 0 {
		decision.Reason = fmt.Sprintf("Eligible for promotion with %d failed subject(s) within the allowance", len(failed))
	} else {
		decision.Reason = "Eligible for promotion"
	}
	return decision
}

// Policy returns the singleton promotion policy row.
func (s *PromotionService) Policy() (*models.PromotionPolicy, error) {
	var policy models.PromotionPolicy
	if err := database.DB.First(&policy).Error; err != nil {
		return nil, err
	}
	return &policy, nil
}

// UpdatePolicy validates and stores new promotion rules.
func (s *PromotionService) UpdatePolicy(updated *models.PromotionPolicy) (*models.PromotionPolicy, error) {
	var policy models.PromotionPolicy
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&policy).Error; err != nil {
			return err
		}
		id := policy.ID
		createdAt := policy.CreatedAt
		policy = *updated
		policy.ID = id
		policy.CreatedAt = createdAt
		if err := policy.Validate(); err != nil {
			return err
		}
		return tx.Save(&policy).Error
	})
	if err != nil {
		return nil, err
	}
	return &policy, nil
}

// EvaluateStudent loads a student's grades and attendance for the period
// and runs the promotion rules.
func (s *PromotionService) EvaluateStudent(studentID, periodID uint) (*models.PromotionDecision, error) {
	var student models.Student
	if err := database.DB.First(&student, studentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewValidationError("student_id", "student not found")
		}
		return nil, err
	}

	policy, err := s.Policy()
	if err != nil {
		return nil, err
	}

	results, err := s.loadResults(studentID, periodID)
	if err != nil {
		return nil, err
	}

	var records []models.StudentAttendance
	if err := database.DB.Where("student_id = ? AND period_id = ?", studentID, periodID).Find(&records).Error; err != nil {
		return nil, err
	}

	decision := Evaluate(&student, results, models.SummarizeAttendance(records), policy)
	return &decision, nil
}

// EvaluateClass runs the promotion rules for every active student in a
// class level.
func (s *PromotionService) EvaluateClass(classLevel string, periodID uint) ([]models.PromotionDecision, error) {
	if !models.IsValidClassLevel(classLevel) {
		return nil, utils.NewValidationError("class_level", "unknown class level")
	}

	var students []models.Student
	if err := database.DB.Where("class_level = ? AND active = ?", classLevel, true).
		Order("id ASC").Find(&students).Error; err != nil {
		return nil, err
	}

	policy, err := s.Policy()
	if err != nil {
		return nil, err
	}

	decisions := make([]models.PromotionDecision, 0, len(students))
	for i := range students {
		results, err := s.loadResults(students[i].ID, periodID)
		if err != nil {
			return nil, err
		}
		var records []models.StudentAttendance
		if err := database.DB.Where("student_id = ? AND period_id = ?", students[i].ID, periodID).
			Find(&records).Error; err != nil {
			return nil, err
		}
		decisions = append(decisions, Evaluate(&students[i], results, models.SummarizeAttendance(records), policy))
	}
	return decisions, nil
}

// ApplyPromotions moves every eligible student in the decision set to
// their next class level.
func (s *PromotionService) ApplyPromotions(decisions []models.PromotionDecision) (int, error) {
	applied := 0
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		for _, d := range decisions {
			if !d.Eligible || d.NextClassLevel == "" {
				continue
			}
			if err := tx.Model(&models.Student{}).Where("id = ?", d.StudentID).
				Update("class_level", d.NextClassLevel).Error; err != nil {
				return err
			}
			applied++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return applied, nil
}

func (s *PromotionService) loadResults(studentID, periodID uint) ([]SubjectResult, error) {
	var grades []models.Grade
	if err := database.DB.Preload("Subject").
		Where("student_id = ? AND period_id = ?", studentID, periodID).Find(&grades).Error; err != nil {
		return nil, err
	}
	results := make([]SubjectResult, 0, len(grades))
	for i := range grades {
		results = append(results, SubjectResult{
			SubjectName: grades[i].Subject.Name,
			TotalScore:  grades[i].TotalScore,
			MustPass:    grades[i].Subject.MustPass,
		})
	}
	return results, nil
}
