package dto

import (
	"testing"
	"time"

	"gesschool_go/models"
)

func date(s string) models.DateOnly {
	t, _ := time.Parse("2006-01-02", s)
	return models.DateOnly{Time: t}
}

func TestToPeriodDTODerivesNameAndStatus(t *testing.T) {
	period := models.AcademicPeriod{
		BaseModel:      models.BaseModel{ID: 3},
		AcademicYearID: 1,
		PeriodSystem:   "TERM",
		PeriodNumber:   2,
		StartDate:      date("2024-09-01"),
		EndDate:        date("2024-12-15"),
		Archived:       true,
	}

	got := ToPeriodDTO(period)
	if got.Name != "Term 2" {
		t.Errorf("Name = %q, want the derived default \"Term 2\"", got.Name)
	}
	if got.Status != models.PeriodStatusArchived {
		t.Errorf("Status = %q, want ARCHIVED", got.Status)
	}
}

func TestToGradeDTO(t *testing.T) {
	grade := models.Grade{
		BaseModel:    models.BaseModel{ID: 7},
		Student:      models.Student{BaseModel: models.BaseModel{ID: 4}, FirstName: "Ama", LastName: "Mensah"},
		Subject:      models.Subject{BaseModel: models.BaseModel{ID: 2}, Name: "Mathematics", MustPass: true},
		PeriodID:     5,
		NumericGrade: models.GradeNotAvailable,
		LetterGrade:  models.GradeNotAvailable,
	}

	got := ToGradeDTO(grade)
	if got.Student.FullName != "Ama Mensah" {
		t.Errorf("Student.FullName = %q", got.Student.FullName)
	}
	if !got.Subject.MustPass {
		t.Error("Subject.MustPass flag lost in mapping")
	}
	if got.TotalScore != nil {
		t.Errorf("TotalScore = %v, want nil", *got.TotalScore)
	}
	if got.NumericGrade != models.GradeNotAvailable || got.LetterGrade != models.GradeNotAvailable {
		t.Errorf("grades = %q/%q, want N/A sentinels", got.NumericGrade, got.LetterGrade)
	}
}
