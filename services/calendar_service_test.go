package services

import (
	"strings"
	"testing"
	"time"

	"gesschool_go/models"
	"gesschool_go/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"
)

func date(s string) models.DateOnly {
	t, _ := time.Parse("2006-01-02", s)
	return models.DateOnly{Time: t}
}

func term(id uint, number int, start, end string) models.AcademicPeriod {
	return models.AcademicPeriod{
		BaseModel:      models.BaseModel{ID: id},
		AcademicYearID: 1,
		PeriodSystem:   models.PeriodSystemTerm,
		PeriodNumber:   number,
		Name:           "Term",
		StartDate:      date(start),
		EndDate:        date(end),
	}
}

func TestValidateAgainstSiblingsDuplicateNumber(t *testing.T) {
	siblings := []models.AcademicPeriod{term(1, 1, "2024-09-01", "2024-12-15")}
	candidate := term(0, 1, "2025-01-05", "2025-04-10")

	err := validateAgainstSiblings(&candidate, siblings)
	if err == nil {
		t.Fatal("duplicate period number should be rejected")
	}
	if _, ok := err.(*utils.OverlapError); !ok {
		t.Fatalf("error type = %T, want *utils.OverlapError", err)
	}
	if got := utils.ErrorField(err); got != "period_number" {
		t.Errorf("error field = %q, want period_number", got)
	}
}

func TestValidateAgainstSiblingsOverlap(t *testing.T) {
	siblings := []models.AcademicPeriod{term(1, 1, "2024-09-01", "2024-12-15")}
	candidate := term(0, 2, "2024-12-01", "2025-03-30")

	err := validateAgainstSiblings(&candidate, siblings)
	if err == nil {
		t.Fatal("overlapping dates should be rejected")
	}
	if _, ok := err.(*utils.OverlapError); !ok {
		t.Fatalf("error type = %T, want *utils.OverlapError", err)
	}
	if got := utils.ErrorField(err); got != "dates" {
		t.Errorf("error field = %q, want dates", got)
	}
}

func TestValidateAgainstSiblingsBackToBack(t *testing.T) {
	siblings := []models.AcademicPeriod{term(1, 1, "2024-09-01", "2024-12-15")}
	candidate := term(0, 2, "2024-12-15", "2025-03-30")

	if err := validateAgainstSiblings(&candidate, siblings); err != nil {
		t.Errorf("boundary-day sharing should be allowed: %v", err)
	}
}

func TestValidateAgainstSiblingsSkipsSelf(t *testing.T) {
	existing := term(1, 1, "2024-09-01", "2024-12-15")
	moved := existing
	moved.StartDate = date("2024-09-08")

	if err := validateAgainstSiblings(&moved, []models.AcademicPeriod{existing}); err != nil {
		t.Errorf("a period must not collide with itself: %v", err)
	}
}

func TestDeactivateSiblingPeriodsScopedToYear(t *testing.T) {
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true, SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open dry-run db: %v", err)
	}

	result := deactivateSiblingPeriods(db, 4, 9)
	sql := result.Statement.SQL.String()
	if !strings.Contains(sql, "academic_year_id = ?") {
		t.Errorf("deactivation must be scoped to one year, got: %s", sql)
	}
	if !strings.Contains(sql, "id <> ?") {
		t.Errorf("deactivation must spare the activated period, got: %s", sql)
	}
}
