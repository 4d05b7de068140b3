package models

import (
	"testing"

	"gesschool_go/utils"
)

func TestDefaultBoundaryConfigValid(t *testing.T) {
	cfg := DefaultBoundaryConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default configuration rejected: %v", err)
	}
	if len(cfg.NumericBands()) != 9 {
		t.Errorf("numeric bands = %d, want 9", len(cfg.NumericBands()))
	}
	if len(cfg.LetterBands()) != 9 {
		t.Errorf("letter bands = %d, want 9", len(cfg.LetterBands()))
	}
}

func TestBoundaryConfigDescendingInvariant(t *testing.T) {
	cfg := DefaultBoundaryConfig()
	cfg.Grade3Min = 85 // above grade 2's 80
	err := cfg.Validate()
	if err == nil {
		t.Fatal("non-descending numeric table should fail")
	}
	if _, ok := err.(*utils.ConfigInconsistentError); !ok {
		t.Errorf("error type = %T, want *ConfigInconsistentError", err)
	}

	cfg = DefaultBoundaryConfig()
	cfg.LetterBMin = cfg.LetterBPlusMin // equal is also invalid
	if cfg.Validate() == nil {
		t.Error("equal adjacent letter minima should fail")
	}
}

func TestBoundaryConfigWeightSum(t *testing.T) {
	cfg := DefaultBoundaryConfig()
	cfg.HomeworkWeight = 25 // sum now 105
	err := cfg.Validate()
	if err == nil {
		t.Fatal("weight sum of 105 should fail")
	}
	if utils.ErrorField(err) != "weights" {
		t.Errorf("field = %q, want weights", utils.ErrorField(err))
	}

	// A hundredth either way is tolerated
	cfg = DefaultBoundaryConfig()
	cfg.HomeworkWeight = 20.005
	cfg.ExamWeight = 39.999
	if err := cfg.Validate(); err != nil {
		t.Errorf("weight sum within tolerance rejected: %v", err)
	}
}

func TestBoundaryConfigPassingMark(t *testing.T) {
	cfg := DefaultBoundaryConfig()
	cfg.PassingMark = 45 // above Grade6Min of 40
	err := cfg.Validate()
	if err == nil {
		t.Fatal("passing mark above grade 6 minimum should fail")
	}
	if utils.ErrorField(err) != "passing_mark" {
		t.Errorf("field = %q, want passing_mark", utils.ErrorField(err))
	}

	cfg.PassingMark = 40
	if err := cfg.Validate(); err != nil {
		t.Errorf("passing mark equal to grade 6 minimum rejected: %v", err)
	}
}

func TestSummarizeAttendance(t *testing.T) {
	records := []StudentAttendance{
		{Status: "present"}, {Status: "present"}, {Status: "present"},
		{Status: "late"},
		{Status: "absent"},
	}
	summary := SummarizeAttendance(records)

	if summary.TotalDays != 5 {
		t.Errorf("TotalDays = %d, want 5", summary.TotalDays)
	}
	if summary.PresentDays != 4 {
		t.Errorf("PresentDays = %d, want 4 (late counts as present)", summary.PresentDays)
	}
	if summary.LateDays != 1 {
		t.Errorf("LateDays = %d, want 1", summary.LateDays)
	}
	if summary.AbsentDays != 1 {
		t.Errorf("AbsentDays = %d, want 1", summary.AbsentDays)
	}
	if summary.AttendanceRate != 80 {
		t.Errorf("AttendanceRate = %.2f, want 80.00", summary.AttendanceRate)
	}
}

func TestSummarizeAttendanceEmpty(t *testing.T) {
	summary := SummarizeAttendance(nil)
	if summary.TotalDays != 0 || summary.AttendanceRate != 0 {
		t.Errorf("empty records: %+v, want zero summary", summary)
	}
}

func TestGradeIsPassing(t *testing.T) {
	score := 40.0
	g := Grade{TotalScore: &score}
	if !g.IsPassing(40) {
		t.Error("score equal to the pass mark should pass")
	}
	if g.IsPassing(40.01) {
		t.Error("score below the pass mark should fail")
	}

	none := Grade{}
	if none.IsPassing(40) {
		t.Error("grade without a total must not pass")
	}
}
