package services

import (
	"testing"

	"gesschool_go/models"
)

func TestComputeTotalWorkedExample(t *testing.T) {
	cfg := models.DefaultBoundaryConfig()
	scores := ComponentScores{Homework: 75, Classwork: 80, Test: 70, Exam: 85}

	// 75*0.20 + 80*0.30 + 70*0.10 + 85*0.40 = 15 + 24 + 7 + 34 = 80.00
	total := ComputeTotal(scores, cfg)
	if total != 80.00 {
		t.Fatalf("ComputeTotal = %.2f, want 80.00", total)
	}

	if got := ClassifyNumeric(total, cfg); got != "2" {
		t.Errorf("ClassifyNumeric(80) = %q, want \"2\"", got)
	}
	if got := ClassifyLetter(total, cfg); got != "A" {
		t.Errorf("ClassifyLetter(80) = %q, want \"A\"", got)
	}
}

func TestComputeTotalRounding(t *testing.T) {
	cfg := models.DefaultBoundaryConfig()

	// 33.33*0.2 + 33.33*0.3 + 33.33*0.1 + 33.33*0.4 = 33.33 exactly
	scores := ComponentScores{Homework: 33.33, Classwork: 33.33, Test: 33.33, Exam: 33.33}
	if got := ComputeTotal(scores, cfg); got != 33.33 {
		t.Errorf("uniform scores: %.4f, want 33.33", got)
	}

	// 10*0.2 + 10*0.3 + 12.25*0.1 + 10*0.4 = 10.225, rounds half up to 10.23
	scores = ComponentScores{Homework: 10, Classwork: 10, Test: 12.25, Exam: 10}
	if got := ComputeTotal(scores, cfg); got != 10.23 {
		t.Errorf("half-up rounding: %.4f, want 10.23", got)
	}
}

func TestComputeTotalIdempotent(t *testing.T) {
	cfg := models.DefaultBoundaryConfig()
	scores := ComponentScores{Homework: 61.7, Classwork: 48.2, Test: 90.1, Exam: 73.9}

	first := ComputeTotal(scores, cfg)
	for i := 0; i < 5; i++ {
		if got := ComputeTotal(scores, cfg); got != first {
			t.Fatalf("run %d: %.4f differs from first %.4f", i, got, first)
		}
	}
}

func TestClassifyBoundaries(t *testing.T) {
	cfg := models.DefaultBoundaryConfig()

	cases := []struct {
		total   float64
		numeric string
		letter  string
	}{
		{100, "1", "A+"},
		{90, "1", "A+"},
		{89.99, "2", "A"},
		{80, "2", "A"},
		{70, "3", "B+"},
		{60, "4", "B"},
		{50, "5", "C+"},
		{40, "6", "C"},
		{30, "7", "D+"},
		{20, "8", "D"},
		{19.99, "9", "F"},
		{0, "9", "F"},
	}
	for _, c := range cases {
		if got := ClassifyNumeric(c.total, cfg); got != c.numeric {
			t.Errorf("ClassifyNumeric(%.2f) = %q, want %q", c.total, got, c.numeric)
		}
		if got := ClassifyLetter(c.total, cfg); got != c.letter {
			t.Errorf("ClassifyLetter(%.2f) = %q, want %q", c.total, got, c.letter)
		}
	}
}

func TestClassifyOutOfRange(t *testing.T) {
	cfg := models.DefaultBoundaryConfig()
	for _, total := range []float64{-0.01, 100.01, 150} {
		if got := ClassifyNumeric(total, cfg); got != models.GradeNotAvailable {
			t.Errorf("ClassifyNumeric(%.2f) = %q, want N/A", total, got)
		}
		if got := ClassifyLetter(total, cfg); got != models.GradeNotAvailable {
			t.Errorf("ClassifyLetter(%.2f) = %q, want N/A", total, got)
		}
	}
}

func TestClassifyNilConfig(t *testing.T) {
	if got := ClassifyNumeric(80, nil); got != models.GradeNotAvailable {
		t.Errorf("ClassifyNumeric(80, nil) = %q, want N/A", got)
	}
	if got := ClassifyLetter(80, nil); got != models.GradeNotAvailable {
		t.Errorf("ClassifyLetter(80, nil) = %q, want N/A", got)
	}
	scores := ComponentScores{Homework: 75, Classwork: 80, Test: 70, Exam: 85}
	if got := ComputeTotal(scores, nil); got != 0 {
		t.Errorf("ComputeTotal(nil config) = %.2f, want 0", got)
	}
}

func TestValidateScores(t *testing.T) {
	ok := ComponentScores{Homework: 0, Classwork: 100, Test: 50, Exam: 99.99}
	if err := ValidateScores(ok); err != nil {
		t.Errorf("valid scores rejected: %v", err)
	}

	bad := ComponentScores{Homework: -1}
	if err := ValidateScores(bad); err == nil {
		t.Error("negative component should fail")
	}

	bad = ComponentScores{Exam: 100.5}
	if err := ValidateScores(bad); err == nil {
		t.Error("component above 100 should fail")
	}
}

func TestComputeTotalCustomWeights(t *testing.T) {
	cfg := models.DefaultBoundaryConfig()
	cfg.HomeworkWeight = 0
	cfg.ClassworkWeight = 0
	cfg.TestWeight = 0
	cfg.ExamWeight = 100

	scores := ComponentScores{Homework: 10, Classwork: 20, Test: 30, Exam: 77.5}
	if got := ComputeTotal(scores, cfg); got != 77.5 {
		t.Errorf("exam-only weighting: %.2f, want 77.50", got)
	}
}
