package services

import (
	"strings"
	"testing"

	"gesschool_go/models"
)

func score(v float64) *float64 { return &v }

func testPolicy() *models.PromotionPolicy {
	return models.DefaultPromotionPolicy()
}

func fullAttendance() models.AttendanceSummary {
	return models.AttendanceSummary{PresentDays: 60, TotalDays: 60, AttendanceRate: 100}
}

func TestEvaluateAutoPromotion(t *testing.T) {
	student := &models.Student{BaseModel: models.BaseModel{ID: 1}, ClassLevel: "P2"}
	// Every subject failed, still promotes
	results := []SubjectResult{
		{SubjectName: "Mathematics", TotalScore: score(5)},
		{SubjectName: "English Language", TotalScore: score(10)},
	}

	decision := Evaluate(student, results, fullAttendance(), testPolicy())
	if !decision.Eligible {
		t.Fatalf("auto-promote level should be eligible: %s", decision.Reason)
	}
	if decision.NextClassLevel != "P3" {
		t.Errorf("NextClassLevel = %q, want P3", decision.NextClassLevel)
	}
}

func TestEvaluateMustPassSubject(t *testing.T) {
	student := &models.Student{BaseModel: models.BaseModel{ID: 2}, ClassLevel: "P5"}
	results := []SubjectResult{
		{SubjectName: "Mathematics", TotalScore: score(35)}, // below primary 40
		{SubjectName: "Science", TotalScore: score(80)},
		{SubjectName: "English Language", TotalScore: score(75)},
	}

	decision := Evaluate(student, results, fullAttendance(), testPolicy())
	if decision.Eligible {
		t.Fatal("failed compulsory subject must block promotion")
	}
	if !strings.Contains(decision.Reason, "Mathematics") {
		t.Errorf("reason should name the subject: %q", decision.Reason)
	}
	if len(decision.FailedSubjects) != 1 || decision.FailedSubjects[0] != "Mathematics" {
		t.Errorf("FailedSubjects = %v", decision.FailedSubjects)
	}
}

func TestEvaluateFailedSubjectAllowance(t *testing.T) {
	student := &models.Student{BaseModel: models.BaseModel{ID: 3}, ClassLevel: "P5"}
	base := []SubjectResult{
		{SubjectName: "Mathematics", TotalScore: score(70)},
		{SubjectName: "English Language", TotalScore: score(65)},
	}

	// Two optional failures are within the default allowance
	results := append(base,
		SubjectResult{SubjectName: "Science", TotalScore: score(30)},
		SubjectResult{SubjectName: "ICT", TotalScore: score(20)},
	)
	decision := Evaluate(student, results, fullAttendance(), testPolicy())
	if !decision.Eligible {
		t.Fatalf("two failures within allowance should promote: %s", decision.Reason)
	}
	if decision.NextClassLevel != "P6" {
		t.Errorf("NextClassLevel = %q, want P6", decision.NextClassLevel)
	}

	// Three failures exceed it
	results = append(results, SubjectResult{SubjectName: "Creative Arts", TotalScore: score(10)})
	decision = Evaluate(student, results, fullAttendance(), testPolicy())
	if decision.Eligible {
		t.Fatal("three failures should block promotion")
	}
}

func TestEvaluateJuniorPassMark(t *testing.T) {
	student := &models.Student{BaseModel: models.BaseModel{ID: 4}, ClassLevel: "J1"}
	// 42 passes the primary mark of 40 but fails the junior mark of 45
	results := []SubjectResult{
		{SubjectName: "Mathematics", TotalScore: score(42)},
		{SubjectName: "English Language", TotalScore: score(60)},
	}

	decision := Evaluate(student, results, fullAttendance(), testPolicy())
	if decision.Eligible {
		t.Fatal("42 should fail the junior pass mark of 45")
	}
}

func TestEvaluateAttendanceFloor(t *testing.T) {
	student := &models.Student{BaseModel: models.BaseModel{ID: 5}, ClassLevel: "P5"}
	// One optional failure within the allowance
	results := []SubjectResult{
		{SubjectName: "Mathematics", TotalScore: score(70)},
		{SubjectName: "English Language", TotalScore: score(65)},
		{SubjectName: "Science", TotalScore: score(30)},
	}
	poor := models.AttendanceSummary{PresentDays: 30, TotalDays: 60, AttendanceRate: 50}

	decision := Evaluate(student, results, poor, testPolicy())
	if decision.Eligible {
		t.Fatal("a failed subject with attendance below the floor should block promotion")
	}

	// The floor only applies when at least one subject was failed
	clean := []SubjectResult{
		{SubjectName: "Mathematics", TotalScore: score(70)},
		{SubjectName: "English Language", TotalScore: score(65)},
	}
	decision = Evaluate(student, clean, poor, testPolicy())
	if !decision.Eligible {
		t.Fatalf("clean pass should promote regardless of attendance: %s", decision.Reason)
	}

	// With no attendance records the floor is not applied
	decision = Evaluate(student, results, models.AttendanceSummary{}, testPolicy())
	if !decision.Eligible {
		t.Fatalf("missing attendance data should not block: %s", decision.Reason)
	}
}

func TestEvaluateSubjectFlaggedMustPass(t *testing.T) {
	student := &models.Student{BaseModel: models.BaseModel{ID: 9}, ClassLevel: "P5"}
	// Science is not on the policy's compulsory list but carries the
	// subject-level flag
	results := []SubjectResult{
		{SubjectName: "Mathematics", TotalScore: score(80)},
		{SubjectName: "English Language", TotalScore: score(75)},
		{SubjectName: "Science", TotalScore: score(30), MustPass: true},
	}

	decision := Evaluate(student, results, fullAttendance(), testPolicy())
	if decision.Eligible {
		t.Fatal("a failed subject flagged must-pass should block promotion")
	}
	if !strings.Contains(decision.Reason, "Science") {
		t.Errorf("reason should name the subject: %q", decision.Reason)
	}
}

func TestEvaluateMissingScore(t *testing.T) {
	student := &models.Student{BaseModel: models.BaseModel{ID: 6}, ClassLevel: "P5"}
	// An unscored subject counts as failed
	results := []SubjectResult{
		{SubjectName: "English Language", TotalScore: nil},
		{SubjectName: "Mathematics", TotalScore: score(80)},
	}

	decision := Evaluate(student, results, fullAttendance(), testPolicy())
	if decision.Eligible {
		t.Fatal("unscored compulsory subject must block promotion")
	}
}

func TestEvaluateFinalLevel(t *testing.T) {
	student := &models.Student{BaseModel: models.BaseModel{ID: 7}, ClassLevel: "J3"}
	results := []SubjectResult{
		{SubjectName: "Mathematics", TotalScore: score(90)},
		{SubjectName: "English Language", TotalScore: score(90)},
	}

	decision := Evaluate(student, results, fullAttendance(), testPolicy())
	if decision.Eligible {
		t.Fatal("final level has no promotion target")
	}
	if decision.NextClassLevel != "" {
		t.Errorf("NextClassLevel = %q, want empty", decision.NextClassLevel)
	}
	if decision.Reason == "" {
		t.Error("reason must always be populated")
	}
}

func TestEvaluateCleanPass(t *testing.T) {
	student := &models.Student{BaseModel: models.BaseModel{ID: 8}, ClassLevel: "P6"}
	results := []SubjectResult{
		{SubjectName: "Mathematics", TotalScore: score(72)},
		{SubjectName: "English Language", TotalScore: score(68)},
		{SubjectName: "Science", TotalScore: score(55)},
	}

	decision := Evaluate(student, results, fullAttendance(), testPolicy())
	if !decision.Eligible {
		t.Fatalf("clean pass should promote: %s", decision.Reason)
	}
	if decision.NextClassLevel != "J1" {
		t.Errorf("NextClassLevel = %q, want J1", decision.NextClassLevel)
	}
	if decision.Reason != "Eligible for promotion" {
		t.Errorf("Reason = %q, want \"Eligible for promotion\"", decision.Reason)
	}
}
