package models

import "testing"

func TestNextClassLevel(t *testing.T) {
	cases := []struct {
		level string
		want  string
	}{
		{"P1", "P2"},
		{"P6", "J1"},
		{"J2", "J3"},
		{"J3", ""},
		{"XX", ""},
	}
	for _, c := range cases {
		if got := NextClassLevel(c.level); got != c.want {
			t.Errorf("NextClassLevel(%q) = %q, want %q", c.level, got, c.want)
		}
	}
}

func TestDefaultPromotionPolicy(t *testing.T) {
	policy := DefaultPromotionPolicy()
	if err := policy.Validate(); err != nil {
		t.Fatalf("default policy rejected: %v", err)
	}

	for _, level := range []string{"P1", "P2", "P3"} {
		if !policy.IsAutoPromoteLevel(level) {
			t.Errorf("%s should auto-promote", level)
		}
	}
	if policy.IsAutoPromoteLevel("P4") {
		t.Error("P4 should not auto-promote")
	}

	if !policy.IsMustPassSubject("Mathematics") {
		t.Error("Mathematics should be compulsory")
	}
	if !policy.IsMustPassSubject("english language") {
		t.Error("subject match should be case-insensitive")
	}
	if policy.IsMustPassSubject("Science") {
		t.Error("Science should not be compulsory by default")
	}
}

func TestPassMarkFor(t *testing.T) {
	policy := DefaultPromotionPolicy()
	if got := policy.PassMarkFor("P4"); got != 40 {
		t.Errorf("primary pass mark = %.0f, want 40", got)
	}
	if got := policy.PassMarkFor("J1"); got != 45 {
		t.Errorf("junior pass mark = %.0f, want 45", got)
	}
}

func TestPromotionPolicyValidate(t *testing.T) {
	policy := DefaultPromotionPolicy()
	policy.JuniorPassMark = 120
	if policy.Validate() == nil {
		t.Error("pass mark above 100 should fail")
	}

	policy = DefaultPromotionPolicy()
	policy.MaxFailedSubjects = -1
	if policy.Validate() == nil {
		t.Error("negative failed-subject allowance should fail")
	}
}
