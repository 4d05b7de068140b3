package utils

import "testing"

func TestOrdinal(t *testing.T) {
	cases := []struct {
		n    int
		want string
	}{
		{1, "1st"},
		{2, "2nd"},
		{3, "3rd"},
		{4, "4th"},
		{11, "11th"},
		{12, "12th"},
		{13, "13th"},
		{21, "21st"},
		{22, "22nd"},
		{23, "23rd"},
		{101, "101st"},
		{111, "111th"},
	}
	for _, c := range cases {
		if got := Ordinal(c.n); got != c.want {
			t.Errorf("Ordinal(%d) = %q, want %q", c.n, got, c.want)
		}
	}
}

func TestFormatPosition(t *testing.T) {
	if got := FormatPosition(1, 30); got != "1st of 30" {
		t.Errorf("FormatPosition(1, 30) = %q, want %q", got, "1st of 30")
	}
	if got := FormatPosition(22, 45); got != "22nd of 45" {
		t.Errorf("FormatPosition(22, 45) = %q, want %q", got, "22nd of 45")
	}
}

func TestValidateAcademicYearName(t *testing.T) {
	valid := []string{"2024/2025", "1999/2000", "2030/2031"}
	for _, name := range valid {
		if err := ValidateAcademicYearName(name); err != nil {
			t.Errorf("ValidateAcademicYearName(%q) returned error: %v", name, err)
		}
	}

	invalid := []string{
		"2024-2025",
		"2024/2026",
		"2025/2024",
		"24/25",
		"2024/abcd",
		"",
	}
	for _, name := range invalid {
		err := ValidateAcademicYearName(name)
		if err == nil {
			t.Errorf("ValidateAcademicYearName(%q) should fail", name)
			continue
		}
		if ErrorField(err) != "name" {
			t.Errorf("ValidateAcademicYearName(%q) field = %q, want %q", name, ErrorField(err), "name")
		}
	}
}

func TestErrorField(t *testing.T) {
	if got := ErrorField(NewValidationError("start_date", "required")); got != "start_date" {
		t.Errorf("ErrorField = %q, want start_date", got)
	}
	if got := ErrorField(NewOverlapError("dates", "overlap")); got != "dates" {
		t.Errorf("ErrorField = %q, want dates", got)
	}
	if got := ErrorField(NewConfigInconsistentError("weights", "bad sum")); got != "weights" {
		t.Errorf("ErrorField = %q, want weights", got)
	}
	if got := ErrorField(NewLockedPeriodError(3, "grades")); got != "" {
		t.Errorf("ErrorField for locked error = %q, want empty", got)
	}
}

func TestIsClientError(t *testing.T) {
	if !IsClientError(NewLockedPeriodError(1, "grades")) {
		t.Error("LockedPeriodError should be a client error")
	}
	if !IsClientError(NewValidationError("name", "bad")) {
		t.Error("ValidationError should be a client error")
	}
}
