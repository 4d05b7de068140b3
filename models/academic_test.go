package models

import (
	"testing"
	"time"

	"gesschool_go/utils"
)

func date(s string) DateOnly {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return DateOnly{Time: t}
}

func TestAcademicYearValidate(t *testing.T) {
	year := AcademicYear{
		Name:      "2024/2025",
		StartDate: date("2024-09-01"),
		EndDate:   date("2025-07-31"),
	}
	if err := year.Validate(); err != nil {
		t.Fatalf("valid year rejected: %v", err)
	}

	bad := year
	bad.Name = "2024/2027"
	if err := bad.Validate(); err == nil {
		t.Error("non-consecutive year name should fail")
	}

	bad = year
	bad.EndDate = date("2024-08-01")
	err := bad.Validate()
	if err == nil {
		t.Fatal("end before start should fail")
	}
	if utils.ErrorField(err) != "end_date" {
		t.Errorf("field = %q, want end_date", utils.ErrorField(err))
	}
}

func TestPeriodValidateNumberBounds(t *testing.T) {
	year := AcademicYear{
		Name:      "2024/2025",
		StartDate: date("2024-09-01"),
		EndDate:   date("2025-07-31"),
	}

	cases := []struct {
		system string
		number int
		ok     bool
	}{
		{PeriodSystemTerm, 1, true},
		{PeriodSystemTerm, 3, true},
		{PeriodSystemTerm, 4, false},
		{PeriodSystemSemester, 2, true},
		{PeriodSystemSemester, 3, false},
		{PeriodSystemQuarter, 4, true},
		{PeriodSystemQuarter, 5, false},
		{PeriodSystemTrimester, 3, true},
		{PeriodSystemCustom, 6, true},
		{PeriodSystemCustom, 7, false},
		{"WEEKLY", 1, false},
		{PeriodSystemTerm, 0, false},
	}
	for _, c := range cases {
		p := AcademicPeriod{
			PeriodSystem: c.system,
			PeriodNumber: c.number,
			StartDate:    date("2024-09-10"),
			EndDate:      date("2024-12-15"),
		}
		err := p.Validate(&year)
		if c.ok && err != nil {
			t.Errorf("%s %d should validate, got %v", c.system, c.number, err)
		}
		if !c.ok && err == nil {
			t.Errorf("%s %d should fail", c.system, c.number)
		}
	}
}

func TestPeriodValidateContainment(t *testing.T) {
	year := AcademicYear{
		Name:      "2024/2025",
		StartDate: date("2024-09-01"),
		EndDate:   date("2025-07-31"),
	}

	p := AcademicPeriod{
		PeriodSystem: PeriodSystemTerm,
		PeriodNumber: 1,
		StartDate:    date("2024-08-15"),
		EndDate:      date("2024-12-15"),
	}
	err := p.Validate(&year)
	if err == nil {
		t.Fatal("period starting before the year should fail")
	}
	if utils.ErrorField(err) != "start_date" {
		t.Errorf("field = %q, want start_date", utils.ErrorField(err))
	}

	p.StartDate = date("2024-09-10")
	p.EndDate = date("2025-08-15")
	err = p.Validate(&year)
	if err == nil {
		t.Fatal("period ending after the year should fail")
	}
	if utils.ErrorField(err) != "end_date" {
		t.Errorf("field = %q, want end_date", utils.ErrorField(err))
	}
}

func TestPeriodOverlaps(t *testing.T) {
	a := AcademicPeriod{StartDate: date("2024-09-01"), EndDate: date("2024-12-15")}

	cases := []struct {
		start, end string
		want       bool
	}{
		{"2024-12-15", "2025-03-30", false}, // back-to-back on the boundary day
		{"2024-12-14", "2025-03-30", true},  // starts before the end
		{"2024-10-01", "2024-11-01", true},  // fully inside
		{"2024-08-01", "2024-09-05", true},  // overlaps the start
		{"2024-08-01", "2024-08-31", false}, // entirely before
		{"2025-01-01", "2025-03-30", false}, // entirely after
	}
	for _, c := range cases {
		b := AcademicPeriod{StartDate: date(c.start), EndDate: date(c.end)}
		if got := a.Overlaps(&b); got != c.want {
			t.Errorf("Overlaps(%s..%s) = %v, want %v", c.start, c.end, got, c.want)
		}
		if got := b.Overlaps(&a); got != c.want {
			t.Errorf("Overlaps is not symmetric for %s..%s", c.start, c.end)
		}
	}
}

func TestPeriodStatusOn(t *testing.T) {
	p := AcademicPeriod{
		StartDate: date("2024-09-01"),
		EndDate:   date("2024-12-15"),
	}

	if got := p.StatusOn(date("2024-08-20").Time); got != PeriodStatusPlanned {
		t.Errorf("before start: %q, want PLANNED", got)
	}
	if got := p.StatusOn(date("2024-09-01").Time); got != PeriodStatusActive {
		t.Errorf("on start date: %q, want ACTIVE", got)
	}
	if got := p.StatusOn(date("2024-10-20").Time); got != PeriodStatusActive {
		t.Errorf("mid-period: %q, want ACTIVE", got)
	}
	if got := p.StatusOn(date("2024-12-16").Time); got != PeriodStatusCompleted {
		t.Errorf("after end: %q, want COMPLETED", got)
	}

	p.Archived = true
	if got := p.StatusOn(date("2024-10-20").Time); got != PeriodStatusArchived {
		t.Errorf("archived is not sticky: got %q", got)
	}
}

func TestPeriodStatusOnNonUTC(t *testing.T) {
	p := AcademicPeriod{
		StartDate: date("2024-09-01"),
		EndDate:   date("2024-12-15"),
	}

	// Shortly after local midnight of the start date, far east of UTC
	east := time.FixedZone("UTC+14", 14*3600)
	early := time.Date(2024, 9, 1, 0, 30, 0, 0, east)
	if got := p.StatusOn(early); got != PeriodStatusActive {
		t.Errorf("start date in UTC+14: %q, want ACTIVE", got)
	}

	// Late evening of the end date, far west of UTC
	west := time.FixedZone("UTC-11", -11*3600)
	late := time.Date(2024, 12, 15, 23, 30, 0, 0, west)
	if got := p.StatusOn(late); got != PeriodStatusActive {
		t.Errorf("end date in UTC-11: %q, want ACTIVE", got)
	}
}

func TestComputeSequences(t *testing.T) {
	periods := []AcademicPeriod{
		{PeriodNumber: 3, StartDate: date("2025-04-20"), EndDate: date("2025-07-31")},
		{PeriodNumber: 1, StartDate: date("2024-09-01"), EndDate: date("2024-12-15")},
		{PeriodNumber: 2, StartDate: date("2025-01-06"), EndDate: date("2025-04-10")},
	}
	ComputeSequences(periods)

	for i, p := range periods {
		if p.Sequence != i+1 {
			t.Errorf("periods[%d].Sequence = %d, want %d", i, p.Sequence, i+1)
		}
	}
	if periods[0].PeriodNumber != 1 || periods[2].PeriodNumber != 3 {
		t.Error("periods not sorted by start date")
	}
}

func TestDefaultName(t *testing.T) {
	cases := []struct {
		system string
		number int
		want   string
	}{
		{PeriodSystemTerm, 1, "Term 1"},
		{PeriodSystemSemester, 2, "Semester 2"},
		{PeriodSystemQuarter, 4, "Quarter 4"},
		{PeriodSystemTrimester, 3, "Trimester 3"},
		{PeriodSystemCustom, 5, "Period 5"},
	}
	for _, c := range cases {
		p := AcademicPeriod{PeriodSystem: c.system, PeriodNumber: c.number}
		if got := p.DefaultName(); got != c.want {
			t.Errorf("DefaultName(%s, %d) = %q, want %q", c.system, c.number, got, c.want)
		}
	}
}
