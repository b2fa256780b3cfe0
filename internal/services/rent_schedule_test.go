package services

import (
	"errors"
	"testing"
	"time"
)

func day(value string) time.Time {
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func TestParseRentPlan(t *testing.T) {
	cases := map[string]int{
		"1month":    1,
		"2month":    2,
		"6 months":  6,
		"12mo":      12,
		"Monthly":   1,
		"quarterly": 3,
		"annual":    12,
	}
	for raw, want := range cases {
		got, err := ParseRentPlan(raw)
		if err != nil {
			t.Fatalf("ParseRentPlan(%q) unexpected error: %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseRentPlan(%q) = %d, want %d", raw, got, want)
		}
	}

	for _, raw := range []string{"", "0month", "25month", "weekly", "month1"} {
		if _, err := ParseRentPlan(raw); !errors.Is(err, ErrInvalidRentPlan) {
			t.Fatalf("ParseRentPlan(%q) expected ErrInvalidRentPlan, got %v", raw, err)
		}
	}
}

func TestCurrentAndNextDueDate(t *testing.T) {
	start := day("2025-01-15")

	cases := []struct {
		now         string
		months      int
		wantCurrent string
		wantNext    string
	}{
		{"2025-01-01", 1, "2025-01-15", "2025-01-15"},
		{"2025-01-15", 1, "2025-01-15", "2025-02-15"},
		{"2025-03-20", 1, "2025-03-15", "2025-04-15"},
		{"2025-03-20", 3, "2025-01-15", "2025-04-15"},
		{"2025-04-15", 3, "2025-04-15", "2025-07-15"},
	}
	for _, testCase := range cases {
		now := day(testCase.now)
		if got := CurrentDueDate(start, testCase.months, now).Format(dateLayout); got != testCase.wantCurrent {
			t.Fatalf("CurrentDueDate(now=%s, months=%d) = %s, want %s", testCase.now, testCase.months, got, testCase.wantCurrent)
		}
		if got := NextDueDate(start, testCase.months, now).Format(dateLayout); got != testCase.wantNext {
			t.Fatalf("NextDueDate(now=%s, months=%d) = %s, want %s", testCase.now, testCase.months, got, testCase.wantNext)
		}
	}
}

func TestDueDatesBetweenIsHalfOpen(t *testing.T) {
	dates := DueDatesBetween(day("2025-01-10"), 1, day("2025-03-10"), day("2025-05-10"))
	if len(dates) != 2 {
		t.Fatalf("expected 2 due dates, got %d", len(dates))
	}
	if dates[0].Format(dateLayout) != "2025-03-10" || dates[1].Format(dateLayout) != "2025-04-10" {
		t.Fatalf("unexpected due dates %v", dates)
	}

	if got := DueDatesBetween(day("2025-01-10"), 1, day("2025-05-10"), day("2025-05-10")); len(got) != 0 {
		t.Fatalf("expected empty range to yield nothing, got %v", got)
	}
}

func TestDueDatesClampToMonthEnd(t *testing.T) {
	dates := DueDatesBetween(day("2025-01-31"), 1, day("2025-01-31"), day("2025-06-01"))
	want := []string{"2025-01-31", "2025-02-28", "2025-03-31", "2025-04-30", "2025-05-31"}
	if len(dates) != len(want) {
		t.Fatalf("expected %d due dates, got %v", len(want), dates)
	}
	for index, date := range dates {
		if got := date.Format(dateLayout); got != want[index] {
			t.Fatalf("due date %d = %s, want %s", index, got, want[index])
		}
	}

	leapStart := day("2024-02-29")
	if got := NextDueDate(leapStart, 12, day("2024-03-01")).Format(dateLayout); got != "2025-02-28" {
		t.Fatalf("NextDueDate(yearly from leap day) = %s, want 2025-02-28", got)
	}
	if got := NextDueDate(day("2025-01-31"), 1, day("2025-02-10")).Format(dateLayout); got != "2025-02-28" {
		t.Fatalf("NextDueDate(Jan 31) = %s, want 2025-02-28", got)
	}
	if got := CurrentDueDate(day("2025-01-31"), 1, day("2025-03-15")).Format(dateLayout); got != "2025-02-28" {
		t.Fatalf("CurrentDueDate(Jan 31) = %s, want 2025-02-28", got)
	}
}

func TestGraceRemainingNeverNegative(t *testing.T) {
	start := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)
	grace := 72 * time.Hour

	if got := GraceRemaining(grace, start, start.Add(24*time.Hour)); got != 48*time.Hour {
		t.Fatalf("expected 48h remaining, got %s", got)
	}
	if got := GraceRemaining(grace, start, start.Add(72*time.Hour)); got != 0 {
		t.Fatalf("expected 0 at expiry, got %s", got)
	}
	if got := GraceRemaining(grace, start, start.Add(500*time.Hour)); got != 0 {
		t.Fatalf("expected 0 after expiry, got %s", got)
	}
	if got := GraceRemaining(grace, start, start.Add(-24*time.Hour)); got != 96*time.Hour {
		t.Fatalf("expected 96h before start, got %s", got)
	}
}
