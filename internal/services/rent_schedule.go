package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var rentPlanPattern = regexp.MustCompile(`^(\d+)\s*(month|months|mo)$`)

// ParseRentPlan returns the number of months one rent payment covers.
func ParseRentPlan(raw string) (int, error) {
	plan := strings.ToLower(strings.TrimSpace(raw))
	switch plan {
	case "month", "monthly":
		return 1, nil
	case "quarterly":
		return 3, nil
	case "yearly", "annual", "annually":
		return 12, nil
	}

	matches := rentPlanPattern.FindStringSubmatch(plan)
	if len(matches) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRentPlan, raw)
	}
	months, err := strconv.Atoi(matches[1])
	if err != nil || months <= 0 || months > 24 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRentPlan, raw)
	}
	return months, nil
}

// CurrentDueDate is the latest due date on or before now. Before the lease
// starts it is the start date itself.
func CurrentDueDate(start time.Time, months int, now time.Time) time.Time {
	if months <= 0 || !now.After(start) {
		return start
	}
	current := start
	for cycle := 1; ; cycle++ {
		next := addMonthsClamped(start, cycle*months)
		if next.After(now) {
			return current
		}
		current = next
	}
}

// NextDueDate is the first due date strictly after now.
func NextDueDate(start time.Time, months int, now time.Time) time.Time {
	if months <= 0 || now.Before(start) {
		return start
	}
	for cycle := 1; ; cycle++ {
		next := addMonthsClamped(start, cycle*months)
		if next.After(now) {
			return next
		}
	}
}

// DueDatesBetween lists due dates d with from <= d < to.
func DueDatesBetween(start time.Time, months int, from time.Time, to time.Time) []time.Time {
	dates := make([]time.Time, 0)
	if months <= 0 || !to.After(from) {
		return dates
	}
	for cycle := 0; ; cycle++ {
		due := addMonthsClamped(start, cycle*months)
		if !due.Before(to) {
			return dates
		}
		if !due.Before(from) {
			dates = append(dates, due)
		}
	}
}

// addMonthsClamped moves start forward by months, keeping its day of month
// but never past the last day of the target month (Jan 31 -> Feb 28).
func addMonthsClamped(start time.Time, months int) time.Time {
	firstOfTarget := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location()).AddDate(0, months, 0)
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), min(start.Day(), lastDay),
		start.Hour(), start.Minute(), start.Second(), start.Nanosecond(), start.Location())
}

// GraceRemaining is how much of the grace allowance is left at now for a
// billing cycle that started at assignmentStart. It never goes negative.
func GraceRemaining(grace time.Duration, assignmentStart time.Time, now time.Time) time.Duration {
	remaining := assignmentStart.Add(grace).Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}
