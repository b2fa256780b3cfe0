package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidGrace = errors.New("invalid grace period")

var gracePattern = regexp.MustCompile(`^(\d+)\s*([a-z()]*)$`)

// GraceHours is a grace allowance in whole hours. It is encoded as a JSON
// integer; older string forms ("7", "7 days", "3d", "-") are accepted on read.
type GraceHours int

func (grace GraceHours) Duration() time.Duration {
	return time.Duration(grace) * time.Hour
}

func (grace GraceHours) Days() int {
	return int(grace) / 24
}

// ParseGrace reads the grace formats found in stored data and form input.
// A bare number counts days, which is what the assignment form offers.
func ParseGrace(raw string) (GraceHours, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" || value == "-" {
		return 0, nil
	}

	matches := gracePattern.FindStringSubmatch(value)
	if len(matches) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidGrace, raw)
	}
	amount, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidGrace, raw)
	}

	switch matches[2] {
	case "", "d", "day", "days", "day(s)":
		return GraceHours(amount * 24), nil
	case "h", "hr", "hrs", "hour", "hours":
		return GraceHours(amount), nil
	case "w", "week", "weeks":
		return GraceHours(amount * 24 * 7), nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidGrace, raw)
	}
}

func (grace *GraceHours) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*grace = 0
		return nil
	}

	var hours float64
	if err := json.Unmarshal(data, &hours); err == nil {
		*grace = GraceHours(int(hours))
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseGrace(raw)
	if err != nil {
		// unreadable legacy text must not poison the whole collection
		parsed = 0
	}
	*grace = parsed
	return nil
}
