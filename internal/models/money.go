package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidMoney = errors.New("invalid money amount")

var moneyPattern = regexp.MustCompile(`^(?:tzs|tshs|tsh|shs|sh|kes|usd|\$)?\.?(\d+(?:\.\d+)?)(?:/=|/-)?$`)

// Money is a decimal amount. It is stored as a quoted string, matching the
// text the original forms persisted.
type Money struct {
	decimal.Decimal
	// unreadable holds stored text that is not an amount. It counts as zero
	// and is written back unchanged.
	unreadable string
}

func NewMoney(value decimal.Decimal) Money {
	return Money{Decimal: value}
}

// ParseMoney accepts plain non-negative numbers as well as grouped or
// currency-marked input such as "300,000", "TZS 300000" or "300000/=".
func ParseMoney(raw string) (Money, error) {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	if cleaned == "" {
		return Money{}, fmt.Errorf("%w: empty", ErrInvalidMoney)
	}
	cleaned = strings.NewReplacer(",", "", "_", "", " ", "").Replace(cleaned)

	matches := moneyPattern.FindStringSubmatch(cleaned)
	if len(matches) != 2 {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidMoney, raw)
	}
	value, err := decimal.NewFromString(matches[1])
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidMoney, raw)
	}
	return Money{Decimal: value}, nil
}

// Unreadable returns the stored text that could not be read as an amount.
func (money Money) Unreadable() (string, bool) {
	return money.unreadable, money.unreadable != ""
}

func (money Money) Add(other Money) Money {
	return Money{Decimal: money.Decimal.Add(other.Decimal)}
}

func (money Money) String() string {
	if money.unreadable != "" {
		return money.unreadable
	}
	return money.Decimal.String()
}

// IsZero reports a missing amount. Unreadable text is not missing.
func (money Money) IsZero() bool {
	return money.unreadable == "" && money.Decimal.IsZero()
}

func (money Money) MarshalJSON() ([]byte, error) {
	if money.unreadable != "" {
		return json.Marshal(money.unreadable)
	}
	return json.Marshal(money.Decimal.String())
}

func (money *Money) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == `""` {
		*money = Money{}
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		raw = trimmed
	}
	if value, err := decimal.NewFromString(raw); err == nil {
		*money = Money{Decimal: value}
		return nil
	}
	parsed, err := ParseMoney(raw)
	if err != nil {
		// older records kept rent as typed; one bad value must not fail the collection
		*money = Money{unreadable: raw}
		return nil
	}
	*money = parsed
	return nil
}
