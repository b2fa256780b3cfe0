package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyName            = errors.New("empty name")
	ErrMissingField         = errors.New("missing required field")
	ErrDuplicateUnit        = errors.New("unit already exists")
	ErrDuplicateEmail       = errors.New("email already registered")
	ErrInvalidEmail         = errors.New("invalid email")
	ErrInvalidRole          = errors.New("invalid role")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidDate          = errors.New("invalid date")
	ErrInvalidStatus        = errors.New("invalid transaction status")
	ErrInvalidRentPlan      = errors.New("invalid rent plan")
	ErrInvalidGracePeriod   = errors.New("invalid grace period")
	ErrUnitVacant           = errors.New("unit is vacant")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrNotFound             = errors.New("record not found")
	ErrOutOfRange           = errors.New("index out of range")
	ErrInvalidCredentials   = errors.New("invalid credentials")
)

// IsValidationError reports whether err belongs to the input validation
// family, as opposed to lookups, credentials or storage failures.
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrEmptyName,
		ErrMissingField,
		ErrDuplicateUnit,
		ErrDuplicateEmail,
		ErrInvalidEmail,
		ErrInvalidRole,
		ErrInvalidAmount,
		ErrInvalidDate,
		ErrInvalidStatus,
		ErrInvalidRentPlan,
		ErrInvalidGracePeriod,
		ErrUnitVacant,
		ErrConfirmationRequired,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// StorageParseError records a stored value that could not be decoded. The raw
// payload is kept so it can be recovered by hand.
type StorageParseError struct {
	Key           string `json:"key"`
	QuarantineKey string `json:"quarantineKey"`
	Raw           string `json:"raw"`
	Err           error  `json:"-"`
}

func (parseErr *StorageParseError) Error() string {
	return fmt.Sprintf("parse stored %s: %v", parseErr.Key, parseErr.Err)
}

func (parseErr *StorageParseError) Unwrap() error {
	return parseErr.Err
}

func missingFieldError(fields []string) error {
	return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(fields, ", "))
}
