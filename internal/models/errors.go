package models

import (
	"errors"
	"fmt"
)

// The three error kinds the API distinguishes: validation, not found, and
// everything else (storage I/O), which is passed through untyped.

var (
	ErrNotFound          = errors.New("record not found")
	ErrUnknownCollection = errors.New("unknown ledger collection")
	ErrUnknownCurrency   = errors.New("unknown currency")
	ErrInvalidRate       = errors.New("exchange rate must be greater than zero")
	ErrDuplicateUser     = errors.New("user already exists")
	ErrInvalidCredential = errors.New("invalid credentials")
)

// ValidationError reports a rejected field before any persistence call is
// made. The write is aborted, nothing is stored.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Invalid builds a ValidationError for a field.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
