package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is matched by every InvalidInputError
	ErrInvalidInput = errors.New("invalid input")

	// ErrRunNotFound indicates requested coverage run doesn't exist
	ErrRunNotFound = errors.New("coverage run not found")

	// ErrFixtureNotFound indicates the catalog has no such fixture model
	ErrFixtureNotFound = errors.New("fixture not found")

	// ErrGridTooLarge indicates the plane would sample more points than the domain or service allows
	ErrGridTooLarge = errors.New("sample grid too large")
)

// InvalidInputError reports malformed geometry or options.
// Callers should surface Field and Reason to the user (e.g. "check fixture mounting height").
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

// Is lets errors.Is(err, ErrInvalidInput) match any InvalidInputError.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalid(field, format string, args ...any) *InvalidInputError {
	return &InvalidInputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
