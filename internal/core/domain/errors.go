package domain

import (
	"errors"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from transport errors raised by the JustGo connector.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrInvalidResponse indicates the remote API returned a payload
	// that is missing data the caller depends on.
	ErrInvalidResponse = errors.New("invalid response")

	// Write Safety Errors.

	// ErrReadOnlyMode indicates a write was attempted while writes to
	// JustGo are disabled. No request is sent when this is returned.
	ErrReadOnlyMode = errors.New("JustGo is in read-only safety mode: write operations are disabled")

	// ErrValidation indicates a payload failed local validation before sending.
	ErrValidation = errors.New("validation failed")

	// ErrNotStaff indicates an admin override was attempted by a non-staff user.
	ErrNotStaff = errors.New("admin override requires a staff user")
)

// FieldError reports required fields missing from a write payload.
type FieldError struct {
	Fields []string
}

func (e *FieldError) Error() string {
	return "validation failed: missing required fields: " + strings.Join(e.Fields, ", ")
}

// Unwrap allows errors.Is(err, ErrValidation).
func (e *FieldError) Unwrap() error {
	return ErrValidation
}
