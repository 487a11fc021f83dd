package services

import (
	"errors"
	"fmt"
)

// Entity lookup errors. Absent ids surface as these sentinels rather
// than raw gorm errors.
var (
	ErrCaseNotFound    = errors.New("case not found")
	ErrHearingNotFound = errors.New("hearing not found")
	ErrActNotFound     = errors.New("act not found")
	ErrChargeNotFound  = errors.New("charge not found")
	ErrLevyNotFound    = errors.New("levy not found")
	ErrClaimNotFound   = errors.New("claim not found")
	ErrGoodNotFound    = errors.New("good not found")
)

// ValidationError signals a missing required field, an out-of-range
// value, or a premature transition attempt. Always recoverable by the
// operator, never retried automatically.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// NewValidationError creates a ValidationError for a specific field
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// ConflictError signals an operation against stale or already-terminal
// state (double-sign, double-issue). Recoverable only by refetching.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: %s", e.Reason)
}

// NewConflictError creates a ConflictError
func NewConflictError(reason string) error {
	return &ConflictError{Reason: reason}
}

// RetryableError wraps a failure of an external collaborator (signing,
// PDF rendering) that is safe to retry once before surfacing.
type RetryableError struct {
	Op  string
	Err error
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsConflict reports whether err is a ConflictError
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// IsRetryable reports whether err is a RetryableError
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// IsNotFound reports whether err is one of the entity lookup sentinels
func IsNotFound(err error) bool {
	switch {
	case errors.Is(err, ErrCaseNotFound),
		errors.Is(err, ErrHearingNotFound),
		errors.Is(err, ErrActNotFound),
		errors.Is(err, ErrChargeNotFound),
		errors.Is(err, ErrLevyNotFound),
		errors.Is(err, ErrClaimNotFound),
		errors.Is(err, ErrGoodNotFound):
		return true
	}
	return false
}
