package utils

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed or out-of-range input. Field names the
// offending attribute so clients can render inline messages.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a field-scoped validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// OverlapError reports a conflicting period range or a duplicate
// (year, system, number) tuple.
type OverlapError struct {
	Field   string
	Message string
}

func (e *OverlapError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewOverlapError(field, message string) *OverlapError {
	return &OverlapError{Field: field, Message: message}
}

// LockedPeriodError reports a write attempted against a locked period.
type LockedPeriodError struct {
	PeriodID uint
	Resource string
}

func (e *LockedPeriodError) Error() string {
	if e.Resource == "" {
		return fmt.Sprintf("period %d is locked", e.PeriodID)
	}
	return fmt.Sprintf("period %d is locked; cannot modify %s", e.PeriodID, e.Resource)
}

func NewLockedPeriodError(periodID uint, resource string) *LockedPeriodError {
	return &LockedPeriodError{PeriodID: periodID, Resource: resource}
}

// ConfigInconsistentError reports a grade boundary table that is not
// strictly descending, a weight sum mismatch, or a passing mark above the
// sixth band minimum.
type ConfigInconsistentError struct {
	Field   string
	Message string
}

func (e *ConfigInconsistentError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewConfigInconsistentError(field, message string) *ConfigInconsistentError {
	return &ConfigInconsistentError{Field: field, Message: message}
}

// ErrorField extracts the field attribution from a typed error, if any.
func ErrorField(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Field
	}
	var oe *OverlapError
	if errors.As(err, &oe) {
		return oe.Field
	}
	var ce *ConfigInconsistentError
	if errors.As(err, &ce) {
		return ce.Field
	}
	return ""
}

// IsClientError reports whether err belongs to the caller-error taxonomy
// (as opposed to an internal/storage failure).
func IsClientError(err error) bool {
	var ve *ValidationError
	var oe *OverlapError
	var le *LockedPeriodError
	var ce *ConfigInconsistentError
	return errors.As(err, &ve) || errors.As(err, &oe) || errors.As(err, &le) || errors.As(err, &ce)
}
