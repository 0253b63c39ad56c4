package receipt

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no record exists for an ID
	ErrNotFound = errors.New("receipt not found")

	// ErrScanningDisabled is returned by Scan when no scanner is configured
	ErrScanningDisabled = errors.New("receipt scanning is disabled")
)

// ValidationError reports the first receipt field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
