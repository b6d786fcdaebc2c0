package apperrors

import (
	"errors"
	"fmt"
)

// ErrConfig indicates a structural problem with the run's configuration or
// the input's schema. It is fatal: the run stops and no partial output is
// published.
var ErrConfig = errors.New("configuration error")

// ErrNotFound indicates that the rate source has no rate for the requested date.
var ErrNotFound = errors.New("rate not found")

// ErrRateUnavailable indicates that the rate source could not be reached or
// answered with something other than a rate.
var ErrRateUnavailable = errors.New("rate source unavailable")

// NewConfigError wraps ErrConfig with a formatted detail message.
func NewConfigError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, args...))
}

// LookupError records a failed rate resolution for one canonical date. Cause
// wraps ErrNotFound or ErrRateUnavailable so diagnostics can tell the two
// apart; the record loop treats both the same way.
type LookupError struct {
	Date  string
	Cause error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup rate for %s: %v", e.Date, e.Cause)
}

func (e *LookupError) Unwrap() error { return e.Cause }

// SkipError marks a single record as dropped. Position is the 1-based record
// number in the input, not counting the header row.
type SkipError struct {
	Position int
	Cause    error
}

func (e *SkipError) Error() string {
	return fmt.Sprintf("record %d skipped: %v", e.Position, e.Cause)
}

func (e *SkipError) Unwrap() error { return e.Cause }
