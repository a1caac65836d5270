/*
errors.go - Centralized error types for the interest engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers surface the messages verbatim; no error here is retryable since
  every computation is pure.

ERROR CATEGORIES:
  1. Input errors - negative amounts, start before the schedule
  2. Lookup errors - a date no base rate is defined for
  3. Schedule errors - malformed reference data

USAGE:
  if errors.Is(err, generic.ErrNoBaseRate) {
      // start date predates the rate table
  }

SEE ALSO:
  - schedule.go: Raises ScheduleLookupError
  - allocation.go: Raises InputError
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidInput is returned for negative principal or payment amounts
	// and start dates outside the schedule.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoBaseRate is returned when a date precedes every schedule entry.
	ErrNoBaseRate = errors.New("no base rate defined")

	// ErrInvalidSchedule is returned for empty schedules or duplicate dates.
	ErrInvalidSchedule = errors.New("invalid rate schedule")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InputError describes a rejected input field.
type InputError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InputError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %s: %s", e.Field, e.Value, e.Reason)
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

// ScheduleLookupError is raised when RateAt is asked for a date before the
// first entry. The whole computation fails; no partial result is returned.
type ScheduleLookupError struct {
	Date     TimePoint
	Earliest TimePoint
}

func (e *ScheduleLookupError) Error() string {
	if e.Earliest.IsZero() {
		return fmt.Sprintf("no base rate defined before %s: schedule is empty", e.Date)
	}
	return fmt.Sprintf("no base rate defined before %s (earliest entry %s)", e.Date, e.Earliest)
}

func (e *ScheduleLookupError) Unwrap() error {
	return ErrNoBaseRate
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrNoBaseRate) ||
		errors.Is(err, ErrInvalidSchedule)
}
