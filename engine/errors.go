/*
errors.go - Centralized error types for the calculation engine

PURPOSE:
  All engine error types in one place for consistency and discoverability.
  The taxonomy is deliberately small: every engine failure is local,
  synchronous, and non-retryable because the engine performs no I/O.

ERROR CATEGORIES:
  1. Validation errors    - Malformed or out-of-range caller input
  2. Configuration errors - Malformed statutory rate table
  3. State errors         - Illegal PayrollEntry lifecycle transition

USAGE:
  Callers match categories with errors.Is():

    if errors.Is(err, engine.ErrValidation) {
        // reject the request, surface the offending field
    }

  Or extract detail with errors.As():

    var verr *engine.ValidationError
    if errors.As(err, &verr) {
        log.Printf("bad field %s: %s", verr.Field, verr.Reason)
    }

SEE ALSO:
  - rates.go: Produces ConfigurationError at table load time
  - earnings.go, deductions.go: Produce ValidationError
  - entry.go: Produces StateError
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is returned for malformed or out-of-range caller input
	// (negative amounts, invalid overtime multiplier). Input is never
	// silently corrected.
	ErrValidation = errors.New("invalid calculation input")

	// ErrConfiguration is returned for a structurally invalid rate table.
	// Raised before any calculation is attempted.
	ErrConfiguration = errors.New("invalid statutory rate table")

	// ErrState is returned for an illegal PayrollEntry transition, e.g.
	// recomputing an approved entry. The entry is left unchanged.
	ErrState = errors.New("illegal payroll entry transition")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError names the offending input field and value.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input: %s=%s (%s)", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ConfigurationError describes which part of the rate table is malformed.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid rate table: %s (%s)", e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// StateError records a rejected lifecycle transition.
type StateError struct {
	EntryID EntryID
	From    EntryStatus
	Op      string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("entry %s: cannot %s from status %q", e.EntryID, e.Op, e.From)
}

func (e *StateError) Unwrap() error { return ErrState }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrState)
}

// IsConfigError returns true if the error is due to a malformed rate table.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}
