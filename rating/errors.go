/*
errors.go - Centralized error types for the rating engine

PURPOSE:
  All engine error kinds in one place. Calculation either succeeds or
  fails deterministically; there is no silent fallback (a missing rate is
  never defaulted to zero or one) and no partial result (one failing
  coverage fails the whole calculation).

ERROR CATEGORIES:
  1. Configuration errors - Ambiguous or missing rate/factor configuration
  2. Input errors - Malformed terms, missing required fields

USAGE:
  Callers classify with errors.Is or the helpers below:

    if errors.Is(err, rating.ErrAmbiguousConfig) {
        // two equally specific matches: fix the table, do not retry
    }

SEE ALSO:
  - ratetable.go: Raises AmbiguityError and RateNotFoundError
  - factors.go: Raises AmbiguityError for factor ties
  - term.go: Raises InvalidTermError
*/
package rating

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrAmbiguousConfig is returned when two rate entries or factor
	// records match with equal specificity. The engine never picks one
	// arbitrarily; the configuration must be corrected.
	ErrAmbiguousConfig = errors.New("ambiguous rating configuration")

	// ErrRateNotFound is returned when no rate table entry covers a
	// coverage type on a given date for a given context.
	ErrRateNotFound = errors.New("no rate table entry found")

	// ErrInvalidTerm is returned for zero-or-negative-length policy spans.
	ErrInvalidTerm = errors.New("invalid policy term")

	// ErrInvalidInput is returned for malformed calculation inputs:
	// unknown coverage types, non-finite amounts, or a required coverage
	// with no limit.
	ErrInvalidInput = errors.New("invalid rating input")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// AmbiguityError reports an equal-specificity tie between configuration
// entries. Candidates names the tied entries so the table can be fixed.
type AmbiguityError struct {
	Kind       string // "rate" or "factor"
	Coverage   CoverageType
	AsOf       Date // zero for factor ties (factors are not date-scoped)
	Candidates []string
}

func (e *AmbiguityError) Error() string {
	if e.Kind == "rate" {
		return fmt.Sprintf("ambiguous %s configuration for %s on %s: %d equally specific matches %v",
			e.Kind, e.Coverage, e.AsOf, len(e.Candidates), e.Candidates)
	}
	return fmt.Sprintf("ambiguous %s configuration for %s: %d equally specific matches %v",
		e.Kind, e.Coverage, len(e.Candidates), e.Candidates)
}

func (e *AmbiguityError) Unwrap() error { return ErrAmbiguousConfig }

// RateNotFoundError reports a rate lookup that matched nothing.
type RateNotFoundError struct {
	Coverage CoverageType
	AsOf     Date
}

func (e *RateNotFoundError) Error() string {
	return fmt.Sprintf("no rate table entry for %s on %s", e.Coverage, e.AsOf)
}

func (e *RateNotFoundError) Unwrap() error { return ErrRateNotFound }

// InvalidTermError reports a malformed policy span.
type InvalidTermError struct {
	Effective Date
	Expiry    Date
	Reason    string
}

func (e *InvalidTermError) Error() string {
	return fmt.Sprintf("invalid policy term [%s, %s): %s", e.Effective, e.Expiry, e.Reason)
}

func (e *InvalidTermError) Unwrap() error { return ErrInvalidTerm }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsConfigError returns true if the error indicates broken rating
// configuration (ambiguity or a missing rate) rather than bad input.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrAmbiguousConfig) || errors.Is(err, ErrRateNotFound)
}

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidTerm) || errors.Is(err, ErrInvalidInput)
}
