/*
ratetable.go - Base rate resolution

PURPOSE:
  Maps (coverage type, as-of date, rating context) to a base rate.
  The table is date-range-oblivious beyond single-point lookup: for a
  multi-year policy the orchestrator probes it once per policy-year with
  that year's anniversary date (term.go determines those dates).

MATCHING ALGORITHM:
  1. Filter entries whose [EffectiveFrom, EffectiveTo) range contains the
     as-of date and whose optional conditions (vehicle type, usage, age
     bracket) are satisfied. An entry with an empty condition field
     matches any value of that field.
  2. Among matches, the entry with the most non-wildcard condition fields
     wins (most-specific-match-wins).
  3. A specificity tie is a hard AmbiguityError, never a silent pick.
  4. No match at all is a RateNotFoundError naming coverage and date.

IMMUTABILITY:
  A RateTable is built once from validated configuration and read-only
  for its lifetime. Reloads construct a new table and swap it via
  Provider (engine.go); an in-flight calculation keeps the table it
  started with.

SEE ALSO:
  - factors.go: Uses the same specificity tie-break for factor records
  - engine.go: Atomic table replacement
*/
package rating

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RATE TABLE ENTRY
// =============================================================================

// AgeBracket is an inclusive driver-age range. Max == 0 means open-ended
// (e.g., "65+" is {Min: 65, Max: 0}).
type AgeBracket struct {
	Min int
	Max int
}

// Contains reports whether age falls inside the bracket.
func (b AgeBracket) Contains(age int) bool {
	if age < b.Min {
		return false
	}
	return b.Max == 0 || age <= b.Max
}

// String formats the bracket the way rate filings write it.
func (b AgeBracket) String() string {
	if b.Max == 0 {
		return fmt.Sprintf("%d+", b.Min)
	}
	return fmt.Sprintf("%d-%d", b.Min, b.Max)
}

// RateTableEntry is one row of the rate table. Condition fields are
// optional: the zero value ("" or nil) is a wildcard that matches any
// context. The date range is half-open: [EffectiveFrom, EffectiveTo),
// with a zero EffectiveTo meaning no expiry.
type RateTableEntry struct {
	Coverage      CoverageType
	EffectiveFrom Date
	EffectiveTo   Date
	VehicleType   string
	VehicleUsage  string
	AgeBracket    *AgeBracket
	BaseRate      decimal.Decimal
}

// coversDate reports whether asOf falls inside [EffectiveFrom, EffectiveTo).
func (e RateTableEntry) coversDate(asOf Date) bool {
	if asOf.Before(e.EffectiveFrom) {
		return false
	}
	return e.EffectiveTo.IsZero() || asOf.Before(e.EffectiveTo)
}

// matches reports whether the entry applies to the coverage, date, and context.
func (e RateTableEntry) matches(coverage CoverageType, asOf Date, ctx RatingContext) bool {
	if e.Coverage != coverage || !e.coversDate(asOf) {
		return false
	}
	if e.VehicleType != "" && e.VehicleType != ctx.VehicleType {
		return false
	}
	if e.VehicleUsage != "" && e.VehicleUsage != ctx.VehicleUsage {
		return false
	}
	if e.AgeBracket != nil && !e.AgeBracket.Contains(ctx.DriverAge) {
		return false
	}
	return true
}

// specificity counts the populated condition fields. More populated
// fields beat fewer during selection.
func (e RateTableEntry) specificity() int {
	n := 0
	if e.VehicleType != "" {
		n++
	}
	if e.VehicleUsage != "" {
		n++
	}
	if e.AgeBracket != nil {
		n++
	}
	return n
}

// describe names an entry for error messages and conflict reports.
func (e RateTableEntry) describe() string {
	desc := fmt.Sprintf("%s@%s", e.Coverage, e.EffectiveFrom)
	if e.VehicleType != "" {
		desc += "/" + e.VehicleType
	}
	if e.VehicleUsage != "" {
		desc += "/" + e.VehicleUsage
	}
	if e.AgeBracket != nil {
		desc += "/" + e.AgeBracket.String()
	}
	return desc
}

// =============================================================================
// RATE TABLE
// =============================================================================

// RateTable is an immutable, ordered collection of rate entries.
type RateTable struct {
	entries []RateTableEntry
}

// NewRateTable builds a table from validated entries. The slice is
// copied; the caller may not mutate the table afterwards.
func NewRateTable(entries []RateTableEntry) *RateTable {
	owned := make([]RateTableEntry, len(entries))
	copy(owned, entries)
	return &RateTable{entries: owned}
}

// Entries returns a copy of the table's rows (for persistence and reports).
func (t *RateTable) Entries() []RateTableEntry {
	out := make([]RateTableEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of entries.
func (t *RateTable) Len() int { return len(t.entries) }

// Lookup resolves the base rate for a coverage at a single point in time.
// Selection is most-specific-match-wins; an equal-specificity tie fails
// with AmbiguityError and no match fails with RateNotFoundError.
func (t *RateTable) Lookup(coverage CoverageType, asOf Date, ctx RatingContext) (decimal.Decimal, error) {
	best := -1
	var winner RateTableEntry
	var tied []string

	for _, e := range t.entries {
		if !e.matches(coverage, asOf, ctx) {
			continue
		}
		switch s := e.specificity(); {
		case s > best:
			best = s
			winner = e
			tied = tied[:0]
		case s == best:
			tied = append(tied, e.describe())
		}
	}

	if best < 0 {
		return decimal.Decimal{}, &RateNotFoundError{Coverage: coverage, AsOf: asOf}
	}
	if len(tied) > 0 {
		return decimal.Decimal{}, &AmbiguityError{
			Kind:       "rate",
			Coverage:   coverage,
			AsOf:       asOf,
			Candidates: append([]string{winner.describe()}, tied...),
		}
	}
	return winner.BaseRate, nil
}

// =============================================================================
// STATIC CONFLICT DETECTION
// =============================================================================

// Conflicts reports every pair of entries that could tie at lookup time:
// same coverage, overlapping date ranges, equal specificity, and
// condition fields that do not exclude each other. Used by the CLI's
// validate command so ambiguities surface before they fail a quote.
func (t *RateTable) Conflicts() []string {
	var out []string
	for i := 0; i < len(t.entries); i++ {
		for j := i + 1; j < len(t.entries); j++ {
			a, b := t.entries[i], t.entries[j]
			if a.Coverage != b.Coverage || a.specificity() != b.specificity() {
				continue
			}
			if !dateRangesOverlap(a, b) || !conditionsOverlap(a, b) {
				continue
			}
			out = append(out, fmt.Sprintf("%s overlaps %s", a.describe(), b.describe()))
		}
	}
	sort.Strings(out)
	return out
}

func dateRangesOverlap(a, b RateTableEntry) bool {
	aOpen := a.EffectiveTo.IsZero()
	bOpen := b.EffectiveTo.IsZero()
	if !aOpen && b.EffectiveFrom.AfterOrEqual(a.EffectiveTo) {
		return false
	}
	if !bOpen && a.EffectiveFrom.AfterOrEqual(b.EffectiveTo) {
		return false
	}
	return true
}

func conditionsOverlap(a, b RateTableEntry) bool {
	if a.VehicleType != "" && b.VehicleType != "" && a.VehicleType != b.VehicleType {
		return false
	}
	if a.VehicleUsage != "" && b.VehicleUsage != "" && a.VehicleUsage != b.VehicleUsage {
		return false
	}
	if a.AgeBracket != nil && b.AgeBracket != nil && !bracketsOverlap(*a.AgeBracket, *b.AgeBracket) {
		return false
	}
	return true
}

func bracketsOverlap(a, b AgeBracket) bool {
	if a.Max != 0 && b.Min > a.Max {
		return false
	}
	if b.Max != 0 && a.Min > b.Max {
		return false
	}
	return true
}
