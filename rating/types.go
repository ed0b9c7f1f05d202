/*
Package rating provides the core premium calculation engine.

PURPOSE:
  This package contains the pure, stateless machinery that turns a base
  rate table, a set of multiplicative rating factors, and a policy term
  into per-coverage and total premium amounts. It owns the rounding
  discipline (3-decimal intermediates, integer-dollar finals, half-up
  ties) and produces a full calculation trace for every quote.

KEY CONCEPTS IN THIS FILE (types.go):
  - CoverageType: The named risk categories rated independently (BI, PD, ...)
  - CoverageRequest: One requested coverage with limit/deductible
  - RatingContext: Read-only driver/vehicle/policy attributes
  - PolicyTerm: The calendar span a policy covers
  - CalculationStep: An append-only trace record of one arithmetic step
  - CoverageResult / PremiumResult: Immutable output aggregates
  - Date: Day-granularity calendar point used for all term math

DESIGN PRINCIPLES:
  1. Exactness: All money math uses decimal.Decimal, never float64
  2. Immutability: Inputs are built once per calculation and never mutated
  3. Determinism: Identical inputs reproduce every intermediate bit-for-bit
  4. Purity: No I/O, no clocks, no hidden state on the calculation path

USAGE:
  engine := rating.NewEngine(rateTable, factorEngine)
  calc := rating.NewPremiumCalculator(engine)
  result, err := calc.Calculate(requests, ctx, term)

SEE ALSO:
  - rounding.go: The half-up rounding primitives
  - ratetable.go: Base rate resolution
  - factors.go: Factor selection and canonical ordering
  - term.go: Policy-year splitting and pro-rata fractions
  - calculator.go: The orchestrator
*/
package rating

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// COVERAGE TYPES
// =============================================================================

// CoverageType identifies an independently rated risk category.
type CoverageType string

const (
	CoverageBI   CoverageType = "BI"   // Liability - Bodily Injury
	CoveragePD   CoverageType = "PD"   // Liability - Property Damage
	CoveragePIP  CoverageType = "PIP"  // Personal Injury Protection
	CoverageUM   CoverageType = "UM"   // Uninsured Motorist
	CoverageUIM  CoverageType = "UIM"  // Underinsured Motorist
	CoverageCOLL CoverageType = "COLL" // Collision
	CoverageCOMP CoverageType = "COMP" // Comprehensive
)

// CoverageTypes lists every known coverage in declaration order.
var CoverageTypes = []CoverageType{
	CoverageBI, CoveragePD, CoveragePIP,
	CoverageUM, CoverageUIM, CoverageCOLL, CoverageCOMP,
}

// Valid reports whether ct is one of the known coverage types.
func (ct CoverageType) Valid() bool {
	for _, known := range CoverageTypes {
		if ct == known {
			return true
		}
	}
	return false
}

// CoverageRequest is one coverage the caller wants rated.
// Immutable once built; the engine reads it, never writes it.
type CoverageRequest struct {
	Type       CoverageType
	Limit      decimal.Decimal
	Deductible decimal.Decimal
	Required   bool
}

// =============================================================================
// RATING CONTEXT - Read-only attributes factors and rates match against
// =============================================================================

// AccidentClass buckets a driver's accident history for factor matching.
type AccidentClass string

const (
	AccidentNone    AccidentClass = "none"
	AccidentAny     AccidentClass = "any"
	AccidentAtFault AccidentClass = "at_fault"
)

// ViolationClass buckets a driver's violation history for factor matching.
type ViolationClass string

const (
	ViolationNone  ViolationClass = "none"
	ViolationMinor ViolationClass = "minor"
	ViolationMajor ViolationClass = "major"
)

// RatingContext carries everything a rate entry or factor record may
// condition on. It is built once per calculation (the domain package does
// this from vehicle/driver/policy data) and read-only thereafter.
//
// Vehicle type and usage are plain strings here: the rating core is
// vocabulary-agnostic, the auto package defines the concrete enums.
type RatingContext struct {
	DriverAge      int
	VehicleType    string
	VehicleUsage   string
	SafetyFeatures []string
	AccidentCount  int
	AccidentClass  AccidentClass
	ViolationCount int
	ViolationClass ViolationClass
	CarCount       int
	State          string
}

// HasSafetyFeature reports whether the context includes the named feature.
func (c RatingContext) HasSafetyFeature(name string) bool {
	for _, f := range c.SafetyFeatures {
		if f == name {
			return true
		}
	}
	return false
}

// =============================================================================
// POLICY TERM
// =============================================================================

// PolicyTerm is the calendar span a policy covers.
// Invariant: Expiry is strictly after Effective (enforced by PolicyYears).
type PolicyTerm struct {
	Effective   Date
	Expiry      Date
	IsRenewal   bool
	RenewalDate Date // optional; zero value means "use Effective"
}

// RateDate returns the anchor date for rate-table lookups: the renewal
// date for renewals (when supplied), otherwise the effective date.
func (t PolicyTerm) RateDate() Date {
	if t.IsRenewal && !t.RenewalDate.IsZero() {
		return t.RenewalDate
	}
	return t.Effective
}

// =============================================================================
// CALCULATION TRACE
// =============================================================================

// Precision identifies which rounding rule a calculation step applied.
type Precision string

const (
	PrecisionNone         Precision = "none"         // value recorded, no rounding
	PrecisionIntermediate Precision = "intermediate" // 3 decimal places, half-up
	PrecisionFinal        Precision = "final"        // integer dollars, half-up
)

// CalculationStep records one arithmetic operation in a coverage
// computation. Steps are append-only: created by the coverage calculator,
// stamped with their policy year by the orchestrator, then frozen inside
// the result.
type CalculationStep struct {
	PolicyYear  int
	Description string
	Inputs      []decimal.Decimal
	Output      decimal.Decimal
	Precision   Precision
}

// =============================================================================
// RESULTS
// =============================================================================

// PolicyYearPremium is one policy-year's share of a coverage's premium.
type PolicyYearPremium struct {
	YearIndex int
	AsOf      Date
	Premium   int64
}

// CoverageResult is the rated outcome for a single coverage: the summed
// integer premium across policy years and the full ordered trace.
type CoverageResult struct {
	Coverage CoverageType
	Premium  int64
	Years    []PolicyYearPremium
	Trace    []CalculationStep
}

// PremiumResult is the complete output of a premium calculation.
// Built once by the orchestrator; owned by the caller after return.
type PremiumResult struct {
	Total     int64
	Coverages []CoverageResult
	Years     []PolicyYear
	Term      PolicyTerm
}

// =============================================================================
// DATE - Day-granularity calendar point
// =============================================================================

// Date is a calendar day in UTC. All term arithmetic and rate-table
// resolution happens at day granularity; times of day never matter here.
type Date struct {
	Time time.Time
}

// NewDate constructs a Date for the given calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateFromTime truncates a time.Time to its UTC calendar day.
func DateFromTime(t time.Time) Date {
	u := t.UTC()
	return NewDate(u.Year(), u.Month(), u.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return DateFromTime(t), nil
}

// Comparison
func (d Date) Before(other Date) bool        { return d.Time.Before(other.Time) }
func (d Date) After(other Date) bool         { return d.Time.After(other.Time) }
func (d Date) Equal(other Date) bool         { return d.Time.Equal(other.Time) }
func (d Date) BeforeOrEqual(other Date) bool { return d.Before(other) || d.Equal(other) }
func (d Date) AfterOrEqual(other Date) bool  { return d.After(other) || d.Equal(other) }
func (d Date) IsZero() bool                  { return d.Time.IsZero() }

// Arithmetic
func (d Date) AddDays(n int) Date  { return Date{Time: d.Time.AddDate(0, 0, n)} }
func (d Date) AddYears(n int) Date { return Date{Time: d.Time.AddDate(n, 0, 0)} }

// DaysUntil returns the number of whole days from d to other.
// Negative when other is before d.
func (d Date) DaysUntil(other Date) int {
	return int(other.Time.Sub(d.Time) / (24 * time.Hour))
}

func (d Date) Year() int         { return d.Time.Year() }
func (d Date) Month() time.Month { return d.Time.Month() }
func (d Date) Day() int          { return d.Time.Day() }

// String formats the date as YYYY-MM-DD.
func (d Date) String() string { return d.Time.Format("2006-01-02") }

// MustParseDecimal parses a decimal literal, returning zero on error.
// Intended for constants and fixtures, not untrusted input.
func MustParseDecimal(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return v
}
