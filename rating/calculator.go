/*
calculator.go - The premium calculation orchestrator

PURPOSE:
  Iterates all requested coverages across all policy years, wiring the
  rate table, factor engine, term calculator, and coverage calculator
  together, and assembles the structured result with its full audit
  trace.

CONTROL FLOW (top-down, nothing calls back upward):
  PremiumCalculator
    -> PolicyYears (term.go)        which anniversary dates to probe
    -> RateTable.Lookup             one base rate per coverage per year
    -> FactorEngine.ApplicableFactors
    -> CoverageCalculator           step-rounded math, one year at a time

FAILURE:
  Required-coverage validation fails fast before any arithmetic. Any
  failing coverage fails the whole calculation; a partially-filled
  PremiumResult is never returned.

SEE ALSO:
  - engine.go: The immutable Engine a calculator reads from
  - auto/quoter.go: Builds RatingContext from domain inputs and calls this
*/
package rating

import "fmt"

// PremiumCalculator orchestrates a full premium calculation against one
// immutable Engine. Stateless between calls; safe for concurrent use.
type PremiumCalculator struct {
	engine *Engine
}

// NewPremiumCalculator creates a calculator bound to an engine instance.
func NewPremiumCalculator(e *Engine) *PremiumCalculator {
	return &PremiumCalculator{engine: e}
}

// Calculate computes every requested coverage over every policy year and
// returns the assembled result. The context must be fully built by the
// caller (see auto.BuildContext); it is read-only here.
func (pc *PremiumCalculator) Calculate(
	requests []CoverageRequest,
	ctx RatingContext,
	term PolicyTerm,
) (*PremiumResult, error) {
	if err := validateRequests(requests); err != nil {
		return nil, err
	}

	years, err := PolicyYears(term)
	if err != nil {
		return nil, err
	}

	result := &PremiumResult{
		Coverages: make([]CoverageResult, 0, len(requests)),
		Years:     years,
		Term:      term,
	}

	for _, req := range requests {
		covResult, err := pc.calculateCoverage(req, ctx, years)
		if err != nil {
			return nil, err
		}
		result.Coverages = append(result.Coverages, covResult)
		result.Total += covResult.Premium
	}

	return result, nil
}

// calculateCoverage rates one coverage across all policy years.
func (pc *PremiumCalculator) calculateCoverage(
	req CoverageRequest,
	ctx RatingContext,
	years []PolicyYear,
) (CoverageResult, error) {
	out := CoverageResult{Coverage: req.Type}

	for _, year := range years {
		baseRate, err := pc.engine.Rates.Lookup(req.Type, year.AsOf, ctx)
		if err != nil {
			return CoverageResult{}, err
		}
		factors, err := pc.engine.Factors.ApplicableFactors(req.Type, ctx)
		if err != nil {
			return CoverageResult{}, err
		}

		var cc CoverageCalculator
		amount, trace := cc.ComputeCoverage(req.Type, baseRate, factors, year.Fraction)

		for i := range trace {
			trace[i].PolicyYear = year.Index
		}
		out.Trace = append(out.Trace, trace...)
		out.Years = append(out.Years, PolicyYearPremium{
			YearIndex: year.Index,
			AsOf:      year.AsOf,
			Premium:   amount,
		})
		out.Premium += amount
	}

	return out, nil
}

// validateRequests enforces input invariants before any arithmetic:
// known coverage types, non-negative limits, and a positive limit on
// every required coverage.
func validateRequests(requests []CoverageRequest) error {
	for _, req := range requests {
		if !req.Type.Valid() {
			return fmt.Errorf("%w: unknown coverage type %q", ErrInvalidInput, string(req.Type))
		}
		if req.Limit.IsNegative() || req.Deductible.IsNegative() {
			return fmt.Errorf("%w: negative limit or deductible on %s", ErrInvalidInput, req.Type)
		}
		if req.Required && !req.Limit.IsPositive() {
			return fmt.Errorf("%w: required coverage %s has no limit", ErrInvalidInput, req.Type)
		}
	}
	return nil
}
