/*
coverage.go - Single-coverage, single-policy-year computation

PURPOSE:
  Computes exactly one coverage's premium for exactly one policy year:
  the step-rounded factor chain, the term fraction, and the final integer
  round. This component has no knowledge of multi-year aggregation; the
  orchestrator sums its outputs.

ALGORITHM (every arithmetic operation is traced):
  running = baseRate
  for each factor (canonical order):
      running = RoundIntermediate(running * factor)
  running = RoundIntermediate(running * termFraction)
  final   = RoundFinal(running)

  Rounding after EVERY multiplication, not once at the end — the cents
  depend on it.

TRACE OWNERSHIP:
  Steps are accumulated by the calculator for the duration of one
  coverage's computation, then moved (not copied) into the result.

SEE ALSO:
  - rounding.go: RoundIntermediate / RoundFinal
  - calculator.go: Per-year invocation and aggregation
*/
package rating

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CoverageCalculator computes one coverage for one policy year, tracing
// every step. A calculator instance owns its trace until ComputeCoverage
// returns it; instances are not reused across coverages.
type CoverageCalculator struct {
	steps []CalculationStep
}

// ComputeCoverage runs the factor chain and returns the final integer
// amount with the full trace. The trace slice is transferred to the
// caller; the calculator keeps no reference to it.
func (cc *CoverageCalculator) ComputeCoverage(
	coverage CoverageType,
	baseRate decimal.Decimal,
	factors []AppliedFactor,
	termFraction decimal.Decimal,
) (int64, []CalculationStep) {
	running := baseRate
	cc.record(fmt.Sprintf("%s base rate", coverage), nil, running, PrecisionNone)

	for _, f := range factors {
		product := running.Mul(f.Value)
		rounded := RoundIntermediate(product)
		cc.record(
			fmt.Sprintf("apply %s factor %q", f.Type, f.Name),
			[]decimal.Decimal{running, f.Value},
			rounded,
			PrecisionIntermediate,
		)
		running = rounded
	}

	{
		product := running.Mul(termFraction)
		rounded := RoundIntermediate(product)
		cc.record(
			"apply term fraction",
			[]decimal.Decimal{running, termFraction},
			rounded,
			PrecisionIntermediate,
		)
		running = rounded
	}

	final := RoundFinal(running)
	cc.record(
		"round to whole dollars",
		[]decimal.Decimal{running},
		decimal.NewFromInt(final),
		PrecisionFinal,
	)

	trace := cc.steps
	cc.steps = nil
	return final, trace
}

// record appends one immutable trace step.
func (cc *CoverageCalculator) record(desc string, inputs []decimal.Decimal, out decimal.Decimal, p Precision) {
	cc.steps = append(cc.steps, CalculationStep{
		Description: desc,
		Inputs:      inputs,
		Output:      out,
		Precision:   p,
	})
}
