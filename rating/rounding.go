package rating

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ROUNDING - The two fixed precisions of the rating discipline
// =============================================================================
//
// Every intermediate product in a factor chain passes through
// RoundIntermediate before the next multiplication; the very last value
// for a coverage passes through RoundFinal. Ties round half UP:
//
//   RoundIntermediate(0.1245) == 0.125
//   RoundFinal(100.500)       == 101
//
// Half-to-even would diverge on exactly these ties, so it is not used.
// Both functions are pure and exact: implemented as floor(x*10^p + 0.5)
// over decimals, which makes the tie-break explicit for every sign.

var half = decimal.New(5, -1) // 0.5

// RoundIntermediate rounds to exactly 3 decimal places, half-up.
func RoundIntermediate(d decimal.Decimal) decimal.Decimal {
	return roundHalfUp(d, 3)
}

// RoundFinal rounds to the nearest whole dollar, half-up.
func RoundFinal(d decimal.Decimal) int64 {
	return roundHalfUp(d, 0).IntPart()
}

func roundHalfUp(d decimal.Decimal, places int32) decimal.Decimal {
	return d.Shift(places).Add(half).Floor().Shift(-places)
}

// DecimalFromFloat converts a float to an exact decimal, rejecting values
// the rating domain cannot represent. This is the ingestion guard for
// float-typed inputs (API DTOs, CSV cells): decimal.Decimal itself cannot
// hold NaN or infinities, so they must be refused at the boundary.
func DecimalFromFloat(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) {
		return decimal.Decimal{}, fmt.Errorf("%w: NaN is not a valid amount", ErrInvalidInput)
	}
	if math.IsInf(f, 0) {
		return decimal.Decimal{}, fmt.Errorf("%w: infinite value is not a valid amount", ErrInvalidInput)
	}
	return decimal.NewFromFloat(f), nil
}
