package rating_test

import (
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/warp/rating-engine/rating"
)

// =============================================================================
// TIE-BREAK TESTS - Half-up, never half-to-even
// =============================================================================

func TestRoundIntermediate_HalfUp(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0.1245", "0.125"}, // tie rounds up
		{"0.1244", "0.124"},
		{"0.1235", "0.124"}, // half-to-even would give 0.124 too; next case splits them
		{"0.1225", "0.123"}, // half-to-even would give 0.122
		{"1", "1"},
		{"0.9999", "1"},
		{"783.75", "783.75"}, // already within 3 decimals, unchanged
		{"0", "0"},
	}

	for _, c := range cases {
		got := rating.RoundIntermediate(rating.MustParseDecimal(c.in))
		if !got.Equal(rating.MustParseDecimal(c.want)) {
			t.Errorf("RoundIntermediate(%s) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestRoundFinal_HalfUp(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"100.499", 100},
		{"100.500", 101}, // tie rounds up
		{"100.0", 100},
		{"99.999", 100},
		{"0.5", 1},
		{"0.499", 0},
	}

	for _, c := range cases {
		if got := rating.RoundFinal(rating.MustParseDecimal(c.in)); got != c.want {
			t.Errorf("RoundFinal(%s) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestRoundIntermediate_Idempotent(t *testing.T) {
	v := rating.MustParseDecimal("0.1245")
	once := rating.RoundIntermediate(v)
	twice := rating.RoundIntermediate(once)
	if !once.Equal(twice) {
		t.Errorf("rounding not idempotent: %s != %s", once, twice)
	}
}

// =============================================================================
// FLOAT INGESTION GUARD
// =============================================================================

func TestDecimalFromFloat_RejectsNonFinite(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := rating.DecimalFromFloat(f); !errors.Is(err, rating.ErrInvalidInput) {
			t.Errorf("DecimalFromFloat(%v): want ErrInvalidInput, got %v", f, err)
		}
	}
}

func TestDecimalFromFloat_AcceptsFinite(t *testing.T) {
	v, err := rating.DecimalFromFloat(1.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.Equal(decimal.NewFromFloat(1.5)) {
		t.Errorf("got %s, want 1.5", v)
	}
}
