package rating_test

import (
	"errors"
	"testing"
	"time"

	"github.com/warp/rating-engine/rating"
)

// =============================================================================
// TEST FIXTURES
// =============================================================================

// threeYearEngine carries one BI filing per year (500, 520, 540) and the
// reference factor set, so multi-year rollover is observable in totals.
func threeYearEngine() *rating.Engine {
	table := rating.NewRateTable([]rating.RateTableEntry{
		biEntry(date(2024, time.January, 1), date(2025, time.January, 1), "500"),
		biEntry(date(2025, time.January, 1), date(2026, time.January, 1), "520"),
		biEntry(date(2026, time.January, 1), date(2027, time.January, 1), "540"),
	})
	factors := rating.NewFactorEngine([]rating.FactorRecord{
		youngDriverFactor(), suvFactor(), airbagFactor(),
	})
	return rating.NewEngine(table, factors)
}

func youngSUVCtx() rating.RatingContext {
	return rating.RatingContext{
		DriverAge:      22,
		VehicleType:    "SUV",
		VehicleUsage:   "Commuting",
		SafetyFeatures: []string{"airbag"},
		CarCount:       1,
		State:          "CA",
	}
}

func biRequest(limit string, required bool) rating.CoverageRequest {
	return rating.CoverageRequest{
		Type:     rating.CoverageBI,
		Limit:    rating.MustParseDecimal(limit),
		Required: required,
	}
}

// =============================================================================
// END-TO-END CALCULATIONS
// =============================================================================

func TestCalculate_SingleYear(t *testing.T) {
	// GIVEN: BI 500, factors 1.5/1.1/0.95, one-year term
	// THEN: 784 (the reference chain), one policy year in the result

	calc := rating.NewPremiumCalculator(threeYearEngine())
	result, err := calc.Calculate(
		[]rating.CoverageRequest{biRequest("100000", true)},
		youngSUVCtx(),
		rating.PolicyTerm{
			Effective: date(2024, time.January, 1),
			Expiry:    date(2025, time.January, 1),
		},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 784 {
		t.Errorf("total = %d, want 784", result.Total)
	}
	if len(result.Coverages) != 1 || result.Coverages[0].Premium != 784 {
		t.Errorf("coverage premium = %+v, want 784", result.Coverages)
	}
	if len(result.Coverages[0].Trace) == 0 {
		t.Error("result is missing its calculation trace")
	}
}

func TestCalculate_MultiYearRollover(t *testing.T) {
	// GIVEN: A 3-year policy effective 2024-01-01 over rates 500/520/540
	// WHEN: Calculating BI
	// THEN: Each policy year resolves its own filing:
	//       784 + 815 + 846 = 2445

	calc := rating.NewPremiumCalculator(threeYearEngine())
	result, err := calc.Calculate(
		[]rating.CoverageRequest{biRequest("100000", true)},
		youngSUVCtx(),
		rating.PolicyTerm{
			Effective: date(2024, time.January, 1),
			Expiry:    date(2027, time.January, 1),
		},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cov := result.Coverages[0]
	wantYears := []int64{784, 815, 846}
	if len(cov.Years) != 3 {
		t.Fatalf("got %d policy-year premiums, want 3", len(cov.Years))
	}
	for i, want := range wantYears {
		if cov.Years[i].Premium != want {
			t.Errorf("year %d premium = %d, want %d", i, cov.Years[i].Premium, want)
		}
	}
	if result.Total != 2445 {
		t.Errorf("total = %d, want 2445", result.Total)
	}

	// Trace steps are stamped with their policy year.
	seen := map[int]bool{}
	for _, step := range cov.Trace {
		seen[step.PolicyYear] = true
	}
	for i := 0; i < 3; i++ {
		if !seen[i] {
			t.Errorf("trace has no steps for policy year %d", i)
		}
	}
}

func TestCalculate_ShortTermProration(t *testing.T) {
	// 181-day policy: the 0.496 fraction applies after the factor chain.
	// 783.750 * 0.496 = 388.740 -> 389.

	calc := rating.NewPremiumCalculator(threeYearEngine())
	result, err := calc.Calculate(
		[]rating.CoverageRequest{biRequest("100000", false)},
		youngSUVCtx(),
		rating.PolicyTerm{
			Effective: date(2024, time.January, 1),
			Expiry:    date(2024, time.June, 30),
		},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 389 {
		t.Errorf("total = %d, want 389", result.Total)
	}
}

func TestCalculate_Deterministic(t *testing.T) {
	// Identical inputs must reproduce every intermediate bit-for-bit.
	calc := rating.NewPremiumCalculator(threeYearEngine())
	term := rating.PolicyTerm{
		Effective: date(2024, time.January, 1),
		Expiry:    date(2027, time.January, 1),
	}

	a, err := calc.Calculate([]rating.CoverageRequest{biRequest("100000", true)}, youngSUVCtx(), term)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := calc.Calculate([]rating.CoverageRequest{biRequest("100000", true)}, youngSUVCtx(), term)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	traceA, traceB := a.Coverages[0].Trace, b.Coverages[0].Trace
	if len(traceA) != len(traceB) {
		t.Fatalf("trace lengths differ: %d vs %d", len(traceA), len(traceB))
	}
	for i := range traceA {
		if !traceA[i].Output.Equal(traceB[i].Output) || traceA[i].Description != traceB[i].Description {
			t.Errorf("step %d differs between runs", i)
		}
	}
}

// =============================================================================
// FAILURE MODES - Fail fast, no partial results
// =============================================================================

func TestCalculate_RequiredCoverageWithoutLimit_FailsFast(t *testing.T) {
	calc := rating.NewPremiumCalculator(threeYearEngine())
	_, err := calc.Calculate(
		[]rating.CoverageRequest{biRequest("0", true)},
		youngSUVCtx(),
		rating.PolicyTerm{
			Effective: date(2024, time.January, 1),
			Expiry:    date(2025, time.January, 1),
		},
	)
	if !errors.Is(err, rating.ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput, got %v", err)
	}
}

func TestCalculate_UnknownCoverageType_Fails(t *testing.T) {
	calc := rating.NewPremiumCalculator(threeYearEngine())
	_, err := calc.Calculate(
		[]rating.CoverageRequest{{Type: "GAP"}},
		youngSUVCtx(),
		rating.PolicyTerm{
			Effective: date(2024, time.January, 1),
			Expiry:    date(2025, time.January, 1),
		},
	)
	if !errors.Is(err, rating.ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput, got %v", err)
	}
}

func TestCalculate_OneFailingCoverage_FailsWhole(t *testing.T) {
	// GIVEN: BI rated fine, COMP has no rate entry
	// WHEN: Calculating both
	// THEN: The whole call fails; no partially-filled result escapes

	calc := rating.NewPremiumCalculator(threeYearEngine())
	result, err := calc.Calculate(
		[]rating.CoverageRequest{
			biRequest("100000", false),
			{Type: rating.CoverageCOMP, Limit: rating.MustParseDecimal("5000")},
		},
		youngSUVCtx(),
		rating.PolicyTerm{
			Effective: date(2024, time.January, 1),
			Expiry:    date(2025, time.January, 1),
		},
	)
	if !errors.Is(err, rating.ErrRateNotFound) {
		t.Fatalf("want ErrRateNotFound, got %v", err)
	}
	if result != nil {
		t.Fatal("partial result returned alongside error")
	}
}

// =============================================================================
// RELOAD-BY-SWAP
// =============================================================================

func TestProvider_SwapIsAllOrNothing(t *testing.T) {
	// GIVEN: A provider serving engine A
	// WHEN: Swapping in engine B
	// THEN: Callers see A before and B after; a calculator built from A
	//       keeps computing against A

	engineA := threeYearEngine()
	provider := rating.NewProvider(engineA)

	calcA := rating.NewPremiumCalculator(provider.Current())

	// New filing: BI jumps to 600 for 2024.
	engineB := rating.NewEngine(
		rating.NewRateTable([]rating.RateTableEntry{
			biEntry(date(2024, time.January, 1), date(2025, time.January, 1), "600"),
		}),
		rating.NewFactorEngine(nil),
	)
	old := provider.Swap(engineB)
	if old != engineA {
		t.Fatal("Swap did not return the previous engine")
	}
	if provider.Current() != engineB {
		t.Fatal("Current does not serve the new engine")
	}

	term := rating.PolicyTerm{
		Effective: date(2024, time.January, 1),
		Expiry:    date(2025, time.January, 1),
	}

	// In-flight calculator still rates on the old tables.
	result, err := calcA.Calculate([]rating.CoverageRequest{biRequest("100000", false)}, youngSUVCtx(), term)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 784 {
		t.Errorf("old-engine total = %d, want 784", result.Total)
	}

	// A calculator built after the swap sees the new filing: 600 with no
	// factors is 600 flat.
	calcB := rating.NewPremiumCalculator(provider.Current())
	result, err = calcB.Calculate([]rating.CoverageRequest{biRequest("100000", false)}, youngSUVCtx(), term)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 600 {
		t.Errorf("new-engine total = %d, want 600", result.Total)
	}
}
