package rating_test

import (
	"errors"
	"testing"

	"github.com/warp/rating-engine/rating"
)

// =============================================================================
// TEST FIXTURES
// =============================================================================

func youngDriverFactor() rating.FactorRecord {
	return rating.FactorRecord{
		Type:  rating.FactorDriverAge,
		Name:  "young_driver",
		Value: rating.MustParseDecimal("1.5"),
		Condition: rating.FactorCondition{
			MinAge: rating.IntPtr(16),
			MaxAge: rating.IntPtr(24),
		},
	}
}

func suvFactor() rating.FactorRecord {
	return rating.FactorRecord{
		Type:      rating.FactorVehicleType,
		Name:      "suv",
		Value:     rating.MustParseDecimal("1.1"),
		Condition: rating.FactorCondition{VehicleType: "SUV"},
	}
}

func airbagFactor() rating.FactorRecord {
	return rating.FactorRecord{
		Type:      rating.FactorSafetyFeatures,
		Name:      "airbag",
		Value:     rating.MustParseDecimal("0.95"),
		Condition: rating.FactorCondition{SafetyFeature: "airbag"},
	}
}

func absFactor() rating.FactorRecord {
	return rating.FactorRecord{
		Type:      rating.FactorSafetyFeatures,
		Name:      "abs",
		Value:     rating.MustParseDecimal("0.97"),
		Condition: rating.FactorCondition{SafetyFeature: "abs"},
	}
}

func safetyPackageFactor() rating.FactorRecord {
	return rating.FactorRecord{
		Type:          rating.FactorSafetyFeatures,
		Name:          "safety_package",
		Value:         rating.MustParseDecimal("0.85"),
		Condition:     rating.FactorCondition{MinFeatureCount: 3},
		AdditiveGroup: true,
	}
}

// =============================================================================
// SELECTION TESTS
// =============================================================================

func TestFactorEngine_CanonicalOrder(t *testing.T) {
	// GIVEN: Records loaded in scrambled order across factor types
	// WHEN: Selecting applicable factors
	// THEN: The sequence follows the canonical type order, not load order

	engine := rating.NewFactorEngine([]rating.FactorRecord{
		suvFactor(),
		airbagFactor(),
		youngDriverFactor(),
	})

	ctx := rating.RatingContext{
		DriverAge:      22,
		VehicleType:    "SUV",
		SafetyFeatures: []string{"airbag"},
	}

	factors, err := engine.ApplicableFactors(rating.CoverageBI, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantOrder := []string{"young_driver", "suv", "airbag"}
	if len(factors) != len(wantOrder) {
		t.Fatalf("got %d factors, want %d", len(factors), len(wantOrder))
	}
	for i, want := range wantOrder {
		if factors[i].Name != want {
			t.Errorf("position %d: got %s, want %s", i, factors[i].Name, want)
		}
	}
}

func TestFactorEngine_NoMatchIsIdentity(t *testing.T) {
	// GIVEN: A context matching no record of any type
	// WHEN: Selecting applicable factors
	// THEN: Empty sequence (identity contribution), no error

	engine := rating.NewFactorEngine([]rating.FactorRecord{youngDriverFactor()})

	factors, err := engine.ApplicableFactors(rating.CoverageBI, rating.RatingContext{DriverAge: 40})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(factors) != 0 {
		t.Errorf("got %d factors, want 0", len(factors))
	}
}

func TestFactorEngine_MostSpecificBracketWins(t *testing.T) {
	// GIVEN: A broad accident surcharge and a narrower at-fault surcharge
	// WHEN: The context matches both
	// THEN: The record with more populated conditions wins

	broad := rating.FactorRecord{
		Type:      rating.FactorAccidentHistory,
		Name:      "any_accident",
		Value:     rating.MustParseDecimal("1.2"),
		Condition: rating.FactorCondition{AccidentClass: rating.AccidentAtFault},
	}
	narrow := rating.FactorRecord{
		Type:  rating.FactorAccidentHistory,
		Name:  "one_at_fault",
		Value: rating.MustParseDecimal("1.25"),
		Condition: rating.FactorCondition{
			AccidentClass: rating.AccidentAtFault,
			AccidentCount: rating.IntPtr(1),
		},
	}
	engine := rating.NewFactorEngine([]rating.FactorRecord{broad, narrow})

	ctx := rating.RatingContext{AccidentCount: 1, AccidentClass: rating.AccidentAtFault}
	factors, err := engine.ApplicableFactors(rating.CoverageBI, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(factors) != 1 || factors[0].Name != "one_at_fault" {
		t.Fatalf("got %v, want single one_at_fault", factors)
	}
}

func TestFactorEngine_EqualSpecificityTie_Fails(t *testing.T) {
	a := youngDriverFactor()
	b := youngDriverFactor()
	b.Name = "teen_driver"
	engine := rating.NewFactorEngine([]rating.FactorRecord{a, b})

	_, err := engine.ApplicableFactors(rating.CoverageBI, rating.RatingContext{DriverAge: 20})
	if !errors.Is(err, rating.ErrAmbiguousConfig) {
		t.Fatalf("want ErrAmbiguousConfig, got %v", err)
	}
}

// =============================================================================
// GROUPED SAFETY-FEATURE DISCOUNTS
// =============================================================================

func TestFactorEngine_IndividualFeaturesStack(t *testing.T) {
	// GIVEN: Airbag and ABS records, no aggregate
	// WHEN: The vehicle has both features
	// THEN: Both discounts apply, ordered by feature name

	engine := rating.NewFactorEngine([]rating.FactorRecord{airbagFactor(), absFactor()})

	ctx := rating.RatingContext{SafetyFeatures: []string{"airbag", "abs"}}
	factors, err := engine.ApplicableFactors(rating.CoverageBI, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(factors) != 2 {
		t.Fatalf("got %d factors, want 2", len(factors))
	}
	if factors[0].Name != "abs" || factors[1].Name != "airbag" {
		t.Errorf("feature order = [%s, %s], want [abs, airbag]", factors[0].Name, factors[1].Name)
	}
}

func TestFactorEngine_AggregateOverridesConstituents(t *testing.T) {
	// GIVEN: Individual feature discounts AND a "3+ features" aggregate
	// WHEN: The vehicle has three features
	// THEN: Only the aggregate applies; constituents are never stacked on top

	engine := rating.NewFactorEngine([]rating.FactorRecord{
		airbagFactor(), absFactor(), safetyPackageFactor(),
	})

	ctx := rating.RatingContext{SafetyFeatures: []string{"airbag", "abs", "lane_assist"}}
	factors, err := engine.ApplicableFactors(rating.CoverageBI, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(factors) != 1 {
		t.Fatalf("got %d factors, want only the aggregate", len(factors))
	}
	if factors[0].Name != "safety_package" {
		t.Errorf("got %s, want safety_package", factors[0].Name)
	}

	// Below the threshold the constituents apply instead.
	ctx = rating.RatingContext{SafetyFeatures: []string{"airbag", "abs"}}
	factors, err = engine.ApplicableFactors(rating.CoverageBI, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(factors) != 2 {
		t.Fatalf("below threshold: got %d factors, want 2 constituents", len(factors))
	}
}

// =============================================================================
// COVERAGE SCOPING
// =============================================================================

func TestFactorEngine_CoverageScopedRecord(t *testing.T) {
	collOnly := rating.FactorRecord{
		Type:      rating.FactorVehicleType,
		Name:      "suv_coll",
		Value:     rating.MustParseDecimal("1.15"),
		Condition: rating.FactorCondition{VehicleType: "SUV", Coverage: rating.CoverageCOLL},
	}
	engine := rating.NewFactorEngine([]rating.FactorRecord{collOnly})
	ctx := rating.RatingContext{VehicleType: "SUV"}

	factors, err := engine.ApplicableFactors(rating.CoverageCOLL, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(factors) != 1 {
		t.Errorf("COLL: got %d factors, want 1", len(factors))
	}

	factors, err = engine.ApplicableFactors(rating.CoverageBI, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(factors) != 0 {
		t.Errorf("BI: got %d factors, want 0", len(factors))
	}
}

// =============================================================================
// STATIC CONFLICT DETECTION
// =============================================================================

func TestFactorEngine_Conflicts(t *testing.T) {
	a := youngDriverFactor()
	b := youngDriverFactor()
	b.Name = "teen_driver"
	engine := rating.NewFactorEngine([]rating.FactorRecord{a, b, suvFactor()})

	conflicts := engine.Conflicts()
	if len(conflicts) != 1 {
		t.Fatalf("got %d conflicts, want 1: %v", len(conflicts), conflicts)
	}
}
