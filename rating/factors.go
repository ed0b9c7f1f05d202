/*
factors.go - Factor selection and canonical ordering

PURPOSE:
  Given a rating context and a coverage type, returns the ordered
  sequence of multiplier values to apply. Factor records are loaded once
  (factory package) and immutable afterwards.

SELECTION RULES:
  - Per factor type, the single most-conditions match wins, mirroring the
    rate table's tie-break. Equal-specificity ties are AmbiguityErrors.
  - Safety features are the exception: each matched feature contributes
    its own discount, UNLESS an aggregate group record (e.g. "3 or more
    safety features") matches, in which case the aggregate replaces every
    individual feature discount. The engine never applies both.
  - A factor type with no applicable record contributes nothing, which is
    the multiplicative identity. Not an error.

ORDERING:
  Multiplication is commutative but intermediate rounding is not: a
  different application order can legitimately change the cents. The
  canonical order is therefore fixed as the FactorType declaration order
  below, with individual safety features sub-ordered by feature name.
  Identical inputs always produce the identical trace.

SEE ALSO:
  - ratetable.go: The specificity tie-break this file mirrors
  - coverage.go: Applies the returned sequence with step rounding
*/
package rating

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// FACTOR TYPES - Declaration order IS the canonical application order
// =============================================================================

// FactorType identifies a family of rating factors.
type FactorType string

const (
	FactorDriverAge        FactorType = "driver_age"
	FactorVehicleType      FactorType = "vehicle_type"
	FactorVehicleUsage     FactorType = "vehicle_usage"
	FactorSafetyFeatures   FactorType = "safety_features"
	FactorAccidentHistory  FactorType = "accident_history"
	FactorViolationHistory FactorType = "violation_history"
	FactorMultiCar         FactorType = "multi_car"
	FactorLocation         FactorType = "location"
)

// FactorOrder is the canonical application order across factor types.
var FactorOrder = []FactorType{
	FactorDriverAge,
	FactorVehicleType,
	FactorVehicleUsage,
	FactorSafetyFeatures,
	FactorAccidentHistory,
	FactorViolationHistory,
	FactorMultiCar,
	FactorLocation,
}

// ValidFactorType reports whether ft is a known factor type.
func ValidFactorType(ft FactorType) bool {
	for _, known := range FactorOrder {
		if ft == known {
			return true
		}
	}
	return false
}

// =============================================================================
// FACTOR RECORDS
// =============================================================================

// FactorCondition is the predicate a record matches against a context.
// Zero-valued fields are wildcards. Pointer fields distinguish "no
// condition" from "must equal zero" (e.g. an accident-free discount is
// AccidentCount pointing at 0).
type FactorCondition struct {
	Coverage        CoverageType
	MinAge          *int
	MaxAge          *int
	VehicleType     string
	VehicleUsage    string
	SafetyFeature   string // single feature the context must include
	MinFeatureCount int    // aggregate group threshold; 0 = not a count condition
	AccidentCount   *int
	AccidentClass   AccidentClass
	ViolationCount  *int
	ViolationClass  ViolationClass
	MinCarCount     int // 0 = no condition
	State           string
}

// matches reports whether every populated condition holds for the context.
func (c FactorCondition) matches(coverage CoverageType, ctx RatingContext) bool {
	if c.Coverage != "" && c.Coverage != coverage {
		return false
	}
	if c.MinAge != nil && ctx.DriverAge < *c.MinAge {
		return false
	}
	if c.MaxAge != nil && ctx.DriverAge > *c.MaxAge {
		return false
	}
	if c.VehicleType != "" && c.VehicleType != ctx.VehicleType {
		return false
	}
	if c.VehicleUsage != "" && c.VehicleUsage != ctx.VehicleUsage {
		return false
	}
	if c.SafetyFeature != "" && !ctx.HasSafetyFeature(c.SafetyFeature) {
		return false
	}
	if c.MinFeatureCount > 0 && len(ctx.SafetyFeatures) < c.MinFeatureCount {
		return false
	}
	if c.AccidentCount != nil && ctx.AccidentCount != *c.AccidentCount {
		return false
	}
	if c.AccidentClass != "" && c.AccidentClass != ctx.AccidentClass {
		return false
	}
	if c.ViolationCount != nil && ctx.ViolationCount != *c.ViolationCount {
		return false
	}
	if c.ViolationClass != "" && c.ViolationClass != ctx.ViolationClass {
		return false
	}
	if c.MinCarCount > 0 && ctx.CarCount < c.MinCarCount {
		return false
	}
	if c.State != "" && c.State != ctx.State {
		return false
	}
	return true
}

// specificity counts populated condition fields.
func (c FactorCondition) specificity() int {
	n := 0
	if c.Coverage != "" {
		n++
	}
	if c.MinAge != nil {
		n++
	}
	if c.MaxAge != nil {
		n++
	}
	if c.VehicleType != "" {
		n++
	}
	if c.VehicleUsage != "" {
		n++
	}
	if c.SafetyFeature != "" {
		n++
	}
	if c.MinFeatureCount > 0 {
		n++
	}
	if c.AccidentCount != nil {
		n++
	}
	if c.AccidentClass != "" {
		n++
	}
	if c.ViolationCount != nil {
		n++
	}
	if c.ViolationClass != "" {
		n++
	}
	if c.MinCarCount > 0 {
		n++
	}
	if c.State != "" {
		n++
	}
	return n
}

// FactorRecord is one loaded rating factor. Immutable after load.
// AdditiveGroup marks aggregate records that pre-combine several
// discounts into one multiplier (e.g. "3+ safety features") and suppress
// their constituents.
type FactorRecord struct {
	Type          FactorType
	Name          string
	Value         decimal.Decimal
	Description   string
	Condition     FactorCondition
	AdditiveGroup bool
}

// AppliedFactor is one multiplier selected for a calculation, in
// canonical order. Name survives into the trace.
type AppliedFactor struct {
	Type  FactorType
	Name  string
	Value decimal.Decimal
}

// =============================================================================
// FACTOR ENGINE
// =============================================================================

// FactorEngine selects applicable factors for a context. Constructed
// once from validated records and read-only for its lifetime; reloads
// build a new engine and swap it via Provider.
type FactorEngine struct {
	byType map[FactorType][]FactorRecord
}

// NewFactorEngine builds an engine from validated records.
func NewFactorEngine(records []FactorRecord) *FactorEngine {
	byType := make(map[FactorType][]FactorRecord)
	for _, r := range records {
		byType[r.Type] = append(byType[r.Type], r)
	}
	return &FactorEngine{byType: byType}
}

// Records returns a copy of every loaded record in canonical type order.
func (e *FactorEngine) Records() []FactorRecord {
	var out []FactorRecord
	for _, ft := range FactorOrder {
		out = append(out, e.byType[ft]...)
	}
	return out
}

// Len returns the number of loaded records.
func (e *FactorEngine) Len() int {
	n := 0
	for _, recs := range e.byType {
		n += len(recs)
	}
	return n
}

// ApplicableFactors returns the ordered multiplier sequence for one
// coverage and context. The order is deterministic and reproducible:
// canonical type order, features by name within safety features.
func (e *FactorEngine) ApplicableFactors(coverage CoverageType, ctx RatingContext) ([]AppliedFactor, error) {
	var out []AppliedFactor
	for _, ft := range FactorOrder {
		selected, err := e.selectForType(ft, coverage, ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, selected...)
	}
	return out, nil
}

// selectForType resolves the winning record(s) of one factor type.
func (e *FactorEngine) selectForType(ft FactorType, coverage CoverageType, ctx RatingContext) ([]AppliedFactor, error) {
	var matched []FactorRecord
	for _, r := range e.byType[ft] {
		if r.Condition.matches(coverage, ctx) {
			matched = append(matched, r)
		}
	}
	if len(matched) == 0 {
		return nil, nil // identity contribution
	}

	if ft == FactorSafetyFeatures {
		return e.selectSafetyFeatures(matched, coverage)
	}

	winner, err := pickMostSpecific(matched, coverage)
	if err != nil {
		return nil, err
	}
	return []AppliedFactor{{Type: ft, Name: winner.Name, Value: winner.Value}}, nil
}

// selectSafetyFeatures handles the grouped-discount rule: a matching
// aggregate record replaces every individual feature discount. Otherwise
// each feature contributes its own record, chosen per feature by the
// usual specificity rule and ordered by feature name.
func (e *FactorEngine) selectSafetyFeatures(matched []FactorRecord, coverage CoverageType) ([]AppliedFactor, error) {
	var aggregates, individual []FactorRecord
	for _, r := range matched {
		if r.AdditiveGroup {
			aggregates = append(aggregates, r)
		} else {
			individual = append(individual, r)
		}
	}

	if len(aggregates) > 0 {
		winner, err := pickMostSpecific(aggregates, coverage)
		if err != nil {
			return nil, err
		}
		return []AppliedFactor{{Type: FactorSafetyFeatures, Name: winner.Name, Value: winner.Value}}, nil
	}

	byFeature := make(map[string][]FactorRecord)
	for _, r := range individual {
		byFeature[r.Condition.SafetyFeature] = append(byFeature[r.Condition.SafetyFeature], r)
	}
	features := make([]string, 0, len(byFeature))
	for f := range byFeature {
		features = append(features, f)
	}
	sort.Strings(features)

	var out []AppliedFactor
	for _, f := range features {
		winner, err := pickMostSpecific(byFeature[f], coverage)
		if err != nil {
			return nil, err
		}
		out = append(out, AppliedFactor{Type: FactorSafetyFeatures, Name: winner.Name, Value: winner.Value})
	}
	return out, nil
}

// pickMostSpecific applies the most-conditions-wins rule with a hard
// failure on equal-specificity ties.
func pickMostSpecific(records []FactorRecord, coverage CoverageType) (FactorRecord, error) {
	best := -1
	var winner FactorRecord
	var tied []string

	for _, r := range records {
		switch s := r.Condition.specificity(); {
		case s > best:
			best = s
			winner = r
			tied = tied[:0]
		case s == best:
			tied = append(tied, r.Name)
		}
	}
	if len(tied) > 0 {
		return FactorRecord{}, &AmbiguityError{
			Kind:       "factor",
			Coverage:   coverage,
			Candidates: append([]string{winner.Name}, tied...),
		}
	}
	return winner, nil
}

// =============================================================================
// STATIC CONFLICT DETECTION
// =============================================================================

// Conflicts reports record pairs of the same type and specificity whose
// conditions do not exclude each other. Aggregate and individual safety
// records never conflict (the aggregate lawfully overrides). Used by the
// CLI validate command.
func (e *FactorEngine) Conflicts() []string {
	var out []string
	for _, ft := range FactorOrder {
		recs := e.byType[ft]
		for i := 0; i < len(recs); i++ {
			for j := i + 1; j < len(recs); j++ {
				a, b := recs[i], recs[j]
				if a.AdditiveGroup != b.AdditiveGroup {
					continue
				}
				if ft == FactorSafetyFeatures && !a.AdditiveGroup &&
					a.Condition.SafetyFeature != b.Condition.SafetyFeature {
					continue
				}
				if a.Condition.specificity() != b.Condition.specificity() {
					continue
				}
				if !factorConditionsOverlap(a.Condition, b.Condition) {
					continue
				}
				out = append(out, fmt.Sprintf("%s/%s overlaps %s", ft, a.Name, b.Name))
			}
		}
	}
	sort.Strings(out)
	return out
}

// factorConditionsOverlap reports whether two conditions could both
// match some context. Conservative: unknown overlaps count as overlaps.
func factorConditionsOverlap(a, b FactorCondition) bool {
	if a.Coverage != "" && b.Coverage != "" && a.Coverage != b.Coverage {
		return false
	}
	if a.VehicleType != "" && b.VehicleType != "" && a.VehicleType != b.VehicleType {
		return false
	}
	if a.VehicleUsage != "" && b.VehicleUsage != "" && a.VehicleUsage != b.VehicleUsage {
		return false
	}
	if a.State != "" && b.State != "" && a.State != b.State {
		return false
	}
	if a.AccidentClass != "" && b.AccidentClass != "" && a.AccidentClass != b.AccidentClass {
		return false
	}
	if a.ViolationClass != "" && b.ViolationClass != "" && a.ViolationClass != b.ViolationClass {
		return false
	}
	if a.AccidentCount != nil && b.AccidentCount != nil && *a.AccidentCount != *b.AccidentCount {
		return false
	}
	if a.ViolationCount != nil && b.ViolationCount != nil && *a.ViolationCount != *b.ViolationCount {
		return false
	}
	if !ageRangesOverlap(a, b) {
		return false
	}
	return true
}

func ageRangesOverlap(a, b FactorCondition) bool {
	if a.MaxAge != nil && b.MinAge != nil && *b.MinAge > *a.MaxAge {
		return false
	}
	if b.MaxAge != nil && a.MinAge != nil && *a.MinAge > *b.MaxAge {
		return false
	}
	return true
}

// IntPtr returns a pointer to v. Convenience for building conditions.
func IntPtr(v int) *int { return &v }
