/*
factors.go - CSV factor table parsing

PURPOSE:
  Parses the factor spreadsheet (CSV with a header row) into validated
  rating.FactorRecord values and builds the immutable factor engine.

CSV COLUMNS:
  factor_type        required: driver_age, vehicle_type, vehicle_usage,
                     safety_features, accident_history, violation_history,
                     multi_car, location
  factor_name        required, unique human-readable name
  factor_value       required decimal multiplier (e.g. 1.25, 0.95)
  coverage_type      optional coverage scope (BI, PD, ...)
  min_age, max_age   optional integer bounds
  vehicle_type       optional
  vehicle_usage      optional
  safety_feature     optional single feature name
  min_feature_count  optional; >0 marks the row's threshold
  accident_count     optional exact count
  accident_class     optional: none, any, at_fault
  violation_count    optional exact count
  violation_class    optional: none, minor, major
  min_car_count      optional; the multi-car threshold
  state              optional two-letter state
  is_group           optional; "true" marks an aggregate group row that
                     suppresses individual safety-feature discounts
  description        optional free text

  Unknown columns are ignored so the spreadsheet can carry its own notes.

SEE ALSO:
  - rates.go: The JSON rate table counterpart
  - rating/factors.go: Selection semantics of the loaded records
*/
package factory

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/rating-engine/rating"
)

// ParseFactorsCSV reads the factor spreadsheet and builds the immutable
// factor engine. The first row must be the header.
func ParseFactorsCSV(r io.Reader) (*rating.FactorEngine, error) {
	records, err := ParseFactorRecords(r)
	if err != nil {
		return nil, err
	}
	return rating.NewFactorEngine(records), nil
}

// ParseFactorRecords reads the spreadsheet into validated records
// without building the engine (used by the validate command).
func ParseFactorRecords(r io.Reader) ([]rating.FactorRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read factor CSV header: %v", rating.ErrInvalidInput, err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, required := range []string{"factor_type", "factor_name", "factor_value"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: factor CSV is missing column %q", rating.ErrInvalidInput, required)
		}
	}

	var out []rating.FactorRecord
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: factor CSV line %d: %v", rating.ErrInvalidInput, line, err)
		}
		record, err := buildFactorRecord(row, cols)
		if err != nil {
			return nil, fmt.Errorf("factor CSV line %d: %w", line, err)
		}
		out = append(out, record)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: factor CSV has no data rows", rating.ErrInvalidInput)
	}
	return out, nil
}

func buildFactorRecord(row []string, cols map[string]int) (rating.FactorRecord, error) {
	cell := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	ft := rating.FactorType(cell("factor_type"))
	if !rating.ValidFactorType(ft) {
		return rating.FactorRecord{}, fmt.Errorf("%w: unknown factor type %q", rating.ErrInvalidInput, string(ft))
	}
	name := cell("factor_name")
	if name == "" {
		return rating.FactorRecord{}, fmt.Errorf("%w: missing factor_name", rating.ErrInvalidInput)
	}
	value, err := decimal.NewFromString(cell("factor_value"))
	if err != nil {
		return rating.FactorRecord{}, fmt.Errorf("%w: factor_value %q is not a decimal", rating.ErrInvalidInput, cell("factor_value"))
	}
	if value.IsNegative() {
		return rating.FactorRecord{}, fmt.Errorf("%w: factor %q has negative value", rating.ErrInvalidInput, name)
	}

	cond := rating.FactorCondition{
		VehicleType:   cell("vehicle_type"),
		VehicleUsage:  cell("vehicle_usage"),
		SafetyFeature: cell("safety_feature"),
		State:         cell("state"),
	}

	if c := cell("coverage_type"); c != "" {
		coverage := rating.CoverageType(c)
		if !coverage.Valid() {
			return rating.FactorRecord{}, fmt.Errorf("%w: unknown coverage type %q", rating.ErrInvalidInput, c)
		}
		cond.Coverage = coverage
	}
	if cond.MinAge, err = optionalInt(cell("min_age")); err != nil {
		return rating.FactorRecord{}, err
	}
	if cond.MaxAge, err = optionalInt(cell("max_age")); err != nil {
		return rating.FactorRecord{}, err
	}
	if cond.AccidentCount, err = optionalInt(cell("accident_count")); err != nil {
		return rating.FactorRecord{}, err
	}
	if cond.ViolationCount, err = optionalInt(cell("violation_count")); err != nil {
		return rating.FactorRecord{}, err
	}
	if v, err := optionalInt(cell("min_feature_count")); err != nil {
		return rating.FactorRecord{}, err
	} else if v != nil {
		cond.MinFeatureCount = *v
	}
	if v, err := optionalInt(cell("min_car_count")); err != nil {
		return rating.FactorRecord{}, err
	} else if v != nil {
		cond.MinCarCount = *v
	}
	if c := cell("accident_class"); c != "" {
		cond.AccidentClass = rating.AccidentClass(c)
	}
	if c := cell("violation_class"); c != "" {
		cond.ViolationClass = rating.ViolationClass(c)
	}

	return rating.FactorRecord{
		Type:          ft,
		Name:          name,
		Value:         value,
		Description:   cell("description"),
		Condition:     cond,
		AdditiveGroup: strings.EqualFold(cell("is_group"), "true"),
	}, nil
}

func optionalInt(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not an integer", rating.ErrInvalidInput, s)
	}
	return &v, nil
}
