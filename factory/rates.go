/*
Package factory converts external rating configuration into the immutable
values the engine consumes.

PURPOSE:
  The rating core never parses raw configuration text. This package is
  the boundary that does: JSON rate-table documents become
  rating.RateTable values and CSV factor rows become rating.FactorEngine
  values, fully validated, before the engine ever sees them.

WHY JSON + CSV?
  Rate filings arrive as structured documents; factor tables are
  maintained as spreadsheets. Actuarial staff edit both without code
  changes, and a reload swaps the rebuilt engine in atomically.

JSON SCHEMA (rate table):
  {
    "entries": [
      {
        "coverage_type":  "BI",
        "vehicle_type":   "Sedan",        // optional, wildcard if empty
        "usage":          "Commuting",    // optional
        "age_range":      "25-30",        // optional; "65+" for open-ended
        "base_rate":      "150.000",      // decimal string, exact
        "effective_date": "2024-01-01",
        "expiry_date":    "2025-01-01"    // optional; empty = no expiry
      }
    ]
  }

VALIDATION:
  - Coverage types, vehicle types, and usages must be known enums
  - Dates must parse and expiry must follow effective
  - Rates must be non-negative exact decimals
  Errors carry the entry index so a bad row in a 500-row filing is
  findable.

SEE ALSO:
  - factors.go: CSV factor parsing
  - standard.go: The built-in demo configuration
*/
package factory

import (
	"fmt"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/warp/rating-engine/auto"
	"github.com/warp/rating-engine/rating"
	"github.com/shopspring/decimal"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// RateTableJSON is the on-disk rate table document.
type RateTableJSON struct {
	Entries []RateEntryJSON `json:"entries"`
}

// RateEntryJSON is one rate row.
type RateEntryJSON struct {
	CoverageType  string `json:"coverage_type"`
	VehicleType   string `json:"vehicle_type,omitempty"`
	Usage         string `json:"usage,omitempty"`
	AgeRange      string `json:"age_range,omitempty"`
	BaseRate      string `json:"base_rate"`
	EffectiveDate string `json:"effective_date"`
	ExpiryDate    string `json:"expiry_date,omitempty"`
}

// =============================================================================
// PARSING
// =============================================================================

// ParseRateTable builds a validated, immutable rate table from a JSON
// document.
func ParseRateTable(data []byte) (*rating.RateTable, error) {
	var doc RateTableJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: malformed rate table document: %v", rating.ErrInvalidInput, err)
	}
	return BuildRateTable(doc)
}

// BuildRateTable validates an already-decoded document.
func BuildRateTable(doc RateTableJSON) (*rating.RateTable, error) {
	if len(doc.Entries) == 0 {
		return nil, fmt.Errorf("%w: rate table has no entries", rating.ErrInvalidInput)
	}

	entries := make([]rating.RateTableEntry, 0, len(doc.Entries))
	for i, row := range doc.Entries {
		entry, err := buildRateEntry(row)
		if err != nil {
			return nil, fmt.Errorf("rate entry %d: %w", i, err)
		}
		entries = append(entries, entry)
	}
	return rating.NewRateTable(entries), nil
}

func buildRateEntry(row RateEntryJSON) (rating.RateTableEntry, error) {
	coverage := rating.CoverageType(row.CoverageType)
	if !coverage.Valid() {
		return rating.RateTableEntry{}, fmt.Errorf("%w: unknown coverage type %q", rating.ErrInvalidInput, row.CoverageType)
	}
	if row.VehicleType != "" && !auto.VehicleType(row.VehicleType).Valid() {
		return rating.RateTableEntry{}, fmt.Errorf("%w: unknown vehicle type %q", rating.ErrInvalidInput, row.VehicleType)
	}
	if row.Usage != "" && !auto.VehicleUsage(row.Usage).Valid() {
		return rating.RateTableEntry{}, fmt.Errorf("%w: unknown usage %q", rating.ErrInvalidInput, row.Usage)
	}

	rate, err := decimal.NewFromString(row.BaseRate)
	if err != nil {
		return rating.RateTableEntry{}, fmt.Errorf("%w: base rate %q is not a decimal", rating.ErrInvalidInput, row.BaseRate)
	}
	if rate.IsNegative() {
		return rating.RateTableEntry{}, fmt.Errorf("%w: base rate %s is negative", rating.ErrInvalidInput, rate)
	}

	from, err := rating.ParseDate(row.EffectiveDate)
	if err != nil {
		return rating.RateTableEntry{}, fmt.Errorf("%w: effective date %q: %v", rating.ErrInvalidInput, row.EffectiveDate, err)
	}
	var to rating.Date
	if row.ExpiryDate != "" {
		to, err = rating.ParseDate(row.ExpiryDate)
		if err != nil {
			return rating.RateTableEntry{}, fmt.Errorf("%w: expiry date %q: %v", rating.ErrInvalidInput, row.ExpiryDate, err)
		}
		if !to.After(from) {
			return rating.RateTableEntry{}, fmt.Errorf("%w: expiry %s not after effective %s", rating.ErrInvalidInput, to, from)
		}
	}

	bracket, err := parseAgeRange(row.AgeRange)
	if err != nil {
		return rating.RateTableEntry{}, err
	}

	return rating.RateTableEntry{
		Coverage:      coverage,
		EffectiveFrom: from,
		EffectiveTo:   to,
		VehicleType:   row.VehicleType,
		VehicleUsage:  row.Usage,
		AgeBracket:    bracket,
		BaseRate:      rate,
	}, nil
}

// parseAgeRange accepts "", "25-30", and "65+".
func parseAgeRange(s string) (*rating.AgeBracket, error) {
	if s == "" {
		return nil, nil
	}
	if strings.HasSuffix(s, "+") {
		min, err := strconv.Atoi(strings.TrimSuffix(s, "+"))
		if err != nil {
			return nil, fmt.Errorf("%w: bad age range %q", rating.ErrInvalidInput, s)
		}
		return &rating.AgeBracket{Min: min}, nil
	}
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: bad age range %q", rating.ErrInvalidInput, s)
	}
	min, err1 := strconv.Atoi(parts[0])
	max, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || min > max {
		return nil, fmt.Errorf("%w: bad age range %q", rating.ErrInvalidInput, s)
	}
	return &rating.AgeBracket{Min: min, Max: max}, nil
}

// MarshalRateTable serializes a table back to the JSON document form
// (used when persisting configuration snapshots).
func MarshalRateTable(table *rating.RateTable) ([]byte, error) {
	doc := RateTableJSON{}
	for _, e := range table.Entries() {
		row := RateEntryJSON{
			CoverageType:  string(e.Coverage),
			VehicleType:   e.VehicleType,
			Usage:         e.VehicleUsage,
			BaseRate:      e.BaseRate.String(),
			EffectiveDate: e.EffectiveFrom.String(),
		}
		if !e.EffectiveTo.IsZero() {
			row.ExpiryDate = e.EffectiveTo.String()
		}
		if e.AgeBracket != nil {
			row.AgeRange = e.AgeBracket.String()
		}
		doc.Entries = append(doc.Entries, row)
	}
	return json.Marshal(doc)
}
