/*
standard.go - Built-in demo rating configuration

PURPOSE:
  A small but complete rate filing and factor spreadsheet used to seed
  fresh databases, drive the CLI without external files, and anchor
  end-to-end tests. Three filing years (2024-2026) so multi-year
  rollover is visible in demo quotes.

NOT FOR PRODUCTION:
  Real filings are loaded from external documents; this set exists so
  the system demonstrates itself out of the box.
*/
package factory

import (
	"bytes"

	"github.com/warp/rating-engine/rating"
)

// StandardRateTableJSON returns the demo rate filing document.
func StandardRateTableJSON() []byte {
	return []byte(`{
  "entries": [
    {"coverage_type": "BI",   "base_rate": "500.000", "effective_date": "2024-01-01", "expiry_date": "2025-01-01"},
    {"coverage_type": "BI",   "base_rate": "520.000", "effective_date": "2025-01-01", "expiry_date": "2026-01-01"},
    {"coverage_type": "BI",   "base_rate": "540.000", "effective_date": "2026-01-01", "expiry_date": "2027-01-01"},
    {"coverage_type": "BI",   "vehicle_type": "Motorcycle", "base_rate": "680.000", "effective_date": "2024-01-01"},
    {"coverage_type": "PD",   "base_rate": "300.000", "effective_date": "2024-01-01", "expiry_date": "2025-01-01"},
    {"coverage_type": "PD",   "base_rate": "310.000", "effective_date": "2025-01-01", "expiry_date": "2027-01-01"},
    {"coverage_type": "PIP",  "base_rate": "120.000", "effective_date": "2024-01-01"},
    {"coverage_type": "UM",   "base_rate": "90.000",  "effective_date": "2024-01-01"},
    {"coverage_type": "UIM",  "base_rate": "80.000",  "effective_date": "2024-01-01"},
    {"coverage_type": "COLL", "base_rate": "420.000", "effective_date": "2024-01-01"},
    {"coverage_type": "COLL", "vehicle_type": "Truck", "base_rate": "480.000", "effective_date": "2024-01-01"},
    {"coverage_type": "COMP", "base_rate": "260.000", "effective_date": "2024-01-01"},
    {"coverage_type": "COMP", "usage": "Business", "base_rate": "295.000", "effective_date": "2024-01-01"}
  ]
}`)
}

// StandardFactorsCSV returns the demo factor spreadsheet.
func StandardFactorsCSV() []byte {
	return []byte(`factor_type,factor_name,factor_value,coverage_type,min_age,max_age,vehicle_type,vehicle_usage,safety_feature,min_feature_count,accident_count,accident_class,violation_count,violation_class,min_car_count,state,is_group,description
driver_age,teen_driver,1.80,,16,19,,,,,,,,,,,,surcharge for drivers under 20
driver_age,young_driver,1.50,,20,24,,,,,,,,,,,,surcharge for drivers 20-24
driver_age,mature_driver,0.90,,50,64,,,,,,,,,,,,discount for experienced drivers
driver_age,senior_driver,1.10,,75,,,,,,,,,,,,,surcharge for drivers 75 and over
vehicle_type,suv,1.10,,,,SUV,,,,,,,,,,,SUV rating
vehicle_type,truck,1.15,,,,Truck,,,,,,,,,,,truck rating
vehicle_type,motorcycle,1.40,,,,Motorcycle,,,,,,,,,,,motorcycle rating
vehicle_usage,business_use,1.20,,,,,Business,,,,,,,,,,business usage surcharge
vehicle_usage,pleasure_use,0.95,,,,,Pleasure,,,,,,,,,,pleasure usage discount
safety_features,airbag,0.95,,,,,,airbag,,,,,,,,,airbag discount
safety_features,abs,0.97,,,,,,abs,,,,,,,,,anti-lock brake discount
safety_features,lane_assist,0.98,,,,,,lane_assist,,,,,,,,,lane assist discount
safety_features,safety_package,0.85,,,,,,,3,,,,,,,true,combined discount for 3 or more features
accident_history,at_fault_accident,1.40,,,,,,,,,at_fault,,,,,,at-fault accident surcharge
accident_history,accident_no_fault,1.10,,,,,,,,,any,,,,,,not-at-fault accident surcharge
violation_history,major_violation,1.60,,,,,,,,,,,major,,,,DUI or major violation surcharge
violation_history,minor_violation,1.15,,,,,,,,,,,minor,,,,minor violation surcharge
multi_car,multi_car_discount,0.92,,,,,,,,,,,,2,,,discount for two or more cars
location,california,1.05,,,,,,,,,,,,,CA,,California territory factor
location,ohio,0.97,,,,,,,,,,,,,OH,,Ohio territory factor
`)
}

// StandardEngine parses the demo configuration into a ready engine.
func StandardEngine() (*rating.Engine, error) {
	return BuildEngine(StandardRateTableJSON(), StandardFactorsCSV())
}

// BuildEngine parses a rate filing document and a factor spreadsheet
// into one immutable engine. This is the reload path: build a fresh
// engine here, then Provider.Swap it in.
func BuildEngine(ratesJSON, factorsCSV []byte) (*rating.Engine, error) {
	table, err := ParseRateTable(ratesJSON)
	if err != nil {
		return nil, err
	}
	factors, err := ParseFactorsCSV(bytes.NewReader(factorsCSV))
	if err != nil {
		return nil, err
	}
	return rating.NewEngine(table, factors), nil
}
