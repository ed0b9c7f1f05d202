package factory_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/rating-engine/factory"
	"github.com/warp/rating-engine/rating"
)

func date(y int, m time.Month, d int) rating.Date { return rating.NewDate(y, m, d) }

// =============================================================================
// RATE TABLE PARSING
// =============================================================================

func TestParseRateTable_Valid(t *testing.T) {
	doc := []byte(`{
	  "entries": [
	    {"coverage_type": "BI", "vehicle_type": "Sedan", "usage": "Commuting",
	     "age_range": "25-30", "base_rate": "150.000",
	     "effective_date": "2024-01-01", "expiry_date": "2025-01-01"},
	    {"coverage_type": "PD", "age_range": "65+", "base_rate": "90.500",
	     "effective_date": "2024-01-01"}
	  ]
	}`)

	table, err := factory.ParseRateTable(doc)
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())

	entries := table.Entries()
	assert.Equal(t, rating.CoverageBI, entries[0].Coverage)
	assert.Equal(t, "Sedan", entries[0].VehicleType)
	require.NotNil(t, entries[0].AgeBracket)
	assert.Equal(t, 25, entries[0].AgeBracket.Min)
	assert.Equal(t, 30, entries[0].AgeBracket.Max)

	// "65+" is an open-ended bracket.
	require.NotNil(t, entries[1].AgeBracket)
	assert.Equal(t, 65, entries[1].AgeBracket.Min)
	assert.Equal(t, 0, entries[1].AgeBracket.Max)
	assert.True(t, entries[1].EffectiveTo.IsZero())
	assert.True(t, entries[1].BaseRate.Equal(rating.MustParseDecimal("90.5")))
}

func TestParseRateTable_Rejections(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"unknown coverage", `{"entries":[{"coverage_type":"GAP","base_rate":"1","effective_date":"2024-01-01"}]}`},
		{"unknown vehicle type", `{"entries":[{"coverage_type":"BI","vehicle_type":"Hovercraft","base_rate":"1","effective_date":"2024-01-01"}]}`},
		{"negative rate", `{"entries":[{"coverage_type":"BI","base_rate":"-5","effective_date":"2024-01-01"}]}`},
		{"non-decimal rate", `{"entries":[{"coverage_type":"BI","base_rate":"abc","effective_date":"2024-01-01"}]}`},
		{"bad date", `{"entries":[{"coverage_type":"BI","base_rate":"1","effective_date":"01/01/2024"}]}`},
		{"expiry before effective", `{"entries":[{"coverage_type":"BI","base_rate":"1","effective_date":"2024-01-01","expiry_date":"2023-01-01"}]}`},
		{"bad age range", `{"entries":[{"coverage_type":"BI","age_range":"thirty","base_rate":"1","effective_date":"2024-01-01"}]}`},
		{"inverted age range", `{"entries":[{"coverage_type":"BI","age_range":"40-30","base_rate":"1","effective_date":"2024-01-01"}]}`},
		{"empty document", `{"entries":[]}`},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := factory.ParseRateTable([]byte(c.doc))
			assert.ErrorIs(t, err, rating.ErrInvalidInput)
		})
	}
}

func TestMarshalRateTable_RoundTrip(t *testing.T) {
	table, err := factory.ParseRateTable(factory.StandardRateTableJSON())
	require.NoError(t, err)

	data, err := factory.MarshalRateTable(table)
	require.NoError(t, err)

	again, err := factory.ParseRateTable(data)
	require.NoError(t, err)
	assert.Equal(t, table.Len(), again.Len())
}

// =============================================================================
// FACTOR CSV PARSING
// =============================================================================

func TestParseFactorsCSV_Valid(t *testing.T) {
	csvData := `factor_type,factor_name,factor_value,min_age,max_age,safety_feature,min_feature_count,is_group,description
driver_age,young_driver,1.50,16,24,,,,young driver surcharge
safety_features,airbag,0.95,,,airbag,,,airbag discount
safety_features,package,0.85,,,,3,true,aggregate discount
`
	engine, err := factory.ParseFactorsCSV(bytes.NewReader([]byte(csvData)))
	require.NoError(t, err)
	require.Equal(t, 3, engine.Len())

	records := engine.Records()
	// Records come back in canonical type order.
	assert.Equal(t, rating.FactorDriverAge, records[0].Type)
	require.NotNil(t, records[0].Condition.MinAge)
	assert.Equal(t, 16, *records[0].Condition.MinAge)

	var group *rating.FactorRecord
	for i := range records {
		if records[i].Name == "package" {
			group = &records[i]
		}
	}
	require.NotNil(t, group)
	assert.True(t, group.AdditiveGroup)
	assert.Equal(t, 3, group.Condition.MinFeatureCount)
}

func TestParseFactorsCSV_Rejections(t *testing.T) {
	cases := []struct {
		name string
		csv  string
	}{
		{"missing required column", "factor_type,factor_value\ndriver_age,1.5\n"},
		{"unknown factor type", "factor_type,factor_name,factor_value\nhair_color,x,1.5\n"},
		{"bad value", "factor_type,factor_name,factor_value\ndriver_age,x,abc\n"},
		{"negative value", "factor_type,factor_name,factor_value\ndriver_age,x,-1\n"},
		{"bad integer condition", "factor_type,factor_name,factor_value,min_age\ndriver_age,x,1.5,young\n"},
		{"no data rows", "factor_type,factor_name,factor_value\n"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := factory.ParseFactorsCSV(bytes.NewReader([]byte(c.csv)))
			assert.ErrorIs(t, err, rating.ErrInvalidInput)
		})
	}
}

// =============================================================================
// STANDARD CONFIGURATION
// =============================================================================

func TestStandardEngine_ParsesClean(t *testing.T) {
	engine, err := factory.StandardEngine()
	require.NoError(t, err)

	// The demo configuration must never ship with latent ambiguities.
	assert.Empty(t, engine.Rates.Conflicts())
	assert.Empty(t, engine.Factors.Conflicts())
}

func TestStandardEngine_ReferenceQuote(t *testing.T) {
	// GIVEN: The demo configuration
	// WHEN: Rating BI for a 22-year-old CA driver, SUV, commuting, airbag
	// THEN: 500 *1.5 *1.1 *0.95 *1.05 (CA) with step rounding = 823

	engine, err := factory.StandardEngine()
	require.NoError(t, err)

	ctx := rating.RatingContext{
		DriverAge:      22,
		VehicleType:    "SUV",
		VehicleUsage:   "Commuting",
		SafetyFeatures: []string{"airbag"},
		AccidentClass:  rating.AccidentNone,
		ViolationClass: rating.ViolationNone,
		CarCount:       1,
		State:          "CA",
	}

	calc := rating.NewPremiumCalculator(engine)
	result, err := calc.Calculate(
		[]rating.CoverageRequest{{Type: rating.CoverageBI, Limit: rating.MustParseDecimal("100000")}},
		ctx,
		rating.PolicyTerm{
			Effective: date(2024, time.January, 1),
			Expiry:    date(2025, time.January, 1),
		},
	)
	require.NoError(t, err)
	assert.Equal(t, int64(823), result.Total)
}
