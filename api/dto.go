/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal rating model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY AND FACTORS ON THE WIRE:
  Limits, deductibles, and factor outputs arrive as JSON numbers and are
  converted to exact decimals at this boundary. NaN and infinities are
  rejected here - they must never reach the calculation core. Premiums
  leave as integers, matching the engine's final rounding.

DATES:
  All dates use "2006-01-02". No times, no zones.

SEE ALSO:
  - handlers.go: Parses requests and builds responses with these types
  - rating/types.go: The internal result types these mirror
*/
package api

import (
	"fmt"

	"github.com/warp/rating-engine/auto"
	"github.com/warp/rating-engine/rating"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// QuoteRequest is the body of POST /api/quotes.
type QuoteRequest struct {
	Coverages []CoverageRequestDTO `json:"coverages"`
	Vehicle   VehicleDTO           `json:"vehicle"`
	Drivers   []DriverDTO          `json:"drivers"`
	Policy    PolicyInfoDTO        `json:"policy"`
}

// CoverageRequestDTO is one requested coverage line.
type CoverageRequestDTO struct {
	Type       string  `json:"type"`
	Limit      float64 `json:"limit"`
	Deductible float64 `json:"deductible,omitempty"`
	Required   bool    `json:"required,omitempty"`
}

// VehicleDTO describes the insured vehicle.
type VehicleDTO struct {
	Year           int      `json:"year,omitempty"`
	Make           string   `json:"make,omitempty"`
	Model          string   `json:"model,omitempty"`
	Type           string   `json:"type"`
	Usage          string   `json:"usage"`
	VIN            string   `json:"vin,omitempty"`
	SafetyFeatures []string `json:"safety_features,omitempty"`
}

// DriverDTO describes one driver on the policy.
type DriverDTO struct {
	Name          string         `json:"name,omitempty"`
	BirthDate     string         `json:"birth_date"`
	LicenseNumber string         `json:"license_number,omitempty"`
	LicenseState  string         `json:"license_state,omitempty"`
	IsPrimary     bool           `json:"is_primary,omitempty"`
	Accidents     []AccidentDTO  `json:"accidents,omitempty"`
	Violations    []ViolationDTO `json:"violations,omitempty"`
}

// AccidentDTO is one accident on a driver's record.
type AccidentDTO struct {
	Date    string `json:"date"`
	AtFault bool   `json:"at_fault,omitempty"`
}

// ViolationDTO is one traffic violation on a driver's record.
type ViolationDTO struct {
	Date string `json:"date"`
	Type string `json:"type"`
}

// PolicyInfoDTO describes the policy span being quoted.
type PolicyInfoDTO struct {
	EffectiveDate string `json:"effective_date"`
	ExpiryDate    string `json:"expiry_date"`
	IsRenewal     bool   `json:"is_renewal,omitempty"`
	RenewalDate   string `json:"renewal_date,omitempty"`
	CarCount      int    `json:"car_count,omitempty"`
}

// ReloadRequest is the body of POST /api/admin/reload. Both documents
// are validated and stored as one snapshot before the swap.
type ReloadRequest struct {
	RatesJSON  string `json:"rates_json"`
	FactorsCSV string `json:"factors_csv"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// QuoteDTO is the full quote returned from POST /api/quotes and
// GET /api/quotes/{id}.
type QuoteDTO struct {
	ID        string          `json:"id"`
	CreatedAt string          `json:"created_at,omitempty"`
	Total     int64           `json:"total"`
	Coverages []CoverageDTO   `json:"coverages"`
	Years     []PolicyYearDTO `json:"years"`
	Term      TermDTO         `json:"term"`
}

// CoverageDTO is one rated coverage with its per-year breakdown and trace.
type CoverageDTO struct {
	Coverage string         `json:"coverage"`
	Premium  int64          `json:"premium"`
	Years    []YearShareDTO `json:"years"`
	Trace    []TraceStepDTO `json:"trace"`
}

// YearShareDTO is one policy-year's share of a coverage premium.
type YearShareDTO struct {
	YearIndex int    `json:"year_index"`
	AsOf      string `json:"as_of"`
	Premium   int64  `json:"premium"`
}

// TraceStepDTO is one recorded calculation step. Decimals are rendered
// as strings so clients see the exact intermediate values, not float
// approximations.
type TraceStepDTO struct {
	PolicyYear  int      `json:"policy_year"`
	Description string   `json:"description"`
	Inputs      []string `json:"inputs"`
	Output      string   `json:"output"`
	Precision   string   `json:"precision"`
}

// PolicyYearDTO is one slice of the policy term.
type PolicyYearDTO struct {
	Index    int    `json:"index"`
	Start    string `json:"start"`
	End      string `json:"end"`
	AsOf     string `json:"as_of"`
	Fraction string `json:"fraction"`
}

// TermDTO echoes the policy span that was rated.
type TermDTO struct {
	Effective string `json:"effective"`
	Expiry    string `json:"expiry"`
	IsRenewal bool   `json:"is_renewal,omitempty"`
}

// QuoteSummaryDTO is the list-view projection of a stored quote.
type QuoteSummaryDTO struct {
	ID        string `json:"id"`
	CreatedAt string `json:"created_at"`
	Total     int64  `json:"total"`
}

// ReloadResponse reports the outcome of an admin reload.
type ReloadResponse struct {
	Version     int `json:"version"`
	RateEntries int `json:"rate_entries"`
	Factors     int `json:"factors"`
}

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

// ToDomain converts the wire request into domain inputs, rejecting
// malformed dates and non-finite numbers at the boundary.
func (qr QuoteRequest) ToDomain() ([]rating.CoverageRequest, auto.Vehicle, []auto.Driver, auto.PolicyInfo, error) {
	coverages := make([]rating.CoverageRequest, len(qr.Coverages))
	for i, c := range qr.Coverages {
		limit, err := rating.DecimalFromFloat(c.Limit)
		if err != nil {
			return nil, auto.Vehicle{}, nil, auto.PolicyInfo{}, fmt.Errorf("coverage %d limit: %w", i, err)
		}
		deductible, err := rating.DecimalFromFloat(c.Deductible)
		if err != nil {
			return nil, auto.Vehicle{}, nil, auto.PolicyInfo{}, fmt.Errorf("coverage %d deductible: %w", i, err)
		}
		coverages[i] = rating.CoverageRequest{
			Type:       rating.CoverageType(c.Type),
			Limit:      limit,
			Deductible: deductible,
			Required:   c.Required,
		}
	}

	vehicle := auto.Vehicle{
		Year:           qr.Vehicle.Year,
		Make:           qr.Vehicle.Make,
		Model:          qr.Vehicle.Model,
		Type:           auto.VehicleType(qr.Vehicle.Type),
		Usage:          auto.VehicleUsage(qr.Vehicle.Usage),
		VIN:            qr.Vehicle.VIN,
		SafetyFeatures: qr.Vehicle.SafetyFeatures,
	}

	drivers := make([]auto.Driver, len(qr.Drivers))
	for i, d := range qr.Drivers {
		birth, err := rating.ParseDate(d.BirthDate)
		if err != nil {
			return nil, auto.Vehicle{}, nil, auto.PolicyInfo{}, fmt.Errorf("driver %d birth_date: %w", i, err)
		}
		drv := auto.Driver{
			Name:          d.Name,
			BirthDate:     birth,
			LicenseNumber: d.LicenseNumber,
			LicenseState:  d.LicenseState,
			IsPrimary:     d.IsPrimary,
		}
		for j, a := range d.Accidents {
			date, err := rating.ParseDate(a.Date)
			if err != nil {
				return nil, auto.Vehicle{}, nil, auto.PolicyInfo{}, fmt.Errorf("driver %d accident %d date: %w", i, j, err)
			}
			drv.Accidents = append(drv.Accidents, auto.Accident{Date: date, AtFault: a.AtFault})
		}
		for j, v := range d.Violations {
			date, err := rating.ParseDate(v.Date)
			if err != nil {
				return nil, auto.Vehicle{}, nil, auto.PolicyInfo{}, fmt.Errorf("driver %d violation %d date: %w", i, j, err)
			}
			drv.Violations = append(drv.Violations, auto.Violation{Date: date, Type: auto.ViolationType(v.Type)})
		}
		drivers[i] = drv
	}

	effective, err := rating.ParseDate(qr.Policy.EffectiveDate)
	if err != nil {
		return nil, auto.Vehicle{}, nil, auto.PolicyInfo{}, fmt.Errorf("policy effective_date: %w", err)
	}
	expiry, err := rating.ParseDate(qr.Policy.ExpiryDate)
	if err != nil {
		return nil, auto.Vehicle{}, nil, auto.PolicyInfo{}, fmt.Errorf("policy expiry_date: %w", err)
	}
	policy := auto.PolicyInfo{
		EffectiveDate: effective,
		ExpiryDate:    expiry,
		IsRenewal:     qr.Policy.IsRenewal,
		CarCount:      qr.Policy.CarCount,
	}
	if qr.Policy.RenewalDate != "" {
		renewal, err := rating.ParseDate(qr.Policy.RenewalDate)
		if err != nil {
			return nil, auto.Vehicle{}, nil, auto.PolicyInfo{}, fmt.Errorf("policy renewal_date: %w", err)
		}
		policy.RenewalDate = renewal
	}

	return coverages, vehicle, drivers, policy, nil
}

// ToQuoteDTO projects an engine result into the wire shape.
func ToQuoteDTO(id string, result *rating.PremiumResult) QuoteDTO {
	dto := QuoteDTO{
		ID:    id,
		Total: result.Total,
		Term: TermDTO{
			Effective: result.Term.Effective.String(),
			Expiry:    result.Term.Expiry.String(),
			IsRenewal: result.Term.IsRenewal,
		},
	}

	dto.Coverages = make([]CoverageDTO, len(result.Coverages))
	for i, cov := range result.Coverages {
		c := CoverageDTO{
			Coverage: string(cov.Coverage),
			Premium:  cov.Premium,
			Years:    make([]YearShareDTO, len(cov.Years)),
			Trace:    make([]TraceStepDTO, len(cov.Trace)),
		}
		for j, y := range cov.Years {
			c.Years[j] = YearShareDTO{
				YearIndex: y.YearIndex,
				AsOf:      y.AsOf.String(),
				Premium:   y.Premium,
			}
		}
		for j, step := range cov.Trace {
			inputs := make([]string, len(step.Inputs))
			for k, in := range step.Inputs {
				inputs[k] = in.String()
			}
			c.Trace[j] = TraceStepDTO{
				PolicyYear:  step.PolicyYear,
				Description: step.Description,
				Inputs:      inputs,
				Output:      step.Output.String(),
				Precision:   string(step.Precision),
			}
		}
		dto.Coverages[i] = c
	}

	dto.Years = make([]PolicyYearDTO, len(result.Years))
	for i, y := range result.Years {
		dto.Years[i] = PolicyYearDTO{
			Index:    y.Index,
			Start:    y.Start.String(),
			End:      y.End.String(),
			AsOf:     y.AsOf.String(),
			Fraction: y.Fraction.String(),
		}
	}
	return dto
}
