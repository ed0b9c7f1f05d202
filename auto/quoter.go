/*
quoter.go - Domain entry point for premium quotes

PURPOSE:
  Translates auto-domain inputs (vehicle, drivers, policy info) into the
  rating engine's context and term, then delegates to the orchestrator.
  This is the one function external callers (API, CLI) invoke.

CONTEXT BUILDING:
  - The primary driver (first with IsPrimary, else the first listed)
    supplies age and history.
  - Age is computed as of the rate date (renewal date for renewals),
    truncated to whole years, never rounded.
  - Accident and violation records collapse to their rating classes.
  - The context is built once per calculation and read-only after.

SEE ALSO:
  - rating/calculator.go: The orchestrator this delegates to
  - driver.go: Age and history classification
*/
package auto

import (
	"fmt"

	"github.com/warp/rating-engine/rating"
)

// BuildContext assembles the read-only rating context from domain
// inputs. Fails with InvalidInput when no driver is supplied or the
// vehicle classification is unknown.
func BuildContext(vehicle Vehicle, drivers []Driver, policy PolicyInfo) (rating.RatingContext, error) {
	if len(drivers) == 0 {
		return rating.RatingContext{}, fmt.Errorf("%w: at least one driver is required", rating.ErrInvalidInput)
	}
	if !vehicle.Type.Valid() {
		return rating.RatingContext{}, fmt.Errorf("%w: unknown vehicle type %q", rating.ErrInvalidInput, string(vehicle.Type))
	}
	if !vehicle.Usage.Valid() {
		return rating.RatingContext{}, fmt.Errorf("%w: unknown vehicle usage %q", rating.ErrInvalidInput, string(vehicle.Usage))
	}

	primary := drivers[0]
	for _, d := range drivers {
		if d.IsPrimary {
			primary = d
			break
		}
	}
	if primary.BirthDate.IsZero() {
		return rating.RatingContext{}, fmt.Errorf("%w: primary driver has no birth date", rating.ErrInvalidInput)
	}

	carCount := policy.CarCount
	if carCount == 0 {
		carCount = 1
	}

	return rating.RatingContext{
		DriverAge:      primary.AgeAt(policy.RateDate()),
		VehicleType:    string(vehicle.Type),
		VehicleUsage:   string(vehicle.Usage),
		SafetyFeatures: vehicle.SafetyFeatures,
		AccidentCount:  len(primary.Accidents),
		AccidentClass:  primary.accidentClass(),
		ViolationCount: len(primary.Violations),
		ViolationClass: primary.violationClass(),
		CarCount:       carCount,
		State:          primary.LicenseState,
	}, nil
}

// Quoter computes premiums for auto policies against whichever engine
// the provider currently serves. Safe for concurrent use; each quote
// pins the engine instance it started with.
type Quoter struct {
	provider *rating.Provider
}

// NewQuoter creates a quoter reading from the given provider.
func NewQuoter(provider *rating.Provider) *Quoter {
	return &Quoter{provider: provider}
}

// CalculateTotalPremium rates every requested coverage for the policy
// and returns the assembled result with its full trace.
func (q *Quoter) CalculateTotalPremium(
	coverages []rating.CoverageRequest,
	vehicle Vehicle,
	drivers []Driver,
	policy PolicyInfo,
) (*rating.PremiumResult, error) {
	ctx, err := BuildContext(vehicle, drivers, policy)
	if err != nil {
		return nil, err
	}
	calc := rating.NewPremiumCalculator(q.provider.Current())
	return calc.Calculate(coverages, ctx, policy.Term())
}
