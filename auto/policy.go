package auto

import "github.com/warp/rating-engine/rating"

// =============================================================================
// POLICY INFO
// =============================================================================

// PolicyInfo describes the policy span being quoted. CarCount feeds the
// multi-car discount; zero means a single car.
type PolicyInfo struct {
	EffectiveDate rating.Date
	ExpiryDate    rating.Date
	IsRenewal     bool
	RenewalDate   rating.Date
	CarCount      int
}

// Term converts to the rating engine's policy term.
func (p PolicyInfo) Term() rating.PolicyTerm {
	return rating.PolicyTerm{
		Effective:   p.EffectiveDate,
		Expiry:      p.ExpiryDate,
		IsRenewal:   p.IsRenewal,
		RenewalDate: p.RenewalDate,
	}
}

// RateDate is the anchor for age and rate lookups.
func (p PolicyInfo) RateDate() rating.Date {
	return p.Term().RateDate()
}
