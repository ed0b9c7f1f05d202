/*
term.go - Policy-year splitting and pro-rata fractions

PURPOSE:
  Derives the policy-year sub-intervals of a policy term and the pro-rata
  fraction of a standard year each one covers. The rate table resolves a
  single point in time; this file decides WHICH points to probe — that is
  the whole multi-year-rollover split of responsibility.

RULES:
  - Exactly one year:      one entry, fraction 1.0
  - Short term (< 1 year): one entry, fraction = days / 365
  - Multi-year:            consecutive 1-year intervals anchored at the
                           effective date's month/day, 1.0 for full
                           interior years, a partial final fraction
  - The standard year is 365 days. No leap-day special-casing: the actual
    elapsed day count is divided by 365.
  - Fractions pass through RoundIntermediate before use.
  - Zero-or-negative-length terms fail with InvalidTermError.

RENEWALS:
  Rate lookups anchor at the renewal date when one is supplied; the
  coverage intervals themselves stay anchored at the effective date.

SEE ALSO:
  - ratetable.go: Consumes each year's AsOf date
  - calculator.go: Iterates the returned policy years
*/
package rating

import "github.com/shopspring/decimal"

// daysInStandardYear is the fixed pro-rata denominator.
var daysInStandardYear = decimal.NewFromInt(365)

// PolicyYear is one annual sub-interval of a policy term. Start/End
// bound the covered interval ([Start, End)); AsOf is the date fed to the
// rate table for this year; Fraction is the pro-rata share of a standard
// year, already intermediate-rounded.
type PolicyYear struct {
	Index    int
	Start    Date
	End      Date
	AsOf     Date
	Fraction decimal.Decimal
}

// PolicyYears splits a term into its policy years. A policy spanning
// exactly N whole years yields N entries with fraction 1.0 and
// anniversary AsOf dates; anything shorter than a year yields a single
// prorated entry.
func PolicyYears(term PolicyTerm) ([]PolicyYear, error) {
	if term.Effective.IsZero() || term.Expiry.IsZero() {
		return nil, &InvalidTermError{
			Effective: term.Effective,
			Expiry:    term.Expiry,
			Reason:    "missing effective or expiry date",
		}
	}
	if !term.Expiry.After(term.Effective) {
		return nil, &InvalidTermError{
			Effective: term.Effective,
			Expiry:    term.Expiry,
			Reason:    "expiry must be after effective",
		}
	}

	rateAnchor := term.RateDate()
	var years []PolicyYear

	for i := 0; ; i++ {
		start := term.Effective.AddYears(i)
		next := term.Effective.AddYears(i + 1)

		if term.Expiry.AfterOrEqual(next) {
			// Full policy year.
			years = append(years, PolicyYear{
				Index:    i,
				Start:    start,
				End:      next,
				AsOf:     rateAnchor.AddYears(i),
				Fraction: decimal.NewFromInt(1),
			})
			if term.Expiry.Equal(next) {
				break
			}
			continue
		}

		// Short final interval.
		days := start.DaysUntil(term.Expiry)
		fraction := RoundIntermediate(decimal.NewFromInt(int64(days)).Div(daysInStandardYear))
		years = append(years, PolicyYear{
			Index:    i,
			Start:    start,
			End:      term.Expiry,
			AsOf:     rateAnchor.AddYears(i),
			Fraction: fraction,
		})
		break
	}

	return years, nil
}
