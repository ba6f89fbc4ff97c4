/*
rates.go - Versioned statutory rate table

PURPOSE:
  Holds the period-effective statutory constants: the ordered income-tax
  brackets, the capped contribution rate, and the two flat levy rates.
  Pure configuration data; the only behavior is structural validation and
  lookup. Rates are data, not code, so a fourth bracket in a future budget
  is a configuration change.

STRUCTURAL INVARIANT (checked at load time):
  - At least one bracket, with LowerAnnualBound = 0 and Rate = 0; the
    tax-free threshold is the second bracket's lower bound
  - Bracket bounds strictly increasing (contiguous, non-overlapping)
  - Bracket rates non-decreasing, each within [0, 1]
  - Contribution rate and levy rates within [0, 1]; monthly cap >= 0

VERSIONING:
  Tables carry a version and an effective-from date. The configuration
  loader picks the latest table effective at the period start; the caller
  must snapshot one table reference per batch and never swap mid-batch.

SEE ALSO:
  - tax.go: Walks the brackets
  - factory package: Parses JSON table definitions into this type
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// TAX BRACKET - One marginal-rate tier, annual basis
// =============================================================================

// TaxBracket applies Rate to the portion of annualized income at or above
// LowerAnnualBound, up to the next bracket's lower bound.
type TaxBracket struct {
	LowerAnnualBound Money
	Rate             decimal.Decimal
}

// =============================================================================
// STATUTORY RATE TABLE
// =============================================================================

type StatutoryRateTable struct {
	ID            RateTableID
	Name          string
	Version       int
	EffectiveFrom time.Time
	Currency      string

	// Ordered income-tax brackets, annual basis.
	Brackets []TaxBracket

	// Capped social-insurance contribution.
	ContributionRate       decimal.Decimal
	ContributionMonthlyCap Money

	// Flat levies, computed on full gross earnings.
	EducationLevyRate decimal.Decimal
	TrainingLevyRate  decimal.Decimal
}

// TaxFreeThreshold returns the annual amount below which no income tax is
// due: the lower bound of the first non-zero-rate bracket. A single-bracket
// table has no threshold; everything is tax-free.
func (t *StatutoryRateTable) TaxFreeThreshold() Money {
	if len(t.Brackets) < 2 {
		return ZeroMoney()
	}
	return t.Brackets[1].LowerAnnualBound
}

// Validate checks the structural invariant. It returns a *ConfigurationError
// naming the first violation; calculators call it before any arithmetic so a
// malformed table fails fast.
func (t *StatutoryRateTable) Validate() error {
	if len(t.Brackets) == 0 {
		return &ConfigurationError{Field: "brackets", Reason: "at least one bracket required"}
	}
	if !t.Brackets[0].LowerAnnualBound.IsZero() {
		return &ConfigurationError{Field: "brackets[0].lowerAnnualBound", Reason: "first bracket must start at 0"}
	}
	if !t.Brackets[0].Rate.IsZero() {
		return &ConfigurationError{Field: "brackets[0].rate", Reason: "first bracket must be the zero-rate band"}
	}

	one := decimal.NewFromInt(1)
	for i, b := range t.Brackets {
		if b.Rate.IsNegative() || b.Rate.GreaterThan(one) {
			return &ConfigurationError{Field: "brackets.rate", Reason: "rate must be within [0, 1]"}
		}
		if i == 0 {
			continue
		}
		prev := t.Brackets[i-1]
		if !b.LowerAnnualBound.GreaterThan(prev.LowerAnnualBound) {
			return &ConfigurationError{Field: "brackets.lowerAnnualBound", Reason: "bounds must be strictly increasing"}
		}
		if b.Rate.LessThan(prev.Rate) {
			return &ConfigurationError{Field: "brackets.rate", Reason: "rates must be non-decreasing"}
		}
	}

	if t.ContributionRate.IsNegative() || t.ContributionRate.GreaterThan(one) {
		return &ConfigurationError{Field: "contributionRate", Reason: "rate must be within [0, 1]"}
	}
	if t.ContributionMonthlyCap.IsNegative() {
		return &ConfigurationError{Field: "contributionMonthlyCap", Reason: "cap must be non-negative"}
	}
	if t.EducationLevyRate.IsNegative() || t.EducationLevyRate.GreaterThan(one) {
		return &ConfigurationError{Field: "educationLevyRate", Reason: "rate must be within [0, 1]"}
	}
	if t.TrainingLevyRate.IsNegative() || t.TrainingLevyRate.GreaterThan(one) {
		return &ConfigurationError{Field: "trainingLevyRate", Reason: "rate must be within [0, 1]"}
	}
	return nil
}
