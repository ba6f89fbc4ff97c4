/*
tax.go - Progressive income tax via annualize / bracket walk / de-annualize

PURPOSE:
  The statutory brackets are defined per year while payroll runs monthly, so
  the period figure is annualized, taxed with a generic walk over the
  ordered brackets, and the annual tax divided back down to the period.

ANNUALIZATION:
  Isolated as its own pure sub-function keyed on PayFrequency so the factor
  is swappable (weekly, biweekly) without touching the bracket walk.

BRACKET WALK:
  For each bracket, the portion of annual gross within
  [lowerBound, nextLowerBound) - or [lowerBound, inf) for the top bracket -
  is taxed at that bracket's rate. Income exactly at a bracket boundary is
  taxed at the lower bracket's rate; only the amount strictly above the
  boundary reaches the next rate. Annual gross at or below the tax-free
  threshold yields exactly zero, never a negative value.

SEE ALSO:
  - rates.go: Bracket ordering invariant the walk relies on
  - deductions.go: Calls this as part of CalculateDeductions
*/
package engine

import "github.com/shopspring/decimal"

// Annualize scales a period figure to its annual equivalent.
func Annualize(period Money, frequency PayFrequency) (Money, error) {
	n, err := frequency.PeriodsPerYear()
	if err != nil {
		return ZeroMoney(), err
	}
	return period.Mul(decimal.NewFromInt(int64(n))), nil
}

// Deannualize divides an annual figure back down to the period.
func Deannualize(annual Money, frequency PayFrequency) (Money, error) {
	n, err := frequency.PeriodsPerYear()
	if err != nil {
		return ZeroMoney(), err
	}
	return annual.Div(decimal.NewFromInt(int64(n))), nil
}

// taxOnAnnual walks the ordered brackets and sums the marginal tax on each
// portion of annualGross. The result is unrounded; the caller rounds once
// after de-annualizing.
func taxOnAnnual(annualGross Money, brackets []TaxBracket) Money {
	total := ZeroMoney()
	for i, b := range brackets {
		if !annualGross.GreaterThan(b.LowerAnnualBound) {
			break
		}
		upper := annualGross
		if i+1 < len(brackets) && brackets[i+1].LowerAnnualBound.LessThan(upper) {
			upper = brackets[i+1].LowerAnnualBound
		}
		portion := upper.Sub(b.LowerAnnualBound)
		total = total.Add(portion.Mul(b.Rate))
	}
	return total
}

// periodIncomeTax computes the de-annualized income tax for one period,
// rounded once at the end.
func periodIncomeTax(gross Money, table *StatutoryRateTable, frequency PayFrequency) (Money, error) {
	annualGross, err := Annualize(gross, frequency)
	if err != nil {
		return ZeroMoney(), err
	}
	annualTax := taxOnAnnual(annualGross, table.Brackets)
	periodTax, err := Deannualize(annualTax, frequency)
	if err != nil {
		return ZeroMoney(), err
	}
	return periodTax.Round(), nil
}
