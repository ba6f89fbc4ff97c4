/*
earnings.go - Gross earnings assembly

PURPOSE:
  Combines base salary, overtime, allowances, bonus, and commission into a
  single gross-earnings figure for the period.

OVERTIME:
  The hourly-equivalent rate is derived from base salary over the standard
  working month (40 hours/week * 4 weeks). Hours supplied for an employee
  whose profile is not overtime-eligible contribute zero - silently, not as
  an error, mirroring the exempt-employee case.

SEE ALSO:
  - deductions.go: Consumes the gross figure produced here
*/
package engine

import "github.com/shopspring/decimal"

// Standard working-time constants for the monthly period.
const (
	StandardWeeklyHours = 40
	WeeksPerPeriod      = 4
)

var standardPeriodHours = decimal.NewFromInt(StandardWeeklyHours * WeeksPerPeriod)

// AssembleEarnings combines the profile and period inputs into gross
// earnings, rounded once to the currency unit. It performs no side effects;
// invalid inputs produce a *ValidationError naming the offending field.
func AssembleEarnings(profile CompensationProfile, inputs PeriodInputs) (Money, error) {
	if err := validateEarningsInputs(profile, inputs); err != nil {
		return ZeroMoney(), err
	}

	overtime := overtimePay(profile, inputs.OvertimeHours)

	gross := profile.BaseSalary.
		Add(overtime).
		Add(inputs.Allowances).
		Add(inputs.Bonus).
		Add(inputs.Commission)

	return gross.Round(), nil
}

// overtimePay returns overtimeHours * hourlyRate * multiplier, or zero for a
// non-eligible profile regardless of the hours supplied.
func overtimePay(profile CompensationProfile, hours decimal.Decimal) Money {
	if !profile.OvertimeEligible || hours.IsZero() {
		return ZeroMoney()
	}
	hourlyRate := profile.BaseSalary.Div(standardPeriodHours)
	return hourlyRate.Mul(hours).Mul(profile.OvertimeMultiplier)
}

func validateEarningsInputs(profile CompensationProfile, inputs PeriodInputs) error {
	if profile.BaseSalary.IsNegative() {
		return &ValidationError{Field: "baseSalary", Value: profile.BaseSalary.String(), Reason: "must be non-negative"}
	}
	if inputs.OvertimeHours.IsNegative() {
		return &ValidationError{Field: "overtimeHours", Value: inputs.OvertimeHours.String(), Reason: "must be non-negative"}
	}
	// Checked even for non-eligible profiles: a sub-1 multiplier is a broken
	// profile, not an exempt employee.
	if profile.OvertimeMultiplier.LessThan(decimal.NewFromInt(1)) {
		return &ValidationError{Field: "overtimeMultiplier", Value: profile.OvertimeMultiplier.String(), Reason: "must be at least 1"}
	}
	if inputs.Allowances.IsNegative() {
		return &ValidationError{Field: "allowances", Value: inputs.Allowances.String(), Reason: "must be non-negative"}
	}
	if inputs.Bonus.IsNegative() {
		return &ValidationError{Field: "bonus", Value: inputs.Bonus.String(), Reason: "must be non-negative"}
	}
	if inputs.Commission.IsNegative() {
		return &ValidationError{Field: "commission", Value: inputs.Commission.String(), Reason: "must be non-negative"}
	}
	if inputs.OtherDeductions.IsNegative() {
		return &ValidationError{Field: "otherDeductions", Value: inputs.OtherDeductions.String(), Reason: "must be non-negative"}
	}
	return nil
}
