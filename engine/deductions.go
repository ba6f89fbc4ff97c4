/*
deductions.go - Statutory deduction calculator

PURPOSE:
  The core gross-to-deductions algorithm: progressive income tax (tax.go),
  the capped social-insurance contribution, and the two flat levies, all
  from one gross-earnings figure and one rate table.

CONTRIBUTION CAP:
  contribution = min(gross * rate, monthlyCap). The cap binds on the period
  figure directly - there is no annualization step here, unlike income tax -
  and independently of how the gross was composed (overtime-inflated or
  not).

LEVIES:
  Both flat levies are computed on the employee's full gross earnings and
  folded into the employee's own deductions. Comparable jurisdictions carry
  the training levy on the employer side; this engine preserves the
  console's observed behavior literally.

FAILURE MODES:
  A malformed rate table fails fast with *ConfigurationError before any
  arithmetic; negative gross earnings fail with *ValidationError. Pure
  function - identical inputs always yield identical outputs.
*/
package engine

// CalculateDeductions computes the four statutory deductions for one
// period's gross earnings under the given rate table.
func CalculateDeductions(gross Money, table *StatutoryRateTable, frequency PayFrequency) (StatutoryDeductions, error) {
	if err := table.Validate(); err != nil {
		return StatutoryDeductions{}, err
	}
	if gross.IsNegative() {
		return StatutoryDeductions{}, &ValidationError{Field: "grossEarnings", Value: gross.String(), Reason: "must be non-negative"}
	}

	incomeTax, err := periodIncomeTax(gross, table, frequency)
	if err != nil {
		return StatutoryDeductions{}, err
	}

	contribution := gross.Mul(table.ContributionRate).Min(table.ContributionMonthlyCap).Round()
	educationLevy := gross.Mul(table.EducationLevyRate).Round()
	trainingLevy := gross.Mul(table.TrainingLevyRate).Round()

	return StatutoryDeductions{
		IncomeTax:     incomeTax,
		Contribution:  contribution,
		EducationLevy: educationLevy,
		TrainingLevy:  trainingLevy,
	}, nil
}
