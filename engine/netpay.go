/*
netpay.go - Net pay assembly

PURPOSE:
  Combines gross earnings, statutory deductions, and non-statutory
  deductions into the finalized PayrollCalculationResult.

NEGATIVE NET PAY:
  Not clamped and not an error. The result is returned as-is with
  IsNetNegative set; whether to reject the run, cap deductions, or flag for
  manual review is business policy outside this engine.

INVARIANTS:
  Every field entering the sums is already rounded to the currency unit, so
  both result invariants hold exactly:

    TotalDeductions = IncomeTax + Contribution + EducationLevy + TrainingLevy + OtherDeductions
    NetPay          = GrossEarnings - TotalDeductions
*/
package engine

// AssembleNet builds the final calculation result. Inputs are taken as
// already validated and rounded by AssembleEarnings / CalculateDeductions.
func AssembleNet(gross Money, deductions StatutoryDeductions, otherDeductions Money) PayrollCalculationResult {
	other := otherDeductions.Round()
	total := deductions.Total().Add(other)
	net := gross.Sub(total)

	return PayrollCalculationResult{
		GrossEarnings:   gross,
		IncomeTax:       deductions.IncomeTax,
		Contribution:    deductions.Contribution,
		EducationLevy:   deductions.EducationLevy,
		TrainingLevy:    deductions.TrainingLevy,
		OtherDeductions: other,
		TotalDeductions: total,
		NetPay:          net,
		IsNetNegative:   net.IsNegative(),
	}
}

// Calculate chains earnings assembly, statutory deductions, and net pay
// assembly for one employee-period pair. Either a full result is produced or
// none is; there is no partial output on failure.
func Calculate(profile CompensationProfile, inputs PeriodInputs, table *StatutoryRateTable) (PayrollCalculationResult, error) {
	gross, err := AssembleEarnings(profile, inputs)
	if err != nil {
		return PayrollCalculationResult{}, err
	}
	deductions, err := CalculateDeductions(gross, table, profile.Frequency)
	if err != nil {
		return PayrollCalculationResult{}, err
	}
	return AssembleNet(gross, deductions, inputs.OtherDeductions), nil
}
