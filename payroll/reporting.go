/*
reporting.go - Period aggregation over calculation results

PURPOSE:
  Aggregate totals for one period: gross, deductions broken down by kind,
  net, employee count, average gross. This is the engine-facing half of the
  reporting collaborator; it consumes a sequence of results, never
  re-derives tax math, and never reaches into individual employees'
  records.

  Negative-net results are counted, not filtered: the summary is where an
  administrator first sees that a run needs attention before approval.
*/
package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/engine"
)

// PeriodSummary aggregates one period's calculation results.
type PeriodSummary struct {
	TotalGross           engine.Money `json:"totalGross"`
	TotalIncomeTax       engine.Money `json:"totalIncomeTax"`
	TotalContribution    engine.Money `json:"totalContribution"`
	TotalEducationLevy   engine.Money `json:"totalEducationLevy"`
	TotalTrainingLevy    engine.Money `json:"totalTrainingLevy"`
	TotalOtherDeductions engine.Money `json:"totalOtherDeductions"`
	TotalDeductions      engine.Money `json:"totalDeductions"`
	TotalNet             engine.Money `json:"totalNet"`

	EmployeeCount    int          `json:"employeeCount"`
	AverageGross     engine.Money `json:"averageGross"`
	NegativeNetCount int          `json:"negativeNetCount"`
}

// Summarize folds a sequence of results into period totals. Every input
// field is already rounded, so the sums are exact; only the average needs
// one final rounding.
func Summarize(results []engine.PayrollCalculationResult) PeriodSummary {
	s := PeriodSummary{
		TotalGross:           engine.ZeroMoney(),
		TotalIncomeTax:       engine.ZeroMoney(),
		TotalContribution:    engine.ZeroMoney(),
		TotalEducationLevy:   engine.ZeroMoney(),
		TotalTrainingLevy:    engine.ZeroMoney(),
		TotalOtherDeductions: engine.ZeroMoney(),
		TotalDeductions:      engine.ZeroMoney(),
		TotalNet:             engine.ZeroMoney(),
		AverageGross:         engine.ZeroMoney(),
	}

	for _, r := range results {
		s.TotalGross = s.TotalGross.Add(r.GrossEarnings)
		s.TotalIncomeTax = s.TotalIncomeTax.Add(r.IncomeTax)
		s.TotalContribution = s.TotalContribution.Add(r.Contribution)
		s.TotalEducationLevy = s.TotalEducationLevy.Add(r.EducationLevy)
		s.TotalTrainingLevy = s.TotalTrainingLevy.Add(r.TrainingLevy)
		s.TotalOtherDeductions = s.TotalOtherDeductions.Add(r.OtherDeductions)
		s.TotalDeductions = s.TotalDeductions.Add(r.TotalDeductions)
		s.TotalNet = s.TotalNet.Add(r.NetPay)
		if r.IsNetNegative {
			s.NegativeNetCount++
		}
	}

	s.EmployeeCount = len(results)
	if s.EmployeeCount > 0 {
		s.AverageGross = s.TotalGross.Div(decimal.NewFromInt(int64(s.EmployeeCount))).Round()
	}
	return s
}

// SummarizeEntries is the store-facing variant: it summarizes the attached
// results of the given entries, skipping drafts and cancelled entries.
func SummarizeEntries(entries []*engine.PayrollEntry) PeriodSummary {
	var results []engine.PayrollCalculationResult
	for _, e := range entries {
		if e.Result == nil || e.Status == engine.StatusCancelled {
			continue
		}
		results = append(results, *e.Result)
	}
	return Summarize(results)
}
