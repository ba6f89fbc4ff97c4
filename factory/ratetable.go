/*
Package factory provides JSON to Go rate-table conversion.

PURPOSE:
  Converts JSON statutory-table definitions into engine.StatutoryRateTable
  values. This keeps tax rules as configuration - a budget-year change or a
  fourth bracket is a new JSON document, not a code change.

JSON SCHEMA:
  {
    "id": "jm-2025",
    "name": "Jamaica Statutory Deductions FY2025",
    "version": 1,
    "effective_from": "2025-04-01",
    "currency": "JMD",
    "brackets": [
      {"lower_annual_bound": 0, "rate": 0},
      {"lower_annual_bound": 1700088, "rate": 0.25},
      {"lower_annual_bound": 6000000, "rate": 0.30}
    ],
    "contribution": {"rate": 0.03, "monthly_cap": 12500},
    "education_levy_rate": 0.0225,
    "training_levy_rate": 0.03
  }

KEY FEATURES:
  - Validates the parsed table structurally before returning it
  - Defaults currency to JMD and version to 1
  - SelectEffective picks the table in force at a period start

USAGE:
  table, err := factory.ParseRateTable(payroll.Jamaica2025JSON("jm-2025"))

SEE ALSO:
  - engine/rates.go: The target type and its structural invariant
  - payroll/presets.go: Ready-made Jamaica definitions
*/
package factory

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/engine"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// RateTableJSON is the JSON representation of a statutory rate table.
type RateTableJSON struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Version       int               `json:"version,omitempty"`
	EffectiveFrom string            `json:"effective_from"` // YYYY-MM-DD
	Currency      string            `json:"currency,omitempty"`
	Brackets      []BracketJSON     `json:"brackets"`
	Contribution  ContributionJSON  `json:"contribution"`
	EducationRate float64           `json:"education_levy_rate"`
	TrainingRate  float64           `json:"training_levy_rate"`
}

// BracketJSON represents one marginal-rate tier.
type BracketJSON struct {
	LowerAnnualBound float64 `json:"lower_annual_bound"`
	Rate             float64 `json:"rate"`
}

// ContributionJSON represents the capped contribution configuration.
type ContributionJSON struct {
	Rate       float64 `json:"rate"`
	MonthlyCap float64 `json:"monthly_cap"`
}

// =============================================================================
// PARSING
// =============================================================================

// ParseRateTable parses a JSON string into a validated StatutoryRateTable.
func ParseRateTable(jsonStr string) (*engine.StatutoryRateTable, error) {
	var tj RateTableJSON
	if err := json.Unmarshal([]byte(jsonStr), &tj); err != nil {
		return nil, fmt.Errorf("failed to parse rate table JSON: %w", err)
	}
	return FromJSON(tj)
}

// FromJSON converts RateTableJSON to a validated StatutoryRateTable.
func FromJSON(tj RateTableJSON) (*engine.StatutoryRateTable, error) {
	if tj.ID == "" {
		return nil, &engine.ConfigurationError{Field: "id", Reason: "rate table id required"}
	}

	effectiveFrom := time.Time{}
	if tj.EffectiveFrom != "" {
		parsed, err := time.Parse("2006-01-02", tj.EffectiveFrom)
		if err != nil {
			return nil, &engine.ConfigurationError{Field: "effective_from", Reason: "expected YYYY-MM-DD"}
		}
		effectiveFrom = parsed
	}

	version := tj.Version
	if version == 0 {
		version = 1
	}
	currency := tj.Currency
	if currency == "" {
		currency = "JMD"
	}

	table := &engine.StatutoryRateTable{
		ID:                     engine.RateTableID(tj.ID),
		Name:                   tj.Name,
		Version:                version,
		EffectiveFrom:          effectiveFrom,
		Currency:               currency,
		ContributionRate:       decimal.NewFromFloat(tj.Contribution.Rate),
		ContributionMonthlyCap: engine.NewMoney(tj.Contribution.MonthlyCap),
		EducationLevyRate:      decimal.NewFromFloat(tj.EducationRate),
		TrainingLevyRate:       decimal.NewFromFloat(tj.TrainingRate),
	}
	for _, b := range tj.Brackets {
		table.Brackets = append(table.Brackets, engine.TaxBracket{
			LowerAnnualBound: engine.NewMoney(b.LowerAnnualBound),
			Rate:             decimal.NewFromFloat(b.Rate),
		})
	}

	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// =============================================================================
// EFFECTIVE-DATE SELECTION
// =============================================================================

// SelectEffective returns the latest table whose effective date is on or
// before the given date. Tables change only at well-defined effective
// dates; callers snapshot the selection for a whole batch.
func SelectEffective(tables []*engine.StatutoryRateTable, at time.Time) (*engine.StatutoryRateTable, error) {
	var best *engine.StatutoryRateTable
	for _, t := range tables {
		if t.EffectiveFrom.After(at) {
			continue
		}
		if best == nil || t.EffectiveFrom.After(best.EffectiveFrom) {
			best = t
		}
	}
	if best == nil {
		return nil, &engine.ConfigurationError{Field: "effective_from", Reason: "no rate table effective at " + at.Format("2006-01-02")}
	}
	return best, nil
}
