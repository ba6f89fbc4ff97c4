/*
presets.go - Jamaica statutory table presets

PURPOSE:
  JSON rate-table definitions for Jamaica's statutory deductions, consumed
  by the factory package. Constructed as JSON strings so the same
  definitions can seed a database, ship as config files, or back an admin
  UI without code changes.

  The four deductions these tables drive:
    PAYE          - progressive income tax (annual threshold + two rates)
    NIS           - social-insurance contribution, capped per month
    Education tax - flat levy on gross
    HEART         - training levy on gross

  Both levies are folded into the employee's own deductions here because
  that is how the console has always computed them; see the engine's
  deductions.go for the caveat.

USAGE:
  jsonStr := payroll.Jamaica2025JSON("jm-2025")
  table, err := factory.ParseRateTable(jsonStr)
*/
package payroll

import "encoding/json"

// Jamaica2025JSON returns the statutory table effective April 2025:
// tax-free threshold 1,700,088/yr, 25% to 6,000,000/yr, 30% above; NIS 3%
// capped at 12,500/month; education tax 2.25%; HEART levy 3%.
func Jamaica2025JSON(id string) string {
	tj := map[string]interface{}{
		"id":             id,
		"name":           "Jamaica Statutory Deductions FY2025",
		"version":        1,
		"effective_from": "2025-04-01",
		"currency":       "JMD",
		"brackets": []map[string]interface{}{
			{"lower_annual_bound": 0, "rate": 0},
			{"lower_annual_bound": 1700088, "rate": 0.25},
			{"lower_annual_bound": 6000000, "rate": 0.30},
		},
		"contribution": map[string]interface{}{
			"rate":        0.03,
			"monthly_cap": 12500,
		},
		"education_levy_rate": 0.0225,
		"training_levy_rate":  0.03,
	}
	b, _ := json.MarshalIndent(tj, "", "  ")
	return string(b)
}

// Jamaica2023JSON returns the table in force before the 2025 threshold
// increase.
func Jamaica2023JSON(id string) string {
	tj := map[string]interface{}{
		"id":             id,
		"name":           "Jamaica Statutory Deductions FY2023",
		"version":        1,
		"effective_from": "2023-04-01",
		"currency":       "JMD",
		"brackets": []map[string]interface{}{
			{"lower_annual_bound": 0, "rate": 0},
			{"lower_annual_bound": 1500096, "rate": 0.25},
			{"lower_annual_bound": 6000000, "rate": 0.30},
		},
		"contribution": map[string]interface{}{
			"rate":        0.03,
			"monthly_cap": 12500,
		},
		"education_levy_rate": 0.0225,
		"training_levy_rate":  0.03,
	}
	b, _ := json.MarshalIndent(tj, "", "  ")
	return string(b)
}

// SingleRateJSON returns a minimal two-bracket table (threshold + one
// rate), useful for sandboxes and for exercising the closed-form tax case.
func SingleRateJSON(id string, annualThreshold, taxRate float64) string {
	tj := map[string]interface{}{
		"id":             id,
		"name":           "Single Rate Sandbox",
		"version":        1,
		"effective_from": "2020-01-01",
		"currency":       "JMD",
		"brackets": []map[string]interface{}{
			{"lower_annual_bound": 0, "rate": 0},
			{"lower_annual_bound": annualThreshold, "rate": taxRate},
		},
		"contribution": map[string]interface{}{
			"rate":        0.03,
			"monthly_cap": 12500,
		},
		"education_levy_rate": 0.0225,
		"training_levy_rate":  0.03,
	}
	b, _ := json.MarshalIndent(tj, "", "  ")
	return string(b)
}
