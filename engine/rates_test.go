package engine_test

import (
	"errors"
	"testing"

	"github.com/warp/payroll-engine/engine"
)

func TestRateTable_ValidTable(t *testing.T) {
	if err := testTable().Validate(); err != nil {
		t.Fatalf("valid table rejected: %v", err)
	}
}

func TestRateTable_TaxFreeThreshold(t *testing.T) {
	assertMoney(t, "threshold", testTable().TaxFreeThreshold(), jmd(1_500_000))
}

func TestRateTable_StructuralViolations(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*engine.StatutoryRateTable)
	}{
		{"no brackets", func(tb *engine.StatutoryRateTable) {
			tb.Brackets = nil
		}},
		{"first bound not zero", func(tb *engine.StatutoryRateTable) {
			tb.Brackets[0].LowerAnnualBound = jmd(100)
		}},
		{"first rate not zero", func(tb *engine.StatutoryRateTable) {
			tb.Brackets[0].Rate = rate(0.05)
		}},
		{"bounds not strictly increasing", func(tb *engine.StatutoryRateTable) {
			tb.Brackets[2].LowerAnnualBound = tb.Brackets[1].LowerAnnualBound
		}},
		{"decreasing rates", func(tb *engine.StatutoryRateTable) {
			tb.Brackets[2].Rate = rate(0.10)
		}},
		{"rate above one", func(tb *engine.StatutoryRateTable) {
			tb.Brackets[2].Rate = rate(1.5)
		}},
		{"negative contribution rate", func(tb *engine.StatutoryRateTable) {
			tb.ContributionRate = rate(-0.01)
		}},
		{"negative cap", func(tb *engine.StatutoryRateTable) {
			tb.ContributionMonthlyCap = jmd(-1)
		}},
		{"education levy above one", func(tb *engine.StatutoryRateTable) {
			tb.EducationLevyRate = rate(1.01)
		}},
		{"negative training levy", func(tb *engine.StatutoryRateTable) {
			tb.TrainingLevyRate = rate(-0.03)
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			table := testTable()
			tc.mutate(table)

			err := table.Validate()
			if err == nil {
				t.Fatal("expected configuration error")
			}
			if !errors.Is(err, engine.ErrConfiguration) {
				t.Errorf("expected ErrConfiguration, got %v", err)
			}
			var cerr *engine.ConfigurationError
			if !errors.As(err, &cerr) {
				t.Errorf("expected *ConfigurationError, got %T", err)
			}
		})
	}
}
