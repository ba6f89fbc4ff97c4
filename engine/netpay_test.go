package engine_test

import (
	"testing"

	"github.com/warp/payroll-engine/engine"
)

func TestAssembleNet_InvariantsHoldExactly(t *testing.T) {
	// GIVEN: A spread of gross values with other deductions mixed in
	// WHEN: Assembling net pay
	// THEN: totalDeductions and netPay satisfy the result invariants
	//       exactly after rounding - no drift across fields

	table := testTable()
	grosses := []float64{0, 99.99, 100_000, 125_000, 333_333.33, 500_000, 987_654.32}

	for _, g := range grosses {
		gross := jmd(g)
		deductions, err := engine.CalculateDeductions(gross, table, engine.FrequencyMonthly)
		if err != nil {
			t.Fatalf("unexpected error at gross %s: %v", gross, err)
		}
		other := jmd(1_234.56)
		result := engine.AssembleNet(gross, deductions, other)

		wantTotal := result.IncomeTax.
			Add(result.Contribution).
			Add(result.EducationLevy).
			Add(result.TrainingLevy).
			Add(result.OtherDeductions)
		assertMoney(t, "totalDeductions", result.TotalDeductions, wantTotal)
		assertMoney(t, "netPay", result.NetPay, result.GrossEarnings.Sub(result.TotalDeductions))
	}
}

func TestAssembleNet_NegativeNet_FlaggedNotClamped(t *testing.T) {
	// GIVEN: Other deductions exceeding what is left after statutory ones
	// WHEN: Assembling net pay
	// THEN: The negative net is returned as-is with IsNetNegative set;
	//       clamping is the caller's policy decision, not the engine's

	gross := jmd(100_000)
	deductions, err := engine.CalculateDeductions(gross, testTable(), engine.FrequencyMonthly)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result := engine.AssembleNet(gross, deductions, jmd(95_000))

	if !result.IsNetNegative {
		t.Error("expected IsNetNegative=true")
	}
	// 100,000 - (8,250 statutory + 95,000 other)
	assertMoney(t, "netPay", result.NetPay, jmd(-3_250))
}

func TestAssembleNet_ZeroGross(t *testing.T) {
	deductions, err := engine.CalculateDeductions(jmd(0), testTable(), engine.FrequencyMonthly)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result := engine.AssembleNet(jmd(0), deductions, jmd(0))

	assertMoney(t, "totalDeductions", result.TotalDeductions, jmd(0))
	assertMoney(t, "netPay", result.NetPay, jmd(0))
	if result.IsNetNegative {
		t.Error("zero net must not be flagged negative")
	}
}
