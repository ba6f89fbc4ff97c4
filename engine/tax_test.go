package engine_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/engine"
)

func incomeTaxFor(t *testing.T, gross engine.Money) engine.Money {
	t.Helper()
	d, err := engine.CalculateDeductions(gross, testTable(), engine.FrequencyMonthly)
	if err != nil {
		t.Fatalf("unexpected error for gross %s: %v", gross, err)
	}
	return d.IncomeTax
}

// closedFormTax is the two-case rule the generic bracket walk must agree
// with when exactly two non-zero brackets exist: below the second boundary,
// tax = (annual - threshold) * rate1; above it,
// tax = (boundary - threshold) * rate1 + (annual - boundary) * rate2.
func closedFormTax(gross engine.Money) engine.Money {
	threshold := jmd(1_500_000)
	boundary := jmd(6_000_000)
	rate1 := rate(0.25)
	rate2 := rate(0.30)
	twelve := decimal.NewFromInt(12)

	annual := gross.Mul(twelve)
	var annualTax engine.Money
	switch {
	case !annual.GreaterThan(threshold):
		annualTax = jmd(0)
	case !annual.GreaterThan(boundary):
		annualTax = annual.Sub(threshold).Mul(rate1)
	default:
		annualTax = boundary.Sub(threshold).Mul(rate1).
			Add(annual.Sub(boundary).Mul(rate2))
	}
	return annualTax.Div(twelve).Round()
}

// =============================================================================
// THRESHOLD CONTINUITY
// =============================================================================

func TestIncomeTax_AtThreshold_ExactlyZero(t *testing.T) {
	// GIVEN: Gross pay whose annualized value equals the tax-free threshold
	// WHEN: Computing income tax
	// THEN: Tax is exactly zero, never a small negative value

	tax := incomeTaxFor(t, jmd(125_000)) // 125,000 * 12 = 1,500,000
	if !tax.IsZero() {
		t.Errorf("expected exactly zero tax at threshold, got %s", tax)
	}
}

func TestIncomeTax_JustAboveThreshold_OnlyMarginTaxed(t *testing.T) {
	// GIVEN: Gross pay 100 above the de-annualized threshold
	// WHEN: Computing income tax
	// THEN: Only the 100/month increment (1,200/yr) is taxed at 25%

	tax := incomeTaxFor(t, jmd(125_100))
	assertMoney(t, "incomeTax", tax, jmd(25)) // 1,200 * 0.25 / 12
}

func TestIncomeTax_NonDecreasingAcrossBoundaries(t *testing.T) {
	// GIVEN: Gross values sweeping across both bracket boundaries
	// WHEN: Computing income tax for each
	// THEN: Tax is a non-decreasing function of gross with no jump beyond
	//       the marginal rate on the increment

	step := jmd(500)
	maxMarginal := step.Mul(rate(0.30)) // steepest possible increase per step

	prev := jmd(0)
	gross := jmd(100_000)
	for i := 0; i < 1000; i++ {
		tax := incomeTaxFor(t, gross)
		if tax.LessThan(prev) {
			t.Fatalf("tax decreased at gross %s: %s -> %s", gross, prev, tax)
		}
		increase := tax.Sub(prev)
		if i > 0 && increase.GreaterThan(maxMarginal.Add(jmd(0.01))) {
			t.Fatalf("discontinuous jump at gross %s: tax rose by %s", gross, increase)
		}
		prev = tax
		gross = gross.Add(step)
	}
}

// =============================================================================
// BRACKET WALK == CLOSED FORM
// =============================================================================

func TestIncomeTax_BracketWalkMatchesClosedForm(t *testing.T) {
	// GIVEN: The two-non-zero-bracket test table
	// WHEN: Computing tax via the generic bracket walk for a spread of
	//       gross values, including both boundaries and fractional amounts
	// THEN: The walk agrees with the closed-form two-case rule everywhere

	grosses := []engine.Money{
		jmd(0),
		jmd(1),
		jmd(50_000),
		jmd(124_999.99),
		jmd(125_000), // annual == threshold
		jmd(125_000.01),
		jmd(200_000),
		jmd(333_333.33),
		jmd(499_999.99),
		jmd(500_000), // annual == second boundary
		jmd(500_000.01),
		jmd(750_000),
		jmd(1_234_567.89),
	}

	for _, gross := range grosses {
		got := incomeTaxFor(t, gross)
		want := closedFormTax(gross)
		if !got.Equal(want) {
			t.Errorf("gross %s: bracket walk %s != closed form %s", gross, got, want)
		}
	}
}

// =============================================================================
// BOUNDARY BEHAVIOR
// =============================================================================

func TestIncomeTax_AtSecondBoundary_LowerRateApplies(t *testing.T) {
	// GIVEN: Annual gross exactly at the 6,000,000 boundary
	// WHEN: Computing income tax
	// THEN: The whole band up to and including the boundary is taxed at 25%;
	//       nothing reaches the 30% bracket

	tax := incomeTaxFor(t, jmd(500_000))
	assertMoney(t, "incomeTax", tax, jmd(93_750)) // (6M - 1.5M) * 0.25 / 12
}

func TestIncomeTax_AboveSecondBoundary_TopRateOnIncrementOnly(t *testing.T) {
	// GIVEN: Annual gross 120,000 above the second boundary (510,000/month)
	// WHEN: Computing income tax
	// THEN: The increment is taxed at 30% with no double-counting at the
	//       boundary: (4.5M * 0.25 + 120,000 * 0.30) / 12

	tax := incomeTaxFor(t, jmd(510_000))
	assertMoney(t, "incomeTax", tax, jmd(96_750))
}

func TestIncomeTax_FourBracketTable(t *testing.T) {
	// GIVEN: A table extended with a fourth tier, exercising the generic
	//        walk beyond the two-case rule
	// WHEN: Computing tax above the top bound
	// THEN: Each band contributes at its own marginal rate

	table := testTable()
	table.Brackets = append(table.Brackets, engine.TaxBracket{
		LowerAnnualBound: jmd(12_000_000),
		Rate:             rate(0.35),
	})

	// 1,200,000/month => 14,400,000/yr:
	// 4.5M*0.25 + 6M*0.30 + 2.4M*0.35 = 1,125,000 + 1,800,000 + 840,000
	d, err := engine.CalculateDeductions(jmd(1_200_000), table, engine.FrequencyMonthly)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertMoney(t, "incomeTax", d.IncomeTax, jmd(313_750)) // 3,765,000 / 12
}

// =============================================================================
// ANNUALIZATION
// =============================================================================

func TestAnnualize_RoundTrip(t *testing.T) {
	gross := jmd(123_456.78)

	annual, err := engine.Annualize(gross, engine.FrequencyMonthly)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertMoney(t, "annual", annual, jmd(1_481_481.36))

	back, err := engine.Deannualize(annual, engine.FrequencyMonthly)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertMoney(t, "period", back, gross)
}

func TestAnnualize_UnknownFrequency_Rejected(t *testing.T) {
	_, err := engine.Annualize(jmd(100), engine.PayFrequency("quarterly"))
	if err == nil {
		t.Fatal("expected validation error for unknown frequency")
	}
}
