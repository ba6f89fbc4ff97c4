/*
Package engine implements the payroll gross-to-net calculation core.

PURPOSE:
  This package contains the pure types and algorithms that turn an
  employee's period earnings into statutory deductions and net pay under
  Jamaica's tax code: progressive income tax, a capped social-insurance
  contribution, and two flat-rate payroll levies. Everything here is
  deterministic, synchronous, and free of I/O so that identical inputs
  always produce byte-identical results.

KEY CONCEPTS IN THIS FILE (types.go):
  - Money: A monetary quantity backed by decimal.Decimal
  - CompensationProfile: An employee's pay terms (immutable per calculation)
  - PeriodInputs: The caller-supplied variable amounts for one pay period
  - StatutoryDeductions: The four statutory deduction figures
  - PayrollCalculationResult: The finalized gross-to-net snapshot

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point errors on money
  2. Immutability: Results are never mutated after construction
  3. Single currency: Every amount in one calculation shares the profile's
     currency; conversion is a caller concern
  4. Rounding once: Each output field is rounded exactly once, at the end
     of its computation, never on intermediate sums

USAGE:
  gross, err := engine.AssembleEarnings(profile, inputs)
  deductions, err := engine.CalculateDeductions(gross, table)
  result := engine.AssembleNet(gross, deductions, inputs.OtherDeductions)

SEE ALSO:
  - rates.go: StatutoryRateTable and its structural validation
  - tax.go: Annualization and the progressive bracket walk
  - deductions.go: Capped contribution and flat levies
  - netpay.go: Net pay assembly and invariants
  - entry.go: PayrollEntry lifecycle state machine
*/
package engine

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Monetary quantity with exact decimal arithmetic
// =============================================================================

// Money is an amount in the calculation's configured currency. The currency
// itself lives on the CompensationProfile and StatutoryRateTable; carrying it
// on every value would only restate the single-currency invariant.
type Money struct {
	Value decimal.Decimal
}

func NewMoney(value float64) Money {
	return Money{Value: decimal.NewFromFloat(value)}
}

func ZeroMoney() Money { return Money{Value: decimal.Zero} }

func (m Money) Add(b Money) Money             { return Money{Value: m.Value.Add(b.Value)} }
func (m Money) Sub(b Money) Money             { return Money{Value: m.Value.Sub(b.Value)} }
func (m Money) Mul(s decimal.Decimal) Money   { return Money{Value: m.Value.Mul(s)} }
func (m Money) Div(s decimal.Decimal) Money   { return Money{Value: m.Value.Div(s)} }
func (m Money) Neg() Money                    { return Money{Value: m.Value.Neg()} }
func (m Money) IsNegative() bool              { return m.Value.IsNegative() }
func (m Money) IsZero() bool                  { return m.Value.IsZero() }
func (m Money) IsPositive() bool              { return m.Value.IsPositive() }
func (m Money) Equal(b Money) bool            { return m.Value.Equal(b.Value) }
func (m Money) GreaterThan(b Money) bool      { return m.Value.GreaterThan(b.Value) }
func (m Money) LessThan(b Money) bool         { return m.Value.LessThan(b.Value) }
func (m Money) Min(b Money) Money             { if m.LessThan(b) { return m }; return b }
func (m Money) Max(b Money) Money             { if m.GreaterThan(b) { return m }; return b }

// Round rounds to the smallest currency unit (2 decimal places), half-up.
// Every monetary output field is rounded exactly once with this method.
// decimal.Round rounds ties away from zero, which coincides with half-up for
// the non-negative products this engine rounds; already-rounded fields pass
// through unchanged.
func (m Money) Round() Money {
	return Money{Value: m.Value.Round(2)}
}

func (m Money) String() string { return m.Value.StringFixed(2) }

// Money marshals as a bare decimal string so stored and wire forms read as
// plain amounts.
func (m Money) MarshalJSON() ([]byte, error)  { return m.Value.MarshalJSON() }
func (m *Money) UnmarshalJSON(b []byte) error { return m.Value.UnmarshalJSON(b) }

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID string
type EntryID string
type RateTableID string

// =============================================================================
// COMPENSATION PROFILE - Employee pay terms (supplied by the HR collaborator)
// =============================================================================

// CompensationProfile describes how an employee is paid. It is owned by the
// external employee record and must not change for the duration of one
// calculation.
type CompensationProfile struct {
	EmployeeID         EmployeeID
	BaseSalary         Money
	Frequency          PayFrequency
	OvertimeEligible   bool
	OvertimeMultiplier decimal.Decimal
	Currency           string
}

// =============================================================================
// PERIOD INPUTS - Caller-supplied variable amounts for one run
// =============================================================================

// PeriodInputs carries the per-period variable amounts. All monetary fields
// must be non-negative; violations are validation errors, never clamped.
type PeriodInputs struct {
	OvertimeHours   decimal.Decimal
	Allowances      Money
	Bonus           Money
	Commission      Money
	OtherDeductions Money
}

// =============================================================================
// STATUTORY DEDUCTIONS - Output of the deduction calculator
// =============================================================================

type StatutoryDeductions struct {
	IncomeTax     Money
	Contribution  Money
	EducationLevy Money
	TrainingLevy  Money
}

// Total sums the four statutory figures. The inputs are already rounded, so
// the sum is exact.
func (d StatutoryDeductions) Total() Money {
	return d.IncomeTax.Add(d.Contribution).Add(d.EducationLevy).Add(d.TrainingLevy)
}

// =============================================================================
// CALCULATION RESULT - Finalized gross-to-net snapshot
// =============================================================================

// PayrollCalculationResult is produced fresh per calculation and never
// mutated afterwards. Two invariants hold exactly for every result:
//
//	TotalDeductions = IncomeTax + Contribution + EducationLevy + TrainingLevy + OtherDeductions
//	NetPay          = GrossEarnings - TotalDeductions
type PayrollCalculationResult struct {
	GrossEarnings   Money `json:"grossEarnings"`
	IncomeTax       Money `json:"incomeTax"`
	Contribution    Money `json:"contribution"`
	EducationLevy   Money `json:"educationLevy"`
	TrainingLevy    Money `json:"trainingLevy"`
	OtherDeductions Money `json:"otherDeductions"`
	TotalDeductions Money `json:"totalDeductions"`
	NetPay          Money `json:"netPay"`

	// IsNetNegative flags a net pay below zero. The engine reports it and
	// leaves the policy decision (block approval, reduce deductions) to the
	// caller.
	IsNetNegative bool `json:"isNetNegative"`
}
