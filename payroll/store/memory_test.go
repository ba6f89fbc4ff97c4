package store

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/payroll"
)

func calculatedEntry(t *testing.T, id engine.EntryID, employeeID engine.EmployeeID) *engine.PayrollEntry {
	t.Helper()

	table, err := factory.ParseRateTable(payroll.Jamaica2025JSON("jm-2025"))
	require.NoError(t, err)

	profile := engine.CompensationProfile{
		EmployeeID:         employeeID,
		BaseSalary:         engine.NewMoney(200000),
		Frequency:          engine.FrequencyMonthly,
		OvertimeMultiplier: decimal.NewFromFloat(1.5),
	}
	result, err := engine.Calculate(profile, engine.PeriodInputs{}, table)
	require.NoError(t, err)

	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	entry := engine.NewEntry(id, employeeID, engine.MonthlyPeriod(2025, time.June), now)
	require.NoError(t, entry.AttachResult(result, now))
	return entry
}

func TestMemory_NotFoundSentinels(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, err := m.GetEntry(ctx, "nope")
	assert.ErrorIs(t, err, payroll.ErrEntryNotFound)

	_, err = m.GetRun(ctx, "nope")
	assert.ErrorIs(t, err, payroll.ErrRunNotFound)

	_, err = m.GetRateTable(ctx, "nope")
	assert.ErrorIs(t, err, payroll.ErrRateTableNotFound)
}

func TestMemory_TerminalEntryRejectsOverwrite(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	now := time.Now().UTC()

	entry := calculatedEntry(t, "e-1", "emp-1")
	require.NoError(t, entry.Approve("mgr-1", now))
	require.NoError(t, entry.MarkPaid(now))
	require.NoError(t, m.SaveEntry(ctx, entry))

	assert.ErrorIs(t, m.SaveEntry(ctx, entry), payroll.ErrEntryFinalized)
}

func TestMemory_ReturnsCopies(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	entry := calculatedEntry(t, "e-1", "emp-1")
	require.NoError(t, m.SaveEntry(ctx, entry))

	// Mutating what the store handed back must not leak into storage
	got, err := m.GetEntry(ctx, "e-1")
	require.NoError(t, err)
	got.Status = engine.StatusCancelled
	got.Result.NetPay = engine.NewMoney(-1)

	again, err := m.GetEntry(ctx, "e-1")
	require.NoError(t, err)
	assert.Equal(t, engine.StatusCalculated, again.Status)
	assert.False(t, again.Result.NetPay.IsNegative())

	// Same for the caller's original after saving
	entry.Status = engine.StatusCancelled
	final, err := m.GetEntry(ctx, "e-1")
	require.NoError(t, err)
	assert.Equal(t, engine.StatusCalculated, final.Status)
}

func TestMemory_ListEntriesFiltersAndSorts(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.SaveEntry(ctx, calculatedEntry(t, "e-b", "emp-b")))
	require.NoError(t, m.SaveEntry(ctx, calculatedEntry(t, "e-a", "emp-a")))

	other := calculatedEntry(t, "e-c", "emp-c")
	other.Period = engine.MonthlyPeriod(2025, time.July)
	require.NoError(t, m.SaveEntry(ctx, other))

	entries, err := m.ListEntries(ctx, engine.MonthlyPeriod(2025, time.June))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, engine.EmployeeID("emp-a"), entries[0].EmployeeID)
	assert.Equal(t, engine.EmployeeID("emp-b"), entries[1].EmployeeID)
}

func TestMemory_RateTablesSortedByEffectiveDate(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	t2025, err := factory.ParseRateTable(payroll.Jamaica2025JSON("jm-2025"))
	require.NoError(t, err)
	t2023, err := factory.ParseRateTable(payroll.Jamaica2023JSON("jm-2023"))
	require.NoError(t, err)

	require.NoError(t, m.SaveRateTable(ctx, t2025))
	require.NoError(t, m.SaveRateTable(ctx, t2023))

	tables, err := m.ListRateTables(ctx)
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, engine.RateTableID("jm-2023"), tables[0].ID)
	assert.Equal(t, engine.RateTableID("jm-2025"), tables[1].ID)

	// Stored tables are copied too: mutating the source does not leak in
	t2023.Brackets[0].LowerAnnualBound = engine.NewMoney(999)
	fresh, err := m.GetRateTable(ctx, "jm-2023")
	require.NoError(t, err)
	assert.True(t, fresh.Brackets[0].LowerAnnualBound.IsZero())
}
