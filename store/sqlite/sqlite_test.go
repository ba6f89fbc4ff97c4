package sqlite

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

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testEntry(t *testing.T, id engine.EntryID, employeeID engine.EmployeeID) *engine.PayrollEntry {
	t.Helper()

	table, err := factory.ParseRateTable(payroll.Jamaica2025JSON("jm-2025"))
	require.NoError(t, err)

	profile := engine.CompensationProfile{
		EmployeeID:         employeeID,
		BaseSalary:         engine.NewMoney(250000),
		Frequency:          engine.FrequencyMonthly,
		OvertimeEligible:   true,
		OvertimeMultiplier: decimal.NewFromFloat(1.5),
		Currency:           "JMD",
	}
	result, err := engine.Calculate(profile, engine.PeriodInputs{}, table)
	require.NoError(t, err)

	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	entry := engine.NewEntry(id, employeeID, engine.MonthlyPeriod(2025, time.June), now)
	require.NoError(t, entry.AttachResult(result, now))
	return entry
}

func TestSQLiteStore_EntryRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	entry := testEntry(t, "entry-1", "emp-1")
	require.NoError(t, store.SaveEntry(ctx, entry))

	got, err := store.GetEntry(ctx, "entry-1")
	require.NoError(t, err)

	assert.Equal(t, entry.ID, got.ID)
	assert.Equal(t, entry.EmployeeID, got.EmployeeID)
	assert.Equal(t, engine.StatusCalculated, got.Status)
	require.NotNil(t, got.Result)
	assert.True(t, got.Result.NetPay.Value.Equal(entry.Result.NetPay.Value),
		"net pay: stored %s, loaded %s", entry.Result.NetPay.Value, got.Result.NetPay.Value)
}

func TestSQLiteStore_GetEntry_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetEntry(context.Background(), "nope")
	assert.ErrorIs(t, err, payroll.ErrEntryNotFound)
}

func TestSQLiteStore_FinalizedEntryIsImmutable(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	// GIVEN a stored entry that has been paid
	entry := testEntry(t, "entry-1", "emp-1")
	require.NoError(t, entry.Approve("mgr-9", now))
	require.NoError(t, entry.MarkPaid(now))
	require.NoError(t, store.SaveEntry(ctx, entry))

	// WHEN anything tries to overwrite it
	err := store.SaveEntry(ctx, entry)

	// THEN the store rejects the write
	assert.ErrorIs(t, err, payroll.ErrEntryFinalized)

	// Same for cancelled entries
	cancelled := testEntry(t, "entry-2", "emp-2")
	require.NoError(t, cancelled.Cancel("duplicate", now))
	require.NoError(t, store.SaveEntry(ctx, cancelled))
	assert.ErrorIs(t, store.SaveEntry(ctx, cancelled), payroll.ErrEntryFinalized)
}

func TestSQLiteStore_NonTerminalEntryCanBeUpdated(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	entry := testEntry(t, "entry-1", "emp-1")
	require.NoError(t, store.SaveEntry(ctx, entry))

	require.NoError(t, entry.Approve("mgr-9", time.Now().UTC()))
	require.NoError(t, store.SaveEntry(ctx, entry))

	got, err := store.GetEntry(ctx, "entry-1")
	require.NoError(t, err)
	assert.Equal(t, engine.StatusApproved, got.Status)
	assert.Equal(t, "mgr-9", got.ApprovedBy)
}

func TestSQLiteStore_ListEntriesByPeriod(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Out of order on purpose
	require.NoError(t, store.SaveEntry(ctx, testEntry(t, "e-2", "emp-2")))
	require.NoError(t, store.SaveEntry(ctx, testEntry(t, "e-1", "emp-1")))

	// A different period should not show up
	other := testEntry(t, "e-3", "emp-3")
	other.Period = engine.MonthlyPeriod(2025, time.July)
	require.NoError(t, store.SaveEntry(ctx, other))

	entries, err := store.ListEntries(ctx, engine.MonthlyPeriod(2025, time.June))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, engine.EmployeeID("emp-1"), entries[0].EmployeeID)
	assert.Equal(t, engine.EmployeeID("emp-2"), entries[1].EmployeeID)
}

func TestSQLiteStore_RunRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	run := &payroll.Run{
		ID:            "run-1",
		Period:        engine.MonthlyPeriod(2025, time.June),
		RateTableID:   "jm-2025",
		TableVersion:  1,
		Status:        payroll.RunCompleted,
		EmployeeCount: 12,
		FailureCount:  1,
		StartedAt:     time.Date(2025, 6, 30, 8, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.SaveRun(ctx, run))

	got, err := store.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, payroll.RunCompleted, got.Status)
	assert.Equal(t, 12, got.EmployeeCount)
	assert.Equal(t, 1, got.FailureCount)

	_, err = store.GetRun(ctx, "nope")
	assert.ErrorIs(t, err, payroll.ErrRunNotFound)
}

func TestSQLiteStore_RateTableRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t2023, err := factory.ParseRateTable(payroll.Jamaica2023JSON("jm-2023"))
	require.NoError(t, err)
	t2025, err := factory.ParseRateTable(payroll.Jamaica2025JSON("jm-2025"))
	require.NoError(t, err)

	require.NoError(t, store.SaveRateTable(ctx, t2025))
	require.NoError(t, store.SaveRateTable(ctx, t2023))

	got, err := store.GetRateTable(ctx, "jm-2025")
	require.NoError(t, err)
	require.NoError(t, got.Validate())
	assert.True(t, got.TaxFreeThreshold().Value.Equal(engine.NewMoney(1700088).Value))
	assert.True(t, got.ContributionMonthlyCap.Value.Equal(engine.NewMoney(12500).Value))

	// Listed in effective-date order
	tables, err := store.ListRateTables(ctx)
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, engine.RateTableID("jm-2023"), tables[0].ID)
	assert.Equal(t, engine.RateTableID("jm-2025"), tables[1].ID)

	_, err = store.GetRateTable(ctx, "nope")
	assert.ErrorIs(t, err, payroll.ErrRateTableNotFound)
}
