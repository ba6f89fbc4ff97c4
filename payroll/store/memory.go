// Package store provides payroll Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu      sync.RWMutex
	entries map[engine.EntryID]*engine.PayrollEntry
	runs    map[payroll.RunID]*payroll.Run
	tables  map[engine.RateTableID]*engine.StatutoryRateTable
}

func NewMemory() *Memory {
	return &Memory{
		entries: make(map[engine.EntryID]*engine.PayrollEntry),
		runs:    make(map[payroll.RunID]*payroll.Run),
		tables:  make(map[engine.RateTableID]*engine.StatutoryRateTable),
	}
}

var _ payroll.Store = (*Memory)(nil)

// SaveEntry inserts or replaces an entry, rejecting overwrites of entries
// already in a terminal state.
func (m *Memory) SaveEntry(_ context.Context, entry *engine.PayrollEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.entries[entry.ID]; ok && existing.Status.Terminal() {
		return payroll.ErrEntryFinalized
	}
	copied := *entry
	if entry.Result != nil {
		result := *entry.Result
		copied.Result = &result
	}
	m.entries[entry.ID] = &copied
	return nil
}

func (m *Memory) GetEntry(_ context.Context, id engine.EntryID) (*engine.PayrollEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[id]
	if !ok {
		return nil, payroll.ErrEntryNotFound
	}
	copied := *entry
	if entry.Result != nil {
		result := *entry.Result
		copied.Result = &result
	}
	return &copied, nil
}

func (m *Memory) ListEntries(_ context.Context, period engine.PayPeriod) ([]*engine.PayrollEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*engine.PayrollEntry
	for _, entry := range m.entries {
		if !entry.Period.Start.Equal(period.Start) || !entry.Period.End.Equal(period.End) {
			continue
		}
		copied := *entry
		if entry.Result != nil {
			r := *entry.Result
			copied.Result = &r
		}
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].EmployeeID < result[j].EmployeeID })
	return result, nil
}

func (m *Memory) SaveRun(_ context.Context, run *payroll.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *run
	m.runs[run.ID] = &copied
	return nil
}

func (m *Memory) GetRun(_ context.Context, id payroll.RunID) (*payroll.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	run, ok := m.runs[id]
	if !ok {
		return nil, payroll.ErrRunNotFound
	}
	copied := *run
	return &copied, nil
}

func (m *Memory) ListRuns(_ context.Context) ([]*payroll.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*payroll.Run, 0, len(m.runs))
	for _, run := range m.runs {
		copied := *run
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartedAt.Before(result[j].StartedAt) })
	return result, nil
}

func (m *Memory) SaveRateTable(_ context.Context, table *engine.StatutoryRateTable) error {
	if err := table.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *table
	copied.Brackets = append([]engine.TaxBracket(nil), table.Brackets...)
	m.tables[table.ID] = &copied
	return nil
}

func (m *Memory) GetRateTable(_ context.Context, id engine.RateTableID) (*engine.StatutoryRateTable, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	table, ok := m.tables[id]
	if !ok {
		return nil, payroll.ErrRateTableNotFound
	}
	copied := *table
	copied.Brackets = append([]engine.TaxBracket(nil), table.Brackets...)
	return &copied, nil
}

func (m *Memory) ListRateTables(_ context.Context) ([]*engine.StatutoryRateTable, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*engine.StatutoryRateTable, 0, len(m.tables))
	for _, table := range m.tables {
		copied := *table
		copied.Brackets = append([]engine.TaxBracket(nil), table.Brackets...)
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].EffectiveFrom.Before(result[j].EffectiveFrom) })
	return result, nil
}
