/*
store.go - Persistence interfaces for payroll records

PURPOSE:
  Defines the interface between the payroll domain and storage. The engine
  itself neither fetches nor stores anything; these interfaces are what the
  orchestrator and API hand finished records to.

TERMINAL-STATE CONTRACT:
  Entries in paid or cancelled status are immutable. Implementations must
  reject updates to a stored entry already in a terminal state with
  ErrEntryFinalized; corrections happen through new entries, never by
  rewriting a paid one.

IMPLEMENTATIONS:
  - payroll/store/memory.go: In-memory, for tests and dev
  - store/sqlite/sqlite.go:  SQLite-backed, for the server

SEE ALSO:
  - run.go: The orchestrator writing through these interfaces
*/
package payroll

import (
	"context"
	"errors"

	"github.com/warp/payroll-engine/engine"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrEntryNotFound is returned when a referenced entry doesn't exist.
	ErrEntryNotFound = errors.New("payroll entry not found")

	// ErrRunNotFound is returned when a referenced run doesn't exist.
	ErrRunNotFound = errors.New("payroll run not found")

	// ErrRateTableNotFound is returned when a referenced table doesn't exist.
	ErrRateTableNotFound = errors.New("rate table not found")

	// ErrEntryFinalized is returned on any attempt to overwrite a stored
	// entry that is already paid or cancelled.
	ErrEntryFinalized = errors.New("payroll entry is finalized")
)

// =============================================================================
// STORE INTERFACES
// =============================================================================

// EntryStore persists payroll entries.
type EntryStore interface {
	// SaveEntry inserts or replaces an entry. Replacing an entry whose
	// stored status is terminal returns ErrEntryFinalized.
	SaveEntry(ctx context.Context, entry *engine.PayrollEntry) error

	GetEntry(ctx context.Context, id engine.EntryID) (*engine.PayrollEntry, error)

	// ListEntries returns all entries whose period matches [start, end],
	// ordered by employee ID.
	ListEntries(ctx context.Context, period engine.PayPeriod) ([]*engine.PayrollEntry, error)
}

// RunStore persists run records.
type RunStore interface {
	SaveRun(ctx context.Context, run *Run) error
	GetRun(ctx context.Context, id RunID) (*Run, error)
	ListRuns(ctx context.Context) ([]*Run, error)
}

// RateTableStore persists versioned statutory rate tables.
type RateTableStore interface {
	SaveRateTable(ctx context.Context, table *engine.StatutoryRateTable) error
	GetRateTable(ctx context.Context, id engine.RateTableID) (*engine.StatutoryRateTable, error)
	ListRateTables(ctx context.Context) ([]*engine.StatutoryRateTable, error)
}

// Store bundles everything the server needs.
type Store interface {
	EntryStore
	RunStore
	RateTableStore
}
