/*
Package sqlite provides a SQLite-backed implementation of the payroll
storage interfaces.

PURPOSE:
  Implements payroll.Store (entries, runs, rate tables) using SQLite. In
  production, the same patterns apply to PostgreSQL - only minor SQL
  dialect differences.

KEY TABLES:
  payroll_entries: One row per employee-period calculation, with lifecycle
                   status columns for querying and the full record as JSON
  payroll_runs:    Batch run records
  rate_tables:     Versioned statutory tables, stored as JSON config

TERMINAL-STATE ENFORCEMENT:
  SaveEntry reads the stored status before writing. Overwriting an entry
  already in paid or cancelled status returns payroll.ErrEntryFinalized;
  corrections happen through new entries.

JSON COLUMNS:
  Records are stored as JSON documents alongside the columns used for
  filtering (status, period, employee). Decimal amounts serialize as JSON
  numbers through shopspring/decimal, so round-tripping loses nothing.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/payroll.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc := payroll.NewRunService(store)

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - payroll/store.go: Interface definitions and the terminal-state contract
  - payroll/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/payroll"
)

// Store implements payroll.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ payroll.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Payroll entries (one per employee-period calculation)
	CREATE TABLE IF NOT EXISTS payroll_entries (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		period_start TEXT NOT NULL,
		period_end TEXT NOT NULL,
		status TEXT NOT NULL,
		entry_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_entries_period
		ON payroll_entries(period_start, period_end, employee_id);
	CREATE INDEX IF NOT EXISTS idx_entries_employee
		ON payroll_entries(employee_id);
	CREATE INDEX IF NOT EXISTS idx_entries_status
		ON payroll_entries(status);

	-- Payroll runs (batch executions)
	CREATE TABLE IF NOT EXISTS payroll_runs (
		id TEXT PRIMARY KEY,
		period_start TEXT NOT NULL,
		period_end TEXT NOT NULL,
		rate_table_id TEXT NOT NULL,
		status TEXT NOT NULL,
		run_json TEXT NOT NULL,
		started_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started
		ON payroll_runs(started_at);

	-- Statutory rate tables (versioned configuration)
	CREATE TABLE IF NOT EXISTS rate_tables (
		id TEXT PRIMARY KEY,
		version INTEGER NOT NULL,
		effective_from TEXT NOT NULL,
		config_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_rate_tables_effective
		ON rate_tables(effective_from);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// ENTRY STORE (payroll.EntryStore interface)
// =============================================================================

// SaveEntry inserts or replaces an entry. Replacing a stored entry whose
// status is terminal returns payroll.ErrEntryFinalized.
func (s *Store) SaveEntry(ctx context.Context, entry *engine.PayrollEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var storedStatus string
	err := s.db.QueryRowContext(ctx,
		"SELECT status FROM payroll_entries WHERE id = ?", string(entry.ID),
	).Scan(&storedStatus)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("failed to check entry status: %w", err)
	}
	if err == nil && engine.EntryStatus(storedStatus).Terminal() {
		return payroll.ErrEntryFinalized
	}

	entryJSON, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode entry: %w", err)
	}

	query := `
		INSERT INTO payroll_entries
		(id, employee_id, period_start, period_end, status, entry_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			entry_json = excluded.entry_json,
			updated_at = excluded.updated_at
	`

	_, err = s.db.ExecContext(ctx, query,
		string(entry.ID),
		string(entry.EmployeeID),
		entry.Period.Start.Format(time.RFC3339),
		entry.Period.End.Format(time.RFC3339),
		string(entry.Status),
		string(entryJSON),
		entry.CreatedAt.Format(time.RFC3339),
		entry.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save entry: %w", err)
	}
	return nil
}

// GetEntry retrieves an entry by ID.
func (s *Store) GetEntry(ctx context.Context, id engine.EntryID) (*engine.PayrollEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entryJSON string
	err := s.db.QueryRowContext(ctx,
		"SELECT entry_json FROM payroll_entries WHERE id = ?", string(id),
	).Scan(&entryJSON)

	if err == sql.ErrNoRows {
		return nil, payroll.ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load entry: %w", err)
	}

	var entry engine.PayrollEntry
	if err := json.Unmarshal([]byte(entryJSON), &entry); err != nil {
		return nil, fmt.Errorf("failed to decode entry: %w", err)
	}
	return &entry, nil
}

// ListEntries returns all entries for a period, ordered by employee ID.
func (s *Store) ListEntries(ctx context.Context, period engine.PayPeriod) ([]*engine.PayrollEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT entry_json FROM payroll_entries
		WHERE period_start = ? AND period_end = ?
		ORDER BY employee_id ASC
	`

	rows, err := s.db.QueryContext(ctx, query,
		period.Start.Format(time.RFC3339), period.End.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []*engine.PayrollEntry
	for rows.Next() {
		var entryJSON string
		if err := rows.Scan(&entryJSON); err != nil {
			return nil, err
		}
		var entry engine.PayrollEntry
		if err := json.Unmarshal([]byte(entryJSON), &entry); err != nil {
			return nil, fmt.Errorf("failed to decode entry: %w", err)
		}
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}

// =============================================================================
// RUN STORE (payroll.RunStore interface)
// =============================================================================

// SaveRun inserts or replaces a run record.
func (s *Store) SaveRun(ctx context.Context, run *payroll.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	runJSON, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to encode run: %w", err)
	}

	query := `
		INSERT INTO payroll_runs
		(id, period_start, period_end, rate_table_id, status, run_json, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			run_json = excluded.run_json
	`

	_, err = s.db.ExecContext(ctx, query,
		string(run.ID),
		run.Period.Start.Format(time.RFC3339),
		run.Period.End.Format(time.RFC3339),
		string(run.RateTableID),
		string(run.Status),
		string(runJSON),
		run.StartedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID.
func (s *Store) GetRun(ctx context.Context, id payroll.RunID) (*payroll.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var runJSON string
	err := s.db.QueryRowContext(ctx,
		"SELECT run_json FROM payroll_runs WHERE id = ?", string(id),
	).Scan(&runJSON)

	if err == sql.ErrNoRows {
		return nil, payroll.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run: %w", err)
	}

	var run payroll.Run
	if err := json.Unmarshal([]byte(runJSON), &run); err != nil {
		return nil, fmt.Errorf("failed to decode run: %w", err)
	}
	return &run, nil
}

// ListRuns returns all runs, oldest first.
func (s *Store) ListRuns(ctx context.Context) ([]*payroll.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT run_json FROM payroll_runs ORDER BY started_at ASC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*payroll.Run
	for rows.Next() {
		var runJSON string
		if err := rows.Scan(&runJSON); err != nil {
			return nil, err
		}
		var run payroll.Run
		if err := json.Unmarshal([]byte(runJSON), &run); err != nil {
			return nil, fmt.Errorf("failed to decode run: %w", err)
		}
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}

// =============================================================================
// RATE TABLE STORE (payroll.RateTableStore interface)
// =============================================================================

// SaveRateTable inserts or replaces a statutory rate table.
func (s *Store) SaveRateTable(ctx context.Context, table *engine.StatutoryRateTable) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	configJSON, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("failed to encode rate table: %w", err)
	}

	query := `
		INSERT INTO rate_tables (id, version, effective_from, config_json, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			version = excluded.version,
			effective_from = excluded.effective_from,
			config_json = excluded.config_json
	`

	_, err = s.db.ExecContext(ctx, query,
		string(table.ID),
		table.Version,
		table.EffectiveFrom.Format(time.RFC3339),
		string(configJSON),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save rate table: %w", err)
	}
	return nil
}

// GetRateTable retrieves a rate table by ID.
func (s *Store) GetRateTable(ctx context.Context, id engine.RateTableID) (*engine.StatutoryRateTable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var configJSON string
	err := s.db.QueryRowContext(ctx,
		"SELECT config_json FROM rate_tables WHERE id = ?", string(id),
	).Scan(&configJSON)

	if err == sql.ErrNoRows {
		return nil, payroll.ErrRateTableNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load rate table: %w", err)
	}

	var table engine.StatutoryRateTable
	if err := json.Unmarshal([]byte(configJSON), &table); err != nil {
		return nil, fmt.Errorf("failed to decode rate table: %w", err)
	}
	return &table, nil
}

// ListRateTables returns all rate tables ordered by effective date.
func (s *Store) ListRateTables(ctx context.Context) ([]*engine.StatutoryRateTable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT config_json FROM rate_tables ORDER BY effective_from ASC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query rate tables: %w", err)
	}
	defer rows.Close()

	var tables []*engine.StatutoryRateTable
	for rows.Next() {
		var configJSON string
		if err := rows.Scan(&configJSON); err != nil {
			return nil, err
		}
		var table engine.StatutoryRateTable
		if err := json.Unmarshal([]byte(configJSON), &table); err != nil {
			return nil, fmt.Errorf("failed to decode rate table: %w", err)
		}
		tables = append(tables, &table)
	}
	return tables, rows.Err()
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"payroll_entries", "payroll_runs", "rate_tables"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}
