/*
run.go - Batch run orchestration

PURPOSE:
  Runs the calculation engine across N employees for one period and drives
  each entry draft -> calculated. The engine functions are pure, so the
  batch parallelizes freely across employees; there is no ordering
  requirement between them.

RATE-TABLE SNAPSHOT:
  The table reference is captured once, validated up front, and shared
  read-only by every worker. Swapping table versions mid-batch is
  disallowed; callers wanting a new version start a new run.

FAILURE ISOLATION:
  One employee's bad inputs (negative bonus, broken profile) fail that
  employee only; the failure is collected and the batch continues. A
  malformed rate table, by contrast, fails the whole run before any
  employee is processed.

CANCELLATION:
  Cooperative, between employees: the dispatcher stops feeding work when
  the context is done and the run record is marked cancelled. A single
  in-flight calculation is non-blocking and finishes on its own.

SEE ALSO:
  - engine/netpay.go: Calculate, the per-employee pipeline
  - reporting.go: Summary computed over the successful results
*/
package payroll

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/warp/payroll-engine/engine"
)

const defaultWorkers = 8

// RunInput is everything one batch needs: the period, the snapshotted rate
// table, and the plain employee records with their per-period inputs.
type RunInput struct {
	Period    engine.PayPeriod
	Table     *engine.StatutoryRateTable
	Employees []EmployeeInput
}

// EmployeeInput pairs an employee with the caller-supplied amounts for the
// period.
type EmployeeInput struct {
	Employee Employee
	Inputs   engine.PeriodInputs
}

// RunOutput reports the batch outcome. Entries are sorted by employee ID
// for stable output; parallel execution order is not observable.
type RunOutput struct {
	Run      *Run
	Entries  []*engine.PayrollEntry
	Failures []EmployeeFailure
	Summary  PeriodSummary
}

// RunService orchestrates batch runs against a Store.
type RunService struct {
	Entries EntryStore
	Runs    RunStore
	Workers int
}

func NewRunService(store Store) *RunService {
	return &RunService{Entries: store, Runs: store, Workers: defaultWorkers}
}

// Run executes the engine for every employee in the input. It fails fast on
// a malformed period or rate table; per-employee errors are collected in
// the output instead of aborting the batch.
func (rs *RunService) Run(ctx context.Context, in RunInput) (*RunOutput, error) {
	if err := in.Period.Validate(); err != nil {
		return nil, err
	}
	if in.Table == nil {
		return nil, &engine.ConfigurationError{Field: "table", Reason: "rate table required"}
	}
	// One structural check for the whole batch, before any work starts.
	if err := in.Table.Validate(); err != nil {
		return nil, err
	}

	started := time.Now()
	run := &Run{
		ID:            RunID(fmt.Sprintf("run-%d", started.UnixNano())),
		Period:        in.Period,
		RateTableID:   in.Table.ID,
		TableVersion:  in.Table.Version,
		Status:        RunRunning,
		EmployeeCount: len(in.Employees),
		StartedAt:     started,
	}
	if rs.Runs != nil {
		if err := rs.Runs.SaveRun(ctx, run); err != nil {
			return nil, fmt.Errorf("failed to record run: %w", err)
		}
	}

	workers := rs.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	jobs := make(chan EmployeeInput)
	results := make(chan runOutcome)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				results <- rs.processEmployee(ctx, run, in, job)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, job := range in.Employees {
			select {
			case jobs <- job:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	out := &RunOutput{Run: run}
	var calcResults []engine.PayrollCalculationResult
	for res := range results {
		if res.failure != nil {
			out.Failures = append(out.Failures, *res.failure)
			continue
		}
		out.Entries = append(out.Entries, res.entry)
		calcResults = append(calcResults, *res.entry.Result)
	}

	sort.Slice(out.Entries, func(i, j int) bool {
		return out.Entries[i].EmployeeID < out.Entries[j].EmployeeID
	})
	sort.Slice(out.Failures, func(i, j int) bool {
		return out.Failures[i].EmployeeID < out.Failures[j].EmployeeID
	})

	out.Summary = Summarize(calcResults)

	run.FailureCount = len(out.Failures)
	run.CompletedAt = time.Now()
	if ctx.Err() != nil {
		run.Status = RunCancelled
	} else {
		run.Status = RunCompleted
	}
	if rs.Runs != nil {
		// The terminal status must land even when the run was cancelled, so
		// the write is detached from the request context's cancellation.
		if err := rs.Runs.SaveRun(context.WithoutCancel(ctx), run); err != nil {
			log.Printf("[Run] Failed to update run record %s: %v", run.ID, err)
		}
	}

	return out, nil
}

type runOutcome struct {
	entry   *engine.PayrollEntry
	failure *EmployeeFailure
}

func (rs *RunService) processEmployee(ctx context.Context, run *Run, in RunInput, job EmployeeInput) (out runOutcome) {
	employeeID := job.Employee.ID

	if ctx.Err() != nil {
		out.failure = &EmployeeFailure{EmployeeID: employeeID, Err: ctx.Err()}
		return out
	}

	result, err := engine.Calculate(job.Employee.Profile, job.Inputs, in.Table)
	if err != nil {
		out.failure = &EmployeeFailure{EmployeeID: employeeID, Err: err}
		return out
	}

	now := time.Now()
	entry := engine.NewEntry(
		engine.EntryID(fmt.Sprintf("%s-%s", run.ID, employeeID)),
		employeeID,
		in.Period,
		now,
	)
	if err := entry.AttachResult(result, now); err != nil {
		out.failure = &EmployeeFailure{EmployeeID: employeeID, Err: err}
		return out
	}

	if rs.Entries != nil {
		if err := rs.Entries.SaveEntry(ctx, entry); err != nil {
			out.failure = &EmployeeFailure{EmployeeID: employeeID, Err: err}
			return out
		}
	}

	out.entry = entry
	return out
}
