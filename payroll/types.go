// Package payroll implements the Jamaica-specific payroll domain over the
// calculation engine: batch run orchestration, period reporting, and preset
// statutory tables. The engine package stays jurisdiction-agnostic; this
// package knows about PAYE, NIS, the education tax, and the HEART levy.
package payroll

import (
	"time"

	"github.com/warp/payroll-engine/engine"
)

// =============================================================================
// EMPLOYEE - Plain record supplied by the external HR collaborator
// =============================================================================

// Employee is the minimal projection of an employee record the payroll run
// needs. The engine never fetches these; callers pass them in.
type Employee struct {
	ID      engine.EmployeeID          `json:"id"`
	Name    string                     `json:"name"`
	Profile engine.CompensationProfile `json:"profile"`
}

// =============================================================================
// PAYROLL RUN - One engine pass over N employees for one period
// =============================================================================

type RunID string

type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunCancelled RunStatus = "cancelled"
)

// Run records one batch execution: which period, which rate-table version,
// and how it went. Entries reference the run through ReferenceID-style
// entry IDs minted by the orchestrator.
type Run struct {
	ID           RunID              `json:"id"`
	Period       engine.PayPeriod   `json:"period"`
	RateTableID  engine.RateTableID `json:"rateTableId"`
	TableVersion int                `json:"tableVersion"`
	Status       RunStatus          `json:"status"`

	EmployeeCount int `json:"employeeCount"`
	FailureCount  int `json:"failureCount"`

	StartedAt   time.Time `json:"startedAt"`
	CompletedAt time.Time `json:"completedAt,omitempty"`
}

// EmployeeFailure pairs a failed employee with the reason. One employee's
// bad inputs never abort the rest of the batch.
type EmployeeFailure struct {
	EmployeeID engine.EmployeeID
	Err        error
}
