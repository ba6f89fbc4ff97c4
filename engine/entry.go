/*
entry.go - PayrollEntry lifecycle state machine

PURPOSE:
  Wraps one employee-period calculation result for approval and payment
  tracking.

STATE MACHINE:

  ┌───────┐      ┌────────────┐      ┌──────────┐      ┌──────┐
  │ draft │ ───▶ │ calculated │ ───▶ │ approved │ ───▶ │ paid │
  └───────┘      └────────────┘      └──────────┘      └──────┘
      │                │                   │
      └────────────────┴───────────────────┴──▶ cancelled

  - draft:      entry created, no result attached yet
  - calculated: a result is attached; re-running replaces it in this state
                or draft only
  - approved:   result frozen; recomputation is a StateError
  - paid:       terminal success state, immutable (cancel is also rejected)
  - cancelled:  terminal abort state, immutable

  Transitions are explicit calls; nothing moves on a timer. A rejected
  transition returns *StateError and leaves the entry unchanged - the engine
  never partially mutates an entry.
*/
package engine

import "time"

// =============================================================================
// ENTRY STATUS
// =============================================================================

type EntryStatus string

const (
	StatusDraft      EntryStatus = "draft"
	StatusCalculated EntryStatus = "calculated"
	StatusApproved   EntryStatus = "approved"
	StatusPaid       EntryStatus = "paid"
	StatusCancelled  EntryStatus = "cancelled"
)

// Terminal returns true for states that admit no further transitions.
func (s EntryStatus) Terminal() bool {
	return s == StatusPaid || s == StatusCancelled
}

// =============================================================================
// PAYROLL ENTRY
// =============================================================================

// PayrollEntry embeds one calculation result plus period identity and a
// status. Mutate it only through the transition methods below.
type PayrollEntry struct {
	ID         EntryID    `json:"id"`
	EmployeeID EmployeeID `json:"employeeId"`
	Period     PayPeriod  `json:"period"`
	Status     EntryStatus `json:"status"`

	// Result is nil while the entry is in draft.
	Result *PayrollCalculationResult `json:"result,omitempty"`

	ApprovedBy   string    `json:"approvedBy,omitempty"`
	ApprovedAt   time.Time `json:"approvedAt,omitempty"`
	PaidAt       time.Time `json:"paidAt,omitempty"`
	CancelReason string    `json:"cancelReason,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewEntry creates a draft entry for an employee-period pair.
func NewEntry(id EntryID, employeeID EmployeeID, period PayPeriod, at time.Time) *PayrollEntry {
	return &PayrollEntry{
		ID:         id,
		EmployeeID: employeeID,
		Period:     period,
		Status:     StatusDraft,
		CreatedAt:  at,
		UpdatedAt:  at,
	}
}

// AttachResult records a calculation result, moving the entry to calculated.
// Allowed from draft (first calculation) and calculated (re-run replaces
// the result). Approved and later states are frozen.
func (e *PayrollEntry) AttachResult(result PayrollCalculationResult, at time.Time) error {
	if e.Status != StatusDraft && e.Status != StatusCalculated {
		return &StateError{EntryID: e.ID, From: e.Status, Op: "attach result"}
	}
	r := result
	e.Result = &r
	e.Status = StatusCalculated
	e.UpdatedAt = at
	return nil
}

// Approve freezes the attached result.
func (e *PayrollEntry) Approve(approverID string, at time.Time) error {
	if e.Status != StatusCalculated {
		return &StateError{EntryID: e.ID, From: e.Status, Op: "approve"}
	}
	e.Status = StatusApproved
	e.ApprovedBy = approverID
	e.ApprovedAt = at
	e.UpdatedAt = at
	return nil
}

// MarkPaid moves an approved entry to the terminal paid state.
func (e *PayrollEntry) MarkPaid(at time.Time) error {
	if e.Status != StatusApproved {
		return &StateError{EntryID: e.ID, From: e.Status, Op: "mark paid"}
	}
	e.Status = StatusPaid
	e.PaidAt = at
	e.UpdatedAt = at
	return nil
}

// Cancel aborts the entry. Reachable from draft, calculated, or approved;
// never from paid.
func (e *PayrollEntry) Cancel(reason string, at time.Time) error {
	if e.Status.Terminal() {
		return &StateError{EntryID: e.ID, From: e.Status, Op: "cancel"}
	}
	e.Status = StatusCancelled
	e.CancelReason = reason
	e.UpdatedAt = at
	return nil
}
