/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

MONEY FIELDS:
  Request bodies carry plain JSON numbers; they are converted to decimal
  amounts at the boundary. Responses serialize engine amounts through
  shopspring/decimal, so clients see exact two-decimal values.

RATE TABLES:
  The API speaks factory.RateTableJSON in both directions: clients POST
  the same schema the factory parses, and responses convert the stored
  table back into it.

VALIDATION:
  Validation is done in the engine, not in DTOs. DTOs are pure data
  carriers; a bad amount comes back as a 400 with the field named.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/ratetable.go: RateTableJSON type
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// ProfileDTO is an employee compensation profile in API requests.
// An omitted overtime_multiplier defaults to 1 (no premium); the engine
// still rejects an explicit multiplier below 1.
type ProfileDTO struct {
	BaseSalary         float64 `json:"base_salary"`
	Frequency          string  `json:"frequency"`
	OvertimeEligible   bool    `json:"overtime_eligible"`
	OvertimeMultiplier float64 `json:"overtime_multiplier,omitempty"`
	Currency           string  `json:"currency,omitempty"`
}

// InputsDTO carries the per-period variable amounts for one employee.
type InputsDTO struct {
	OvertimeHours   float64 `json:"overtime_hours"`
	Allowances      float64 `json:"allowances"`
	Bonus           float64 `json:"bonus"`
	Commission      float64 `json:"commission"`
	OtherDeductions float64 `json:"other_deductions"`
}

// RunEmployeeDTO pairs an employee with their period inputs.
type RunEmployeeDTO struct {
	ID      string     `json:"id"`
	Name    string     `json:"name"`
	Profile ProfileDTO `json:"profile"`
	Inputs  InputsDTO  `json:"inputs"`
}

// CreateRunRequest is the request to execute a batch run for one month.
// If rate_table_id is empty, the table effective at the period start is
// selected automatically.
type CreateRunRequest struct {
	Year        int              `json:"year"`
	Month       int              `json:"month"`
	RateTableID string           `json:"rate_table_id,omitempty"`
	Employees   []RunEmployeeDTO `json:"employees"`
}

// PreviewRequest is the request for a single what-if calculation. Nothing
// is persisted.
type PreviewRequest struct {
	RateTableID string     `json:"rate_table_id,omitempty"`
	Profile     ProfileDTO `json:"profile"`
	Inputs      InputsDTO  `json:"inputs"`
}

// ApproveEntryRequest identifies who approved an entry.
type ApproveEntryRequest struct {
	ApproverID string `json:"approver_id"`
}

// CancelEntryRequest carries the cancellation reason.
type CancelEntryRequest struct {
	Reason string `json:"reason"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// RunDTO represents a run record in API responses.
type RunDTO struct {
	ID            string `json:"id"`
	PeriodStart   string `json:"period_start"`
	PeriodEnd     string `json:"period_end"`
	Frequency     string `json:"frequency"`
	RateTableID   string `json:"rate_table_id"`
	TableVersion  int    `json:"table_version"`
	Status        string `json:"status"`
	EmployeeCount int    `json:"employee_count"`
	FailureCount  int    `json:"failure_count"`
	StartedAt     string `json:"started_at"`
	CompletedAt   string `json:"completed_at,omitempty"`
}

// FailureDTO reports one employee the run could not calculate.
type FailureDTO struct {
	EmployeeID string `json:"employee_id"`
	Error      string `json:"error"`
}

// RunResponse is the full outcome of a batch run.
type RunResponse struct {
	Run      RunDTO                 `json:"run"`
	Entries  []*engine.PayrollEntry `json:"entries"`
	Failures []FailureDTO           `json:"failures"`
	Summary  payroll.PeriodSummary  `json:"summary"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toProfile(id string, p ProfileDTO) engine.CompensationProfile {
	// A zero multiplier means the client never sent the field; treat it as
	// the no-premium default rather than bouncing the request.
	if p.OvertimeMultiplier == 0 {
		p.OvertimeMultiplier = 1
	}
	return engine.CompensationProfile{
		EmployeeID:         engine.EmployeeID(id),
		BaseSalary:         engine.NewMoney(p.BaseSalary),
		Frequency:          engine.PayFrequency(p.Frequency),
		OvertimeEligible:   p.OvertimeEligible,
		OvertimeMultiplier: decimal.NewFromFloat(p.OvertimeMultiplier),
		Currency:           p.Currency,
	}
}

func toInputs(in InputsDTO) engine.PeriodInputs {
	return engine.PeriodInputs{
		OvertimeHours:   decimal.NewFromFloat(in.OvertimeHours),
		Allowances:      engine.NewMoney(in.Allowances),
		Bonus:           engine.NewMoney(in.Bonus),
		Commission:      engine.NewMoney(in.Commission),
		OtherDeductions: engine.NewMoney(in.OtherDeductions),
	}
}

func toRunDTO(run *payroll.Run) RunDTO {
	dto := RunDTO{
		ID:            string(run.ID),
		PeriodStart:   run.Period.Start.Format("2006-01-02"),
		PeriodEnd:     run.Period.End.Format("2006-01-02"),
		Frequency:     string(run.Period.Frequency),
		RateTableID:   string(run.RateTableID),
		TableVersion:  run.TableVersion,
		Status:        string(run.Status),
		EmployeeCount: run.EmployeeCount,
		FailureCount:  run.FailureCount,
		StartedAt:     run.StartedAt.Format(time.RFC3339),
	}
	if !run.CompletedAt.IsZero() {
		dto.CompletedAt = run.CompletedAt.Format(time.RFC3339)
	}
	return dto
}

func toFailureDTOs(failures []payroll.EmployeeFailure) []FailureDTO {
	dtos := make([]FailureDTO, len(failures))
	for i, f := range failures {
		dtos[i] = FailureDTO{EmployeeID: string(f.EmployeeID), Error: f.Err.Error()}
	}
	return dtos
}

// toRateTableDTO converts a stored table back into the JSON schema clients
// POST, so GET returns what a client could re-submit.
func toRateTableDTO(t *engine.StatutoryRateTable) factory.RateTableJSON {
	dto := factory.RateTableJSON{
		ID:            string(t.ID),
		Name:          t.Name,
		Version:       t.Version,
		EffectiveFrom: t.EffectiveFrom.Format("2006-01-02"),
		Currency:      t.Currency,
		Contribution: factory.ContributionJSON{
			Rate:       t.ContributionRate.InexactFloat64(),
			MonthlyCap: t.ContributionMonthlyCap.Value.InexactFloat64(),
		},
		EducationRate: t.EducationLevyRate.InexactFloat64(),
		TrainingRate:  t.TrainingLevyRate.InexactFloat64(),
	}
	for _, b := range t.Brackets {
		dto.Brackets = append(dto.Brackets, factory.BracketJSON{
			LowerAnnualBound: b.LowerAnnualBound.Value.InexactFloat64(),
			Rate:             b.Rate.InexactFloat64(),
		})
	}
	return dto
}
