/*
handlers.go - HTTP API handlers for the payroll engine

PURPOSE:
  Exposes the payroll engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Rate tables:
    GET    /api/rate-tables            List all statutory tables
    POST   /api/rate-tables            Create/replace a table from JSON
    GET    /api/rate-tables/{id}       Get a table

  Runs:
    GET    /api/runs                   List batch runs
    POST   /api/runs                   Execute a batch run
    GET    /api/runs/{id}              Get a run record

  Entries:
    GET    /api/entries/{id}           Get a payroll entry
    POST   /api/entries/{id}/approve   Approve a calculated entry
    POST   /api/entries/{id}/pay       Mark an approved entry paid
    POST   /api/entries/{id}/cancel    Cancel a non-paid entry

  Periods:
    GET    /api/periods/{year}/{month}/entries  Entries for a month
    GET    /api/periods/{year}/{month}/summary  Aggregated totals

  Preview:
    POST   /api/preview                One calculation, nothing persisted

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation and configuration errors, invalid input
  - 404: Resource not found
  - 409: Lifecycle conflicts (bad transition, finalized entry)
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store payroll.Store
	Runs  *payroll.RunService
}

// NewHandler creates a new handler over the given store.
func NewHandler(store payroll.Store) *Handler {
	return &Handler{
		Store: store,
		Runs:  payroll.NewRunService(store),
	}
}

// =============================================================================
// RATE TABLE HANDLERS
// =============================================================================

// ListRateTables returns all statutory rate tables.
func (h *Handler) ListRateTables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.Store.ListRateTables(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list rate tables", err)
		return
	}

	dtos := make([]factory.RateTableJSON, len(tables))
	for i, t := range tables {
		dtos[i] = toRateTableDTO(t)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetRateTable returns a single rate table.
func (h *Handler) GetRateTable(w http.ResponseWriter, r *http.Request) {
	id := engine.RateTableID(chi.URLParam(r, "id"))

	table, err := h.Store.GetRateTable(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRateTableDTO(table))
}

// CreateRateTable parses and stores a table definition. The body is the
// same schema the factory parses from configuration files.
func (h *Handler) CreateRateTable(w http.ResponseWriter, r *http.Request) {
	var req factory.RateTableJSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	table, err := factory.FromJSON(req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if err := h.Store.SaveRateTable(r.Context(), table); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save rate table", err)
		return
	}
	writeJSON(w, http.StatusCreated, toRateTableDTO(table))
}

// =============================================================================
// RUN HANDLERS
// =============================================================================

// CreateRun executes a batch run for one month.
func (h *Handler) CreateRun(w http.ResponseWriter, r *http.Request) {
	var req CreateRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Year < 1 || req.Month < 1 || req.Month > 12 {
		writeError(w, http.StatusBadRequest, "Invalid year/month", nil)
		return
	}
	if len(req.Employees) == 0 {
		writeError(w, http.StatusBadRequest, "At least one employee is required", nil)
		return
	}

	ctx := r.Context()
	period := engine.MonthlyPeriod(req.Year, time.Month(req.Month))

	table, err := h.resolveTable(r, req.RateTableID, period.Start)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	in := payroll.RunInput{Period: period, Table: table}
	for _, e := range req.Employees {
		in.Employees = append(in.Employees, payroll.EmployeeInput{
			Employee: payroll.Employee{
				ID:      engine.EmployeeID(e.ID),
				Name:    e.Name,
				Profile: toProfile(e.ID, e.Profile),
			},
			Inputs: toInputs(e.Inputs),
		})
	}

	out, err := h.Runs.Run(ctx, in)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, RunResponse{
		Run:      toRunDTO(out.Run),
		Entries:  out.Entries,
		Failures: toFailureDTOs(out.Failures),
		Summary:  out.Summary,
	})
}

// resolveTable picks the table for a run: an explicit ID wins, otherwise
// the table effective at the period start.
func (h *Handler) resolveTable(r *http.Request, id string, periodStart time.Time) (*engine.StatutoryRateTable, error) {
	if id != "" {
		return h.Store.GetRateTable(r.Context(), engine.RateTableID(id))
	}
	tables, err := h.Store.ListRateTables(r.Context())
	if err != nil {
		return nil, err
	}
	return factory.SelectEffective(tables, periodStart)
}

// ListRuns returns all run records.
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.Store.ListRuns(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list runs", err)
		return
	}

	dtos := make([]RunDTO, len(runs))
	for i, run := range runs {
		dtos[i] = toRunDTO(run)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetRun returns a single run record.
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	id := payroll.RunID(chi.URLParam(r, "id"))

	run, err := h.Store.GetRun(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRunDTO(run))
}

// =============================================================================
// ENTRY HANDLERS
// =============================================================================

// GetEntry returns a payroll entry.
func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	id := engine.EntryID(chi.URLParam(r, "id"))

	entry, err := h.Store.GetEntry(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// ApproveEntry freezes a calculated entry's result.
func (h *Handler) ApproveEntry(w http.ResponseWriter, r *http.Request) {
	var req ApproveEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ApproverID == "" {
		writeError(w, http.StatusBadRequest, "approver_id is required", nil)
		return
	}

	h.transitionEntry(w, r, func(entry *engine.PayrollEntry) error {
		return entry.Approve(req.ApproverID, time.Now().UTC())
	})
}

// PayEntry moves an approved entry to the terminal paid state.
func (h *Handler) PayEntry(w http.ResponseWriter, r *http.Request) {
	h.transitionEntry(w, r, func(entry *engine.PayrollEntry) error {
		return entry.MarkPaid(time.Now().UTC())
	})
}

// CancelEntry aborts a non-paid entry.
func (h *Handler) CancelEntry(w http.ResponseWriter, r *http.Request) {
	var req CancelEntryRequest
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	h.transitionEntry(w, r, func(entry *engine.PayrollEntry) error {
		return entry.Cancel(req.Reason, time.Now().UTC())
	})
}

// transitionEntry loads the entry, applies one lifecycle transition, and
// saves it back. A rejected transition comes back as 409 with the entry
// untouched in storage.
func (h *Handler) transitionEntry(w http.ResponseWriter, r *http.Request, transition func(*engine.PayrollEntry) error) {
	ctx := r.Context()
	id := engine.EntryID(chi.URLParam(r, "id"))

	entry, err := h.Store.GetEntry(ctx, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if err := transition(entry); err != nil {
		writeDomainError(w, err)
		return
	}

	if err := h.Store.SaveEntry(ctx, entry); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// =============================================================================
// PERIOD HANDLERS
// =============================================================================

// ListPeriodEntries returns all entries for one month.
func (h *Handler) ListPeriodEntries(w http.ResponseWriter, r *http.Request) {
	period, ok := monthParam(w, r)
	if !ok {
		return
	}

	entries, err := h.Store.ListEntries(r.Context(), period)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list entries", err)
		return
	}
	if entries == nil {
		entries = []*engine.PayrollEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// GetPeriodSummary returns aggregated totals for one month. Cancelled
// entries and drafts are excluded from the totals.
func (h *Handler) GetPeriodSummary(w http.ResponseWriter, r *http.Request) {
	period, ok := monthParam(w, r)
	if !ok {
		return
	}

	entries, err := h.Store.ListEntries(r.Context(), period)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list entries", err)
		return
	}
	writeJSON(w, http.StatusOK, payroll.SummarizeEntries(entries))
}

func monthParam(w http.ResponseWriter, r *http.Request) (engine.PayPeriod, bool) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1 {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return engine.PayPeriod{}, false
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "Invalid month", err)
		return engine.PayPeriod{}, false
	}
	return engine.MonthlyPeriod(year, time.Month(month)), true
}

// =============================================================================
// PREVIEW HANDLER
// =============================================================================

// Preview runs one calculation without persisting anything. Useful for
// "what would this raise do to net pay" questions.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	var req PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	table, err := h.resolveTable(r, req.RateTableID, time.Now().UTC())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	result, err := engine.Calculate(toProfile("preview", req.Profile), toInputs(req.Inputs), table)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps domain errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, payroll.ErrEntryNotFound),
		errors.Is(err, payroll.ErrRunNotFound),
		errors.Is(err, payroll.ErrRateTableNotFound):
		writeError(w, http.StatusNotFound, "Not found", err)
	case errors.Is(err, engine.ErrState),
		errors.Is(err, payroll.ErrEntryFinalized):
		writeError(w, http.StatusConflict, "Lifecycle conflict", err)
	case engine.IsClientError(err), engine.IsConfigError(err):
		writeError(w, http.StatusBadRequest, "Invalid input", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}
