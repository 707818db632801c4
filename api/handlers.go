/*
handlers.go - HTTP API handlers for the payroll engine

PURPOSE:
  Exposes the payroll engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the engine and the paystub
  builder.

ENDPOINTS:
  Workers:
    GET    /api/workers                    List all workers
    POST   /api/workers                    Create worker (seeds rate history)
    GET    /api/workers/{id}               Get worker details
    POST   /api/workers/{id}/rate          Change rate (appends history)
    GET    /api/workers/{id}/paystub       Weekly paystub
    GET    /api/workers/{id}/paystub.pdf   Paystub as PDF

  Intake:
    POST   /api/events/import              Import punch batch (bounce-filtered)
    POST   /api/payouts                    Record a payout

  Reporting:
    GET    /api/dashboard                  Weekly dashboard

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Call engine / builder
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Worker not found
  - 409: Duplicate event IDs on import
  - 500: Internal errors

WEEK PARAMETER:
  Reporting endpoints take ?week=YYYY-MM-DD, any day inside the wanted
  week. Omitted means the current week.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/paystub"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   payroll.Store
	Builder *paystub.Builder

	// Loc is the deployment zone for day grouping and date parsing.
	Loc *time.Location

	// BounceWindow is the double-punch filter window applied at import.
	BounceWindow time.Duration

	Log zerolog.Logger
}

// NewHandler creates a new handler with the given dependencies.
func NewHandler(store payroll.Store, builder *paystub.Builder, loc *time.Location, bounceWindow time.Duration, log zerolog.Logger) *Handler {
	return &Handler{
		Store:        store,
		Builder:      builder,
		Loc:          loc,
		BounceWindow: bounceWindow,
		Log:          log,
	}
}

// =============================================================================
// WORKER HANDLERS
// =============================================================================

// ListWorkers returns all workers.
func (h *Handler) ListWorkers(w http.ResponseWriter, r *http.Request) {
	workers, err := h.Store.ListWorkers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list workers", err)
		return
	}

	dtos := make([]WorkerDTO, len(workers))
	for i, worker := range workers {
		dtos[i] = workerDTO(worker)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateWorker creates a worker and seeds its first rate-history record
// with the worker's creation date.
func (h *Handler) CreateWorker(w http.ResponseWriter, r *http.Request) {
	var req CreateWorkerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}
	rate, ok := parseMoney(req.PayRate)
	if !ok {
		writeError(w, http.StatusBadRequest, "pay_rate must be a non-negative decimal", payroll.ErrNegativeRate)
		return
	}

	threshold := decimal.Zero
	multiplier := decimal.NewFromInt(1)
	if req.Overtime.ThresholdHours != "" {
		if threshold, ok = parseMoney(req.Overtime.ThresholdHours); !ok {
			writeError(w, http.StatusBadRequest, "overtime.threshold_hours must be a non-negative decimal", nil)
			return
		}
	}
	if req.Overtime.Multiplier != "" {
		if multiplier, ok = parseMoney(req.Overtime.Multiplier); !ok {
			writeError(w, http.StatusBadRequest, "overtime.multiplier must be a non-negative decimal", nil)
			return
		}
	}

	now := time.Now().In(h.Loc)
	worker := payroll.Worker{
		ID:      payroll.WorkerID(uuid.NewString()),
		Name:    req.Name,
		Code:    req.Code,
		PayRate: rate,
		Overtime: payroll.OvertimePolicy{
			Enabled:        req.Overtime.Enabled,
			ThresholdHours: threshold,
			Multiplier:     multiplier,
		},
		Active:    true,
		CreatedAt: now,
	}
	seed := payroll.RateHistoryRecord{
		ID:            payroll.RateRecordID(uuid.NewString()),
		WorkerID:      worker.ID,
		Rate:          rate,
		EffectiveFrom: worker.CreatedAt,
		CreatedAt:     now,
	}

	if err := h.Store.CreateWorker(r.Context(), worker, seed); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create worker", err)
		return
	}

	h.Log.Info().Str("worker_id", string(worker.ID)).Msg("worker created")
	writeJSON(w, http.StatusCreated, workerDTO(worker))
}

// GetWorker returns a single worker.
func (h *Handler) GetWorker(w http.ResponseWriter, r *http.Request) {
	id := payroll.WorkerID(chi.URLParam(r, "id"))

	worker, err := h.Store.GetWorker(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get worker", err)
		return
	}
	if worker == nil {
		writeError(w, http.StatusNotFound, "Worker not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, workerDTO(*worker))
}

// ChangeRate appends a rate-history record and updates the worker's
// current rate. effective_from defaults to today; an explicit past date
// makes the change retroactive for historical payroll runs.
func (h *Handler) ChangeRate(w http.ResponseWriter, r *http.Request) {
	id := payroll.WorkerID(chi.URLParam(r, "id"))

	var req ChangeRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	rate, ok := parseMoney(req.Rate)
	if !ok {
		writeError(w, http.StatusBadRequest, "rate must be a non-negative decimal", payroll.ErrNegativeRate)
		return
	}

	now := time.Now().In(h.Loc)
	effectiveFrom := now
	if req.EffectiveFrom != "" {
		parsed, err := time.ParseInLocation("2006-01-02", req.EffectiveFrom, h.Loc)
		if err != nil {
			writeError(w, http.StatusBadRequest, "effective_from must be YYYY-MM-DD", err)
			return
		}
		effectiveFrom = parsed
	}

	rec := payroll.RateHistoryRecord{
		ID:            payroll.RateRecordID(uuid.NewString()),
		WorkerID:      id,
		Rate:          rate,
		EffectiveFrom: effectiveFrom,
		CreatedAt:     now,
	}
	if err := h.Store.UpdateWorkerRate(r.Context(), rec); err != nil {
		if payroll.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Worker not found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to change rate", err)
		return
	}

	h.Log.Info().
		Str("worker_id", string(id)).
		Str("rate", rate.StringFixed(2)).
		Str("effective_from", effectiveFrom.Format("2006-01-02")).
		Msg("rate changed")
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

// =============================================================================
// INTAKE HANDLERS
// =============================================================================

// ImportEvents accepts a punch batch, runs the double-punch filter, and
// persists the survivors atomically.
func (h *Handler) ImportEvents(w http.ResponseWriter, r *http.Request) {
	var req ImportEventsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if len(req.Events) == 0 {
		writeError(w, http.StatusBadRequest, "events must not be empty", nil)
		return
	}

	source := payroll.SourceImport
	if req.Manual {
		source = payroll.SourceManual
	}

	now := time.Now().In(h.Loc)
	events := make([]payroll.ClockEvent, 0, len(req.Events))
	for i, e := range req.Events {
		ts, err := time.Parse(time.RFC3339, e.Timestamp)
		if err != nil {
			writeError(w, http.StatusBadRequest,
				fmt.Sprintf("events[%d].timestamp must be RFC3339", i), err)
			return
		}
		events = append(events, payroll.ClockEvent{
			ID:        payroll.EventID(uuid.NewString()),
			WorkerID:  payroll.WorkerID(e.WorkerID),
			Timestamp: ts.In(h.Loc),
			Kind:      payroll.EventKind(e.Kind),
			Source:    source,
			RawText:   e.RawText,
			CreatedAt: now,
		})
	}

	kept := payroll.FilterBounces(events, h.BounceWindow)
	if err := h.Store.InsertEvents(r.Context(), kept); err != nil {
		if errors.Is(err, payroll.ErrDuplicateEvent) {
			writeError(w, http.StatusConflict, "Duplicate event in batch", err)
			return
		}
		if payroll.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Worker not found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to store events", err)
		return
	}

	discarded := len(events) - len(kept)
	eventsImported.Add(float64(len(kept)))
	eventsDiscarded.Add(float64(discarded))
	h.Log.Info().Int("accepted", len(kept)).Int("discarded", discarded).Msg("events imported")

	writeJSON(w, http.StatusCreated, ImportEventsResponse{
		Accepted:  len(kept),
		Discarded: discarded,
	})
}

// CreatePayout records a payout row.
func (h *Handler) CreatePayout(w http.ResponseWriter, r *http.Request) {
	var req CreatePayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	amount, ok := parseMoney(req.Amount)
	if !ok {
		writeError(w, http.StatusBadRequest, "amount must be a non-negative decimal", nil)
		return
	}
	kind := payroll.PayoutKind(req.Kind)
	switch kind {
	case payroll.PayoutAdvance, payroll.PayoutLoan, payroll.PayoutPayment, payroll.PayoutLoanRepayment:
	default:
		writeError(w, http.StatusBadRequest, "unknown payout kind", nil)
		return
	}
	date, err := time.ParseInLocation("2006-01-02", req.Date, h.Loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD", err)
		return
	}

	worker, err := h.Store.GetWorker(r.Context(), payroll.WorkerID(req.WorkerID))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to look up worker", err)
		return
	}
	if worker == nil {
		writeError(w, http.StatusNotFound, "Worker not found", nil)
		return
	}

	p := payroll.Payout{
		ID:       payroll.PayoutID(uuid.NewString()),
		WorkerID: worker.ID,
		Amount:   amount,
		Kind:     kind,
		Date:     date,
		Note:     req.Note,
	}
	if err := h.Store.InsertPayout(r.Context(), p); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store payout", err)
		return
	}
	writeJSON(w, http.StatusCreated, payoutDTO(p))
}

// =============================================================================
// REPORTING HANDLERS
// =============================================================================

// GetDashboard returns the weekly overview for all scheduled workers.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	asOf, err := h.weekParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "week must be YYYY-MM-DD", err)
		return
	}

	dash, err := h.Builder.BuildDashboard(r.Context(), asOf)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build dashboard", err)
		return
	}
	dashboardsBuilt.Inc()
	writeJSON(w, http.StatusOK, dashboardDTO(dash))
}

// GetPaystub returns one worker's paystub for the requested week.
func (h *Handler) GetPaystub(w http.ResponseWriter, r *http.Request) {
	stub, ok := h.buildPaystub(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, paystubDTO(stub))
}

// GetPaystubPDF renders the paystub as a PDF attachment.
func (h *Handler) GetPaystubPDF(w http.ResponseWriter, r *http.Request) {
	stub, ok := h.buildPaystub(w, r)
	if !ok {
		return
	}
	pdf, err := paystub.RenderPDF(stub)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to render PDF", err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="paystub-%s-%s.pdf"`, stub.WorkerCode, stub.Week.Start.Format("2006-01-02")))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

func (h *Handler) buildPaystub(w http.ResponseWriter, r *http.Request) (*paystub.Paystub, bool) {
	id := payroll.WorkerID(chi.URLParam(r, "id"))
	asOf, err := h.weekParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "week must be YYYY-MM-DD", err)
		return nil, false
	}

	stub, err := h.Builder.BuildPaystub(r.Context(), id, asOf)
	if err != nil {
		if payroll.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Worker not found", err)
			return nil, false
		}
		writeError(w, http.StatusInternalServerError, "Failed to build paystub", err)
		return nil, false
	}
	paystubsBuilt.Inc()
	return stub, true
}

// weekParam reads ?week=YYYY-MM-DD, defaulting to now.
func (h *Handler) weekParam(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("week")
	if raw == "" {
		return time.Now().In(h.Loc), nil
	}
	return time.ParseInLocation("2006-01-02", raw, h.Loc)
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
