/*
handlers.go - HTTP API handlers for the default-interest calculator

PURPOSE:
  Exposes the engine via REST. Handles HTTP request/response and JSON, and
  delegates every number to defaultinterest.Compute.

ENDPOINTS:
  Calculations:
    POST   /api/calculations       Compute periods, totals and allocation
    POST   /api/calculations/csv   Same input, CSV table (zinsen.csv)
    POST   /api/calculations/pdf   Same input, PDF report (zinsen.pdf)

  Rates:
    GET    /api/rates              Current base-rate schedule
    PUT    /api/rates              Replace the schedule (factory JSON)
    GET    /api/rates/refreshes    Refresh history
    GET    /api/rates/status       Whether the current half-year is covered

ARCHITECTURE:
  Handler holds the RateStore and the current schedule. Calculations read
  the schedule under an RLock; PUT /api/rates persists first and then swaps
  the in-memory value, so a calculation never sees a half-updated table.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: InputError, ScheduleLookupError, malformed schedule (message verbatim)
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - scheduler.go: Staleness check
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warp/interest-engine/defaultinterest"
	"github.com/warp/interest-engine/export"
	"github.com/warp/interest-engine/factory"
	"github.com/warp/interest-engine/generic"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store            generic.RateStore
	Logger           *slog.Logger
	DefaultClaimType defaultinterest.ClaimType
	Now              func() time.Time

	// Seed fills an empty store. Zero means the built-in table.
	Seed       generic.RateSchedule
	SeedSource string

	mu       sync.RWMutex
	schedule generic.RateSchedule

	// Set by the staleness scheduler.
	lastChecked time.Time
}

// NewHandler creates a new handler with the given store.
func NewHandler(store generic.RateStore, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		Store:            store,
		Logger:           logger,
		DefaultClaimType: defaultinterest.ClaimConsumer,
		Now:              time.Now,
	}
}

// LoadSchedule loads the schedule from the store. An empty store is seeded
// once with Seed, or with the built-in table when Seed is empty. A
// populated store is never overwritten here; use PUT /api/rates for that.
func (h *Handler) LoadSchedule(ctx context.Context) error {
	s, err := h.Store.LoadSchedule(ctx)
	if err != nil {
		return err
	}
	if s.Len() == 0 {
		seed, source := h.Seed, h.SeedSource
		if seed.Len() == 0 {
			seed, source = defaultinterest.GermanSchedule(), "seed"
		}
		if source == "" {
			source = "seed"
		}
		h.Logger.Info("rate store empty, seeding base rates", "source", source, "entries", seed.Len())
		return h.ReplaceSchedule(ctx, seed, source)
	}
	if h.Seed.Len() > 0 {
		h.Logger.Info("rate store already populated, seed ignored", "source", h.SeedSource, "stored_entries", s.Len())
	}

	h.mu.Lock()
	h.schedule = s
	h.mu.Unlock()

	latest, _ := s.Latest()
	h.Logger.Info("rate schedule loaded", "entries", s.Len(), "latest", latest.EffectiveDate.String())
	return nil
}

// ReplaceSchedule persists s and makes it current.
func (h *Handler) ReplaceSchedule(ctx context.Context, s generic.RateSchedule, source string) error {
	latest, _ := s.Latest()
	refresh := generic.ScheduleRefresh{
		ID:         uuid.NewString(),
		Source:     source,
		EntryCount: s.Len(),
		Latest:     latest.EffectiveDate,
		CreatedAt:  h.Now().UTC(),
	}
	if err := h.Store.ReplaceSchedule(ctx, s, refresh); err != nil {
		return fmt.Errorf("store schedule: %w", err)
	}

	h.mu.Lock()
	h.schedule = s
	h.mu.Unlock()

	h.Logger.Info("rate schedule replaced", "source", source, "entries", s.Len(), "refresh_id", refresh.ID)
	return nil
}

// Schedule returns the current schedule.
func (h *Handler) Schedule() generic.RateSchedule {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.schedule
}

func (h *Handler) today() generic.TimePoint {
	return generic.FromTime(h.Now())
}

// =============================================================================
// CALCULATION HANDLERS
// =============================================================================

// Calculate computes interest and allocation and returns JSON.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	req, res, ok := h.compute(w, r)
	if !ok {
		return
	}
	id := uuid.NewString()
	h.Logger.Debug("calculation",
		"id", id,
		"start_date", req.StartDate,
		"periods", len(res.Accrual.Periods),
		"total_interest", res.Accrual.TotalInterestRounded().String())

	writeJSON(w, http.StatusOK, toCalculationDTO(id, res))
}

// ExportCSV returns the period table as a semicolon-separated file.
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	_, res, ok := h.compute(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="zinsen.csv"`)
	if err := export.WriteCSV(w, res); err != nil {
		h.Logger.Error("csv export failed", "error", err)
	}
}

// ExportPDF returns the paginated report.
func (h *Handler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	req, res, ok := h.compute(w, r)
	if !ok {
		return
	}

	report := export.Report{
		Case:        defaultinterest.Case{Reference: req.CaseReference, Debtor: req.Debtor},
		Result:      res,
		GeneratedAt: h.Now(),
	}

	// Render fully before writing headers so a failure can still be a 500.
	var buf bytes.Buffer
	if err := export.WritePDF(&buf, report); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to render PDF", err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="zinsen.pdf"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// compute decodes the request and runs the engine. On failure it has
// already written the response.
func (h *Handler) compute(w http.ResponseWriter, r *http.Request) (CalculationRequest, defaultinterest.Result, bool) {
	var req CalculationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return req, defaultinterest.Result{}, false
	}

	in, err := h.toRequest(req)
	if err != nil {
		writeEngineError(w, err)
		return req, defaultinterest.Result{}, false
	}

	res, err := defaultinterest.Compute(in, h.Schedule())
	if err != nil {
		writeEngineError(w, err)
		return req, defaultinterest.Result{}, false
	}
	return req, res, true
}

func (h *Handler) toRequest(req CalculationRequest) (defaultinterest.Request, error) {
	if req.Principal == nil {
		return defaultinterest.Request{}, &generic.InputError{Field: "principal", Reason: "is required"}
	}
	start, err := generic.ParseDate(req.StartDate)
	if err != nil {
		return defaultinterest.Request{}, &generic.InputError{Field: "start_date", Value: req.StartDate, Reason: "use YYYY-MM-DD"}
	}

	asOf := h.today()
	if req.AsOf != "" {
		if asOf, err = generic.ParseDate(req.AsOf); err != nil {
			return defaultinterest.Request{}, &generic.InputError{Field: "as_of", Value: req.AsOf, Reason: "use YYYY-MM-DD"}
		}
	}

	claimType, err := defaultinterest.ParseClaimType(req.ClaimType, h.DefaultClaimType)
	if err != nil {
		return defaultinterest.Request{}, err
	}

	payment := decimal.Zero
	if req.Payment != nil {
		payment = *req.Payment
	}

	return defaultinterest.Request{
		Principal: *req.Principal,
		StartDate: start,
		Payment:   payment,
		ClaimType: claimType,
		AsOf:      asOf,
	}, nil
}

// =============================================================================
// RATE HANDLERS
// =============================================================================

// GetRates returns the current schedule.
func (h *Handler) GetRates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, factory.ScheduleToJSON(h.Schedule(), "Basiszinssatz", "§ 247 BGB"))
}

// PutRates replaces the schedule.
func (h *Handler) PutRates(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	s, err := factory.ParseSchedule(string(body))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	if err := h.ReplaceSchedule(r.Context(), s, "api"); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store schedule", err)
		return
	}
	writeJSON(w, http.StatusOK, factory.ScheduleToJSON(s, "Basiszinssatz", "api"))
}

// ListRefreshes returns the refresh history.
func (h *Handler) ListRefreshes(w http.ResponseWriter, r *http.Request) {
	refreshes, err := h.Store.ListRefreshes(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list refreshes", err)
		return
	}
	writeJSON(w, http.StatusOK, toRefreshDTOs(refreshes))
}

// GetScheduleStatus reports whether the schedule covers today's half-year.
func (h *Handler) GetScheduleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.scheduleStatus())
}

func (h *Handler) scheduleStatus() ScheduleStatusDTO {
	s := h.Schedule()
	today := h.today()

	status := ScheduleStatusDTO{
		Entries:      s.Len(),
		Current:      s.CoversHalfYear(today),
		NextExpected: generic.StartOfHalfYear(today).AddMonths(6).String(),
	}
	if latest, ok := s.Latest(); ok {
		status.LatestDate = latest.EffectiveDate.String()
	}

	h.mu.RLock()
	if !h.lastChecked.IsZero() {
		status.LastChecked = h.lastChecked.Format(time.RFC3339)
	}
	h.mu.RUnlock()
	return status
}

func (h *Handler) markChecked(at time.Time) {
	h.mu.Lock()
	h.lastChecked = at
	h.mu.Unlock()
}

// Health is a liveness probe.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "rates": h.Schedule().Len()})
}

// =============================================================================
// HELPERS
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

// writeEngineError surfaces client errors verbatim with a stable code.
func writeEngineError(w http.ResponseWriter, err error) {
	if !generic.IsClientError(err) {
		writeError(w, http.StatusInternalServerError, "Calculation failed", err)
		return
	}

	code := "invalid_input"
	switch {
	case errors.Is(err, generic.ErrNoBaseRate):
		code = "no_base_rate"
	case errors.Is(err, generic.ErrInvalidSchedule):
		code = "invalid_schedule"
	}
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: code})
}
