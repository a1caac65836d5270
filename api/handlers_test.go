/*
handlers_test.go - Tests for API handlers

Tests for:
- Calculations (JSON, CSV, PDF)
- Error mapping (input errors, lookup errors)
- Rate schedule refresh and status
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/interest-engine/generic"
	"github.com/warp/interest-engine/generic/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

var fixedNow = time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)

func newTestHandler(t *testing.T) (*Handler, http.Handler) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(store.NewMemory(), logger)
	h.Now = func() time.Time { return fixedNow }
	require.NoError(t, h.LoadSchedule(context.Background()))
	return h, NewRouter(h, []string{"http://localhost:5173"})
}

func do(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m), rec.Body.String())
	return m
}

const calc2023 = `{"principal": 1000, "start_date": "2023-01-01", "as_of": "2023-12-31"}`

// =============================================================================
// CALCULATIONS
// =============================================================================

func TestCalculate_TwoPeriods(t *testing.T) {
	_, router := newTestHandler(t)

	rec := do(t, router, http.MethodPost, "/api/calculations", calc2023)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var dto struct {
		ID            string `json:"id"`
		TotalDays     int    `json:"total_days"`
		TotalInterest string `json:"total_interest"`
		TotalClaim    string `json:"total_claim"`
		Periods       []struct {
			Label       string `json:"label"`
			Days        int    `json:"days"`
			RateDisplay string `json:"rate_display"`
			Interest    string `json:"interest"`
		} `json:"periods"`
		Allocation *AllocationDTO `json:"allocation"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))

	assert.NotEmpty(t, dto.ID)
	assert.Equal(t, 365, dto.TotalDays)
	assert.Equal(t, "73.76", dto.TotalInterest)
	assert.Equal(t, "1073.76", dto.TotalClaim)
	require.Len(t, dto.Periods, 2)
	assert.Equal(t, "01.01.2023 - 30.06.2023", dto.Periods[0].Label)
	assert.Equal(t, 181, dto.Periods[0].Days)
	assert.Equal(t, "6.62%", dto.Periods[0].RateDisplay)
	assert.Equal(t, "32.83", dto.Periods[0].Interest)
	assert.Equal(t, "8.12%", dto.Periods[1].RateDisplay)
	assert.Nil(t, dto.Allocation, "no payment, no allocation block")
}

func TestCalculate_WithOverpayment(t *testing.T) {
	_, router := newTestHandler(t)

	rec := do(t, router, http.MethodPost, "/api/calculations",
		`{"principal": "1000", "start_date": "2023-01-01", "as_of": "2023-12-31", "payment": 1200}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	alloc := decodeMap(t, rec)["allocation"].(map[string]any)
	assert.Equal(t, "73.76", alloc["interest_paid"])
	assert.Equal(t, "1000", alloc["principal_paid"])
	assert.Equal(t, "0", alloc["remaining_principal"])
	assert.Equal(t, "126.24", alloc["overpayment"])
}

func TestCalculate_AllocationFiguresAddUp(t *testing.T) {
	_, router := newTestHandler(t)

	// GIVEN: a payment that covers interest and part of the principal
	rec := do(t, router, http.MethodPost, "/api/calculations",
		`{"principal": "1000", "start_date": "2023-01-01", "as_of": "2023-12-31", "payment": 100}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// THEN: the displayed cents add up to the payment and to the principal
	alloc := decodeMap(t, rec)["allocation"].(map[string]any)
	assert.Equal(t, "73.76", alloc["interest_paid"])
	assert.Equal(t, "26.24", alloc["principal_paid"])
	assert.Equal(t, "973.76", alloc["remaining_principal"])
	assert.Equal(t, "0", alloc["remaining_interest"])
	assert.Equal(t, "0", alloc["overpayment"])
}

func TestCalculate_DefaultsAsOfToToday(t *testing.T) {
	_, router := newTestHandler(t)

	rec := do(t, router, http.MethodPost, "/api/calculations", `{"principal": 1000, "start_date": "2026-03-01"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	m := decodeMap(t, rec)
	assert.Equal(t, "2026-03-02", m["as_of"])
	assert.Equal(t, float64(2), m["total_days"])
}

func TestCalculate_InputErrors(t *testing.T) {
	_, router := newTestHandler(t)

	tests := []struct {
		name string
		body string
		code string
	}{
		{"missing principal", `{"start_date": "2023-01-01"}`, "invalid_input"},
		{"negative principal", `{"principal": -5, "start_date": "2023-01-01"}`, "invalid_input"},
		{"negative payment", `{"principal": 5, "start_date": "2023-01-01", "payment": -1}`, "invalid_input"},
		{"bad date", `{"principal": 5, "start_date": "01.01.2023"}`, "invalid_input"},
		{"before table", `{"principal": 5, "start_date": "1999-01-01"}`, "invalid_input"},
		{"unknown claim type", `{"principal": 5, "start_date": "2023-01-01", "claim_type": "b2b"}`, "invalid_input"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, "/api/calculations", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			m := decodeMap(t, rec)
			assert.Equal(t, tt.code, m["code"])
			assert.NotEmpty(t, m["error"])
		})
	}
}

func TestCalculate_MalformedBody(t *testing.T) {
	_, router := newTestHandler(t)
	rec := do(t, router, http.MethodPost, "/api/calculations", `{"principal":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCalculate_EmptyScheduleIsLookupError(t *testing.T) {
	// GIVEN: a handler that never loaded a schedule
	h := NewHandler(store.NewMemory(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	router := NewRouter(h, nil)

	rec := do(t, router, http.MethodPost, "/api/calculations", calc2023)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	m := decodeMap(t, rec)
	assert.Equal(t, "no_base_rate", m["code"])
	assert.Contains(t, m["error"], "no base rate defined before 2023-01-01")
}

func TestExportCSV(t *testing.T) {
	_, router := newTestHandler(t)

	rec := do(t, router, http.MethodPost, "/api/calculations/csv", calc2023)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "zinsen.csv")
	assert.Equal(t,
		"Zeitraum;Tage;Zinssatz;Betrag\n01.01.2023 - 30.06.2023;181;6,62%;32,83\n01.07.2023 - 31.12.2023;184;8,12%;40,93\n",
		rec.Body.String())
}

func TestExportPDF(t *testing.T) {
	_, router := newTestHandler(t)

	rec := do(t, router, http.MethodPost, "/api/calculations/pdf",
		`{"principal": 1000, "start_date": "2023-01-01", "as_of": "2023-12-31", "payment": 30,
		  "case_reference": "AZ 2026/01", "debtor": "Max Mustermann"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))
}

// =============================================================================
// RATES
// =============================================================================

func TestGetRates_SeededTable(t *testing.T) {
	h, router := newTestHandler(t)

	rec := do(t, router, http.MethodGet, "/api/rates", "")
	require.Equal(t, http.StatusOK, rec.Code)

	entries := decodeMap(t, rec)["entries"].([]any)
	assert.Len(t, entries, h.Schedule().Len())
	first := entries[0].(map[string]any)
	assert.Equal(t, "2002-01-01", first["effective_date"])
	assert.Equal(t, "2.57", first["base_rate"])
}

func TestPutRates_ReplacesScheduleAndRecordsRefresh(t *testing.T) {
	h, router := newTestHandler(t)

	rec := do(t, router, http.MethodPut, "/api/rates",
		`{"entries": [{"effective_date": "2023-01-01", "base_rate": "1.62"}, {"effective_date": "2026-01-01", "base_rate": "1.27"}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 2, h.Schedule().Len())

	rec = do(t, router, http.MethodGet, "/api/rates/refreshes", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var refreshes []RefreshDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &refreshes))
	require.Len(t, refreshes, 2)
	assert.Equal(t, "api", refreshes[0].Source)
	assert.Equal(t, "seed", refreshes[1].Source)
	assert.Equal(t, "2026-01-01", refreshes[0].Latest)

	// Calculations now reject dates before the new first entry.
	rec = do(t, router, http.MethodPost, "/api/calculations", `{"principal": 1, "start_date": "2022-12-31"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoadSchedule_SeedOnlyFillsEmptyStore(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fileSchedule := generic.MustRateSchedule(
		generic.RateEntry{EffectiveDate: generic.MustParseDate("2024-01-01"), BaseRate: generic.MustParseDecimal("3.62")},
	)

	// GIVEN: an empty store and a seed schedule
	mem := store.NewMemory()
	h := NewHandler(mem, logger)
	h.Now = func() time.Time { return fixedNow }
	h.Seed, h.SeedSource = fileSchedule, "file"

	// WHEN: loading
	require.NoError(t, h.LoadSchedule(ctx))

	// THEN: the seed is stored with a single refresh
	assert.Equal(t, 1, h.Schedule().Len())
	refreshes, err := mem.ListRefreshes(ctx)
	require.NoError(t, err)
	require.Len(t, refreshes, 1)
	assert.Equal(t, "file", refreshes[0].Source)

	// GIVEN: the store now holds a newer table uploaded by an operator
	uploaded := generic.MustRateSchedule(
		generic.RateEntry{EffectiveDate: generic.MustParseDate("2024-01-01"), BaseRate: generic.MustParseDecimal("3.62")},
		generic.RateEntry{EffectiveDate: generic.MustParseDate("2024-07-01"), BaseRate: generic.MustParseDecimal("3.37")},
	)
	require.NoError(t, h.ReplaceSchedule(ctx, uploaded, "api"))

	// WHEN: restarting with the same seed
	restarted := NewHandler(mem, logger)
	restarted.Seed, restarted.SeedSource = fileSchedule, "file"
	require.NoError(t, restarted.LoadSchedule(ctx))

	// THEN: the uploaded table survives and no refresh is added
	assert.Equal(t, 2, restarted.Schedule().Len())
	refreshes, err = mem.ListRefreshes(ctx)
	require.NoError(t, err)
	assert.Len(t, refreshes, 2)
}

func TestPutRates_InvalidScheduleKeepsOld(t *testing.T) {
	h, router := newTestHandler(t)
	before := h.Schedule().Len()

	rec := do(t, router, http.MethodPut, "/api/rates", `{"entries": []}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, before, h.Schedule().Len())
}

func TestScheduleStatus(t *testing.T) {
	h, router := newTestHandler(t)

	rec := do(t, router, http.MethodGet, "/api/rates/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var status ScheduleStatusDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.True(t, status.Current, "built-in table covers 2026-03")
	assert.Equal(t, "2026-07-01", status.NextExpected)

	h.Now = func() time.Time { return time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC) }
	rec = do(t, router, http.MethodGet, "/api/rates/status", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.False(t, status.Current)
}

func TestHealth(t *testing.T) {
	_, router := newTestHandler(t)
	rec := do(t, router, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

// =============================================================================
// SCHEDULER
// =============================================================================

func TestStalenessScheduler_Check(t *testing.T) {
	h, _ := newTestHandler(t)
	s := NewStalenessScheduler(h, "0 0 6 1 1,7 *")

	assert.True(t, s.Check())
	assert.NotEmpty(t, h.scheduleStatus().LastChecked)

	h.Now = func() time.Time { return time.Date(2026, time.July, 1, 6, 0, 0, 0, time.UTC) }
	assert.False(t, s.Check())

	require.NoError(t, h.ReplaceSchedule(context.Background(), generic.MustRateSchedule(
		generic.RateEntry{EffectiveDate: generic.MustParseDate("2026-07-01"), BaseRate: generic.MustParseDecimal("1.27")},
	), "test"))
	assert.True(t, s.Check())
}

func TestStalenessScheduler_StartStop(t *testing.T) {
	h, _ := newTestHandler(t)

	bad := NewStalenessScheduler(h, "not a cron spec")
	assert.Error(t, bad.Start())

	s := NewStalenessScheduler(h, "0 0 6 1 1,7 *")
	require.NoError(t, s.Start())
	require.NoError(t, s.Start(), "second start is a no-op")
	s.Stop()
	s.Stop()
}
