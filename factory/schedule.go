/*
Package factory provides JSON to Go rate-schedule conversion.

PURPOSE:
  Converts JSON rate tables into generic.RateSchedule values. The base rate
  is republished twice a year; operators refresh it by uploading a new
  table instead of shipping a new binary.

JSON SCHEMA:
  {
    "name": "Basiszinssatz",
    "source": "Deutsche Bundesbank",
    "entries": [
      {"effective_date": "2023-01-01", "base_rate": "1.62"},
      {"effective_date": "2023-07-01", "base_rate": 3.12}
    ]
  }

  base_rate may be a JSON number or a decimal string.

KEY FEATURES:
  - Validates dates (YYYY-MM-DD) and duplicate entries
  - Accepts unsorted input; the schedule is sorted on construction
  - Round-trips via ScheduleToJSON

USAGE:
  schedule, err := factory.ParseSchedule(jsonString)

SEE ALSO:
  - generic/schedule.go: RateSchedule
  - api/handlers.go: PUT /api/rates
*/
package factory

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/warp/interest-engine/generic"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// ScheduleJSON is the JSON representation of a rate schedule.
type ScheduleJSON struct {
	Name    string          `json:"name,omitempty"`
	Source  string          `json:"source,omitempty"`
	Entries []RateEntryJSON `json:"entries"`
}

// RateEntryJSON is one published base rate. BaseRate is a pointer so a
// missing value can be told apart from 0.
type RateEntryJSON struct {
	EffectiveDate string           `json:"effective_date"`
	BaseRate      *decimal.Decimal `json:"base_rate"`
}

// =============================================================================
// PARSING
// =============================================================================

// ParseSchedule parses a JSON document into a RateSchedule.
func ParseSchedule(jsonStr string) (generic.RateSchedule, error) {
	var sj ScheduleJSON
	if err := json.Unmarshal([]byte(jsonStr), &sj); err != nil {
		return generic.RateSchedule{}, fmt.Errorf("invalid JSON: %w", err)
	}
	return BuildSchedule(sj)
}

// ParseScheduleFile reads and parses a JSON file.
func ParseScheduleFile(path string) (generic.RateSchedule, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return generic.RateSchedule{}, fmt.Errorf("read schedule file: %w", err)
	}
	return ParseSchedule(string(raw))
}

// BuildSchedule validates an already decoded ScheduleJSON.
func BuildSchedule(sj ScheduleJSON) (generic.RateSchedule, error) {
	if len(sj.Entries) == 0 {
		return generic.RateSchedule{}, fmt.Errorf("%w: entries are required", generic.ErrInvalidSchedule)
	}

	entries := make([]generic.RateEntry, 0, len(sj.Entries))
	for i, e := range sj.Entries {
		d, err := generic.ParseDate(e.EffectiveDate)
		if err != nil {
			return generic.RateSchedule{}, fmt.Errorf("%w: entry %d: effective_date %q (use YYYY-MM-DD)",
				generic.ErrInvalidSchedule, i, e.EffectiveDate)
		}
		if e.BaseRate == nil {
			return generic.RateSchedule{}, fmt.Errorf("%w: entry %d: base_rate is required", generic.ErrInvalidSchedule, i)
		}
		entries = append(entries, generic.RateEntry{EffectiveDate: d, BaseRate: *e.BaseRate})
	}
	return generic.NewRateSchedule(entries...)
}

// ScheduleToJSON converts a schedule back into its JSON form.
func ScheduleToJSON(s generic.RateSchedule, name, source string) ScheduleJSON {
	sj := ScheduleJSON{Name: name, Source: source}
	for _, e := range s.Entries() {
		rate := e.BaseRate
		sj.Entries = append(sj.Entries, RateEntryJSON{
			EffectiveDate: e.EffectiveDate.String(),
			BaseRate:      &rate,
		})
	}
	return sj
}
