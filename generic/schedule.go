package generic

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RATE SCHEDULE - Published base rates over time
// =============================================================================

// RateEntry is a base rate effective from EffectiveDate until the next entry.
type RateEntry struct {
	EffectiveDate TimePoint
	BaseRate      decimal.Decimal // percent, may be negative
}

// RateSchedule is an immutable, ascending table of base rates.
// Construct it with NewRateSchedule; the zero value is an empty schedule.
type RateSchedule struct {
	entries []RateEntry
}

// NewRateSchedule copies and sorts entries. Duplicate effective dates and
// empty input are rejected.
func NewRateSchedule(entries ...RateEntry) (RateSchedule, error) {
	if len(entries) == 0 {
		return RateSchedule{}, fmt.Errorf("%w: no entries", ErrInvalidSchedule)
	}

	sorted := make([]RateEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EffectiveDate.Before(sorted[j].EffectiveDate)
	})

	for i := 1; i < len(sorted); i++ {
		if sorted[i].EffectiveDate.Equal(sorted[i-1].EffectiveDate) {
			return RateSchedule{}, fmt.Errorf("%w: duplicate effective date %s", ErrInvalidSchedule, sorted[i].EffectiveDate)
		}
	}
	return RateSchedule{entries: sorted}, nil
}

// MustRateSchedule panics on invalid input. Intended for static tables.
func MustRateSchedule(entries ...RateEntry) RateSchedule {
	s, err := NewRateSchedule(entries...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s RateSchedule) Len() int { return len(s.entries) }

// Entries returns a copy of the entries in ascending order.
func (s RateSchedule) Entries() []RateEntry {
	out := make([]RateEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Earliest returns the first effective date.
func (s RateSchedule) Earliest() (TimePoint, bool) {
	if len(s.entries) == 0 {
		return TimePoint{}, false
	}
	return s.entries[0].EffectiveDate, true
}

// Latest returns the most recent entry.
func (s RateSchedule) Latest() (RateEntry, bool) {
	if len(s.entries) == 0 {
		return RateEntry{}, false
	}
	return s.entries[len(s.entries)-1], true
}

// EntryAt returns the last entry with EffectiveDate <= date.
func (s RateSchedule) EntryAt(date TimePoint) (RateEntry, error) {
	// First index whose date is after the query; the one before it applies.
	i := sort.Search(len(s.entries), func(i int) bool {
		return s.entries[i].EffectiveDate.After(date)
	})
	if i == 0 {
		earliest, _ := s.Earliest()
		return RateEntry{}, &ScheduleLookupError{Date: date, Earliest: earliest}
	}
	return s.entries[i-1], nil
}

// RateAt returns the base rate in effect on date.
func (s RateSchedule) RateAt(date TimePoint) (decimal.Decimal, error) {
	e, err := s.EntryAt(date)
	if err != nil {
		return decimal.Zero, err
	}
	return e.BaseRate, nil
}

// EffectiveDatesBetween returns effective dates d with after < d < before.
func (s RateSchedule) EffectiveDatesBetween(after, before TimePoint) []TimePoint {
	var out []TimePoint
	for _, e := range s.entries {
		if e.EffectiveDate.After(after) && e.EffectiveDate.Before(before) {
			out = append(out, e.EffectiveDate)
		}
	}
	return out
}

// CoversHalfYear reports whether an entry was published for the half-year
// containing date. Used to detect a stale reference table.
func (s RateSchedule) CoversHalfYear(date TimePoint) bool {
	latest, ok := s.Latest()
	if !ok {
		return false
	}
	return latest.EffectiveDate.AfterOrEqual(StartOfHalfYear(date))
}
