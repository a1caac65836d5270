/*
store.go - Persistence interface for the base-rate reference table

PURPOSE:
  The rate schedule is static reference data maintained outside the engine
  and refreshed about twice a year. The store keeps the current table and a
  log of refreshes. Computation results are never persisted.

KEY INTERFACES:
  RateStore: load and atomically replace the schedule

REPLACE SEMANTICS:
  ReplaceSchedule() swaps the whole table in one step. Readers see either
  the old or the new table, never a mix of both.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite
  - generic/store/memory.go: In-memory for testing

SEE ALSO:
  - schedule.go: RateSchedule
  - store/sqlite/sqlite.go: Concrete implementation
*/
package generic

import (
	"context"
	"time"
)

// =============================================================================
// RATE STORE - Interface for reference-data persistence
// =============================================================================

// RateStore persists the base-rate schedule.
type RateStore interface {
	// LoadSchedule returns the stored schedule. An empty store returns a
	// zero RateSchedule (Len() == 0) and no error.
	LoadSchedule(ctx context.Context) (RateSchedule, error)

	// ReplaceSchedule replaces all entries and records a refresh.
	ReplaceSchedule(ctx context.Context, schedule RateSchedule, refresh ScheduleRefresh) error

	// ListRefreshes returns refreshes, newest first.
	ListRefreshes(ctx context.Context) ([]ScheduleRefresh, error)
}

// ScheduleRefresh records who replaced the schedule and when.
type ScheduleRefresh struct {
	ID         string
	Source     string // e.g. "seed", "api", "file"
	EntryCount int
	Latest     TimePoint
	CreatedAt  time.Time
}
