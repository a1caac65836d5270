/*
scheduler.go - Base-rate staleness check

PURPOSE:
  The Bundesbank republishes the base rate on Jan 1 and Jul 1. If nobody
  refreshed the table, calculations for the new half-year silently keep
  using the previous rate. This scheduler logs a warning when the schedule
  has no entry for the current half-year.

DESIGN:
  - cron expression with seconds (default "0 0 6 1 1,7 *")
  - runs once immediately on Start
  - never modifies the schedule; refreshing stays a deliberate operator step

USAGE:
  scheduler := NewStalenessScheduler(handler, "0 0 6 1 1,7 *")
  if err := scheduler.Start(); err != nil { ... }
  defer scheduler.Stop()

SEE ALSO:
  - handlers.go: PUT /api/rates, GET /api/rates/status
*/
package api

import (
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
)

// StalenessScheduler periodically checks the schedule's coverage.
type StalenessScheduler struct {
	Handler *Handler
	Spec    string

	cron *cron.Cron
	mu   sync.Mutex
}

// NewStalenessScheduler creates a new scheduler.
func NewStalenessScheduler(handler *Handler, spec string) *StalenessScheduler {
	return &StalenessScheduler{
		Handler: handler,
		Spec:    spec,
	}
}

// Start registers the check and starts cron.
func (s *StalenessScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		return nil
	}

	c := cron.New(cron.WithSeconds())
	if _, err := c.AddFunc(s.Spec, func() { s.Check() }); err != nil {
		return fmt.Errorf("register staleness check %q: %w", s.Spec, err)
	}
	s.cron = c

	// Run immediately on start
	s.Check()
	c.Start()

	s.Handler.Logger.Info("staleness scheduler started", "spec", s.Spec)
	return nil
}

// Stop stops cron and waits for a running check.
func (s *StalenessScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.cron = nil
	s.Handler.Logger.Info("staleness scheduler stopped")
}

// Check logs the coverage of the current half-year and returns it.
func (s *StalenessScheduler) Check() bool {
	status := s.Handler.scheduleStatus()
	s.Handler.markChecked(s.Handler.Now())

	if status.Current {
		s.Handler.Logger.Info("base-rate schedule is current", "latest", status.LatestDate)
		return true
	}
	s.Handler.Logger.Warn("base-rate schedule is stale: no entry for the current half-year",
		"latest", status.LatestDate,
		"entries", status.Entries,
		"next_expected", status.NextExpected)
	return false
}
