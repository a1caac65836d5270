// Package store provides RateStore implementations.
package store

import (
	"context"
	"sync"

	"github.com/warp/interest-engine/generic"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu        sync.RWMutex
	schedule  generic.RateSchedule
	refreshes []generic.ScheduleRefresh
}

func NewMemory() *Memory {
	return &Memory{}
}

// NewMemoryWith returns a store preloaded with schedule.
func NewMemoryWith(schedule generic.RateSchedule) *Memory {
	return &Memory{schedule: schedule}
}

func (m *Memory) LoadSchedule(_ context.Context) (generic.RateSchedule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	// RateSchedule is immutable, so sharing it is safe.
	return m.schedule, nil
}

func (m *Memory) ReplaceSchedule(_ context.Context, schedule generic.RateSchedule, refresh generic.ScheduleRefresh) error {
	if schedule.Len() == 0 {
		return generic.ErrInvalidSchedule
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.schedule = schedule
	m.refreshes = append(m.refreshes, refresh)
	return nil
}

func (m *Memory) ListRefreshes(_ context.Context) ([]generic.ScheduleRefresh, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]generic.ScheduleRefresh, len(m.refreshes))
	for i, r := range m.refreshes {
		result[len(m.refreshes)-1-i] = r
	}
	return result, nil
}
