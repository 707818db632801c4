// Package store provides an in-memory payroll.Store implementation
// for testing and development.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu      sync.RWMutex
	workers map[payroll.WorkerID]payroll.Worker
	events  []payroll.ClockEvent
	eventID map[payroll.EventID]bool
	payouts []payroll.Payout
	history []payroll.RateHistoryRecord
}

func NewMemory() *Memory {
	return &Memory{
		workers: make(map[payroll.WorkerID]payroll.Worker),
		eventID: make(map[payroll.EventID]bool),
	}
}

// =============================================================================
// WORKERS
// =============================================================================

func (m *Memory) CreateWorker(_ context.Context, w payroll.Worker, seed payroll.RateHistoryRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.workers[w.ID] = w
	m.history = append(m.history, seed)
	return nil
}

func (m *Memory) GetWorker(_ context.Context, id payroll.WorkerID) (*payroll.Worker, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.workers[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (m *Memory) ListWorkers(_ context.Context) ([]payroll.Worker, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]payroll.Worker, 0, len(m.workers))
	for _, w := range m.workers {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) UpdateWorkerRate(_ context.Context, rec payroll.RateHistoryRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.workers[rec.WorkerID]
	if !ok {
		return &payroll.WorkerNotFoundError{WorkerID: rec.WorkerID}
	}
	w.PayRate = rec.Rate
	m.workers[rec.WorkerID] = w
	m.history = append(m.history, rec)
	return nil
}

// =============================================================================
// EVENTS
// =============================================================================

func (m *Memory) InsertEvents(_ context.Context, events []payroll.ClockEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Check the whole batch before writing any of it.
	for _, e := range events {
		if _, ok := m.workers[e.WorkerID]; !ok {
			return &payroll.WorkerNotFoundError{WorkerID: e.WorkerID}
		}
		if m.eventID[e.ID] {
			return payroll.ErrDuplicateEvent
		}
	}
	for _, e := range events {
		m.eventID[e.ID] = true
		m.events = append(m.events, e)
	}
	return nil
}

func (m *Memory) EventsInRange(_ context.Context, from, to time.Time) ([]payroll.ClockEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.eventsLocked("", from, to), nil
}

func (m *Memory) WorkerEventsInRange(_ context.Context, id payroll.WorkerID, from, to time.Time) ([]payroll.ClockEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.eventsLocked(id, from, to), nil
}

func (m *Memory) eventsLocked(id payroll.WorkerID, from, to time.Time) []payroll.ClockEvent {
	var out []payroll.ClockEvent
	for _, e := range m.events {
		if id != "" && e.WorkerID != id {
			continue
		}
		if e.Timestamp.Before(from) || !e.Timestamp.Before(to) {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].WorkerID != out[j].WorkerID {
			return out[i].WorkerID < out[j].WorkerID
		}
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

// =============================================================================
// PAYOUTS
// =============================================================================

func (m *Memory) InsertPayout(_ context.Context, p payroll.Payout) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payouts = append(m.payouts, p)
	return nil
}

func (m *Memory) PayoutsInRange(_ context.Context, from, to time.Time) ([]payroll.Payout, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.payoutsLocked("", from, to), nil
}

func (m *Memory) WorkerPayoutsInRange(_ context.Context, id payroll.WorkerID, from, to time.Time) ([]payroll.Payout, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.payoutsLocked(id, from, to), nil
}

func (m *Memory) payoutsLocked(id payroll.WorkerID, from, to time.Time) []payroll.Payout {
	var out []payroll.Payout
	for _, p := range m.payouts {
		if id != "" && p.WorkerID != id {
			continue
		}
		if p.Date.Before(from) || !p.Date.Before(to) {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].WorkerID != out[j].WorkerID {
			return out[i].WorkerID < out[j].WorkerID
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// =============================================================================
// RATE HISTORY
// =============================================================================

func (m *Memory) RateHistory(_ context.Context, id payroll.WorkerID) ([]payroll.RateHistoryRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []payroll.RateHistoryRecord
	for _, r := range m.history {
		if r.WorkerID == id {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *Memory) AllRateHistory(_ context.Context) ([]payroll.RateHistoryRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]payroll.RateHistoryRecord, len(m.history))
	copy(out, m.history)
	return out, nil
}

var _ payroll.Store = (*Memory)(nil)
