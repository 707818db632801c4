package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/payroll/store"
)

var t0 = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

func seedWorker(t *testing.T, mem *store.Memory, id string) {
	t.Helper()
	w := payroll.Worker{
		ID: payroll.WorkerID(id), Name: "Worker " + id,
		PayRate: decimal.NewFromInt(10), Active: true, CreatedAt: t0,
	}
	seed := payroll.RateHistoryRecord{
		ID: payroll.RateRecordID(id + "-seed"), WorkerID: w.ID,
		Rate: w.PayRate, EffectiveFrom: t0, CreatedAt: t0,
	}
	require.NoError(t, mem.CreateWorker(context.Background(), w, seed))
}

func event(id, worker string, ts time.Time) payroll.ClockEvent {
	return payroll.ClockEvent{
		ID:        payroll.EventID(id),
		WorkerID:  payroll.WorkerID(worker),
		Timestamp: ts,
	}
}

func TestInsertEvents_UnknownWorker(t *testing.T) {
	// Same contract as the SQLite store: a punch for a nonexistent
	// worker fails the batch with a missing-worker error.

	mem := store.NewMemory()
	seedWorker(t, mem, "w1")

	err := mem.InsertEvents(context.Background(), []payroll.ClockEvent{
		event("e1", "w1", t0),
		event("e2", "ghost", t0.Add(time.Hour)),
	})
	require.Error(t, err)
	assert.True(t, payroll.IsNotFound(err))
	assert.False(t, errors.Is(err, payroll.ErrDuplicateEvent))

	// Nothing from the batch was written.
	got, err := mem.WorkerEventsInRange(context.Background(), "w1", t0, t0.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestInsertEvents_DuplicateRejectsWholeBatch(t *testing.T) {
	mem := store.NewMemory()
	seedWorker(t, mem, "w1")

	require.NoError(t, mem.InsertEvents(context.Background(), []payroll.ClockEvent{
		event("e1", "w1", t0),
	}))

	err := mem.InsertEvents(context.Background(), []payroll.ClockEvent{
		event("e2", "w1", t0.Add(time.Hour)),
		event("e1", "w1", t0),
	})
	require.ErrorIs(t, err, payroll.ErrDuplicateEvent)

	got, err := mem.WorkerEventsInRange(context.Background(), "w1", t0, t0.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
