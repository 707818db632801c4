/*
store.go - Persistence interface for payroll source rows

PURPOSE:
  Defines the boundary between the pure engine and the database. The
  engine itself never touches a Store: it consumes plain slices. The
  Store exists for the composition layer (paystub builders, HTTP intake)
  that must fetch those slices.

WHAT IS STORED:
  Only source rows: workers, clock events, payouts, rate history.
  DayResult and WeeklySummary are NEVER persisted - they are recomputed
  on every query so that a late correction (backdated punch, retroactive
  rate record) is visible immediately.

RATE HISTORY CONTRACT:
  Rate history is append-only. Every worker rate change goes through
  UpdateWorkerRate, which writes the worker row and appends the history
  record in one transaction, keeping the mirror invariant: the worker's
  current PayRate always equals the newest history record's rate.
  CreateWorker seeds the first record the same way.

READ CONSISTENCY:
  One worker/week computation should fetch all its inputs from a single
  consistent snapshot; the engine has no way to detect a read that
  straddled a concurrent edit.

IMPLEMENTATIONS:
  - store/sqlite: Production SQLite
  - payroll/store: In-memory, for tests and dev

SEE ALSO:
  - paystub: The main Store consumer
*/
package payroll

import (
	"context"
	"time"
)

// =============================================================================
// STORE - Source-row persistence
// =============================================================================

// Store persists payroll source rows. Derived values are never written.
type Store interface {
	// CreateWorker inserts a worker and its seed rate-history record
	// atomically. seed.Rate must equal w.PayRate and seed.EffectiveFrom
	// the worker's creation date.
	CreateWorker(ctx context.Context, w Worker, seed RateHistoryRecord) error

	// GetWorker returns nil without error when the worker doesn't exist.
	GetWorker(ctx context.Context, id WorkerID) (*Worker, error)

	// ListWorkers returns all workers ordered by name.
	ListWorkers(ctx context.Context) ([]Worker, error)

	// UpdateWorkerRate sets the worker's current rate to rec.Rate and
	// appends rec to the rate history in one transaction. This is the
	// ONLY way a worker's rate changes.
	UpdateWorkerRate(ctx context.Context, rec RateHistoryRecord) error

	// InsertEvents persists a batch of punches atomically. The batch is
	// expected to be bounce-filtered already. Duplicate event IDs fail
	// the whole batch with ErrDuplicateEvent; an unknown worker fails it
	// with ErrWorkerNotFound.
	InsertEvents(ctx context.Context, events []ClockEvent) error

	// EventsInRange returns all workers' events with timestamp in
	// [from, to), ordered by (worker, timestamp).
	EventsInRange(ctx context.Context, from, to time.Time) ([]ClockEvent, error)

	// WorkerEventsInRange is EventsInRange filtered to one worker.
	WorkerEventsInRange(ctx context.Context, id WorkerID, from, to time.Time) ([]ClockEvent, error)

	// InsertPayout persists one payout row.
	InsertPayout(ctx context.Context, p Payout) error

	// PayoutsInRange returns all workers' payouts with date in [from, to),
	// ordered by (worker, date).
	PayoutsInRange(ctx context.Context, from, to time.Time) ([]Payout, error)

	// WorkerPayoutsInRange is PayoutsInRange filtered to one worker.
	WorkerPayoutsInRange(ctx context.Context, id WorkerID, from, to time.Time) ([]Payout, error)

	// RateHistory returns the worker's rate records, any order. The
	// resolver sorts internally.
	RateHistory(ctx context.Context, id WorkerID) ([]RateHistoryRecord, error)

	// AllRateHistory returns every worker's rate records, any order.
	// Used for batch resolution on the dashboard path.
	AllRateHistory(ctx context.Context) ([]RateHistoryRecord, error)
}
