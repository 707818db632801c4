/*
Package sqlite provides a SQLite-backed implementation of payroll.Store.

PURPOSE:
  Persists the payroll source rows (workers, clock events, payouts, rate
  history). Derived values are never written: every summary is recomputed
  from these tables on each query.

APPEND-ONLY RATE HISTORY:
  The rate_history table has no UPDATE and no DELETE path. A rate change
  goes through UpdateWorkerRate, which updates the worker row and appends
  the history record inside one transaction, keeping the worker's current
  rate mirrored by the newest record.

KEY TABLES:
  workers:       Payees with current rate and overtime policy
  clock_events:  Raw punches (import or manual entry)
  payouts:       Advances, loans, payments, repayments
  rate_history:  Append-only step function of rate over time

INDEXES:
  idx_events_worker_ts:   The hot path - weekly window fetches
  idx_payouts_worker_date
  idx_rate_history_worker

WAL MODE:
  Opened with WAL for better concurrency: multiple readers don't block,
  single writer at a time, better crash recovery.

MONEY COLUMNS:
  Rates and amounts are stored as decimal TEXT, never REAL, and parsed
  back through shopspring/decimal.

USAGE:
  st, err := sqlite.New("./data/payroll.db")
  if err != nil {
      log.Fatal(err)
  }
  defer st.Close()

SEE ALSO:
  - payroll/store.go: Interface definition
  - payroll/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/payroll"
)

// timeFormat is RFC3339 with fixed-width nanoseconds. RFC3339Nano trims
// trailing fractional zeros, which breaks lexicographic range scans over
// the TEXT columns ("...00.5Z" sorts before "...00Z"); every digit is
// kept so string order is chronological order.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Store implements payroll.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS workers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		code TEXT NOT NULL DEFAULT '',
		pay_rate TEXT NOT NULL,
		ot_enabled INTEGER NOT NULL DEFAULT 0,
		ot_threshold TEXT NOT NULL DEFAULT '0',
		ot_multiplier TEXT NOT NULL DEFAULT '1',
		active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS clock_events (
		id TEXT PRIMARY KEY,
		worker_id TEXT NOT NULL REFERENCES workers(id),
		ts TEXT NOT NULL,
		kind TEXT NOT NULL,
		source TEXT NOT NULL,
		raw_text TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	-- Hot path: weekly window fetches per worker
	CREATE INDEX IF NOT EXISTS idx_events_worker_ts
		ON clock_events(worker_id, ts);
	CREATE INDEX IF NOT EXISTS idx_events_ts
		ON clock_events(ts);

	CREATE TABLE IF NOT EXISTS payouts (
		id TEXT PRIMARY KEY,
		worker_id TEXT NOT NULL REFERENCES workers(id),
		amount TEXT NOT NULL,
		kind TEXT NOT NULL,
		date TEXT NOT NULL,
		note TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_payouts_worker_date
		ON payouts(worker_id, date);
	CREATE INDEX IF NOT EXISTS idx_payouts_date
		ON payouts(date);

	-- Append-only: no UPDATE or DELETE ever runs against this table
	CREATE TABLE IF NOT EXISTS rate_history (
		id TEXT PRIMARY KEY,
		worker_id TEXT NOT NULL REFERENCES workers(id),
		rate TEXT NOT NULL,
		effective_from TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_rate_history_worker
		ON rate_history(worker_id, effective_from);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// WORKERS
// =============================================================================

func (s *Store) CreateWorker(ctx context.Context, w payroll.Worker, seed payroll.RateHistoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO workers (id, name, code, pay_rate, ot_enabled, ot_threshold, ot_multiplier, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(w.ID), w.Name, w.Code, w.PayRate.String(),
		boolInt(w.Overtime.Enabled), w.Overtime.ThresholdHours.String(), w.Overtime.Multiplier.String(),
		boolInt(w.Active), w.CreatedAt.UTC().Format(timeFormat))
	if err != nil {
		return fmt.Errorf("insert worker: %w", err)
	}

	if err := insertRateRecord(ctx, tx, seed); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) GetWorker(ctx context.Context, id payroll.WorkerID) (*payroll.Worker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, code, pay_rate, ot_enabled, ot_threshold, ot_multiplier, active, created_at
		FROM workers WHERE id = ?`, string(id))

	w, err := scanWorker(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (s *Store) ListWorkers(ctx context.Context) ([]payroll.Worker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, code, pay_rate, ot_enabled, ot_threshold, ot_multiplier, active, created_at
		FROM workers ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workers []payroll.Worker
	for rows.Next() {
		w, err := scanWorker(rows)
		if err != nil {
			return nil, err
		}
		workers = append(workers, *w)
	}
	return workers, rows.Err()
}

func (s *Store) UpdateWorkerRate(ctx context.Context, rec payroll.RateHistoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE workers SET pay_rate = ? WHERE id = ?`,
		rec.Rate.String(), string(rec.WorkerID))
	if err != nil {
		return fmt.Errorf("update worker rate: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &payroll.WorkerNotFoundError{WorkerID: rec.WorkerID}
	}

	if err := insertRateRecord(ctx, tx, rec); err != nil {
		return err
	}
	return tx.Commit()
}

func insertRateRecord(ctx context.Context, tx *sql.Tx, rec payroll.RateHistoryRecord) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO rate_history (id, worker_id, rate, effective_from, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		string(rec.ID), string(rec.WorkerID), rec.Rate.String(),
		rec.EffectiveFrom.UTC().Format(timeFormat),
		rec.CreatedAt.UTC().Format(timeFormat))
	if err != nil {
		return fmt.Errorf("append rate record: %w", err)
	}
	return nil
}

// =============================================================================
// EVENTS
// =============================================================================

func (s *Store) InsertEvents(ctx context.Context, events []payroll.ClockEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range events {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO clock_events (id, worker_id, ts, kind, source, raw_text, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			string(e.ID), string(e.WorkerID),
			e.Timestamp.UTC().Format(timeFormat),
			string(e.Kind), string(e.Source), e.RawText,
			e.CreatedAt.UTC().Format(timeFormat))
		if err != nil {
			return insertEventError(err, e)
		}
	}
	return tx.Commit()
}

// insertEventError maps the driver's constraint codes: a primary-key or
// unique conflict is a duplicate punch, a foreign-key failure a missing
// worker. Anything else passes through wrapped.
func insertEventError(err error, e payroll.ClockEvent) error {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		switch serr.ExtendedCode {
		case sqlite3.ErrConstraintPrimaryKey, sqlite3.ErrConstraintUnique:
			return fmt.Errorf("%w: %s", payroll.ErrDuplicateEvent, e.ID)
		case sqlite3.ErrConstraintForeignKey:
			return &payroll.WorkerNotFoundError{WorkerID: e.WorkerID}
		}
	}
	return fmt.Errorf("insert event %s: %w", e.ID, err)
}

func (s *Store) EventsInRange(ctx context.Context, from, to time.Time) ([]payroll.ClockEvent, error) {
	return s.queryEvents(ctx, `
		SELECT id, worker_id, ts, kind, source, raw_text, created_at
		FROM clock_events WHERE ts >= ? AND ts < ?
		ORDER BY worker_id, ts`,
		from.UTC().Format(timeFormat), to.UTC().Format(timeFormat))
}

func (s *Store) WorkerEventsInRange(ctx context.Context, id payroll.WorkerID, from, to time.Time) ([]payroll.ClockEvent, error) {
	return s.queryEvents(ctx, `
		SELECT id, worker_id, ts, kind, source, raw_text, created_at
		FROM clock_events WHERE worker_id = ? AND ts >= ? AND ts < ?
		ORDER BY ts`,
		string(id), from.UTC().Format(timeFormat), to.UTC().Format(timeFormat))
}

func (s *Store) queryEvents(ctx context.Context, query string, args ...any) ([]payroll.ClockEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []payroll.ClockEvent
	for rows.Next() {
		var e payroll.ClockEvent
		var id, workerID, ts, kind, source, createdAt string
		if err := rows.Scan(&id, &workerID, &ts, &kind, &source, &e.RawText, &createdAt); err != nil {
			return nil, err
		}
		e.ID = payroll.EventID(id)
		e.WorkerID = payroll.WorkerID(workerID)
		e.Kind = payroll.EventKind(kind)
		e.Source = payroll.EventSource(source)
		if e.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("parse event timestamp: %w", err)
		}
		if e.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("parse event created_at: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// =============================================================================
// PAYOUTS
// =============================================================================

func (s *Store) InsertPayout(ctx context.Context, p payroll.Payout) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO payouts (id, worker_id, amount, kind, date, note)
		VALUES (?, ?, ?, ?, ?, ?)`,
		string(p.ID), string(p.WorkerID), p.Amount.String(), string(p.Kind),
		p.Date.UTC().Format(timeFormat), p.Note)
	if err != nil {
		return fmt.Errorf("insert payout: %w", err)
	}
	return nil
}

func (s *Store) PayoutsInRange(ctx context.Context, from, to time.Time) ([]payroll.Payout, error) {
	return s.queryPayouts(ctx, `
		SELECT id, worker_id, amount, kind, date, note
		FROM payouts WHERE date >= ? AND date < ?
		ORDER BY worker_id, date`,
		from.UTC().Format(timeFormat), to.UTC().Format(timeFormat))
}

func (s *Store) WorkerPayoutsInRange(ctx context.Context, id payroll.WorkerID, from, to time.Time) ([]payroll.Payout, error) {
	return s.queryPayouts(ctx, `
		SELECT id, worker_id, amount, kind, date, note
		FROM payouts WHERE worker_id = ? AND date >= ? AND date < ?
		ORDER BY date`,
		string(id), from.UTC().Format(timeFormat), to.UTC().Format(timeFormat))
}

func (s *Store) queryPayouts(ctx context.Context, query string, args ...any) ([]payroll.Payout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payouts []payroll.Payout
	for rows.Next() {
		var p payroll.Payout
		var id, workerID, amount, kind, date string
		if err := rows.Scan(&id, &workerID, &amount, &kind, &date, &p.Note); err != nil {
			return nil, err
		}
		p.ID = payroll.PayoutID(id)
		p.WorkerID = payroll.WorkerID(workerID)
		p.Kind = payroll.PayoutKind(kind)
		if p.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parse payout amount: %w", err)
		}
		if p.Date, err = time.Parse(time.RFC3339Nano, date); err != nil {
			return nil, fmt.Errorf("parse payout date: %w", err)
		}
		payouts = append(payouts, p)
	}
	return payouts, rows.Err()
}

// =============================================================================
// RATE HISTORY
// =============================================================================

func (s *Store) RateHistory(ctx context.Context, id payroll.WorkerID) ([]payroll.RateHistoryRecord, error) {
	return s.queryHistory(ctx, `
		SELECT id, worker_id, rate, effective_from, created_at
		FROM rate_history WHERE worker_id = ?`, string(id))
}

func (s *Store) AllRateHistory(ctx context.Context) ([]payroll.RateHistoryRecord, error) {
	return s.queryHistory(ctx, `
		SELECT id, worker_id, rate, effective_from, created_at
		FROM rate_history`)
}

func (s *Store) queryHistory(ctx context.Context, query string, args ...any) ([]payroll.RateHistoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []payroll.RateHistoryRecord
	for rows.Next() {
		var r payroll.RateHistoryRecord
		var id, workerID, rate, effectiveFrom, createdAt string
		if err := rows.Scan(&id, &workerID, &rate, &effectiveFrom, &createdAt); err != nil {
			return nil, err
		}
		r.ID = payroll.RateRecordID(id)
		r.WorkerID = payroll.WorkerID(workerID)
		if r.Rate, err = decimal.NewFromString(rate); err != nil {
			return nil, fmt.Errorf("parse rate: %w", err)
		}
		if r.EffectiveFrom, err = time.Parse(time.RFC3339Nano, effectiveFrom); err != nil {
			return nil, fmt.Errorf("parse effective_from: %w", err)
		}
		if r.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// =============================================================================
// HELPERS
// =============================================================================

type scannable interface {
	Scan(dest ...any) error
}

func scanWorker(row scannable) (*payroll.Worker, error) {
	var w payroll.Worker
	var id, payRate, threshold, multiplier, createdAt string
	var otEnabled, active int
	err := row.Scan(&id, &w.Name, &w.Code, &payRate, &otEnabled, &threshold, &multiplier, &active, &createdAt)
	if err != nil {
		return nil, err
	}
	w.ID = payroll.WorkerID(id)
	w.Overtime.Enabled = otEnabled != 0
	w.Active = active != 0
	if w.PayRate, err = decimal.NewFromString(payRate); err != nil {
		return nil, fmt.Errorf("parse pay_rate: %w", err)
	}
	if w.Overtime.ThresholdHours, err = decimal.NewFromString(threshold); err != nil {
		return nil, fmt.Errorf("parse ot_threshold: %w", err)
	}
	if w.Overtime.Multiplier, err = decimal.NewFromString(multiplier); err != nil {
		return nil, fmt.Errorf("parse ot_multiplier: %w", err)
	}
	if w.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	return &w, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ payroll.Store = (*Store)(nil)
