/*
Package payroll provides the core time-accounting and pay computation engine.

PURPOSE:
  This package turns raw clock-event streams into paid hours: it pairs
  punches into worked intervals, applies overtime rules, resolves the pay
  rate in effect on any historical date, and accumulates unpaid balances
  across successive weekly pay periods.

KEY CONCEPTS IN THIS FILE (types.go):
  - ClockEvent: One observed punch (in or out) for one worker
  - Worker: A payee with a current rate and an overtime policy
  - RateHistoryRecord: Append-only rate-change row (step function of rate)
  - Payout: Money movement outside the paycheck (advance, loan, payment)
  - DayResult / WeeklySummary: Derived results, recomputed on every query

DESIGN PRINCIPLES:
  1. Purity: Every function here is a pure function of its inputs.
     No I/O, no module-level state, no hidden clocks.
  2. Precision: Money and hours use decimal.Decimal, never float64.
  3. Recompute, don't cache: Derived values are cheap and always derived
     from source rows so late corrections are visible immediately.

SEE ALSO:
  - clock.go: Grouping, pairing, and double-punch filtering
  - overtime.go: Regular/overtime hour split and pay
  - rates.go: Historical rate resolution
  - week.go: Weekly summary aggregation
  - carryforward.go: Prior-balance accumulation across weeks
*/
package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type WorkerID string
type EventID string
type PayoutID string
type RateRecordID string

// =============================================================================
// CLOCK EVENT - One observed punch
// =============================================================================

// EventSource records how a punch entered the system.
type EventSource string

const (
	SourceImport EventSource = "import" // Parsed from an attendance log file
	SourceManual EventSource = "manual" // Entered by an administrator
)

// EventKind is the informational in/out tag on a punch. Pairing is
// positional and never consults this value; it exists for display only.
type EventKind string

const (
	KindClockIn  EventKind = "in"
	KindClockOut EventKind = "out"
)

// ClockEvent is one recorded punch. Immutable once created; corrections
// happen upstream (timestamp edit or delete by an admin), never here.
// Timestamp is assumed valid and already in the deployment's local zone
// semantics by the time it reaches this package.
type ClockEvent struct {
	ID        EventID
	WorkerID  WorkerID
	Timestamp time.Time
	Kind      EventKind
	Source    EventSource
	RawText   string // Original source line for imported punches, if any
	CreatedAt time.Time
}

// =============================================================================
// WORKER - A payee
// =============================================================================

// OvertimePolicy controls the weekly regular/overtime split.
type OvertimePolicy struct {
	Enabled        bool
	ThresholdHours decimal.Decimal
	Multiplier     decimal.Decimal
}

// Worker is a payee. PayRate is the CURRENT rate and is only a fallback:
// every rate change must also append a RateHistoryRecord, and historical
// computations resolve the rate through that history.
type Worker struct {
	ID        WorkerID
	Name      string
	Code      string
	PayRate   decimal.Decimal
	Overtime  OvertimePolicy
	Active    bool
	CreatedAt time.Time
}

// =============================================================================
// RATE HISTORY - Append-only step function of rate over time
// =============================================================================

// RateHistoryRecord is one step of a worker's rate-over-time function.
// The set of records for a worker, ordered by EffectiveFrom, determines
// the rate in force on any date. Append-only.
type RateHistoryRecord struct {
	ID            RateRecordID
	WorkerID      WorkerID
	Rate          decimal.Decimal
	EffectiveFrom time.Time
	CreatedAt     time.Time
}

// =============================================================================
// PAYOUT - Money movement outside the paycheck
// =============================================================================

type PayoutKind string

const (
	PayoutAdvance       PayoutKind = "advance"        // Early wage payment, deducted from pay
	PayoutLoan          PayoutKind = "loan"           // Lent money, deducted from pay
	PayoutPayment       PayoutKind = "payment"        // Payment against the outstanding balance
	PayoutLoanRepayment PayoutKind = "loan_repayment" // Worker repaying a loan to the business
)

// BalanceReducing reports whether this kind reduces what is still owed to
// the worker rather than adding a deduction. payment and loan_repayment
// represent money flowing against the balance already computed.
func (k PayoutKind) BalanceReducing() bool {
	return k == PayoutPayment || k == PayoutLoanRepayment
}

// Payout is one money movement. Created by external intake; read-only here.
type Payout struct {
	ID       PayoutID
	WorkerID WorkerID
	Amount   decimal.Decimal
	Kind     PayoutKind
	Date     time.Time
	Note     string
}

// =============================================================================
// DERIVED RESULTS - Never persisted, recomputed on every query
// =============================================================================

// Interval is one paired (in, out) span within a day. Out is nil for a
// trailing unmatched punch; such an interval contributes zero hours.
type Interval struct {
	In  ClockEvent
	Out *ClockEvent
}

// Hours returns the worked hours for this interval.
func (iv Interval) Hours() decimal.Decimal {
	if iv.Out == nil {
		return decimal.Zero
	}
	ms := iv.Out.Timestamp.Sub(iv.In.Timestamp).Milliseconds()
	return decimal.NewFromInt(ms).Div(msPerHour)
}

var msPerHour = decimal.NewFromInt(3_600_000)

// DayResult is one worker-local calendar day of paired punches.
// HasIssue flags an odd punch count: a data-quality signal for review,
// never a hard error. Complete pairs still count toward TotalHours.
type DayResult struct {
	Date       time.Time // Midnight, worker-local zone
	Intervals  []Interval
	TotalHours decimal.Decimal
	HasIssue   bool
}

// WeeklySummary is the per-worker result of one weekly pay period.
// All monetary fields are rounded to 2 decimals at construction.
type WeeklySummary struct {
	WorkerID  WorkerID
	WeekStart time.Time
	WeekEnd   time.Time

	TotalHours    decimal.Decimal
	RegularHours  decimal.Decimal
	OvertimeHours decimal.Decimal

	RegularPay  decimal.Decimal
	OvertimePay decimal.Decimal
	GrossPay    decimal.Decimal

	TotalPayouts decimal.Decimal // Balance-increasing payouts in-window
	NetPay       decimal.Decimal // GrossPay - TotalPayouts
	TotalPaid    decimal.Decimal // Kind=payment payouts in-window
	BalanceDue   decimal.Decimal // max(0, NetPay - TotalPaid), never negative

	PriorBalance decimal.Decimal // Carried in from earlier weeks, if computed
}

// =============================================================================
// ROUNDING
// =============================================================================

// Round2 rounds a monetary value to 2 decimal places, half up: a tie
// rounds toward positive infinity, so -0.005 becomes 0.00, not -0.01.
// (decimal.Round is half-away-from-zero and disagrees on negative ties,
// which a negative NetPay can reach.) Internal accumulation keeps full
// precision; rounding happens only where a value is finalized for a
// summary or an output boundary.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Shift(2).Add(decimal.New(5, -1)).Floor().Shift(-2)
}
