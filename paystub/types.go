/*
Package paystub composes the payroll engine into paystub and dashboard
output.

PURPOSE:
  The payroll package is pure: it computes over slices it is handed. This
  package is the composition layer that fetches those slices from a
  payroll.Store, applies the current-rate fallback when a worker has no
  rate history, runs the weekly aggregation and the carry-forward walk,
  and shapes the result for presentation.

KEY CONCEPTS:
  - Paystub: One worker, one week. Daily breakdown, payout list, weekly
    summary, prior balance carried in from earlier weeks.
  - Dashboard: One week, all workers with punches in-window. Workers with
    zero events are excluded entirely (no zero-rows).

ALL FIGURES ARE DERIVED:
  Nothing here is persisted. Every request recomputes from source rows,
  so a backdated punch or a retroactive rate record changes the answer
  immediately.

SEE ALSO:
  - builder.go: Store-backed construction
  - pdf.go: gofpdf rendering
*/
package paystub

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// PAYSTUB - One worker, one week
// =============================================================================

// Paystub is the paystub-shaped aggregate handed to the presentation
// layer. Monetary figures are rounded to 2 decimals.
type Paystub struct {
	WorkerID   payroll.WorkerID
	WorkerName string
	WorkerCode string

	Week        payroll.Week
	PeriodLabel string

	// Days is the daily breakdown, ordered by date. Empty when the worker
	// had no punches in the week.
	Days []payroll.DayResult

	// Payouts lists the in-window payout rows of every kind.
	Payouts []payroll.Payout

	Summary payroll.WeeklySummary

	// RateUsed is the rate the summary was priced at. FromHistory is
	// false when the resolver found no record and the worker's current
	// PayRate was used instead.
	RateUsed    decimal.Decimal
	FromHistory bool

	// MissingPunches counts issue days (odd punch count) in the week.
	MissingPunches int

	// TotalDue = BalanceDue + PriorBalance: what a full settlement of
	// this stub would pay out.
	TotalDue decimal.Decimal
}

// =============================================================================
// DASHBOARD - One week, all scheduled workers
// =============================================================================

// DashboardRow is one worker's line on the weekly dashboard.
type DashboardRow struct {
	WorkerID       payroll.WorkerID
	WorkerName     string
	WorkerCode     string
	Summary        payroll.WeeklySummary
	MissingPunches int
	TotalDue       decimal.Decimal
}

// Dashboard is the weekly overview. Rows are ordered by worker name and
// include only workers with at least one in-window punch.
type Dashboard struct {
	Week payroll.Week
	Rows []DashboardRow

	TotalGross     decimal.Decimal
	TotalNet       decimal.Decimal
	TotalDue       decimal.Decimal
	MissingPunches int
}

// windowEnd returns the exclusive upper bound of a week's event window.
func windowEnd(w payroll.Week) time.Time {
	return w.End.AddDate(0, 0, 1)
}
