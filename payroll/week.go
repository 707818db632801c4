/*
week.go - Weekly pay-period aggregation

PURPOSE:
  Composes pairing, the overtime split, and the resolved rate over one
  Monday-Sunday window into a single WeeklySummary per worker.

ALGORITHM (per worker, per week):
  1. Group + pair all in-window events -> per-day results -> totalHours.
  2. Split into regular/overtime per the worker's policy; price at the
     rate resolved for the week's start date.
  3. totalPayouts = sum of in-window balance-increasing payouts
     (excludes payment and loan_repayment kinds).
  4. netPay = grossPay - totalPayouts
  5. totalPaid = sum of in-window kind=payment payouts
  6. balanceDue = max(0, round2(netPay - totalPaid))

ZERO-EVENT WEEKS:
  A worker with no events in-window produces no summary at all. No
  zero-row is emitted: unscheduled workers do not appear in weekly
  reports. This is a product decision, not an accident.

SEE ALSO:
  - carryforward.go: Re-runs this aggregation per historical week
  - paystub: Composes summaries into paystub/dashboard output
*/
package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// WEEK - Monday-Sunday pay period window
// =============================================================================

// Week is one Monday-Sunday pay period. Start is the Monday midnight,
// End the Sunday midnight, both in the deployment's local zone.
type Week struct {
	Start time.Time
	End   time.Time
}

// WeekOf returns the Monday-Sunday week containing t, in loc.
func WeekOf(t time.Time, loc *time.Location) Week {
	day := LocalDay(t, loc)
	// time.Weekday: Sunday=0 ... Saturday=6. Shift so Monday opens the week.
	offset := (int(day.Weekday()) + 6) % 7
	start := day.AddDate(0, 0, -offset)
	return Week{Start: start, End: start.AddDate(0, 0, 6)}
}

// Contains reports whether t's local day falls inside the week.
func (w Week) Contains(t time.Time, loc *time.Location) bool {
	day := LocalDay(t, loc)
	return !day.Before(w.Start) && !day.After(w.End)
}

// Previous returns the week immediately before this one.
func (w Week) Previous() Week {
	return Week{Start: w.Start.AddDate(0, 0, -7), End: w.End.AddDate(0, 0, -7)}
}

// Next returns the week immediately after this one.
func (w Week) Next() Week {
	return Week{Start: w.Start.AddDate(0, 0, 7), End: w.End.AddDate(0, 0, 7)}
}

// Label renders the week for paystub headers, e.g. "2026-03-02 - 2026-03-08".
func (w Week) Label() string {
	return w.Start.Format("2006-01-02") + " - " + w.End.Format("2006-01-02")
}

// =============================================================================
// WEEKLY SUMMARY
// =============================================================================

// SummarizeWeek computes one worker's summary for one week. events and
// payouts must already be filtered to the worker and window by the caller;
// rate is the resolved rate for the week's start date (after any fallback).
// ok is false when the worker has zero in-window events, in which case no
// summary is emitted.
func SummarizeWeek(worker Worker, week Week, events []ClockEvent, payouts []Payout, rate decimal.Decimal, loc *time.Location) (WeeklySummary, bool) {
	if len(events) == 0 {
		return WeeklySummary{}, false
	}

	days := PairDays(events, loc)
	totalHours := decimal.Zero
	for _, d := range days {
		totalHours = totalHours.Add(d.TotalHours)
	}

	split := Split(totalHours, worker.Overtime)
	pay := PayFor(split, rate, worker.Overtime)

	totalPayouts := decimal.Zero
	totalPaid := decimal.Zero
	for _, p := range payouts {
		switch {
		case p.Kind == PayoutPayment:
			totalPaid = totalPaid.Add(p.Amount)
		case !p.Kind.BalanceReducing():
			totalPayouts = totalPayouts.Add(p.Amount)
		}
		// loan_repayment reduces the loan principal, not this week's figures.
	}

	netPay := pay.Gross.Sub(totalPayouts)
	balanceDue := Round2(netPay.Sub(totalPaid))
	if balanceDue.IsNegative() {
		balanceDue = decimal.Zero
	}

	return WeeklySummary{
		WorkerID:      worker.ID,
		WeekStart:     week.Start,
		WeekEnd:       week.End,
		TotalHours:    totalHours,
		RegularHours:  split.Regular,
		OvertimeHours: split.Overtime,
		RegularPay:    Round2(pay.RegularPay),
		OvertimePay:   Round2(pay.OvertimePay),
		GrossPay:      Round2(pay.Gross),
		TotalPayouts:  Round2(totalPayouts),
		NetPay:        Round2(netPay),
		TotalPaid:     Round2(totalPaid),
		BalanceDue:    balanceDue,
	}, true
}

// MissingPunchCount sums the issue-day flags across day results. Dashboards
// surface this as a "missing punches" count for review.
func MissingPunchCount(days []DayResult) int {
	n := 0
	for _, d := range days {
		if d.HasIssue {
			n++
		}
	}
	return n
}
