/*
carryforward.go - Prior-balance accumulation across historical weeks

PURPOSE:
  Computes the "prior balance" figure on a paystub: everything still owed
  to the worker from weeks before the current pay period. Each historical
  week is re-derived from scratch with that week's own events, payouts,
  and resolved rate, then its unpaid remainder is floored at zero and
  summed.

WHY RE-DERIVE EVERY TIME:
  There is deliberately no cache and no incremental bookkeeping. A
  backdated punch, payout, or rate correction must retroactively change
  every later prior-balance figure, and recomputing the whole history per
  call achieves that with zero invalidation logic. History is bounded by
  the accounting-start floor date, so the walk stays small.

ROUNDING:
  Each week's net and paid figures are rounded to 2 decimals (inside
  SummarizeWeek), the remainder floored at zero, contributions summed,
  and the sum rounded again. The per-week floor is load-bearing ("never
  owe negative"); the double rounding can drift a few cents over many
  weeks versus rounding once at the end. Kept as-is. See DESIGN.md.

SEE ALSO:
  - week.go: The per-week aggregation being replayed
  - rates.go: Week-start rate resolution per historical week
*/
package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// CarryForwardInput bundles everything the accumulator walks. events,
// payouts, and history should come from one consistent snapshot and cover
// at least [floor, currentWeekStart); rows outside that span are ignored.
type CarryForwardInput struct {
	Worker  Worker
	Events  []ClockEvent
	Payouts []Payout
	History []RateHistoryRecord

	// Floor bounds how far back the walk goes. Weeks starting before the
	// floor's week contribute nothing.
	Floor time.Time
}

// PriorBalance sums max(0, weekNet - weekPaid) over every week strictly
// before currentWeekStart and on/after the floor. Each week uses its own
// resolved rate (week-start date) and its own in-window rows; a week with
// no events contributes nothing, matching SummarizeWeek.
func PriorBalance(in CarryForwardInput, currentWeekStart time.Time, loc *time.Location) decimal.Decimal {
	current := LocalDay(currentWeekStart, loc)
	floorWeek := WeekOf(in.Floor, loc)

	eventsByWeek := make(map[time.Time][]ClockEvent)
	for _, e := range in.Events {
		wk := WeekOf(e.Timestamp, loc)
		if wk.Start.Before(floorWeek.Start) || !wk.Start.Before(current) {
			continue
		}
		eventsByWeek[wk.Start] = append(eventsByWeek[wk.Start], e)
	}

	payoutsByWeek := make(map[time.Time][]Payout)
	for _, p := range in.Payouts {
		wk := WeekOf(p.Date, loc)
		if wk.Start.Before(floorWeek.Start) || !wk.Start.Before(current) {
			continue
		}
		payoutsByWeek[wk.Start] = append(payoutsByWeek[wk.Start], p)
	}

	total := decimal.Zero
	for start, events := range eventsByWeek {
		week := Week{Start: start, End: start.AddDate(0, 0, 6)}

		rate, ok := EffectiveRate(in.History, in.Worker.ID, week.Start)
		if !ok {
			rate = in.Worker.PayRate
		}

		summary, ok := SummarizeWeek(in.Worker, week, events, payoutsByWeek[start], rate, loc)
		if !ok {
			continue
		}

		remainder := summary.NetPay.Sub(summary.TotalPaid)
		if remainder.IsPositive() {
			total = total.Add(remainder)
		}
	}
	return Round2(total)
}
