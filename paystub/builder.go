/*
builder.go - Store-backed paystub and dashboard construction

PURPOSE:
  Fetches the source rows one computation needs, then delegates to the
  pure engine. Each Build call fetches everything it uses up-front: the
  engine assumes a single consistent snapshot and has no way to repair a
  read that straddled a concurrent edit.

RATE FALLBACK:
  The resolver reports "no history" explicitly; THIS layer applies the
  documented fallback to the worker's current PayRate. Paystubs record
  which of the two happened (FromHistory) so misconfigured workers are
  visible instead of silently priced.

SEE ALSO:
  - payroll/week.go, payroll/carryforward.go: The computations being fed
*/
package paystub

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/payroll"
)

// Builder constructs paystubs and dashboards from a Store snapshot.
type Builder struct {
	Store payroll.Store

	// Loc is the zone for worker-local day grouping.
	Loc *time.Location

	// AccountingStart bounds the carry-forward walk.
	AccountingStart time.Time
}

// NewBuilder wires a builder. loc must not be nil.
func NewBuilder(store payroll.Store, loc *time.Location, accountingStart time.Time) *Builder {
	return &Builder{Store: store, Loc: loc, AccountingStart: accountingStart}
}

// =============================================================================
// PAYSTUB
// =============================================================================

// BuildPaystub computes one worker's stub for the week containing asOf.
// A worker with no punches in the week still gets a stub (the request
// named them explicitly) with an empty breakdown, a zeroed summary, and
// the prior balance computed as usual; only the DASHBOARD omits them.
func (b *Builder) BuildPaystub(ctx context.Context, workerID payroll.WorkerID, asOf time.Time) (*Paystub, error) {
	week := payroll.WeekOf(asOf, b.Loc)

	worker, err := b.Store.GetWorker(ctx, workerID)
	if err != nil {
		return nil, fmt.Errorf("load worker: %w", err)
	}
	if worker == nil {
		return nil, &payroll.WorkerNotFoundError{WorkerID: workerID}
	}

	events, err := b.Store.WorkerEventsInRange(ctx, workerID, week.Start, windowEnd(week))
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	payouts, err := b.Store.WorkerPayoutsInRange(ctx, workerID, week.Start, windowEnd(week))
	if err != nil {
		return nil, fmt.Errorf("load payouts: %w", err)
	}
	history, err := b.Store.RateHistory(ctx, workerID)
	if err != nil {
		return nil, fmt.Errorf("load rate history: %w", err)
	}

	rate, fromHistory := payroll.EffectiveRate(history, workerID, week.Start)
	if !fromHistory {
		rate = worker.PayRate
	}

	days := payroll.PairDays(events, b.Loc)
	summary, ok := payroll.SummarizeWeek(*worker, week, events, payouts, rate, b.Loc)
	if !ok {
		summary = payroll.WeeklySummary{WorkerID: workerID, WeekStart: week.Start, WeekEnd: week.End}
	}

	prior, err := b.priorBalance(ctx, *worker, history, week.Start)
	if err != nil {
		return nil, err
	}
	summary.PriorBalance = prior

	return &Paystub{
		WorkerID:       worker.ID,
		WorkerName:     worker.Name,
		WorkerCode:     worker.Code,
		Week:           week,
		PeriodLabel:    week.Label(),
		Days:           days,
		Payouts:        payouts,
		Summary:        summary,
		RateUsed:       rate,
		FromHistory:    fromHistory,
		MissingPunches: payroll.MissingPunchCount(days),
		TotalDue:       payroll.Round2(summary.BalanceDue.Add(prior)),
	}, nil
}

// priorBalance fetches the historical span [accounting start, week start)
// for one worker and runs the carry-forward accumulator over it.
func (b *Builder) priorBalance(ctx context.Context, worker payroll.Worker, history []payroll.RateHistoryRecord, currentWeekStart time.Time) (decimal.Decimal, error) {
	events, err := b.Store.WorkerEventsInRange(ctx, worker.ID, b.AccountingStart, currentWeekStart)
	if err != nil {
		return decimal.Zero, fmt.Errorf("load historical events: %w", err)
	}
	payouts, err := b.Store.WorkerPayoutsInRange(ctx, worker.ID, b.AccountingStart, currentWeekStart)
	if err != nil {
		return decimal.Zero, fmt.Errorf("load historical payouts: %w", err)
	}

	in := payroll.CarryForwardInput{
		Worker:  worker,
		Events:  events,
		Payouts: payouts,
		History: history,
		Floor:   b.AccountingStart,
	}
	return payroll.PriorBalance(in, currentWeekStart, b.Loc), nil
}

// =============================================================================
// DASHBOARD
// =============================================================================

// BuildDashboard computes the weekly overview for the week containing
// asOf. Workers without punches in-window are excluded; each included
// row carries that worker's prior balance so the dashboard can show what
// settling every stub would cost.
func (b *Builder) BuildDashboard(ctx context.Context, asOf time.Time) (*Dashboard, error) {
	week := payroll.WeekOf(asOf, b.Loc)

	workers, err := b.Store.ListWorkers(ctx)
	if err != nil {
		return nil, fmt.Errorf("load workers: %w", err)
	}
	events, err := b.Store.EventsInRange(ctx, week.Start, windowEnd(week))
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	payouts, err := b.Store.PayoutsInRange(ctx, week.Start, windowEnd(week))
	if err != nil {
		return nil, fmt.Errorf("load payouts: %w", err)
	}
	history, err := b.Store.AllRateHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("load rate history: %w", err)
	}

	ids := make([]payroll.WorkerID, len(workers))
	for i, w := range workers {
		ids[i] = w.ID
	}
	rates := payroll.EffectiveRates(history, ids, week.Start)

	eventsByWorker := make(map[payroll.WorkerID][]payroll.ClockEvent)
	for _, e := range events {
		eventsByWorker[e.WorkerID] = append(eventsByWorker[e.WorkerID], e)
	}
	payoutsByWorker := make(map[payroll.WorkerID][]payroll.Payout)
	for _, p := range payouts {
		payoutsByWorker[p.WorkerID] = append(payoutsByWorker[p.WorkerID], p)
	}
	historyByWorker := make(map[payroll.WorkerID][]payroll.RateHistoryRecord)
	for _, r := range history {
		historyByWorker[r.WorkerID] = append(historyByWorker[r.WorkerID], r)
	}

	dash := &Dashboard{Week: week}
	for _, w := range workers {
		wEvents := eventsByWorker[w.ID]
		if len(wEvents) == 0 {
			continue // No zero-rows on the weekly report
		}

		rate, ok := rates[w.ID]
		if !ok {
			rate = w.PayRate
		}

		summary, ok := payroll.SummarizeWeek(w, week, wEvents, payoutsByWorker[w.ID], rate, b.Loc)
		if !ok {
			continue
		}

		prior, err := b.priorBalance(ctx, w, historyByWorker[w.ID], week.Start)
		if err != nil {
			return nil, err
		}
		summary.PriorBalance = prior

		days := payroll.PairDays(wEvents, b.Loc)
		missing := payroll.MissingPunchCount(days)

		dash.Rows = append(dash.Rows, DashboardRow{
			WorkerID:       w.ID,
			WorkerName:     w.Name,
			WorkerCode:     w.Code,
			Summary:        summary,
			MissingPunches: missing,
			TotalDue:       payroll.Round2(summary.BalanceDue.Add(prior)),
		})

		dash.TotalGross = dash.TotalGross.Add(summary.GrossPay)
		dash.TotalNet = dash.TotalNet.Add(summary.NetPay)
		dash.TotalDue = dash.TotalDue.Add(summary.BalanceDue).Add(prior)
		dash.MissingPunches += missing
	}

	dash.TotalGross = payroll.Round2(dash.TotalGross)
	dash.TotalNet = payroll.Round2(dash.TotalNet)
	dash.TotalDue = payroll.Round2(dash.TotalDue)
	return dash, nil
}
