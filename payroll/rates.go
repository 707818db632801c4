/*
rates.go - Historical pay-rate resolution

PURPOSE:
  Answers "what rate was this worker on, on this date?" by selecting from
  the worker's append-only rate history. The history is a step function:
  each record sets the rate from its effective date until the next record.

SELECTION RULE:
  The effective rate at asOf is the rate of the record with the greatest
  EffectiveFrom <= asOf. Ties on EffectiveFrom (two edits dated the same
  day) break toward the latest CreatedAt, then the greater record ID.

NO-HISTORY IS NOT AN ERROR:
  A worker with no qualifying record resolves to (zero, false). Falling
  back to the worker's current PayRate is deliberately the CALLER's job:
  a resolver that defaulted internally would hide misconfiguration from
  callers that need to distinguish "historical rate" from "guessed rate".

WHY EDITS ARE DATED NOW:
  A rate edit appends a record effective at the moment of the edit, never
  backdated. Historical payroll runs are therefore immune to a rate change
  made today; retroactive corrections require explicitly inserting a
  record with a past effective date.

SEE ALSO:
  - week.go: Resolves the rate at each week's start date
  - carryforward.go: Resolves per historical week independently
*/
package payroll

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SINGLE RESOLUTION
// =============================================================================

// EffectiveRate returns the rate in force for workerID on asOf, selecting
// from records (any order, may contain other workers' rows). ok is false
// when no record has EffectiveFrom <= asOf; the caller decides the fallback.
func EffectiveRate(records []RateHistoryRecord, workerID WorkerID, asOf time.Time) (decimal.Decimal, bool) {
	var best *RateHistoryRecord
	for i := range records {
		r := &records[i]
		if r.WorkerID != workerID || r.EffectiveFrom.After(asOf) {
			continue
		}
		if best == nil || wins(r, best) {
			best = r
		}
	}
	if best == nil {
		return decimal.Zero, false
	}
	return best.Rate, true
}

// wins reports whether a beats b as the most recent qualifying record.
func wins(a, b *RateHistoryRecord) bool {
	if !a.EffectiveFrom.Equal(b.EffectiveFrom) {
		return a.EffectiveFrom.After(b.EffectiveFrom)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

// =============================================================================
// BATCH RESOLUTION
// =============================================================================

// EffectiveRates resolves many workers at one date in a single pass over a
// combined pre-sorted record set. Pure optimization: the result agrees
// pointwise with calling EffectiveRate once per worker. Workers with no
// qualifying record are absent from the map.
func EffectiveRates(records []RateHistoryRecord, workerIDs []WorkerID, asOf time.Time) map[WorkerID]decimal.Decimal {
	wanted := make(map[WorkerID]bool, len(workerIDs))
	for _, id := range workerIDs {
		wanted[id] = true
	}

	// Sort so the winning record per worker is the last qualifying one seen.
	sorted := make([]RateHistoryRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return wins(&sorted[j], &sorted[i])
	})

	rates := make(map[WorkerID]decimal.Decimal, len(workerIDs))
	for i := range sorted {
		r := &sorted[i]
		if !wanted[r.WorkerID] || r.EffectiveFrom.After(asOf) {
			continue
		}
		rates[r.WorkerID] = r.Rate
	}
	return rates
}
