/*
clock.go - Grouping, pairing, and double-punch filtering

PURPOSE:
  Converts a flat, possibly malformed stream of punches into per-day
  worked intervals. This is where missing and odd data is absorbed:
  an unmatched trailing punch never blocks computation, it only flags
  the day for review.

PAIRING RULES:
  1. Events are grouped by the calendar date of their timestamp in the
     deployment's local zone (NOT UTC). Two punches five minutes apart
     that straddle local midnight land on different days.
  2. Within a day, events are sorted ascending by timestamp. The sort is
     stable: ties keep their original order.
  3. Pairing is strictly positional: sorted indices (0,1), (2,3), (4,5)...
     The in/out kind tag on the event is ignored. A final unmatched event
     becomes an interval with a nil clock-out and zero hours.
  4. HasIssue is true iff the day has an odd number of events. Heuristic
     signal, not an error.

DOUBLE-PUNCH FILTER:
  Badge readers bounce: a worker swipes twice within seconds. During
  import, any event within the bounce window of the previously ACCEPTED
  event for the same worker is discarded. Single forward pass over the
  (worker, timestamp)-sorted stream; the filter never reconsiders an
  already-accepted event, so sort order is part of the contract.

SEE ALSO:
  - week.go: Runs grouping+pairing over a weekly window
  - types.go: ClockEvent, Interval, DayResult
*/
package payroll

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultBounceWindow is the spacing under which a second punch from the
// same worker is treated as a reader bounce and dropped during import.
const DefaultBounceWindow = 60 * time.Second

// =============================================================================
// GROUPING - Bucket events by worker-local calendar day
// =============================================================================

// LocalDay returns the midnight of t's calendar day in loc.
func LocalDay(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}

// GroupByLocalDay buckets events by the calendar date of their timestamp
// in loc. Events keep their input order within each bucket; PairDay does
// the per-day sorting.
func GroupByLocalDay(events []ClockEvent, loc *time.Location) map[time.Time][]ClockEvent {
	byDay := make(map[time.Time][]ClockEvent)
	for _, e := range events {
		day := LocalDay(e.Timestamp, loc)
		byDay[day] = append(byDay[day], e)
	}
	return byDay
}

// =============================================================================
// PAIRING - Positional in/out matching within one day
// =============================================================================

// PairDay sorts one day's events by timestamp (stable on ties) and pairs
// them positionally into intervals. The event kind tag is never consulted.
// An odd event count sets HasIssue and leaves the final interval open with
// zero hours; complete pairs still contribute to TotalHours.
func PairDay(date time.Time, events []ClockEvent) DayResult {
	sorted := make([]ClockEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	result := DayResult{
		Date:       date,
		TotalHours: decimal.Zero,
		HasIssue:   len(sorted)%2 == 1,
	}

	for i := 0; i < len(sorted); i += 2 {
		iv := Interval{In: sorted[i]}
		if i+1 < len(sorted) {
			out := sorted[i+1]
			iv.Out = &out
		}
		result.Intervals = append(result.Intervals, iv)
		result.TotalHours = result.TotalHours.Add(iv.Hours())
	}
	return result
}

// PairDays groups events by local day and pairs each day, returning the
// per-day results ordered by date ascending.
func PairDays(events []ClockEvent, loc *time.Location) []DayResult {
	byDay := GroupByLocalDay(events, loc)

	days := make([]time.Time, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	results := make([]DayResult, 0, len(days))
	for _, day := range days {
		results = append(results, PairDay(day, byDay[day]))
	}
	return results
}

// =============================================================================
// DOUBLE-PUNCH FILTER - Drop reader bounces before events are persisted
// =============================================================================

// FilterBounces sorts events by (worker, timestamp) ascending and drops any
// event within window of the previously accepted event for the same worker.
// One forward pass with a last-accepted-timestamp running value per worker;
// not retroactive. window <= 0 falls back to DefaultBounceWindow.
//
// This runs at intake, before events are persisted. Events already stored
// are never re-filtered.
func FilterBounces(events []ClockEvent, window time.Duration) []ClockEvent {
	if window <= 0 {
		window = DefaultBounceWindow
	}

	sorted := make([]ClockEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].WorkerID != sorted[j].WorkerID {
			return sorted[i].WorkerID < sorted[j].WorkerID
		}
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	lastAccepted := make(map[WorkerID]time.Time)
	kept := make([]ClockEvent, 0, len(sorted))
	for _, e := range sorted {
		if last, ok := lastAccepted[e.WorkerID]; ok {
			if e.Timestamp.Sub(last) < window {
				continue // Reader bounce
			}
		}
		lastAccepted[e.WorkerID] = e.Timestamp
		kept = append(kept, e)
	}
	return kept
}
