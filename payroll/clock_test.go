package payroll_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func punch(worker string, ts time.Time, id string) payroll.ClockEvent {
	return payroll.ClockEvent{
		ID:        payroll.EventID(id),
		WorkerID:  payroll.WorkerID(worker),
		Timestamp: ts,
		Kind:      payroll.KindClockIn,
		Source:    payroll.SourceImport,
	}
}

func at(day time.Time, hour, min int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, min, 0, 0, day.Location())
}

var monday = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

// =============================================================================
// GROUPING
// =============================================================================

func TestGroupByLocalDay_MidnightStraddle(t *testing.T) {
	// GIVEN: Two punches five minutes apart straddling local midnight
	// WHEN: Grouping by local day
	// THEN: They land on different days

	e1 := punch("w1", at(monday, 23, 58), "e1")
	e2 := punch("w1", at(monday.AddDate(0, 0, 1), 0, 3), "e2")

	byDay := payroll.GroupByLocalDay([]payroll.ClockEvent{e1, e2}, time.UTC)

	require.Len(t, byDay, 2)
	assert.Len(t, byDay[monday], 1)
	assert.Len(t, byDay[monday.AddDate(0, 0, 1)], 1)
}

func TestGroupByLocalDay_ZoneMatters(t *testing.T) {
	// GIVEN: A punch at 03:00 UTC
	// WHEN: Grouped in a zone five hours behind UTC
	// THEN: It belongs to the previous local day

	behind := time.FixedZone("UTC-5", -5*3600)
	e := punch("w1", at(monday, 3, 0), "e1")

	byDay := payroll.GroupByLocalDay([]payroll.ClockEvent{e}, behind)

	require.Len(t, byDay, 1)
	prevDay := time.Date(2026, time.March, 1, 0, 0, 0, 0, behind)
	assert.Len(t, byDay[prevDay], 1)
}

// =============================================================================
// PAIRING
// =============================================================================

func TestPairDay_PositionalPairing(t *testing.T) {
	// GIVEN: Four punches, kind tags deliberately wrong (all "in")
	// WHEN: Pairing
	// THEN: Sorted indices (0,1) and (2,3) pair regardless of kind

	events := []payroll.ClockEvent{
		punch("w1", at(monday, 9, 0), "e1"),
		punch("w1", at(monday, 12, 0), "e2"),
		punch("w1", at(monday, 13, 0), "e3"),
		punch("w1", at(monday, 17, 0), "e4"),
	}

	day := payroll.PairDay(monday, events)

	require.Len(t, day.Intervals, 2)
	assert.False(t, day.HasIssue)
	assert.Equal(t, "7", day.TotalHours.String(), "3h morning + 4h afternoon")
}

func TestPairDay_OddCount_FlagsIssueAndKeepsCompletePairs(t *testing.T) {
	// GIVEN: Three punches (one missing clock-out)
	// WHEN: Pairing
	// THEN: HasIssue set, complete pair still counts, trailing punch is 0h

	events := []payroll.ClockEvent{
		punch("w1", at(monday, 9, 0), "e1"),
		punch("w1", at(monday, 17, 0), "e2"),
		punch("w1", at(monday, 18, 0), "e3"),
	}

	day := payroll.PairDay(monday, events)

	assert.True(t, day.HasIssue)
	require.Len(t, day.Intervals, 2)
	assert.Nil(t, day.Intervals[1].Out)
	assert.Equal(t, "8", day.TotalHours.String())
}

func TestPairDay_IssueFlag_ZeroAndOneEvent(t *testing.T) {
	empty := payroll.PairDay(monday, nil)
	assert.False(t, empty.HasIssue)
	assert.True(t, empty.TotalHours.IsZero())
	assert.Empty(t, empty.Intervals)

	single := payroll.PairDay(monday, []payroll.ClockEvent{punch("w1", at(monday, 9, 0), "e1")})
	assert.True(t, single.HasIssue)
	assert.True(t, single.TotalHours.IsZero())
	require.Len(t, single.Intervals, 1)
	assert.Nil(t, single.Intervals[0].Out)
}

func TestPairDay_Determinism_UnderPermutation(t *testing.T) {
	// GIVEN: A day's events in arbitrary input order
	// WHEN: Pairing several shuffled permutations
	// THEN: Every permutation yields the identical result

	events := []payroll.ClockEvent{
		punch("w1", at(monday, 9, 0), "e1"),
		punch("w1", at(monday, 12, 30), "e2"),
		punch("w1", at(monday, 13, 15), "e3"),
		punch("w1", at(monday, 17, 45), "e4"),
		punch("w1", at(monday, 19, 0), "e5"),
	}
	want := payroll.PairDay(monday, events)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := make([]payroll.ClockEvent, len(events))
		copy(shuffled, events)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got := payroll.PairDay(monday, shuffled)
		require.Equal(t, want.HasIssue, got.HasIssue)
		require.True(t, want.TotalHours.Equal(got.TotalHours))
		require.Len(t, got.Intervals, len(want.Intervals))
		for j := range want.Intervals {
			assert.Equal(t, want.Intervals[j].In.ID, got.Intervals[j].In.ID)
		}
	}
}

func TestPairDays_OrderedByDate(t *testing.T) {
	events := []payroll.ClockEvent{
		punch("w1", at(monday.AddDate(0, 0, 2), 9, 0), "e3"),
		punch("w1", at(monday, 9, 0), "e1"),
		punch("w1", at(monday, 17, 0), "e2"),
	}

	days := payroll.PairDays(events, time.UTC)

	require.Len(t, days, 2)
	assert.Equal(t, monday, days[0].Date)
	assert.True(t, days[0].Date.Before(days[1].Date))
}

// =============================================================================
// DOUBLE-PUNCH FILTER
// =============================================================================

func TestFilterBounces_DropsCloseSecondPunch(t *testing.T) {
	// GIVEN: Two punches 30 seconds apart for the same worker
	// WHEN: Filtering
	// THEN: The second is discarded as a reader bounce

	e1 := punch("w1", at(monday, 9, 0), "e1")
	e2 := punch("w1", at(monday, 9, 0).Add(30*time.Second), "e2")

	kept := payroll.FilterBounces([]payroll.ClockEvent{e1, e2}, payroll.DefaultBounceWindow)

	require.Len(t, kept, 1)
	assert.Equal(t, payroll.EventID("e1"), kept[0].ID)
}

func TestFilterBounces_KeepsSpacedPunches(t *testing.T) {
	// GIVEN: Two punches 90 seconds apart
	// THEN: Both survive

	e1 := punch("w1", at(monday, 9, 0), "e1")
	e2 := punch("w1", at(monday, 9, 0).Add(90*time.Second), "e2")

	kept := payroll.FilterBounces([]payroll.ClockEvent{e1, e2}, payroll.DefaultBounceWindow)
	assert.Len(t, kept, 2)
}

func TestFilterBounces_PerWorker(t *testing.T) {
	// Punches from different workers never bounce each other.
	e1 := punch("w1", at(monday, 9, 0), "e1")
	e2 := punch("w2", at(monday, 9, 0).Add(10*time.Second), "e2")

	kept := payroll.FilterBounces([]payroll.ClockEvent{e1, e2}, payroll.DefaultBounceWindow)
	assert.Len(t, kept, 2)
}

func TestFilterBounces_NotRetroactive(t *testing.T) {
	// GIVEN: Three punches at t=0s, 40s, 80s
	// WHEN: Filtering with a 60s window
	// THEN: t=40s bounces off t=0s; t=80s compares against t=0s (the last
	//       ACCEPTED punch, not the dropped one) and survives.

	base := at(monday, 9, 0)
	events := []payroll.ClockEvent{
		punch("w1", base, "e1"),
		punch("w1", base.Add(40*time.Second), "e2"),
		punch("w1", base.Add(80*time.Second), "e3"),
	}

	kept := payroll.FilterBounces(events, payroll.DefaultBounceWindow)

	require.Len(t, kept, 2)
	assert.Equal(t, payroll.EventID("e1"), kept[0].ID)
	assert.Equal(t, payroll.EventID("e3"), kept[1].ID)
}

func TestFilterBounces_SortsBeforeFiltering(t *testing.T) {
	// Input arrives unsorted; the filter must sort by (worker, time) first.
	base := at(monday, 9, 0)
	events := []payroll.ClockEvent{
		punch("w1", base.Add(30*time.Second), "late"),
		punch("w1", base, "early"),
	}

	kept := payroll.FilterBounces(events, payroll.DefaultBounceWindow)

	require.Len(t, kept, 1)
	assert.Equal(t, payroll.EventID("early"), kept[0].ID)
}
