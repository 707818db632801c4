package payroll_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/payroll"
)

func rateRec(id, worker, rate string, from, created time.Time) payroll.RateHistoryRecord {
	return payroll.RateHistoryRecord{
		ID:            payroll.RateRecordID(id),
		WorkerID:      payroll.WorkerID(worker),
		Rate:          dec(rate),
		EffectiveFrom: from,
		CreatedAt:     created,
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// =============================================================================
// SINGLE RESOLUTION
// =============================================================================

func TestEffectiveRate_StepFunction(t *testing.T) {
	// GIVEN: Records {10 from Jan 1} and {12 from Jan 10}
	// THEN: Jan 9 -> 10, Jan 10 -> 12, prior Dec 31 -> no history

	records := []payroll.RateHistoryRecord{
		rateRec("r1", "w1", "10", date(2026, time.January, 1), date(2026, time.January, 1)),
		rateRec("r2", "w1", "12", date(2026, time.January, 10), date(2026, time.January, 10)),
	}

	rate, ok := payroll.EffectiveRate(records, "w1", date(2026, time.January, 9))
	require.True(t, ok)
	assert.Equal(t, "10", rate.String())

	rate, ok = payroll.EffectiveRate(records, "w1", date(2026, time.January, 10))
	require.True(t, ok)
	assert.Equal(t, "12", rate.String())

	_, ok = payroll.EffectiveRate(records, "w1", date(2025, time.December, 31))
	assert.False(t, ok, "no record is effective before the first one")
}

func TestEffectiveRate_IgnoresOtherWorkers(t *testing.T) {
	records := []payroll.RateHistoryRecord{
		rateRec("r1", "other", "99", date(2026, time.January, 1), date(2026, time.January, 1)),
	}
	_, ok := payroll.EffectiveRate(records, "w1", date(2026, time.June, 1))
	assert.False(t, ok)
}

func TestEffectiveRate_SameDayTie_LatestCreationWins(t *testing.T) {
	// GIVEN: Two records with the same effective date (a same-day correction)
	// THEN: The later-created record wins

	from := date(2026, time.February, 1)
	records := []payroll.RateHistoryRecord{
		rateRec("r1", "w1", "15", from, from.Add(9*time.Hour)),
		rateRec("r2", "w1", "16", from, from.Add(14*time.Hour)),
	}

	rate, ok := payroll.EffectiveRate(records, "w1", from)
	require.True(t, ok)
	assert.Equal(t, "16", rate.String())
}

func TestEffectiveRate_InputOrderIrrelevant(t *testing.T) {
	records := []payroll.RateHistoryRecord{
		rateRec("r2", "w1", "12", date(2026, time.January, 10), date(2026, time.January, 10)),
		rateRec("r1", "w1", "10", date(2026, time.January, 1), date(2026, time.January, 1)),
	}
	rate, ok := payroll.EffectiveRate(records, "w1", date(2026, time.March, 1))
	require.True(t, ok)
	assert.Equal(t, "12", rate.String())
}

// =============================================================================
// BATCH RESOLUTION
// =============================================================================

func TestEffectiveRates_AgreesWithSingleForm(t *testing.T) {
	// The batch form is a pure optimization: pointwise identical to
	// repeated single calls.

	records := []payroll.RateHistoryRecord{
		rateRec("r1", "w1", "10", date(2026, time.January, 1), date(2026, time.January, 1)),
		rateRec("r2", "w1", "12", date(2026, time.January, 10), date(2026, time.January, 10)),
		rateRec("r3", "w2", "20", date(2026, time.January, 5), date(2026, time.January, 5)),
		rateRec("r4", "w3", "30", date(2026, time.June, 1), date(2026, time.June, 1)),
		rateRec("r5", "w2", "22", date(2026, time.January, 5), date(2026, time.January, 6)),
	}
	ids := []payroll.WorkerID{"w1", "w2", "w3", "w4"}

	for _, asOf := range []time.Time{
		date(2025, time.December, 1),
		date(2026, time.January, 5),
		date(2026, time.January, 15),
		date(2026, time.December, 31),
	} {
		batch := payroll.EffectiveRates(records, ids, asOf)
		for _, id := range ids {
			single, ok := payroll.EffectiveRate(records, id, asOf)
			got, inBatch := batch[id]
			require.Equal(t, ok, inBatch, "worker %s asOf %s", id, asOf.Format("2006-01-02"))
			if ok {
				assert.True(t, single.Equal(got), "worker %s asOf %s: single %s batch %s",
					id, asOf.Format("2006-01-02"), single, got)
			}
		}
	}
}

func TestEffectiveRates_OmitsUnrequestedWorkers(t *testing.T) {
	records := []payroll.RateHistoryRecord{
		rateRec("r1", "w1", "10", date(2026, time.January, 1), date(2026, time.January, 1)),
		rateRec("r2", "w2", "20", date(2026, time.January, 1), date(2026, time.January, 1)),
	}
	batch := payroll.EffectiveRates(records, []payroll.WorkerID{"w1"}, date(2026, time.June, 1))
	assert.Len(t, batch, 1)
	_, present := batch["w2"]
	assert.False(t, present)
}
