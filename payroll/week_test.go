package payroll_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/payroll"
)

func worker(id string, rate string, ot payroll.OvertimePolicy) payroll.Worker {
	return payroll.Worker{
		ID:       payroll.WorkerID(id),
		Name:     "Worker " + id,
		PayRate:  dec(rate),
		Overtime: ot,
		Active:   true,
	}
}

// shift appends a punch pair on day from from:00 to to:00.
func shift(events []payroll.ClockEvent, worker string, day time.Time, from, to int) []payroll.ClockEvent {
	n := len(events)
	return append(events,
		punch(worker, at(day, from, 0), itoa(worker, n)),
		punch(worker, at(day, to, 0), itoa(worker, n+1)),
	)
}

func itoa(worker string, n int) string {
	return worker + "-" + string(rune('a'+n))
}

// =============================================================================
// WEEK WINDOW
// =============================================================================

func TestWeekOf_MondayStart(t *testing.T) {
	// 2026-03-04 is a Wednesday; its week is Mon 03-02 .. Sun 03-08.
	wk := payroll.WeekOf(date(2026, time.March, 4), time.UTC)
	assert.Equal(t, date(2026, time.March, 2), wk.Start)
	assert.Equal(t, date(2026, time.March, 8), wk.End)
}

func TestWeekOf_SundayBelongsToPrecedingMonday(t *testing.T) {
	wk := payroll.WeekOf(date(2026, time.March, 8), time.UTC)
	assert.Equal(t, date(2026, time.March, 2), wk.Start)
}

func TestWeekOf_MondayIsItsOwnStart(t *testing.T) {
	wk := payroll.WeekOf(date(2026, time.March, 2), time.UTC)
	assert.Equal(t, date(2026, time.March, 2), wk.Start)
}

func TestWeek_Contains(t *testing.T) {
	wk := payroll.WeekOf(monday, time.UTC)
	assert.True(t, wk.Contains(at(monday.AddDate(0, 0, 6), 23, 59), time.UTC))
	assert.False(t, wk.Contains(at(monday.AddDate(0, 0, 7), 0, 1), time.UTC))
	assert.False(t, wk.Contains(monday.AddDate(0, 0, -1), time.UTC))
}

// =============================================================================
// WEEKLY SUMMARY
// =============================================================================

func TestSummarizeWeek_FortyHourWeek_NoOvertime(t *testing.T) {
	// GIVEN: $20/hr, OT at 40h/1.5x, Mon-Fri 9:00->17:00 (5 x 8h = 40h)
	// THEN: gross exactly 800.00 with zero overtime

	w := worker("w1", "20", standardOT())
	wk := payroll.WeekOf(monday, time.UTC)

	var events []payroll.ClockEvent
	for d := 0; d < 5; d++ {
		events = shift(events, "w1", monday.AddDate(0, 0, d), 9, 17)
	}

	sum, ok := payroll.SummarizeWeek(w, wk, events, nil, dec("20"), time.UTC)
	require.True(t, ok)

	assert.Equal(t, "40", sum.TotalHours.String())
	assert.Equal(t, "40", sum.RegularHours.String())
	assert.True(t, sum.OvertimeHours.IsZero())
	assert.Equal(t, "800.00", sum.GrossPay.StringFixed(2))
	assert.Equal(t, "800.00", sum.NetPay.StringFixed(2))
	assert.Equal(t, "800.00", sum.BalanceDue.StringFixed(2))
}

func TestSummarizeWeek_SaturdayPushesIntoOvertime(t *testing.T) {
	// GIVEN: The 40h week above plus Sat 9:00->13:00 (4h)
	// THEN: 44h total, 40h regular ($800), 4h overtime ($120), gross $920

	w := worker("w1", "20", standardOT())
	wk := payroll.WeekOf(monday, time.UTC)

	var events []payroll.ClockEvent
	for d := 0; d < 5; d++ {
		events = shift(events, "w1", monday.AddDate(0, 0, d), 9, 17)
	}
	events = shift(events, "w1", monday.AddDate(0, 0, 5), 9, 13)

	sum, ok := payroll.SummarizeWeek(w, wk, events, nil, dec("20"), time.UTC)
	require.True(t, ok)

	assert.Equal(t, "44", sum.TotalHours.String())
	assert.Equal(t, "40", sum.RegularHours.String())
	assert.Equal(t, "4", sum.OvertimeHours.String())
	assert.Equal(t, "800.00", sum.RegularPay.StringFixed(2))
	assert.Equal(t, "120.00", sum.OvertimePay.StringFixed(2))
	assert.Equal(t, "920.00", sum.GrossPay.StringFixed(2))
}

func TestSummarizeWeek_ZeroEvents_NoRowEmitted(t *testing.T) {
	// Unscheduled workers do not appear in weekly reports.
	w := worker("w1", "20", standardOT())
	wk := payroll.WeekOf(monday, time.UTC)

	payouts := []payroll.Payout{{
		ID: "p1", WorkerID: "w1", Amount: dec("50"),
		Kind: payroll.PayoutAdvance, Date: monday,
	}}

	_, ok := payroll.SummarizeWeek(w, wk, nil, payouts, dec("20"), time.UTC)
	assert.False(t, ok, "a week with payouts but no punches emits nothing")
}

func TestSummarizeWeek_PayoutClassification(t *testing.T) {
	// GIVEN: 8h at $20 (gross 160), an advance of 30, a loan of 20,
	//        a payment of 50, and a loan repayment of 10
	// THEN: deductions = 50 (advance+loan), paid = 50 (payment only),
	//       net = 110, balanceDue = 60; the repayment touches neither.

	w := worker("w1", "20", payroll.OvertimePolicy{})
	wk := payroll.WeekOf(monday, time.UTC)
	events := shift(nil, "w1", monday, 9, 17)

	payouts := []payroll.Payout{
		{ID: "p1", WorkerID: "w1", Amount: dec("30"), Kind: payroll.PayoutAdvance, Date: monday},
		{ID: "p2", WorkerID: "w1", Amount: dec("20"), Kind: payroll.PayoutLoan, Date: monday},
		{ID: "p3", WorkerID: "w1", Amount: dec("50"), Kind: payroll.PayoutPayment, Date: monday},
		{ID: "p4", WorkerID: "w1", Amount: dec("10"), Kind: payroll.PayoutLoanRepayment, Date: monday},
	}

	sum, ok := payroll.SummarizeWeek(w, wk, events, payouts, dec("20"), time.UTC)
	require.True(t, ok)

	assert.Equal(t, "160.00", sum.GrossPay.StringFixed(2))
	assert.Equal(t, "50.00", sum.TotalPayouts.StringFixed(2))
	assert.Equal(t, "110.00", sum.NetPay.StringFixed(2))
	assert.Equal(t, "50.00", sum.TotalPaid.StringFixed(2))
	assert.Equal(t, "60.00", sum.BalanceDue.StringFixed(2))
}

func TestSummarizeWeek_BalanceDueFloorsAtZero(t *testing.T) {
	// GIVEN: Payouts exceeding gross pay
	// THEN: balanceDue is 0, never negative

	w := worker("w1", "10", payroll.OvertimePolicy{})
	wk := payroll.WeekOf(monday, time.UTC)
	events := shift(nil, "w1", monday, 9, 11) // 2h = $20

	payouts := []payroll.Payout{
		{ID: "p1", WorkerID: "w1", Amount: dec("500"), Kind: payroll.PayoutAdvance, Date: monday},
	}

	sum, ok := payroll.SummarizeWeek(w, wk, events, payouts, dec("10"), time.UTC)
	require.True(t, ok)

	assert.Equal(t, "-480.00", sum.NetPay.StringFixed(2), "net pay may go negative")
	assert.True(t, sum.BalanceDue.IsZero(), "balance due never does")
}

func TestSummarizeWeek_MissingPunchStillPaysCompletePairs(t *testing.T) {
	// GIVEN: Mon 9->17 plus a dangling Tue 9:00 punch
	// THEN: 8 paid hours and an issue flag on Tuesday

	w := worker("w1", "20", payroll.OvertimePolicy{})
	wk := payroll.WeekOf(monday, time.UTC)
	events := shift(nil, "w1", monday, 9, 17)
	events = append(events, punch("w1", at(monday.AddDate(0, 0, 1), 9, 0), "dangling"))

	sum, ok := payroll.SummarizeWeek(w, wk, events, nil, dec("20"), time.UTC)
	require.True(t, ok)
	assert.Equal(t, "8", sum.TotalHours.String())

	days := payroll.PairDays(events, time.UTC)
	assert.Equal(t, 1, payroll.MissingPunchCount(days))
}
