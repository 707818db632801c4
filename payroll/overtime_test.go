package payroll_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/warp/payroll-engine/payroll"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func standardOT() payroll.OvertimePolicy {
	return payroll.OvertimePolicy{
		Enabled:        true,
		ThresholdHours: dec("40"),
		Multiplier:     dec("1.5"),
	}
}

// =============================================================================
// SPLIT
// =============================================================================

func TestSplit_AtThreshold_NoOvertime(t *testing.T) {
	// Exactly at the threshold is not over it.
	split := payroll.Split(dec("40"), standardOT())
	assert.Equal(t, "40", split.Regular.String())
	assert.True(t, split.Overtime.IsZero())
}

func TestSplit_JustOverThreshold(t *testing.T) {
	split := payroll.Split(dec("40.01"), standardOT())
	assert.Equal(t, "40", split.Regular.String())
	assert.Equal(t, "0.01", split.Overtime.String())
}

func TestSplit_Disabled_AllRegular(t *testing.T) {
	// GIVEN: Overtime disabled
	// THEN: Any total stays regular, threshold irrelevant

	policy := payroll.OvertimePolicy{Enabled: false, ThresholdHours: dec("1"), Multiplier: dec("2")}
	split := payroll.Split(dec("80"), policy)
	assert.Equal(t, "80", split.Regular.String())
	assert.True(t, split.Overtime.IsZero())
}

func TestSplit_NeverNegative(t *testing.T) {
	for _, hours := range []string{"0", "0.5", "40", "168"} {
		split := payroll.Split(dec(hours), standardOT())
		assert.False(t, split.Regular.IsNegative(), "regular for %s hours", hours)
		assert.False(t, split.Overtime.IsNegative(), "overtime for %s hours", hours)
	}
}

// =============================================================================
// PAY
// =============================================================================

func TestPayFor_AppliesMultiplierToOvertimeOnly(t *testing.T) {
	// GIVEN: 44h at $20/hr with 40h/1.5x policy
	// THEN: regular 800, overtime 120, gross 920

	policy := standardOT()
	split := payroll.Split(dec("44"), policy)
	pay := payroll.PayFor(split, dec("20"), policy)

	assert.Equal(t, "800.00", pay.RegularPay.StringFixed(2))
	assert.Equal(t, "120.00", pay.OvertimePay.StringFixed(2))
	assert.Equal(t, "920.00", pay.Gross.StringFixed(2))
}

func TestPayFor_NoOvertimeHours_GrossIsRegular(t *testing.T) {
	policy := standardOT()
	split := payroll.Split(dec("40"), policy)
	pay := payroll.PayFor(split, dec("20"), policy)

	assert.Equal(t, "800.00", pay.Gross.StringFixed(2))
	assert.True(t, pay.OvertimePay.IsZero())
}
