/*
overtime.go - Regular/overtime hour split and pay computation

PURPOSE:
  Splits a period's total worked hours into regular and overtime per the
  worker's policy, then prices each bucket. The split is weekly: callers
  pass the week's total hours, not daily totals.

RULES:
  - Policy disabled, or total <= threshold: all hours are regular.
  - Otherwise: regular = threshold, overtime = total - threshold.
  - regularPay  = regular  * rate
  - overtimePay = overtime * rate * multiplier
  - gross       = regularPay + overtimePay

  Callers validate inputs; this function adds no negative-hours or
  negative-rate guards, but it never produces a negative split for
  non-negative input.

SEE ALSO:
  - week.go: Calls Split with the weekly hour total
  - types.go: OvertimePolicy
*/
package payroll

import "github.com/shopspring/decimal"

// =============================================================================
// HOUR SPLIT
// =============================================================================

// HoursSplit is the regular/overtime division of a period's hours.
type HoursSplit struct {
	Regular  decimal.Decimal
	Overtime decimal.Decimal
}

// Split divides totalHours into regular and overtime per policy.
func Split(totalHours decimal.Decimal, policy OvertimePolicy) HoursSplit {
	if !policy.Enabled || totalHours.LessThanOrEqual(policy.ThresholdHours) {
		return HoursSplit{Regular: totalHours, Overtime: decimal.Zero}
	}
	return HoursSplit{
		Regular:  policy.ThresholdHours,
		Overtime: totalHours.Sub(policy.ThresholdHours),
	}
}

// =============================================================================
// PAY
// =============================================================================

// PayBreakdown prices an HoursSplit at a resolved rate. Values carry full
// precision; Round2 happens when a WeeklySummary is finalized.
type PayBreakdown struct {
	RegularPay  decimal.Decimal
	OvertimePay decimal.Decimal
	Gross       decimal.Decimal
}

// PayFor prices the split at rate, applying the policy multiplier to the
// overtime bucket.
func PayFor(split HoursSplit, rate decimal.Decimal, policy OvertimePolicy) PayBreakdown {
	regular := split.Regular.Mul(rate)
	overtime := split.Overtime.Mul(rate).Mul(policy.Multiplier)
	return PayBreakdown{
		RegularPay:  regular,
		OvertimePay: overtime,
		Gross:       regular.Add(overtime),
	}
}
