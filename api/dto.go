/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

MONEY:
  Every monetary field crosses the wire as a 2-decimal string
  ("800.00"), never a float. Hours are strings rounded to 2 as well.

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data
  carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/paystub"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// WORKER TYPES
// =============================================================================

// WorkerDTO represents a worker in API responses.
type WorkerDTO struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Code      string             `json:"code"`
	PayRate   string             `json:"pay_rate"`
	Overtime  OvertimePolicyDTO  `json:"overtime"`
	Active    bool               `json:"active"`
	CreatedAt string             `json:"created_at,omitempty"`
}

type OvertimePolicyDTO struct {
	Enabled        bool   `json:"enabled"`
	ThresholdHours string `json:"threshold_hours"`
	Multiplier     string `json:"multiplier"`
}

// CreateWorkerRequest is the request to create a worker.
type CreateWorkerRequest struct {
	Name     string            `json:"name"`
	Code     string            `json:"code"`
	PayRate  string            `json:"pay_rate"`
	Overtime OvertimePolicyDTO `json:"overtime"`
}

// ChangeRateRequest appends a rate-history record and updates the
// worker's current rate. EffectiveFrom defaults to now; a past date is
// an explicit retroactive correction.
type ChangeRateRequest struct {
	Rate          string `json:"rate"`
	EffectiveFrom string `json:"effective_from,omitempty"` // YYYY-MM-DD
}

// =============================================================================
// EVENT INTAKE TYPES
// =============================================================================

// ImportEventDTO is one raw punch in an import batch.
type ImportEventDTO struct {
	WorkerID  string `json:"worker_id"`
	Timestamp string `json:"timestamp"` // RFC3339
	Kind      string `json:"kind,omitempty"`
	RawText   string `json:"raw_text,omitempty"`
}

// ImportEventsRequest is a batch of raw punches from the log parser or
// manual entry.
type ImportEventsRequest struct {
	Events []ImportEventDTO `json:"events"`
	Manual bool             `json:"manual,omitempty"`
}

// ImportEventsResponse reports the double-punch filter outcome.
type ImportEventsResponse struct {
	Accepted  int `json:"accepted"`
	Discarded int `json:"discarded"`
}

// =============================================================================
// PAYOUT TYPES
// =============================================================================

type PayoutDTO struct {
	ID       string `json:"id"`
	WorkerID string `json:"worker_id"`
	Amount   string `json:"amount"`
	Kind     string `json:"kind"`
	Date     string `json:"date"`
	Note     string `json:"note,omitempty"`
}

type CreatePayoutRequest struct {
	WorkerID string `json:"worker_id"`
	Amount   string `json:"amount"`
	Kind     string `json:"kind"`
	Date     string `json:"date"` // YYYY-MM-DD
	Note     string `json:"note,omitempty"`
}

// =============================================================================
// PAYSTUB / DASHBOARD TYPES
// =============================================================================

type IntervalDTO struct {
	ClockIn  string  `json:"clock_in"`
	ClockOut *string `json:"clock_out"` // null for an unmatched punch
	Hours    string  `json:"hours"`
}

type DayDTO struct {
	Date       string        `json:"date"`
	Intervals  []IntervalDTO `json:"intervals"`
	TotalHours string        `json:"total_hours"`
	HasIssue   bool          `json:"has_issue"`
}

type SummaryDTO struct {
	TotalHours    string `json:"total_hours"`
	RegularHours  string `json:"regular_hours"`
	OvertimeHours string `json:"overtime_hours"`
	RegularPay    string `json:"regular_pay"`
	OvertimePay   string `json:"overtime_pay"`
	GrossPay      string `json:"gross_pay"`
	TotalPayouts  string `json:"total_payouts"`
	NetPay        string `json:"net_pay"`
	TotalPaid     string `json:"total_paid"`
	BalanceDue    string `json:"balance_due"`
	PriorBalance  string `json:"prior_balance"`
}

type PaystubDTO struct {
	WorkerID       string      `json:"worker_id"`
	WorkerName     string      `json:"worker_name"`
	WorkerCode     string      `json:"worker_code"`
	PeriodLabel    string      `json:"period_label"`
	WeekStart      string      `json:"week_start"`
	WeekEnd        string      `json:"week_end"`
	Days           []DayDTO    `json:"days"`
	Payouts        []PayoutDTO `json:"payouts"`
	Summary        SummaryDTO  `json:"summary"`
	RateUsed       string      `json:"rate_used"`
	RateFromHist   bool        `json:"rate_from_history"`
	MissingPunches int         `json:"missing_punches"`
	TotalDue       string      `json:"total_due"`
}

type DashboardRowDTO struct {
	WorkerID       string     `json:"worker_id"`
	WorkerName     string     `json:"worker_name"`
	WorkerCode     string     `json:"worker_code"`
	Summary        SummaryDTO `json:"summary"`
	MissingPunches int        `json:"missing_punches"`
	TotalDue       string     `json:"total_due"`
}

type DashboardDTO struct {
	WeekStart      string            `json:"week_start"`
	WeekEnd        string            `json:"week_end"`
	Rows           []DashboardRowDTO `json:"rows"`
	TotalGross     string            `json:"total_gross"`
	TotalNet       string            `json:"total_net"`
	TotalDue       string            `json:"total_due"`
	MissingPunches int               `json:"missing_punches"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func workerDTO(w payroll.Worker) WorkerDTO {
	return WorkerDTO{
		ID:      string(w.ID),
		Name:    w.Name,
		Code:    w.Code,
		PayRate: w.PayRate.StringFixed(2),
		Overtime: OvertimePolicyDTO{
			Enabled:        w.Overtime.Enabled,
			ThresholdHours: w.Overtime.ThresholdHours.String(),
			Multiplier:     w.Overtime.Multiplier.String(),
		},
		Active:    w.Active,
		CreatedAt: w.CreatedAt.Format(time.RFC3339),
	}
}

func payoutDTO(p payroll.Payout) PayoutDTO {
	return PayoutDTO{
		ID:       string(p.ID),
		WorkerID: string(p.WorkerID),
		Amount:   p.Amount.StringFixed(2),
		Kind:     string(p.Kind),
		Date:     p.Date.Format("2006-01-02"),
		Note:     p.Note,
	}
}

func dayDTO(d payroll.DayResult) DayDTO {
	dto := DayDTO{
		Date:       d.Date.Format("2006-01-02"),
		TotalHours: d.TotalHours.Round(2).String(),
		HasIssue:   d.HasIssue,
	}
	for _, iv := range d.Intervals {
		ivDTO := IntervalDTO{
			ClockIn: iv.In.Timestamp.Format(time.RFC3339),
			Hours:   iv.Hours().Round(2).String(),
		}
		if iv.Out != nil {
			out := iv.Out.Timestamp.Format(time.RFC3339)
			ivDTO.ClockOut = &out
		}
		dto.Intervals = append(dto.Intervals, ivDTO)
	}
	return dto
}

func summaryDTO(s payroll.WeeklySummary) SummaryDTO {
	return SummaryDTO{
		TotalHours:    s.TotalHours.Round(2).String(),
		RegularHours:  s.RegularHours.Round(2).String(),
		OvertimeHours: s.OvertimeHours.Round(2).String(),
		RegularPay:    s.RegularPay.StringFixed(2),
		OvertimePay:   s.OvertimePay.StringFixed(2),
		GrossPay:      s.GrossPay.StringFixed(2),
		TotalPayouts:  s.TotalPayouts.StringFixed(2),
		NetPay:        s.NetPay.StringFixed(2),
		TotalPaid:     s.TotalPaid.StringFixed(2),
		BalanceDue:    s.BalanceDue.StringFixed(2),
		PriorBalance:  s.PriorBalance.StringFixed(2),
	}
}

func paystubDTO(p *paystub.Paystub) PaystubDTO {
	dto := PaystubDTO{
		WorkerID:       string(p.WorkerID),
		WorkerName:     p.WorkerName,
		WorkerCode:     p.WorkerCode,
		PeriodLabel:    p.PeriodLabel,
		WeekStart:      p.Week.Start.Format("2006-01-02"),
		WeekEnd:        p.Week.End.Format("2006-01-02"),
		Summary:        summaryDTO(p.Summary),
		RateUsed:       p.RateUsed.StringFixed(2),
		RateFromHist:   p.FromHistory,
		MissingPunches: p.MissingPunches,
		TotalDue:       p.TotalDue.StringFixed(2),
	}
	for _, d := range p.Days {
		dto.Days = append(dto.Days, dayDTO(d))
	}
	for _, po := range p.Payouts {
		dto.Payouts = append(dto.Payouts, payoutDTO(po))
	}
	return dto
}

func dashboardDTO(d *paystub.Dashboard) DashboardDTO {
	dto := DashboardDTO{
		WeekStart:      d.Week.Start.Format("2006-01-02"),
		WeekEnd:        d.Week.End.Format("2006-01-02"),
		TotalGross:     d.TotalGross.StringFixed(2),
		TotalNet:       d.TotalNet.StringFixed(2),
		TotalDue:       d.TotalDue.StringFixed(2),
		MissingPunches: d.MissingPunches,
	}
	for _, row := range d.Rows {
		dto.Rows = append(dto.Rows, DashboardRowDTO{
			WorkerID:       string(row.WorkerID),
			WorkerName:     row.WorkerName,
			WorkerCode:     row.WorkerCode,
			Summary:        summaryDTO(row.Summary),
			MissingPunches: row.MissingPunches,
			TotalDue:       row.TotalDue.StringFixed(2),
		})
	}
	return dto
}

// parseMoney parses a decimal wire value, rejecting negatives.
func parseMoney(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero, false
	}
	return d, true
}
