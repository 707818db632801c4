/*
pdf.go - Paystub PDF rendering

PURPOSE:
  Renders a computed Paystub to a printable PDF. Pure presentation: all
  figures arrive already rounded; nothing is recomputed here.
*/
package paystub

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// RenderPDF renders the paystub to a single-page A4 PDF.
func RenderPDF(p *Paystub) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Paystub")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Worker: %s (%s)", p.WorkerName, p.WorkerCode))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s", p.PeriodLabel))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Rate: %s/hr", money(p.RateUsed)))
	pdf.Ln(12)

	// Daily breakdown
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Days")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for _, d := range p.Days {
		line := fmt.Sprintf("%s  %s h", d.Date.Format("Mon 2006-01-02"), d.TotalHours.Round(2))
		if d.HasIssue {
			line += "  (missing punch)"
		}
		pdf.Cell(0, 6, line)
		pdf.Ln(6)
	}
	if len(p.Days) == 0 {
		pdf.Cell(0, 6, "No punches recorded this week")
		pdf.Ln(6)
	}
	pdf.Ln(6)

	// Payouts
	if len(p.Payouts) > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, "Payouts")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		for _, po := range p.Payouts {
			pdf.Cell(0, 6, fmt.Sprintf("%s  %s  %s",
				po.Date.Format("2006-01-02"), po.Kind, money(po.Amount)))
			pdf.Ln(6)
		}
		pdf.Ln(6)
	}

	// Summary
	s := p.Summary
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Summary")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	rows := []struct {
		label string
		value string
	}{
		{"Total hours", s.TotalHours.Round(2).String()},
		{"Regular pay", money(s.RegularPay)},
		{"Overtime pay", money(s.OvertimePay)},
		{"Gross pay", money(s.GrossPay)},
		{"Deductions", money(s.TotalPayouts)},
		{"Net pay", money(s.NetPay)},
		{"Paid", money(s.TotalPaid)},
		{"Balance due", money(s.BalanceDue)},
		{"Prior balance", money(s.PriorBalance)},
		{"Total due", money(p.TotalDue)},
	}
	for _, r := range rows {
		pdf.Cell(60, 6, r.label)
		pdf.Cell(0, 6, r.value)
		pdf.Ln(6)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render paystub pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
