package model

import (
	"github.com/shopspring/decimal"
)

// ItemKind distinguishes earning lines from deduction lines.
type ItemKind string

const (
	KindEarning   ItemKind = "earning"
	KindDeduction ItemKind = "deduction"
)

// LineItem is one itemized row of a payslip.
type LineItem struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// EarningItem is a line that adds to gross pay (base salary, overtime).
type EarningItem LineItem

// DeductionItem is a line subtracted from gross pay (INSS, transport voucher).
type DeductionItem LineItem

// Classified is a LineItem tagged with its role.
type Classified struct {
	Kind ItemKind
	Item LineItem
}

// Bases holds the statutory calculation bases printed on Brazilian payslips.
// A nil field was not reported.
type Bases struct {
	INSS *decimal.Decimal `json:"inss,omitempty"`
	FGTS *decimal.Decimal `json:"fgts,omitempty"`
	IRRF *decimal.Decimal `json:"irrf,omitempty"`
}

// IsEmpty reports whether no base was reported.
func (b *Bases) IsEmpty() bool {
	return b == nil || (b.INSS == nil && b.FGTS == nil && b.IRRF == nil)
}

// PayslipAnalysis is the canonical record assembled from one document.
type PayslipAnalysis struct {
	Locale      string          `json:"locale,omitempty"`
	Employer    string          `json:"employer,omitempty"`
	Employee    string          `json:"employee,omitempty"`
	Period      string          `json:"period,omitempty"`
	GrossSalary decimal.Decimal `json:"grossSalary"`
	NetSalary   decimal.Decimal `json:"netSalary"`
	Earnings    []EarningItem   `json:"earnings"`
	Deductions  []DeductionItem `json:"deductions"`
	Bases       *Bases          `json:"bases,omitempty"`
}

// TotalEarnings sums the earning lines.
func (a PayslipAnalysis) TotalEarnings() decimal.Decimal {
	total := decimal.Zero
	for _, e := range a.Earnings {
		total = total.Add(e.Amount)
	}
	return total
}

// TotalDeductions sums the deduction lines.
func (a PayslipAnalysis) TotalDeductions() decimal.Decimal {
	total := decimal.Zero
	for _, d := range a.Deductions {
		total = total.Add(d.Amount)
	}
	return total
}

// LineCount returns the number of itemized lines.
func (a PayslipAnalysis) LineCount() int {
	return len(a.Earnings) + len(a.Deductions)
}
