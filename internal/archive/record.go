package archive

import (
	"github.com/shopspring/decimal"

	"github.com/holerite-dev/holerite/internal/model"
)

// LineKind identifies what an archive row holds.
type LineKind string

const (
	KindGross     LineKind = "gross"
	KindNet       LineKind = "net"
	KindEarning   LineKind = "earning"
	KindDeduction LineKind = "deduction"
	KindBaseINSS  LineKind = "base_inss"
	KindBaseFGTS  LineKind = "base_fgts"
	KindBaseIRRF  LineKind = "base_irrf"
)

// Valid reports whether k is a known line kind.
func (k LineKind) Valid() bool {
	switch k {
	case KindGross, KindNet, KindEarning, KindDeduction, KindBaseINSS, KindBaseFGTS, KindBaseIRRF:
		return true
	}
	return false
}

// Line is one row of payslips.csv. Every line of a record repeats the
// record's verdict columns so a month file can be read with any CSV tool.
type Line struct {
	RecordID    string
	Period      string
	Source      string
	Kind        LineKind
	Description string
	Amount      decimal.Decimal
	Consistent  bool
	Discrepancy decimal.Decimal
	Confidence  decimal.Decimal
}

// Record is one archived payslip.
type Record struct {
	ID          string
	Period      string // YYYY-MM
	Source      string
	Analysis    model.PayslipAnalysis
	Consistent  bool
	Discrepancy decimal.Decimal
	Confidence  decimal.Decimal
}

// Lines flattens a record into rows: gross, net, earnings, deductions, bases.
func (r Record) Lines() []Line {
	base := Line{
		RecordID:    r.ID,
		Period:      r.Period,
		Source:      r.Source,
		Consistent:  r.Consistent,
		Discrepancy: r.Discrepancy,
		Confidence:  r.Confidence,
	}
	with := func(kind LineKind, desc string, amount decimal.Decimal) Line {
		l := base
		l.Kind = kind
		l.Description = desc
		l.Amount = amount
		return l
	}

	a := r.Analysis
	lines := []Line{
		with(KindGross, a.Employer, a.GrossSalary),
		with(KindNet, a.Employee, a.NetSalary),
	}
	for _, e := range a.Earnings {
		lines = append(lines, with(KindEarning, e.Description, e.Amount))
	}
	for _, d := range a.Deductions {
		lines = append(lines, with(KindDeduction, d.Description, d.Amount))
	}
	if b := a.Bases; b != nil {
		if b.INSS != nil {
			lines = append(lines, with(KindBaseINSS, "", *b.INSS))
		}
		if b.FGTS != nil {
			lines = append(lines, with(KindBaseFGTS, "", *b.FGTS))
		}
		if b.IRRF != nil {
			lines = append(lines, with(KindBaseIRRF, "", *b.IRRF))
		}
	}
	return lines
}

// Group rebuilds records from rows, in order of first appearance. The gross
// and net rows carry the employer and employee names in their descriptions.
func Group(lines []Line) []Record {
	index := make(map[string]int)
	var records []Record
	for _, l := range lines {
		i, ok := index[l.RecordID]
		if !ok {
			i = len(records)
			index[l.RecordID] = i
			records = append(records, Record{
				ID:          l.RecordID,
				Period:      l.Period,
				Source:      l.Source,
				Consistent:  l.Consistent,
				Discrepancy: l.Discrepancy,
				Confidence:  l.Confidence,
				Analysis: model.PayslipAnalysis{
					Period:     l.Period,
					Earnings:   []model.EarningItem{},
					Deductions: []model.DeductionItem{},
				},
			})
		}
		a := &records[i].Analysis
		switch l.Kind {
		case KindGross:
			a.GrossSalary = l.Amount
			a.Employer = l.Description
		case KindNet:
			a.NetSalary = l.Amount
			a.Employee = l.Description
		case KindEarning:
			a.Earnings = append(a.Earnings, model.EarningItem{Description: l.Description, Amount: l.Amount})
		case KindDeduction:
			a.Deductions = append(a.Deductions, model.DeductionItem{Description: l.Description, Amount: l.Amount})
		case KindBaseINSS, KindBaseFGTS, KindBaseIRRF:
			if a.Bases == nil {
				a.Bases = &model.Bases{}
			}
			v := l.Amount
			switch l.Kind {
			case KindBaseINSS:
				a.Bases.INSS = &v
			case KindBaseFGTS:
				a.Bases.FGTS = &v
			default:
				a.Bases.IRRF = &v
			}
		}
	}
	return records
}
