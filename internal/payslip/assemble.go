package payslip

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/holerite-dev/holerite/internal/model"
	"github.com/holerite-dev/holerite/internal/money"
)

// Assembly is the result of a successful Assemble call.
type Assembly struct {
	Analysis model.PayslipAnalysis
	Warnings []ItemWarning
}

// WarningMessages renders Warnings as plain strings.
func (a *Assembly) WarningMessages() []string {
	msgs := make([]string, len(a.Warnings))
	for i, w := range a.Warnings {
		msgs[i] = w.String()
	}
	return msgs
}

// Assembler turns extracted entities into a PayslipAnalysis. It holds no
// per-document state and is safe for concurrent use.
type Assembler struct {
	format money.NumberFormat
}

// NewAssembler creates an Assembler that parses amounts with nf.
func NewAssembler(nf money.NumberFormat) *Assembler {
	return &Assembler{format: nf}
}

// Assemble makes a single pass over entities in document order.
//
// A repeated net_pay or gross_pay keeps the last occurrence. Item and base
// entities that fail to parse are reported as warnings and left out. A
// malformed net_pay or gross_pay, or either one missing, fails the document.
func (a *Assembler) Assemble(entities []model.Entity) (*Assembly, error) {
	var (
		net, gross *decimal.Decimal
		warnings   []ItemWarning
	)
	analysis := model.PayslipAnalysis{
		Locale:     a.format.Locale(),
		Earnings:   []model.EarningItem{},
		Deductions: []model.DeductionItem{},
	}
	bases := &model.Bases{}

	for i, ent := range entities {
		switch e := ent.(type) {
		case model.NetPayEntity:
			v, err := a.format.Parse(e.Text)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", model.TypeNetPay, err)
			}
			net = &v
		case model.GrossPayEntity:
			v, err := a.format.Parse(e.Text)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", model.TypeGrossPay, err)
			}
			gross = &v
		case model.EarningItemEntity:
			c, err := Classify(model.TypeEarningItem, e.Properties, a.format)
			if err != nil {
				warnings = append(warnings, ItemWarning{Index: i, Type: model.TypeEarningItem, Err: err})
				continue
			}
			analysis.Earnings = append(analysis.Earnings, model.EarningItem(c.Item))
		case model.DeductionItemEntity:
			c, err := Classify(model.TypeDeductionItem, e.Properties, a.format)
			if err != nil {
				warnings = append(warnings, ItemWarning{Index: i, Type: model.TypeDeductionItem, Err: err})
				continue
			}
			analysis.Deductions = append(analysis.Deductions, model.DeductionItem(c.Item))
		case model.BaseEntity:
			v, err := a.format.Parse(e.Text)
			if err != nil {
				warnings = append(warnings, ItemWarning{Index: i, Type: e.EntityType(), Err: err})
				continue
			}
			setBase(bases, e.Kind, v)
		case model.InfoEntity:
			setInfo(&analysis, e.Field, strings.TrimSpace(e.Text))
		case model.UnknownEntity:
			// Unrecognized extractor output.
		}
	}

	var missing []string
	if net == nil {
		missing = append(missing, model.TypeNetPay)
	}
	if gross == nil {
		missing = append(missing, model.TypeGrossPay)
	}
	if len(missing) > 0 {
		return nil, &IncompleteError{Missing: missing}
	}

	analysis.NetSalary = *net
	analysis.GrossSalary = *gross
	if !bases.IsEmpty() {
		analysis.Bases = bases
	}

	return &Assembly{Analysis: analysis, Warnings: warnings}, nil
}

// AssembleRaw converts wire entities and assembles them.
func (a *Assembler) AssembleRaw(raw []model.RawEntity) (*Assembly, error) {
	return a.Assemble(model.TypedAll(raw))
}

func setBase(b *model.Bases, kind model.BaseKind, v decimal.Decimal) {
	switch kind {
	case model.BaseINSS:
		b.INSS = &v
	case model.BaseFGTS:
		b.FGTS = &v
	case model.BaseIRRF:
		b.IRRF = &v
	}
}

func setInfo(a *model.PayslipAnalysis, field model.InfoField, text string) {
	if text == "" {
		return
	}
	switch field {
	case model.InfoEmployer:
		a.Employer = text
	case model.InfoEmployee:
		a.Employee = text
	case model.InfoPeriod:
		a.Period = text
	}
}
