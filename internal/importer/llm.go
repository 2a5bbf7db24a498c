package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/holerite-dev/holerite/internal/model"
	"github.com/holerite-dev/holerite/internal/money"
)

// LLMParser reads the JSON a language model returns when asked to extract a
// payslip. Amounts may be JSON numbers or locale strings.
type LLMParser struct{}

// Format returns the parser name.
func (p *LLMParser) Format() string { return "llm" }

type llmPayslip struct {
	Employer    string    `json:"employer"`
	Employee    string    `json:"employee"`
	Period      string    `json:"period"`
	GrossSalary llmAmount `json:"gross_salary"`
	NetSalary   llmAmount `json:"net_salary"`
	Earnings    []llmItem `json:"earnings"`
	Deductions  []llmItem `json:"deductions"`
	Bases       struct {
		INSS llmAmount `json:"inss"`
		FGTS llmAmount `json:"fgts"`
		IRRF llmAmount `json:"irrf"`
	} `json:"bases"`
}

type llmItem struct {
	Description string    `json:"description"`
	Amount      llmAmount `json:"amount"`
}

// llmAmount keeps the literal so numbers and strings take the same path
// through the locale parser.
type llmAmount struct {
	raw     string
	number  bool
	present bool
}

func (a *llmAmount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	a.present = true
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &a.raw)
	}
	a.raw = string(b)
	a.number = true
	return nil
}

// text renders the amount as the locale would print it. A number the decimal
// package cannot read is passed through so the assembler reports it.
func (a llmAmount) text(nf money.NumberFormat) string {
	if !a.number {
		return a.raw
	}
	d, err := decimal.NewFromString(a.raw)
	if err != nil {
		return a.raw
	}
	return nf.Format(d)
}

// Parse converts the LLM payload into entities.
func (p *LLMParser) Parse(r io.Reader, nf money.NumberFormat) ([]model.Entity, error) {
	var doc llmPayslip
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding llm payslip: %w", err)
	}

	var out []model.Entity
	info := []struct {
		field model.InfoField
		text  string
	}{
		{model.InfoEmployer, doc.Employer},
		{model.InfoEmployee, doc.Employee},
		{model.InfoPeriod, doc.Period},
	}
	for _, f := range info {
		if strings.TrimSpace(f.text) != "" {
			out = append(out, model.InfoEntity{Field: f.field, Text: f.text})
		}
	}

	if doc.GrossSalary.present {
		out = append(out, model.GrossPayEntity{Text: doc.GrossSalary.text(nf)})
	}
	if doc.NetSalary.present {
		out = append(out, model.NetPayEntity{Text: doc.NetSalary.text(nf)})
	}
	for _, it := range doc.Earnings {
		out = append(out, model.EarningItemEntity{
			Properties: it.properties(model.PropEarningType, model.PropEarningAmount, nf),
		})
	}
	for _, it := range doc.Deductions {
		out = append(out, model.DeductionItemEntity{
			Properties: it.properties(model.PropDeductionType, model.PropDeductionAmount, nf),
		})
	}

	bases := []struct {
		kind model.BaseKind
		amt  llmAmount
	}{
		{model.BaseINSS, doc.Bases.INSS},
		{model.BaseFGTS, doc.Bases.FGTS},
		{model.BaseIRRF, doc.Bases.IRRF},
	}
	for _, b := range bases {
		if b.amt.present {
			out = append(out, model.BaseEntity{Kind: b.kind, Text: b.amt.text(nf)})
		}
	}
	return out, nil
}

// properties omits the amount key when the model left it out, so the
// assembler reports the missing field.
func (it llmItem) properties(descKey, amountKey string, nf money.NumberFormat) map[string]string {
	props := map[string]string{descKey: it.Description}
	if it.Amount.present {
		props[amountKey] = it.Amount.text(nf)
	}
	return props
}
