package payslip

import (
	"github.com/holerite-dev/holerite/internal/model"
	"github.com/holerite-dev/holerite/internal/money"
)

// Result is a fully processed document: the assembled analysis, its verdict
// and the items that were skipped on the way.
type Result struct {
	Analysis model.PayslipAnalysis   `json:"analysis"`
	Verdict  model.ValidationVerdict `json:"verdict"`
	Warnings []string                `json:"warnings"`
}

// NeedsReview reports whether the result should be checked by a person:
// it did not reconcile, or its confidence is below threshold.
func (r *Result) NeedsReview(threshold float64) bool {
	return !r.Verdict.IsConsistent || r.Verdict.Confidence.InexactFloat64() < threshold
}

// Analyze assembles entities with nf and validates the result.
func Analyze(entities []model.Entity, nf money.NumberFormat, opts ValidateOptions) (*Result, error) {
	asm, err := NewAssembler(nf).Assemble(entities)
	if err != nil {
		return nil, err
	}
	return &Result{
		Analysis: asm.Analysis,
		Verdict:  Validate(asm.Analysis, opts),
		Warnings: asm.WarningMessages(),
	}, nil
}
