package payslip

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/holerite-dev/holerite/internal/model"
)

// DefaultTolerance absorbs rounding on two-decimal amounts.
var DefaultTolerance = decimal.New(1, -2)

var (
	warningPenalty = decimal.RequireFromString("0.25")
	one            = decimal.NewFromInt(1)
)

// ValidateOptions controls reconciliation. A zero Tolerance requires an exact match.
type ValidateOptions struct {
	Model     model.ReconciliationModel
	Tolerance decimal.Decimal
}

// DefaultValidateOptions reconciles against declared gross with a one-cent tolerance.
func DefaultValidateOptions() ValidateOptions {
	return ValidateOptions{Model: model.ReconcileGross, Tolerance: DefaultTolerance}
}

// Validate reconciles itemized amounts against the declared net salary.
// Out-of-tolerance results are reported in the verdict, never as errors.
func Validate(a model.PayslipAnalysis, opts ValidateOptions) model.ValidationVerdict {
	if opts.Model == "" {
		opts.Model = model.ReconcileGross
	}
	tol := opts.Tolerance.Abs()

	totalEarnings := a.TotalEarnings()
	totalDeductions := a.TotalDeductions()

	var expected decimal.Decimal
	switch opts.Model {
	case model.ReconcileEarnings:
		expected = totalEarnings.Sub(totalDeductions)
	default:
		expected = a.GrossSalary.Sub(totalDeductions)
	}
	discrepancy := expected.Sub(a.NetSalary).Abs()
	consistent := discrepancy.LessThanOrEqual(tol)

	warnings := []string{}
	if a.LineCount() == 0 {
		warnings = append(warnings, "no earning or deduction items were extracted")
	}
	if !consistent {
		warnings = append(warnings, fmt.Sprintf(
			"net salary %s differs from expected %s by %s (tolerance %s)",
			a.NetSalary.StringFixed(2), expected.StringFixed(2), discrepancy.StringFixed(2), tol.StringFixed(2)))
	}
	warnings = append(warnings, negativeAmountWarnings(a)...)
	if a.NetSalary.GreaterThan(a.GrossSalary) {
		warnings = append(warnings, fmt.Sprintf(
			"net salary %s exceeds gross salary %s", a.NetSalary.StringFixed(2), a.GrossSalary.StringFixed(2)))
	}
	if opts.Model == model.ReconcileGross && len(a.Earnings) > 0 &&
		totalEarnings.Sub(a.GrossSalary).Abs().GreaterThan(tol) {
		warnings = append(warnings, fmt.Sprintf(
			"earnings total %s does not match gross salary %s", totalEarnings.StringFixed(2), a.GrossSalary.StringFixed(2)))
	}

	return model.ValidationVerdict{
		IsConsistent:    consistent,
		Discrepancy:     discrepancy,
		Warnings:        warnings,
		Model:           opts.Model,
		ExpectedNet:     expected,
		TotalEarnings:   totalEarnings,
		TotalDeductions: totalDeductions,
		Confidence:      confidence(a.NetSalary, discrepancy, tol, len(warnings)),
	}
}

func negativeAmountWarnings(a model.PayslipAnalysis) []string {
	var out []string
	if a.GrossSalary.IsNegative() {
		out = append(out, fmt.Sprintf("gross salary is negative: %s", a.GrossSalary.StringFixed(2)))
	}
	if a.NetSalary.IsNegative() {
		out = append(out, fmt.Sprintf("net salary is negative: %s", a.NetSalary.StringFixed(2)))
	}
	for _, e := range a.Earnings {
		if e.Amount.IsNegative() {
			out = append(out, fmt.Sprintf("earning %q has negative amount %s", e.Description, e.Amount.StringFixed(2)))
		}
	}
	for _, d := range a.Deductions {
		if d.Amount.IsNegative() {
			out = append(out, fmt.Sprintf("deduction %q has negative amount %s", d.Description, d.Amount.StringFixed(2)))
		}
	}
	return out
}

// confidence starts at 1, loses 0.25 per warning and the relative size of
// any out-of-tolerance discrepancy, and never drops below 0.
func confidence(net, discrepancy, tol decimal.Decimal, warnings int) decimal.Decimal {
	score := one.Sub(warningPenalty.Mul(decimal.NewFromInt(int64(warnings))))
	if discrepancy.GreaterThan(tol) {
		rel := one
		if net.IsPositive() {
			rel = decimal.Min(one, discrepancy.Div(net))
		}
		score = score.Sub(rel)
	}
	if score.IsNegative() {
		score = decimal.Zero
	}
	return score.Round(2)
}
