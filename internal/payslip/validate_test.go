package payslip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holerite-dev/holerite/internal/model"
	"github.com/holerite-dev/holerite/internal/money"
)

func sampleAnalysis(t *testing.T) model.PayslipAnalysis {
	t.Helper()
	asm, err := NewAssembler(money.PtBR).AssembleRaw(bulletinEntities())
	require.NoError(t, err)
	return asm.Analysis
}

// balancedAnalysis has earnings that roll up exactly into gross.
func balancedAnalysis() model.PayslipAnalysis {
	return model.PayslipAnalysis{
		GrossSalary: dec("1338.52"),
		NetSalary:   dec("639.07"),
		Earnings: []model.EarningItem{
			{Description: "DIAS NORMAIS", Amount: dec("1300.00")},
			{Description: "HORAS EXTRAS 60%", Amount: dec("38.52")},
		},
		Deductions: []model.DeductionItem{
			{Description: "I.N.S.S.", Amount: dec("101.45")},
			{Description: "DESC.ADIANT.SALARIAL", Amount: dec("520.00")},
			{Description: "VALE TRANSPORTE", Amount: dec("78.00")},
		},
	}
}

func TestValidate_EarningsModelConsistent(t *testing.T) {
	v := Validate(balancedAnalysis(), ValidateOptions{Model: model.ReconcileEarnings, Tolerance: DefaultTolerance})

	assert.True(t, v.IsConsistent)
	assert.True(t, v.Discrepancy.IsZero())
	assert.Empty(t, v.Warnings)
	assert.Equal(t, model.ReconcileEarnings, v.Model)
	assert.Equal(t, "1338.52", v.TotalEarnings.StringFixed(2))
	assert.Equal(t, "699.45", v.TotalDeductions.StringFixed(2))
	assert.Equal(t, "1.00", v.Confidence.StringFixed(2))
}

func TestValidate_WithinTolerance(t *testing.T) {
	a := balancedAnalysis()
	a.NetSalary = dec("639.08")

	v := Validate(a, ValidateOptions{Model: model.ReconcileEarnings, Tolerance: DefaultTolerance})
	assert.True(t, v.IsConsistent)
	assert.Equal(t, "0.01", v.Discrepancy.StringFixed(2))
}

// The sample bulletin declares a gross that includes amounts not itemized as
// earnings: it reconciles under the gross model but not the earnings model.
func TestValidate_SampleBulletin_GrossModel(t *testing.T) {
	v := Validate(sampleAnalysis(t), DefaultValidateOptions())

	assert.True(t, v.IsConsistent)
	assert.True(t, v.Discrepancy.IsZero())
	assert.Equal(t, "644.78", v.ExpectedNet.StringFixed(2))
	require.Len(t, v.Warnings, 1)
	assert.Contains(t, v.Warnings[0], "earnings total 1338.52 does not match gross salary 1344.23")
	assert.Equal(t, "0.75", v.Confidence.StringFixed(2))
}

func TestValidate_SampleBulletin_EarningsModel(t *testing.T) {
	v := Validate(sampleAnalysis(t), ValidateOptions{Model: model.ReconcileEarnings, Tolerance: DefaultTolerance})

	assert.False(t, v.IsConsistent)
	assert.Equal(t, "5.71", v.Discrepancy.StringFixed(2))
	assert.Equal(t, "639.07", v.ExpectedNet.StringFixed(2))
	require.Len(t, v.Warnings, 1)
	assert.Contains(t, v.Warnings[0], "differs from expected 639.07 by 5.71")
	assert.Equal(t, "0.74", v.Confidence.StringFixed(2))
}

func TestValidate_NoLineItems(t *testing.T) {
	a := model.PayslipAnalysis{GrossSalary: dec("1000"), NetSalary: dec("1000")}

	v := Validate(a, DefaultValidateOptions())
	assert.True(t, v.IsConsistent)
	require.Len(t, v.Warnings, 1)
	assert.Contains(t, v.Warnings[0], "no earning or deduction items")
}

func TestValidate_NegativeAmountsAndNetAboveGross(t *testing.T) {
	a := model.PayslipAnalysis{
		GrossSalary: dec("100"),
		NetSalary:   dec("120"),
		Earnings:    []model.EarningItem{{Description: "ESTORNO", Amount: dec("-20")}},
		Deductions:  []model.DeductionItem{{Description: "IRRF", Amount: dec("-20")}},
	}

	v := Validate(a, DefaultValidateOptions())
	assert.True(t, v.IsConsistent, "100 - (-20) = 120")
	joined := ""
	for _, w := range v.Warnings {
		joined += w + "\n"
	}
	assert.Contains(t, joined, `earning "ESTORNO" has negative amount -20.00`)
	assert.Contains(t, joined, `deduction "IRRF" has negative amount -20.00`)
	assert.Contains(t, joined, "net salary 120.00 exceeds gross salary 100.00")
}

func TestValidate_ConfidenceFloorsAtZero(t *testing.T) {
	a := model.PayslipAnalysis{GrossSalary: dec("100"), NetSalary: dec("5000")}

	v := Validate(a, DefaultValidateOptions())
	assert.False(t, v.IsConsistent)
	assert.True(t, v.Confidence.IsZero())
}

func TestValidate_ZeroToleranceIsExact(t *testing.T) {
	a := balancedAnalysis()
	a.NetSalary = dec("639.08")

	v := Validate(a, ValidateOptions{Model: model.ReconcileEarnings})
	assert.False(t, v.IsConsistent)
}

func TestValidate_EmptyModelDefaultsToGross(t *testing.T) {
	v := Validate(sampleAnalysis(t), ValidateOptions{Tolerance: DefaultTolerance})
	assert.Equal(t, model.ReconcileGross, v.Model)
}

func TestValidate_Idempotent(t *testing.T) {
	a := sampleAnalysis(t)
	opts := ValidateOptions{Model: model.ReconcileEarnings, Tolerance: DefaultTolerance}

	first := Validate(a, opts)
	second := Validate(a, opts)
	assert.Equal(t, first, second)
	assert.Len(t, a.Deductions, 3, "analysis is not mutated")
}
