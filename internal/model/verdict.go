package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ReconciliationModel selects how the expected net salary is derived.
type ReconciliationModel string

const (
	// ReconcileGross treats itemized earnings as already rolled into gross:
	// expected net = gross - deductions.
	ReconcileGross ReconciliationModel = "gross"
	// ReconcileEarnings rebuilds gross from the earning lines:
	// expected net = earnings - deductions.
	ReconcileEarnings ReconciliationModel = "earnings"
)

// ParseReconciliationModel validates a model name. Empty selects ReconcileGross.
func ParseReconciliationModel(s string) (ReconciliationModel, error) {
	switch ReconciliationModel(s) {
	case "", ReconcileGross:
		return ReconcileGross, nil
	case ReconcileEarnings:
		return ReconcileEarnings, nil
	default:
		return "", fmt.Errorf("unknown reconciliation model %q (want %q or %q)", s, ReconcileGross, ReconcileEarnings)
	}
}

// ValidationVerdict is the outcome of reconciling a PayslipAnalysis.
type ValidationVerdict struct {
	IsConsistent    bool                `json:"isConsistent"`
	Discrepancy     decimal.Decimal     `json:"discrepancy"`
	Warnings        []string            `json:"warnings"`
	Model           ReconciliationModel `json:"model"`
	ExpectedNet     decimal.Decimal     `json:"expectedNet"`
	TotalEarnings   decimal.Decimal     `json:"totalEarnings"`
	TotalDeductions decimal.Decimal     `json:"totalDeductions"`
	Confidence      decimal.Decimal     `json:"confidence"`
}
