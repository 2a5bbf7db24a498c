package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/holerite-dev/holerite/internal/model"
	"github.com/holerite-dev/holerite/internal/money"
	"github.com/holerite-dev/holerite/internal/payslip"
)

// ErrInvalidOptions reports an unknown reconciliation model or a bad tolerance.
var ErrInvalidOptions = errors.New("invalid validation options")

// AnalyzeInput is one analyze request after decoding.
type AnalyzeInput struct {
	Locale    string
	Model     string
	Tolerance string
	Entities  []model.RawEntity
}

// ValidateInput is one validate request after decoding.
type ValidateInput struct {
	Analysis  model.PayslipAnalysis
	Model     string
	Tolerance string
}

// Analyzer runs the payslip pipeline on behalf of the HTTP handlers.
//
//go:generate mockgen -destination=mocks/mock_analyzer.go -source=analyzer.go Analyzer
type Analyzer interface {
	Analyze(ctx context.Context, in AnalyzeInput) (*payslip.Result, error)
	Validate(ctx context.Context, in ValidateInput) (model.ValidationVerdict, error)
	Locales() []string
}

// Pipeline is the Analyzer backed by the payslip package.
type Pipeline struct {
	formats  *money.Registry
	locale   string
	defaults payslip.ValidateOptions
}

// NewPipeline returns a Pipeline resolving locales from formats. Requests that
// leave locale, model or tolerance empty fall back to locale and defaults.
func NewPipeline(formats *money.Registry, locale string, defaults payslip.ValidateOptions) *Pipeline {
	return &Pipeline{formats: formats, locale: locale, defaults: defaults}
}

// Analyze assembles and validates the request's entities.
func (p *Pipeline) Analyze(ctx context.Context, in AnalyzeInput) (*payslip.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	locale := in.Locale
	if locale == "" {
		locale = p.locale
	}
	nf, err := p.formats.Lookup(locale)
	if err != nil {
		return nil, err
	}
	opts, err := p.options(in.Model, in.Tolerance)
	if err != nil {
		return nil, err
	}
	return payslip.Analyze(model.TypedAll(in.Entities), nf, opts)
}

// Validate recomputes the verdict of an already assembled analysis.
func (p *Pipeline) Validate(ctx context.Context, in ValidateInput) (model.ValidationVerdict, error) {
	if err := ctx.Err(); err != nil {
		return model.ValidationVerdict{}, err
	}
	opts, err := p.options(in.Model, in.Tolerance)
	if err != nil {
		return model.ValidationVerdict{}, err
	}
	return payslip.Validate(in.Analysis, opts), nil
}

// Locales lists the registered number formats.
func (p *Pipeline) Locales() []string {
	return p.formats.Locales()
}

func (p *Pipeline) options(modelName, tolerance string) (payslip.ValidateOptions, error) {
	opts := p.defaults
	if modelName != "" {
		m, err := model.ParseReconciliationModel(modelName)
		if err != nil {
			return opts, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
		}
		opts.Model = m
	}
	if tolerance != "" {
		tol, err := decimal.NewFromString(tolerance)
		if err != nil {
			return opts, fmt.Errorf("%w: tolerance %q", ErrInvalidOptions, tolerance)
		}
		if tol.IsNegative() {
			return opts, fmt.Errorf("%w: tolerance must not be negative", ErrInvalidOptions)
		}
		opts.Tolerance = tol
	}
	return opts, nil
}
