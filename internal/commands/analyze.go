package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/holerite-dev/holerite/internal/archive"
	"github.com/holerite-dev/holerite/internal/id"
	"github.com/holerite-dev/holerite/internal/importer"
	"github.com/holerite-dev/holerite/internal/model"
	"github.com/holerite-dev/holerite/internal/money"
	"github.com/holerite-dev/holerite/internal/payslip"
	"github.com/holerite-dev/holerite/internal/runlog"
)

// overrides are per-invocation replacements for holerite.yaml settings.
type overrides struct {
	locale    string
	model     string
	tolerance string
}

func (o overrides) apply(p *project) error {
	if o.locale != "" {
		p.cfg.Parsing.Locale = o.locale
	}
	if o.model != "" {
		p.cfg.Validation.Model = o.model
	}
	if o.tolerance != "" {
		p.cfg.Validation.Tolerance = o.tolerance
	}
	return p.cfg.Validate()
}

func (o *overrides) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.locale, "locale", "", "number format (default from holerite.yaml)")
	cmd.Flags().StringVar(&o.model, "model", "", "reconciliation model: gross or earnings")
	cmd.Flags().StringVar(&o.tolerance, "tolerance", "", "allowed net discrepancy, e.g. 0.01")
}

type analyzeOptions struct {
	overrides
	format string
	period string
	repo   string
	save   bool
	json   bool
}

func newAnalyzeCommand() *cobra.Command {
	var opts analyzeOptions

	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Extract and reconcile one payslip document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(args[0], opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&opts.format, "format", "", "input format: auto, entities, llm, text or pdf")
	cmd.Flags().StringVar(&opts.period, "period", "", "pay period when the document has none, e.g. 01/2025")
	cmd.Flags().StringVar(&opts.repo, "repo", ".", "repository directory")
	cmd.Flags().BoolVar(&opts.save, "save", false, "store the result in the monthly archive")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the result as JSON")

	return cmd
}

func runAnalyze(path string, opts analyzeOptions) error {
	proj, err := loadProject(opts.repo)
	if err != nil {
		return err
	}
	if opts.save {
		if err := proj.requireInitialized(); err != nil {
			return err
		}
	}
	if err := opts.apply(proj); err != nil {
		return err
	}

	nf, err := proj.cfg.NumberFormat()
	if err != nil {
		return err
	}
	vopts, err := proj.cfg.ValidateOptions()
	if err != nil {
		return err
	}

	format := opts.format
	if format == "" {
		format = proj.cfg.Import.Format
	}
	entities, _, err := importer.DefaultRegistry().ParseFile(path, format, nf)
	if err != nil {
		return err
	}

	res, err := payslip.Analyze(entities, nf, vopts)
	if err != nil {
		return fmt.Errorf("analyzing %s: %w", filepath.Base(path), err)
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	if opts.json {
		if res.Warnings == nil {
			res.Warnings = []string{}
		}
		out, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		fmt.Println(string(out))
	} else {
		printAnalysis(res.Analysis, nf)
		printVerdict(res.Verdict, nf)
	}

	if !opts.save {
		return nil
	}

	recordID, err := saveResult(proj, filepath.Base(path), opts.period, res)
	entry := runlog.Entry{
		RunID:      runlog.NewRunID(),
		Action:     "analyze",
		Source:     filepath.Base(path),
		RecordID:   recordID,
		Status:     status(proj, res),
		Confidence: res.Verdict.Confidence.StringFixed(2),
	}
	if err != nil {
		entry.Status = runlog.StatusFailed
		entry.Details = err.Error()
	}
	if logErr := runlog.Append(proj.root, []runlog.Entry{entry}); logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: writing run log: %v\n", logErr)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Saved %s\n", recordID)
	proj.commit("analyze: " + recordID + " from " + filepath.Base(path))
	return nil
}

// saveResult archives res under the document's period, or under fallback when
// the document has none.
func saveResult(proj *project, source, fallback string, res *payslip.Result) (string, error) {
	period := res.Analysis.Period
	if period == "" {
		period = fallback
	}
	if period == "" {
		return "", fmt.Errorf("%s: no pay period found; pass --period", source)
	}
	year, month, err := id.ParsePeriod(period)
	if err != nil {
		return "", fmt.Errorf("%s: %w", source, err)
	}
	return archive.NewService(proj.root).Add(archive.AddParams{
		Year:     year,
		Month:    month,
		Source:   source,
		Analysis: res.Analysis,
		Verdict:  res.Verdict,
	})
}

func status(proj *project, res *payslip.Result) string {
	if res.NeedsReview(proj.cfg.Validation.ReviewBelow) {
		return runlog.StatusReview
	}
	return runlog.StatusOK
}

func printAnalysis(a model.PayslipAnalysis, nf money.NumberFormat) {
	for _, f := range []struct{ label, value string }{
		{"Employer", a.Employer},
		{"Employee", a.Employee},
		{"Period", a.Period},
	} {
		if f.value != "" {
			fmt.Printf("%-12s %s\n", f.label+":", f.value)
		}
	}
	fmt.Printf("%-12s %14s\n", "Gross:", nf.Format(a.GrossSalary))
	fmt.Printf("%-12s %14s\n", "Net:", nf.Format(a.NetSalary))

	fmt.Printf("\nEarnings (%d)\n", len(a.Earnings))
	for _, e := range a.Earnings {
		fmt.Printf("  %-36s %14s\n", e.Description, nf.Format(e.Amount))
	}
	fmt.Printf("Deductions (%d)\n", len(a.Deductions))
	for _, d := range a.Deductions {
		fmt.Printf("  %-36s %14s\n", d.Description, nf.Format(d.Amount))
	}

	if !a.Bases.IsEmpty() {
		fmt.Println("Bases")
		for _, b := range []struct {
			label string
			value *decimal.Decimal
		}{
			{"INSS", a.Bases.INSS},
			{"FGTS", a.Bases.FGTS},
			{"IRRF", a.Bases.IRRF},
		} {
			if b.value != nil {
				fmt.Printf("  %-36s %14s\n", b.label, nf.Format(*b.value))
			}
		}
	}
}

func printVerdict(v model.ValidationVerdict, nf money.NumberFormat) {
	consistent := "no"
	if v.IsConsistent {
		consistent = "yes"
	}
	fmt.Println()
	fmt.Printf("%-16s %s\n", "Model:", v.Model)
	fmt.Printf("%-16s %s\n", "Expected net:", nf.Format(v.ExpectedNet))
	fmt.Printf("%-16s %s\n", "Discrepancy:", nf.Format(v.Discrepancy))
	fmt.Printf("%-16s %s\n", "Consistent:", consistent)
	fmt.Printf("%-16s %s\n", "Confidence:", v.Confidence.StringFixed(2))
	if len(v.Warnings) > 0 {
		fmt.Printf("Warnings:\n  - %s\n", strings.Join(v.Warnings, "\n  - "))
	}
}
