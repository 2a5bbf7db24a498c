package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/holerite-dev/holerite/internal/model"
	"github.com/holerite-dev/holerite/internal/payslip"
)

// errInconsistent makes validate exit non-zero for scripts.
var errInconsistent = errors.New("payslip does not reconcile")

type validateOptions struct {
	overrides
	repo string
	json bool
}

func newValidateCommand() *cobra.Command {
	var opts validateOptions

	cmd := &cobra.Command{
		Use:   "validate <analysis.json>",
		Short: "Reconcile a previously extracted analysis",
		Long: "Reads a PayslipAnalysis as JSON, or the output of analyze --json,\n" +
			"and recomputes its verdict. Exits non-zero when it does not reconcile.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args[0], opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&opts.repo, "repo", ".", "repository directory")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the verdict as JSON")

	return cmd
}

func runValidate(path string, opts validateOptions) error {
	proj, err := loadProject(opts.repo)
	if err != nil {
		return err
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

	analysis, err := readAnalysis(path)
	if err != nil {
		return err
	}

	verdict := payslip.Validate(analysis, vopts)
	if opts.json {
		out, err := json.MarshalIndent(verdict, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding verdict: %w", err)
		}
		fmt.Println(string(out))
	} else {
		printVerdict(verdict, nf)
	}

	if !verdict.IsConsistent {
		return errInconsistent
	}
	return nil
}

// readAnalysis accepts a bare analysis or an {"analysis": ...} wrapper.
func readAnalysis(path string) (model.PayslipAnalysis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.PayslipAnalysis{}, fmt.Errorf("reading %s: %w", path, err)
	}

	var wrapped struct {
		Analysis *model.PayslipAnalysis `json:"analysis"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return model.PayslipAnalysis{}, fmt.Errorf("decoding %s: %w", path, err)
	}
	if wrapped.Analysis != nil {
		return *wrapped.Analysis, nil
	}

	var a model.PayslipAnalysis
	if err := json.Unmarshal(data, &a); err != nil {
		return model.PayslipAnalysis{}, fmt.Errorf("decoding %s: %w", path, err)
	}
	return a, nil
}
