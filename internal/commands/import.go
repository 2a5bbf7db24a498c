package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/holerite-dev/holerite/internal/importer"
	"github.com/holerite-dev/holerite/internal/payslip"
	"github.com/holerite-dev/holerite/internal/runlog"
)

type importOptions struct {
	repo    string
	format  string
	workers int
}

func newImportCommand() *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Analyze and archive every document in inbox/",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(opts)
		},
	}

	cmd.Flags().StringVar(&opts.repo, "repo", ".", "repository directory")
	cmd.Flags().StringVar(&opts.format, "format", "", "input format for every file (default: detect per file)")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "parallel documents (default from holerite.yaml)")

	return cmd
}

// fileResult is the outcome of analyzing one inbox file.
type fileResult struct {
	file   importer.FileInfo
	format string
	result *payslip.Result
	err    error
}

func runImport(opts importOptions) error {
	proj, err := loadProject(opts.repo)
	if err != nil {
		return err
	}
	if err := proj.requireInitialized(); err != nil {
		return err
	}
	cfg := proj.cfg

	files, err := importer.Scan(proj.root)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("No documents in inbox.")
		return nil
	}

	nf, err := cfg.NumberFormat()
	if err != nil {
		return err
	}
	vopts, err := cfg.ValidateOptions()
	if err != nil {
		return err
	}
	format := opts.format
	if format == "" {
		format = cfg.Import.Format
	}
	workers := opts.workers
	if workers < 1 {
		workers = cfg.Import.Workers
	}

	// Analysis runs in parallel; archiving below stays in inbox order so
	// record IDs are assigned deterministically.
	registry := importer.DefaultRegistry()
	results := make([]fileResult, len(files))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			r := fileResult{file: f}
			entities, used, err := registry.ParseFile(f.Path, format, nf)
			r.format = used
			if err == nil {
				r.result, err = payslip.Analyze(entities, nf, vopts)
			}
			r.err = err
			results[i] = r
			return nil
		})
	}
	_ = g.Wait()

	runID := runlog.NewRunID()
	var entries []runlog.Entry
	var imported, review, failed int
	for _, r := range results {
		entry := runlog.Entry{RunID: runID, Action: "import", Source: r.file.Name}
		if r.err != nil {
			failed++
			entry.Status = runlog.StatusFailed
			entry.Details = r.err.Error()
			entries = append(entries, entry)
			fmt.Fprintf(os.Stderr, "warning: %s: %v\n", r.file.Name, r.err)
			continue
		}

		for _, w := range r.result.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s: %s\n", r.file.Name, w)
		}
		entry.Status = status(proj, r.result)
		entry.Confidence = r.result.Verdict.Confidence.StringFixed(2)
		entry.Details = r.format

		if cfg.Import.Archive {
			recordID, err := saveResult(proj, r.file.Name, "", r.result)
			if err != nil {
				failed++
				entry.Status = runlog.StatusFailed
				entry.Details = err.Error()
				entries = append(entries, entry)
				fmt.Fprintf(os.Stderr, "warning: %v\n", err)
				continue
			}
			entry.RecordID = recordID
			if err := importer.MarkProcessed(proj.root, r.file.Name); err != nil {
				fmt.Fprintf(os.Stderr, "warning: %v\n", err)
			}
		}

		imported++
		if entry.Status == runlog.StatusReview {
			review++
		}
		entries = append(entries, entry)
		fmt.Printf("  %-32s %-10s %-8s %s\n", r.file.Name, entry.RecordID, entry.Status, entry.Confidence)
	}

	if err := runlog.Append(proj.root, entries); err != nil {
		return err
	}

	fmt.Printf("Imported %d, review %d, failed %d\n", imported, review, failed)
	if imported > 0 {
		proj.commit(fmt.Sprintf("import: %d payslips", imported))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(files))
	}
	return nil
}
