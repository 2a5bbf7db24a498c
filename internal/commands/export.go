package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/holerite-dev/holerite/internal/export"
)

func newExportCommand() *cobra.Command {
	var repo string
	var year int
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write archived payslips to an XLSX workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(repo, year, out)
		},
	}

	cmd.Flags().StringVar(&repo, "repo", ".", "repository directory")
	cmd.Flags().IntVar(&year, "year", time.Now().Year(), "year to export")
	cmd.Flags().StringVar(&out, "out", "", "output file (default exports/holerite-<year>.xlsx)")

	return cmd
}

func runExport(repo string, year int, out string) error {
	proj, records, cat, err := loadYear(repo, year)
	if err != nil {
		return err
	}

	if out == "" {
		out = filepath.Join(proj.root, "exports", fmt.Sprintf("holerite-%d.xlsx", year))
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	if err := export.WriteFile(out, records, cat); err != nil {
		return err
	}

	fmt.Printf("Exported %d payslips to %s\n", len(records), out)
	return nil
}
