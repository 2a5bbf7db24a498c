package commands

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/holerite-dev/holerite/internal/archive"
	"github.com/holerite-dev/holerite/internal/catalog"
	"github.com/holerite-dev/holerite/internal/report"
)

func newSummaryCommand() *cobra.Command {
	var repo string
	var year int
	var categories bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show monthly totals of archived payslips",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(repo, year, categories)
		},
	}

	cmd.Flags().StringVar(&repo, "repo", ".", "repository directory")
	cmd.Flags().IntVar(&year, "year", time.Now().Year(), "year to summarize")
	cmd.Flags().BoolVar(&categories, "categories", false, "also show totals per rubric category")

	return cmd
}

func runSummary(repo string, year int, categories bool) error {
	proj, records, cat, err := loadYear(repo, year)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Printf("No payslips archived for %d in %s\n", year, proj.root)
		return nil
	}

	months := report.Monthly(records, cat)
	if err := report.Write(os.Stdout, months, report.Total(strconv.Itoa(year), months)); err != nil {
		return err
	}
	if categories {
		fmt.Println()
		return report.WriteCategories(os.Stdout, months)
	}
	return nil
}

// loadYear reads a year of archived records and the project's catalog.
func loadYear(repo string, year int) (*project, []archive.Record, *catalog.Service, error) {
	proj, err := loadProject(repo)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := proj.requireInitialized(); err != nil {
		return nil, nil, nil, err
	}

	records, err := archive.NewService(proj.root).ReadYear(year)
	if err != nil {
		return nil, nil, nil, err
	}
	cat, err := catalog.LoadOrDefault(proj.root, proj.cfg.Parsing.Locale)
	if err != nil {
		return nil, nil, nil, err
	}
	return proj, records, cat, nil
}
