package commands

import (
	"github.com/spf13/cobra"

	"github.com/holerite-dev/holerite/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "holerite",
		Short:   "Payslip normalization and reconciliation",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newAnalyzeCommand())
	rootCmd.AddCommand(newValidateCommand())
	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newSummaryCommand())
	rootCmd.AddCommand(newExportCommand())
	rootCmd.AddCommand(newServeCommand())

	return rootCmd
}
