package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/holerite-dev/holerite/internal/catalog"
	"github.com/holerite-dev/holerite/internal/config"
	"github.com/holerite-dev/holerite/internal/gitops"
)

func newInitCommand() *cobra.Command {
	var name string
	var locale string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new payslip archive",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(absDir, name, locale)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "owner name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&locale, "locale", "pt-BR", "number format of the payslips")

	return cmd
}

func runInit(dir, name, locale string) error {
	cfg := config.Default(name)
	cfg.Parsing.Locale = locale
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Create directory structure.
	dirs := []string{
		"inbox",
		filepath.Join("inbox", "processed"),
		"catalog",
		"logs",
		"exports",
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(filepath.Join(dir, config.FileName), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write the rubric catalog for the locale.
	svc, err := catalog.NewService(catalog.DefaultCatalog(locale))
	if err != nil {
		return fmt.Errorf("building rubric catalog: %w", err)
	}
	if err := svc.Save(dir); err != nil {
		return fmt.Errorf("writing rubric catalog: %w", err)
	}

	gitignore := "exports/\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "inbox", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	if !cfg.Git.AutoCommit || !gitops.Available() {
		fmt.Printf("Initialized holerite project at %s\n", dir)
		return nil
	}

	if err := gitops.Init(dir); err != nil {
		return fmt.Errorf("git init: %w", err)
	}

	hash, err := gitops.CommitAll(dir, "init: Initialize "+name, cfg.Git.AuthorName, cfg.Git.AuthorEmail)
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	fmt.Printf("Initialized holerite project at %s (%s)\n", dir, hash)
	return nil
}
