package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/holerite-dev/holerite/internal/config"
	"github.com/holerite-dev/holerite/internal/gitops"
)

// project is a resolved repository root and its configuration.
type project struct {
	root        string
	cfg         *config.Config
	initialized bool
}

// loadProject reads holerite.yaml under repoDir. Outside a project the
// defaults plus HOLERITE_* environment overrides apply.
func loadProject(repoDir string) (*project, error) {
	root, err := filepath.Abs(repoDir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(filepath.Join(root, config.FileName))
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err = config.FromEnv()
		if err != nil {
			return nil, err
		}
		return &project{root: root, cfg: cfg}, nil
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", config.FileName, err)
	}
	return &project{root: root, cfg: cfg, initialized: true}, nil
}

// requireInitialized fails for commands that write into the repository.
func (p *project) requireInitialized() error {
	if !p.initialized {
		return fmt.Errorf("%s is not a holerite project (no %s); run holerite init first", p.root, config.FileName)
	}
	return nil
}

// commit records repository changes when auto-commit is on. Failures are
// reported as warnings: the archive on disk is already consistent.
func (p *project) commit(message string) {
	if !p.cfg.Git.AutoCommit || !gitops.Available() || !gitops.IsRepo(p.root) {
		return
	}
	hash, err := gitops.CommitAll(p.root, message, p.cfg.Git.AuthorName, p.cfg.Git.AuthorEmail)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: git commit: %v\n", err)
		return
	}
	if hash != "" {
		fmt.Printf("Committed %s\n", hash)
	}
}
