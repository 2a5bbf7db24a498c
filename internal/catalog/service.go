package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	dirName  = "catalog"
	fileName = "rubrics.csv"
)

// Load reads catalog/rubrics.csv from a repo root and returns a Service.
func Load(repoRoot string) (*Service, error) {
	path := filepath.Join(repoRoot, dirName, fileName)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening rubric catalog: %w", err)
	}
	defer f.Close()

	rubrics, err := ReadRubrics(f)
	if err != nil {
		return nil, fmt.Errorf("reading rubric catalog: %w", err)
	}
	return NewService(rubrics)
}

// LoadOrDefault loads the repo catalog, falling back to the built-in one for
// the locale when the repo has none.
func LoadOrDefault(repoRoot, locale string) (*Service, error) {
	svc, err := Load(repoRoot)
	if err == nil {
		return svc, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return NewService(DefaultCatalog(locale))
}

// Save writes the catalog to catalog/rubrics.csv.
func (s *Service) Save(repoRoot string) error {
	dir := filepath.Join(repoRoot, dirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating catalog dir: %w", err)
	}

	path := filepath.Join(dir, fileName)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating rubric catalog file: %w", err)
	}
	defer f.Close()

	if err := WriteRubrics(f, s.rubrics); err != nil {
		return fmt.Errorf("writing rubric catalog: %w", err)
	}
	return nil
}
