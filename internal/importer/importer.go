package importer

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/holerite-dev/holerite/internal/model"
	"github.com/holerite-dev/holerite/internal/money"
)

// Parser converts a payslip source document into typed entities. Amounts stay
// as locale text; the assembler parses them.
type Parser interface {
	Parse(r io.Reader, nf money.NumberFormat) ([]model.Entity, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// FileInfo describes a document in the inbox directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// FormatAuto asks ParseFile to pick a parser with Detect.
const FormatAuto = "auto"

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// Formats lists registered format names in sorted order.
func (r *Registry) Formats() []string {
	out := make([]string, 0, len(r.parsers))
	for k := range r.parsers {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&EntitiesParser{})
	r.Register(&LLMParser{})
	r.Register(&TextParser{})
	r.Register(&PDFParser{})
	return r
}

// Detect picks a format from the file name, peeking at JSON payloads to tell
// LLM output apart from extraction entities. It returns "" when unknown.
func Detect(name string, data []byte) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		for _, key := range []string{`"net_salary"`, `"gross_salary"`, `"earnings"`} {
			if bytes.Contains(data, []byte(key)) {
				return "llm"
			}
		}
		return "entities"
	case ".txt":
		return "text"
	case ".pdf":
		return "pdf"
	default:
		return ""
	}
}

// ParseFile reads path and parses it with the named format, or with the
// detected one when format is empty or "auto". It returns the format used.
func (r *Registry) ParseFile(path, format string, nf money.NumberFormat) ([]model.Entity, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", path, err)
	}
	if format == "" || strings.EqualFold(format, FormatAuto) {
		format = Detect(path, data)
		if format == "" {
			return nil, "", fmt.Errorf("cannot detect format of %s", filepath.Base(path))
		}
	}
	p := r.Get(format)
	if p == nil {
		return nil, "", fmt.Errorf("unknown format %q (have %s)", format, strings.Join(r.Formats(), ", "))
	}
	entities, err := p.Parse(bytes.NewReader(data), nf)
	if err != nil {
		return nil, p.Format(), fmt.Errorf("parsing %s as %s: %w", filepath.Base(path), p.Format(), err)
	}
	return entities, p.Format(), nil
}

// inboxDir is the subdirectory for documents awaiting import.
const inboxDir = "inbox"

// processedDir is the subdirectory for imported documents.
const processedDir = "inbox/processed"

// Scan returns importable documents in <repoRoot>/inbox/.
func Scan(repoRoot string) ([]FileInfo, error) {
	dir := filepath.Join(repoRoot, inboxDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading inbox dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if Detect(e.Name(), nil) == "" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from inbox/ to inbox/processed/.
func MarkProcessed(repoRoot, fileName string) error {
	src := filepath.Join(repoRoot, inboxDir, fileName)
	dstDir := filepath.Join(repoRoot, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
