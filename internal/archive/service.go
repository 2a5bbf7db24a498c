package archive

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/holerite-dev/holerite/internal/id"
	"github.com/holerite-dev/holerite/internal/model"
)

// FileName is the per-month archive file.
const FileName = "payslips.csv"

// Service stores analyzed payslips as monthly CSV files under a repo root.
type Service struct {
	repoRoot string
}

// NewService creates an archive Service.
func NewService(repoRoot string) *Service {
	return &Service{repoRoot: repoRoot}
}

// AddParams holds one analyzed payslip to archive.
type AddParams struct {
	Year     int
	Month    int
	Source   string
	Analysis model.PayslipAnalysis
	Verdict  model.ValidationVerdict
}

// Add validates the month with the new record included and appends it to
// <YYYY>/<MM>/payslips.csv. Returns the record ID.
func (s *Service) Add(params AddParams) (string, error) {
	if params.Month < 1 || params.Month > 12 {
		return "", fmt.Errorf("month %d out of range", params.Month)
	}

	existing, err := s.ReadMonth(params.Year, params.Month)
	if err != nil {
		return "", err
	}
	seq := nextSeq(existing)

	rec := Record{
		ID:          id.FormatRecordID(params.Year, params.Month, seq),
		Period:      id.FormatPeriod(params.Year, params.Month),
		Source:      params.Source,
		Analysis:    params.Analysis,
		Consistent:  params.Verdict.IsConsistent,
		Discrepancy: params.Verdict.Discrepancy,
		Confidence:  params.Verdict.Confidence,
	}
	newLines := rec.Lines()

	// Validate ALL lines together.
	allLines := append(existing, newLines...)
	if verrs := ValidateLines(allLines, params.Year, params.Month); len(verrs) > 0 {
		msgs := make([]string, len(verrs))
		for i, ve := range verrs {
			msgs[i] = ve.Error()
		}
		return "", fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
	}

	path := s.monthPath(params.Year, params.Month)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating archive dir: %w", err)
	}

	isNew := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return "", fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	if isNew {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			return "", fmt.Errorf("writing header: %w", err)
		}
	}

	if err := AppendLines(f, newLines); err != nil {
		return "", fmt.Errorf("appending lines: %w", err)
	}

	return rec.ID, nil
}

// ReadMonth reads all rows for a given year/month.
func (s *Service) ReadMonth(year, month int) ([]Line, error) {
	path := s.monthPath(year, month)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening archive %s: %w", path, err)
	}
	defer f.Close()

	lines, err := ReadLines(f)
	if err != nil {
		return nil, fmt.Errorf("reading archive %s: %w", path, err)
	}
	return lines, nil
}

// Records returns the archived payslips of a month.
func (s *Service) Records(year, month int) ([]Record, error) {
	lines, err := s.ReadMonth(year, month)
	if err != nil {
		return nil, err
	}
	return Group(lines), nil
}

// ReadYear returns every archived payslip of a year, month by month.
func (s *Service) ReadYear(year int) ([]Record, error) {
	var out []Record
	for month := 1; month <= 12; month++ {
		recs, err := s.Records(year, month)
		if err != nil {
			return nil, err
		}
		out = append(out, recs...)
	}
	return out, nil
}

// NextSeq returns the next available sequence number for a month.
func (s *Service) NextSeq(year, month int) (int, error) {
	lines, err := s.ReadMonth(year, month)
	if err != nil {
		return 0, err
	}
	return nextSeq(lines), nil
}

func nextSeq(lines []Line) int {
	maxSeq := 0
	for _, l := range lines {
		_, _, seq, err := id.ParseRecordID(l.RecordID)
		if err != nil {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	return maxSeq + 1
}

func (s *Service) monthPath(year, month int) string {
	return filepath.Join(s.repoRoot, fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", month), FileName)
}
