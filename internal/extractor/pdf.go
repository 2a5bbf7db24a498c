package extractor

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// ErrUnreadable is returned when a PDF has no usable text layer, e.g. a
// scanned image. Such files need OCR before they can be imported.
var ErrUnreadable = errors.New("no readable text in PDF")

// ExtractText reads a PDF file and returns its text as lines, page by page.
func ExtractText(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	return ExtractReader(f, info.Size())
}

// ExtractReader is ExtractText over an in-memory or already-open document.
func ExtractReader(ra io.ReaderAt, size int64) (lines []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PDF library crashed: %v", r)
		}
	}()

	r, err := pdf.NewReader(ra, size)
	if err != nil {
		return nil, fmt.Errorf("reading PDF: %w", err)
	}
	if r.NumPage() == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}

	lines = extractByRow(r)
	if !IsReadable(lines) {
		return nil, ErrUnreadable
	}
	return lines, nil
}

// extractByRow joins the words of each text row. Rows keep the library's
// top-to-bottom order so column layout survives as word order.
func extractByRow(r *pdf.Reader) []string {
	var lines []string
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		for _, row := range rows {
			parts := make([]string, 0, len(row.Content))
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			if line := strings.TrimSpace(strings.Join(parts, " ")); line != "" {
				lines = append(lines, line)
			}
		}
	}
	return lines
}

// payslipWords appear on virtually every Brazilian or French payslip.
var payslipWords = []string{
	"salario", "salário", "vencimentos", "descontos", "liquido", "líquido",
	"inss", "fgts", "irrf", "total", "salaire", "net a payer", "brut", "cotisations",
}

// IsReadable reports whether extracted lines look like real payslip text
// rather than glyph garbage from an unmapped font: enough characters, mostly
// printable, and at least one payslip word.
func IsReadable(lines []string) bool {
	text := strings.Join(lines, "\n")
	if len(strings.TrimSpace(text)) <= 50 {
		return false
	}
	if textQuality(text) <= 0.6 {
		return false
	}
	lower := strings.ToLower(text)
	for _, w := range payslipWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func textQuality(text string) float64 {
	total, readable := 0, 0
	for _, r := range text {
		total++
		if unicode.IsLetter(r) && r < 0x250 || unicode.IsDigit(r) || unicode.IsSpace(r) || strings.ContainsRune(".,-/:;()'\"$€%&+*", r) {
			readable++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}
