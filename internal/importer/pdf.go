package importer

import (
	"bytes"
	"fmt"
	"io"

	"github.com/holerite-dev/holerite/internal/extractor"
	"github.com/holerite-dev/holerite/internal/model"
	"github.com/holerite-dev/holerite/internal/money"
)

// PDFParser extracts the text layer of a PDF and reads it like TextParser.
type PDFParser struct{}

// Format returns the parser name.
func (p *PDFParser) Format() string { return "pdf" }

// Parse buffers the document because the PDF reader needs random access.
func (p *PDFParser) Parse(r io.Reader, nf money.NumberFormat) ([]model.Entity, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading pdf: %w", err)
	}
	lines, err := extractor.ExtractReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	return parseLines(lines, nf), nil
}
