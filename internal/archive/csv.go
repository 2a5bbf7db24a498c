package archive

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Header is the CSV header for payslips.csv.
const Header = "record_id,period,source,kind,description,amount,consistent,discrepancy,confidence"

const (
	numFields      = 9
	colRecordID    = 0
	colPeriod      = 1
	colSource      = 2
	colKind        = 3
	colDesc        = 4
	colAmount      = 5
	colConsistent  = 6
	colDiscrepancy = 7
	colConfidence  = 8
)

// ReadLines reads all rows from a payslips.csv reader.
func ReadLines(r io.Reader) ([]Line, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading archive CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var lines []Line
	for i, rec := range records[1:] {
		line, err := UnmarshalLine(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// WriteLines writes rows to a payslips.csv writer (including header).
func WriteLines(w io.Writer, lines []Line) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, line := range lines {
		if err := cw.Write(MarshalLine(line)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// AppendLines appends rows to an existing payslips.csv writer (no header).
func AppendLines(w io.Writer, lines []Line) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	for i, line := range lines {
		if err := cw.Write(MarshalLine(line)); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalLine converts a Line to a CSV row ([]string).
func MarshalLine(l Line) []string {
	row := make([]string, numFields)
	row[colRecordID] = l.RecordID
	row[colPeriod] = l.Period
	row[colSource] = l.Source
	row[colKind] = string(l.Kind)
	row[colDesc] = l.Description
	row[colAmount] = l.Amount.StringFixed(2)
	row[colConsistent] = strconv.FormatBool(l.Consistent)
	row[colDiscrepancy] = l.Discrepancy.StringFixed(2)
	row[colConfidence] = l.Confidence.StringFixed(2)
	return row
}

// UnmarshalLine converts a CSV row to a Line.
func UnmarshalLine(record []string) (Line, error) {
	if len(record) != numFields {
		return Line{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return Line{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	consistent, err := strconv.ParseBool(record[colConsistent])
	if err != nil {
		return Line{}, fmt.Errorf("parsing consistent %q: %w", record[colConsistent], err)
	}

	var discrepancy, confidence decimal.Decimal
	if record[colDiscrepancy] != "" {
		discrepancy, err = decimal.NewFromString(record[colDiscrepancy])
		if err != nil {
			return Line{}, fmt.Errorf("parsing discrepancy %q: %w", record[colDiscrepancy], err)
		}
	}
	if record[colConfidence] != "" {
		confidence, err = decimal.NewFromString(record[colConfidence])
		if err != nil {
			return Line{}, fmt.Errorf("parsing confidence %q: %w", record[colConfidence], err)
		}
	}

	return Line{
		RecordID:    record[colRecordID],
		Period:      record[colPeriod],
		Source:      record[colSource],
		Kind:        LineKind(record[colKind]),
		Description: record[colDesc],
		Amount:      amount,
		Consistent:  consistent,
		Discrepancy: discrepancy,
		Confidence:  confidence,
	}, nil
}
