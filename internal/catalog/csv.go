package catalog

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/holerite-dev/holerite/internal/model"
)

const (
	numFields   = 5
	colCode     = 0
	colName     = 1
	colKind     = 2
	colCategory = 3
	colPattern  = 4
)

// ReadRubrics reads rubrics.csv.
func ReadRubrics(r io.Reader) ([]Rubric, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading rubrics CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var rubrics []Rubric
	for i, rec := range records[1:] {
		r, err := UnmarshalRubric(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rubrics = append(rubrics, r)
	}
	return rubrics, nil
}

// WriteRubrics writes rubrics.csv.
func WriteRubrics(w io.Writer, rubrics []Rubric) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"code", "name", "kind", "category", "pattern"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, r := range rubrics {
		if err := cw.Write(MarshalRubric(r)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalRubric converts a Rubric to a CSV row.
func MarshalRubric(r Rubric) []string {
	row := make([]string, numFields)
	row[colCode] = r.Code
	row[colName] = r.Name
	row[colKind] = string(r.Kind)
	row[colCategory] = r.Category
	row[colPattern] = r.Pattern
	return row
}

// UnmarshalRubric converts a CSV row to a Rubric.
func UnmarshalRubric(record []string) (Rubric, error) {
	if len(record) != numFields {
		return Rubric{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}
	if record[colCode] == "" {
		return Rubric{}, fmt.Errorf("empty code")
	}

	kind := model.ItemKind(record[colKind])
	if kind != model.KindEarning && kind != model.KindDeduction {
		return Rubric{}, fmt.Errorf("parsing kind %q: must be %s or %s", record[colKind], model.KindEarning, model.KindDeduction)
	}

	return Rubric{
		Code:     record[colCode],
		Name:     record[colName],
		Kind:     kind,
		Category: record[colCategory],
		Pattern:  record[colPattern],
	}, nil
}
