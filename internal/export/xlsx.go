package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/holerite-dev/holerite/internal/archive"
	"github.com/holerite-dev/holerite/internal/model"
	"github.com/holerite-dev/holerite/internal/report"
)

// Sheet names in the exported workbook.
const (
	SheetPayslips = "Payslips"
	SheetLines    = "Lines"
)

var (
	payslipHeader = []any{"record_id", "period", "source", "employer", "employee", "gross", "net", "earnings", "deductions", "consistent", "discrepancy", "confidence"}
	lineHeader    = []any{"record_id", "period", "kind", "description", "category", "amount"}
)

// moneyFormat is the built-in "#,##0.00" number format.
const moneyFormat = 4

// Workbook builds a workbook with one row per payslip and one row per line
// item. The caller closes the returned file.
func Workbook(records []archive.Record, cat report.Categorizer) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetPayslips); err != nil {
		f.Close()
		return nil, fmt.Errorf("renaming sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetLines); err != nil {
		f.Close()
		return nil, fmt.Errorf("creating sheet %s: %w", SheetLines, err)
	}

	if err := writePayslips(f, records); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeLines(f, records, cat); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// WriteFile saves the workbook to path.
func WriteFile(path string, records []archive.Record, cat report.Categorizer) error {
	f, err := Workbook(records, cat)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

// Write streams the workbook to w.
func Write(w io.Writer, records []archive.Record, cat report.Categorizer) error {
	f, err := Workbook(records, cat)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writePayslips(f *excelize.File, records []archive.Record) error {
	if err := setRow(f, SheetPayslips, 1, payslipHeader); err != nil {
		return err
	}
	for i, r := range records {
		a := r.Analysis
		row := []any{
			r.ID, r.Period, r.Source, a.Employer, a.Employee,
			a.GrossSalary.InexactFloat64(), a.NetSalary.InexactFloat64(),
			a.TotalEarnings().InexactFloat64(), a.TotalDeductions().InexactFloat64(),
			r.Consistent, r.Discrepancy.InexactFloat64(), r.Confidence.InexactFloat64(),
		}
		if err := setRow(f, SheetPayslips, i+2, row); err != nil {
			return err
		}
	}
	if err := moneyColumns(f, SheetPayslips, "F", "I", len(records)); err != nil {
		return err
	}
	return f.SetColWidth(SheetPayslips, "D", "E", 28)
}

func writeLines(f *excelize.File, records []archive.Record, cat report.Categorizer) error {
	if err := setRow(f, SheetLines, 1, lineHeader); err != nil {
		return err
	}
	row := 2
	add := func(r archive.Record, kind model.ItemKind, item model.LineItem) error {
		values := []any{
			r.ID, r.Period, string(kind), item.Description,
			cat.Categorize(kind, item.Description), item.Amount.InexactFloat64(),
		}
		err := setRow(f, SheetLines, row, values)
		row++
		return err
	}
	for _, r := range records {
		for _, e := range r.Analysis.Earnings {
			if err := add(r, model.KindEarning, model.LineItem(e)); err != nil {
				return err
			}
		}
		for _, d := range r.Analysis.Deductions {
			if err := add(r, model.KindDeduction, model.LineItem(d)); err != nil {
				return err
			}
		}
	}
	if err := moneyColumns(f, SheetLines, "F", "F", row-2); err != nil {
		return err
	}
	return f.SetColWidth(SheetLines, "D", "D", 32)
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("writing %s row %d: %w", sheet, row, err)
	}
	return nil
}

// moneyColumns applies the money format to rows 2..n+1 of columns from..to.
func moneyColumns(f *excelize.File, sheet, from, to string, n int) error {
	if n == 0 {
		return nil
	}
	style, err := f.NewStyle(&excelize.Style{NumFmt: moneyFormat})
	if err != nil {
		return fmt.Errorf("creating money style: %w", err)
	}
	return f.SetCellStyle(sheet, fmt.Sprintf("%s2", from), fmt.Sprintf("%s%d", to, n+1), style)
}
