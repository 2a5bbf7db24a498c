package report

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/holerite-dev/holerite/internal/archive"
	"github.com/holerite-dev/holerite/internal/model"
)

// Categorizer assigns a line item to a summary category.
type Categorizer interface {
	Categorize(kind model.ItemKind, description string) string
}

// CategoryTotal is the sum of one category's lines within a month.
type CategoryTotal struct {
	Kind     model.ItemKind
	Category string
	Total    decimal.Decimal
}

// MonthlySummary aggregates the archived payslips of one month.
type MonthlySummary struct {
	Period        string
	Payslips      int
	Consistent    int
	Inconsistent  int
	Gross         decimal.Decimal
	Net           decimal.Decimal
	Earnings      decimal.Decimal
	Deductions    decimal.Decimal
	AvgConfidence decimal.Decimal
	Categories    []CategoryTotal
}

// Monthly groups records by period, sorted by period. Categories within a
// month are ordered earnings first, then by category name.
func Monthly(records []archive.Record, cat Categorizer) []MonthlySummary {
	byPeriod := make(map[string]*MonthlySummary)
	catTotals := make(map[string]map[CategoryTotal]decimal.Decimal)
	confidence := make(map[string]decimal.Decimal)

	for _, r := range records {
		s, ok := byPeriod[r.Period]
		if !ok {
			s = &MonthlySummary{Period: r.Period}
			byPeriod[r.Period] = s
			catTotals[r.Period] = make(map[CategoryTotal]decimal.Decimal)
		}
		a := r.Analysis
		s.Payslips++
		if r.Consistent {
			s.Consistent++
		} else {
			s.Inconsistent++
		}
		s.Gross = s.Gross.Add(a.GrossSalary)
		s.Net = s.Net.Add(a.NetSalary)
		s.Earnings = s.Earnings.Add(a.TotalEarnings())
		s.Deductions = s.Deductions.Add(a.TotalDeductions())
		confidence[r.Period] = confidence[r.Period].Add(r.Confidence)

		totals := catTotals[r.Period]
		for _, e := range a.Earnings {
			key := CategoryTotal{Kind: model.KindEarning, Category: cat.Categorize(model.KindEarning, e.Description)}
			totals[key] = totals[key].Add(e.Amount)
		}
		for _, d := range a.Deductions {
			key := CategoryTotal{Kind: model.KindDeduction, Category: cat.Categorize(model.KindDeduction, d.Description)}
			totals[key] = totals[key].Add(d.Amount)
		}
	}

	out := make([]MonthlySummary, 0, len(byPeriod))
	for period, s := range byPeriod {
		s.AvgConfidence = confidence[period].Div(decimal.NewFromInt(int64(s.Payslips))).Round(2)
		for key, total := range catTotals[period] {
			key.Total = total
			s.Categories = append(s.Categories, key)
		}
		sort.Slice(s.Categories, func(i, j int) bool {
			a, b := s.Categories[i], s.Categories[j]
			if a.Kind != b.Kind {
				return a.Kind == model.KindEarning
			}
			return a.Category < b.Category
		})
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out
}

// Total folds monthly summaries into one, labelled period.
func Total(period string, months []MonthlySummary) MonthlySummary {
	t := MonthlySummary{Period: period}
	var conf decimal.Decimal
	for _, m := range months {
		t.Payslips += m.Payslips
		t.Consistent += m.Consistent
		t.Inconsistent += m.Inconsistent
		t.Gross = t.Gross.Add(m.Gross)
		t.Net = t.Net.Add(m.Net)
		t.Earnings = t.Earnings.Add(m.Earnings)
		t.Deductions = t.Deductions.Add(m.Deductions)
		conf = conf.Add(m.AvgConfidence.Mul(decimal.NewFromInt(int64(m.Payslips))))
	}
	if t.Payslips > 0 {
		t.AvgConfidence = conf.Div(decimal.NewFromInt(int64(t.Payslips))).Round(2)
	}
	return t
}

// Write prints summaries as an aligned table followed by a total row.
func Write(w io.Writer, months []MonthlySummary, total MonthlySummary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "period\tpayslips\tok\tflagged\tgross\tnet\tdeductions\tconfidence\t")
	for _, m := range append(append([]MonthlySummary(nil), months...), total) {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\t%s\t%s\t%s\t\n",
			m.Period, m.Payslips, m.Consistent, m.Inconsistent,
			m.Gross.StringFixed(2), m.Net.StringFixed(2), m.Deductions.StringFixed(2),
			m.AvgConfidence.StringFixed(2))
	}
	return tw.Flush()
}

// WriteCategories prints the per-category totals of each month.
func WriteCategories(w io.Writer, months []MonthlySummary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "period\tkind\tcategory\ttotal")
	for _, m := range months {
		for _, c := range m.Categories {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.Period, c.Kind, c.Category, c.Total.StringFixed(2))
		}
	}
	return tw.Flush()
}
