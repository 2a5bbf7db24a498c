package importer

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/holerite-dev/holerite/internal/model"
	"github.com/holerite-dev/holerite/internal/money"
	"github.com/holerite-dev/holerite/internal/textfold"
)

// TextParser reads OCR or pasted payslip text, one printed row per line.
type TextParser struct{}

// Format returns the parser name.
func (p *TextParser) Format() string { return "text" }

// Parse scans the text line by line. Amounts are recognized with nf's
// separators, so only locales that group with spaces split on them.
func (p *TextParser) Parse(r io.Reader, nf money.NumberFormat) ([]model.Entity, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading text: %w", err)
	}
	return parseLines(lines, nf), nil
}

var (
	codePattern      = regexp.MustCompile(`^\s*\d{2,6}\s+`)
	periodPattern    = regexp.MustCompile(`(?:REFERENCIA|COMPETENCIA|PERIODE)\s*:?\s*(\d{2}/\d{4})`)
	referencePattern = regexp.MustCompile(`\s+\d{1,3}$`)
)

// amountPatterns holds the locale-dependent expressions.
type amountPatterns struct {
	amount *regexp.Regexp
	base   *regexp.Regexp
}

// patternCache maps a locale to its *amountPatterns.
var patternCache sync.Map

// amountExpr matches either digit groups joined by one of nf's group
// separators or a plain digit run, then the decimal separator and two digits.
func amountExpr(nf money.NumberFormat) string {
	dec, groups := nf.Separators()
	whole := `\d+`
	if len(groups) > 0 {
		var class strings.Builder
		for _, g := range groups {
			fmt.Fprintf(&class, `\x{%x}`, g)
		}
		whole = `(?:\d{1,3}(?:[` + class.String() + `]\d{3})+|\d+)`
	}
	return whole + fmt.Sprintf(`\x{%x}`, dec) + `\d{2}`
}

func patternsFor(nf money.NumberFormat) *amountPatterns {
	if p, ok := patternCache.Load(nf.Locale()); ok {
		return p.(*amountPatterns)
	}
	expr := amountExpr(nf)
	p := &amountPatterns{
		amount: regexp.MustCompile(expr),
		base:   regexp.MustCompile(`BASE\s+CALC\.?\s*(INSS|FGTS|IRRF)\s*:?\s*(` + expr + `)`),
	}
	actual, _ := patternCache.LoadOrStore(nf.Locale(), p)
	return actual.(*amountPatterns)
}

var (
	netKeywords   = []string{"LIQUIDO", "NET A PAYER", "NET PAYE"}
	grossKeywords = []string{"TOTAL DE VENCIMENTOS", "TOTAL VENCIMENTOS", "SALAIRE BRUT", "TOTAL BRUT"}
	employeeHints = []string{"NOME DO FUNCIONARIO", "NOME DO EMPREGADO", "NOM DU SALARIE"}
)

// columnPair names the earnings and deductions column headers of one layout.
type columnPair struct{ earning, deduction string }

var columnHeaders = []columnPair{
	{"VENCIMENTOS", "DESCONTOS"},
	{"PROVENTOS", "DESCONTOS"},
	{"GAINS", "RETENUES"},
}

var baseKinds = map[string]model.BaseKind{
	"INSS": model.BaseINSS,
	"FGTS": model.BaseFGTS,
	"IRRF": model.BaseIRRF,
}

// columns holds the rune offsets where the amount columns end.
type columns struct {
	known              bool
	earning, deduction int
}

// textScan is the parser state across lines.
type textScan struct {
	pat            *amountPatterns
	out            []model.Entity
	cols           columns
	section        model.ItemKind
	haveEmployer   bool
	havePeriod     bool
	expectEmployee bool
}

// parseLines reads amounts in nf's notation; nil means money.PtBR.
func parseLines(lines []string, nf money.NumberFormat) []model.Entity {
	if nf == nil {
		nf = money.PtBR
	}
	s := &textScan{pat: patternsFor(nf), section: model.KindEarning}
	for _, line := range lines {
		s.line(line)
	}
	return s.out
}

func (s *textScan) line(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	folded := textfold.Fold(line)

	if cols, ok := headerColumns(folded); ok {
		s.cols = cols
		return
	}
	if containsAny(folded, employeeHints) {
		s.expectEmployee = true
		return
	}
	if m := periodPattern.FindStringSubmatch(folded); m != nil {
		if !s.havePeriod {
			s.out = append(s.out, model.InfoEntity{Field: model.InfoPeriod, Text: m[1]})
			s.havePeriod = true
		}
		return
	}
	if s.expectEmployee {
		s.expectEmployee = false
		if name := strings.TrimSpace(codePattern.ReplaceAllString(line, "")); name != "" {
			s.out = append(s.out, model.InfoEntity{Field: model.InfoEmployee, Text: name})
		}
		return
	}

	amounts := s.pat.amount.FindAllStringIndex(line, -1)
	if len(amounts) == 0 {
		s.bare(line, folded)
		return
	}

	if bases := s.pat.base.FindAllStringSubmatch(folded, -1); bases != nil {
		for _, m := range bases {
			s.out = append(s.out, model.BaseEntity{Kind: baseKinds[m[1]], Text: m[2]})
		}
		return
	}

	last := amounts[len(amounts)-1]
	value := line[last[0]:last[1]]
	switch {
	case containsAny(folded, netKeywords):
		s.out = append(s.out, model.NetPayEntity{Text: value})
		return
	case containsAny(folded, grossKeywords):
		s.out = append(s.out, model.GrossPayEntity{Text: value})
		return
	case strings.HasPrefix(strings.TrimSpace(folded), "TOTAL"):
		return
	}

	start := 0
	if loc := codePattern.FindStringIndex(line); loc != nil && loc[1] <= amounts[0][0] {
		start = loc[1]
	}
	// An integer reference column (days, hours) sits between the
	// description and the amounts.
	desc := strings.TrimSpace(line[start:amounts[0][0]])
	desc = referencePattern.ReplaceAllString(desc, "")
	if desc == "" {
		return
	}

	kind := s.kind(line, last)
	props := map[string]string{}
	if kind == model.KindDeduction {
		props[model.PropDeductionType] = desc
		props[model.PropDeductionAmount] = value
		s.out = append(s.out, model.DeductionItemEntity{Properties: props})
		return
	}
	props[model.PropEarningType] = desc
	props[model.PropEarningAmount] = value
	s.out = append(s.out, model.EarningItemEntity{Properties: props})
}

// bare handles a line with no amount: a section heading or the employer,
// which is the first free-text line of the document.
func (s *textScan) bare(line, folded string) {
	switch strings.TrimSpace(folded) {
	case "VENCIMENTOS", "PROVENTOS", "GAINS":
		s.section = model.KindEarning
		return
	case "DESCONTOS", "RETENUES", "COTISATIONS":
		s.section = model.KindDeduction
		return
	}
	if !s.haveEmployer && len(s.out) == 0 {
		s.out = append(s.out, model.InfoEntity{Field: model.InfoEmployer, Text: strings.TrimSpace(line)})
		s.haveEmployer = true
	}
}

// kind decides earning or deduction: a trailing marker wins, then the
// nearest column header, then the current section.
func (s *textScan) kind(line string, last []int) model.ItemKind {
	switch strings.ToUpper(strings.TrimSpace(line[last[1]:])) {
	case "D", "-", "(-)":
		return model.KindDeduction
	case "V", "P", "+", "(+)":
		return model.KindEarning
	}
	if s.cols.known {
		end := utf8.RuneCountInString(line[:last[1]])
		if abs(end-s.cols.deduction) < abs(end-s.cols.earning) {
			return model.KindDeduction
		}
		return model.KindEarning
	}
	return s.section
}

func headerColumns(folded string) (columns, bool) {
	for _, h := range columnHeaders {
		e := strings.Index(folded, h.earning)
		d := strings.Index(folded, h.deduction)
		if e < 0 || d < 0 {
			continue
		}
		return columns{
			known:     true,
			earning:   utf8.RuneCountInString(folded[:e+len(h.earning)]),
			deduction: utf8.RuneCountInString(folded[:d+len(h.deduction)]),
		}, true
	}
	return columns{}, false
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
