package catalog

import (
	"fmt"
	"regexp"

	"github.com/holerite-dev/holerite/internal/model"
	"github.com/holerite-dev/holerite/internal/textfold"
)

// CategoryOther is reported for lines no rubric matches.
const CategoryOther = "other"

// Rubric is one row of catalog/rubrics.csv: a known payslip line and the
// category it is grouped under in summaries. Pattern is a regular expression
// matched against the accent-folded, upper-cased description.
type Rubric struct {
	Code     string
	Name     string
	Kind     model.ItemKind
	Category string
	Pattern  string
}

type compiled struct {
	rubric Rubric
	re     *regexp.Regexp
}

// Service matches line items against a rubric catalog.
type Service struct {
	rubrics  []Rubric
	matchers []compiled
	byCode   map[string]Rubric
}

// NewService compiles the rubric patterns. Rubrics are tried in order.
func NewService(rubrics []Rubric) (*Service, error) {
	s := &Service{rubrics: rubrics, byCode: make(map[string]Rubric, len(rubrics))}
	for _, r := range rubrics {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rubric %s: compiling pattern %q: %w", r.Code, r.Pattern, err)
		}
		s.matchers = append(s.matchers, compiled{rubric: r, re: re})
		s.byCode[r.Code] = r
	}
	return s, nil
}

// All returns all rubrics.
func (s *Service) All() []Rubric {
	return s.rubrics
}

// Get returns a rubric by code.
func (s *Service) Get(code string) (Rubric, bool) {
	r, ok := s.byCode[code]
	return r, ok
}

// Match returns the first rubric of the given kind whose pattern matches the
// description.
func (s *Service) Match(kind model.ItemKind, description string) (Rubric, bool) {
	folded := textfold.Fold(description)
	for _, m := range s.matchers {
		if m.rubric.Kind == kind && m.re.MatchString(folded) {
			return m.rubric, true
		}
	}
	return Rubric{}, false
}

// Categorize returns the category of a line, or CategoryOther.
func (s *Service) Categorize(kind model.ItemKind, description string) string {
	if r, ok := s.Match(kind, description); ok {
		return r.Category
	}
	return CategoryOther
}

// ByCategory returns all rubrics in a category.
func (s *Service) ByCategory(category string) []Rubric {
	var result []Rubric
	for _, r := range s.rubrics {
		if r.Category == category {
			result = append(result, r)
		}
	}
	return result
}
