package money

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultLocale is used when a caller does not name one.
const DefaultLocale = "pt-BR"

// Registry holds number formats keyed by locale.
type Registry struct {
	formats map[string]NumberFormat
}

// NewRegistry creates an empty format registry.
func NewRegistry() *Registry {
	return &Registry{formats: make(map[string]NumberFormat)}
}

// Register adds a format. Panics on duplicate locale.
func (r *Registry) Register(nf NumberFormat) {
	key := normalizeLocale(nf.Locale())
	if _, ok := r.formats[key]; ok {
		panic("duplicate number format: " + key)
	}
	r.formats[key] = nf
}

// Lookup returns the format for locale. An empty locale resolves to DefaultLocale.
func (r *Registry) Lookup(locale string) (NumberFormat, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	nf, ok := r.formats[normalizeLocale(locale)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLocale, locale)
	}
	return nf, nil
}

// Locales returns the registered locale names in sorted order.
func (r *Registry) Locales() []string {
	out := make([]string, 0, len(r.formats))
	for _, nf := range r.formats {
		out = append(out, nf.Locale())
	}
	sort.Strings(out)
	return out
}

// DefaultRegistry returns a registry with the built-in formats.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(PtBR)
	r.Register(FrFR)
	return r
}

// builtin is never mutated after initialization.
var builtin = DefaultRegistry()

// Lookup resolves a built-in format.
func Lookup(locale string) (NumberFormat, error) {
	return builtin.Lookup(locale)
}

// ParseAmount parses raw using the built-in format for locale.
func ParseAmount(raw, locale string) (decimal.Decimal, error) {
	nf, err := builtin.Lookup(locale)
	if err != nil {
		return decimal.Zero, err
	}
	return nf.Parse(raw)
}

// normalizeLocale maps "pt_BR", "PT-br" and friends to "pt-br".
func normalizeLocale(locale string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(locale), "_", "-"))
}
