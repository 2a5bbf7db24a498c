package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrMalformedAmount is returned when a monetary string cannot be parsed.
	ErrMalformedAmount = errors.New("malformed amount")
	// ErrUnknownLocale is returned when no NumberFormat is registered for a locale.
	ErrUnknownLocale = errors.New("unknown locale")
)

// AmountError describes why a raw amount was rejected.
type AmountError struct {
	Raw    string
	Locale string
	Reason string
}

func (e *AmountError) Error() string {
	return fmt.Sprintf("malformed amount %q (%s): %s", e.Raw, e.Locale, e.Reason)
}

// Unwrap lets errors.Is match ErrMalformedAmount.
func (e *AmountError) Unwrap() error {
	return ErrMalformedAmount
}

// NumberFormat converts between locale-formatted amounts and exact decimals.
type NumberFormat interface {
	Locale() string
	Parse(raw string) (decimal.Decimal, error)
	Format(d decimal.Decimal) string
	// Separators reports the decimal separator and every accepted group separator.
	Separators() (decimal rune, groups []rune)
}

// currencyMarkers are stripped from either end of a raw amount before parsing.
var currencyMarkers = []string{"R$", "BRL", "EUR", "€"}

// separatorFormat implements NumberFormat for locales that only differ in
// their decimal and digit-group separators.
type separatorFormat struct {
	locale    string
	decimal   rune
	groups    []rune
	groupOut  rune
	minorDigs int32
}

func (f *separatorFormat) Locale() string { return f.locale }

func (f *separatorFormat) Separators() (rune, []rune) {
	return f.decimal, append([]rune(nil), f.groups...)
}

func (f *separatorFormat) isGroup(r rune) bool {
	for _, g := range f.groups {
		if r == g {
			return true
		}
	}
	return false
}

// Parse strips group separators, normalizes the decimal separator to '.'
// and parses the result as an exact, non-negative decimal.
func (f *separatorFormat) Parse(raw string) (decimal.Decimal, error) {
	s := stripCurrency(raw)
	if s == "" {
		return decimal.Zero, f.malformed(raw, "empty")
	}

	var b strings.Builder
	digits := 0
	seps := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			digits++
		case r == f.decimal:
			seps++
			if seps > 1 {
				return decimal.Zero, f.malformed(raw, "multiple decimal separators")
			}
			b.WriteByte('.')
		case f.isGroup(r):
			if seps > 0 {
				return decimal.Zero, f.malformed(raw, "group separator after decimal separator")
			}
		default:
			return decimal.Zero, f.malformed(raw, fmt.Sprintf("unexpected character %q", r))
		}
	}
	if digits == 0 {
		return decimal.Zero, f.malformed(raw, "no digits")
	}

	norm := b.String()
	if strings.HasSuffix(norm, ".") {
		return decimal.Zero, f.malformed(raw, "no digits after decimal separator")
	}
	if strings.HasPrefix(norm, ".") {
		norm = "0" + norm
	}

	d, err := decimal.NewFromString(norm)
	if err != nil {
		return decimal.Zero, f.malformed(raw, err.Error())
	}
	return d, nil
}

// Format renders d with the locale's separators and at least two minor
// digits. Extra fraction digits carried by d are kept, never rounded.
func (f *separatorFormat) Format(d decimal.Decimal) string {
	places := f.minorDigs
	if exp := -d.Exponent(); exp > places {
		places = exp
	}
	s := d.Abs().StringFixed(places)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if d.IsNegative() {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteRune(f.groupOut)
		}
		b.WriteRune(r)
	}
	if frac != "" {
		b.WriteRune(f.decimal)
		b.WriteString(frac)
	}
	return b.String()
}

func (f *separatorFormat) malformed(raw, reason string) error {
	return &AmountError{Raw: raw, Locale: f.locale, Reason: reason}
}

func stripCurrency(raw string) string {
	s := strings.TrimSpace(raw)
	for _, m := range currencyMarkers {
		s = strings.TrimSpace(strings.TrimPrefix(s, m))
		s = strings.TrimSpace(strings.TrimSuffix(s, m))
	}
	return s
}

// PtBR is the Brazilian format: "1.344,23".
var PtBR NumberFormat = &separatorFormat{
	locale:    "pt-BR",
	decimal:   ',',
	groups:    []rune{'.'},
	groupOut:  '.',
	minorDigs: 2,
}

// FrFR is the French format: "1 344,23" with a space, no-break space or
// narrow no-break space between groups. OCR output sometimes uses '.' instead.
var FrFR NumberFormat = &separatorFormat{
	locale:    "fr-FR",
	decimal:   ',',
	groups:    []rune{' ', '\u00a0', '\u202f', '.'},
	groupOut:  '\u00a0',
	minorDigs: 2,
}
