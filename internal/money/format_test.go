package money

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestParseAmount_PtBR(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"1.344,23", "1344.23"},
		{"644,78", "644.78"},
		{"1.300,00", "1300.00"},
		{"1300,00", "1300.00"},
		{"38,52", "38.52"},
		{"1.234.567,89", "1234567.89"},
		{"0,01", "0.01"},
		{",50", "0.50"},
		{"120", "120"},
		{"  101,45 ", "101.45"},
		{"R$ 1.344,23", "1344.23"},
		{"R$1.344,23", "1344.23"},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.raw, "pt-BR")
		require.NoError(t, err, "ParseAmount(%q)", tt.raw)
		assert.True(t, got.Equal(dec(tt.want)), "ParseAmount(%q) = %s, want %s", tt.raw, got, tt.want)
	}
}

func TestParseAmount_PtBRRoundTripsGroupedValues(t *testing.T) {
	for _, raw := range []string{"1,00", "12,34", "123,45", "1.234,56", "12.345,67", "123.456,78", "9.999.999,99"} {
		d, err := PtBR.Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, raw, PtBR.Format(d))
	}
}

func TestParseAmount_FrFR(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"1 344,23", "1344.23"},
		{"1\u00a0344,23", "1344.23"},
		{"1\u202f344,23", "1344.23"},
		{"1.344,23", "1344.23"},
		{"2 150,00 €", "2150.00"},
		{"EUR 99,90", "99.90"},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.raw, "fr-FR")
		require.NoError(t, err, "ParseAmount(%q)", tt.raw)
		assert.True(t, got.Equal(dec(tt.want)), "ParseAmount(%q) = %s, want %s", tt.raw, got, tt.want)
	}
}

func TestParseAmount_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"two decimal separators", "1,234,56"},
		{"empty", ""},
		{"whitespace only", "   "},
		{"no digits", ".,"},
		{"letters", "12a,00"},
		{"negative", "-10,00"},
		{"swapped separators", "1,344.23"},
		{"trailing separator", "12,"},
		{"currency only", "R$"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAmount(tt.raw, "pt-BR")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedAmount)

			var ae *AmountError
			require.True(t, errors.As(err, &ae))
			assert.Equal(t, tt.raw, ae.Raw)
			assert.Equal(t, "pt-BR", ae.Locale)
		})
	}
}

func TestParseAmount_UnknownLocale(t *testing.T) {
	_, err := ParseAmount("1,00", "de-DE")
	assert.ErrorIs(t, err, ErrUnknownLocale)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "1.344,23", PtBR.Format(dec("1344.23")))
	assert.Equal(t, "0,50", PtBR.Format(dec("0.5")))
	assert.Equal(t, "-5,71", PtBR.Format(dec("-5.71")))
	assert.Equal(t, "1.000.000,00", PtBR.Format(dec("1000000")))
	assert.Equal(t, "1\u00a0344,23", FrFR.Format(dec("1344.23")))
}

func TestFormat_KeepsExtraFractionDigits(t *testing.T) {
	assert.Equal(t, "1.000,125", PtBR.Format(dec("1000.125")))
	assert.Equal(t, "2.214,50", PtBR.Format(dec("2214.5")))

	got, err := PtBR.Parse(PtBR.Format(dec("1000.125")))
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("1000.125")), "got %s", got)
}

func TestSeparators(t *testing.T) {
	decSep, groups := PtBR.Separators()
	assert.Equal(t, ',', decSep)
	assert.Equal(t, []rune{'.'}, groups)

	_, groups = FrFR.Separators()
	assert.Contains(t, groups, '\u00a0')
	assert.Contains(t, groups, ' ')
}

func TestRegistry_Lookup(t *testing.T) {
	r := DefaultRegistry()

	for _, loc := range []string{"pt-BR", "pt_BR", "PT-br", ""} {
		nf, err := r.Lookup(loc)
		require.NoError(t, err, "Lookup(%q)", loc)
		assert.Equal(t, "pt-BR", nf.Locale())
	}

	nf, err := r.Lookup("fr-FR")
	require.NoError(t, err)
	assert.Equal(t, "fr-FR", nf.Locale())
	assert.Equal(t, []string{"fr-FR", "pt-BR"}, r.Locales())
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(PtBR)
	assert.Panics(t, func() { r.Register(PtBR) })
}
