package extractor

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsReadable(t *testing.T) {
	data, err := os.ReadFile("../../testdata/bulletin_ocr.txt")
	require.NoError(t, err)
	assert.True(t, IsReadable(strings.Split(string(data), "\n")))

	data, err = os.ReadFile("../../testdata/bulletin_fr_ocr.txt")
	require.NoError(t, err)
	assert.True(t, IsReadable(strings.Split(string(data), "\n")))
}

func TestIsReadable_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
	}{
		{"empty", nil},
		{"too short", []string{"TOTAL 1,00"}},
		{"garbage glyphs", []string{strings.Repeat("░▒▓■", 30)}},
		{"no payslip words", []string{strings.Repeat("lorem ipsum dolor sit amet ", 5)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, IsReadable(tt.lines))
		})
	}
}

func TestExtractText_Missing(t *testing.T) {
	_, err := ExtractText(filepath.Join(t.TempDir(), "missing.pdf"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExtractReader_NotAPDF(t *testing.T) {
	data := []byte("this is plain text, not a PDF document")
	_, err := ExtractReader(bytes.NewReader(data), int64(len(data)))
	assert.Error(t, err)
}
