package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTextPlainFile(t *testing.T) {
	parser := NewFileParserService()

	path := filepath.Join(t.TempDir(), "resume.txt")
	require.NoError(t, os.WriteFile(path, []byte("John Smith\nStaff engineer."), 0644))

	text, err := parser.ExtractText(path)

	require.NoError(t, err)
	assert.Equal(t, "John Smith\nStaff engineer.", text)
}

func TestExtractTextEmptyPlainFile(t *testing.T) {
	parser := NewFileParserService()

	path := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(path, []byte("   \n\n"), 0644))

	_, err := parser.ExtractText(path)

	assert.ErrorContains(t, err, "no text content")
}

func TestExtractTextUnsupportedExtension(t *testing.T) {
	parser := NewFileParserService()

	_, err := parser.ExtractText("/tmp/resume.odt")

	assert.ErrorContains(t, err, "unsupported file type")
}

func TestExtractTextMissingFile(t *testing.T) {
	parser := NewFileParserService()

	_, err := parser.ExtractText(filepath.Join(t.TempDir(), "missing.txt"))

	assert.Error(t, err)
}

func TestStripDocxMarkup(t *testing.T) {
	content := `<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Go &amp; distributed systems</w:t></w:r></w:p>`

	text := stripDocxMarkup(content)

	assert.Contains(t, text, "Jane Doe")
	assert.Contains(t, text, "Go & distributed systems")
	assert.NotContains(t, text, "<w:")
}
