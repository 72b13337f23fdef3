package screening

import "strings"

// DefaultMaxTextRunes bounds how much of a document is embedded in a
// prompt. Long resumes are truncated rather than rejected.
const DefaultMaxTextRunes = 20000

// NormalizeText turns extracted document text into a prompt-ready string:
// trims each line, drops empty lines and rejoins with single newlines.
func NormalizeText(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}

// TruncateRunes cuts text to at most max runes. Truncation is rune-safe so
// multi-byte characters are never split.
func TruncateRunes(text string, max int) string {
	if max <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}
