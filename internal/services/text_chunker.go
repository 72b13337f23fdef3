package services

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// TextChunker splits resume text into embedding-sized chunks. Resumes tend to
// be short, heading-delimited documents, so the splitter keeps section blocks
// together when it can and only falls back to line packing for oversized ones.
type TextChunker interface {
	ChunkText(text string, maxChunkRunes int, overlapRunes int) []string
}

type textChunker struct{}

func NewTextChunker() TextChunker {
	return &textChunker{}
}

// ChunkText implements TextChunker.
func (tc *textChunker) ChunkText(text string, maxChunkRunes int, overlapRunes int) []string {
	if maxChunkRunes <= 0 {
		maxChunkRunes = 1000
	}
	if overlapRunes < 0 {
		overlapRunes = 0
	}
	if overlapRunes >= maxChunkRunes {
		overlapRunes = maxChunkRunes / 4
	}

	var chunks []string
	var current strings.Builder
	currentRunes := 0

	flush := func() {
		if current.Len() == 0 {
			return
		}
		chunks = append(chunks, current.String())
		current.Reset()
		currentRunes = 0
		if overlapRunes > 0 {
			tail := lastRunes(chunks[len(chunks)-1], overlapRunes)
			if tail != "" {
				current.WriteString(tail)
				current.WriteString("\n")
				currentRunes = utf8.RuneCountInString(tail) + 1
			}
		}
	}

	for _, block := range splitSections(text) {
		blockRunes := utf8.RuneCountInString(block)

		// Oversized section: pack line by line instead of dropping it.
		if blockRunes > maxChunkRunes {
			for _, line := range strings.Split(block, "\n") {
				line = strings.TrimSpace(line)
				if line == "" {
					continue
				}
				lineRunes := utf8.RuneCountInString(line)
				if currentRunes > 0 && currentRunes+lineRunes+1 > maxChunkRunes {
					flush()
				}
				if currentRunes > 0 {
					current.WriteString("\n")
					currentRunes++
				}
				current.WriteString(line)
				currentRunes += lineRunes
			}
			continue
		}

		if currentRunes > 0 && currentRunes+blockRunes+2 > maxChunkRunes {
			flush()
		}
		if currentRunes > 0 {
			current.WriteString("\n\n")
			currentRunes += 2
		}
		current.WriteString(block)
		currentRunes += blockRunes
	}

	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}

	return chunks
}

// splitSections breaks resume text on blank lines and on heading lines
// (short ALL-CAPS lines such as "EXPERIENCE" or "EDUCATION"), so that each
// block stays a coherent unit of the document.
func splitSections(text string) []string {
	var sections []string
	var current []string

	emit := func() {
		if len(current) == 0 {
			return
		}
		sections = append(sections, strings.Join(current, "\n"))
		current = nil
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, " \t")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			emit()
			continue
		}
		if isHeadingLine(trimmed) {
			emit()
		}
		current = append(current, trimmed)
	}
	emit()

	return sections
}

func isHeadingLine(line string) bool {
	if utf8.RuneCountInString(line) > 40 {
		return false
	}
	hasLetter := false
	for _, r := range line {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

func lastRunes(text string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[len(runes)-n:])
}
