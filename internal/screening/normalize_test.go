package screening

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTextCollapsesWhitespace(t *testing.T) {
	in := "  Senior Engineer  \n\n\n   5 years Go   \n\t\n  Distributed systems "
	assert.Equal(t, "Senior Engineer\n5 years Go\nDistributed systems", NormalizeText(in))
}

func TestNormalizeTextEmpty(t *testing.T) {
	assert.Equal(t, "", NormalizeText("   \n\t\n  "))
}

func TestTruncateRunesIsRuneSafe(t *testing.T) {
	in := strings.Repeat("简", 10)
	out := TruncateRunes(in, 4)
	assert.Equal(t, strings.Repeat("简", 4), out)
}

func TestTruncateRunesShortTextUnchanged(t *testing.T) {
	assert.Equal(t, "abc", TruncateRunes("abc", 10))
	assert.Equal(t, "abc", TruncateRunes("abc", 0))
}
