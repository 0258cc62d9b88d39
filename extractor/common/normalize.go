package common

import (
	"regexp"
	"strings"
)

// spacedRun matches horizontal whitespace wedged between two alphanumerics.
// Newlines are deliberately excluded so line structure survives collapsing.
var spacedRun = regexp.MustCompile(`([a-zA-Z0-9])[ \t]+([a-zA-Z0-9])`)

// spacedTextRatio is the space-to-length ratio above which extracted text is
// treated as corrupted by per-character spacing.
const spacedTextRatio = 0.3

// CollapseSpacedText repairs the "spaced-out" artifact some PDF extractors
// produce, where every character is followed by a space. When more than 30%
// of the text is spaces, whitespace between two alphanumeric characters is
// removed; spacing elsewhere is left alone so genuinely separate tokens are
// not merged. Already-clean text passes through untouched, and the transform
// is idempotent.
func CollapseSpacedText(text string) string {
	if len(text) <= 100 {
		return text
	}
	ratio := float64(strings.Count(text, " ")) / float64(len(text))
	if ratio <= spacedTextRatio {
		return text
	}

	// Replacing with capture groups cannot see overlapping runs like
	// "a b c", so iterate to a fixed point.
	for {
		collapsed := spacedRun.ReplaceAllString(text, "$1$2")
		if collapsed == text {
			return collapsed
		}
		text = collapsed
	}
}
