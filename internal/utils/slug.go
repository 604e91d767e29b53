package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// deaccent strips combining marks after canonical decomposition, so
// "Kühlschrank" folds to "Kuhlschrank" before slugging.
var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify converts free text into a normalized identifier: accents folded,
// lowercased, every run of non-alphanumeric characters collapsed into a
// single '-', leading/trailing separators trimmed.
//
// The function is pure and deterministic; tag and code normalization both
// rely on Slugify(Slugify(x)) == Slugify(x).
func Slugify(text string) string {
	if folded, _, err := transform.String(deaccent, text); err == nil {
		text = folded
	}
	text = strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(text))
	pendingSep := false
	for _, r := range text {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !isAlnum {
			pendingSep = b.Len() > 0
			continue
		}
		if pendingSep {
			b.WriteByte('-')
			pendingSep = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ContainsWhitespace reports whether s contains any Unicode whitespace.
// Codes selected by the normalization pass match this predicate.
func ContainsWhitespace(s string) bool {
	return strings.IndexFunc(s, unicode.IsSpace) >= 0
}
