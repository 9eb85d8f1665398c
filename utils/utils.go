package utils

import (
	"strings"
	"unicode"
)

// accentFold maps the accented letters that show up in Spanish catalog data
// to their base form so "iluminación" and "iluminacion" index the same.
var accentFold = map[rune]rune{
	'á': 'a', 'é': 'e', 'í': 'i', 'ó': 'o', 'ú': 'u', 'ü': 'u', 'ñ': 'n',
}

// NormalizeText lowercases, folds accents, strips punctuation and collapses
// whitespace. This is the canonical form used by every catalog index key and
// every query word.
func NormalizeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if folded, ok := accentFold[r]; ok {
			r = folded
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			// punctuation and whitespace both become separators
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// SplitWords returns the whitespace-separated words of an already
// normalized string.
func SplitWords(s string) []string {
	return strings.Fields(s)
}
