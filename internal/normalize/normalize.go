// Package normalize canonicalizes query and record text so both sides of a
// comparison agree on case, accents and separators.
package normalize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Text lower-cases s, folds accented letters to ASCII and trims surrounding
// whitespace. It is pure and total: any input yields a string.
func Text(s string) string {
	if s == "" {
		return ""
	}
	folded, _, err := transform.String(stripAccents, s)
	if err != nil {
		folded = s
	}
	// Anything the decomposition left behind (ç, ß, ligatures) is transliterated.
	if !isASCII(folded) {
		folded = unidecode.Unidecode(folded)
	}
	return strings.TrimSpace(strings.ToLower(folded))
}

// Strict is Text with hyphens and spaces removed, so "T-Cross" and "tcross"
// or "HR-V" and "hrv" compare equal.
func Strict(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '-' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, Text(s))
}

// Fields returns the whitespace-separated words of Text(s).
func Fields(s string) []string {
	return strings.Fields(Text(s))
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
