package normalize

import (
	"regexp"
	"strings"
	"unicode"
)

// gluedUnit splits a number written together with its unit, e.g. "50k",
// "80mil", "4p", "30.000km".
var gluedUnit = regexp.MustCompile(`^(\d+(?:[.,]\d+)*)(k|mil|p|km|portas|reais)$`)

// Tokens splits s into normalized words. A word is a run of letters, digits
// and hyphens; '.' and ',' survive only between two digits so "50.000" and
// "1.0" stay whole. Leading "r$" and glued units are split off.
func Tokens(s string) []string {
	runes := []rune(Text(s))
	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		tokens = appendToken(tokens, current.String())
		current.Reset()
	}

	for i, r := range runes {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-':
			current.WriteRune(r)
		case (r == '.' || r == ',') && i > 0 && i+1 < len(runes) &&
			unicode.IsDigit(runes[i-1]) && unicode.IsDigit(runes[i+1]):
			current.WriteRune(r)
		case r == '$' && current.String() == "r":
			current.WriteRune(r)
			flush()
		default:
			flush()
		}
	}
	flush()

	return tokens
}

func appendToken(tokens []string, tok string) []string {
	tok = strings.Trim(tok, "-")
	if tok == "" {
		return tokens
	}
	if m := gluedUnit.FindStringSubmatch(tok); m != nil {
		return append(tokens, m[1], m[2])
	}
	return append(tokens, tok)
}

// Phrase joins Tokens(s) with single spaces. Vocabulary keys and query spans
// are compared in this form.
func Phrase(s string) string {
	return strings.Join(Tokens(s), " ")
}
