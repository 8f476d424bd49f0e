package normalize

import (
	"strconv"
	"strings"
)

// IsDigits reports whether s is a non-empty run of ASCII digits.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ParseInt converts a query token such as "50", "50.000" or "2,020" into an
// integer. Thousands separators are dropped; anything else that is not a
// digit makes the token unparsable and ok is false.
func ParseInt(token string) (int, bool) {
	cleaned := strings.NewReplacer(".", "", ",", "").Replace(strings.TrimSpace(token))
	if !IsDigits(cleaned) {
		return 0, false
	}
	n, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0, false
	}
	return n, true
}

var currencyReplacer = strings.NewReplacer("R$", "", "r$", "", "$", "", " ", "", "\u00a0", "")

// ParseDecimal parses a locale-formatted decimal like "R$ 48.990,00",
// "48,990.50", "48990" or "2.0". When both separators appear the last one is
// the decimal point. A lone separator is a thousands separator when it is
// repeated or followed by exactly three digits.
func ParseDecimal(text string) (float64, bool) {
	s := currencyReplacer.Replace(strings.TrimSpace(text))
	if s == "" {
		return 0, false
	}

	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && c != '.' && c != ',' {
			return 0, false
		}
	}

	lastDot := strings.LastIndexByte(s, '.')
	lastComma := strings.LastIndexByte(s, ',')

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		s = resolveSingleSeparator(s, ',')
	case lastDot >= 0:
		s = resolveSingleSeparator(s, '.')
	}

	if strings.Count(s, ".") > 1 || s == "" || s == "." {
		return 0, false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		f = -f
	}
	return f, true
}

// resolveSingleSeparator handles input that uses only sep, deciding between
// thousands grouping and decimal point. The result always uses '.' as the
// decimal point.
func resolveSingleSeparator(s string, sep byte) string {
	sepStr := string(sep)
	if strings.Count(s, sepStr) > 1 {
		return strings.ReplaceAll(s, sepStr, "")
	}
	idx := strings.IndexByte(s, sep)
	if len(s)-idx-1 == 3 && idx > 0 {
		return strings.ReplaceAll(s, sepStr, "")
	}
	return strings.Replace(s, sepStr, ".", 1)
}
