// Package fuzzy scores how closely two strings match on a 0–100 scale.
//
// Ratio is the normalized indel similarity (2*LCS / total length).
// PartialRatio slides the shorter string over the longer one and keeps the
// best window, so a short query term can match inside a long title.
package fuzzy

import (
	"sort"
	"strings"
)

// Ratio returns the indel similarity of a and b in [0, 100].
func Ratio(a, b string) float64 {
	return ratioRunes([]rune(a), []rune(b))
}

// PartialRatio returns the best Ratio between the shorter string and any
// equally long window of the longer one. Windows that hang over either end
// of the longer string are considered too, so a prefix or suffix overlap
// still scores.
func PartialRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 && len(rb) == 0 {
		return 100
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}

	short, long := ra, rb
	if len(short) > len(long) {
		short, long = long, short
	}
	m, n := len(short), len(long)

	best := 0.0
	consider := func(window []rune) bool {
		if score := ratioRunes(short, window); score > best {
			best = score
		}
		return best >= 100
	}

	// Windows hanging over the left edge.
	for k := 1; k < m; k++ {
		if consider(long[:k]) {
			return 100
		}
	}
	for i := 0; i+m <= n; i++ {
		if consider(long[i : i+m]) {
			return 100
		}
	}
	// Windows hanging over the right edge.
	for k := m - 1; k >= 1; k-- {
		if consider(long[n-k:]) {
			return 100
		}
	}
	return best
}

// TokenSortRatio compares a and b after sorting their words, so word order
// does not matter.
func TokenSortRatio(a, b string) float64 {
	return Ratio(sortTokens(a), sortTokens(b))
}

// PartialTokenSortRatio is PartialRatio over the word-sorted strings.
func PartialTokenSortRatio(a, b string) float64 {
	return PartialRatio(sortTokens(a), sortTokens(b))
}

// Score is the order-insensitive partial similarity used for filtering:
// the better of PartialRatio and PartialTokenSortRatio.
func Score(query, target string) float64 {
	direct := PartialRatio(query, target)
	if direct >= 100 || !strings.ContainsRune(query, ' ') {
		return direct
	}
	if sorted := PartialTokenSortRatio(query, target); sorted > direct {
		return sorted
	}
	return direct
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func ratioRunes(a, b []rune) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 100
	}
	return 200 * float64(lcsLength(a, b)) / float64(total)
}

// lcsLength computes the longest common subsequence length using two rows.
func lcsLength(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
