package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "onix", "onix", 100},
		{"both empty", "", "", 100},
		{"one empty", "onix", "", 0},
		{"disjoint", "abc", "xyz", 0},
		{"one substitution", "branco", "branca", 200.0 * 5 / 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Ratio(tt.a, tt.b), 0.001)
		})
	}
}

func TestPartialRatio(t *testing.T) {
	tests := []struct {
		name    string
		a, b    string
		atLeast float64
		below   float64
	}{
		{"substring", "onix", "chevrolet onix lt 1.0", 100, 101},
		{"argument order irrelevant", "chevrolet onix lt 1.0", "onix", 100, 101},
		{"typo inside title", "corola", "toyota corolla xei", 80, 90},
		{"different color", "preto", "branco", 0, 85},
		{"different model", "ka", "kwid", 0, 85},
		{"empty query", "", "onix", 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PartialRatio(tt.a, tt.b)
			assert.GreaterOrEqual(t, got, tt.atLeast)
			assert.Less(t, got, tt.below)
		})
	}
}

func TestPartialRatio_EdgeOverlap(t *testing.T) {
	// "hatch" only partially overhangs the end of the target.
	got := PartialRatio("hatchback", "hatch")
	assert.Equal(t, 100.0, got)

	got = PartialRatio("automatico", "cvt automat")
	assert.Greater(t, got, 80.0)
}

func TestScore_OrderInsensitive(t *testing.T) {
	assert.Equal(t, 100.0, Score("couro bancos", "bancos couro"))
	assert.GreaterOrEqual(t, Score("teto solar", "solar teto panoramico"), 90.0)
}

func TestTokenSortRatio(t *testing.T) {
	assert.Equal(t, 100.0, TokenSortRatio("onix branco", "branco onix"))
}
