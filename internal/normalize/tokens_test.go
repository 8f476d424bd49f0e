package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"plain query", "Onix branco até 50 mil", []string{"onix", "branco", "ate", "50", "mil"}},
		{"glued thousands", "SUV até 80mil", []string{"suv", "ate", "80", "mil"}},
		{"glued k", "hatch 50k", []string{"hatch", "50", "k"}},
		{"doors", "sedan 4p", []string{"sedan", "4", "p"}},
		{"mileage", "com 30.000km", []string{"com", "30.000", "km"}},
		{"currency", "até R$50.000,00", []string{"ate", "r$", "50.000,00"}},
		{"engine size", "gol 1.0 flex", []string{"gol", "1.0", "flex"}},
		{"hyphenated model", "T-Cross, 2021!", []string{"t-cross", "2021"}},
		{"punctuation only", "?!.", nil},
		{"trailing dot", "ate 50.", []string{"ate", "50"}},
		{"lone hyphen", "gm - chevrolet", []string{"gm", "chevrolet"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokens(tt.input))
		})
	}
}

func TestPhrase(t *testing.T) {
	assert.Equal(t, "onix hatch lt 1.0 8v flex 5 p mec", Phrase("ONIX HATCH LT 1.0 8V FLEX 5P MEC."))
	assert.Equal(t, "", Phrase("   "))
}
