package vocabulary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_LookupAndVariants(t *testing.T) {
	ix := NewBuilder().
		Add(Brand, "chevrolet", "gm", "chevy").
		Add(Model, "T-Cross").
		Add(Option, "bancos de couro", "banco de couro").
		Build()

	tests := []struct {
		name   string
		cat    Category
		phrase string
		want   string
		found  bool
	}{
		{"canonical", Brand, "chevrolet", "chevrolet", true},
		{"variant", Brand, "gm", "chevrolet", true},
		{"hyphenated", Model, "t-cross", "T-Cross", true},
		{"hyphen removed", Model, "tcross", "T-Cross", true},
		{"hyphen spaced", Model, "t cross", "T-Cross", true},
		{"multi word variant", Option, "banco de couro", "bancos de couro", true},
		{"wrong category", Model, "gm", "", false},
		{"unknown", Brand, "tesla", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ix.Lookup(tt.cat, tt.phrase)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, 3, ix.MaxLen(Option))
	assert.Equal(t, 2, ix.MaxLen(Model))
	assert.Equal(t, 1, ix.MaxLen(Brand))
}

func TestBuilder_FirstCanonicalWins(t *testing.T) {
	ix := NewBuilder().
		Add(Color, "prata", "prateado").
		Add(Color, "cinza", "prateado").
		Build()

	got, ok := ix.Lookup(Color, "prateado")
	require.True(t, ok)
	assert.Equal(t, "prata", got)
}

func TestIndex_NilAndEmpty(t *testing.T) {
	var ix *Index
	assert.True(t, ix.IsEmpty())
	assert.Equal(t, 0, ix.MaxLen(Brand))
	_, ok := ix.Lookup(Brand, "fiat")
	assert.False(t, ok)
	_, ok = ix.CategoryForModel("onix")
	assert.False(t, ok)

	assert.True(t, NewBuilder().Build().IsEmpty())
	assert.False(t, Default().IsEmpty())
}

func TestDefault_ModelCategories(t *testing.T) {
	ix := Default()

	tests := []struct {
		model string
		want  string
	}{
		{"onix", "Hatch"},
		{"Onix Plus", "Sedan"},
		{"T-Cross", "SUV"},
		{"hr-v", "SUV"},
		{"corolla cross", "SUV"},
		{"corolla", "Sedan"},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			got, ok := ix.CategoryForModel(tt.model)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := ix.CategoryForModel("cybertruck")
	assert.False(t, ok)
	assert.Len(t, ModelCategories(), len(modelCategories))
}

func TestDefault_GenericDictionaries(t *testing.T) {
	ix := Default()

	got, ok := ix.Lookup(Transmission, "automatico")
	require.True(t, ok)
	assert.Equal(t, "automático", got)

	got, ok = ix.Lookup(BodyType, "picape")
	require.True(t, ok)
	assert.Equal(t, "Pickup", got)

	got, ok = ix.Lookup(Color, "branca")
	require.True(t, ok)
	assert.Equal(t, "branco", got)

	got, ok = ix.Lookup(Engine, "1.0")
	require.True(t, ok)
	assert.Equal(t, "1.0", got)
}

func TestIndex_Synonyms(t *testing.T) {
	ix := Default()

	syn := ix.Synonyms(BodyType, "Pickup")
	assert.Equal(t, "pickup", syn[0])
	assert.Contains(t, syn, "picape")
	assert.Contains(t, syn, "caminhonete")

	assert.Equal(t, []string{"roxo"}, ix.Synonyms(Color, "Roxo"))

	var empty *Index
	assert.Equal(t, []string{"branco"}, empty.Synonyms(Color, "Branco"))
}

func TestIndex_StatsAndPhrases(t *testing.T) {
	ix := NewBuilder().Add(Fuel, "flex", "bicombustivel").Add(Fuel, "diesel").Build()

	assert.Equal(t, 3, ix.Stats()["fuel"])
	assert.Equal(t, []string{"diesel", "flex"}, ix.Phrases(Fuel))
}

func TestCategory_String(t *testing.T) {
	assert.Equal(t, "brand", Brand.String())
	assert.Equal(t, "category", BodyType.String())
	assert.True(t, Version.Specific())
	assert.False(t, Color.Specific())
}
