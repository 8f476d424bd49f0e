package ranking

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AioliaTech/api-ia/internal/criteria"
	"github.com/AioliaTech/api-ia/internal/inventory"
	"github.com/AioliaTech/api-ia/internal/normalize"
	"github.com/AioliaTech/api-ia/internal/vocabulary"
)

func TestSearch_FallbackRestrictedToCategory(t *testing.T) {
	e := New(DefaultConfig(), WithSynonyms(vocabulary.Default()))
	c := criteria.Criteria{
		Categories:    terms("SUV"),
		Transmissions: terms("automático"),
		PriceMax:      criteria.Float(80000),
		YearMin:       criteria.Int(2020),
		YearMax:       criteria.Int(2020),
	}

	out := e.Search(c, fixture())
	assert.Equal(t, 0, out.Result.Total)
	assert.Empty(t, out.Result.Hits)
	require.NotNil(t, out.Alternatives)

	alt := out.Alternatives
	assert.Equal(t, "categoria e preço", alt.Basis)
	assert.NotEmpty(t, alt.Note)
	assert.Equal(t, []string{"3"}, ids(alt.Hits))
	for _, h := range alt.Hits {
		assert.Equal(t, "suv", normalize.Text(string(h.Vehicle.Category)))
	}
	assert.Equal(t, criteria.Terms{"SUV"}, alt.Criteria.Categories)
	assert.Equal(t, 80000.0, *alt.Criteria.PriceMax)
	assert.Nil(t, alt.Criteria.YearMin)
}

func TestSearch_FallbackOrder(t *testing.T) {
	e := New(DefaultConfig())

	tests := []struct {
		name      string
		c         criteria.Criteria
		wantBasis string
		wantIDs   []string
	}{
		{
			name:      "category without price match",
			c:         criteria.Criteria{Categories: terms("SUV"), Colors: terms("verde"), PriceMax: criteria.Float(30000)},
			wantBasis: "categoria",
			wantIDs:   []string{"4", "3"},
		},
		{
			name:      "model and price",
			c:         criteria.Criteria{Models: terms("onix"), Colors: terms("preto"), PriceMax: criteria.Float(60000)},
			wantBasis: "modelo e preço",
			wantIDs:   []string{"1"},
		},
		{
			name:      "brand only",
			c:         criteria.Criteria{Brands: terms("jeep"), Models: terms("compass")},
			wantBasis: "marca",
			wantIDs:   []string{"3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := e.Search(tt.c, fixture())
			assert.Equal(t, 0, out.Result.Total)
			require.NotNil(t, out.Alternatives)
			assert.Equal(t, tt.wantBasis, out.Alternatives.Basis)
			assert.Equal(t, tt.wantIDs, ids(out.Alternatives.Hits))
		})
	}
}

func TestSearch_NoFallback(t *testing.T) {
	t.Run("primary has results", func(t *testing.T) {
		out := New(DefaultConfig()).Search(criteria.Criteria{Models: terms("onix")}, fixture())
		assert.Equal(t, 2, out.Result.Total)
		assert.Nil(t, out.Alternatives)
	})

	t.Run("reduction equals original", func(t *testing.T) {
		out := New(DefaultConfig()).Search(criteria.Criteria{Categories: terms("Convertible")}, fixture())
		assert.Equal(t, 0, out.Result.Total)
		assert.Nil(t, out.Alternatives)
	})

	t.Run("nothing to reduce to", func(t *testing.T) {
		out := New(DefaultConfig()).Search(criteria.Criteria{PriceMax: criteria.Float(1000)}, fixture())
		assert.Nil(t, out.Alternatives)
	})

	t.Run("disabled", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Fallback = false
		out := New(cfg).Search(criteria.Criteria{Categories: terms("SUV"), PriceMax: criteria.Float(1000)}, fixture())
		assert.Nil(t, out.Alternatives)
	})

	t.Run("empty inventory", func(t *testing.T) {
		out := New(DefaultConfig()).Search(criteria.Criteria{Categories: terms("SUV")}, nil)
		assert.Equal(t, 0, out.Result.Total)
		assert.Nil(t, out.Alternatives)
	})
}

func TestSearch_InferredCategoryBecomesHardInFallback(t *testing.T) {
	vehicles := []inventory.Vehicle{
		{ID: "h", Model: "Argo", Category: "Hatch", Price: inventory.NumberOf(60000)},
		{ID: "s", Model: "Cronos", Category: "Sedan", Price: inventory.NumberOf(70000)},
	}
	c := criteria.Criteria{Models: terms("onix"), Categories: terms("Hatch"), CategoriesInferred: true}

	out := New(DefaultConfig()).Search(c, vehicles)
	assert.Equal(t, 0, out.Result.Total)
	require.NotNil(t, out.Alternatives)
	assert.Equal(t, "categoria", out.Alternatives.Basis)
	assert.Equal(t, []string{"h"}, ids(out.Alternatives.Hits))
}

func TestSearch_AlternativesCapped(t *testing.T) {
	vehicles := make([]inventory.Vehicle, 30)
	for i := range vehicles {
		vehicles[i] = inventory.Vehicle{ID: inventory.Text(fmt.Sprint(i)), Category: "SUV", Price: inventory.NumberOf(float64(100000 + i))}
	}
	c := criteria.Criteria{Categories: terms("SUV"), Models: terms("compass")}

	out := New(DefaultConfig()).Search(c, vehicles)
	require.NotNil(t, out.Alternatives)
	assert.Equal(t, 30, out.Alternatives.Total)
	assert.Len(t, out.Alternatives.Hits, 10)
}
