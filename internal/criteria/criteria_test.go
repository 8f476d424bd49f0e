package criteria

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerms_AddDedupesByNormalizedText(t *testing.T) {
	var terms Terms
	assert.True(t, terms.Add("Branco"))
	assert.False(t, terms.Add("branco"))
	assert.False(t, terms.Add(" BRANCO "))
	assert.True(t, terms.Add("automático"))
	assert.False(t, terms.Add("Automatico"))
	assert.False(t, terms.Add("   "))

	assert.Equal(t, Terms{"Branco", "automático"}, terms)
}

func TestCriteria_Reconcile(t *testing.T) {
	tests := []struct {
		name    string
		in      Criteria
		yearMin *int
		yearMax *int
	}{
		{
			name:    "swapped years",
			in:      Criteria{YearMin: Int(2020), YearMax: Int(2015)},
			yearMin: Int(2015),
			yearMax: Int(2020),
		},
		{
			name:    "bare year mirrors",
			in:      Criteria{YearMin: Int(2019)},
			yearMin: Int(2019),
			yearMax: Int(2019),
		},
		{
			name:    "ordered range untouched",
			in:      Criteria{YearMin: Int(2015), YearMax: Int(2020)},
			yearMin: Int(2015),
			yearMax: Int(2020),
		},
		{
			name:    "max only stays open below",
			in:      Criteria{YearMax: Int(2018)},
			yearMax: Int(2018),
		},
		{
			name: "nothing set",
			in:   Criteria{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.in
			c.Reconcile()
			assert.Equal(t, tt.yearMin, c.YearMin)
			assert.Equal(t, tt.yearMax, c.YearMax)
		})
	}
}

func TestCriteria_ReconcilePriceAndManufacture(t *testing.T) {
	c := Criteria{
		PriceMin:           Float(90000),
		PriceMax:           Float(50000),
		ManufactureYearMin: Int(2021),
		ManufactureYearMax: Int(2017),
	}
	c.Reconcile()

	assert.Equal(t, 50000.0, *c.PriceMin)
	assert.Equal(t, 90000.0, *c.PriceMax)
	assert.Equal(t, 2017, *c.ManufactureYearMin)
	assert.Equal(t, 2021, *c.ManufactureYearMax)

	onlyMin := Criteria{PriceMin: Float(30000)}
	onlyMin.Reconcile()
	assert.Nil(t, onlyMin.PriceMax, "price ranges are not mirrored")
}

func TestCriteria_FlattenOmitsAbsent(t *testing.T) {
	c := Criteria{PriceMax: Float(50000), Doors: Int(4)}
	c.Models.Add("onix")
	c.Colors.Add("branco")

	flat := c.Flatten()
	assert.Equal(t, map[string]any{
		"modelos":   []string{"onix"},
		"cores":     []string{"branco"},
		"valor_max": 50000.0,
		"portas":    4,
	}, flat)
	assert.Equal(t, []string{"cores", "modelos", "portas", "valor_max"}, c.Keys())

	assert.Empty(t, (&Criteria{}).Flatten())
}

func TestCriteria_JSONMatchesFlatten(t *testing.T) {
	c := Criteria{PriceMax: Float(80000), YearMin: Int(2020), YearMax: Int(2020), CategoriesInferred: true}
	c.Categories.Add("SUV")

	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{"categorias":["SUV"],"valor_max":80000,"ano_min":2020,"ano_max":2020}`, string(data))
}

func TestCriteria_ZeroIsNotAbsent(t *testing.T) {
	c := Criteria{MileageMax: Int(0)}
	assert.False(t, c.IsEmpty())
	assert.Equal(t, 0, c.Flatten()["km_max"])
	assert.True(t, (&Criteria{}).IsEmpty())
}

func TestCriteria_CloneIsDeep(t *testing.T) {
	orig := Criteria{PriceMax: Float(50000)}
	orig.Brands.Add("fiat")

	cp := orig.Clone()
	*cp.PriceMax = 1
	cp.Brands[0] = "ford"
	cp.Brands.Add("honda")

	assert.Equal(t, 50000.0, *orig.PriceMax)
	assert.Equal(t, Terms{"fiat"}, orig.Brands)
}

func TestCriteria_TermsAccessors(t *testing.T) {
	var c Criteria
	for _, f := range TextFields {
		assert.True(t, c.AddTerm(f, "x"), f.Key())
		assert.Equal(t, Terms{"x"}, c.Terms(f))
		assert.NotEmpty(t, f.Key())
	}
	assert.False(t, c.AddTerm(TextField(99), "x"))
}
