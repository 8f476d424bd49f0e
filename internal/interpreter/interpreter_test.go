package interpreter

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AioliaTech/api-ia/internal/criteria"
	"github.com/AioliaTech/api-ia/internal/vocabulary"
)

func newTestInterpreter() *Interpreter {
	return New(vocabulary.Default(), nil, DefaultConfig())
}

func TestInterpret_Examples(t *testing.T) {
	in := newTestInterpreter()

	tests := []struct {
		name  string
		query string
		want  map[string]any
	}{
		{
			name:  "model color and price",
			query: "Onix branco até 50 mil",
			want: map[string]any{
				"modelos":    []string{"onix"},
				"categorias": []string{"Hatch"},
				"cores":      []string{"branco"},
				"valor_max":  50000.0,
			},
		},
		{
			name:  "category transmission price and bare year",
			query: "SUV automático até 80 mil 2020",
			want: map[string]any{
				"categorias": []string{"SUV"},
				"cambios":    []string{"automático"},
				"valor_max":  80000.0,
				"ano_min":    2020,
				"ano_max":    2020,
			},
		},
		{
			name:  "swapped model years",
			query: "civic ano 2020 ano 2015",
			want: map[string]any{
				"modelos":    []string{"civic"},
				"categorias": []string{"Sedan"},
				"ano_min":    2015,
				"ano_max":    2020,
			},
		},
		{
			name:  "mileage and doors",
			query: "hatch com 30 mil km 4 portas",
			want: map[string]any{
				"categorias": []string{"Hatch"},
				"km_max":     30000,
				"portas":     4,
			},
		},
		{
			name:  "manufacture year and price floor",
			query: "corolla fabricado em 2019 a partir de 90 mil",
			want: map[string]any{
				"modelos":            []string{"corolla"},
				"categorias":         []string{"Sedan"},
				"ano_fabricacao_min": 2019,
				"ano_fabricacao_max": 2019,
				"valor_min":          90000.0,
			},
		},
		{
			name:  "numeric model name is not a year",
			query: "peugeot 2008 2021",
			want: map[string]any{
				"marcas":     []string{"peugeot"},
				"modelos":    []string{"2008"},
				"categorias": []string{"SUV"},
				"ano_min":    2021,
				"ano_max":    2021,
			},
		},
		{
			name:  "triggered year is not a model name",
			query: "ano 2008",
			want: map[string]any{
				"ano_min": 2008,
				"ano_max": 2008,
			},
		},
		{
			name:  "options",
			query: "carro com teto solar e bancos de couro",
			want: map[string]any{
				"opcionais": []string{"teto solar", "bancos de couro"},
			},
		},
		{
			name:  "longer generic span wins",
			query: "quero piloto automatico",
			want: map[string]any{
				"opcionais": []string{"piloto automático"},
			},
		},
		{
			name:  "brand alias engine and fuel",
			query: "vw gol 1.0 flex",
			want: map[string]any{
				"marcas":       []string{"volkswagen"},
				"modelos":      []string{"gol"},
				"categorias":   []string{"Hatch"},
				"motores":      []string{"1.0"},
				"combustiveis": []string{"flex"},
			},
		},
		{
			name:  "hyphenless model spelling",
			query: "tcross preto",
			want: map[string]any{
				"modelos":    []string{"t-cross"},
				"categorias": []string{"SUV"},
				"cores":      []string{"preto"},
			},
		},
		{
			name:  "currency and separators",
			query: "até R$ 50.000,00",
			want:  map[string]any{"valor_max": 50000.0},
		},
		{
			name:  "glued thousands",
			query: "sedan até 80k",
			want: map[string]any{
				"categorias": []string{"Sedan"},
				"valor_max":  80000.0,
			},
		},
		{
			name:  "mileage wins over price",
			query: "até 50 mil km",
			want:  map[string]any{"km_max": 50000},
		},
		{
			name:  "small number without unit is not a price",
			query: "acima de 5000",
			want:  map[string]any{},
		},
		{
			name:  "glued doors",
			query: "fiat 4p",
			want: map[string]any{
				"marcas": []string{"fiat"},
				"portas": 4,
			},
		},
		{
			name:  "out of range years ignored",
			query: "ano 1900 modelo 2050",
			want:  map[string]any{},
		},
		{
			name:  "duplicates suppressed in first seen order",
			query: "branco ou preto ou branca",
			want: map[string]any{
				"cores": []string{"branco", "preto"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := in.Interpret(tt.query)
			assert.Equal(t, tt.want, c.Flatten())
		})
	}
}

func TestInterpret_CategoryInference(t *testing.T) {
	in := newTestInterpreter()

	c := in.Interpret("onix preto")
	assert.Equal(t, criteria.Terms{"Hatch"}, c.Categories)
	assert.True(t, c.CategoriesInferred)

	c = in.Interpret("onix sedan")
	assert.Equal(t, criteria.Terms{"Sedan"}, c.Categories)
	assert.False(t, c.CategoriesInferred)

	c = in.Interpret("fiat uno")
	assert.Equal(t, criteria.Terms{"Hatch"}, c.Categories)
}

func TestInterpret_YearPolicy(t *testing.T) {
	in := newTestInterpreter()

	tests := []struct {
		name    string
		query   string
		yearMin int
		yearMax int
	}{
		{"two bare years form a range", "entre 2015 e 2020", 2015, 2020},
		{"bare years reversed", "de 2020 a 2015", 2015, 2020},
		{"trigger years swapped", "modelo 2020 ou ano 2015", 2015, 2020},
		{"trigger beats bare", "gol ano 2018 2015 2012", 2018, 2018},
		{"repeated year counts once", "ano 2019 ano 2019", 2019, 2019},
		{"year after a price keyword is exact", "onix a partir de 2018", 2018, 2018},
		{"year after até is exact", "onix até 2020", 2020, 2020},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := in.Interpret(tt.query)
			require.NotNil(t, c.YearMin)
			require.NotNil(t, c.YearMax)
			assert.Equal(t, tt.yearMin, *c.YearMin)
			assert.Equal(t, tt.yearMax, *c.YearMax)
		})
	}
}

func TestInterpret_BareYearsDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BareYears = false
	in := New(vocabulary.Default(), nil, cfg)

	c := in.Interpret("onix 2020")
	assert.Nil(t, c.YearMin)
	assert.Nil(t, c.YearMax)
}

func TestInterpret_DegradesWithoutVocabulary(t *testing.T) {
	queries := []string{"Onix branco até 50 mil", "ano 2020", "4 portas"}

	for _, q := range queries {
		got := Interpret(q, nil)
		assert.True(t, got.IsEmpty(), q)

		empty := New(vocabulary.NewBuilder().Build(), nil, DefaultConfig())
		got = empty.Interpret(q)
		assert.True(t, got.IsEmpty(), q)
	}
}

func TestInterpret_NeverPanics(t *testing.T) {
	in := newTestInterpreter()

	queries := []string{
		"", "   ", "ate", "ate de de de", "r$", "ano", "fabricado em", "4 p",
		"!!!", "50k", "2020 2021 2022 2023", "até r$ r$ r$ 50", "com mil km",
		"a partir", "modelo", "ano 20200", "até 9999999999999999999999 reais",
		"碧 vehículo ñandú ☃", "teto", "km km km", "p p p", "1.0.0.0",
		"com 9999999999999999 mil km",
	}

	for _, q := range queries {
		assert.NotPanics(t, func() { in.Interpret(q) }, q)
	}
}

func TestInterpret_DiscardsOverflowingMileage(t *testing.T) {
	in := newTestInterpreter()

	for _, q := range []string{"com 9999999999999999 mil km", "com 99999999999999999999 km"} {
		c := in.Interpret(q)
		assert.Nil(t, c.MileageMax, q)
	}

	c := in.Interpret("com 40 mil km")
	require.NotNil(t, c.MileageMax)
	assert.Equal(t, 40000, *c.MileageMax)
}

func TestInterpret_Idempotent(t *testing.T) {
	in := newTestInterpreter()
	q := "chevrolet onix prata flex até 60 mil ano 2019 com 40 mil km"

	first := in.Interpret(q)
	second := in.Interpret(q)
	assert.Equal(t, first, second)
}

func TestInterpret_Concurrent(t *testing.T) {
	in := newTestInterpreter()
	queries := []string{
		"Onix branco até 50 mil",
		"SUV automático até 80 mil 2020",
		"hatch com 30 mil km 4 portas",
		"corolla fabricado em 2019",
	}
	want := make([]map[string]any, len(queries))
	for i, q := range queries {
		c := in.Interpret(q)
		want[i] = c.Flatten()
	}

	var wg sync.WaitGroup
	for n := 0; n < 8; n++ {
		for i, q := range queries {
			wg.Add(1)
			go func(i int, q string) {
				defer wg.Done()
				c := in.Interpret(q)
				assert.Equal(t, want[i], c.Flatten())
			}(i, q)
		}
	}
	wg.Wait()
}

func TestRuleKind_String(t *testing.T) {
	assert.Equal(t, "price_max", RulePriceMax.String())
	assert.Equal(t, "mileage_max", RuleMileageMax.String())
	assert.Equal(t, "bare_year", RuleBareYear.String())
	assert.Equal(t, "unknown", RuleKind(42).String())
}
