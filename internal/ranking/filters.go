package ranking

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/AioliaTech/api-ia/internal/criteria"
	"github.com/AioliaTech/api-ia/internal/fuzzy"
	"github.com/AioliaTech/api-ia/internal/inventory"
	"github.com/AioliaTech/api-ia/internal/normalize"
	"github.com/AioliaTech/api-ia/internal/vocabulary"
)

// Terms shorter than this only match whole words; fuzzy scores on two or
// three letters are noise ("ka" would otherwise match "kadett").
const minFuzzyLen = 4

var fieldCategory = map[criteria.TextField]vocabulary.Category{
	criteria.Brands:        vocabulary.Brand,
	criteria.Models:        vocabulary.Model,
	criteria.Versions:      vocabulary.Version,
	criteria.Categories:    vocabulary.BodyType,
	criteria.Colors:        vocabulary.Color,
	criteria.Fuels:         vocabulary.Fuel,
	criteria.Transmissions: vocabulary.Transmission,
	criteria.Engines:       vocabulary.Engine,
	criteria.Options:       vocabulary.Option,
}

// term is one requested value: the normalized text, scored fuzzily, plus
// registered variants, which must appear literally.
type term struct {
	text     string
	variants []string
}

type textFilter struct {
	field     criteria.TextField
	terms     []term
	threshold float64
	// strict also compares forms with spaces and hyphens removed.
	strict bool
	// soft filters rank matching records but keep the rest.
	soft bool
	// all requires every term to match some value rather than any.
	all bool
}

func (e *Engine) textFilters(c *criteria.Criteria) []textFilter {
	var filters []textFilter
	for _, field := range criteria.TextFields {
		requested := c.Terms(field)
		if len(requested) == 0 {
			continue
		}
		f := textFilter{
			field:     field,
			threshold: e.cfg.TextThreshold,
			strict:    field == criteria.Categories || field == criteria.Colors,
			soft:      field == criteria.Categories && c.CategoriesInferred,
		}
		if field == criteria.Options {
			f.threshold = e.cfg.OptionThreshold
			f.all = true
		}
		for _, r := range requested {
			f.terms = append(f.terms, e.expand(field, r))
		}
		filters = append(filters, f)
	}
	return filters
}

func (e *Engine) expand(field criteria.TextField, requested string) term {
	t := term{text: normalize.Text(requested)}
	if e.synonyms == nil {
		return t
	}
	for _, s := range e.synonyms.Synonyms(fieldCategory[field], requested) {
		if s != "" && s != t.text {
			t.variants = append(t.variants, s)
		}
	}
	return t
}

// match returns the best score among the terms that reach the threshold.
func (f *textFilter) match(values []string) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	if f.all {
		for _, t := range f.terms {
			if f.best(t, values) < f.threshold {
				return 0, false
			}
		}
		return 100, true
	}

	best, ok := 0.0, false
	for _, t := range f.terms {
		if s := f.best(t, values); s >= f.threshold && s >= best {
			best, ok = s, true
		}
	}
	return best, ok
}

func (f *textFilter) best(t term, values []string) float64 {
	best := 0.0
	for _, v := range values {
		if s := score(t.text, v, f.strict); s > best {
			best = s
		}
		if best == 100 {
			return best
		}
		for _, variant := range t.variants {
			if literal(variant, v, f.strict) {
				return 100
			}
		}
	}
	return best
}

// score compares a normalized query term to a normalized record value.
func score(q, value string, strict bool) float64 {
	if q == "" || value == "" {
		return 0
	}
	if literal(q, value, strict) {
		return 100
	}
	if utf8.RuneCountInString(q) < minFuzzyLen {
		return 0
	}
	return fuzzy.Score(q, value)
}

// literal reports an exact containment: whole-word for short terms,
// substring otherwise.
func literal(q, value string, strict bool) bool {
	if utf8.RuneCountInString(q) < minFuzzyLen {
		for _, w := range words(value) {
			if w == q {
				return true
			}
		}
		return strict && normalize.Strict(value) == normalize.Strict(q)
	}
	if strings.Contains(value, q) {
		return true
	}
	return strict && strings.Contains(normalize.Strict(value), normalize.Strict(q))
}

func words(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.'
	})
}

// fieldValues returns the normalized record values a text field is
// compared against.
func fieldValues(v *inventory.Vehicle, f criteria.TextField) []string {
	switch f {
	case criteria.Brands:
		return normalized(v.Brand)
	case criteria.Models:
		return normalized(v.Model)
	case criteria.Versions:
		return normalized(v.Title, v.Version)
	case criteria.Categories:
		return normalized(v.Category)
	case criteria.Colors:
		return normalized(v.Color)
	case criteria.Fuels:
		return normalized(v.Fuel)
	case criteria.Transmissions:
		return normalized(v.Transmission)
	case criteria.Engines:
		return normalized(v.Engine, v.Title)
	case criteria.Options:
		out := make([]string, 0, len(v.Options))
		for _, o := range v.Options {
			if n := normalize.Text(o); n != "" {
				out = append(out, n)
			}
		}
		return out
	default:
		return nil
	}
}

func normalized(fields ...inventory.Text) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if n := normalize.Text(string(f)); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// numericFilter reports whether a record satisfies one numeric criterion.
// Absent or unparsable values never satisfy it.
type numericFilter func(v *inventory.Vehicle) bool

func (e *Engine) numericFilters(c *criteria.Criteria) []numericFilter {
	var filters []numericFilter
	if c.PriceMax != nil {
		ceiling := *c.PriceMax * e.cfg.PriceTolerance
		filters = append(filters, func(v *inventory.Vehicle) bool {
			p, ok := v.Price.Float()
			return ok && p <= ceiling
		})
	}
	if c.PriceMin != nil {
		floor := *c.PriceMin
		filters = append(filters, func(v *inventory.Vehicle) bool {
			p, ok := v.Price.Float()
			return ok && p >= floor
		})
	}
	filters = appendIntRange(filters, c.YearMin, c.YearMax, func(v *inventory.Vehicle) inventory.Number { return v.Year })
	filters = appendIntRange(filters, c.ManufactureYearMin, c.ManufactureYearMax, func(v *inventory.Vehicle) inventory.Number { return v.ManufactureYear })
	if c.MileageMax != nil {
		limit := *c.MileageMax
		filters = append(filters, func(v *inventory.Vehicle) bool {
			km, ok := v.Mileage.Int()
			return ok && km <= limit
		})
	}
	if c.Doors != nil {
		doors := *c.Doors
		filters = append(filters, func(v *inventory.Vehicle) bool {
			n, ok := v.Doors.Int()
			return ok && n == doors
		})
	}
	return filters
}

func appendIntRange(filters []numericFilter, min, max *int, field func(*inventory.Vehicle) inventory.Number) []numericFilter {
	if min == nil && max == nil {
		return filters
	}
	return append(filters, func(v *inventory.Vehicle) bool {
		n, ok := field(v).Int()
		if !ok {
			return false
		}
		if min != nil && n < *min {
			return false
		}
		return max == nil || n <= *max
	})
}
