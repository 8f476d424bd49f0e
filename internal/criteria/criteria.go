// Package criteria defines the structured filter a query is interpreted into.
//
// Absent filters are nil pointers or empty term sets, never zero values,
// so "not specified" is never confused with "specified as zero".
package criteria

import (
	"sort"

	"github.com/AioliaTech/api-ia/internal/normalize"
)

// Terms is an insertion-ordered set of strings. Duplicates are detected by
// normalized text, so "Branco" and "branco" count once.
type Terms []string

// Add appends v unless an equivalent value is already present. It reports
// whether v was added.
func (t *Terms) Add(v string) bool {
	key := normalize.Text(v)
	if key == "" || t.Contains(v) {
		return false
	}
	*t = append(*t, v)
	return true
}

// Contains reports whether an equivalent value is present.
func (t Terms) Contains(v string) bool {
	key := normalize.Text(v)
	for _, existing := range t {
		if normalize.Text(existing) == key {
			return true
		}
	}
	return false
}

// TextField enumerates the multi-valued text filters.
type TextField int

const (
	Brands TextField = iota
	Models
	Versions
	Categories
	Colors
	Fuels
	Transmissions
	Engines
	Options
)

// TextFields lists every text filter in evaluation order.
var TextFields = []TextField{Brands, Models, Versions, Categories, Colors, Fuels, Transmissions, Engines, Options}

// Key returns the wire name of the field.
func (f TextField) Key() string {
	switch f {
	case Brands:
		return "marcas"
	case Models:
		return "modelos"
	case Versions:
		return "versoes"
	case Categories:
		return "categorias"
	case Colors:
		return "cores"
	case Fuels:
		return "combustiveis"
	case Transmissions:
		return "cambios"
	case Engines:
		return "motores"
	case Options:
		return "opcionais"
	default:
		return ""
	}
}

// Criteria is the per-query filter set.
type Criteria struct {
	Brands        Terms `json:"marcas,omitempty"`
	Models        Terms `json:"modelos,omitempty"`
	Versions      Terms `json:"versoes,omitempty"`
	Categories    Terms `json:"categorias,omitempty"`
	Colors        Terms `json:"cores,omitempty"`
	Fuels         Terms `json:"combustiveis,omitempty"`
	Transmissions Terms `json:"cambios,omitempty"`
	Engines       Terms `json:"motores,omitempty"`
	Options       Terms `json:"opcionais,omitempty"`

	PriceMax           *float64 `json:"valor_max,omitempty"`
	PriceMin           *float64 `json:"valor_min,omitempty"`
	YearMax            *int     `json:"ano_max,omitempty"`
	YearMin            *int     `json:"ano_min,omitempty"`
	ManufactureYearMax *int     `json:"ano_fabricacao_max,omitempty"`
	ManufactureYearMin *int     `json:"ano_fabricacao_min,omitempty"`
	MileageMax         *int     `json:"km_max,omitempty"`
	Doors              *int     `json:"portas,omitempty"`

	// CategoriesInferred marks categories derived from the model table
	// rather than typed by the user.
	CategoriesInferred bool `json:"-"`
}

// Terms returns the term set for a text field.
func (c *Criteria) Terms(f TextField) Terms {
	if p := c.termsPtr(f); p != nil {
		return *p
	}
	return nil
}

// AddTerm adds a value to a text field's term set.
func (c *Criteria) AddTerm(f TextField, v string) bool {
	if p := c.termsPtr(f); p != nil {
		return p.Add(v)
	}
	return false
}

func (c *Criteria) termsPtr(f TextField) *Terms {
	switch f {
	case Brands:
		return &c.Brands
	case Models:
		return &c.Models
	case Versions:
		return &c.Versions
	case Categories:
		return &c.Categories
	case Colors:
		return &c.Colors
	case Fuels:
		return &c.Fuels
	case Transmissions:
		return &c.Transmissions
	case Engines:
		return &c.Engines
	case Options:
		return &c.Options
	default:
		return nil
	}
}

// Reconcile enforces range consistency: any min/max pair with min > max is
// swapped, and a year range with only a minimum becomes that exact year.
func (c *Criteria) Reconcile() {
	if c.PriceMin != nil && c.PriceMax != nil && *c.PriceMin > *c.PriceMax {
		c.PriceMin, c.PriceMax = c.PriceMax, c.PriceMin
	}
	reconcileYears(&c.YearMin, &c.YearMax)
	reconcileYears(&c.ManufactureYearMin, &c.ManufactureYearMax)
}

func reconcileYears(min, max **int) {
	if *min != nil && *max != nil && **min > **max {
		*min, *max = *max, *min
	}
	if *min != nil && *max == nil {
		*max = Int(**min)
	}
}

// IsEmpty reports whether no filter is set.
func (c *Criteria) IsEmpty() bool {
	for _, f := range TextFields {
		if len(c.Terms(f)) > 0 {
			return false
		}
	}
	return c.PriceMax == nil && c.PriceMin == nil &&
		c.YearMax == nil && c.YearMin == nil &&
		c.ManufactureYearMax == nil && c.ManufactureYearMin == nil &&
		c.MileageMax == nil && c.Doors == nil
}

// Flatten returns the set filters as a flat key → value(s) map for echoing
// back to callers. Absent filters are omitted.
func (c *Criteria) Flatten() map[string]any {
	out := make(map[string]any)
	for _, f := range TextFields {
		if t := c.Terms(f); len(t) > 0 {
			out[f.Key()] = []string(append(Terms(nil), t...))
		}
	}
	putFloat(out, "valor_max", c.PriceMax)
	putFloat(out, "valor_min", c.PriceMin)
	putInt(out, "ano_max", c.YearMax)
	putInt(out, "ano_min", c.YearMin)
	putInt(out, "ano_fabricacao_max", c.ManufactureYearMax)
	putInt(out, "ano_fabricacao_min", c.ManufactureYearMin)
	putInt(out, "km_max", c.MileageMax)
	putInt(out, "portas", c.Doors)
	return out
}

// Keys returns the sorted names of the set filters.
func (c *Criteria) Keys() []string {
	flat := c.Flatten()
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy.
func (c Criteria) Clone() Criteria {
	out := c
	for _, f := range TextFields {
		if p := out.termsPtr(f); *p != nil {
			*p = append(Terms(nil), *p...)
		}
	}
	out.PriceMax = cloneFloat(c.PriceMax)
	out.PriceMin = cloneFloat(c.PriceMin)
	out.YearMax = cloneInt(c.YearMax)
	out.YearMin = cloneInt(c.YearMin)
	out.ManufactureYearMax = cloneInt(c.ManufactureYearMax)
	out.ManufactureYearMin = cloneInt(c.ManufactureYearMin)
	out.MileageMax = cloneInt(c.MileageMax)
	out.Doors = cloneInt(c.Doors)
	return out
}

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	return Int(*p)
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	return Float(*p)
}

func putInt(m map[string]any, key string, p *int) {
	if p != nil {
		m[key] = *p
	}
}

func putFloat(m map[string]any, key string, p *float64) {
	if p != nil {
		m[key] = *p
	}
}
