package ranking

import (
	"fmt"
	"reflect"

	"github.com/AioliaTech/api-ia/internal/criteria"
	"github.com/AioliaTech/api-ia/internal/inventory"
)

// Alternatives are suggestions from a reduced criteria set, returned
// alongside an empty primary result.
type Alternatives struct {
	Criteria criteria.Criteria
	// Basis names the criteria kept, e.g. "categoria e preço".
	Basis string
	Note  string
	Result
}

// Outcome is the full answer to one search.
type Outcome struct {
	Criteria     criteria.Criteria
	Result       Result
	Alternatives *Alternatives
}

type reduction struct {
	field     criteria.TextField
	withPrice bool
	basis     string
}

// Reductions are tried in order; the first with any match wins.
var reductions = []reduction{
	{criteria.Categories, true, "categoria e preço"},
	{criteria.Categories, false, "categoria"},
	{criteria.Models, true, "modelo e preço"},
	{criteria.Models, false, "modelo"},
	{criteria.Brands, true, "marca e preço"},
	{criteria.Brands, false, "marca"},
}

// Search ranks vehicles against c and, when nothing matches a non-empty
// criteria set, broadens it to produce alternatives. The primary result is
// always returned, even when empty.
func (e *Engine) Search(c criteria.Criteria, vehicles []inventory.Vehicle) Outcome {
	out := Outcome{Criteria: c, Result: e.FilterAndRank(c, vehicles)}
	if out.Result.Total > 0 || !e.cfg.Fallback || c.IsEmpty() {
		return out
	}
	out.Alternatives = e.Alternatives(c, vehicles)
	return out
}

// Alternatives runs the fallback reductions of c and returns the first one
// with matches, or nil.
func (e *Engine) Alternatives(c criteria.Criteria, vehicles []inventory.Vehicle) *Alternatives {
	for _, r := range reductions {
		reduced, ok := reduce(c, r)
		if !ok || sameCriteria(reduced, c) {
			continue
		}
		res := e.rank(reduced, vehicles, e.cfg.MaxAlternatives)
		if res.Total == 0 {
			continue
		}
		return &Alternatives{
			Criteria: reduced,
			Basis:    r.basis,
			Note:     fmt.Sprintf("Nenhum veículo atende a todos os critérios. Sugestões com base em %s.", r.basis),
			Result:   res,
		}
	}
	return nil
}

// reduce keeps only r's field (and the price range if requested). An
// inferred category becomes a hard filter here, otherwise it would keep
// every record.
func reduce(c criteria.Criteria, r reduction) (criteria.Criteria, bool) {
	var out criteria.Criteria
	terms := c.Terms(r.field)
	if len(terms) == 0 {
		return out, false
	}
	for _, t := range terms {
		out.AddTerm(r.field, t)
	}
	if r.withPrice {
		if c.PriceMin == nil && c.PriceMax == nil {
			return out, false
		}
		out.PriceMin = cloneFloat(c.PriceMin)
		out.PriceMax = cloneFloat(c.PriceMax)
	}
	return out, true
}

func sameCriteria(a, b criteria.Criteria) bool {
	return a.CategoriesInferred == b.CategoriesInferred && reflect.DeepEqual(a.Flatten(), b.Flatten())
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
