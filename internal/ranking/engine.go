// Package ranking filters inventory records against interpreted criteria
// and orders the survivors by relevance.
//
// An Engine holds only configuration. All per-call scoring state lives in
// a slice private to the call, so concurrent searches over the same
// snapshot never observe each other.
package ranking

import (
	"sort"

	"github.com/AioliaTech/api-ia/internal/criteria"
	"github.com/AioliaTech/api-ia/internal/inventory"
	"github.com/AioliaTech/api-ia/internal/vocabulary"
)

// Weights are the relevance contributions of a matched text field. Model
// matches contribute their fuzzy score instead of a fixed weight.
type Weights struct {
	Brand     float64
	Category  float64
	Secondary float64
}

// Config tunes filtering and ranking.
type Config struct {
	// TextThreshold is the minimum fuzzy score for standard text fields.
	TextThreshold float64
	// OptionThreshold applies to each requested option.
	OptionThreshold float64
	// PriceTolerance multiplies the price ceiling. 1.0 is a strict budget;
	// 1.3 keeps listings slightly above it.
	PriceTolerance  float64
	MaxResults      int
	MaxAlternatives int
	// Fallback enables alternative suggestions when nothing matches.
	Fallback bool
	Weights  Weights
}

// DefaultConfig returns the standard tuning.
func DefaultConfig() Config {
	return Config{
		TextThreshold:   85,
		OptionThreshold: 90,
		PriceTolerance:  1.0,
		MaxResults:      50,
		MaxAlternatives: 10,
		Fallback:        true,
		Weights: Weights{
			Brand:     100,
			Category:  80,
			Secondary: 50,
		},
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.TextThreshold <= 0 {
		c.TextThreshold = d.TextThreshold
	}
	if c.OptionThreshold <= 0 {
		c.OptionThreshold = d.OptionThreshold
	}
	if c.PriceTolerance <= 0 {
		c.PriceTolerance = d.PriceTolerance
	}
	if c.MaxResults <= 0 {
		c.MaxResults = d.MaxResults
	}
	if c.MaxAlternatives <= 0 {
		c.MaxAlternatives = d.MaxAlternatives
	}
	if c.Weights == (Weights{}) {
		c.Weights = d.Weights
	}
	return c
}

// Synonyms expands a requested term into every spelling that should match
// it. *vocabulary.Index implements it.
type Synonyms interface {
	Synonyms(cat vocabulary.Category, term string) []string
}

// Option configures an Engine.
type Option func(*Engine)

// WithSynonyms makes text filters also accept registered variants of each
// requested term, e.g. a "volkswagen" request matching a "VW" record.
func WithSynonyms(s Synonyms) Option {
	return func(e *Engine) {
		e.synonyms = s
	}
}

// Engine applies criteria to vehicle lists. It is safe for concurrent use.
type Engine struct {
	cfg      Config
	synonyms Synonyms
}

// New creates an engine. Zero config fields take their defaults.
func New(cfg Config, opts ...Option) *Engine {
	e := &Engine{cfg: cfg.withDefaults()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the effective configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Hit is one ranked record together with the scoring it received in this
// call. Vehicle is a copy; the snapshot record is never modified.
type Hit struct {
	Vehicle inventory.Vehicle
	Score   float64
	Matched int
}

// Result is a ranked, truncated list. Total counts every match before
// truncation.
type Result struct {
	Total int
	Hits  []Hit
}

// Vehicles returns the records of the hits in rank order.
func (r Result) Vehicles() []inventory.Vehicle {
	out := make([]inventory.Vehicle, len(r.Hits))
	for i, h := range r.Hits {
		out[i] = h.Vehicle
	}
	return out
}

// candidate is the private per-call score of the record at index.
type candidate struct {
	index   int
	score   float64
	matched int
	price   float64
	priced  bool
}

// FilterAndRank returns the records satisfying every filter in c, ordered
// by matched filter count, relevance score and price, all descending.
func (e *Engine) FilterAndRank(c criteria.Criteria, vehicles []inventory.Vehicle) Result {
	return e.rank(c, vehicles, e.cfg.MaxResults)
}

func (e *Engine) rank(c criteria.Criteria, vehicles []inventory.Vehicle, limit int) Result {
	text := e.textFilters(&c)
	numeric := e.numericFilters(&c)

	candidates := make([]candidate, 0, len(vehicles))
	for i := range vehicles {
		v := &vehicles[i]
		cand, ok := e.evaluate(v, text, numeric)
		if !ok {
			continue
		}
		cand.index = i
		cand.price, cand.priced = v.Price.Float()
		candidates = append(candidates, cand)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.matched != b.matched {
			return a.matched > b.matched
		}
		if a.score != b.score {
			return a.score > b.score
		}
		if a.priced != b.priced {
			return a.priced
		}
		return a.price > b.price
	})

	total := len(candidates)
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	hits := make([]Hit, len(candidates))
	for i, cand := range candidates {
		hits[i] = Hit{Vehicle: vehicles[cand.index], Score: cand.score, Matched: cand.matched}
	}
	return Result{Total: total, Hits: hits}
}

func (e *Engine) evaluate(v *inventory.Vehicle, text []textFilter, numeric []numericFilter) (candidate, bool) {
	var cand candidate
	for i := range text {
		f := &text[i]
		score, ok := f.match(fieldValues(v, f.field))
		if !ok {
			if f.soft {
				continue
			}
			return candidate{}, false
		}
		cand.matched++
		cand.score += e.weight(f.field, score)
	}
	for _, f := range numeric {
		if !f(v) {
			return candidate{}, false
		}
		cand.matched++
	}
	return cand, true
}

func (e *Engine) weight(f criteria.TextField, score float64) float64 {
	switch f {
	case criteria.Brands:
		return e.cfg.Weights.Brand
	case criteria.Models:
		return score
	case criteria.Categories:
		return e.cfg.Weights.Category
	default:
		return e.cfg.Weights.Secondary
	}
}
