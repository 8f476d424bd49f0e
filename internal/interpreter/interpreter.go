// Package interpreter turns a free-text Portuguese vehicle query into
// structured filter criteria.
package interpreter

import (
	"strings"
	"time"

	"github.com/AioliaTech/api-ia/internal/criteria"
	"github.com/AioliaTech/api-ia/internal/normalize"
	"github.com/AioliaTech/api-ia/internal/observability"
	"github.com/AioliaTech/api-ia/internal/vocabulary"
)

// Config holds the extraction heuristics.
type Config struct {
	// PriceThreshold is the value above which a triggered number without a
	// unit word is still read as a price.
	PriceThreshold float64
	// YearFloor and YearCeiling bound valid years, exclusive.
	YearFloor   int
	YearCeiling int
	// FillerWindow is how many filler tokens ("r$", "de") may sit between
	// a trigger and its number.
	FillerWindow int
	// BareYears enables reading standalone four-digit years as model years
	// when no "ano"/"modelo" trigger supplied one.
	BareYears bool
}

// DefaultConfig returns the standard heuristics.
func DefaultConfig() Config {
	return Config{
		PriceThreshold: 5000,
		YearFloor:      1950,
		YearCeiling:    2050,
		FillerWindow:   2,
		BareYears:      true,
	}
}

// Interpreter extracts criteria using a vocabulary index. It holds no
// per-query state and is safe for concurrent use.
type Interpreter struct {
	vocab  *vocabulary.Index
	logger *observability.Logger
	config Config
}

// New creates an Interpreter. A nil or empty vocabulary is accepted; every
// query then yields empty criteria.
func New(vocab *vocabulary.Index, logger *observability.Logger, config Config) *Interpreter {
	if logger == nil {
		logger = observability.NopLogger()
	}
	def := DefaultConfig()
	if config.PriceThreshold <= 0 {
		config.PriceThreshold = def.PriceThreshold
	}
	if config.YearFloor <= 0 {
		config.YearFloor = def.YearFloor
	}
	if config.YearCeiling <= config.YearFloor {
		config.YearCeiling = def.YearCeiling
	}
	if config.FillerWindow < 0 {
		config.FillerWindow = def.FillerWindow
	}
	return &Interpreter{
		vocab:  vocab,
		logger: logger.WithOperation("interpret"),
		config: config,
	}
}

// Vocabulary returns the index the interpreter matches against.
func (in *Interpreter) Vocabulary() *vocabulary.Index {
	return in.vocab
}

// Interpret extracts criteria from query. It never fails: an unavailable
// vocabulary or an unparsable number simply leaves the affected filters
// absent.
func (in *Interpreter) Interpret(query string) criteria.Criteria {
	var c criteria.Criteria
	if strings.TrimSpace(query) == "" {
		return c
	}
	if in.vocab.IsEmpty() {
		in.logger.Warn().Msg("Vocabulary unavailable, returning empty criteria")
		return c
	}

	start := time.Now()
	tokens := normalize.Tokens(query)

	candidates := in.matchPhrases(tokens)
	matches, claimed := in.scanRules(tokens)

	spans := make([]span, 0, len(candidates))
	for _, s := range candidates {
		if !s.overlapsAny(claimed) {
			spans = append(spans, s)
		}
	}

	for _, s := range spans {
		c.AddTerm(fieldFor(s.category), s.canonical)
	}
	in.inferCategories(&c)

	if in.config.BareYears {
		matches = append(matches, in.bareYears(tokens, claimed, spans)...)
	}
	in.apply(&c, matches)
	c.Reconcile()

	in.logger.Debug().
		Str("query", query).
		Strs("tokens", tokens).
		Strs("filters", c.Keys()).
		Dur("took", time.Since(start)).
		Msg("Query interpreted")

	return c
}

// inferCategories fills categories from the model table when the query
// named a model but no body type.
func (in *Interpreter) inferCategories(c *criteria.Criteria) {
	if len(c.Categories) > 0 || len(c.Models) == 0 {
		return
	}
	for _, model := range c.Models {
		if category, ok := in.vocab.CategoryForModel(model); ok {
			if c.Categories.Add(category) {
				c.CategoriesInferred = true
			}
		}
	}
}

func fieldFor(cat vocabulary.Category) criteria.TextField {
	switch cat {
	case vocabulary.Brand:
		return criteria.Brands
	case vocabulary.Model:
		return criteria.Models
	case vocabulary.Version:
		return criteria.Versions
	case vocabulary.BodyType:
		return criteria.Categories
	case vocabulary.Color:
		return criteria.Colors
	case vocabulary.Fuel:
		return criteria.Fuels
	case vocabulary.Transmission:
		return criteria.Transmissions
	case vocabulary.Engine:
		return criteria.Engines
	default:
		return criteria.Options
	}
}

// Interpret is a convenience wrapper using default heuristics and no logging.
func Interpret(query string, vocab *vocabulary.Index) criteria.Criteria {
	return New(vocab, nil, DefaultConfig()).Interpret(query)
}
