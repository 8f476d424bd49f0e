// Package vocabulary holds the phrase dictionaries the query interpreter
// matches against. An Index is immutable once built and safe to share
// between goroutines.
package vocabulary

import (
	"sort"
	"strings"

	"github.com/AioliaTech/api-ia/internal/normalize"
)

// Category identifies which criteria field a phrase fills.
type Category int

const (
	Brand Category = iota
	Model
	Version
	BodyType
	Color
	Fuel
	Transmission
	Engine
	Option
)

// Categories lists every category in matching order.
var Categories = []Category{Brand, Model, Version, BodyType, Color, Fuel, Transmission, Engine, Option}

func (c Category) String() string {
	switch c {
	case Brand:
		return "brand"
	case Model:
		return "model"
	case Version:
		return "version"
	case BodyType:
		return "category"
	case Color:
		return "color"
	case Fuel:
		return "fuel"
	case Transmission:
		return "transmission"
	case Engine:
		return "engine"
	case Option:
		return "option"
	default:
		return "unknown"
	}
}

// Specific reports whether the category names a vehicle identity (brand,
// model, version). Specific matches win over overlapping generic ones.
func (c Category) Specific() bool {
	return c == Brand || c == Model || c == Version
}

// Entry is one dictionary item: the display text returned to callers plus
// any alternative spellings that should resolve to it.
type Entry struct {
	Canonical string
	Category  Category
	Variants  []string
}

// Index maps normalized phrases to canonical display text, per category.
type Index struct {
	phrases       map[Category]map[string]string
	variants      map[Category]map[string][]string
	maxLen        map[Category]int
	modelCategory map[string]string
}

// Builder accumulates entries for an Index. Later additions of the same
// phrase in the same category keep the first canonical form.
type Builder struct {
	entries       []Entry
	modelCategory map[string]string
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{modelCategory: make(map[string]string)}
}

// Add registers a canonical phrase and its variants under a category.
func (b *Builder) Add(cat Category, canonical string, variants ...string) *Builder {
	if strings.TrimSpace(canonical) == "" {
		return b
	}
	b.entries = append(b.entries, Entry{Canonical: canonical, Category: cat, Variants: variants})
	return b
}

// AddEntries registers several entries at once.
func (b *Builder) AddEntries(entries []Entry) *Builder {
	for _, e := range entries {
		b.Add(e.Category, e.Canonical, e.Variants...)
	}
	return b
}

// MapModel records the body-type category a model belongs to.
func (b *Builder) MapModel(model, category string) *Builder {
	key := normalize.Phrase(model)
	if key == "" || category == "" {
		return b
	}
	if _, exists := b.modelCategory[key]; !exists {
		b.modelCategory[key] = category
	}
	return b
}

// Build freezes the accumulated entries into an Index.
func (b *Builder) Build() *Index {
	ix := &Index{
		phrases:       make(map[Category]map[string]string, len(Categories)),
		variants:      make(map[Category]map[string][]string, len(Categories)),
		maxLen:        make(map[Category]int, len(Categories)),
		modelCategory: make(map[string]string, len(b.modelCategory)),
	}
	for k, v := range b.modelCategory {
		ix.modelCategory[k] = v
	}

	for _, e := range b.entries {
		forms := append([]string{e.Canonical}, e.Variants...)
		for _, form := range forms {
			for _, key := range phraseKeys(form) {
				ix.put(e.Category, key, e.Canonical)
			}
		}
	}
	return ix
}

func (ix *Index) put(cat Category, key, canonical string) {
	m, ok := ix.phrases[cat]
	if !ok {
		m = make(map[string]string)
		ix.phrases[cat] = m
	}
	if _, exists := m[key]; exists {
		return
	}
	m[key] = canonical

	v, ok := ix.variants[cat]
	if !ok {
		v = make(map[string][]string)
		ix.variants[cat] = v
	}
	ck := normalize.Text(canonical)
	v[ck] = append(v[ck], key)
	if n := len(strings.Fields(key)); n > ix.maxLen[cat] {
		ix.maxLen[cat] = n
	}
}

// phraseKeys returns the lookup keys for a phrase: its token form plus,
// for hyphenated words, the joined and the spaced spellings ("t-cross",
// "tcross", "t cross").
func phraseKeys(s string) []string {
	key := normalize.Phrase(s)
	if key == "" {
		return nil
	}
	keys := []string{key}
	if strings.Contains(key, "-") {
		joined := normalize.Phrase(strings.ReplaceAll(key, "-", ""))
		spaced := normalize.Phrase(strings.ReplaceAll(key, "-", " "))
		for _, k := range []string{joined, spaced} {
			if k != "" && k != key {
				keys = append(keys, k)
			}
		}
	}
	return keys
}

// Lookup returns the canonical text for a normalized phrase in a category.
func (ix *Index) Lookup(cat Category, phrase string) (string, bool) {
	if ix == nil {
		return "", false
	}
	canonical, ok := ix.phrases[cat][phrase]
	return canonical, ok
}

// Synonyms returns every registered spelling that resolves to the same
// canonical value as term, including term's own normalized form. Unknown
// terms yield just their normalized form.
func (ix *Index) Synonyms(cat Category, term string) []string {
	norm := normalize.Text(term)
	if ix == nil {
		return []string{norm}
	}
	if canonical, ok := ix.phrases[cat][normalize.Phrase(term)]; ok {
		norm = normalize.Text(canonical)
	}
	out := []string{norm}
	for _, v := range ix.variants[cat][norm] {
		if v != norm {
			out = append(out, v)
		}
	}
	return out
}

// MaxLen is the longest phrase, in tokens, registered for a category.
func (ix *Index) MaxLen(cat Category) int {
	if ix == nil {
		return 0
	}
	return ix.maxLen[cat]
}

// Len is the number of distinct phrases registered for a category.
func (ix *Index) Len(cat Category) int {
	if ix == nil {
		return 0
	}
	return len(ix.phrases[cat])
}

// IsEmpty reports whether the index has no phrases at all.
func (ix *Index) IsEmpty() bool {
	if ix == nil {
		return true
	}
	for _, m := range ix.phrases {
		if len(m) > 0 {
			return false
		}
	}
	return true
}

// CategoryForModel returns the body-type category of a model, if known.
func (ix *Index) CategoryForModel(model string) (string, bool) {
	if ix == nil {
		return "", false
	}
	cat, ok := ix.modelCategory[normalize.Phrase(model)]
	return cat, ok
}

// Stats summarizes the phrase counts per category, keyed by category name.
func (ix *Index) Stats() map[string]int {
	stats := make(map[string]int, len(Categories))
	for _, c := range Categories {
		stats[c.String()] = ix.Len(c)
	}
	return stats
}

// Phrases returns the sorted canonical values registered for a category.
func (ix *Index) Phrases(cat Category) []string {
	if ix == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, canonical := range ix.phrases[cat] {
		if _, ok := seen[canonical]; ok {
			continue
		}
		seen[canonical] = struct{}{}
		out = append(out, canonical)
	}
	sort.Strings(out)
	return out
}
