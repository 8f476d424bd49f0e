package interpreter

import (
	"sort"
	"strings"

	"github.com/AioliaTech/api-ia/internal/vocabulary"
)

// span is a vocabulary match over tokens[start:end].
type span struct {
	category  vocabulary.Category
	start     int
	end       int
	canonical string
}

func (s span) len() int { return s.end - s.start }

func (s span) overlaps(o span) bool {
	return s.start < o.end && o.start < s.end
}

func (s span) overlapsAny(claimed []bool) bool {
	for i := s.start; i < s.end && i < len(claimed); i++ {
		if claimed[i] {
			return true
		}
	}
	return false
}

// reserved words drive the numeric rules and never match the vocabulary as
// single-token phrases.
var reserved = map[string]bool{
	"ate": true, "maximo": true, "max": true, "teto": true, "abaixo": true,
	"acima": true, "minimo": true, "partir": true, "a": true, "de": true,
	"em": true, "ano": true, "modelo": true, "fabricado": true, "fabricacao": true,
	"com": true, "km": true, "mil": true, "k": true, "p": true, "portas": true,
	"reais": true, "r": true, "rs": true, "r$": true,
}

// matchPhrases scans tokens once per category for greedy longest matches,
// then resolves cross-category overlaps: brand, model and version matches
// are always kept, generic attribute matches only where they do not
// overlap an already kept span, longest first. The result is in query
// order.
func (in *Interpreter) matchPhrases(tokens []string) []span {
	var specific, generic []span

	for _, cat := range vocabulary.Categories {
		maxLen := in.vocab.MaxLen(cat)
		if maxLen == 0 {
			continue
		}

		for i := 0; i < len(tokens); {
			n := maxLen
			if remaining := len(tokens) - i; n > remaining {
				n = remaining
			}

			matched := 0
			for ; n >= 1; n-- {
				phrase := strings.Join(tokens[i:i+n], " ")
				if n == 1 && reserved[phrase] {
					continue
				}
				if canonical, ok := in.vocab.Lookup(cat, phrase); ok {
					s := span{category: cat, start: i, end: i + n, canonical: canonical}
					if cat.Specific() {
						specific = append(specific, s)
					} else {
						generic = append(generic, s)
					}
					matched = n
					break
				}
			}

			if matched > 0 {
				i += matched
			} else {
				i++
			}
		}
	}

	kept := append([]span(nil), specific...)

	sort.SliceStable(generic, func(i, j int) bool {
		if generic[i].len() != generic[j].len() {
			return generic[i].len() > generic[j].len()
		}
		return generic[i].start < generic[j].start
	})
	for _, g := range generic {
		clash := false
		for _, k := range kept {
			if g.overlaps(k) {
				clash = true
				break
			}
		}
		if !clash {
			kept = append(kept, g)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].start != kept[j].start {
			return kept[i].start < kept[j].start
		}
		return kept[i].category < kept[j].category
	})
	return kept
}
