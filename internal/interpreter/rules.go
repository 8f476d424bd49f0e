package interpreter

import (
	"math"

	"github.com/AioliaTech/api-ia/internal/criteria"
	"github.com/AioliaTech/api-ia/internal/normalize"
)

// RuleKind identifies a numeric extraction rule.
type RuleKind int

const (
	RulePriceMax RuleKind = iota
	RulePriceMin
	RuleModelYear
	RuleManufactureYear
	RuleMileageMax
	RuleDoors
	// RuleBareYear is a standalone four-digit year with no trigger word.
	RuleBareYear
)

func (k RuleKind) String() string {
	switch k {
	case RulePriceMax:
		return "price_max"
	case RulePriceMin:
		return "price_min"
	case RuleModelYear:
		return "model_year"
	case RuleManufactureYear:
		return "manufacture_year"
	case RuleMileageMax:
		return "mileage_max"
	case RuleDoors:
		return "doors"
	case RuleBareYear:
		return "bare_year"
	default:
		return "unknown"
	}
}

// ruleMatch is one extracted number and the rule that produced it.
type ruleMatch struct {
	kind  RuleKind
	value float64
	start int
	end   int
}

// Trigger phrases, in normalized token form. Longer phrases come first so
// the longest trigger wins. "de" after "abaixo"/"acima"/"a partir" is
// absorbed as a filler.
var (
	priceMaxTriggers    = [][]string{{"abaixo"}, {"ate"}, {"maximo"}, {"max"}, {"teto"}}
	priceMinTriggers    = [][]string{{"a", "partir"}, {"acima"}, {"minimo"}}
	mileageTriggers     = [][]string{{"ate"}, {"com"}, {"maximo"}}
	modelYearTriggers   = [][]string{{"ano"}, {"modelo"}}
	manufactureTriggers = [][]string{{"fabricado"}, {"fabricacao"}}

	fillers       = map[string]bool{"r$": true, "r": true, "rs": true, "de": true}
	thousandUnits = map[string]bool{"mil": true, "k": true}
	doorUnits     = map[string]bool{"p": true, "portas": true}
)

type ruleFunc func(tokens []string, i int) (ruleMatch, bool)

// scanRules walks the tokens left to right, trying each rule at every
// unclaimed position. A token consumed by one rule is never reused by
// another. Mileage is tried before price so "até 50 mil km" is read as
// mileage.
func (in *Interpreter) scanRules(tokens []string) ([]ruleMatch, []bool) {
	claimed := make([]bool, len(tokens))
	rules := []ruleFunc{
		in.matchMileage,
		in.matchPriceMax,
		in.matchPriceMin,
		in.matchManufactureYear,
		in.matchModelYear,
		in.matchDoors,
	}

	var matches []ruleMatch
	for i := 0; i < len(tokens); i++ {
		if claimed[i] {
			continue
		}
		for _, rule := range rules {
			m, ok := rule(tokens, i)
			if !ok || anyClaimed(claimed, m.start, m.end) {
				continue
			}
			for j := m.start; j < m.end; j++ {
				claimed[j] = true
			}
			matches = append(matches, m)
			i = m.end - 1
			break
		}
	}
	return matches, claimed
}

func anyClaimed(claimed []bool, start, end int) bool {
	for i := start; i < end; i++ {
		if claimed[i] {
			return true
		}
	}
	return false
}

// matchTrigger returns the length of the trigger phrase at tokens[i], or 0.
func matchTrigger(tokens []string, i int, triggers [][]string) int {
	for _, trig := range triggers {
		if i+len(trig) > len(tokens) {
			continue
		}
		ok := true
		for k, w := range trig {
			if tokens[i+k] != w {
				ok = false
				break
			}
		}
		if ok {
			return len(trig)
		}
	}
	return 0
}

// skipFillers advances j past at most window filler tokens.
func skipFillers(tokens []string, j, window int) int {
	for n := 0; n < window && j < len(tokens) && fillers[tokens[j]]; n++ {
		j++
	}
	return j
}

func at(tokens []string, i int) string {
	if i < 0 || i >= len(tokens) {
		return ""
	}
	return tokens[i]
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}

func (in *Interpreter) matchPriceMax(tokens []string, i int) (ruleMatch, bool) {
	return in.matchPrice(tokens, i, priceMaxTriggers, RulePriceMax)
}

func (in *Interpreter) matchPriceMin(tokens []string, i int) (ruleMatch, bool) {
	return in.matchPrice(tokens, i, priceMinTriggers, RulePriceMin)
}

// matchPrice reads trigger [fillers] number [mil|k|reais]. Without a unit
// word the number must exceed the price threshold, so "até 2020" or
// "até 4" are not prices.
func (in *Interpreter) matchPrice(tokens []string, i int, triggers [][]string, kind RuleKind) (ruleMatch, bool) {
	n := matchTrigger(tokens, i, triggers)
	if n == 0 {
		return ruleMatch{}, false
	}
	j := skipFillers(tokens, i+n, in.config.FillerWindow)
	num := at(tokens, j)
	if !startsWithDigit(num) {
		return ruleMatch{}, false
	}
	value, ok := normalize.ParseDecimal(num)
	if !ok || value <= 0 {
		return ruleMatch{}, false
	}

	end := j + 1
	unit := at(tokens, end)
	switch {
	case thousandUnits[unit]:
		if at(tokens, end+1) == "km" {
			return ruleMatch{}, false
		}
		value *= 1000
		end++
	case unit == "reais":
		end++
	case unit == "km":
		return ruleMatch{}, false
	case value <= in.config.PriceThreshold:
		return ruleMatch{}, false
	}

	return ruleMatch{kind: kind, value: value, start: i, end: end}, true
}

// matchMileage reads trigger number [mil|k] km.
func (in *Interpreter) matchMileage(tokens []string, i int) (ruleMatch, bool) {
	n := matchTrigger(tokens, i, mileageTriggers)
	if n == 0 {
		return ruleMatch{}, false
	}
	j := i + n
	value, ok := normalize.ParseInt(at(tokens, j))
	if !ok {
		return ruleMatch{}, false
	}

	end := j + 1
	if thousandUnits[at(tokens, end)] {
		if value > math.MaxInt/1000 {
			return ruleMatch{}, false
		}
		value *= 1000
		end++
	}
	if at(tokens, end) != "km" {
		return ruleMatch{}, false
	}
	return ruleMatch{kind: RuleMileageMax, value: float64(value), start: i, end: end + 1}, true
}

// matchModelYear reads "ano"/"modelo" immediately followed by a year.
func (in *Interpreter) matchModelYear(tokens []string, i int) (ruleMatch, bool) {
	n := matchTrigger(tokens, i, modelYearTriggers)
	if n == 0 {
		return ruleMatch{}, false
	}
	year, ok := in.parseYear(at(tokens, i+n))
	if !ok {
		return ruleMatch{}, false
	}
	return ruleMatch{kind: RuleModelYear, value: float64(year), start: i, end: i + n + 1}, true
}

// matchManufactureYear reads "fabricado"/"fabricação" [em|de] year.
func (in *Interpreter) matchManufactureYear(tokens []string, i int) (ruleMatch, bool) {
	n := matchTrigger(tokens, i, manufactureTriggers)
	if n == 0 {
		return ruleMatch{}, false
	}
	j := i + n
	if w := at(tokens, j); w == "em" || w == "de" {
		j++
	}
	year, ok := in.parseYear(at(tokens, j))
	if !ok {
		return ruleMatch{}, false
	}
	return ruleMatch{kind: RuleManufactureYear, value: float64(year), start: i, end: j + 1}, true
}

// matchDoors reads a number immediately followed by "p" or "portas".
func (in *Interpreter) matchDoors(tokens []string, i int) (ruleMatch, bool) {
	if !doorUnits[at(tokens, i+1)] {
		return ruleMatch{}, false
	}
	doors, ok := normalize.ParseInt(at(tokens, i))
	if !ok || doors < 1 || doors > 9 {
		return ruleMatch{}, false
	}
	return ruleMatch{kind: RuleDoors, value: float64(doors), start: i, end: i + 2}, true
}

// parseYear accepts a four-digit token strictly inside the valid year range.
func (in *Interpreter) parseYear(token string) (int, bool) {
	if len(token) != 4 || !normalize.IsDigits(token) {
		return 0, false
	}
	year, ok := normalize.ParseInt(token)
	if !ok || year <= in.config.YearFloor || year >= in.config.YearCeiling {
		return 0, false
	}
	return year, true
}

// bareYears collects standalone year tokens that neither a rule nor a kept
// vocabulary span consumed.
func (in *Interpreter) bareYears(tokens []string, claimed []bool, spans []span) []ruleMatch {
	inSpan := make([]bool, len(tokens))
	for _, s := range spans {
		for i := s.start; i < s.end; i++ {
			inSpan[i] = true
		}
	}

	var out []ruleMatch
	for i, tok := range tokens {
		if claimed[i] || inSpan[i] {
			continue
		}
		if year, ok := in.parseYear(tok); ok {
			out = append(out, ruleMatch{kind: RuleBareYear, value: float64(year), start: i, end: i + 1})
		}
	}
	return out
}

// apply writes rule matches into c. The first price of each kind wins;
// years fill min first, then max from the next distinct value. Bare years
// are used only when no trigger-word model year was found.
func (in *Interpreter) apply(c *criteria.Criteria, matches []ruleMatch) {
	triggeredYear := false
	for _, m := range matches {
		if m.kind == RuleModelYear {
			triggeredYear = true
			break
		}
	}

	for _, m := range matches {
		switch m.kind {
		case RulePriceMax:
			if c.PriceMax == nil {
				c.PriceMax = criteria.Float(m.value)
			}
		case RulePriceMin:
			if c.PriceMin == nil {
				c.PriceMin = criteria.Float(m.value)
			}
		case RuleModelYear:
			setYear(&c.YearMin, &c.YearMax, int(m.value))
		case RuleManufactureYear:
			setYear(&c.ManufactureYearMin, &c.ManufactureYearMax, int(m.value))
		case RuleMileageMax:
			if c.MileageMax == nil {
				c.MileageMax = criteria.Int(int(m.value))
			}
		case RuleDoors:
			if c.Doors == nil {
				c.Doors = criteria.Int(int(m.value))
			}
		case RuleBareYear:
			if !triggeredYear {
				setYear(&c.YearMin, &c.YearMax, int(m.value))
			}
		}
	}
}

func setYear(min, max **int, year int) {
	switch {
	case *min == nil:
		*min = criteria.Int(year)
	case *max == nil && **min != year:
		*max = criteria.Int(year)
	}
}
