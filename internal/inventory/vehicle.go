// Package inventory owns the vehicle records, the immutable snapshot that
// searches read, and the pipeline that refreshes it.
package inventory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/AioliaTech/api-ia/internal/normalize"
)

// Vehicle is one inventory record. Records are read-only once loaded into
// a snapshot.
type Vehicle struct {
	ID              Text       `json:"id"`
	Title           Text       `json:"titulo"`
	Brand           Text       `json:"marca"`
	Model           Text       `json:"modelo"`
	Version         Text       `json:"versao"`
	Category        Text       `json:"categoria"`
	Color           Text       `json:"cor"`
	Fuel            Text       `json:"combustivel"`
	Transmission    Text       `json:"cambio"`
	Engine          Text       `json:"motor"`
	Doors           Number     `json:"portas"`
	Year            Number     `json:"ano"`
	ManufactureYear Number     `json:"ano_fabricacao"`
	Mileage         Number     `json:"km"`
	Price           Number     `json:"preco"`
	Options         StringList `json:"opcionais"`
	Photos          StringList `json:"fotos"`
}

// Text is a string field that tolerates numbers, booleans and null in the
// source JSON, so a feed sending "motor": 1.0 does not reject the record.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(strings.TrimSpace(s))
	case len(data) > 0 && (data[0] == '{' || data[0] == '['):
		return fmt.Errorf("text field: unexpected %s", data[:1])
	default:
		*t = Text(data)
	}
	return nil
}

func (t Text) String() string { return string(t) }

// Number is a numeric-ish field as it appeared in the source: a JSON
// number, a locale-formatted string such as "R$ 48.990,00", or absent.
// Parsing happens on demand and failure means "no value", never zero.
type Number struct {
	raw     string
	numeric bool
}

// NumberOf returns a Number holding v.
func NumberOf(v float64) Number {
	return Number{raw: strconv.FormatFloat(v, 'f', -1, 64), numeric: true}
}

// NumberText returns a Number holding raw text.
func NumberText(raw string) Number {
	return Number{raw: strings.TrimSpace(raw)}
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*n = Number{}
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = NumberText(s)
	case len(data) > 0 && (data[0] == '{' || data[0] == '[' || data[0] == 't' || data[0] == 'f'):
		// Unusable shapes are kept as absent rather than failing the record.
		*n = Number{}
	default:
		*n = Number{raw: string(data), numeric: true}
	}
	return nil
}

// MarshalJSON echoes the original representation.
func (n Number) MarshalJSON() ([]byte, error) {
	if n.raw == "" {
		return []byte("null"), nil
	}
	if n.numeric {
		return []byte(n.raw), nil
	}
	return json.Marshal(n.raw)
}

// Raw returns the source text.
func (n Number) Raw() string { return n.raw }

// IsZero reports whether the field was absent.
func (n Number) IsZero() bool { return n.raw == "" }

var unitSuffixes = []string{"kms", "km", "portas", "p"}

// Float parses the value. ok is false when absent or unparsable.
func (n Number) Float() (float64, bool) {
	if n.raw == "" {
		return 0, false
	}
	if n.numeric {
		f, err := strconv.ParseFloat(n.raw, 64)
		return f, err == nil
	}
	s := strings.ToLower(strings.TrimSpace(n.raw))
	for _, suffix := range unitSuffixes {
		if strings.HasSuffix(s, suffix) {
			s = strings.TrimSpace(strings.TrimSuffix(s, suffix))
			break
		}
	}
	return normalize.ParseDecimal(s)
}

// Int parses the value and truncates it to an integer.
func (n Number) Int() (int, bool) {
	f, ok := n.Float()
	if !ok {
		return 0, false
	}
	return int(f), true
}

// StringList accepts either a JSON array or a delimited string.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*l = nil
	case len(data) > 0 && data[0] == '[':
		var items []Text
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		out := make(StringList, 0, len(items))
		for _, it := range items {
			if s := strings.TrimSpace(string(it)); s != "" {
				out = append(out, s)
			}
		}
		*l = out
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = SplitList(s)
	default:
		*l = nil
	}
	return nil
}

// SplitList splits a comma, semicolon or pipe separated string.
func SplitList(s string) StringList {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == '|' || r == '\n'
	})
	var out StringList
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
