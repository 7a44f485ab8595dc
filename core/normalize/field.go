// Package normalize maps raw sheet records onto the canonical qapulse records.
package normalize

import (
	"math"
	"strconv"
	"strings"

	"github.com/huangsam/qapulse/core/sheet"
	"github.com/huangsam/qapulse/schema"
)

// Kind tells Normalize how to coerce a cell.
type Kind int

// Field kinds.
const (
	Text Kind = iota
	Number
)

// FieldSpec declares one canonical field, the source columns it may come from and its default.
type FieldSpec struct {
	Name    string
	Aliases []string
	Kind    Kind
	Default string
}

// Fields holds the canonical values produced by Normalize.
type Fields struct {
	text  map[string]string
	num   map[string]float64
	found map[string]bool
}

// Normalize resolves every spec against rec. The first alias with a usable value wins.
// A Number field whose cell does not parse falls back to its default, and to 0 after that.
func Normalize(rec sheet.Record, specs []FieldSpec) Fields {
	f := Fields{
		text:  make(map[string]string, len(specs)),
		num:   make(map[string]float64, len(specs)),
		found: make(map[string]bool, len(specs)),
	}
	for _, spec := range specs {
		raw, ok := rec.Lookup(spec.Aliases...)
		switch spec.Kind {
		case Number:
			if ok {
				if v, valid := ParseNumber(raw); valid {
					f.num[spec.Name] = v
					f.found[spec.Name] = true
					continue
				}
			}
			v, _ := ParseNumber(spec.Default)
			f.num[spec.Name] = v
		default:
			if ok {
				f.text[spec.Name] = raw
				f.found[spec.Name] = true
				continue
			}
			f.text[spec.Name] = spec.Default
		}
	}
	return f
}

// Text returns the value of a Text field.
func (f Fields) Text(name string) string {
	return f.text[name]
}

// Float returns the value of a Number field.
func (f Fields) Float(name string) float64 {
	return f.num[name]
}

// Int returns the value of a Number field rounded half up.
func (f Fields) Int(name string) int {
	return schema.RoundHalfUp(f.num[name])
}

// Has reports whether the field came from the record rather than its default.
func (f Fields) Has(name string) bool {
	return f.found[name]
}

// ParseNumber reads a spreadsheet number such as "12", "12.5%", "1,234" or "3,5".
// It reports false for anything that is not a finite number.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00a0", "")
	if s == "" {
		return 0, false
	}

	switch {
	case strings.Contains(s, ",") && strings.Contains(s, "."):
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			// 1.234,5
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case strings.Contains(s, ","):
		if isThousands(s) {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// isThousands reports whether every comma in s is followed by exactly three digits.
func isThousands(s string) bool {
	parts := strings.Split(s, ",")
	for _, p := range parts[1:] {
		if len(p) != 3 {
			return false
		}
	}
	return true
}
