package schema

import (
	"math"
	"strings"
	"unicode"
)

// RoundHalfUp rounds to the nearest integer with halves going toward positive infinity,
// so -2.5 becomes -2 and 2.5 becomes 3.
func RoundHalfUp(x float64) int {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return int(math.Floor(x + 0.5))
}

// RoundTo rounds x to the given number of decimal places.
func RoundTo(x float64, places int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	pow := math.Pow(10, float64(places))
	return math.Floor(x*pow+0.5) / pow
}

// SafeDiv divides a by b and returns 0 when b is 0.
func SafeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

// Percentage returns round(part/total*100), or 0 when total is 0.
func Percentage(part, total int) int {
	if total == 0 {
		return 0
	}
	return RoundHalfUp(float64(part) / float64(total) * 100)
}

// SprintKey normalizes a sprint label to its digits, so "Sprint 21" becomes "21".
func SprintKey(label string) string {
	var b strings.Builder
	for _, r := range label {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// cleanParts trims non-alphanumeric punctuation from the ends of each name part.
func cleanParts(parts []string) []string {
	var cleaned []string
	for _, p := range parts {
		cp := strings.TrimFunc(p, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '-' && r != '\'' && r != '.'
		})
		cp = strings.TrimSuffix(cp, ".")
		if cp != "" {
			cleaned = append(cleaned, cp)
		}
	}
	return cleaned
}

// AbbreviateName formats "Laura Gómez" to "Laura G" for narrow table columns.
// Single-word names are returned unchanged.
func AbbreviateName(name string) string {
	trimmed := strings.Trim(strings.TrimSpace(name), "()\"'`")
	cleaned := cleanParts(strings.Fields(trimmed))

	switch {
	case len(cleaned) >= 2:
		last := []rune(cleaned[len(cleaned)-1])
		return cleaned[0] + " " + string(last[0])
	case len(cleaned) == 1:
		return cleaned[0]
	default:
		return trimmed
	}
}
