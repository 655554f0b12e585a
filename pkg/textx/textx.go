// Package textx holds small text helpers shared by the scorers.
package textx

import (
	"strings"
	"unicode"
)

// SanitizeText drops control characters other than tab, newline and
// carriage return, then trims surrounding space. Line structure is kept
// because the text heuristics read paragraphs and line breaks.
func SanitizeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' || (r >= 32 && r != 127) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// NormalizeLabel folds a short label such as a choice option for
// comparison: control characters removed, inner whitespace runs collapsed
// to one space, lowercased.
func NormalizeLabel(s string) string {
	fields := strings.FieldsFunc(SanitizeText(s), unicode.IsSpace)
	return strings.ToLower(strings.Join(fields, " "))
}

// SameLabel reports whether two labels are equal after NormalizeLabel.
func SameLabel(a, b string) bool {
	return NormalizeLabel(a) == NormalizeLabel(b)
}
