package text

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Tokenize splits on anything that is not a letter or digit, lowercases,
// and drops tokens of one character.
func Tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) > 1 {
			out = append(out, f)
		}
	}
	return out
}

type tokenSet map[string]struct{}

func newTokenSet(words []string) tokenSet {
	set := make(tokenSet, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return set
}

func (s tokenSet) has(w string) bool {
	_, ok := s[w]
	return ok
}

// overlap counts distinct members of vocab that appear in set.
func overlap(set tokenSet, vocab []string) int {
	seen := make(tokenSet)
	n := 0
	for _, w := range vocab {
		w = strings.ToLower(w)
		if set.has(w) && !seen.has(w) {
			seen[w] = struct{}{}
			n++
		}
	}
	return n
}

// occurrences counts every token of tokens that is a member of vocab.
func occurrences(tokens []string, vocab tokenSet) int {
	n := 0
	for _, t := range tokens {
		if vocab.has(t) {
			n++
		}
	}
	return n
}

// countTerm counts occurrences of term in lowered text where the match is
// not glued to surrounding letters or digits. It handles multi-word and
// symbol-bearing terms such as "machine learning" or "c++".
func countTerm(lowered, term string) int {
	term = strings.ToLower(term)
	if term == "" {
		return 0
	}
	n := 0
	for i := 0; i <= len(lowered)-len(term); {
		j := strings.Index(lowered[i:], term)
		if j < 0 {
			break
		}
		start := i + j
		end := start + len(term)
		if boundaryBefore(lowered, start) && boundaryAfter(lowered, end) {
			n++
		}
		i = start + 1
	}
	return n
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

var (
	sentenceSplit  = regexp.MustCompile(`[.!?]+`)
	paragraphSplit = regexp.MustCompile(`\n\s*\n`)
)

// sentences returns the non-blank sentences of s.
func sentences(s string) []string {
	var out []string
	for _, part := range sentenceSplit.Split(s, -1) {
		if strings.TrimSpace(part) != "" {
			out = append(out, part)
		}
	}
	return out
}

// paragraphs counts blocks separated by blank lines.
func paragraphs(s string) int {
	n := 0
	for _, part := range paragraphSplit.Split(s, -1) {
		if strings.TrimSpace(part) != "" {
			n++
		}
	}
	return n
}

const (
	fuzzyMinLen      = 4
	fuzzyMaxDistance = 2
)

// fuzzyMatch reports whether two tokens are near-equal: one contains the
// other, or their edit distance is at most two.
func fuzzyMatch(a, b string) bool {
	if utf8.RuneCountInString(a) < fuzzyMinLen || utf8.RuneCountInString(b) < fuzzyMinLen {
		return false
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}
	return levenshtein.ComputeDistance(a, b) <= fuzzyMaxDistance
}
