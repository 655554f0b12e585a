// Package text scores free-text answers with an ordered list of named,
// independent heuristic rules. The raw result is never capped against a
// question maximum; normalization happens in the caller.
package text

import (
	"math"
	"strings"

	"github.com/fairyhunter13/applicant-scorer/pkg/textx"
)

// Scorer evaluates free-text answers. It is safe for concurrent use.
type Scorer struct {
	rules []rule
}

// NewScorer builds a scorer over the given vocabulary.
func NewScorer(v Vocabulary) *Scorer {
	return &Scorer{rules: buildRules(v)}
}

// ruleNames lists the rules in evaluation order.
func (s *Scorer) ruleNames() []string {
	names := make([]string, len(s.rules))
	for i, r := range s.rules {
		names[i] = r.Name
	}
	return names
}

// Explain returns every rule's contribution in order. A blank answer yields
// no contributions.
func (s *Scorer) Explain(questionText, answer string) []Contribution {
	answer = textx.SanitizeText(answer)
	if strings.TrimSpace(answer) == "" {
		return nil
	}
	in := &input{
		question:      questionText,
		questionLower: strings.ToLower(questionText),
		answer:        answer,
		answerLower:   strings.ToLower(answer),
		tokens:        Tokenize(answer),
	}
	in.tokenSet = newTokenSet(in.tokens)

	out := make([]Contribution, 0, len(s.rules))
	for _, r := range s.rules {
		out = append(out, Contribution{Label: r.Name, Points: r.Apply(in)})
	}
	return out
}

// Score is max(0, sum of contributions), rounded to two decimals.
func (s *Scorer) Score(questionText, answer string) float64 {
	total := 0.0
	for _, c := range s.Explain(questionText, answer) {
		total += c.Points
	}
	if total <= 0 {
		return 0
	}
	return math.Round(total*100) / 100
}
