package scoring

import (
	"github.com/fairyhunter13/applicant-scorer/internal/domain"
	"github.com/fairyhunter13/applicant-scorer/pkg/textx"
)

// ResolvePoints returns the points an answer earns on a Choice assignment.
// A position override for the chosen option shadows the question default;
// matching is case-insensitive and ignores surrounding or repeated
// whitespace. matched is false when the answer names no known option.
func ResolvePoints(a domain.Assignment, answer string) (points float64, matched bool) {
	if textx.NormalizeLabel(answer) == "" {
		return 0, false
	}
	for _, opt := range EffectiveOptions(a) {
		if textx.SameLabel(opt.Text, answer) {
			return opt.Points, true
		}
	}
	return 0, false
}

// EffectiveOptions is the option set a position scores and normalizes
// against: the question defaults in their order, each carrying its override
// points when one matches, followed by overrides that name no default
// option. Points are floored at 0.
func EffectiveOptions(a domain.Assignment) []domain.Option {
	out := make([]domain.Option, 0, len(a.Question.Options)+len(a.Overrides))
	used := make([]bool, len(a.Overrides))
	for _, opt := range a.Question.Options {
		eff := domain.Option{Text: opt.Text, Points: nonNegative(opt.Points)}
		for i, ov := range a.Overrides {
			if textx.SameLabel(ov.OptionText, opt.Text) {
				eff.Points = nonNegative(ov.Points)
				used[i] = true
				break
			}
		}
		out = append(out, eff)
	}
	for i, ov := range a.Overrides {
		if used[i] || containsLabel(out, ov.OptionText) {
			continue
		}
		out = append(out, domain.Option{Text: ov.OptionText, Points: nonNegative(ov.Points)})
	}
	return out
}

// MaxChoicePoints is the greatest point value among the effective options, or 0.
func MaxChoicePoints(a domain.Assignment) float64 {
	var best float64
	for _, opt := range EffectiveOptions(a) {
		if opt.Points > best {
			best = opt.Points
		}
	}
	return best
}

// ScoreChoice scores a single-choice answer; unmatched answers are worth 0.
func ScoreChoice(a domain.Assignment, answer string) float64 {
	points, _ := ResolvePoints(a, answer)
	return points
}

func containsLabel(opts []domain.Option, label string) bool {
	for _, o := range opts {
		if textx.SameLabel(o.Text, label) {
			return true
		}
	}
	return false
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
