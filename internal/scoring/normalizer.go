package scoring

import "github.com/fairyhunter13/applicant-scorer/internal/domain"

const (
	// NumericMaxPoints is the ceiling of Rating and Number answers and the
	// target range of the external evaluator.
	NumericMaxPoints = 10.0
	// TextMaxPoints is the denominator used for Text questions. The text
	// heuristic itself is uncapped, so an answer may earn more than this;
	// only the final percentage is clamped.
	TextMaxPoints = 30.0
)

// MaxForAssignment is the maximum attainable points of one assigned question.
func MaxForAssignment(a domain.Assignment) float64 {
	switch a.Question.Type {
	case domain.QuestionChoice:
		return MaxChoicePoints(a)
	case domain.QuestionRating, domain.QuestionNumber:
		return NumericMaxPoints
	case domain.QuestionText:
		return TextMaxPoints
	default:
		return 0
	}
}

// MaxForPosition sums MaxForAssignment over a position's assignments. It is
// recomputed on every call so configuration edits are always reflected.
func MaxForPosition(assignments []domain.Assignment) float64 {
	var total float64
	for _, a := range assignments {
		total += MaxForAssignment(a)
	}
	return total
}

// Percentage converts a raw total into a percentage of maxScore, clamped to [0,100].
func Percentage(raw, maxScore float64) float64 {
	if maxScore <= 0 {
		return 0
	}
	return clamp(raw/maxScore*100, 0, domain.NominalMaxPercentage)
}

// EntryPercentage is the per-question percentage shown in breakdowns. It is
// not clamped, so an uncapped Text score can read above 100.
func EntryPercentage(raw, maxScore float64) float64 {
	if maxScore <= 0 {
		return 0
	}
	return raw / maxScore * 100
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
