package scoring

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var durationCue = regexp.MustCompile(`(?i)\b(years?|yrs?|months?)\b`)

// IsExperienceQuestion reports whether a numeric question asks for a length
// of experience, e.g. "How many years of experience do you have?".
func IsExperienceQuestion(questionText string) bool {
	return durationCue.MatchString(questionText) &&
		strings.Contains(strings.ToLower(questionText), "experience")
}

// NumberContextHint tags a numeric question for the external evaluator.
func NumberContextHint(questionText string) string {
	if IsExperienceQuestion(questionText) {
		return "years_experience"
	}
	return "numeric"
}

// ScoreNumber scores a numeric answer. Experience-duration questions earn two
// points per unit; other numbers are clamped directly into [0,10].
func ScoreNumber(questionText, answer string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(answer), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	if IsExperienceQuestion(questionText) {
		return clamp(v*2, 0, NumericMaxPoints)
	}
	return clamp(v, 0, NumericMaxPoints)
}
