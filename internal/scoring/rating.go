package scoring

import (
	"strconv"
	"strings"
)

const (
	minRating = 1
	maxRating = 5
)

// ScoreRating maps a 1–5 rating onto 0–10 points. Anything that is not an
// integer in range scores 0.
func ScoreRating(answer string) float64 {
	v, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil || v < minRating || v > maxRating {
		return 0
	}
	return clamp(float64(v)*2, 0, NumericMaxPoints)
}
