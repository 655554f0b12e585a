package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreRating(t *testing.T) {
	t.Parallel()
	tests := []struct {
		answer string
		want   float64
	}{
		{"5", 10},
		{"1", 2},
		{"3", 6},
		{" 4 ", 8},
		{"6", 0},
		{"0", 0},
		{"-1", 0},
		{"abc", 0},
		{"4.5", 0},
		{"", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ScoreRating(tt.answer), "answer=%q", tt.answer)
	}
}

func TestScoreNumber_Experience(t *testing.T) {
	t.Parallel()
	q := "How many years of experience do you have?"
	tests := []struct {
		answer string
		want   float64
	}{
		{"5", 10},
		{"3", 6},
		{"2.5", 5},
		{"-1", 0},
		{"40", 10},
		{"abc", 0},
		{"NaN", 0},
		{"Inf", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ScoreNumber(q, tt.answer), "answer=%q", tt.answer)
	}
}

func TestScoreNumber_Plain(t *testing.T) {
	t.Parallel()
	q := "How many languages do you speak?"
	assert.Equal(t, 4.0, ScoreNumber(q, "4"))
	assert.Equal(t, 10.0, ScoreNumber(q, "12"))
	assert.Equal(t, 0.0, ScoreNumber(q, "-3"))
}

func TestIsExperienceQuestion(t *testing.T) {
	t.Parallel()
	assert.True(t, IsExperienceQuestion("Years of experience with Go?"))
	assert.True(t, IsExperienceQuestion("How many months of sales experience?"))
	assert.True(t, IsExperienceQuestion("Experience in yrs"))
	// Needs both a duration cue and the word experience.
	assert.False(t, IsExperienceQuestion("How many years have you lived here?"))
	assert.False(t, IsExperienceQuestion("Rate your experience"))
	assert.Equal(t, "years_experience", NumberContextHint("Years of experience?"))
	assert.Equal(t, "numeric", NumberContextHint("Team size?"))
}
