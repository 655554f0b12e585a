package scoring

import (
	"testing"

	"github.com/fairyhunter13/applicant-scorer/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestPercentage(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		raw, max float64
		want     float64
	}{
		{"38 of 40", 38, 40, 95.0},
		{"perfect", 40, 40, 100},
		{"over max clamps", 50, 40, 100},
		{"zero max", 10, 0, 0},
		{"negative max", 10, -5, 0},
		{"zero raw", 0, 40, 0},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, Percentage(tt.raw, tt.max), 1e-9)
		})
	}
}

func TestEntryPercentage_NotClamped(t *testing.T) {
	t.Parallel()
	assert.InDelta(t, 150.0, EntryPercentage(45, 30), 1e-9)
	assert.Zero(t, EntryPercentage(5, 0))
}

func TestMaxForPosition(t *testing.T) {
	t.Parallel()
	assignments := []domain.Assignment{
		workArrangement(),
		{Question: domain.Question{ID: "r", Type: domain.QuestionRating}},
		{Question: domain.Question{ID: "n", Type: domain.QuestionNumber}},
		{Question: domain.Question{ID: "t", Type: domain.QuestionText}},
		{Question: domain.Question{ID: "u", Type: domain.QuestionType("matrix")}},
	}
	assert.Equal(t, 55.0, MaxForPosition(assignments))
	assert.Zero(t, MaxForPosition(nil))
}

func TestMaxForPosition_ReflectsOverrideEdits(t *testing.T) {
	t.Parallel()
	a := workArrangement()
	before := MaxForPosition([]domain.Assignment{a})
	a.Overrides = []domain.OptionOverride{{OptionText: "Remote", Points: 12}}
	after := MaxForPosition([]domain.Assignment{a})
	assert.Equal(t, 5.0, before)
	assert.Equal(t, 12.0, after)
}
