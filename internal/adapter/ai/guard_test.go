package ai_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/applicant-scorer/internal/adapter/ai"
	"github.com/fairyhunter13/applicant-scorer/internal/adapter/observability"
	"github.com/fairyhunter13/applicant-scorer/internal/domain"
	"github.com/fairyhunter13/applicant-scorer/internal/domain/mocks"
)

type fixedLimiter struct {
	allowed bool
	err     error
	calls   int
}

func (f *fixedLimiter) Allow(_ context.Context, key string, _ int64) (bool, time.Duration, error) {
	f.calls++
	if key != ai.OracleBucket {
		return true, 0, nil
	}
	return f.allowed, time.Second, f.err
}

func ratingReq() domain.EvaluationRequest {
	return domain.EvaluationRequest{QuestionText: "Rate yourself", Answer: "4", Type: domain.QuestionRating, MaxPoints: 10}
}

func TestGuardedEvaluator_PassesThrough(t *testing.T) {
	t.Parallel()
	next := mocks.NewEvaluator(t)
	next.On("Evaluate", mock.Anything, ratingReq()).Return(domain.EvaluationResult{Success: true, Score: 8}, nil).Once()

	g := ai.NewGuardedEvaluator(next, observability.NewBreakerSet("oracle", 3, time.Minute), &fixedLimiter{allowed: true})
	res, err := g.Evaluate(context.Background(), ratingReq())
	require.NoError(t, err)
	assert.Equal(t, 8.0, res.Score)
}

func TestGuardedEvaluator_LimiterDenies(t *testing.T) {
	t.Parallel()
	next := mocks.NewEvaluator(t)
	g := ai.NewGuardedEvaluator(next, nil, &fixedLimiter{allowed: false})
	_, err := g.Evaluate(context.Background(), ratingReq())
	assert.ErrorIs(t, err, domain.ErrUpstreamRateLimit)
	next.AssertNotCalled(t, "Evaluate", mock.Anything, mock.Anything)
}

func TestGuardedEvaluator_LimiterErrorFailsOpen(t *testing.T) {
	t.Parallel()
	next := mocks.NewEvaluator(t)
	next.On("Evaluate", mock.Anything, mock.Anything).Return(domain.EvaluationResult{Success: true, Score: 2}, nil)
	g := ai.NewGuardedEvaluator(next, nil, &fixedLimiter{allowed: true, err: errors.New("redis down")})
	res, err := g.Evaluate(context.Background(), ratingReq())
	require.NoError(t, err)
	assert.Equal(t, 2.0, res.Score)
}

func TestGuardedEvaluator_BreakerOpensPerQuestionType(t *testing.T) {
	t.Parallel()
	next := mocks.NewEvaluator(t)
	failing := ratingReq()
	next.On("Evaluate", mock.Anything, failing).Return(domain.EvaluationResult{}, errors.New("upstream 500")).Twice()
	number := domain.EvaluationRequest{QuestionText: "Years?", Answer: "3", Type: domain.QuestionNumber, MaxPoints: 10}
	next.On("Evaluate", mock.Anything, number).Return(domain.EvaluationResult{Success: true, Score: 6}, nil).Once()

	g := ai.NewGuardedEvaluator(next, observability.NewBreakerSet("oracle", 2, time.Minute), nil)
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		_, err := g.Evaluate(ctx, failing)
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrUpstreamRateLimit)
	}

	_, err := g.Evaluate(ctx, failing)
	assert.ErrorIs(t, err, domain.ErrUpstreamRateLimit)

	res, err := g.Evaluate(ctx, number)
	require.NoError(t, err)
	assert.Equal(t, 6.0, res.Score)
}
