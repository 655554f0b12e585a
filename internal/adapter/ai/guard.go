// Package ai guards calls to the external answer evaluator.
package ai

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/fairyhunter13/applicant-scorer/internal/adapter/observability"
	"github.com/fairyhunter13/applicant-scorer/internal/domain"
	"github.com/fairyhunter13/applicant-scorer/internal/service/ratelimiter"
)

// OracleBucket is the rate limiter bucket shared by every oracle call.
const OracleBucket = "oracle"

// GuardedEvaluator sheds load before it reaches the oracle: a shared rate
// limit first, then a circuit breaker per question type.
type GuardedEvaluator struct {
	next     domain.Evaluator
	breakers *observability.BreakerSet
	limiter  ratelimiter.Limiter
}

// NewGuardedEvaluator wraps next. A nil limiter disables rate limiting.
func NewGuardedEvaluator(next domain.Evaluator, breakers *observability.BreakerSet, limiter ratelimiter.Limiter) *GuardedEvaluator {
	return &GuardedEvaluator{next: next, breakers: breakers, limiter: limiter}
}

// Evaluate returns ErrUpstreamRateLimit without calling the oracle when the
// bucket is empty or the breaker for req.Type is open.
func (g *GuardedEvaluator) Evaluate(ctx domain.Context, req domain.EvaluationRequest) (domain.EvaluationResult, error) {
	lg := observability.LoggerFromContext(ctx)
	if g.limiter != nil {
		allowed, retryAfter, err := g.limiter.Allow(ctx, OracleBucket, 1)
		if err != nil {
			lg.Warn("oracle rate limiter unavailable", slog.Any("error", err))
		}
		if !allowed {
			return domain.EvaluationResult{}, fmt.Errorf("%w: retry after %s", domain.ErrUpstreamRateLimit, retryAfter)
		}
	}
	if g.breakers == nil {
		return g.next.Evaluate(ctx, req)
	}

	var res domain.EvaluationResult
	err := g.breakers.Get(string(req.Type)).Call(func() error {
		var err error
		res, err = g.next.Evaluate(ctx, req)
		return err
	})
	if errors.Is(err, observability.ErrBreakerOpen) {
		return domain.EvaluationResult{}, fmt.Errorf("%w: %v", domain.ErrUpstreamRateLimit, err)
	}
	return res, err
}
