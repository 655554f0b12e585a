package scoring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/fairyhunter13/applicant-scorer/internal/adapter/observability"
	"github.com/fairyhunter13/applicant-scorer/internal/domain"
)

// DefaultOracleTimeout bounds a single external evaluation.
const DefaultOracleTimeout = 1500 * time.Millisecond

// Oracle outcomes, used as metric labels and in debug logs.
const (
	OutcomeAccepted     = "accepted"
	OutcomeTimeout      = "timeout"
	OutcomeError        = "error"
	OutcomeUnsuccessful = "unsuccessful"
	OutcomeOutOfRange   = "out_of_range"
)

// BoundedEvaluator races an external evaluator against a hard deadline.
// The evaluation runs under a context that is cancelled as soon as TryScore
// returns, and its result channel is buffered, so a slow evaluator can never
// block the caller or leave a goroutine parked on a send.
type BoundedEvaluator struct {
	base    domain.Evaluator
	timeout time.Duration
}

// NewBoundedEvaluator returns nil when base is nil, which disables the oracle path.
func NewBoundedEvaluator(base domain.Evaluator, timeout time.Duration) *BoundedEvaluator {
	if base == nil {
		return nil
	}
	if timeout <= 0 {
		timeout = DefaultOracleTimeout
	}
	return &BoundedEvaluator{base: base, timeout: timeout}
}

// Enabled reports whether an evaluator is configured.
func (b *BoundedEvaluator) Enabled() bool { return b != nil && b.base != nil }

type evalOutcome struct {
	res domain.EvaluationResult
	err error
}

// TryScore asks the evaluator for a score in [0, req.MaxPoints]. ok is false
// on timeout, error, an unsuccessful report or an out-of-range score; callers
// then fall back to the deterministic scorer. No result is cached.
func (b *BoundedEvaluator) TryScore(ctx context.Context, req domain.EvaluationRequest) (score float64, ok bool) {
	if !b.Enabled() {
		return 0, false
	}
	if req.MaxPoints <= 0 {
		req.MaxPoints = NumericMaxPoints
	}
	start := time.Now()
	callCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	ch := make(chan evalOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalOutcome{err: fmt.Errorf("evaluator panic: %v", r)}
			}
		}()
		res, err := b.base.Evaluate(callCtx, req)
		ch <- evalOutcome{res: res, err: err}
	}()

	var outcome string
	select {
	case o := <-ch:
		switch {
		case o.err != nil:
			outcome = OutcomeError
			if errors.Is(o.err, context.DeadlineExceeded) {
				outcome = OutcomeTimeout
			}
			slog.Debug("oracle evaluation failed, falling back",
				slog.String("question_type", string(req.Type)),
				slog.Any("error", o.err))
		case !o.res.Success:
			outcome = OutcomeUnsuccessful
		case math.IsNaN(o.res.Score) || o.res.Score < 0 || o.res.Score > req.MaxPoints:
			outcome = OutcomeOutOfRange
			slog.Debug("oracle score out of range, falling back",
				slog.String("question_type", string(req.Type)),
				slog.Float64("score", o.res.Score))
		default:
			outcome = OutcomeAccepted
			score, ok = o.res.Score, true
		}
	case <-callCtx.Done():
		outcome = OutcomeTimeout
		slog.Debug("oracle evaluation timed out, falling back",
			slog.String("question_type", string(req.Type)),
			slog.Duration("timeout", b.timeout))
	}
	observability.ObserveOracleCall(string(req.Type), outcome, time.Since(start))
	return score, ok
}
