package app

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/fairyhunter13/applicant-scorer/internal/adapter/ai"
	"github.com/fairyhunter13/applicant-scorer/internal/adapter/ai/oracle"
	"github.com/fairyhunter13/applicant-scorer/internal/adapter/observability"
	"github.com/fairyhunter13/applicant-scorer/internal/adapter/repo/postgres"
	"github.com/fairyhunter13/applicant-scorer/internal/config"
	"github.com/fairyhunter13/applicant-scorer/internal/scoring"
	"github.com/fairyhunter13/applicant-scorer/internal/scoring/text"
	"github.com/fairyhunter13/applicant-scorer/internal/service/ratelimiter"
	"github.com/fairyhunter13/applicant-scorer/internal/usecase"
)

// NewOracle builds the deadline-bounded external evaluator behind its rate
// limit and breakers. It returns nil when the oracle is not configured.
// A nil rdb leaves the oracle without a shared rate limit.
func NewOracle(cfg config.Config, rdb redis.Scripter) *scoring.BoundedEvaluator {
	if !cfg.OracleConfigured() {
		return nil
	}
	var limiter ratelimiter.Limiter
	if rdb != nil {
		limiter = ratelimiter.NewRedisLuaLimiter(rdb, map[string]ratelimiter.BucketConfig{
			ai.OracleBucket: ratelimiter.NewBucketConfigFromPerMinute(cfg.OracleRatePerMin),
		})
	}
	breakers := observability.NewBreakerSet("oracle", cfg.OracleBreakerThreshold, cfg.OracleBreakerCooldown)
	guarded := ai.NewGuardedEvaluator(oracle.New(cfg), breakers, limiter)
	return scoring.NewBoundedEvaluator(guarded, cfg.OracleTimeoutBounded())
}

// NewScoringService wires the Postgres repositories, the text vocabulary and
// the optional oracle into the scoring use case.
func NewScoringService(cfg config.Config, pool postgres.PgxPool, rdb redis.Scripter) (usecase.ScoringService, error) {
	vocab, err := text.LoadVocabulary(cfg.VocabularyFile)
	if err != nil {
		return usecase.ScoringService{}, fmt.Errorf("op=app.new_scoring_service: %w", err)
	}
	scorer := scoring.NewQuestionAnswerScorer(text.NewScorer(vocab), NewOracle(cfg, rdb))
	return usecase.NewScoringService(
		postgres.NewAssignmentRepo(pool),
		postgres.NewAnswerRepo(pool),
		postgres.NewApplicationRepo(pool),
		postgres.NewApplicantRepo(pool),
		scorer,
		cfg.ScoringConcurrency,
	), nil
}
