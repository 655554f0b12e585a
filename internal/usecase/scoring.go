// Package usecase contains application business logic services.
package usecase

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/fairyhunter13/applicant-scorer/internal/adapter/observability"
	"github.com/fairyhunter13/applicant-scorer/internal/domain"
	"github.com/fairyhunter13/applicant-scorer/internal/scoring"
)

// UnknownApplicantName is shown in rankings when the applicant record is missing.
const UnknownApplicantName = "Unknown"

// DefaultConcurrency bounds per-application fan-out when none is configured.
const DefaultConcurrency = 8

// ScoringService computes, ranks and explains application scores.
type ScoringService struct {
	Assignments  domain.AssignmentRepository
	Answers      domain.AnswerRepository
	Applications domain.ApplicationRepository
	Applicants   domain.ApplicantRepository
	Publisher    domain.RecalculationPublisher
	Scorer       *scoring.QuestionAnswerScorer
	Concurrency  int
}

// NewScoringService constructs a ScoringService. A nil scorer uses the
// deterministic scorers only.
func NewScoringService(
	assignments domain.AssignmentRepository,
	answers domain.AnswerRepository,
	applications domain.ApplicationRepository,
	applicants domain.ApplicantRepository,
	scorer *scoring.QuestionAnswerScorer,
	concurrency int,
) ScoringService {
	if scorer == nil {
		scorer = scoring.NewQuestionAnswerScorer(nil, nil)
	}
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	return ScoringService{
		Assignments:  assignments,
		Answers:      answers,
		Applications: applications,
		Applicants:   applicants,
		Scorer:       scorer,
		Concurrency:  concurrency,
	}
}

// WithPublisher returns a copy that can hand recalculations to the worker.
func (s ScoringService) WithPublisher(p domain.RecalculationPublisher) ScoringService {
	s.Publisher = p
	return s
}

// Deterministic reports whether repeated scoring of unchanged data returns
// identical results. It is false whenever the external evaluator is wired.
func (s ScoringService) Deterministic() bool { return s.Scorer.Deterministic() }

// ComputeApplicationScore scores app against assignments. No repository is
// touched; the only possible I/O is the optional external evaluator.
func (s ScoringService) ComputeApplicationScore(ctx domain.Context, app domain.Application, assignments []domain.Assignment) float64 {
	return s.Scorer.ScoreApplication(ctx, app, assignments).Percentage
}

// ComputeScore loads an application and its position configuration and
// returns the application's percentage.
func (s ScoringService) ComputeScore(ctx domain.Context, applicationID string) (float64, error) {
	ctx, span := otel.Tracer("usecase.scoring").Start(ctx, "ScoringService.ComputeScore")
	defer span.End()
	span.SetAttributes(attribute.String("application.id", applicationID))

	res, err := s.scoreByID(ctx, applicationID)
	if err != nil {
		return 0, err
	}
	observability.ObserveApplicationScore(res.Percentage)
	return res.Percentage, nil
}

// ScoreBreakdown returns one entry per assigned question of the
// application's position, in assignment order, answered or not.
func (s ScoringService) ScoreBreakdown(ctx domain.Context, applicationID string) ([]domain.ScoreBreakdownEntry, error) {
	ctx, span := otel.Tracer("usecase.scoring").Start(ctx, "ScoringService.ScoreBreakdown")
	defer span.End()
	span.SetAttributes(attribute.String("application.id", applicationID))

	res, err := s.scoreByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	return res.Entries, nil
}

// MaxScoreForPosition sums the per-question maxima of a position. It is read
// fresh on every call.
func (s ScoringService) MaxScoreForPosition(ctx domain.Context, positionID string) (float64, error) {
	if positionID == "" {
		return 0, fmt.Errorf("%w: position id required", domain.ErrInvalidArgument)
	}
	assignments, err := s.Assignments.AssignmentsForPosition(ctx, positionID)
	if err != nil {
		return 0, fmt.Errorf("op=scoring.max_score: %w", err)
	}
	return scoring.MaxForPosition(assignments), nil
}

// RankCandidates scores every application of a position and sorts them by
// percentage descending. Ties are broken by ascending application id.
func (s ScoringService) RankCandidates(ctx domain.Context, positionID string) ([]domain.CandidateRanking, error) {
	ctx, span := otel.Tracer("usecase.scoring").Start(ctx, "ScoringService.RankCandidates")
	defer span.End()
	span.SetAttributes(attribute.String("position.id", positionID))

	if positionID == "" {
		return nil, fmt.Errorf("%w: position id required", domain.ErrInvalidArgument)
	}
	assignments, err := s.Assignments.AssignmentsForPosition(ctx, positionID)
	if err != nil {
		return nil, fmt.Errorf("op=scoring.rank: %w", err)
	}
	apps, err := s.Applications.ApplicationsForPosition(ctx, positionID)
	if err != nil {
		return nil, fmt.Errorf("op=scoring.rank: %w", err)
	}

	// A failed answer load drops only that application; an unreadable
	// applicant degrades to placeholders. Neither aborts the ranking.
	slots := make([]*domain.CandidateRanking, len(apps))
	var g errgroup.Group
	g.SetLimit(s.concurrency())
	for i := range apps {
		i := i
		g.Go(func() error {
			app, err := s.withAnswers(ctx, apps[i])
			if err != nil {
				observability.LoggerFromContext(ctx).Error("skipping application in ranking",
					slog.String("position_id", positionID),
					slog.String("application_id", apps[i].ID),
					slog.Any("error", err))
				return nil
			}
			name, email := s.applicantDisplay(ctx, app.ApplicantID)
			res := s.Scorer.ScoreApplication(ctx, app, assignments)
			slots[i] = &domain.CandidateRanking{
				ApplicationID: app.ID,
				DisplayName:   name,
				DisplayEmail:  email,
				Percentage:    res.Percentage,
				NominalMax:    domain.NominalMaxPercentage,
				AppliedAt:     app.AppliedAt,
				Status:        statusOrDefault(app.Status),
				Breakdown:     res.Entries,
			}
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("op=scoring.rank: %w", err)
	}

	rankings := make([]domain.CandidateRanking, 0, len(apps))
	for _, r := range slots {
		if r != nil {
			rankings = append(rankings, *r)
		}
	}
	SortRankings(rankings)
	return rankings, nil
}

// SortRankings orders by percentage descending, then application id ascending.
func SortRankings(r []domain.CandidateRanking) {
	sort.SliceStable(r, func(i, j int) bool {
		if r[i].Percentage != r[j].Percentage {
			return r[i].Percentage > r[j].Percentage
		}
		return r[i].ApplicationID < r[j].ApplicationID
	})
}

func (s ScoringService) scoreByID(ctx domain.Context, applicationID string) (scoring.ApplicationResult, error) {
	if applicationID == "" {
		return scoring.ApplicationResult{}, fmt.Errorf("%w: application id required", domain.ErrInvalidArgument)
	}
	app, err := s.Applications.Get(ctx, applicationID)
	if err != nil {
		return scoring.ApplicationResult{}, fmt.Errorf("op=scoring.load_application: %w", err)
	}
	app, err = s.withAnswers(ctx, app)
	if err != nil {
		return scoring.ApplicationResult{}, err
	}
	assignments, err := s.Assignments.AssignmentsForPosition(ctx, app.PositionID)
	if err != nil {
		return scoring.ApplicationResult{}, fmt.Errorf("op=scoring.load_assignments: %w", err)
	}
	return s.Scorer.ScoreApplication(ctx, app, assignments), nil
}

func (s ScoringService) withAnswers(ctx domain.Context, app domain.Application) (domain.Application, error) {
	answers, err := s.Answers.AnswersForApplication(ctx, app.ID)
	if err != nil {
		return app, fmt.Errorf("op=scoring.load_answers: %w", err)
	}
	app.Answers = answers
	return app, nil
}

// applicantDisplay resolves name and email, falling back to placeholders
// when the applicant is missing or cannot be read.
func (s ScoringService) applicantDisplay(ctx domain.Context, applicantID string) (string, string) {
	if applicantID == "" || s.Applicants == nil {
		return UnknownApplicantName, ""
	}
	a, err := s.Applicants.Get(ctx, applicantID)
	if err != nil {
		lg := observability.LoggerFromContext(ctx)
		if errors.Is(err, domain.ErrNotFound) {
			lg.Debug("applicant missing, using placeholder", slog.String("applicant_id", applicantID))
		} else {
			lg.Warn("applicant lookup failed, using placeholder", slog.String("applicant_id", applicantID), slog.Any("error", err))
		}
		return UnknownApplicantName, ""
	}
	name := a.Name
	if name == "" {
		name = UnknownApplicantName
	}
	return name, a.Email
}

func statusOrDefault(status string) string {
	if status == "" {
		return domain.DefaultApplicationStatus
	}
	return status
}

func (s ScoringService) concurrency() int {
	if s.Concurrency < 1 {
		return DefaultConcurrency
	}
	return s.Concurrency
}
