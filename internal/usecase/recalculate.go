package usecase

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/fairyhunter13/applicant-scorer/internal/adapter/observability"
	"github.com/fairyhunter13/applicant-scorer/internal/domain"
	"github.com/fairyhunter13/applicant-scorer/internal/scoring"
)

var scopeValidator = validator.New()

// ValidateScope checks a recalculation scope.
func ValidateScope(scope domain.RecalculateScope) error {
	if err := scopeValidator.Struct(scope); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
	}
	return nil
}

// Recalculate rescores every application in scope and writes each new
// percentage back with one update per application. A failing application is
// reported and does not stop its siblings; only failures to enumerate the
// scope are returned as errors.
func (s ScoringService) Recalculate(ctx domain.Context, scope domain.RecalculateScope) (domain.RecalculateReport, error) {
	ctx, span := otel.Tracer("usecase.scoring").Start(ctx, "ScoringService.Recalculate")
	defer span.End()
	span.SetAttributes(attribute.String("scope.kind", string(scope.Kind)), attribute.String("scope.id", scope.ID))

	if err := ValidateScope(scope); err != nil {
		return domain.RecalculateReport{}, err
	}
	start := time.Now()
	lg := observability.LoggerFromContext(ctx)

	targets, err := s.recalculationTargets(ctx, scope)
	if err != nil {
		return domain.RecalculateReport{}, err
	}

	snap := newConfigSnapshot(s.Assignments)
	var (
		mu     sync.Mutex
		report = domain.RecalculateReport{Failed: []domain.RecalculateFailure{}}
	)
	fail := func(id string, err error) {
		lg.Error("recalculation failed", slog.String("application_id", id), slog.Any("error", err))
		mu.Lock()
		report.Failed = append(report.Failed, domain.RecalculateFailure{ApplicationID: id, Error: err.Error()})
		mu.Unlock()
	}

	g := new(errgroup.Group)
	g.SetLimit(s.concurrency())
	for _, t := range targets {
		t := t
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				fail(t.id, err)
				return nil
			}
			if err := s.recalculateOne(ctx, snap, t); err != nil {
				fail(t.id, err)
				return nil
			}
			mu.Lock()
			report.Updated++
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(report.Failed, func(i, j int) bool { return report.Failed[i].ApplicationID < report.Failed[j].ApplicationID })
	observability.ObserveRecalculation(string(scope.Kind), report.Updated, len(report.Failed), time.Since(start))
	lg.Info("recalculation finished",
		slog.String("scope", string(scope.Kind)),
		slog.String("scope_id", scope.ID),
		slog.Int("updated", report.Updated),
		slog.Int("failed", len(report.Failed)),
		slog.Bool("deterministic", s.Deterministic()))
	return report, nil
}

// ScheduleRecalculation validates scope and hands it to the background
// worker, returning the run id.
func (s ScoringService) ScheduleRecalculation(ctx domain.Context, scope domain.RecalculateScope) (string, error) {
	if err := ValidateScope(scope); err != nil {
		return "", err
	}
	if s.Publisher == nil {
		return "", fmt.Errorf("%w: async recalculation is not configured", domain.ErrInternal)
	}
	runID := uuid.NewString()
	if err := s.Publisher.PublishRecalculation(ctx, runID, scope); err != nil {
		return "", fmt.Errorf("op=scoring.schedule_recalculation: %w", err)
	}
	return runID, nil
}

// recalcTarget is one application to rescore. app is preloaded when the
// scope enumeration already returned it.
type recalcTarget struct {
	id  string
	app *domain.Application
}

func (s ScoringService) recalculationTargets(ctx domain.Context, scope domain.RecalculateScope) ([]recalcTarget, error) {
	switch scope.Kind {
	case domain.ScopeApplication:
		app, err := s.Applications.Get(ctx, scope.ID)
		if err != nil {
			return nil, fmt.Errorf("op=scoring.recalculate: %w", err)
		}
		return []recalcTarget{{id: app.ID, app: &app}}, nil
	case domain.ScopePosition:
		apps, err := s.Applications.ApplicationsForPosition(ctx, scope.ID)
		if err != nil {
			return nil, fmt.Errorf("op=scoring.recalculate: %w", err)
		}
		out := make([]recalcTarget, len(apps))
		for i := range apps {
			out[i] = recalcTarget{id: apps[i].ID, app: &apps[i]}
		}
		return out, nil
	default:
		ids, err := s.Applications.ListIDs(ctx)
		if err != nil {
			return nil, fmt.Errorf("op=scoring.recalculate: %w", err)
		}
		out := make([]recalcTarget, len(ids))
		for i, id := range ids {
			out[i] = recalcTarget{id: id}
		}
		return out, nil
	}
}

func (s ScoringService) recalculateOne(ctx domain.Context, snap *configSnapshot, t recalcTarget) error {
	var app domain.Application
	if t.app != nil {
		app = *t.app
	} else {
		loaded, err := s.Applications.Get(ctx, t.id)
		if err != nil {
			return fmt.Errorf("op=scoring.load_application: %w", err)
		}
		app = loaded
	}
	app, err := s.withAnswers(ctx, app)
	if err != nil {
		return err
	}
	assignments, err := snap.forPosition(ctx, app.PositionID)
	if err != nil {
		return err
	}
	pct := s.Scorer.ScoreApplication(ctx, app, assignments).Percentage
	if err := s.Applications.UpdateScore(ctx, app.ID, pct); err != nil {
		return fmt.Errorf("op=scoring.update_score: %w", err)
	}
	observability.ObserveApplicationScore(pct)
	return nil
}

// configSnapshot loads each position's assignments at most once per run so
// every application of a position is scored against the same configuration.
type configSnapshot struct {
	repo  domain.AssignmentRepository
	group singleflight.Group

	mu     sync.Mutex
	loaded map[string][]domain.Assignment
}

func newConfigSnapshot(repo domain.AssignmentRepository) *configSnapshot {
	return &configSnapshot{repo: repo, loaded: make(map[string][]domain.Assignment)}
}

func (c *configSnapshot) forPosition(ctx domain.Context, positionID string) ([]domain.Assignment, error) {
	c.mu.Lock()
	if a, ok := c.loaded[positionID]; ok {
		c.mu.Unlock()
		return a, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do(positionID, func() (any, error) {
		c.mu.Lock()
		if a, ok := c.loaded[positionID]; ok {
			c.mu.Unlock()
			return a, nil
		}
		c.mu.Unlock()
		a, err := c.repo.AssignmentsForPosition(ctx, positionID)
		if err != nil {
			return nil, fmt.Errorf("op=scoring.load_assignments: %w", err)
		}
		a = scoring.SortAssignments(a)
		c.mu.Lock()
		c.loaded[positionID] = a
		c.mu.Unlock()
		return a, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Assignment), nil
}
