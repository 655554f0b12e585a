// Package httpserver contains HTTP handlers and middleware for the scoring
// API: application scores and breakdowns, position rankings and maximum
// scores, and recalculation.
package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/fairyhunter13/applicant-scorer/internal/domain"
)

// ScoringAPI is the use case surface the handlers depend on.
type ScoringAPI interface {
	ComputeScore(ctx domain.Context, applicationID string) (float64, error)
	ScoreBreakdown(ctx domain.Context, applicationID string) ([]domain.ScoreBreakdownEntry, error)
	MaxScoreForPosition(ctx domain.Context, positionID string) (float64, error)
	RankCandidates(ctx domain.Context, positionID string) ([]domain.CandidateRanking, error)
	Recalculate(ctx domain.Context, scope domain.RecalculateScope) (domain.RecalculateReport, error)
	ScheduleRecalculation(ctx domain.Context, scope domain.RecalculateScope) (string, error)
	Deterministic() bool
}

// Server aggregates handlers dependencies.
type Server struct {
	Scoring    ScoringAPI
	DBCheck    func(ctx context.Context) error
	RedisCheck func(ctx context.Context) error
}

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

// getValidator reports field errors under their JSON names.
func getValidator() *validator.Validate {
	vldOnce.Do(func() {
		vld = validator.New()
		vld.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return vld
}

// NewServer constructs an HTTP server with all handlers and checks wired.
func NewServer(scoring ScoringAPI, dbCheck func(context.Context) error, redisCheck func(context.Context) error) *Server {
	return &Server{Scoring: scoring, DBCheck: dbCheck, RedisCheck: redisCheck}
}

// pathID reads and validates a chi URL parameter, writing a 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request, param, field string) (string, bool) {
	id := chi.URLParam(r, param)
	if res := ValidateID(field, id); !res.Valid {
		writeError(w, r, fmt.Errorf("%w: %s", domain.ErrInvalidArgument, res.Errors[0].Message), res.Errors)
		return "", false
	}
	return id, true
}

// ScoreHandler returns an application's percentage score.
func (s *Server) ScoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id", "application_id")
		if !ok {
			return
		}
		pct, err := s.Scoring.ComputeScore(r.Context(), id)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"application_id": id,
			"percentage":     pct,
			"deterministic":  s.Scoring.Deterministic(),
		})
	}
}

// BreakdownHandler returns one entry per assigned question in order.
func (s *Server) BreakdownHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id", "application_id")
		if !ok {
			return
		}
		entries, err := s.Scoring.ScoreBreakdown(r.Context(), id)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		if entries == nil {
			entries = []domain.ScoreBreakdownEntry{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"application_id": id, "entries": entries})
	}
}

// RankingHandler returns a position's candidates, best first.
func (s *Server) RankingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id", "position_id")
		if !ok {
			return
		}
		candidates, err := s.Scoring.RankCandidates(r.Context(), id)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		if candidates == nil {
			candidates = []domain.CandidateRanking{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"position_id": id, "candidates": candidates})
	}
}

// MaxScoreHandler returns the nominal maximum score of a position.
func (s *Server) MaxScoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id", "position_id")
		if !ok {
			return
		}
		maxScore, err := s.Scoring.MaxScoreForPosition(r.Context(), id)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"position_id": id, "max_score": maxScore})
	}
}

// RecalculateHandler rescores the requested scope. With async=true the run
// is handed to the worker and 202 is returned with its run id.
func (s *Server) RecalculateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, 1<<16)
		var scope domain.RecalculateScope
		if err := json.NewDecoder(r.Body).Decode(&scope); err != nil {
			writeError(w, r, fmt.Errorf("%w: invalid json", domain.ErrInvalidArgument), nil)
			return
		}
		if err := getValidator().Struct(scope); err != nil {
			verrs := map[string]string{}
			if ve, ok := err.(validator.ValidationErrors); ok {
				for _, fe := range ve {
					verrs[fe.Field()] = fe.Tag()
				}
			}
			writeError(w, r, fmt.Errorf("%w: validation failed", domain.ErrInvalidArgument), verrs)
			return
		}
		async := false
		if v := r.URL.Query().Get("async"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				writeError(w, r, fmt.Errorf("%w: async must be a boolean", domain.ErrInvalidArgument), map[string]string{"async": v})
				return
			}
			async = b
		}

		if async {
			runID, err := s.Scoring.ScheduleRecalculation(r.Context(), scope)
			if err != nil {
				writeError(w, r, err, nil)
				return
			}
			writeJSON(w, http.StatusAccepted, map[string]string{"run_id": runID, "status": "queued"})
			return
		}
		report, err := s.Scoring.Recalculate(r.Context(), scope)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		if report.Failed == nil {
			report.Failed = []domain.RecalculateFailure{}
		}
		writeJSON(w, http.StatusOK, report)
	}
}

// ReadyzHandler runs the configured dependency checks.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	type check struct {
		Name    string `json:"name"`
		OK      bool   `json:"ok"`
		Details string `json:"details,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		deps := []struct {
			name string
			fn   func(context.Context) error
		}{
			{"db", s.DBCheck},
			{"redis", s.RedisCheck},
		}
		checks := make([]check, 0, len(deps))
		ok := true
		for _, p := range deps {
			if p.fn == nil {
				continue
			}
			if err := p.fn(ctx); err != nil {
				checks = append(checks, check{Name: p.name, Details: err.Error()})
				ok = false
				continue
			}
			checks = append(checks, check{Name: p.name, OK: true})
		}
		st := http.StatusOK
		if !ok {
			st = http.StatusServiceUnavailable
		}
		writeJSON(w, st, map[string]any{"checks": checks})
	}
}
