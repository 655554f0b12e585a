package postgres

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fairyhunter13/applicant-scorer/internal/domain"
)

// AssignmentRepo loads a position's question configuration.
type AssignmentRepo struct{ Pool PgxPool }

// NewAssignmentRepo constructs an AssignmentRepo with the given pool.
func NewAssignmentRepo(p PgxPool) *AssignmentRepo { return &AssignmentRepo{Pool: p} }

// A single statement keeps questions, options and overrides consistent with
// each other even while the configuration is being edited. Default options
// and overrides arrive on separate rows so that an override naming no
// default option is kept; label matching happens in scoring.EffectiveOptions.
const assignmentsQuery = `
SELECT sort_order, qid, qtext, qtype, active, opt_text, opt_points, ov_text, ov_points
FROM (
    SELECT pq.sort_order, q.id AS qid, q.text AS qtext, q.type AS qtype, q.active,
           o.text AS opt_text, o.points AS opt_points,
           NULL::text AS ov_text, NULL::double precision AS ov_points,
           0 AS kind, o.position AS opt_pos
    FROM position_questions pq
    JOIN questions q ON q.id = pq.question_id
    LEFT JOIN question_options o ON o.question_id = q.id
    WHERE pq.position_id = $1
    UNION ALL
    SELECT pq.sort_order, q.id, q.text, q.type, q.active,
           NULL, NULL, ov.option_text, ov.points,
           1, NULL
    FROM position_questions pq
    JOIN questions q ON q.id = pq.question_id
    JOIN option_overrides ov ON ov.position_id = pq.position_id AND ov.question_id = q.id
    WHERE pq.position_id = $1
) cfg
ORDER BY sort_order, qid, kind, opt_pos, ov_text`

// AssignmentsForPosition returns the position's questions in scoring order
// with their default options and the position's overrides attached.
func (r *AssignmentRepo) AssignmentsForPosition(ctx domain.Context, positionID string) ([]domain.Assignment, error) {
	tracer := otel.Tracer("repo.assignments")
	ctx, span := tracer.Start(ctx, "assignments.ForPosition")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "position_questions"),
		attribute.String("position.id", positionID),
	)

	rows, err := r.Pool.Query(ctx, assignmentsQuery, positionID)
	if err != nil {
		return nil, fmt.Errorf("op=assignment.for_position: %w", err)
	}
	defer rows.Close()

	var out []domain.Assignment
	for rows.Next() {
		var (
			order                  int
			qid, qtext, qtype      string
			active                 bool
			optText, overrideText  *string
			optPoints, overridePts *float64
		)
		if err := rows.Scan(&order, &qid, &qtext, &qtype, &active, &optText, &optPoints, &overrideText, &overridePts); err != nil {
			return nil, fmt.Errorf("op=assignment.scan: %w", err)
		}
		if len(out) == 0 || out[len(out)-1].Question.ID != qid {
			out = append(out, domain.Assignment{
				PositionID: positionID,
				Order:      order,
				Question: domain.Question{
					ID:     qid,
					Text:   qtext,
					Type:   domain.ParseQuestionType(qtype),
					Active: active,
				},
			})
		}
		a := &out[len(out)-1]
		if optText != nil {
			pts := 0.0
			if optPoints != nil {
				pts = *optPoints
			}
			a.Question.Options = append(a.Question.Options, domain.Option{Text: *optText, Points: pts})
		}
		if overrideText != nil && overridePts != nil {
			a.Overrides = append(a.Overrides, domain.OptionOverride{OptionText: *overrideText, Points: *overridePts})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=assignment.for_position: %w", err)
	}
	return out, nil
}
