package postgres

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fairyhunter13/applicant-scorer/internal/domain"
)

// AnswerRepo loads submitted answers.
type AnswerRepo struct{ Pool PgxPool }

// NewAnswerRepo constructs an AnswerRepo with the given pool.
func NewAnswerRepo(p PgxPool) *AnswerRepo { return &AnswerRepo{Pool: p} }

// AnswersForApplication returns every answer of an application. An
// application without answers yields an empty slice.
func (r *AnswerRepo) AnswersForApplication(ctx domain.Context, applicationID string) ([]domain.Answer, error) {
	tracer := otel.Tracer("repo.answers")
	ctx, span := tracer.Start(ctx, "answers.ForApplication")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "answers"),
	)

	q := `SELECT application_id, question_id, answer_text FROM answers WHERE application_id=$1 ORDER BY question_id`
	rows, err := r.Pool.Query(ctx, q, applicationID)
	if err != nil {
		return nil, fmt.Errorf("op=answer.for_application: %w", err)
	}
	defer rows.Close()

	out := []domain.Answer{}
	for rows.Next() {
		var a domain.Answer
		if err := rows.Scan(&a.ApplicationID, &a.QuestionID, &a.Text); err != nil {
			return nil, fmt.Errorf("op=answer.scan: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=answer.for_application: %w", err)
	}
	return out, nil
}
