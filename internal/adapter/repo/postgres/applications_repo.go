package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fairyhunter13/applicant-scorer/internal/domain"
)

// ApplicationRepo reads applications and writes their cached score.
type ApplicationRepo struct{ Pool PgxPool }

// NewApplicationRepo constructs an ApplicationRepo with the given pool.
func NewApplicationRepo(p PgxPool) *ApplicationRepo { return &ApplicationRepo{Pool: p} }

const applicationColumns = `id, COALESCE(applicant_id, ''), position_id, score, status, applied_at`

func scanApplication(row pgx.Row) (domain.Application, error) {
	var a domain.Application
	err := row.Scan(&a.ID, &a.ApplicantID, &a.PositionID, &a.Score, &a.Status, &a.AppliedAt)
	return a, err
}

// Get loads an application by id. Answers are not loaded.
func (r *ApplicationRepo) Get(ctx domain.Context, id string) (domain.Application, error) {
	tracer := otel.Tracer("repo.applications")
	ctx, span := tracer.Start(ctx, "applications.Get")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "applications"),
	)

	a, err := scanApplication(r.Pool.QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Application{}, fmt.Errorf("op=application.get: %w", domain.ErrNotFound)
		}
		return domain.Application{}, fmt.Errorf("op=application.get: %w", err)
	}
	return a, nil
}

// ApplicationsForPosition lists a position's applications ordered by id.
func (r *ApplicationRepo) ApplicationsForPosition(ctx domain.Context, positionID string) ([]domain.Application, error) {
	tracer := otel.Tracer("repo.applications")
	ctx, span := tracer.Start(ctx, "applications.ForPosition")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "applications"),
	)

	rows, err := r.Pool.Query(ctx, `SELECT `+applicationColumns+` FROM applications WHERE position_id=$1 ORDER BY id`, positionID)
	if err != nil {
		return nil, fmt.Errorf("op=application.for_position: %w", err)
	}
	defer rows.Close()

	out := []domain.Application{}
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("op=application.scan: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=application.for_position: %w", err)
	}
	return out, nil
}

// ListIDs returns every application id in ascending order.
func (r *ApplicationRepo) ListIDs(ctx domain.Context) ([]string, error) {
	tracer := otel.Tracer("repo.applications")
	ctx, span := tracer.Start(ctx, "applications.ListIDs")
	defer span.End()

	rows, err := r.Pool.Query(ctx, `SELECT id FROM applications ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("op=application.list_ids: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("op=application.scan: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=application.list_ids: %w", err)
	}
	return ids, nil
}

// UpdateScore overwrites the cached score in a single statement.
func (r *ApplicationRepo) UpdateScore(ctx domain.Context, id string, percentage float64) error {
	tracer := otel.Tracer("repo.applications")
	ctx, span := tracer.Start(ctx, "applications.UpdateScore")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "applications"),
	)

	tag, err := r.Pool.Exec(ctx, `UPDATE applications SET score=$2 WHERE id=$1`, id, percentage)
	if err != nil {
		return fmt.Errorf("op=application.update_score: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("op=application.update_score: %w", domain.ErrNotFound)
	}
	return nil
}
