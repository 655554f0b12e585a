package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"

	"github.com/fairyhunter13/applicant-scorer/internal/domain"
)

// ApplicantRepo loads applicant display data.
type ApplicantRepo struct{ Pool PgxPool }

// NewApplicantRepo constructs an ApplicantRepo with the given pool.
func NewApplicantRepo(p PgxPool) *ApplicantRepo { return &ApplicantRepo{Pool: p} }

// Get loads an applicant by id.
func (r *ApplicantRepo) Get(ctx domain.Context, id string) (domain.Applicant, error) {
	tracer := otel.Tracer("repo.applicants")
	ctx, span := tracer.Start(ctx, "applicants.Get")
	defer span.End()

	var a domain.Applicant
	err := r.Pool.QueryRow(ctx, `SELECT id, name, email FROM applicants WHERE id=$1`, id).Scan(&a.ID, &a.Name, &a.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Applicant{}, fmt.Errorf("op=applicant.get: %w", domain.ErrNotFound)
		}
		return domain.Applicant{}, fmt.Errorf("op=applicant.get: %w", err)
	}
	return a, nil
}
