package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/applicant-scorer/internal/adapter/repo/postgres"
	"github.com/fairyhunter13/applicant-scorer/internal/domain"
)

func TestAssignmentRepo_GroupsRowsByQuestion(t *testing.T) {
	t.Parallel()
	pool := &poolStub{rows: &rowsStub{data: [][]any{
		{1, "q-arr", "Preferred work arrangement?", "single_choice", true, strp("Remote"), f64p(5), nil, nil},
		{1, "q-arr", "Preferred work arrangement?", "single_choice", true, strp("Office"), f64p(3), nil, nil},
		{1, "q-arr", "Preferred work arrangement?", "single_choice", true, strp("Hybrid"), f64p(4), nil, nil},
		{1, "q-arr", "Preferred work arrangement?", "single_choice", true, nil, nil, strp("Four-day week"), f64p(6)},
		{1, "q-arr", "Preferred work arrangement?", "single_choice", true, nil, nil, strp("office"), f64p(1)},
		{2, "q-exp", "Years of experience?", "number", true, nil, nil, nil, nil},
		{3, "q-why", "Why us?", "text", false, nil, nil, nil, nil},
	}}}
	repo := postgres.NewAssignmentRepo(pool)

	got, err := repo.AssignmentsForPosition(context.Background(), "pos-1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []any{"pos-1"}, pool.lastArgs)
	assert.True(t, pool.rows.closed)

	arr := got[0]
	assert.Equal(t, "pos-1", arr.PositionID)
	assert.Equal(t, 1, arr.Order)
	assert.Equal(t, domain.QuestionChoice, arr.Question.Type)
	assert.Equal(t, []domain.Option{{Text: "Remote", Points: 5}, {Text: "Office", Points: 3}, {Text: "Hybrid", Points: 4}}, arr.Question.Options)
	assert.Equal(t, []domain.OptionOverride{{OptionText: "Four-day week", Points: 6}, {OptionText: "office", Points: 1}}, arr.Overrides)
	assert.Contains(t, pool.lastSQL, "UNION ALL")

	assert.Equal(t, domain.QuestionNumber, got[1].Question.Type)
	assert.Empty(t, got[1].Question.Options)
	assert.False(t, got[2].Question.Active)
}

func TestAssignmentRepo_Errors(t *testing.T) {
	t.Parallel()
	_, err := postgres.NewAssignmentRepo(&poolStub{queryErr: errors.New("boom")}).AssignmentsForPosition(context.Background(), "p")
	assert.ErrorContains(t, err, "op=assignment.for_position")

	_, err = postgres.NewAssignmentRepo(&poolStub{rows: &rowsStub{err: errors.New("conn reset")}}).AssignmentsForPosition(context.Background(), "p")
	assert.ErrorContains(t, err, "conn reset")
}

func TestAnswerRepo_AnswersForApplication(t *testing.T) {
	t.Parallel()
	pool := &poolStub{rows: &rowsStub{data: [][]any{
		{"app-1", "q1", "Remote"},
		{"app-1", "q2", "5"},
	}}}
	got, err := postgres.NewAnswerRepo(pool).AnswersForApplication(context.Background(), "app-1")
	require.NoError(t, err)
	assert.Equal(t, []domain.Answer{
		{ApplicationID: "app-1", QuestionID: "q1", Text: "Remote"},
		{ApplicationID: "app-1", QuestionID: "q2", Text: "5"},
	}, got)

	empty, err := postgres.NewAnswerRepo(&poolStub{}).AnswersForApplication(context.Background(), "app-2")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestApplicationRepo_Get(t *testing.T) {
	t.Parallel()
	applied := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	pool := &poolStub{row: rowValues("app-1", "p-1", "pos-1", f64p(72.5), "Interview", applied)}
	got, err := postgres.NewApplicationRepo(pool).Get(context.Background(), "app-1")
	require.NoError(t, err)
	assert.Equal(t, "p-1", got.ApplicantID)
	require.NotNil(t, got.Score)
	assert.Equal(t, 72.5, *got.Score)
	assert.Equal(t, applied, got.AppliedAt)

	missing := &poolStub{row: rowStub{scan: func(...any) error { return pgx.ErrNoRows }}}
	_, err = postgres.NewApplicationRepo(missing).Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApplicationRepo_ForPositionAndListIDs(t *testing.T) {
	t.Parallel()
	applied := time.Now().UTC()
	pool := &poolStub{rows: &rowsStub{data: [][]any{
		{"app-1", "", "pos-1", nil, "", applied},
		{"app-2", "p-2", "pos-1", f64p(10), "Hired", applied},
	}}}
	apps, err := postgres.NewApplicationRepo(pool).ApplicationsForPosition(context.Background(), "pos-1")
	require.NoError(t, err)
	require.Len(t, apps, 2)
	assert.Nil(t, apps[0].Score)
	assert.Equal(t, "", apps[0].ApplicantID)
	assert.Equal(t, "Hired", apps[1].Status)

	ids, err := postgres.NewApplicationRepo(&poolStub{rows: &rowsStub{data: [][]any{{"a"}, {"b"}}}}).ListIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)
}

func TestApplicationRepo_UpdateScore(t *testing.T) {
	t.Parallel()
	pool := &poolStub{execTag: pgconn.NewCommandTag("UPDATE 1")}
	require.NoError(t, postgres.NewApplicationRepo(pool).UpdateScore(context.Background(), "app-1", 95))
	assert.Equal(t, []any{"app-1", 95.0}, pool.lastArgs)
	assert.Contains(t, pool.lastSQL, "UPDATE applications SET score")

	none := &poolStub{execTag: pgconn.NewCommandTag("UPDATE 0")}
	assert.ErrorIs(t, postgres.NewApplicationRepo(none).UpdateScore(context.Background(), "gone", 1), domain.ErrNotFound)

	failing := &poolStub{execErr: errors.New("deadlock")}
	assert.ErrorContains(t, postgres.NewApplicationRepo(failing).UpdateScore(context.Background(), "app-1", 1), "op=application.update_score")
}

func TestApplicantRepo_Get(t *testing.T) {
	t.Parallel()
	got, err := postgres.NewApplicantRepo(&poolStub{row: rowValues("p-1", "Ada", "ada@example.com")}).Get(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Equal(t, domain.Applicant{ID: "p-1", Name: "Ada", Email: "ada@example.com"}, got)

	missing := &poolStub{row: rowStub{scan: func(...any) error { return pgx.ErrNoRows }}}
	_, err = postgres.NewApplicantRepo(missing).Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	broken := &poolStub{row: rowStub{scan: func(...any) error { return errors.New("timeout") }}}
	_, err = postgres.NewApplicantRepo(broken).Get(context.Background(), "p-1")
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}
