package domain

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrRateLimited       = errors.New("rate limited")
	ErrUpstreamTimeout   = errors.New("upstream timeout")
	ErrUpstreamRateLimit = errors.New("upstream rate limit")
	ErrSchemaInvalid     = errors.New("schema invalid")
	ErrInternal          = errors.New("internal error")
)

// QuestionType enumerates the answer formats a question accepts.
type QuestionType string

const (
	QuestionChoice QuestionType = "choice"
	QuestionRating QuestionType = "rating"
	QuestionNumber QuestionType = "number"
	QuestionText   QuestionType = "text"
)

// ParseQuestionType maps a stored type label to a QuestionType. Unknown
// labels are returned as-is so that scorers can treat them as worth zero.
func ParseQuestionType(s string) QuestionType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "choice", "single_choice", "singlechoice":
		return QuestionChoice
	case "rating", "scale":
		return QuestionRating
	case "number", "numeric":
		return QuestionNumber
	case "text", "free_text", "freetext":
		return QuestionText
	default:
		return QuestionType(s)
	}
}

// Option is one selectable answer of a Choice question.
// Invariants: Points >= 0
type Option struct {
	Text   string
	Points float64
}

// Question lives in the shared question bank and is read-only here.
type Question struct {
	ID      string
	Text    string
	Type    QuestionType
	Options []Option
	Active  bool
}

// OptionOverride replaces the points of one default option for a single position.
type OptionOverride struct {
	OptionText string
	Points     float64
}

// Assignment binds a question to a position.
// Invariants: Order is unique per position; Overrides only apply to Choice questions.
type Assignment struct {
	PositionID string
	Question   Question
	Order      int
	Overrides  []OptionOverride
}

// Answer is the raw text an applicant submitted for one question.
type Answer struct {
	ApplicationID string
	QuestionID    string
	Text          string
}

// DefaultApplicationStatus is reported when an application carries no status label.
const DefaultApplicationStatus = "Pending"

// Application is one applicant's submission for a position.
// Score is the cached aggregate percentage; it is written by recalculation and
// never read back as an authority.
type Application struct {
	ID          string
	ApplicantID string
	PositionID  string
	Answers     []Answer
	Score       *float64
	Status      string
	AppliedAt   time.Time
}

// AnswerFor returns the answer submitted for questionID, if any.
func (a Application) AnswerFor(questionID string) (Answer, bool) {
	for _, ans := range a.Answers {
		if ans.QuestionID == questionID {
			return ans, true
		}
	}
	return Answer{}, false
}

// Applicant holds display data used by rankings.
type Applicant struct {
	ID    string
	Name  string
	Email string
}

// NotAnsweredText is placed in breakdown entries for unanswered questions.
const NotAnsweredText = "Not answered"

// ScoreBreakdownEntry is the per-question audit record of one application's score.
type ScoreBreakdownEntry struct {
	QuestionID   string       `json:"question_id"`
	QuestionText string       `json:"question_text"`
	QuestionType QuestionType `json:"question_type"`
	Order        int          `json:"order"`
	AnswerText   string       `json:"answer_text"`
	RawScore     float64      `json:"raw_score"`
	MaxScore     float64      `json:"max_score"`
	Percentage   float64      `json:"percentage"`
}

// NominalMaxPercentage is the fixed upper bound of an application percentage.
const NominalMaxPercentage = 100.0

// CandidateRanking is one row of a position ranking.
type CandidateRanking struct {
	ApplicationID string                `json:"application_id"`
	DisplayName   string                `json:"display_name"`
	DisplayEmail  string                `json:"display_email"`
	Percentage    float64               `json:"percentage"`
	NominalMax    float64               `json:"nominal_max"`
	AppliedAt     time.Time             `json:"applied_at"`
	Status        string                `json:"status"`
	Breakdown     []ScoreBreakdownEntry `json:"breakdown"`
}

// RecalculateScopeKind selects which applications a recalculation touches.
type RecalculateScopeKind string

const (
	ScopePosition    RecalculateScopeKind = "position"
	ScopeApplication RecalculateScopeKind = "application"
	ScopeAll         RecalculateScopeKind = "all"
)

// RecalculateScope names the applications to rescore. ID is ignored for ScopeAll.
type RecalculateScope struct {
	Kind RecalculateScopeKind `json:"scope" validate:"required,oneof=position application all"`
	ID   string               `json:"id" validate:"required_unless=Kind all"`
}

// RecalculateFailure reports one application that could not be rescored.
type RecalculateFailure struct {
	ApplicationID string `json:"application_id"`
	Error         string `json:"error"`
}

// RecalculateReport summarizes a recalculation run.
type RecalculateReport struct {
	Updated int                  `json:"updated"`
	Failed  []RecalculateFailure `json:"failed"`
}

// Repositories (ports)

//go:generate mockery --name=AssignmentRepository --filename=assignment_repository_mock.go
//go:generate mockery --name=AnswerRepository --filename=answer_repository_mock.go
//go:generate mockery --name=ApplicationRepository --filename=application_repository_mock.go
//go:generate mockery --name=ApplicantRepository --filename=applicant_repository_mock.go
//go:generate mockery --name=Evaluator --filename=evaluator_mock.go
//go:generate mockery --name=RecalculationPublisher --filename=recalculation_publisher_mock.go

// AssignmentRepository returns a position's questions in scoring order,
// with option overrides resolved for that position.
type AssignmentRepository interface {
	AssignmentsForPosition(ctx Context, positionID string) ([]Assignment, error)
}

type AnswerRepository interface {
	AnswersForApplication(ctx Context, applicationID string) ([]Answer, error)
}

type ApplicationRepository interface {
	Get(ctx Context, id string) (Application, error)
	ApplicationsForPosition(ctx Context, positionID string) ([]Application, error)
	ListIDs(ctx Context) ([]string, error)
	// UpdateScore atomically overwrites the cached aggregate score.
	UpdateScore(ctx Context, id string, percentage float64) error
}

type ApplicantRepository interface {
	Get(ctx Context, id string) (Applicant, error)
}

// Evaluator (port)

// EvaluationRequest is sent to an external scoring oracle for one
// Choice/Rating/Number answer.
type EvaluationRequest struct {
	QuestionText string
	Answer       string
	Type         QuestionType
	Options      []Option
	// ContextHint tags numeric questions, e.g. "years_experience" or "numeric".
	ContextHint string
	MaxPoints   float64
}

// EvaluationResult is what the oracle reports back.
type EvaluationResult struct {
	Success    bool
	Score      float64
	Confidence float64
	Reasoning  string
}

// Evaluator is an optional, possibly slow, external scorer.
type Evaluator interface {
	Evaluate(ctx Context, req EvaluationRequest) (EvaluationResult, error)
}

// RecalculationPublisher hands a recalculation off to the background worker.
type RecalculationPublisher interface {
	PublishRecalculation(ctx Context, runID string, scope RecalculateScope) error
}

// Context is an alias so ports do not spell out the std import everywhere.
type Context = context.Context
