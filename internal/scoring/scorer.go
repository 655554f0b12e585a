// Package scoring converts questionnaire answers into points and
// normalizes per-application totals against a position's maximum.
package scoring

import (
	"context"
	"sort"
	"strings"

	"github.com/fairyhunter13/applicant-scorer/internal/domain"
	"github.com/fairyhunter13/applicant-scorer/internal/scoring/text"
)

// TextScorer scores a free-text answer in the context of its question.
type TextScorer interface {
	Score(questionText, answer string) float64
}

// QuestionAnswerScorer dispatches one (assignment, answer) pair to the
// scorer for its question type.
type QuestionAnswerScorer struct {
	text   TextScorer
	oracle *BoundedEvaluator
}

// NewQuestionAnswerScorer wires the scorers. A nil text scorer uses the
// built-in vocabulary; a nil oracle disables external evaluation.
func NewQuestionAnswerScorer(ts TextScorer, oracle *BoundedEvaluator) *QuestionAnswerScorer {
	if ts == nil {
		ts = text.NewScorer(text.DefaultVocabulary())
	}
	return &QuestionAnswerScorer{text: ts, oracle: oracle}
}

// Deterministic reports whether repeated scoring of unchanged input is
// guaranteed to be identical, i.e. no external evaluator is engaged.
func (s *QuestionAnswerScorer) Deterministic() bool { return !s.oracle.Enabled() }

// Score returns the raw points of one answer. Empty answers score 0 for
// every type; unknown types score 0.
func (s *QuestionAnswerScorer) Score(ctx context.Context, a domain.Assignment, answer string) float64 {
	if strings.TrimSpace(answer) == "" {
		return 0
	}
	q := a.Question
	switch q.Type {
	case domain.QuestionChoice:
		// A choice's ceiling is its best effective option, so an accepted
		// evaluator score can never exceed the question maximum.
		if maxPoints := MaxChoicePoints(a); maxPoints > 0 {
			if v, ok := s.tryOracle(ctx, domain.EvaluationRequest{QuestionText: q.Text, Answer: answer, Type: q.Type, Options: EffectiveOptions(a), ContextHint: "choice", MaxPoints: maxPoints}); ok {
				return v
			}
		}
		return ScoreChoice(a, answer)
	case domain.QuestionRating:
		if v, ok := s.tryOracle(ctx, domain.EvaluationRequest{QuestionText: q.Text, Answer: answer, Type: q.Type, ContextHint: "rating_1_5", MaxPoints: NumericMaxPoints}); ok {
			return v
		}
		return ScoreRating(answer)
	case domain.QuestionNumber:
		if v, ok := s.tryOracle(ctx, domain.EvaluationRequest{QuestionText: q.Text, Answer: answer, Type: q.Type, ContextHint: NumberContextHint(q.Text), MaxPoints: NumericMaxPoints}); ok {
			return v
		}
		return ScoreNumber(q.Text, answer)
	case domain.QuestionText:
		return s.text.Score(q.Text, answer)
	default:
		return 0
	}
}

func (s *QuestionAnswerScorer) tryOracle(ctx context.Context, req domain.EvaluationRequest) (float64, bool) {
	if !s.oracle.Enabled() {
		return 0, false
	}
	return s.oracle.TryScore(ctx, req)
}

// ApplicationResult is the scored form of one application.
type ApplicationResult struct {
	Raw        float64
	Max        float64
	Percentage float64
	Entries    []domain.ScoreBreakdownEntry
}

// ScoreApplication scores every assigned question of app in assignment
// order. Unanswered questions score 0 but still count toward Max.
func (s *QuestionAnswerScorer) ScoreApplication(ctx context.Context, app domain.Application, assignments []domain.Assignment) ApplicationResult {
	ordered := SortAssignments(assignments)
	res := ApplicationResult{Entries: make([]domain.ScoreBreakdownEntry, 0, len(ordered))}
	for _, a := range ordered {
		maxScore := MaxForAssignment(a)
		entry := domain.ScoreBreakdownEntry{
			QuestionID:   a.Question.ID,
			QuestionText: a.Question.Text,
			QuestionType: a.Question.Type,
			Order:        a.Order,
			AnswerText:   domain.NotAnsweredText,
			MaxScore:     maxScore,
		}
		if ans, ok := app.AnswerFor(a.Question.ID); ok && strings.TrimSpace(ans.Text) != "" {
			entry.AnswerText = ans.Text
			entry.RawScore = s.Score(ctx, a, ans.Text)
		}
		entry.Percentage = EntryPercentage(entry.RawScore, maxScore)
		res.Raw += entry.RawScore
		res.Max += maxScore
		res.Entries = append(res.Entries, entry)
	}
	res.Percentage = Percentage(res.Raw, res.Max)
	return res
}

// SortAssignments returns a copy of assignments ordered by Order, then question id.
func SortAssignments(assignments []domain.Assignment) []domain.Assignment {
	out := make([]domain.Assignment, len(assignments))
	copy(out, assignments)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].Question.ID < out[j].Question.ID
	})
	return out
}
