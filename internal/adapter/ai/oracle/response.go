package oracle

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/fairyhunter13/applicant-scorer/internal/domain"
)

var trailingComma = regexp.MustCompile(`,(\s*[}\]])`)

// verdict is the JSON object the model is asked to reply with. Score is a
// pointer so a missing field is distinguishable from zero.
type verdict struct {
	Score      *float64 `json:"score"`
	Confidence float64  `json:"confidence"`
	Reasoning  string   `json:"reasoning"`
}

// cleanJSON strips markdown fences and surrounding prose and returns the
// first balanced JSON object in content.
func cleanJSON(content string) string {
	s := strings.TrimSpace(content)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	start := strings.Index(s, "{")
	if start < 0 {
		return s
	}
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return trailingComma.ReplaceAllString(s[start:i+1], "$1")
			}
		}
	}
	return s[start:]
}

// parseVerdict turns a chat completion message into an evaluation result.
// A reply without a score is unsuccessful but not an error.
func parseVerdict(content string) (domain.EvaluationResult, error) {
	var v verdict
	if err := json.Unmarshal([]byte(cleanJSON(content)), &v); err != nil {
		return domain.EvaluationResult{}, fmt.Errorf("%w: oracle reply is not JSON: %v", domain.ErrSchemaInvalid, err)
	}
	if v.Score == nil {
		return domain.EvaluationResult{Success: false, Reasoning: v.Reasoning}, nil
	}
	return domain.EvaluationResult{
		Success:    true,
		Score:      *v.Score,
		Confidence: v.Confidence,
		Reasoning:  v.Reasoning,
	}, nil
}
