package redpanda

import (
	"encoding/json"
	"fmt"

	"github.com/fairyhunter13/applicant-scorer/internal/domain"
)

// TopicConfigChanges carries position configuration changes and async
// recalculation requests.
const TopicConfigChanges = "position-config-changed"

// RecalculationMessage is the JSON payload on TopicConfigChanges.
type RecalculationMessage struct {
	RunID string `json:"run_id"`
	Scope string `json:"scope"`
	ID    string `json:"id,omitempty"`
}

// ScopeOf converts the message into a recalculation scope.
func (m RecalculationMessage) ScopeOf() domain.RecalculateScope {
	return domain.RecalculateScope{Kind: domain.RecalculateScopeKind(m.Scope), ID: m.ID}
}

func decodeMessage(b []byte) (RecalculationMessage, error) {
	var m RecalculationMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return RecalculationMessage{}, fmt.Errorf("%w: %v", domain.ErrSchemaInvalid, err)
	}
	return m, nil
}
