package redpanda

import (
	"errors"

	"github.com/fairyhunter13/applicant-scorer/internal/domain"
)

// classifyFailureCode maps a recalculation error to a stable code used in
// logs. The codes match the HTTP error envelope.
func classifyFailureCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrInvalidArgument):
		return "INVALID_ARGUMENT"
	case errors.Is(err, domain.ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, domain.ErrSchemaInvalid):
		return "SCHEMA_INVALID"
	case errors.Is(err, domain.ErrUpstreamRateLimit):
		return "UPSTREAM_RATE_LIMIT"
	case errors.Is(err, domain.ErrUpstreamTimeout):
		return "UPSTREAM_TIMEOUT"
	default:
		return "INTERNAL"
	}
}

// retryable reports whether redelivering the same message could succeed.
func retryable(err error) bool {
	switch classifyFailureCode(err) {
	case "INVALID_ARGUMENT", "NOT_FOUND", "SCHEMA_INVALID":
		return false
	default:
		return true
	}
}
