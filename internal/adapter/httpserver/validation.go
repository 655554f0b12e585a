package httpserver

import (
	"fmt"
	"regexp"
	"strings"
)

// MaxIDLength bounds path identifiers.
const MaxIDLength = 100

var validID = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationResult represents the result of validation
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

func invalid(field, code, msg string) ValidationResult {
	return ValidationResult{Errors: []ValidationError{{Field: field, Code: code, Message: msg}}}
}

// ValidateID checks an application or position id taken from the URL.
func ValidateID(field, id string) ValidationResult {
	switch {
	case strings.TrimSpace(id) == "":
		return invalid(field, "REQUIRED", field+" is required")
	case len(id) > MaxIDLength:
		return invalid(field, "TOO_LONG", fmt.Sprintf("%s is too long (max %d characters)", field, MaxIDLength))
	case !validID.MatchString(id):
		return invalid(field, "INVALID_FORMAT", field+" contains invalid characters")
	}
	return ValidationResult{Valid: true}
}
