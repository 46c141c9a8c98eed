package shared

import (
	"net/http"
	"strings"

	"appraise/internal/transport/http/api"
)

// Validator collects per-field validation issues for a request payload.
type Validator struct {
	issues map[string]string
}

func NewValidator() *Validator {
	return &Validator{issues: map[string]string{}}
}

func (v *Validator) Add(field, message string) {
	if _, exists := v.issues[field]; exists {
		return
	}
	v.issues[field] = message
}

func (v *Validator) Required(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, "is required")
	}
}

func (v *Validator) Enum(field, value string, allowed []string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	for _, candidate := range allowed {
		if value == candidate {
			return
		}
	}
	v.Add(field, "is not a recognised value")
}

func (v *Validator) HasIssues() bool {
	return len(v.issues) > 0
}

func (v *Validator) Issues() map[string]string {
	return v.issues
}

// FailValidation writes the standard 400 envelope carrying field issues.
func FailValidation(w http.ResponseWriter, issues map[string]string, requestID string) {
	api.FailWithDetails(w, http.StatusBadRequest, "validation_failed", "request validation failed", issues, requestID)
}
