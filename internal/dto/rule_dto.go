package dto

import (
	"time"

	"github.com/yohanes2124/dms-portal/internal/models"
)

// RuleCreateRequest is the admin payload for publishing a dormitory rule.
type RuleCreateRequest struct {
	Title    string `json:"title" validate:"required,min=3,max=255"`
	Body     string `json:"body" validate:"required,min=1,max=8000"`
	Category string `json:"category" validate:"omitempty,max=64"`
}

// RuleUpdateRequest updates an existing rule.
type RuleUpdateRequest struct {
	Title    *string `json:"title" validate:"omitempty,min=3,max=255"`
	Body     *string `json:"body" validate:"omitempty,min=1,max=8000"`
	Category *string `json:"category" validate:"omitempty,max=64"`
	Active   *bool   `json:"active"`
}

// RuleResponse is the serialized representation of a rule.
type RuleResponse struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Category  string    `json:"category,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// NewRuleResponse converts a rule model into its API shape.
func NewRuleResponse(rule models.Rule) RuleResponse {
	return RuleResponse{
		ID:        rule.ID,
		Title:     rule.Title,
		Body:      rule.Body,
		Category:  rule.Category,
		Active:    rule.Active,
		CreatedAt: rule.CreatedAt,
	}
}

// NewRuleResponseSlice converts a slice of models into DTOs.
func NewRuleResponseSlice(rules []models.Rule) []RuleResponse {
	out := make([]RuleResponse, 0, len(rules))
	for _, rule := range rules {
		out = append(out, NewRuleResponse(rule))
	}
	return out
}
