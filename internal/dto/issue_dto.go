package dto

import (
	"time"

	"github.com/yohanes2124/dms-portal/internal/models"
)

// IssueCreateRequest is the multipart form payload for reporting an issue.
// The optional photo file is handled separately by the handler.
type IssueCreateRequest struct {
	RoomID      uint   `form:"room_id" validate:"required"`
	Category    string `form:"category" validate:"required,oneof=plumbing electrical furniture cleanliness security other"`
	Description string `form:"description" validate:"required,min=10,max=4000"`
	Priority    string `form:"priority" validate:"omitempty,oneof=low normal high urgent"`
}

// IssueStatusUpdateRequest moves an issue along its lifecycle.
type IssueStatusUpdateRequest struct {
	Status string `json:"status" validate:"required,oneof=open in_progress resolved closed"`
}

// IssueResponse is the serialized representation of a reported issue.
type IssueResponse struct {
	ID          uint      `json:"id"`
	ReporterID  uint      `json:"reporter_id"`
	RoomID      uint      `json:"room_id"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	PhotoURL    string    `json:"photo_url,omitempty"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewIssueResponse converts an issue model into its API shape.
func NewIssueResponse(issue models.Issue) IssueResponse {
	return IssueResponse{
		ID:          issue.ID,
		ReporterID:  issue.ReporterID,
		RoomID:      issue.RoomID,
		Category:    issue.Category,
		Description: issue.Description,
		PhotoURL:    issue.PhotoURL,
		Priority:    issue.Priority,
		Status:      issue.Status,
		CreatedAt:   issue.CreatedAt,
		UpdatedAt:   issue.UpdatedAt,
	}
}

// NewIssueResponseSlice converts a slice of models into DTOs.
func NewIssueResponseSlice(issues []models.Issue) []IssueResponse {
	out := make([]IssueResponse, 0, len(issues))
	for _, issue := range issues {
		out = append(out, NewIssueResponse(issue))
	}
	return out
}
