package dto

import (
	"time"

	"github.com/yohanes2124/dms-portal/internal/models"
)

// ApplicationCreateRequest is the payload a student submits to apply for housing.
type ApplicationCreateRequest struct {
	AcademicYear string                 `json:"academic_year" validate:"required,max=16"`
	Preferences  map[string]interface{} `json:"preferences" validate:"omitempty"`
}

// ApplicationDecisionRequest carries an admin decision for an application.
type ApplicationDecisionRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
	Note   string `json:"note" validate:"omitempty,max=2000"`
}

// ApplicationResponse is the serialized representation of an application.
type ApplicationResponse struct {
	ID             uint                   `json:"id"`
	StudentID      uint                   `json:"student_id"`
	StudentName    string                 `json:"student_name,omitempty"`
	AcademicYear   string                 `json:"academic_year"`
	Preferences    map[string]interface{} `json:"preferences,omitempty"`
	Status         string                 `json:"status"`
	AssignedRoomID *uint                  `json:"assigned_room_id,omitempty"`
	DecisionNote   string                 `json:"decision_note,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// AllocationResult summarizes one auto-allocation run.
type AllocationResult struct {
	Allocated   int                  `json:"allocated"`
	Unallocated int                  `json:"unallocated"`
	Assignments []AllocationAssigned `json:"assignments"`
	Skipped     []AllocationSkipped  `json:"skipped,omitempty"`
}

// AllocationAssigned records a single application-to-room match.
type AllocationAssigned struct {
	ApplicationID uint `json:"application_id"`
	StudentID     uint `json:"student_id"`
	RoomID        uint `json:"room_id"`
}

// AllocationSkipped records an application that could not be placed.
type AllocationSkipped struct {
	ApplicationID uint   `json:"application_id"`
	Reason        string `json:"reason"`
}

// RoomChangeCreateRequest is the payload a student submits to request a move.
type RoomChangeCreateRequest struct {
	RequestedRoomID uint   `json:"requested_room_id" validate:"required"`
	Reason          string `json:"reason" validate:"required,min=10,max=2000"`
}

// RoomChangeDecisionRequest carries a supervisor/admin decision on a change request.
type RoomChangeDecisionRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
	Note   string `json:"note" validate:"omitempty,max=2000"`
}

// RoomChangeResponse is the serialized representation of a room change request.
type RoomChangeResponse struct {
	ID              uint      `json:"id"`
	StudentID       uint      `json:"student_id"`
	CurrentRoomID   uint      `json:"current_room_id"`
	RequestedRoomID uint      `json:"requested_room_id"`
	Reason          string    `json:"reason"`
	Status          string    `json:"status"`
	DecisionNote    string    `json:"decision_note,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewApplicationResponse converts an application model into its API shape.
func NewApplicationResponse(application models.Application) ApplicationResponse {
	response := ApplicationResponse{
		ID:             application.ID,
		StudentID:      application.StudentID,
		AcademicYear:   application.AcademicYear,
		Preferences:    application.Preferences,
		Status:         application.Status,
		AssignedRoomID: application.AssignedRoomID,
		DecisionNote:   application.DecisionNote,
		CreatedAt:      application.CreatedAt,
		UpdatedAt:      application.UpdatedAt,
	}
	if application.Student != nil {
		response.StudentName = application.Student.Name
	}
	return response
}

// NewApplicationResponseSlice converts a slice of models into DTOs.
func NewApplicationResponseSlice(applications []models.Application) []ApplicationResponse {
	out := make([]ApplicationResponse, 0, len(applications))
	for _, application := range applications {
		out = append(out, NewApplicationResponse(application))
	}
	return out
}

// NewRoomChangeResponse converts a room change model into its API shape.
func NewRoomChangeResponse(request models.RoomChangeRequest) RoomChangeResponse {
	return RoomChangeResponse{
		ID:              request.ID,
		StudentID:       request.StudentID,
		CurrentRoomID:   request.CurrentRoomID,
		RequestedRoomID: request.RequestedRoomID,
		Reason:          request.Reason,
		Status:          request.Status,
		DecisionNote:    request.DecisionNote,
		CreatedAt:       request.CreatedAt,
	}
}

// NewRoomChangeResponseSlice converts a slice of models into DTOs.
func NewRoomChangeResponseSlice(requests []models.RoomChangeRequest) []RoomChangeResponse {
	out := make([]RoomChangeResponse, 0, len(requests))
	for _, request := range requests {
		out = append(out, NewRoomChangeResponse(request))
	}
	return out
}
