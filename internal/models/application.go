package models

import (
	"time"

	"gorm.io/datatypes"
)

// Application status values.
const (
	ApplicationPending   = "pending"
	ApplicationApproved  = "approved"
	ApplicationRejected  = "rejected"
	ApplicationAllocated = "allocated"
)

// Application represents a student's request for dormitory housing in a
// given academic year.
type Application struct {
	ID             uint              `gorm:"primaryKey" json:"id"`
	StudentID      uint              `gorm:"index;not null" json:"student_id"`
	AcademicYear   string            `gorm:"size:16;not null" json:"academic_year"`
	Preferences    datatypes.JSONMap `gorm:"type:json" json:"preferences"`
	Status         string            `gorm:"size:32;not null;default:pending" json:"status"`
	AssignedRoomID *uint             `gorm:"index" json:"assigned_room_id,omitempty"`
	DecisionNote   string            `gorm:"type:text" json:"decision_note"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	Student        *User             `json:"student,omitempty"`
	AssignedRoom   *Room             `json:"assigned_room,omitempty"`
}

// RoomChangeRequest represents a student asking to move to a different room.
type RoomChangeRequest struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	StudentID       uint      `gorm:"index;not null" json:"student_id"`
	CurrentRoomID   uint      `gorm:"index;not null" json:"current_room_id"`
	RequestedRoomID uint      `gorm:"index;not null" json:"requested_room_id"`
	Reason          string    `gorm:"type:text;not null" json:"reason"`
	Status          string    `gorm:"size:32;not null;default:pending" json:"status"`
	DecisionNote    string    `gorm:"type:text" json:"decision_note"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
