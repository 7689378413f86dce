package models

import "time"

// Issue status values.
const (
	IssueOpen       = "open"
	IssueInProgress = "in_progress"
	IssueResolved   = "resolved"
	IssueClosed     = "closed"
)

// Issue priority values.
const (
	IssuePriorityLow    = "low"
	IssuePriorityNormal = "normal"
	IssuePriorityHigh   = "high"
	IssuePriorityUrgent = "urgent"
)

// Issue represents a maintenance or conduct problem reported for a room.
type Issue struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ReporterID  uint      `gorm:"index;not null" json:"reporter_id"`
	RoomID      uint      `gorm:"index;not null" json:"room_id"`
	Category    string    `gorm:"size:64;not null" json:"category"`
	Description string    `gorm:"type:text;not null" json:"description"`
	PhotoURL    string    `gorm:"size:512" json:"photo_url"`
	Priority    string    `gorm:"size:32;not null;default:normal" json:"priority"`
	Status      string    `gorm:"size:32;not null;default:open" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
