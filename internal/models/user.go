package models

import "time"

// Role identifies the access level of a portal account.
type Role string

// Roles understood by the portal.
const (
	RoleStudent    Role = "student"
	RoleSupervisor Role = "supervisor"
	RoleAdmin      Role = "admin"
)

// Account status values.
const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusSuspended = "suspended"
	StatusRejected  = "rejected"
)

// User represents a portal account. Student and supervisor specific fields
// are nullable and only populated for the matching role.
type User struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"size:255;not null" json:"name"`
	Email           string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash    string    `gorm:"size:255;not null" json:"-"`
	Role            Role      `gorm:"size:32;not null;default:student" json:"user_type"`
	Status          string    `gorm:"size:32;not null;default:pending" json:"status"`
	StudentID       *string   `gorm:"size:64;index" json:"student_id,omitempty"`
	Department      *string   `gorm:"size:128" json:"department,omitempty"`
	Gender          *string   `gorm:"size:16" json:"gender,omitempty"`
	YearLevel       *int      `json:"year_level,omitempty"`
	Phone           *string   `gorm:"size:32" json:"phone,omitempty"`
	AssignedBlockID *uint     `gorm:"index" json:"assigned_block,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// IsActive reports whether the account may authenticate.
func (u User) IsActive() bool {
	return u.Status == StatusActive
}
