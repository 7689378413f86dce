package models

import "time"

// Notification represents a message targeted to a specific user.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Type      string    `gorm:"size:64" json:"type"`
	Message   string    `gorm:"type:text" json:"message"`
	Read      bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Announcement represents a dormitory-wide banner message shown to all
// residents while its window is active.
type Announcement struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Title     string     `gorm:"size:255;not null" json:"title"`
	Body      string     `gorm:"type:text;not null" json:"body"`
	Severity  string     `gorm:"size:32;not null;default:info" json:"severity"`
	IsPinned  bool       `gorm:"not null;default:false" json:"is_pinned"`
	StartsAt  time.Time  `gorm:"index" json:"starts_at"`
	EndsAt    *time.Time `gorm:"index" json:"ends_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
