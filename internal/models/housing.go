package models

import "time"

// Room status values.
const (
	RoomAvailable   = "available"
	RoomFull        = "full"
	RoomMaintenance = "maintenance"
)

// Block represents a dormitory building restricted to a single gender.
type Block struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:128;uniqueIndex;not null" json:"name"`
	Gender       string    `gorm:"size:16;not null" json:"gender"`
	Description  string    `gorm:"type:text" json:"description"`
	SupervisorID *uint     `gorm:"index" json:"supervisor_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Rooms        []Room    `json:"rooms,omitempty"`
}

// Room represents a single allocatable room within a block.
type Room struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BlockID   uint      `gorm:"index;not null" json:"block_id"`
	Number    string    `gorm:"size:32;not null" json:"number"`
	Capacity  int       `gorm:"not null" json:"capacity"`
	Occupied  int       `gorm:"not null;default:0" json:"occupied"`
	Status    string    `gorm:"size:32;not null;default:available" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Block     *Block    `json:"block,omitempty"`
}

// HasSpace reports whether the room can take another occupant.
func (r Room) HasSpace() bool {
	return r.Status == RoomAvailable && r.Occupied < r.Capacity
}
