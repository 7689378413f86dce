package dto

import (
	"time"

	"github.com/yohanes2124/dms-portal/internal/models"
)

// BlockCreateRequest is the payload for creating a dormitory block.
type BlockCreateRequest struct {
	Name         string `json:"name" validate:"required,min=1,max=128"`
	Gender       string `json:"gender" validate:"required,oneof=male female"`
	Description  string `json:"description" validate:"omitempty,max=2000"`
	SupervisorID *uint  `json:"supervisor_id"`
}

// BlockUpdateRequest is the payload for updating a block.
type BlockUpdateRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=128"`
	Description  *string `json:"description" validate:"omitempty,max=2000"`
	SupervisorID *uint   `json:"supervisor_id"`
}

// BlockResponse is the serialized representation of a block.
type BlockResponse struct {
	ID           uint           `json:"id"`
	Name         string         `json:"name"`
	Gender       string         `json:"gender"`
	Description  string         `json:"description"`
	SupervisorID *uint          `json:"supervisor_id,omitempty"`
	Rooms        []RoomResponse `json:"rooms,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// RoomCreateRequest is the payload for creating a room.
type RoomCreateRequest struct {
	BlockID  uint   `json:"block_id" validate:"required"`
	Number   string `json:"number" validate:"required,max=32"`
	Capacity int    `json:"capacity" validate:"required,min=1,max=12"`
}

// RoomUpdateRequest is the payload for updating a room.
type RoomUpdateRequest struct {
	Capacity *int    `json:"capacity" validate:"omitempty,min=1,max=12"`
	Status   *string `json:"status" validate:"omitempty,oneof=available full maintenance"`
}

// RoomResponse is the serialized representation of a room.
type RoomResponse struct {
	ID        uint      `json:"id"`
	BlockID   uint      `json:"block_id"`
	BlockName string    `json:"block_name,omitempty"`
	Number    string    `json:"number"`
	Capacity  int       `json:"capacity"`
	Occupied  int       `json:"occupied"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// NewBlockResponse converts a block model into its API shape.
func NewBlockResponse(block models.Block) BlockResponse {
	response := BlockResponse{
		ID:           block.ID,
		Name:         block.Name,
		Gender:       block.Gender,
		Description:  block.Description,
		SupervisorID: block.SupervisorID,
		CreatedAt:    block.CreatedAt,
	}
	for _, room := range block.Rooms {
		response.Rooms = append(response.Rooms, NewRoomResponse(room))
	}
	return response
}

// NewBlockResponseSlice converts a slice of block models into DTOs.
func NewBlockResponseSlice(blocks []models.Block) []BlockResponse {
	out := make([]BlockResponse, 0, len(blocks))
	for _, block := range blocks {
		out = append(out, NewBlockResponse(block))
	}
	return out
}

// NewRoomResponse converts a room model into its API shape.
func NewRoomResponse(room models.Room) RoomResponse {
	response := RoomResponse{
		ID:        room.ID,
		BlockID:   room.BlockID,
		Number:    room.Number,
		Capacity:  room.Capacity,
		Occupied:  room.Occupied,
		Status:    room.Status,
		CreatedAt: room.CreatedAt,
	}
	if room.Block != nil {
		response.BlockName = room.Block.Name
	}
	return response
}

// NewRoomResponseSlice converts a slice of room models into DTOs.
func NewRoomResponseSlice(rooms []models.Room) []RoomResponse {
	out := make([]RoomResponse, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, NewRoomResponse(room))
	}
	return out
}
