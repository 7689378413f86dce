package dto

import "time"

// OccupancyReport aggregates room occupancy across all blocks.
type OccupancyReport struct {
	GeneratedAt     time.Time        `json:"generated_at"`
	TotalCapacity   int              `json:"total_capacity"`
	TotalOccupied   int              `json:"total_occupied"`
	OccupancyRate   float64          `json:"occupancy_rate"`
	PendingRequests int64            `json:"pending_requests"`
	Blocks          []BlockOccupancy `json:"blocks"`
	CacheHit        bool             `json:"cache_hit,omitempty"`
}

// BlockOccupancy summarizes a single block within the occupancy report.
type BlockOccupancy struct {
	BlockID       uint    `json:"block_id"`
	BlockName     string  `json:"block_name"`
	Gender        string  `json:"gender"`
	Rooms         int     `json:"rooms"`
	Capacity      int     `json:"capacity"`
	Occupied      int     `json:"occupied"`
	OccupancyRate float64 `json:"occupancy_rate"`
	Maintenance   int     `json:"maintenance_rooms"`
}
