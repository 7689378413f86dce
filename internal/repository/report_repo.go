package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/yohanes2124/dms-portal/internal/models"
)

// BlockOccupancyRow is the raw aggregation row behind the occupancy report.
type BlockOccupancyRow struct {
	BlockID     uint
	BlockName   string
	Gender      string
	Rooms       int
	Capacity    int
	Occupied    int
	Maintenance int
}

// ReportRepository runs the aggregate queries behind occupancy reporting.
type ReportRepository interface {
	BlockOccupancy(ctx context.Context) ([]BlockOccupancyRow, error)
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository constructs a report repository backed by GORM.
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) BlockOccupancy(ctx context.Context) ([]BlockOccupancyRow, error) {
	var rows []BlockOccupancyRow
	err := r.db.WithContext(ctx).Model(&models.Block{}).
		Select(`blocks.id AS block_id,
			blocks.name AS block_name,
			blocks.gender AS gender,
			COUNT(rooms.id) AS rooms,
			COALESCE(SUM(rooms.capacity), 0) AS capacity,
			COALESCE(SUM(rooms.occupied), 0) AS occupied,
			COALESCE(SUM(CASE WHEN rooms.status = ? THEN 1 ELSE 0 END), 0) AS maintenance`, models.RoomMaintenance).
		Joins("LEFT JOIN rooms ON rooms.block_id = blocks.id").
		Group("blocks.id, blocks.name, blocks.gender").
		Order("blocks.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
