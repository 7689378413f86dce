package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/yohanes2124/dms-portal/internal/models"
)

// RoomChangeRepository handles persistence for room change requests.
type RoomChangeRepository interface {
	Create(ctx context.Context, request *models.RoomChangeRequest) error
	FindByID(ctx context.Context, id uint) (models.RoomChangeRequest, error)
	ListByStudent(ctx context.Context, studentID uint) ([]models.RoomChangeRequest, error)
	List(ctx context.Context, status string, limit, offset int) ([]models.RoomChangeRequest, error)
	Update(ctx context.Context, request *models.RoomChangeRequest) error
}

type roomChangeRepository struct {
	db *gorm.DB
}

// NewRoomChangeRepository constructs a room change repository backed by GORM.
func NewRoomChangeRepository(db *gorm.DB) RoomChangeRepository {
	return &roomChangeRepository{db: db}
}

func (r *roomChangeRepository) Create(ctx context.Context, request *models.RoomChangeRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *roomChangeRepository) FindByID(ctx context.Context, id uint) (models.RoomChangeRequest, error) {
	var request models.RoomChangeRequest
	if err := r.db.WithContext(ctx).First(&request, id).Error; err != nil {
		return models.RoomChangeRequest{}, err
	}
	return request, nil
}

func (r *roomChangeRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.RoomChangeRequest, error) {
	var requests []models.RoomChangeRequest
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *roomChangeRepository) List(ctx context.Context, status string, limit, offset int) ([]models.RoomChangeRequest, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var requests []models.RoomChangeRequest
	query := r.db.WithContext(ctx).Order("created_at DESC").Offset(offset).Limit(limit)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *roomChangeRepository) Update(ctx context.Context, request *models.RoomChangeRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}
