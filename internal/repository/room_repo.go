package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/yohanes2124/dms-portal/internal/models"
)

// RoomRepository handles persistence for rooms.
type RoomRepository interface {
	Create(ctx context.Context, room *models.Room) error
	FindByID(ctx context.Context, id uint) (models.Room, error)
	List(ctx context.Context, blockID uint) ([]models.Room, error)
	ListAvailableByGender(ctx context.Context, gender string) ([]models.Room, error)
	Update(ctx context.Context, room *models.Room) error
	Delete(ctx context.Context, id uint) error
}

type roomRepository struct {
	db *gorm.DB
}

// NewRoomRepository constructs a room repository backed by GORM.
func NewRoomRepository(db *gorm.DB) RoomRepository {
	return &roomRepository{db: db}
}

func (r *roomRepository) Create(ctx context.Context, room *models.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *roomRepository) FindByID(ctx context.Context, id uint) (models.Room, error) {
	var room models.Room
	if err := r.db.WithContext(ctx).Preload("Block").First(&room, id).Error; err != nil {
		return models.Room{}, err
	}
	return room, nil
}

func (r *roomRepository) List(ctx context.Context, blockID uint) ([]models.Room, error) {
	var rooms []models.Room
	query := r.db.WithContext(ctx).Preload("Block").Order("block_id ASC, number ASC")
	if blockID != 0 {
		query = query.Where("block_id = ?", blockID)
	}
	if err := query.Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *roomRepository) ListAvailableByGender(ctx context.Context, gender string) ([]models.Room, error) {
	var rooms []models.Room
	err := r.db.WithContext(ctx).
		Joins("JOIN blocks ON blocks.id = rooms.block_id").
		Where("blocks.gender = ?", gender).
		Where("rooms.status = ?", models.RoomAvailable).
		Where("rooms.occupied < rooms.capacity").
		Order("rooms.block_id ASC, rooms.number ASC").
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *roomRepository) Update(ctx context.Context, room *models.Room) error {
	return r.db.WithContext(ctx).Save(room).Error
}

func (r *roomRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Room{}, id).Error
}
