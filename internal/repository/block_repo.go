package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/yohanes2124/dms-portal/internal/models"
)

// BlockRepository handles persistence for dormitory blocks.
type BlockRepository interface {
	Create(ctx context.Context, block *models.Block) error
	FindByID(ctx context.Context, id uint) (models.Block, error)
	FindByIDWithRooms(ctx context.Context, id uint) (models.Block, error)
	List(ctx context.Context) ([]models.Block, error)
	Update(ctx context.Context, block *models.Block) error
	Delete(ctx context.Context, id uint) error
}

type blockRepository struct {
	db *gorm.DB
}

// NewBlockRepository constructs a block repository backed by GORM.
func NewBlockRepository(db *gorm.DB) BlockRepository {
	return &blockRepository{db: db}
}

func (r *blockRepository) Create(ctx context.Context, block *models.Block) error {
	return r.db.WithContext(ctx).Create(block).Error
}

func (r *blockRepository) FindByID(ctx context.Context, id uint) (models.Block, error) {
	var block models.Block
	if err := r.db.WithContext(ctx).First(&block, id).Error; err != nil {
		return models.Block{}, err
	}
	return block, nil
}

func (r *blockRepository) FindByIDWithRooms(ctx context.Context, id uint) (models.Block, error) {
	var block models.Block
	if err := r.db.WithContext(ctx).Preload("Rooms").First(&block, id).Error; err != nil {
		return models.Block{}, err
	}
	return block, nil
}

func (r *blockRepository) List(ctx context.Context) ([]models.Block, error) {
	var blocks []models.Block
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&blocks).Error; err != nil {
		return nil, err
	}
	return blocks, nil
}

func (r *blockRepository) Update(ctx context.Context, block *models.Block) error {
	return r.db.WithContext(ctx).Save(block).Error
}

func (r *blockRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Block{}, id).Error
}
