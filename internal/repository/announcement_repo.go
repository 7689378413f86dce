package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yohanes2124/dms-portal/internal/models"
)

// AnnouncementFilter narrows the active announcement listing.
type AnnouncementFilter struct {
	Page     int
	PageSize int
}

// AnnouncementRepository handles persistence for announcements.
type AnnouncementRepository interface {
	Create(ctx context.Context, announcement *models.Announcement) error
	ListActive(ctx context.Context, filter AnnouncementFilter) ([]models.Announcement, int64, error)
	Delete(ctx context.Context, id uint) error
	UpsertBatch(ctx context.Context, items []models.Announcement) (int64, error)
}

type announcementRepository struct {
	db *gorm.DB
}

// NewAnnouncementRepository constructs an announcement repository backed by GORM.
func NewAnnouncementRepository(db *gorm.DB) AnnouncementRepository {
	return &announcementRepository{db: db}
}

func (r *announcementRepository) Create(ctx context.Context, announcement *models.Announcement) error {
	return r.db.WithContext(ctx).Create(announcement).Error
}

func (r *announcementRepository) ListActive(ctx context.Context, filter AnnouncementFilter) ([]models.Announcement, int64, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	now := time.Now()
	active := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.Announcement{}).
			Where("starts_at <= ?", now).
			Where("ends_at IS NULL OR ends_at > ?", now)
	}

	var total int64
	if err := active().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Announcement
	err := active().
		Order("is_pinned DESC, starts_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *announcementRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Announcement{}, id).Error
}

func (r *announcementRepository) UpsertBatch(ctx context.Context, items []models.Announcement) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&items)

	return result.RowsAffected, result.Error
}
