package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/yohanes2124/dms-portal/internal/models"
)

// ApplicationRepository handles persistence for housing applications.
type ApplicationRepository interface {
	Create(ctx context.Context, application *models.Application) error
	FindByID(ctx context.Context, id uint) (models.Application, error)
	ListByStudent(ctx context.Context, studentID uint) ([]models.Application, error)
	List(ctx context.Context, status string, limit, offset int) ([]models.Application, error)
	ListPendingOldestFirst(ctx context.Context) ([]models.Application, error)
	HasOpenApplication(ctx context.Context, studentID uint, academicYear string) (bool, error)
	Update(ctx context.Context, application *models.Application) error
	CountByStatus(ctx context.Context, status string) (int64, error)
}

type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository constructs an application repository backed by GORM.
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(ctx context.Context, application *models.Application) error {
	return r.db.WithContext(ctx).Create(application).Error
}

func (r *applicationRepository) FindByID(ctx context.Context, id uint) (models.Application, error) {
	var application models.Application
	if err := r.db.WithContext(ctx).Preload("Student").First(&application, id).Error; err != nil {
		return models.Application{}, err
	}
	return application, nil
}

func (r *applicationRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.Application, error) {
	var applications []models.Application
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&applications).Error
	if err != nil {
		return nil, err
	}
	return applications, nil
}

func (r *applicationRepository) List(ctx context.Context, status string, limit, offset int) ([]models.Application, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var applications []models.Application
	query := r.db.WithContext(ctx).Preload("Student").Order("created_at DESC").Offset(offset).Limit(limit)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&applications).Error; err != nil {
		return nil, err
	}
	return applications, nil
}

func (r *applicationRepository) ListPendingOldestFirst(ctx context.Context) ([]models.Application, error) {
	var applications []models.Application
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("status IN ?", []string{models.ApplicationPending, models.ApplicationApproved}).
		Order("created_at ASC").
		Find(&applications).Error
	if err != nil {
		return nil, err
	}
	return applications, nil
}

func (r *applicationRepository) HasOpenApplication(ctx context.Context, studentID uint, academicYear string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("student_id = ? AND academic_year = ?", studentID, academicYear).
		Where("status IN ?", []string{models.ApplicationPending, models.ApplicationApproved, models.ApplicationAllocated}).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *applicationRepository) Update(ctx context.Context, application *models.Application) error {
	return r.db.WithContext(ctx).Save(application).Error
}

func (r *applicationRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Application{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
