package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/yohanes2124/dms-portal/internal/models"
)

// IssueRepository handles persistence for reported issues.
type IssueRepository interface {
	Create(ctx context.Context, issue *models.Issue) error
	FindByID(ctx context.Context, id uint) (models.Issue, error)
	ListByReporter(ctx context.Context, reporterID uint) ([]models.Issue, error)
	List(ctx context.Context, status string, limit, offset int) ([]models.Issue, error)
	Update(ctx context.Context, issue *models.Issue) error
}

type issueRepository struct {
	db *gorm.DB
}

// NewIssueRepository constructs an issue repository backed by GORM.
func NewIssueRepository(db *gorm.DB) IssueRepository {
	return &issueRepository{db: db}
}

func (r *issueRepository) Create(ctx context.Context, issue *models.Issue) error {
	return r.db.WithContext(ctx).Create(issue).Error
}

func (r *issueRepository) FindByID(ctx context.Context, id uint) (models.Issue, error) {
	var issue models.Issue
	if err := r.db.WithContext(ctx).First(&issue, id).Error; err != nil {
		return models.Issue{}, err
	}
	return issue, nil
}

func (r *issueRepository) ListByReporter(ctx context.Context, reporterID uint) ([]models.Issue, error) {
	var issues []models.Issue
	err := r.db.WithContext(ctx).
		Where("reporter_id = ?", reporterID).
		Order("created_at DESC").
		Find(&issues).Error
	if err != nil {
		return nil, err
	}
	return issues, nil
}

func (r *issueRepository) List(ctx context.Context, status string, limit, offset int) ([]models.Issue, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var issues []models.Issue
	query := r.db.WithContext(ctx).Order("created_at DESC").Offset(offset).Limit(limit)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&issues).Error; err != nil {
		return nil, err
	}
	return issues, nil
}

func (r *issueRepository) Update(ctx context.Context, issue *models.Issue) error {
	return r.db.WithContext(ctx).Save(issue).Error
}
