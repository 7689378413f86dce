package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/yohanes2124/dms-portal/internal/models"
)

// RuleRepository handles persistence for dormitory rules.
type RuleRepository interface {
	Create(ctx context.Context, rule *models.Rule) error
	FindByID(ctx context.Context, id uint) (models.Rule, error)
	ListActive(ctx context.Context, category string) ([]models.Rule, error)
	Update(ctx context.Context, rule *models.Rule) error
	Delete(ctx context.Context, id uint) error
}

type ruleRepository struct {
	db *gorm.DB
}

// NewRuleRepository constructs a rule repository backed by GORM.
func NewRuleRepository(db *gorm.DB) RuleRepository {
	return &ruleRepository{db: db}
}

func (r *ruleRepository) Create(ctx context.Context, rule *models.Rule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

func (r *ruleRepository) FindByID(ctx context.Context, id uint) (models.Rule, error) {
	var rule models.Rule
	if err := r.db.WithContext(ctx).First(&rule, id).Error; err != nil {
		return models.Rule{}, err
	}
	return rule, nil
}

func (r *ruleRepository) ListActive(ctx context.Context, category string) ([]models.Rule, error) {
	var rules []models.Rule
	query := r.db.WithContext(ctx).Where("active = ?", true).Order("category ASC, created_at ASC")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if err := query.Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *ruleRepository) Update(ctx context.Context, rule *models.Rule) error {
	return r.db.WithContext(ctx).Save(rule).Error
}

func (r *ruleRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Rule{}, id).Error
}
