package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/yohanes2124/dms-portal/internal/dto"
	"github.com/yohanes2124/dms-portal/internal/models"
	"github.com/yohanes2124/dms-portal/internal/repository"
)

// RuleService manages the dormitory rule book.
type RuleService interface {
	Create(ctx context.Context, payload dto.RuleCreateRequest) (dto.RuleResponse, error)
	ListActive(ctx context.Context, category string) ([]dto.RuleResponse, error)
	Update(ctx context.Context, id uint, payload dto.RuleUpdateRequest) (dto.RuleResponse, error)
	Delete(ctx context.Context, id uint) error
}

type ruleService struct {
	rules     repository.RuleRepository
	validator *validator.Validate
	logger    zerolog.Logger
	policy    *bluemonday.Policy
}

// NewRuleService constructs the rule service.
func NewRuleService(rules repository.RuleRepository, validate *validator.Validate, logger zerolog.Logger) RuleService {
	return &ruleService{
		rules:     rules,
		validator: validate,
		logger:    logger.With().Str("component", "rule_service").Logger(),
		policy:    bluemonday.UGCPolicy(),
	}
}

func (s *ruleService) Create(ctx context.Context, payload dto.RuleCreateRequest) (dto.RuleResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.RuleResponse{}, err
	}

	rule := models.Rule{
		Title:    strings.TrimSpace(payload.Title),
		Body:     s.policy.Sanitize(payload.Body),
		Category: strings.ToLower(strings.TrimSpace(payload.Category)),
		Active:   true,
	}

	if err := s.rules.Create(ctx, &rule); err != nil {
		return dto.RuleResponse{}, fmt.Errorf("create rule: %w", err)
	}

	s.logger.Info().Uint("rule_id", rule.ID).Msg("rule published")

	return dto.NewRuleResponse(rule), nil
}

func (s *ruleService) ListActive(ctx context.Context, category string) ([]dto.RuleResponse, error) {
	rules, err := s.rules.ListActive(ctx, strings.ToLower(strings.TrimSpace(category)))
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}
	return dto.NewRuleResponseSlice(rules), nil
}

func (s *ruleService) Update(ctx context.Context, id uint, payload dto.RuleUpdateRequest) (dto.RuleResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.RuleResponse{}, err
	}

	rule, err := s.rules.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.RuleResponse{}, fmt.Errorf("rule %d: %w", id, ErrNotFound)
		}
		return dto.RuleResponse{}, fmt.Errorf("lookup rule: %w", err)
	}

	if payload.Title != nil {
		rule.Title = strings.TrimSpace(*payload.Title)
	}
	if payload.Body != nil {
		rule.Body = s.policy.Sanitize(*payload.Body)
	}
	if payload.Category != nil {
		rule.Category = strings.ToLower(strings.TrimSpace(*payload.Category))
	}
	if payload.Active != nil {
		rule.Active = *payload.Active
	}

	if err := s.rules.Update(ctx, &rule); err != nil {
		return dto.RuleResponse{}, fmt.Errorf("update rule: %w", err)
	}

	return dto.NewRuleResponse(rule), nil
}

func (s *ruleService) Delete(ctx context.Context, id uint) error {
	if _, err := s.rules.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("rule %d: %w", id, ErrNotFound)
		}
		return fmt.Errorf("lookup rule: %w", err)
	}
	return s.rules.Delete(ctx, id)
}
