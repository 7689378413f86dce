package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/yohanes2124/dms-portal/internal/dto"
	"github.com/yohanes2124/dms-portal/internal/models"
	"github.com/yohanes2124/dms-portal/internal/repository"
)

// UserService covers account administration: listing accounts by status and
// deciding on pending registrations.
type UserService interface {
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]dto.UserResponse, error)
	Decide(ctx context.Context, id uint, payload dto.AccountDecisionRequest) (dto.UserResponse, error)
}

type userService struct {
	users         repository.UserRepository
	notifications NotificationService
	validator     *validator.Validate
	logger        zerolog.Logger
}

// NewUserService constructs the account administration service.
func NewUserService(users repository.UserRepository, notifications NotificationService, validate *validator.Validate, logger zerolog.Logger) UserService {
	return &userService{
		users:         users,
		notifications: notifications,
		validator:     validate,
		logger:        logger.With().Str("component", "user_service").Logger(),
	}
}

func (s *userService) ListByStatus(ctx context.Context, status string, limit, offset int) ([]dto.UserResponse, error) {
	users, err := s.users.ListByStatus(ctx, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	out := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		out = append(out, dto.NewUserResponse(user))
	}
	return out, nil
}

func (s *userService) Decide(ctx context.Context, id uint, payload dto.AccountDecisionRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return dto.UserResponse{}, fmt.Errorf("lookup user: %w", err)
	}

	if user.Role == models.RoleAdmin {
		return dto.UserResponse{}, fmt.Errorf("admin accounts cannot be moderated: %w", ErrForbidden)
	}
	if user.Status == payload.Status {
		return dto.UserResponse{}, fmt.Errorf("user %d already %s: %w", id, user.Status, ErrConflict)
	}

	user.Status = payload.Status
	if err := s.users.Update(ctx, &user); err != nil {
		return dto.UserResponse{}, fmt.Errorf("update user: %w", err)
	}

	s.logger.Info().Uint("user_id", user.ID).Str("status", user.Status).Msg("account status changed")

	if s.notifications != nil && user.Status == models.StatusActive {
		if _, err := s.notifications.Publish(ctx, dto.NotificationCreateRequest{
			UserID:  user.ID,
			Type:    "account",
			Message: "Your registration has been approved. Welcome to the dormitory portal.",
		}); err != nil {
			s.logger.Warn().Err(err).Uint("user_id", user.ID).Msg("failed to publish approval notification")
		}
	}

	return dto.NewUserResponse(user), nil
}
