package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yohanes2124/dms-portal/internal/dto"
	"github.com/yohanes2124/dms-portal/internal/middleware"
	"github.com/yohanes2124/dms-portal/internal/models"
	"github.com/yohanes2124/dms-portal/internal/repository"
)

// AuthService owns account authentication and profile management.
type AuthService interface {
	Login(ctx context.Context, payload dto.LoginRequest) (dto.AuthResponse, error)
	Register(ctx context.Context, payload dto.RegisterRequest) (dto.AuthResponse, error)
	CurrentUser(ctx context.Context, userID uint) (dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userID uint, payload dto.ProfileUpdateRequest) (dto.UserResponse, error)
}

type authService struct {
	users     repository.UserRepository
	validator *validator.Validate
	logger    zerolog.Logger
	jwtSecret string
	tokenTTL  time.Duration
}

// NewAuthService constructs the authentication service.
func NewAuthService(users repository.UserRepository, validate *validator.Validate, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) AuthService {
	return &authService{
		users:     users,
		validator: validate,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AuthResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Do not reveal whether the account exists.
			return dto.AuthResponse{}, fmt.Errorf("authenticate %q: %w", email, ErrInvalidCredentials)
		}
		return dto.AuthResponse{}, fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)); err != nil {
		return dto.AuthResponse{}, fmt.Errorf("authenticate %q: %w", email, ErrInvalidCredentials)
	}

	if err := statusError(user.Status); err != nil {
		return dto.AuthResponse{}, err
	}

	token, err := middleware.IssueToken(s.jwtSecret, user.ID, string(user.Role), s.tokenTTL)
	if err != nil {
		return dto.AuthResponse{}, fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info().Uint("user_id", user.ID).Str("role", string(user.Role)).Msg("login successful")

	response := dto.NewUserResponse(user)
	return dto.AuthResponse{User: &response, Token: token}, nil
}

func (s *authService) Register(ctx context.Context, payload dto.RegisterRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AuthResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))

	taken, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return dto.AuthResponse{}, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return dto.AuthResponse{}, fmt.Errorf("register %q: %w", email, ErrEmailTaken)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return dto.AuthResponse{}, fmt.Errorf("hash password: %w", err)
	}

	gender := strings.ToLower(payload.Gender)
	user := models.User{
		Name:         strings.TrimSpace(payload.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleStudent,
		Status:       models.StatusPending,
		StudentID:    &payload.StudentID,
		Department:   &payload.Department,
		Gender:       &gender,
		YearLevel:    &payload.YearLevel,
		Phone:        payload.Phone,
	}

	if err := s.users.Create(ctx, &user); err != nil {
		return dto.AuthResponse{}, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info().Uint("user_id", user.ID).Msg("registration received, awaiting approval")

	// Student registrations need supervisor approval before they can log in,
	// so no token is issued here.
	response := dto.NewUserResponse(user)
	return dto.AuthResponse{User: &response, RequiresApproval: true}, nil
}

func (s *authService) CurrentUser(ctx context.Context, userID uint) (dto.UserResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
		return dto.UserResponse{}, fmt.Errorf("lookup user: %w", err)
	}

	return dto.NewUserResponse(user), nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID uint, payload dto.ProfileUpdateRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
		return dto.UserResponse{}, fmt.Errorf("lookup user: %w", err)
	}

	if payload.Name != nil {
		user.Name = strings.TrimSpace(*payload.Name)
	}
	if payload.Department != nil {
		user.Department = payload.Department
	}
	if payload.YearLevel != nil {
		user.YearLevel = payload.YearLevel
	}
	if payload.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*payload.Password), bcrypt.DefaultCost)
		if err != nil {
			return dto.UserResponse{}, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.users.Update(ctx, &user); err != nil {
		return dto.UserResponse{}, fmt.Errorf("update user: %w", err)
	}

	return dto.NewUserResponse(user), nil
}

func statusError(status string) error {
	switch status {
	case models.StatusActive:
		return nil
	case models.StatusPending:
		return ErrAccountPending
	case models.StatusSuspended:
		return ErrAccountSuspended
	case models.StatusRejected:
		return ErrAccountRejected
	default:
		return fmt.Errorf("unknown account status %q", status)
	}
}
