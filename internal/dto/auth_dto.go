package dto

import (
	"time"

	"github.com/yohanes2124/dms-portal/internal/models"
)

// LoginRequest carries the credentials exchanged for a bearer token.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// RegisterRequest carries a new account registration payload.
type RegisterRequest struct {
	Name       string  `json:"name" validate:"required,min=2,max=255"`
	Email      string  `json:"email" validate:"required,email"`
	Password   string  `json:"password" validate:"required,min=8,max=128"`
	StudentID  string  `json:"student_id" validate:"required,max=64"`
	Department string  `json:"department" validate:"required,max=128"`
	Gender     string  `json:"gender" validate:"required,oneof=male female"`
	YearLevel  int     `json:"year_level" validate:"required,min=1,max=7"`
	Phone      *string `json:"phone" validate:"omitempty,max=32"`
}

// ProfileUpdateRequest updates mutable fields of the current account.
type ProfileUpdateRequest struct {
	Name       *string `json:"name" validate:"omitempty,min=2,max=255"`
	Department *string `json:"department" validate:"omitempty,max=128"`
	YearLevel  *int    `json:"year_level" validate:"omitempty,min=1,max=7"`
	Password   *string `json:"password" validate:"omitempty,min=8,max=128"`
}

// AccountDecisionRequest moves a pending or active account to a new status.
type AccountDecisionRequest struct {
	Status string `json:"status" validate:"required,oneof=active rejected suspended"`
}

// UserResponse is the serialized representation of a portal account.
type UserResponse struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	UserType      string    `json:"user_type"`
	Status        string    `json:"status"`
	StudentID     *string   `json:"student_id,omitempty"`
	Department    *string   `json:"department,omitempty"`
	Gender        *string   `json:"gender,omitempty"`
	YearLevel     *int      `json:"year_level,omitempty"`
	Phone         *string   `json:"phone,omitempty"`
	AssignedBlock *uint     `json:"assigned_block,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	User             *UserResponse `json:"user,omitempty"`
	Token            string        `json:"token,omitempty"`
	RequiresApproval bool          `json:"requires_approval,omitempty"`
}

// NewUserResponse converts a user model into its API shape.
func NewUserResponse(user models.User) UserResponse {
	return UserResponse{
		ID:            user.ID,
		Name:          user.Name,
		Email:         user.Email,
		UserType:      string(user.Role),
		Status:        user.Status,
		StudentID:     user.StudentID,
		Department:    user.Department,
		Gender:        user.Gender,
		YearLevel:     user.YearLevel,
		Phone:         user.Phone,
		AssignedBlock: user.AssignedBlockID,
		CreatedAt:     user.CreatedAt,
	}
}
