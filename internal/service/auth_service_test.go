package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yohanes2124/dms-portal/internal/dto"
	"github.com/yohanes2124/dms-portal/internal/models"
)

const testJWTSecret = "unit-test-secret"

func newAuthFixture() (*userRepoStub, AuthService) {
	users := &userRepoStub{users: map[uint]models.User{}}
	svc := NewAuthService(users, validator.New(validator.WithRequiredStructEnabled()), testJWTSecret, time.Hour, testLogger())
	return users, svc
}

func seedUser(t *testing.T, users *userRepoStub, email, password, status string, role models.Role) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Status:       status,
	}
	require.NoError(t, users.Create(context.Background(), &user))
	return user
}

func TestAuthLoginIssuesTokenForActiveAccount(t *testing.T) {
	users, svc := newAuthFixture()
	seeded := seedUser(t, users, "a@b.com", "secret123", models.StatusActive, models.RoleStudent)

	response, err := svc.Login(context.Background(), dto.LoginRequest{Email: "A@B.com", Password: "secret123"})
	require.NoError(t, err)
	require.NotNil(t, response.User)
	require.Equal(t, seeded.ID, response.User.ID)
	require.Equal(t, "student", response.User.UserType)
	require.NotEmpty(t, response.Token)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(response.Token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	require.Equal(t, "student", claims["role"])
}

func TestAuthLoginWrongPassword(t *testing.T) {
	users, svc := newAuthFixture()
	seedUser(t, users, "a@b.com", "secret123", models.StatusActive, models.RoleStudent)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "a@b.com", Password: "wrong-password"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthLoginUnknownEmailLooksLikeBadCredentials(t *testing.T) {
	_, svc := newAuthFixture()

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "nobody@b.com", Password: "secret123"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthLoginBlockedByAccountStatus(t *testing.T) {
	cases := []struct {
		status string
		want   error
	}{
		{models.StatusPending, ErrAccountPending},
		{models.StatusSuspended, ErrAccountSuspended},
		{models.StatusRejected, ErrAccountRejected},
	}

	for _, tc := range cases {
		users, svc := newAuthFixture()
		seedUser(t, users, "a@b.com", "secret123", tc.status, models.RoleStudent)

		_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "a@b.com", Password: "secret123"})
		require.ErrorIs(t, err, tc.want, "status %s", tc.status)
	}
}

func TestAuthRegisterCreatesPendingStudent(t *testing.T) {
	users, svc := newAuthFixture()

	response, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name:       "  New Student ",
		Email:      "New@B.com",
		Password:   "secret123",
		StudentID:  "S-100",
		Department: "CS",
		Gender:     "female",
		YearLevel:  2,
	})
	require.NoError(t, err)
	require.True(t, response.RequiresApproval)
	require.Empty(t, response.Token)
	require.Equal(t, models.StatusPending, response.User.Status)
	require.Equal(t, "New Student", response.User.Name)

	stored, err := users.FindByEmail(context.Background(), "new@b.com")
	require.NoError(t, err)
	require.Equal(t, models.RoleStudent, stored.Role)

	// Pending accounts cannot log in yet.
	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "new@b.com", Password: "secret123"})
	require.ErrorIs(t, err, ErrAccountPending)
}

func TestAuthRegisterDuplicateEmail(t *testing.T) {
	users, svc := newAuthFixture()
	seedUser(t, users, "dup@b.com", "secret123", models.StatusActive, models.RoleStudent)

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name:       "Someone Else",
		Email:      "DUP@b.com",
		Password:   "secret123",
		StudentID:  "S-101",
		Department: "CS",
		Gender:     "male",
		YearLevel:  1,
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthUpdateProfileChangesPassword(t *testing.T) {
	users, svc := newAuthFixture()
	seeded := seedUser(t, users, "a@b.com", "secret123", models.StatusActive, models.RoleStudent)

	name := "Renamed"
	password := "another-secret"
	updated, err := svc.UpdateProfile(context.Background(), seeded.ID, dto.ProfileUpdateRequest{
		Name:     &name,
		Password: &password,
	})
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Name)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "a@b.com", Password: "secret123"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	response, err := svc.Login(context.Background(), dto.LoginRequest{Email: "a@b.com", Password: "another-secret"})
	require.NoError(t, err)
	require.Equal(t, "Renamed", response.User.Name)
}

func TestAuthCurrentUserUnknownID(t *testing.T) {
	_, svc := newAuthFixture()

	_, err := svc.CurrentUser(context.Background(), 42)
	require.ErrorIs(t, err, ErrNotFound)
}
