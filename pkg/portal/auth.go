package portal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// RegisterInput is the payload for creating a student account.
type RegisterInput struct {
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Password   string  `json:"password"`
	StudentID  string  `json:"student_id"`
	Department string  `json:"department"`
	Gender     string  `json:"gender"`
	YearLevel  int     `json:"year_level"`
	Phone      *string `json:"phone,omitempty"`
}

// ProfileUpdate carries the mutable fields of the current account.
type ProfileUpdate struct {
	Name       *string `json:"name,omitempty"`
	Department *string `json:"department,omitempty"`
	YearLevel  *int    `json:"year_level,omitempty"`
	Password   *string `json:"password,omitempty"`
}

// RegisterResult reports the outcome of a registration attempt.
type RegisterResult struct {
	User *Session
	// RequiresApproval is true when the account was created but needs
	// staff approval before it can log in. No session is persisted in
	// that case.
	RequiresApproval bool
}

type authPayload struct {
	User             *Session `json:"user"`
	Token            string   `json:"token"`
	RequiresApproval bool     `json:"requires_approval"`
}

// Login exchanges credentials for a session. On success both token and user
// are persisted atomically; on failure the stored session is untouched.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	c.loginMu.Lock()
	defer c.loginMu.Unlock()

	var payload authPayload
	err := c.Post(ctx, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &payload)
	if err != nil {
		return nil, err
	}
	if payload.User == nil || payload.Token == "" {
		return nil, fmt.Errorf("login response missing user or token")
	}

	c.storage.SetSession(payload.Token, payload.User)
	return payload.User, nil
}

// Register creates an account. When the backend signals requires_approval
// the account is not yet usable and no session is persisted; otherwise the
// returned token and user are stored as in Login.
func (c *Client) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	c.loginMu.Lock()
	defer c.loginMu.Unlock()

	var payload authPayload
	if err := c.Post(ctx, "/auth/register", input, &payload); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	result := &RegisterResult{User: payload.User, RequiresApproval: payload.RequiresApproval}
	if payload.RequiresApproval {
		return result, nil
	}
	if payload.User == nil || payload.Token == "" {
		return nil, fmt.Errorf("register response missing user or token")
	}

	c.storage.SetSession(payload.Token, payload.User)
	return result, nil
}

// Logout tells the server to invalidate the session, ignoring any failure,
// then unconditionally purges the stored token and user. It never fails.
func (c *Client) Logout(ctx context.Context) {
	_ = c.Post(ctx, "/auth/logout", nil, nil)
	c.storage.Clear()
}

// CurrentUser returns the persisted user, or nil when logged out. It never
// touches the network.
func (c *Client) CurrentUser() *Session {
	return c.storage.User()
}

// Token returns the persisted bearer token, or "" when logged out.
func (c *Client) Token() string {
	return c.storage.Token()
}

// IsAuthenticated reports whether BOTH a token and a user are persisted.
// Partial state counts as logged out.
func (c *Client) IsAuthenticated() bool {
	return c.storage.Token() != "" && c.storage.User() != nil
}

// RefreshUser re-fetches the current-user record and overwrites the
// persisted user, keeping the token. Used to pick up server-side profile
// changes.
func (c *Client) RefreshUser(ctx context.Context) (*Session, error) {
	var user Session
	if err := c.Get(ctx, "/auth/me", &user); err != nil {
		return nil, err
	}
	c.storage.SetUser(&user)
	return &user, nil
}

// UpdateProfile sends profile changes and stores the updated user record.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*Session, error) {
	var user Session
	if err := c.Patch(ctx, "/auth/me", update, &user); err != nil {
		return nil, err
	}
	c.storage.SetUser(&user)
	return &user, nil
}

// HasRole reports whether the persisted user belongs to the given role.
func (c *Client) HasRole(role Role) bool {
	return c.storage.User().HasRole(role)
}
