package portal_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yohanes2124/dms-portal/pkg/portal"
)

func newTestClient(t *testing.T, handler http.Handler) (*portal.Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := portal.New(portal.Config{BaseURL: server.URL})
	return client, server
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, payload interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(payload))
}

func loginStub(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		writeJSON(t, w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"user":  map[string]interface{}{"id": 1, "name": "A", "user_type": "student", "status": "active"},
				"token": "tok123",
			},
		})
	})
}

func TestLoginStoresSessionPair(t *testing.T) {
	client, _ := newTestClient(t, loginStub(t))

	user, err := client.Login(context.Background(), "a@b.com", "secret")
	require.NoError(t, err)
	require.Equal(t, uint(1), user.ID)

	require.True(t, client.IsAuthenticated())
	require.Equal(t, "tok123", client.Token())
	require.NotNil(t, client.CurrentUser())
	require.Equal(t, uint(1), client.CurrentUser().ID)
	require.Equal(t, portal.RoleStudent, client.CurrentUser().Role)
}

func TestLoginValidationErrorAggregatesFields(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnprocessableEntity, map[string]interface{}{
			"success": false,
			"message": "validation failed",
			"errors":  map[string][]string{"email": {"is invalid"}},
		})
	}))

	_, err := client.Login(context.Background(), "nope", "secret")
	require.Error(t, err)

	var validationErr *portal.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Contains(t, err.Error(), "email")
	require.Contains(t, err.Error(), "is invalid")
	require.False(t, client.IsAuthenticated())
}

func TestLoginRejectedCredentialsAreNotSessionExpiry(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, map[string]interface{}{
			"success": false,
			"message": "invalid email or password",
		})
	}))

	_, err := client.Login(context.Background(), "a@b.com", "wrong")
	require.Error(t, err)
	require.NotErrorIs(t, err, portal.ErrSessionExpired)

	var apiErr *portal.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.Status)
	require.Contains(t, apiErr.Message, "invalid email or password")
}

func TestRegisterRequiresApprovalPersistsNoSession(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/register", r.URL.Path)
		writeJSON(t, w, http.StatusCreated, map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"user":              map[string]interface{}{"id": 7, "name": "N", "user_type": "student", "status": "pending"},
				"requires_approval": true,
			},
		})
	}))

	result, err := client.Register(context.Background(), portal.RegisterInput{
		Name: "N", Email: "n@b.com", Password: "secret123",
		StudentID: "S7", Department: "CS", Gender: "female", YearLevel: 2,
	})
	require.NoError(t, err)
	require.True(t, result.RequiresApproval)
	require.NotNil(t, result.User)

	require.False(t, client.IsAuthenticated())
	require.Empty(t, client.Token())
	require.Nil(t, client.CurrentUser())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusConflict, map[string]interface{}{
			"success": false,
			"message": "email is already registered",
		})
	}))

	_, err := client.Register(context.Background(), portal.RegisterInput{Email: "dup@b.com"})
	require.ErrorIs(t, err, portal.ErrEmailExists)
}

func TestLogoutNeverFailsAndAlwaysPurges(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/logout" {
			calls++
			writeJSON(t, w, http.StatusInternalServerError, map[string]interface{}{
				"success": false,
				"message": "backend unavailable",
			})
			return
		}
		loginStub(t).ServeHTTP(w, r)
	}))

	_, err := client.Login(context.Background(), "a@b.com", "secret")
	require.NoError(t, err)
	require.True(t, client.IsAuthenticated())

	client.Logout(context.Background())

	require.Equal(t, 1, calls)
	require.False(t, client.IsAuthenticated())
	require.Empty(t, client.Token())
	require.Nil(t, client.CurrentUser())
}

func TestAuthenticatedWindowBetweenLoginAndLogout(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/logout" {
			writeJSON(t, w, http.StatusOK, map[string]interface{}{"success": true})
			return
		}
		loginStub(t).ServeHTTP(w, r)
	}))

	require.False(t, client.IsAuthenticated())

	for i := 0; i < 3; i++ {
		_, err := client.Login(context.Background(), "a@b.com", "secret")
		require.NoError(t, err)
		require.True(t, client.IsAuthenticated())

		client.Logout(context.Background())
		require.False(t, client.IsAuthenticated())
	}
}

func TestUnauthorizedPurgesSessionAndRedirects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/login" {
			loginStub(t).ServeHTTP(w, r)
			return
		}
		writeJSON(t, w, http.StatusUnauthorized, map[string]interface{}{
			"success": false,
			"message": "invalid token",
		})
	}))
	t.Cleanup(server.Close)

	redirected := false
	client := portal.New(portal.Config{
		BaseURL:          server.URL,
		OnSessionExpired: func() { redirected = true },
	})

	_, err := client.Login(context.Background(), "a@b.com", "secret")
	require.NoError(t, err)

	err = client.Get(context.Background(), "/housing/blocks", nil)
	require.ErrorIs(t, err, portal.ErrSessionExpired)

	require.True(t, redirected)
	require.False(t, client.IsAuthenticated())
	require.Empty(t, client.Token())
	require.Nil(t, client.CurrentUser())
}

func TestConcurrentLoginsNeverInterleaveSessionPair(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email string `json:"email"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		id, token := 1, "tok-a"
		if body.Email == "b@b.com" {
			id, token = 2, "tok-b"
		}
		writeJSON(t, w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"user":  map[string]interface{}{"id": id, "name": body.Email, "user_type": "student", "status": "active"},
				"token": token,
			},
		})
	}))

	var wg sync.WaitGroup
	for _, email := range []string{"a@b.com", "b@b.com"} {
		wg.Add(1)
		go func(email string) {
			defer wg.Done()
			_, err := client.Login(context.Background(), email, "secret")
			require.NoError(t, err)
		}(email)
	}
	wg.Wait()

	// Whichever login finished last, the stored token and user must come
	// from the same response.
	token := client.Token()
	user := client.CurrentUser()
	require.NotNil(t, user)
	switch token {
	case "tok-a":
		require.Equal(t, uint(1), user.ID)
	case "tok-b":
		require.Equal(t, uint(2), user.ID)
	default:
		t.Fatalf("unexpected token %q", token)
	}
}

func TestStaleUnauthorizedDoesNotClobberNewLogin(t *testing.T) {
	release := make(chan struct{})
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer stale" {
			<-release
			writeJSON(t, w, http.StatusUnauthorized, map[string]interface{}{"success": false})
			return
		}
		loginStub(t).ServeHTTP(w, r)
	}))

	client.Storage().SetSession("stale", &portal.Session{ID: 9, Role: portal.RoleStudent})

	done := make(chan error, 1)
	go func() {
		done <- client.Get(context.Background(), "/notifications", nil)
	}()

	// A fresh login completes while the stale request is still in flight.
	_, err := client.Login(context.Background(), "a@b.com", "secret")
	require.NoError(t, err)
	close(release)

	require.ErrorIs(t, <-done, portal.ErrSessionExpired)

	// The 401 belonged to the stale token; the new session survives.
	require.Equal(t, "tok123", client.Token())
	require.NotNil(t, client.CurrentUser())
	require.Equal(t, uint(1), client.CurrentUser().ID)
}

func TestRefreshUserOverwritesUserAndKeepsToken(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/me" {
			require.Equal(t, "Bearer tok123", r.Header.Get("Authorization"))
			writeJSON(t, w, http.StatusOK, map[string]interface{}{
				"success": true,
				"data":    map[string]interface{}{"id": 1, "name": "Renamed", "user_type": "student", "status": "active"},
			})
			return
		}
		loginStub(t).ServeHTTP(w, r)
	}))

	_, err := client.Login(context.Background(), "a@b.com", "secret")
	require.NoError(t, err)

	user, err := client.RefreshUser(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Renamed", user.Name)

	require.Equal(t, "tok123", client.Token())
	require.Equal(t, "Renamed", client.CurrentUser().Name)
}

func TestConnectivityErrorIsFixedMessage(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	client := portal.New(portal.Config{BaseURL: server.URL})

	_, err := client.Login(context.Background(), "a@b.com", "secret")
	require.ErrorIs(t, err, portal.ErrConnectivity)

	var apiErr *portal.APIError
	require.False(t, errors.As(err, &apiErr))
}
