package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"
)

// DefaultBaseURL is used when neither Config.BaseURL nor the DMS_API_URL
// environment variable is set.
const DefaultBaseURL = "http://localhost:8000/api/v1"

// Config customises a Client. The zero value is usable.
type Config struct {
	// BaseURL of the dormitory API, e.g. "https://dorm.example.edu/api/v1".
	BaseURL string
	// HTTPClient to issue requests with. Defaults to a client with a
	// 30 second timeout.
	HTTPClient *http.Client
	// Storage backend for the session. Defaults to in-memory.
	Storage Storage
	// OnSessionExpired runs after a 401 purged the session, typically to
	// navigate the surrounding application to its login entry point.
	OnSessionExpired func()
}

// Client is the single HTTP access point for the portal. Every request
// carries the stored bearer token when one exists; any 401 response purges
// the session and fires the expiry hook before the caller sees an error.
// The client does not retry, batch or cache.
type Client struct {
	baseURL          string
	httpClient       *http.Client
	storage          Storage
	onSessionExpired func()

	// loginMu serializes login/register so that two overlapping attempts
	// cannot interleave their token and user writes.
	loginMu sync.Mutex
}

// New constructs a portal client.
func New(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = os.Getenv("DMS_API_URL")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	storage := cfg.Storage
	if storage == nil {
		storage = NewMemoryStorage()
	}

	return &Client{
		baseURL:          strings.TrimRight(baseURL, "/"),
		httpClient:       httpClient,
		storage:          storage,
		onSessionExpired: cfg.OnSessionExpired,
	}
}

// Storage exposes the session store, mainly for tests and for shells that
// need to observe the session directly.
func (c *Client) Storage() Storage {
	return c.storage
}

type envelope struct {
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

// Get issues an authenticated GET and decodes the envelope data into out.
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues an authenticated POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Put issues an authenticated PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

// Patch issues an authenticated PATCH with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

// Delete issues an authenticated DELETE.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	request.Header.Set("Accept", "application/json")
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	// Capture the token used for this request so a later 401 only purges
	// the session it actually belongs to. A login finishing while this
	// request is in flight must not be clobbered by its stale 401.
	token := c.storage.Token()
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return ErrConnectivity
	}
	defer response.Body.Close()

	// A 401 on an authenticated request means the token died: purge the
	// session and short-circuit the caller. A 401 on an unauthenticated
	// request (e.g. wrong login credentials) is an ordinary error.
	if response.StatusCode == http.StatusUnauthorized && token != "" {
		c.handleUnauthorized(token)
		return ErrSessionExpired
	}

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		return ErrConnectivity
	}

	var env envelope
	if len(raw) > 0 {
		// A non-JSON body is tolerated for success responses and folded
		// into the generic error path otherwise.
		_ = json.Unmarshal(raw, &env)
	}

	switch {
	case response.StatusCode == http.StatusUnprocessableEntity:
		return &ValidationError{Fields: env.Errors}
	case response.StatusCode >= 400:
		return &APIError{Status: response.StatusCode, Message: env.Message}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}

func (c *Client) handleUnauthorized(requestToken string) {
	// A login that finished while this request was in flight stored a
	// fresh token; a stale 401 must not purge it.
	if c.storage.Token() != requestToken {
		return
	}

	c.storage.Clear()
	if c.onSessionExpired != nil {
		c.onSessionExpired()
	}
}
