package portal

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors returned by the client. Callers match them with errors.Is.
var (
	// ErrConnectivity is returned when no HTTP response was received at
	// all. The raw transport error is deliberately not surfaced.
	ErrConnectivity = errors.New("unable to reach the server, please check your connection")

	// ErrEmailExists is the domain mapping for a 409 on registration.
	ErrEmailExists = errors.New("an account with this email already exists")

	// ErrSessionExpired is returned after a 401 response. By the time a
	// caller sees it, the session has already been purged and the
	// login redirect hook has fired, so there is nothing left to handle.
	ErrSessionExpired = errors.New("session expired, please log in again")
)

// ValidationError carries the field-level messages of a 422 response.
type ValidationError struct {
	Fields map[string][]string
}

// Error aggregates the field messages into one human-readable multi-line
// string, e.g. "email: is invalid".
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}

	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		for _, message := range e.Fields[name] {
			lines = append(lines, fmt.Sprintf("%s: %s", name, message))
		}
	}
	return strings.Join(lines, "\n")
}

// APIError carries a non-2xx response the client does not map to a more
// specific error. The backend message is surfaced as-is, prefixed for
// context.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server error (status %d)", e.Status)
	}
	return fmt.Sprintf("server error (status %d): %s", e.Status, e.Message)
}
