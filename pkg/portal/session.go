// Package portal is a client library for the dormitory management API. It
// owns the authenticated session, attaches bearer tokens to outgoing
// requests, centralizes 401 handling, and exposes the role-scoped
// navigation shell used by portal front ends.
package portal

// Role identifies the access level of a portal account.
type Role string

// Roles understood by the portal.
const (
	RoleStudent    Role = "student"
	RoleSupervisor Role = "supervisor"
	RoleAdmin      Role = "admin"
)

// Account status values as reported by the API.
const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusSuspended = "suspended"
	StatusRejected  = "rejected"
)

// Session is the authenticated identity. Role-specific fields are only
// populated for the matching role.
type Session struct {
	ID            uint    `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Role          Role    `json:"user_type"`
	Status        string  `json:"status"`
	StudentID     *string `json:"student_id,omitempty"`
	Department    *string `json:"department,omitempty"`
	Gender        *string `json:"gender,omitempty"`
	YearLevel     *int    `json:"year_level,omitempty"`
	AssignedBlock *uint   `json:"assigned_block,omitempty"`
}

// HasRole reports whether the session belongs to the given role.
func (s *Session) HasRole(role Role) bool {
	return s != nil && s.Role == role
}
