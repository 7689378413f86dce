package service

import "errors"

// Sentinel errors shared across services. Handlers match these with
// errors.Is to choose HTTP status codes.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrAccountPending     = errors.New("account awaiting approval")
	ErrAccountSuspended   = errors.New("account suspended")
	ErrAccountRejected    = errors.New("account rejected")
	ErrNotFound           = errors.New("record not found")
	ErrForbidden          = errors.New("operation not permitted")
	ErrConflict           = errors.New("conflicting state")
)
