package domain

import "errors"

// Rejection reasons surfaced to the initiating caller. None of these are
// fatal; the coordinator degrades to a no-op or a reported rejection.
var (
	ErrDuplicateID  = errors.New("id already registered")
	ErrNotFound     = errors.New("participant not found")
	ErrRoleMismatch = errors.New("role mismatch")
	ErrBusy         = errors.New("participant busy")
	ErrNotQueued    = errors.New("requester not queued")
	ErrUnauthorized = errors.New("operation not allowed for role")
)

// Reason maps a rejection to its wire code.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrDuplicateID):
		return "duplicate-id"
	case errors.Is(err, ErrNotFound):
		return "not-found"
	case errors.Is(err, ErrRoleMismatch):
		return "role-mismatch"
	case errors.Is(err, ErrBusy):
		return "busy"
	case errors.Is(err, ErrNotQueued):
		return "not-queued"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	default:
		return "internal"
	}
}
