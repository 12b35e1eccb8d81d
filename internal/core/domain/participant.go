package domain

import "fmt"

type Role string

const (
	RoleRequester Role = "requester"
	RoleResponder Role = "responder"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleRequester, RoleResponder:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Participant is a registered logical identity bound to one live connection.
// Busy is mutated only by the call coordinator.
type Participant struct {
	ID   string
	Role Role
	Busy bool
	Conn ConnID
}

// PresenceEntry is the broadcast view of a Participant.
type PresenceEntry struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
	Busy bool   `json:"busy"`
}
