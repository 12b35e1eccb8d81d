package port

import "github.com/Wyydra/switchboard/internal/core/domain"

// Directory is the single source of truth mapping identity to connection,
// role and busy state. Lookups return copies; callers never see the live
// entry. Compound read-then-write sequences across the directory belong to
// the coordinator, which serializes them.
type Directory interface {
	// Register fails with domain.ErrDuplicateID when id is owned by a
	// different live connection. Re-registering from the same connection
	// is idempotent and returns the existing entry unchanged.
	Register(id string, role domain.Role, conn domain.ConnID) (domain.Participant, error)
	ByID(id string) (domain.Participant, bool)
	ByConn(conn domain.ConnID) (domain.Participant, bool)
	// SetBusy is a no-op for unknown ids.
	SetBusy(id string, busy bool)
	// Remove is idempotent.
	Remove(id string)
	// Snapshot returns a point-in-time copy ordered by id.
	Snapshot() []domain.PresenceEntry
}
