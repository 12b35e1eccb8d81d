package port

import "github.com/Wyydra/switchboard/internal/core/domain"

// Gateway delivers events to live connections. Implementations must not
// block the caller on network I/O; services call these only after state
// mutations are committed.
type Gateway interface {
	Attach(conn Conn)
	Detach(id domain.ConnID)

	// Join/Leave manage the per-role subscriber groups used for
	// role-scoped broadcasts (e.g. queue notices to all responders).
	Join(id domain.ConnID, role domain.Role)
	Leave(id domain.ConnID)

	SendTo(id domain.ConnID, evt domain.Event)
	Broadcast(evt domain.Event)
	BroadcastRole(role domain.Role, evt domain.Event)
}
