package service

import (
	"github.com/Wyydra/switchboard/internal/core/domain"
	"github.com/Wyydra/switchboard/internal/core/port"
	"github.com/rs/zerolog/log"
)

// Lifecycle binds transport connections to directory entries and cascades
// cleanup when they go away.
type Lifecycle struct {
	co   *Coordinator
	dir  port.Directory
	gate port.Gateway
}

func NewLifecycle(co *Coordinator, dir port.Directory, gate port.Gateway) *Lifecycle {
	return &Lifecycle{
		co:   co,
		dir:  dir,
		gate: gate,
	}
}

// OnConnect attaches the socket to the gateway. No directory entry exists
// until the peer registers.
func (l *Lifecycle) OnConnect(conn port.Conn) {
	l.gate.Attach(conn)
	log.Info().Str("conn_id", conn.ID().String()).Msg("Connection attached")
}

// OnRegister claims id for the connection. On success the connection joins
// its role group, is acked, and everyone gets a fresh presence snapshot.
func (l *Lifecycle) OnRegister(conn domain.ConnID, id string, role domain.Role) error {
	p, snap, err := l.co.registerParticipant(conn, id, role)
	if err != nil {
		return err
	}
	l.gate.Join(conn, p.Role)
	l.gate.SendTo(conn, domain.Event{Type: domain.EventRegistered, ID: p.ID})
	l.gate.Broadcast(domain.PresenceEvent(snap))
	log.Info().Str("id", p.ID).Str("role", string(p.Role)).Msg("Participant registered")
	return nil
}

// OnDisconnect tears down whatever the connection owned: active call, queue
// entry, directory entry, group membership. Every step is unconditional;
// absent state is a benign race with an in-flight request.
func (l *Lifecycle) OnDisconnect(conn domain.ConnID) {
	if p, ok := l.dir.ByConn(conn); ok {
		l.co.release(p)
		l.gate.Leave(conn)
		log.Info().Str("id", p.ID).Msg("Participant removed")
	}
	l.gate.Detach(conn)
}

// Resolve reports the participant registered on conn, if any.
func (l *Lifecycle) Resolve(conn domain.ConnID) (domain.Participant, bool) {
	return l.dir.ByConn(conn)
}
