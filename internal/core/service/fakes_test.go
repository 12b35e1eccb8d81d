package service

import (
	"sync"

	"github.com/Wyydra/switchboard/internal/core/domain"
	"github.com/Wyydra/switchboard/internal/core/port"
)

// fakeConn satisfies port.Conn for lifecycle tests.
type fakeConn struct {
	id     domain.ConnID
	closed bool
}

func (c *fakeConn) ID() domain.ConnID         { return c.id }
func (c *fakeConn) Send(_ domain.Event) error { return nil }
func (c *fakeConn) Close() error              { c.closed = true; return nil }

// fakeGateway records every delivery so tests can assert on what the
// services dispatched after committing state.
type fakeGateway struct {
	mu         sync.Mutex
	sent       map[domain.ConnID][]domain.Event
	broadcasts []domain.Event
	roleCasts  map[domain.Role][]domain.Event
	joined     map[domain.ConnID]domain.Role
	attached   map[domain.ConnID]bool
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		sent:      make(map[domain.ConnID][]domain.Event),
		roleCasts: make(map[domain.Role][]domain.Event),
		joined:    make(map[domain.ConnID]domain.Role),
		attached:  make(map[domain.ConnID]bool),
	}
}

func (g *fakeGateway) Attach(conn port.Conn) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.attached[conn.ID()] = true
}

func (g *fakeGateway) Detach(id domain.ConnID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.attached, id)
}

func (g *fakeGateway) Join(id domain.ConnID, role domain.Role) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.joined[id] = role
}

func (g *fakeGateway) Leave(id domain.ConnID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.joined, id)
}

func (g *fakeGateway) SendTo(id domain.ConnID, evt domain.Event) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sent[id] = append(g.sent[id], evt)
}

func (g *fakeGateway) Broadcast(evt domain.Event) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.broadcasts = append(g.broadcasts, evt)
}

func (g *fakeGateway) BroadcastRole(role domain.Role, evt domain.Event) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.roleCasts[role] = append(g.roleCasts[role], evt)
}

func (g *fakeGateway) sentTo(id domain.ConnID) []domain.Event {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]domain.Event(nil), g.sent[id]...)
}

func (g *fakeGateway) lastSentTo(id domain.ConnID) (domain.Event, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	evts := g.sent[id]
	if len(evts) == 0 {
		return domain.Event{}, false
	}
	return evts[len(evts)-1], true
}
