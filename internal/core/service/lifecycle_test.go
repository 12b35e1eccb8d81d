package service

import (
	"testing"

	"github.com/Wyydra/switchboard/internal/adapter/driven/presence/memory"
	"github.com/Wyydra/switchboard/internal/core/domain"
	"github.com/stretchr/testify/require"
)

func newTestLifecycle(t *testing.T) (*Lifecycle, *Coordinator, *memory.Directory, *fakeGateway) {
	t.Helper()
	dir := memory.NewDirectory()
	gate := newFakeGateway()
	co := NewCoordinator(dir, gate)
	return NewLifecycle(co, dir, gate), co, dir, gate
}

func TestLifecycle_RegisterFlow(t *testing.T) {
	req := require.New(t)
	lc, _, _, gate := newTestLifecycle(t)

	conn := &fakeConn{id: "conn-1"}
	lc.OnConnect(conn)
	req.True(gate.attached["conn-1"])

	req.NoError(lc.OnRegister("conn-1", "alice", domain.RoleRequester))

	p, ok := lc.Resolve("conn-1")
	req.True(ok)
	req.Equal("alice", p.ID)

	req.Equal(domain.RoleRequester, gate.joined["conn-1"])

	evt, ok := gate.lastSentTo("conn-1")
	req.True(ok)
	req.Equal(domain.EventRegistered, evt.Type)
	req.Equal("alice", evt.ID)

	req.NotEmpty(gate.broadcasts)
	last := gate.broadcasts[len(gate.broadcasts)-1]
	req.Equal(domain.EventPresence, last.Type)
	req.Equal([]domain.PresenceEntry{{ID: "alice", Role: domain.RoleRequester}}, last.Participants)
}

func TestLifecycle_DuplicateIDRejected(t *testing.T) {
	req := require.New(t)
	lc, _, _, _ := newTestLifecycle(t)

	req.NoError(lc.OnRegister("conn-1", "alice", domain.RoleRequester))
	req.ErrorIs(lc.OnRegister("conn-2", "alice", domain.RoleResponder), domain.ErrDuplicateID)
}

func TestLifecycle_OneParticipantPerIDAcrossReconnects(t *testing.T) {
	req := require.New(t)
	lc, _, dir, _ := newTestLifecycle(t)

	for i := 0; i < 3; i++ {
		conn := domain.NewConnID()
		req.NoError(lc.OnRegister(conn, "alice", domain.RoleRequester))
		req.Len(dir.Snapshot(), 1)
		lc.OnDisconnect(conn)
		req.Empty(dir.Snapshot())
	}
}

func TestLifecycle_DisconnectEndsCallForPartner(t *testing.T) {
	req := require.New(t)
	lc, co, dir, gate := newTestLifecycle(t)

	req.NoError(lc.OnRegister("conn-r1", "r1", domain.RoleRequester))
	req.NoError(lc.OnRegister("conn-s1", "s1", domain.RoleResponder))

	_, err := co.RequestCall("r1", "s1")
	req.NoError(err)

	// the responder drops mid-call
	lc.OnDisconnect("conn-s1")

	p, ok := dir.ByID("r1")
	req.True(ok)
	req.False(p.Busy)
	_, ok = co.PartnerOf("r1")
	req.False(ok)
	_, ok = dir.ByID("s1")
	req.False(ok)

	evt, ok := gate.lastSentTo("conn-r1")
	req.True(ok)
	req.Equal(domain.EventCallEnded, evt.Type)
	req.Equal("s1", evt.Peer)
}

func TestLifecycle_DisconnectRemovesQueuedRequester(t *testing.T) {
	req := require.New(t)
	lc, co, _, _ := newTestLifecycle(t)

	req.NoError(lc.OnRegister("conn-r1", "r1", domain.RoleRequester))
	req.NoError(lc.OnRegister("conn-r2", "r2", domain.RoleRequester))
	req.NoError(lc.OnRegister("conn-s1", "s1", domain.RoleResponder))

	_, err := co.RequestCall("r1", "s1")
	req.NoError(err)
	_, err = co.RequestCall("r2", "s1")
	req.NoError(err)

	lc.OnDisconnect("conn-r2")

	waiting, err := co.PeekQueueFor("s1")
	req.NoError(err)
	req.Empty(waiting)
}

func TestLifecycle_DisconnectUnknownConn(t *testing.T) {
	req := require.New(t)
	lc, _, _, gate := newTestLifecycle(t)

	// never registered, must not panic or touch anything
	lc.OnDisconnect("conn-ghost")
	req.Empty(gate.broadcasts)
}
