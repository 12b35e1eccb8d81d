package service

import (
	"sync"

	"github.com/Wyydra/switchboard/internal/core/domain"
	"github.com/Wyydra/switchboard/internal/core/port"
	"github.com/rs/zerolog/log"
)

type CallOutcome int

const (
	CallStarted CallOutcome = iota
	CallQueued
)

type delivery struct {
	to  domain.ConnID
	evt domain.Event
}

// effects collects everything to deliver once a mutation has committed.
// Nothing here is sent while the coordinator lock is held.
type effects struct {
	direct       []delivery
	queueChanged bool
	waiting      []string
	presence     []domain.PresenceEntry
}

// Coordinator enforces the pairing state machine. It exclusively owns the
// call set and the admission queue and observes participants only through
// the directory. Every mutating operation runs under one mutex so that
// read-then-write sequences are atomic end to end.
type Coordinator struct {
	mu    sync.Mutex
	dir   port.Directory
	gate  port.Gateway
	queue *AdmissionQueue
	calls map[string]string // symmetric, both directions stored
}

func NewCoordinator(dir port.Directory, gate port.Gateway) *Coordinator {
	return &Coordinator{
		dir:   dir,
		gate:  gate,
		queue: NewAdmissionQueue(),
		calls: make(map[string]string),
	}
}

// RequestCall connects requesterID to responderID, or queues requesterID
// when the responder is occupied and the requester is eligible to wait.
func (c *Coordinator) RequestCall(requesterID, responderID string) (CallOutcome, error) {
	c.mu.Lock()

	requester, ok := c.dir.ByID(requesterID)
	if !ok {
		c.mu.Unlock()
		return 0, domain.ErrNotFound
	}
	responder, ok := c.dir.ByID(responderID)
	if !ok {
		c.mu.Unlock()
		return 0, domain.ErrNotFound
	}
	if requester.Role == responder.Role {
		c.mu.Unlock()
		return 0, domain.ErrRoleMismatch
	}
	if requester.Busy {
		// already in a call, no transition from IN_CALL via a new request
		c.mu.Unlock()
		return 0, domain.ErrBusy
	}

	var eff effects
	if !responder.Busy {
		c.pair(requester, responder, &eff)
		eff.direct = append(eff.direct,
			delivery{requester.Conn, domain.Event{Type: domain.EventCallStarted, Peer: responder.ID}},
			delivery{responder.Conn, domain.Event{Type: domain.EventIncomingCall, Peer: requester.ID}},
		)
		c.mu.Unlock()
		c.flush(eff)
		return CallStarted, nil
	}

	if requester.Role != domain.RoleRequester {
		// a busy opposite-role target with no queue to fall back on
		c.mu.Unlock()
		return 0, domain.ErrBusy
	}

	if c.queue.Enqueue(requesterID) {
		eff.queueChanged = true
		eff.waiting = c.queue.List()
	}
	eff.direct = append(eff.direct,
		delivery{requester.Conn, domain.Event{Type: domain.EventCallQueued, Peer: responder.ID}})
	c.mu.Unlock()
	c.flush(eff)
	return CallQueued, nil
}

// AdmitFromQueue pairs responderID with a waiting requester of its choice.
// Any queued position is admissible, not just the head.
func (c *Coordinator) AdmitFromQueue(responderID, requesterID string) error {
	c.mu.Lock()

	responder, ok := c.dir.ByID(responderID)
	if !ok {
		c.mu.Unlock()
		return domain.ErrNotFound
	}
	if responder.Role != domain.RoleResponder {
		c.mu.Unlock()
		return domain.ErrUnauthorized
	}
	if !c.queue.Contains(requesterID) {
		c.mu.Unlock()
		return domain.ErrNotQueued
	}
	if responder.Busy {
		c.mu.Unlock()
		return domain.ErrBusy
	}

	var eff effects
	requester, ok := c.dir.ByID(requesterID)
	if !ok {
		// chosen requester went offline, drop the stale entry
		c.queue.Remove(requesterID)
		eff.queueChanged = true
		eff.waiting = c.queue.List()
		c.mu.Unlock()
		c.flush(eff)
		return domain.ErrNotFound
	}

	c.pair(requester, responder, &eff)
	eff.direct = append(eff.direct,
		delivery{requester.Conn, domain.Event{Type: domain.EventCallStarted, Peer: responder.ID}},
		delivery{responder.Conn, domain.Event{Type: domain.EventCallStarted, Peer: requester.ID}},
	)
	c.mu.Unlock()
	c.flush(eff)
	return nil
}

// EndCall tears down id's active call and returns the freed partner.
// expectPeer, when non-empty, must match the current partner; a mismatch is
// a no-op (a stale request racing a completed teardown). The freed partner
// is told, and a responder partner with waiting work is nudged to admit.
func (c *Coordinator) EndCall(id, expectPeer string) (string, bool) {
	c.mu.Lock()

	partner, ok := c.calls[id]
	if !ok || (expectPeer != "" && partner != expectPeer) {
		c.mu.Unlock()
		return "", false
	}

	var eff effects
	c.unpair(id, partner, &eff)
	if p, ok := c.dir.ByID(partner); ok {
		eff.direct = append(eff.direct,
			delivery{p.Conn, domain.Event{Type: domain.EventCallEnded, Peer: id}})
		if p.Role == domain.RoleResponder && c.queue.Len() > 0 {
			eff.direct = append(eff.direct,
				delivery{p.Conn, domain.Event{Type: domain.EventQueueNotice, Waiting: c.queue.List()}})
		}
	}
	c.mu.Unlock()
	c.flush(eff)
	return partner, true
}

// PeekQueueFor lets a responder inspect the waiting requesters.
func (c *Coordinator) PeekQueueFor(responderID string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	responder, ok := c.dir.ByID(responderID)
	if !ok {
		return nil, domain.ErrNotFound
	}
	if responder.Role != domain.RoleResponder {
		return nil, domain.ErrUnauthorized
	}
	return c.queue.List(), nil
}

// PartnerOf reports id's current call partner, if any.
func (c *Coordinator) PartnerOf(id string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	partner, ok := c.calls[id]
	return partner, ok
}

// registerParticipant claims id under the coordinator lock so registration
// cannot interleave with pairing mutations, and snapshots presence in the
// same critical section.
func (c *Coordinator) registerParticipant(conn domain.ConnID, id string, role domain.Role) (domain.Participant, []domain.PresenceEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, err := c.dir.Register(id, role, conn)
	if err != nil {
		return domain.Participant{}, nil, err
	}
	return p, c.dir.Snapshot(), nil
}

// release cleans up everything the coordinator holds for a departing
// participant: active call, queue entry, directory entry. Best effort in
// one critical section; the caller is already gone and gets nothing back.
func (c *Coordinator) release(p domain.Participant) {
	c.mu.Lock()

	var eff effects
	if partner, ok := c.calls[p.ID]; ok {
		c.unpair(p.ID, partner, &eff)
		if pp, ok := c.dir.ByID(partner); ok {
			eff.direct = append(eff.direct,
				delivery{pp.Conn, domain.Event{Type: domain.EventCallEnded, Peer: p.ID}})
			if pp.Role == domain.RoleResponder && c.queue.Len() > 0 {
				eff.direct = append(eff.direct,
					delivery{pp.Conn, domain.Event{Type: domain.EventQueueNotice, Waiting: c.queue.List()}})
			}
		}
	}
	if c.queue.Remove(p.ID) {
		eff.queueChanged = true
		eff.waiting = c.queue.List()
	}
	c.dir.Remove(p.ID)
	eff.presence = c.dir.Snapshot()
	c.mu.Unlock()
	c.flush(eff)
}

// pair marks both sides busy and records the call. Queue entries for either
// side are dropped so an id is never waiting and in a call at once.
func (c *Coordinator) pair(a, b domain.Participant, eff *effects) {
	removedA := c.queue.Remove(a.ID)
	removedB := c.queue.Remove(b.ID)
	if removedA || removedB {
		eff.queueChanged = true
		eff.waiting = c.queue.List()
	}
	c.dir.SetBusy(a.ID, true)
	c.dir.SetBusy(b.ID, true)
	c.calls[a.ID] = b.ID
	c.calls[b.ID] = a.ID
	eff.presence = c.dir.Snapshot()
	log.Debug().Str("a", a.ID).Str("b", b.ID).Msg("Call started")
}

// unpair clears busy on both members and drops the binding.
func (c *Coordinator) unpair(a, b string, eff *effects) {
	delete(c.calls, a)
	delete(c.calls, b)
	c.dir.SetBusy(a, false)
	c.dir.SetBusy(b, false)
	eff.presence = c.dir.Snapshot()
	log.Debug().Str("a", a).Str("b", b).Msg("Call ended")
}

// flush delivers committed effects. Runs outside the coordinator lock.
func (c *Coordinator) flush(eff effects) {
	for _, d := range eff.direct {
		c.gate.SendTo(d.to, d.evt)
	}
	if eff.queueChanged {
		c.gate.BroadcastRole(domain.RoleResponder,
			domain.Event{Type: domain.EventQueueNotice, Waiting: eff.waiting})
	}
	if eff.presence != nil {
		c.gate.Broadcast(domain.PresenceEvent(eff.presence))
	}
}
