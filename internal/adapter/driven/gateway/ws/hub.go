package ws

import (
	"sync"

	"github.com/Wyydra/switchboard/internal/core/domain"
	"github.com/Wyydra/switchboard/internal/core/port"
	"github.com/rs/zerolog/log"
)

// implements port.Gateway
type Hub struct {
	mu      sync.Mutex
	clients map[domain.ConnID]port.Conn
	groups  map[domain.Role]map[domain.ConnID]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[domain.ConnID]port.Conn),
		groups:  make(map[domain.Role]map[domain.ConnID]struct{}),
	}
}

func (h *Hub) Attach(conn port.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[conn.ID()] = conn
	log.Info().Str("conn_id", conn.ID().String()).Int("count", len(h.clients)).Msg("Client attached")
}

func (h *Hub) Detach(id domain.ConnID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[id]; ok {
		delete(h.clients, id)
		log.Info().Str("conn_id", id.String()).Int("count", len(h.clients)).Msg("Client detached")
	}
}

func (h *Hub) Join(id domain.ConnID, role domain.Role) {
	h.mu.Lock()
	defer h.mu.Unlock()

	g, ok := h.groups[role]
	if !ok {
		g = make(map[domain.ConnID]struct{})
		h.groups[role] = g
	}
	g[id] = struct{}{}
}

func (h *Hub) Leave(id domain.ConnID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, g := range h.groups {
		delete(g, id)
	}
}

// SendTo drops silently when the connection is gone; the disconnect path
// will have reconciled state already.
func (h *Hub) SendTo(id domain.ConnID, evt domain.Event) {
	h.mu.Lock()
	conn, ok := h.clients[id]
	h.mu.Unlock()
	if !ok {
		return
	}
	if err := conn.Send(evt); err != nil {
		log.Error().Err(err).Str("conn_id", id.String()).Msg("Error sending event")
	}
}

func (h *Hub) Broadcast(evt domain.Event) {
	for _, conn := range h.conns(nil) {
		if err := conn.Send(evt); err != nil {
			log.Error().Err(err).Str("conn_id", conn.ID().String()).Msg("Error broadcasting event")
		}
	}
}

func (h *Hub) BroadcastRole(role domain.Role, evt domain.Event) {
	h.mu.Lock()
	members := h.groups[role]
	ids := make([]domain.ConnID, 0, len(members))
	for id := range members {
		ids = append(ids, id)
	}
	h.mu.Unlock()

	for _, conn := range h.conns(ids) {
		if err := conn.Send(evt); err != nil {
			log.Error().Err(err).Str("conn_id", conn.ID().String()).Msg("Error broadcasting to role")
		}
	}
}

// Stop closes every connection. Used on shutdown only.
func (h *Hub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, conn := range h.clients {
		if err := conn.Close(); err != nil {
			log.Error().Err(err).Str("conn_id", id.String()).Msg("Error closing client connection")
		}
		delete(h.clients, id)
	}
}

// conns copies the targets out under the lock so Send never runs inside
// it. A nil filter means every attached connection.
func (h *Hub) conns(filter []domain.ConnID) []port.Conn {
	h.mu.Lock()
	defer h.mu.Unlock()

	if filter == nil {
		out := make([]port.Conn, 0, len(h.clients))
		for _, conn := range h.clients {
			out = append(out, conn)
		}
		return out
	}
	out := make([]port.Conn, 0, len(filter))
	for _, id := range filter {
		if conn, ok := h.clients[id]; ok {
			out = append(out, conn)
		}
	}
	return out
}
