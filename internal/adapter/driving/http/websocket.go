package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/Wyydra/switchboard/internal/core/domain"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var errConnClosed = errors.New("connection closed")

// WSClient adapts a gorilla connection to port.Conn. Writes go through a
// buffered queue drained by one goroutine so callers never block on the
// socket; a reader that falls too far behind loses events.
type WSClient struct {
	id   domain.ConnID
	conn *websocket.Conn
	send chan domain.Event
	done chan struct{}
	once sync.Once
	log  zerolog.Logger
}

func (c *WSClient) ID() domain.ConnID {
	return c.id
}

func (c *WSClient) Send(evt domain.Event) error {
	select {
	case <-c.done:
		return errConnClosed
	case c.send <- evt:
		return nil
	default:
		c.log.Warn().Str("type", string(evt.Type)).Msg("Send queue full, dropping event")
		return nil
	}
}

func (c *WSClient) Close() error {
	var err error
	c.once.Do(func() {
		close(c.done)
		err = c.conn.Close()
	})
	return err
}

func (c *WSClient) writePump() {
	for {
		select {
		case <-c.done:
			return
		case evt := <-c.send:
			if err := c.conn.WriteJSON(evt); err != nil {
				c.log.Error().Err(err).Msg("Error writing event")
				return
			}
		}
	}
}

// inbound is the tagged envelope read off the socket. Only the fields for
// the given type are expected to be set.
type inbound struct {
	Type      string          `json:"type"`
	ID        string          `json:"id,omitempty"`
	Role      string          `json:"role,omitempty"`
	Target    string          `json:"target,omitempty"`
	Requester string          `json:"requester,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// HTTP handler
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Error while upgrading ws")
		return
	}

	client := &WSClient{
		id:   domain.NewConnID(),
		conn: conn,
		send: make(chan domain.Event, h.cfg.SendQueueSize),
		done: make(chan struct{}),
	}
	client.log = log.With().Str("conn_id", client.id.String()).Logger()
	client.log.Info().Msg("New client connected")

	go client.writePump()
	h.Lifecycle.OnConnect(client)

	defer func() {
		client.log.Info().Msg("Client disconnected")
		h.Lifecycle.OnDisconnect(client.id)
		client.Close()
	}()

	for {
		var req inbound
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				client.log.Error().Err(err).Msg("Unexpected close error")
			}
			break
		}
		h.dispatch(client, req)
	}
}

func (h *Handler) dispatch(c *WSClient, req inbound) {
	switch req.Type {
	case "register":
		role, err := domain.ParseRole(req.Role)
		if err != nil || req.ID == "" {
			c.log.Warn().Str("role", req.Role).Msg("Malformed register ignored")
			return
		}
		if err := h.Lifecycle.OnRegister(c.id, req.ID, role); err != nil {
			h.reject(c, err)
		}

	case "call-request":
		p, ok := h.Lifecycle.Resolve(c.id)
		if !ok {
			h.reject(c, domain.ErrNotFound)
			return
		}
		if _, err := h.Coordinator.RequestCall(p.ID, req.Target); err != nil {
			h.reject(c, err)
		}

	case "admit-queued":
		p, ok := h.Lifecycle.Resolve(c.id)
		if !ok {
			h.reject(c, domain.ErrNotFound)
			return
		}
		if err := h.Coordinator.AdmitFromQueue(p.ID, req.Requester); err != nil {
			h.reject(c, err)
		}

	case "queue-peek":
		p, ok := h.Lifecycle.Resolve(c.id)
		if !ok {
			h.reject(c, domain.ErrNotFound)
			return
		}
		waiting, err := h.Coordinator.PeekQueueFor(p.ID)
		if err != nil {
			h.reject(c, err)
			return
		}
		_ = c.Send(domain.Event{Type: domain.EventQueueNotice, Waiting: waiting})

	case "end-call":
		p, ok := h.Lifecycle.Resolve(c.id)
		if !ok {
			return
		}
		// stale or mismatched teardown is a benign no-op
		h.Coordinator.EndCall(p.ID, req.Target)

	case "offer", "answer", "candidate", "chat":
		kind, _ := domain.ParseSignalKind(req.Type)
		h.Relay.Relay(kind, c.id, req.Target, req.Payload)

	default:
		c.log.Warn().Str("type", req.Type).Msg("Unknown event type ignored")
	}
}

func (h *Handler) reject(c *WSClient, err error) {
	_ = c.Send(domain.Event{Type: domain.EventError, Reason: domain.Reason(err)})
}
