package domain

import "encoding/json"

type EventType string

const (
	EventRegistered   EventType = "registered"
	EventError        EventType = "error"
	EventCallStarted  EventType = "call-started"
	EventCallQueued   EventType = "call-queued"
	EventIncomingCall EventType = "incoming-call"
	EventCallEnded    EventType = "call-ended"
	EventQueueNotice  EventType = "queue-notice"
	EventPresence     EventType = "presence"
)

// Event is the single outbound envelope written to a connection. Only the
// fields relevant to the Type are populated; relayed kinds reuse the
// SignalKind as their Type with From and Payload set.
type Event struct {
	Type         EventType       `json:"type"`
	ID           string          `json:"id,omitempty"`
	Peer         string          `json:"peer,omitempty"`
	From         string          `json:"from,omitempty"`
	Reason       string          `json:"reason,omitempty"`
	Waiting      []string        `json:"waiting,omitempty"`
	Participants []PresenceEntry `json:"participants,omitempty"`
	Payload      json.RawMessage `json:"payload,omitempty"`
}

func RelayEvent(kind SignalKind, from string, payload json.RawMessage) Event {
	return Event{
		Type:    EventType(kind),
		From:    from,
		Payload: payload,
	}
}

func PresenceEvent(entries []PresenceEntry) Event {
	return Event{
		Type:         EventPresence,
		Participants: entries,
	}
}
