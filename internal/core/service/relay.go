package service

import (
	"encoding/json"

	"github.com/Wyydra/switchboard/internal/core/domain"
	"github.com/Wyydra/switchboard/internal/core/port"
	"github.com/rs/zerolog/log"
)

// Relay forwards negotiation and chat payloads to the connection currently
// owned by a target id. It keeps no state and never inspects payloads.
type Relay struct {
	dir  port.Directory
	gate port.Gateway
}

func NewRelay(dir port.Directory, gate port.Gateway) *Relay {
	return &Relay{
		dir:  dir,
		gate: gate,
	}
}

// Relay resolves the sender by connection and the target by id. Either miss
// is a silent no-op: a message racing a disconnect is reconciled by the
// transport's own disconnect handling, not reported back to the sender.
func (r *Relay) Relay(kind domain.SignalKind, sender domain.ConnID, targetID string, payload json.RawMessage) {
	from, ok := r.dir.ByConn(sender)
	if !ok {
		log.Debug().Str("conn_id", sender.String()).Msg("Relay from unregistered connection dropped")
		return
	}
	target, ok := r.dir.ByID(targetID)
	if !ok {
		log.Debug().Str("target", targetID).Msg("Relay to unknown target dropped")
		return
	}
	r.gate.SendTo(target.Conn, domain.RelayEvent(kind, from.ID, payload))
}
