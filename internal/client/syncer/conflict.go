package syncer

import (
	"encoding/json"

	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/client/models"
)

// ConflictResolver decides which state wins when the remote answers a
// replayed mutation with its own version of the entity.
type ConflictResolver func(local models.PendingMutation, server json.RawMessage) json.RawMessage

// ServerWins keeps the remote's version. An empty answer falls back to the
// local payload.
func ServerWins(local models.PendingMutation, server json.RawMessage) json.RawMessage {
	if len(server) == 0 {
		return local.Payload
	}
	return server
}

// ClientWins keeps the payload that was queued locally.
func ClientWins(local models.PendingMutation, _ json.RawMessage) json.RawMessage {
	return local.Payload
}

// AppliedFunc observes a mutation the remote accepted, with the resolved
// entity state.
type AppliedFunc func(m models.PendingMutation, resolved json.RawMessage)
