package collab

import (
	"encoding/json"

	"github.com/openboard/openboard/internal/board"
	"github.com/openboard/openboard/internal/store"
)

// Message is the JSON envelope for every websocket frame in a room.
type Message struct {
	Type     string          `json:"type"`
	RoomID   string          `json:"roomId,omitempty"`
	ClientID string          `json:"clientId,omitempty"`
	UserID   string          `json:"userId,omitempty"`
	Seq      int64           `json:"seq,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

const (
	// Connection
	TypeWelcome = "welcome"
	TypeError   = "error"

	// Board replication
	TypeBoardSync   = "board.sync"
	TypeBoardMutate = "board.mutate"

	// Presence
	TypePresenceUpdate = "presence.update"
	TypePresenceState  = "presence.state"
	TypePresenceJoin   = "presence.join"
	TypePresenceLeave  = "presence.leave"
)

// WelcomePayload tells a client its connection identity.
type WelcomePayload struct {
	ClientID string `json:"clientId"`
	UserID   string `json:"userId"`
	RoomID   string `json:"roomId"`
}

// BoardSyncPayload carries the full room state, sent on join and whenever a
// client needs a resync.
type BoardSyncPayload struct {
	State *board.State `json:"state"`
	Seq   int64        `json:"seq"`
}

// MutatePayload is a whole-collection replacement batch. Collections present
// in the batch are applied together, so a group move is never observed torn.
type MutatePayload struct {
	Mutation store.Mutation `json:"mutation"`
}

// PresenceStatePayload is the presence of every current participant, keyed by
// connection id.
type PresenceStatePayload struct {
	Presences map[string]store.Presence `json:"presences"`
}

type PresenceJoinPayload struct {
	ClientID    string `json:"clientId"`
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type PresenceLeavePayload struct {
	ClientID string `json:"clientId"`
	UserID   string `json:"userId"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
