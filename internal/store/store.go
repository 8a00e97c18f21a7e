// Package store defines the shared-model capability the canvas engine is
// handed instead of ambient room state. The engine never owns an
// authoritative copy of the board: every mutation is a whole-collection
// replacement routed through a SharedModelStore, which applies it to the
// local replica immediately and leaves convergence to the sync service.
package store

import (
	"github.com/openboard/openboard/internal/board"
	"github.com/openboard/openboard/internal/geom"
)

// Mutation replaces whole collections. A nil field leaves that collection
// untouched; setting several fields is a single atomic batch, so a remote
// observer never sees a torn group move.
type Mutation struct {
	Images *[]board.PlacedImage `json:"images,omitempty"`
	Shapes *[]board.Shape       `json:"shapes,omitempty"`
	Lines  *[]board.Line        `json:"lines,omitempty"`
}

// Presence is a participant's ephemeral state. Cursor is nil when the
// participant is not pointing at the canvas.
type Presence struct {
	Cursor      *geom.Point `json:"cursor,omitempty"`
	LastUpdate  int64       `json:"lastUpdate"`
	DisplayName string      `json:"displayName,omitempty"`
}

// Participant is another connected client and its last known presence.
type Participant struct {
	ConnectionID string   `json:"connectionId"`
	Presence     Presence `json:"presence"`
}

// SharedModelStore is the boundary to the room's replicated state.
type SharedModelStore interface {
	// Read returns the local replica, or ok=false while the room's storage
	// is still pending. Callers must not retain the returned state across
	// mutations; it is a read-only view.
	Read() (*board.State, bool)

	// Apply replaces the named collections, optimistically on the local
	// replica first. Fire-and-forget: conflict resolution is the sync
	// service's problem.
	Apply(Mutation)

	// SetPresence publishes this client's cursor state.
	SetPresence(Presence)

	// Others returns the last known presence of every other participant.
	Others() []Participant

	// Subscribe registers a callback invoked after every change to the
	// local replica, local or remote. The returned func cancels it.
	Subscribe(fn func()) (cancel func())
}
