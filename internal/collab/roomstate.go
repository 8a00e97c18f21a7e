package collab

import (
	"sync"

	"github.com/openboard/openboard/internal/board"
	"github.com/openboard/openboard/internal/store"
)

// RoomState holds the authoritative board for one room. Mutations are
// whole-collection replacements applied under lock in arrival order, which is
// the last-writer-wins contract the engine delegates conflict resolution to.
type RoomState struct {
	mu    sync.RWMutex
	state *board.State
	seq   int64
	dirty bool
}

func NewRoomState(st *board.State) *RoomState {
	return &RoomState{state: st}
}

// Apply replaces the collections named in the mutation and returns the new
// server sequence number.
func (rs *RoomState) Apply(mut store.Mutation) int64 {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if mut.Images != nil {
		rs.state.Images = append([]board.PlacedImage(nil), (*mut.Images)...)
	}
	if mut.Shapes != nil {
		rs.state.Shapes = append([]board.Shape(nil), (*mut.Shapes)...)
	}
	if mut.Lines != nil {
		rs.state.Lines = append([]board.Line(nil), (*mut.Lines)...)
	}

	rs.seq++
	rs.dirty = true
	return rs.seq
}

// Snapshot returns a deep copy of the current board and its sequence number.
func (rs *RoomState) Snapshot() (*board.State, int64) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return rs.state.Clone(), rs.seq
}

// TakeDirty returns a snapshot and clears the dirty flag, or ok=false when
// nothing changed since the last save.
func (rs *RoomState) TakeDirty() (*board.State, bool) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if !rs.dirty {
		return nil, false
	}
	rs.dirty = false
	return rs.state.Clone(), true
}
