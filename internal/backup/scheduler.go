package backup

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/openboard/openboard/internal/board"
)

// Scheduler arms exactly one delayed backup per brand-new room: after the
// configured delay, the room is backed up only if no backup exists yet.
// Rooms that already have a backup are never re-armed, so the "only backup
// once per room, only if absent" contract holds across reconnects.
type Scheduler struct {
	store    Store
	delay    time.Duration
	snapshot func(roomID string) (*board.State, bool)

	mu    sync.Mutex
	armed map[string]bool
}

// NewScheduler wires the scheduler to a backup store and a snapshot source
// (typically the collab hub's RoomSnapshot).
func NewScheduler(store Store, delay time.Duration, snapshot func(roomID string) (*board.State, bool)) *Scheduler {
	return &Scheduler{
		store:    store,
		delay:    delay,
		snapshot: snapshot,
		armed:    make(map[string]bool),
	}
}

// RoomCreated arms the one-shot backup for a room that started without a
// restored snapshot. Safe to call multiple times; only the first arms.
func (s *Scheduler) RoomCreated(roomID string) {
	s.mu.Lock()
	if s.armed[roomID] {
		s.mu.Unlock()
		return
	}
	s.armed[roomID] = true
	s.mu.Unlock()

	time.AfterFunc(s.delay, func() { s.fire(roomID) })
}

func (s *Scheduler) fire(roomID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	exists, err := s.store.RoomBackupExists(ctx, roomID)
	if err != nil {
		slog.Error("check backup", "error", err, "room", roomID)
		return
	}
	if exists {
		return
	}

	st, ok := s.snapshot(roomID)
	if !ok {
		// Room emptied out before the delay elapsed; nothing to back up.
		return
	}

	if err := s.store.BackupRoom(ctx, roomID, st); err != nil {
		slog.Error("backup room", "error", err, "room", roomID)
		return
	}
	slog.Info("room backed up", "room", roomID)
}
