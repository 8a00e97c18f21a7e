package backup

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openboard/openboard/internal/board"
	"github.com/openboard/openboard/internal/collab"
)

// fakeLive is an in-memory working copy.
type fakeLive struct {
	mu     sync.Mutex
	boards map[string]*board.State
	saves  map[string]int
}

func newFakeLive() *fakeLive {
	return &fakeLive{
		boards: make(map[string]*board.State),
		saves:  make(map[string]int),
	}
}

func (f *fakeLive) SaveRoom(ctx context.Context, roomID string, st *board.State) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.boards[roomID] = st.Clone()
	f.saves[roomID]++
	return nil
}

func (f *fakeLive) LoadRoom(ctx context.Context, roomID string) (*board.State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if st, ok := f.boards[roomID]; ok {
		return st.Clone(), nil
	}
	return nil, ErrNotFound
}

func (f *fakeLive) saveCount(roomID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves[roomID]
}

func TestRoomLoaderPrefersWorkingCopy(t *testing.T) {
	live := newFakeLive()
	backups := newFakeStore()

	live.boards["room_1"] = &board.State{Shapes: []board.Shape{{ID: "shape_live"}}}
	backups.restored["room_1"] = &board.State{Shapes: []board.Shape{{ID: "shape_backup"}}}

	st, err := NewRoomLoader(live, backups)(context.Background(), "room_1")
	require.NoError(t, err)
	require.Len(t, st.Shapes, 1)
	assert.Equal(t, "shape_live", st.Shapes[0].ID)
}

func TestRoomLoaderFallsBackToBackup(t *testing.T) {
	live := newFakeLive()
	backups := newFakeStore()
	backups.restored["room_1"] = &board.State{Shapes: []board.Shape{{ID: "shape_backup"}}}

	st, err := NewRoomLoader(live, backups)(context.Background(), "room_1")
	require.NoError(t, err)
	require.Len(t, st.Shapes, 1)
	assert.Equal(t, "shape_backup", st.Shapes[0].ID)
}

func TestRoomLoaderMissOnBoth(t *testing.T) {
	_, err := NewRoomLoader(newFakeLive(), newFakeStore())(context.Background(), "room_1")
	assert.ErrorIs(t, err, ErrNotFound)
}

// The autosave loop writes the working copy, not backups, so working-copy
// traffic must never make the one-shot scheduler believe a backup exists.
func TestAutosaveDoesNotSuppressOneShotBackup(t *testing.T) {
	live := newFakeLive()
	backups := newFakeStore()

	load := NewRoomLoader(live, backups)
	loader := func(roomID string) (*board.State, error) {
		st, err := load(context.Background(), roomID)
		if errors.Is(err, ErrNotFound) {
			return nil, collab.ErrNoSnapshot
		}
		return st, err
	}
	saver := func(roomID string, st *board.State) error {
		return live.SaveRoom(context.Background(), roomID, st)
	}

	h := collab.NewHub(loader, saver)
	s := NewScheduler(backups, 30*time.Millisecond, h.RoomSnapshot)
	h.OnNewRoom = s.RoomCreated
	go h.Run()
	defer h.Stop()

	h.Register(collab.NewClient(h, nil, "user_a", "A", "room_1", "conn-1"))
	require.Eventually(t, func() bool {
		_, ok := h.RoomSnapshot("room_1")
		return ok
	}, time.Second, 5*time.Millisecond)

	// working-copy saves land before the one-shot delay elapses
	st, _ := h.RoomSnapshot("room_1")
	require.NoError(t, saver("room_1", st))
	require.Positive(t, live.saveCount("room_1"))

	select {
	case roomID := <-backups.fired:
		assert.Equal(t, "room_1", roomID)
	case <-time.After(time.Second):
		t.Fatal("one-shot backup never fired")
	}
	assert.Equal(t, 1, backups.backupCount("room_1"))
}
