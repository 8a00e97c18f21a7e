package backup

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openboard/openboard/internal/board"
)

// fakeStore counts backups and lets tests pre-seed existing ones.
type fakeStore struct {
	mu       sync.Mutex
	existing map[string]bool
	backups  map[string]int
	restored map[string]*board.State
	fired    chan string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		existing: make(map[string]bool),
		backups:  make(map[string]int),
		restored: make(map[string]*board.State),
		fired:    make(chan string, 8),
	}
}

func (f *fakeStore) BackupRoom(ctx context.Context, roomID string, st *board.State) error {
	f.mu.Lock()
	f.backups[roomID]++
	f.existing[roomID] = true
	f.mu.Unlock()
	f.fired <- roomID
	return nil
}

func (f *fakeStore) RestoreRoom(ctx context.Context, roomID string) (*board.State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if st, ok := f.restored[roomID]; ok {
		return st.Clone(), nil
	}
	return nil, ErrNotFound
}

func (f *fakeStore) RoomBackupExists(ctx context.Context, roomID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.existing[roomID], nil
}

func (f *fakeStore) backupCount(roomID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.backups[roomID]
}

func liveSnapshot(roomID string) (*board.State, bool) {
	return &board.State{Images: []board.PlacedImage{{ID: "img_a"}}}, true
}

func noSnapshot(roomID string) (*board.State, bool) { return nil, false }

func TestSchedulerBacksUpNewRoomOnce(t *testing.T) {
	fs := newFakeStore()
	s := NewScheduler(fs, 10*time.Millisecond, liveSnapshot)

	s.RoomCreated("room_1")
	// re-arming attempts are ignored while the room is already armed
	s.RoomCreated("room_1")

	select {
	case roomID := <-fs.fired:
		assert.Equal(t, "room_1", roomID)
	case <-time.After(time.Second):
		t.Fatal("backup never fired")
	}

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, fs.backupCount("room_1"))
}

func TestSchedulerSkipsWhenBackupExists(t *testing.T) {
	fs := newFakeStore()
	fs.existing["room_1"] = true
	s := NewScheduler(fs, 5*time.Millisecond, liveSnapshot)

	s.RoomCreated("room_1")

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, fs.backupCount("room_1"))
}

func TestSchedulerSkipsWhenRoomGone(t *testing.T) {
	fs := newFakeStore()
	s := NewScheduler(fs, 5*time.Millisecond, noSnapshot)

	s.RoomCreated("room_1")

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, fs.backupCount("room_1"))
}

func TestSchedulerIndependentRooms(t *testing.T) {
	fs := newFakeStore()
	s := NewScheduler(fs, 5*time.Millisecond, liveSnapshot)

	s.RoomCreated("room_1")
	s.RoomCreated("room_2")

	got := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case roomID := <-fs.fired:
			got[roomID] = true
		case <-time.After(time.Second):
			t.Fatal("backup never fired")
		}
	}
	require.True(t, got["room_1"])
	require.True(t, got["room_2"])
}
