package collab

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/openboard/openboard/internal/board"
	"github.com/openboard/openboard/internal/store"
)

// ErrNoSnapshot is returned by a Loader when a room has never been saved.
// That is the normal "new room" signal, distinct from a storage failure.
var ErrNoSnapshot = errors.New("no snapshot for room")

// Loader restores a room's board from the snapshot store.
type Loader func(roomID string) (*board.State, error)

// Saver persists a room's board to the snapshot store.
type Saver func(roomID string, st *board.State) error

const autosavePeriod = 30 * time.Second

type Room struct {
	roomID   string
	clients  map[string]*Client // clientID -> client
	presence *PresenceManager
	state    *RoomState
}

func NewRoom(roomID string, st *board.State) *Room {
	return &Room{
		roomID:   roomID,
		clients:  make(map[string]*Client),
		presence: NewPresenceManager(),
		state:    NewRoomState(st),
	}
}

// Hub owns all active rooms. Rooms are created lazily on first join: the
// loader is asked for a restored board first, and a brand-new room falls back
// to the deterministic default layout.
type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]*Room // roomID -> room
	register   chan *Client
	unregister chan *Client
	stop       chan struct{}
	done       chan struct{}

	loader Loader
	saver  Saver

	// OnNewRoom, when set before Run, is invoked once for each room that
	// starts life without a restored snapshot. The backup scheduler hangs
	// off this hook.
	OnNewRoom func(roomID string)
}

func NewHub(loader Loader, saver Saver) *Hub {
	return &Hub{
		rooms:      make(map[string]*Room),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
		loader:     loader,
		saver:      saver,
	}
}

func (h *Hub) Run() {
	ticker := time.NewTicker(autosavePeriod)
	defer ticker.Stop()
	defer close(h.done)

	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-ticker.C:
			h.saveDirtyRooms()
		case <-h.stop:
			h.saveDirtyRooms()
			return
		}
	}
}

// Stop shuts the hub down, persisting every dirty room first.
func (h *Hub) Stop() {
	close(h.stop)
	<-h.done
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.RoomID]
	if !ok {
		room = h.openRoom(client.RoomID)
		h.rooms[client.RoomID] = room
	}
	room.clients[client.ClientID] = client
	h.mu.Unlock()

	// Identity first, then the full board, then who else is here.
	welcome, _ := json.Marshal(WelcomePayload{
		ClientID: client.ClientID,
		UserID:   client.UserID,
		RoomID:   client.RoomID,
	})
	client.Send(&Message{Type: TypeWelcome, Payload: welcome})

	st, seq := room.state.Snapshot()
	syncPayload, _ := json.Marshal(BoardSyncPayload{State: st, Seq: seq})
	client.Send(&Message{Type: TypeBoardSync, Seq: seq, Payload: syncPayload})

	if stateMsg := room.presence.StateMessage(); stateMsg != nil {
		client.Send(stateMsg)
	}

	joinPayload, _ := json.Marshal(PresenceJoinPayload{
		ClientID:    client.ClientID,
		UserID:      client.UserID,
		DisplayName: client.DisplayName,
	})
	h.broadcastToRoom(client.RoomID, &Message{
		Type:     TypePresenceJoin,
		ClientID: client.ClientID,
		UserID:   client.UserID,
		Payload:  joinPayload,
	}, client.ClientID)

	slog.Info("client joined", "user", client.UserID, "room", client.RoomID)
}

// openRoom loads or creates room state. Caller holds the hub lock.
func (h *Hub) openRoom(roomID string) *Room {
	st, err := h.loader(roomID)
	dirty := false
	switch {
	case err == nil:
		slog.Info("room restored", "room", roomID)
	case errors.Is(err, ErrNoSnapshot):
		st = board.DefaultLayout(time.Now())
		dirty = true
		slog.Info("new room, default layout", "room", roomID)
		if h.OnNewRoom != nil {
			go h.OnNewRoom(roomID)
		}
	default:
		// Storage trouble: start from the default layout rather than
		// refusing the join, but do not trigger the new-room hook and do
		// not mark the room dirty. Autosaving this placeholder board would
		// overwrite the real snapshot once storage recovers; the room only
		// becomes saveable again after a user edit.
		slog.Error("load room snapshot", "error", err, "room", roomID)
		st = board.DefaultLayout(time.Now())
	}

	room := NewRoom(roomID, st)
	room.state.dirty = dirty
	return room
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.RoomID]
	if !ok {
		h.mu.Unlock()
		return
	}

	delete(room.clients, client.ClientID)
	close(client.send)
	room.presence.Remove(client.ClientID)

	var leftover *Room
	if len(room.clients) == 0 {
		delete(h.rooms, client.RoomID)
		leftover = room
	}
	h.mu.Unlock()

	if leftover != nil {
		h.saveRoom(leftover)
	}

	leavePayload, _ := json.Marshal(PresenceLeavePayload{
		ClientID: client.ClientID,
		UserID:   client.UserID,
	})
	h.broadcastToRoom(client.RoomID, &Message{
		Type:     TypePresenceLeave,
		ClientID: client.ClientID,
		UserID:   client.UserID,
		Payload:  leavePayload,
	}, "")

	slog.Info("client left", "user", client.UserID, "room", client.RoomID)
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	switch msg.Type {
	case TypeBoardMutate:
		h.handleMutate(sender, msg)
	case TypePresenceUpdate:
		h.handlePresenceUpdate(sender, msg)
	default:
		slog.Warn("unknown message type", "type", msg.Type, "user", sender.UserID)
	}
}

func (h *Hub) handleMutate(sender *Client, msg *Message) {
	var payload MutatePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		slog.Warn("invalid mutate payload", "error", err, "user", sender.UserID)
		return
	}

	h.mu.RLock()
	room, ok := h.rooms[sender.RoomID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	seq := room.state.Apply(payload.Mutation)

	out := *msg
	out.Seq = seq
	h.broadcastToRoom(sender.RoomID, &out, sender.ClientID)
}

func (h *Hub) handlePresenceUpdate(sender *Client, msg *Message) {
	var payload struct {
		Presence store.Presence `json:"presence"`
	}
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		slog.Warn("invalid presence payload", "error", err, "user", sender.UserID)
		return
	}

	h.mu.RLock()
	room, ok := h.rooms[sender.RoomID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	payload.Presence.DisplayName = sender.DisplayName
	room.presence.Update(sender.ClientID, payload.Presence)

	out := *msg
	out.Payload, _ = json.Marshal(payload)
	h.broadcastToRoom(sender.RoomID, &out, sender.ClientID)
}

func (h *Hub) broadcastToRoom(roomID string, msg *Message, excludeClientID string) {
	h.mu.RLock()
	room, ok := h.rooms[roomID]
	if !ok {
		h.mu.RUnlock()
		return
	}

	clients := make([]*Client, 0, len(room.clients))
	for _, c := range room.clients {
		if c.ClientID != excludeClientID {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.Send(msg)
	}
}

func (h *Hub) saveDirtyRooms() {
	h.mu.RLock()
	rooms := make([]*Room, 0, len(h.rooms))
	for _, r := range h.rooms {
		rooms = append(rooms, r)
	}
	h.mu.RUnlock()

	for _, r := range rooms {
		h.saveRoom(r)
	}
}

func (h *Hub) saveRoom(room *Room) {
	st, dirty := room.state.TakeDirty()
	if !dirty {
		return
	}
	if err := h.saver(room.roomID, st); err != nil {
		slog.Error("save room snapshot", "error", err, "room", room.roomID)
	}
}

// RoomSnapshot returns a copy of an active room's board, or ok=false if the
// room is not loaded. Used by export and backup.
func (h *Hub) RoomSnapshot(roomID string) (*board.State, bool) {
	h.mu.RLock()
	room, ok := h.rooms[roomID]
	h.mu.RUnlock()
	if !ok {
		return nil, false
	}
	st, _ := room.state.Snapshot()
	return st, true
}
