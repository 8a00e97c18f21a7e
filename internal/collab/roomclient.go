package collab

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/coder/websocket"

	"github.com/openboard/openboard/internal/store"
)

// RoomClient is the engine-facing side of the sync service: a
// store.SharedModelStore whose local replica is applied optimistically and
// whose mutations are forwarded to the room server fire-and-forget.
type RoomClient struct {
	*store.Memory

	conn     *websocket.Conn
	cancel   context.CancelFunc
	clientID string
}

// DialRoom connects to a room endpoint and begins replicating. Read stays
// pending until the server's board.sync arrives.
func DialRoom(ctx context.Context, url string) (*RoomClient, error) {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial room: %w", err)
	}
	conn.SetReadLimit(maxMsgSize)

	runCtx, cancel := context.WithCancel(context.Background())
	rc := &RoomClient{
		Memory: store.NewMemory(),
		conn:   conn,
		cancel: cancel,
	}
	rc.SetSink(rc.sendMutation)
	rc.SetPresenceSink(rc.sendPresence)

	go rc.readLoop(runCtx)
	return rc, nil
}

// ClientID returns the connection identity assigned by the server, empty
// until the welcome message arrives.
func (rc *RoomClient) ClientID() string { return rc.clientID }

// Close tears the connection down.
func (rc *RoomClient) Close() error {
	rc.cancel()
	return rc.conn.Close(websocket.StatusNormalClosure, "")
}

func (rc *RoomClient) readLoop(ctx context.Context) {
	defer rc.cancel()

	for {
		_, data, err := rc.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				websocket.CloseStatus(err) == websocket.StatusGoingAway {
				return
			}
			slog.Debug("room read error", "error", err)
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Warn("invalid room message", "error", err)
			continue
		}
		rc.handle(&msg)
	}
}

func (rc *RoomClient) handle(msg *Message) {
	switch msg.Type {
	case TypeWelcome:
		var payload WelcomePayload
		if err := json.Unmarshal(msg.Payload, &payload); err == nil {
			rc.clientID = payload.ClientID
		}

	case TypeBoardSync:
		var payload BoardSyncPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.State == nil {
			slog.Warn("invalid board sync", "error", err)
			return
		}
		rc.SetInitial(payload.State)

	case TypeBoardMutate:
		var payload MutatePayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			slog.Warn("invalid mutate broadcast", "error", err)
			return
		}
		rc.ApplyRemote(payload.Mutation)

	case TypePresenceUpdate:
		var payload struct {
			Presence store.Presence `json:"presence"`
		}
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return
		}
		rc.UpdateOther(msg.ClientID, payload.Presence)

	case TypePresenceLeave:
		rc.RemoveOther(msg.ClientID)

	case TypePresenceState:
		var payload PresenceStatePayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return
		}
		for clientID, p := range payload.Presences {
			rc.UpdateOther(clientID, p)
		}
	}
}

func (rc *RoomClient) sendMutation(mut store.Mutation) {
	payload, err := json.Marshal(MutatePayload{Mutation: mut})
	if err != nil {
		slog.Error("marshal mutation", "error", err)
		return
	}
	rc.write(&Message{Type: TypeBoardMutate, Payload: payload})
}

func (rc *RoomClient) sendPresence(p store.Presence) {
	payload, err := json.Marshal(struct {
		Presence store.Presence `json:"presence"`
	}{p})
	if err != nil {
		return
	}
	rc.write(&Message{Type: TypePresenceUpdate, Payload: payload})
}

func (rc *RoomClient) write(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshal room message", "error", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), writeWait)
	defer cancel()
	if err := rc.conn.Write(ctx, websocket.MessageText, data); err != nil {
		slog.Debug("room write error", "error", err)
	}
}
