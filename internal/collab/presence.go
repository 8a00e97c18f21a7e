package collab

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/openboard/openboard/internal/store"
)

// PresenceManager tracks the last known presence of each connection in a
// room. Presence is ephemeral: it lives only as long as the connection.
type PresenceManager struct {
	mu        sync.RWMutex
	presences map[string]store.Presence // clientID -> presence
}

func NewPresenceManager() *PresenceManager {
	return &PresenceManager{
		presences: make(map[string]store.Presence),
	}
}

func (pm *PresenceManager) Update(clientID string, p store.Presence) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.presences[clientID] = p
}

func (pm *PresenceManager) Remove(clientID string) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	delete(pm.presences, clientID)
}

func (pm *PresenceManager) GetAll() map[string]store.Presence {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	result := make(map[string]store.Presence, len(pm.presences))
	for k, v := range pm.presences {
		result[k] = v
	}
	return result
}

// StateMessage builds the presence.state message sent to a joining client.
func (pm *PresenceManager) StateMessage() *Message {
	payload, err := json.Marshal(PresenceStatePayload{Presences: pm.GetAll()})
	if err != nil {
		slog.Error("marshal presence state", "error", err)
		return nil
	}
	return &Message{
		Type:    TypePresenceState,
		Payload: payload,
	}
}
