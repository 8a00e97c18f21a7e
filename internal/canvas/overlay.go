package canvas

import (
	"time"

	"github.com/openboard/openboard/internal/geom"
)

// PresenceStaleAfter is the staleness cutoff for remote cursors. A presence
// update older than this is treated as "not moving" and hidden. Rendering
// policy only, not a network timeout.
const PresenceStaleAfter = 5 * time.Second

// RemoteCursor is another participant's live cursor, in world coordinates.
type RemoteCursor struct {
	ConnectionID string     `json:"connectionId"`
	Position     geom.Point `json:"position"`
	DisplayName  string     `json:"displayName,omitempty"`
}

// RemoteCursors returns the cursors of other participants whose presence is
// fresh enough to draw.
func (e *Engine) RemoteCursors() []RemoteCursor {
	cutoff := e.now().Add(-PresenceStaleAfter).UnixMilli()
	var out []RemoteCursor
	for _, p := range e.store.Others() {
		if p.Presence.Cursor == nil || p.Presence.LastUpdate < cutoff {
			continue
		}
		out = append(out, RemoteCursor{
			ConnectionID: p.ConnectionID,
			Position:     *p.Presence.Cursor,
			DisplayName:  p.Presence.DisplayName,
		})
	}
	return out
}
