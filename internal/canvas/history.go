package canvas

import "github.com/openboard/openboard/internal/board"

// HistoryEntry is a full snapshot of the board plus this client's viewport.
// Undo/redo reapply whole snapshots rather than inverse deltas; a local undo
// may therefore overwrite a remote participant's edit that landed between two
// local snapshots. That is an accepted limitation of linear snapshot history.
type HistoryEntry struct {
	Images   []board.PlacedImage
	Shapes   []board.Shape
	Lines    []board.Line
	Viewport Viewport
}

// History is a linear undo/redo log. The cursor points at the currently
// applied entry; entries past the cursor are redoable until the next commit
// discards them.
type History struct {
	entries []HistoryEntry
	cursor  int
}

// Commit truncates any redoable tail and appends the entry.
func (h *History) Commit(e HistoryEntry) {
	if len(h.entries) == 0 {
		h.entries = []HistoryEntry{e}
		h.cursor = 0
		return
	}
	h.entries = append(h.entries[:h.cursor+1], e)
	h.cursor = len(h.entries) - 1
}

func (h *History) CanUndo() bool { return h.cursor > 0 }

func (h *History) CanRedo() bool {
	return len(h.entries) > 0 && h.cursor < len(h.entries)-1
}

// Undo steps the cursor back and returns the entry to reapply.
func (h *History) Undo() (HistoryEntry, bool) {
	if !h.CanUndo() {
		return HistoryEntry{}, false
	}
	h.cursor--
	return h.entries[h.cursor], true
}

// Redo steps the cursor forward and returns the entry to reapply.
func (h *History) Redo() (HistoryEntry, bool) {
	if !h.CanRedo() {
		return HistoryEntry{}, false
	}
	h.cursor++
	return h.entries[h.cursor], true
}

func (h *History) Len() int    { return len(h.entries) }
func (h *History) Cursor() int { return h.cursor }
