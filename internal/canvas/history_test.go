package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openboard/openboard/internal/board"
)

func entry(lineID string) HistoryEntry {
	return HistoryEntry{Lines: []board.Line{{ID: lineID}}}
}

func TestHistoryEmpty(t *testing.T) {
	var h History
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())

	_, ok := h.Undo()
	assert.False(t, ok)
	_, ok = h.Redo()
	assert.False(t, ok)
}

func TestHistorySingleEntryIsFloor(t *testing.T) {
	var h History
	h.Commit(entry("a"))

	// the seed snapshot cannot be undone past
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())
}

func TestHistoryUndoRedo(t *testing.T) {
	var h History
	h.Commit(entry("a"))
	h.Commit(entry("b"))
	h.Commit(entry("c"))

	assert.True(t, h.CanUndo())

	e, ok := h.Undo()
	require.True(t, ok)
	assert.Equal(t, "b", e.Lines[0].ID)

	e, ok = h.Undo()
	require.True(t, ok)
	assert.Equal(t, "a", e.Lines[0].ID)
	assert.False(t, h.CanUndo())

	e, ok = h.Redo()
	require.True(t, ok)
	assert.Equal(t, "b", e.Lines[0].ID)

	e, ok = h.Redo()
	require.True(t, ok)
	assert.Equal(t, "c", e.Lines[0].ID)
	assert.False(t, h.CanRedo())
}

func TestHistoryCommitTruncatesRedoTail(t *testing.T) {
	var h History
	h.Commit(entry("a"))
	h.Commit(entry("b"))
	h.Commit(entry("c"))

	h.Undo()
	h.Undo()
	require.True(t, h.CanRedo())

	h.Commit(entry("d"))
	assert.False(t, h.CanRedo())
	assert.Equal(t, 2, h.Len())

	e, ok := h.Undo()
	require.True(t, ok)
	assert.Equal(t, "a", e.Lines[0].ID)
}

func TestHistoryViewportCaptured(t *testing.T) {
	var h History
	h.Commit(HistoryEntry{Viewport: Viewport{X: 1, Y: 2, Scale: 3}})
	h.Commit(HistoryEntry{Viewport: Viewport{X: 9, Scale: 1}})

	e, ok := h.Undo()
	require.True(t, ok)
	assert.Equal(t, Viewport{X: 1, Y: 2, Scale: 3}, e.Viewport)
}
