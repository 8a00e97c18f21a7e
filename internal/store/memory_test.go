package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openboard/openboard/internal/board"
	"github.com/openboard/openboard/internal/geom"
)

func TestMemoryPendingUntilInitial(t *testing.T) {
	m := NewMemory()

	_, ok := m.Read()
	assert.False(t, ok)

	// mutations before the initial sync are dropped, not queued
	shapes := []board.Shape{{ID: "shape_1"}}
	m.Apply(Mutation{Shapes: &shapes})
	_, ok = m.Read()
	assert.False(t, ok)

	m.SetInitial(&board.State{Shapes: []board.Shape{}})
	st, ok := m.Read()
	require.True(t, ok)
	assert.Empty(t, st.Shapes)
}

func TestMemoryApply(t *testing.T) {
	m := NewMemory()
	m.SetInitial(&board.State{
		Images: []board.PlacedImage{{ID: "img_1", X: 1}},
		Shapes: []board.Shape{{ID: "shape_1"}},
		Lines:  []board.Line{{ID: "line_1"}},
	})

	// nil fields leave their collections untouched
	images := []board.PlacedImage{{ID: "img_1", X: 50}, {ID: "img_2", X: 60}}
	m.Apply(Mutation{Images: &images})

	st, ok := m.Read()
	require.True(t, ok)
	require.Len(t, st.Images, 2)
	assert.Equal(t, 50.0, st.Images[0].X)
	assert.Len(t, st.Shapes, 1)
	assert.Len(t, st.Lines, 1)

	// the store must not alias the caller's slice
	images[0].X = -1
	st, _ = m.Read()
	assert.Equal(t, 50.0, st.Images[0].X)
}

func TestMemoryApplyBatch(t *testing.T) {
	m := NewMemory()
	m.SetInitial(&board.State{
		Shapes: []board.Shape{{ID: "shape_1"}},
		Lines:  []board.Line{{ID: "line_1"}},
	})

	shapes := []board.Shape{}
	lines := []board.Line{}
	m.Apply(Mutation{Shapes: &shapes, Lines: &lines})

	st, _ := m.Read()
	assert.Empty(t, st.Shapes)
	assert.Empty(t, st.Lines)
}

func TestMemorySink(t *testing.T) {
	m := NewMemory()
	m.SetInitial(&board.State{})

	var got []Mutation
	m.SetSink(func(mut Mutation) { got = append(got, mut) })

	lines := []board.Line{{ID: "line_1"}}
	m.Apply(Mutation{Lines: &lines})
	require.Len(t, got, 1)

	// remote mutations are local-only, never echoed back out
	m.ApplyRemote(Mutation{Lines: &lines})
	assert.Len(t, got, 1)
}

func TestMemorySubscribe(t *testing.T) {
	m := NewMemory()
	m.SetInitial(&board.State{})

	calls := 0
	cancel := m.Subscribe(func() { calls++ })

	lines := []board.Line{}
	m.Apply(Mutation{Lines: &lines})
	assert.Equal(t, 1, calls)

	cancel()
	m.Apply(Mutation{Lines: &lines})
	assert.Equal(t, 1, calls)
}

func TestMemoryOthers(t *testing.T) {
	m := NewMemory()

	cur := geom.Point{X: 10, Y: 20}
	m.UpdateOther("conn-a", Presence{Cursor: &cur, DisplayName: "Ada", LastUpdate: 100})
	m.UpdateOther("conn-b", Presence{DisplayName: "Grace", LastUpdate: 101})

	others := m.Others()
	require.Len(t, others, 2)

	m.RemoveOther("conn-a")
	others = m.Others()
	require.Len(t, others, 1)
	assert.Equal(t, "conn-b", others[0].ConnectionID)
	assert.Equal(t, "Grace", others[0].Presence.DisplayName)
}

func TestMemorySetPresenceForwards(t *testing.T) {
	m := NewMemory()

	var got *Presence
	m.SetPresenceSink(func(p Presence) { got = &p })

	cur := geom.Point{X: 1, Y: 2}
	m.SetPresence(Presence{Cursor: &cur, LastUpdate: 42})
	require.NotNil(t, got)
	assert.Equal(t, int64(42), got.LastUpdate)
}
