package collab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openboard/openboard/internal/board"
	"github.com/openboard/openboard/internal/store"
)

func TestRoomStateApply(t *testing.T) {
	rs := NewRoomState(&board.State{
		Shapes: []board.Shape{{ID: "shape_a"}},
		Lines:  []board.Line{{ID: "line_a"}},
	})

	shapes := []board.Shape{{ID: "shape_b"}, {ID: "shape_c"}}
	seq := rs.Apply(store.Mutation{Shapes: &shapes})
	assert.Equal(t, int64(1), seq)

	st, gotSeq := rs.Snapshot()
	assert.Equal(t, int64(1), gotSeq)

	// named collections are replaced wholesale, last writer wins
	require.Len(t, st.Shapes, 2)
	assert.Equal(t, "shape_b", st.Shapes[0].ID)
	// unnamed collections survive
	require.Len(t, st.Lines, 1)

	// sequence numbers are strictly increasing per room
	lines := []board.Line{}
	assert.Equal(t, int64(2), rs.Apply(store.Mutation{Lines: &lines}))
}

func TestRoomStateSnapshotIsDetached(t *testing.T) {
	rs := NewRoomState(&board.State{
		Lines: []board.Line{{ID: "line_a", Points: []float64{1, 2}}},
	})

	st, _ := rs.Snapshot()
	st.Lines[0].Points[0] = 99

	again, _ := rs.Snapshot()
	assert.Equal(t, 1.0, again.Lines[0].Points[0])
}

func TestRoomStateTakeDirty(t *testing.T) {
	rs := NewRoomState(&board.State{})

	_, dirty := rs.TakeDirty()
	assert.False(t, dirty)

	images := []board.PlacedImage{{ID: "img_a"}}
	rs.Apply(store.Mutation{Images: &images})

	st, dirty := rs.TakeDirty()
	require.True(t, dirty)
	assert.Len(t, st.Images, 1)

	// taking clears the flag until the next apply
	_, dirty = rs.TakeDirty()
	assert.False(t, dirty)
}
