package canvas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openboard/openboard/internal/board"
	"github.com/openboard/openboard/internal/store"
)

func TestCompileDrawCommandsPaintersOrder(t *testing.T) {
	e, _, _ := newTestEngine(&board.State{
		Images: []board.PlacedImage{{ID: "img_a", X: 0, Y: 0, Width: 100, Height: 100}},
		Shapes: []board.Shape{{ID: "shape_a", Kind: board.KindRectangle, X: 10, Y: 10, Width: 20, Height: 20}},
		Lines:  []board.Line{{ID: "line_a", Points: []float64{1, 2, 3, 4}, Color: "#000", Width: 2}},
	})

	cmds := e.CompileDrawCommands()
	require.Len(t, cmds, 3)
	assert.Equal(t, "image", cmds[0].Op)
	assert.Equal(t, "rect", cmds[1].Op)
	assert.Equal(t, "polyline", cmds[2].Op)
	assert.Equal(t, []float64{1, 2, 3, 4}, cmds[2].Points)
}

func TestCompileDrawCommandsAppliesViewport(t *testing.T) {
	e, _, _ := newTestEngine(&board.State{
		Shapes: []board.Shape{
			{ID: "shape_rect", Kind: board.KindRectangle, X: 10, Y: 10, Width: 20, Height: 20, StrokeWidth: 5},
			{ID: "shape_circle", Kind: board.KindCircle, X: 100, Y: 100, Width: 40, Height: 40},
		},
	})
	e.SetViewport(Viewport{X: 50, Y: 60, Scale: 2})

	cmds := e.CompileDrawCommands()
	require.Len(t, cmds, 2)

	rect := cmds[0]
	assert.Equal(t, 70.0, rect.X)
	assert.Equal(t, 80.0, rect.Y)
	assert.Equal(t, 40.0, rect.Width)
	assert.Equal(t, 10.0, rect.StrokeWidth)

	circle := cmds[1]
	assert.Equal(t, "circle", circle.Op)
	assert.Equal(t, 250.0, circle.X)
	assert.Equal(t, 40.0, circle.Radius)
}

func TestCompileDrawCommandsOverlays(t *testing.T) {
	e, m, clock := newTestEngine(&board.State{
		Shapes: []board.Shape{
			{ID: "shape_a", Kind: board.KindRectangle, X: 0, Y: 0, Width: 50, Height: 50},
			{ID: "shape_b", Kind: board.KindRectangle, X: 100, Y: 100, Width: 50, Height: 50},
		},
	})

	// multi-selection produces a group handle
	e.PointerDown(pt(-10, -10), Modifiers{})
	e.PointerMove(pt(200, 200), Modifiers{})
	e.PointerUp(pt(200, 200), Modifiers{})

	c1 := pt(5, 5)
	m.UpdateOther("conn-z", store.Presence{Cursor: &c1, LastUpdate: clock.Now().UnixMilli(), DisplayName: "Zed"})
	c2 := pt(6, 6)
	m.UpdateOther("conn-a", store.Presence{Cursor: &c2, LastUpdate: clock.Now().UnixMilli()})

	cmds := e.CompileDrawCommands()
	require.Len(t, cmds, 5)
	assert.Equal(t, "groupHandle", cmds[2].Op)

	// remote cursors draw last, in stable id order
	assert.Equal(t, "cursor", cmds[3].Op)
	assert.Equal(t, "conn-a", cmds[3].ID)
	assert.Equal(t, "conn-z", cmds[4].ID)
	assert.Equal(t, "Zed", cmds[4].Label)
}

func TestCompileDrawCommandsMarqueeWhileDragging(t *testing.T) {
	e, _, _ := newTestEngine(&board.State{})

	e.PointerDown(pt(10, 10), Modifiers{})
	e.PointerMove(pt(60, 60), Modifiers{})

	cmds := e.CompileDrawCommands()
	require.Len(t, cmds, 1)
	assert.Equal(t, "marquee", cmds[0].Op)
	assert.Equal(t, 10.0, cmds[0].X)
	assert.Equal(t, 50.0, cmds[0].Width)

	e.PointerUp(pt(60, 60), Modifiers{})
	assert.Empty(t, e.CompileDrawCommands())
}

func TestRenderJSON(t *testing.T) {
	e, _, _ := newTestEngine(&board.State{
		Lines: []board.Line{{ID: "line_a", Points: []float64{0, 0, 1, 1}, Color: "#fff", Width: 1}},
	})

	var cmds []DrawCommand
	require.NoError(t, json.Unmarshal([]byte(e.Render()), &cmds))
	require.Len(t, cmds, 1)
	assert.Equal(t, "polyline", cmds[0].Op)

	// pending storage renders an empty buffer, not an error
	pending, _, _ := newTestEngine(nil)
	assert.Equal(t, "[]", pending.Render())
}
