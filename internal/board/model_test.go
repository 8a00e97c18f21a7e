package board

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openboard/openboard/internal/geom"
)

func TestPlacedImageBounds(t *testing.T) {
	im := PlacedImage{ID: "img_1", X: 10, Y: 20, Width: 300, Height: 150}
	assert.Equal(t, geom.Rect{X: 10, Y: 20, Width: 300, Height: 150}, im.Bounds())

	// unloaded images hit-test against the placeholder box
	im = PlacedImage{ID: "img_2", X: 5, Y: 5}
	assert.Equal(t, geom.Rect{X: 5, Y: 5, Width: PlaceholderImageSize, Height: PlaceholderImageSize}, im.Bounds())
}

func TestShapeBounds(t *testing.T) {
	circle := Shape{Kind: KindCircle, X: 100, Y: 100, Width: 60, Height: 60}
	assert.Equal(t, geom.Rect{X: 70, Y: 70, Width: 60, Height: 60}, circle.Bounds())

	// circles dragged leftward carry a negative width
	circle.Width = -60
	assert.Equal(t, geom.Rect{X: 70, Y: 70, Width: 60, Height: 60}, circle.Bounds())

	rect := Shape{Kind: KindRectangle, X: 50, Y: 50, Width: -20, Height: 30}
	assert.Equal(t, geom.Rect{X: 30, Y: 50, Width: 20, Height: 30}, rect.Bounds())

	star := Shape{Kind: KindStar, Points: []float64{0, -10, 10, 0, 0, 10, -10, 0}}
	assert.Equal(t, geom.Rect{X: -10, Y: -10, Width: 20, Height: 20}, star.Bounds())
}

func TestShapeKindPointBased(t *testing.T) {
	assert.False(t, KindRectangle.PointBased())
	assert.False(t, KindCircle.PointBased())
	assert.True(t, KindLine.PointBased())
	assert.True(t, KindArrow.PointBased())
	assert.True(t, KindStar.PointBased())
	assert.True(t, KindTriangle.PointBased())
}

func TestShapeWireFormat(t *testing.T) {
	s := Shape{ID: "shape_1", Kind: KindStar, X: 1, Y: 2, Points: []float64{1, 2}, Color: "#df4b26", StrokeWidth: 5}
	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"star"`)
	assert.Contains(t, string(data), `"strokeWidth":5`)

	var back Shape
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, s, back)
}

func TestStateClone(t *testing.T) {
	st := &State{
		Images: []PlacedImage{{ID: "img_1", X: 1}},
		Shapes: []Shape{{ID: "shape_1", Kind: KindLine, Points: []float64{0, 0, 1, 1}}},
		Lines:  []Line{{ID: "line_1", Points: []float64{2, 2}}},
	}
	cp := st.Clone()
	assert.Equal(t, st, cp)

	// mutations on the clone must not leak back
	cp.Images[0].X = 99
	cp.Shapes[0].Points[0] = 99
	cp.Lines[0].Points[0] = 99
	assert.Equal(t, 1.0, st.Images[0].X)
	assert.Equal(t, 0.0, st.Shapes[0].Points[0])
	assert.Equal(t, 2.0, st.Lines[0].Points[0])
}

func TestStateHasEntity(t *testing.T) {
	st := &State{
		Images: []PlacedImage{{ID: "img_1"}},
		Shapes: []Shape{{ID: "shape_1"}},
		Lines:  []Line{{ID: "line_1"}},
	}
	assert.True(t, st.HasEntity("img_1"))
	assert.True(t, st.HasEntity("shape_1"))
	assert.True(t, st.HasEntity("line_1"))
	assert.False(t, st.HasEntity("shape_2"))
}

func TestDefaultLayout(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	st := DefaultLayout(now)

	require.Len(t, st.Images, 3)
	assert.Equal(t, "2026-03-01T12:00:00Z", st.CreatedAt)
	assert.Empty(t, st.Shapes)
	assert.Empty(t, st.Lines)

	wantPos := [][2]float64{{1000, 1000}, {2200, 1000}, {1000, 2200}}
	seen := map[string]bool{}
	for i, im := range st.Images {
		assert.Equal(t, wantPos[i][0], im.X)
		assert.Equal(t, wantPos[i][1], im.Y)
		assert.NotEmpty(t, im.URL)
		assert.False(t, seen[im.ID], "duplicate image id")
		seen[im.ID] = true
	}
}
