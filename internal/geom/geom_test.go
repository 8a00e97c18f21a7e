package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRectFromPoints(t *testing.T) {
	r := RectFromPoints(Point{X: 100, Y: 200}, Point{X: 40, Y: 260})
	assert.Equal(t, Rect{X: 40, Y: 200, Width: 60, Height: 60}, r)

	// degenerate span still normalizes
	r = RectFromPoints(Point{X: 5, Y: 5}, Point{X: 5, Y: 5})
	assert.Equal(t, Rect{X: 5, Y: 5}, r)
}

func TestRectNormalized(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: -4, Height: -6}.Normalized()
	assert.Equal(t, Rect{X: 6, Y: 4, Width: 4, Height: 6}, r)

	r = Rect{X: 1, Y: 2, Width: 3, Height: 4}
	assert.Equal(t, r, r.Normalized())
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	assert.True(t, r.Contains(0, 0))
	assert.True(t, r.Contains(10, 10))
	assert.True(t, r.Contains(5, 5))
	assert.False(t, r.Contains(10.01, 5))
	assert.False(t, r.Contains(5, -0.01))
}

func TestRectIntersects(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	assert.True(t, a.Intersects(Rect{X: 5, Y: 5, Width: 10, Height: 10}))
	assert.True(t, a.Intersects(Rect{X: 10, Y: 10, Width: 5, Height: 5})) // touching edge
	assert.False(t, a.Intersects(Rect{X: 11, Y: 0, Width: 5, Height: 5}))
}

func TestRectUnion(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	b := Rect{X: 20, Y: 5, Width: 10, Height: 10}
	assert.Equal(t, Rect{X: 0, Y: 0, Width: 30, Height: 15}, a.Union(b))

	// zero-extent rects still contribute their position: a flat line's
	// bounding box has zero height but must widen the union
	flat := Rect{X: 30, Y: 10, Width: 20, Height: 0}
	assert.Equal(t, Rect{X: 0, Y: 0, Width: 50, Height: 10}, a.Union(flat))

	point := Rect{X: -5, Y: -5}
	assert.Equal(t, Rect{X: -5, Y: -5, Width: 15, Height: 15}, a.Union(point))
}

func TestRectPadAndCenter(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 30, Height: 40}
	assert.Equal(t, Rect{X: 5, Y: 15, Width: 40, Height: 50}, r.Pad(5))
	assert.Equal(t, Point{X: 25, Y: 40}, r.Center())
}

func TestPointsBounds(t *testing.T) {
	r := PointsBounds([]float64{10, 20, -5, 40, 30, 0})
	assert.Equal(t, Rect{X: -5, Y: 0, Width: 35, Height: 40}, r)

	assert.Equal(t, Rect{}, PointsBounds(nil))
	assert.Equal(t, Rect{X: 3, Y: 4}, PointsBounds([]float64{3, 4}))
}

func TestTranslatePoints(t *testing.T) {
	pts := []float64{0, 0, 10, 20}
	TranslatePoints(pts, 5, -5)
	assert.Equal(t, []float64{5, -5, 15, 15}, pts)
}

func TestAnyPointIn(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	assert.True(t, AnyPointIn([]float64{-5, -5, 5, 5}, r))
	assert.False(t, AnyPointIn([]float64{-5, -5, 15, 15}, r)) // edge crosses, no vertex inside
	assert.False(t, AnyPointIn(nil, r))
}
