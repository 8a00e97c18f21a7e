package board

import (
	"math"
	"time"

	"github.com/openboard/openboard/internal/geom"
)

// PlacedImage is a bitmap placed on the canvas. Width/Height are zero until
// the asset's natural dimensions are known; hit-testing falls back to the
// placeholder box until then.
type PlacedImage struct {
	ID     string  `json:"id"`
	URL    string  `json:"url"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// PlaceholderImageSize is the bounding box used for an image whose asset has
// not loaded yet.
const PlaceholderImageSize = 200

// Bounds returns the image's world-space bounding box.
func (im PlacedImage) Bounds() geom.Rect {
	w, h := im.Width, im.Height
	if w == 0 {
		w = PlaceholderImageSize
	}
	if h == 0 {
		h = PlaceholderImageSize
	}
	return geom.Rect{X: im.X, Y: im.Y, Width: w, Height: h}
}

type ShapeKind string

const (
	KindRectangle ShapeKind = "rectangle"
	KindCircle    ShapeKind = "circle"
	KindLine      ShapeKind = "line"
	KindArrow     ShapeKind = "arrow"
	KindStar      ShapeKind = "star"
	KindTriangle  ShapeKind = "triangle"
)

// PointBased reports whether the kind's geometry is authoritatively held in
// its Points list rather than the (x, y, width, height) box.
func (k ShapeKind) PointBased() bool {
	switch k {
	case KindLine, KindArrow, KindStar, KindTriangle:
		return true
	}
	return false
}

// Shape is a vector shape. For rectangle and circle kinds the box fully
// determines geometry (circle radius = |width|/2 centered at (x, y)). For
// point-based kinds Points is the authoritative flattened vertex list and
// width/height are kept as the construction drag delta.
type Shape struct {
	ID          string    `json:"id"`
	Kind        ShapeKind `json:"type"`
	X           float64   `json:"x"`
	Y           float64   `json:"y"`
	Width       float64   `json:"width"`
	Height      float64   `json:"height"`
	Points      []float64 `json:"points,omitempty"`
	Color       string    `json:"color"`
	StrokeWidth float64   `json:"strokeWidth"`
}

// Bounds returns the shape's world-space bounding box.
func (s Shape) Bounds() geom.Rect {
	switch s.Kind {
	case KindCircle:
		r := math.Abs(s.Width) / 2
		return geom.Rect{X: s.X - r, Y: s.Y - r, Width: 2 * r, Height: 2 * r}
	case KindRectangle:
		return geom.Rect{X: s.X, Y: s.Y, Width: s.Width, Height: s.Height}.Normalized()
	default:
		return geom.PointsBounds(s.Points)
	}
}

// Line is a freehand pen stroke.
type Line struct {
	ID     string    `json:"id"`
	Points []float64 `json:"points"`
	Color  string    `json:"color"`
	Width  float64   `json:"width"`
}

// Bounds returns the stroke's world-space bounding box.
func (l Line) Bounds() geom.Rect {
	return geom.PointsBounds(l.Points)
}

// State is the shared room document replicated across all participants.
// Array order is stacking order: later entries draw on top. This is the
// literal wire shape for sync messages and backup JSON.
type State struct {
	Images    []PlacedImage `json:"images"`
	Shapes    []Shape       `json:"shapes"`
	Lines     []Line        `json:"lines"`
	CreatedAt string        `json:"createdAt,omitempty"`
}

// Clone returns a deep copy. Snapshots and optimistic replicas must never
// alias the slices of the state they were taken from.
func (st *State) Clone() *State {
	cp := &State{
		Images:    make([]PlacedImage, len(st.Images)),
		Shapes:    make([]Shape, len(st.Shapes)),
		Lines:     make([]Line, len(st.Lines)),
		CreatedAt: st.CreatedAt,
	}
	copy(cp.Images, st.Images)
	for i, s := range st.Shapes {
		s.Points = append([]float64(nil), s.Points...)
		cp.Shapes[i] = s
	}
	for i, l := range st.Lines {
		l.Points = append([]float64(nil), l.Points...)
		cp.Lines[i] = l
	}
	return cp
}

// HasEntity reports whether id refers to a live image, shape or line.
func (st *State) HasEntity(id string) bool {
	for _, im := range st.Images {
		if im.ID == id {
			return true
		}
	}
	for _, s := range st.Shapes {
		if s.ID == id {
			return true
		}
	}
	for _, l := range st.Lines {
		if l.ID == id {
			return true
		}
	}
	return false
}

// NewState returns an empty board stamped with the creation time.
func NewState(now time.Time) *State {
	return &State{
		Images:    []PlacedImage{},
		Shapes:    []Shape{},
		Lines:     []Line{},
		CreatedAt: now.UTC().Format(time.RFC3339),
	}
}
