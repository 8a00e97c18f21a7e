package canvas

import (
	"github.com/openboard/openboard/internal/board"
	"github.com/openboard/openboard/internal/geom"
	"github.com/openboard/openboard/internal/store"
)

// GroupPadding is the margin added around the aggregate bounding box of a
// multi-selection, in world units.
const GroupPadding = 5

// GroupBounds aggregates the bounding boxes of the selected entities, padded
// by GroupPadding. It returns ok=false when fewer than two selected entities
// exist: the group handle only appears for a true multi-selection.
func GroupBounds(st *board.State, selected map[string]struct{}) (geom.Rect, bool) {
	var bounds geom.Rect
	count := 0

	expand := func(r geom.Rect) {
		if count == 0 {
			bounds = r
		} else {
			bounds = bounds.Union(r)
		}
		count++
	}

	for _, im := range st.Images {
		if _, ok := selected[im.ID]; ok {
			expand(im.Bounds())
		}
	}
	for _, s := range st.Shapes {
		if _, ok := selected[s.ID]; ok {
			expand(s.Bounds())
		}
	}
	for _, l := range st.Lines {
		if _, ok := selected[l.ID]; ok {
			expand(l.Bounds())
		}
	}

	if count < 2 {
		return geom.Rect{}, false
	}
	return bounds.Pad(GroupPadding), true
}

// TranslateSelected builds the atomic batch mutation that moves every
// selected entity by (dx, dy): images and box shapes by their origin,
// point-based shapes and freehand lines by every vertex. All three
// collections are replaced in one mutation so a concurrent remote observer
// never sees a partially moved group.
func TranslateSelected(st *board.State, selected map[string]struct{}, dx, dy float64) store.Mutation {
	images := make([]board.PlacedImage, len(st.Images))
	for i, im := range st.Images {
		if _, ok := selected[im.ID]; ok {
			im.X += dx
			im.Y += dy
		}
		images[i] = im
	}

	shapes := make([]board.Shape, len(st.Shapes))
	for i, s := range st.Shapes {
		s.Points = append([]float64(nil), s.Points...)
		if _, ok := selected[s.ID]; ok {
			if s.Kind.PointBased() {
				geom.TranslatePoints(s.Points, dx, dy)
			}
			s.X += dx
			s.Y += dy
		}
		shapes[i] = s
	}

	lines := make([]board.Line, len(st.Lines))
	for i, l := range st.Lines {
		l.Points = append([]float64(nil), l.Points...)
		if _, ok := selected[l.ID]; ok {
			geom.TranslatePoints(l.Points, dx, dy)
		}
		lines[i] = l
	}

	return store.Mutation{Images: &images, Shapes: &shapes, Lines: &lines}
}
