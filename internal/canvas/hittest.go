package canvas

import (
	"github.com/openboard/openboard/internal/board"
	"github.com/openboard/openboard/internal/geom"
)

// MarqueeHits returns the ids of all entities intersecting the selection
// rectangle, per kind:
//
//   - images and rectangles: AABB overlap
//   - circles: overlap against the bounding square (an approximation,
//     intentional for interactive selection)
//   - point-based shapes and freehand lines: any vertex inside the rect. A
//     shape whose edges cross the marquee without a vertex inside it is not
//     selected; that matches the interactive behavior this engine specifies.
func MarqueeHits(st *board.State, r geom.Rect) []string {
	var hits []string
	for _, im := range st.Images {
		if r.Intersects(im.Bounds()) {
			hits = append(hits, im.ID)
		}
	}
	for _, s := range st.Shapes {
		if shapeInMarquee(s, r) {
			hits = append(hits, s.ID)
		}
	}
	for _, l := range st.Lines {
		if geom.AnyPointIn(l.Points, r) {
			hits = append(hits, l.ID)
		}
	}
	return hits
}

func shapeInMarquee(s board.Shape, r geom.Rect) bool {
	switch s.Kind {
	case board.KindRectangle, board.KindCircle:
		return r.Intersects(s.Bounds())
	default:
		return geom.AnyPointIn(s.Points, r)
	}
}

// EntityAt returns the topmost entity whose bounding box contains the world
// point. Stacking order is lines over shapes over images, later array entries
// on top, so collections are walked back to front.
func EntityAt(st *board.State, p geom.Point) (string, bool) {
	for i := len(st.Lines) - 1; i >= 0; i-- {
		if st.Lines[i].Bounds().Contains(p.X, p.Y) {
			return st.Lines[i].ID, true
		}
	}
	for i := len(st.Shapes) - 1; i >= 0; i-- {
		if st.Shapes[i].Bounds().Contains(p.X, p.Y) {
			return st.Shapes[i].ID, true
		}
	}
	for i := len(st.Images) - 1; i >= 0; i-- {
		if st.Images[i].Bounds().Contains(p.X, p.Y) {
			return st.Images[i].ID, true
		}
	}
	return "", false
}
