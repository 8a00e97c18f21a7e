package canvas

import (
	"github.com/openboard/openboard/internal/board"
	"github.com/openboard/openboard/internal/geom"
	"github.com/openboard/openboard/internal/typeid"
)

// Clipboard is a single local slot. Copy overwrites it; it is never shared
// with other participants.
type Clipboard struct {
	images []board.PlacedImage
	shapes []board.Shape
	lines  []board.Line
	ref    geom.Point
	filled bool
}

// Copy stores deep copies of the selected entities, in stacking order. The
// reference point for paste rebasing is the first copied entity's own origin
// (first point for freehand lines).
func (cb *Clipboard) Copy(st *board.State, selected map[string]struct{}) {
	cb.images = cb.images[:0]
	cb.shapes = cb.shapes[:0]
	cb.lines = cb.lines[:0]
	cb.filled = false

	for _, im := range st.Images {
		if _, ok := selected[im.ID]; ok {
			cb.push(geom.Point{X: im.X, Y: im.Y})
			cb.images = append(cb.images, im)
		}
	}
	for _, s := range st.Shapes {
		if _, ok := selected[s.ID]; ok {
			cb.push(geom.Point{X: s.X, Y: s.Y})
			s.Points = append([]float64(nil), s.Points...)
			cb.shapes = append(cb.shapes, s)
		}
	}
	for _, l := range st.Lines {
		if _, ok := selected[l.ID]; ok {
			ref := geom.Point{}
			if len(l.Points) >= 2 {
				ref = geom.Point{X: l.Points[0], Y: l.Points[1]}
			}
			cb.push(ref)
			l.Points = append([]float64(nil), l.Points...)
			cb.lines = append(cb.lines, l)
		}
	}
}

func (cb *Clipboard) push(ref geom.Point) {
	if !cb.filled {
		cb.ref = ref
		cb.filled = true
	}
}

// Empty reports whether the slot holds nothing to paste.
func (cb *Clipboard) Empty() bool { return !cb.filled }

// Paste returns fresh copies rebased so the reference entity lands at the
// paste point. Every pasted entity gets a newly minted id; ids are never
// reused. The returned id list is the selection after the paste.
func (cb *Clipboard) Paste(at geom.Point) ([]board.PlacedImage, []board.Shape, []board.Line, []string) {
	if !cb.filled {
		return nil, nil, nil, nil
	}

	dx := at.X - cb.ref.X
	dy := at.Y - cb.ref.Y
	var ids []string

	images := make([]board.PlacedImage, len(cb.images))
	for i, im := range cb.images {
		im.ID = typeid.NewImageID()
		im.X += dx
		im.Y += dy
		ids = append(ids, im.ID)
		images[i] = im
	}

	shapes := make([]board.Shape, len(cb.shapes))
	for i, s := range cb.shapes {
		s.ID = typeid.NewShapeID()
		s.Points = append([]float64(nil), s.Points...)
		geom.TranslatePoints(s.Points, dx, dy)
		s.X += dx
		s.Y += dy
		ids = append(ids, s.ID)
		shapes[i] = s
	}

	lines := make([]board.Line, len(cb.lines))
	for i, l := range cb.lines {
		l.ID = typeid.NewLineID()
		l.Points = append([]float64(nil), l.Points...)
		geom.TranslatePoints(l.Points, dx, dy)
		ids = append(ids, l.ID)
		lines[i] = l
	}

	return images, shapes, lines, ids
}
