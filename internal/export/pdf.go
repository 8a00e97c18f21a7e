// Package export renders a room's board to PDF on the server.
package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/openboard/openboard/internal/board"
	"github.com/openboard/openboard/internal/geom"
)

const pageMargin = 10 // mm

// WritePDF renders the board onto a single A4 landscape page, scaled to fit.
// Images are drawn as captioned placeholder boxes; the PDF is a layout
// reference, not a pixel-perfect render.
func WritePDF(w io.Writer, st *board.State) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetDrawColor(40, 40, 40)
	pdf.SetFont("Helvetica", "", 6)

	pageW, pageH := pdf.GetPageSize()
	fit := fitTransform(contentBounds(st), pageW-2*pageMargin, pageH-2*pageMargin)

	for _, im := range st.Images {
		b := im.Bounds()
		x, y := fit.apply(b.X, b.Y)
		pdf.SetFillColor(230, 230, 230)
		pdf.Rect(x, y, b.Width*fit.scale, b.Height*fit.scale, "FD")
		pdf.Text(x+1, y+3, im.URL)
	}

	for _, s := range st.Shapes {
		drawShape(pdf, s, fit)
	}

	pdf.SetLineWidth(0.4)
	for _, l := range st.Lines {
		drawPolyline(pdf, l.Points, fit)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func drawShape(pdf *gofpdf.Fpdf, s board.Shape, fit transform) {
	pdf.SetLineWidth(0.4)
	switch s.Kind {
	case board.KindRectangle:
		b := s.Bounds()
		x, y := fit.apply(b.X, b.Y)
		pdf.Rect(x, y, b.Width*fit.scale, b.Height*fit.scale, "D")
	case board.KindCircle:
		x, y := fit.apply(s.X, s.Y)
		r := s.Bounds().Width / 2 * fit.scale
		pdf.Circle(x, y, r, "D")
	default:
		drawPolyline(pdf, s.Points, fit)
	}
}

func drawPolyline(pdf *gofpdf.Fpdf, points []float64, fit transform) {
	for i := 2; i+1 < len(points); i += 2 {
		x0, y0 := fit.apply(points[i-2], points[i-1])
		x1, y1 := fit.apply(points[i], points[i+1])
		pdf.Line(x0, y0, x1, y1)
	}
}

type transform struct {
	offsetX, offsetY float64
	scale            float64
}

func (t transform) apply(x, y float64) (float64, float64) {
	return pageMargin + (x-t.offsetX)*t.scale, pageMargin + (y-t.offsetY)*t.scale
}

func fitTransform(bounds geom.Rect, maxW, maxH float64) transform {
	scale := 1.0
	if bounds.Width > 0 && bounds.Height > 0 {
		scale = min(maxW/bounds.Width, maxH/bounds.Height)
	}
	if scale > 1 {
		scale = 1
	}
	return transform{offsetX: bounds.X, offsetY: bounds.Y, scale: scale}
}

func contentBounds(st *board.State) geom.Rect {
	var bounds geom.Rect
	first := true
	expand := func(r geom.Rect) {
		if first {
			bounds = r
			first = false
		} else {
			bounds = bounds.Union(r)
		}
	}
	for _, im := range st.Images {
		expand(im.Bounds())
	}
	for _, s := range st.Shapes {
		expand(s.Bounds())
	}
	for _, l := range st.Lines {
		expand(l.Bounds())
	}
	return bounds
}
