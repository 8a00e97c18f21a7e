package geom

import "math"

const (
	// ArrowHeadLength is the length of each arrowhead wing in world units.
	ArrowHeadLength = 20
	// ArrowHeadAngle is the angle between the shaft and each wing.
	ArrowHeadAngle = math.Pi / 6

	// StarInnerRatio is the inner radius of a star as a fraction of its outer radius.
	StarInnerRatio = 0.4
	starSpokes     = 5
)

// LinePoints returns the two-point segment from the anchor to the current point.
func LinePoints(x0, y0, x1, y1 float64) []float64 {
	return []float64{x0, y0, x1, y1}
}

// ArrowPoints returns the polyline for an arrow glyph from (x0,y0) to (x1,y1):
// shaft start, tip, back-left wing, tip again, back-right wing. The head is an
// open glyph, not a filled triangle.
func ArrowPoints(x0, y0, x1, y1 float64) []float64 {
	angle := math.Atan2(y1-y0, x1-x0)
	return []float64{
		x0, y0,
		x1, y1,
		x1 - ArrowHeadLength*math.Cos(angle-ArrowHeadAngle),
		y1 - ArrowHeadLength*math.Sin(angle-ArrowHeadAngle),
		x1, y1,
		x1 - ArrowHeadLength*math.Cos(angle+ArrowHeadAngle),
		y1 - ArrowHeadLength*math.Sin(angle+ArrowHeadAngle),
	}
}

// StarPoints returns the 10 vertices (20 values) of a five-point star centered
// at (cx, cy). Vertices alternate between the outer and inner radius at 36°
// steps, starting at -90° so the first spoke points up.
func StarPoints(cx, cy, size float64) []float64 {
	points := make([]float64, 0, starSpokes*4)
	step := math.Pi / starSpokes
	for i := 0; i < starSpokes*2; i++ {
		r := size
		if i%2 == 1 {
			r = size * StarInnerRatio
		}
		a := -math.Pi/2 + float64(i)*step
		points = append(points, cx+r*math.Cos(a), cy+r*math.Sin(a))
	}
	return points
}

// TrianglePoints returns an isoceles triangle spanning the signed box
// (x, y, width, height), apex horizontally centered over the box.
func TrianglePoints(x, y, width, height float64) []float64 {
	return []float64{
		x + width/2, y,
		x + width, y + height,
		x, y + height,
	}
}

// CircleRadius is the drag-to-radius rule: the radius of a circle under
// construction is the Euclidean distance from its anchor to the pointer, not
// half the bounding-box diagonal.
func CircleRadius(anchor, pointer Point) float64 {
	return anchor.Dist(pointer)
}
