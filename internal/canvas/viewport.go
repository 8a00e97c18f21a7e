package canvas

import (
	"math"
	"time"

	"github.com/openboard/openboard/internal/geom"
)

// Viewport is the pan+uniform-scale transform from world space to screen
// space. It is per-client state: never written to shared storage, only
// captured into local history snapshots.
type Viewport struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Scale float64 `json:"scale"`
}

const (
	MinScale = 0.1
	MaxScale = 5.0

	// viewportThrottle bounds continuous gesture writes to roughly one
	// animation frame. Writes inside the window are dropped, not queued.
	viewportThrottle = 16 * time.Millisecond

	// ShiftPanMultiplier speeds up wheel panning while Shift is held.
	ShiftPanMultiplier = 3

	wheelZoomSensitivity = 0.002
)

// ScreenToWorld converts a surface-local pixel position to world space.
func (v Viewport) ScreenToWorld(p geom.Point) geom.Point {
	return geom.Point{X: (p.X - v.X) / v.Scale, Y: (p.Y - v.Y) / v.Scale}
}

// WorldToScreen converts a world position to surface-local pixels.
func (v Viewport) WorldToScreen(p geom.Point) geom.Point {
	return geom.Point{X: p.X*v.Scale + v.X, Y: p.Y*v.Scale + v.Y}
}

// WheelZoomFactor derives a multiplicative zoom factor from a wheel delta, so
// a faster wheel zooms proportionally faster. Scrolling up (negative delta)
// zooms in.
func WheelZoomFactor(deltaY float64) float64 {
	return math.Exp(-deltaY * wheelZoomSensitivity)
}

// ViewportController owns the viewport and throttles continuous writes.
type ViewportController struct {
	v    Viewport
	now  func() time.Time
	last time.Time
}

func NewViewportController(now func() time.Time) *ViewportController {
	if now == nil {
		now = time.Now
	}
	return &ViewportController{
		v:   Viewport{Scale: 1},
		now: now,
	}
}

// Viewport returns the current transform.
func (c *ViewportController) Viewport() Viewport {
	return c.v
}

// Set installs a viewport directly, bypassing the gesture throttle. Used for
// undo/redo restore and explicit zoom controls.
func (c *ViewportController) Set(v Viewport) {
	v.Scale = clampScale(v.Scale)
	c.v = v
}

// PanBy shifts the viewport by a screen-space delta. Throttled.
func (c *ViewportController) PanBy(dx, dy float64) {
	if !c.allow() {
		return
	}
	c.v.X += dx
	c.v.Y += dy
}

// ZoomAt rescales around a screen point so the world point under the cursor
// stays under the cursor. Throttled.
func (c *ViewportController) ZoomAt(screen geom.Point, factor float64) {
	if !c.allow() {
		return
	}
	newScale := clampScale(c.v.Scale * factor)
	world := c.v.ScreenToWorld(screen)
	c.v = Viewport{
		X:     screen.X - world.X*newScale,
		Y:     screen.Y - world.Y*newScale,
		Scale: newScale,
	}
}

func (c *ViewportController) allow() bool {
	n := c.now()
	if n.Sub(c.last) < viewportThrottle {
		return false
	}
	c.last = n
	return true
}

func clampScale(s float64) float64 {
	if s < MinScale {
		return MinScale
	}
	if s > MaxScale {
		return MaxScale
	}
	return s
}
