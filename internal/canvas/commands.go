package canvas

import (
	"encoding/json"
	"sort"

	"github.com/openboard/openboard/internal/board"
)

// DrawCommand is a single primitive for the drawing surface to execute. All
// coordinates are screen space, already run through the viewport transform.
// Commands are emitted in painter's order.
type DrawCommand struct {
	Op          string    `json:"op"` // "image", "rect", "circle", "polyline", "marquee", "groupHandle", "cursor"
	ID          string    `json:"id,omitempty"`
	X           float64   `json:"x,omitempty"`
	Y           float64   `json:"y,omitempty"`
	Width       float64   `json:"width,omitempty"`
	Height      float64   `json:"height,omitempty"`
	Radius      float64   `json:"radius,omitempty"`
	Points      []float64 `json:"points,omitempty"`
	Color       string    `json:"color,omitempty"`
	StrokeWidth float64   `json:"strokeWidth,omitempty"`
	URL         string    `json:"url,omitempty"`
	Label       string    `json:"label,omitempty"`
	Selected    bool      `json:"selected,omitempty"`
}

// CompileDrawCommands flattens the board, the local overlays and the remote
// cursors into a screen-space command buffer. Collection order is stacking
// order: images under shapes under freehand lines, later entries on top.
func (e *Engine) CompileDrawCommands() []DrawCommand {
	st, ok := e.state()
	if !ok {
		return nil
	}
	v := e.viewport.Viewport()
	e.pruneSelection(st)

	var cmds []DrawCommand
	selected := func(id string) bool {
		_, ok := e.selection[id]
		return ok
	}

	for _, im := range st.Images {
		b := im.Bounds()
		cmds = append(cmds, DrawCommand{
			Op:       "image",
			ID:       im.ID,
			X:        b.X*v.Scale + v.X,
			Y:        b.Y*v.Scale + v.Y,
			Width:    b.Width * v.Scale,
			Height:   b.Height * v.Scale,
			URL:      im.URL,
			Selected: selected(im.ID),
		})
	}

	for _, s := range st.Shapes {
		cmds = append(cmds, e.compileShape(s, v, selected(s.ID)))
	}

	for _, l := range st.Lines {
		cmds = append(cmds, DrawCommand{
			Op:          "polyline",
			ID:          l.ID,
			Points:      transformPoints(l.Points, v),
			Color:       l.Color,
			StrokeWidth: l.Width * v.Scale,
			Selected:    selected(l.ID),
		})
	}

	if r, ok := e.Marquee(); ok {
		cmds = append(cmds, DrawCommand{
			Op:     "marquee",
			X:      r.X*v.Scale + v.X,
			Y:      r.Y*v.Scale + v.Y,
			Width:  r.Width * v.Scale,
			Height: r.Height * v.Scale,
		})
	}

	if gb, ok := GroupBounds(st, e.selection); ok {
		cmds = append(cmds, DrawCommand{
			Op:     "groupHandle",
			X:      gb.X*v.Scale + v.X,
			Y:      gb.Y*v.Scale + v.Y,
			Width:  gb.Width * v.Scale,
			Height: gb.Height * v.Scale,
		})
	}

	cursors := e.RemoteCursors()
	sort.Slice(cursors, func(i, j int) bool { return cursors[i].ConnectionID < cursors[j].ConnectionID })
	for _, c := range cursors {
		p := v.WorldToScreen(c.Position)
		cmds = append(cmds, DrawCommand{
			Op:    "cursor",
			ID:    c.ConnectionID,
			X:     p.X,
			Y:     p.Y,
			Label: c.DisplayName,
		})
	}

	return cmds
}

func (e *Engine) compileShape(s board.Shape, v Viewport, sel bool) DrawCommand {
	switch s.Kind {
	case board.KindRectangle:
		return DrawCommand{
			Op:          "rect",
			ID:          s.ID,
			X:           s.X*v.Scale + v.X,
			Y:           s.Y*v.Scale + v.Y,
			Width:       s.Width * v.Scale,
			Height:      s.Height * v.Scale,
			Color:       s.Color,
			StrokeWidth: s.StrokeWidth * v.Scale,
			Selected:    sel,
		}
	case board.KindCircle:
		return DrawCommand{
			Op:          "circle",
			ID:          s.ID,
			X:           s.X*v.Scale + v.X,
			Y:           s.Y*v.Scale + v.Y,
			Radius:      s.Bounds().Width / 2 * v.Scale,
			Color:       s.Color,
			StrokeWidth: s.StrokeWidth * v.Scale,
			Selected:    sel,
		}
	default:
		return DrawCommand{
			Op:          "polyline",
			ID:          s.ID,
			Points:      transformPoints(s.Points, v),
			Color:       s.Color,
			StrokeWidth: s.StrokeWidth * v.Scale,
			Selected:    sel,
		}
	}
}

func transformPoints(points []float64, v Viewport) []float64 {
	out := make([]float64, len(points))
	for i := 0; i+1 < len(points); i += 2 {
		out[i] = points[i]*v.Scale + v.X
		out[i+1] = points[i+1]*v.Scale + v.Y
	}
	return out
}

// Render returns the draw command buffer as JSON, for the js/wasm bridge.
func (e *Engine) Render() string {
	cmds := e.CompileDrawCommands()
	if cmds == nil {
		return "[]"
	}
	data, err := json.Marshal(cmds)
	if err != nil {
		return "[]"
	}
	return string(data)
}
