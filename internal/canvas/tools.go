package canvas

import "github.com/openboard/openboard/internal/board"

// Tool is the active toolbar tool. Transitions between tools happen only by
// explicit selection, never inferred from pointer input.
type Tool string

const (
	ToolSelect    Tool = "select"
	ToolHand      Tool = "hand"
	ToolPen       Tool = "pen"
	ToolRectangle Tool = "rectangle"
	ToolCircle    Tool = "circle"
	ToolLine      Tool = "line"
	ToolArrow     Tool = "arrow"
	ToolStar      Tool = "star"
	ToolTriangle  Tool = "triangle"
)

// ShapeKind maps a shape-construction tool to the kind it draws.
func (t Tool) ShapeKind() (board.ShapeKind, bool) {
	switch t {
	case ToolRectangle:
		return board.KindRectangle, true
	case ToolCircle:
		return board.KindCircle, true
	case ToolLine:
		return board.KindLine, true
	case ToolArrow:
		return board.KindArrow, true
	case ToolStar:
		return board.KindStar, true
	case ToolTriangle:
		return board.KindTriangle, true
	}
	return "", false
}

// Modifiers are the keyboard modifiers accompanying a pointer or key event.
type Modifiers struct {
	Shift bool `json:"shift"`
	Ctrl  bool `json:"ctrl"`
	Meta  bool `json:"meta"`
}

// Primary reports the platform primary modifier (Ctrl, or Cmd on mac).
func (m Modifiers) Primary() bool { return m.Ctrl || m.Meta }

// InteractionMode is the explicit rule coupling selection count to
// draggability: one selected entity drags itself, two or more drag only
// through the synthetic group handle.
type InteractionMode int

const (
	ModeIdle InteractionMode = iota
	ModeEntity
	ModeGroup
)

// gestureKind tracks the single gesture that may be in flight. Pointer-downs
// while a gesture is active are ignored.
type gestureKind int

const (
	gestureNone gestureKind = iota
	gestureMarquee
	gesturePen
	gestureShape
	gesturePan
	gestureDragEntity
	gestureDragGroup
)
