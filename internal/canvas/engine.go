package canvas

import (
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/openboard/openboard/internal/board"
	"github.com/openboard/openboard/internal/geom"
	"github.com/openboard/openboard/internal/store"
	"github.com/openboard/openboard/internal/typeid"
)

// MinDragSize is the minimum pointer displacement, in world units, for a
// shape-construction gesture to produce a shape. A drag below this in both
// axes is treated as a stray click and leaves the board untouched.
const MinDragSize = 5

const (
	defaultStrokeColor = "#df4b26"
	defaultStrokeWidth = 5
)

// Engine is the canvas interaction engine. It owns all per-client state
// (viewport, tool, selection, history, clipboard) and routes every board
// mutation through the injected SharedModelStore; it never holds its own
// authoritative copy of the room.
//
// The engine is single-threaded by contract: all methods must be called from
// the surface's event loop.
type Engine struct {
	store    store.SharedModelStore
	viewport *ViewportController
	history  History
	clip     Clipboard
	now      func() time.Time

	tool        Tool
	color       string
	strokeWidth float64

	selection map[string]struct{}

	// gesture state: at most one gesture is in flight at a time
	gesture       gestureKind
	activeID      string
	anchor        geom.Point // world anchor of the gesture
	screenAnchor  geom.Point
	dragLast      geom.Point
	dragDelta     geom.Point
	dragMoved     bool
	marquee       geom.Rect
	marqueeActive bool
	baseSelection map[string]struct{}

	lastPointer geom.Point // world, for paste placement
	seeded      bool
}

// NewEngine wires the engine to a shared model store. A nil now falls back to
// time.Now; tests inject a fake clock.
func NewEngine(s store.SharedModelStore, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{
		store:       s,
		viewport:    NewViewportController(now),
		now:         now,
		tool:        ToolSelect,
		color:       defaultStrokeColor,
		strokeWidth: defaultStrokeWidth,
		selection:   make(map[string]struct{}),
	}
}

// --- Tool and style state ---

func (e *Engine) Tool() Tool { return e.tool }

// SetTool switches the active tool. Ignored while a gesture is in flight.
func (e *Engine) SetTool(t Tool) {
	if e.gesture != gestureNone {
		return
	}
	e.tool = t
}

func (e *Engine) SetStrokeColor(c string)  { e.color = c }
func (e *Engine) SetStrokeWidth(w float64) { e.strokeWidth = w }

func (e *Engine) Viewport() Viewport     { return e.viewport.Viewport() }
func (e *Engine) SetViewport(v Viewport) { e.viewport.Set(v) }
func (e *Engine) PanBy(dx, dy float64)   { e.viewport.PanBy(dx, dy) }

func (e *Engine) ZoomAt(p geom.Point, f float64) { e.viewport.ZoomAt(p, f) }

// Selection returns the selected ids in sorted order.
func (e *Engine) Selection() []string {
	ids := make([]string, 0, len(e.selection))
	for id := range e.selection {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// InteractionMode derives draggability from the selection count: a single
// selected entity drags itself, two or more drag only via the group handle.
func (e *Engine) InteractionMode() InteractionMode {
	switch len(e.selection) {
	case 0:
		return ModeIdle
	case 1:
		return ModeEntity
	default:
		return ModeGroup
	}
}

// Marquee returns the active selection rectangle, if a marquee gesture is in
// progress.
func (e *Engine) Marquee() (geom.Rect, bool) {
	return e.marquee, e.marqueeActive
}

// GroupHandle returns the padded bounding box of a multi-selection.
func (e *Engine) GroupHandle() (geom.Rect, bool) {
	st, ok := e.state()
	if !ok {
		return geom.Rect{}, false
	}
	e.pruneSelection(st)
	return GroupBounds(st, e.selection)
}

// --- Pointer events (surface-local pixel coordinates) ---

// PointerDown starts a gesture according to the active tool. It is ignored
// while another gesture is in flight or while room storage is still pending.
func (e *Engine) PointerDown(p geom.Point, mods Modifiers) {
	defer e.recoverGesture()

	if e.gesture != gestureNone {
		return
	}
	st, ok := e.state()
	if !ok {
		return
	}

	world := e.viewport.Viewport().ScreenToWorld(p)
	e.lastPointer = world
	e.anchor = world
	e.screenAnchor = p
	e.dragDelta = geom.Point{}
	e.dragMoved = false

	switch e.tool {
	case ToolHand:
		e.gesture = gesturePan

	case ToolPen:
		e.startStroke(st, world)

	case ToolSelect:
		e.startSelectGesture(st, world, mods)

	default:
		if kind, ok := e.tool.ShapeKind(); ok {
			e.startShape(st, kind, world)
		}
	}
}

// PointerMove advances the in-flight gesture and publishes presence.
func (e *Engine) PointerMove(p geom.Point, mods Modifiers) {
	defer e.recoverGesture()

	world := e.viewport.Viewport().ScreenToWorld(p)
	e.lastPointer = world
	e.publishCursor(world)

	switch e.gesture {
	case gesturePan:
		e.viewport.PanBy(p.X-e.screenAnchor.X, p.Y-e.screenAnchor.Y)
		e.screenAnchor = p

	case gesturePen:
		e.extendStroke(world)

	case gestureShape:
		e.dragDelta = world.Sub(e.anchor)
		e.updateShape(world)

	case gestureMarquee:
		e.updateMarquee(world)

	case gestureDragEntity:
		e.dragEntities(map[string]struct{}{e.activeID: {}}, world)

	case gestureDragGroup:
		e.dragEntities(e.selection, world)
	}
}

// PointerUp finishes the gesture. Draw and drag gestures commit one history
// entry; a sub-threshold shape is discarded with no entry at all.
func (e *Engine) PointerUp(p geom.Point, mods Modifiers) {
	defer e.recoverGesture()

	switch e.gesture {
	case gesturePen:
		e.commitHistory()

	case gestureShape:
		if math.Abs(e.dragDelta.X) < MinDragSize && math.Abs(e.dragDelta.Y) < MinDragSize {
			e.discardActiveShape()
		} else {
			e.commitHistory()
		}

	case gestureDragEntity, gestureDragGroup:
		if e.dragMoved {
			e.commitHistory()
		}
	}

	e.resetGesture()
}

// Wheel pans the viewport, or zooms at the pointer when the primary modifier
// is held. Shift multiplies pan speed.
func (e *Engine) Wheel(p geom.Point, dx, dy float64, mods Modifiers) {
	if mods.Primary() {
		e.viewport.ZoomAt(p, WheelZoomFactor(dy))
		return
	}
	mult := 1.0
	if mods.Shift {
		mult = ShiftPanMultiplier
	}
	e.viewport.PanBy(-dx*mult, -dy*mult)
}

// KeyDown handles the process-wide shortcuts: Delete/Backspace, copy, paste.
func (e *Engine) KeyDown(key string, mods Modifiers) {
	switch key {
	case "Delete", "Backspace":
		e.DeleteSelection()
	case "c", "C":
		if mods.Primary() {
			e.Copy()
		}
	case "v", "V":
		if mods.Primary() {
			e.Paste()
		}
	}
}

// --- Select tool ---

func (e *Engine) startSelectGesture(st *board.State, world geom.Point, mods Modifiers) {
	e.pruneSelection(st)

	// With a multi-selection the group handle is the sole drag target.
	// Shift skips the handle so a Shift-click inside the group box still
	// toggles membership.
	if len(e.selection) >= 2 && !mods.Shift {
		if gb, ok := GroupBounds(st, e.selection); ok && gb.Contains(world.X, world.Y) {
			e.gesture = gestureDragGroup
			e.dragLast = world
			return
		}
	}

	if id, hit := EntityAt(st, world); hit {
		if mods.Shift {
			if _, ok := e.selection[id]; ok {
				delete(e.selection, id)
			} else {
				e.selection[id] = struct{}{}
			}
		} else {
			e.selection = map[string]struct{}{id: {}}
		}
		if _, ok := e.selection[id]; ok && len(e.selection) == 1 {
			e.gesture = gestureDragEntity
			e.activeID = id
			e.dragLast = world
		}
		return
	}

	// Empty canvas: start a marquee. Shift preserves the existing selection
	// and unions hits into it; a plain marquee replaces it.
	e.gesture = gestureMarquee
	e.marqueeActive = true
	e.marquee = geom.Rect{X: world.X, Y: world.Y}
	e.baseSelection = nil
	if mods.Shift {
		e.baseSelection = make(map[string]struct{}, len(e.selection))
		for id := range e.selection {
			e.baseSelection[id] = struct{}{}
		}
	} else {
		e.selection = make(map[string]struct{})
	}
}

func (e *Engine) updateMarquee(world geom.Point) {
	st, ok := e.state()
	if !ok {
		return
	}
	e.marquee = geom.RectFromPoints(e.anchor, world)

	next := make(map[string]struct{}, len(e.baseSelection))
	for id := range e.baseSelection {
		next[id] = struct{}{}
	}
	for _, id := range MarqueeHits(st, e.marquee) {
		next[id] = struct{}{}
	}
	e.selection = next
}

func (e *Engine) dragEntities(ids map[string]struct{}, world geom.Point) {
	st, ok := e.state()
	if !ok {
		return
	}
	dx := world.X - e.dragLast.X
	dy := world.Y - e.dragLast.Y
	if dx == 0 && dy == 0 {
		return
	}
	e.pruneSelection(st)
	e.store.Apply(TranslateSelected(st, ids, dx, dy))
	e.dragLast = world
	e.dragMoved = true
}

// --- Pen tool ---

func (e *Engine) startStroke(st *board.State, world geom.Point) {
	line := board.Line{
		ID:     typeid.NewLineID(),
		Points: []float64{world.X, world.Y},
		Color:  e.color,
		Width:  e.strokeWidth,
	}
	lines := append(append([]board.Line(nil), st.Lines...), line)
	e.store.Apply(store.Mutation{Lines: &lines})
	e.gesture = gesturePen
	e.activeID = line.ID
}

func (e *Engine) extendStroke(world geom.Point) {
	st, ok := e.state()
	if !ok {
		return
	}
	lines := make([]board.Line, len(st.Lines))
	found := false
	for i, l := range st.Lines {
		if l.ID == e.activeID {
			l.Points = append(append([]float64(nil), l.Points...), world.X, world.Y)
			found = true
		}
		lines[i] = l
	}
	if !found {
		// deleted remotely mid-stroke: abandon the gesture quietly
		e.resetGesture()
		return
	}
	e.store.Apply(store.Mutation{Lines: &lines})
}

// --- Shape tools ---

func (e *Engine) startShape(st *board.State, kind board.ShapeKind, world geom.Point) {
	shape := board.Shape{
		ID:          typeid.NewShapeID(),
		Kind:        kind,
		X:           world.X,
		Y:           world.Y,
		Color:       e.color,
		StrokeWidth: e.strokeWidth,
	}
	buildShapeGeometry(&shape, world, world)
	shapes := append(append([]board.Shape(nil), st.Shapes...), shape)
	e.store.Apply(store.Mutation{Shapes: &shapes})
	e.gesture = gestureShape
	e.activeID = shape.ID
}

func (e *Engine) updateShape(world geom.Point) {
	st, ok := e.state()
	if !ok {
		return
	}
	shapes := make([]board.Shape, len(st.Shapes))
	found := false
	for i, s := range st.Shapes {
		if s.ID == e.activeID {
			buildShapeGeometry(&s, e.anchor, world)
			found = true
		}
		shapes[i] = s
	}
	if !found {
		e.resetGesture()
		return
	}
	e.store.Apply(store.Mutation{Shapes: &shapes})
}

func (e *Engine) discardActiveShape() {
	st, ok := e.state()
	if !ok {
		return
	}
	shapes := make([]board.Shape, 0, len(st.Shapes))
	for _, s := range st.Shapes {
		if s.ID != e.activeID {
			shapes = append(shapes, s)
		}
	}
	e.store.Apply(store.Mutation{Shapes: &shapes})
}

// buildShapeGeometry recomputes a shape from its anchor and the current
// pointer, from scratch on every move. Point-based kinds keep width/height as
// the raw drag delta for resume-drag arithmetic.
func buildShapeGeometry(s *board.Shape, anchor, cur geom.Point) {
	dx := cur.X - anchor.X
	dy := cur.Y - anchor.Y

	switch s.Kind {
	case board.KindRectangle:
		s.Width = dx
		s.Height = dy

	case board.KindCircle:
		r := geom.CircleRadius(anchor, cur)
		s.Width = 2 * r
		s.Height = 2 * r

	case board.KindLine:
		s.Points = geom.LinePoints(anchor.X, anchor.Y, cur.X, cur.Y)
		s.Width = dx
		s.Height = dy

	case board.KindArrow:
		s.Points = geom.ArrowPoints(anchor.X, anchor.Y, cur.X, cur.Y)
		s.Width = dx
		s.Height = dy

	case board.KindStar:
		size := max(math.Abs(dx), math.Abs(dy))
		s.Points = geom.StarPoints(anchor.X, anchor.Y, size)
		s.Width = dx
		s.Height = dy

	case board.KindTriangle:
		s.Points = geom.TrianglePoints(anchor.X, anchor.Y, dx, dy)
		s.Width = dx
		s.Height = dy
	}
}

// --- Entity lifecycle outside gestures ---

// PlaceImage appends an image at a screen position and commits. Dimensions
// stay zero (placeholder box) until SetImageDimensions reports the asset's
// natural size. The new image id is returned so a failed upload can roll the
// placeholder back with RemoveEntity.
func (e *Engine) PlaceImage(url string, p geom.Point) string {
	st, ok := e.state()
	if !ok {
		return ""
	}
	world := e.viewport.Viewport().ScreenToWorld(p)
	im := board.PlacedImage{
		ID:  typeid.NewImageID(),
		URL: url,
		X:   world.X,
		Y:   world.Y,
	}
	images := append(append([]board.PlacedImage(nil), st.Images...), im)
	e.store.Apply(store.Mutation{Images: &images})
	e.commitHistory()
	return im.ID
}

// SetImageDimensions records an image's natural size once its asset loads.
// Not a user edit: no history entry.
func (e *Engine) SetImageDimensions(id string, w, h float64) {
	st, ok := e.state()
	if !ok {
		return
	}
	images := make([]board.PlacedImage, len(st.Images))
	for i, im := range st.Images {
		if im.ID == id {
			im.Width = w
			im.Height = h
		}
		images[i] = im
	}
	e.store.Apply(store.Mutation{Images: &images})
}

// RemoveEntity deletes a single entity by id and commits. Used to roll back
// an optimistic placeholder whose upload failed.
func (e *Engine) RemoveEntity(id string) {
	st, ok := e.state()
	if !ok {
		return
	}
	e.store.Apply(removeIDs(st, map[string]struct{}{id: {}}))
	delete(e.selection, id)
	e.commitHistory()
}

// ResizeEntity sets a new bounding box for an image or box shape and commits.
// Circles keep their center; point-based shapes do not resize.
func (e *Engine) ResizeEntity(id string, r geom.Rect) {
	st, ok := e.state()
	if !ok {
		return
	}
	changed := false

	images := make([]board.PlacedImage, len(st.Images))
	for i, im := range st.Images {
		if im.ID == id {
			im.X, im.Y, im.Width, im.Height = r.X, r.Y, r.Width, r.Height
			changed = true
		}
		images[i] = im
	}

	shapes := make([]board.Shape, len(st.Shapes))
	for i, s := range st.Shapes {
		if s.ID == id {
			switch s.Kind {
			case board.KindRectangle:
				s.X, s.Y, s.Width, s.Height = r.X, r.Y, r.Width, r.Height
				changed = true
			case board.KindCircle:
				c := r.Center()
				s.X, s.Y = c.X, c.Y
				s.Width, s.Height = r.Width, r.Width
				changed = true
			}
		}
		shapes[i] = s
	}

	if !changed {
		return
	}
	e.store.Apply(store.Mutation{Images: &images, Shapes: &shapes})
	e.commitHistory()
}

// DeleteSelection removes every selected entity in one atomic batch and
// commits a single history entry.
func (e *Engine) DeleteSelection() {
	st, ok := e.state()
	if !ok {
		return
	}
	e.pruneSelection(st)
	if len(e.selection) == 0 {
		return
	}
	e.store.Apply(removeIDs(st, e.selection))
	e.selection = make(map[string]struct{})
	e.commitHistory()
}

func removeIDs(st *board.State, ids map[string]struct{}) store.Mutation {
	images := make([]board.PlacedImage, 0, len(st.Images))
	for _, im := range st.Images {
		if _, ok := ids[im.ID]; !ok {
			images = append(images, im)
		}
	}
	shapes := make([]board.Shape, 0, len(st.Shapes))
	for _, s := range st.Shapes {
		if _, ok := ids[s.ID]; !ok {
			shapes = append(shapes, s)
		}
	}
	lines := make([]board.Line, 0, len(st.Lines))
	for _, l := range st.Lines {
		if _, ok := ids[l.ID]; !ok {
			lines = append(lines, l)
		}
	}
	return store.Mutation{Images: &images, Shapes: &shapes, Lines: &lines}
}

// --- Clipboard ---

// Copy stores the selected entities into the local clipboard slot.
func (e *Engine) Copy() {
	st, ok := e.state()
	if !ok {
		return
	}
	e.pruneSelection(st)
	if len(e.selection) == 0 {
		return
	}
	e.clip.Copy(st, e.selection)
}

// Paste rebases the clipboard onto the last known pointer position, mints
// fresh ids, appends the copies and selects exactly them. One history entry.
func (e *Engine) Paste() {
	st, ok := e.state()
	if !ok || e.clip.Empty() {
		return
	}
	imgs, shapes, lines, ids := e.clip.Paste(e.lastPointer)

	newImages := append(append([]board.PlacedImage(nil), st.Images...), imgs...)
	newShapes := append(append([]board.Shape(nil), st.Shapes...), shapes...)
	newLines := append(append([]board.Line(nil), st.Lines...), lines...)
	e.store.Apply(store.Mutation{Images: &newImages, Shapes: &newShapes, Lines: &newLines})

	e.selection = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		e.selection[id] = struct{}{}
	}
	e.commitHistory()
}

// --- History ---

func (e *Engine) CanUndo() bool { return e.history.CanUndo() }
func (e *Engine) CanRedo() bool { return e.history.CanRedo() }

// Undo reapplies the previous snapshot: board collections through the store,
// viewport locally.
func (e *Engine) Undo() {
	if _, ok := e.state(); !ok {
		return
	}
	entry, ok := e.history.Undo()
	if !ok {
		return
	}
	e.applyHistoryEntry(entry)
}

// Redo reapplies the next snapshot.
func (e *Engine) Redo() {
	if _, ok := e.state(); !ok {
		return
	}
	entry, ok := e.history.Redo()
	if !ok {
		return
	}
	e.applyHistoryEntry(entry)
}

func (e *Engine) applyHistoryEntry(entry HistoryEntry) {
	images := append([]board.PlacedImage(nil), entry.Images...)
	shapes := make([]board.Shape, len(entry.Shapes))
	for i, s := range entry.Shapes {
		s.Points = append([]float64(nil), s.Points...)
		shapes[i] = s
	}
	lines := make([]board.Line, len(entry.Lines))
	for i, l := range entry.Lines {
		l.Points = append([]float64(nil), l.Points...)
		lines[i] = l
	}
	e.store.Apply(store.Mutation{Images: &images, Shapes: &shapes, Lines: &lines})
	e.viewport.Set(entry.Viewport)
	e.pruneSelectionFromStore()
}

func (e *Engine) commitHistory() {
	st, ok := e.state()
	if !ok {
		return
	}
	e.history.Commit(e.snapshot(st))
}

func (e *Engine) snapshot(st *board.State) HistoryEntry {
	cp := st.Clone()
	return HistoryEntry{
		Images:   cp.Images,
		Shapes:   cp.Shapes,
		Lines:    cp.Lines,
		Viewport: e.viewport.Viewport(),
	}
}

// --- Internal plumbing ---

// state returns the shared replica, seeding the initial history snapshot the
// first time room storage becomes ready. Undo immediately after load is a
// no-op because the seed entry sits at cursor zero.
func (e *Engine) state() (*board.State, bool) {
	st, ok := e.store.Read()
	if !ok {
		return nil, false
	}
	if !e.seeded {
		e.seeded = true
		e.history.Commit(e.snapshot(st))
	}
	return st, true
}

// pruneSelection drops ids whose entities no longer exist, e.g. deleted by a
// remote participant. Called before any computation that dereferences the
// selection.
func (e *Engine) pruneSelection(st *board.State) {
	for id := range e.selection {
		if !st.HasEntity(id) {
			delete(e.selection, id)
		}
	}
}

func (e *Engine) pruneSelectionFromStore() {
	if st, ok := e.state(); ok {
		e.pruneSelection(st)
	}
}

func (e *Engine) publishCursor(world geom.Point) {
	cursor := world
	e.store.SetPresence(store.Presence{
		Cursor:     &cursor,
		LastUpdate: e.now().UnixMilli(),
	})
}

func (e *Engine) resetGesture() {
	e.gesture = gestureNone
	e.activeID = ""
	e.marqueeActive = false
	e.marquee = geom.Rect{}
	e.baseSelection = nil
	e.dragMoved = false
}

// recoverGesture keeps a panic inside a pointer handler from wedging the
// gesture state machine: the gesture is aborted and flags cleared so the next
// pointer-down starts clean.
func (e *Engine) recoverGesture() {
	if r := recover(); r != nil {
		slog.Error("gesture aborted", "panic", r)
		e.resetGesture()
	}
}
