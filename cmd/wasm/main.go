//go:build js && wasm

package main

import (
	"context"
	"syscall/js"

	"github.com/openboard/openboard/internal/canvas"
	"github.com/openboard/openboard/internal/collab"
	"github.com/openboard/openboard/internal/geom"
)

var (
	eng  *canvas.Engine
	room *collab.RoomClient
)

func main() {
	api := js.Global().Get("Object").New()

	// --- Lifecycle ---
	api.Set("connect", js.FuncOf(connect))
	api.Set("disconnect", js.FuncOf(disconnect))

	// --- Commands (frontend → engine) ---
	api.Set("setTool", js.FuncOf(setTool))
	api.Set("setStrokeColor", js.FuncOf(setStrokeColor))
	api.Set("setStrokeWidth", js.FuncOf(setStrokeWidth))
	api.Set("pointerDown", js.FuncOf(pointerDown))
	api.Set("pointerMove", js.FuncOf(pointerMove))
	api.Set("pointerUp", js.FuncOf(pointerUp))
	api.Set("wheel", js.FuncOf(wheel))
	api.Set("keyDown", js.FuncOf(keyDown))
	api.Set("undo", js.FuncOf(undo))
	api.Set("redo", js.FuncOf(redo))
	api.Set("placeImage", js.FuncOf(placeImage))
	api.Set("setImageDimensions", js.FuncOf(setImageDimensions))
	api.Set("removeEntity", js.FuncOf(removeEntity))

	// --- Queries (frontend ← engine) ---
	api.Set("render", js.FuncOf(render))
	api.Set("getViewport", js.FuncOf(getViewport))
	api.Set("getTool", js.FuncOf(getTool))
	api.Set("getSelection", js.FuncOf(getSelection))
	api.Set("canUndo", js.FuncOf(canUndo))
	api.Set("canRedo", js.FuncOf(canRedo))

	js.Global().Set("openboardEngine", api)
	js.Global().Set("openboardWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

// --- Lifecycle ---

func connect(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing room url"})
	}

	rc, err := collab.DialRoom(context.Background(), args[0].String())
	if err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}

	room = rc
	eng = canvas.NewEngine(rc, nil)
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func disconnect(this js.Value, args []js.Value) interface{} {
	if room != nil {
		room.Close()
		room = nil
		eng = nil
	}
	return nil
}

// --- Command handlers ---

func setTool(this js.Value, args []js.Value) interface{} {
	if eng == nil || len(args) < 1 {
		return nil
	}
	eng.SetTool(canvas.Tool(args[0].String()))
	return nil
}

func setStrokeColor(this js.Value, args []js.Value) interface{} {
	if eng == nil || len(args) < 1 {
		return nil
	}
	eng.SetStrokeColor(args[0].String())
	return nil
}

func setStrokeWidth(this js.Value, args []js.Value) interface{} {
	if eng == nil || len(args) < 1 {
		return nil
	}
	eng.SetStrokeWidth(args[0].Float())
	return nil
}

func pointerDown(this js.Value, args []js.Value) interface{} {
	if eng == nil || len(args) < 2 {
		return nil
	}
	eng.PointerDown(pointArg(args), modsArg(args, 2))
	return nil
}

func pointerMove(this js.Value, args []js.Value) interface{} {
	if eng == nil || len(args) < 2 {
		return nil
	}
	eng.PointerMove(pointArg(args), modsArg(args, 2))
	return nil
}

func pointerUp(this js.Value, args []js.Value) interface{} {
	if eng == nil || len(args) < 2 {
		return nil
	}
	eng.PointerUp(pointArg(args), modsArg(args, 2))
	return nil
}

func wheel(this js.Value, args []js.Value) interface{} {
	if eng == nil || len(args) < 4 {
		return nil
	}
	p := geom.Point{X: args[0].Float(), Y: args[1].Float()}
	eng.Wheel(p, args[2].Float(), args[3].Float(), modsArg(args, 4))
	return nil
}

func keyDown(this js.Value, args []js.Value) interface{} {
	if eng == nil || len(args) < 1 {
		return nil
	}
	eng.KeyDown(args[0].String(), modsArg(args, 1))
	return nil
}

func undo(this js.Value, args []js.Value) interface{} {
	if eng != nil {
		eng.Undo()
	}
	return nil
}

func redo(this js.Value, args []js.Value) interface{} {
	if eng != nil {
		eng.Redo()
	}
	return nil
}

func placeImage(this js.Value, args []js.Value) interface{} {
	if eng == nil || len(args) < 3 {
		return js.ValueOf("")
	}
	p := geom.Point{X: args[1].Float(), Y: args[2].Float()}
	return js.ValueOf(eng.PlaceImage(args[0].String(), p))
}

func setImageDimensions(this js.Value, args []js.Value) interface{} {
	if eng == nil || len(args) < 3 {
		return nil
	}
	eng.SetImageDimensions(args[0].String(), args[1].Float(), args[2].Float())
	return nil
}

func removeEntity(this js.Value, args []js.Value) interface{} {
	if eng == nil || len(args) < 1 {
		return nil
	}
	eng.RemoveEntity(args[0].String())
	return nil
}

// --- Query handlers ---

func render(this js.Value, args []js.Value) interface{} {
	if eng == nil {
		return js.ValueOf("[]")
	}
	return js.ValueOf(eng.Render())
}

func getViewport(this js.Value, args []js.Value) interface{} {
	if eng == nil {
		return js.ValueOf(map[string]interface{}{"x": 0, "y": 0, "scale": 1})
	}
	v := eng.Viewport()
	return js.ValueOf(map[string]interface{}{"x": v.X, "y": v.Y, "scale": v.Scale})
}

func getTool(this js.Value, args []js.Value) interface{} {
	if eng == nil {
		return js.ValueOf("")
	}
	return js.ValueOf(string(eng.Tool()))
}

func getSelection(this js.Value, args []js.Value) interface{} {
	if eng == nil {
		return js.ValueOf([]interface{}{})
	}
	ids := eng.Selection()
	out := make([]interface{}, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return js.ValueOf(out)
}

func canUndo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng != nil && eng.CanUndo())
}

func canRedo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng != nil && eng.CanRedo())
}

func pointArg(args []js.Value) geom.Point {
	return geom.Point{X: args[0].Float(), Y: args[1].Float()}
}

func modsArg(args []js.Value, i int) canvas.Modifiers {
	if len(args) <= i || args[i].Type() != js.TypeObject {
		return canvas.Modifiers{}
	}
	m := args[i]
	return canvas.Modifiers{
		Shift: m.Get("shift").Truthy(),
		Ctrl:  m.Get("ctrl").Truthy(),
		Meta:  m.Get("meta").Truthy(),
	}
}
