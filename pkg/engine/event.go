package engine

import (
	"github.com/matzehuels/cardgraph/pkg/geom"
	"github.com/matzehuels/cardgraph/pkg/viewport"
)

// Event is an input event injected by the host UI. All coordinates are in
// screen space.
type Event interface {
	event()
}

// PanEvent translates the view by a screen delta.
type PanEvent struct {
	DX, DY float64
}

// ZoomEvent zooms at a screen point. A non-zero Factor is applied directly;
// otherwise DeltaY is treated as a wheel delta (negative zooms in).
type ZoomEvent struct {
	X, Y   float64
	Factor float64
	DeltaY float64
}

// DragPhase identifies the stage of a pointer drag.
type DragPhase int

const (
	DragStart DragPhase = iota
	DragMove
	DragEnd
)

// DragEvent pans the view by the pointer movement between successive
// DragMove events.
type DragEvent struct {
	Phase DragPhase
	X, Y  float64
}

// ClickEvent toggles the card under the pointer, if any.
type ClickEvent struct {
	X, Y float64
}

// KeyEvent is a key press. Viewport keys pan and zoom; "e" expands all,
// "c" collapses all and "f" fits the scene to the screen.
type KeyEvent struct {
	Key string
}

func (PanEvent) event()   {}
func (ZoomEvent) event()  {}
func (DragEvent) event()  {}
func (ClickEvent) event() {}
func (KeyEvent) event()   {}

// HandleEvent applies ev and reports whether any state changed.
func (e *Engine) HandleEvent(ev Event) bool {
	switch ev := ev.(type) {
	case PanEvent:
		e.PanBy(ev.DX, ev.DY)
		return ev.DX != 0 || ev.DY != 0
	case ZoomEvent:
		before := *e.vp
		if ev.Factor != 0 {
			e.ZoomAtPoint(ev.X, ev.Y, ev.Factor)
		} else {
			viewport.Wheel(e.vp, ev.X, ev.Y, ev.DeltaY)
		}
		return *e.vp != before
	case DragEvent:
		switch ev.Phase {
		case DragStart:
			e.drag.Start(ev.X, ev.Y)
			return false
		case DragMove:
			before := *e.vp
			e.drag.Move(e.vp, ev.X, ev.Y)
			return *e.vp != before
		default:
			e.drag.End()
			return false
		}
	case ClickEvent:
		id, ok := e.NodeAt(e.vp.ToContent(geom.Point{X: ev.X, Y: ev.Y}))
		if !ok {
			return false
		}
		e.Toggle(id)
		return true
	case KeyEvent:
		return e.handleKey(ev.Key)
	}
	return false
}

func (e *Engine) handleKey(key string) bool {
	switch key {
	case "e":
		e.ExpandAll()
	case "c":
		e.CollapseAll()
	case "f":
		e.FitView()
	default:
		return viewport.Key(e.vp, key, e.screenW, e.screenH)
	}
	return true
}
