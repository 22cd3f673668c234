package viewport

// Input tuning.
const (
	// WheelFactor is the zoom multiplier for one wheel notch.
	WheelFactor = 1.1
	// KeyPanStep is the pan distance in screen pixels for one key press.
	KeyPanStep = 40.0
)

// Drag turns a pointer-drag sequence into pan deltas. The zero value is an
// idle drag.
type Drag struct {
	active       bool
	lastX, lastY float64
}

// Start begins a drag at screen point (x, y).
func (d *Drag) Start(x, y float64) {
	d.active = true
	d.lastX, d.lastY = x, y
}

// Move pans v by the pointer delta since the previous event. Moves outside
// an active drag are ignored.
func (d *Drag) Move(v *Viewport, x, y float64) {
	if !d.active {
		return
	}
	v.PanBy(x-d.lastX, y-d.lastY)
	d.lastX, d.lastY = x, y
}

// End finishes the drag.
func (d *Drag) End() { d.active = false }

// Active reports whether a drag is in progress.
func (d *Drag) Active() bool { return d.active }

// Wheel zooms v at the pointer position. Negative deltaY (wheel up) zooms
// in, positive zooms out, zero does nothing.
func Wheel(v *Viewport, px, py, deltaY float64) {
	switch {
	case deltaY < 0:
		v.ZoomAtPoint(px, py, WheelFactor)
	case deltaY > 0:
		v.ZoomAtPoint(px, py, 1/WheelFactor)
	}
}

// Key applies a keyboard command to v and reports whether the key was
// handled. Zoom keys zoom at the center of a screen of size (w, h).
//
//	arrows / h j k l   pan
//	+ / =              zoom in
//	-                  zoom out
//	0                  reset
func Key(v *Viewport, key string, w, h float64) bool {
	switch key {
	case "left", "h":
		v.PanBy(KeyPanStep, 0)
	case "right", "l":
		v.PanBy(-KeyPanStep, 0)
	case "up", "k":
		v.PanBy(0, KeyPanStep)
	case "down", "j":
		v.PanBy(0, -KeyPanStep)
	case "+", "=":
		v.ZoomAtPoint(w/2, h/2, WheelFactor)
	case "-":
		v.ZoomAtPoint(w/2, h/2, 1/WheelFactor)
	case "0":
		v.Reset()
	default:
		return false
	}
	return true
}
