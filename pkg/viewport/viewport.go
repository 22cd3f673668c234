// Package viewport holds the pan/zoom transform applied to content-space
// geometry before it is drawn.
//
// A screen point s and a content point c are related by
//
//	s = c*Scale + Translate
//
// Layout never touches the viewport; only the operations in this package
// mutate it.
package viewport

import (
	"github.com/matzehuels/cardgraph/pkg/geom"
)

// Scale limits.
const (
	MinScale = 0.1
	MaxScale = 3.0
)

// Viewport is the pan/zoom state. The zero value is not normalized; use
// [New] or call [Viewport.Reset].
type Viewport struct {
	Scale      float64 `json:"scale"`
	TranslateX float64 `json:"translate_x"`
	TranslateY float64 `json:"translate_y"`
}

// New returns an identity viewport.
func New() *Viewport {
	return &Viewport{Scale: 1}
}

// PanBy translates the view by (dx, dy) screen pixels.
func (v *Viewport) PanBy(dx, dy float64) {
	v.TranslateX += dx
	v.TranslateY += dy
}

// ZoomAtPoint multiplies the scale by factor while keeping the content
// under the screen point (px, py) fixed. The resulting scale is clamped to
// [MinScale, MaxScale].
func (v *Viewport) ZoomAtPoint(px, py, factor float64) {
	old := v.scale()
	contentX := (px - v.TranslateX) / old
	contentY := (py - v.TranslateY) / old

	v.Scale = geom.Clamp(MinScale, MaxScale, old*factor)
	v.TranslateX = px - contentX*v.Scale
	v.TranslateY = py - contentY*v.Scale
}

// Reset restores scale 1 and zero translation.
func (v *Viewport) Reset() {
	v.Scale = 1
	v.TranslateX = 0
	v.TranslateY = 0
}

// ToScreen maps a content point to screen space.
func (v *Viewport) ToScreen(p geom.Point) geom.Point {
	s := v.scale()
	return geom.Point{X: p.X*s + v.TranslateX, Y: p.Y*s + v.TranslateY}
}

// ToContent maps a screen point to content space.
func (v *Viewport) ToContent(p geom.Point) geom.Point {
	s := v.scale()
	return geom.Point{X: (p.X - v.TranslateX) / s, Y: (p.Y - v.TranslateY) / s}
}

// RectToScreen maps a content rectangle to screen space.
func (v *Viewport) RectToScreen(r geom.Rect) geom.Rect {
	tl := v.ToScreen(geom.Point{X: r.X, Y: r.Y})
	s := v.scale()
	return geom.Rect{X: tl.X, Y: tl.Y, Width: r.Width * s, Height: r.Height * s}
}

// FitTo scales and centers b inside a screen of size (w, h), leaving
// padding on every side. Empty bounds or screens reset the view.
func (v *Viewport) FitTo(b geom.Bounds, w, h, padding float64) {
	availW, availH := w-2*padding, h-2*padding
	if b.Empty() || availW <= 0 || availH <= 0 {
		v.Reset()
		return
	}
	scale := min(availW/b.Width(), availH/b.Height())
	v.Scale = geom.Clamp(MinScale, MaxScale, scale)
	v.TranslateX = (w-b.Width()*v.Scale)/2 - b.MinX*v.Scale
	v.TranslateY = (h-b.Height()*v.Scale)/2 - b.MinY*v.Scale
}

func (v *Viewport) scale() float64 {
	if v.Scale == 0 {
		return 1
	}
	return v.Scale
}
