package engine

import (
	"github.com/matzehuels/cardgraph/pkg/geom"
	"github.com/matzehuels/cardgraph/pkg/graph"
)

// RenderAdapter draws scene primitives. Coordinates passed to it are in
// screen space; the engine has already applied the viewport transform.
type RenderAdapter interface {
	DrawRect(id string, r geom.Rect, label string)
	DrawPolyline(edgeID string, points []geom.Point)
	DrawArrow(at geom.Point, up bool)
	DrawLabel(at geom.Point, text string)
}

// Render draws the current scene through the viewport: edges first so that
// cards are painted over line ends, then cards, then edge labels.
func (e *Engine) Render(a RenderAdapter) {
	RenderScene(a, e.Scene())
}

// RenderScene draws a scene through its own viewport snapshot.
func RenderScene(a RenderAdapter, s graph.Scene) {
	vp := s.Viewport
	for _, p := range s.Paths {
		pts := make([]geom.Point, len(p.Points))
		for i, pt := range p.Points {
			pts[i] = vp.ToScreen(pt)
		}
		a.DrawPolyline(p.EdgeID, pts)
		a.DrawArrow(vp.ToScreen(p.Arrow), p.ArrowUp)
	}
	for _, c := range s.Cards {
		a.DrawRect(c.ID, vp.RectToScreen(c.Rect), c.Label)
	}
	for _, p := range s.Paths {
		if p.Label != nil {
			a.DrawLabel(vp.ToScreen(*p.Label), p.LabelText)
		}
	}
}
