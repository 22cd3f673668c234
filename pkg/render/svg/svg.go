// Package svg renders cardgraph scenes as standalone SVG documents.
package svg

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/cardgraph/pkg/engine"
	"github.com/matzehuels/cardgraph/pkg/geom"
	"github.com/matzehuels/cardgraph/pkg/graph"
)

const arrowSize = 6

const interactionCSS = `
    .card rect { transition: stroke-width 0.2s ease; }
    .card.highlight rect { stroke-width: 3; }
    .edge.highlight { stroke: #d9480f; stroke-width: 2.5; }`

const interactionJS = `
    function highlight(id) {
      document.querySelectorAll('.card').forEach(c => c.classList.toggle('highlight', c.id === 'card-' + id));
      document.querySelectorAll('.edge').forEach(e => e.classList.toggle('highlight', e.dataset.from === id || e.dataset.to === id));
    }
    function clearHighlight() {
      document.querySelectorAll('.card, .edge').forEach(el => el.classList.remove('highlight'));
    }
    document.querySelectorAll('.card').forEach(el => {
      el.addEventListener('mouseenter', () => highlight(el.id.replace('card-', '')));
      el.addEventListener('mouseleave', clearHighlight);
    });`

// Option configures the SVG renderer.
type Option func(*Renderer)

// WithSize sets the document size in pixels. The default is 1280×800.
func WithSize(w, h float64) Option {
	return func(r *Renderer) { r.width, r.height = w, h }
}

// WithInteraction embeds CSS and script that highlight a card and its
// edges on hover.
func WithInteraction() Option { return func(r *Renderer) { r.interactive = true } }

// WithEdgeEndpoints maps edge IDs to their endpoints so that edges can be
// tagged with data-from/data-to attributes.
func WithEdgeEndpoints(paths map[string][2]string) Option {
	return func(r *Renderer) { r.endpoints = paths }
}

// Renderer accumulates SVG elements. It implements engine.RenderAdapter.
type Renderer struct {
	width, height float64
	interactive   bool
	endpoints     map[string][2]string

	edges  bytes.Buffer
	cards  bytes.Buffer
	labels bytes.Buffer
}

// New creates an empty renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{width: 1280, height: 800}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render draws s and returns the SVG document.
func Render(s graph.Scene, opts ...Option) []byte {
	endpoints := make(map[string][2]string, len(s.Paths))
	for _, p := range s.Paths {
		endpoints[p.EdgeID] = [2]string{p.From, p.To}
	}
	r := New(append([]Option{WithEdgeEndpoints(endpoints)}, opts...)...)
	engine.RenderScene(r, s)
	return r.Bytes()
}

// DrawRect draws a card with its label.
func (r *Renderer) DrawRect(id string, rect geom.Rect, label string) {
	size := fontSize(rect.Width, rect.Height, len([]rune(label)))
	fmt.Fprintf(&r.cards, `  <g class="card" id="card-%s">`+"\n", escapeXML(id))
	fmt.Fprintf(&r.cards, `    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="%.2f" fill="#ffffff" stroke="#343a40" stroke-width="1.5"/>`+"\n",
		rect.X, rect.Y, rect.Width, rect.Height, rect.Height*0.1)
	fmt.Fprintf(&r.cards, `    <text x="%.2f" y="%.2f" font-family="sans-serif" font-size="%.1f" text-anchor="middle" dominant-baseline="middle">%s</text>`+"\n",
		rect.X+rect.Width/2, rect.Y+rect.Height/2, size, escapeXML(truncate(label, rect.Width, size)))
	r.cards.WriteString("  </g>\n")
}

// DrawPolyline draws an edge route.
func (r *Renderer) DrawPolyline(edgeID string, points []geom.Point) {
	pts := make([]string, len(points))
	for i, p := range points {
		pts[i] = fmt.Sprintf("%.2f,%.2f", p.X, p.Y)
	}
	var data string
	if ep, ok := r.endpoints[edgeID]; ok {
		data = fmt.Sprintf(` data-from="%s" data-to="%s"`, escapeXML(ep[0]), escapeXML(ep[1]))
	}
	fmt.Fprintf(&r.edges, `  <polyline class="edge" id="edge-%s"%s points="%s" fill="none" stroke="#868e96" stroke-width="1.5"/>`+"\n",
		escapeXML(edgeID), data, strings.Join(pts, " "))
}

// DrawArrow draws an arrowhead whose tip is at at.
func (r *Renderer) DrawArrow(at geom.Point, up bool) {
	dy := -arrowSize
	if up {
		dy = arrowSize
	}
	fmt.Fprintf(&r.edges, `  <polygon class="arrow" points="%.2f,%.2f %.2f,%.2f %.2f,%.2f" fill="#868e96"/>`+"\n",
		at.X, at.Y, at.X-arrowSize/2.0, at.Y+float64(dy), at.X+arrowSize/2.0, at.Y+float64(dy))
}

// DrawLabel draws an edge caption centered at at.
func (r *Renderer) DrawLabel(at geom.Point, text string) {
	fmt.Fprintf(&r.labels, `  <text class="edge-label" x="%.2f" y="%.2f" font-family="sans-serif" font-size="10" text-anchor="middle" paint-order="stroke" stroke="#ffffff" stroke-width="3">%s</text>`+"\n",
		at.X, at.Y-3, escapeXML(text))
}

// Bytes returns the complete SVG document.
func (r *Renderer) Bytes() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		r.width, r.height, r.width, r.height)
	buf.Write(r.edges.Bytes())
	buf.Write(r.cards.Bytes())
	buf.Write(r.labels.Bytes())
	if r.interactive {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", interactionCSS)
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", interactionJS)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

var _ engine.RenderAdapter = (*Renderer)(nil)
