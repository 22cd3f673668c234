package engine

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cardgraph/pkg/errors"
	"github.com/matzehuels/cardgraph/pkg/geom"
	"github.com/matzehuels/cardgraph/pkg/graph"
	"github.com/matzehuels/cardgraph/pkg/hierarchy"
	"github.com/matzehuels/cardgraph/pkg/layout"
	"github.com/matzehuels/cardgraph/pkg/model"
	"github.com/matzehuels/cardgraph/pkg/observability"
	"github.com/matzehuels/cardgraph/pkg/route"
	"github.com/matzehuels/cardgraph/pkg/viewport"
	"github.com/matzehuels/cardgraph/pkg/visibility"
)

// DefaultFitPadding is the screen-space margin used by [Engine.FitView].
const DefaultFitPadding = 20

// Engine owns the graph, its expansion state and the viewport.
type Engine struct {
	layoutCfg layout.Config
	routeCfg  route.Config
	router    *route.Router
	logger    *log.Logger

	g    *model.Graph
	hier hierarchy.Result
	vis  *visibility.Set

	vp      *viewport.Viewport
	drag    viewport.Drag
	screenW float64
	screenH float64

	scene graph.Scene
}

// Option configures an Engine.
type Option func(*Engine)

// WithLayoutConfig sets card geometry and spacing.
func WithLayoutConfig(cfg layout.Config) Option {
	return func(e *Engine) { e.layoutCfg = cfg }
}

// WithRouteConfig sets the edge router parameters. A zero BandGap is taken
// from the layout's vertical gap.
func WithRouteConfig(cfg route.Config) Option {
	return func(e *Engine) { e.routeCfg = cfg }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithScreenSize sets the screen size used for keyboard zoom and fitting.
func WithScreenSize(w, h float64) Option {
	return func(e *Engine) { e.screenW, e.screenH = w, h }
}

// New creates an engine with an empty graph.
func New(opts ...Option) *Engine {
	e := &Engine{
		layoutCfg: layout.DefaultConfig(),
		routeCfg:  route.DefaultConfig(),
		logger:    log.New(io.Discard),
		vp:        viewport.New(),
		screenW:   1280,
		screenH:   800,
	}
	e.routeCfg.BandGap = 0
	for _, opt := range opts {
		opt(e)
	}
	if e.routeCfg.BandGap <= 0 {
		e.routeCfg.BandGap = e.layoutCfg.VerticalGap
	}
	e.router = route.New(e.routeCfg)
	e.g = model.New()
	e.vis = visibility.New(e.g)
	e.refresh()
	return e
}

// LoadData replaces the graph wholesale. Levels are recomputed, the
// expansion state is reset so that only level-0 nodes are visible, and the
// viewport is kept.
func (e *Engine) LoadData(nodes []graph.Node, edges []graph.Edge) error {
	start := time.Now()
	g, err := buildModel(nodes, edges)
	observability.Engine().OnRebuild(context.Background(), len(nodes), len(edges), time.Since(start), err)
	if err != nil {
		return err
	}

	e.g = g
	e.hier = hierarchy.Build(g)
	e.vis = visibility.New(g)
	e.logger.Debug("graph loaded",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"roots", len(e.hier.Roots),
		"levels", len(g.Levels()),
		"fallback_root", e.hier.FallbackRoot,
		"cyclic", g.IsCyclic())
	e.refresh()
	return nil
}

// Load is LoadData for a decoded graph file.
func (e *Engine) Load(g graph.Graph) error {
	return e.LoadData(g.Nodes, g.Edges)
}

func buildModel(nodes []graph.Node, edges []graph.Edge) (*model.Graph, error) {
	g := model.New()
	for i, n := range nodes {
		err := g.AddNode(model.Node{
			ID:          n.ID,
			DisplayName: n.DisplayName,
			Labels:      n.Labels,
			Meta:        n.Properties,
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "node %d (%q)", i, n.ID)
		}
	}
	for i, ed := range edges {
		if err := g.AddEdge(model.Edge{From: ed.From, To: ed.To, Label: ed.Label}); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "edge %d (%s -> %s)", i, ed.From, ed.To)
		}
	}
	return g, nil
}

// Toggle flips the expansion of id, recomputes the scene and reports
// whether id is now expanded. Unknown IDs are a silent no-op.
func (e *Engine) Toggle(id string) bool {
	if !e.g.Has(id) {
		e.logger.Debug("toggle ignored", "id", id)
		return false
	}
	expanded := e.vis.Toggle(id)
	e.logger.Debug("toggle", "id", id, "expanded", expanded)
	e.refresh()
	return expanded
}

// Expand expands id if it exists.
func (e *Engine) Expand(id string) {
	if !e.g.Has(id) || e.vis.IsExpanded(id) {
		return
	}
	e.vis.Expand(id)
	e.refresh()
}

// Collapse collapses id if it is expanded.
func (e *Engine) Collapse(id string) {
	if !e.vis.IsExpanded(id) {
		return
	}
	e.vis.Collapse(id)
	e.refresh()
}

// ExpandAll expands every node with at least one child.
func (e *Engine) ExpandAll() {
	e.vis.ExpandAll()
	e.refresh()
}

// CollapseAll collapses everything so that only level-0 nodes are visible.
func (e *Engine) CollapseAll() {
	e.vis.CollapseAll()
	e.refresh()
}

// Refresh recomputes positions and routes for the current visible set.
func (e *Engine) Refresh() { e.refresh() }

func (e *Engine) refresh() {
	visible := e.vis.VisibleSet()

	start := time.Now()
	bounds := layout.Compute(e.g, e.layoutCfg, func(id string) bool { return visible[id] })
	ids := e.vis.Visible()
	observability.Engine().OnLayout(context.Background(), len(ids), time.Since(start))

	cards := make([]graph.Card, 0, len(ids))
	boxes := make(map[string]route.Box, len(ids))
	for _, id := range ids {
		n, _ := e.g.Node(id)
		rect := e.layoutCfg.Rect(n)
		cards = append(cards, graph.Card{
			ID:          id,
			Label:       n.Label(),
			Level:       n.Level,
			Rect:        rect,
			Expanded:    e.vis.IsExpanded(id),
			HasChildren: e.g.OutDegree(id) > 0,
		})
		boxes[id] = route.Box{Rect: rect, Level: n.Level}
	}

	start = time.Now()
	edges := e.vis.VisibleEdges()
	paths := e.router.Route(edges, boxes)
	observability.Engine().OnRoute(context.Background(), len(paths), time.Since(start))

	for _, p := range paths {
		for _, pt := range p.Points {
			bounds = bounds.Union(geom.Rect{X: pt.X, Y: pt.Y})
		}
	}

	e.scene = graph.Scene{Cards: cards, Paths: paths, Bounds: bounds}
	e.logger.Debug("scene refreshed",
		"visible", len(cards),
		"edges", len(edges),
		"paths", len(paths))
}

// Scene returns the current cards, routes and bounds together with a
// snapshot of the viewport.
func (e *Engine) Scene() graph.Scene {
	s := e.scene
	s.Viewport = *e.vp
	return s
}

// Visible returns the visible node IDs in input order.
func (e *Engine) Visible() []string { return e.vis.Visible() }

// IsExpanded reports whether id is expanded.
func (e *Engine) IsExpanded(id string) bool { return e.vis.IsExpanded(id) }

// Level returns the level assigned to id.
func (e *Engine) Level(id string) (int, bool) {
	n, ok := e.g.Node(id)
	if !ok {
		return 0, false
	}
	return n.Level, true
}

// Hierarchy returns details of the last level assignment.
func (e *Engine) Hierarchy() hierarchy.Result { return e.hier }

// Graph returns the current graph model. Callers must not mutate it.
func (e *Engine) Graph() *model.Graph { return e.g }

// NodeAt returns the visible card containing the content-space point p.
func (e *Engine) NodeAt(p geom.Point) (string, bool) {
	for _, c := range e.scene.Cards {
		if c.Rect.Contains(p) {
			return c.ID, true
		}
	}
	return "", false
}

// =============================================================================
// Viewport
// =============================================================================

// Viewport returns a snapshot of the viewport.
func (e *Engine) Viewport() viewport.Viewport { return *e.vp }

// PanBy translates the view by (dx, dy) screen pixels.
func (e *Engine) PanBy(dx, dy float64) { e.vp.PanBy(dx, dy) }

// ZoomAtPoint zooms by factor while keeping the screen point (px, py) fixed.
func (e *Engine) ZoomAtPoint(px, py, factor float64) { e.vp.ZoomAtPoint(px, py, factor) }

// SetViewport replaces the viewport, clamping the scale to
// [viewport.MinScale, viewport.MaxScale].
func (e *Engine) SetViewport(v viewport.Viewport) {
	v.Scale = geom.Clamp(viewport.MinScale, viewport.MaxScale, v.Scale)
	*e.vp = v
}

// ResetView restores scale 1 and zero translation.
func (e *Engine) ResetView() { e.vp.Reset() }

// SetScreenSize updates the screen size used for fitting and key zoom.
func (e *Engine) SetScreenSize(w, h float64) { e.screenW, e.screenH = w, h }

// ScreenSize returns the current screen size.
func (e *Engine) ScreenSize() (w, h float64) { return e.screenW, e.screenH }

// FitView scales and centers the scene on the screen.
func (e *Engine) FitView() {
	e.vp.FitTo(e.scene.Bounds, e.screenW, e.screenH, DefaultFitPadding)
}
