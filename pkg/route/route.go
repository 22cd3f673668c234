package route

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/cardgraph/pkg/geom"
	"github.com/matzehuels/cardgraph/pkg/model"
)

// Config tunes lane spacing, fan spread and collision handling. Distances
// are in content-space pixels.
type Config struct {
	MinLaneSpacing   float64 `koanf:"min_lane_spacing" json:"min_lane_spacing"`
	MaxLaneSpacing   float64 `koanf:"max_lane_spacing" json:"max_lane_spacing"`
	LaneFraction     float64 `koanf:"lane_fraction" json:"lane_fraction"`
	FanStep          float64 `koanf:"fan_step" json:"fan_step"`
	MaxFanSpread     float64 `koanf:"max_fan_spread" json:"max_fan_spread"`
	AlignTolerance   float64 `koanf:"align_tolerance" json:"align_tolerance"`
	MinSegment       float64 `koanf:"min_segment" json:"min_segment"`
	CollisionPadding float64 `koanf:"collision_padding" json:"collision_padding"`

	// BandGap is the gap used for edges whose endpoints do not describe a
	// downward gap (back and flat edges). Callers normally set it to the
	// layout's vertical gap.
	BandGap float64 `koanf:"band_gap" json:"band_gap"`
}

// DefaultConfig returns the standard routing parameters.
func DefaultConfig() Config {
	return Config{
		MinLaneSpacing:   8,
		MaxLaneSpacing:   15,
		LaneFraction:     0.4,
		FanStep:          15,
		MaxFanSpread:     80,
		AlignTolerance:   5,
		MinSegment:       3,
		CollisionPadding: 15,
		BandGap:          80,
	}
}

// Box is a positioned card as seen by the router.
type Box struct {
	Rect  geom.Rect
	Level int
}

// Path is the routed geometry of one edge.
type Path struct {
	EdgeID string `json:"edge_id"`
	From   string `json:"from"`
	To     string `json:"to"`

	Lane        int     `json:"lane"`
	LaneCount   int     `json:"lane_count"`
	LaneSpacing float64 `json:"lane_spacing"`
	RouteY      float64 `json:"route_y"`
	UsedFan     bool    `json:"used_fan"`

	// Points is the polyline from the parent's bottom-center to the
	// child's top-center. Interior points closer than Config.MinSegment to
	// their predecessor are dropped.
	Points []geom.Point `json:"points"`
	// Segments holds the pieces of Points. Only an edge whose endpoints are
	// themselves closer than Config.MinSegment has no segment.
	Segments []geom.Segment `json:"segments"`

	Arrow   geom.Point `json:"arrow"`
	ArrowUp bool       `json:"arrow_up,omitempty"`

	Label     *geom.Point `json:"label,omitempty"`
	LabelText string      `json:"label_text,omitempty"`
}

// Router routes edges between positioned cards.
type Router struct {
	cfg Config
}

// New creates a router. Zero-valued fields of cfg fall back to
// [DefaultConfig].
func New(cfg Config) *Router {
	return &Router{cfg: withDefaults(cfg)}
}

func withDefaults(cfg Config) Config {
	def := DefaultConfig()
	fill := func(v *float64, d float64) {
		if *v <= 0 {
			*v = d
		}
	}
	fill(&cfg.MinLaneSpacing, def.MinLaneSpacing)
	fill(&cfg.MaxLaneSpacing, def.MaxLaneSpacing)
	fill(&cfg.LaneFraction, def.LaneFraction)
	fill(&cfg.FanStep, def.FanStep)
	fill(&cfg.MaxFanSpread, def.MaxFanSpread)
	fill(&cfg.AlignTolerance, def.AlignTolerance)
	fill(&cfg.MinSegment, def.MinSegment)
	fill(&cfg.CollisionPadding, def.CollisionPadding)
	fill(&cfg.BandGap, def.BandGap)
	if cfg.MaxLaneSpacing < cfg.MinLaneSpacing {
		cfg.MaxLaneSpacing = cfg.MinLaneSpacing
	}
	return cfg
}

// Config returns the effective configuration.
func (r *Router) Config() Config { return r.cfg }

// plan is the per-edge working state of one routing pass.
type plan struct {
	order         int
	edge          model.Edge
	parent, child Box
	start, end    geom.Point
	gap           float64

	lane, laneCount int
	spacing         float64
	fanIndex        int
	fanSize         int
}

func (p *plan) forward() bool { return p.child.Level > p.parent.Level }

// span is the number of levels the edge descends; zero or negative for back
// and flat edges.
func (p *plan) span() int { return p.child.Level - p.parent.Level }

// Route computes one [Path] per routable edge, in the order of edges.
// Edges with an endpoint missing from boxes and self-loops are skipped.
func (r *Router) Route(edges []model.Edge, boxes map[string]Box) []Path {
	plans := r.plans(edges, boxes)
	r.assignLanes(plans)
	r.assignFans(plans)

	obstacles := byLevel(boxes)
	paths := make([]Path, len(plans))
	for i, p := range plans {
		paths[i] = r.routeOne(p, obstacles)
	}
	return paths
}

func (r *Router) plans(edges []model.Edge, boxes map[string]Box) []*plan {
	plans := make([]*plan, 0, len(edges))
	for i, e := range edges {
		if e.IsSelfLoop() {
			continue
		}
		parent, okP := boxes[e.From]
		child, okC := boxes[e.To]
		if !okP || !okC {
			continue
		}
		p := &plan{
			order:  i,
			edge:   e,
			parent: parent,
			child:  child,
			start:  parent.Rect.BottomCenter(),
			end:    child.Rect.TopCenter(),
		}
		p.gap = r.gapFor(p)
		plans = append(plans, p)
	}
	return plans
}

// gapFor returns the free vertical space directly below the parent's band.
// For an edge spanning d levels in a uniform layout this equals the layout's
// vertical gap.
func (r *Router) gapFor(p *plan) float64 {
	d := p.child.Level - p.parent.Level
	if d < 1 {
		return r.cfg.BandGap
	}
	gap := (p.child.Rect.Y - p.parent.Rect.Bottom() - float64(d-1)*p.child.Rect.Height) / float64(d)
	if gap <= 0 {
		return r.cfg.BandGap
	}
	return gap
}

type levelPair struct{ from, to int }

// assignLanes groups plans into level-pair buckets and numbers the lanes of
// each bucket by (parent x, child x, input order).
func (r *Router) assignLanes(plans []*plan) {
	buckets := make(map[levelPair][]*plan)
	var keys []levelPair
	for _, p := range plans {
		k := levelPair{p.parent.Level, p.child.Level}
		if _, ok := buckets[k]; !ok {
			keys = append(keys, k)
		}
		buckets[k] = append(buckets[k], p)
	}

	for _, k := range keys {
		bucket := buckets[k]
		slices.SortStableFunc(bucket, func(a, b *plan) int {
			return cmp.Or(
				cmp.Compare(a.start.X, b.start.X),
				cmp.Compare(a.end.X, b.end.X),
				cmp.Compare(a.order, b.order),
			)
		})
		gap := bucket[0].gap
		for _, p := range bucket[1:] {
			gap = math.Min(gap, p.gap)
		}
		spacing := r.laneSpacing(gap, len(bucket))
		for i, p := range bucket {
			p.lane = i
			p.laneCount = len(bucket)
			p.spacing = spacing
		}
	}
}

// laneSpacing shrinks as more edges share a gap and is bounded to
// [MinLaneSpacing, MaxLaneSpacing].
func (r *Router) laneSpacing(gap float64, n int) float64 {
	return geom.Clamp(r.cfg.MinLaneSpacing, r.cfg.MaxLaneSpacing,
		r.cfg.LaneFraction*gap/float64(max(1, n-1)))
}

// assignFans numbers the edges leaving each parent by (child x, input order).
func (r *Router) assignFans(plans []*plan) {
	groups := make(map[string][]*plan)
	for _, p := range plans {
		groups[p.edge.From] = append(groups[p.edge.From], p)
	}
	for _, group := range groups {
		slices.SortStableFunc(group, func(a, b *plan) int {
			return cmp.Or(cmp.Compare(a.end.X, b.end.X), cmp.Compare(a.order, b.order))
		})
		for i, p := range group {
			p.fanIndex = i
			p.fanSize = len(group)
		}
	}
}

// fanX spreads a fan group symmetrically around the parent's center.
func (r *Router) fanX(p *plan) float64 {
	spread := math.Min(r.cfg.MaxFanSpread, float64(p.fanSize)*r.cfg.FanStep)
	return p.start.X - spread/2 + float64(p.fanIndex)*spread/float64(p.fanSize-1)
}

// useFan reports whether the fan x can be used without reversing the
// horizontal direction of the route.
func (r *Router) useFan(p *plan, fx float64) bool {
	if p.fanSize < 2 {
		return false
	}
	if math.Abs(p.end.X-p.start.X) <= r.cfg.AlignTolerance {
		return false
	}
	lo, hi := math.Min(p.start.X, p.end.X), math.Max(p.start.X, p.end.X)
	return fx >= lo && fx <= hi
}

func byLevel(boxes map[string]Box) map[int][]geom.Rect {
	ids := make([]string, 0, len(boxes))
	for id := range boxes {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	levels := make(map[int][]geom.Rect)
	for _, id := range ids {
		b := boxes[id]
		levels[b.Level] = append(levels[b.Level], b.Rect)
	}
	return levels
}

// avoid returns y pushed below every card on a level strictly between the
// endpoints that the route would pass through: the horizontal run at y over
// [x0, x1], or the final drop at the child's x from y down to the child. The
// push is computed in one pass against the candidate y.
func (r *Router) avoid(p *plan, y, x0, x1 float64, obstacles map[int][]geom.Rect) float64 {
	pushed := y
	for level := p.parent.Level + 1; level < p.child.Level; level++ {
		for _, rect := range obstacles[level] {
			if rect.CrossesHorizontal(y, x0, x1) || blocksDrop(rect, p.end.X, y, p.end.Y) {
				pushed = math.Max(pushed, rect.Bottom()+r.cfg.CollisionPadding)
			}
		}
	}
	return math.Min(pushed, p.end.Y-r.cfg.MinSegment)
}

// blocksDrop reports whether the vertical line at x from y0 down to y1
// passes through rect.
func blocksDrop(rect geom.Rect, x, y0, y1 float64) bool {
	return x > rect.X && x < rect.Right() && y0 < rect.Bottom() && y1 > rect.Y
}

func (r *Router) routeOne(p *plan, obstacles map[int][]geom.Rect) Path {
	sx, sy := p.start.X, p.start.Y
	ex, ey := p.end.X, p.end.Y

	// Single-level edges run through the gap under the parent. Longer edges
	// run halfway between the endpoints so that cards on the levels in
	// between are seen by the collision check.
	offset := (float64(p.lane) - float64(p.laneCount-1)/2) * p.spacing
	gapY := sy + p.gap/2 + offset
	baseY := gapY
	if p.span() > 1 {
		baseY = (sy+ey)/2 + offset
	}
	if p.forward() {
		gapY = math.Min(gapY, ey-r.cfg.MinSegment)
		baseY = math.Min(baseY, ey-r.cfg.MinSegment)
	}
	gapY = math.Max(gapY, sy+r.cfg.MinSegment)
	baseY = math.Max(baseY, sy+r.cfg.MinSegment)

	fx := r.fanX(p)
	fan := r.useFan(p, fx)
	midX := (sx + ex) / 2

	routeY := baseY
	if p.span() > 1 {
		lo, hi := math.Min(sx, ex), math.Max(sx, ex)
		routeY = r.avoid(p, baseY, lo, hi, obstacles)
	}

	var pts []geom.Point
	label := geom.Point{X: midX, Y: routeY}
	if fan {
		fanY := sy + (gapY-sy)/2
		pts = []geom.Point{
			p.start,
			{X: sx, Y: fanY},
			{X: fx, Y: fanY},
			{X: fx, Y: routeY},
			{X: ex, Y: routeY},
			p.end,
		}
		// The midpoint of the whole horizontal span lies on the fan run
		// when the fan x is past it.
		if math.Abs(fx-sx) > math.Abs(midX-sx) {
			label.Y = fanY
		}
	} else {
		pts = []geom.Point{
			p.start,
			{X: sx, Y: routeY},
			{X: midX, Y: routeY},
			{X: ex, Y: routeY},
			p.end,
		}
	}
	pts = r.compact(pts)

	path := Path{
		EdgeID:      p.edge.ID,
		From:        p.edge.From,
		To:          p.edge.To,
		Lane:        p.lane,
		LaneCount:   p.laneCount,
		LaneSpacing: p.spacing,
		RouteY:      routeY,
		UsedFan:     fan,
		Points:      pts,
		Segments:    r.segments(pts),
		Arrow:       p.end,
		ArrowUp:     ey < routeY,
	}
	if p.edge.Label != "" {
		path.Label = &label
		path.LabelText = p.edge.Label
	}
	return path
}

// compact drops interior points closer than MinSegment to the previously
// kept point, so that every piece of the polyline is drawable. The endpoints
// are always kept.
func (r *Router) compact(pts []geom.Point) []geom.Point {
	out := []geom.Point{pts[0]}
	end := pts[len(pts)-1]
	for _, pt := range pts[1 : len(pts)-1] {
		if dist(out[len(out)-1], pt) >= r.cfg.MinSegment {
			out = append(out, pt)
		}
	}
	for len(out) > 1 && dist(out[len(out)-1], end) < r.cfg.MinSegment {
		out = out[:len(out)-1]
	}
	return append(out, end)
}

func dist(a, b geom.Point) float64 { return geom.Segment{From: a, To: b}.Length() }

func (r *Router) segments(pts []geom.Point) []geom.Segment {
	var segs []geom.Segment
	for i := 1; i < len(pts); i++ {
		s := geom.Segment{From: pts[i-1], To: pts[i]}
		if s.Length() < r.cfg.MinSegment {
			continue
		}
		segs = append(segs, s)
	}
	return segs
}
