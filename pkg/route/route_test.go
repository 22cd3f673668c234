package route

import (
	"fmt"
	"math"
	"testing"

	"github.com/matzehuels/cardgraph/pkg/geom"
	"github.com/matzehuels/cardgraph/pkg/model"
)

const (
	cardW = 180
	cardH = 60
	gapX  = 40
	gapY  = 80
)

func box(level, slot int) Box {
	return Box{
		Rect: geom.Rect{
			X:      40 + float64(slot)*(cardW+gapX),
			Y:      40 + float64(level)*(cardH+gapY),
			Width:  cardW,
			Height: cardH,
		},
		Level: level,
	}
}

func edge(from, to string) model.Edge {
	return model.Edge{ID: from + "->" + to, From: from, To: to}
}

func pathFor(t *testing.T, paths []Path, id string) Path {
	t.Helper()
	for _, p := range paths {
		if p.EdgeID == id {
			return p
		}
	}
	t.Fatalf("no path for %s", id)
	return Path{}
}

func TestRoute_SiblingLanes(t *testing.T) {
	boxes := map[string]Box{
		"A": box(0, 0),
		"B": box(1, 0),
		"C": box(1, 1),
		"D": box(2, 0),
	}
	paths := New(DefaultConfig()).Route(
		[]model.Edge{edge("A", "B"), edge("A", "C"), edge("B", "D")},
		boxes,
	)
	if len(paths) != 3 {
		t.Fatalf("len(paths) = %d, want 3", len(paths))
	}

	ab := pathFor(t, paths, "A->B")
	ac := pathFor(t, paths, "A->C")
	if got := math.Abs(ac.RouteY - ab.RouteY); got != 15 {
		t.Errorf("|A->C.RouteY - A->B.RouteY| = %v, want 15", got)
	}
	if ab.Lane == ac.Lane {
		t.Errorf("A->B and A->C share lane %d", ab.Lane)
	}
	if ab.LaneSpacing != 15 {
		t.Errorf("LaneSpacing = %v, want 15", ab.LaneSpacing)
	}

	bd := pathFor(t, paths, "B->D")
	if bd.LaneCount != 1 || bd.Lane != 0 {
		t.Errorf("B->D lane = %d/%d, want 0/1", bd.Lane, bd.LaneCount)
	}
}

func TestRoute_Endpoints(t *testing.T) {
	boxes := map[string]Box{"A": box(0, 0), "B": box(1, 2)}
	p := New(DefaultConfig()).Route([]model.Edge{edge("A", "B")}, boxes)[0]

	if got, want := p.Points[0], boxes["A"].Rect.BottomCenter(); got != want {
		t.Errorf("first point = %v, want %v", got, want)
	}
	if got, want := p.Points[len(p.Points)-1], boxes["B"].Rect.TopCenter(); got != want {
		t.Errorf("last point = %v, want %v", got, want)
	}
	if p.Arrow != boxes["B"].Rect.TopCenter() {
		t.Errorf("Arrow = %v, want child top center", p.Arrow)
	}
	if p.ArrowUp {
		t.Error("ArrowUp = true for a forward edge")
	}
}

func TestRoute_AlignedUsesDirect(t *testing.T) {
	boxes := map[string]Box{"A": box(0, 0), "B": box(1, 0), "C": box(1, 1)}
	paths := New(DefaultConfig()).Route([]model.Edge{edge("A", "B"), edge("A", "C")}, boxes)

	ab := pathFor(t, paths, "A->B")
	if ab.UsedFan {
		t.Error("aligned edge used the fan path")
	}
	for _, s := range ab.Segments {
		if !s.IsVertical() {
			t.Errorf("aligned edge has non-vertical segment %v", s)
		}
	}

	ac := pathFor(t, paths, "A->C")
	if !ac.UsedFan {
		t.Error("A->C did not use the fan path")
	}
}

func TestRoute_SingleChildDirect(t *testing.T) {
	boxes := map[string]Box{"A": box(0, 0), "B": box(1, 3)}
	p := New(DefaultConfig()).Route([]model.Edge{edge("A", "B")}, boxes)[0]
	if p.UsedFan {
		t.Error("single-member fan group used the fan path")
	}
}

func TestRoute_FanWouldBacktrack(t *testing.T) {
	// Parent center is 130. C's center is 140, but its fan slot is 145.
	boxes := map[string]Box{
		"A": box(0, 0),
		"B": {Rect: geom.Rect{X: -300, Y: 180, Width: cardW, Height: cardH}, Level: 1},
		"C": {Rect: geom.Rect{X: 50, Y: 180, Width: cardW, Height: cardH}, Level: 1},
	}
	paths := New(DefaultConfig()).Route([]model.Edge{edge("A", "B"), edge("A", "C")}, boxes)

	if ab := pathFor(t, paths, "A->B"); !ab.UsedFan {
		t.Error("A->B did not use the fan path")
	}
	if ac := pathFor(t, paths, "A->C"); ac.UsedFan {
		t.Error("A->C used a fan slot beyond its child")
	}
	for _, p := range paths {
		assertNoBacktrack(t, p)
	}
}

func TestRoute_CollisionPush(t *testing.T) {
	// A two-level edge whose horizontal run crosses a card on level 1
	// standing between the parent and child columns.
	boxes := map[string]Box{
		"A": box(0, 0),
		"O": {Rect: geom.Rect{X: 160, Y: 180, Width: 150, Height: cardH}, Level: 1},
		"Z": box(2, 1),
	}
	cfg := DefaultConfig()
	p := New(cfg).Route([]model.Edge{edge("A", "Z")}, boxes)[0]

	want := boxes["O"].Rect.Bottom() + cfg.CollisionPadding
	if p.RouteY != want {
		t.Errorf("RouteY = %v, want %v", p.RouteY, want)
	}
	assertClear(t, p, boxes["O"].Rect)
}

func TestRoute_CollisionPushFinalDrop(t *testing.T) {
	// Three levels down: the run sits in the gap above level 2, but the
	// drop to the child would pass through the level-2 card above it.
	boxes := map[string]Box{
		"A": box(0, 0),
		"O": box(2, 1),
		"Z": box(3, 1),
	}
	cfg := DefaultConfig()
	p := New(cfg).Route([]model.Edge{edge("A", "Z")}, boxes)[0]

	if want := boxes["O"].Rect.Bottom() + cfg.CollisionPadding; p.RouteY != want {
		t.Errorf("RouteY = %v, want %v", p.RouteY, want)
	}
	assertClear(t, p, boxes["O"].Rect)
}

func TestRoute_NoCollisionNoPush(t *testing.T) {
	boxes := map[string]Box{
		"A": box(0, 0),
		"O": box(1, 8),
		"Z": box(2, 1),
	}
	p := New(DefaultConfig()).Route([]model.Edge{edge("A", "Z")}, boxes)[0]
	// Multi-level edges run halfway between the connection points.
	top, bottom := boxes["A"].Rect.Bottom(), boxes["Z"].Rect.Y
	if want := (top + bottom) / 2; p.RouteY != want {
		t.Errorf("RouteY = %v, want %v", p.RouteY, want)
	}
}

func TestRoute_SingleLevelStaysInGap(t *testing.T) {
	boxes := map[string]Box{"A": box(0, 0), "B": box(1, 2)}
	p := New(DefaultConfig()).Route([]model.Edge{edge("A", "B")}, boxes)[0]
	if want := boxes["A"].Rect.Bottom() + gapY/2; p.RouteY != want {
		t.Errorf("RouteY = %v, want %v", p.RouteY, want)
	}
}

func TestRoute_SkipsShortSegments(t *testing.T) {
	cfg := DefaultConfig()
	boxes := map[string]Box{
		"A": box(0, 0),
		"B": {Rect: geom.Rect{X: 42, Y: 180, Width: cardW, Height: cardH}, Level: 1},
	}
	p := New(cfg).Route([]model.Edge{edge("A", "B")}, boxes)[0]
	for _, s := range p.Segments {
		if s.Length() < cfg.MinSegment {
			t.Errorf("segment %v shorter than %v", s, cfg.MinSegment)
		}
	}
	if len(p.Segments) != 2 {
		t.Errorf("len(Segments) = %d, want 2", len(p.Segments))
	}
	assertPointsMatchSegments(t, p)
}

func TestRoute_SkipsSelfLoopsAndMissing(t *testing.T) {
	boxes := map[string]Box{"A": box(0, 0), "B": box(1, 0)}
	paths := New(DefaultConfig()).Route(
		[]model.Edge{edge("A", "A"), edge("A", "X"), edge("A", "B")},
		boxes,
	)
	if len(paths) != 1 || paths[0].EdgeID != "A->B" {
		t.Fatalf("paths = %+v, want only A->B", paths)
	}
}

func TestRoute_BackEdge(t *testing.T) {
	boxes := map[string]Box{"A": box(0, 0), "B": box(1, 1)}
	p := New(DefaultConfig()).Route([]model.Edge{edge("B", "A")}, boxes)[0]
	if !p.ArrowUp {
		t.Error("ArrowUp = false for a back edge")
	}
	if p.RouteY <= boxes["B"].Rect.Bottom() {
		t.Errorf("RouteY = %v, want below parent bottom %v", p.RouteY, boxes["B"].Rect.Bottom())
	}
	assertNoBacktrack(t, p)
}

func TestRoute_Label(t *testing.T) {
	boxes := map[string]Box{"A": box(0, 0), "B": box(1, 1)}
	e := edge("A", "B")
	e.Label = "calls"
	p := New(DefaultConfig()).Route([]model.Edge{e}, boxes)[0]
	if p.Label == nil {
		t.Fatal("Label = nil, want anchor")
	}
	if p.Label.Y != p.RouteY {
		t.Errorf("Label.Y = %v, want RouteY %v", p.Label.Y, p.RouteY)
	}
	if p.LabelText != "calls" {
		t.Errorf("LabelText = %q, want calls", p.LabelText)
	}

	unlabeled := New(DefaultConfig()).Route([]model.Edge{edge("A", "B")}, boxes)[0]
	if unlabeled.Label != nil {
		t.Error("unlabeled edge has a label anchor")
	}
}

func TestRoute_FanLabelAtSpanMidpoint(t *testing.T) {
	// A (center 350) fans out to B and C (center 790). The label of A->B
	// sits at the midpoint of the whole horizontal span, on whichever run
	// covers it.
	tests := []struct {
		name   string
		bX     float64
		onFanY bool
	}{
		{"routed run", 40, false},
		{"fan run", 240, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			boxes := map[string]Box{
				"A": box(0, 1),
				"B": {Rect: geom.Rect{X: tt.bX, Y: 180, Width: cardW, Height: cardH}, Level: 1},
				"C": box(1, 3),
			}
			ab := edge("A", "B")
			ab.Label = "calls"
			paths := New(DefaultConfig()).Route([]model.Edge{ab, edge("A", "C")}, boxes)

			p := pathFor(t, paths, "A->B")
			if !p.UsedFan {
				t.Fatal("A->B did not use the fan path")
			}
			sx, ex := boxes["A"].Rect.BottomCenter().X, boxes["B"].Rect.TopCenter().X
			if want := (sx + ex) / 2; p.Label.X != want {
				t.Errorf("Label.X = %v, want %v", p.Label.X, want)
			}
			if got := p.Label.Y != p.RouteY; got != tt.onFanY {
				t.Errorf("label on fan run = %v, want %v", got, tt.onFanY)
			}
			if !onPath(p, *p.Label) {
				t.Errorf("Label %v is not on the route %v", *p.Label, p.Points)
			}
		})
	}
}

func TestRoute_NoBacktrackSweep(t *testing.T) {
	offsets := []float64{-700, -260, -45, -12, -6, -4, 0, 4, 6, 12, 45, 260, 700}
	for _, fan := range []int{1, 2, 3, 5, 9} {
		for _, dx := range offsets {
			for _, span := range []int{1, 2} {
				boxes := map[string]Box{"P": box(0, 3)}
				var edges []model.Edge
				for i := 0; i < fan; i++ {
					id := fmt.Sprintf("c%d", i)
					b := box(span, 0)
					b.Rect.X = boxes["P"].Rect.X + dx + float64(i-fan/2)*(cardW+gapX)
					boxes[id] = b
					edges = append(edges, edge("P", id))
				}
				for _, p := range New(DefaultConfig()).Route(edges, boxes) {
					t.Run(fmt.Sprintf("fan%d/dx%v/span%d/%s", fan, dx, span, p.EdgeID), func(t *testing.T) {
						assertNoBacktrack(t, p)
						assertPointsMatchSegments(t, p)
					})
				}
			}
		}
	}
}

func TestRoute_LaneSpacingBounds(t *testing.T) {
	cfg := DefaultConfig()
	r := New(cfg)
	tests := []struct {
		gap  float64
		n    int
		want float64
	}{
		{80, 1, 15},
		{80, 2, 15},
		{80, 4, 10.666666666666666},
		{80, 20, 8},
		{10, 2, 8},
	}
	for _, tt := range tests {
		if got := r.laneSpacing(tt.gap, tt.n); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("laneSpacing(%v, %d) = %v, want %v", tt.gap, tt.n, got, tt.want)
		}
	}
}

func TestRoute_Deterministic(t *testing.T) {
	boxes, edges := fanout(7)
	first := New(DefaultConfig()).Route(edges, boxes)
	for i := 0; i < 10; i++ {
		again := New(DefaultConfig()).Route(edges, boxes)
		for j := range first {
			if first[j].RouteY != again[j].RouteY || first[j].Lane != again[j].Lane {
				t.Fatalf("run %d edge %d differs: %+v vs %+v", i, j, first[j], again[j])
			}
		}
	}
}

func TestRoute_WideFanoutInvariants(t *testing.T) {
	boxes, edges := fanout(12)
	paths := New(DefaultConfig()).Route(edges, boxes)

	seen := make(map[float64]string)
	for _, p := range paths {
		assertNoBacktrack(t, p)
		if other, ok := seen[p.RouteY]; ok {
			t.Errorf("%s and %s share RouteY %v", p.EdgeID, other, p.RouteY)
		}
		seen[p.RouteY] = p.EdgeID
		if p.LaneSpacing < 8 || p.LaneSpacing > 15 {
			t.Errorf("%s LaneSpacing = %v, want within [8, 15]", p.EdgeID, p.LaneSpacing)
		}
	}
}

func TestWithDefaults(t *testing.T) {
	cfg := New(Config{FanStep: 20}).Config()
	if cfg.FanStep != 20 {
		t.Errorf("FanStep = %v, want 20", cfg.FanStep)
	}
	if cfg.MaxFanSpread != 80 {
		t.Errorf("MaxFanSpread = %v, want 80", cfg.MaxFanSpread)
	}
}

// fanout builds one root on level 1's middle slot with n children on level 2.
func fanout(n int) (map[string]Box, []model.Edge) {
	boxes := map[string]Box{"R": box(0, n/2)}
	var edges []model.Edge
	for i := 0; i < n; i++ {
		id := string(rune('a' + i))
		boxes[id] = box(1, i)
		edges = append(edges, edge("R", id))
	}
	return boxes, edges
}

func assertNoBacktrack(t *testing.T, p Path) {
	t.Helper()
	dir := 0.0
	for _, s := range p.Segments {
		if !s.IsHorizontal() {
			continue
		}
		dx := s.DX()
		if dir != 0 && math.Signbit(dx) != math.Signbit(dir) {
			t.Errorf("%s reverses horizontally at %v", p.EdgeID, s)
		}
		dir = dx
	}
}

// assertClear fails if any segment of p passes through the interior of r.
func assertClear(t *testing.T, p Path, r geom.Rect) {
	t.Helper()
	for _, s := range p.Segments {
		lo := geom.Point{X: math.Min(s.From.X, s.To.X), Y: math.Min(s.From.Y, s.To.Y)}
		hi := geom.Point{X: math.Max(s.From.X, s.To.X), Y: math.Max(s.From.Y, s.To.Y)}
		if lo.X < r.Right() && hi.X > r.X && lo.Y < r.Bottom() && hi.Y > r.Y {
			t.Errorf("%s segment %v passes through %+v", p.EdgeID, s, r)
		}
	}
}

// assertPointsMatchSegments checks that Segments are exactly the pieces of
// Points, so a polyline drawn from Points never shows a dropped piece.
func assertPointsMatchSegments(t *testing.T, p Path) {
	t.Helper()
	if len(p.Segments) != len(p.Points)-1 {
		t.Fatalf("%s has %d points and %d segments", p.EdgeID, len(p.Points), len(p.Segments))
	}
	for i, s := range p.Segments {
		if s.From != p.Points[i] || s.To != p.Points[i+1] {
			t.Errorf("%s segment %d = %v, want %v -> %v", p.EdgeID, i, s, p.Points[i], p.Points[i+1])
		}
	}
}

func onPath(p Path, pt geom.Point) bool {
	for _, s := range p.Segments {
		if s.IsHorizontal() && s.From.Y == pt.Y &&
			pt.X >= math.Min(s.From.X, s.To.X) && pt.X <= math.Max(s.From.X, s.To.X) {
			return true
		}
	}
	return false
}
