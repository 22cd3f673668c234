// Package geom provides the small set of 2-D primitives shared by layout,
// routing and rendering: points, axis-aligned rectangles and line segments.
//
// All coordinates are in content space (before any viewport transform) with
// the origin at the top-left and y increasing downward.
package geom

import "math"

// Point is a position in content or screen space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy float64) Point { return Point{X: p.X + dx, Y: p.Y + dy} }

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// TopCenter is the connection point for incoming edges.
func (r Rect) TopCenter() Point { return Point{X: r.X + r.Width/2, Y: r.Y} }

// BottomCenter is the connection point for outgoing edges.
func (r Rect) BottomCenter() Point { return Point{X: r.X + r.Width/2, Y: r.Bottom()} }

// Contains reports whether p lies inside r. The right and bottom edges are
// exclusive so that adjacent rectangles never both claim a point.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Overlaps reports whether the half-open rectangles share any area.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// CrossesHorizontal reports whether the horizontal line at y, restricted to
// [x0, x1], passes through r. The span endpoints may be given in either order.
func (r Rect) CrossesHorizontal(y, x0, x1 float64) bool {
	if y < r.Y || y > r.Bottom() {
		return false
	}
	lo, hi := math.Min(x0, x1), math.Max(x0, x1)
	return lo < r.Right() && hi > r.X
}

// Segment is a straight line between two points.
type Segment struct {
	From Point `json:"from"`
	To   Point `json:"to"`
}

// Length returns the Euclidean length of the segment.
func (s Segment) Length() float64 { return math.Hypot(s.To.X-s.From.X, s.To.Y-s.From.Y) }

// IsHorizontal reports whether the segment has no vertical extent.
func (s Segment) IsHorizontal() bool { return s.From.Y == s.To.Y && s.From.X != s.To.X }

// IsVertical reports whether the segment has no horizontal extent.
func (s Segment) IsVertical() bool { return s.From.X == s.To.X && s.From.Y != s.To.Y }

// DX returns the signed horizontal delta.
func (s Segment) DX() float64 { return s.To.X - s.From.X }

// Bounds is the extent of a set of rectangles.
type Bounds struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// Width returns the horizontal extent.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Empty reports whether no rectangle has been added.
func (b Bounds) Empty() bool { return b.MaxX <= b.MinX && b.MaxY <= b.MinY }

// Union grows b to include r. The zero Bounds is treated as empty.
func (b Bounds) Union(r Rect) Bounds {
	if b.Empty() {
		return Bounds{MinX: r.X, MinY: r.Y, MaxX: r.Right(), MaxY: r.Bottom()}
	}
	return Bounds{
		MinX: math.Min(b.MinX, r.X),
		MinY: math.Min(b.MinY, r.Y),
		MaxX: math.Max(b.MaxX, r.Right()),
		MaxY: math.Max(b.MaxY, r.Bottom()),
	}
}

// Clamp limits v to [lo, hi].
func Clamp(lo, hi, v float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
