package geom

import "testing"

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 100, Height: 50}

	tests := []struct {
		p    Point
		want bool
	}{
		{Point{10, 20}, true},
		{Point{50, 40}, true},
		{Point{109.9, 69.9}, true},
		{Point{110, 40}, false},
		{Point{50, 70}, false},
		{Point{9, 40}, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestRectOverlaps(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}

	tests := []struct {
		name string
		b    Rect
		want bool
	}{
		{"inside", Rect{X: 2, Y: 2, Width: 2, Height: 2}, true},
		{"partial", Rect{X: 5, Y: 5, Width: 10, Height: 10}, true},
		{"touching edge", Rect{X: 10, Y: 0, Width: 5, Height: 5}, false},
		{"disjoint", Rect{X: 20, Y: 20, Width: 5, Height: 5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
			if got := tt.b.Overlaps(a); got != tt.want {
				t.Errorf("reverse Overlaps() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectCrossesHorizontal(t *testing.T) {
	r := Rect{X: 100, Y: 100, Width: 50, Height: 20}

	tests := []struct {
		name      string
		y, x0, x1 float64
		want      bool
	}{
		{"through middle", 110, 0, 200, true},
		{"reversed span", 110, 200, 0, true},
		{"on top edge", 100, 120, 130, true},
		{"above", 99, 0, 200, false},
		{"below", 121, 0, 200, false},
		{"ends before", 110, 0, 100, false},
		{"starts after", 110, 150, 300, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.CrossesHorizontal(tt.y, tt.x0, tt.x1); got != tt.want {
				t.Errorf("CrossesHorizontal(%v, %v, %v) = %v, want %v", tt.y, tt.x0, tt.x1, got, tt.want)
			}
		})
	}
}

func TestRectCenters(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 100, Height: 50}
	if got := r.TopCenter(); got != (Point{60, 20}) {
		t.Errorf("TopCenter() = %v, want {60 20}", got)
	}
	if got := r.BottomCenter(); got != (Point{60, 70}) {
		t.Errorf("BottomCenter() = %v, want {60 70}", got)
	}
}

func TestSegment(t *testing.T) {
	h := Segment{From: Point{0, 5}, To: Point{-4, 5}}
	if !h.IsHorizontal() || h.IsVertical() {
		t.Errorf("%v: IsHorizontal = %v, IsVertical = %v", h, h.IsHorizontal(), h.IsVertical())
	}
	if h.DX() != -4 {
		t.Errorf("DX() = %v, want -4", h.DX())
	}

	v := Segment{From: Point{3, 0}, To: Point{3, 4}}
	if !v.IsVertical() || v.IsHorizontal() {
		t.Errorf("%v: IsHorizontal = %v, IsVertical = %v", v, v.IsHorizontal(), v.IsVertical())
	}

	d := Segment{From: Point{0, 0}, To: Point{3, 4}}
	if d.Length() != 5 {
		t.Errorf("Length() = %v, want 5", d.Length())
	}

	p := Segment{From: Point{1, 1}, To: Point{1, 1}}
	if p.IsHorizontal() || p.IsVertical() {
		t.Error("degenerate segment reported as axis-aligned")
	}
}

func TestBoundsUnion(t *testing.T) {
	var b Bounds
	if !b.Empty() {
		t.Fatal("zero Bounds not empty")
	}

	b = b.Union(Rect{X: 10, Y: 10, Width: 20, Height: 10})
	b = b.Union(Rect{X: -5, Y: 30, Width: 10, Height: 10})

	want := Bounds{MinX: -5, MinY: 10, MaxX: 30, MaxY: 40}
	if b != want {
		t.Errorf("Union() = %+v, want %+v", b, want)
	}
	if b.Width() != 35 || b.Height() != 30 {
		t.Errorf("size = %vx%v, want 35x30", b.Width(), b.Height())
	}
}

func TestClamp(t *testing.T) {
	tests := []struct{ v, want float64 }{
		{-1, 0.1},
		{0.5, 0.5},
		{4, 3},
	}
	for _, tt := range tests {
		if got := Clamp(0.1, 3, tt.v); got != tt.want {
			t.Errorf("Clamp(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}
