// Package term renders cardgraph scenes onto a character grid.
//
// The canvas treats every cell as CellWidth×CellHeight screen pixels, so a
// host that gives the engine a screen size of cols*CellWidth by
// rows*CellHeight gets a scene that fills the terminal.
package term

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/cardgraph/pkg/engine"
	"github.com/matzehuels/cardgraph/pkg/geom"
)

// Cell size in screen pixels.
const (
	CellWidth  = 8
	CellHeight = 16
)

type kind uint8

const (
	kindEmpty kind = iota
	kindEdge
	kindCard
	kindArrow
	kindLabel
)

// Styles colors the canvas by element kind.
type Styles struct {
	Card  lipgloss.Style
	Edge  lipgloss.Style
	Arrow lipgloss.Style
	Label lipgloss.Style
}

// DefaultStyles returns the palette used by the explore TUI.
func DefaultStyles() Styles {
	return Styles{
		Card:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Edge:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Arrow: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Label: lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Italic(true),
	}
}

// Canvas is a fixed-size character grid. It implements engine.RenderAdapter.
type Canvas struct {
	cols, rows int
	cells      [][]rune
	kinds      [][]kind
}

// NewCanvas creates a blank canvas.
func NewCanvas(cols, rows int) *Canvas {
	c := &Canvas{cols: max(0, cols), rows: max(0, rows)}
	c.cells = make([][]rune, c.rows)
	c.kinds = make([][]kind, c.rows)
	for y := range c.cells {
		c.cells[y] = []rune(strings.Repeat(" ", c.cols))
		c.kinds[y] = make([]kind, c.cols)
	}
	return c
}

// ScreenSize returns the pixel size a canvas of cols×rows represents.
func ScreenSize(cols, rows int) (w, h float64) {
	return float64(cols * CellWidth), float64(rows * CellHeight)
}

func cell(p geom.Point) (int, int) {
	return int(math.Floor(p.X / CellWidth)), int(math.Floor(p.Y / CellHeight))
}

func (c *Canvas) set(x, y int, r rune, k kind) {
	if x < 0 || y < 0 || x >= c.cols || y >= c.rows {
		return
	}
	if k < c.kinds[y][x] {
		return
	}
	if k == kindEdge && c.kinds[y][x] == kindEdge && c.cells[y][x] != r {
		r = '┼'
	}
	c.cells[y][x] = r
	c.kinds[y][x] = k
}

func (c *Canvas) text(x, y int, s string, k kind) {
	for i, r := range []rune(s) {
		c.set(x+i, y, r, k)
	}
}

// DrawRect draws a box-drawing frame with the label on its first inner row.
func (c *Canvas) DrawRect(id string, r geom.Rect, label string) {
	x0, y0 := cell(geom.Point{X: r.X, Y: r.Y})
	x1, y1 := cell(geom.Point{X: r.Right() - 1, Y: r.Bottom() - 1})
	if x1-x0 < 1 {
		x1 = x0 + 1
	}
	if y1-y0 < 1 {
		y1 = y0 + 1
	}

	for x := x0; x <= x1; x++ {
		c.set(x, y0, '─', kindCard)
		c.set(x, y1, '─', kindCard)
	}
	for y := y0; y <= y1; y++ {
		c.set(x0, y, '│', kindCard)
		c.set(x1, y, '│', kindCard)
	}
	for y := y0 + 1; y < y1; y++ {
		for x := x0 + 1; x < x1; x++ {
			c.set(x, y, ' ', kindCard)
		}
	}
	c.set(x0, y0, '┌', kindCard)
	c.set(x1, y0, '┐', kindCard)
	c.set(x0, y1, '└', kindCard)
	c.set(x1, y1, '┘', kindCard)

	inner := x1 - x0 - 1
	if inner <= 0 {
		return
	}
	runes := []rune(label)
	if len(runes) > inner {
		if inner > 1 {
			runes = append(runes[:inner-1], '…')
		} else {
			runes = runes[:inner]
		}
	}
	row := y0 + (y1-y0)/2
	if row == y0 {
		row = y0 + 1
	}
	start := x0 + 1 + (inner-len(runes))/2
	c.text(start, row, string(runes), kindCard)
}

// DrawPolyline draws the orthogonal segments of an edge route.
func (c *Canvas) DrawPolyline(edgeID string, points []geom.Point) {
	for i := 1; i < len(points); i++ {
		ax, ay := cell(points[i-1])
		bx, by := cell(points[i])
		switch {
		case ay == by:
			for x := min(ax, bx); x <= max(ax, bx); x++ {
				c.set(x, ay, '─', kindEdge)
			}
		case ax == bx:
			for y := min(ay, by); y <= max(ay, by); y++ {
				c.set(ax, y, '│', kindEdge)
			}
		default:
			// off-grid diagonal after scaling; approximate with an L
			for x := min(ax, bx); x <= max(ax, bx); x++ {
				c.set(x, ay, '─', kindEdge)
			}
			for y := min(ay, by); y <= max(ay, by); y++ {
				c.set(bx, y, '│', kindEdge)
			}
		}
	}
}

// DrawArrow marks the edge's entry into its child card.
func (c *Canvas) DrawArrow(at geom.Point, up bool) {
	x, y := cell(at)
	if up {
		c.set(x, y, '▲', kindArrow)
		return
	}
	c.set(x, y-1, '▼', kindArrow)
}

// DrawLabel writes an edge caption centered at at.
func (c *Canvas) DrawLabel(at geom.Point, text string) {
	x, y := cell(at)
	c.text(x-len([]rune(text))/2, y, text, kindLabel)
}

// String returns the canvas as plain text, one line per row with trailing
// spaces trimmed.
func (c *Canvas) String() string {
	lines := make([]string, c.rows)
	for y, row := range c.cells {
		lines[y] = strings.TrimRight(string(row), " ")
	}
	return strings.Join(lines, "\n")
}

// Render returns the canvas with each run of same-kind cells styled.
func (c *Canvas) Render(st Styles) string {
	var b strings.Builder
	for y := range c.cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		x := 0
		for x < c.cols {
			k := c.kinds[y][x]
			end := x
			for end < c.cols && c.kinds[y][end] == k {
				end++
			}
			b.WriteString(st.style(k).Render(string(c.cells[y][x:end])))
			x = end
		}
	}
	return b.String()
}

func (st Styles) style(k kind) lipgloss.Style {
	switch k {
	case kindCard:
		return st.Card
	case kindEdge:
		return st.Edge
	case kindArrow:
		return st.Arrow
	case kindLabel:
		return st.Label
	}
	return lipgloss.NewStyle()
}

var _ engine.RenderAdapter = (*Canvas)(nil)
