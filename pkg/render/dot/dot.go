// Package dot exports cardgraph scenes as Graphviz DOT.
//
// Card positions are written as pinned pos attributes (in points, y flipped
// to Graphviz's bottom-up axis), so `neato -n` reproduces the cardgraph
// layout instead of computing its own.
package dot

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/cardgraph/pkg/graph"
)

// Options configures DOT export.
type Options struct {
	// Detailed adds the level to node labels.
	Detailed bool
	// Positions writes pinned pos/width/height attributes.
	Positions bool
}

const pointsPerInch = 72.0

// ToDOT converts the visible part of a scene to DOT. Nodes appear in scene
// order and edges in route order.
func ToDOT(s graph.Scene, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  node [shape=box, style=\"rounded\", fontsize=12];\n")
	buf.WriteString("\n")

	for _, c := range s.Cards {
		fmt.Fprintf(&buf, "  %q [%s];\n", c.ID, strings.Join(fmtAttrs(c, s, opts), ", "))
	}

	buf.WriteString("\n")
	for _, p := range s.Paths {
		if p.LabelText != "" {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", p.From, p.To, p.LabelText)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", p.From, p.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(c graph.Card, detailed bool) string {
	if !detailed {
		return c.Label
	}
	return fmt.Sprintf("%s\nlevel: %d", c.Label, c.Level)
}

func fmtAttrs(c graph.Card, s graph.Scene, opts Options) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(c, opts.Detailed))}
	if c.Expanded {
		attrs = append(attrs, "penwidth=2")
	}
	if opts.Positions {
		cx := c.Rect.X + c.Rect.Width/2
		cy := s.Bounds.MaxY - (c.Rect.Y + c.Rect.Height/2)
		attrs = append(attrs,
			fmt.Sprintf("pos=\"%.2f,%.2f!\"", cx, cy),
			fmt.Sprintf("width=%.3f", c.Rect.Width/pointsPerInch),
			fmt.Sprintf("height=%.3f", c.Rect.Height/pointsPerInch),
			"fixedsize=true",
		)
	}
	return attrs
}
