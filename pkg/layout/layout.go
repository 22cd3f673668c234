// Package layout converts level assignments into 2-D card positions.
//
// The layout is a fixed-band layout: every level occupies one horizontal
// band, and nodes inside a band are placed left to right in the order the
// graph lists them. Determinism and O(n) cost are preferred over visual
// balance, so nodes are not centered under their parents unless
// [Config.CenterChildren] is set.
package layout

import (
	"github.com/matzehuels/cardgraph/pkg/geom"
	"github.com/matzehuels/cardgraph/pkg/model"
)

// Config holds card geometry and spacing. All values are in content-space
// pixels.
type Config struct {
	CardWidth     float64 `koanf:"card_width" json:"card_width"`
	CardHeight    float64 `koanf:"card_height" json:"card_height"`
	HorizontalGap float64 `koanf:"horizontal_gap" json:"horizontal_gap"`
	VerticalGap   float64 `koanf:"vertical_gap" json:"vertical_gap"`
	RootX         float64 `koanf:"root_x" json:"root_x"`
	RootY         float64 `koanf:"root_y" json:"root_y"`

	// CenterChildren starts each band under the first placed parent of its
	// first node instead of at RootX. Bands remain contiguous, so cards in
	// the same level still never overlap.
	CenterChildren bool `koanf:"center_children" json:"center_children"`
}

// DefaultConfig returns the standard card geometry.
func DefaultConfig() Config {
	return Config{
		CardWidth:     180,
		CardHeight:    60,
		HorizontalGap: 40,
		VerticalGap:   80,
		RootX:         40,
		RootY:         40,
	}
}

// LevelY returns the top edge of the band for level.
func (c Config) LevelY(level int) float64 {
	return c.RootY + float64(level)*(c.CardHeight+c.VerticalGap)
}

// SlotX returns the left edge of the index-th card in a band starting at startX.
func (c Config) SlotX(startX float64, index int) float64 {
	return startX + float64(index)*(c.CardWidth+c.HorizontalGap)
}

// Rect returns the card rectangle of a positioned node.
func (c Config) Rect(n *model.Node) geom.Rect {
	return geom.Rect{X: n.X, Y: n.Y, Width: c.CardWidth, Height: c.CardHeight}
}

// Compute assigns X and Y to every node for which include returns true and
// returns the extent of the placed cards. A nil include places every node.
// Excluded nodes keep their previous coordinates and leave no gap in their
// band.
//
// Compute guarantees that y grows monotonically with level and that no two
// cards in the same level overlap.
func Compute(g *model.Graph, cfg Config, include func(id string) bool) geom.Bounds {
	var bounds geom.Bounds
	for _, level := range g.Levels() {
		startX := cfg.RootX
		index := 0
		for _, n := range g.NodesInLevel(level) {
			if include != nil && !include(n.ID) {
				continue
			}
			if index == 0 && cfg.CenterChildren {
				startX = bandStart(g, cfg, n, include)
			}
			n.X = cfg.SlotX(startX, index)
			n.Y = cfg.LevelY(level)
			bounds = bounds.Union(cfg.Rect(n))
			index++
		}
	}
	return bounds
}

func bandStart(g *model.Graph, cfg Config, n *model.Node, include func(string) bool) float64 {
	for _, pid := range g.Parents(n.ID) {
		p, ok := g.Node(pid)
		if !ok || p.Level >= n.Level {
			continue
		}
		if include != nil && !include(pid) {
			continue
		}
		if p.X > cfg.RootX {
			return p.X
		}
		break
	}
	return cfg.RootX
}
