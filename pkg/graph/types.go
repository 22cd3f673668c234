package graph

import (
	"github.com/matzehuels/cardgraph/pkg/errors"
	"github.com/matzehuels/cardgraph/pkg/geom"
	"github.com/matzehuels/cardgraph/pkg/route"
	"github.com/matzehuels/cardgraph/pkg/viewport"
)

// =============================================================================
// Graph - Input Records
// =============================================================================

// Graph is the wholesale node/edge payload loaded by the engine.
type Graph struct {
	Nodes []Node `json:"nodes" yaml:"nodes" toml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges" toml:"edges"`
}

// Node is a node record as supplied by a data source.
type Node struct {
	ID          string         `json:"id" yaml:"id" toml:"id"`
	DisplayName string         `json:"displayName,omitempty" yaml:"displayName,omitempty" toml:"displayName,omitempty"`
	Labels      []string       `json:"labels,omitempty" yaml:"labels,omitempty" toml:"labels,omitempty"`
	Properties  map[string]any `json:"properties,omitempty" yaml:"properties,omitempty" toml:"properties,omitempty"`
}

// Edge is a directed edge record. Duplicate (From, To) pairs are allowed.
type Edge struct {
	From  string `json:"from" yaml:"from" toml:"from"`
	To    string `json:"to" yaml:"to" toml:"to"`
	Label string `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
}

// Validate checks node IDs for uniqueness and well-formedness and that every
// edge references declared nodes.
func (g Graph) Validate() error {
	seen := make(map[string]bool, len(g.Nodes))
	for i, n := range g.Nodes {
		if err := errors.ValidateNodeID(n.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidGraph, err, "node %d", i)
		}
		if seen[n.ID] {
			return errors.New(errors.ErrCodeInvalidGraph, "duplicate node id %q", n.ID)
		}
		seen[n.ID] = true
	}
	for i, e := range g.Edges {
		if !seen[e.From] {
			return errors.New(errors.ErrCodeInvalidGraph, "edge %d: unknown source node %q", i, e.From)
		}
		if !seen[e.To] {
			return errors.New(errors.ErrCodeInvalidGraph, "edge %d: unknown target node %q", i, e.To)
		}
	}
	return nil
}

// =============================================================================
// Scene - Renderer Output
// =============================================================================

// Scene is everything a renderer needs to draw the current view.
type Scene struct {
	Cards    []Card            `json:"cards"`
	Paths    []route.Path      `json:"paths"`
	Bounds   geom.Bounds       `json:"bounds"`
	Viewport viewport.Viewport `json:"viewport"`
}

// Card is a visible node's rectangle in content space.
type Card struct {
	ID          string    `json:"id"`
	Label       string    `json:"label"`
	Level       int       `json:"level"`
	Rect        geom.Rect `json:"rect"`
	Expanded    bool      `json:"expanded,omitempty"`
	HasChildren bool      `json:"has_children,omitempty"`
}

// Card returns the card with the given ID.
func (s Scene) Card(id string) (Card, bool) {
	for _, c := range s.Cards {
		if c.ID == id {
			return c, true
		}
	}
	return Card{}, false
}
