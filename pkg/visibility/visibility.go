// Package visibility tracks the expand/collapse state of a card graph and
// derives which nodes and edges are currently drawn.
//
// A node is visible when it is at level 0, when it is expanded itself, or
// when one of its parents is expanded. Expansion is shallow: opening a node
// reveals its direct children only.
package visibility

import (
	"github.com/matzehuels/cardgraph/pkg/model"
)

// Set is the expansion state of one graph. A rebuilt graph gets a new Set.
type Set struct {
	g        *model.Graph
	expanded map[string]bool
}

// New creates an empty expansion state for g. Only roots are visible.
func New(g *model.Graph) *Set {
	return &Set{g: g, expanded: make(map[string]bool)}
}

// Toggle flips the expansion of id and reports whether id is now expanded.
// Unknown IDs are ignored and report false.
func (s *Set) Toggle(id string) bool {
	if !s.g.Has(id) {
		return false
	}
	if s.expanded[id] {
		delete(s.expanded, id)
		return false
	}
	s.expanded[id] = true
	return true
}

// Expand marks id as expanded. Expanding twice equals expanding once.
func (s *Set) Expand(id string) {
	if s.g.Has(id) {
		s.expanded[id] = true
	}
}

// Collapse removes id from the expanded set. Collapsing a node that is not
// expanded is a no-op.
func (s *Set) Collapse(id string) { delete(s.expanded, id) }

// IsExpanded reports whether id is expanded.
func (s *Set) IsExpanded(id string) bool { return s.expanded[id] }

// Expanded returns the expanded IDs in graph order.
func (s *Set) Expanded() []string {
	var ids []string
	for _, n := range s.g.Nodes() {
		if s.expanded[n.ID] {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// ExpandAll expands every node that has at least one child.
func (s *Set) ExpandAll() {
	for _, n := range s.g.Nodes() {
		if s.g.OutDegree(n.ID) > 0 {
			s.expanded[n.ID] = true
		}
	}
}

// CollapseAll clears the expansion state so that exactly the level-0 nodes
// remain visible.
func (s *Set) CollapseAll() {
	clear(s.expanded)
}

// VisibleSet returns the visible node IDs as a lookup set.
func (s *Set) VisibleSet() map[string]bool {
	visible := make(map[string]bool)
	for _, n := range s.g.NodesInLevel(0) {
		visible[n.ID] = true
	}
	for id := range s.expanded {
		visible[id] = true
		for _, child := range s.g.Children(id) {
			visible[child] = true
		}
	}
	return visible
}

// Visible returns the visible node IDs in graph order.
func (s *Set) Visible() []string {
	set := s.VisibleSet()
	ids := make([]string, 0, len(set))
	for _, n := range s.g.Nodes() {
		if set[n.ID] {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// VisibleEdges returns the edges whose endpoints are both visible, in
// insertion order. Self-loops are omitted because they cannot be routed
// between two cards.
func (s *Set) VisibleEdges() []model.Edge {
	set := s.VisibleSet()
	var edges []model.Edge
	for _, e := range s.g.Edges() {
		if e.IsSelfLoop() {
			continue
		}
		if set[e.From] && set[e.To] {
			edges = append(edges, e)
		}
	}
	return edges
}
