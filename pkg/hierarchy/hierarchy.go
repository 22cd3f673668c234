// Package hierarchy assigns every node of a card graph to a level (band).
//
// Levels come from a multi-source breadth-first traversal starting at the
// graph's roots, so a node's level is its distance from the nearest root.
// The traversal tolerates cycles, graphs without roots and disconnected
// components: every node always ends up with a finite, non-negative level.
package hierarchy

import (
	"github.com/matzehuels/cardgraph/pkg/model"
)

// Result describes how levels were assigned.
type Result struct {
	// Levels maps every node ID to its level.
	Levels map[string]int
	// Roots lists the BFS sources in discovery order.
	Roots []string
	// FallbackRoot is set when the graph had no parentless node and the
	// node with the most children was chosen as the single root.
	FallbackRoot bool
	// Promoted lists nodes that were unreachable from any root and had no
	// assigned parent, so they were seeded at level 0.
	Promoted []string
	// TreeParent maps each non-root node to the parent whose edge was used
	// to reach it. Every such edge satisfies level(child) > level(parent).
	TreeParent map[string]string
}

// Build assigns a level to every node of g and writes it back with
// [model.Graph.SetLevels].
//
// # Algorithm
//
//  1. Roots are the nodes with zero parents, in input order. If there are
//     none, the node with the most children is the single root (ties go to
//     the first node in input order).
//  2. A multi-source BFS runs from the roots. The first arrival marks a
//     node, which gives the shortest distance; ties follow queue order
//     (roots in discovery order, then children in declaration order).
//  3. Nodes the BFS never reached are swept in input order until stable:
//     a node with an assigned parent gets 1 + the maximum assigned parent
//     level. A sweep that assigns nothing promotes the first remaining node
//     to level 0, so the loop always terminates.
//
// Build never fails. Time complexity is O(V + E) for the BFS plus
// O(V·(V + E)) in the worst case for the unreachable sweep.
func Build(g *model.Graph) Result {
	res := Result{
		Levels:     make(map[string]int, g.NodeCount()),
		TreeParent: make(map[string]string),
	}
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return res
	}

	roots := model.NodeIDs(g.Roots())
	if len(roots) == 0 {
		roots = []string{busiestNode(g, nodes)}
		res.FallbackRoot = true
	}
	res.Roots = roots

	bfs(g, roots, &res)
	sweepUnreached(g, nodes, &res)

	g.SetLevels(res.Levels)
	return res
}

func busiestNode(g *model.Graph, nodes []*model.Node) string {
	best := nodes[0].ID
	bestDegree := g.OutDegree(best)
	for _, n := range nodes[1:] {
		if d := g.OutDegree(n.ID); d > bestDegree {
			best, bestDegree = n.ID, d
		}
	}
	return best
}

func bfs(g *model.Graph, sources []string, res *Result) {
	queue := make([]string, 0, g.NodeCount())
	for _, id := range sources {
		if _, seen := res.Levels[id]; seen {
			continue
		}
		res.Levels[id] = 0
		queue = append(queue, id)
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range g.Children(curr) {
			if _, seen := res.Levels[child]; seen {
				continue
			}
			res.Levels[child] = res.Levels[curr] + 1
			res.TreeParent[child] = curr
			queue = append(queue, child)
		}
	}
}

func sweepUnreached(g *model.Graph, nodes []*model.Node, res *Result) {
	for len(res.Levels) < len(nodes) {
		progress := false
		for _, n := range nodes {
			if _, done := res.Levels[n.ID]; done {
				continue
			}
			parent, level, ok := deepestAssignedParent(g, n.ID, res.Levels)
			switch {
			case ok:
				res.Levels[n.ID] = level + 1
				res.TreeParent[n.ID] = parent
				progress = true
			case g.InDegree(n.ID) == 0:
				res.Levels[n.ID] = 0
				progress = true
			}
		}
		if progress {
			continue
		}
		for _, n := range nodes {
			if _, done := res.Levels[n.ID]; !done {
				res.Levels[n.ID] = 0
				res.Promoted = append(res.Promoted, n.ID)
				break
			}
		}
	}
}

func deepestAssignedParent(g *model.Graph, id string, levels map[string]int) (string, int, bool) {
	var (
		best  string
		level = -1
	)
	for _, p := range g.Parents(id) {
		if l, ok := levels[p]; ok && l > level {
			best, level = p, l
		}
	}
	return best, level, level >= 0
}
