package graph

import (
	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
)

// parseDOT walks a parsed DOT graph in declaration order. Only node names and
// edge endpoints are read; Graphviz is never asked to lay the graph out.
func parseDOT(data []byte) (Graph, error) {
	dg, err := graphviz.ParseBytes(data)
	if err != nil {
		return Graph{}, err
	}
	defer dg.Close()

	var out Graph
	var nodes []*cgraph.Node
	err = each(dg.FirstNode, dg.NextNode, func(n *cgraph.Node) error {
		name, err := n.Name()
		if err != nil {
			return err
		}
		nodes = append(nodes, n)
		out.Nodes = append(out.Nodes, Node{ID: name})
		return nil
	})
	if err != nil {
		return Graph{}, err
	}

	for i, n := range nodes {
		first := func() (*cgraph.Edge, error) { return dg.FirstOut(n) }
		err := each(first, dg.NextOut, func(e *cgraph.Edge) error {
			head, err := e.Head()
			if err != nil {
				return err
			}
			to, err := head.Name()
			if err != nil {
				return err
			}
			out.Edges = append(out.Edges, Edge{From: out.Nodes[i].ID, To: to})
			return nil
		})
		if err != nil {
			return Graph{}, err
		}
	}
	return out, nil
}

// each drives a cgraph-style iterator. An error from first or next stops the
// walk even when it comes with a nil element.
func each[T any](first func() (*T, error), next func(*T) (*T, error), fn func(*T) error) error {
	cur, err := first()
	for {
		if err != nil {
			return err
		}
		if cur == nil {
			return nil
		}
		if err := fn(cur); err != nil {
			return err
		}
		cur, err = next(cur)
	}
}
