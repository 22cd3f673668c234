// Package model provides the normalized graph store behind card diagrams.
//
// # Overview
//
// A [Graph] holds nodes and directed edges exactly as the data source
// supplies them: cycles, multiple roots, duplicate edges and isolated nodes
// are all allowed. Parent and child adjacency is derived from the edges and
// kept in declaration order so that every downstream pass (hierarchy,
// layout, routing) is deterministic.
//
// # Basic Usage
//
//	g := model.New()
//	_ = g.AddNode(model.Node{ID: "a"})
//	_ = g.AddNode(model.Node{ID: "b"})
//	_ = g.AddEdge(model.Edge{From: "a", To: "b", Label: "calls"})
//
// Level, X and Y on each [Node] are filled in by the hierarchy and layout
// packages. [Graph.SetLevels] rebuilds the level index used by
// [Graph.NodesInLevel].
//
// # Edge Identity
//
// Duplicate (From, To) edges are separate records. Each receives a stable
// ID that is a name-based UUID of (From, To, occurrence), so reloading the
// same data yields the same IDs.
//
// # Concurrency
//
// Graph instances are not safe for concurrent use.
package model
