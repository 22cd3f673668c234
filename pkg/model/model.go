package model

import (
	"errors"
	"slices"
	"strconv"

	"github.com/google/uuid"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists. Node identity is the externally supplied ID.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the To node
	// does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")
)

// edgeNamespace seeds the name-based UUIDs handed out as edge IDs.
var edgeNamespace = uuid.MustParse("6f1c3a52-5d0e-4c7b-9a41-2b8e0f7d9c13")

// Metadata stores arbitrary key-value pairs attached to nodes or edges.
// Metadata maps are never nil after a node or edge has been added.
type Metadata map[string]any

// Node is a vertex of the card graph.
//
// Level, X and Y are written by the hierarchy and layout passes; they are
// zero until the first pass runs.
type Node struct {
	ID          string   // Unique identifier supplied by the data source
	DisplayName string   // Card title (falls back to ID)
	Labels      []string // Source-side type labels
	Meta        Metadata // Source-side properties

	Level int     // BFS band (0 = root)
	X     float64 // Top-left layout-space x
	Y     float64 // Top-left layout-space y
}

// Label returns the text drawn on the node's card.
func (n Node) Label() string {
	if n.DisplayName != "" {
		return n.DisplayName
	}
	return n.ID
}

// Edge is a directed connection between two nodes. Duplicate (From, To)
// pairs are kept as distinct records and are told apart by ID.
type Edge struct {
	ID    string   // Stable identifier, assigned by AddEdge
	From  string   // Parent node ID
	To    string   // Child node ID
	Label string   // Optional caption drawn at the route midpoint
	Meta  Metadata // Arbitrary metadata (never nil after AddEdge)

	index int
}

// Index returns the insertion position of the edge within its graph.
func (e Edge) Index() int { return e.index }

// IsSelfLoop reports whether the edge starts and ends at the same node.
func (e Edge) IsSelfLoop() bool { return e.From == e.To }

// Graph is the normalized node/edge store with parent/child adjacency
// derived from directed edges. Unlike a DAG it accepts cycles; ordering is
// always explicit (insertion order) and never depends on map iteration.
//
// The zero value is not usable; create graphs with [New].
// Graph is not safe for concurrent use without external synchronization.
type Graph struct {
	nodes    map[string]*Node
	order    []*Node
	edges    []Edge
	outgoing map[string][]string
	incoming map[string][]string
	pairs    map[[2]string]int
	levels   map[int][]*Node
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
		pairs:    make(map[[2]string]int),
		levels:   make(map[int][]*Node),
	}
}

// AddNode adds a node and indexes it under its current Level.
// Returns ErrInvalidNodeID for an empty ID or ErrDuplicateNodeID if the ID
// is already taken.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	node := &n
	g.nodes[node.ID] = node
	g.order = append(g.order, node)
	g.levels[node.Level] = append(g.levels[node.Level], node)
	return nil
}

// AddEdge adds a directed edge between two existing nodes and assigns it a
// deterministic ID derived from (From, To, occurrence).
//
// Each distinct child is recorded once in the parent's child list (and vice
// versa) even when several edge records connect the pair. Self-loops are
// stored as edges but never appear in the adjacency lists.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	if e.Meta == nil {
		e.Meta = Metadata{}
	}

	key := [2]string{e.From, e.To}
	occurrence := g.pairs[key]
	g.pairs[key] = occurrence + 1

	e.ID = edgeID(e.From, e.To, occurrence)
	e.index = len(g.edges)
	g.edges = append(g.edges, e)

	if occurrence == 0 && !e.IsSelfLoop() {
		g.outgoing[e.From] = append(g.outgoing[e.From], e.To)
		g.incoming[e.To] = append(g.incoming[e.To], e.From)
	}
	return nil
}

func edgeID(from, to string, occurrence int) string {
	name := from + "\x00" + to + "\x00" + strconv.Itoa(occurrence)
	return uuid.NewSHA1(edgeNamespace, []byte(name)).String()
}

// SetLevels updates level assignments and rebuilds the level index.
// Nodes missing from levels keep their current level. Within a level nodes
// stay in insertion order.
func (g *Graph) SetLevels(levels map[string]int) {
	g.levels = make(map[int][]*Node)
	for _, n := range g.order {
		if l, ok := levels[n.ID]; ok {
			n.Level = l
		}
		g.levels[n.Level] = append(g.levels[n.Level], n)
	}
}

// Nodes returns all nodes in insertion order. The pointers refer to the
// graph's own nodes.
func (g *Graph) Nodes() []*Node { return slices.Clone(g.order) }

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.order) }

// EdgeCount returns the number of edge records, duplicates included.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Has reports whether id names a node of the graph.
func (g *Graph) Has(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Children returns the distinct child IDs of id in declaration order.
// The returned slice must not be modified.
func (g *Graph) Children(id string) []string { return g.outgoing[id] }

// Parents returns the distinct parent IDs of id in declaration order.
// The returned slice must not be modified.
func (g *Graph) Parents(id string) []string { return g.incoming[id] }

// OutDegree returns the number of distinct children.
func (g *Graph) OutDegree(id string) int { return len(g.outgoing[id]) }

// InDegree returns the number of distinct parents.
func (g *Graph) InDegree(id string) int { return len(g.incoming[id]) }

// Roots returns the nodes without parents, in insertion order.
func (g *Graph) Roots() []*Node {
	var roots []*Node
	for _, n := range g.order {
		if len(g.incoming[n.ID]) == 0 {
			roots = append(roots, n)
		}
	}
	return roots
}

// NodesInLevel returns the nodes assigned to level in insertion order.
// The returned slice must not be modified.
func (g *Graph) NodesInLevel(level int) []*Node { return g.levels[level] }

// Levels returns every populated level in ascending order.
func (g *Graph) Levels() []int {
	ids := make([]int, 0, len(g.levels))
	for l, nodes := range g.levels {
		if len(nodes) > 0 {
			ids = append(ids, l)
		}
	}
	slices.Sort(ids)
	return ids
}

// MaxLevel returns the deepest populated level, or 0 for an empty graph.
func (g *Graph) MaxLevel() int {
	levels := g.Levels()
	if len(levels) == 0 {
		return 0
	}
	return levels[len(levels)-1]
}

// IsCyclic reports whether the adjacency contains a directed cycle.
// Self-loops are not part of the adjacency and are ignored.
func (g *Graph) IsCyclic() bool {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(g.nodes))
	var visit func(id string) bool
	visit = func(id string) bool {
		color[id] = gray
		for _, child := range g.outgoing[id] {
			switch color[child] {
			case white:
				if visit(child) {
					return true
				}
			case gray:
				return true
			}
		}
		color[id] = black
		return false
	}

	for _, n := range g.order {
		if color[n.ID] == white && visit(n.ID) {
			return true
		}
	}
	return false
}

// NodeIDs extracts the ID from each node, preserving order.
func NodeIDs(nodes []*Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}
