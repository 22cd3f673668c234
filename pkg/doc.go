// Package pkg provides the core libraries for cardgraph, an engine that turns
// a directed graph of nodes and edges into an interactive diagram of cards
// arranged in horizontal bands.
//
// # Overview
//
// A graph is loaded wholesale, every node is given a level by breadth-first
// traversal from the roots, and only the roots are visible at first. Cards
// are expanded to reveal their children, laid out level by level, connected
// by orthogonal edge routes, and finally drawn through a pan/zoom viewport by
// any renderer that implements the adapter interface.
//
// # Architecture
//
// The data flow through cardgraph:
//
//	graph file (JSON, YAML, TOML, DOT)
//	         ↓
//	    [graph] package (decode + validate records)
//	         ↓
//	    [model] package (node/edge store with adjacency)
//	         ↓
//	    [hierarchy] package (BFS levels)
//	         ↓
//	    [visibility] package (expanded set → visible set)
//	         ↓
//	    [layout] package (card rectangles per level)
//	         ↓
//	    [route] package (orthogonal edge polylines)
//	         ↓
//	    [engine] package (composition + input handling)
//	         ↓
//	    [render] packages (SVG, DOT, terminal, PDF/PNG)
//
// # Quick Start
//
// Load a graph, expand a node and render the scene as SVG:
//
//	import (
//	    "github.com/matzehuels/cardgraph/pkg/engine"
//	    "github.com/matzehuels/cardgraph/pkg/graph"
//	    "github.com/matzehuels/cardgraph/pkg/render/svg"
//	)
//
//	g, err := graph.ReadFile("services.yaml")
//	if err != nil {
//	    return err
//	}
//
//	e := engine.New(engine.WithScreenSize(1280, 800))
//	if err := e.Load(g); err != nil {
//	    return err
//	}
//	e.Expand("gateway")
//	e.FitView()
//
//	out := svg.Render(e.Scene(), svg.WithSize(1280, 800))
//
// # Main Packages
//
// ## Domain
//
//   - [model]: Graph store with insertion-ordered nodes, distinct
//     parent/child adjacency and deterministic edge IDs.
//   - [hierarchy]: Multi-source BFS level assignment that tolerates cycles,
//     rootless graphs and disconnected components.
//   - [visibility]: The expanded set and the visible set derived from it.
//   - [layout]: Level-by-level card placement, optionally centering children
//     under their parents.
//   - [route]: Orthogonal edge routing with lanes, fan-out and collision
//     avoidance.
//   - [viewport]: Pan/zoom transform between content and screen space.
//   - [engine]: Composes the above behind one stateful API.
//
// ## Support
//
//   - [graph]: Input record types, readers and the Scene output type.
//   - [geom]: Points, rectangles and bounds.
//   - [errors]: Coded errors shared by every layer.
//   - [observability]: Hooks for engine and HTTP events.
//   - [buildinfo]: Version information set at link time.
//
// ## Rendering
//
//   - [render/svg]: Standalone SVG with optional click/hover scripting.
//   - [render/dot]: Graphviz DOT export.
//   - [render/term]: Character-cell canvas for terminals.
//   - [render]: PDF and PNG conversion of SVG output.
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/cardgraph/pkg/graph
// [model]: https://pkg.go.dev/github.com/matzehuels/cardgraph/pkg/model
// [hierarchy]: https://pkg.go.dev/github.com/matzehuels/cardgraph/pkg/hierarchy
// [visibility]: https://pkg.go.dev/github.com/matzehuels/cardgraph/pkg/visibility
// [layout]: https://pkg.go.dev/github.com/matzehuels/cardgraph/pkg/layout
// [route]: https://pkg.go.dev/github.com/matzehuels/cardgraph/pkg/route
// [viewport]: https://pkg.go.dev/github.com/matzehuels/cardgraph/pkg/viewport
// [engine]: https://pkg.go.dev/github.com/matzehuels/cardgraph/pkg/engine
// [geom]: https://pkg.go.dev/github.com/matzehuels/cardgraph/pkg/geom
// [errors]: https://pkg.go.dev/github.com/matzehuels/cardgraph/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/cardgraph/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/cardgraph/pkg/buildinfo
// [render]: https://pkg.go.dev/github.com/matzehuels/cardgraph/pkg/render
// [render/svg]: https://pkg.go.dev/github.com/matzehuels/cardgraph/pkg/render/svg
// [render/dot]: https://pkg.go.dev/github.com/matzehuels/cardgraph/pkg/render/dot
// [render/term]: https://pkg.go.dev/github.com/matzehuels/cardgraph/pkg/render/term
package pkg
