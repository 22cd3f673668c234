// Package render holds the renderers for cardgraph scenes and the shared
// format conversion helpers.
//
// Every renderer consumes a graph.Scene through the engine's RenderAdapter
// contract, so the viewport transform is applied once, in the engine:
//
//   - [svg]: standalone SVG documents with optional hover highlighting
//   - [term]: a character canvas for terminal output and the explore TUI
//   - [dot]: Graphviz DOT with pinned card positions, for interoperability
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG with the external rsvg-convert tool
// (from librsvg).
//
//	data := svg.Render(scene, svg.WithSize(1200, 800))
//	pdf, err := render.ToPDF(ctx, data)
//	png, err := render.ToPNG(ctx, data, 2.0)
package render
