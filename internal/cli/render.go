package cli

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cardgraph/pkg/engine"
	"github.com/matzehuels/cardgraph/pkg/graph"
	"github.com/matzehuels/cardgraph/pkg/render"
	"github.com/matzehuels/cardgraph/pkg/render/dot"
	"github.com/matzehuels/cardgraph/pkg/render/svg"
	"github.com/matzehuels/cardgraph/pkg/render/term"
)

// Output formats.
const (
	formatSVG  = "svg"
	formatPDF  = "pdf"
	formatPNG  = "png"
	formatDOT  = "dot"
	formatText = "txt"
	formatJSON = "json"
)

var renderFormats = []string{formatSVG, formatPDF, formatPNG, formatDOT, formatText, formatJSON}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output      string
	formats     []string
	view        viewOpts
	fit         bool    // fit the scene to the screen before drawing
	interactive bool    // embed hover highlighting in SVG output
	detailed    bool    // include levels and expansion state in DOT labels
	pngScale    float64 // rsvg-convert zoom for PNG
	cols, rows  int     // text canvas size
}

func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{fit: true, interactive: true, pngScale: 2, cols: 120, rows: 40}

	cmd := &cobra.Command{
		Use:   "render [graph file]",
		Short: "Render the card diagram to SVG, PDF, PNG, DOT or text",
		Long: `Render the card diagram of a graph file.

With a single format, -o names the output file. With several formats
(comma-separated), -o is a base path and each format adds its extension.
PDF and PNG output requires rsvg-convert (librsvg).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats, err := parseFormats(formatsStr)
			if err != nil {
				return err
			}
			opts.formats = formats
			return c.runRender(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", formatSVG, "output format(s): "+strings.Join(renderFormats, ", "))
	cmd.Flags().BoolVar(&opts.fit, "fit", opts.fit, "fit the scene to the frame")
	cmd.Flags().BoolVar(&opts.interactive, "interactive", opts.interactive, "embed hover highlighting (svg)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show levels and state in labels (dot)")
	cmd.Flags().Float64Var(&opts.pngScale, "png-scale", opts.pngScale, "resolution multiplier (png)")
	cmd.Flags().IntVar(&opts.cols, "cols", opts.cols, "canvas columns (txt)")
	cmd.Flags().IntVar(&opts.rows, "rows", opts.rows, "canvas rows (txt)")
	opts.view.register(cmd.Flags())
	registerGeometryFlags(cmd.Flags())

	return cmd
}

// parseFormats splits and validates the --format flag.
func parseFormats(s string) ([]string, error) {
	if s == "" {
		return []string{formatSVG}, nil
	}
	var formats []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if !slices.Contains(renderFormats, f) {
			return nil, fmt.Errorf("unknown format %q (want %s)", f, strings.Join(renderFormats, ", "))
		}
		if !slices.Contains(formats, f) {
			formats = append(formats, f)
		}
	}
	return formats, nil
}

// outputFor returns the path for one format.
func outputFor(input, output, format string, multiple bool) string {
	switch {
	case output == "":
		return outputPath(input, "."+format)
	case multiple:
		return outputPath(output, "."+format)
	default:
		return output
	}
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	e, _, err := c.loadEngine(cmd, input)
	if err != nil {
		return err
	}
	if err := opts.view.apply(e); err != nil {
		return err
	}

	var written []string
	for _, format := range opts.formats {
		prog := newProgress(logger)
		data, err := renderScene(ctx, e, format, opts)
		if err != nil {
			return fmt.Errorf("render %s: %w", format, err)
		}
		path := outputFor(input, opts.output, format, len(opts.formats) > 1)
		if err := writeOutput(path, data); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}
		prog.done("Rendered " + path)
		written = append(written, path)
	}

	printSuccess("Render complete")
	for _, p := range written {
		printFile(p)
	}
	printStats(e.Graph().NodeCount(), e.Graph().EdgeCount(), len(e.Visible()))
	return nil
}

// renderScene draws the engine's scene in one format. Fitting changes the
// engine's viewport, so text output, which uses its own screen size, is
// fitted separately.
func renderScene(ctx context.Context, e *engine.Engine, format string, opts *renderOpts) ([]byte, error) {
	switch format {
	case formatText:
		return []byte(renderText(e, opts.cols, opts.rows, opts.fit)), nil
	case formatJSON:
		return graph.MarshalScene(e.Scene())
	case formatDOT:
		return []byte(dot.ToDOT(e.Scene(), dot.Options{Detailed: opts.detailed, Positions: true})), nil
	}

	if opts.fit {
		e.FitView()
	}
	w, h := e.ScreenSize()
	svgOpts := []svg.Option{svg.WithSize(w, h)}
	if opts.interactive && format == formatSVG {
		svgOpts = append(svgOpts, svg.WithInteraction())
	}
	doc := svg.Render(e.Scene(), svgOpts...)

	switch format {
	case formatPDF:
		return convert(ctx, "Converting to PDF...", func() ([]byte, error) { return render.ToPDF(ctx, doc) })
	case formatPNG:
		return convert(ctx, "Converting to PNG...", func() ([]byte, error) { return render.ToPNG(ctx, doc, opts.pngScale) })
	}
	return doc, nil
}

func convert(ctx context.Context, msg string, fn func() ([]byte, error)) ([]byte, error) {
	s := newSpinner(ctx, os.Stderr, msg)
	s.start()
	data, err := fn()
	if err != nil {
		s.stopWithError("Conversion failed")
		return nil, err
	}
	s.stop()
	return data, nil
}

// renderText draws the scene onto a cols×rows character canvas. The
// engine's screen size and viewport are restored afterwards.
func renderText(e *engine.Engine, cols, rows int, fit bool) string {
	prevW, prevH := e.ScreenSize()
	prevVP := e.Viewport()
	defer func() {
		e.SetScreenSize(prevW, prevH)
		e.SetViewport(prevVP)
	}()

	e.SetScreenSize(term.ScreenSize(cols, rows))
	if fit {
		e.FitView()
	}
	canvas := term.NewCanvas(cols, rows)
	e.Render(canvas)
	return canvas.String() + "\n"
}
