package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cardgraph/pkg/graph"
)

// layoutCommand creates the layout command, which writes the computed scene
// as JSON.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		view   viewOpts
	)

	cmd := &cobra.Command{
		Use:   "layout [graph file]",
		Short: "Compute card positions and edge routes",
		Long: `Compute card positions and edge routes for a graph file.

The graph is read from JSON, YAML, TOML or DOT (by extension). Only the roots
are visible unless --expand or --expand-all is given. The scene is written as
JSON to <input>.scene.json, or to stdout with -o -.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd, args[0], output, view)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.scene.json, - for stdout)")
	view.register(cmd.Flags())
	registerGeometryFlags(cmd.Flags())

	return cmd
}

func (c *CLI) runLayout(cmd *cobra.Command, input, output string, view viewOpts) error {
	prog := newProgress(loggerFromContext(cmd.Context()))

	e, _, err := c.loadEngine(cmd, input)
	if err != nil {
		return err
	}
	if err := view.apply(e); err != nil {
		return err
	}
	scene := e.Scene()

	if output == "-" {
		return graph.WriteScene(scene, cmd.OutOrStdout())
	}
	if output == "" {
		output = outputPath(input, ".scene.json")
	}
	if err := graph.WriteSceneFile(scene, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	prog.done("Layout complete")
	printSuccess("Layout complete")
	printFile(output)
	printStats(e.Graph().NodeCount(), e.Graph().EdgeCount(), len(scene.Cards))
	printNewline()
	printNextStep("Render", fmt.Sprintf("%s render %s", appName, input))
	return nil
}

// outputPath replaces the extension of input with suffix.
func outputPath(input, suffix string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix
}

// writeOutput writes data to path, creating parent directories.
func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
