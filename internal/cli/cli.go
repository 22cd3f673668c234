package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/cardgraph/internal/config"
	"github.com/matzehuels/cardgraph/pkg/buildinfo"
	"github.com/matzehuels/cardgraph/pkg/engine"
	"github.com/matzehuels/cardgraph/pkg/graph"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the binary name used in help and completion text.
const appName = "cardgraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	cfgFile string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Cardgraph lays out graphs as expandable card hierarchies",
		Long: `Cardgraph turns a directed graph into a diagram of cards arranged in
horizontal bands by hierarchy level. Cards start collapsed at the roots and
expand to reveal their children; edges are routed in lanes between bands.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default: ./cardgraph.yaml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.infoCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Engine Setup
// =============================================================================

// viewOpts are the expansion flags shared by every command that builds a
// scene.
type viewOpts struct {
	expand    []string
	expandAll bool
}

func (o *viewOpts) register(fs *pflag.FlagSet) {
	fs.StringSliceVar(&o.expand, "expand", nil, "expand the given node IDs (comma-separated)")
	fs.BoolVar(&o.expandAll, "expand-all", false, "expand every node")
}

// apply expands the requested nodes. Unknown IDs are reported as errors so
// that typos on the command line do not pass silently.
func (o *viewOpts) apply(e *engine.Engine) error {
	if o.expandAll {
		e.ExpandAll()
		return nil
	}
	var unknown []string
	for _, id := range o.expand {
		if _, ok := e.Level(id); !ok {
			unknown = append(unknown, id)
			continue
		}
		e.Expand(id)
	}
	if len(unknown) > 0 {
		return fmt.Errorf("unknown node(s): %s", strings.Join(unknown, ", "))
	}
	return nil
}

// registerGeometryFlags adds the flags that config.Load maps onto layout and
// screen settings.
func registerGeometryFlags(fs *pflag.FlagSet) {
	fs.Float64("card-width", 0, "card width in pixels")
	fs.Float64("card-height", 0, "card height in pixels")
	fs.Float64("h-gap", 0, "horizontal gap between cards")
	fs.Float64("v-gap", 0, "vertical gap between bands")
	fs.Bool("center-children", false, "start each band under its first parent")
	fs.Float64("width", 0, "screen width in pixels")
	fs.Float64("height", 0, "screen height in pixels")
}

// loadEngine resolves configuration, reads the graph file and returns a
// ready engine.
func (c *CLI) loadEngine(cmd *cobra.Command, input string) (*engine.Engine, *config.Config, error) {
	cfg, err := config.Load(c.cfgFile, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}
	logger := loggerFromContext(cmd.Context())
	if f := config.FileUsed(); f != "" {
		logger.Debug("using config file", "file", f)
	}

	g, err := graph.ReadFile(input)
	if err != nil {
		return nil, nil, fmt.Errorf("load graph %s: %w", input, err)
	}

	e := engine.New(
		engine.WithLayoutConfig(cfg.Layout),
		engine.WithRouteConfig(cfg.Route),
		engine.WithScreenSize(cfg.Screen.Width, cfg.Screen.Height),
		engine.WithLogger(logger),
	)
	if err := e.Load(g); err != nil {
		return nil, nil, fmt.Errorf("load graph %s: %w", input, err)
	}
	return e, cfg, nil
}
