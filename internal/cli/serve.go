package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cardgraph/internal/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var view viewOpts

	cmd := &cobra.Command{
		Use:   "serve [graph file]",
		Short: "Serve the card diagram over HTTP",
		Long: `Serve the card diagram over HTTP.

GET /scene returns the scene as JSON and GET /scene.svg draws it. Cards are
toggled with POST /nodes/{id}/toggle; raw pointer and key input goes to
POST /input. Subscribe to GET /events for reload notifications.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, cfg, err := c.loadEngine(cmd, args[0])
			if err != nil {
				return err
			}
			if err := view.apply(e); err != nil {
				return err
			}

			srv := server.New(server.Config{
				Engine:    e,
				Logger:    loggerFromContext(cmd.Context()),
				Addr:      cfg.Server.Addr,
				GraphFile: args[0],
				Watch:     cfg.Server.Watch,
			})
			printInfo("Serving %s on %s", args[0], displayAddr(cfg.Server.Addr))
			return srv.Serve(cmd.Context())
		},
	}

	cmd.Flags().String("addr", ":8080", "listen address")
	cmd.Flags().BoolP("watch", "w", false, "reload the graph when the file changes")
	view.register(cmd.Flags())
	registerGeometryFlags(cmd.Flags())
	return cmd
}

// displayAddr turns ":8080" into a clickable URL.
func displayAddr(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return fmt.Sprintf("http://localhost%s", addr)
	}
	return "http://" + addr
}
