package cli

import (
	"context"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cardgraph/internal/watch"
	"github.com/matzehuels/cardgraph/pkg/graph"
)

func (c *CLI) exploreCommand() *cobra.Command {
	var (
		view  viewOpts
		follow bool
	)

	cmd := &cobra.Command{
		Use:   "explore [graph file]",
		Short: "Browse the card diagram in the terminal",
		Long: `Browse the card diagram in the terminal.

Tab selects the next card and Enter toggles it. Clicking a card toggles it,
the wheel zooms at the pointer and a right-button drag pans. With --watch the
graph is reloaded whenever the file changes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, _, err := c.loadEngine(cmd, args[0])
			if err != nil {
				return err
			}
			if err := view.apply(e); err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			p := tea.NewProgram(newExploreModel(e, filepath.Base(args[0])),
				tea.WithAltScreen(),
				tea.WithMouseCellMotion(),
				tea.WithContext(ctx),
			)
			if follow {
				go watchGraph(ctx, args[0], p.Send)
			}
			_, err = p.Run()
			if err == tea.ErrProgramKilled && ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		},
	}

	cmd.Flags().BoolVarP(&follow, "watch", "w", false, "reload the graph when the file changes")
	view.register(cmd.Flags())
	registerGeometryFlags(cmd.Flags())
	return cmd
}

// watchGraph re-reads path after each burst of writes and delivers the
// result through send until ctx is done.
func watchGraph(ctx context.Context, path string, send func(tea.Msg)) {
	err := watch.File(ctx, path, watch.DefaultDebounce, loggerFromContext(ctx), func() {
		g, err := graph.ReadFile(path)
		send(reloadMsg{graph: g, err: err})
	})
	if err != nil {
		send(reloadMsg{err: err})
	}
}
