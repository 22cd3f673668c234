package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cardgraph/pkg/engine"
)

// infoCommand prints how the hierarchy builder leveled a graph.
func (c *CLI) infoCommand() *cobra.Command {
	var nodes bool

	cmd := &cobra.Command{
		Use:   "info [graph file]",
		Short: "Show hierarchy levels and graph statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, _, err := c.loadEngine(cmd, args[0])
			if err != nil {
				return err
			}
			g := e.Graph()
			h := e.Hierarchy()

			fmt.Fprintln(out, StyleTitle.Render(args[0]))
			printKeyValue("nodes", strconv.Itoa(g.NodeCount()))
			printKeyValue("edges", strconv.Itoa(g.EdgeCount()))
			printKeyValue("levels", strconv.Itoa(len(g.Levels())))
			printKeyValue("roots", strings.Join(h.Roots, ", "))
			printKeyValue("cyclic", strconv.FormatBool(g.IsCyclic()))
			if h.FallbackRoot {
				printWarning("no parentless node; %s chosen as root", h.Roots[0])
			}
			if len(h.Promoted) > 0 {
				printWarning("promoted to level 0: %s", strings.Join(h.Promoted, ", "))
			}

			printNewline()
			fmt.Fprintln(out, levelTable(e, nodes))
			return nil
		},
	}

	cmd.Flags().BoolVar(&nodes, "nodes", false, "list every node instead of per-level counts")
	return cmd
}

// levelTable lists each level with its node count, or every node with its
// level and degree when perNode is set.
func levelTable(e *engine.Engine, perNode bool) string {
	g := e.Graph()
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == -1 {
				return styleHeader.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	if !perNode {
		t.Headers("Level", "Nodes", "First")
		for _, l := range g.Levels() {
			ns := g.NodesInLevel(l)
			t.Row(strconv.Itoa(l), strconv.Itoa(len(ns)), ns[0].Label())
		}
		return t.Render()
	}

	t.Headers("Node", "Level", "Parents", "Children", "Tree parent")
	h := e.Hierarchy()
	for _, n := range g.Nodes() {
		t.Row(n.Label(), strconv.Itoa(n.Level),
			strconv.Itoa(g.InDegree(n.ID)), strconv.Itoa(g.OutDegree(n.ID)),
			h.TreeParent[n.ID])
	}
	return t.Render()
}
