package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cardgraph/internal/cli"
	cgerrors "github.com/matzehuels/cardgraph/pkg/errors"
)

// exitInterrupted is the shell convention for a process stopped by SIGINT.
const exitInterrupted = 130

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx)
	stop()
	os.Exit(code)
}

func run(ctx context.Context) int {
	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	verbose := root.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	attachLogger := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if *verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		if attachLogger == nil {
			return nil
		}
		return attachLogger(cmd, args)
	}

	err := root.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return exitInterrupted
	}

	msg := cgerrors.UserMessage(err)
	if code := cgerrors.GetCode(err); code != "" {
		msg += " (" + string(code) + ")"
	}
	fmt.Fprintln(os.Stderr, "Error:", msg)
	return 1
}
