package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	teaui "tableflip.dev/agenda/pkg/runner/tea"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "ui",
		Aliases: []string{"tui"},
		Short:   "Open the interactive calendar",
		Long: base.Wrap80("Opens a full screen calendar with the selected day's schedules and the todo list. " +
			"Press ? inside for the keys."),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return run(func(ctx context.Context, e *env) error {
				ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
				defer cancel()
				return teaui.Run(ctx, e.app)
			})
		},
	}
	topLevel.AddCommand(cmd)
}
