package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/agenda/pkg/notify"
	"tableflip.dev/agenda/pkg/runner/remind"
)

func addRemind(topLevel *cobra.Command) {
	once := false
	quiet := false

	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Run the reminder daemon",
		Long: base.Wrap80("Checks schedules every minute and notifies once per schedule when the number of " +
			"minutes left before it starts equals its reminder. Notifications go to the terminal, the log and, " +
			"when telegram.token and telegram.chat_id are configured, to Telegram. Schedules changed by other " +
			"agenda commands are picked up while it runs."),
		Example: `
agenda remind
agenda remind --once
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return run(func(ctx context.Context, e *env) error {
				ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
				defer cancel()

				sinks := notify.Multi{notify.Log{Logger: e.log}}
				if !quiet {
					sinks = append(sinks, notify.NewConsole(color.Output))
				}
				if tc := e.cfg.Telegram(); tc.Enabled() {
					tg, err := notify.NewTelegram(tc.Token, tc.ChatID, tc.Rate)
					if err != nil {
						return err
					}
					sinks = append(sinks, tg)
				}

				r := remind.Remind{
					App:          e.app,
					Notifier:     sinks,
					Interval:     e.cfg.ReminderInterval(),
					InitialDelay: e.cfg.ReminderInitialDelay(),
					Log:          e.log,
					Once:         once,
				}
				return r.Do(ctx)
			})
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "Check reminders one time and exit.")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not print notifications to the terminal.")

	topLevel.AddCommand(cmd)
}
