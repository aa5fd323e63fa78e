package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/agenda/pkg/commands/options"
	"tableflip.dev/agenda/pkg/runner/cal"
)

func addCal(topLevel *cobra.Command) {
	mo := &options.MonthOptions{}
	on := &options.OnOptions{}
	io := &options.IDOptions{}
	long := false

	cmd := &cobra.Command{
		Use:     "cal",
		Aliases: []string{"calendar", "month"},
		Short:   "Show a month with the days that have schedules marked",
		Example: `
agenda cal
agenda cal --month 2024-02
agenda cal --on 2024-02-14
agenda cal --long
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return run(func(ctx context.Context, e *env) error {
				now := e.app.Now()
				year, month, err := mo.YearMonth(now)
				if err != nil {
					return err
				}
				selected, err := on.Date(now)
				if err != nil {
					return err
				}
				c := cal.Cal{
					App:      e.app,
					Year:     year,
					Month:    month,
					Selected: selected,
					Long:     long,
					ShowID:   io.ShowID,
				}
				return c.Do(ctx)
			})
		},
	}

	options.AddMonthArgs(cmd, mo)
	options.AddOnArgs(cmd, on)
	options.AddShowIDArgs(cmd, io)
	cmd.Flags().BoolVarP(&long, "long", "l", false, "List every day of the month with its schedules.")
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
