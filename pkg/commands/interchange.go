package commands

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"tableflip.dev/agenda/pkg/commands/options"
	"tableflip.dev/agenda/pkg/runner/interchange"
)

func addExport(topLevel *cobra.Command) {
	file := ""

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every schedule as an iCalendar file",
		Example: `
agenda export > agenda.ics
agenda export --file agenda.ics
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return run(func(ctx context.Context, e *env) error {
				x := interchange.Export{App: e.app}
				if file != "" {
					f, err := os.Create(file)
					if err != nil {
						return err
					}
					defer f.Close()
					x.Out = f
				}
				return x.Do(ctx)
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Write to this file instead of stdout.")
	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}

func addImport(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "import <file.ics>",
		Short: "Add the single events of an iCalendar file as schedules",
		Long:  "Recurring events are skipped. Events whose UID is already used get a new id.",
		Example: `
agenda import calendar.ics
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return run(func(ctx context.Context, e *env) error {
				i := interchange.Import{App: e.app, Path: args[0]}
				return i.Do(ctx)
			})
		},
	}

	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
