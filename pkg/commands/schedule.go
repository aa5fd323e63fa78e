package commands

import (
	"context"
	"errors"
	"strings"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/agenda/pkg/commands/options"
	"tableflip.dev/agenda/pkg/runner/schedules"
)

func addSchedule(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "schedule",
		Aliases: []string{"schedules", "s"},
		Short:   "Add, change and list schedules",
		Long:    base.Wrap80("A schedule is a titled event on a date at a time, optionally with a reminder that fires a set number of minutes before it starts."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addScheduleAdd(cmd)
	addScheduleEdit(cmd)
	addScheduleDelete(cmd)
	addScheduleList(cmd)

	topLevel.AddCommand(cmd)
}

func addScheduleAdd(topLevel *cobra.Command) {
	so := &options.ScheduleOptions{}
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a schedule",
		Example: `
agenda schedule add Dentist --on 2024-02-14 --at 09:30 --remind 15m
agenda schedule add "Team lunch" --at 12:00 -d "at the usual place"
`,
		Args: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if len(args) < 1 {
				return errors.New("requires a title")
			}
			so.Title = strings.Join(args, " ")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(func(ctx context.Context, e *env) error {
				in, err := so.Input(e.app.Now())
				if err != nil {
					return err
				}
				s := schedules.Add{App: e.app, Input: in, ShowID: io.ShowID}
				return s.Do(ctx)
			})
		},
	}

	options.AddScheduleArgs(cmd, so)
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}

func addScheduleEdit(topLevel *cobra.Command) {
	so := &options.ScheduleOptions{}
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a schedule",
		Example: `
agenda schedule edit 6f1c --at 10:00
agenda schedule edit 6f1c --title "Dentist (moved)" --no-remind
`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: scheduleCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return run(func(ctx context.Context, e *env) error {
				p, err := so.Patch(cmd, e.app.Now())
				if err != nil {
					return err
				}
				s := schedules.Edit{App: e.app, ID: args[0], Patch: p, ShowID: io.ShowID}
				return s.Do(ctx)
			})
		},
	}

	options.AddScheduleEditArgs(cmd, so)
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}

func addScheduleDelete(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:               "delete <id>",
		Aliases:           []string{"rm"},
		Short:             "Delete a schedule",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: scheduleCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return run(func(ctx context.Context, e *env) error {
				s := schedules.Delete{App: e.app, ID: args[0]}
				return s.Do(ctx)
			})
		},
	}

	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}

func addScheduleList(topLevel *cobra.Command) {
	on := &options.OnOptions{}
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List schedules, all of them or those on one day",
		Example: `
agenda schedule list
agenda schedule list --on today -o json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return run(func(ctx context.Context, e *env) error {
				format, err := output.Format()
				if err != nil {
					return err
				}
				date, err := on.Date(e.app.Now())
				if err != nil {
					return err
				}
				s := schedules.List{App: e.app, Date: date, Format: format, ShowID: io.ShowID}
				return s.Do(ctx)
			})
		},
	}

	options.AddOnArgs(cmd, on)
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
