package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/agenda/pkg/commands/options"
	"tableflip.dev/agenda/pkg/runner/todos"
)

func addTodo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "todo",
		Aliases: []string{"todos", "t"},
		Short:   "Keep a simple todo list",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addTodoAdd(cmd)
	addTodoToggle(cmd)
	addTodoKeep(cmd)
	addTodoList(cmd)

	topLevel.AddCommand(cmd)
}

func addTodoAdd(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	text := ""

	cmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Add a todo",
		Example: `
agenda todo add buy milk
`,
		Args: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if len(args) < 1 {
				return errors.New("requires a todo")
			}
			text = strings.Join(args, " ")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(func(ctx context.Context, e *env) error {
				s := todos.Add{App: e.app, Text: text, ShowID: io.ShowID}
				return s.Do(ctx)
			})
		},
	}

	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}

func addTodoToggle(topLevel *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:               "toggle <id>",
		Aliases:           []string{"done", "x"},
		Short:             "Mark a todo done, or open again",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: todoCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return run(func(ctx context.Context, e *env) error {
				s := todos.Toggle{App: e.app, ID: args[0], ShowID: io.ShowID}
				return s.Do(ctx)
			})
		},
	}

	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}

func addTodoKeep(topLevel *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "keep",
		Short: "Archive every completed todo",
		Long:  "Archived todos are hidden from the list but stay on disk. See them with 'agenda todo list --all'.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return run(func(ctx context.Context, e *env) error {
				s := todos.Keep{App: e.app, ShowID: io.ShowID}
				return s.Do(ctx)
			})
		},
	}

	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}

func addTodoList(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	all := false

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List open and done todos",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return run(func(ctx context.Context, e *env) error {
				format, err := output.Format()
				if err != nil {
					return err
				}
				s := todos.List{App: e.app, All: all, Format: format, ShowID: io.ShowID}
				return s.Do(ctx)
			})
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include archived todos.")
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
