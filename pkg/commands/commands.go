package commands

import (
	"context"
	"os"

	"github.com/fatih/color"
	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tableflip.dev/agenda/pkg/app"
	"tableflip.dev/agenda/pkg/commands/options"
	"tableflip.dev/agenda/pkg/logging"
	"tableflip.dev/agenda/pkg/store"
)

var (
	output = &options.OutputOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "agenda",
		Short: base.Wrap80("A calendar, schedules with reminders, and a todo list on the command line."),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if !logging.ColorEnabled(os.Stdout) {
				color.NoColor = true
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addCal(topLevel)
	addSchedule(topLevel)
	addTodo(topLevel)
	addRemind(topLevel)
	addUI(topLevel)
	addMCP(topLevel)
	addExport(topLevel)
	addImport(topLevel)
	addCompletions(topLevel)
	addUpgrade(topLevel)
	addVersion(topLevel)
}

// env is what every command needs: the config, a logger and an open App.
type env struct {
	cfg store.Config
	log zerolog.Logger
	app *app.App
}

func load(ctx context.Context) (*env, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	log := logging.Stderr(cfg.LogLevel())
	p, err := store.Load(cfg, log)
	if err != nil {
		return nil, err
	}
	a, err := app.Open(ctx, p, app.WithDebounce(cfg.Debounce()), app.WithLogger(log))
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: log, app: a}, nil
}

// run opens the App, hands it to fn and flushes pending saves before
// returning.
func run(fn func(ctx context.Context, e *env) error) error {
	ctx := context.Background()
	e, err := load(ctx)
	if err != nil {
		return output.HandleError(err)
	}
	err = fn(ctx, e)
	if cerr := e.app.Close(); err == nil {
		err = cerr
	}
	return output.HandleError(err)
}
