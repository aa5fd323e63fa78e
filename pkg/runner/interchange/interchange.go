// Package interchange runs the iCalendar export and import commands.
package interchange

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/agenda/pkg/app"
	"tableflip.dev/agenda/pkg/ics"
	"tableflip.dev/agenda/pkg/schedule"
)

var errNoApp = errors.New("can not run, no app")

// Export writes every schedule as an iCalendar document to Out.
type Export struct {
	App *app.App
	Out io.Writer
}

func (e *Export) Do(_ context.Context) error {
	if e.App == nil {
		return errNoApp
	}
	out := e.Out
	if out == nil {
		out = os.Stdout
	}
	list := e.App.Schedules().All()
	schedule.SortByStart(list)
	return ics.Write(out, list, time.Local)
}

// Import reads single events from Path and adds them as schedules.
type Import struct {
	App  *app.App
	Path string
	Out  io.Writer
}

func (i *Import) Do(_ context.Context) error {
	if i.App == nil {
		return errNoApp
	}
	f, err := os.Open(i.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	list, err := ics.Import(f, time.Local)
	if err != nil {
		return fmt.Errorf("import %s: %w", i.Path, err)
	}
	n, err := i.App.ImportSchedules(list)

	out := i.Out
	if out == nil {
		out = color.Output
	}
	_, _ = fmt.Fprintf(out, "imported %d of %d events from %s\n", n, len(list), i.Path)
	return err
}
