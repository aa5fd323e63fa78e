// Package schedules runs the schedule subcommands.
package schedules

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/agenda/pkg/app"
	"tableflip.dev/agenda/pkg/printers"
	"tableflip.dev/agenda/pkg/schedule"
)

var errNoApp = errors.New("can not run, no app")

// Add creates a schedule and prints its day.
type Add struct {
	App    *app.App
	Input  app.ScheduleInput
	ShowID bool
	Out    io.Writer
}

func (n *Add) Do(_ context.Context) error {
	if n.App == nil {
		return errNoApp
	}
	sc, err := n.App.AddSchedule(n.Input)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{ShowID: n.ShowID, Out: n.Out}
	return pp.Day(sc.Date, n.App.Schedules().ByDate(sc.Date)...)
}

// Edit merges Patch into the schedule with ID.
type Edit struct {
	App    *app.App
	ID     string
	Patch  schedule.Patch
	ShowID bool
	Out    io.Writer
}

func (n *Edit) Do(_ context.Context) error {
	if n.App == nil {
		return errNoApp
	}
	sc, ok, err := n.App.EditSchedule(n.ID, n.Patch)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no schedule with id %q", n.ID)
	}
	pp := printers.PrettyPrint{ShowID: n.ShowID, Out: n.Out}
	return pp.Day(sc.Date, n.App.Schedules().ByDate(sc.Date)...)
}

// Delete removes the schedule with ID.
type Delete struct {
	App *app.App
	ID  string
	Out io.Writer
}

func (n *Delete) Do(_ context.Context) error {
	if n.App == nil {
		return errNoApp
	}
	if !n.App.DeleteSchedule(n.ID) {
		return fmt.Errorf("no schedule with id %q", n.ID)
	}
	out := n.Out
	if out == nil {
		out = color.Output
	}
	_, _ = fmt.Fprintf(out, "deleted %s\n", n.ID)
	return nil
}

// List prints the schedules on Date, or all of them grouped by day when Date
// is empty.
type List struct {
	App    *app.App
	Date   string
	Format printers.Format
	ShowID bool
	Out    io.Writer
}

func (n *List) Do(_ context.Context) error {
	if n.App == nil {
		return errNoApp
	}
	store := n.App.Schedules()

	var list []schedule.Schedule
	if n.Date != "" {
		list = store.ByDate(n.Date)
	} else {
		list = store.All()
		schedule.SortByStart(list)
	}

	if n.Format != printers.FormatText {
		out := n.Out
		if out == nil {
			out = color.Output
		}
		if list == nil {
			list = []schedule.Schedule{}
		}
		return printers.Structured(out, n.Format, list)
	}

	pp := printers.PrettyPrint{ShowID: n.ShowID, Out: n.Out}
	if n.Date != "" {
		return pp.Day(n.Date, list...)
	}
	pp.TitleWithCount("Schedules", len(list), "schedule")
	pp.Schedules(list...)
	return nil
}
