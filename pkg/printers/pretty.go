package printers

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/agenda/pkg/schedule"
	"tableflip.dev/agenda/pkg/timeutil"
	"tableflip.dev/agenda/pkg/todo"
)

// PrettyPrint writes colored, human oriented output. Out defaults to
// color.Output.
type PrettyPrint struct {
	ShowID bool
	Out    io.Writer
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int, noun string) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d %s", count, noun)
	if count != 1 {
		_, _ = c.Fprint(pp.out(), "s")
	}
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) none() {
	f := color.New(color.Faint, color.Italic)
	_, _ = f.Fprint(pp.out(), " none\n\n")
}

// Schedules prints one row per schedule, in the order given.
func (pp *PrettyPrint) Schedules(list ...schedule.Schedule) {
	if len(list) == 0 {
		pp.none()
		return
	}
	bold := color.New(color.Bold)
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	tbl.Wrap = true

	header := []interface{}{bold.Sprint("Date"), bold.Sprint("Time"), bold.Sprint("Title"), bold.Sprint("Remind")}
	if pp.ShowID {
		header = append([]interface{}{bold.Sprint("ID")}, header...)
	}
	tbl.AddRow(header...)

	for _, sc := range list {
		remind := "-"
		if sc.HasReminder() {
			remind = timeutil.FormatOffset(*sc.Reminder)
		}
		title := sc.Title
		if sc.Description != "" {
			title += " (" + strings.ReplaceAll(sc.Description, "\n", " ") + ")"
		}
		row := []interface{}{sc.Date, sc.Time, title, remind}
		if pp.ShowID {
			row = append([]interface{}{y.Sprint(sc.ID)}, row...)
		}
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Todos prints a checkbox line per todo. Archived todos are dimmed.
func (pp *PrettyPrint) Todos(list ...todo.Todo) {
	if len(list) == 0 {
		pp.none()
		return
	}
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	done := color.New(color.Faint, color.CrossedOut)
	kept := color.New(color.Faint, color.Italic)

	tbl := uitable.New()
	tbl.Separator = " "
	for _, t := range list {
		box, text := "[ ]", t.Text
		switch {
		case t.Keeped:
			box, text = "[~]", kept.Sprint(t.Text)
		case t.Completed:
			box, text = "[x]", done.Sprint(t.Text)
		}
		if pp.ShowID {
			tbl.AddRow(y.Sprint(t.ID), box, text)
		} else {
			tbl.AddRow(box, text)
		}
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}
