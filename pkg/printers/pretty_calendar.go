package printers

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/agenda/pkg/calendar"
	"tableflip.dev/agenda/pkg/schedule"
)

// width of a rendered week row with the default one-column marker.
const width = len("Su  Mo  Tu  We  Th  Fr  Sa ")

// Calendar prints the month title centered above the grid. Days holding
// schedules are marked; selected is highlighted when it falls in the month.
func (pp *PrettyPrint) Calendar(title string, grid calendar.Grid, counts map[string]int, selected string) {
	opts := calendar.DefaultOptions()
	if color.NoColor {
		opts = calendar.PlainOptions()
	}

	tf := color.New(color.FgWhite, color.Italic)
	mid := (width - len(title)) / 2
	if mid < 0 {
		mid = 0
	}
	_, _ = tf.Fprintf(pp.out(), "%s%s\n", strings.Repeat(" ", mid), title)
	_, _ = fmt.Fprintln(pp.out(), calendar.Render(grid, counts, selected, opts))
	pp.NewLine()
}

// MonthLong prints every day of the grid's month on its own line followed by
// that day's schedules. Sundays are underlined and today is bold.
func (pp *PrettyPrint) MonthLong(grid calendar.Grid, byDate func(date string) []schedule.Schedule) {
	p := color.New()
	b := color.New(color.Bold)
	s := color.New(color.Underline)
	bs := color.New(color.Underline, color.Bold)
	faint := color.New(color.Faint)

	for _, c := range grid.Days() {
		printer := p
		switch {
		case c.IsToday && c.Date.Weekday() == time.Sunday:
			printer = bs
		case c.IsToday:
			printer = b
		case c.Date.Weekday() == time.Sunday:
			printer = s
		}
		_, _ = printer.Fprintf(pp.out(), "%2d %s", c.Day(), c.Date.Weekday().String()[0:1])

		list := byDate(c.DateString)
		if len(list) == 0 {
			_, _ = fmt.Fprintln(pp.out(), "")
			continue
		}
		for i, sc := range list {
			if i > 0 {
				_, _ = p.Fprint(pp.out(), "    ")
			}
			_, _ = p.Fprintf(pp.out(), "  %s %s", sc.Time, sc.Title)
			if pp.ShowID {
				_, _ = faint.Fprintf(pp.out(), "  %s", sc.ID)
			}
			_, _ = fmt.Fprintln(pp.out(), "")
		}
	}
	pp.NewLine()
}

// Day prints the long form of a date and the schedules on it.
func (pp *PrettyPrint) Day(date string, list ...schedule.Schedule) error {
	d, err := calendar.ParseDate(date)
	if err != nil {
		return err
	}
	pp.TitleWithCount(calendar.FormatLong(d), len(list), "schedule")
	pp.Schedules(list...)
	return nil
}
