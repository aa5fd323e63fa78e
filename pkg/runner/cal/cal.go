// Package cal prints the month grid with schedule markers.
package cal

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/agenda/pkg/app"
	"tableflip.dev/agenda/pkg/printers"
)

// Cal shows one month. Year and Month (zero-based) pick the month; a
// non-empty Selected date moves the view to its month and lists its
// schedules under the grid.
type Cal struct {
	App      *app.App
	Year     int
	Month    int
	Selected string
	Long     bool
	ShowID   bool
	Out      io.Writer
}

func (c *Cal) Do(_ context.Context) error {
	if c.App == nil {
		return errors.New("can not show calendar, no app")
	}
	pp := printers.PrettyPrint{ShowID: c.ShowID, Out: c.Out}

	st, err := c.App.UpdateState(func(s *app.State) error {
		s.Year, s.Month = c.Year, c.Month
		s.NavigateMonth(0)
		s.Selected = ""
		if c.Selected != "" {
			return s.Select(c.Selected)
		}
		return nil
	})
	if err != nil {
		return err
	}

	grid := st.Grid(c.App.Now())
	schedules := c.App.Schedules()

	pp.NewLine()
	if c.Long {
		pp.Title(st.Title())
		pp.MonthLong(grid, schedules.ByDate)
	} else {
		pp.Calendar(st.Title(), grid, schedules.CountByDate(), st.Selected)
	}

	if st.Selected != "" {
		return pp.Day(st.Selected, schedules.ByDate(st.Selected)...)
	}
	return nil
}
