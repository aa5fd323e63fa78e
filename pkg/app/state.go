package app

import (
	"time"

	"tableflip.dev/agenda/pkg/calendar"
)

// State is the calendar view: the displayed month (zero-based) and the
// selected day, if any.
type State struct {
	Year     int
	Month    int
	Selected string
}

// NewState shows the month containing now with nothing selected.
func NewState(now time.Time) State {
	return State{Year: now.Year(), Month: int(now.Month()) - 1}
}

// NavigateMonth moves the view by delta months, rolling over years.
func (s *State) NavigateMonth(delta int) {
	s.Year, s.Month = calendar.AddMonths(s.Year, s.Month, delta)
}

// GoToToday shows the current month and selects today.
func (s *State) GoToToday(now time.Time) {
	s.Year, s.Month = now.Year(), int(now.Month())-1
	s.Selected = calendar.DateString(now)
}

// Select marks a day and moves the view to its month.
func (s *State) Select(date string) error {
	d, err := calendar.ParseDate(date)
	if err != nil {
		return err
	}
	s.Selected = calendar.DateString(d)
	s.Year, s.Month = d.Year(), int(d.Month())-1
	return nil
}

// Grid builds the grid for the displayed month.
func (s State) Grid(now time.Time) calendar.Grid {
	return calendar.GenerateGridAt(s.Year, s.Month, now)
}

// Title is the displayed month, e.g. "February 2024".
func (s State) Title() string {
	return calendar.MonthTitle(s.Year, s.Month)
}
