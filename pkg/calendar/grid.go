// Package calendar builds the fixed six-week month grid and the date helpers
// shared by the stores and the printers.
package calendar

import (
	"fmt"
	"time"
)

const (
	// GridSize is the number of cells in a month grid: six weeks of seven days.
	GridSize = 42

	// LayoutISO is the canonical date string layout used as a lookup key.
	LayoutISO = "2006-01-02"
)

// Cell is a single grid slot. Padding cells before day 1 and after the last
// day of the month are Empty and carry no date.
type Cell struct {
	Empty      bool
	Date       time.Time
	DateString string
	IsToday    bool
	IsWeekend  bool
}

// Day returns the day of month, or 0 for an empty cell.
func (c Cell) Day() int {
	if c.Empty {
		return 0
	}
	return c.Date.Day()
}

// Grid is a month laid out Sunday-first over six rows.
type Grid [GridSize]Cell

// Days returns the populated cells in order.
func (g Grid) Days() []Cell {
	days := make([]Cell, 0, 31)
	for _, c := range g {
		if !c.Empty {
			days = append(days, c)
		}
	}
	return days
}

// Weeks splits the grid into six rows of seven cells.
func (g Grid) Weeks() [][]Cell {
	weeks := make([][]Cell, 0, GridSize/7)
	for row := 0; row < GridSize/7; row++ {
		weeks = append(weeks, g[row*7:row*7+7])
	}
	return weeks
}

// Leading returns the number of empty cells before day 1.
func (g Grid) Leading() int {
	for i, c := range g {
		if !c.Empty {
			return i
		}
	}
	return GridSize
}

// GenerateGrid builds the grid for a zero-based month, marking today using
// the current local date.
func GenerateGrid(year, month int) Grid {
	return GenerateGridAt(year, month, time.Now())
}

// GenerateGridAt builds the grid for a zero-based month. Months outside 0-11
// roll over into neighbouring years the same way time.Date normalizes them.
// now only decides which cell IsToday.
func GenerateGridAt(year, month int, now time.Time) Grid {
	var grid Grid
	for i := range grid {
		grid[i].Empty = true
	}

	first := time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.Local)
	offset := int(first.Weekday())
	days := DaysIn(year, month)

	now = now.In(time.Local)
	for day := 1; day <= days; day++ {
		d := time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.Local)
		wd := d.Weekday()
		grid[offset+day-1] = Cell{
			Date:       d,
			DateString: DateString(d),
			IsToday:    SameDay(d, now),
			IsWeekend:  wd == time.Saturday || wd == time.Sunday,
		}
	}
	return grid
}

// DaysIn returns the number of days in a zero-based month.
func DaysIn(year, month int) int {
	return time.Date(year, time.Month(month+2), 0, 0, 0, 0, 0, time.UTC).Day()
}

// Normalize folds an out-of-range zero-based month into 0-11, carrying whole
// years.
func Normalize(year, month int) (int, int) {
	t := time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC)
	return t.Year(), int(t.Month()) - 1
}

// AddMonths moves a zero-based (year, month) pair by delta months.
func AddMonths(year, month, delta int) (int, int) {
	return Normalize(year, month+delta)
}

// SameDay reports whether a and b fall on the same local calendar date.
func SameDay(a, b time.Time) bool {
	a, b = a.In(time.Local), b.In(time.Local)
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// DateString formats t in its own location as YYYY-MM-DD.
func DateString(t time.Time) string {
	return t.Format(LayoutISO)
}

// ParseDate parses a canonical YYYY-MM-DD string as local midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(LayoutISO, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("calendar: invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

// FormatLong renders a date for titles, e.g. "Wednesday, February 14, 2024".
func FormatLong(t time.Time) string {
	return t.Format("Monday, January 2, 2006")
}

// MonthTitle renders a zero-based month for headers, e.g. "February 2024".
func MonthTitle(year, month int) string {
	year, month = Normalize(year, month)
	return fmt.Sprintf("%s %d", time.Month(month+1).String(), year)
}
