package calendar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
)

// Options controls grid styling.
type Options struct {
	HeaderStyle   lipgloss.Style
	EmptyStyle    lipgloss.Style
	DayStyle      lipgloss.Style
	WeekendStyle  lipgloss.Style
	EntryStyle    lipgloss.Style
	TodayStyle    lipgloss.Style
	SelectedStyle lipgloss.Style
	ShowHeader    bool
	// Marker is appended to days that have schedules; cells are padded so
	// columns stay aligned when it is empty.
	Marker string
}

// DefaultOptions returns the styling used by `agenda cal`.
func DefaultOptions() Options {
	return Options{
		HeaderStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Bold(true),
		EmptyStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		DayStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		WeekendStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("174")),
		EntryStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true),
		TodayStyle:    lipgloss.NewStyle().Underline(true),
		SelectedStyle: lipgloss.NewStyle().Background(lipgloss.Color("63")).Foreground(lipgloss.Color("0")),
		ShowHeader:    true,
		Marker:        "•",
	}
}

// PlainOptions renders without styling, for pipes and tests.
func PlainOptions() Options {
	plain := lipgloss.NewStyle()
	return Options{
		HeaderStyle:   plain,
		EmptyStyle:    plain,
		DayStyle:      plain,
		WeekendStyle:  plain,
		EntryStyle:    plain,
		TodayStyle:    plain,
		SelectedStyle: plain,
		ShowHeader:    true,
		Marker:        "*",
	}
}

// Render produces the six-row text grid. counts maps canonical date strings
// to the number of schedules on that day; selected is a date string or "".
func Render(grid Grid, counts map[string]int, selected string, opts Options) string {
	markerWidth := lipgloss.Width(opts.Marker)

	var lines []string
	if opts.ShowHeader {
		names := []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}
		for i := range names {
			names[i] += strings.Repeat(" ", markerWidth)
		}
		lines = append(lines, opts.HeaderStyle.Render(strings.Join(names, " ")))
	}

	for _, week := range grid.Weeks() {
		cells := make([]string, 0, len(week))
		for _, c := range week {
			if c.Empty {
				cells = append(cells, opts.EmptyStyle.Render(strings.Repeat(" ", 2+markerWidth)))
				continue
			}
			cells = append(cells, renderDay(c, counts[c.DateString], c.DateString == selected, opts))
		}
		lines = append(lines, strings.Join(cells, " "))
	}

	return strings.Join(lines, "\n")
}

func renderDay(c Cell, count int, selected bool, opts Options) string {
	text := fmt.Sprintf("%2d", c.Day())

	style := opts.DayStyle
	if c.IsWeekend {
		style = opts.WeekendStyle
	}
	if count > 0 {
		style = opts.EntryStyle.Inherit(style)
	}
	if c.IsToday {
		style = style.Inherit(opts.TodayStyle)
	}
	if selected {
		style = style.Inherit(opts.SelectedStyle)
	}

	marker := strings.Repeat(" ", lipgloss.Width(opts.Marker))
	if count > 0 {
		marker = opts.Marker
	}
	return style.Render(text) + marker
}
