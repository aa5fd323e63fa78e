package options

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/agenda/pkg/calendar"
)

const (
	layoutISO      = "2006-1-2"
	layoutISOShort = "1/2"
	layoutMonth    = "2006-1"
)

// OnOptions selects a day.
type OnOptions struct {
	OnString string
}

func AddOnArgs(cmd *cobra.Command, o *OnOptions) {
	cmd.Flags().StringVar(&o.OnString, "on", "",
		`Specify a date, example: --on="2024-02-28", --on="2/28" or --on=tomorrow.`)
}

// Date resolves the flag to a canonical date string. An empty flag yields
// "" so callers can pick their own default.
func (o *OnOptions) Date(now time.Time) (string, error) {
	return ResolveDate(o.OnString, now)
}

// ResolveDate accepts YYYY-MM-DD (zero padding optional), M/D, "today" and
// "tomorrow".
func ResolveDate(s string, now time.Time) (string, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "":
		return "", nil
	case "today":
		return calendar.DateString(now), nil
	case "tomorrow":
		return calendar.DateString(now.AddDate(0, 0, 1)), nil
	}

	t, err := time.ParseInLocation(layoutISO, s, time.Local)
	if err != nil {
		// Let the year be the same.
		t, err = time.ParseInLocation(layoutISOShort, s, time.Local)
		if err != nil {
			return "", fmt.Errorf("invalid date %q, expected YYYY-MM-DD or M/D", s)
		}
		t = time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
		// 1/3 asked for on 12/5 means next year, not 11 months ago.
		if t.Before(time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)) {
			t = t.AddDate(1, 0, 0)
		}
	}
	return calendar.DateString(t), nil
}

// MonthOptions selects a month to display.
type MonthOptions struct {
	Month string
}

func AddMonthArgs(cmd *cobra.Command, o *MonthOptions) {
	cmd.Flags().StringVar(&o.Month, "month", "",
		`Month to show, example: --month=2024-02. Defaults to the current month.`)
}

// YearMonth returns the year and zero-based month to show.
func (o *MonthOptions) YearMonth(now time.Time) (int, int, error) {
	if o.Month == "" {
		return now.Year(), int(now.Month()) - 1, nil
	}
	t, err := time.Parse(layoutMonth, strings.TrimSpace(o.Month))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q, expected YYYY-MM", o.Month)
	}
	return t.Year(), int(t.Month()) - 1, nil
}
