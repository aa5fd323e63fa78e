package options

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/agenda/pkg/app"
	"tableflip.dev/agenda/pkg/schedule"
	"tableflip.dev/agenda/pkg/timeutil"
)

// ScheduleOptions holds the fields of a schedule given on the command line.
type ScheduleOptions struct {
	OnOptions

	Title         string
	At            string
	Remind        string
	Color         string
	Description   string
	ClearReminder bool
}

func AddScheduleArgs(cmd *cobra.Command, o *ScheduleOptions) {
	AddOnArgs(cmd, &o.OnOptions)
	cmd.Flags().StringVar(&o.At, "at", "",
		`Start time in 24h form, example: --at=09:30.`)
	cmd.Flags().StringVar(&o.Remind, "remind", "",
		`Remind this long before the start, example: --remind=15m or --remind=1h30m.`)
	cmd.Flags().StringVar(&o.Color, "color", "",
		`Display color, example: --color="#ff6b6b".`)
	cmd.Flags().StringVarP(&o.Description, "description", "d", "",
		"Free text notes.")
}

func AddScheduleEditArgs(cmd *cobra.Command, o *ScheduleOptions) {
	AddScheduleArgs(cmd, o)
	cmd.Flags().StringVar(&o.Title, "title", "", "New title.")
	cmd.Flags().BoolVar(&o.ClearReminder, "no-remind", false, "Remove the reminder.")
}

// Input builds a new schedule. The date defaults to today.
func (o *ScheduleOptions) Input(now time.Time) (app.ScheduleInput, error) {
	in := app.ScheduleInput{
		Title:       strings.TrimSpace(o.Title),
		Time:        o.At,
		Description: o.Description,
		Color:       o.Color,
	}
	if in.Time == "" {
		return in, errors.New("requires a start time, use --at=HH:MM")
	}
	date, err := o.Date(now)
	if err != nil {
		return in, err
	}
	if date == "" {
		date = now.Format("2006-01-02")
	}
	in.Date = date

	if o.Remind != "" {
		minutes, _, err := timeutil.ParseOffset(o.Remind)
		if err != nil {
			return in, err
		}
		in.Reminder = schedule.Minutes(minutes)
	}
	return in, nil
}

// Patch builds an edit from the flags that were set on cmd.
func (o *ScheduleOptions) Patch(cmd *cobra.Command, now time.Time) (schedule.Patch, error) {
	var p schedule.Patch
	flags := cmd.Flags()
	if flags.Changed("title") {
		p.Title = &o.Title
	}
	if flags.Changed("on") {
		date, err := o.Date(now)
		if err != nil {
			return p, err
		}
		p.Date = &date
	}
	if flags.Changed("at") {
		p.Time = &o.At
	}
	if flags.Changed("description") {
		p.Description = &o.Description
	}
	if flags.Changed("color") {
		p.Color = &o.Color
	}
	if flags.Changed("remind") {
		minutes, _, err := timeutil.ParseOffset(o.Remind)
		if err != nil {
			return p, err
		}
		p.Reminder = &minutes
	}
	p.ClearReminder = o.ClearReminder
	if p.IsEmpty() {
		return p, errors.New("nothing to change, set at least one flag")
	}
	return p, nil
}
