// Package schedule defines dated, timed event records and the in-memory store
// that owns them.
package schedule

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"tableflip.dev/agenda/pkg/calendar"
)

const (
	// LayoutTime is the wall-clock layout of Schedule.Time.
	LayoutTime = "15:04"

	// DefaultColor is the tag given to schedules added without one.
	DefaultColor = "#4ecdc4"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("schedule: invalid")

// Schedule is a dated, timed event. Date and Time are kept apart so either
// can be edited independently; Instant combines them when needed.
type Schedule struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Date        string    `json:"date" yaml:"date"`
	Time        string    `json:"time" yaml:"time"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Reminder    *int      `json:"reminder,omitempty" yaml:"reminder,omitempty"`
	Color       string    `json:"color,omitempty" yaml:"color,omitempty"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt"`
}

// Minutes returns a pointer suitable for Schedule.Reminder.
func Minutes(n int) *int {
	return &n
}

// HasReminder reports whether a reminder offset is set.
func (s Schedule) HasReminder() bool {
	return s.Reminder != nil
}

// Validate reports the first malformed field.
func (s Schedule) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalid)
	}
	if _, err := calendar.ParseDate(s.Date); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	canon, err := CanonicalTime(s.Time)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if canon != s.Time {
		return fmt.Errorf("%w: time %q must be written as %q", ErrInvalid, s.Time, canon)
	}
	if s.Reminder != nil && *s.Reminder < 0 {
		return fmt.Errorf("%w: reminder must not be negative, got %d", ErrInvalid, *s.Reminder)
	}
	return nil
}

// Instant interprets Date and Time as wall-clock time in loc.
func (s Schedule) Instant(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	d, err := calendar.ParseDate(s.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	hour, minute, err := ParseTime(s.Time)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, loc), nil
}

// ParseTime parses HH:MM (24 hour) into hour and minute.
func ParseTime(v string) (hour, minute int, err error) {
	t, err := time.Parse(LayoutTime, v)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", v)
	}
	return t.Hour(), t.Minute(), nil
}

// CanonicalTime rewrites a parsable time as zero-padded HH:MM, so "9:30"
// becomes "09:30".
func CanonicalTime(v string) (string, error) {
	hour, minute, err := ParseTime(strings.TrimSpace(v))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}

// Patch carries the fields an edit replaces. Nil fields are left alone.
type Patch struct {
	Title       *string
	Date        *string
	Time        *string
	Description *string
	Color       *string
	Reminder    *int
	// ClearReminder removes the reminder; it wins over Reminder.
	ClearReminder bool
}

// IsEmpty reports whether applying p would change nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Date == nil && p.Time == nil && p.Description == nil &&
		p.Color == nil && p.Reminder == nil && !p.ClearReminder
}

// Apply returns a copy of s with p merged in. ID and CreatedAt never change.
// A parsable Time is stored in canonical form; anything else is kept as
// given and left for Validate to reject.
func (p Patch) Apply(s Schedule) Schedule {
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.Date != nil {
		s.Date = *p.Date
	}
	if p.Time != nil {
		s.Time = *p.Time
		if canon, err := CanonicalTime(s.Time); err == nil {
			s.Time = canon
		}
	}
	if p.Description != nil {
		s.Description = *p.Description
	}
	if p.Color != nil {
		s.Color = *p.Color
	}
	switch {
	case p.ClearReminder:
		s.Reminder = nil
	case p.Reminder != nil:
		s.Reminder = Minutes(*p.Reminder)
	}
	return s
}

func clone(s Schedule) Schedule {
	if s.Reminder != nil {
		s.Reminder = Minutes(*s.Reminder)
	}
	return s
}

// SortByStart orders list by date and then time, keeping insertion order
// for equal starts.
func SortByStart(list []Schedule) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Date != list[j].Date {
			return list[i].Date < list[j].Date
		}
		return startMinute(list[i].Time) < startMinute(list[j].Time)
	})
}

// startMinute orders unparsable times after every valid one.
func startMinute(v string) int {
	hour, minute, err := ParseTime(v)
	if err != nil {
		return 24 * 60
	}
	return hour*60 + minute
}
