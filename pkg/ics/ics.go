// Package ics converts schedules to and from iCalendar (RFC 5545).
package ics

import (
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"tableflip.dev/agenda/pkg/calendar"
	"tableflip.dev/agenda/pkg/schedule"
)

const (
	productID = "-//tableflip.dev//agenda//EN"

	// DefaultDuration is the length given to exported events; schedules
	// only carry a start.
	DefaultDuration = time.Hour

	icalTimestampUTC = "20060102T150405Z"
)

// Export builds a calendar holding one VEVENT per schedule. Schedules with a
// malformed date or time are skipped.
func Export(schedules []schedule.Schedule, loc *time.Location) *ical.Calendar {
	if loc == nil {
		loc = time.Local
	}
	cal := ical.NewCalendarFor("agenda")
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName("agenda")

	for _, sc := range schedules {
		start, err := sc.Instant(loc)
		if err != nil {
			continue
		}
		ev := cal.AddEvent(sc.ID)
		ev.SetSummary(sc.Title)
		if sc.Description != "" {
			ev.SetDescription(sc.Description)
		}
		ev.SetStartAt(start)
		ev.SetEndAt(start.Add(DefaultDuration))
		if !sc.CreatedAt.IsZero() {
			ev.SetCreatedTime(sc.CreatedAt)
			ev.SetDtStampTime(sc.CreatedAt)
		} else {
			ev.SetDtStampTime(start)
		}
		if sc.Color != "" {
			ev.SetColor(sc.Color)
		}
		if sc.HasReminder() {
			alarm := ev.AddAlarm()
			alarm.SetAction(ical.ActionDisplay)
			alarm.SetTrigger(Trigger(*sc.Reminder))
			alarm.SetDescription(sc.Title)
		}
	}
	return cal
}

// Write serializes Export(schedules, loc) to w.
func Write(w io.Writer, schedules []schedule.Schedule, loc *time.Location) error {
	if err := Export(schedules, loc).SerializeTo(w); err != nil {
		return fmt.Errorf("ics: write: %w", err)
	}
	return nil
}

// Import reads single (non-recurring) VEVENTs from r. Recurring events and
// events without a usable start are skipped. IDs are taken from UID and may
// collide with existing schedules; the caller resolves that.
func Import(r io.Reader, loc *time.Location) ([]schedule.Schedule, error) {
	if loc == nil {
		loc = time.Local
	}
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("ics: parse: %w", err)
	}

	out := make([]schedule.Schedule, 0)
	for _, ev := range cal.Events() {
		if ev.GetProperty(ical.ComponentPropertyRrule) != nil {
			continue
		}
		sc, ok := fromEvent(ev, loc)
		if !ok {
			continue
		}
		out = append(out, sc)
	}
	return out, nil
}

func fromEvent(ev *ical.VEvent, loc *time.Location) (schedule.Schedule, bool) {
	start, allDay, ok := startOf(ev)
	if !ok {
		return schedule.Schedule{}, false
	}
	if !allDay {
		start = start.In(loc)
	}

	sc := schedule.Schedule{
		ID:    ev.Id(),
		Title: propertyValue(ev, ical.ComponentPropertySummary),
		Date:  calendar.DateString(start),
		Time:  start.Format(schedule.LayoutTime),
		Color: propertyValue(ev, ical.ComponentPropertyColor),
	}
	if allDay {
		sc.Time = "00:00"
	}
	if strings.TrimSpace(sc.Title) == "" {
		sc.Title = "(untitled)"
	}
	sc.Description = propertyValue(ev, ical.ComponentPropertyDescription)

	if created := propertyValue(ev, ical.ComponentPropertyCreated); created != "" {
		if t, err := time.Parse(icalTimestampUTC, created); err == nil {
			sc.CreatedAt = t
		}
	}

	for _, alarm := range ev.Alarms() {
		if minutes, ok := ParseTrigger(propertyValue(alarm, ical.ComponentPropertyTrigger)); ok {
			sc.Reminder = schedule.Minutes(minutes)
			break
		}
	}
	return sc, true
}

func startOf(ev *ical.VEvent) (time.Time, bool, bool) {
	prop := ev.GetProperty(ical.ComponentPropertyDtStart)
	if prop == nil {
		return time.Time{}, false, false
	}
	allDay := !strings.Contains(prop.Value, "T")
	if vs, ok := prop.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		allDay = true
	}
	if allDay {
		t, err := ev.GetAllDayStartAt()
		return t, true, err == nil
	}
	t, err := ev.GetStartAt()
	return t, false, err == nil
}

type propertyGetter interface {
	GetProperty(ical.ComponentProperty) *ical.IANAProperty
}

func propertyValue(c propertyGetter, p ical.ComponentProperty) string {
	if prop := c.GetProperty(p); prop != nil {
		return prop.Value
	}
	return ""
}

// Trigger renders a reminder offset as a relative VALARM trigger.
func Trigger(minutes int) string {
	return "-PT" + strconv.Itoa(minutes) + "M"
}

var triggerPattern = regexp.MustCompile(`^-P(?:(\d+)W)?(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// ParseTrigger reads a relative "before start" trigger such as -PT15M or
// -P1DT2H and returns it in minutes. Positive triggers and offsets that are
// not whole minutes are rejected.
func ParseTrigger(v string) (int, bool) {
	v = strings.TrimSpace(v)
	m := triggerPattern.FindStringSubmatch(v)
	if m == nil || v == "-P" || v == "-PT" {
		return 0, false
	}
	if m[5] != "" {
		if s, err := strconv.Atoi(m[5]); err != nil || s != 0 {
			return 0, false
		}
	}
	total := 0
	for i, unit := range []int{7 * 24 * 60, 24 * 60, 60, 1} {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil || n > (math.MaxInt-total)/unit {
			return 0, false
		}
		total += n * unit
	}
	return total, true
}
