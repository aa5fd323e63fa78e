package ics

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"tableflip.dev/agenda/pkg/schedule"
)

func TestExportImportRoundTrip(t *testing.T) {
	loc := time.FixedZone("test", -5*60*60)
	created := time.Date(2024, time.January, 2, 3, 4, 5, 0, time.UTC)
	in := []schedule.Schedule{
		{
			ID:          "a",
			Title:       "Dentist, checkup",
			Date:        "2024-02-14",
			Time:        "09:30",
			Description: "bring forms; arrive early",
			Reminder:    schedule.Minutes(90),
			Color:       "#ff6b6b",
			CreatedAt:   created,
		},
		{ID: "b", Title: "Lunch", Date: "2024-02-29", Time: "23:45"},
		{ID: "bad", Title: "Broken", Date: "2024-02-30", Time: "10:00"},
	}

	var buf bytes.Buffer
	if err := Write(&buf, in, loc); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.Contains(buf.String(), "TRIGGER:-PT90M") {
		t.Fatalf("expected alarm trigger in output:\n%s", buf.String())
	}

	out, err := Import(&buf, loc)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected two events, got %d: %+v", len(out), out)
	}

	a := out[0]
	if a.ID != "a" || a.Title != in[0].Title || a.Date != in[0].Date || a.Time != in[0].Time || a.Description != in[0].Description {
		t.Fatalf("round trip mismatch: %+v", a)
	}
	if a.Reminder == nil || *a.Reminder != 90 {
		t.Fatalf("expected reminder 90, got %v", a.Reminder)
	}
	if a.Color != "#ff6b6b" || !a.CreatedAt.Equal(created) {
		t.Fatalf("unexpected color or createdAt: %+v", a)
	}

	b := out[1]
	if b.Date != "2024-02-29" || b.Time != "23:45" || b.Reminder != nil {
		t.Fatalf("round trip mismatch: %+v", b)
	}
}

const external = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//example//test//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:weekly@example\r\n" +
	"DTSTAMP:20240101T000000Z\r\n" +
	"DTSTART:20240105T100000Z\r\n" +
	"RRULE:FREQ=WEEKLY\r\n" +
	"SUMMARY:Weekly sync\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:holiday@example\r\n" +
	"DTSTAMP:20240101T000000Z\r\n" +
	"DTSTART;VALUE=DATE:20240214\r\n" +
	"SUMMARY:Holiday\r\n" +
	"BEGIN:VALARM\r\n" +
	"ACTION:DISPLAY\r\n" +
	"TRIGGER:-P1DT2H\r\n" +
	"END:VALARM\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:nostart@example\r\n" +
	"DTSTAMP:20240101T000000Z\r\n" +
	"SUMMARY:No start\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func TestImportSkipsRecurringAndHandlesAllDay(t *testing.T) {
	out, err := Import(strings.NewReader(external), time.UTC)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected only the all-day event, got %+v", out)
	}
	h := out[0]
	if h.ID != "holiday@example" || h.Date != "2024-02-14" || h.Time != "00:00" {
		t.Fatalf("unexpected event %+v", h)
	}
	if h.Reminder == nil || *h.Reminder != 26*60 {
		t.Fatalf("expected reminder of 26h, got %v", h.Reminder)
	}
	if err := h.Validate(); err != nil {
		t.Fatalf("imported event must be valid: %v", err)
	}
}

func TestImportRejectsGarbage(t *testing.T) {
	if _, err := Import(strings.NewReader("not a calendar"), time.UTC); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestParseTrigger(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"-PT15M", 15, true},
		{"-PT0M", 0, true},
		{"-PT1H30M", 90, true},
		{"-P1W", 7 * 24 * 60, true},
		{"-PT30S", 0, false},
		{"PT15M", 0, false},
		{"-P", 0, false},
		{" -P ", 0, false},
		{" -PT ", 0, false},
		{" -PT15M\n", 15, true},
		{"-PT99999999999999999999M", 0, false},
		{"-P9999999999999999W", 0, false},
		{"-PT99999999999999999999S", 0, false},
		{"20240214T090000Z", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseTrigger(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Fatalf("ParseTrigger(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
	if Trigger(15) != "-PT15M" {
		t.Fatalf("unexpected trigger %q", Trigger(15))
	}
}
