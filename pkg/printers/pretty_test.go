package printers

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/agenda/pkg/calendar"
	"tableflip.dev/agenda/pkg/schedule"
	"tableflip.dev/agenda/pkg/todo"
)

func init() {
	color.NoColor = true
}

func TestSchedules(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{ShowID: true, Out: &buf}
	pp.Schedules(
		schedule.Schedule{ID: "abc", Title: "Dentist", Date: "2024-02-14", Time: "09:30", Reminder: schedule.Minutes(90)},
		schedule.Schedule{ID: "def", Title: "Lunch", Date: "2024-02-14", Time: "12:00", Description: "with Sam"},
	)
	out := buf.String()
	for _, want := range []string{"ID", "abc", "Dentist", "1h30m", "Lunch (with Sam)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}

	buf.Reset()
	pp.Schedules()
	if !strings.Contains(buf.String(), "none") {
		t.Fatalf("expected placeholder for empty list, got %q", buf.String())
	}
}

func TestTodos(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	pp.Todos(
		todo.Todo{ID: "1", Text: "milk"},
		todo.Todo{ID: "2", Text: "eggs", Completed: true},
		todo.Todo{ID: "3", Text: "bread", Completed: true, Keeped: true},
	)
	out := buf.String()
	for _, want := range []string{"[ ] milk", "[x] eggs", "[~] bread"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, " 1 ") {
		t.Fatalf("ids must be hidden unless requested:\n%s", out)
	}
}

func TestCalendar(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	now := time.Date(2024, time.February, 10, 0, 0, 0, 0, time.Local)
	grid := calendar.GenerateGridAt(2024, 1, now)
	pp.Calendar("February 2024", grid, map[string]int{"2024-02-14": 2}, "")

	out := buf.String()
	if !strings.Contains(out, "February 2024") || !strings.Contains(out, "14*") || !strings.Contains(out, "29") {
		t.Fatalf("unexpected calendar:\n%s", out)
	}
}

func TestMonthLong(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	grid := calendar.GenerateGrid(2024, 1)
	pp.MonthLong(grid, func(date string) []schedule.Schedule {
		if date == "2024-02-14" {
			return []schedule.Schedule{{Title: "Dentist", Time: "09:30"}, {Title: "Lunch", Time: "12:00"}}
		}
		return nil
	})
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 30 {
		t.Fatalf("expected 29 days plus a continuation line, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[13], "14 W  09:30 Dentist") {
		t.Fatalf("unexpected line %q", lines[13])
	}
}

func TestStructured(t *testing.T) {
	list := []schedule.Schedule{{ID: "a", Title: "x", Date: "2024-02-14", Time: "09:30"}}

	var buf bytes.Buffer
	if err := Structured(&buf, FormatJSON, list); err != nil {
		t.Fatalf("json: %v", err)
	}
	if !strings.Contains(buf.String(), `"title": "x"`) {
		t.Fatalf("unexpected json %s", buf.String())
	}

	buf.Reset()
	if err := Structured(&buf, FormatYAML, list); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if !strings.Contains(buf.String(), "title: x") {
		t.Fatalf("unexpected yaml %s", buf.String())
	}

	if err := Structured(&buf, FormatText, list); err == nil {
		t.Fatalf("expected error for text format")
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{"": FormatText, "JSON": FormatJSON, "yml": FormatYAML, "text": FormatText}
	for in, want := range tests {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatalf("expected error")
	}
}
