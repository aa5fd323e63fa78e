package cal

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/agenda/pkg/app"
	"tableflip.dev/agenda/pkg/schedule"
	"tableflip.dev/agenda/pkg/store"
	"tableflip.dev/agenda/pkg/todo"
)

type memoryPersistence struct {
	schedules []schedule.Schedule
}

func (m *memoryPersistence) LoadSchedules(context.Context) (store.ScheduleDocument, error) {
	return store.ScheduleDocument{Schedules: m.schedules}, nil
}

func (m *memoryPersistence) SaveSchedules(context.Context, store.ScheduleDocument) error {
	return nil
}

func (m *memoryPersistence) LoadTodos(context.Context) ([]todo.Todo, error) { return nil, nil }

func (m *memoryPersistence) SaveTodos(context.Context, []todo.Todo) error { return nil }

func (m *memoryPersistence) Watch(context.Context) (<-chan store.Event, error) {
	return make(chan store.Event), nil
}

func TestCal(t *testing.T) {
	color.NoColor = true
	p := &memoryPersistence{schedules: []schedule.Schedule{
		{ID: "a", Title: "Dentist", Date: "2024-02-14", Time: "09:30"},
	}}
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.Local)
	a, err := app.Open(context.Background(), p, app.WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	var buf bytes.Buffer
	c := Cal{App: a, Year: 2024, Month: 5, Selected: "2024-02-14", Out: &buf}
	if err := c.Do(context.Background()); err != nil {
		t.Fatalf("do: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"February 2024", "14*", "Wednesday, February 14, 2024", "Dentist"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if st := a.State(); st.Month != 1 || st.Selected != "2024-02-14" {
		t.Fatalf("unexpected state %+v", st)
	}

	c = Cal{App: a, Year: 2024, Month: 13, Out: &buf}
	buf.Reset()
	if err := c.Do(context.Background()); err != nil {
		t.Fatalf("do: %v", err)
	}
	if !strings.Contains(buf.String(), "February 2025") {
		t.Fatalf("expected month rollover:\n%s", buf.String())
	}

	c = Cal{App: a, Year: 2024, Month: 1, Selected: "2024-02-30", Out: &buf}
	if err := c.Do(context.Background()); err == nil {
		t.Fatalf("expected invalid date error")
	}
}
