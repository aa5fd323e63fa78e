package teaui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/agenda/pkg/app"
	"tableflip.dev/agenda/pkg/schedule"
	"tableflip.dev/agenda/pkg/store"
	"tableflip.dev/agenda/pkg/todo"
)

type memoryPersistence struct {
	schedules []schedule.Schedule
	todos     []todo.Todo
}

func (m *memoryPersistence) LoadSchedules(context.Context) (store.ScheduleDocument, error) {
	return store.ScheduleDocument{Schedules: m.schedules}, nil
}

func (m *memoryPersistence) SaveSchedules(context.Context, store.ScheduleDocument) error {
	return nil
}

func (m *memoryPersistence) LoadTodos(context.Context) ([]todo.Todo, error) { return m.todos, nil }

func (m *memoryPersistence) SaveTodos(context.Context, []todo.Todo) error { return nil }

func (m *memoryPersistence) Watch(context.Context) (<-chan store.Event, error) {
	return make(chan store.Event), nil
}

var now = time.Date(2024, time.January, 31, 10, 0, 0, 0, time.Local)

func newModel(t *testing.T, p *memoryPersistence) Model {
	t.Helper()
	a, err := app.Open(context.Background(), p,
		app.WithDebounce(time.Hour),
		app.WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return New(a)
}

func press(t *testing.T, m Model, keys ...tea.KeyPressMsg) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(Model)
	}
	return m
}

func key(r rune) tea.KeyPressMsg { return tea.KeyPressMsg{Text: string(r), Code: r} }

func typed(s string) []tea.KeyPressMsg {
	keys := make([]tea.KeyPressMsg, 0, len(s))
	for _, r := range s {
		keys = append(keys, key(r))
	}
	return keys
}

func TestNewSelectsToday(t *testing.T) {
	m := newModel(t, &memoryPersistence{})
	if st := m.app.State(); st.Selected != "2024-01-31" || st.Month != 0 {
		t.Fatalf("unexpected state %+v", st)
	}
}

func TestDayNavigationCrossesMonths(t *testing.T) {
	m := newModel(t, &memoryPersistence{})

	m = press(t, m, key('l'))
	if st := m.app.State(); st.Selected != "2024-02-01" || st.Month != 1 {
		t.Fatalf("expected February 1, got %+v", st)
	}
	m = press(t, m, key('k'))
	if st := m.app.State(); st.Selected != "2024-01-25" || st.Month != 0 {
		t.Fatalf("expected January 25, got %+v", st)
	}
	m = press(t, m, tea.KeyPressMsg{Code: tea.KeyDown})
	if got := m.app.State().Selected; got != "2024-02-01" {
		t.Fatalf("expected February 1, got %s", got)
	}
}

func TestMonthNavigationClampsDay(t *testing.T) {
	m := newModel(t, &memoryPersistence{})
	m = press(t, m, key(']'))
	if st := m.app.State(); st.Selected != "2024-02-29" || st.Month != 1 {
		t.Fatalf("expected February 29, got %+v", st)
	}
	m = press(t, m, key('['), key('['))
	if st := m.app.State(); st.Selected != "2023-12-29" || st.Year != 2023 || st.Month != 11 {
		t.Fatalf("expected December 29 2023, got %+v", st)
	}
	m = press(t, m, key('t'))
	if got := m.app.State().Selected; got != "2024-01-31" {
		t.Fatalf("expected today, got %s", got)
	}
}

func TestAddAndDeleteSchedule(t *testing.T) {
	m := newModel(t, &memoryPersistence{})

	m = press(t, m, key('o'))
	if m.mode != modeInsert {
		t.Fatalf("expected insert mode")
	}
	m = press(t, m, typed("09:30 Dentist visit @15m")...)
	m = press(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.mode != modeNormal {
		t.Fatalf("expected normal mode after enter")
	}
	list := m.app.Schedules().ByDate("2024-01-31")
	if len(list) != 1 || list[0].Title != "Dentist visit" || list[0].Reminder == nil || *list[0].Reminder != 15 {
		t.Fatalf("unexpected schedules %+v", list)
	}
	if !strings.Contains(m.View(), "Dentist visit") {
		t.Fatalf("expected the schedule in the view:\n%s", m.View())
	}

	m = press(t, m, tea.KeyPressMsg{Code: tea.KeyTab}, key('d'))
	if m.app.Schedules().Len() != 1 {
		t.Fatalf("a single d must not delete")
	}
	m = press(t, m, key('d'))
	if m.app.Schedules().Len() != 0 {
		t.Fatalf("expected dd to delete the schedule")
	}
}

func TestTodoPane(t *testing.T) {
	p := &memoryPersistence{todos: []todo.Todo{{ID: "1", Text: "milk"}, {ID: "2", Text: "eggs"}}}
	m := newModel(t, p)

	m = press(t, m, tea.KeyPressMsg{Code: tea.KeyTab}, tea.KeyPressMsg{Code: tea.KeyTab})
	if m.focus != paneTodos {
		t.Fatalf("expected todo focus, got %d", m.focus)
	}
	m = press(t, m, key('j'), key('x'))
	list := m.app.Todos().All()
	if list[0].Completed || !list[1].Completed {
		t.Fatalf("expected the second todo toggled, got %+v", list)
	}

	m = press(t, m, tea.KeyPressMsg{Text: "K", Code: 'K'})
	if active := m.app.Todos().Active(); len(active) != 1 || active[0].ID != "1" {
		t.Fatalf("expected only the open todo to stay active, got %+v", active)
	}
	if m.todoIndex != 0 {
		t.Fatalf("expected the cursor clamped, got %d", m.todoIndex)
	}

	m = press(t, m, key('o'))
	m = press(t, m, typed("bread")...)
	m = press(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if active := m.app.Todos().Active(); len(active) != 2 || active[1].Text != "bread" {
		t.Fatalf("expected the new todo, got %+v", active)
	}
}

func TestEscapeCancelsInsert(t *testing.T) {
	m := newModel(t, &memoryPersistence{})
	m = press(t, m, key('o'))
	m = press(t, m, typed("09:30 x")...)
	m = press(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.mode != modeNormal || m.app.Schedules().Len() != 0 {
		t.Fatalf("escape must discard the input")
	}
}

func TestParseQuickSchedule(t *testing.T) {
	tests := []struct {
		in      string
		title   string
		remind  int
		wantErr bool
	}{
		{in: "09:30 Dentist", title: "Dentist", remind: -1},
		{in: "9:05 Stand up @1h", title: "Stand up", remind: 60},
		{in: "18:00 @home", title: "@home", remind: -1},
		{in: "Dentist", wantErr: true},
		{in: "25:00 Late", wantErr: true},
		{in: "09:00 x @soon", wantErr: true},
	}
	for _, tt := range tests {
		in, err := ParseQuickSchedule(tt.in, "2024-01-31")
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseQuickSchedule(%q) error = %v", tt.in, err)
		}
		if tt.wantErr {
			continue
		}
		if in.Title != tt.title || in.Date != "2024-01-31" {
			t.Fatalf("ParseQuickSchedule(%q) = %+v", tt.in, in)
		}
		if tt.remind < 0 && in.Reminder != nil || tt.remind >= 0 && (in.Reminder == nil || *in.Reminder != tt.remind) {
			t.Fatalf("ParseQuickSchedule(%q) reminder = %v", tt.in, in.Reminder)
		}
	}
}
