package store

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"tableflip.dev/agenda/pkg/schedule"
	"tableflip.dev/agenda/pkg/todo"
)

func newPersistence(t *testing.T, base string) (Persistence, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	p, err := Load(&StaticConfig{Path: base}, zerolog.New(&buf))
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}
	return p, &buf
}

func TestLoadMissingDocuments(t *testing.T) {
	p, _ := newPersistence(t, filepath.Join(t.TempDir(), "does", "not", "exist"))
	ctx := context.Background()

	doc, err := p.LoadSchedules(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Schedules == nil || len(doc.Schedules) != 0 {
		t.Fatalf("expected empty, non-nil schedules, got %#v", doc.Schedules)
	}

	todos, err := p.LoadTodos(ctx)
	if err != nil || todos == nil || len(todos) != 0 {
		t.Fatalf("expected empty todos, got %#v err=%v", todos, err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nested", "data")
	p, _ := newPersistence(t, base)
	ctx := context.Background()

	created := time.Date(2024, time.January, 2, 3, 4, 5, 0, time.UTC)
	want := ScheduleDocument{Schedules: []schedule.Schedule{
		{ID: "a", Title: "standup", Date: "2024-02-14", Time: "09:30", Reminder: schedule.Minutes(15), Color: "#fff", CreatedAt: created},
		{ID: "b", Title: "lunch", Date: "2024-02-14", Time: "12:00", CreatedAt: created},
	}}
	if err := p.SaveSchedules(ctx, want); err != nil {
		t.Fatalf("save schedules: %v", err)
	}

	got, err := p.LoadSchedules(ctx)
	if err != nil {
		t.Fatalf("load schedules: %v", err)
	}
	if len(got.Schedules) != 2 || got.Schedules[0].Title != "standup" || *got.Schedules[0].Reminder != 15 || got.Schedules[1].Reminder != nil {
		t.Fatalf("round trip mismatch: %+v", got.Schedules)
	}

	todos := []todo.Todo{{ID: "1", Text: "milk", Completed: true, Keeped: true, CreatedAt: created}}
	if err := p.SaveTodos(ctx, todos); err != nil {
		t.Fatalf("save todos: %v", err)
	}
	gotTodos, err := p.LoadTodos(ctx)
	if err != nil || len(gotTodos) != 1 || gotTodos[0].Text != "milk" || !gotTodos[0].Keeped || !gotTodos[0].CreatedAt.Equal(created) {
		t.Fatalf("todo round trip mismatch: %+v err=%v", gotTodos, err)
	}
}

func TestSavedDocumentShape(t *testing.T) {
	base := t.TempDir()
	p, _ := newPersistence(t, base)
	if err := p.SaveSchedules(context.Background(), ScheduleDocument{}); err != nil {
		t.Fatalf("save: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(base, string(DocumentSchedules)))
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if !strings.Contains(string(raw), "\n  \"schedules\": []") {
		t.Fatalf("expected indented document with an empty list, got %s", raw)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("document is not valid json: %v", err)
	}
}

func TestLoadCorruptDocument(t *testing.T) {
	base := t.TempDir()
	p, logs := newPersistence(t, base)
	if err := os.WriteFile(filepath.Join(base, string(DocumentSchedules)), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(base, string(DocumentTodos)), []byte(`{"oops":true}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	doc, err := p.LoadSchedules(context.Background())
	if err != nil || len(doc.Schedules) != 0 {
		t.Fatalf("expected empty default, got %+v err=%v", doc, err)
	}
	todos, err := p.LoadTodos(context.Background())
	if err != nil || len(todos) != 0 {
		t.Fatalf("expected empty default, got %+v err=%v", todos, err)
	}
	if !strings.Contains(logs.String(), "corrupt") {
		t.Fatalf("expected corruption to be logged, got %q", logs.String())
	}
}

func TestSaveFailureIsReturned(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	p, _ := newPersistence(t, filepath.Join(blocker, "data"))
	if err := p.SaveTodos(context.Background(), nil); err == nil {
		t.Fatalf("expected an error when the base path is not a directory")
	}
}

func TestLoadRequiresPath(t *testing.T) {
	if _, err := Load(&StaticConfig{}, zerolog.Nop()); err == nil {
		t.Fatalf("expected error for empty base path")
	}
}
