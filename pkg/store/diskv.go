// Package store persists agenda's documents on disk and reads its
// configuration.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/peterbourgon/diskv/v3"
	"github.com/rs/zerolog"

	"tableflip.dev/agenda/pkg/schedule"
	"tableflip.dev/agenda/pkg/todo"
)

// Document names one persisted JSON file.
type Document string

const (
	DocumentSchedules Document = "schedules.json"
	DocumentTodos     Document = "todos.json"
)

// ScheduleDocument is the on-disk shape of schedules.json.
type ScheduleDocument struct {
	Schedules []schedule.Schedule `json:"schedules"`
}

// Persistence loads and saves the schedule and todo documents. Missing or
// unreadable documents load as empty; save failures are always returned.
type Persistence interface {
	LoadSchedules(ctx context.Context) (ScheduleDocument, error)
	SaveSchedules(ctx context.Context, doc ScheduleDocument) error
	LoadTodos(ctx context.Context) ([]todo.Todo, error)
	SaveTodos(ctx context.Context, todos []todo.Todo) error
	Watch(ctx context.Context) (<-chan Event, error)
}

// Load creates a Persistence backed by diskv using the provided config.
func Load(cfg Config, log zerolog.Logger) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	basePath := cfg.BasePath()
	if basePath == "" {
		return nil, errors.New("store: persistence base path unknown")
	}
	return &persistence{
		d: diskv.New(diskv.Options{
			BasePath:     basePath,
			Transform:    flatTransform,
			TempDir:      filepath.Join(basePath, ".tmp"),
			CacheSizeMax: 0,
			PathPerm:     0o755,
			FilePerm:     0o644,
		}),
		basePath: basePath,
		log:      log.With().Str("component", "store").Logger(),
	}, nil
}

func flatTransform(string) []string { return []string{} }

type persistence struct {
	d        *diskv.Diskv
	basePath string
	log      zerolog.Logger
}

func (p *persistence) LoadSchedules(ctx context.Context) (ScheduleDocument, error) {
	doc := ScheduleDocument{Schedules: []schedule.Schedule{}}
	if !p.read(ctx, DocumentSchedules, &doc) || doc.Schedules == nil {
		return ScheduleDocument{Schedules: []schedule.Schedule{}}, nil
	}
	return doc, nil
}

func (p *persistence) SaveSchedules(ctx context.Context, doc ScheduleDocument) error {
	if doc.Schedules == nil {
		doc.Schedules = []schedule.Schedule{}
	}
	return p.write(ctx, DocumentSchedules, doc)
}

func (p *persistence) LoadTodos(ctx context.Context) ([]todo.Todo, error) {
	var todos []todo.Todo
	if !p.read(ctx, DocumentTodos, &todos) || todos == nil {
		return []todo.Todo{}, nil
	}
	return todos, nil
}

func (p *persistence) SaveTodos(ctx context.Context, todos []todo.Todo) error {
	if todos == nil {
		todos = []todo.Todo{}
	}
	return p.write(ctx, DocumentTodos, todos)
}

// read decodes the document into v and reports whether it succeeded.
// Anything other than a clean decode is logged and treated as absent.
func (p *persistence) read(ctx context.Context, doc Document, v interface{}) bool {
	if ctx.Err() != nil {
		return false
	}
	key := string(doc)
	if !p.d.Has(key) {
		return false
	}
	data, err := p.d.Read(key)
	if err != nil {
		p.log.Warn().Err(err).Str("document", key).Msg("reading document, using empty default")
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		p.log.Warn().Err(err).Str("document", key).Msg("document is corrupt, using empty default")
		return false
	}
	return true
}

func (p *persistence) write(ctx context.Context, doc Document, v interface{}) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("store: save %s: %w", doc, err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", doc, err)
	}
	if err := os.MkdirAll(p.basePath, 0o755); err != nil {
		return fmt.Errorf("store: ensure base path: %w", err)
	}
	if err := p.d.Write(string(doc), data); err != nil {
		return fmt.Errorf("store: save %s: %w", doc, err)
	}
	p.log.Debug().Str("document", string(doc)).Int("bytes", len(data)).Msg("saved")
	return nil
}
