// Package todo holds the todo list and its keep (archive) semantics.
package todo

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrEmptyText is returned by Add when the text is blank after trimming.
var ErrEmptyText = errors.New("todo: text is required")

// Todo is a single checklist item. Keeped implies Completed.
type Todo struct {
	ID        string    `json:"id" yaml:"id"`
	Text      string    `json:"text" yaml:"text"`
	Completed bool      `json:"completed" yaml:"completed"`
	Keeped    bool      `json:"keeped" yaml:"keeped"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

// Option configures a Store.
type Option func(*Store)

// IDFunc replaces the id generator.
func IDFunc(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// NowFunc replaces the clock used for CreatedAt.
func NowFunc(fn func() time.Time) Option {
	return func(s *Store) { s.now = fn }
}

// Store owns the todo list in insertion order.
type Store struct {
	mu    sync.RWMutex
	todos []Todo
	newID func() string
	now   func() time.Time
}

// NewStore returns an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		newID: func() string { return uuid.New().String() },
		now:   time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// All returns a copy of every todo, keeped ones included.
func (s *Store) All() []Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Active returns the todos that have not been keeped.
func (s *Store) Active() []Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Todo, 0, len(s.todos))
	for _, t := range s.todos {
		if !t.Keeped {
			out = append(out, t)
		}
	}
	return out
}

// SetAll replaces the list as-is.
func (s *Store) SetAll(list []Todo) {
	cp := append([]Todo(nil), list...)
	s.mu.Lock()
	s.todos = cp
	s.mu.Unlock()
}

// Add appends a new, incomplete todo.
func (s *Store) Add(text string) (Todo, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Todo{}, ErrEmptyText
	}
	t := Todo{
		ID:        s.newID(),
		Text:      text,
		CreatedAt: s.now(),
	}
	s.mu.Lock()
	s.todos = append(s.todos, t)
	s.mu.Unlock()
	return t, nil
}

// Toggle flips Completed on the todo with the given id. Unknown and keeped
// ids leave the list untouched and report false.
func (s *Store) Toggle(id string) ([]Todo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.todos {
		if s.todos[i].ID != id {
			continue
		}
		if s.todos[i].Keeped {
			return s.snapshotLocked(), false
		}
		s.todos[i].Completed = !s.todos[i].Completed
		return s.snapshotLocked(), true
	}
	return s.snapshotLocked(), false
}

// KeepCompleted archives every completed todo and returns the full list.
func (s *Store) KeepCompleted() []Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.todos {
		if s.todos[i].Completed {
			s.todos[i].Keeped = true
		}
	}
	return s.snapshotLocked()
}

// Len returns the number of todos, keeped ones included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.todos)
}

func (s *Store) snapshotLocked() []Todo {
	out := make([]Todo, len(s.todos))
	copy(out, s.todos)
	return out
}
