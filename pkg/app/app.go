// Package app owns agenda's stores and keeps them in sync with persistence.
// CLIs and the reminder daemon share it so mutations always schedule a save.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"tableflip.dev/agenda/pkg/debounce"
	"tableflip.dev/agenda/pkg/schedule"
	"tableflip.dev/agenda/pkg/store"
	"tableflip.dev/agenda/pkg/todo"
)

// DefaultDebounce is the quiet period before a mutated document is saved.
const DefaultDebounce = 2 * time.Second

// Option configures an App.
type Option func(*App)

func WithDebounce(d time.Duration) Option { return func(a *App) { a.delay = d } }

func WithLogger(l zerolog.Logger) Option { return func(a *App) { a.log = l } }

// WithClock replaces time.Now for ids, CreatedAt and the initial view.
func WithClock(now func() time.Time) Option { return func(a *App) { a.now = now } }

// WithIDFunc replaces the UUID generator.
func WithIDFunc(fn func() string) Option { return func(a *App) { a.newID = fn } }

// WithErrorHandler receives failures of background saves. The default logs
// them.
func WithErrorHandler(fn func(error)) Option { return func(a *App) { a.onError = fn } }

// ScheduleInput is what the user provides for a new schedule.
type ScheduleInput struct {
	Title       string
	Date        string
	Time        string
	Description string
	Reminder    *int
	Color       string
}

// App is the owning layer: it holds the stores, the view state and one
// debounced writer per document.
type App struct {
	Persistence store.Persistence

	schedules *schedule.Store
	todos     *todo.Store

	stateMu sync.Mutex
	state   State

	saveSchedules *debounce.Debouncer
	saveTodos     *debounce.Debouncer

	// mutMu orders mutations against reloads. Each generation counts the
	// mutations of one document; a reload only replaces a store whose
	// generation did not move while the document was being read.
	mutMu        sync.Mutex
	schedulesGen uint64
	todosGen     uint64

	ctx     context.Context
	delay   time.Duration
	log     zerolog.Logger
	now     func() time.Time
	newID   func() string
	onError func(error)
}

// Open builds an App on p and loads both documents.
func Open(ctx context.Context, p store.Persistence, opts ...Option) (*App, error) {
	if p == nil {
		return nil, errors.New("app: no persistence configured")
	}
	a := &App{
		Persistence: p,
		ctx:         context.WithoutCancel(ctx),
		delay:       DefaultDebounce,
		log:         zerolog.Nop(),
		now:         time.Now,
		newID:       func() string { return uuid.New().String() },
	}
	for _, o := range opts {
		o(a)
	}
	if a.onError == nil {
		a.onError = func(err error) { a.log.Error().Err(err).Msg("background save failed") }
	}

	a.schedules = schedule.NewStore()
	a.todos = todo.NewStore(todo.IDFunc(a.newID), todo.NowFunc(a.now))
	a.state = NewState(a.now())

	a.saveSchedules = debounce.New(a.delay, a.writeSchedules, debounce.WithErrorHandler(a.onError))
	a.saveTodos = debounce.New(a.delay, a.writeTodos, debounce.WithErrorHandler(a.onError))

	if err := a.ReloadSchedules(ctx); err != nil {
		return nil, err
	}
	if err := a.ReloadTodos(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

// Schedules exposes the schedule store for queries. Mutate through App so
// the change is saved.
func (a *App) Schedules() *schedule.Store { return a.schedules }

// Todos exposes the todo store for queries.
func (a *App) Todos() *todo.Store { return a.todos }

// Now reads the App's clock.
func (a *App) Now() time.Time { return a.now() }

// State returns a copy of the view state.
func (a *App) State() State {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	return a.state
}

// UpdateState applies fn to the view state and returns the result.
func (a *App) UpdateState(fn func(*State) error) (State, error) {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	next := a.state
	if err := fn(&next); err != nil {
		return a.state, err
	}
	a.state = next
	return next, nil
}

// AddSchedule creates a schedule with a fresh id and creation time.
func (a *App) AddSchedule(in ScheduleInput) (schedule.Schedule, error) {
	sc := schedule.Schedule{
		ID:          a.newID(),
		Title:       in.Title,
		Date:        in.Date,
		Time:        in.Time,
		Description: in.Description,
		Reminder:    in.Reminder,
		Color:       in.Color,
		CreatedAt:   a.now(),
	}
	if sc.Color == "" {
		sc.Color = schedule.DefaultColor
	}
	if canon, err := schedule.CanonicalTime(sc.Time); err == nil {
		sc.Time = canon
	}
	a.mutMu.Lock()
	defer a.mutMu.Unlock()
	if err := a.schedules.Add(sc); err != nil {
		return schedule.Schedule{}, err
	}
	a.schedulesGen++
	a.saveSchedules.Trigger()
	return sc, nil
}

// EditSchedule merges p into the schedule with the given id.
func (a *App) EditSchedule(id string, p schedule.Patch) (schedule.Schedule, bool, error) {
	a.mutMu.Lock()
	defer a.mutMu.Unlock()
	sc, ok, err := a.schedules.Edit(id, p)
	if ok && err == nil {
		a.schedulesGen++
		a.saveSchedules.Trigger()
	}
	return sc, ok, err
}

// DeleteSchedule removes the schedule with the given id.
func (a *App) DeleteSchedule(id string) bool {
	a.mutMu.Lock()
	defer a.mutMu.Unlock()
	if !a.schedules.Delete(id) {
		return false
	}
	a.schedulesGen++
	a.saveSchedules.Trigger()
	return true
}

// ImportSchedules adds schedules from an external source. Ids that are
// empty or already present are replaced, missing creation times and colors
// are filled in. Invalid records are skipped and reported in the error.
func (a *App) ImportSchedules(list []schedule.Schedule) (int, error) {
	a.mutMu.Lock()
	defer a.mutMu.Unlock()
	var errs []error
	added := 0
	for _, sc := range list {
		if sc.ID == "" {
			sc.ID = a.newID()
		} else if _, exists := a.schedules.Get(sc.ID); exists {
			sc.ID = a.newID()
		}
		if sc.CreatedAt.IsZero() {
			sc.CreatedAt = a.now()
		}
		if sc.Color == "" {
			sc.Color = schedule.DefaultColor
		}
		if canon, err := schedule.CanonicalTime(sc.Time); err == nil {
			sc.Time = canon
		}
		if err := a.schedules.Add(sc); err != nil {
			errs = append(errs, fmt.Errorf("%q: %w", sc.Title, err))
			continue
		}
		added++
	}
	if added > 0 {
		a.schedulesGen++
		a.saveSchedules.Trigger()
	}
	return added, errors.Join(errs...)
}

// AddTodo appends a todo and returns the full list.
func (a *App) AddTodo(text string) ([]todo.Todo, error) {
	a.mutMu.Lock()
	defer a.mutMu.Unlock()
	if _, err := a.todos.Add(text); err != nil {
		return nil, err
	}
	a.todosGen++
	a.saveTodos.Trigger()
	return a.todos.All(), nil
}

// ToggleTodo flips the todo with the given id and returns the full list.
func (a *App) ToggleTodo(id string) []todo.Todo {
	a.mutMu.Lock()
	defer a.mutMu.Unlock()
	list, changed := a.todos.Toggle(id)
	if changed {
		a.todosGen++
		a.saveTodos.Trigger()
	}
	return list
}

// KeepTodos archives every completed todo and returns the full list.
func (a *App) KeepTodos() []todo.Todo {
	a.mutMu.Lock()
	defer a.mutMu.Unlock()
	list := a.todos.KeepCompleted()
	a.todosGen++
	a.saveTodos.Trigger()
	return list
}

// ReloadSchedules replaces the schedule store with the persisted document.
// Local changes win over the file on disk: the reload is dropped when a save
// is pending or a mutation happened while the document was read.
func (a *App) ReloadSchedules(ctx context.Context) error {
	a.mutMu.Lock()
	gen := a.schedulesGen
	a.mutMu.Unlock()
	if a.saveSchedules.Pending() {
		a.log.Debug().Msg("skipping schedule reload, local changes pending")
		return nil
	}

	doc, err := a.Persistence.LoadSchedules(ctx)
	if err != nil {
		return fmt.Errorf("app: load schedules: %w", err)
	}

	a.mutMu.Lock()
	defer a.mutMu.Unlock()
	if gen != a.schedulesGen || a.saveSchedules.Pending() {
		a.log.Debug().Msg("dropping schedule reload, changed during load")
		return nil
	}
	a.schedules.SetAll(doc.Schedules)
	return nil
}

// ReloadTodos replaces the todo store with the persisted list, under the
// same rules as ReloadSchedules.
func (a *App) ReloadTodos(ctx context.Context) error {
	a.mutMu.Lock()
	gen := a.todosGen
	a.mutMu.Unlock()
	if a.saveTodos.Pending() {
		a.log.Debug().Msg("skipping todo reload, local changes pending")
		return nil
	}

	todos, err := a.Persistence.LoadTodos(ctx)
	if err != nil {
		return fmt.Errorf("app: load todos: %w", err)
	}

	a.mutMu.Lock()
	defer a.mutMu.Unlock()
	if gen != a.todosGen || a.saveTodos.Pending() {
		a.log.Debug().Msg("dropping todo reload, changed during load")
		return nil
	}
	a.todos.SetAll(todos)
	return nil
}

// Reload refreshes the store behind doc.
func (a *App) Reload(ctx context.Context, doc store.Document) error {
	switch doc {
	case store.DocumentSchedules:
		return a.ReloadSchedules(ctx)
	case store.DocumentTodos:
		return a.ReloadTodos(ctx)
	}
	return fmt.Errorf("app: unknown document %q", doc)
}

// Watch reloads stores when their documents change on disk, until ctx is
// done.
func (a *App) Watch(ctx context.Context) error {
	events, err := a.Persistence.Watch(ctx)
	if err != nil {
		return err
	}
	go func() {
		for ev := range events {
			if err := a.Reload(ctx, ev.Document); err != nil {
				a.log.Warn().Err(err).Str("document", string(ev.Document)).Msg("reload failed")
				continue
			}
			a.log.Debug().Str("document", string(ev.Document)).Msg("reloaded")
		}
	}()
	return nil
}

// Close flushes pending saves and returns the first error.
func (a *App) Close() error {
	errSchedules := a.saveSchedules.Flush()
	errTodos := a.saveTodos.Flush()
	if errSchedules != nil {
		return errSchedules
	}
	return errTodos
}

func (a *App) writeSchedules() error {
	return a.Persistence.SaveSchedules(a.ctx, store.ScheduleDocument{Schedules: a.schedules.All()})
}

func (a *App) writeTodos() error {
	return a.Persistence.SaveTodos(a.ctx, a.todos.All())
}
