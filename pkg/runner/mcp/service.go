// Package mcp provides the Model Context Protocol server integration for agenda.
package mcp

import (
	"errors"
	"fmt"
	"strings"

	"tableflip.dev/agenda/pkg/app"
	"tableflip.dev/agenda/pkg/calendar"
	"tableflip.dev/agenda/pkg/schedule"
	"tableflip.dev/agenda/pkg/todo"
)

var (
	// ErrScheduleNotFound is returned when no schedule has the requested id.
	ErrScheduleNotFound = errors.New("schedule not found")
	// ErrTodoNotFound is returned when no todo has the requested id.
	ErrTodoNotFound = errors.New("todo not found")
)

// Service is the set of operations shared by the MCP tools and resources.
type Service struct {
	App *app.App
}

// DaySummary is the number of schedules on one date.
type DaySummary struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// NewService wraps a.
func NewService(a *app.App) *Service {
	return &Service{App: a}
}

func (s *Service) ready() error {
	if s.App == nil {
		return errors.New("agenda is not open")
	}
	return nil
}

// ListSchedules returns the schedules on date, or every schedule when date
// is empty, in start order.
func (s *Service) ListSchedules(date string) ([]schedule.Schedule, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	var list []schedule.Schedule
	if date == "" {
		list = s.App.Schedules().All()
	} else {
		if _, err := calendar.ParseDate(date); err != nil {
			return nil, err
		}
		list = s.App.Schedules().ByDate(date)
	}
	schedule.SortByStart(list)
	return list, nil
}

// Month returns the per day schedule counts for a month, year and month
// as on a calendar (month 1-12).
func (s *Service) Month(year, month int) ([]DaySummary, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month must be between 1 and 12, got %d", month)
	}
	counts := s.App.Schedules().CountByDate()
	days := calendar.DaysIn(year, month-1)
	out := make([]DaySummary, 0, days)
	for d := 1; d <= days; d++ {
		date := fmt.Sprintf("%04d-%02d-%02d", year, month, d)
		if n := counts[date]; n > 0 {
			out = append(out, DaySummary{Date: date, Count: n})
		}
	}
	return out, nil
}

// GetSchedule returns the schedule with the given id.
func (s *Service) GetSchedule(id string) (schedule.Schedule, error) {
	if err := s.ready(); err != nil {
		return schedule.Schedule{}, err
	}
	sc, ok := s.App.Schedules().Get(id)
	if !ok {
		return sc, fmt.Errorf("%w: %s", ErrScheduleNotFound, id)
	}
	return sc, nil
}

// AddSchedule stores a new schedule.
func (s *Service) AddSchedule(in app.ScheduleInput) (schedule.Schedule, error) {
	if err := s.ready(); err != nil {
		return schedule.Schedule{}, err
	}
	return s.App.AddSchedule(in)
}

// EditSchedule applies p to the schedule with the given id.
func (s *Service) EditSchedule(id string, p schedule.Patch) (schedule.Schedule, error) {
	if err := s.ready(); err != nil {
		return schedule.Schedule{}, err
	}
	if p.IsEmpty() {
		return schedule.Schedule{}, errors.New("nothing to change")
	}
	sc, ok, err := s.App.EditSchedule(id, p)
	if !ok {
		return sc, fmt.Errorf("%w: %s", ErrScheduleNotFound, id)
	}
	return sc, err
}

// DeleteSchedule removes the schedule with the given id.
func (s *Service) DeleteSchedule(id string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if !s.App.DeleteSchedule(id) {
		return fmt.Errorf("%w: %s", ErrScheduleNotFound, id)
	}
	return nil
}

// SearchSchedules matches query case-insensitively against titles and
// descriptions. At most limit schedules are returned, in start order.
func (s *Service) SearchSchedules(query string, limit int) ([]schedule.Schedule, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, errors.New("query is required")
	}
	if limit <= 0 {
		limit = 20
	}

	all := s.App.Schedules().All()
	schedule.SortByStart(all)
	out := make([]schedule.Schedule, 0, limit)
	for _, sc := range all {
		if strings.Contains(strings.ToLower(sc.Title), q) || strings.Contains(strings.ToLower(sc.Description), q) {
			out = append(out, sc)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

// ListTodos returns the active todos, or every todo when all is set.
func (s *Service) ListTodos(all bool) ([]todo.Todo, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if all {
		return s.App.Todos().All(), nil
	}
	return s.App.Todos().Active(), nil
}

// AddTodo appends a todo and returns it.
func (s *Service) AddTodo(text string) (todo.Todo, error) {
	if err := s.ready(); err != nil {
		return todo.Todo{}, err
	}
	list, err := s.App.AddTodo(text)
	if err != nil {
		return todo.Todo{}, err
	}
	return list[len(list)-1], nil
}

// ToggleTodo flips the completion of an active todo.
func (s *Service) ToggleTodo(id string) (todo.Todo, error) {
	if err := s.ready(); err != nil {
		return todo.Todo{}, err
	}
	for _, t := range s.App.ToggleTodo(id) {
		if t.ID != id {
			continue
		}
		if t.Keeped {
			return t, fmt.Errorf("todo %s is kept and can no longer change", id)
		}
		return t, nil
	}
	return todo.Todo{}, fmt.Errorf("%w: %s", ErrTodoNotFound, id)
}

// KeepTodos archives every completed todo and returns what is still active.
func (s *Service) KeepTodos() ([]todo.Todo, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	s.App.KeepTodos()
	return s.App.Todos().Active(), nil
}
