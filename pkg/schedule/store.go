package schedule

import (
	"errors"
	"fmt"
	"sync"
)

// ErrDuplicateID is returned by Add when the id is already stored.
var ErrDuplicateID = errors.New("schedule: duplicate id")

// Store owns the schedule collection in insertion order. Unknown ids are
// not errors: Edit and Delete report them through their bool result.
type Store struct {
	mu        sync.RWMutex
	schedules []Schedule
}

// NewStore returns a store holding list as-is.
func NewStore(list ...Schedule) *Store {
	s := &Store{}
	s.SetAll(list)
	return s
}

// SetAll replaces the whole collection without validation.
func (s *Store) SetAll(list []Schedule) {
	cp := make([]Schedule, 0, len(list))
	for _, sc := range list {
		cp = append(cp, clone(sc))
	}
	s.mu.Lock()
	s.schedules = cp
	s.mu.Unlock()
}

// Add appends sc. The caller assigns ID and CreatedAt.
func (s *Store) Add(sc Schedule) error {
	if sc.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalid)
	}
	if err := sc.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexLocked(sc.ID) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateID, sc.ID)
	}
	s.schedules = append(s.schedules, clone(sc))
	return nil
}

// Edit merges p into the schedule with the given id. It returns false when
// the id is unknown. A patch that would leave the record invalid is
// rejected and the stored record is unchanged.
func (s *Store) Edit(id string, p Patch) (Schedule, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return Schedule{}, false, nil
	}
	next := p.Apply(clone(s.schedules[idx]))
	if err := next.Validate(); err != nil {
		return clone(s.schedules[idx]), true, err
	}
	s.schedules[idx] = next
	return clone(next), true, nil
}

// Delete removes the schedule with the given id and reports whether it
// existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return false
	}
	s.schedules = append(s.schedules[:idx:idx], s.schedules[idx+1:]...)
	return true
}

// Get returns the schedule with the given id.
func (s *Store) Get(id string) (Schedule, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return Schedule{}, false
	}
	return clone(s.schedules[idx]), true
}

// ByDate returns the schedules whose Date equals the canonical date string.
func (s *Store) ByDate(date string) []Schedule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Schedule, 0)
	for _, sc := range s.schedules {
		if sc.Date == date {
			out = append(out, clone(sc))
		}
	}
	return out
}

// CountByDate maps date strings to the number of schedules on them.
func (s *Store) CountByDate() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[string]int, len(s.schedules))
	for _, sc := range s.schedules {
		counts[sc.Date]++
	}
	return counts
}

// All returns a copy of the collection.
func (s *Store) All() []Schedule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Schedule, 0, len(s.schedules))
	for _, sc := range s.schedules {
		out = append(out, clone(sc))
	}
	return out
}

// Len returns the number of stored schedules.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.schedules)
}

func (s *Store) indexLocked(id string) int {
	for i := range s.schedules {
		if s.schedules[i].ID == id {
			return i
		}
	}
	return -1
}
