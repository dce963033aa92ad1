// Package memstore is an in-process task store for tests and local runs.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"tasks-manager-backend/internal/tasks"
)

type Store struct {
	mu    sync.RWMutex
	tasks map[string]tasks.Task
}

func New() *Store {
	return &Store{tasks: make(map[string]tasks.Task)}
}

func (s *Store) List(_ context.Context) ([]tasks.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]tasks.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Deadline.Equal(out[j].Deadline) {
			return out[i].Deadline.Before(out[j].Deadline)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) Create(_ context.Context, t tasks.Task) (tasks.Task, error) {
	t.ID = uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[t.ID] = t
	return t, nil
}

func (s *Store) Get(_ context.Context, id string) (tasks.Task, error) {
	id, err := canonicalID(id)
	if err != nil {
		return tasks.Task{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return tasks.Task{}, tasks.ErrNotFound
	}
	return t, nil
}

func (s *Store) Replace(_ context.Context, t tasks.Task) (tasks.Task, error) {
	id, err := canonicalID(t.ID)
	if err != nil {
		return tasks.Task{}, err
	}
	t.ID = id

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[t.ID]; !ok {
		return tasks.Task{}, tasks.ErrNotFound
	}
	s.tasks[t.ID] = t
	return t, nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	id, err := canonicalID(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return tasks.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

// canonicalID accepts any spelling uuid.Parse does and returns the
// lowercase hyphenated form ids are stored under.
func canonicalID(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("%w: %q is not a UUID", tasks.ErrInvalidID, id)
	}
	return u.String(), nil
}
