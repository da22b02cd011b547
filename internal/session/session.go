// Package session owns the editor state: it hydrates from persistence,
// applies actions one at a time and mirrors the task list back to storage.
package session

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/metalagman/tasklist/internal/storage"
	"github.com/metalagman/tasklist/internal/tasklist"
	"github.com/rs/zerolog/log"
)

// Session is the single writer of the editor state.
type Session struct {
	mu      sync.Mutex
	state   tasklist.State
	reducer tasklist.Reducer
	store   storage.Persistence
}

// Option configures a Session.
type Option func(*Session)

// WithClock sets the clock used to stamp new task ids.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.reducer = tasklist.NewReducer(now)
	}
}

// New creates a session hydrated from store.
func New(ctx context.Context, store storage.Persistence, opts ...Option) *Session {
	s := &Session{
		state:   tasklist.State{Tasks: []tasklist.Task{}},
		reducer: tasklist.NewReducer(time.Now),
		store:   store,
	}
	for _, opt := range opts {
		opt(s)
	}
	tasks := store.Load(ctx)
	s.state = s.reducer.Apply(s.state, tasklist.LoadTasks{Tasks: tasks})
	log.Debug().Int("tasks", len(tasks)).Msg("session hydrated")
	return s
}

// Dispatch applies a and persists the task list if it changed. Storage
// failures are logged and never returned.
func (s *Session) Dispatch(ctx context.Context, a tasklist.Action) tasklist.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.state
	s.state = s.reducer.Apply(prev, a)
	log.Debug().Str("action", a.Kind()).Int("tasks", len(s.state.Tasks)).Msg("action applied")

	switch {
	case a.Kind() == tasklist.KindClearAll:
		if err := s.store.Clear(ctx); err != nil {
			log.Error().Err(err).Msg("clear stored tasks")
		}
	case !slices.Equal(prev.Tasks, s.state.Tasks):
		if err := s.store.Save(ctx, s.state.Tasks); err != nil {
			log.Error().Err(err).Str("action", a.Kind()).Msg("save tasks")
		}
	}
	return s.state.Clone()
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() tasklist.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Pending returns the tasks not yet completed.
func (s *Session) Pending() []tasklist.Task {
	pending, _ := tasklist.Partition(s.Snapshot().Tasks)
	return pending
}

// Completed returns the completed tasks.
func (s *Session) Completed() []tasklist.Task {
	_, completed := tasklist.Partition(s.Snapshot().Tasks)
	return completed
}
