// Package memory keeps the event state in process memory. Nothing survives a
// restart; it backs tests and throwaway runs (STORE_URL=memory://).
package memory

import (
	"context"
	"sync"

	"github.com/lalith-99/eventboard/internal/models"
)

type StateStore struct {
	mu    sync.RWMutex
	state *models.State
}

func NewStateStore() *StateStore {
	return &StateStore{state: models.NewState()}
}

// NewStateStoreWith seeds the store with a copy of state.
func NewStateStoreWith(state *models.State) *StateStore {
	seed := state.Clone()
	seed.Normalize()
	return &StateStore{state: seed}
}

func (s *StateStore) Read(_ context.Context) (*models.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone(), nil
}

func (s *StateStore) Write(_ context.Context, state *models.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state.Clone()
	return nil
}

func (s *StateStore) Close() error { return nil }
