package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/lalith-99/eventboard/internal/models"
)

// Serializer is the single-writer boundary in front of a StateStore. Every
// mutation runs read -> fn -> write while holding one mutex, so two requests
// in this process cannot overwrite each other's changes.
//
// Why a mutex around the whole cycle instead of per-record locking?
//   - The stores keep one document, not rows. Two handlers that each read the
//     state and write back a new seating would otherwise lose one of them.
//   - An event has hundreds of guests, not millions. Holding one lock for a
//     few milliseconds per write is far below what the dashboard generates.
//   - Stores shared between processes (Postgres) also implement Locker, and
//     Mutate hands the cycle to them so the lock covers every process.
//
// Reads also take the lock so they never observe a write in progress on
// stores whose Write is not atomic towards readers of the same process.
type Serializer struct {
	mu    sync.Mutex
	store StateStore
}

func NewSerializer(store StateStore) *Serializer {
	return &Serializer{store: store}
}

// View runs fn against a snapshot of the current state. Changes made by fn
// are discarded.
func (s *Serializer) View(ctx context.Context, fn func(state *models.State) error) error {
	s.mu.Lock()
	state, err := s.store.Read(ctx)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("read state: %w", err)
	}
	state.Normalize()
	return fn(state)
}

// Mutate reads the state, applies fn and writes the result. Nothing is
// written when fn returns an error, and that error is returned unchanged.
func (s *Serializer) Mutate(ctx context.Context, fn func(state *models.State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l, ok := s.store.(Locker); ok {
		return l.Lock(ctx, func(state *models.State) error {
			state.Normalize()
			return fn(state)
		})
	}

	state, err := s.store.Read(ctx)
	if err != nil {
		return fmt.Errorf("read state: %w", err)
	}
	state.Normalize()
	if err := fn(state); err != nil {
		return err
	}
	if err := s.store.Write(ctx, state); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}

func (s *Serializer) Close() error {
	return s.store.Close()
}
