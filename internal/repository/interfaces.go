package repository

import (
	"context"

	"github.com/lalith-99/eventboard/internal/models"
)

// StateStore persists the whole event document: guests, tables and
// reminders. There is no per-record access; callers read everything, change
// their copy and write everything back.
//
// Implementations must make Write atomic at the document level: a concurrent
// Read sees either the old or the new state, never a mix.
//
// Why whole-document reads and writes?
//   - Consistency rules span records: seating touches a table and every
//     guest listed at it. Swapping one document keeps them in step without
//     transactions across records.
//   - The same interface then fits a JSON file, a bbolt bucket, a jsonb row
//     and a map, and the backend is picked by URL at startup.
type StateStore interface {
	// Read returns a copy of the current state. An empty store yields an
	// empty, non-nil state.
	Read(ctx context.Context) (*models.State, error)

	// Write replaces the stored state.
	Write(ctx context.Context, state *models.State) error

	Close() error
}

// Locker is implemented by stores that can hold a lock across a
// read-modify-write cycle themselves, e.g. with a database transaction.
// fn receives the current state; if it returns nil, the (mutated) state is
// written before the lock is released.
type Locker interface {
	Lock(ctx context.Context, fn func(state *models.State) error) error
}
