// Package planner owns the guest/table consistency rules of the dashboard:
// merge-by-name guest registration, the table reassignment protocol, cascade
// cleanup on delete, and the read-time duplicate fold.
//
// Every mutation goes through repository.Serializer.Mutate, which reads the
// whole state, lets the operation change it and writes it back. There is no
// foreign-key engine underneath; the back-reference Guest.Table is maintained
// only by the code in tables.go.
package planner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lalith-99/eventboard/internal/models"
	"github.com/lalith-99/eventboard/internal/repository"
)

// Publisher receives a Change after each successful mutation. Implementations
// must not block the caller for long.
type Publisher interface {
	Publish(ctx context.Context, change models.Change)
}

// Options are behavior switches loaded from config. They are fixed for the
// life of a Service.
type Options struct {
	// CascadeTableDelete clears Guest.Table on guests seated at a table when
	// that table is deleted. Off by default: deleting a table leaves its
	// guests pointing at the old name until they are edited or reseated.
	CascadeTableDelete bool
}

// Service is the dashboard's domain layer. HTTP handlers, the importer and
// eventctl all call it; none of them touch the store directly.
//
// Why one Service for guests, tables and reminders instead of three?
//   - Guest.Table and Table.Guests point at each other. Seating a guest
//     changes both sides, and only one mutation may see the state at a time.
//     Splitting the services would split that mutation.
//   - Every write ends with one publish call, so the live feed sees the same
//     sequence of changes regardless of which entity was touched.
//
// Why inject newID and now?
//   - Tests pin ids and timestamps without sleeping or mocking uuid.
type Service struct {
	store  *repository.Serializer
	pub    Publisher
	logger *zap.Logger
	opts   Options

	newID func() uuid.UUID
	now   func() time.Time
}

// New builds a Service. pub may be nil.
func New(store *repository.Serializer, pub Publisher, logger *zap.Logger, opts Options) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		pub:    pub,
		logger: logger,
		opts:   opts,
		newID:  newTimeOrderedID,
		now:    time.Now,
	}
}

// newTimeOrderedID returns a UUIDv7, which sorts by creation time and does
// not collide within a millisecond.
func newTimeOrderedID() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}

func (s *Service) publish(ctx context.Context, entity string, action models.ChangeAction, id uuid.UUID) {
	if s.pub == nil {
		return
	}
	s.pub.Publish(ctx, models.Change{
		Entity: entity,
		Action: action,
		ID:     id,
		At:     s.now().UTC(),
	})
}
