package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/trace"

	"github.com/lalith-99/eventboard/internal/models"
)

// stateRowID is the single row holding the event document.
const stateRowID = 1

// StateStore keeps the whole event document in one jsonb row. Lock takes a
// row lock, so several server processes sharing the database serialize their
// read-modify-write cycles.
type StateStore struct {
	pool *pgxpool.Pool
}

func NewStateStore(pool *pgxpool.Pool) *StateStore {
	return &StateStore{pool: pool}
}

// EnsureSchema creates the state table and its single row if missing.
func (s *StateStore) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS event_state (
			id         smallint PRIMARY KEY,
			doc        jsonb NOT NULL,
			updated_at timestamptz NOT NULL DEFAULT now()
		)`
	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("create event_state: %w", err)
	}

	empty, err := json.Marshal(models.NewState())
	if err != nil {
		return fmt.Errorf("encode empty state: %w", err)
	}
	seed := `
		INSERT INTO event_state (id, doc)
		VALUES ($1, $2)
		ON CONFLICT (id) DO NOTHING`
	if _, err := s.pool.Exec(ctx, seed, stateRowID, empty); err != nil {
		return fmt.Errorf("seed event_state: %w", err)
	}
	return nil
}

func (s *StateStore) Read(ctx context.Context) (*models.State, error) {
	var span trace.Span
	ctx, span = tracer.Start(ctx, "Read")
	defer span.End()

	query := `SELECT doc FROM event_state WHERE id = $1`
	state, err := scanState(s.pool.QueryRow(ctx, query, stateRowID))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return state, nil
}

func (s *StateStore) Write(ctx context.Context, state *models.State) error {
	var span trace.Span
	ctx, span = tracer.Start(ctx, "Write")
	defer span.End()

	if err := writeState(ctx, s.pool, state); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// Lock runs fn inside a transaction holding the state row lock. The state is
// written and committed only when fn succeeds; fn's error is returned as is.
func (s *StateStore) Lock(ctx context.Context, fn func(state *models.State) error) error {
	var span trace.Span
	ctx, span = tracer.Start(ctx, "Lock")
	defer span.End()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("begin tx: %w", err)
	}
	// Rollback after Commit is a no-op.
	defer tx.Rollback(ctx)

	query := `SELECT doc FROM event_state WHERE id = $1 FOR UPDATE`
	state, err := scanState(tx.QueryRow(ctx, query, stateRowID))
	if err != nil {
		span.RecordError(err)
		return err
	}

	if err := fn(state); err != nil {
		return err
	}

	if err := writeState(ctx, tx, state); err != nil {
		span.RecordError(err)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		span.RecordError(err)
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Close is a no-op: the pool is owned by db.DB.
func (s *StateStore) Close() error { return nil }

// execer is satisfied by both *pgxpool.Pool and pgx.Tx.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func writeState(ctx context.Context, q execer, state *models.State) error {
	doc, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	query := `
		INSERT INTO event_state (id, doc, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()`
	if _, err := q.Exec(ctx, query, stateRowID, doc); err != nil {
		return fmt.Errorf("upsert state: %w", err)
	}
	return nil
}

func scanState(row pgx.Row) (*models.State, error) {
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.NewState(), nil
		}
		return nil, fmt.Errorf("select state: %w", err)
	}
	state := models.NewState()
	if err := json.Unmarshal(raw, state); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	state.Normalize()
	return state, nil
}
