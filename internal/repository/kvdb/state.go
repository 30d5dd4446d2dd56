package kvdb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
	"go.opentelemetry.io/otel/trace"

	"github.com/lalith-99/eventboard/internal/models"
)

const bucketState = "event_state"

var (
	keyGuests    = []byte("guests")
	keyTables    = []byte("tables")
	keyReminders = []byte("reminders")
)

// StateStore keeps each collection as one JSON value in a bbolt bucket.
// A Write is a single bolt transaction, so readers see all three collections
// from the same version.
type StateStore struct {
	db    *bolt.DB
	owned bool
}

// Open opens (or creates) the bolt file at path. The returned store owns the
// handle and closes it on Close.
func Open(path string) (*StateStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt %s: %w", path, err)
	}
	s, err := NewStateStore(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}
	s.owned = true
	return s, nil
}

func NewStateStore(db *bolt.DB) (*StateStore, error) {
	return &StateStore{db: db}, db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketState))
		return err
	})
}

func (s *StateStore) Read(ctx context.Context) (*models.State, error) {
	var span trace.Span
	_, span = tracer.Start(ctx, "Read")
	defer span.End()

	state := models.NewState()
	span.AddEvent("View bucket")
	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketState))
		if err := getJSON(bucket, keyGuests, &state.Guests); err != nil {
			return err
		}
		if err := getJSON(bucket, keyTables, &state.Tables); err != nil {
			return err
		}
		return getJSON(bucket, keyReminders, &state.Reminders)
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	state.Normalize()
	return state, nil
}

func (s *StateStore) Write(ctx context.Context, state *models.State) error {
	var span trace.Span
	_, span = tracer.Start(ctx, "Write")
	defer span.End()

	span.AddEvent("Update bucket")
	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketState))
		if err := putJSON(bucket, keyGuests, state.Guests); err != nil {
			return err
		}
		if err := putJSON(bucket, keyTables, state.Tables); err != nil {
			return err
		}
		return putJSON(bucket, keyReminders, state.Reminders)
	})
	if err != nil {
		span.RecordError(err)
	}
	return err
}

// Close releases the bolt handle when the store opened it itself.
func (s *StateStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}

func getJSON(bucket *bolt.Bucket, key []byte, v any) error {
	raw := bucket.Get(key)
	if raw == nil {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func putJSON(bucket *bolt.Bucket, key []byte, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return bucket.Put(key, raw)
}
