// Package jsonfile stores the event state as one indented JSON document on
// disk, in the data.json shape the dashboard reads:
//
//	{"guests": [...], "tables": [...], "reminders": [...]}
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/lalith-99/eventboard/internal/models"
)

// StateStore is safe for concurrent use within one process. Two processes
// pointing at the same file will overwrite each other.
type StateStore struct {
	filename string
	mu       sync.RWMutex
}

// NewStateStore prepares a store for filename. The file is created on first
// write; a missing file reads as an empty state.
func NewStateStore(filename string) (*StateStore, error) {
	if filename == "" {
		return nil, errors.New("jsonfile: empty filename")
	}
	s := &StateStore{filename: filename}

	// Fail early on a corrupt file instead of on the first request.
	if _, err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *StateStore) Read(ctx context.Context) (*models.State, error) {
	var span trace.Span
	_, span = tracer.Start(ctx, "Read")
	defer span.End()

	span.AddEvent("RLock")
	s.mu.RLock()
	defer span.AddEvent("RUnlock")
	defer s.mu.RUnlock()

	state, err := s.load()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return state, nil
}

func (s *StateStore) Write(ctx context.Context, state *models.State) error {
	var span trace.Span
	_, span = tracer.Start(ctx, "Write")
	defer span.End()

	span.AddEvent("Lock")
	s.mu.Lock()
	defer span.AddEvent("Unlock")
	defer s.mu.Unlock()

	if err := s.save(state); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (s *StateStore) Close() error { return nil }

func (s *StateStore) load() (*models.State, error) {
	data, err := os.ReadFile(s.filename)
	if errors.Is(err, os.ErrNotExist) {
		return models.NewState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.filename, err)
	}
	state := models.NewState()
	if len(data) == 0 {
		return state, nil
	}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.filename, err)
	}
	state.Normalize()
	return state, nil
}

// save writes to a temp file in the same directory and renames it over the
// target, so the document on disk is always complete.
func (s *StateStore) save(state *models.State) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	dir := filepath.Dir(s.filename)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.filename)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.filename); err != nil {
		return fmt.Errorf("replace %s: %w", s.filename, err)
	}
	return nil
}
