package planner

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/lalith-99/eventboard/internal/models"
	"github.com/lalith-99/eventboard/internal/repository"
	"github.com/lalith-99/eventboard/internal/repository/memory"
)

type recordingPublisher struct {
	mu      sync.Mutex
	changes []models.Change
}

func (p *recordingPublisher) Publish(_ context.Context, c models.Change) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changes = append(p.changes, c)
}

func (p *recordingPublisher) last() models.Change {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.changes[len(p.changes)-1]
}

func newTestService(t *testing.T, opts Options) (*Service, *recordingPublisher) {
	t.Helper()
	pub := &recordingPublisher{}
	store := repository.NewSerializer(memory.NewStateStore())
	return New(store, pub, nil, opts), pub
}

func mustAddGuest(t *testing.T, s *Service, in GuestInput) *models.Guest {
	t.Helper()
	g, _, err := s.AddOrUpdateGuest(context.Background(), in)
	if err != nil {
		t.Fatalf("AddOrUpdateGuest(%q): %v", in.Name, err)
	}
	return g
}

func mustAddTable(t *testing.T, s *Service, in TableInput) *models.Table {
	t.Helper()
	tbl, err := s.AddTable(context.Background(), in)
	if err != nil {
		t.Fatalf("AddTable(%q): %v", in.Name, err)
	}
	return tbl
}

func mustGetGuest(t *testing.T, s *Service, id uuid.UUID) *models.Guest {
	t.Helper()
	g, err := s.GetGuest(context.Background(), id)
	if err != nil {
		t.Fatalf("GetGuest(%s): %v", id, err)
	}
	return g
}

func mustGetTable(t *testing.T, s *Service, id uuid.UUID) *models.Table {
	t.Helper()
	tbl, err := s.GetTable(context.Background(), id)
	if err != nil {
		t.Fatalf("GetTable(%s): %v", id, err)
	}
	return tbl
}

func TestConcurrentMergeByName_KeepsOneRecord(t *testing.T) {
	s, _ := newTestService(t, Options{})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := s.AddOrUpdateGuest(ctx, GuestInput{Name: "Cleo", Confirmed: true}); err != nil {
				t.Errorf("AddOrUpdateGuest: %v", err)
			}
		}()
	}
	wg.Wait()

	guests, err := s.ListGuests(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(guests) != 1 {
		t.Fatalf("got %d guest records, want 1", len(guests))
	}
}
