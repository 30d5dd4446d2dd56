package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/lalith-99/eventboard/internal/models"
)

func TestStateStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "data.json")

	s, err := NewStateStore(path)
	if err != nil {
		t.Fatal(err)
	}

	empty, err := s.Read(ctx)
	if err != nil {
		t.Fatalf("read missing file: %v", err)
	}
	if len(empty.Guests) != 0 || empty.Tables == nil {
		t.Fatalf("missing file should read as empty state, got %+v", empty)
	}

	gid := uuid.New()
	st := models.NewState()
	st.Guests = append(st.Guests, models.Guest{ID: gid, Name: "Ana", Status: models.StatusConfirmed, Table: "T1"})
	st.Tables = append(st.Tables, models.Table{ID: uuid.New(), Name: "T1", Seats: 6, Type: models.TableVIP, Guests: []uuid.UUID{gid}})
	if err := s.Write(ctx, st); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewStateStore(path)
	if err != nil {
		t.Fatal(err)
	}
	got, err := reopened.Read(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Guests) != 1 || got.Guests[0].Table != "T1" || got.Guests[0].ID != gid {
		t.Errorf("Guests = %+v", got.Guests)
	}
	if len(got.Tables) != 1 || !got.Tables[0].HasGuest(gid) {
		t.Errorf("Tables = %+v", got.Tables)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, temp files left behind", len(entries))
	}
}

func TestStateStore_LegacyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	// Documents without a reminders key and with a table missing its guests.
	doc := `{"guests": [], "tables": [{"id": "0192a3c4-0000-7000-8000-000000000001", "name": "T1", "seats": 6, "type": "Standard"}]}`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	s, err := NewStateStore(path)
	if err != nil {
		t.Fatal(err)
	}
	got, err := s.Read(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got.Reminders == nil || got.Tables[0].Guests == nil {
		t.Fatalf("collections not normalized: %+v", got)
	}
}

func TestNewStateStore_Errors(t *testing.T) {
	if _, err := NewStateStore(""); err == nil {
		t.Error("empty filename should fail")
	}

	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewStateStore(path); err == nil {
		t.Error("corrupt file should fail at open")
	}
}
