package planner

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/lalith-99/eventboard/internal/models"
)

func TestAddOrUpdateGuest_MergesByName(t *testing.T) {
	s, pub := newTestService(t, Options{})
	ctx := context.Background()

	first, created, err := s.AddOrUpdateGuest(ctx, GuestInput{Name: "Bo", Confirmed: false})
	if err != nil {
		t.Fatal(err)
	}
	if !created {
		t.Error("first add should create")
	}
	if first.Status != models.StatusTentative {
		t.Errorf("Status = %s, want Tentative", first.Status)
	}

	second, created, err := s.AddOrUpdateGuest(ctx, GuestInput{Name: "Bo", Confirmed: true})
	if err != nil {
		t.Fatal(err)
	}
	if created {
		t.Error("second add should merge")
	}
	if second.ID != first.ID {
		t.Errorf("merged id = %s, want %s", second.ID, first.ID)
	}
	if second.Status != models.StatusConfirmed {
		t.Errorf("Status = %s, want Confirmed", second.Status)
	}
	if got := pub.last(); got.Action != models.ActionUpdated || got.ID != first.ID {
		t.Errorf("last change = %+v, want guest updated", got)
	}

	guests, _ := s.ListGuests(ctx)
	if len(guests) != 1 {
		t.Fatalf("stored %d records, want 1", len(guests))
	}
}

func TestAddOrUpdateGuest_NameIsCaseSensitive(t *testing.T) {
	s, _ := newTestService(t, Options{})
	a := mustAddGuest(t, s, GuestInput{Name: "ana"})
	b := mustAddGuest(t, s, GuestInput{Name: "Ana"})
	if a.ID == b.ID {
		t.Fatal("names differing in case must not merge")
	}
}

func TestAddOrUpdateGuest_TruthyOverwrite(t *testing.T) {
	s, _ := newTestService(t, Options{})
	orig := mustAddGuest(t, s, GuestInput{
		Name:          "Dara",
		ContactNumber: "555-0100",
		Instagram:     "@dara",
		Gender:        "F",
		Age:           models.AgeOf(29),
	})

	merged := mustAddGuest(t, s, GuestInput{
		Name:      "Dara",
		Instagram: "@dara.new",
		Age:       models.AgeOf(0),
	})

	if merged.ContactNumber != "555-0100" {
		t.Errorf("ContactNumber = %q, empty input must not erase", merged.ContactNumber)
	}
	if merged.Instagram != "@dara.new" {
		t.Errorf("Instagram = %q, want overwrite", merged.Instagram)
	}
	if merged.Gender != "F" {
		t.Errorf("Gender = %q", merged.Gender)
	}
	if merged.Age == nil || *merged.Age != 29 {
		t.Errorf("Age = %v, zero must not overwrite", merged.Age)
	}
	if merged.Status != models.StatusTentative {
		t.Errorf("Status = %s, status is always replaced", merged.Status)
	}
	if merged.ID != orig.ID {
		t.Error("merge changed the id")
	}
}

func TestAddOrUpdateGuest_KeepsTableOnMerge(t *testing.T) {
	s, _ := newTestService(t, Options{})
	g := mustAddGuest(t, s, GuestInput{Name: "Eli"})
	mustAddTable(t, s, TableInput{Name: "T1", Guests: []uuid.UUID{g.ID}})

	merged := mustAddGuest(t, s, GuestInput{Name: "Eli", Confirmed: true})
	if merged.Table != "T1" {
		t.Fatalf("Table = %q, merge must keep seating", merged.Table)
	}
}

func TestAddOrUpdateGuest_ExplicitStatusWins(t *testing.T) {
	s, _ := newTestService(t, Options{})
	g := mustAddGuest(t, s, GuestInput{Name: "Fay", Confirmed: true, Status: models.StatusTentative})
	if g.Status != models.StatusTentative {
		t.Fatalf("Status = %s, want Tentative", g.Status)
	}
}

func TestAddOrUpdateGuest_Validation(t *testing.T) {
	tt := []struct {
		name  string
		in    GuestInput
		field string
	}{
		{name: "missing name", in: GuestInput{}, field: "name"},
		{name: "blank name", in: GuestInput{Name: "   "}, field: "name"},
		{name: "unknown status", in: GuestInput{Name: "Gus", Status: "Maybe"}, field: "status"},
		{name: "negative age", in: GuestInput{Name: "Gus", Age: models.AgeOf(-1)}, field: "age"},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			s, _ := newTestService(t, Options{})
			_, _, err := s.AddOrUpdateGuest(context.Background(), tc.in)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("err = %v, want validation error", err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Field != tc.field {
				t.Fatalf("err = %#v, want field %q", err, tc.field)
			}
			guests, _ := s.ListGuests(context.Background())
			if len(guests) != 0 {
				t.Error("nothing should be stored")
			}
		})
	}
}

func TestUpdateGuest(t *testing.T) {
	s, _ := newTestService(t, Options{})
	ctx := context.Background()
	g := mustAddGuest(t, s, GuestInput{Name: "Hal", ContactNumber: "1", Age: models.AgeOf(40)})

	updated, err := s.UpdateGuest(ctx, g.ID, GuestPatch{
		ContactNumber: models.Some(""),
		Status:        models.Some(models.StatusConfirmed),
		Age:           models.Null[models.Age](),
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.ContactNumber != "" {
		t.Errorf("ContactNumber = %q, a present empty value should clear", updated.ContactNumber)
	}
	if updated.Status != models.StatusConfirmed {
		t.Errorf("Status = %s", updated.Status)
	}
	if updated.Age != nil {
		t.Errorf("Age = %v, null should clear", *updated.Age)
	}
	if updated.Name != "Hal" {
		t.Errorf("Name = %q, absent field must stay", updated.Name)
	}
}

func TestUpdateGuest_Errors(t *testing.T) {
	s, _ := newTestService(t, Options{})
	ctx := context.Background()
	g := mustAddGuest(t, s, GuestInput{Name: "Ivy"})

	if _, err := s.UpdateGuest(ctx, uuid.New(), GuestPatch{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown id: err = %v, want not found", err)
	}
	if _, err := s.UpdateGuest(ctx, g.ID, GuestPatch{Name: models.Some("")}); !errors.Is(err, ErrValidation) {
		t.Errorf("empty name: err = %v, want validation", err)
	}
	if _, err := s.UpdateGuest(ctx, g.ID, GuestPatch{Status: models.Some(models.GuestStatus("nope"))}); !errors.Is(err, ErrValidation) {
		t.Errorf("bad status: err = %v, want validation", err)
	}
	if _, err := s.UpdateGuest(ctx, g.ID, GuestPatch{Age: models.Some(models.AgeOf(-2))}); !errors.Is(err, ErrValidation) {
		t.Errorf("negative age: err = %v, want validation", err)
	}
}

// The edit form posts the whole record with every input as a string.
func TestUpdateGuest_FormEncodedAge(t *testing.T) {
	tt := []struct {
		name    string
		body    string
		wantAge int // 0 means cleared
	}{
		{name: "numeric string", body: `{"name":"Jo","age":"31"}`, wantAge: 31},
		{name: "empty string clears", body: `{"name":"Jo","age":""}`},
		{name: "null clears", body: `{"name":"Jo","age":null}`},
		{name: "number", body: `{"name":"Jo","age":44}`, wantAge: 44},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			s, _ := newTestService(t, Options{})
			g := mustAddGuest(t, s, GuestInput{Name: "Jo", Age: models.AgeOf(20)})

			var p GuestPatch
			if err := json.Unmarshal([]byte(tc.body), &p); err != nil {
				t.Fatalf("decode: %v", err)
			}
			updated, err := s.UpdateGuest(context.Background(), g.ID, p)
			if err != nil {
				t.Fatal(err)
			}
			if got := models.AgeFromPtr(updated.Age).Value; got != tc.wantAge {
				t.Errorf("Age = %d, want %d", got, tc.wantAge)
			}
		})
	}
}

func TestRemoveGuest_StripsFromTables(t *testing.T) {
	s, pub := newTestService(t, Options{})
	ctx := context.Background()
	a := mustAddGuest(t, s, GuestInput{Name: "Jo"})
	b := mustAddGuest(t, s, GuestInput{Name: "Kai"})
	tbl := mustAddTable(t, s, TableInput{Name: "T1", Guests: []uuid.UUID{a.ID, b.ID}})

	if err := s.RemoveGuest(ctx, a.ID); err != nil {
		t.Fatal(err)
	}
	if got := pub.last(); got.Entity != models.EntityGuest || got.Action != models.ActionDeleted {
		t.Errorf("last change = %+v", got)
	}

	tables, _ := s.ListTables(ctx)
	for _, tt := range tables {
		if tt.HasGuest(a.ID) {
			t.Fatalf("table %s still lists removed guest", tt.Name)
		}
	}
	if got := mustGetTable(t, s, tbl.ID); len(got.Guests) != 1 || got.Guests[0] != b.ID {
		t.Errorf("Guests = %v, want only %s", got.Guests, b.ID)
	}

	if err := s.RemoveGuest(ctx, a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second remove: err = %v, want not found", err)
	}
}

func TestListGuestsDeduped(t *testing.T) {
	s, _ := newTestService(t, Options{})
	mustAddGuest(t, s, GuestInput{Name: "Lu", Instagram: "@lu"})
	mustAddGuest(t, s, GuestInput{Name: "Mo"})

	guests, err := s.ListGuestsDeduped(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(guests) != 2 {
		t.Fatalf("got %d guests, want 2", len(guests))
	}
}
