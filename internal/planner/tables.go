package planner

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lalith-99/eventboard/internal/models"
)

// TableInput is the create request. Zero values take the defaults:
// 6 seats, Standard, no spending, unconfirmed, empty.
type TableInput struct {
	Name      string           `json:"name"`
	Seats     int              `json:"seats"`
	Type      models.TableType `json:"type"`
	Spending  float64          `json:"spending"`
	Confirmed bool             `json:"confirmed"`
	Guests    []uuid.UUID      `json:"guests"`
}

func (in TableInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return invalid(models.EntityTable, "name", "is required")
	}
	if in.Seats < 0 {
		return invalid(models.EntityTable, "seats", "must be positive")
	}
	if in.Type != "" && !in.Type.Valid() {
		return invalid(models.EntityTable, "type", "must be Standard or VIP")
	}
	if in.Spending < 0 {
		return invalid(models.EntityTable, "spending", "must not be negative")
	}
	return nil
}

// TablePatch is a partial update. A present Guests field replaces the whole
// guest set and runs the reassignment protocol; null counts as an empty set.
type TablePatch struct {
	Name      models.Field[string]           `json:"name"`
	Seats     models.Field[int]              `json:"seats"`
	Type      models.Field[models.TableType] `json:"type"`
	Spending  models.Field[float64]          `json:"spending"`
	Confirmed models.Field[bool]             `json:"confirmed"`
	Guests    models.Field[[]uuid.UUID]      `json:"guests"`
}

func (p TablePatch) validate() error {
	if p.Name.Set && strings.TrimSpace(p.Name.Value) == "" {
		return invalid(models.EntityTable, "name", "must not be empty")
	}
	if p.Seats.Set && p.Seats.Value <= 0 {
		return invalid(models.EntityTable, "seats", "must be positive")
	}
	if p.Type.Set && !p.Type.Value.Valid() {
		return invalid(models.EntityTable, "type", "must be Standard or VIP")
	}
	if p.Spending.Set && p.Spending.Value < 0 {
		return invalid(models.EntityTable, "spending", "must not be negative")
	}
	return nil
}

// AddTable creates a table. Guests listed in the request are seated at it
// right away (their back-reference is set and they leave any other table).
func (s *Service) AddTable(ctx context.Context, in TableInput) (*models.Table, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	t := models.Table{
		ID:        s.newID(),
		Name:      in.Name,
		Seats:     in.Seats,
		Type:      in.Type,
		Spending:  in.Spending,
		Confirmed: in.Confirmed,
		Guests:    uniqueIDs(in.Guests),
	}
	if t.Seats == 0 {
		t.Seats = models.DefaultSeats
	}
	if t.Type == "" {
		t.Type = models.TableStandard
	}

	var out models.Table
	err := s.store.Mutate(ctx, func(st *models.State) error {
		st.Tables = append(st.Tables, t)
		created := &st.Tables[len(st.Tables)-1]
		seatGuests(st, created)
		out = cloneTable(created)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("table created",
		zap.String("table_id", out.ID.String()),
		zap.Int("guests", len(out.Guests)),
	)
	s.publish(ctx, models.EntityTable, models.ActionCreated, out.ID)
	return &out, nil
}

// UpdateTable applies a partial update. Scalar fields are applied first, so a
// rename in the same request is already in effect when the guest set is
// synchronized:
//
//  1. the table's guest set is replaced by p.Guests;
//  2. every listed guest that exists gets Table = (new) name and is removed
//     from other tables' lists;
//  3. every guest whose Table equals the (new) name but is not listed is
//     unassigned.
//
// A rename is also pushed to the guests currently listed at the table before
// step 1, so members dropped in the same request are unassigned by step 3
// instead of keeping the old name.
func (s *Service) UpdateTable(ctx context.Context, id uuid.UUID, p TablePatch) (*models.Table, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	var (
		out        models.Table
		unassigned int
	)
	err := s.store.Mutate(ctx, func(st *models.State) error {
		t := st.FindTable(id)
		if t == nil {
			return notFound(models.EntityTable, id)
		}

		oldName := t.Name
		if p.Name.Set {
			t.Name = p.Name.Value
		}
		if p.Seats.Set {
			t.Seats = p.Seats.Value
		}
		if p.Type.Set {
			t.Type = p.Type.Value
		}
		if p.Spending.Set {
			t.Spending = p.Spending.Value
		}
		if p.Confirmed.Set {
			t.Confirmed = p.Confirmed.Value
		}
		if t.Name != oldName {
			renameMembers(st, t, oldName)
		}

		if p.Guests.Set {
			t.Guests = uniqueIDs(p.Guests.Value)
			seatGuests(st, t)
			unassigned = unseatOthers(st, t)
		}
		out = cloneTable(t)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if p.Guests.Set {
		s.logger.Debug("table guests reassigned",
			zap.String("table_id", id.String()),
			zap.Int("seated", len(out.Guests)),
			zap.Int("unassigned", unassigned),
		)
	}
	s.publish(ctx, models.EntityTable, models.ActionUpdated, id)
	return &out, nil
}

// RemoveTable deletes a table. Guests seated there keep their Table value
// unless CascadeTableDelete is set.
func (s *Service) RemoveTable(ctx context.Context, id uuid.UUID) error {
	var cleared int
	err := s.store.Mutate(ctx, func(st *models.State) error {
		idx := -1
		for i := range st.Tables {
			if st.Tables[i].ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return notFound(models.EntityTable, id)
		}
		name := st.Tables[idx].Name
		st.Tables = append(st.Tables[:idx], st.Tables[idx+1:]...)

		if s.opts.CascadeTableDelete && !tableNameInUse(st, name) {
			for i := range st.Guests {
				if st.Guests[i].Table == name {
					st.Guests[i].Table = ""
					cleared++
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Debug("table removed",
		zap.String("table_id", id.String()),
		zap.Int("guests_cleared", cleared),
	)
	s.publish(ctx, models.EntityTable, models.ActionDeleted, id)
	return nil
}

// GetTable returns one table by id.
func (s *Service) GetTable(ctx context.Context, id uuid.UUID) (*models.Table, error) {
	var out models.Table
	err := s.store.View(ctx, func(st *models.State) error {
		t := st.FindTable(id)
		if t == nil {
			return notFound(models.EntityTable, id)
		}
		out = *t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) ListTables(ctx context.Context) ([]models.Table, error) {
	var out []models.Table
	err := s.store.View(ctx, func(st *models.State) error {
		out = st.Tables
		return nil
	})
	return out, err
}

// seatGuests points every existing guest listed at t to t's name and takes
// them off any other table, keeping a guest at one table at most.
func seatGuests(st *models.State, t *models.Table) {
	for _, gid := range t.Guests {
		if g := st.FindGuest(gid); g != nil {
			g.Table = t.Name
		}
		for i := range st.Tables {
			if st.Tables[i].ID != t.ID {
				st.Tables[i].RemoveGuest(gid)
			}
		}
	}
}

// unseatOthers clears the back-reference of guests that claim t's name but
// are not in its set. Matching is by name.
func unseatOthers(st *models.State, t *models.Table) int {
	n := 0
	for i := range st.Guests {
		g := &st.Guests[i]
		if g.Table == t.Name && !t.HasGuest(g.ID) {
			g.Table = ""
			n++
		}
	}
	return n
}

// renameMembers moves the listed guests still pointing at oldName to t's
// current name.
func renameMembers(st *models.State, t *models.Table, oldName string) {
	for _, gid := range t.Guests {
		if g := st.FindGuest(gid); g != nil && g.Table == oldName {
			g.Table = t.Name
		}
	}
}

func tableNameInUse(st *models.State, name string) bool {
	for i := range st.Tables {
		if st.Tables[i].Name == name {
			return true
		}
	}
	return false
}

// uniqueIDs drops repeated ids, keeping first occurrences. Never returns nil.
func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func cloneTable(t *models.Table) models.Table {
	out := *t
	out.Guests = append(make([]uuid.UUID, 0, len(t.Guests)), t.Guests...)
	return out
}
