package planner

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lalith-99/eventboard/internal/models"
)

// GuestInput is the add-or-merge request. Empty strings and a missing or zero
// age count as "not provided" when merging into an existing guest.
//
// Why is Age a models.Age and not *int? The add form posts whatever its
// inputs hold, so "31" and "" show up as often as 31. See models.Age.
type GuestInput struct {
	Name          string             `json:"name"`
	ContactNumber string             `json:"contactNumber"`
	Instagram     string             `json:"instagram"`
	Confirmed     bool               `json:"confirmed"`
	Status        models.GuestStatus `json:"status"`
	Gender        string             `json:"gender"`
	Age           models.Age         `json:"age"`
}

// status resolves the requested status. An explicit status wins over the
// confirmed flag.
func (in GuestInput) status() (models.GuestStatus, error) {
	if in.Status == "" {
		return models.StatusFromConfirmed(in.Confirmed), nil
	}
	if !in.Status.Valid() {
		return "", invalid(models.EntityGuest, "status", "must be Confirmed or Tentative")
	}
	return in.Status, nil
}

// GuestPatch is a partial update. Only fields present in the request body
// are applied; an explicit null clears optional fields. For age, "" clears
// too, since that is what the edit form sends for an emptied input.
type GuestPatch struct {
	Name          models.Field[string]             `json:"name"`
	ContactNumber models.Field[string]             `json:"contactNumber"`
	Instagram     models.Field[string]             `json:"instagram"`
	Status        models.Field[models.GuestStatus] `json:"status"`
	Gender        models.Field[string]             `json:"gender"`
	Age           models.Field[models.Age]         `json:"age"`
}

func (p GuestPatch) validate() error {
	if p.Name.Set && strings.TrimSpace(p.Name.Value) == "" {
		return invalid(models.EntityGuest, "name", "must not be empty")
	}
	if p.Status.Set && !p.Status.Value.Valid() {
		return invalid(models.EntityGuest, "status", "must be Confirmed or Tentative")
	}
	if p.Age.Present() && p.Age.Value.Valid && p.Age.Value.Value < 0 {
		return invalid(models.EntityGuest, "age", "must not be negative")
	}
	return nil
}

// AddOrUpdateGuest registers a guest, merging into an existing record with
// exactly the same name (case-sensitive). The bool result reports whether a
// new record was created.
//
// Two different people with the same name collapse into one record.
func (s *Service) AddOrUpdateGuest(ctx context.Context, in GuestInput) (*models.Guest, bool, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, false, invalid(models.EntityGuest, "name", "is required")
	}
	status, err := in.status()
	if err != nil {
		return nil, false, err
	}
	if in.Age.Valid && in.Age.Value < 0 {
		return nil, false, invalid(models.EntityGuest, "age", "must not be negative")
	}

	var (
		out     models.Guest
		created bool
	)
	err = s.store.Mutate(ctx, func(st *models.State) error {
		if g := st.FindGuestByName(in.Name); g != nil {
			mergeGuest(g, in, status)
			out = *g
			return nil
		}

		g := models.Guest{
			ID:            s.newID(),
			Name:          in.Name,
			ContactNumber: in.ContactNumber,
			Instagram:     in.Instagram,
			Status:        status,
			Gender:        in.Gender,
		}
		if truthyAge(in.Age) {
			g.Age = in.Age.Ptr()
		}
		st.Guests = append(st.Guests, g)
		out = g
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if created {
		s.logger.Debug("guest created", zap.String("guest_id", out.ID.String()))
		s.publish(ctx, models.EntityGuest, models.ActionCreated, out.ID)
	} else {
		s.logger.Debug("guest merged by name", zap.String("guest_id", out.ID.String()))
		s.publish(ctx, models.EntityGuest, models.ActionUpdated, out.ID)
	}
	return &out, created, nil
}

// mergeGuest applies the truthy-overwrite rule: provided values replace
// stored ones, empty values never erase. Status is always replaced.
func mergeGuest(g *models.Guest, in GuestInput, status models.GuestStatus) {
	if in.ContactNumber != "" {
		g.ContactNumber = in.ContactNumber
	}
	if in.Instagram != "" {
		g.Instagram = in.Instagram
	}
	g.Status = status
	if in.Gender != "" {
		g.Gender = in.Gender
	}
	if truthyAge(in.Age) {
		g.Age = in.Age.Ptr()
	}
}

func truthyAge(age models.Age) bool {
	return age.Valid && age.Value != 0
}

// UpdateGuest applies a partial update. It never touches table seating:
// Guest.Table is owned by the table operations.
func (s *Service) UpdateGuest(ctx context.Context, id uuid.UUID, p GuestPatch) (*models.Guest, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	var out models.Guest
	err := s.store.Mutate(ctx, func(st *models.State) error {
		g := st.FindGuest(id)
		if g == nil {
			return notFound(models.EntityGuest, id)
		}
		if p.Name.Set {
			g.Name = p.Name.Value
		}
		if p.ContactNumber.Set {
			g.ContactNumber = p.ContactNumber.Value
		}
		if p.Instagram.Set {
			g.Instagram = p.Instagram.Value
		}
		if p.Status.Set {
			g.Status = p.Status.Value
		}
		if p.Gender.Set {
			g.Gender = p.Gender.Value
		}
		if p.Age.Set {
			// null and "" both decode to an invalid Age, which clears.
			g.Age = p.Age.Value.Ptr()
		}
		out = *g
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, models.EntityGuest, models.ActionUpdated, id)
	return &out, nil
}

// RemoveGuest deletes the guest and strips its id from every table.
func (s *Service) RemoveGuest(ctx context.Context, id uuid.UUID) error {
	var detached int
	err := s.store.Mutate(ctx, func(st *models.State) error {
		idx := -1
		for i := range st.Guests {
			if st.Guests[i].ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return notFound(models.EntityGuest, id)
		}
		st.Guests = append(st.Guests[:idx], st.Guests[idx+1:]...)

		for i := range st.Tables {
			if st.Tables[i].RemoveGuest(id) {
				detached++
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Debug("guest removed",
		zap.String("guest_id", id.String()),
		zap.Int("tables_detached", detached),
	)
	s.publish(ctx, models.EntityGuest, models.ActionDeleted, id)
	return nil
}

// GetGuest returns one guest by id.
func (s *Service) GetGuest(ctx context.Context, id uuid.UUID) (*models.Guest, error) {
	var out models.Guest
	err := s.store.View(ctx, func(st *models.State) error {
		g := st.FindGuest(id)
		if g == nil {
			return notFound(models.EntityGuest, id)
		}
		out = *g
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListGuests returns every stored guest record, duplicates included.
func (s *Service) ListGuests(ctx context.Context) ([]models.Guest, error) {
	var out []models.Guest
	err := s.store.View(ctx, func(st *models.State) error {
		out = st.Guests
		return nil
	})
	return out, err
}

// ListGuestsDeduped returns the guest list with duplicate (name, instagram)
// pairs folded, see DedupeGuests.
func (s *Service) ListGuestsDeduped(ctx context.Context) ([]models.Guest, error) {
	guests, err := s.ListGuests(ctx)
	if err != nil {
		return nil, err
	}
	return DedupeGuests(guests), nil
}
