package planner

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lalith-99/eventboard/internal/models"
)

type ReminderInput struct {
	Message string     `json:"message"`
	Date    *time.Time `json:"date"`
}

func (s *Service) ListReminders(ctx context.Context) ([]models.Reminder, error) {
	var out []models.Reminder
	err := s.store.View(ctx, func(st *models.State) error {
		out = st.Reminders
		return nil
	})
	return out, err
}

// AddReminder stores a note. Date defaults to now.
func (s *Service) AddReminder(ctx context.Context, in ReminderInput) (*models.Reminder, error) {
	if strings.TrimSpace(in.Message) == "" {
		return nil, invalid(models.EntityReminder, "message", "is required")
	}
	r := models.Reminder{
		ID:      s.newID(),
		Message: in.Message,
		Date:    s.now().UTC(),
	}
	if in.Date != nil && !in.Date.IsZero() {
		r.Date = in.Date.UTC()
	}

	err := s.store.Mutate(ctx, func(st *models.State) error {
		st.Reminders = append(st.Reminders, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, models.EntityReminder, models.ActionCreated, r.ID)
	return &r, nil
}

func (s *Service) RemoveReminder(ctx context.Context, id uuid.UUID) error {
	err := s.store.Mutate(ctx, func(st *models.State) error {
		for i := range st.Reminders {
			if st.Reminders[i].ID == id {
				st.Reminders = append(st.Reminders[:i], st.Reminders[i+1:]...)
				return nil
			}
		}
		return notFound(models.EntityReminder, id)
	})
	if err != nil {
		return err
	}
	s.publish(ctx, models.EntityReminder, models.ActionDeleted, id)
	return nil
}
