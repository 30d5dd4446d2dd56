package planner

import (
	"context"

	"github.com/lalith-99/eventboard/internal/models"
)

// Overview is the read-only view handed out through share links.
type Overview struct {
	Guests []models.Guest `json:"guests"`
	Tables []models.Table `json:"tables"`
}

// Overview reads guests (folded) and tables from one snapshot.
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	var out Overview
	err := s.store.View(ctx, func(st *models.State) error {
		out.Guests = DedupeGuests(st.Guests)
		out.Tables = st.Tables
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
