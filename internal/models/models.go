package models

import (
	"time"

	"github.com/google/uuid"
)

// GuestStatus is the confirmation state of a guest.
type GuestStatus string

const (
	StatusConfirmed GuestStatus = "Confirmed"
	StatusTentative GuestStatus = "Tentative"
)

// Valid reports whether s is one of the known statuses.
func (s GuestStatus) Valid() bool {
	return s == StatusConfirmed || s == StatusTentative
}

// StatusFromConfirmed maps the boolean form used by the add-guest form.
func StatusFromConfirmed(confirmed bool) GuestStatus {
	if confirmed {
		return StatusConfirmed
	}
	return StatusTentative
}

// TableType is the seating category of a table.
type TableType string

const (
	TableStandard TableType = "Standard"
	TableVIP      TableType = "VIP"
)

func (t TableType) Valid() bool {
	return t == TableStandard || t == TableVIP
}

// DefaultSeats is the capacity given to tables created without one.
const DefaultSeats = 6

// Guest is a person invited to the event.
//
// Table holds the NAME of the table the guest sits at, not its id. An empty
// value means unassigned. The planner keeps it in sync with Table.Guests.
//
// Why a name and not the table's id?
//   - The dashboard shows it as-is, and spreadsheets round-trip it as a
//     column. An id would need a lookup on every render and every import.
//   - Renaming a table therefore rewrites this field on its guests; see
//     planner.UpdateTable.
//   - Deleting a table leaves the old name behind unless the cascade option
//     is on. Readers must not assume the named table exists.
type Guest struct {
	ID            uuid.UUID   `json:"id"`
	Name          string      `json:"name"`
	ContactNumber string      `json:"contactNumber"`
	Instagram     string      `json:"instagram"`
	Status        GuestStatus `json:"status"`
	Gender        string      `json:"gender"`
	Age           *int        `json:"age"`
	Table         string      `json:"table,omitempty"`
}

// Assigned reports whether the guest currently has a table.
func (g *Guest) Assigned() bool {
	return g.Table != ""
}

// Table is a seating unit. Guests is a set of guest ids kept as a slice;
// order carries no meaning. Capacity is never enforced here.
type Table struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	Seats     int         `json:"seats"`
	Type      TableType   `json:"type"`
	Spending  float64     `json:"spending"`
	Confirmed bool        `json:"confirmed"`
	Guests    []uuid.UUID `json:"guests"`
}

// HasGuest reports whether id is listed at this table.
func (t *Table) HasGuest(id uuid.UUID) bool {
	for _, gid := range t.Guests {
		if gid == id {
			return true
		}
	}
	return false
}

// RemoveGuest drops every occurrence of id and reports whether anything changed.
func (t *Table) RemoveGuest(id uuid.UUID) bool {
	kept := t.Guests[:0]
	removed := false
	for _, gid := range t.Guests {
		if gid == id {
			removed = true
			continue
		}
		kept = append(kept, gid)
	}
	t.Guests = kept
	return removed
}

// Reminder is a freeform note with a timestamp. It has no relations.
type Reminder struct {
	ID      uuid.UUID `json:"id"`
	Message string    `json:"message"`
	Date    time.Time `json:"date"`
}

// State is the whole persisted document. Stores read and write it as a unit.
type State struct {
	Guests    []Guest    `json:"guests"`
	Tables    []Table    `json:"tables"`
	Reminders []Reminder `json:"reminders"`
}

// NewState returns an empty state with non-nil collections so it encodes as
// [] rather than null.
func NewState() *State {
	return &State{
		Guests:    make([]Guest, 0),
		Tables:    make([]Table, 0),
		Reminders: make([]Reminder, 0),
	}
}

// Normalize replaces nil collections with empty ones. Documents written by
// older versions may omit a collection entirely.
func (s *State) Normalize() {
	if s.Guests == nil {
		s.Guests = make([]Guest, 0)
	}
	if s.Tables == nil {
		s.Tables = make([]Table, 0)
	}
	if s.Reminders == nil {
		s.Reminders = make([]Reminder, 0)
	}
	for i := range s.Tables {
		if s.Tables[i].Guests == nil {
			s.Tables[i].Guests = make([]uuid.UUID, 0)
		}
	}
}

// Clone returns a deep copy.
func (s *State) Clone() *State {
	out := &State{
		Guests:    make([]Guest, len(s.Guests)),
		Tables:    make([]Table, len(s.Tables)),
		Reminders: make([]Reminder, len(s.Reminders)),
	}
	for i, g := range s.Guests {
		if g.Age != nil {
			age := *g.Age
			g.Age = &age
		}
		out.Guests[i] = g
	}
	for i, t := range s.Tables {
		t.Guests = append(make([]uuid.UUID, 0, len(t.Guests)), t.Guests...)
		out.Tables[i] = t
	}
	copy(out.Reminders, s.Reminders)
	return out
}

// FindGuest returns a pointer into s.Guests, or nil.
func (s *State) FindGuest(id uuid.UUID) *Guest {
	for i := range s.Guests {
		if s.Guests[i].ID == id {
			return &s.Guests[i]
		}
	}
	return nil
}

// FindGuestByName matches the name exactly (case-sensitive).
func (s *State) FindGuestByName(name string) *Guest {
	for i := range s.Guests {
		if s.Guests[i].Name == name {
			return &s.Guests[i]
		}
	}
	return nil
}

// FindTable returns a pointer into s.Tables, or nil.
func (s *State) FindTable(id uuid.UUID) *Table {
	for i := range s.Tables {
		if s.Tables[i].ID == id {
			return &s.Tables[i]
		}
	}
	return nil
}
