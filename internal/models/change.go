package models

import (
	"time"

	"github.com/google/uuid"
)

// Entity names used in change notifications and error messages.
const (
	EntityGuest    = "guest"
	EntityTable    = "table"
	EntityReminder = "reminder"
)

type ChangeAction string

const (
	ActionCreated ChangeAction = "created"
	ActionUpdated ChangeAction = "updated"
	ActionDeleted ChangeAction = "deleted"
)

// Change describes one successful mutation. Dashboards use it to know when
// to refetch; it does not carry the new record.
type Change struct {
	Entity string       `json:"entity"`
	Action ChangeAction `json:"action"`
	ID     uuid.UUID    `json:"id"`
	At     time.Time    `json:"at"`
}
