package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Action is the kind of mutation a Change describes.
type Action string

const (
	ActionInsert Action = "INSERT"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

// Change describes one committed mutation of a transaction table.
type Change struct {
	Table    string    `json:"table"`
	Action   Action    `json:"action"`
	RecordID uuid.UUID `json:"record_id"`
	UserID   uuid.UUID `json:"user_id"`
	At       time.Time `json:"at"`
}

// Notifier receives changes after they are committed. Implementations must not
// block on I/O; a slow consumer should buffer or drop.
type Notifier interface {
	Notify(ctx context.Context, c Change)
}

// NopNotifier discards every change.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, Change) {}

// NewChange stamps a change for r at the given time.
func NewChange(r Record, action Action, at time.Time) Change {
	e := r.Common()

	return Change{
		Table:    r.Kind().Table(),
		Action:   action,
		RecordID: e.ID,
		UserID:   e.UserID,
		At:       at,
	}
}
