package notify

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finflow/internal/ledger"
)

// Hub keeps one bounded queue per user. It implements ledger.Notifier.
type Hub struct {
	mu       sync.Mutex
	capacity int
	queues   map[uuid.UUID]*Queue
}

func NewHub(capacity int) *Hub {
	return &Hub{
		capacity: capacity,
		queues:   make(map[uuid.UUID]*Queue),
	}
}

func (h *Hub) Notify(_ context.Context, c ledger.Change) {
	h.queue(c.UserID).Push(Event{
		Table:    c.Table,
		Action:   c.Action,
		RecordID: c.RecordID,
		At:       c.At,
	})
}

func (h *Hub) Peek(userID uuid.UUID, limit int) []Event {
	return h.queue(userID).Peek(limit)
}

func (h *Hub) Drain(userID uuid.UUID, limit int) []Event {
	return h.queue(userID).Drain(limit)
}

func (h *Hub) Clear(userID uuid.UUID) {
	h.queue(userID).Clear()
}

// Stats returns the queued count and overflow count for a user.
func (h *Hub) Stats(userID uuid.UUID) (pending int, dropped uint64) {
	q := h.queue(userID)
	return q.Len(), q.Dropped()
}

func (h *Hub) queue(userID uuid.UUID) *Queue {
	h.mu.Lock()
	defer h.mu.Unlock()

	q, ok := h.queues[userID]
	if !ok {
		q = NewQueue(h.capacity)
		h.queues[userID] = q
	}

	return q
}
