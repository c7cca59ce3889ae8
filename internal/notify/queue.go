package notify

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finflow/internal/ledger"
)

// Event is one change as seen by the notification feed.
type Event struct {
	Seq      uint64
	Table    string
	Action   ledger.Action
	RecordID uuid.UUID
	At       time.Time
}

// Description is the feed headline, e.g. "New INSERT in cheques".
func (e Event) Description() string {
	return fmt.Sprintf("New %s in %s", e.Action, e.Table)
}

// Queue is a fixed-capacity FIFO of events. When full, Push drops the oldest event.
// Readers take events out explicitly with Drain.
type Queue struct {
	mu      sync.Mutex
	buf     []Event
	head    int // index of the oldest event
	size    int
	seq     uint64
	dropped uint64
}

func NewQueue(capacity int) *Queue {
	if capacity < 1 {
		capacity = 1
	}

	return &Queue{buf: make([]Event, capacity)}
}

// Push appends e, assigning its sequence number. It reports whether an older event was dropped.
func (q *Queue) Push(e Event) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.seq++
	e.Seq = q.seq

	dropped := false
	if q.size == len(q.buf) {
		q.head = (q.head + 1) % len(q.buf)
		q.size--
		q.dropped++
		dropped = true
	}

	q.buf[(q.head+q.size)%len(q.buf)] = e
	q.size++

	return dropped
}

// Peek returns up to limit events, newest first, without removing them.
// A limit <= 0 means all.
func (q *Queue) Peek(limit int) []Event {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.newest(limit)
}

// Drain removes and returns up to limit events, newest first. Older events stay queued.
// A limit <= 0 drains everything.
func (q *Queue) Drain(limit int) []Event {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := q.newest(limit)
	q.size -= len(out)

	return out
}

func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.head, q.size = 0, 0
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.size
}

// Dropped is the number of events lost to overflow since creation.
func (q *Queue) Dropped() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.dropped
}

func (q *Queue) newest(limit int) []Event {
	n := q.size
	if limit > 0 && limit < n {
		n = limit
	}

	out := make([]Event, n)
	for i := range n {
		out[i] = q.buf[(q.head+q.size-1-i)%len(q.buf)]
	}

	return out
}
