package amqp

import (
	"context"
	"log/slog"
	"sync"

	"github.com/MrJamesThe3rd/finflow/internal/ledger"
)

const publishBuffer = 256

type Publisher interface {
	Publish(ctx context.Context, c ledger.Change) error
}

type pending struct {
	ctx    context.Context
	change ledger.Change
}

// Notifier publishes changes to the broker from a background goroutine so
// Notify never waits on the network. When publishing fails, or the buffer is
// full, the change goes to the local fallback so this instance's users still see it.
type Notifier struct {
	pub      Publisher
	fallback ledger.Notifier

	mu     sync.RWMutex
	closed bool
	queue  chan pending
	done   chan struct{}
}

func NewNotifier(pub Publisher, fallback ledger.Notifier) *Notifier {
	return newNotifier(pub, fallback, publishBuffer)
}

func newNotifier(pub Publisher, fallback ledger.Notifier, buffer int) *Notifier {
	if fallback == nil {
		fallback = ledger.NopNotifier{}
	}

	n := &Notifier{
		pub:      pub,
		fallback: fallback,
		queue:    make(chan pending, buffer),
		done:     make(chan struct{}),
	}

	go n.run()

	return n
}

func (n *Notifier) Notify(ctx context.Context, c ledger.Change) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if n.closed {
		n.fallback.Notify(ctx, c)
		return
	}

	// Detached so a cancelled request does not lose a committed change.
	select {
	case n.queue <- pending{ctx: context.WithoutCancel(ctx), change: c}:
	default:
		slog.WarnContext(ctx, "Publish buffer full, delivering locally",
			"table", c.Table,
			"action", c.Action)
		n.fallback.Notify(ctx, c)
	}
}

// Close stops accepting changes and waits for the buffered ones to be published.
func (n *Notifier) Close() {
	n.mu.Lock()
	if !n.closed {
		n.closed = true
		close(n.queue)
	}
	n.mu.Unlock()

	<-n.done
}

func (n *Notifier) run() {
	defer close(n.done)

	for p := range n.queue {
		if err := n.pub.Publish(p.ctx, p.change); err != nil {
			slog.WarnContext(p.ctx, "Publishing change failed, delivering locally",
				"table", p.change.Table,
				"action", p.change.Action,
				"error", err)
			n.fallback.Notify(p.ctx, p.change)
		}
	}
}
