package amqp_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finflow/internal/amqp"
	"github.com/MrJamesThe3rd/finflow/internal/ledger"
	"github.com/MrJamesThe3rd/finflow/internal/notify"
)

type ackRecorder struct {
	acked  []uint64
	nacked []uint64
}

func (a *ackRecorder) Ack(tag uint64, _ bool) error {
	a.acked = append(a.acked, tag)
	return nil
}

func (a *ackRecorder) Nack(tag uint64, _, _ bool) error {
	a.nacked = append(a.nacked, tag)
	return nil
}

func (a *ackRecorder) Reject(tag uint64, _ bool) error {
	a.nacked = append(a.nacked, tag)
	return nil
}

func sampleChange() ledger.Change {
	return ledger.Change{
		Table:    "cheques",
		Action:   ledger.ActionUpdate,
		RecordID: uuid.New(),
		UserID:   uuid.New(),
		At:       time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC),
	}
}

func TestDecode(t *testing.T) {
	c := sampleChange()
	body, err := amqp.Encode(c)
	require.NoError(t, err)

	got, err := amqp.Decode(body)
	require.NoError(t, err)
	assert.Equal(t, c, got)

	tests := []struct {
		name string
		body string
	}{
		{name: "NotJSON", body: "hello"},
		{name: "NoUser", body: `{"table":"cheques","action":"INSERT"}`},
		{name: "BadAction", body: `{"table":"cheques","action":"TRUNCATE","user_id":"` + uuid.NewString() + `"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := amqp.Decode([]byte(tt.body))
			assert.Error(t, err)
		})
	}
}

func TestHandle(t *testing.T) {
	hub := notify.NewHub(10)
	acks := &ackRecorder{}
	c := sampleChange()
	body, err := amqp.Encode(c)
	require.NoError(t, err)

	amqp.Handle(context.Background(), amqp091.Delivery{Acknowledger: acks, DeliveryTag: 1, Body: body}, hub)
	amqp.Handle(context.Background(), amqp091.Delivery{Acknowledger: acks, DeliveryTag: 2, Body: []byte("{")}, hub)

	assert.Equal(t, []uint64{1}, acks.acked)
	assert.Equal(t, []uint64{2}, acks.nacked)

	events := hub.Peek(c.UserID, 0)
	require.Len(t, events, 1)
	assert.Equal(t, "New UPDATE in cheques", events[0].Description())
	assert.Equal(t, c.RecordID, events[0].RecordID)
}

type fakePublisher struct {
	err  error
	sent []ledger.Change
	ctx  context.Context
}

func (p *fakePublisher) Publish(ctx context.Context, c ledger.Change) error {
	p.ctx = ctx
	if p.err != nil {
		return p.err
	}

	p.sent = append(p.sent, c)

	return nil
}

type blockingPublisher struct {
	started chan struct{}
	release chan struct{}
	sent    []ledger.Change
}

func (p *blockingPublisher) Publish(_ context.Context, c ledger.Change) error {
	p.started <- struct{}{}
	<-p.release
	p.sent = append(p.sent, c)

	return nil
}

func TestNotifier(t *testing.T) {
	t.Run("Publishes", func(t *testing.T) {
		pub := &fakePublisher{}
		hub := notify.NewHub(10)
		c := sampleChange()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		n := amqp.NewNotifier(pub, hub)
		n.Notify(ctx, c)
		n.Close()

		assert.Equal(t, []ledger.Change{c}, pub.sent)
		assert.NoError(t, pub.ctx.Err())

		pending, _ := hub.Stats(c.UserID)
		assert.Zero(t, pending)
	})

	t.Run("FallsBackLocally", func(t *testing.T) {
		pub := &fakePublisher{err: errors.New("channel closed")}
		hub := notify.NewHub(10)
		c := sampleChange()

		n := amqp.NewNotifier(pub, hub)
		n.Notify(context.Background(), c)
		n.Close()

		pending, _ := hub.Stats(c.UserID)
		assert.Equal(t, 1, pending)
	})

	t.Run("NilFallback", func(t *testing.T) {
		pub := &fakePublisher{err: errors.New("channel closed")}
		assert.NotPanics(t, func() {
			n := amqp.NewNotifier(pub, nil)
			n.Notify(context.Background(), sampleChange())
			n.Close()
		})
	})

	t.Run("DoesNotWaitOnBroker", func(t *testing.T) {
		pub := &blockingPublisher{started: make(chan struct{}, 4), release: make(chan struct{})}
		hub := notify.NewHub(10)
		n := amqp.NewNotifierWithBuffer(pub, hub, 1)

		first, second, third := sampleChange(), sampleChange(), sampleChange()

		n.Notify(context.Background(), first)
		<-pub.started

		returned := make(chan struct{})
		go func() {
			n.Notify(context.Background(), second)
			n.Notify(context.Background(), third)
			close(returned)
		}()

		select {
		case <-returned:
		case <-time.After(time.Second):
			t.Fatal("Notify blocked on a stalled publisher")
		}

		pending, _ := hub.Stats(third.UserID)
		assert.Equal(t, 1, pending, "overflow is delivered locally")

		close(pub.release)
		n.Close()

		assert.Equal(t, []ledger.Change{first, second}, pub.sent)

		pending, _ = hub.Stats(second.UserID)
		assert.Zero(t, pending)
	})

	t.Run("AfterClose", func(t *testing.T) {
		pub := &fakePublisher{}
		hub := notify.NewHub(10)
		c := sampleChange()

		n := amqp.NewNotifier(pub, hub)
		n.Close()
		n.Close()
		n.Notify(context.Background(), c)

		assert.Empty(t, pub.sent)

		pending, _ := hub.Stats(c.UserID)
		assert.Equal(t, 1, pending)
	})
}
