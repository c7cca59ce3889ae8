// Package amqp fans ledger changes out to every API instance through a
// RabbitMQ fanout exchange.
package amqp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/MrJamesThe3rd/finflow/internal/ledger"
)

const publishTimeout = 5 * time.Second

type Client struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	queue    string
}

// Dial connects, declares the exchange and binds a private queue for this instance.
func Dial(url, exchange string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	c := &Client{conn: conn, channel: channel, exchange: exchange}

	if err := c.setup(); err != nil {
		c.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return c, nil
}

func (c *Client) setup() error {
	err := c.channel.ExchangeDeclare(
		c.exchange, // name
		"fanout",   // type
		true,       // durable
		false,      // auto-deleted
		false,      // internal
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	// Server-named, exclusive: each instance gets its own copy of every change.
	q, err := c.channel.QueueDeclare(
		"",    // name
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	if err := c.channel.QueueBind(q.Name, "", c.exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	c.queue = q.Name

	return nil
}

// Publish sends one change to the exchange.
func (c *Client) Publish(ctx context.Context, change ledger.Change) error {
	body, err := Encode(change)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = c.channel.PublishWithContext(
		ctx,
		c.exchange, // exchange
		"",         // routing key, ignored by fanout
		false,      // mandatory
		false,      // immediate
		amqp091.Publishing{
			ContentType: "application/json",
			Timestamp:   change.At,
			Body:        body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	return nil
}

// Consume delivers every change received on this instance's queue to sink
// until ctx is done or the channel closes.
func (c *Client) Consume(ctx context.Context, sink ledger.Notifier) error {
	msgs, err := c.channel.Consume(
		c.queue, // queue
		"",      // consumer
		false,   // auto-ack
		true,    // exclusive
		false,   // no-local
		false,   // no-wait
		nil,     // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	slog.InfoContext(ctx, "Started consuming changes", "exchange", c.exchange, "queue", c.queue)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("message channel closed")
			}

			Handle(ctx, d, sink)
		}
	}
}

// Handle decodes one delivery into sink. Undecodable messages are dropped.
func Handle(ctx context.Context, d amqp091.Delivery, sink ledger.Notifier) {
	change, err := Decode(d.Body)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to decode change", "error", err)

		if err := d.Nack(false, false); err != nil {
			slog.ErrorContext(ctx, "Failed to nack message", "error", err)
		}

		return
	}

	sink.Notify(ctx, change)

	if err := d.Ack(false); err != nil {
		slog.ErrorContext(ctx, "Failed to ack message", "error", err)
	}
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}

	if c.conn != nil {
		return c.conn.Close()
	}

	return nil
}
