// Package mq wraps the AMQP connection used to receive order-created
// events.
package mq

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Client holds one AMQP connection and channel.
type Client struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// Dial connects to the broker at url.
func Dial(url string) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	return &Client{conn: conn, ch: ch}, nil
}

// Close closes the channel and connection.
func (c *Client) Close() {
	if c == nil {
		return
	}
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// DeclareOrderQueue declares the durable queue order-created events are
// published to. Declaration is idempotent on the broker side.
func (c *Client) DeclareOrderQueue(queue string) error {
	if c == nil || c.ch == nil {
		return fmt.Errorf("nil channel")
	}
	if _, err := c.ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}
	return nil
}

// Consume starts a manual-ack consumer on the queue.
func (c *Client) Consume(queue, consumer string, prefetch int) (<-chan amqp.Delivery, error) {
	if err := c.ch.Qos(prefetch, 0, false); err != nil {
		return nil, fmt.Errorf("failed to set prefetch: %w", err)
	}
	deliveries, err := c.ch.Consume(queue, consumer, false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to consume from %s: %w", queue, err)
	}
	return deliveries, nil
}
