package queue

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// GameEventsQueue is the single durable queue carrying domain events.
const GameEventsQueue = "game_events"

// Connection owns the broker connection and channel lifecycle.
// Opened at process start, closed on shutdown.
type Connection struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// Connect dials the broker and asserts the durable game_events queue.
func Connect(url string) (*Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open rabbitmq channel: %w", err)
	}

	_, err = channel.QueueDeclare(
		GameEventsQueue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", GameEventsQueue, err)
	}

	return &Connection{conn: conn, channel: channel}, nil
}

// Channel returns the shared channel.
func (c *Connection) Channel() *amqp.Channel {
	return c.channel
}

// Close tears down the channel and connection.
func (c *Connection) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
