package queue

import (
	"context"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/aethelgard/game-backend/internal/event"
	"github.com/aethelgard/game-backend/internal/metrics"
)

// Delivery is the subset of amqp.Delivery the consumer acts on.
// Tests substitute fakes recording ack/nack decisions.
type Delivery interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

// Consumer drains the game_events queue and forwards each event to a sink.
// Acknowledgment is explicit per message; the queue's configuration owns
// the redelivery and dead-letter policy.
type Consumer struct {
	channel *amqp.Channel
	sink    event.Sink
}

// NewConsumer creates a Consumer over an open channel.
func NewConsumer(channel *amqp.Channel, sink event.Sink) *Consumer {
	return &Consumer{channel: channel, sink: sink}
}

// Start registers the long-lived handler and processes deliveries until the
// context is done or the channel closes. Runs in its own goroutine; the
// caller cancels the context on shutdown.
func (c *Consumer) Start(ctx context.Context) error {
	deliveries, err := c.channel.ConsumeWithContext(ctx,
		GameEventsQueue,
		"",    // consumer tag
		false, // autoAck - acknowledgment is explicit
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,
	)
	if err != nil {
		return err
	}

	slog.Default().Info("Event consumer started", "queue", GameEventsQueue)

	for {
		select {
		case <-ctx.Done():
			slog.Default().Info("Event consumer stopping")
			return nil
		case delivery, ok := <-deliveries:
			if !ok {
				slog.Default().Warn("Event delivery channel closed")
				return nil
			}
			c.handle(ctx, delivery.Body, &delivery)
		}
	}
}

// handle processes one delivery. A malformed message is rejected without
// requeue; a sink failure is rejected with requeue so the broker can
// redeliver. Neither failure stops the consumer loop.
func (c *Consumer) handle(ctx context.Context, body []byte, delivery Delivery) {
	evt, err := event.Decode(body)
	if err != nil {
		slog.Default().Error("Failed to decode queue message", "error", err)
		metrics.EventsConsumeFailed.WithLabelValues("decode").Inc()
		if nackErr := delivery.Nack(false, false); nackErr != nil {
			slog.Default().Error("Failed to nack message", "error", nackErr)
		}
		return
	}

	if err := c.sink.Record(ctx, evt); err != nil {
		slog.Default().Error("Failed to record event", "event_type", evt.EventType, "error", err)
		metrics.EventsConsumeFailed.WithLabelValues("sink").Inc()
		if nackErr := delivery.Nack(false, true); nackErr != nil {
			slog.Default().Error("Failed to nack message", "error", nackErr)
		}
		return
	}

	if err := delivery.Ack(false); err != nil {
		slog.Default().Error("Failed to ack message", "event_type", evt.EventType, "error", err)
		return
	}

	metrics.EventsConsumed.WithLabelValues(string(evt.EventType)).Inc()
}
