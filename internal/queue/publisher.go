package queue

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/aethelgard/game-backend/internal/event"
	"github.com/aethelgard/game-backend/internal/logger"
	"github.com/aethelgard/game-backend/internal/metrics"
)

// Channel is the publish surface the Publisher needs from an AMQP channel.
// Satisfied by *amqp.Channel; tests substitute a recording fake.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher enqueues domain events to the durable game_events queue.
//
// Publication is an explicit at-most-one-attempt, fire-and-forget design:
// when the channel is unavailable or the publish fails, the event is logged
// and dropped. No retry, no buffering, no error propagated to the caller.
type Publisher struct {
	channel Channel
}

// NewPublisher creates a Publisher over an open channel. A nil channel is
// allowed: every publish becomes a logged drop, which keeps the primary
// request path alive when the broker is down at startup.
func NewPublisher(channel Channel) *Publisher {
	return &Publisher{channel: channel}
}

// Publish serializes the event and enqueues it with the persistence flag
// set so messages survive a broker restart.
func (p *Publisher) Publish(ctx context.Context, evt event.Event) {
	log := logger.FromContext(ctx)

	if p.channel == nil {
		log.Error("Queue channel not initialized, dropping event", "event_type", evt.EventType)
		metrics.EventsDropped.WithLabelValues(string(evt.EventType)).Inc()
		return
	}

	body, err := json.Marshal(evt)
	if err != nil {
		log.Error("Failed to encode event, dropping", "event_type", evt.EventType, "error", err)
		metrics.EventsDropped.WithLabelValues(string(evt.EventType)).Inc()
		return
	}

	err = p.channel.PublishWithContext(ctx,
		"",              // default exchange
		GameEventsQueue, // routing key = queue name
		false,           // mandatory
		false,           // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		log.Error("Failed to publish event, dropping", "event_type", evt.EventType, "error", err)
		metrics.EventsDropped.WithLabelValues(string(evt.EventType)).Inc()
		return
	}

	log.Debug("Published event", "event_type", evt.EventType, "player_id", evt.PlayerID)
	metrics.EventsPublished.WithLabelValues(string(evt.EventType)).Inc()
}
