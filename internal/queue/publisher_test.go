package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aethelgard/game-backend/internal/event"
)

// fakeChannel records publishes and optionally fails them.
type fakeChannel struct {
	published  []amqp.Publishing
	keys       []string
	publishErr error
}

func (f *fakeChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, msg)
	f.keys = append(f.keys, key)
	return nil
}

func TestPublish(t *testing.T) {
	channel := &fakeChannel{}
	publisher := NewPublisher(channel)

	publisher.Publish(context.Background(), event.NewPlayerCreatedEvent("discord-1", "Aria"))

	require.Len(t, channel.published, 1)
	assert.Equal(t, GameEventsQueue, channel.keys[0])
	assert.Equal(t, "application/json", channel.published[0].ContentType)
	assert.Equal(t, amqp.Persistent, channel.published[0].DeliveryMode)

	var evt event.Event
	require.NoError(t, json.Unmarshal(channel.published[0].Body, &evt))
	assert.Equal(t, event.PlayerCreated, evt.EventType)
	assert.Equal(t, "discord-1", evt.PlayerID)
}

func TestPublishNilChannelDropsEvent(t *testing.T) {
	publisher := NewPublisher(nil)

	// Must not panic and must not surface the drop.
	publisher.Publish(context.Background(), event.NewPlayerWalkedEvent("discord-1", true))
}

func TestPublishChannelErrorDropsEvent(t *testing.T) {
	channel := &fakeChannel{publishErr: errors.New("channel closed")}
	publisher := NewPublisher(channel)

	publisher.Publish(context.Background(), event.NewPlayerWalkedEvent("discord-1", false))

	assert.Empty(t, channel.published)
}
