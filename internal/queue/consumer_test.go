package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aethelgard/game-backend/internal/domain"
	"github.com/aethelgard/game-backend/internal/event"
)

// fakeDelivery records the ack decision made by the consumer.
type fakeDelivery struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (f *fakeDelivery) Ack(bool) error {
	f.acked = true
	return nil
}

func (f *fakeDelivery) Nack(_, requeue bool) error {
	f.nacked = true
	f.requeue = requeue
	return nil
}

// fakeSink records events and optionally fails.
type fakeSink struct {
	events    []event.Event
	recordErr error
}

func (f *fakeSink) Record(_ context.Context, evt event.Event) error {
	if f.recordErr != nil {
		return f.recordErr
	}
	f.events = append(f.events, evt)
	return nil
}

func encodeEvent(t *testing.T, evt event.Event) []byte {
	t.Helper()
	body, err := json.Marshal(evt)
	require.NoError(t, err)
	return body
}

func TestHandleAcksOnSuccess(t *testing.T) {
	sink := &fakeSink{}
	consumer := &Consumer{sink: sink}
	delivery := &fakeDelivery{}

	body := encodeEvent(t, event.NewItemCollectedEvent("discord-1", "ITEM_IRON_ORE", 2, domain.Location{MapID: "aethelgard-fields"}))
	consumer.handle(context.Background(), body, delivery)

	require.Len(t, sink.events, 1)
	assert.Equal(t, event.ItemCollected, sink.events[0].EventType)
	assert.True(t, delivery.acked)
	assert.False(t, delivery.nacked)
}

func TestHandleRejectsMalformedWithoutRequeue(t *testing.T) {
	sink := &fakeSink{}
	consumer := &Consumer{sink: sink}
	delivery := &fakeDelivery{}

	consumer.handle(context.Background(), []byte(`{broken`), delivery)

	assert.Empty(t, sink.events)
	assert.False(t, delivery.acked)
	assert.True(t, delivery.nacked)
	assert.False(t, delivery.requeue)
}

func TestHandleRejectsUnknownTypeWithoutRequeue(t *testing.T) {
	sink := &fakeSink{}
	consumer := &Consumer{sink: sink}
	delivery := &fakeDelivery{}

	consumer.handle(context.Background(), []byte(`{"eventType":"MYSTERY","timestamp":"2026-01-01T00:00:00Z"}`), delivery)

	assert.Empty(t, sink.events)
	assert.True(t, delivery.nacked)
	assert.False(t, delivery.requeue)
}

func TestHandleRequeuesOnSinkFailure(t *testing.T) {
	sink := &fakeSink{recordErr: errors.New("mongo unavailable")}
	consumer := &Consumer{sink: sink}
	delivery := &fakeDelivery{}

	body := encodeEvent(t, event.NewPlayerWalkedEvent("discord-1", true))
	consumer.handle(context.Background(), body, delivery)

	assert.False(t, delivery.acked)
	assert.True(t, delivery.nacked)
	assert.True(t, delivery.requeue)
}
