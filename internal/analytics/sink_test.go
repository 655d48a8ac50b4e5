package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mongorepo "github.com/aethelgard/game-backend/internal/database/mongo"
	"github.com/aethelgard/game-backend/internal/domain"
	"github.com/aethelgard/game-backend/internal/event"
)

type fakeRecorder struct {
	records   []*mongorepo.AnalyticsEvent
	insertErr error
}

func (f *fakeRecorder) Insert(ctx context.Context, record *mongorepo.AnalyticsEvent) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.records = append(f.records, record)
	return nil
}

func TestSinkRecord(t *testing.T) {
	ctx := context.Background()

	t.Run("persists event with player id merged into payload", func(t *testing.T) {
		repo := &fakeRecorder{}
		sink := NewSink(repo)

		evt := event.NewItemCollectedEvent("discord-1", "ITEM_IRON_SWORD", 1, domain.Location{X: 10, Y: 2, MapID: "eldergrove"})
		require.NoError(t, sink.Record(ctx, evt))

		require.Len(t, repo.records, 1)
		record := repo.records[0]
		assert.Equal(t, string(event.ItemCollected), record.EventType)
		assert.Equal(t, "discord-1", record.Payload["playerId"])
		assert.Equal(t, "ITEM_IRON_SWORD", record.Payload["itemDefinitionId"])
		assert.WithinDuration(t, time.Now(), record.CreatedAt, time.Minute)
	})

	t.Run("persists event with no payload", func(t *testing.T) {
		repo := &fakeRecorder{}
		sink := NewSink(repo)

		evt := event.Event{
			EventType: event.PlayerWalked,
			PlayerID:  "discord-1",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}
		require.NoError(t, sink.Record(ctx, evt))

		require.Len(t, repo.records, 1)
		assert.Equal(t, "discord-1", repo.records[0].Payload["playerId"])
	})

	t.Run("propagates insert failure for redelivery", func(t *testing.T) {
		repo := &fakeRecorder{insertErr: errors.New("mongo unavailable")}
		sink := NewSink(repo)

		evt := event.NewPlayerWalkedEvent("discord-1", true)
		assert.Error(t, sink.Record(ctx, evt))
	})
}
