package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mongorepo "github.com/aethelgard/game-backend/internal/database/mongo"
	"github.com/aethelgard/game-backend/internal/event"
	"github.com/aethelgard/game-backend/internal/logger"
)

// Recorder is the persistence surface the sink writes to.
type Recorder interface {
	Insert(ctx context.Context, record *mongorepo.AnalyticsEvent) error
}

// Sink persists consumed domain events as analytics records. It implements
// event.Sink for the queue consumer: a returned error triggers redelivery,
// so Insert failures must propagate.
type Sink struct {
	repo Recorder
}

// NewSink creates an analytics sink backed by repo.
func NewSink(repo Recorder) *Sink {
	return &Sink{repo: repo}
}

// Record flattens the event into an analytics document and inserts it.
// The playerId is merged into the payload so history queries can filter
// on a single field regardless of event type.
func (s *Sink) Record(ctx context.Context, evt event.Event) error {
	payload, err := flattenPayload(evt)
	if err != nil {
		return fmt.Errorf("failed to flatten event payload: %w", err)
	}

	record := &mongorepo.AnalyticsEvent{
		EventType: string(evt.EventType),
		Payload:   payload,
		CreatedAt: evt.ParseTimestamp(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, record); err != nil {
		return err
	}

	logger.FromContext(ctx).Debug("Analytics event recorded",
		"event_type", evt.EventType, "player_id", evt.PlayerID)
	return nil
}

// flattenPayload converts the typed event data into a generic map and
// stamps the player id into it.
func flattenPayload(evt event.Event) (map[string]any, error) {
	payload := make(map[string]any)

	if evt.Data != nil {
		raw, err := json.Marshal(evt.Data)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &payload); err != nil {
			return nil, err
		}
	}

	if evt.PlayerID != "" {
		payload["playerId"] = evt.PlayerID
	}

	return payload, nil
}
