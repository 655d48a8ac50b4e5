package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/aethelgard/game-backend/internal/event"
)

// AnalyticsEvent is a persisted record of one consumed domain event.
// Redelivered messages produce duplicate records; the collection is not
// deduplicated.
type AnalyticsEvent struct {
	EventType string         `bson:"eventType"`
	Payload   map[string]any `bson:"payload"`
	CreatedAt time.Time      `bson:"createdAt"`
	UpdatedAt time.Time      `bson:"updatedAt"`
}

// AnalyticsRepository persists analytics events to MongoDB
type AnalyticsRepository struct {
	coll *mongo.Collection
}

// NewAnalyticsRepository creates a new AnalyticsRepository
func NewAnalyticsRepository(client *Client) *AnalyticsRepository {
	return &AnalyticsRepository{coll: client.Database().Collection(CollectionAnalyticsEvents)}
}

// Insert stores one analytics record.
func (r *AnalyticsRepository) Insert(ctx context.Context, record *AnalyticsEvent) error {
	if _, err := r.coll.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("failed to insert analytics event: %w", err)
	}
	return nil
}

// HasWalkEvents reports whether a walk event was ever recorded for the
// given Discord user ID. The first-walk check filters on the walk type:
// every player already has a PLAYER_CREATED record by the time they walk.
func (r *AnalyticsRepository) HasWalkEvents(ctx context.Context, discordID string) (bool, error) {
	filter := bson.M{
		"eventType":        string(event.PlayerWalked),
		"payload.playerId": discordID,
	}
	count, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("failed to count walk events: %w", err)
	}

	return count > 0, nil
}
