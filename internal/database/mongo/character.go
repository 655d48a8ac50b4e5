package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/aethelgard/game-backend/internal/domain"
)

// CharacterRepository implements character document persistence for MongoDB
type CharacterRepository struct {
	coll *mongo.Collection
}

// NewCharacterRepository creates a new CharacterRepository
func NewCharacterRepository(client *Client) *CharacterRepository {
	return &CharacterRepository{coll: client.Database().Collection(CollectionCharacters)}
}

// GetByDiscordID loads a character document by Discord user ID.
// Returns domain.ErrPlayerNotFound when no document exists.
func (r *CharacterRepository) GetByDiscordID(ctx context.Context, discordID string) (*domain.Character, error) {
	var character domain.Character
	err := r.coll.FindOne(ctx, bson.M{"discordId": discordID}).Decode(&character)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get character: %w", err)
	}

	return &character, nil
}

// Create inserts a new character document.
func (r *CharacterRepository) Create(ctx context.Context, character *domain.Character) error {
	if _, err := r.coll.InsertOne(ctx, character); err != nil {
		return fmt.Errorf("failed to insert character: %w", err)
	}
	return nil
}

// UpdateInventory replaces the inventory sequence of a character document.
// Last write wins under concurrent mutation; the read-modify-write race on
// simultaneous collects for the same player is documented behavior.
func (r *CharacterRepository) UpdateInventory(ctx context.Context, discordID string, inventory []domain.InventoryItem) error {
	result, err := r.coll.UpdateOne(ctx,
		bson.M{"discordId": discordID},
		bson.M{"$set": bson.M{"inventory": inventory}},
	)
	if err != nil {
		return fmt.Errorf("failed to update inventory: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrPlayerNotFound
	}

	return nil
}
