package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aethelgard/game-backend/internal/domain"
)

// ItemRepository implements item definition persistence for PostgreSQL
type ItemRepository struct {
	db *pgxpool.Pool
}

// NewItemRepository creates a new ItemRepository
func NewItemRepository(db *pgxpool.Pool) *ItemRepository {
	return &ItemRepository{db: db}
}

// GetByID retrieves an item definition by ID.
// Returns domain.ErrItemNotFound when no definition exists.
func (r *ItemRepository) GetByID(ctx context.Context, itemID string) (*domain.ItemDefinition, error) {
	query := `
		SELECT item_id, item_name, item_description, item_type, rarity,
		       icon_url, stackable, max_stack, properties
		FROM item_definitions
		WHERE item_id = $1
	`
	var def domain.ItemDefinition
	var props []byte
	err := r.db.QueryRow(ctx, query, itemID).Scan(
		&def.ID,
		&def.Name,
		&def.Description,
		&def.Type,
		&def.Rarity,
		&def.IconURL,
		&def.Stackable,
		&def.MaxStack,
		&props,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get item definition: %w", err)
	}

	if len(props) > 0 {
		if err := json.Unmarshal(props, &def.Properties); err != nil {
			return nil, fmt.Errorf("failed to decode item properties: %w", err)
		}
	}

	return &def, nil
}

// Upsert inserts or updates a single item definition. Used by the startup
// seeder; the gameplay path never writes definitions.
func (r *ItemRepository) Upsert(ctx context.Context, def *domain.ItemDefinition) error {
	props, err := json.Marshal(def.Properties)
	if err != nil {
		return fmt.Errorf("failed to encode item properties: %w", err)
	}

	query := `
		INSERT INTO item_definitions
			(item_id, item_name, item_description, item_type, rarity,
			 icon_url, stackable, max_stack, properties, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		ON CONFLICT (item_id) DO UPDATE SET
			item_name = EXCLUDED.item_name,
			item_description = EXCLUDED.item_description,
			item_type = EXCLUDED.item_type,
			rarity = EXCLUDED.rarity,
			icon_url = EXCLUDED.icon_url,
			stackable = EXCLUDED.stackable,
			max_stack = EXCLUDED.max_stack,
			properties = EXCLUDED.properties,
			updated_at = NOW()
	`
	_, err = r.db.Exec(ctx, query,
		def.ID, def.Name, def.Description, def.Type, def.Rarity,
		def.IconURL, def.Stackable, def.MaxStack, props)
	if err != nil {
		return fmt.Errorf("failed to upsert item definition %s: %w", def.ID, err)
	}

	return nil
}
