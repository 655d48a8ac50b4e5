package item

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/aethelgard/game-backend/internal/domain"
)

const (
	catalogCacheSize = 512
	catalogCacheTTL  = 10 * time.Minute
)

// Repository is the persistence surface for item definitions.
type Repository interface {
	GetByID(ctx context.Context, itemID string) (*domain.ItemDefinition, error)
	Upsert(ctx context.Context, def *domain.ItemDefinition) error
}

// Catalog serves item definitions with an in-process expirable LRU in
// front of the relational store. Definitions change rarely, so a short
// TTL keeps config re-syncs visible without a restart.
type Catalog struct {
	repo  Repository
	cache *expirable.LRU[string, *domain.ItemDefinition]
}

// NewCatalog creates a definition catalog backed by repo.
func NewCatalog(repo Repository) *Catalog {
	return &Catalog{
		repo:  repo,
		cache: expirable.NewLRU[string, *domain.ItemDefinition](catalogCacheSize, nil, catalogCacheTTL),
	}
}

// GetDefinition resolves a definition by its identifier. Unknown
// identifiers return domain.ErrItemNotFound; misses are never cached.
func (c *Catalog) GetDefinition(ctx context.Context, itemID string) (*domain.ItemDefinition, error) {
	if def, ok := c.cache.Get(itemID); ok {
		return def, nil
	}

	def, err := c.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	c.cache.Add(itemID, def)
	return def, nil
}

// Invalidate drops a definition from the in-process cache, used after a
// config sync rewrites definitions.
func (c *Catalog) Invalidate(itemID string) {
	c.cache.Remove(itemID)
}

// Upsert writes a definition through to the store and refreshes the cache.
func (c *Catalog) Upsert(ctx context.Context, def *domain.ItemDefinition) error {
	if err := c.repo.Upsert(ctx, def); err != nil {
		return fmt.Errorf("failed to upsert item definition %s: %w", def.ID, err)
	}
	c.cache.Add(def.ID, def)
	return nil
}
