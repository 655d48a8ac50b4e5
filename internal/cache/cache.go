package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aethelgard/game-backend/internal/domain"
)

// PlayerTTL is the fixed expiry for player snapshots and first-walk flags.
const PlayerTTL = 3600 * time.Second

const (
	playerKeyPrefix    = "player:"
	firstWalkKeyPrefix = "firstWalk:"
)

// ErrMiss is returned when a key is absent. The cache is strictly a read
// accelerator: every caller must hold correct behavior on a miss.
var ErrMiss = errors.New("cache miss")

// Store is the minimal key-value surface the cache layer needs.
// Satisfied by *redis.Client; tests substitute an in-memory fake.
type Store interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Cache fronts the character document store with a fixed-TTL snapshot per
// player, plus the firstWalk flag keys.
type Cache struct {
	store Store
}

// New creates a redis-backed cache from a connection URL and verifies the
// connection with a ping.
func New(url string) (*Cache, *redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Cache{store: rdb}, rdb, nil
}

// NewWithStore creates a cache over an existing store. Used by tests.
func NewWithStore(store Store) *Cache {
	return &Cache{store: store}
}

// NewDisabled creates a cache whose reads always miss and whose writes are
// no-ops. Used when redis is unavailable at startup.
func NewDisabled() *Cache {
	return &Cache{}
}

// GetPlayer returns the cached character snapshot, or ErrMiss.
func (c *Cache) GetPlayer(ctx context.Context, discordID string) (*domain.Character, error) {
	if c.store == nil {
		return nil, ErrMiss
	}

	raw, err := c.store.Get(ctx, playerKeyPrefix+discordID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("failed to read player cache: %w", err)
	}

	var character domain.Character
	if err := json.Unmarshal([]byte(raw), &character); err != nil {
		return nil, fmt.Errorf("failed to decode cached player: %w", err)
	}

	return &character, nil
}

// SetPlayer stores a character snapshot with the fixed TTL.
func (c *Cache) SetPlayer(ctx context.Context, character *domain.Character) error {
	if c.store == nil {
		return nil
	}

	raw, err := json.Marshal(character)
	if err != nil {
		return fmt.Errorf("failed to encode player for cache: %w", err)
	}

	if err := c.store.Set(ctx, playerKeyPrefix+character.DiscordID, raw, PlayerTTL).Err(); err != nil {
		return fmt.Errorf("failed to write player cache: %w", err)
	}

	return nil
}

// InvalidatePlayer deletes the snapshot for one player. Called after every
// inventory mutation so the next read reflects the new document.
func (c *Cache) InvalidatePlayer(ctx context.Context, discordID string) error {
	if c.store == nil {
		return nil
	}

	if err := c.store.Del(ctx, playerKeyPrefix+discordID).Err(); err != nil {
		return fmt.Errorf("failed to invalidate player cache: %w", err)
	}
	return nil
}

// GetFirstWalk returns the cached first-walk flag, or ErrMiss.
func (c *Cache) GetFirstWalk(ctx context.Context, discordID string) (bool, error) {
	if c.store == nil {
		return false, ErrMiss
	}

	raw, err := c.store.Get(ctx, firstWalkKeyPrefix+discordID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, ErrMiss
		}
		return false, fmt.Errorf("failed to read firstWalk cache: %w", err)
	}

	return raw == "true", nil
}

// SetFirstWalk stores the first-walk flag with the fixed TTL.
func (c *Cache) SetFirstWalk(ctx context.Context, discordID string, firstWalk bool) error {
	if c.store == nil {
		return nil
	}

	value := "false"
	if firstWalk {
		value = "true"
	}

	if err := c.store.Set(ctx, firstWalkKeyPrefix+discordID, value, PlayerTTL).Err(); err != nil {
		return fmt.Errorf("failed to write firstWalk cache: %w", err)
	}

	return nil
}
