package player

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aethelgard/game-backend/internal/cache"
	"github.com/aethelgard/game-backend/internal/domain"
	"github.com/aethelgard/game-backend/internal/event"
	"github.com/aethelgard/game-backend/internal/logger"
	"github.com/aethelgard/game-backend/internal/metrics"
)

// TreasureChestDefinitionID is the definition granted on a player's first walk.
const TreasureChestDefinitionID = "ITEM_TREASURE_CHEST"

// detachedTimeout bounds fire-and-forget cache writes that outlive the request.
const detachedTimeout = 5 * time.Second

// AccountRepository is the relational account surface the service depends on.
type AccountRepository interface {
	GetByDiscordID(ctx context.Context, discordID string) (*domain.Account, error)
	Create(ctx context.Context, account *domain.Account) error
	Delete(ctx context.Context, accountID string) error
}

// CharacterRepository is the document-store character surface.
type CharacterRepository interface {
	GetByDiscordID(ctx context.Context, discordID string) (*domain.Character, error)
	Create(ctx context.Context, character *domain.Character) error
	UpdateInventory(ctx context.Context, discordID string, inventory []domain.InventoryItem) error
}

// Cache is the player cache surface. All operations are best-effort from
// the service's perspective: correctness holds with the cache absent.
type Cache interface {
	GetPlayer(ctx context.Context, discordID string) (*domain.Character, error)
	SetPlayer(ctx context.Context, character *domain.Character) error
	InvalidatePlayer(ctx context.Context, discordID string) error
	GetFirstWalk(ctx context.Context, discordID string) (bool, error)
	SetFirstWalk(ctx context.Context, discordID string, firstWalk bool) error
}

// AnalyticsReader answers whether a player has any recorded walk events.
// The history check must not match other event types: every player has a
// PLAYER_CREATED record before their first walk.
type AnalyticsReader interface {
	HasWalkEvents(ctx context.Context, discordID string) (bool, error)
}

// DefinitionLookup resolves item definitions for grants.
type DefinitionLookup interface {
	GetDefinition(ctx context.Context, itemID string) (*domain.ItemDefinition, error)
}

// Service coordinates the relational account record and the document
// character record as a single logical player entity.
type Service interface {
	CreatePlayer(ctx context.Context, discordID, characterName string) (*domain.PlayerSummary, error)
	GetPlayer(ctx context.Context, discordID string) (*domain.PlayerSummary, error)
	AddItem(ctx context.Context, discordID string, item domain.InventoryItem) error
	Walk(ctx context.Context, discordID string) (*WalkResult, error)
}

// WalkResult describes the outcome of a walk action.
type WalkResult struct {
	FirstWalk   bool                  `json:"firstWalk"`
	Message     string                `json:"message"`
	GrantedItem *domain.InventoryItem `json:"grantedItem,omitempty"`
}

type service struct {
	accounts   AccountRepository
	characters CharacterRepository
	cache      Cache
	analytics  AnalyticsReader
	catalog    DefinitionLookup
	publisher  event.Publisher
}

// NewService creates a player Service with explicit dependencies.
func NewService(accounts AccountRepository, characters CharacterRepository, playerCache Cache, analytics AnalyticsReader, catalog DefinitionLookup, publisher event.Publisher) Service {
	return &service{
		accounts:   accounts,
		characters: characters,
		cache:      playerCache,
		analytics:  analytics,
		catalog:    catalog,
		publisher:  publisher,
	}
}

// CreatePlayer creates the account record and the character document for a
// new player. An existing account is an idempotent rejection, not an error
// path through storage.
//
// The two writes span separate stores without a cross-store transaction.
// When the character insert fails after the account insert, the account is
// deleted as a compensating action; if that also fails the orphan is logged
// and the creation still fails.
func (s *service) CreatePlayer(ctx context.Context, discordID, characterName string) (*domain.PlayerSummary, error) {
	log := logger.FromContext(ctx)

	if discordID == "" || characterName == "" {
		return nil, fmt.Errorf("%w: discord id and character name are required", domain.ErrInvalidInput)
	}

	_, err := s.accounts.GetByDiscordID(ctx, discordID)
	if err == nil {
		return nil, domain.ErrAccountExists
	}
	if !errors.Is(err, domain.ErrPlayerNotFound) {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}

	account := &domain.Account{
		DiscordID: discordID,
		Username:  characterName,
		Email:     fmt.Sprintf("%s@discord.aethelgard.game", discordID),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, domain.ErrAccountExists) {
			return nil, domain.ErrAccountExists
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	character := domain.NewCharacter(account.ID, discordID, characterName)
	if err := s.characters.Create(ctx, character); err != nil {
		if delErr := s.accounts.Delete(ctx, account.ID); delErr != nil {
			log.Error("Compensating account delete failed, orphaned account remains",
				"account_id", account.ID, "error", delErr)
		}
		return nil, fmt.Errorf("failed to create character: %w", err)
	}

	// Write-through cache; a failure here never fails the create.
	if err := s.cache.SetPlayer(ctx, character); err != nil {
		log.Warn("Failed to cache new player", "discord_id", discordID, "error", err)
	}

	log.Info("Player created", "discord_id", discordID, "character_name", characterName)
	metrics.PlayersCreated.Inc()

	return character.Summary(), nil
}

// GetPlayer returns the player projection, cache first. A miss falls back
// to the document store and repopulates the cache detached from the request.
// No negative caching: lookups for nonexistent players always hit the store.
func (s *service) GetPlayer(ctx context.Context, discordID string) (*domain.PlayerSummary, error) {
	log := logger.FromContext(ctx)

	cached, err := s.cache.GetPlayer(ctx, discordID)
	if err == nil {
		metrics.CacheHits.WithLabelValues("hit").Inc()
		return cached.Summary(), nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		log.Warn("Player cache read failed, falling back to store", "discord_id", discordID, "error", err)
	}
	metrics.CacheHits.WithLabelValues("miss").Inc()

	character, err := s.characters.GetByDiscordID(ctx, discordID)
	if err != nil {
		if errors.Is(err, domain.ErrPlayerNotFound) {
			return nil, domain.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to load character: %w", err)
	}

	s.populateCacheDetached(character)

	return character.Summary(), nil
}

// populateCacheDetached fills the cache outside the request lifecycle.
// Failures are logged and swallowed.
func (s *service) populateCacheDetached(character *domain.Character) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), detachedTimeout)
		defer cancel()

		if err := s.cache.SetPlayer(ctx, character); err != nil {
			logger.FromContext(ctx).Warn("Detached cache populate failed",
				"discord_id", character.DiscordID, "error", err)
		}
	}()
}

// AddItem appends one item instance to the player's inventory document and
// invalidates the cache entry. Instances are never merged with existing
// same-definition instances.
//
// Two concurrent calls for the same player race on the read-modify-write of
// the inventory document; last write wins and the earlier append can be
// lost. Fixing this requires an atomic document append and is tracked as an
// improvement, not silently changed here.
func (s *service) AddItem(ctx context.Context, discordID string, item domain.InventoryItem) error {
	log := logger.FromContext(ctx)

	if err := item.DynamicProps.Validate(); err != nil {
		return err
	}

	character, err := s.characters.GetByDiscordID(ctx, discordID)
	if err != nil {
		if errors.Is(err, domain.ErrPlayerNotFound) {
			return domain.ErrPlayerNotFound
		}
		return fmt.Errorf("failed to load character: %w", err)
	}

	inventory := append(character.Inventory, item)
	if err := s.characters.UpdateInventory(ctx, discordID, inventory); err != nil {
		return fmt.Errorf("failed to persist inventory: %w", err)
	}

	if err := s.cache.InvalidatePlayer(ctx, discordID); err != nil {
		log.Warn("Failed to invalidate player cache after inventory change",
			"discord_id", discordID, "error", err)
	}

	metrics.ItemsCollected.WithLabelValues(item.DefinitionID).Inc()
	return nil
}

// Walk handles the walk action. The first walk for a player publishes a
// PLAYER_WALKED event and grants a treasure chest; later walks are no-ops.
// First-walk detection prefers the firstWalk cache flag and falls back to
// the analytics store.
func (s *service) Walk(ctx context.Context, discordID string) (*WalkResult, error) {
	log := logger.FromContext(ctx)

	if _, err := s.characters.GetByDiscordID(ctx, discordID); err != nil {
		if errors.Is(err, domain.ErrPlayerNotFound) {
			return nil, domain.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to load character: %w", err)
	}

	firstWalk, err := s.isFirstWalk(ctx, discordID)
	if err != nil {
		return nil, err
	}

	if !firstWalk {
		return &WalkResult{
			FirstWalk: false,
			Message:   "You wander the fields of Aethelgard. Nothing of note happens.",
		}, nil
	}

	s.publisher.Publish(ctx, event.NewPlayerWalkedEvent(discordID, true))

	if err := s.cache.SetFirstWalk(ctx, discordID, false); err != nil {
		log.Warn("Failed to store firstWalk flag", "discord_id", discordID, "error", err)
	}

	granted, err := s.grantTreasureChest(ctx, discordID)
	if err != nil {
		log.Warn("First-walk treasure grant failed", "discord_id", discordID, "error", err)
		return &WalkResult{
			FirstWalk: true,
			Message:   "You take your first steps into Aethelgard.",
		}, nil
	}

	return &WalkResult{
		FirstWalk:   true,
		Message:     "You take your first steps into Aethelgard and stumble upon a treasure chest!",
		GrantedItem: granted,
	}, nil
}

func (s *service) isFirstWalk(ctx context.Context, discordID string) (bool, error) {
	log := logger.FromContext(ctx)

	flag, err := s.cache.GetFirstWalk(ctx, discordID)
	if err == nil {
		return flag, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		log.Warn("firstWalk cache read failed", "discord_id", discordID, "error", err)
	}

	hasWalked, err := s.analytics.HasWalkEvents(ctx, discordID)
	if err != nil {
		return false, fmt.Errorf("failed to check walk history: %w", err)
	}

	firstWalk := !hasWalked
	if err := s.cache.SetFirstWalk(ctx, discordID, firstWalk); err != nil {
		log.Warn("Failed to cache firstWalk flag", "discord_id", discordID, "error", err)
	}

	return firstWalk, nil
}

func (s *service) grantTreasureChest(ctx context.Context, discordID string) (*domain.InventoryItem, error) {
	def, err := s.catalog.GetDefinition(ctx, TreasureChestDefinitionID)
	if err != nil {
		return nil, err
	}

	item := domain.InventoryItem{
		InstanceID:   uuid.NewString(),
		DefinitionID: def.ID,
		Quantity:     1,
		DynamicProps: domain.Props{
			"acquiredAt": time.Now().UTC().Format(time.RFC3339),
			"source":     "first_walk",
		},
	}

	if err := s.AddItem(ctx, discordID, item); err != nil {
		return nil, err
	}

	return &item, nil
}
