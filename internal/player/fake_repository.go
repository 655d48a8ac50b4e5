package player

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/aethelgard/game-backend/internal/cache"
	"github.com/aethelgard/game-backend/internal/domain"
	"github.com/aethelgard/game-backend/internal/event"
)

// FakeAccountRepository is a stateful in-memory AccountRepository for
// integration-style unit tests. It must remain in the player package so
// tests can seed and inspect it without import cycles.
type FakeAccountRepository struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account // keyed by discord ID

	CreateErr error
	DeleteErr error
	Deleted   []string
}

func NewFakeAccountRepository() *FakeAccountRepository {
	return &FakeAccountRepository{accounts: make(map[string]*domain.Account)}
}

func (f *FakeAccountRepository) GetByDiscordID(ctx context.Context, discordID string) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[discordID]
	if !ok {
		return nil, domain.ErrPlayerNotFound
	}
	copied := *a
	return &copied, nil
}

func (f *FakeAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if f.CreateErr != nil {
		return f.CreateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.accounts[account.DiscordID]; ok {
		return domain.ErrAccountExists
	}
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	copied := *account
	f.accounts[account.DiscordID] = &copied
	return nil
}

func (f *FakeAccountRepository) Delete(ctx context.Context, accountID string) error {
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for discordID, a := range f.accounts {
		if a.ID == accountID {
			delete(f.accounts, discordID)
		}
	}
	f.Deleted = append(f.Deleted, accountID)
	return nil
}

// FakeCharacterRepository is a stateful in-memory CharacterRepository.
type FakeCharacterRepository struct {
	mu         sync.Mutex
	characters map[string]*domain.Character // keyed by discord ID

	CreateErr          error
	UpdateInventoryErr error
}

func NewFakeCharacterRepository() *FakeCharacterRepository {
	return &FakeCharacterRepository{characters: make(map[string]*domain.Character)}
}

func (f *FakeCharacterRepository) GetByDiscordID(ctx context.Context, discordID string) (*domain.Character, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.characters[discordID]
	if !ok {
		return nil, domain.ErrPlayerNotFound
	}
	copied := *c
	copied.Inventory = append([]domain.InventoryItem(nil), c.Inventory...)
	return &copied, nil
}

func (f *FakeCharacterRepository) Create(ctx context.Context, character *domain.Character) error {
	if f.CreateErr != nil {
		return f.CreateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *character
	f.characters[character.DiscordID] = &copied
	return nil
}

func (f *FakeCharacterRepository) UpdateInventory(ctx context.Context, discordID string, inventory []domain.InventoryItem) error {
	if f.UpdateInventoryErr != nil {
		return f.UpdateInventoryErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.characters[discordID]
	if !ok {
		return domain.ErrPlayerNotFound
	}
	c.Inventory = append([]domain.InventoryItem(nil), inventory...)
	return nil
}

// FakeCache is a stateful in-memory Cache. SetErr and GetErr force
// failures to exercise the best-effort paths.
type FakeCache struct {
	mu        sync.Mutex
	players   map[string]*domain.Character
	firstWalk map[string]bool

	GetErr error
	SetErr error

	Invalidated []string
}

func NewFakeCache() *FakeCache {
	return &FakeCache{
		players:   make(map[string]*domain.Character),
		firstWalk: make(map[string]bool),
	}
}

func (f *FakeCache) GetPlayer(ctx context.Context, discordID string) (*domain.Character, error) {
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.players[discordID]
	if !ok {
		return nil, cache.ErrMiss
	}
	copied := *c
	return &copied, nil
}

func (f *FakeCache) SetPlayer(ctx context.Context, character *domain.Character) error {
	if f.SetErr != nil {
		return f.SetErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *character
	f.players[character.DiscordID] = &copied
	return nil
}

func (f *FakeCache) InvalidatePlayer(ctx context.Context, discordID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.players, discordID)
	f.Invalidated = append(f.Invalidated, discordID)
	return nil
}

func (f *FakeCache) GetFirstWalk(ctx context.Context, discordID string) (bool, error) {
	if f.GetErr != nil {
		return false, f.GetErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	flag, ok := f.firstWalk[discordID]
	if !ok {
		return false, cache.ErrMiss
	}
	return flag, nil
}

func (f *FakeCache) SetFirstWalk(ctx context.Context, discordID string, firstWalk bool) error {
	if f.SetErr != nil {
		return f.SetErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.firstWalk[discordID] = firstWalk
	return nil
}

func (f *FakeCache) HasPlayer(discordID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.players[discordID]
	return ok
}

// FakeAnalytics answers walk-history checks from recorded event types,
// mirroring the consumed-event records the real store holds.
type FakeAnalytics struct {
	mu               sync.Mutex
	eventsByPlayer   map[string][]event.Type
	HasWalkEventsErr error
}

func NewFakeAnalytics() *FakeAnalytics {
	return &FakeAnalytics{eventsByPlayer: make(map[string][]event.Type)}
}

// RecordEvent marks one consumed event as persisted for the player.
func (f *FakeAnalytics) RecordEvent(discordID string, eventType event.Type) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.eventsByPlayer[discordID] = append(f.eventsByPlayer[discordID], eventType)
}

func (f *FakeAnalytics) HasWalkEvents(ctx context.Context, discordID string) (bool, error) {
	if f.HasWalkEventsErr != nil {
		return false, f.HasWalkEventsErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, eventType := range f.eventsByPlayer[discordID] {
		if eventType == event.PlayerWalked {
			return true, nil
		}
	}
	return false, nil
}

// FakeCatalog resolves definitions from a fixed map.
type FakeCatalog struct {
	Definitions map[string]*domain.ItemDefinition
}

func NewFakeCatalog(defs ...*domain.ItemDefinition) *FakeCatalog {
	m := make(map[string]*domain.ItemDefinition, len(defs))
	for _, d := range defs {
		m[d.ID] = d
	}
	return &FakeCatalog{Definitions: m}
}

func (f *FakeCatalog) GetDefinition(ctx context.Context, itemID string) (*domain.ItemDefinition, error) {
	d, ok := f.Definitions[itemID]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	return d, nil
}

// RecordingPublisher captures published events for assertions.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []event.Event
}

func (p *RecordingPublisher) Publish(ctx context.Context, evt event.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
}

func (p *RecordingPublisher) Events() []event.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]event.Event(nil), p.events...)
}
