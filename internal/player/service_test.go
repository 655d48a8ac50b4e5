package player

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aethelgard/game-backend/internal/domain"
	"github.com/aethelgard/game-backend/internal/event"
)

type fixture struct {
	accounts   *FakeAccountRepository
	characters *FakeCharacterRepository
	cache      *FakeCache
	analytics  *FakeAnalytics
	catalog    *FakeCatalog
	publisher  *RecordingPublisher
	service    Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		accounts:   NewFakeAccountRepository(),
		characters: NewFakeCharacterRepository(),
		cache:      NewFakeCache(),
		analytics:  NewFakeAnalytics(),
		catalog: NewFakeCatalog(&domain.ItemDefinition{
			ID:        TreasureChestDefinitionID,
			Name:      "Treasure Chest",
			Type:      domain.ItemTypeContainer,
			Rarity:    domain.RarityRare,
			Stackable: false,
			MaxStack:  1,
		}),
		publisher: &RecordingPublisher{},
	}
	f.service = NewService(f.accounts, f.characters, f.cache, f.analytics, f.catalog, f.publisher)
	return f
}

func TestCreatePlayer(t *testing.T) {
	ctx := context.Background()

	t.Run("creates account, character and cache entry", func(t *testing.T) {
		f := newFixture(t)

		summary, err := f.service.CreatePlayer(ctx, "discord-1", "Aldric")
		require.NoError(t, err)

		assert.Equal(t, "discord-1", summary.ID)
		assert.Equal(t, "Aldric", summary.CharacterName)
		assert.Equal(t, domain.StartingLevel, summary.Level)
		assert.Equal(t, domain.StartingGold, summary.Gold)

		account, err := f.accounts.GetByDiscordID(ctx, "discord-1")
		require.NoError(t, err)
		assert.NotEmpty(t, account.ID)

		character, err := f.characters.GetByDiscordID(ctx, "discord-1")
		require.NoError(t, err)
		assert.Equal(t, account.ID, character.AccountID)
		assert.Empty(t, character.Inventory)

		assert.True(t, f.cache.HasPlayer("discord-1"))
	})

	t.Run("rejects duplicate discord id", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.CreatePlayer(ctx, "discord-1", "Aldric")
		require.NoError(t, err)

		_, err = f.service.CreatePlayer(ctx, "discord-1", "Brom")
		assert.ErrorIs(t, err, domain.ErrAccountExists)
	})

	t.Run("rejects empty input", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.CreatePlayer(ctx, "", "Aldric")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		_, err = f.service.CreatePlayer(ctx, "discord-1", "")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("compensates account insert when character create fails", func(t *testing.T) {
		f := newFixture(t)
		f.characters.CreateErr = errors.New("mongo unavailable")

		_, err := f.service.CreatePlayer(ctx, "discord-1", "Aldric")
		require.Error(t, err)

		_, err = f.accounts.GetByDiscordID(ctx, "discord-1")
		assert.ErrorIs(t, err, domain.ErrPlayerNotFound)
		assert.Len(t, f.accounts.Deleted, 1)
	})

	t.Run("cache write failure does not fail creation", func(t *testing.T) {
		f := newFixture(t)
		f.cache.SetErr = errors.New("redis down")

		_, err := f.service.CreatePlayer(ctx, "discord-1", "Aldric")
		assert.NoError(t, err)
	})
}

func TestGetPlayer(t *testing.T) {
	ctx := context.Background()

	t.Run("returns cached player without store read", func(t *testing.T) {
		f := newFixture(t)
		character := domain.NewCharacter("acc-1", "discord-1", "Aldric")
		require.NoError(t, f.cache.SetPlayer(ctx, character))

		summary, err := f.service.GetPlayer(ctx, "discord-1")
		require.NoError(t, err)
		assert.Equal(t, "Aldric", summary.CharacterName)
	})

	t.Run("falls back to store on miss and repopulates cache", func(t *testing.T) {
		f := newFixture(t)
		character := domain.NewCharacter("acc-1", "discord-1", "Aldric")
		require.NoError(t, f.characters.Create(ctx, character))

		summary, err := f.service.GetPlayer(ctx, "discord-1")
		require.NoError(t, err)
		assert.Equal(t, "discord-1", summary.ID)

		assert.Eventually(t, func() bool {
			return f.cache.HasPlayer("discord-1")
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("unknown player is not found", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.GetPlayer(ctx, "nobody")
		assert.ErrorIs(t, err, domain.ErrPlayerNotFound)
	})

	t.Run("cache failure falls back to store", func(t *testing.T) {
		f := newFixture(t)
		f.cache.GetErr = errors.New("redis down")
		character := domain.NewCharacter("acc-1", "discord-1", "Aldric")
		require.NoError(t, f.characters.Create(ctx, character))

		summary, err := f.service.GetPlayer(ctx, "discord-1")
		require.NoError(t, err)
		assert.Equal(t, "Aldric", summary.CharacterName)
	})
}

func TestAddItem(t *testing.T) {
	ctx := context.Background()

	newItem := func(instanceID string) domain.InventoryItem {
		return domain.InventoryItem{
			InstanceID:   instanceID,
			DefinitionID: "ITEM_IRON_SWORD",
			Quantity:     1,
			DynamicProps: domain.Props{"acquiredAt": "2026-01-01T00:00:00Z"},
		}
	}

	t.Run("appends instance and invalidates cache", func(t *testing.T) {
		f := newFixture(t)
		character := domain.NewCharacter("acc-1", "discord-1", "Aldric")
		require.NoError(t, f.characters.Create(ctx, character))
		require.NoError(t, f.cache.SetPlayer(ctx, character))

		require.NoError(t, f.service.AddItem(ctx, "discord-1", newItem("inst-1")))

		stored, err := f.characters.GetByDiscordID(ctx, "discord-1")
		require.NoError(t, err)
		require.Len(t, stored.Inventory, 1)
		assert.Equal(t, "inst-1", stored.Inventory[0].InstanceID)
		assert.False(t, f.cache.HasPlayer("discord-1"))
	})

	t.Run("same definition yields separate instances", func(t *testing.T) {
		f := newFixture(t)
		character := domain.NewCharacter("acc-1", "discord-1", "Aldric")
		require.NoError(t, f.characters.Create(ctx, character))

		require.NoError(t, f.service.AddItem(ctx, "discord-1", newItem("inst-1")))
		require.NoError(t, f.service.AddItem(ctx, "discord-1", newItem("inst-2")))

		stored, err := f.characters.GetByDiscordID(ctx, "discord-1")
		require.NoError(t, err)
		assert.Len(t, stored.Inventory, 2)
	})

	t.Run("rejects unsupported dynamic props", func(t *testing.T) {
		f := newFixture(t)
		character := domain.NewCharacter("acc-1", "discord-1", "Aldric")
		require.NoError(t, f.characters.Create(ctx, character))

		item := newItem("inst-1")
		item.DynamicProps = domain.Props{"bad": func() {}}
		assert.ErrorIs(t, f.service.AddItem(ctx, "discord-1", item), domain.ErrInvalidInput)
	})

	t.Run("unknown player is not found", func(t *testing.T) {
		f := newFixture(t)
		assert.ErrorIs(t, f.service.AddItem(ctx, "nobody", newItem("inst-1")), domain.ErrPlayerNotFound)
	})

	t.Run("concurrent appends never corrupt the inventory", func(t *testing.T) {
		f := newFixture(t)
		character := domain.NewCharacter("acc-1", "discord-1", "Aldric")
		require.NoError(t, f.characters.Create(ctx, character))

		instanceIDs := []string{"inst-a", "inst-b"}
		errs := make([]error, len(instanceIDs))

		var wg sync.WaitGroup
		for i, instanceID := range instanceIDs {
			wg.Add(1)
			go func(i int, instanceID string) {
				defer wg.Done()
				errs[i] = f.service.AddItem(ctx, "discord-1", newItem(instanceID))
			}(i, instanceID)
		}
		wg.Wait()

		for _, err := range errs {
			require.NoError(t, err)
		}

		// Last write wins on the document, so one append may be lost,
		// but at least one survives and nothing is duplicated or mangled.
		stored, err := f.characters.GetByDiscordID(ctx, "discord-1")
		require.NoError(t, err)
		require.NotEmpty(t, stored.Inventory)
		assert.LessOrEqual(t, len(stored.Inventory), len(instanceIDs))

		seen := make(map[string]bool)
		for _, item := range stored.Inventory {
			assert.Contains(t, instanceIDs, item.InstanceID)
			assert.False(t, seen[item.InstanceID], "instance %s stored twice", item.InstanceID)
			seen[item.InstanceID] = true
			assert.Equal(t, "ITEM_IRON_SWORD", item.DefinitionID)
			assert.Equal(t, 1, item.Quantity)
		}
	})
}

func TestWalk(t *testing.T) {
	ctx := context.Background()

	seedPlayer := func(t *testing.T, f *fixture) {
		t.Helper()
		require.NoError(t, f.characters.Create(ctx, domain.NewCharacter("acc-1", "discord-1", "Aldric")))
	}

	t.Run("first walk publishes event and grants treasure chest", func(t *testing.T) {
		f := newFixture(t)
		seedPlayer(t, f)

		result, err := f.service.Walk(ctx, "discord-1")
		require.NoError(t, err)

		assert.True(t, result.FirstWalk)
		require.NotNil(t, result.GrantedItem)
		assert.Equal(t, TreasureChestDefinitionID, result.GrantedItem.DefinitionID)
		assert.Equal(t, 1, result.GrantedItem.Quantity)
		assert.NotEmpty(t, result.GrantedItem.InstanceID)

		events := f.publisher.Events()
		require.Len(t, events, 1)
		assert.Equal(t, event.PlayerWalked, events[0].EventType)
		assert.Equal(t, "discord-1", events[0].PlayerID)

		stored, err := f.characters.GetByDiscordID(ctx, "discord-1")
		require.NoError(t, err)
		assert.Len(t, stored.Inventory, 1)
	})

	t.Run("second walk is a no-op", func(t *testing.T) {
		f := newFixture(t)
		seedPlayer(t, f)

		_, err := f.service.Walk(ctx, "discord-1")
		require.NoError(t, err)

		result, err := f.service.Walk(ctx, "discord-1")
		require.NoError(t, err)

		assert.False(t, result.FirstWalk)
		assert.Nil(t, result.GrantedItem)
		assert.Len(t, f.publisher.Events(), 1)
	})

	t.Run("cold cache falls back to walk history", func(t *testing.T) {
		f := newFixture(t)
		seedPlayer(t, f)
		f.analytics.RecordEvent("discord-1", event.PlayerWalked)

		result, err := f.service.Walk(ctx, "discord-1")
		require.NoError(t, err)

		assert.False(t, result.FirstWalk)
		assert.Empty(t, f.publisher.Events())
	})

	t.Run("recorded creation event does not suppress the first walk", func(t *testing.T) {
		f := newFixture(t)
		seedPlayer(t, f)
		f.analytics.RecordEvent("discord-1", event.PlayerCreated)

		result, err := f.service.Walk(ctx, "discord-1")
		require.NoError(t, err)

		assert.True(t, result.FirstWalk)
		require.NotNil(t, result.GrantedItem)
		assert.Equal(t, TreasureChestDefinitionID, result.GrantedItem.DefinitionID)
	})

	t.Run("missing treasure definition still completes first walk", func(t *testing.T) {
		f := newFixture(t)
		seedPlayer(t, f)
		f.catalog.Definitions = map[string]*domain.ItemDefinition{}

		result, err := f.service.Walk(ctx, "discord-1")
		require.NoError(t, err)

		assert.True(t, result.FirstWalk)
		assert.Nil(t, result.GrantedItem)
		assert.Len(t, f.publisher.Events(), 1)
	})

	t.Run("unknown player is not found", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.Walk(ctx, "nobody")
		assert.ErrorIs(t, err, domain.ErrPlayerNotFound)
	})
}
