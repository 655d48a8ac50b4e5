package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aethelgard/game-backend/internal/domain"
	"github.com/aethelgard/game-backend/internal/event"
	"github.com/aethelgard/game-backend/internal/player"
)

type playerTestEnv struct {
	router    *chi.Mux
	accounts  *player.FakeAccountRepository
	chars     *player.FakeCharacterRepository
	cache     *player.FakeCache
	catalog   *player.FakeCatalog
	publisher *player.RecordingPublisher
	service   player.Service
}

func newPlayerTestEnv(t *testing.T) *playerTestEnv {
	t.Helper()

	env := &playerTestEnv{
		accounts: player.NewFakeAccountRepository(),
		chars:    player.NewFakeCharacterRepository(),
		cache:    player.NewFakeCache(),
		catalog: player.NewFakeCatalog(
			&domain.ItemDefinition{
				ID:        "ITEM_IRON_SWORD",
				Name:      "Iron Sword",
				Type:      domain.ItemTypeWeapon,
				Rarity:    domain.RarityCommon,
				Stackable: false,
				MaxStack:  1,
			},
			&domain.ItemDefinition{
				ID:        "ITEM_HEALTH_POTION",
				Name:      "Health Potion",
				Type:      domain.ItemTypeConsumable,
				Rarity:    domain.RarityCommon,
				Stackable: true,
				MaxStack:  20,
			},
			&domain.ItemDefinition{
				ID:        player.TreasureChestDefinitionID,
				Name:      "Treasure Chest",
				Type:      domain.ItemTypeContainer,
				Rarity:    domain.RarityRare,
				Stackable: false,
				MaxStack:  1,
			},
		),
		publisher: &player.RecordingPublisher{},
	}
	env.service = player.NewService(env.accounts, env.chars, env.cache, player.NewFakeAnalytics(), env.catalog, env.publisher)

	h := NewPlayerHandler(env.service, env.catalog, env.publisher)
	router := chi.NewRouter()
	router.Post("/api/player/create", h.CreatePlayer)
	router.Get("/api/player/{discordUserId}", h.GetPlayer)
	router.Post("/api/player/{discordUserId}/collect-item", h.CollectItem)
	router.Post("/api/player/{discordUserId}/walk", h.Walk)
	env.router = router

	return env
}

func (env *playerTestEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(raw)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func (env *playerTestEnv) seedPlayer(t *testing.T, discordID, name string) {
	t.Helper()
	_, err := env.service.CreatePlayer(context.Background(), discordID, name)
	require.NoError(t, err)
}

func TestCreatePlayerHandler(t *testing.T) {
	t.Run("creates player and publishes event", func(t *testing.T) {
		env := newPlayerTestEnv(t)

		rec := env.do(t, http.MethodPost, "/api/player/create", CreatePlayerRequest{
			DiscordUserID: "discord-1",
			CharacterName: "Aldric",
		})

		require.Equal(t, http.StatusCreated, rec.Code)

		var summary domain.PlayerSummary
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
		assert.Equal(t, "discord-1", summary.ID)
		assert.Equal(t, "Aldric", summary.CharacterName)

		events := env.publisher.Events()
		require.Len(t, events, 1)
		assert.Equal(t, event.PlayerCreated, events[0].EventType)
	})

	t.Run("missing fields return 400", func(t *testing.T) {
		env := newPlayerTestEnv(t)

		rec := env.do(t, http.MethodPost, "/api/player/create", map[string]string{
			"discordUserId": "discord-1",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, env.publisher.Events())
	})

	t.Run("name outside length bounds returns 400", func(t *testing.T) {
		env := newPlayerTestEnv(t)

		for _, name := range []string{"Al", "ThisNameIsFarTooLongForAHero"} {
			rec := env.do(t, http.MethodPost, "/api/player/create", CreatePlayerRequest{
				DiscordUserID: "discord-1",
				CharacterName: name,
			})
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		}
		assert.Empty(t, env.publisher.Events())
	})

	t.Run("malformed body returns 400", func(t *testing.T) {
		env := newPlayerTestEnv(t)

		req := httptest.NewRequest(http.MethodPost, "/api/player/create", bytes.NewBufferString("{"))
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("duplicate player returns 409 without event", func(t *testing.T) {
		env := newPlayerTestEnv(t)
		env.seedPlayer(t, "discord-1", "Aldric")

		rec := env.do(t, http.MethodPost, "/api/player/create", CreatePlayerRequest{
			DiscordUserID: "discord-1",
			CharacterName: "Brom",
		})

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Empty(t, env.publisher.Events())
	})
}

func TestGetPlayerHandler(t *testing.T) {
	t.Run("returns player summary", func(t *testing.T) {
		env := newPlayerTestEnv(t)
		env.seedPlayer(t, "discord-1", "Aldric")

		rec := env.do(t, http.MethodGet, "/api/player/discord-1", nil)

		require.Equal(t, http.StatusOK, rec.Code)

		var summary domain.PlayerSummary
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
		assert.Equal(t, "Aldric", summary.CharacterName)
	})

	t.Run("unknown player returns 404", func(t *testing.T) {
		env := newPlayerTestEnv(t)

		rec := env.do(t, http.MethodGet, "/api/player/nobody", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCollectItemHandler(t *testing.T) {
	location := &domain.Location{X: 10, Y: 0, Z: -4, MapID: "eldergrove"}

	t.Run("collects item with generated instance id", func(t *testing.T) {
		env := newPlayerTestEnv(t)
		env.seedPlayer(t, "discord-1", "Aldric")

		rec := env.do(t, http.MethodPost, "/api/player/discord-1/collect-item", CollectItemRequest{
			ItemDefinitionID: "ITEM_HEALTH_POTION",
			Quantity:         5,
			Location:         location,
		})

		require.Equal(t, http.StatusOK, rec.Code)

		var resp CollectItemResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Item collected", resp.Message)
		assert.Equal(t, "ITEM_HEALTH_POTION", resp.Item.DefinitionID)
		assert.Equal(t, 5, resp.Item.Quantity)
		assert.NotEmpty(t, resp.Item.InstanceID)
		assert.Contains(t, resp.Item.DynamicProps, "acquiredAt")

		stored, err := env.chars.GetByDiscordID(context.Background(), "discord-1")
		require.NoError(t, err)
		assert.Len(t, stored.Inventory, 1)
	})

	t.Run("non-stackable quantity is forced to one", func(t *testing.T) {
		env := newPlayerTestEnv(t)
		env.seedPlayer(t, "discord-1", "Aldric")

		rec := env.do(t, http.MethodPost, "/api/player/discord-1/collect-item", CollectItemRequest{
			ItemDefinitionID: "ITEM_IRON_SWORD",
			Quantity:         10,
			Location:         location,
		})

		require.Equal(t, http.StatusOK, rec.Code)

		var resp CollectItemResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Item.Quantity)
	})

	t.Run("stackable quantity is stored as requested", func(t *testing.T) {
		env := newPlayerTestEnv(t)
		env.seedPlayer(t, "discord-1", "Aldric")

		rec := env.do(t, http.MethodPost, "/api/player/discord-1/collect-item", CollectItemRequest{
			ItemDefinitionID: "ITEM_HEALTH_POTION",
			Quantity:         50,
			Location:         location,
		})

		require.Equal(t, http.StatusOK, rec.Code)

		var resp CollectItemResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 50, resp.Item.Quantity)

		events := env.publisher.Events()
		require.Len(t, events, 1)
		payload, ok := events[0].Data.(event.ItemCollectedPayload)
		require.True(t, ok)
		assert.Equal(t, 50, payload.Quantity)
	})

	t.Run("unknown definition returns 404 without mutation", func(t *testing.T) {
		env := newPlayerTestEnv(t)
		env.seedPlayer(t, "discord-1", "Aldric")

		rec := env.do(t, http.MethodPost, "/api/player/discord-1/collect-item", CollectItemRequest{
			ItemDefinitionID: "ITEM_MISSING",
			Quantity:         1,
			Location:         location,
		})

		assert.Equal(t, http.StatusNotFound, rec.Code)

		stored, err := env.chars.GetByDiscordID(context.Background(), "discord-1")
		require.NoError(t, err)
		assert.Empty(t, stored.Inventory)
	})

	t.Run("missing location returns 400", func(t *testing.T) {
		env := newPlayerTestEnv(t)
		env.seedPlayer(t, "discord-1", "Aldric")

		rec := env.do(t, http.MethodPost, "/api/player/discord-1/collect-item", map[string]any{
			"itemDefinitionId": "ITEM_IRON_SWORD",
			"quantity":         1,
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown player returns 404", func(t *testing.T) {
		env := newPlayerTestEnv(t)

		rec := env.do(t, http.MethodPost, "/api/player/nobody/collect-item", CollectItemRequest{
			ItemDefinitionID: "ITEM_IRON_SWORD",
			Quantity:         1,
			Location:         location,
		})

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestWalkHandler(t *testing.T) {
	t.Run("first walk grants treasure chest", func(t *testing.T) {
		env := newPlayerTestEnv(t)
		env.seedPlayer(t, "discord-1", "Aldric")

		rec := env.do(t, http.MethodPost, "/api/player/discord-1/walk", nil)

		require.Equal(t, http.StatusOK, rec.Code)

		var result player.WalkResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.True(t, result.FirstWalk)
		require.NotNil(t, result.GrantedItem)
		assert.Equal(t, player.TreasureChestDefinitionID, result.GrantedItem.DefinitionID)
	})

	t.Run("unknown player returns 404", func(t *testing.T) {
		env := newPlayerTestEnv(t)

		rec := env.do(t, http.MethodPost, "/api/player/nobody/walk", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
