package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/aethelgard/game-backend/internal/domain"
	"github.com/aethelgard/game-backend/internal/event"
	"github.com/aethelgard/game-backend/internal/item"
	"github.com/aethelgard/game-backend/internal/logger"
	"github.com/aethelgard/game-backend/internal/player"
)

// CreatePlayerRequest represents the request to create a new player
type CreatePlayerRequest struct {
	DiscordUserID string `json:"discordUserId" validate:"required,max=64"`
	CharacterName string `json:"characterName" validate:"required,min=3,max=20"`
}

// CollectItemRequest represents the request to collect an item instance
type CollectItemRequest struct {
	ItemDefinitionID string           `json:"itemDefinitionId" validate:"required,max=100"`
	Quantity         int              `json:"quantity" validate:"required,gt=0"`
	Location         *domain.Location `json:"location" validate:"required"`
}

// CollectItemResponse is the success payload for collect-item
type CollectItemResponse struct {
	Message string               `json:"message"`
	Item    domain.InventoryItem `json:"item"`
}

// PlayerHandler handles player-related HTTP requests
type PlayerHandler struct {
	playerSvc player.Service
	catalog   player.DefinitionLookup
	publisher event.Publisher
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(playerSvc player.Service, catalog player.DefinitionLookup, publisher event.Publisher) *PlayerHandler {
	return &PlayerHandler{
		playerSvc: playerSvc,
		catalog:   catalog,
		publisher: publisher,
	}
}

// CreatePlayer handles POST /api/player/create
func (h *PlayerHandler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req CreatePlayerRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Create player"); err != nil {
		return
	}

	summary, err := h.playerSvc.CreatePlayer(r.Context(), req.DiscordUserID, req.CharacterName)
	if err != nil {
		status, msg := mapServiceErrorToUserMessage(err)
		if status >= http.StatusInternalServerError {
			log.Error("Create player failed", "discord_id", req.DiscordUserID, "error", err)
		}
		respondError(w, status, msg)
		return
	}

	h.publisher.Publish(r.Context(), event.NewPlayerCreatedEvent(req.DiscordUserID, req.CharacterName))

	respondJSON(w, http.StatusCreated, summary)
}

// GetPlayer handles GET /api/player/{discordUserId}
func (h *PlayerHandler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	discordUserID := chi.URLParam(r, "discordUserId")
	if discordUserID == "" {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
		return
	}

	summary, err := h.playerSvc.GetPlayer(r.Context(), discordUserID)
	if err != nil {
		status, msg := mapServiceErrorToUserMessage(err)
		if status >= http.StatusInternalServerError {
			log.Error("Get player failed", "discord_id", discordUserID, "error", err)
		}
		respondError(w, status, msg)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// CollectItem handles POST /api/player/{discordUserId}/collect-item
func (h *PlayerHandler) CollectItem(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	discordUserID := chi.URLParam(r, "discordUserId")
	if discordUserID == "" {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
		return
	}

	var req CollectItemRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Collect item"); err != nil {
		return
	}

	def, err := h.catalog.GetDefinition(r.Context(), req.ItemDefinitionID)
	if err != nil {
		status, msg := mapServiceErrorToUserMessage(err)
		if status >= http.StatusInternalServerError {
			log.Error("Item definition lookup failed", "item_id", req.ItemDefinitionID, "error", err)
		}
		respondError(w, status, msg)
		return
	}

	// Non-stackable definitions always yield single-quantity instances;
	// stackable ones store the requested amount as-is.
	quantity := req.Quantity
	if !def.Stackable {
		quantity = 1
	}

	instance := domain.InventoryItem{
		InstanceID:   uuid.NewString(),
		DefinitionID: def.ID,
		Quantity:     quantity,
		DynamicProps: domain.Props{
			"acquiredAt": time.Now().UTC().Format(time.RFC3339),
			"location": map[string]any{
				"x":     req.Location.X,
				"y":     req.Location.Y,
				"z":     req.Location.Z,
				"mapId": req.Location.MapID,
			},
		},
	}

	if err := h.playerSvc.AddItem(r.Context(), discordUserID, instance); err != nil {
		status, msg := mapServiceErrorToUserMessage(err)
		if status >= http.StatusInternalServerError {
			log.Error("Collect item failed", "discord_id", discordUserID,
				"item_id", req.ItemDefinitionID, "error", err)
		}
		respondError(w, status, msg)
		return
	}

	h.publisher.Publish(r.Context(), event.NewItemCollectedEvent(discordUserID, def.ID, quantity, *req.Location))

	respondJSON(w, http.StatusOK, CollectItemResponse{
		Message: "Item collected",
		Item:    instance,
	})
}

// Walk handles POST /api/player/{discordUserId}/walk
func (h *PlayerHandler) Walk(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	discordUserID := chi.URLParam(r, "discordUserId")
	if discordUserID == "" {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
		return
	}

	result, err := h.playerSvc.Walk(r.Context(), discordUserID)
	if err != nil {
		status, msg := mapServiceErrorToUserMessage(err)
		if status >= http.StatusInternalServerError {
			log.Error("Walk failed", "discord_id", discordUserID, "error", err)
		}
		respondError(w, status, msg)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// ensure item.Catalog satisfies the lookup dependency
var _ player.DefinitionLookup = (*item.Catalog)(nil)
