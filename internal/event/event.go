package event

import (
	"context"
	"time"

	"github.com/aethelgard/game-backend/internal/domain"
)

// Type represents the type of a domain event.
type Type string

// Domain event types published to the game_events queue.
const (
	PlayerWalked      Type = "PLAYER_WALKED"
	PlayerCreated     Type = "PLAYER_CREATED"
	ItemCollected     Type = "ITEM_COLLECTED"
	PlayerLevelUp     Type = "PLAYER_LEVEL_UP"
	PlayerGoldChanged Type = "PLAYER_GOLD_CHANGED"
)

// Event is a typed, timestamped fact about a gameplay state change.
// It is JSON-encoded on the wire and consumed at-least-once.
type Event struct {
	EventType Type   `json:"eventType"`
	PlayerID  string `json:"playerId,omitempty"`
	Timestamp string `json:"timestamp"`
	Data      any    `json:"data"`
}

// Typed event payloads

// PlayerCreatedPayload is the payload for PLAYER_CREATED events.
type PlayerCreatedPayload struct {
	DiscordUserID string `json:"discordUserId"`
	CharacterName string `json:"characterName"`
}

// ItemCollectedPayload is the payload for ITEM_COLLECTED events.
type ItemCollectedPayload struct {
	ItemDefinitionID string          `json:"itemDefinitionId"`
	Quantity         int             `json:"quantity"`
	Location         domain.Location `json:"location"`
}

// PlayerWalkedPayload is the payload for PLAYER_WALKED events.
type PlayerWalkedPayload struct {
	DiscordUserID string `json:"discordUserId"`
	FirstWalk     bool   `json:"firstWalk"`
}

// PlayerLevelUpPayload is the payload for PLAYER_LEVEL_UP events.
type PlayerLevelUpPayload struct {
	OldLevel int `json:"oldLevel"`
	NewLevel int `json:"newLevel"`
}

// PlayerGoldChangedPayload is the payload for PLAYER_GOLD_CHANGED events.
type PlayerGoldChangedPayload struct {
	OldGold int    `json:"oldGold"`
	NewGold int    `json:"newGold"`
	Reason  string `json:"reason,omitempty"`
}

// Type-safe event constructors

// NewPlayerCreatedEvent creates a PLAYER_CREATED event.
func NewPlayerCreatedEvent(discordUserID, characterName string) Event {
	return Event{
		EventType: PlayerCreated,
		PlayerID:  discordUserID,
		Timestamp: now(),
		Data: PlayerCreatedPayload{
			DiscordUserID: discordUserID,
			CharacterName: characterName,
		},
	}
}

// NewItemCollectedEvent creates an ITEM_COLLECTED event.
func NewItemCollectedEvent(discordUserID, itemDefinitionID string, quantity int, location domain.Location) Event {
	return Event{
		EventType: ItemCollected,
		PlayerID:  discordUserID,
		Timestamp: now(),
		Data: ItemCollectedPayload{
			ItemDefinitionID: itemDefinitionID,
			Quantity:         quantity,
			Location:         location,
		},
	}
}

// NewPlayerWalkedEvent creates a PLAYER_WALKED event.
func NewPlayerWalkedEvent(discordUserID string, firstWalk bool) Event {
	return Event{
		EventType: PlayerWalked,
		PlayerID:  discordUserID,
		Timestamp: now(),
		Data: PlayerWalkedPayload{
			DiscordUserID: discordUserID,
			FirstWalk:     firstWalk,
		},
	}
}

// NewPlayerLevelUpEvent creates a PLAYER_LEVEL_UP event.
func NewPlayerLevelUpEvent(discordUserID string, oldLevel, newLevel int) Event {
	return Event{
		EventType: PlayerLevelUp,
		PlayerID:  discordUserID,
		Timestamp: now(),
		Data: PlayerLevelUpPayload{
			OldLevel: oldLevel,
			NewLevel: newLevel,
		},
	}
}

// NewPlayerGoldChangedEvent creates a PLAYER_GOLD_CHANGED event.
func NewPlayerGoldChangedEvent(discordUserID string, oldGold, newGold int, reason string) Event {
	return Event{
		EventType: PlayerGoldChanged,
		PlayerID:  discordUserID,
		Timestamp: now(),
		Data: PlayerGoldChangedPayload{
			OldGold: oldGold,
			NewGold: newGold,
			Reason:  reason,
		},
	}
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// Publisher publishes domain events. Publication is best-effort: a failed
// publish is logged by the implementation and never surfaced to the caller.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// Sink receives consumed events for analytics persistence. A sink must
// tolerate duplicate deliveries; the queue contract is at-least-once.
type Sink interface {
	Record(ctx context.Context, event Event) error
}
