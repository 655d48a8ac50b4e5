package domain

import "time"

// Account is the relational identity record for one Discord user.
// Created once per Discord ID and never mutated by the gameplay path.
type Account struct {
	ID        string    `json:"id"`
	DiscordID string    `json:"discord_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Stats holds a character's attribute block.
type Stats struct {
	Strength  int `json:"strength" bson:"strength"`
	Agility   int `json:"agility" bson:"agility"`
	Intellect int `json:"intellect" bson:"intellect"`
	Stamina   int `json:"stamina" bson:"stamina"`
	HP        int `json:"hp" bson:"hp"`
	Mana      int `json:"mana" bson:"mana"`
}

// Character is the document-store gameplay state for one Account.
// Keyed by DiscordID in the characters collection.
type Character struct {
	AccountID     string          `json:"accountId" bson:"accountId"`
	DiscordID     string          `json:"discordId" bson:"discordId"`
	CharacterName string          `json:"characterName" bson:"characterName"`
	Level         int             `json:"level" bson:"level"`
	Experience    int             `json:"experience" bson:"experience"`
	Gold          int             `json:"gold" bson:"gold"`
	Stats         Stats           `json:"stats" bson:"stats"`
	Inventory     []InventoryItem `json:"inventory" bson:"inventory"`
	QuestLog      []QuestEntry    `json:"questLog" bson:"questLog"`
}

// QuestEntry is a quest log record. Empty at creation; quest progression
// is owned by a future system.
type QuestEntry struct {
	QuestID   string    `json:"questId" bson:"questId"`
	Status    string    `json:"status" bson:"status"`
	StartedAt time.Time `json:"startedAt" bson:"startedAt"`
}

// Fixed starting values for new characters.
const (
	StartingLevel      = 1
	StartingGold       = 100
	StartingStat       = 10
	StartingHP         = 100
	StartingMana       = 50
	StartingExperience = 0
)

// NewCharacter builds a level-1 character with the fixed starting stats.
func NewCharacter(accountID, discordID, characterName string) *Character {
	return &Character{
		AccountID:     accountID,
		DiscordID:     discordID,
		CharacterName: characterName,
		Level:         StartingLevel,
		Experience:    StartingExperience,
		Gold:          StartingGold,
		Stats: Stats{
			Strength:  StartingStat,
			Agility:   StartingStat,
			Intellect: StartingStat,
			Stamina:   StartingStat,
			HP:        StartingHP,
			Mana:      StartingMana,
		},
		Inventory: []InventoryItem{},
		QuestLog:  []QuestEntry{},
	}
}

// PlayerSummary is the projection returned to API clients.
type PlayerSummary struct {
	ID            string `json:"id"`
	CharacterName string `json:"characterName"`
	Level         int    `json:"level"`
	Experience    int    `json:"experience"`
	Gold          int    `json:"gold"`
}

// Summary projects a character into the client-facing shape.
// The ID exposed to clients is the Discord ID, matching the lookup key.
func (c *Character) Summary() *PlayerSummary {
	return &PlayerSummary{
		ID:            c.DiscordID,
		CharacterName: c.CharacterName,
		Level:         c.Level,
		Experience:    c.Experience,
		Gold:          c.Gold,
	}
}
