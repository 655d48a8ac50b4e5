package discord

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aethelgard/game-backend/internal/domain"
)

func TestDisplayName(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"IRON_SWORD", "Iron Sword"},
		{"TREASURE_CHEST", "Treasure Chest"},
		{"COMMON", "Common"},
		{"health potion", "Health Potion"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, displayName(tt.raw))
	}
}

func TestRarityColor(t *testing.T) {
	assert.Equal(t, 0xff8000, rarityColor(domain.RarityLegendary))
	assert.Equal(t, rarityColors[domain.RarityCommon], rarityColor(domain.Rarity("UNKNOWN")))
}
