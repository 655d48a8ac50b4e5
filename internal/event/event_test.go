package event

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aethelgard/game-backend/internal/domain"
)

func TestDecodeRoundTrip(t *testing.T) {
	evt := NewItemCollectedEvent("discord-1", "ITEM_IRON_ORE", 3, domain.Location{X: 1, Y: 2, MapID: "aethelgard-fields"})

	body, err := json.Marshal(evt)
	require.NoError(t, err)

	decoded, err := Decode(body)
	require.NoError(t, err)
	assert.Equal(t, ItemCollected, decoded.EventType)
	assert.Equal(t, "discord-1", decoded.PlayerID)
	assert.Equal(t, evt.Timestamp, decoded.Timestamp)

	payload, ok := decoded.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ITEM_IRON_ORE", payload["itemDefinitionId"])
	assert.Equal(t, float64(3), payload["quantity"])
}

func TestDecodeUnknownType(t *testing.T) {
	_, err := Decode([]byte(`{"eventType":"PLAYER_TELEPORTED","timestamp":"2026-01-01T00:00:00Z"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown event type")
}

func TestDecodeMalformedBody(t *testing.T) {
	_, err := Decode([]byte(`{not json`))
	assert.Error(t, err)
}

func TestDecodeBadTimestamp(t *testing.T) {
	_, err := Decode([]byte(`{"eventType":"PLAYER_WALKED","timestamp":"yesterday"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid event timestamp")
}

func TestDecodeEmptyTimestampAccepted(t *testing.T) {
	evt, err := Decode([]byte(`{"eventType":"PLAYER_CREATED"}`))
	require.NoError(t, err)
	assert.Equal(t, PlayerCreated, evt.EventType)
}

func TestConstructorsStampTimestamp(t *testing.T) {
	evt := NewPlayerWalkedEvent("discord-1", true)

	parsed, err := time.Parse(time.RFC3339, evt.Timestamp)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), parsed, 5*time.Second)

	payload, ok := evt.Data.(PlayerWalkedPayload)
	require.True(t, ok)
	assert.True(t, payload.FirstWalk)
}

func TestParseTimestamp(t *testing.T) {
	evt := Event{Timestamp: "2026-03-15T12:30:00Z"}
	assert.Equal(t, time.Date(2026, 3, 15, 12, 30, 0, 0, time.UTC), evt.ParseTimestamp())

	// Missing and unparseable timestamps fall back to now.
	assert.WithinDuration(t, time.Now().UTC(), Event{}.ParseTimestamp(), 5*time.Second)
	assert.WithinDuration(t, time.Now().UTC(), Event{Timestamp: "bogus"}.ParseTimestamp(), 5*time.Second)
}
