package event

import (
	"encoding/json"
	"fmt"
	"time"
)

var knownTypes = map[Type]bool{
	PlayerWalked:      true,
	PlayerCreated:     true,
	ItemCollected:     true,
	PlayerLevelUp:     true,
	PlayerGoldChanged: true,
}

// Decode parses a wire message into an Event. The payload stays as decoded
// JSON (map/slice/scalar); consumers that need a typed payload re-marshal.
// Unknown event types and unparseable timestamps are rejected so the
// consumer can dead-letter the message instead of persisting garbage.
func Decode(body []byte) (Event, error) {
	var evt Event
	if err := json.Unmarshal(body, &evt); err != nil {
		return Event{}, fmt.Errorf("failed to decode event: %w", err)
	}

	if !knownTypes[evt.EventType] {
		return Event{}, fmt.Errorf("unknown event type %q", evt.EventType)
	}

	if evt.Timestamp != "" {
		if _, err := time.Parse(time.RFC3339, evt.Timestamp); err != nil {
			return Event{}, fmt.Errorf("invalid event timestamp %q: %w", evt.Timestamp, err)
		}
	}

	return evt, nil
}

// ParseTimestamp returns the event time, falling back to the current time
// when the event carries no timestamp.
func (e Event) ParseTimestamp() time.Time {
	if e.Timestamp == "" {
		return time.Now().UTC()
	}
	t, err := time.Parse(time.RFC3339, e.Timestamp)
	if err != nil {
		return time.Now().UTC()
	}
	return t
}
