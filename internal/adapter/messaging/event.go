// Package messaging publishes intent lifecycle events to NATS.
package messaging

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// Event is the envelope every published message carries.
type Event struct {
	ID          string          `json:"event_id"`
	Type        string          `json:"type"`
	Version     int             `json:"version"`
	Source      string          `json:"source"`
	OccurredAt  time.Time       `json:"occurred_at"`
	AggregateID string          `json:"aggregate_id"`
	Data        json.RawMessage `json:"data"`
}

// NewEvent wraps data in an envelope with a fresh ULID.
func NewEvent(eventType, source, aggregateID string, data any) (*Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshaling event data: %w", err)
	}
	return &Event{
		ID:          ulid.Make().String(),
		Type:        eventType,
		Version:     1,
		Source:      source,
		OccurredAt:  time.Now().UTC(),
		AggregateID: aggregateID,
		Data:        raw,
	}, nil
}
