// Package events carries planning run and promise query events to an
// in-process log or a Kafka topic.
package events

import (
	"context"
	"time"
)

// Event is one planning event. StreamID groups the events of a run or query.
type Event struct {
	Type       string      `json:"type"`
	StreamID   string      `json:"stream_id"`
	Sequence   int         `json:"sequence"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

// NewEvent stamps an event with the current time. Sequence is assigned by the store.
func NewEvent(eventType, streamID string, payload interface{}) Event {
	return Event{
		Type:       eventType,
		StreamID:   streamID,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// Publisher delivers planning events to their consumers
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher discards events
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
