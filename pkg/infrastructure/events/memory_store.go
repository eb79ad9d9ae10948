package events

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Handler receives events from the in-memory store
type Handler func(Event) error

type subscription struct {
	id      int
	types   map[string]bool
	handler Handler
}

// InMemoryEventStore keeps published events per stream and fans them out to
// subscribers. Handlers run on their own goroutine.
type InMemoryEventStore struct {
	mu      sync.RWMutex
	streams map[string][]Event
	log     []Event
	subs    []subscription
	nextSub int
	logger  *zap.Logger
}

// NewInMemoryEventStore creates an empty store
func NewInMemoryEventStore(logger *zap.Logger) *InMemoryEventStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InMemoryEventStore{
		streams: make(map[string][]Event),
		logger:  logger,
	}
}

var _ Publisher = (*InMemoryEventStore)(nil)

// Publish appends the event to its stream, numbering it from 1
func (s *InMemoryEventStore) Publish(ctx context.Context, event Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	event.Sequence = len(s.streams[event.StreamID]) + 1
	s.streams[event.StreamID] = append(s.streams[event.StreamID], event)
	s.log = append(s.log, event)
	var handlers []Handler
	for _, sub := range s.subs {
		if len(sub.types) == 0 || sub.types[event.Type] {
			handlers = append(handlers, sub.handler)
		}
	}
	s.mu.Unlock()

	for _, h := range handlers {
		go s.deliver(h, event)
	}
	return nil
}

func (s *InMemoryEventStore) deliver(h Handler, event Event) {
	if err := h(event); err != nil {
		s.logger.Warn("event handler failed",
			zap.String("event_type", event.Type),
			zap.String("stream_id", event.StreamID),
			zap.Error(err),
		)
	}
}

// ReadEvents returns the events of a stream starting at sequence fromSequence
func (s *InMemoryEventStore) ReadEvents(streamID string, fromSequence int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stream := s.streams[streamID]
	if fromSequence < 1 {
		fromSequence = 1
	}
	if fromSequence > len(stream) {
		return []Event{}, nil
	}
	return append([]Event(nil), stream[fromSequence-1:]...), nil
}

// ReadAllEvents returns every event from a zero-based position in publish order
func (s *InMemoryEventStore) ReadAllEvents(fromPosition int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if fromPosition < 0 {
		fromPosition = 0
	}
	if fromPosition >= len(s.log) {
		return []Event{}, nil
	}
	return append([]Event(nil), s.log[fromPosition:]...), nil
}

// Subscribe registers h for the given event types, or for every type when none
// are given. The returned func removes the subscription.
func (s *InMemoryEventStore) Subscribe(h Handler, eventTypes ...string) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSub++
	sub := subscription{id: s.nextSub, types: make(map[string]bool, len(eventTypes)), handler: h}
	for _, t := range eventTypes {
		sub.types[t] = true
	}
	s.subs = append(s.subs, sub)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, existing := range s.subs {
			if existing.id == sub.id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}
