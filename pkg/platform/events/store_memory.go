package events

import (
	"context"
	"sync"

	id "cadastre/pkg/domain"
)

// InMemoryStore keeps events in an append-only slice. Suitable for tests and
// single-process deployments; the slice is never compacted.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *InMemoryStore) ListByLocation(_ context.Context, location id.Location) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	for _, e := range s.events {
		if e.Location == location {
			out = append(out, e)
		}
	}
	return out, nil
}

// All returns every stored event in emission order. Test helper.
func (s *InMemoryStore) All() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}
