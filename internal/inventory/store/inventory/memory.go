// Package inventory provides the listing inventory store: a plain ordered
// sequence of locations. Membership is maintained independently of the
// property records; the two may drift and no reconciliation is attempted.
package inventory

import (
	"context"
	"sync"

	id "cadastre/pkg/domain"
)

// InMemory keeps the inventory sequence guarded by a RWMutex.
type InMemory struct {
	mu        sync.RWMutex
	locations []id.Location
}

func NewInMemory() *InMemory {
	return &InMemory{}
}

// Add appends the location. Duplicates are allowed; each Add contributes one
// occurrence.
func (s *InMemory) Add(_ context.Context, location id.Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations = append(s.locations, location)
	return nil
}

// Remove deletes the first occurrence of the location by swapping the last
// element into its slot and shrinking the sequence. Order is not preserved.
// Removing an absent location is a no-op.
func (s *InMemory) Remove(_ context.Context, location id.Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, l := range s.locations {
		if l == location {
			last := len(s.locations) - 1
			s.locations[i] = s.locations[last]
			s.locations = s.locations[:last]
			return nil
		}
	}
	return nil
}

// List returns a snapshot of the current sequence.
func (s *InMemory) List(_ context.Context) ([]id.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]id.Location, len(s.locations))
	copy(out, s.locations)
	return out, nil
}
