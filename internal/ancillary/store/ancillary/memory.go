package ancillary

import (
	"context"
	"sync"

	id "cadastre/pkg/domain"
)

// InMemory keeps the side tables in maps guarded by one RWMutex.
type InMemory struct {
	mu          sync.RWMutex
	financing   map[id.Location]string
	regulations string
	providers   map[id.Location][]id.Principal
}

func NewInMemory() *InMemory {
	return &InMemory{
		financing: make(map[id.Location]string),
		providers: make(map[id.Location][]id.Principal),
	}
}

func (s *InMemory) SetFinancing(_ context.Context, location id.Location, details string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.financing[location] = details
	return nil
}

func (s *InMemory) GetFinancing(_ context.Context, location id.Location) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.financing[location], nil
}

func (s *InMemory) SetRegulations(_ context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regulations = text
	return nil
}

func (s *InMemory) GetRegulations(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.regulations, nil
}

func (s *InMemory) SetProviders(_ context.Context, location id.Location, providers []id.Principal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]id.Principal, len(providers))
	copy(cp, providers)
	s.providers[location] = cp
	return nil
}

func (s *InMemory) GetProviders(_ context.Context, location id.Location) ([]id.Principal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.providers[location]
	if !ok {
		return nil, nil
	}
	cp := make([]id.Principal, len(stored))
	copy(cp, stored)
	return cp, nil
}
