// Package acl provides the access control list stores. Grant and Revoke are
// idempotent at the store level: repeating either is a no-op reported through
// the changed return value, never an error.
package acl

import (
	"context"
	"sync"

	"cadastre/internal/accesscontrol/models"
	id "cadastre/pkg/domain"
)

// InMemory keeps the access control list in a map guarded by a RWMutex. All
// mutations run under the write lock, so each call is one atomic transition.
type InMemory struct {
	mu      sync.RWMutex
	entries map[id.Principal]models.Entry
}

func NewInMemory() *InMemory {
	return &InMemory{entries: make(map[id.Principal]models.Entry)}
}

// Grant records an authorization. Returns false when the principal was
// already authorized.
func (s *InMemory) Grant(_ context.Context, entry models.Entry) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[entry.Principal]; ok {
		return false, nil
	}
	s.entries[entry.Principal] = entry
	return true, nil
}

// Revoke removes an authorization. Returns false when the principal was not
// authorized to begin with.
func (s *InMemory) Revoke(_ context.Context, principal id.Principal) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[principal]; !ok {
		return false, nil
	}
	delete(s.entries, principal)
	return true, nil
}

// IsAuthorized reports whether the principal holds a grant. Missing entries
// read as false.
func (s *InMemory) IsAuthorized(_ context.Context, principal id.Principal) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[principal]
	return ok, nil
}

// List returns every current grant, in no particular order.
func (s *InMemory) List(_ context.Context) ([]models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	return out, nil
}
