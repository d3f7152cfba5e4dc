// Package property provides the property record stores. Both implementations
// guarantee that Execute runs its validate and mutate callbacks under one
// exclusion region, so every operation is a single atomic state transition:
// it either fully applies or fails before any mutation becomes observable.
package property

import (
	"context"
	"sync"

	"cadastre/internal/property/models"
	id "cadastre/pkg/domain"
	"cadastre/pkg/platform/sentinel"
)

// InMemory keeps property records in a map guarded by a RWMutex.
type InMemory struct {
	mu      sync.RWMutex
	records map[id.Location]*models.PropertyRecord
}

func NewInMemory() *InMemory {
	return &InMemory{records: make(map[id.Location]*models.PropertyRecord)}
}

// Create inserts a fresh record. Returns sentinel.ErrAlreadyExists when the
// location is taken; records are permanent, so the collision never resolves.
func (s *InMemory) Create(_ context.Context, record *models.PropertyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[record.Location]; ok {
		return sentinel.ErrAlreadyExists
	}
	s.records[record.Location] = record.Clone()
	return nil
}

// Find returns a snapshot of the record, or sentinel.ErrNotFound.
func (s *InMemory) Find(_ context.Context, location id.Location) (*models.PropertyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[location]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return record.Clone(), nil
}

// Execute atomically validates and mutates one record while holding the write
// lock. A validation error leaves the record untouched. The returned record
// is a post-mutation snapshot.
func (s *InMemory) Execute(_ context.Context, location id.Location, validate func(*models.PropertyRecord) error, mutate func(*models.PropertyRecord)) (*models.PropertyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[location]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if err := validate(record); err != nil {
		return nil, err
	}
	mutate(record)
	return record.Clone(), nil
}
