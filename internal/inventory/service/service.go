// Package service implements the listing inventory operations. Mutations are
// gated at the registry level; anyone may read the listing.
package service

import (
	"context"
	"log/slog"

	id "cadastre/pkg/domain"
	dErrors "cadastre/pkg/domain-errors"
	"cadastre/pkg/requestcontext"
)

// Store is the persistence contract for the inventory sequence.
type Store interface {
	Add(ctx context.Context, location id.Location) error
	Remove(ctx context.Context, location id.Location) error
	List(ctx context.Context) ([]id.Location, error)
}

// Authorizer answers access control list lookups.
type Authorizer interface {
	IsAuthorized(ctx context.Context, principal id.Principal) (bool, error)
}

// InventoryService maintains the ordered listing of locations. The sequence
// tracks what is advertised, not what is registered; a location may appear
// here without a property record and vice versa.
type InventoryService struct {
	store  Store
	authz  Authorizer
	logger *slog.Logger
}

func New(store Store, authz Authorizer, logger *slog.Logger) *InventoryService {
	return &InventoryService{store: store, authz: authz, logger: logger}
}

func (s *InventoryService) requireAuthorized(ctx context.Context) error {
	caller := requestcontext.Principal(ctx)
	if caller.IsZero() {
		return dErrors.New(dErrors.CodeUnauthorized, "caller is not authorized to modify the inventory")
	}
	authorized, err := s.authz.IsAuthorized(ctx, caller)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check access control list")
	}
	if !authorized {
		return dErrors.New(dErrors.CodeUnauthorized, "caller is not authorized to modify the inventory")
	}
	return nil
}

// Add appends a location to the listing. Duplicates are permitted.
func (s *InventoryService) Add(ctx context.Context, location id.Location) error {
	if err := s.requireAuthorized(ctx); err != nil {
		return err
	}
	if err := s.store.Add(ctx, location); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to add listing")
	}
	return nil
}

// Remove deletes one occurrence of the location. Absent locations are a
// silent no-op.
func (s *InventoryService) Remove(ctx context.Context, location id.Location) error {
	if err := s.requireAuthorized(ctx); err != nil {
		return err
	}
	if err := s.store.Remove(ctx, location); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to remove listing")
	}
	return nil
}

// List returns the current listing. Reads are unrestricted.
func (s *InventoryService) List(ctx context.Context) ([]id.Location, error) {
	locations, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list inventory")
	}
	return locations, nil
}
