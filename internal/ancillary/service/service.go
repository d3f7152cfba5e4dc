// Package service implements the ancillary side-table operations. Both reads
// and writes require an access control list grant; the tables hold financing
// terms and verification arrangements that are not public record.
package service

import (
	"context"
	"log/slog"

	"cadastre/internal/ancillary/store/ancillary"
	id "cadastre/pkg/domain"
	dErrors "cadastre/pkg/domain-errors"
	"cadastre/pkg/requestcontext"
)

// Authorizer answers access control list lookups.
type Authorizer interface {
	IsAuthorized(ctx context.Context, principal id.Principal) (bool, error)
}

// AncillaryService guards the financing, regulations, and verification
// provider tables.
type AncillaryService struct {
	store  ancillary.Store
	authz  Authorizer
	logger *slog.Logger
}

func New(store ancillary.Store, authz Authorizer, logger *slog.Logger) *AncillaryService {
	return &AncillaryService{store: store, authz: authz, logger: logger}
}

func (s *AncillaryService) requireAuthorized(ctx context.Context) error {
	caller := requestcontext.Principal(ctx)
	if caller.IsZero() {
		return dErrors.New(dErrors.CodeUnauthorized, "caller is not authorized")
	}
	authorized, err := s.authz.IsAuthorized(ctx, caller)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check access control list")
	}
	if !authorized {
		return dErrors.New(dErrors.CodeUnauthorized, "caller is not authorized")
	}
	return nil
}

// SetFinancing records financing details for a location. The location need
// not have a property record; the tables drift independently.
func (s *AncillaryService) SetFinancing(ctx context.Context, location id.Location, details string) error {
	if err := s.requireAuthorized(ctx); err != nil {
		return err
	}
	if err := s.store.SetFinancing(ctx, location, details); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store financing details")
	}
	return nil
}

// GetFinancing returns the financing details, or "" when none are recorded.
func (s *AncillaryService) GetFinancing(ctx context.Context, location id.Location) (string, error) {
	if err := s.requireAuthorized(ctx); err != nil {
		return "", err
	}
	details, err := s.store.GetFinancing(ctx, location)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to load financing details")
	}
	return details, nil
}

// SetRegulations overwrites the single global regulations text.
func (s *AncillaryService) SetRegulations(ctx context.Context, text string) error {
	if err := s.requireAuthorized(ctx); err != nil {
		return err
	}
	if err := s.store.SetRegulations(ctx, text); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store regulations")
	}
	return nil
}

// GetRegulations returns the global regulations text, or "" when unset.
func (s *AncillaryService) GetRegulations(ctx context.Context) (string, error) {
	if err := s.requireAuthorized(ctx); err != nil {
		return "", err
	}
	text, err := s.store.GetRegulations(ctx)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to load regulations")
	}
	return text, nil
}

// SetProviders overwrites the ordered verification provider list for a
// location.
func (s *AncillaryService) SetProviders(ctx context.Context, location id.Location, providers []id.Principal) error {
	if err := s.requireAuthorized(ctx); err != nil {
		return err
	}
	if err := s.store.SetProviders(ctx, location, providers); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store verification providers")
	}
	return nil
}

// GetProviders returns the provider list in stored order; nil when unset.
func (s *AncillaryService) GetProviders(ctx context.Context, location id.Location) ([]id.Principal, error) {
	if err := s.requireAuthorized(ctx); err != nil {
		return nil, err
	}
	providers, err := s.store.GetProviders(ctx, location)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load verification providers")
	}
	return providers, nil
}
