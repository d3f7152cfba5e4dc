// Package service implements the access control list operations. Only the
// registry's administrative principal may mutate the list; lookups are open
// to the rest of the system.
package service

import (
	"context"
	"log/slog"

	"cadastre/internal/accesscontrol/models"
	id "cadastre/pkg/domain"
	dErrors "cadastre/pkg/domain-errors"
	"cadastre/pkg/platform/events"
	"cadastre/pkg/requestcontext"
)

// Store is the persistence the service needs. Both the in-memory and the
// Postgres implementation satisfy it.
type Store interface {
	Grant(ctx context.Context, entry models.Entry) (bool, error)
	Revoke(ctx context.Context, principal id.Principal) (bool, error)
	IsAuthorized(ctx context.Context, principal id.Principal) (bool, error)
	List(ctx context.Context) ([]models.Entry, error)
}

// Publisher is the slice of the event pipeline this service emits into.
type Publisher interface {
	Emit(ctx context.Context, event events.Event) error
}

// AccessControlService guards the registry's access control list. The admin
// principal is fixed at construction; it is the registry's own administrator,
// distinct from any property's owner.
type AccessControlService struct {
	admin     id.Principal
	store     Store
	publisher Publisher
	logger    *slog.Logger
}

func New(admin id.Principal, store Store, publisher Publisher, logger *slog.Logger) *AccessControlService {
	return &AccessControlService{
		admin:     admin,
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *AccessControlService) requireAdmin(ctx context.Context) error {
	caller := requestcontext.Principal(ctx)
	if caller.IsZero() || caller != s.admin {
		return dErrors.New(dErrors.CodeAdminOnly, "access control list is admin-only")
	}
	return nil
}

// Authorize grants a principal mutation rights. Idempotent: authorizing an
// already-authorized principal succeeds without emitting a second event.
func (s *AccessControlService) Authorize(ctx context.Context, principal id.Principal) error {
	if err := s.requireAdmin(ctx); err != nil {
		return err
	}
	if principal.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "principal cannot be empty")
	}

	changed, err := s.store.Grant(ctx, models.Entry{
		Principal: principal,
		GrantedBy: s.admin,
		GrantedAt: requestcontext.Now(ctx),
	})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to grant authorization")
	}
	if !changed {
		return nil
	}
	return s.publisher.Emit(ctx, events.Event{
		Action: events.ActionPrincipalAuthorized,
		Actor:  s.admin,
		To:     principal,
	})
}

// Revoke removes a principal's mutation rights. Idempotent: revoking an
// unauthorized principal is a no-op success.
func (s *AccessControlService) Revoke(ctx context.Context, principal id.Principal) error {
	if err := s.requireAdmin(ctx); err != nil {
		return err
	}
	if principal.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "principal cannot be empty")
	}

	changed, err := s.store.Revoke(ctx, principal)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke authorization")
	}
	if !changed {
		return nil
	}
	return s.publisher.Emit(ctx, events.Event{
		Action: events.ActionPrincipalRevoked,
		Actor:  s.admin,
		To:     principal,
	})
}

// IsAuthorized is a pure lookup; missing principals read as false.
func (s *AccessControlService) IsAuthorized(ctx context.Context, principal id.Principal) (bool, error) {
	ok, err := s.store.IsAuthorized(ctx, principal)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check authorization")
	}
	return ok, nil
}

// List returns the current grants; admin-only, the list names principals.
func (s *AccessControlService) List(ctx context.Context) ([]models.Entry, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	entries, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list authorizations")
	}
	return entries, nil
}
