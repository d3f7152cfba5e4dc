// Package ancillary provides the side-table stores: per-location financing
// text, a single global regulations text, and per-location ordered
// verification provider lists. Reads of unset keys return the zero value,
// never an error.
package ancillary

import (
	"context"

	id "cadastre/pkg/domain"
)

// Store is the persistence contract shared by the in-memory and Redis
// implementations.
type Store interface {
	SetFinancing(ctx context.Context, location id.Location, details string) error
	GetFinancing(ctx context.Context, location id.Location) (string, error)
	SetRegulations(ctx context.Context, text string) error
	GetRegulations(ctx context.Context) (string, error)
	SetProviders(ctx context.Context, location id.Location, providers []id.Principal) error
	GetProviders(ctx context.Context, location id.Location) ([]id.Principal, error)
}
