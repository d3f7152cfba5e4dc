package events

import (
	"context"

	id "cadastre/pkg/domain"
)

// Store persists emitted events. It is append-only: past entries are never
// mutated, reordered, or pruned by this layer.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByLocation(ctx context.Context, location id.Location) ([]Event, error)
}
