package events

import (
	"context"

	id "cadastre/pkg/domain"
	"cadastre/pkg/requestcontext"
)

// Publisher captures registry events. It is append-only and uses the storage
// layer for persistence so tests can swap sinks easily.
//
// Emit is synchronous and fail-closed for compliance events: services call it
// inside the mutation path after the state change has been applied, and a
// failed append surfaces to the caller.
type Publisher struct {
	store Store
}

func NewPublisher(store Store) *Publisher {
	return &Publisher{store: store}
}

// Emit enriches the event with request-scoped correlation values and appends
// it to the store.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if event.ClientIP == "" {
		event.ClientIP = requestcontext.ClientIP(ctx)
	}
	if event.UserAgent == "" {
		event.UserAgent = requestcontext.UserAgent(ctx)
	}
	return p.store.Append(ctx, event)
}

// List returns the events recorded for one location, in emission order.
func (p *Publisher) List(ctx context.Context, location id.Location) ([]Event, error) {
	return p.store.ListByLocation(ctx, location)
}
