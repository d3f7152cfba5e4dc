package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Sink is the downstream an outbox worker drains into.
type Sink interface {
	Publish(ctx context.Context, entry OutboxEntry) error
}

// Outbox is the subset of PostgresStore the worker needs; split out so tests
// can swap fakes.
type Outbox interface {
	FetchUnpublished(ctx context.Context, limit int) ([]OutboxEntry, error)
	MarkPublished(ctx context.Context, ids []uuid.UUID, at time.Time) error
}

// OutboxWorker drains unpublished events from the outbox into a sink. It
// keeps publishing best-effort: a failed produce leaves the entry unpublished
// and the next tick retries, so downstream sees at-least-once delivery in
// emission order.
type OutboxWorker struct {
	outbox   Outbox
	sink     Sink
	logger   *slog.Logger
	interval time.Duration
	batch    int
}

func NewOutboxWorker(outbox Outbox, sink Sink, logger *slog.Logger) *OutboxWorker {
	return &OutboxWorker{
		outbox:   outbox,
		sink:     sink,
		logger:   logger,
		interval: time.Second,
		batch:    100,
	}
}

// Run drains the outbox until the context is canceled.
func (w *OutboxWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.drain(ctx); err != nil {
				w.logger.ErrorContext(ctx, "outbox drain failed", "error", err.Error())
			}
		}
	}
}

func (w *OutboxWorker) drain(ctx context.Context) error {
	entries, err := w.outbox.FetchUnpublished(ctx, w.batch)
	if err != nil {
		return err
	}

	var published []uuid.UUID
	for _, entry := range entries {
		if err := w.sink.Publish(ctx, entry); err != nil {
			// Stop at the first failure to preserve emission order.
			w.logger.WarnContext(ctx, "event publish failed",
				"event_id", entry.ID.String(),
				"error", err.Error(),
			)
			break
		}
		published = append(published, entry.ID)
	}
	if len(published) == 0 {
		return nil
	}
	return w.outbox.MarkPublished(ctx, published, time.Now())
}
