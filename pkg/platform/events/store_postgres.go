package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	id "cadastre/pkg/domain"
)

// PostgresStore implements Store using the transactional outbox pattern.
// Events are written to the outbox table and published to Kafka by the outbox
// worker; the table doubles as the queryable local event log.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a PostgreSQL event store that writes to the outbox.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const schema = `
CREATE TABLE IF NOT EXISTS property_events (
    id           UUID PRIMARY KEY,
    category     TEXT        NOT NULL,
    action       TEXT        NOT NULL,
    location     TEXT        NOT NULL,
    payload      JSONB       NOT NULL,
    occurred_at  TIMESTAMPTZ NOT NULL,
    published_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS property_events_location_idx
    ON property_events (location, occurred_at);
CREATE INDEX IF NOT EXISTS property_events_unpublished_idx
    ON property_events (occurred_at) WHERE published_at IS NULL;
`

// Migrate creates the outbox table when it does not exist yet.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate property_events: %w", err)
	}
	return nil
}

// payload is the JSON structure stored in the outbox and published to Kafka.
type payload struct {
	ID        string `json:"id"`
	Category  string `json:"category"`
	Timestamp string `json:"timestamp"`
	Action    string `json:"action"`
	Location  string `json:"location"`
	Actor     string `json:"actor,omitempty"`
	From      string `json:"from,omitempty"`
	To        string `json:"to,omitempty"`
	Status    string `json:"status,omitempty"`
	Kind      string `json:"kind,omitempty"`
	Price     uint64 `json:"price,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	ClientIP  string `json:"client_ip,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}

func encodePayload(eventID uuid.UUID, event Event) ([]byte, error) {
	p := payload{
		ID:        eventID.String(),
		Category:  string(event.Action.Category()),
		Timestamp: event.Timestamp.Format(time.RFC3339Nano),
		Action:    string(event.Action),
		Location:  event.Location.String(),
		Actor:     event.Actor.String(),
		From:      event.From.String(),
		To:        event.To.String(),
		Kind:      event.Kind.String(),
		Price:     event.Price,
		RequestID: event.RequestID,
		ClientIP:  event.ClientIP,
		UserAgent: event.UserAgent,
	}
	if event.Status.Set {
		p.Status = event.Status.Value.String()
	}
	return json.Marshal(p)
}

func decodePayload(raw []byte) (Event, error) {
	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return Event{}, fmt.Errorf("decode event payload: %w", err)
	}
	ts, err := time.Parse(time.RFC3339Nano, p.Timestamp)
	if err != nil {
		return Event{}, fmt.Errorf("decode event timestamp: %w", err)
	}
	event := Event{
		Timestamp: ts,
		Action:    Action(p.Action),
		Location:  id.Location(p.Location),
		Actor:     id.Principal(p.Actor),
		From:      id.Principal(p.From),
		To:        id.Principal(p.To),
		Kind:      id.TransactionKind(p.Kind),
		Price:     p.Price,
		RequestID: p.RequestID,
		ClientIP:  p.ClientIP,
		UserAgent: p.UserAgent,
	}
	if p.Status != "" {
		event.Status = StatusOf(id.PropertyStatus(p.Status))
	}
	return event, nil
}

// Append writes an event to the outbox table for Kafka publishing.
func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	eventID := uuid.New()
	raw, err := encodePayload(eventID, event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO property_events (id, category, action, location, payload, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		eventID, string(event.Action.Category()), string(event.Action),
		event.Location.String(), raw, event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// ListByLocation returns events for one location in emission order.
func (s *PostgresStore) ListByLocation(ctx context.Context, location id.Location) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT payload FROM property_events
		WHERE location = $1
		ORDER BY occurred_at`, location.String())
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		event, err := decodePayload(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, event)
	}
	return out, rows.Err()
}

// OutboxEntry is one unpublished row handed to the outbox worker.
type OutboxEntry struct {
	ID      uuid.UUID
	Payload []byte
	Event   Event
}

// FetchUnpublished returns up to limit unpublished entries, oldest first.
func (s *PostgresStore) FetchUnpublished(ctx context.Context, limit int) ([]OutboxEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, payload FROM property_events
		WHERE published_at IS NULL
		ORDER BY occurred_at
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch unpublished events: %w", err)
	}
	defer rows.Close()

	var out []OutboxEntry
	for rows.Next() {
		var entry OutboxEntry
		if err := rows.Scan(&entry.ID, &entry.Payload); err != nil {
			return nil, fmt.Errorf("scan outbox entry: %w", err)
		}
		event, err := decodePayload(entry.Payload)
		if err != nil {
			return nil, err
		}
		entry.Event = event
		out = append(out, entry)
	}
	return out, rows.Err()
}

// MarkPublished stamps entries after a successful Kafka produce.
func (s *PostgresStore) MarkPublished(ctx context.Context, ids []uuid.UUID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	strIDs := make([]string, len(ids))
	for i, eventID := range ids {
		strIDs[i] = eventID.String()
	}
	_, err := s.db.ExecContext(ctx, `
		UPDATE property_events SET published_at = $1
		WHERE id = ANY($2::uuid[])`, at, pq.Array(strIDs))
	if err != nil {
		return fmt.Errorf("mark events published: %w", err)
	}
	return nil
}
