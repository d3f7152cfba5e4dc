package property

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"cadastre/internal/property/models"
	id "cadastre/pkg/domain"
	"cadastre/pkg/platform/sentinel"
)

// Postgres persists property records. Execute wraps validate+mutate in a
// transaction holding a FOR UPDATE row lock, giving the same atomicity the
// in-memory store gets from its mutex.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Migrate creates the properties table when it does not exist yet.
func (s *Postgres) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS properties (
			location          TEXT PRIMARY KEY,
			owner             TEXT NOT NULL,
			price             BIGINT NOT NULL,
			description       TEXT NOT NULL DEFAULT '',
			area              BIGINT NOT NULL CHECK (area > 0),
			status            TEXT NOT NULL,
			legal_documents   TEXT NOT NULL DEFAULT '',
			ownership_history TEXT[] NOT NULL DEFAULT '{}',
			is_inspected      BOOLEAN NOT NULL DEFAULT FALSE,
			is_viewed         BOOLEAN NOT NULL DEFAULT FALSE,
			is_used           BOOLEAN NOT NULL DEFAULT FALSE,
			created_at        TIMESTAMPTZ NOT NULL,
			updated_at        TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("migrate properties: %w", err)
	}
	return nil
}

func (s *Postgres) Create(ctx context.Context, record *models.PropertyRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO properties (location, owner, price, description, area, status,
			legal_documents, ownership_history, is_inspected, is_viewed, is_used,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		record.Location.String(), record.Owner.String(), int64(record.Price),
		record.Description, int64(record.Area), record.Status.String(),
		record.LegalDocuments, historyToStrings(record.OwnershipHistory),
		record.IsInspected, record.IsViewed, record.IsUsed,
		record.CreatedAt, record.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrAlreadyExists
		}
		return fmt.Errorf("create property: %w", err)
	}
	return nil
}

func (s *Postgres) Find(ctx context.Context, location id.Location) (*models.PropertyRecord, error) {
	record, err := scanRecord(s.pool.QueryRow(ctx, selectQuery, location.String()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find property: %w", err)
	}
	return record, nil
}

func (s *Postgres) Execute(ctx context.Context, location id.Location, validate func(*models.PropertyRecord) error, mutate func(*models.PropertyRecord)) (*models.PropertyRecord, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin property tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	record, err := scanRecord(tx.QueryRow(ctx, selectQuery+" FOR UPDATE", location.String()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("lock property: %w", err)
	}

	if err := validate(record); err != nil {
		return nil, err
	}
	mutate(record)

	_, err = tx.Exec(ctx, `
		UPDATE properties SET owner = $2, price = $3, description = $4, status = $5,
			legal_documents = $6, ownership_history = $7, is_inspected = $8,
			is_viewed = $9, is_used = $10, updated_at = $11
		WHERE location = $1`,
		record.Location.String(), record.Owner.String(), int64(record.Price),
		record.Description, record.Status.String(), record.LegalDocuments,
		historyToStrings(record.OwnershipHistory),
		record.IsInspected, record.IsViewed, record.IsUsed, record.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("update property: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit property tx: %w", err)
	}
	return record, nil
}

const selectQuery = `
	SELECT location, owner, price, description, area, status, legal_documents,
		ownership_history, is_inspected, is_viewed, is_used, created_at, updated_at
	FROM properties WHERE location = $1`

func scanRecord(row pgx.Row) (*models.PropertyRecord, error) {
	var (
		record   models.PropertyRecord
		location string
		owner    string
		price    int64
		area     int64
		status   string
		history  []string
	)
	err := row.Scan(&location, &owner, &price, &record.Description, &area, &status,
		&record.LegalDocuments, &history, &record.IsInspected, &record.IsViewed,
		&record.IsUsed, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return nil, err
	}
	record.Location = id.Location(location)
	record.Owner = id.Principal(owner)
	record.Price = uint64(price)
	record.Area = uint64(area)
	record.Status = id.PropertyStatus(status)
	record.OwnershipHistory = make([]id.Principal, len(history))
	for i, h := range history {
		record.OwnershipHistory[i] = id.Principal(h)
	}
	return &record, nil
}

func historyToStrings(history []id.Principal) []string {
	out := make([]string, len(history))
	for i, p := range history {
		out[i] = p.String()
	}
	return out
}
