package acl

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"cadastre/internal/accesscontrol/models"
	id "cadastre/pkg/domain"
)

// Postgres persists the access control list. Idempotency rides on the
// primary key: a repeated grant conflicts and changes nothing.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Migrate creates the acl table when it does not exist yet.
func (s *Postgres) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS access_control_list (
			principal  TEXT PRIMARY KEY,
			granted_by TEXT NOT NULL,
			granted_at TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("migrate access_control_list: %w", err)
	}
	return nil
}

func (s *Postgres) Grant(ctx context.Context, entry models.Entry) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO access_control_list (principal, granted_by, granted_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (principal) DO NOTHING`,
		entry.Principal.String(), entry.GrantedBy.String(), entry.GrantedAt,
	)
	if err != nil {
		return false, fmt.Errorf("grant principal: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Postgres) Revoke(ctx context.Context, principal id.Principal) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM access_control_list WHERE principal = $1`,
		principal.String(),
	)
	if err != nil {
		return false, fmt.Errorf("revoke principal: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Postgres) IsAuthorized(ctx context.Context, principal id.Principal) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM access_control_list WHERE principal = $1)`,
		principal.String(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("lookup principal: %w", err)
	}
	return exists, nil
}

func (s *Postgres) List(ctx context.Context) ([]models.Entry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT principal, granted_by, granted_at FROM access_control_list`)
	if err != nil {
		return nil, fmt.Errorf("list principals: %w", err)
	}
	defer rows.Close()

	var out []models.Entry
	for rows.Next() {
		var (
			entry     models.Entry
			principal string
			grantedBy string
		)
		if err := rows.Scan(&principal, &grantedBy, &entry.GrantedAt); err != nil {
			return nil, fmt.Errorf("scan acl entry: %w", err)
		}
		entry.Principal = id.Principal(principal)
		entry.GrantedBy = id.Principal(grantedBy)
		out = append(out, entry)
	}
	return out, rows.Err()
}
