package authz

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed grant persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Grant returns the rights bitmask for one (tenant, user, module) key.
func (r *Repository) Grant(ctx context.Context, tenantID, userID int64, module string) (Rights, error) {
	var mask int16
	err := r.pool.QueryRow(ctx,
		`SELECT rights FROM user_grants WHERE tenant_id=$1 AND user_id=$2 AND module_code=$3`,
		tenantID, userID, module,
	).Scan(&mask)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return Rights(mask), nil
}

// Snapshot loads all grants for a user in one query.
func (r *Repository) Snapshot(ctx context.Context, tenantID, userID int64) (Snapshot, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT module_code, rights FROM user_grants WHERE tenant_id=$1 AND user_id=$2`,
		tenantID, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshot := make(Snapshot)
	for rows.Next() {
		var module string
		var mask int16
		if err := rows.Scan(&module, &mask); err != nil {
			return nil, err
		}
		snapshot[module] = Rights(mask)
	}
	return snapshot, rows.Err()
}
