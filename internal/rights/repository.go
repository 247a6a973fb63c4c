package rights

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/caterline-erp/caterline-erp/internal/authz"
	"github.com/caterline-erp/caterline-erp/internal/platform/db"
)

// Repository persists grant rows.
type Repository interface {
	ListGrants(ctx context.Context, tenantID, userID int64) ([]authz.Grant, error)
	// ReplaceGrants swaps the user's grant matrix inside one transaction.
	ReplaceGrants(ctx context.Context, tenantID, userID int64, grants map[string]authz.Rights) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) ListGrants(ctx context.Context, tenantID, userID int64) ([]authz.Grant, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT module_code, rights FROM user_grants WHERE tenant_id=$1 AND user_id=$2 ORDER BY module_code`,
		tenantID, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grants []authz.Grant
	for rows.Next() {
		grant := authz.Grant{TenantID: tenantID, UserID: userID}
		var mask int16
		if err := rows.Scan(&grant.Module, &mask); err != nil {
			return nil, err
		}
		grant.Rights = authz.Rights(mask)
		grants = append(grants, grant)
	}
	return grants, rows.Err()
}

func (r *repository) ReplaceGrants(ctx context.Context, tenantID, userID int64, grants map[string]authz.Rights) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`DELETE FROM user_grants WHERE tenant_id=$1 AND user_id=$2`,
			tenantID, userID,
		); err != nil {
			return err
		}
		now := time.Now()
		for module, mask := range grants {
			if mask == 0 {
				continue
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO user_grants (tenant_id, user_id, module_code, rights, updated_at) VALUES ($1, $2, $3, $4, $5)`,
				tenantID, userID, module, int16(mask), now,
			); err != nil {
				return err
			}
		}
		return nil
	})
}
