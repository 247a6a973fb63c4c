package kitchens

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/caterline-erp/caterline-erp/internal/masterdata/shared"
)

type Repository interface {
	List(ctx context.Context, tenantID int64) ([]KitchenArea, error)
	Get(ctx context.Context, tenantID, id int64) (KitchenArea, error)
	Create(ctx context.Context, tenantID int64, area KitchenArea) (KitchenArea, error)
	Update(ctx context.Context, tenantID, id int64, area KitchenArea) error
	Delete(ctx context.Context, tenantID, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context, tenantID int64) ([]KitchenArea, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, code, name, capacity FROM kitchen_areas WHERE tenant_id=$1 ORDER BY name`,
		tenantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var areas []KitchenArea
	for rows.Next() {
		var area KitchenArea
		if err := rows.Scan(&area.ID, &area.Code, &area.Name, &area.Capacity); err != nil {
			return nil, err
		}
		areas = append(areas, area)
	}
	return areas, rows.Err()
}

func (r *repository) Get(ctx context.Context, tenantID, id int64) (KitchenArea, error) {
	var area KitchenArea
	err := r.pool.QueryRow(ctx,
		`SELECT id, code, name, capacity FROM kitchen_areas WHERE tenant_id=$1 AND id=$2`,
		tenantID, id,
	).Scan(&area.ID, &area.Code, &area.Name, &area.Capacity)
	if errors.Is(err, pgx.ErrNoRows) {
		return KitchenArea{}, shared.ErrNotFound
	}
	if err != nil {
		return KitchenArea{}, err
	}
	return area, nil
}

func (r *repository) Create(ctx context.Context, tenantID int64, area KitchenArea) (KitchenArea, error) {
	now := time.Now()
	err := r.pool.QueryRow(ctx,
		`INSERT INTO kitchen_areas (tenant_id, code, name, capacity, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $5) RETURNING id`,
		tenantID, area.Code, area.Name, area.Capacity, now,
	).Scan(&area.ID)
	if err != nil {
		return KitchenArea{}, err
	}
	return area, nil
}

func (r *repository) Update(ctx context.Context, tenantID, id int64, area KitchenArea) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE kitchen_areas SET code=$3, name=$4, capacity=$5, updated_at=$6 WHERE tenant_id=$1 AND id=$2`,
		tenantID, id, area.Code, area.Name, area.Capacity, time.Now(),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, tenantID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM kitchen_areas WHERE tenant_id=$1 AND id=$2`, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
