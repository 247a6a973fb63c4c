package eventtypes

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/caterline-erp/caterline-erp/internal/masterdata/shared"
)

type Repository interface {
	List(ctx context.Context, tenantID int64, filters shared.ListFilters) ([]EventType, int, error)
	Get(ctx context.Context, tenantID, id int64) (EventType, error)
	Create(ctx context.Context, tenantID int64, et EventType) (EventType, error)
	Update(ctx context.Context, tenantID, id int64, et EventType) error
	Delete(ctx context.Context, tenantID, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context, tenantID int64, filters shared.ListFilters) ([]EventType, int, error) {
	query := `SELECT id, code, name, description FROM event_types WHERE tenant_id=$1`
	args := []interface{}{tenantID}
	argCount := 1

	if filters.Search != "" {
		argCount++
		query += ` AND (name ILIKE $` + strconv.Itoa(argCount) + ` OR code ILIKE $` + strconv.Itoa(argCount) + `)`
		args = append(args, "%"+filters.Search+"%")
	}

	countQuery := `SELECT COUNT(*) FROM event_types WHERE tenant_id=$1`
	countArgs := []interface{}{tenantID}
	if filters.Search != "" {
		countQuery += ` AND (name ILIKE $2 OR code ILIKE $2)`
		countArgs = append(countArgs, "%"+filters.Search+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += " ORDER BY " + sortOrder(filters.SortBy, filters.SortDir)

	if filters.Limit > 0 {
		argCount++
		query += ` LIMIT $` + strconv.Itoa(argCount)
		args = append(args, filters.Limit)

		argCount++
		query += ` OFFSET $` + strconv.Itoa(argCount)
		offset := (filters.Page - 1) * filters.Limit
		if offset < 0 {
			offset = 0
		}
		args = append(args, offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var types []EventType
	for rows.Next() {
		var et EventType
		var desc *string
		if err := rows.Scan(&et.ID, &et.Code, &et.Name, &desc); err != nil {
			return nil, 0, err
		}
		if desc != nil {
			et.Description = *desc
		}
		types = append(types, et)
	}
	return types, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, tenantID, id int64) (EventType, error) {
	var et EventType
	var desc *string
	err := r.pool.QueryRow(ctx,
		`SELECT id, code, name, description FROM event_types WHERE tenant_id=$1 AND id=$2`,
		tenantID, id,
	).Scan(&et.ID, &et.Code, &et.Name, &desc)
	if errors.Is(err, pgx.ErrNoRows) {
		return EventType{}, shared.ErrNotFound
	}
	if err != nil {
		return EventType{}, err
	}
	if desc != nil {
		et.Description = *desc
	}
	return et, nil
}

func (r *repository) Create(ctx context.Context, tenantID int64, et EventType) (EventType, error) {
	now := time.Now()
	err := r.pool.QueryRow(ctx,
		`INSERT INTO event_types (tenant_id, code, name, description, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $5) RETURNING id`,
		tenantID, et.Code, et.Name, et.Description, now,
	).Scan(&et.ID)
	if err != nil {
		return EventType{}, err
	}
	return et, nil
}

func (r *repository) Update(ctx context.Context, tenantID, id int64, et EventType) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE event_types SET code=$3, name=$4, description=$5, updated_at=$6 WHERE tenant_id=$1 AND id=$2`,
		tenantID, id, et.Code, et.Name, et.Description, time.Now(),
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
	tag, err := r.pool.Exec(ctx, `DELETE FROM event_types WHERE tenant_id=$1 AND id=$2`, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func sortOrder(sortBy, sortDir string) string {
	dir := "ASC"
	if sortDir == "desc" {
		dir = "DESC"
	}
	switch sortBy {
	case "code":
		return "code " + dir
	default:
		return "name " + dir
	}
}
