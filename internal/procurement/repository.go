package procurement

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/caterline-erp/caterline-erp/internal/platform/db"
	"github.com/caterline-erp/caterline-erp/internal/shared"
)

// ErrNotDraft reports an approval attempt on an order past DRAFT.
var ErrNotDraft = errors.New("procurement: purchase order is not in draft")

// Repository persists purchase orders.
type Repository interface {
	List(ctx context.Context, tenantID int64) ([]PurchaseOrder, error)
	Get(ctx context.Context, tenantID, id int64) (PurchaseOrder, error)
	Create(ctx context.Context, tenantID int64, po PurchaseOrder) (PurchaseOrder, error)
	Approve(ctx context.Context, tenantID, id, approverID int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context, tenantID int64) ([]PurchaseOrder, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, reference, supplier, status, total, created_by, approved_by, created_at, updated_at
		 FROM purchase_orders WHERE tenant_id=$1 ORDER BY created_at DESC`,
		tenantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []PurchaseOrder
	for rows.Next() {
		po, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, po)
	}
	return orders, rows.Err()
}

func (r *repository) Get(ctx context.Context, tenantID, id int64) (PurchaseOrder, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, reference, supplier, status, total, created_by, approved_by, created_at, updated_at
		 FROM purchase_orders WHERE tenant_id=$1 AND id=$2`,
		tenantID, id,
	)
	po, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return PurchaseOrder{}, shared.ErrNotFound
	}
	if err != nil {
		return PurchaseOrder{}, err
	}

	lineRows, err := r.pool.Query(ctx,
		`SELECT id, item, quantity, unit_price FROM purchase_order_lines WHERE order_id=$1 ORDER BY id`,
		po.ID,
	)
	if err != nil {
		return PurchaseOrder{}, err
	}
	defer lineRows.Close()
	for lineRows.Next() {
		var line POLine
		if err := lineRows.Scan(&line.ID, &line.Item, &line.Quantity, &line.UnitPrice); err != nil {
			return PurchaseOrder{}, err
		}
		po.Lines = append(po.Lines, line)
	}
	return po, lineRows.Err()
}

func (r *repository) Create(ctx context.Context, tenantID int64, po PurchaseOrder) (PurchaseOrder, error) {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		now := time.Now()
		po.CreatedAt = now
		po.UpdatedAt = now
		if err := tx.QueryRow(ctx,
			`INSERT INTO purchase_orders (tenant_id, reference, supplier, status, total, created_by, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $7) RETURNING id`,
			tenantID, po.Reference, po.Supplier, po.Status, po.Total, po.CreatedBy, now,
		).Scan(&po.ID); err != nil {
			return err
		}
		for i := range po.Lines {
			if err := tx.QueryRow(ctx,
				`INSERT INTO purchase_order_lines (order_id, item, quantity, unit_price) VALUES ($1, $2, $3, $4) RETURNING id`,
				po.ID, po.Lines[i].Item, po.Lines[i].Quantity, po.Lines[i].UnitPrice,
			).Scan(&po.Lines[i].ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return PurchaseOrder{}, err
	}
	return po, nil
}

func (r *repository) Approve(ctx context.Context, tenantID, id, approverID int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE purchase_orders SET status=$4, approved_by=$3, updated_at=$5
		 WHERE tenant_id=$1 AND id=$2 AND status=$6`,
		tenantID, id, approverID, StatusApproved, time.Now(), StatusDraft,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Missing row and wrong state are disambiguated by a lookup.
		var status string
		err := r.pool.QueryRow(ctx,
			`SELECT status FROM purchase_orders WHERE tenant_id=$1 AND id=$2`, tenantID, id,
		).Scan(&status)
		if errors.Is(err, pgx.ErrNoRows) {
			return shared.ErrNotFound
		}
		if err != nil {
			return err
		}
		return ErrNotDraft
	}
	return nil
}

func scanOrder(row pgx.Row) (PurchaseOrder, error) {
	var po PurchaseOrder
	var ref uuid.UUID
	if err := row.Scan(&po.ID, &ref, &po.Supplier, &po.Status, &po.Total, &po.CreatedBy, &po.ApprovedBy, &po.CreatedAt, &po.UpdatedAt); err != nil {
		return PurchaseOrder{}, err
	}
	po.Reference = ref
	return po, nil
}
