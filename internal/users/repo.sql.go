package users

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/caterline-erp/caterline-erp/internal/shared"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns all users for a tenant ordered by name.
func (r *Repository) List(ctx context.Context, tenantID int64) ([]User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, email, full_name, active, created_at, updated_at FROM users WHERE tenant_id=$1 ORDER BY full_name`,
		tenantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		user := User{TenantID: tenantID}
		if err := rows.Scan(&user.ID, &user.Email, &user.FullName, &user.Active, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// Get fetches a user by ID.
func (r *Repository) Get(ctx context.Context, tenantID, id int64) (User, error) {
	user := User{TenantID: tenantID}
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, full_name, active, created_at, updated_at FROM users WHERE tenant_id=$1 AND id=$2`,
		tenantID, id,
	).Scan(&user.ID, &user.Email, &user.FullName, &user.Active, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, shared.ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return user, nil
}

// Create inserts a new user with a pre-hashed password.
func (r *Repository) Create(ctx context.Context, tenantID int64, input CreateInput, passwordHash string) (User, error) {
	now := time.Now()
	user := User{TenantID: tenantID, Email: input.Email, FullName: input.FullName, Active: true, CreatedAt: now, UpdatedAt: now}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (tenant_id, email, full_name, password_hash, active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, TRUE, $5, $5) RETURNING id`,
		tenantID, input.Email, input.FullName, passwordHash, now,
	).Scan(&user.ID)
	if err != nil {
		return User{}, err
	}
	return user, nil
}

// Update changes mutable user fields.
func (r *Repository) Update(ctx context.Context, tenantID, id int64, input UpdateInput) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET full_name=$3, active=COALESCE($4, active), updated_at=$5 WHERE tenant_id=$1 AND id=$2`,
		tenantID, id, input.FullName, input.Active, time.Now(),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
