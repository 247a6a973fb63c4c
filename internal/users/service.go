package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/caterline-erp/caterline-erp/internal/platform/httpx"
	"github.com/caterline-erp/caterline-erp/internal/shared"
)

// Service orchestrates user management.
type Service struct {
	repo     *Repository
	validate *validator.Validate
}

// NewService constructs the service.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

// List returns a tenant's users.
func (s *Service) List(ctx context.Context, tenantID int64) ([]User, error) {
	return s.repo.List(ctx, tenantID)
}

// Get fetches a single user.
func (s *Service) Get(ctx context.Context, tenantID, id int64) (User, error) {
	user, err := s.repo.Get(ctx, tenantID, id)
	if errors.Is(err, shared.ErrNotFound) {
		return User{}, httpx.ErrNotFound
	}
	return user, err
}

// Create validates input, hashes the password, and stores the user.
func (s *Service) Create(ctx context.Context, tenantID int64, input CreateInput) (User, error) {
	if err := s.validate.Struct(input); err != nil {
		return User{}, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("users: hash password: %w", err)
	}
	return s.repo.Create(ctx, tenantID, input, string(hash))
}

// Update changes mutable user fields.
func (s *Service) Update(ctx context.Context, tenantID, id int64, input UpdateInput) error {
	if err := s.validate.Struct(input); err != nil {
		return fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	err := s.repo.Update(ctx, tenantID, id, input)
	if errors.Is(err, shared.ErrNotFound) {
		return httpx.ErrNotFound
	}
	return err
}
