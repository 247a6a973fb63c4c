package procurement

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/caterline-erp/caterline-erp/internal/platform/httpx"
	"github.com/caterline-erp/caterline-erp/internal/shared"
)

// Service orchestrates purchase-order operations.
type Service struct {
	repo     Repository
	validate *validator.Validate
}

// NewService constructs the service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

// List returns a tenant's purchase orders, newest first.
func (s *Service) List(ctx context.Context, tenantID int64) ([]PurchaseOrder, error) {
	return s.repo.List(ctx, tenantID)
}

// Get fetches one order including its lines.
func (s *Service) Get(ctx context.Context, tenantID, id int64) (PurchaseOrder, error) {
	po, err := s.repo.Get(ctx, tenantID, id)
	if errors.Is(err, shared.ErrNotFound) {
		return PurchaseOrder{}, httpx.ErrNotFound
	}
	return po, err
}

// Create validates input and stores a new draft order.
func (s *Service) Create(ctx context.Context, tenantID, createdBy int64, input CreateInput) (PurchaseOrder, error) {
	if err := s.validate.Struct(input); err != nil {
		return PurchaseOrder{}, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	po := PurchaseOrder{
		Reference: uuid.New(),
		Supplier:  input.Supplier,
		Status:    StatusDraft,
		CreatedBy: createdBy,
	}
	for _, line := range input.Lines {
		po.Lines = append(po.Lines, POLine{Item: line.Item, Quantity: line.Quantity, UnitPrice: line.UnitPrice})
		po.Total += line.Quantity * line.UnitPrice
	}
	return s.repo.Create(ctx, tenantID, po)
}

// Approve moves a draft order to APPROVED.
func (s *Service) Approve(ctx context.Context, tenantID, id, approverID int64) error {
	err := s.repo.Approve(ctx, tenantID, id, approverID)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		return httpx.ErrNotFound
	case errors.Is(err, ErrNotDraft):
		return fmt.Errorf("%w: order already approved", httpx.ErrValidation)
	}
	return err
}
