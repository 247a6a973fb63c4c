// Package procurement manages purchase orders for catering supplies.
package procurement

import (
	"time"

	"github.com/google/uuid"
)

// Purchase order lifecycle states.
const (
	StatusDraft    = "DRAFT"
	StatusApproved = "APPROVED"
)

// PurchaseOrder is a supply order raised against a supplier.
type PurchaseOrder struct {
	ID         int64     `json:"id"`
	Reference  uuid.UUID `json:"reference"`
	Supplier   string    `json:"supplier"`
	Status     string    `json:"status"`
	Total      float64   `json:"total"`
	Lines      []POLine  `json:"lines"`
	CreatedBy  int64     `json:"createdBy"`
	ApprovedBy *int64    `json:"approvedBy,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// POLine is one ordered item.
type POLine struct {
	ID        int64   `json:"id"`
	Item      string  `json:"item"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// CreateInput carries fields for a new purchase order.
type CreateInput struct {
	Supplier string            `json:"supplier" validate:"required"`
	Lines    []CreateLineInput `json:"lines" validate:"required,min=1,dive"`
}

// CreateLineInput is one line of a create request.
type CreateLineInput struct {
	Item      string  `json:"item" validate:"required"`
	Quantity  float64 `json:"quantity" validate:"gt=0"`
	UnitPrice float64 `json:"unitPrice" validate:"gte=0"`
}
