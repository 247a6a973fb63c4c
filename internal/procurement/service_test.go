package procurement

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/caterline-erp/caterline-erp/internal/platform/httpx"
	"github.com/caterline-erp/caterline-erp/internal/shared"
)

type memoryRepo struct {
	orders map[int64]PurchaseOrder
	nextID int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{orders: make(map[int64]PurchaseOrder), nextID: 1}
}

func (m *memoryRepo) List(ctx context.Context, tenantID int64) ([]PurchaseOrder, error) {
	out := make([]PurchaseOrder, 0, len(m.orders))
	for _, po := range m.orders {
		out = append(out, po)
	}
	return out, nil
}

func (m *memoryRepo) Get(ctx context.Context, tenantID, id int64) (PurchaseOrder, error) {
	po, ok := m.orders[id]
	if !ok {
		return PurchaseOrder{}, shared.ErrNotFound
	}
	return po, nil
}

func (m *memoryRepo) Create(ctx context.Context, tenantID int64, po PurchaseOrder) (PurchaseOrder, error) {
	po.ID = m.nextID
	m.nextID++
	m.orders[po.ID] = po
	return po, nil
}

func (m *memoryRepo) Approve(ctx context.Context, tenantID, id, approverID int64) error {
	po, ok := m.orders[id]
	if !ok {
		return shared.ErrNotFound
	}
	if po.Status != StatusDraft {
		return ErrNotDraft
	}
	po.Status = StatusApproved
	po.ApprovedBy = &approverID
	m.orders[id] = po
	return nil
}

func TestCreateComputesTotalAndStartsDraft(t *testing.T) {
	svc := NewService(newMemoryRepo())

	po, err := svc.Create(context.Background(), 1, 7, CreateInput{
		Supplier: "Fresh Produce Co",
		Lines: []CreateLineInput{
			{Item: "Basmati rice 25kg", Quantity: 4, UnitPrice: 38.50},
			{Item: "Ghee 5L", Quantity: 2, UnitPrice: 55},
		},
	})
	require.NoError(t, err)
	require.Equal(t, StatusDraft, po.Status)
	require.InDelta(t, 4*38.50+2*55, po.Total, 1e-9)
	require.NotEqual(t, po.Reference.String(), "00000000-0000-0000-0000-000000000000")
	require.Equal(t, int64(7), po.CreatedBy)
}

func TestCreateValidatesInput(t *testing.T) {
	svc := NewService(newMemoryRepo())

	_, err := svc.Create(context.Background(), 1, 7, CreateInput{Supplier: "No Lines Ltd"})
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Create(context.Background(), 1, 7, CreateInput{
		Supplier: "Bad Qty Ltd",
		Lines:    []CreateLineInput{{Item: "Flour", Quantity: 0, UnitPrice: 10}},
	})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestApproveLifecycle(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	po, err := svc.Create(ctx, 1, 7, CreateInput{
		Supplier: "Fresh Produce Co",
		Lines:    []CreateLineInput{{Item: "Paneer 10kg", Quantity: 1, UnitPrice: 80}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Approve(ctx, 1, po.ID, 9))

	got, err := svc.Get(ctx, 1, po.ID)
	require.NoError(t, err)
	require.Equal(t, StatusApproved, got.Status)
	require.NotNil(t, got.ApprovedBy)
	require.Equal(t, int64(9), *got.ApprovedBy)

	err = svc.Approve(ctx, 1, po.ID, 9)
	require.ErrorIs(t, err, httpx.ErrValidation)

	err = svc.Approve(ctx, 1, 999, 9)
	require.ErrorIs(t, err, httpx.ErrNotFound)
}
