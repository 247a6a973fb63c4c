package eventtypes

import (
	"context"

	"github.com/caterline-erp/caterline-erp/internal/masterdata/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, tenantID int64, filters shared.ListFilters) ([]EventType, int, error) {
	return s.repo.List(ctx, tenantID, filters)
}

func (s *Service) Get(ctx context.Context, tenantID, id int64) (EventType, error) {
	return s.repo.Get(ctx, tenantID, id)
}

func (s *Service) Create(ctx context.Context, tenantID int64, et EventType) (EventType, error) {
	if err := s.validate(et); err != nil {
		return EventType{}, err
	}
	return s.repo.Create(ctx, tenantID, et)
}

func (s *Service) Update(ctx context.Context, tenantID, id int64, et EventType) error {
	if err := s.validate(et); err != nil {
		return err
	}
	return s.repo.Update(ctx, tenantID, id, et)
}

func (s *Service) Delete(ctx context.Context, tenantID, id int64) error {
	return s.repo.Delete(ctx, tenantID, id)
}
