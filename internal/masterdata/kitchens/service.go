package kitchens

import (
	"context"
	"errors"
	"strings"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, tenantID int64) ([]KitchenArea, error) {
	return s.repo.List(ctx, tenantID)
}

func (s *Service) Get(ctx context.Context, tenantID, id int64) (KitchenArea, error) {
	return s.repo.Get(ctx, tenantID, id)
}

func (s *Service) Create(ctx context.Context, tenantID int64, area KitchenArea) (KitchenArea, error) {
	if err := s.validate(area); err != nil {
		return KitchenArea{}, err
	}
	return s.repo.Create(ctx, tenantID, area)
}

func (s *Service) Update(ctx context.Context, tenantID, id int64, area KitchenArea) error {
	if err := s.validate(area); err != nil {
		return err
	}
	return s.repo.Update(ctx, tenantID, id, area)
}

func (s *Service) Delete(ctx context.Context, tenantID, id int64) error {
	return s.repo.Delete(ctx, tenantID, id)
}

func (s *Service) validate(area KitchenArea) error {
	if strings.TrimSpace(area.Code) == "" {
		return errors.New("kitchen area code is required")
	}
	if strings.TrimSpace(area.Name) == "" {
		return errors.New("kitchen area name is required")
	}
	if area.Capacity < 0 {
		return errors.New("kitchen area capacity must not be negative")
	}
	return nil
}
