package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/procurement/entity"
	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/procurement/repository"
	"github.com/google/uuid"
)

type SupplierService struct {
	repo *repository.SupplierRepository
}

func NewSupplierService(repo *repository.SupplierRepository) *SupplierService {
	return &SupplierService{repo: repo}
}

type SupplierInput struct {
	Name    string `json:"name"`
	Active  *bool  `json:"active"`
	Billing *bool  `json:"billing"`
}

func (s *SupplierService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Supplier, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

func (s *SupplierService) Get(ctx context.Context, id string) (*entity.Supplier, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *SupplierService) Create(ctx context.Context, input SupplierInput) (*entity.Supplier, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	existing, err := s.repo.FindByName(ctx, input.Name)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("supplier %q already exists", input.Name)
	}

	supplier := &entity.Supplier{
		ID:     uuid.New().String()[:32],
		Name:   input.Name,
		Active: true,
	}
	if input.Active != nil {
		supplier.Active = *input.Active
	}
	if input.Billing != nil {
		supplier.Billing = *input.Billing
	}
	if err := s.repo.Create(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

func (s *SupplierService) Update(ctx context.Context, id string, input SupplierInput) (*entity.Supplier, error) {
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" && input.Name != supplier.Name {
		existing, err := s.repo.FindByName(ctx, input.Name)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, fmt.Errorf("supplier %q already exists", input.Name)
		}
		supplier.Name = input.Name
	}
	if input.Active != nil {
		supplier.Active = *input.Active
	}
	if input.Billing != nil {
		supplier.Billing = *input.Billing
	}
	if err := s.repo.Update(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

func (s *SupplierService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
