package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/procurement/entity"
	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/procurement/repository"
	"github.com/google/uuid"
)

type ProductService struct {
	repo *repository.ProductRepository
}

func NewProductService(repo *repository.ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

type ProductInput struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Code    string `json:"code"`
	Active  *bool  `json:"active"`
	InStock *bool  `json:"in_stock"`
}

func (s *ProductService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Product, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

func (s *ProductService) Get(ctx context.Context, id string) (*entity.Product, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ProductService) Create(ctx context.Context, input ProductInput) (*entity.Product, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if input.Kind != entity.ProductKindLens && input.Kind != entity.ProductKindBlock {
		return nil, fmt.Errorf("unknown product kind %q", input.Kind)
	}
	existing, err := s.repo.FindByNameKind(ctx, input.Name, input.Kind)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("product %q (%s) already exists", input.Name, input.Kind)
	}

	product := &entity.Product{
		ID:     uuid.New().String()[:32],
		Name:   input.Name,
		Kind:   input.Kind,
		Code:   input.Code,
		Active: true,
	}
	if input.Active != nil {
		product.Active = *input.Active
	}
	if input.InStock != nil {
		product.InStock = *input.InStock
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) Update(ctx context.Context, id string, input ProductInput) (*entity.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		product.Name = input.Name
	}
	if input.Code != "" {
		product.Code = input.Code
	}
	if input.Active != nil {
		product.Active = *input.Active
	}
	if input.InStock != nil {
		product.InStock = *input.InStock
	}
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
