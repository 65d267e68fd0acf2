package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/procurement/entity"
	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/procurement/repository"
	"github.com/google/uuid"
)

type PriceRuleService struct {
	rules     *repository.PriceRuleRepository
	products  *repository.ProductRepository
	suppliers *repository.SupplierRepository
}

func NewPriceRuleService(rules *repository.PriceRuleRepository, products *repository.ProductRepository, suppliers *repository.SupplierRepository) *PriceRuleService {
	return &PriceRuleService{rules: rules, products: products, suppliers: suppliers}
}

type PriceRuleInput struct {
	ProductID  string   `json:"product_id"`
	SupplierID string   `json:"supplier_id"`
	MaxPrice   *float64 `json:"max_price"`
	Active     *bool    `json:"active"`
}

func (s *PriceRuleService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.PriceRule, int64, error) {
	return s.rules.FindAll(ctx, page, pageSize, filters)
}

func (s *PriceRuleService) Get(ctx context.Context, id string) (*entity.PriceRule, error) {
	return s.rules.FindByID(ctx, id)
}

// Create registers a ceiling for one product at one supplier. A pair can only
// carry one rule, so a second create for the same pair is rejected.
func (s *PriceRuleService) Create(ctx context.Context, input PriceRuleInput) (*entity.PriceRule, error) {
	if input.ProductID == "" || input.SupplierID == "" {
		return nil, fmt.Errorf("product_id and supplier_id are required")
	}
	if input.MaxPrice == nil || *input.MaxPrice <= 0 {
		return nil, fmt.Errorf("max_price must be positive")
	}
	if _, err := s.products.FindByID(ctx, input.ProductID); err != nil {
		return nil, err
	}
	if _, err := s.suppliers.FindByID(ctx, input.SupplierID); err != nil {
		return nil, err
	}

	existing, err := s.rules.FindByPair(ctx, input.ProductID, input.SupplierID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("price rule for this product and supplier already exists")
	}

	rule := &entity.PriceRule{
		ID:         uuid.New().String()[:32],
		ProductID:  input.ProductID,
		SupplierID: input.SupplierID,
		MaxPrice:   *input.MaxPrice,
		Active:     true,
	}
	if input.Active != nil {
		rule.Active = *input.Active
	}
	if err := s.rules.Create(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *PriceRuleService) Update(ctx context.Context, id string, input PriceRuleInput) (*entity.PriceRule, error) {
	rule, err := s.rules.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.MaxPrice != nil {
		if *input.MaxPrice <= 0 {
			return nil, fmt.Errorf("max_price must be positive")
		}
		rule.MaxPrice = *input.MaxPrice
	}
	if input.Active != nil {
		rule.Active = *input.Active
	}
	if err := s.rules.Update(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *PriceRuleService) Delete(ctx context.Context, id string) error {
	if _, err := s.rules.FindByID(ctx, id); err != nil {
		return err
	}
	return s.rules.Delete(ctx, id)
}
