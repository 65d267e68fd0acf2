package repository

import (
	"context"
	"errors"

	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/procurement/entity"
	"gorm.io/gorm"
)

// PriceRuleRepository stores the (product, supplier) price ceilings.
type PriceRuleRepository struct {
	db *gorm.DB
}

func NewPriceRuleRepository(db *gorm.DB) *PriceRuleRepository {
	return &PriceRuleRepository{db: db}
}

// FindAll lists rules with their product and supplier preloaded.
func (r *PriceRuleRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.PriceRule, int64, error) {
	var items []entity.PriceRule
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.PriceRule{})

	if productID := filters["product_id"]; productID != "" {
		query = query.Where("product_id = ?", productID)
	}
	if supplierID := filters["supplier_id"]; supplierID != "" {
		query = query.Where("supplier_id = ?", supplierID)
	}
	if active := filters["active"]; active != "" {
		query = query.Where("active = ?", active == "true")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Product").
		Preload("Supplier").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID looks a rule up by primary key.
func (r *PriceRuleRepository) FindByID(ctx context.Context, id string) (*entity.PriceRule, error) {
	var rule entity.PriceRule
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rule, nil
}

// FindByPair looks a rule up by its natural key regardless of active flag.
func (r *PriceRuleRepository) FindByPair(ctx context.Context, productID, supplierID string) (*entity.PriceRule, error) {
	var rule entity.PriceRule
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND supplier_id = ?", productID, supplierID).
		First(&rule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rule, nil
}

// ActiveRule resolves the active ceiling for a pair. Returns (nil, nil) when
// no active rule exists, which callers treat as "pair not authorized".
func (r *PriceRuleRepository) ActiveRule(ctx context.Context, productID, supplierID string) (*entity.PriceRule, error) {
	var rule entity.PriceRule
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND supplier_id = ? AND active = true", productID, supplierID).
		First(&rule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

// Create inserts a rule.
func (r *PriceRuleRepository) Create(ctx context.Context, rule *entity.PriceRule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

// Update saves a rule.
func (r *PriceRuleRepository) Update(ctx context.Context, rule *entity.PriceRule) error {
	return r.db.WithContext(ctx).Save(rule).Error
}

// Delete removes a rule.
func (r *PriceRuleRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.PriceRule{}).Error
}
