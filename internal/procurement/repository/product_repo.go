package repository

import (
	"context"
	"errors"

	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/procurement/entity"
	"gorm.io/gorm"
)

// ProductRepository stores lens and block products.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// FindAll lists products with optional filters.
func (r *ProductRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Product, int64, error) {
	var items []entity.Product
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Product{})

	if search := filters["search"]; search != "" {
		query = query.Where("name ILIKE ? OR code ILIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if kind := filters["kind"]; kind != "" {
		query = query.Where("kind = ?", kind)
	}
	if active := filters["active"]; active != "" {
		query = query.Where("active = ?", active == "true")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("name ASC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID looks a product up by primary key.
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByCodeKind looks a product up by external code and kind.
func (r *ProductRepository) FindByCodeKind(ctx context.Context, code, kind string) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).Where("code = ? AND kind = ?", code, kind).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByNameKind looks a product up by its natural key.
func (r *ProductRepository) FindByNameKind(ctx context.Context, name, kind string) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).Where("name = ? AND kind = ?", name, kind).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindActiveByNameKind resolves an active product by natural key. Used by the
// cylinder substitution lookup, which must only swap to sellable products.
func (r *ProductRepository) FindActiveByNameKind(ctx context.Context, name, kind string) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).
		Where("name = ? AND kind = ? AND active = true", name, kind).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// Create inserts a product.
func (r *ProductRepository) Create(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// Update saves a product.
func (r *ProductRepository) Update(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// Delete removes a product.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Product{}).Error
}
