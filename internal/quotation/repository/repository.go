package repository

import (
	"context"
	"errors"

	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/quotation/entity"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

// CatalogRepository reads and writes the quotation catalog.
type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ProductsByCriteria lists the products whose vision type and coating flags
// match exactly. Range filtering happens in the matcher, not here.
func (r *CatalogRepository) ProductsByCriteria(ctx context.Context, visionType string, antiReflective, photosensitive, blueFilter bool) ([]entity.Product, error) {
	var products []entity.Product
	err := r.db.WithContext(ctx).
		Where("vision_type = ? AND anti_reflective = ? AND photosensitive = ? AND blue_filter = ?",
			visionType, antiReflective, photosensitive, blueFilter).
		Order("price ASC").
		Find(&products).Error
	return products, err
}

func (r *CatalogRepository) ProductByID(ctx context.Context, id string) (*entity.Product, error) {
	var product entity.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *CatalogRepository) ProductByCode(ctx context.Context, code string) (*entity.Product, error) {
	var product entity.Product
	if err := r.db.WithContext(ctx).First(&product, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// ServiceLinks returns the unconditional links of one product, mandatory or
// optional.
func (r *CatalogRepository) ServiceLinks(ctx context.Context, productID string, mandatory bool) ([]entity.ServiceLink, error) {
	var links []entity.ServiceLink
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND mandatory = ?", productID, mandatory).
		Order("service_code ASC").
		Find(&links).Error
	return links, err
}

func (r *CatalogRepository) ConditionalAdditions(ctx context.Context, productID string) ([]entity.ConditionalAddition, error) {
	var additions []entity.ConditionalAddition
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("service_code ASC").
		Find(&additions).Error
	return additions, err
}

// ServicesByCodes resolves service codes against the master list, in the
// order given. Unknown codes are skipped.
func (r *CatalogRepository) ServicesByCodes(ctx context.Context, codes []string) ([]entity.ServiceEntry, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	var entries []entity.ServiceEntry
	if err := r.db.WithContext(ctx).Where("code IN ?", codes).Find(&entries).Error; err != nil {
		return nil, err
	}

	byCode := make(map[string]entity.ServiceEntry, len(entries))
	for _, entry := range entries {
		byCode[entry.Code] = entry
	}
	ordered := make([]entity.ServiceEntry, 0, len(entries))
	for _, code := range codes {
		if entry, ok := byCode[code]; ok {
			ordered = append(ordered, entry)
		}
	}
	return ordered, nil
}

func (r *CatalogRepository) ServiceByCode(ctx context.Context, code string) (*entity.ServiceEntry, error) {
	var entry entity.ServiceEntry
	if err := r.db.WithContext(ctx).First(&entry, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}
