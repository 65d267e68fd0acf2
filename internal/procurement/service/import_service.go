package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/procurement/entity"
	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/tabular"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ImportResult sums up one import batch.
type ImportResult struct {
	Inserted int        `json:"inserted"`
	Updated  int        `json:"updated"`
	Errors   []RowError `json:"errors,omitempty"`
}

// RowError points at one rejected spreadsheet row. Rows are reported with
// their workbook position, so the first data row is row 2.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// HeaderError aborts an import whose sheet is missing required columns.
type HeaderError struct {
	Missing []string
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("sheet is missing required columns: %s", strings.Join(e.Missing, ", "))
}

// CatalogImportService loads supplier, product and price-rule sheets in bulk.
// Each batch runs inside a single transaction; row errors are collected, a
// bad header aborts the whole batch.
type CatalogImportService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewCatalogImportService(db *gorm.DB, logger *zap.Logger) *CatalogImportService {
	return &CatalogImportService{db: db, logger: logger}
}

// ParseKind maps the spreadsheet spellings of a product kind.
func ParseKind(s string) (string, bool) {
	switch tabular.NormalizeHeader(s) {
	case "lente", "lentes", entity.ProductKindLens:
		return entity.ProductKindLens, true
	case "bloco", "blocos", entity.ProductKindBlock:
		return entity.ProductKindBlock, true
	}
	return "", false
}

func (s *CatalogImportService) ImportSuppliers(ctx context.Context, sheet *tabular.Sheet) (*ImportResult, error) {
	nameCol := sheet.Col("fornecedor", "nome", "supplier")
	if nameCol < 0 {
		return nil, &HeaderError{Missing: []string{"fornecedor"}}
	}
	activeCol := sheet.Col("ativo", "active")
	billingCol := sheet.Col("faturado", "faturamento", "billing")

	result := &ImportResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := 0; i < sheet.Len(); i++ {
			name := sheet.Cell(i, nameCol)
			if name == "" {
				continue
			}

			var supplier entity.Supplier
			err := tx.Where("name = ?", name).First(&supplier).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				supplier = entity.Supplier{
					ID:     uuid.New().String()[:32],
					Name:   name,
					Active: true,
				}
				if activeCol >= 0 && sheet.Cell(i, activeCol) != "" {
					supplier.Active = tabular.ParseBool(sheet.Cell(i, activeCol))
				}
				if billingCol >= 0 {
					supplier.Billing = tabular.ParseBool(sheet.Cell(i, billingCol))
				}
				err := tx.Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "name"}},
					DoUpdates: clause.AssignmentColumns([]string{"active", "billing", "updated_at"}),
				}).Create(&supplier).Error
				if err != nil {
					return err
				}
				result.Inserted++
			case err != nil:
				return err
			default:
				if activeCol >= 0 && sheet.Cell(i, activeCol) != "" {
					supplier.Active = tabular.ParseBool(sheet.Cell(i, activeCol))
				}
				if billingCol >= 0 && sheet.Cell(i, billingCol) != "" {
					supplier.Billing = tabular.ParseBool(sheet.Cell(i, billingCol))
				}
				if err := tx.Save(&supplier).Error; err != nil {
					return err
				}
				result.Updated++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logImport("suppliers", result)
	return result, nil
}

func (s *CatalogImportService) ImportProducts(ctx context.Context, sheet *tabular.Sheet) (*ImportResult, error) {
	nameCol := sheet.Col("produto", "nome", "descricao", "product")
	kindCol := sheet.Col("tipo", "kind")
	var missing []string
	if nameCol < 0 {
		missing = append(missing, "produto")
	}
	if kindCol < 0 {
		missing = append(missing, "tipo")
	}
	if len(missing) > 0 {
		return nil, &HeaderError{Missing: missing}
	}
	codeCol := sheet.Col("codigo", "code")
	activeCol := sheet.Col("ativo", "active")
	stockCol := sheet.Col("estoque", "em estoque", "stock")

	result := &ImportResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := 0; i < sheet.Len(); i++ {
			name := sheet.Cell(i, nameCol)
			if name == "" {
				continue
			}
			kind, ok := ParseKind(sheet.Cell(i, kindCol))
			if !ok {
				result.Errors = append(result.Errors, RowError{Row: i + 2, Message: fmt.Sprintf("unknown kind %q", sheet.Cell(i, kindCol))})
				continue
			}

			var product entity.Product
			err := tx.Where("name = ? AND kind = ?", name, kind).First(&product).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				product = entity.Product{
					ID:     uuid.New().String()[:32],
					Name:   name,
					Kind:   kind,
					Code:   sheet.Cell(i, codeCol),
					Active: true,
				}
				if activeCol >= 0 && sheet.Cell(i, activeCol) != "" {
					product.Active = tabular.ParseBool(sheet.Cell(i, activeCol))
				}
				if stockCol >= 0 {
					product.InStock = tabular.ParseBool(sheet.Cell(i, stockCol))
				}
				err := tx.Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "name"}, {Name: "kind"}},
					DoUpdates: clause.AssignmentColumns([]string{"code", "active", "in_stock", "updated_at"}),
				}).Create(&product).Error
				if err != nil {
					return err
				}
				result.Inserted++
			case err != nil:
				return err
			default:
				if code := sheet.Cell(i, codeCol); code != "" {
					product.Code = code
				}
				if activeCol >= 0 && sheet.Cell(i, activeCol) != "" {
					product.Active = tabular.ParseBool(sheet.Cell(i, activeCol))
				}
				if stockCol >= 0 && sheet.Cell(i, stockCol) != "" {
					product.InStock = tabular.ParseBool(sheet.Cell(i, stockCol))
				}
				if err := tx.Save(&product).Error; err != nil {
					return err
				}
				result.Updated++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logImport("products", result)
	return result, nil
}

// ImportRules loads price ceilings. Suppliers and products named by a row
// but not yet registered are created on the fly.
func (s *CatalogImportService) ImportRules(ctx context.Context, sheet *tabular.Sheet) (*ImportResult, error) {
	supplierCol := sheet.Col("fornecedor", "supplier")
	productCol := sheet.Col("produto", "nome", "product")
	priceCol := sheet.Col("valor maximo", "valor max", "preco maximo", "valor", "max_price")
	var missing []string
	if supplierCol < 0 {
		missing = append(missing, "fornecedor")
	}
	if productCol < 0 {
		missing = append(missing, "produto")
	}
	if priceCol < 0 {
		missing = append(missing, "valor maximo")
	}
	if len(missing) > 0 {
		return nil, &HeaderError{Missing: missing}
	}
	kindCol := sheet.Col("tipo", "kind")
	activeCol := sheet.Col("ativo", "active")

	result := &ImportResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := 0; i < sheet.Len(); i++ {
			supplierName := sheet.Cell(i, supplierCol)
			productName := sheet.Cell(i, productCol)
			if supplierName == "" && productName == "" {
				continue
			}
			if supplierName == "" || productName == "" {
				result.Errors = append(result.Errors, RowError{Row: i + 2, Message: "supplier and product are required"})
				continue
			}

			maxPrice, ok := tabular.ParseMoney(sheet.Cell(i, priceCol))
			if !ok || maxPrice <= 0 {
				result.Errors = append(result.Errors, RowError{Row: i + 2, Message: fmt.Sprintf("invalid max price %q", sheet.Cell(i, priceCol))})
				continue
			}

			kind := entity.ProductKindLens
			if kindCol >= 0 && sheet.Cell(i, kindCol) != "" {
				k, ok := ParseKind(sheet.Cell(i, kindCol))
				if !ok {
					result.Errors = append(result.Errors, RowError{Row: i + 2, Message: fmt.Sprintf("unknown kind %q", sheet.Cell(i, kindCol))})
					continue
				}
				kind = k
			}

			supplier, err := s.findOrCreateSupplier(tx, supplierName)
			if err != nil {
				return err
			}
			product, err := s.findOrCreateProduct(tx, productName, kind)
			if err != nil {
				return err
			}

			var rule entity.PriceRule
			err = tx.Where("product_id = ? AND supplier_id = ?", product.ID, supplier.ID).First(&rule).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				rule = entity.PriceRule{
					ID:         uuid.New().String()[:32],
					ProductID:  product.ID,
					SupplierID: supplier.ID,
					MaxPrice:   maxPrice,
					Active:     true,
				}
				if activeCol >= 0 && sheet.Cell(i, activeCol) != "" {
					rule.Active = tabular.ParseBool(sheet.Cell(i, activeCol))
				}
				err = tx.Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "product_id"}, {Name: "supplier_id"}},
					DoUpdates: clause.AssignmentColumns([]string{"max_price", "active", "updated_at"}),
				}).Create(&rule).Error
				if err != nil {
					return err
				}
				result.Inserted++
			case err != nil:
				return err
			default:
				rule.MaxPrice = maxPrice
				if activeCol >= 0 && sheet.Cell(i, activeCol) != "" {
					rule.Active = tabular.ParseBool(sheet.Cell(i, activeCol))
				}
				if err := tx.Save(&rule).Error; err != nil {
					return err
				}
				result.Updated++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logImport("price rules", result)
	return result, nil
}

func (s *CatalogImportService) findOrCreateSupplier(tx *gorm.DB, name string) (*entity.Supplier, error) {
	var supplier entity.Supplier
	err := tx.Where("name = ?", name).First(&supplier).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		supplier = entity.Supplier{ID: uuid.New().String()[:32], Name: name, Active: true}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(&supplier)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			// lost the insert race, pick up the winner's row
			if err := tx.Where("name = ?", name).First(&supplier).Error; err != nil {
				return nil, err
			}
		}
		return &supplier, nil
	}
	if err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (s *CatalogImportService) findOrCreateProduct(tx *gorm.DB, name, kind string) (*entity.Product, error) {
	var product entity.Product
	err := tx.Where("name = ? AND kind = ?", name, kind).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		product = entity.Product{ID: uuid.New().String()[:32], Name: name, Kind: kind, Active: true}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}, {Name: "kind"}},
			DoNothing: true,
		}).Create(&product)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			if err := tx.Where("name = ? AND kind = ?", name, kind).First(&product).Error; err != nil {
				return nil, err
			}
		}
		return &product, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *CatalogImportService) logImport(what string, result *ImportResult) {
	if s.logger == nil {
		return
	}
	s.logger.Info("Import finished",
		zap.String("sheet", what),
		zap.Int("inserted", result.Inserted),
		zap.Int("updated", result.Updated),
		zap.Int("rejected", len(result.Errors)),
	)
}
