package service

import (
	"context"
	"errors"
	"fmt"

	procurement "github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/procurement/service"
	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/quotation/entity"
	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/shared/rangeexpr"
	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/tabular"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ParseVisionType maps the spreadsheet spellings of a vision type.
func ParseVisionType(s string) (string, bool) {
	switch tabular.NormalizeHeader(s) {
	case "visao simples", "monofocal", "vs", entity.VisionSingle:
		return entity.VisionSingle, true
	case "progressiva", "progressivo", "multifocal", entity.VisionProgressive:
		return entity.VisionProgressive, true
	case entity.VisionBifocal:
		return entity.VisionBifocal, true
	}
	return "", false
}

// ImportService bulk-loads the quotation catalog: products with their
// service links and conditional additions, and the service master list.
type ImportService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewImportService(db *gorm.DB, logger *zap.Logger) *ImportService {
	return &ImportService{db: db, logger: logger}
}

// ImportProducts upserts quotation products by code. Service links and
// conditional additions are rebuilt from the row on every import, so the
// sheet is the source of truth for a product's service wiring.
func (s *ImportService) ImportProducts(ctx context.Context, sheet *tabular.Sheet) (*procurement.ImportResult, error) {
	codeCol := sheet.Col("codigo", "code")
	nameCol := sheet.Col("descricao", "nome", "produto")
	priceCol := sheet.Col("valor", "preco", "price")
	visionCol := sheet.Col("tipo de visao", "visao", "vision")
	var missing []string
	if codeCol < 0 {
		missing = append(missing, "codigo")
	}
	if nameCol < 0 {
		missing = append(missing, "descricao")
	}
	if priceCol < 0 {
		missing = append(missing, "valor")
	}
	if visionCol < 0 {
		missing = append(missing, "tipo de visao")
	}
	if len(missing) > 0 {
		return nil, &procurement.HeaderError{Missing: missing}
	}

	arCol := sheet.Col("antirreflexo", "anti reflexo", "ar")
	photoCol := sheet.Col("fotossensivel", "fotosensivel")
	blueCol := sheet.Col("filtro azul", "blue")
	esfMinCol := sheet.Col("esf min", "esferico min")
	esfMaxCol := sheet.Col("esf max", "esferico max")
	cilMinCol := sheet.Col("cil min", "cilindrico min")
	cilMaxCol := sheet.Col("cil max", "cilindrico max")
	mandatoryCol := sheet.Col("servicos obrigatorios", "obrigatorios")
	optionalCol := sheet.Col("servicos opcionais", "opcionais")
	additionsCol := sheet.Col("acrescimos", "adicionais", "condicionais")

	result := &procurement.ImportResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := 0; i < sheet.Len(); i++ {
			code := sheet.Cell(i, codeCol)
			if code == "" {
				continue
			}

			price, ok := rangeexpr.ParseDecimal(sheet.Cell(i, priceCol))
			if !ok {
				result.Errors = append(result.Errors, procurement.RowError{Row: i + 2, Message: fmt.Sprintf("invalid price %q", sheet.Cell(i, priceCol))})
				continue
			}
			visionType, ok := ParseVisionType(sheet.Cell(i, visionCol))
			if !ok {
				result.Errors = append(result.Errors, procurement.RowError{Row: i + 2, Message: fmt.Sprintf("unknown vision type %q", sheet.Cell(i, visionCol))})
				continue
			}

			product := entity.Product{
				Code:           code,
				Name:           sheet.Cell(i, nameCol),
				Price:          price,
				VisionType:     visionType,
				AntiReflective: arCol >= 0 && tabular.ParseBool(sheet.Cell(i, arCol)),
				Photosensitive: photoCol >= 0 && tabular.ParseBool(sheet.Cell(i, photoCol)),
				BlueFilter:     blueCol >= 0 && tabular.ParseBool(sheet.Cell(i, blueCol)),
				EsfMin:         cellDecimal(sheet, i, esfMinCol),
				EsfMax:         cellDecimal(sheet, i, esfMaxCol),
				CilMin:         cellDecimal(sheet, i, cilMinCol),
				CilMax:         cellDecimal(sheet, i, cilMaxCol),
			}

			var existing entity.Product
			err := tx.Where("code = ?", code).First(&existing).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				product.ID = uuid.New().String()[:32]
				err := tx.Clauses(clause.OnConflict{
					Columns: []clause.Column{{Name: "code"}},
					DoUpdates: clause.AssignmentColumns([]string{
						"name", "price", "vision_type",
						"anti_reflective", "photosensitive", "blue_filter",
						"esf_min", "esf_max", "cil_min", "cil_max", "updated_at",
					}),
				}).Create(&product).Error
				if err != nil {
					return err
				}
				result.Inserted++
			case err != nil:
				return err
			default:
				product.ID = existing.ID
				product.CreatedAt = existing.CreatedAt
				if err := tx.Save(&product).Error; err != nil {
					return err
				}
				result.Updated++
			}

			if err := s.rebuildLinks(tx, product.ID,
				sheet.Cell(i, mandatoryCol), sheet.Cell(i, optionalCol), sheet.Cell(i, additionsCol)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("Quotation products imported",
			zap.Int("inserted", result.Inserted),
			zap.Int("updated", result.Updated),
			zap.Int("rejected", len(result.Errors)),
		)
	}
	return result, nil
}

// ImportServices upserts the service master list by code.
func (s *ImportService) ImportServices(ctx context.Context, sheet *tabular.Sheet) (*procurement.ImportResult, error) {
	codeCol := sheet.Col("codigo", "code")
	descCol := sheet.Col("descricao", "servico", "nome")
	priceCol := sheet.Col("valor", "preco", "price")
	var missing []string
	if codeCol < 0 {
		missing = append(missing, "codigo")
	}
	if descCol < 0 {
		missing = append(missing, "descricao")
	}
	if priceCol < 0 {
		missing = append(missing, "valor")
	}
	if len(missing) > 0 {
		return nil, &procurement.HeaderError{Missing: missing}
	}

	result := &procurement.ImportResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := 0; i < sheet.Len(); i++ {
			code := sheet.Cell(i, codeCol)
			if code == "" {
				continue
			}
			price, ok := rangeexpr.ParseDecimal(sheet.Cell(i, priceCol))
			if !ok {
				result.Errors = append(result.Errors, procurement.RowError{Row: i + 2, Message: fmt.Sprintf("invalid price %q", sheet.Cell(i, priceCol))})
				continue
			}

			var entry entity.ServiceEntry
			err := tx.Where("code = ?", code).First(&entry).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				entry = entity.ServiceEntry{
					ID:          uuid.New().String()[:32],
					Code:        code,
					Description: sheet.Cell(i, descCol),
					Price:       price,
				}
				err := tx.Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "code"}},
					DoUpdates: clause.AssignmentColumns([]string{"description", "price", "updated_at"}),
				}).Create(&entry).Error
				if err != nil {
					return err
				}
				result.Inserted++
			case err != nil:
				return err
			default:
				entry.Description = sheet.Cell(i, descCol)
				entry.Price = price
				if err := tx.Save(&entry).Error; err != nil {
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

	if s.logger != nil {
		s.logger.Info("Quotation services imported",
			zap.Int("inserted", result.Inserted),
			zap.Int("updated", result.Updated),
			zap.Int("rejected", len(result.Errors)),
		)
	}
	return result, nil
}

func (s *ImportService) rebuildLinks(tx *gorm.DB, productID, mandatoryExpr, optionalExpr, additionsExpr string) error {
	if err := tx.Where("product_id = ?", productID).Delete(&entity.ServiceLink{}).Error; err != nil {
		return err
	}
	if err := tx.Where("product_id = ?", productID).Delete(&entity.ConditionalAddition{}).Error; err != nil {
		return err
	}

	// a code repeated inside one cell must not trip the unique triple
	linkConflict := clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}, {Name: "service_code"}, {Name: "mandatory"}},
		DoNothing: true,
	}
	for _, code := range rangeexpr.SplitCodes(mandatoryExpr) {
		link := entity.ServiceLink{
			ID:          uuid.New().String()[:32],
			ProductID:   productID,
			ServiceCode: code,
			Mandatory:   true,
		}
		if err := tx.Clauses(linkConflict).Create(&link).Error; err != nil {
			return err
		}
	}
	for _, code := range rangeexpr.SplitCodes(optionalExpr) {
		link := entity.ServiceLink{
			ID:          uuid.New().String()[:32],
			ProductID:   productID,
			ServiceCode: code,
		}
		if err := tx.Clauses(linkConflict).Create(&link).Error; err != nil {
			return err
		}
	}
	for _, trigger := range rangeexpr.Parse(additionsExpr) {
		addition := entity.ConditionalAddition{
			ID:          uuid.New().String()[:32],
			ProductID:   productID,
			ServiceCode: trigger.Code,
			EsfMin:      trigger.EsfMin,
			EsfMax:      trigger.EsfMax,
			CilMin:      trigger.CilMin,
			CilMax:      trigger.CilMax,
		}
		if err := tx.Create(&addition).Error; err != nil {
			return err
		}
	}
	return nil
}

func cellDecimal(sheet *tabular.Sheet, row, col int) decimal.Decimal {
	if col < 0 {
		return decimal.Zero
	}
	v, ok := rangeexpr.ParseDecimal(sheet.Cell(row, col))
	if !ok {
		return decimal.Zero
	}
	return v
}
