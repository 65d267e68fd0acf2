package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Vision types a quotation product is made for.
const (
	VisionSingle      = "single_vision"
	VisionProgressive = "progressive"
	VisionBifocal     = "bifocal"
)

// Product is one sellable lens in the budgeting catalog. The four range
// fields are its matching envelope; a zero-width range (min == max == 0)
// matches any value.
type Product struct {
	ID             string          `gorm:"primaryKey;size:32" json:"id"`
	Code           string          `gorm:"size:50;uniqueIndex" json:"code"`
	Name           string          `gorm:"size:200" json:"name"`
	Price          decimal.Decimal `gorm:"type:numeric(12,2)" json:"price"`
	VisionType     string          `gorm:"size:20;index" json:"vision_type"`
	AntiReflective bool            `gorm:"default:false" json:"anti_reflective"`
	Photosensitive bool            `gorm:"default:false" json:"photosensitive"`
	BlueFilter     bool            `gorm:"default:false" json:"blue_filter"`
	EsfMin         decimal.Decimal `gorm:"type:numeric(6,2);default:0" json:"esf_min"`
	EsfMax         decimal.Decimal `gorm:"type:numeric(6,2);default:0" json:"esf_max"`
	CilMin         decimal.Decimal `gorm:"type:numeric(6,2);default:0" json:"cil_min"`
	CilMax         decimal.Decimal `gorm:"type:numeric(6,2);default:0" json:"cil_max"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (Product) TableName() string {
	return "quotation_products"
}
