package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ServiceEntry is one row of the billable service master list.
type ServiceEntry struct {
	ID          string          `gorm:"primaryKey;size:32" json:"id"`
	Code        string          `gorm:"size:50;uniqueIndex" json:"code"`
	Description string          `gorm:"size:200" json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2)" json:"price"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (ServiceEntry) TableName() string {
	return "quotation_services"
}

// ServiceLink ties a service code to a product, either as always mandatory
// or as an optional offer.
type ServiceLink struct {
	ID          string    `gorm:"primaryKey;size:32" json:"id"`
	ProductID   string    `gorm:"size:32;index;uniqueIndex:ux_service_links_triple" json:"product_id"`
	ServiceCode string    `gorm:"size:50;uniqueIndex:ux_service_links_triple" json:"service_code"`
	Mandatory   bool      `gorm:"uniqueIndex:ux_service_links_triple" json:"mandatory"`
	CreatedAt   time.Time `json:"created_at"`
}

func (ServiceLink) TableName() string {
	return "quotation_service_links"
}

// ConditionalAddition makes a service mandatory only when the prescription
// falls inside its sphere or cylinder range. Nil bounds are "no trigger on
// that side".
type ConditionalAddition struct {
	ID          string           `gorm:"primaryKey;size:32" json:"id"`
	ProductID   string           `gorm:"size:32;index" json:"product_id"`
	ServiceCode string           `gorm:"size:50" json:"service_code"`
	EsfMin      *decimal.Decimal `gorm:"type:numeric(6,2)" json:"esf_min"`
	EsfMax      *decimal.Decimal `gorm:"type:numeric(6,2)" json:"esf_max"`
	CilMin      *decimal.Decimal `gorm:"type:numeric(6,2)" json:"cil_min"`
	CilMax      *decimal.Decimal `gorm:"type:numeric(6,2)" json:"cil_max"`
	CreatedAt   time.Time        `json:"created_at"`
}

func (ConditionalAddition) TableName() string {
	return "quotation_conditional_additions"
}
