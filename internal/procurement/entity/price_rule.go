package entity

import "time"

// PriceRule is the per-supplier price ceiling for a product. An item can only
// be bought from a supplier while an active rule exists for the pair, and
// never above MaxPrice.
type PriceRule struct {
	ID         string  `json:"id" gorm:"primaryKey;size:32"`
	ProductID  string  `json:"product_id" gorm:"size:32;not null;uniqueIndex:ux_price_rules_pair"`
	SupplierID string  `json:"supplier_id" gorm:"size:32;not null;uniqueIndex:ux_price_rules_pair"`
	MaxPrice   float64 `json:"max_price" gorm:"type:decimal(12,2);not null"`
	Active     bool    `json:"active" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Product  *Product  `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Supplier *Supplier `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
}

func (PriceRule) TableName() string {
	return "price_rules"
}
