package entity

import "time"

// Product kinds
const (
	ProductKindLens  = "lens"
	ProductKindBlock = "block"
)

// Product is a purchasable catalog item, unique per (name, kind).
type Product struct {
	ID      string `json:"id" gorm:"primaryKey;size:32"`
	Name    string `json:"name" gorm:"size:200;not null;uniqueIndex:ux_products_name_kind"`
	Kind    string `json:"kind" gorm:"size:10;not null;uniqueIndex:ux_products_name_kind"` // lens/block
	Code    string `json:"code" gorm:"size:50;index"`
	Active  bool   `json:"active" gorm:"default:true"`
	InStock bool   `json:"in_stock" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}
