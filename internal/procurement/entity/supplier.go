package entity

import "time"

// Supplier is a lens laboratory or distributor the shop buys from.
// Billing suppliers invoice on delivery, so their orders are settled at
// creation time instead of going through payment registration.
type Supplier struct {
	ID      string `json:"id" gorm:"primaryKey;size:32"`
	Name    string `json:"name" gorm:"size:200;uniqueIndex;not null"`
	Active  bool   `json:"active" gorm:"default:true"`
	Billing bool   `json:"billing" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Supplier) TableName() string {
	return "suppliers"
}
