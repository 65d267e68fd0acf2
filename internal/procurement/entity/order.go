package entity

import "time"

// Order status
const (
	OrderStatusPendingPayment = "pending_payment"
	OrderStatusPaid           = "paid"
	OrderStatusCanceled       = "canceled"
)

// ServiceOrderItemCap is the lifetime item limit per service order (OS).
// An OS groups the physical pieces made for one patient, at most a pair.
const ServiceOrderItemCap = 2

// PurchaseOrder groups the items bought from one supplier in one submission.
type PurchaseOrder struct {
	ID         string  `json:"id" gorm:"primaryKey;size:32"`
	OrderCode  string  `json:"order_code" gorm:"size:32;uniqueIndex;not null"`
	SupplierID string  `json:"supplier_id" gorm:"size:32;not null;index"`
	Buyer      string  `json:"buyer" gorm:"size:100;not null"`
	Status     string  `json:"status" gorm:"size:20;not null;default:pending_payment"`
	Total      float64 `json:"total" gorm:"type:decimal(12,2);not null;default:0"`
	Notes      string  `json:"notes" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Items    []PurchaseItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	Supplier *Supplier      `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
	Payment  *Payment       `json:"payment,omitempty" gorm:"foreignKey:OrderID"`
}

func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// PurchaseItem is a single lens or block line inside an order. Lens items
// carry sphere/cylinder, block items carry base/addition; quantity is always
// one piece in this domain.
type PurchaseItem struct {
	ID          string  `json:"id" gorm:"primaryKey;size:32"`
	OrderID     string  `json:"order_id" gorm:"size:32;not null;index"`
	ProductID   string  `json:"product_id" gorm:"size:32;not null;index"`
	ProductName string  `json:"product_name" gorm:"size:200;not null"`
	Quantity    int     `json:"quantity" gorm:"default:1"`
	UnitPrice   float64 `json:"unit_price" gorm:"type:decimal(12,2);not null"`

	Sphere   *float64 `json:"sphere" gorm:"type:decimal(6,2)"`
	Cylinder *float64 `json:"cylinder" gorm:"type:decimal(6,2)"`
	Base     *float64 `json:"base" gorm:"type:decimal(6,2)"`
	Addition *float64 `json:"addition" gorm:"type:decimal(6,2)"`

	OSNumber  string `json:"os_number" gorm:"size:50;not null;index"`
	SortOrder int    `json:"sort_order" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PurchaseItem) TableName() string {
	return "purchase_items"
}

// Payment methods
const (
	PaymentMethodPix      = "PIX"
	PaymentMethodTed      = "TED"
	PaymentMethodBoleto   = "Boleto"
	PaymentMethodInvoiced = "invoiced"
)

// Payment settles exactly one order, either automatically at creation for
// billing suppliers or later through payment registration.
type Payment struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	OrderID   string    `json:"order_id" gorm:"size:32;not null;uniqueIndex"`
	Payer     string    `json:"payer" gorm:"size:100;not null"`
	Method    string    `json:"method" gorm:"size:20;not null"`
	Reference string    `json:"reference" gorm:"size:100"`
	Amount    float64   `json:"amount" gorm:"type:decimal(12,2);not null"`
	PaidAt    time.Time `json:"paid_at"`

	CreatedAt time.Time `json:"created_at"`
}

func (Payment) TableName() string {
	return "payments"
}
