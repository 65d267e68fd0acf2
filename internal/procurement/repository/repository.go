package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// ServiceOrderCapError reports an OS whose lifetime item count would exceed
// the cap. Raised inside the submission transaction so concurrent writers
// cannot slip past the limit.
type ServiceOrderCapError struct {
	OSNumber string
	Stored   int
	Adding   int
	Cap      int
}

func (e *ServiceOrderCapError) Error() string {
	return fmt.Sprintf("service order %s already has %d item(s), adding %d would exceed the cap of %d",
		e.OSNumber, e.Stored, e.Adding, e.Cap)
}

// Repositories is the procurement repository set.
type Repositories struct {
	Supplier  *SupplierRepository
	Product   *ProductRepository
	PriceRule *PriceRuleRepository
	Order     *OrderRepository
}

// NewRepositories wires every procurement repository on one DB handle.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Supplier:  NewSupplierRepository(db),
		Product:   NewProductRepository(db),
		PriceRule: NewPriceRuleRepository(db),
		Order:     NewOrderRepository(db),
	}
}
