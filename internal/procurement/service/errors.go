package service

import (
	"errors"
	"fmt"
)

// priceEpsilon absorbs float representation noise when comparing a submitted
// price against a rule ceiling.
const priceEpsilon = 1e-6

// ErrServiceOrderBusy means another submission currently holds the lock for
// one of the service orders being written.
var ErrServiceOrderBusy = errors.New("service order is being processed by another submission")

// ValidationError reports an optical field outside its allowed domain.
type ValidationError struct {
	Field  string
	Value  float64
	Domain string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %.2f out of domain: %s", e.Field, e.Value, e.Domain)
}

// ProductNotFoundError reports a line item whose product could not be
// resolved by id or by (code, kind).
type ProductNotFoundError struct {
	Ref  string
	Kind string
}

func (e *ProductNotFoundError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("product %q (%s) not found or inactive", e.Ref, e.Kind)
	}
	return fmt.Sprintf("product %q not found or inactive", e.Ref)
}

// RuleNotFoundError reports a (product, supplier) pair without an active
// price ceiling; the pair is not authorized for purchase.
type RuleNotFoundError struct {
	ProductName string
	SupplierID  string
}

func (e *RuleNotFoundError) Error() string {
	return fmt.Sprintf("no active price rule for product %q and supplier %s", e.ProductName, e.SupplierID)
}

// PriceExceedsMaxError reports a submitted price of zero, negative, or above
// the rule ceiling.
type PriceExceedsMaxError struct {
	ProductName string
	Price       float64
	MaxPrice    float64
}

func (e *PriceExceedsMaxError) Error() string {
	return fmt.Sprintf("price %.2f for product %q not allowed, ceiling is %.2f", e.Price, e.ProductName, e.MaxPrice)
}
