package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/procurement/entity"
	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/procurement/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderStore is the write surface the composer needs from order storage.
type OrderStore interface {
	CountItemsByServiceOrder(ctx context.Context, osNumber string) (int64, error)
	CreateSubmission(ctx context.Context, orders []*entity.PurchaseOrder, osAdds map[string]int) error
	GenerateCode(ctx context.Context) (string, error)
	FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.PurchaseOrder, int64, error)
	FindByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	Delete(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, orderID, status string) error
}

// SupplierDirectory is the read surface the composer needs from suppliers.
type SupplierDirectory interface {
	FindByID(ctx context.Context, id string) (*entity.Supplier, error)
}

// OrderService assembles purchase orders out of raw line-item submissions.
type OrderService struct {
	orders    OrderStore
	products  ProductCatalog
	suppliers SupplierDirectory
	rules     RuleRegistry
	validator *PrescriptionValidator
	resolver  *SubstitutionResolver
	locker    ServiceOrderLocker
	logger    *zap.Logger
}

func NewOrderService(orders OrderStore, products ProductCatalog, suppliers SupplierDirectory, rules RuleRegistry, locker ServiceOrderLocker, logger *zap.Logger) *OrderService {
	return &OrderService{
		orders:    orders,
		products:  products,
		suppliers: suppliers,
		rules:     rules,
		validator: NewPrescriptionValidator(),
		resolver:  NewSubstitutionResolver(products, rules),
		locker:    locker,
		logger:    logger,
	}
}

// SubmitItem is one raw line item of a submission. The product is referenced
// either by id or by (code, kind).
type SubmitItem struct {
	ProductID   string   `json:"product_id"`
	ProductCode string   `json:"product_code"`
	Kind        string   `json:"kind" binding:"required"`
	SupplierID  string   `json:"supplier_id" binding:"required"`
	Price       float64  `json:"price" binding:"required"`
	Sphere      *float64 `json:"sphere"`
	Cylinder    *float64 `json:"cylinder"`
	Base        *float64 `json:"base"`
	Addition    *float64 `json:"addition"`
	OSNumber    string   `json:"os_number" binding:"required"`
}

// SubstitutionNotice tells the buyer a lens was swapped for its reinforced
// variant.
type SubstitutionNotice struct {
	OSNumber string  `json:"os_number"`
	OldName  string  `json:"old_name"`
	NewName  string  `json:"new_name"`
	Price    float64 `json:"price"`
}

// SubmitResult is the outcome of a successful submission.
type SubmitResult struct {
	Orders        []*entity.PurchaseOrder `json:"orders"`
	Substitutions []SubstitutionNotice    `json:"substitutions,omitempty"`
}

// resolvedItem is a line item after product resolution, validation and
// substitution.
type resolvedItem struct {
	product  *entity.Product
	supplier string
	price    float64
	sphere   *float64
	cylinder *float64
	base     *float64
	addition *float64
	osNumber string
}

// Compose validates every line item, applies cylinder substitution, enforces
// the per-OS item cap and persists one order per supplier, all or nothing.
func (s *OrderService) Compose(ctx context.Context, buyer string, items []SubmitItem) (*SubmitResult, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("submission has no items")
	}

	var resolved []resolvedItem
	var notices []SubstitutionNotice

	for _, item := range items {
		ri, notice, err := s.resolveItem(ctx, item)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, *ri)
		if notice != nil {
			notices = append(notices, *notice)
		}
	}

	// Count the adds per OS, then lock the identifiers in a stable order so
	// two submissions can never deadlock on each other.
	osAdds := make(map[string]int)
	for _, ri := range resolved {
		osAdds[ri.osNumber]++
	}
	osNumbers := make([]string, 0, len(osAdds))
	for osNumber := range osAdds {
		osNumbers = append(osNumbers, osNumber)
	}
	sort.Strings(osNumbers)

	for _, osNumber := range osNumbers {
		release, err := s.locker.Lock(ctx, osNumber)
		if err != nil {
			return nil, err
		}
		defer release()
	}

	for _, osNumber := range osNumbers {
		stored, err := s.orders.CountItemsByServiceOrder(ctx, osNumber)
		if err != nil {
			return nil, err
		}
		if int(stored)+osAdds[osNumber] > entity.ServiceOrderItemCap {
			return nil, &repository.ServiceOrderCapError{
				OSNumber: osNumber,
				Stored:   int(stored),
				Adding:   osAdds[osNumber],
				Cap:      entity.ServiceOrderItemCap,
			}
		}
	}

	orders, err := s.buildOrders(ctx, buyer, resolved, osNumbers)
	if err != nil {
		return nil, err
	}

	if err := s.orders.CreateSubmission(ctx, orders, osAdds); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("Submission committed",
			zap.String("buyer", buyer),
			zap.Int("orders", len(orders)),
			zap.Int("items", len(resolved)),
			zap.Strings("service_orders", osNumbers),
		)
	}

	return &SubmitResult{Orders: orders, Substitutions: notices}, nil
}

// resolveItem runs steps 1-5 for a single line: resolve product, validate
// optics, check the rule ceiling, then try cylinder substitution.
func (s *OrderService) resolveItem(ctx context.Context, item SubmitItem) (*resolvedItem, *SubstitutionNotice, error) {
	if item.Kind != entity.ProductKindLens && item.Kind != entity.ProductKindBlock {
		return nil, nil, fmt.Errorf("unknown product kind %q", item.Kind)
	}

	product, err := s.lookupProduct(ctx, item)
	if err != nil {
		return nil, nil, err
	}

	ri := resolvedItem{
		product:  product,
		supplier: item.SupplierID,
		price:    item.Price,
		base:     item.Base,
		addition: item.Addition,
		osNumber: item.OSNumber,
	}

	switch item.Kind {
	case entity.ProductKindLens:
		if item.Sphere == nil || item.Cylinder == nil {
			return nil, nil, &ValidationError{Field: "sphere/cylinder", Value: 0, Domain: "required for lens items"}
		}
		cyl, err := s.validator.ValidateLens(*item.Sphere, *item.Cylinder)
		if err != nil {
			return nil, nil, err
		}
		ri.sphere = item.Sphere
		ri.cylinder = &cyl
	case entity.ProductKindBlock:
		if item.Base == nil || item.Addition == nil {
			return nil, nil, &ValidationError{Field: "base/addition", Value: 0, Domain: "required for block items"}
		}
		if err := s.validator.ValidateBlock(*item.Base, *item.Addition); err != nil {
			return nil, nil, err
		}
	}

	rule, err := s.rules.ActiveRule(ctx, product.ID, item.SupplierID)
	if err != nil {
		return nil, nil, err
	}
	if rule == nil {
		return nil, nil, &RuleNotFoundError{ProductName: product.Name, SupplierID: item.SupplierID}
	}
	if item.Price <= 0 || item.Price > rule.MaxPrice+priceEpsilon {
		return nil, nil, &PriceExceedsMaxError{ProductName: product.Name, Price: item.Price, MaxPrice: rule.MaxPrice}
	}

	if item.Kind == entity.ProductKindLens {
		sub, err := s.resolver.Resolve(ctx, product, item.SupplierID, ri.cylinder, ri.price)
		if err != nil {
			return nil, nil, err
		}
		ri.product = sub.Product
		ri.price = sub.Price
		if sub.Applied {
			return &ri, &SubstitutionNotice{
				OSNumber: item.OSNumber,
				OldName:  sub.OldName,
				NewName:  sub.NewName,
				Price:    sub.Price,
			}, nil
		}
	}

	return &ri, nil, nil
}

func (s *OrderService) lookupProduct(ctx context.Context, item SubmitItem) (*entity.Product, error) {
	var product *entity.Product
	var err error

	switch {
	case item.ProductID != "":
		product, err = s.products.FindByID(ctx, item.ProductID)
	case item.ProductCode != "":
		product, err = s.products.FindByCodeKind(ctx, item.ProductCode, item.Kind)
	default:
		return nil, &ProductNotFoundError{Ref: "", Kind: item.Kind}
	}

	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			ref := item.ProductID
			if ref == "" {
				ref = item.ProductCode
			}
			return nil, &ProductNotFoundError{Ref: ref, Kind: item.Kind}
		}
		return nil, err
	}
	if !product.Active {
		return nil, &ProductNotFoundError{Ref: product.Name, Kind: product.Kind}
	}
	return product, nil
}

// buildOrders partitions the resolved items by supplier and builds one order
// per supplier. Billing suppliers get an immediate invoiced payment and the
// paid status.
func (s *OrderService) buildOrders(ctx context.Context, buyer string, resolved []resolvedItem, osNumbers []string) ([]*entity.PurchaseOrder, error) {
	bySupplier := make(map[string][]resolvedItem)
	var supplierIDs []string
	for _, ri := range resolved {
		if _, seen := bySupplier[ri.supplier]; !seen {
			supplierIDs = append(supplierIDs, ri.supplier)
		}
		bySupplier[ri.supplier] = append(bySupplier[ri.supplier], ri)
	}

	note := "OS " + strings.Join(osNumbers, ", ")
	now := time.Now()

	var orders []*entity.PurchaseOrder
	for _, supplierID := range supplierIDs {
		supplier, err := s.suppliers.FindByID(ctx, supplierID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("supplier %s not found", supplierID)
			}
			return nil, err
		}
		if !supplier.Active {
			return nil, fmt.Errorf("supplier %q is inactive", supplier.Name)
		}

		code, err := s.orders.GenerateCode(ctx)
		if err != nil {
			return nil, fmt.Errorf("generate order code: %w", err)
		}

		order := &entity.PurchaseOrder{
			ID:         uuid.New().String()[:32],
			OrderCode:  code,
			SupplierID: supplierID,
			Buyer:      buyer,
			Status:     entity.OrderStatusPendingPayment,
			Notes:      note,
		}

		var total float64
		for i, ri := range bySupplier[supplierID] {
			total += ri.price
			order.Items = append(order.Items, entity.PurchaseItem{
				ID:          uuid.New().String()[:32],
				OrderID:     order.ID,
				ProductID:   ri.product.ID,
				ProductName: ri.product.Name,
				Quantity:    1,
				UnitPrice:   ri.price,
				Sphere:      ri.sphere,
				Cylinder:    ri.cylinder,
				Base:        ri.base,
				Addition:    ri.addition,
				OSNumber:    ri.osNumber,
				SortOrder:   i + 1,
			})
		}
		order.Total = total

		if supplier.Billing {
			order.Status = entity.OrderStatusPaid
			order.Payment = &entity.Payment{
				ID:      uuid.New().String()[:32],
				OrderID: order.ID,
				Payer:   buyer,
				Method:  entity.PaymentMethodInvoiced,
				Amount:  total,
				PaidAt:  now,
			}
		}

		orders = append(orders, order)
	}

	return orders, nil
}

// List pages through orders.
func (s *OrderService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.PurchaseOrder, int64, error) {
	return s.orders.FindAll(ctx, page, pageSize, filters)
}

// Get loads one order.
func (s *OrderService) Get(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return s.orders.FindByID(ctx, id)
}

// RemoveUnpaid deletes an order that has not been paid yet. Its items keep
// counting toward the OS cap only while they exist, so removal frees the OS.
func (s *OrderService) RemoveUnpaid(ctx context.Context, id string) error {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if order.Status != entity.OrderStatusPendingPayment {
		return fmt.Errorf("order %s is %s, only pending orders can be removed", order.OrderCode, order.Status)
	}
	return s.orders.Delete(ctx, id)
}

// Cancel flags a pending order as canceled. Canceled items still consume the
// OS cap.
func (s *OrderService) Cancel(ctx context.Context, id string) error {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if order.Status != entity.OrderStatusPendingPayment {
		return fmt.Errorf("order %s is %s, only pending orders can be canceled", order.OrderCode, order.Status)
	}
	return s.orders.UpdateStatus(ctx, id, entity.OrderStatusCanceled)
}
