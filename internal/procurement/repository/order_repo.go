package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/procurement/entity"
	"gorm.io/gorm"
)

// OrderRepository stores purchase orders, their items and payments.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// FindAll lists orders newest first.
func (r *OrderRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.PurchaseOrder, int64, error) {
	var items []entity.PurchaseOrder
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.PurchaseOrder{})

	if supplierID := filters["supplier_id"]; supplierID != "" {
		query = query.Where("supplier_id = ?", supplierID)
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if search := filters["search"]; search != "" {
		like := "%" + search + "%"
		query = query.Where(
			"order_code ILIKE ? OR notes ILIKE ? OR id IN (SELECT order_id FROM purchase_items WHERE os_number ILIKE ? OR product_name ILIKE ?)",
			like, like, like, like,
		)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Supplier").
		Preload("Items").
		Preload("Payment").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID loads an order with items, supplier and payment.
func (r *OrderRepository) FindByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	var order entity.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("Payment").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByStatus lists orders in one status with supplier and items preloaded,
// oldest first so pending work surfaces in submission order.
func (r *OrderRepository) FindByStatus(ctx context.Context, status string) ([]entity.PurchaseOrder, error) {
	var orders []entity.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Preload("Items").
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&orders).Error
	return orders, err
}

// FindPaidBetween lists paid orders whose payment landed inside [from, to).
func (r *OrderRepository) FindPaidBetween(ctx context.Context, from, to time.Time) ([]entity.PurchaseOrder, error) {
	var orders []entity.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Preload("Items").
		Preload("Payment").
		Joins("JOIN payments ON payments.order_id = purchase_orders.id").
		Where("purchase_orders.status = ?", entity.OrderStatusPaid).
		Where("payments.paid_at >= ? AND payments.paid_at < ?", from, to).
		Order("payments.paid_at ASC").
		Find(&orders).Error
	return orders, err
}

// CountItemsByServiceOrder counts the items ever stored for an OS, whatever
// the order status. Canceled orders still consume the cap.
func (r *OrderRepository) CountItemsByServiceOrder(ctx context.Context, osNumber string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.PurchaseItem{}).
		Where("os_number = ?", osNumber).
		Count(&count).Error
	return count, err
}

// CreateSubmission persists every order of one submission atomically. The OS
// cap is re-checked inside the transaction so two concurrent submissions for
// the same OS cannot both commit past the limit.
func (r *OrderRepository) CreateSubmission(ctx context.Context, orders []*entity.PurchaseOrder, osAdds map[string]int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for osNumber, adding := range osAdds {
			var stored int64
			if err := tx.Model(&entity.PurchaseItem{}).
				Where("os_number = ?", osNumber).
				Count(&stored).Error; err != nil {
				return err
			}
			if int(stored)+adding > entity.ServiceOrderItemCap {
				return &ServiceOrderCapError{
					OSNumber: osNumber,
					Stored:   int(stored),
					Adding:   adding,
					Cap:      entity.ServiceOrderItemCap,
				}
			}
		}

		for _, order := range orders {
			if err := tx.Create(order).Error; err != nil {
				return fmt.Errorf("create order %s: %w", order.OrderCode, err)
			}
		}
		return nil
	})
}

// RegisterPayment attaches a payment to an order and flips it to paid, in one
// transaction.
func (r *OrderRepository) RegisterPayment(ctx context.Context, orderID string, payment *entity.Payment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(payment).Error; err != nil {
			return err
		}
		return tx.Model(&entity.PurchaseOrder{}).
			Where("id = ?", orderID).
			Update("status", entity.OrderStatusPaid).Error
	})
}

// UpdateStatus sets an order's status.
func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID, status string) error {
	return r.db.WithContext(ctx).
		Model(&entity.PurchaseOrder{}).
		Where("id = ?", orderID).
		Update("status", status).Error
}

// Delete removes an order together with its items and payment.
func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&entity.PurchaseItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", id).Delete(&entity.Payment{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entity.PurchaseOrder{}).Error
	})
}

// GenerateCode builds the next order code, OC-{year}-{seq}.
func (r *OrderRepository) GenerateCode(ctx context.Context) (string, error) {
	year := time.Now().Format("2006")
	prefix := fmt.Sprintf("OC-%s-", year)

	var maxCode string
	err := r.db.WithContext(ctx).
		Model(&entity.PurchaseOrder{}).
		Select("COALESCE(MAX(order_code), '')").
		Where("order_code LIKE ?", prefix+"%").
		Scan(&maxCode).Error
	if err != nil {
		return "", err
	}

	var seq int
	if maxCode != "" {
		fmt.Sscanf(maxCode, "OC-"+year+"-%04d", &seq)
	}
	seq++
	return fmt.Sprintf("OC-%s-%04d", year, seq), nil
}
