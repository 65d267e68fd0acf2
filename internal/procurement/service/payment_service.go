package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/procurement/entity"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentStore is the surface the payer workflow needs from order storage.
type PaymentStore interface {
	FindByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	FindByStatus(ctx context.Context, status string) ([]entity.PurchaseOrder, error)
	RegisterPayment(ctx context.Context, orderID string, payment *entity.Payment) error
}

// PaymentService settles pending orders.
type PaymentService struct {
	orders PaymentStore
	logger *zap.Logger
}

func NewPaymentService(orders PaymentStore, logger *zap.Logger) *PaymentService {
	return &PaymentService{orders: orders, logger: logger}
}

// SupplierQueue is one supplier's slice of the pending queue.
type SupplierQueue struct {
	SupplierID   string                 `json:"supplier_id"`
	SupplierName string                 `json:"supplier_name"`
	Total        float64                `json:"total"`
	Orders       []entity.PurchaseOrder `json:"orders"`
}

// PendingBySupplier groups every pending order under its supplier, oldest
// first, with a running total per supplier.
func (s *PaymentService) PendingBySupplier(ctx context.Context) ([]SupplierQueue, error) {
	orders, err := s.orders.FindByStatus(ctx, entity.OrderStatusPendingPayment)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	var queues []SupplierQueue
	for _, order := range orders {
		i, ok := index[order.SupplierID]
		if !ok {
			name := order.SupplierID
			if order.Supplier != nil {
				name = order.Supplier.Name
			}
			queues = append(queues, SupplierQueue{SupplierID: order.SupplierID, SupplierName: name})
			i = len(queues) - 1
			index[order.SupplierID] = i
		}
		queues[i].Orders = append(queues[i].Orders, order)
		queues[i].Total += order.Total
	}
	return queues, nil
}

// Settle records a payment against a pending order and flips it to paid.
// The amount is always the order total; partial payments do not exist here.
func (s *PaymentService) Settle(ctx context.Context, orderID, payer, method, reference string) (*entity.Payment, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != entity.OrderStatusPendingPayment {
		return nil, fmt.Errorf("order %s is %s, only pending orders can be paid", order.OrderCode, order.Status)
	}

	method = normalizeMethod(method)

	payment := &entity.Payment{
		ID:        uuid.New().String()[:32],
		OrderID:   order.ID,
		Payer:     payer,
		Method:    method,
		Reference: reference,
		Amount:    order.Total,
		PaidAt:    time.Now(),
	}
	if err := s.orders.RegisterPayment(ctx, order.ID, payment); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("Order paid",
			zap.String("order_code", order.OrderCode),
			zap.String("payer", payer),
			zap.String("method", method),
			zap.Float64("amount", order.Total),
		)
	}
	return payment, nil
}

func normalizeMethod(method string) string {
	switch strings.ToUpper(strings.TrimSpace(method)) {
	case entity.PaymentMethodTed:
		return entity.PaymentMethodTed
	case "BOLETO":
		return entity.PaymentMethodBoleto
	case entity.PaymentMethodPix, "":
		return entity.PaymentMethodPix
	default:
		return entity.PaymentMethodPix
	}
}
