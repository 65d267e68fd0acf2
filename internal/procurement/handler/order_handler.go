package handler

import (
	"errors"

	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/procurement/repository"
	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/procurement/service"
	"github.com/gin-gonic/gin"
)

// OrderHandler exposes submission and order browsing.
type OrderHandler struct {
	svc *service.OrderService
}

func NewOrderHandler(svc *service.OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type submitRequest struct {
	Items []service.SubmitItem `json:"items" binding:"required"`
}

// SubmitOrders creates orders from raw line items
// POST /api/v1/orders
func (h *OrderHandler) SubmitOrders(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	result, err := h.svc.Compose(c.Request.Context(), GetUserName(c), req.Items)
	if err != nil {
		writeComposeError(c, err)
		return
	}
	Created(c, result)
}

// writeComposeError maps the composer's error types onto the API envelope.
func writeComposeError(c *gin.Context, err error) {
	var validation *service.ValidationError
	var notFound *service.ProductNotFoundError
	var noRule *service.RuleNotFoundError
	var tooExpensive *service.PriceExceedsMaxError
	var capErr *repository.ServiceOrderCapError

	switch {
	case errors.As(err, &validation):
		UnprocessableEntity(c, validation.Error())
	case errors.As(err, &notFound):
		NotFound(c, notFound.Error())
	case errors.As(err, &noRule):
		UnprocessableEntity(c, noRule.Error())
	case errors.As(err, &tooExpensive):
		UnprocessableEntity(c, tooExpensive.Error())
	case errors.As(err, &capErr):
		Conflict(c, capErr.Error())
	case errors.Is(err, service.ErrServiceOrderBusy):
		Conflict(c, err.Error())
	default:
		InternalError(c, "submit orders: "+err.Error())
	}
}

// ListOrders lists orders
// GET /api/v1/orders?supplier_id=xxx&status=xxx&search=xxx&page=1&page_size=20
func (h *OrderHandler) ListOrders(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"supplier_id": c.Query("supplier_id"),
		"status":      c.Query("status"),
		"search":      c.Query("search"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "list orders: "+err.Error())
		return
	}
	paginated(c, items, page, pageSize, total)
}

// GetOrder shows one order with items and payment
// GET /api/v1/orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		NotFound(c, "order not found")
		return
	}
	Success(c, order)
}

// DeleteOrder removes an unpaid order
// DELETE /api/v1/orders/:id
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	if err := h.svc.RemoveUnpaid(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "order not found")
			return
		}
		Conflict(c, err.Error())
		return
	}
	Success(c, nil)
}

// CancelOrder flags a pending order as canceled
// POST /api/v1/orders/:id/cancel
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	if err := h.svc.Cancel(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "order not found")
			return
		}
		Conflict(c, err.Error())
		return
	}
	Success(c, nil)
}
