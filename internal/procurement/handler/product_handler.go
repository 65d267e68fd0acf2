package handler

import (
	"errors"

	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/procurement/repository"
	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/procurement/service"
	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	svc *service.ProductService
}

func NewProductHandler(svc *service.ProductService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

// ListProducts lists products
// GET /api/v1/products?search=xxx&kind=lens&active=true&page=1&page_size=20
func (h *ProductHandler) ListProducts(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"search": c.Query("search"),
		"kind":   c.Query("kind"),
		"active": c.Query("active"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "list products: "+err.Error())
		return
	}
	paginated(c, items, page, pageSize, total)
}

// GetProduct shows one product
// GET /api/v1/products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		NotFound(c, "product not found")
		return
	}
	Success(c, product)
}

// CreateProduct registers a product
// POST /api/v1/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req service.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	product, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		Conflict(c, err.Error())
		return
	}
	Created(c, product)
}

// UpdateProduct updates a product
// PUT /api/v1/products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var req service.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	product, err := h.svc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "product not found")
			return
		}
		Conflict(c, err.Error())
		return
	}
	Success(c, product)
}

// DeleteProduct removes a product
// DELETE /api/v1/products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "product not found")
			return
		}
		InternalError(c, "delete product: "+err.Error())
		return
	}
	Success(c, nil)
}
