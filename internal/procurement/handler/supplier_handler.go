package handler

import (
	"errors"

	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/procurement/repository"
	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/procurement/service"
	"github.com/gin-gonic/gin"
)

type SupplierHandler struct {
	svc *service.SupplierService
}

func NewSupplierHandler(svc *service.SupplierService) *SupplierHandler {
	return &SupplierHandler{svc: svc}
}

// ListSuppliers lists suppliers
// GET /api/v1/suppliers?search=xxx&active=true&billing=false&page=1&page_size=20
func (h *SupplierHandler) ListSuppliers(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"search":  c.Query("search"),
		"active":  c.Query("active"),
		"billing": c.Query("billing"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "list suppliers: "+err.Error())
		return
	}
	paginated(c, items, page, pageSize, total)
}

// GetSupplier shows one supplier
// GET /api/v1/suppliers/:id
func (h *SupplierHandler) GetSupplier(c *gin.Context) {
	supplier, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		NotFound(c, "supplier not found")
		return
	}
	Success(c, supplier)
}

// CreateSupplier registers a supplier
// POST /api/v1/suppliers
func (h *SupplierHandler) CreateSupplier(c *gin.Context) {
	var req service.SupplierInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	supplier, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		Conflict(c, err.Error())
		return
	}
	Created(c, supplier)
}

// UpdateSupplier updates name or flags
// PUT /api/v1/suppliers/:id
func (h *SupplierHandler) UpdateSupplier(c *gin.Context) {
	var req service.SupplierInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	supplier, err := h.svc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "supplier not found")
			return
		}
		Conflict(c, err.Error())
		return
	}
	Success(c, supplier)
}

// DeleteSupplier removes a supplier
// DELETE /api/v1/suppliers/:id
func (h *SupplierHandler) DeleteSupplier(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "supplier not found")
			return
		}
		InternalError(c, "delete supplier: "+err.Error())
		return
	}
	Success(c, nil)
}
