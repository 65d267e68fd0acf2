package handler

import (
	"errors"

	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/procurement/repository"
	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/procurement/service"
	"github.com/gin-gonic/gin"
)

type RuleHandler struct {
	svc *service.PriceRuleService
}

func NewRuleHandler(svc *service.PriceRuleService) *RuleHandler {
	return &RuleHandler{svc: svc}
}

// ListRules lists price rules
// GET /api/v1/price-rules?product_id=xxx&supplier_id=xxx&active=true&page=1&page_size=20
func (h *RuleHandler) ListRules(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"product_id":  c.Query("product_id"),
		"supplier_id": c.Query("supplier_id"),
		"active":      c.Query("active"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "list price rules: "+err.Error())
		return
	}
	paginated(c, items, page, pageSize, total)
}

// GetRule shows one rule
// GET /api/v1/price-rules/:id
func (h *RuleHandler) GetRule(c *gin.Context) {
	rule, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		NotFound(c, "price rule not found")
		return
	}
	Success(c, rule)
}

// CreateRule registers a price ceiling for a (product, supplier) pair
// POST /api/v1/price-rules
func (h *RuleHandler) CreateRule(c *gin.Context) {
	var req service.PriceRuleInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	rule, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, err.Error())
			return
		}
		Conflict(c, err.Error())
		return
	}
	Created(c, rule)
}

// UpdateRule changes the ceiling or active flag
// PUT /api/v1/price-rules/:id
func (h *RuleHandler) UpdateRule(c *gin.Context) {
	var req service.PriceRuleInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	rule, err := h.svc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "price rule not found")
			return
		}
		Conflict(c, err.Error())
		return
	}
	Success(c, rule)
}

// DeleteRule removes a rule
// DELETE /api/v1/price-rules/:id
func (h *RuleHandler) DeleteRule(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "price rule not found")
			return
		}
		InternalError(c, "delete price rule: "+err.Error())
		return
	}
	Success(c, nil)
}
