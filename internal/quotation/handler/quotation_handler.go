package handler

import (
	"errors"

	procurement "github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/procurement/handler"
	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/quotation/repository"
	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/quotation/service"
	"github.com/gin-gonic/gin"
)

// QuotationHandler answers prescription-driven catalog queries.
type QuotationHandler struct {
	matcher *service.Matcher
}

func NewQuotationHandler(matcher *service.Matcher) *QuotationHandler {
	return &QuotationHandler{matcher: matcher}
}

// MatchProducts lists the products eligible for a prescription
// POST /api/v1/quotation/products/match
func (h *QuotationHandler) MatchProducts(c *gin.Context) {
	var criteria service.Criteria
	if err := c.ShouldBindJSON(&criteria); err != nil {
		procurement.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	products, err := h.matcher.MatchProducts(c.Request.Context(), criteria)
	if err != nil {
		procurement.InternalError(c, "match products: "+err.Error())
		return
	}
	procurement.Success(c, products)
}

type matchServicesRequest struct {
	ProductID    string               `json:"product_id" binding:"required"`
	Prescription service.Prescription `json:"prescription"`
}

// MatchServices resolves a product's service set for a prescription
// POST /api/v1/quotation/services/match
func (h *QuotationHandler) MatchServices(c *gin.Context) {
	var req matchServicesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		procurement.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	set, err := h.matcher.MatchServices(c.Request.Context(), req.ProductID, req.Prescription)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			procurement.NotFound(c, "quotation product not found")
			return
		}
		procurement.InternalError(c, "match services: "+err.Error())
		return
	}
	procurement.Success(c, set)
}
