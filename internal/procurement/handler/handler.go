package handler

import (
	"strconv"

	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/procurement/service"
	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/storage"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers is the procurement handler set.
type Handlers struct {
	Order    *OrderHandler
	Payment  *PaymentHandler
	Supplier *SupplierHandler
	Product  *ProductHandler
	Rule     *RuleHandler
	Import   *ImportHandler
}

func NewHandlers(
	orderSvc *service.OrderService,
	paymentSvc *service.PaymentService,
	reportSvc *service.ReportService,
	supplierSvc *service.SupplierService,
	productSvc *service.ProductService,
	ruleSvc *service.PriceRuleService,
	importSvc *service.CatalogImportService,
	importers ImportTargets,
	archiver *storage.Archiver,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		Order:    NewOrderHandler(orderSvc),
		Payment:  NewPaymentHandler(paymentSvc, reportSvc),
		Supplier: NewSupplierHandler(supplierSvc),
		Product:  NewProductHandler(productSvc),
		Rule:     NewRuleHandler(ruleSvc),
		Import:   NewImportHandler(importSvc, importers, archiver, logger),
	}
}

type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ListResponse struct {
	Items      interface{} `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

func Conflict(c *gin.Context, message string) {
	Error(c, 40900, message)
}

func UnprocessableEntity(c *gin.Context, message string) {
	Error(c, 42200, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

func GetUserName(c *gin.Context) string {
	userName, _ := c.Get("user_name")
	if name, ok := userName.(string); ok {
		return name
	}
	return ""
}

func GetPagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = 20

	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}

	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}

	return page, pageSize
}

func paginated(c *gin.Context, items interface{}, page, pageSize int, total int64) {
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	Success(c, ListResponse{
		Items: items,
		Pagination: &Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      int(total),
			TotalPages: totalPages,
		},
	})
}
