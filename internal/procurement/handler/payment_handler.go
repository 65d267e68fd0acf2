package handler

import (
	"errors"
	"fmt"
	"time"

	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/procurement/repository"
	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/procurement/service"
	"github.com/gin-gonic/gin"
)

// PaymentHandler exposes the payer workflow: the pending queue, settlement
// and the daily report.
type PaymentHandler struct {
	payments *service.PaymentService
	reports  *service.ReportService
}

func NewPaymentHandler(payments *service.PaymentService, reports *service.ReportService) *PaymentHandler {
	return &PaymentHandler{payments: payments, reports: reports}
}

// ListPending shows the pending queue grouped by supplier
// GET /api/v1/payments/pending
func (h *PaymentHandler) ListPending(c *gin.Context) {
	queues, err := h.payments.PendingBySupplier(c.Request.Context())
	if err != nil {
		InternalError(c, "list pending payments: "+err.Error())
		return
	}
	Success(c, queues)
}

type settleRequest struct {
	Method    string `json:"method"`
	Reference string `json:"reference"`
}

// SettleOrder registers a payment and flips the order to paid
// POST /api/v1/orders/:id/payment
func (h *PaymentHandler) SettleOrder(c *gin.Context) {
	var req settleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	payment, err := h.payments.Settle(c.Request.Context(), c.Param("id"), GetUserName(c), req.Method, req.Reference)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "order not found")
			return
		}
		Conflict(c, err.Error())
		return
	}
	Created(c, payment)
}

// DailyReport lists the orders paid on one day
// GET /api/v1/reports/payments?date=2026-08-28
func (h *PaymentHandler) DailyReport(c *gin.Context) {
	day, err := reportDay(c.Query("date"))
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	report, err := h.reports.PaidOn(c.Request.Context(), day)
	if err != nil {
		InternalError(c, "payment report: "+err.Error())
		return
	}
	Success(c, report)
}

// DailyReportCSV downloads the same report as a spreadsheet-friendly CSV
// GET /api/v1/reports/payments/csv?date=2026-08-28
func (h *PaymentHandler) DailyReportCSV(c *gin.Context) {
	day, err := reportDay(c.Query("date"))
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	data, err := h.reports.ExportCSV(c.Request.Context(), day)
	if err != nil {
		InternalError(c, "payment report: "+err.Error())
		return
	}

	fileName := fmt.Sprintf("pagamentos-%s.csv", day.Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)
	c.Data(200, "text/csv; charset=utf-8", data)
}

func reportDay(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now(), nil
	}
	day, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", raw)
	}
	return day, nil
}
