package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/procurement/entity"
)

// ReportStore is the read surface of the daily payment report.
type ReportStore interface {
	FindPaidBetween(ctx context.Context, from, to time.Time) ([]entity.PurchaseOrder, error)
}

// ReportService builds the paid-orders report for a single day.
type ReportService struct {
	orders ReportStore
}

func NewReportService(orders ReportStore) *ReportService {
	return &ReportService{orders: orders}
}

// DailyReport lists every order paid on one calendar day.
type DailyReport struct {
	Date   string                 `json:"date"`
	Total  float64                `json:"total"`
	Orders []entity.PurchaseOrder `json:"orders"`
}

// PaidOn returns the orders whose payment landed on the given day, in
// payment order, along with the day's grand total.
func (s *ReportService) PaidOn(ctx context.Context, day time.Time) (*DailyReport, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	to := from.Add(24 * time.Hour)

	orders, err := s.orders.FindPaidBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	report := &DailyReport{Date: from.Format("2006-01-02"), Orders: orders}
	for _, order := range orders {
		report.Total += order.Total
	}
	return report, nil
}

var reportHeader = []string{
	"OC", "Fornecedor", "Comprador", "OS", "Produto",
	"Esferico", "Cilindrico", "Base", "Adicao",
	"Valor", "Metodo", "Pago em",
}

// ExportCSV renders the report one row per item, semicolon separated and
// prefixed with a UTF-8 BOM so spreadsheet tools pick the encoding up.
func (s *ReportService) ExportCSV(ctx context.Context, day time.Time) ([]byte, error) {
	report, err := s.PaidOn(ctx, day)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString("\uFEFF")
	w := csv.NewWriter(&buf)
	w.Comma = ';'

	if err := w.Write(reportHeader); err != nil {
		return nil, err
	}
	for _, order := range report.Orders {
		supplier := order.SupplierID
		if order.Supplier != nil {
			supplier = order.Supplier.Name
		}
		method, paidAt := "", ""
		if order.Payment != nil {
			method = order.Payment.Method
			paidAt = order.Payment.PaidAt.Format("2006-01-02 15:04")
		}
		for _, item := range order.Items {
			row := []string{
				order.OrderCode,
				supplier,
				order.Buyer,
				item.OSNumber,
				item.ProductName,
				formatOptical(item.Sphere),
				formatOptical(item.Cylinder),
				formatOptical(item.Base),
				formatOptical(item.Addition),
				formatMoney(item.UnitPrice),
				method,
				paidAt,
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatOptical(v *float64) string {
	if v == nil {
		return ""
	}
	return strings.Replace(fmt.Sprintf("%.2f", *v), ".", ",", 1)
}

func formatMoney(v float64) string {
	return strings.Replace(fmt.Sprintf("%.2f", v), ".", ",", 1)
}
