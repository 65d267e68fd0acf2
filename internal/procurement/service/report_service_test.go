package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/procurement/entity"
)

type fakeReportStore struct {
	orders   []entity.PurchaseOrder
	lastFrom time.Time
	lastTo   time.Time
}

func (s *fakeReportStore) FindPaidBetween(_ context.Context, from, to time.Time) ([]entity.PurchaseOrder, error) {
	s.lastFrom, s.lastTo = from, to
	return s.orders, nil
}

func paidOrderWithItems() entity.PurchaseOrder {
	paidAt := time.Date(2026, 8, 28, 14, 30, 0, 0, time.UTC)
	return entity.PurchaseOrder{
		ID:        "1",
		OrderCode: "OC-2026-0001",
		Supplier:  &entity.Supplier{ID: "s1", Name: "Essilor"},
		Buyer:     "ana",
		Status:    entity.OrderStatusPaid,
		Total:     130,
		Payment:   &entity.Payment{Method: entity.PaymentMethodPix, PaidAt: paidAt},
		Items: []entity.PurchaseItem{
			{ProductName: "CR39 1.56", UnitPrice: 80, OSNumber: "9001", Sphere: fp(-2), Cylinder: fp(-1)},
			{ProductName: "Bloco B4", UnitPrice: 50, OSNumber: "9002", Base: fp(4), Addition: fp(2)},
		},
	}
}

func TestPaidOnWindowsTheDay(t *testing.T) {
	store := &fakeReportStore{orders: []entity.PurchaseOrder{paidOrderWithItems()}}
	svc := NewReportService(store)

	day := time.Date(2026, 8, 28, 10, 15, 0, 0, time.UTC)
	report, err := svc.PaidOn(context.Background(), day)
	if err != nil {
		t.Fatal(err)
	}
	if report.Date != "2026-08-28" {
		t.Errorf("date = %s", report.Date)
	}
	if report.Total != 130 {
		t.Errorf("total = %v, want 130", report.Total)
	}
	wantFrom := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	if !store.lastFrom.Equal(wantFrom) || !store.lastTo.Equal(wantFrom.Add(24*time.Hour)) {
		t.Errorf("window = [%v, %v)", store.lastFrom, store.lastTo)
	}
}

func TestExportCSVOneRowPerItem(t *testing.T) {
	store := &fakeReportStore{orders: []entity.PurchaseOrder{paidOrderWithItems()}}
	svc := NewReportService(store)

	out, err := svc.ExportCSV(context.Background(), time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	text := string(out)
	if !strings.HasPrefix(text, "\uFEFF") {
		t.Error("csv is missing the UTF-8 BOM")
	}

	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(text, "\uFEFF")), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want header plus two item rows", len(lines))
	}
	if !strings.Contains(lines[0], "OC;Fornecedor") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "OC-2026-0001;Essilor;ana;9001;CR39 1.56;-2,00;-1,00") {
		t.Errorf("first row = %q", lines[1])
	}
	if !strings.Contains(lines[2], ";9002;Bloco B4;;;4,00;2,00;50,00;PIX;") {
		t.Errorf("second row = %q", lines[2])
	}
}
