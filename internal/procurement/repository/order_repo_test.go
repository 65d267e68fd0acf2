package repository_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/procurement/entity"
	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/procurement/repository"
	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/testutil"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func seedSupplier(t *testing.T, db *gorm.DB, name string, billing bool) *entity.Supplier {
	t.Helper()
	supplier := &entity.Supplier{
		ID:      uuid.New().String()[:32],
		Name:    name,
		Active:  true,
		Billing: billing,
	}
	if err := db.Create(supplier).Error; err != nil {
		t.Fatalf("seed supplier: %v", err)
	}
	return supplier
}

func seedProduct(t *testing.T, db *gorm.DB, name, kind string) *entity.Product {
	t.Helper()
	product := &entity.Product{
		ID:     uuid.New().String()[:32],
		Name:   name,
		Kind:   kind,
		Active: true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func buildOrder(supplierID, osNumber string, items int) *entity.PurchaseOrder {
	order := &entity.PurchaseOrder{
		ID:         uuid.New().String()[:32],
		OrderCode:  "OC-TEST-" + uuid.New().String()[:8],
		SupplierID: supplierID,
		Buyer:      "ana",
		Status:     entity.OrderStatusPendingPayment,
	}
	for i := 0; i < items; i++ {
		order.Items = append(order.Items, entity.PurchaseItem{
			ID:        uuid.New().String()[:32],
			OrderID:   order.ID,
			ProductID: "",
			UnitPrice: 10,
			Quantity:  1,
			OSNumber:  osNumber,
			SortOrder: i + 1,
		})
		order.Total += 10
	}
	return order
}

func TestCreateSubmissionPersistsItemsAndPayment(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	ctx := context.Background()

	supplier := seedSupplier(t, db, "Essilor", false)
	product := seedProduct(t, db, "CR39 1.56", entity.ProductKindLens)

	order := buildOrder(supplier.ID, "7001", 2)
	for i := range order.Items {
		order.Items[i].ProductID = product.ID
		order.Items[i].ProductName = product.Name
	}
	order.Status = entity.OrderStatusPaid
	order.Payment = &entity.Payment{
		ID:      uuid.New().String()[:32],
		OrderID: order.ID,
		Payer:   "ana",
		Method:  entity.PaymentMethodInvoiced,
		Amount:  order.Total,
		PaidAt:  time.Now(),
	}

	err := repos.Order.CreateSubmission(ctx, []*entity.PurchaseOrder{order}, map[string]int{"7001": 2})
	if err != nil {
		t.Fatal(err)
	}

	got, err := repos.Order.FindByID(ctx, order.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Items) != 2 {
		t.Errorf("items = %d, want 2", len(got.Items))
	}
	if got.Payment == nil || got.Payment.Method != entity.PaymentMethodInvoiced {
		t.Errorf("payment = %+v, want invoiced", got.Payment)
	}

	count, err := repos.Order.CountItemsByServiceOrder(ctx, "7001")
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestCreateSubmissionEnforcesCapInTransaction(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	ctx := context.Background()

	supplier := seedSupplier(t, db, "Hoya", false)
	first := buildOrder(supplier.ID, "7002", 2)
	if err := repos.Order.CreateSubmission(ctx, []*entity.PurchaseOrder{first}, map[string]int{"7002": 2}); err != nil {
		t.Fatal(err)
	}

	second := buildOrder(supplier.ID, "7002", 1)
	err := repos.Order.CreateSubmission(ctx, []*entity.PurchaseOrder{second}, map[string]int{"7002": 1})
	var capErr *repository.ServiceOrderCapError
	if !errors.As(err, &capErr) {
		t.Fatalf("error = %v, want *ServiceOrderCapError", err)
	}

	// The rejected submission must not have written anything.
	if _, err := repos.Order.FindByID(ctx, second.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("rejected order was persisted, lookup err = %v", err)
	}
	count, _ := repos.Order.CountItemsByServiceOrder(ctx, "7002")
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestGenerateCodeIsSequentialPerYear(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	ctx := context.Background()

	first, err := repos.Order.GenerateCode(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := fmt.Sprintf("OC-%d-0001", time.Now().Year())
	if first != want {
		t.Fatalf("first code = %s, want %s", first, want)
	}

	supplier := seedSupplier(t, db, "Zeiss", false)
	order := buildOrder(supplier.ID, "7003", 1)
	order.OrderCode = first
	if err := repos.Order.CreateSubmission(ctx, []*entity.PurchaseOrder{order}, map[string]int{"7003": 1}); err != nil {
		t.Fatal(err)
	}

	second, err := repos.Order.GenerateCode(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if second != fmt.Sprintf("OC-%d-0002", time.Now().Year()) {
		t.Errorf("second code = %s", second)
	}
}

func TestFindPaidBetween(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	ctx := context.Background()

	supplier := seedSupplier(t, db, "Saturn", true)

	paidAt := time.Date(2026, 8, 28, 11, 0, 0, 0, time.UTC)
	inside := buildOrder(supplier.ID, "7004", 1)
	inside.Status = entity.OrderStatusPaid
	inside.Payment = &entity.Payment{
		ID:      uuid.New().String()[:32],
		OrderID: inside.ID,
		Payer:   "bruno",
		Method:  entity.PaymentMethodPix,
		Amount:  inside.Total,
		PaidAt:  paidAt,
	}
	outside := buildOrder(supplier.ID, "7005", 1)
	outside.Status = entity.OrderStatusPaid
	outside.Payment = &entity.Payment{
		ID:      uuid.New().String()[:32],
		OrderID: outside.ID,
		Payer:   "bruno",
		Method:  entity.PaymentMethodPix,
		Amount:  outside.Total,
		PaidAt:  paidAt.Add(48 * time.Hour),
	}
	err := repos.Order.CreateSubmission(ctx, []*entity.PurchaseOrder{inside, outside},
		map[string]int{"7004": 1, "7005": 1})
	if err != nil {
		t.Fatal(err)
	}

	from := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	got, err := repos.Order.FindPaidBetween(ctx, from, from.Add(24*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != inside.ID {
		t.Fatalf("paid between = %d orders, want only the one inside the window", len(got))
	}
}
