package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/procurement/entity"
	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/procurement/repository"
	"go.uber.org/zap"
)

type fakeOrderStore struct {
	itemCounts map[string]int64
	created    []*entity.PurchaseOrder
	codeSeq    int
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{itemCounts: make(map[string]int64)}
}

func (s *fakeOrderStore) CountItemsByServiceOrder(_ context.Context, osNumber string) (int64, error) {
	return s.itemCounts[osNumber], nil
}

func (s *fakeOrderStore) CreateSubmission(_ context.Context, orders []*entity.PurchaseOrder, osAdds map[string]int) error {
	for osNumber, adding := range osAdds {
		if int(s.itemCounts[osNumber])+adding > entity.ServiceOrderItemCap {
			return &repository.ServiceOrderCapError{
				OSNumber: osNumber,
				Stored:   int(s.itemCounts[osNumber]),
				Adding:   adding,
				Cap:      entity.ServiceOrderItemCap,
			}
		}
	}
	for osNumber, adding := range osAdds {
		s.itemCounts[osNumber] += int64(adding)
	}
	s.created = append(s.created, orders...)
	return nil
}

func (s *fakeOrderStore) GenerateCode(_ context.Context) (string, error) {
	s.codeSeq++
	return fmt.Sprintf("OC-2026-%04d", s.codeSeq), nil
}

func (s *fakeOrderStore) FindAll(_ context.Context, _, _ int, _ map[string]string) ([]entity.PurchaseOrder, int64, error) {
	out := make([]entity.PurchaseOrder, 0, len(s.created))
	for _, o := range s.created {
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (s *fakeOrderStore) FindByID(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	for _, o := range s.created {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *fakeOrderStore) Delete(_ context.Context, id string) error {
	for i, o := range s.created {
		if o.ID == id {
			for _, item := range o.Items {
				s.itemCounts[item.OSNumber]--
			}
			s.created = append(s.created[:i], s.created[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *fakeOrderStore) UpdateStatus(_ context.Context, orderID, status string) error {
	for _, o := range s.created {
		if o.ID == orderID {
			o.Status = status
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeSuppliers struct {
	byID map[string]*entity.Supplier
}

func newFakeSuppliers(suppliers ...*entity.Supplier) *fakeSuppliers {
	d := &fakeSuppliers{byID: make(map[string]*entity.Supplier)}
	for _, s := range suppliers {
		d.byID[s.ID] = s
	}
	return d
}

func (d *fakeSuppliers) FindByID(_ context.Context, id string) (*entity.Supplier, error) {
	if s, ok := d.byID[id]; ok {
		return s, nil
	}
	return nil, repository.ErrNotFound
}

func newTestOrderService(store *fakeOrderStore, catalog *fakeCatalog, suppliers *fakeSuppliers, rules *fakeRules) *OrderService {
	return NewOrderService(store, catalog, suppliers, rules, NoopServiceOrderLocker{}, zap.NewNop())
}

func supplier(id, name string, billing bool) *entity.Supplier {
	return &entity.Supplier{ID: id, Name: name, Active: true, Billing: billing}
}

func lensItem(productID, supplierID, osNumber string, price, sphere, cylinder float64) SubmitItem {
	return SubmitItem{
		ProductID:  productID,
		Kind:       entity.ProductKindLens,
		SupplierID: supplierID,
		Price:      price,
		Sphere:     fp(sphere),
		Cylinder:   fp(cylinder),
		OSNumber:   osNumber,
	}
}

func TestComposeSplitsOrdersBySupplier(t *testing.T) {
	store := newFakeOrderStore()
	catalog := newFakeCatalog(lens("p1", "CR39 1.56"), lens("p2", "Poly 1.59"))
	suppliers := newFakeSuppliers(supplier("s1", "Essilor", false), supplier("s2", "Hoya", false))
	rules := newFakeRules(rule("p1", "s1", 100), rule("p2", "s2", 200))
	svc := newTestOrderService(store, catalog, suppliers, rules)

	result, err := svc.Compose(context.Background(), "ana", []SubmitItem{
		lensItem("p1", "s1", "9001", 80, -2, -1),
		lensItem("p2", "s2", "9001", 150, 1.5, 0),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Orders) != 2 {
		t.Fatalf("orders = %d, want 2", len(result.Orders))
	}
	for _, order := range result.Orders {
		if len(order.Items) != 1 {
			t.Errorf("order %s items = %d, want 1", order.OrderCode, len(order.Items))
		}
		if order.Status != entity.OrderStatusPendingPayment {
			t.Errorf("order %s status = %s, want pending_payment", order.OrderCode, order.Status)
		}
		if order.Payment != nil {
			t.Errorf("order %s has a payment, want none", order.OrderCode)
		}
		if order.Buyer != "ana" {
			t.Errorf("buyer = %s, want ana", order.Buyer)
		}
		if order.Notes != "OS 9001" {
			t.Errorf("notes = %q, want \"OS 9001\"", order.Notes)
		}
	}
	if result.Orders[0].Total != 80 || result.Orders[1].Total != 150 {
		t.Errorf("totals = %v / %v, want 80 / 150", result.Orders[0].Total, result.Orders[1].Total)
	}
	if store.itemCounts["9001"] != 2 {
		t.Errorf("stored items for OS 9001 = %d, want 2", store.itemCounts["9001"])
	}
}

func TestComposeBillingSupplierIsPaidImmediately(t *testing.T) {
	store := newFakeOrderStore()
	catalog := newFakeCatalog(lens("p1", "CR39 1.56"))
	suppliers := newFakeSuppliers(supplier("s1", "Saturn", true))
	rules := newFakeRules(rule("p1", "s1", 100))
	svc := newTestOrderService(store, catalog, suppliers, rules)

	result, err := svc.Compose(context.Background(), "ana", []SubmitItem{
		lensItem("p1", "s1", "9002", 90, 0, 0),
	})
	if err != nil {
		t.Fatal(err)
	}
	order := result.Orders[0]
	if order.Status != entity.OrderStatusPaid {
		t.Fatalf("status = %s, want paid", order.Status)
	}
	if order.Payment == nil {
		t.Fatal("billing order has no payment")
	}
	if order.Payment.Method != entity.PaymentMethodInvoiced {
		t.Errorf("method = %s, want invoiced", order.Payment.Method)
	}
	if order.Payment.Amount != 90 {
		t.Errorf("amount = %v, want 90", order.Payment.Amount)
	}
	if order.Payment.Payer != "ana" {
		t.Errorf("payer = %s, want ana", order.Payment.Payer)
	}
}

func TestComposeEnforcesServiceOrderCap(t *testing.T) {
	store := newFakeOrderStore()
	store.itemCounts["9003"] = 1
	catalog := newFakeCatalog(lens("p1", "CR39 1.56"))
	suppliers := newFakeSuppliers(supplier("s1", "Essilor", false))
	rules := newFakeRules(rule("p1", "s1", 100))
	svc := newTestOrderService(store, catalog, suppliers, rules)

	_, err := svc.Compose(context.Background(), "ana", []SubmitItem{
		lensItem("p1", "s1", "9003", 80, -1, 0),
		lensItem("p1", "s1", "9003", 80, -1, 0),
	})
	var capErr *repository.ServiceOrderCapError
	if !errors.As(err, &capErr) {
		t.Fatalf("error = %v, want *ServiceOrderCapError", err)
	}
	if capErr.OSNumber != "9003" || capErr.Stored != 1 || capErr.Adding != 2 {
		t.Errorf("cap error = %+v", capErr)
	}
	if len(store.created) != 0 {
		t.Errorf("orders committed = %d, want 0", len(store.created))
	}
	if store.itemCounts["9003"] != 1 {
		t.Errorf("stored items mutated to %d, want 1", store.itemCounts["9003"])
	}
}

func TestComposeRejectsPriceAboveCeiling(t *testing.T) {
	store := newFakeOrderStore()
	catalog := newFakeCatalog(lens("p1", "CR39 1.56"))
	suppliers := newFakeSuppliers(supplier("s1", "Essilor", false))
	rules := newFakeRules(rule("p1", "s1", 100))
	svc := newTestOrderService(store, catalog, suppliers, rules)

	_, err := svc.Compose(context.Background(), "ana", []SubmitItem{
		lensItem("p1", "s1", "9004", 100.01, -1, 0),
	})
	var priceErr *PriceExceedsMaxError
	if !errors.As(err, &priceErr) {
		t.Fatalf("error = %v, want *PriceExceedsMaxError", err)
	}
	if len(store.created) != 0 {
		t.Error("order committed despite price rejection")
	}
}

func TestComposeRejectsUnknownRuleAndProduct(t *testing.T) {
	store := newFakeOrderStore()
	catalog := newFakeCatalog(lens("p1", "CR39 1.56"))
	suppliers := newFakeSuppliers(supplier("s1", "Essilor", false))
	svc := newTestOrderService(store, catalog, suppliers, newFakeRules())

	_, err := svc.Compose(context.Background(), "ana", []SubmitItem{
		lensItem("p1", "s1", "9005", 80, -1, 0),
	})
	var ruleErr *RuleNotFoundError
	if !errors.As(err, &ruleErr) {
		t.Fatalf("error = %v, want *RuleNotFoundError", err)
	}

	_, err = svc.Compose(context.Background(), "ana", []SubmitItem{
		lensItem("missing", "s1", "9005", 80, -1, 0),
	})
	var notFound *ProductNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want *ProductNotFoundError", err)
	}
}

func TestComposeAppliesSubstitutionAndReportsIt(t *testing.T) {
	store := newFakeOrderStore()
	base := lens("p1", "CR39 1.56")
	reinforced := lens("p2", "CR39 1.56 CIL. EST.")
	catalog := newFakeCatalog(base, reinforced)
	suppliers := newFakeSuppliers(supplier("s1", "Essilor", false))
	rules := newFakeRules(rule("p1", "s1", 100), rule("p2", "s1", 120))
	svc := newTestOrderService(store, catalog, suppliers, rules)

	result, err := svc.Compose(context.Background(), "ana", []SubmitItem{
		lensItem("p1", "s1", "9006", 80, -2, -3),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Substitutions) != 1 {
		t.Fatalf("substitutions = %d, want 1", len(result.Substitutions))
	}
	notice := result.Substitutions[0]
	if notice.NewName != "CR39 1.56 CIL. EST." || notice.OSNumber != "9006" {
		t.Errorf("notice = %+v", notice)
	}
	item := result.Orders[0].Items[0]
	if item.ProductID != "p2" || item.ProductName != "CR39 1.56 CIL. EST." {
		t.Errorf("item product = %s (%s), want reinforced variant", item.ProductID, item.ProductName)
	}
}

func TestComposeNormalizesPositiveCylinder(t *testing.T) {
	store := newFakeOrderStore()
	catalog := newFakeCatalog(lens("p1", "CR39 1.56"))
	suppliers := newFakeSuppliers(supplier("s1", "Essilor", false))
	rules := newFakeRules(rule("p1", "s1", 100))
	svc := newTestOrderService(store, catalog, suppliers, rules)

	result, err := svc.Compose(context.Background(), "ana", []SubmitItem{
		lensItem("p1", "s1", "9007", 80, 1.5, 2),
	})
	if err != nil {
		t.Fatal(err)
	}
	item := result.Orders[0].Items[0]
	if item.Cylinder == nil || *item.Cylinder != -2 {
		t.Errorf("stored cylinder = %v, want -2", item.Cylinder)
	}
}

func TestCancelAndRemoveUnpaid(t *testing.T) {
	store := newFakeOrderStore()
	catalog := newFakeCatalog(lens("p1", "CR39 1.56"))
	suppliers := newFakeSuppliers(supplier("s1", "Essilor", false))
	rules := newFakeRules(rule("p1", "s1", 100))
	svc := newTestOrderService(store, catalog, suppliers, rules)

	result, err := svc.Compose(context.Background(), "ana", []SubmitItem{
		lensItem("p1", "s1", "9008", 80, -1, 0),
	})
	if err != nil {
		t.Fatal(err)
	}
	orderID := result.Orders[0].ID

	if err := svc.Cancel(context.Background(), orderID); err != nil {
		t.Fatal(err)
	}
	order, _ := store.FindByID(context.Background(), orderID)
	if order.Status != entity.OrderStatusCanceled {
		t.Fatalf("status = %s, want canceled", order.Status)
	}

	// Canceled orders are no longer pending, so they cannot be removed.
	if err := svc.RemoveUnpaid(context.Background(), orderID); err == nil {
		t.Fatal("removed a canceled order")
	}
}
