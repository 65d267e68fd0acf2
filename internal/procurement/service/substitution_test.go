package service

import (
	"context"
	"testing"

	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/procurement/entity"
	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/procurement/repository"
)

type fakeCatalog struct {
	byID       map[string]*entity.Product
	byCodeKind map[string]*entity.Product
	byNameKind map[string]*entity.Product
}

func newFakeCatalog(products ...*entity.Product) *fakeCatalog {
	c := &fakeCatalog{
		byID:       make(map[string]*entity.Product),
		byCodeKind: make(map[string]*entity.Product),
		byNameKind: make(map[string]*entity.Product),
	}
	for _, p := range products {
		c.byID[p.ID] = p
		if p.Code != "" {
			c.byCodeKind[p.Code+"|"+p.Kind] = p
		}
		c.byNameKind[p.Name+"|"+p.Kind] = p
	}
	return c
}

func (c *fakeCatalog) FindByID(_ context.Context, id string) (*entity.Product, error) {
	if p, ok := c.byID[id]; ok {
		return p, nil
	}
	return nil, repository.ErrNotFound
}

func (c *fakeCatalog) FindByCodeKind(_ context.Context, code, kind string) (*entity.Product, error) {
	if p, ok := c.byCodeKind[code+"|"+kind]; ok {
		return p, nil
	}
	return nil, repository.ErrNotFound
}

func (c *fakeCatalog) FindActiveByNameKind(_ context.Context, name, kind string) (*entity.Product, error) {
	if p, ok := c.byNameKind[name+"|"+kind]; ok && p.Active {
		return p, nil
	}
	return nil, repository.ErrNotFound
}

type fakeRules struct {
	rules map[string]*entity.PriceRule
}

func newFakeRules(rules ...*entity.PriceRule) *fakeRules {
	r := &fakeRules{rules: make(map[string]*entity.PriceRule)}
	for _, rule := range rules {
		r.rules[rule.ProductID+"|"+rule.SupplierID] = rule
	}
	return r
}

func (r *fakeRules) ActiveRule(_ context.Context, productID, supplierID string) (*entity.PriceRule, error) {
	rule, ok := r.rules[productID+"|"+supplierID]
	if !ok || !rule.Active {
		return nil, nil
	}
	return rule, nil
}

func lens(id, name string) *entity.Product {
	return &entity.Product{ID: id, Name: name, Kind: entity.ProductKindLens, Active: true}
}

func rule(productID, supplierID string, max float64) *entity.PriceRule {
	return &entity.PriceRule{ID: "r-" + productID, ProductID: productID, SupplierID: supplierID, MaxPrice: max, Active: true}
}

func fp(v float64) *float64 { return &v }

func TestResolveKeepsMildCylinder(t *testing.T) {
	base := lens("p1", "CR39 1.56")
	catalog := newFakeCatalog(base, lens("p2", "CR39 1.56 CIL. EST."))
	resolver := NewSubstitutionResolver(catalog, newFakeRules(rule("p2", "s1", 100)))

	sub, err := resolver.Resolve(context.Background(), base, "s1", fp(-2.0), 80)
	if err != nil {
		t.Fatal(err)
	}
	if sub.Applied {
		t.Fatal("substitution applied for cylinder -2.00, want unchanged")
	}
	if sub.Product.ID != "p1" || sub.Price != 80 {
		t.Errorf("got product %s price %v, want p1 / 80", sub.Product.ID, sub.Price)
	}
}

func TestResolveReinforcedRange(t *testing.T) {
	base := lens("p1", "CR39 1.56")
	reinforced := lens("p2", "CR39 1.56 CIL. EST.")
	catalog := newFakeCatalog(base, reinforced)
	resolver := NewSubstitutionResolver(catalog, newFakeRules(rule("p2", "s1", 100)))

	sub, err := resolver.Resolve(context.Background(), base, "s1", fp(-2.25), 80)
	if err != nil {
		t.Fatal(err)
	}
	if !sub.Applied {
		t.Fatal("substitution not applied for cylinder -2.25")
	}
	if sub.Product.ID != "p2" {
		t.Errorf("substitute = %s, want p2", sub.Product.ID)
	}
	if sub.Price != 80 {
		t.Errorf("price = %v, want carried 80", sub.Price)
	}
	if sub.OldName != "CR39 1.56" || sub.NewName != "CR39 1.56 CIL. EST." {
		t.Errorf("names = %q -> %q", sub.OldName, sub.NewName)
	}
}

func TestResolveSuperReinforcedPriority(t *testing.T) {
	base := lens("p1", "CR39 1.56")
	super := lens("p3", "CR39 1.56 CIL. SUPER EST.")
	reinforced := lens("p2", "CR39 1.56 CIL. EST.")
	catalog := newFakeCatalog(base, super, reinforced)
	resolver := NewSubstitutionResolver(catalog, newFakeRules(rule("p2", "s1", 100), rule("p3", "s1", 150)))

	sub, err := resolver.Resolve(context.Background(), base, "s1", fp(-4.25), 80)
	if err != nil {
		t.Fatal(err)
	}
	if !sub.Applied || sub.Product.ID != "p3" {
		t.Fatalf("substitute = %+v, want super variant p3", sub)
	}
}

func TestResolveFallsThroughWhenVariantHasNoRule(t *testing.T) {
	base := lens("p1", "CR39 1.56")
	super := lens("p3", "CR39 1.56 CIL. SUPER EST.")
	reinforced := lens("p2", "CR39 1.56 CIL. EST.")
	catalog := newFakeCatalog(base, super, reinforced)
	// Super variant exists but carries no rule at this supplier, so the
	// plain reinforced variant wins.
	resolver := NewSubstitutionResolver(catalog, newFakeRules(rule("p2", "s1", 100)))

	sub, err := resolver.Resolve(context.Background(), base, "s1", fp(-5.00), 80)
	if err != nil {
		t.Fatal(err)
	}
	if !sub.Applied || sub.Product.ID != "p2" {
		t.Fatalf("substitute = %+v, want fallback p2", sub)
	}
}

func TestResolveReclampsPriceAboveVariantCeiling(t *testing.T) {
	base := lens("p1", "CR39 1.56")
	reinforced := lens("p2", "CR39 1.56 CIL. EST.")
	catalog := newFakeCatalog(base, reinforced)
	resolver := NewSubstitutionResolver(catalog, newFakeRules(rule("p2", "s1", 60)))

	sub, err := resolver.Resolve(context.Background(), base, "s1", fp(-3.00), 80)
	if err != nil {
		t.Fatal(err)
	}
	if !sub.Applied {
		t.Fatal("substitution not applied")
	}
	if sub.Price != 60 {
		t.Errorf("price = %v, want clamped 60", sub.Price)
	}
}

func TestResolveUnchangedWhenNoVariantExists(t *testing.T) {
	base := lens("p1", "CR39 1.56")
	catalog := newFakeCatalog(base)
	resolver := NewSubstitutionResolver(catalog, newFakeRules())

	sub, err := resolver.Resolve(context.Background(), base, "s1", fp(-6.00), 80)
	if err != nil {
		t.Fatal(err)
	}
	if sub.Applied || sub.Product.ID != "p1" {
		t.Fatalf("substitute = %+v, want unchanged p1", sub)
	}
}

func TestResolveSkipsInactiveVariant(t *testing.T) {
	base := lens("p1", "CR39 1.56")
	inactive := lens("p2", "CR39 1.56 CIL. EST.")
	inactive.Active = false
	catalog := newFakeCatalog(base, inactive)
	resolver := NewSubstitutionResolver(catalog, newFakeRules(rule("p2", "s1", 100)))

	sub, err := resolver.Resolve(context.Background(), base, "s1", fp(-3.00), 80)
	if err != nil {
		t.Fatal(err)
	}
	if sub.Applied {
		t.Fatal("inactive variant must not be substituted")
	}
}
