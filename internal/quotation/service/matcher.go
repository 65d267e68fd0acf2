package service

import (
	"context"

	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/quotation/entity"
	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/shared/rangeexpr"
	"github.com/shopspring/decimal"
)

// Catalog is the read surface the matcher needs.
type Catalog interface {
	ProductsByCriteria(ctx context.Context, visionType string, antiReflective, photosensitive, blueFilter bool) ([]entity.Product, error)
	ProductByID(ctx context.Context, id string) (*entity.Product, error)
	ServiceLinks(ctx context.Context, productID string, mandatory bool) ([]entity.ServiceLink, error)
	ConditionalAdditions(ctx context.Context, productID string) ([]entity.ConditionalAddition, error)
	ServicesByCodes(ctx context.Context, codes []string) ([]entity.ServiceEntry, error)
}

// Eye is one eye's sphere and cylinder.
type Eye struct {
	Sphere   decimal.Decimal `json:"esf"`
	Cylinder decimal.Decimal `json:"cil"`
}

// Prescription carries both eyes of a patient.
type Prescription struct {
	OD Eye `json:"od"`
	OE Eye `json:"oe"`
}

// Criteria selects quotation products: vision type and coating flags match
// exactly, the prescription must sit inside the product envelope.
type Criteria struct {
	VisionType     string       `json:"vision_type" binding:"required"`
	AntiReflective bool         `json:"anti_reflective"`
	Photosensitive bool         `json:"photosensitive"`
	BlueFilter     bool         `json:"blue_filter"`
	Prescription   Prescription `json:"prescription"`
}

// ServiceSet is the matcher's answer for one product.
type ServiceSet struct {
	Mandatory []entity.ServiceEntry `json:"mandatory"`
	Optional  []entity.ServiceEntry `json:"optional"`
}

// Matcher resolves eligible products and their service sets for a
// prescription. All reads, no writes.
type Matcher struct {
	catalog Catalog
}

func NewMatcher(catalog Catalog) *Matcher {
	return &Matcher{catalog: catalog}
}

// MatchProducts lists every product whose envelope contains both eyes.
func (m *Matcher) MatchProducts(ctx context.Context, criteria Criteria) ([]entity.Product, error) {
	candidates, err := m.catalog.ProductsByCriteria(ctx,
		criteria.VisionType, criteria.AntiReflective, criteria.Photosensitive, criteria.BlueFilter)
	if err != nil {
		return nil, err
	}

	var matched []entity.Product
	for _, product := range candidates {
		if !envelopeContains(product.EsfMin, product.EsfMax, criteria.Prescription.OD.Sphere, criteria.Prescription.OE.Sphere) {
			continue
		}
		if !envelopeContains(product.CilMin, product.CilMax, criteria.Prescription.OD.Cylinder, criteria.Prescription.OE.Cylinder) {
			continue
		}
		matched = append(matched, product)
	}
	return matched, nil
}

// MatchServices resolves the product's mandatory services, the conditional
// additions fired by the prescription and the optional offers.
func (m *Matcher) MatchServices(ctx context.Context, productID string, prescription Prescription) (*ServiceSet, error) {
	if _, err := m.catalog.ProductByID(ctx, productID); err != nil {
		return nil, err
	}

	mandatoryLinks, err := m.catalog.ServiceLinks(ctx, productID, true)
	if err != nil {
		return nil, err
	}
	var mandatoryCodes []string
	seen := make(map[string]bool)
	for _, link := range mandatoryLinks {
		if !seen[link.ServiceCode] {
			seen[link.ServiceCode] = true
			mandatoryCodes = append(mandatoryCodes, link.ServiceCode)
		}
	}

	additions, err := m.catalog.ConditionalAdditions(ctx, productID)
	if err != nil {
		return nil, err
	}
	for _, addition := range additions {
		if seen[addition.ServiceCode] {
			continue
		}
		if additionFires(addition, prescription) {
			seen[addition.ServiceCode] = true
			mandatoryCodes = append(mandatoryCodes, addition.ServiceCode)
		}
	}

	optionalLinks, err := m.catalog.ServiceLinks(ctx, productID, false)
	if err != nil {
		return nil, err
	}
	var optionalCodes []string
	for _, link := range optionalLinks {
		if !seen[link.ServiceCode] {
			seen[link.ServiceCode] = true
			optionalCodes = append(optionalCodes, link.ServiceCode)
		}
	}

	mandatory, err := m.catalog.ServicesByCodes(ctx, mandatoryCodes)
	if err != nil {
		return nil, err
	}
	optional, err := m.catalog.ServicesByCodes(ctx, optionalCodes)
	if err != nil {
		return nil, err
	}
	return &ServiceSet{Mandatory: mandatory, Optional: optional}, nil
}

// envelopeContains reports whether both values sit inside [min, max].
// A zero-width envelope is unrestricted.
func envelopeContains(min, max, a, b decimal.Decimal) bool {
	if min.IsZero() && max.IsZero() {
		return true
	}
	lo, hi := min, max
	if lo.GreaterThan(hi) {
		lo, hi = hi, lo
	}
	return a.GreaterThanOrEqual(lo) && a.LessThanOrEqual(hi) &&
		b.GreaterThanOrEqual(lo) && b.LessThanOrEqual(hi)
}

// additionFires reports whether any one of the four prescription values hits
// the addition's range on its own axis.
func additionFires(addition entity.ConditionalAddition, p Prescription) bool {
	return rangeexpr.Within(p.OD.Sphere, addition.EsfMin, addition.EsfMax) ||
		rangeexpr.Within(p.OE.Sphere, addition.EsfMin, addition.EsfMax) ||
		rangeexpr.Within(p.OD.Cylinder, addition.CilMin, addition.CilMax) ||
		rangeexpr.Within(p.OE.Cylinder, addition.CilMin, addition.CilMax)
}
