package service

import (
	"context"
	"errors"

	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/procurement/entity"
	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/procurement/repository"
)

// ProductCatalog is the read surface the composer and the substitution
// resolver need from product storage.
type ProductCatalog interface {
	FindByID(ctx context.Context, id string) (*entity.Product, error)
	FindByCodeKind(ctx context.Context, code, kind string) (*entity.Product, error)
	FindActiveByNameKind(ctx context.Context, name, kind string) (*entity.Product, error)
}

// RuleRegistry resolves the active price ceiling for a (product, supplier)
// pair. (nil, nil) means the pair has no active rule.
type RuleRegistry interface {
	ActiveRule(ctx context.Context, productID, supplierID string) (*entity.PriceRule, error)
}

// Candidate suffix lists, in priority order. Iteration stops at the first
// suffix whose product exists, is active and has an active rule.
var (
	reinforcedSuffixes      = []string{" CIL. EST.", " CIL."}
	superReinforcedSuffixes = []string{" CIL. SUPER EST.", " CIL. EST.", " CIL."}
)

// Cylinder thresholds that select a suffix list.
const (
	reinforcedCylMax = -2.25
	reinforcedCylMin = -4.00
)

// Substitution is the outcome of a resolver pass. When Applied is false the
// original product and price come back unchanged.
type Substitution struct {
	Product *entity.Product
	Price   float64
	Applied bool
	OldName string
	NewName string
}

// SubstitutionResolver swaps a lens product for its cylinder-reinforced
// variant when the prescription cylinder demands one.
type SubstitutionResolver struct {
	products ProductCatalog
	rules    RuleRegistry
}

func NewSubstitutionResolver(products ProductCatalog, rules RuleRegistry) *SubstitutionResolver {
	return &SubstitutionResolver{products: products, rules: rules}
}

// Resolve picks the substitute for a lens item, if any. The carried price is
// re-clamped to the substitute's own ceiling when it is non-positive or above
// that ceiling; otherwise it is kept.
func (r *SubstitutionResolver) Resolve(ctx context.Context, product *entity.Product, supplierID string, cylinder *float64, price float64) (*Substitution, error) {
	unchanged := &Substitution{Product: product, Price: price}

	if product.Kind != entity.ProductKindLens || cylinder == nil {
		return unchanged, nil
	}

	var suffixes []string
	switch {
	case *cylinder < reinforcedCylMin:
		suffixes = superReinforcedSuffixes
	case *cylinder <= reinforcedCylMax:
		suffixes = reinforcedSuffixes
	default:
		return unchanged, nil
	}

	for _, suffix := range suffixes {
		candidate, err := r.products.FindActiveByNameKind(ctx, product.Name+suffix, entity.ProductKindLens)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return nil, err
		}

		rule, err := r.rules.ActiveRule(ctx, candidate.ID, supplierID)
		if err != nil {
			return nil, err
		}
		if rule == nil {
			continue
		}

		newPrice := price
		if price <= 0 || price > rule.MaxPrice+priceEpsilon {
			newPrice = rule.MaxPrice
		}
		return &Substitution{
			Product: candidate,
			Price:   newPrice,
			Applied: true,
			OldName: product.Name,
			NewName: candidate.Name,
		}, nil
	}

	return unchanged, nil
}
