// Package pricing computes live catalog prices from base prices and the
// discounts in force on a given date.
package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/drobe/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// MoneyPlaces is the scale prices are rounded to when they are frozen
const MoneyPlaces = 2

// Applicable returns the discounts among candidates that apply to product
// on asOf, in application order (priority descending, then name).
func Applicable(product *catalog.Product, candidates []catalog.Discount, asOf time.Time) []catalog.Discount {
	out := make([]catalog.Discount, 0, len(candidates))
	for i := range candidates {
		if candidates[i].AppliesTo(product, asOf) {
			out = append(out, candidates[i])
		}
	}
	catalog.SortDiscounts(out)
	return out
}

// ApplyAll reduces price by every discount in turn and floors the result
// at zero. Percentages compound: two 10% discounts take 19% off.
func ApplyAll(price decimal.Decimal, discounts []catalog.Discount) decimal.Decimal {
	for i := range discounts {
		price = discounts[i].ApplyTo(price)
	}
	if price.IsNegative() {
		return decimal.Zero
	}
	return price
}

// ProductPrice is the discounted price of product given the candidate discounts
func ProductPrice(product *catalog.Product, candidates []catalog.Discount, asOf time.Time) decimal.Decimal {
	return ApplyAll(product.Price, Applicable(product, candidates, asOf))
}

// VariantPrice is the parent's discounted price plus the variant's
// adjustment. The adjustment is not discounted. A negative adjustment
// cannot take the unit price below zero.
func VariantPrice(product *catalog.Product, variant *catalog.ProductVariant, candidates []catalog.Discount, asOf time.Time) decimal.Decimal {
	price := ProductPrice(product, candidates, asOf).Add(variant.PriceAdjustment)
	if price.IsNegative() {
		return decimal.Zero
	}
	return price
}

// Snapshot rounds a live price to MoneyPlaces for storage on an order line
func Snapshot(price decimal.Decimal) decimal.Decimal {
	return price.Round(MoneyPlaces)
}

// DiscountSource supplies the discounts in force on a date. Implementations
// may filter more loosely than Discount.IsActive; the resolver re-checks.
type DiscountSource interface {
	ActiveDiscounts(ctx context.Context, asOf time.Time) ([]catalog.Discount, error)
}

// Resolver answers pricing questions against a DiscountSource. It only
// fails when the source fails.
type Resolver struct {
	source DiscountSource
}

// NewResolver creates a new Resolver
func NewResolver(source DiscountSource) *Resolver {
	return &Resolver{source: source}
}

// Resolve returns the discounts that apply to product on asOf
func (r *Resolver) Resolve(ctx context.Context, product *catalog.Product, asOf time.Time) ([]catalog.Discount, error) {
	candidates, err := r.source.ActiveDiscounts(ctx, asOf)
	if err != nil {
		return nil, fmt.Errorf("load active discounts: %w", err)
	}
	return Applicable(product, candidates, asOf), nil
}

// Price returns the discounted price of product on asOf
func (r *Resolver) Price(ctx context.Context, product *catalog.Product, asOf time.Time) (decimal.Decimal, error) {
	candidates, err := r.source.ActiveDiscounts(ctx, asOf)
	if err != nil {
		return decimal.Zero, fmt.Errorf("load active discounts: %w", err)
	}
	return ProductPrice(product, candidates, asOf), nil
}

// Quote prices several lines against one discount snapshot
func (r *Resolver) Quote(ctx context.Context, asOf time.Time) (*Quote, error) {
	candidates, err := r.source.ActiveDiscounts(ctx, asOf)
	if err != nil {
		return nil, fmt.Errorf("load active discounts: %w", err)
	}
	return &Quote{candidates: candidates, asOf: asOf}, nil
}

// Quote holds the discounts loaded for one date so a whole cart is priced
// against a consistent view
type Quote struct {
	candidates []catalog.Discount
	asOf       time.Time
}

// NewQuote builds a quote from an explicit discount list
func NewQuote(candidates []catalog.Discount, asOf time.Time) *Quote {
	return &Quote{candidates: candidates, asOf: asOf}
}

// AsOf returns the pricing date of the quote
func (q *Quote) AsOf() time.Time {
	return q.asOf
}

// Product prices a bare product
func (q *Quote) Product(product *catalog.Product) decimal.Decimal {
	return ProductPrice(product, q.candidates, q.asOf)
}

// Variant prices a variant of product
func (q *Quote) Variant(product *catalog.Product, variant *catalog.ProductVariant) decimal.Decimal {
	return VariantPrice(product, variant, q.candidates, q.asOf)
}

// Discounts returns the discounts applying to product
func (q *Quote) Discounts(product *catalog.Product) []catalog.Discount {
	return Applicable(product, q.candidates, q.asOf)
}
