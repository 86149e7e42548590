package trade

import (
	"context"
	"errors"
	"time"

	"github.com/drobe/backend/internal/domain/catalog"
	"github.com/drobe/backend/internal/domain/pricing"
	"github.com/drobe/backend/internal/domain/shared"
	"github.com/drobe/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// linePricer prices cart and wishlist lines against one discount snapshot
// and the catalog rows the lines point at. It implements trade.UnitPricer
// and trade.LineSnapshotter.
type linePricer struct {
	quote    *pricing.Quote
	products map[uuid.UUID]*catalog.Product
	variants map[uuid.UUID]*catalog.ProductVariant
}

// loadLinePricer loads every product and variant referenced by targets.
// Targets whose catalog row is gone are left out; pricing them fails with
// NOT_FOUND.
func loadLinePricer(
	ctx context.Context,
	products catalog.ProductRepository,
	discounts pricing.DiscountSource,
	asOf time.Time,
	targets []trade.LineTarget,
) (*linePricer, error) {
	quote, err := pricing.NewResolver(discounts).Quote(ctx, asOf)
	if err != nil {
		return nil, err
	}

	p := &linePricer{
		quote:    quote,
		products: make(map[uuid.UUID]*catalog.Product),
		variants: make(map[uuid.UUID]*catalog.ProductVariant),
	}

	var productIDs []uuid.UUID
	for _, t := range targets {
		if t.IsVariant() {
			if _, ok := p.variants[t.ID()]; ok {
				continue
			}
			product, variant, err := products.FindVariantByID(ctx, t.ID())
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					continue
				}
				return nil, err
			}
			p.products[product.ID] = product
			p.variants[variant.ID] = variant
			continue
		}
		productIDs = append(productIDs, t.ID())
	}

	if len(productIDs) > 0 {
		found, err := products.FindByIDs(ctx, productIDs)
		if err != nil {
			return nil, err
		}
		for i := range found {
			p.products[found[i].ID] = &found[i]
		}
	}
	return p, nil
}

func (p *linePricer) lookup(target trade.LineTarget) (*catalog.Product, *catalog.ProductVariant, error) {
	if target.IsVariant() {
		v, ok := p.variants[target.ID()]
		if !ok {
			return nil, nil, shared.NewNotFoundError("Product variant is no longer available")
		}
		product, ok := p.products[v.ProductID]
		if !ok {
			return nil, nil, shared.NewNotFoundError("Product is no longer available")
		}
		return product, v, nil
	}
	product, ok := p.products[target.ID()]
	if !ok {
		return nil, nil, shared.NewNotFoundError("Product is no longer available")
	}
	return product, nil, nil
}

// UnitPrice is the live price of one unit of target
func (p *linePricer) UnitPrice(target trade.LineTarget) (decimal.Decimal, error) {
	product, variant, err := p.lookup(target)
	if err != nil {
		return decimal.Zero, err
	}
	if variant != nil {
		return p.quote.Variant(product, variant), nil
	}
	return p.quote.Product(product), nil
}

// Label names the line for display and for the order snapshot
func (p *linePricer) Label(target trade.LineTarget) string {
	product, variant, err := p.lookup(target)
	if err != nil {
		return ""
	}
	if variant != nil {
		return variant.Label(product.Name)
	}
	return product.Name
}

// Snapshot freezes the unit price for an order line. The per-line discount
// is recorded as zero; discounts are already folded into the unit price.
func (p *linePricer) Snapshot(target trade.LineTarget) (trade.LinePrice, error) {
	price, err := p.UnitPrice(target)
	if err != nil {
		return trade.LinePrice{}, err
	}
	return trade.LinePrice{
		UnitPrice: pricing.Snapshot(price),
		Discount:  decimal.Zero,
		Label:     p.Label(target),
	}, nil
}

// checkTargetExists fails with NOT_FOUND when target names no catalog row
func checkTargetExists(ctx context.Context, products catalog.ProductRepository, target trade.LineTarget) error {
	if target.IsVariant() {
		_, _, err := products.FindVariantByID(ctx, target.ID())
		return err
	}
	_, err := products.FindByID(ctx, target.ID())
	return err
}

func cartTargets(cart *trade.Cart) []trade.LineTarget {
	targets := make([]trade.LineTarget, len(cart.Items))
	for i := range cart.Items {
		targets[i] = cart.Items[i].Target
	}
	return targets
}

var (
	_ trade.UnitPricer      = (*linePricer)(nil)
	_ trade.LineSnapshotter = (*linePricer)(nil)
)

func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}
