package catalog

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestProduct(t *testing.T) *Product {
	t.Helper()
	p, err := NewProduct("Linen Shirt", CategoryMens, uuid.New(), decimal.NewFromInt(100))
	require.NoError(t, err)
	return p
}

func TestNewDiscount(t *testing.T) {
	start := date(2026, 1, 1)

	t.Run("creates active discount with product priority", func(t *testing.T) {
		d, err := NewDiscount("Spring", DiscountTypePercentage, decimal.NewFromInt(20), start, nil)
		require.NoError(t, err)
		assert.True(t, d.Active)
		assert.Equal(t, DiscountPriorityProduct, d.Priority)
		require.Len(t, d.PendingEvents(), 1)
		assert.Equal(t, EventTypeDiscountChanged, d.PendingEvents()[0].EventType())
	})

	t.Run("rejects percentage above 100", func(t *testing.T) {
		_, err := NewDiscount("Too much", DiscountTypePercentage, decimal.NewFromInt(101), start, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed 100")
	})

	t.Run("rejects negative value", func(t *testing.T) {
		_, err := NewDiscount("Negative", DiscountTypeFixed, decimal.NewFromInt(-1), start, nil)
		require.Error(t, err)
	})

	t.Run("rejects end before start", func(t *testing.T) {
		end := date(2025, 12, 31)
		_, err := NewDiscount("Backwards", DiscountTypeFixed, decimal.NewFromInt(5), start, &end)
		require.Error(t, err)
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := NewDiscount("Odd", DiscountType("BOGO"), decimal.NewFromInt(5), start, nil)
		require.Error(t, err)
	})
}

func TestDiscount_IsActive(t *testing.T) {
	start := date(2026, 3, 1)
	end := date(2026, 3, 31)
	d, err := NewDiscount("March", DiscountTypeFixed, decimal.NewFromInt(5), start, &end)
	require.NoError(t, err)

	tests := []struct {
		name string
		asOf time.Time
		want bool
	}{
		{"before start", date(2026, 2, 28), false},
		{"on start date", date(2026, 3, 1), true},
		{"late on start date", time.Date(2026, 3, 1, 23, 59, 0, 0, time.UTC), true},
		{"inside window", date(2026, 3, 15), true},
		{"on end date", time.Date(2026, 3, 31, 18, 0, 0, 0, time.UTC), true},
		{"after end", date(2026, 4, 1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.IsActive(tt.asOf))
		})
	}

	t.Run("open ended discount never expires", func(t *testing.T) {
		open, err := NewDiscount("Forever", DiscountTypeFixed, decimal.NewFromInt(5), start, nil)
		require.NoError(t, err)
		assert.True(t, open.IsActive(date(2099, 1, 1)))
	})

	t.Run("inactive flag wins over dates", func(t *testing.T) {
		d.Deactivate()
		assert.False(t, d.IsActive(date(2026, 3, 15)))
		d.Activate()
		assert.True(t, d.IsActive(date(2026, 3, 15)))
	})
}

func TestDiscount_AppliesTo(t *testing.T) {
	asOf := date(2026, 5, 10)
	product := newTestProduct(t)

	newDiscount := func(t *testing.T, targets DiscountTargets) *Discount {
		d, err := NewDiscount("Promo", DiscountTypePercentage, decimal.NewFromInt(10), date(2026, 1, 1), nil)
		require.NoError(t, err)
		require.NoError(t, d.SetTargets(targets))
		return d
	}

	t.Run("matches listed product", func(t *testing.T) {
		d := newDiscount(t, DiscountTargets{ProductIDs: []uuid.UUID{product.ID}})
		assert.True(t, d.AppliesTo(product, asOf))
	})

	t.Run("matches product brand", func(t *testing.T) {
		d := newDiscount(t, DiscountTargets{BrandIDs: []uuid.UUID{product.BrandID}})
		assert.True(t, d.AppliesTo(product, asOf))
	})

	t.Run("matches product category", func(t *testing.T) {
		d := newDiscount(t, DiscountTargets{Categories: []Category{CategoryShoes, CategoryMens}})
		assert.True(t, d.AppliesTo(product, asOf))
	})

	t.Run("ignores unrelated targets", func(t *testing.T) {
		d := newDiscount(t, DiscountTargets{
			ProductIDs: []uuid.UUID{uuid.New()},
			BrandIDs:   []uuid.UUID{uuid.New()},
			Categories: []Category{CategoryKids},
		})
		assert.False(t, d.AppliesTo(product, asOf))
	})

	t.Run("never applies when inactive", func(t *testing.T) {
		d := newDiscount(t, DiscountTargets{ProductIDs: []uuid.UUID{product.ID}})
		d.Deactivate()
		assert.False(t, d.AppliesTo(product, asOf))
	})

	t.Run("never applies before start", func(t *testing.T) {
		d := newDiscount(t, DiscountTargets{ProductIDs: []uuid.UUID{product.ID}})
		assert.False(t, d.AppliesTo(product, date(2025, 12, 31)))
	})

	t.Run("rejects unknown category target", func(t *testing.T) {
		d := newDiscount(t, DiscountTargets{})
		err := d.SetTargets(DiscountTargets{Categories: []Category{"HATS"}})
		require.Error(t, err)
	})
}

func TestDiscount_ApplyTo(t *testing.T) {
	price := decimal.RequireFromString("50.00")

	pct, err := NewDiscount("Twenty", DiscountTypePercentage, decimal.NewFromInt(20), date(2026, 1, 1), nil)
	require.NoError(t, err)
	assert.True(t, pct.ApplyTo(price).Equal(decimal.RequireFromString("40.00")))

	fixed, err := NewDiscount("Five off", DiscountTypeFixed, decimal.NewFromInt(5), date(2026, 1, 1), nil)
	require.NoError(t, err)
	assert.True(t, fixed.ApplyTo(price).Equal(decimal.RequireFromString("45.00")))

	big, err := NewDiscount("Huge", DiscountTypeFixed, decimal.NewFromInt(80), date(2026, 1, 1), nil)
	require.NoError(t, err)
	assert.True(t, big.ApplyTo(price).IsNegative(), "flooring happens after all discounts are applied")
}

func TestSortDiscounts(t *testing.T) {
	mk := func(name string, p DiscountPriority) Discount {
		return Discount{Name: name, Priority: p}
	}
	ds := []Discount{
		mk("b", DiscountPriorityBrand),
		mk("z", DiscountPriorityProduct),
		mk("a", DiscountPriorityCategory),
		mk("a", DiscountPriorityProduct),
	}
	SortDiscounts(ds)

	names := make([]string, len(ds))
	for i, d := range ds {
		names[i] = string(d.Priority) + ":" + d.Name
	}
	assert.Equal(t, []string{"PRODUCT:a", "PRODUCT:z", "CATEGORY:a", "BRAND:b"}, names)
}
