package catalog

import (
	"errors"
	"testing"

	"github.com/drobe/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	brandID := uuid.New()

	t.Run("creates product with valid inputs", func(t *testing.T) {
		p, err := NewProduct("  Wool Coat ", CategoryOuterwear, brandID, decimal.RequireFromString("120.50"))
		require.NoError(t, err)
		assert.Equal(t, "Wool Coat", p.Name)
		assert.Equal(t, CategoryOuterwear, p.Category)
		assert.Equal(t, brandID, p.BrandID)
		assert.Empty(t, p.Variants)
		assert.Equal(t, 1, p.Version)

		events := p.PendingEvents()
		require.Len(t, events, 1)
		ev, ok := events[0].(*ProductChangedEvent)
		require.True(t, ok)
		assert.Equal(t, ProductActionCreated, ev.Action)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewProduct("  ", CategoryMens, brandID, decimal.NewFromInt(1))
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrValidation))
	})

	t.Run("fails with negative price", func(t *testing.T) {
		_, err := NewProduct("Shirt", CategoryMens, brandID, decimal.NewFromInt(-1))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be negative")
	})

	t.Run("fails with unknown category", func(t *testing.T) {
		_, err := NewProduct("Shirt", Category("HATS"), brandID, decimal.NewFromInt(1))
		require.Error(t, err)
	})

	t.Run("fails without brand", func(t *testing.T) {
		_, err := NewProduct("Shirt", CategoryMens, uuid.Nil, decimal.NewFromInt(1))
		require.Error(t, err)
	})
}

func TestProduct_Variants(t *testing.T) {
	p := newTestProduct(t)

	v, err := p.AddVariant(SizeM, ColorNavy, 4, decimal.RequireFromString("5.00"))
	require.NoError(t, err)
	assert.Equal(t, p.ID, v.ProductID)
	assert.Equal(t, "Linen Shirt - M - NAVY", v.Label(p.Name))

	t.Run("rejects duplicate size and color", func(t *testing.T) {
		_, err := p.AddVariant(SizeM, ColorNavy, 1, decimal.Zero)
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrAlreadyExists))
	})

	t.Run("allows another color in the same size", func(t *testing.T) {
		_, err := p.AddVariant(SizeM, ColorBlack, 1, decimal.Zero)
		require.NoError(t, err)
		assert.Len(t, p.Variants, 2)
	})

	t.Run("rejects negative stock", func(t *testing.T) {
		_, err := p.AddVariant(SizeXL, ColorRed, -1, decimal.Zero)
		require.Error(t, err)
	})

	t.Run("rejects unknown size", func(t *testing.T) {
		_, err := p.AddVariant(Size("XXXL"), ColorRed, 1, decimal.Zero)
		require.Error(t, err)
	})

	t.Run("finds and removes variant", func(t *testing.T) {
		found, err := p.Variant(v.ID)
		require.NoError(t, err)
		require.NoError(t, found.SetStock(9))
		assert.Equal(t, 9, p.Variants[0].Stock)

		require.NoError(t, p.RemoveVariant(v.ID))
		_, err = p.Variant(v.ID)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
		assert.True(t, errors.Is(p.RemoveVariant(v.ID), shared.ErrNotFound))
	})
}

func TestNormalizeTags(t *testing.T) {
	assert.Equal(t, []string{"linen", "summer"}, NormalizeTags([]string{" Summer", "linen", "", "SUMMER"}))

	p := newTestProduct(t)
	p.SetTags([]string{"Summer"})
	assert.True(t, p.HasTag("SUMMER "))
	assert.False(t, p.HasTag("winter"))
}

func TestParseEnums(t *testing.T) {
	c, err := ParseCategory("womens")
	require.NoError(t, err)
	assert.Equal(t, CategoryWomens, c)
	assert.Equal(t, "Women's Clothing", c.Label())

	_, err = ParseCategory("pets")
	assert.Error(t, err)

	s, err := ParseSize("xxl")
	require.NoError(t, err)
	assert.Equal(t, SizeXXL, s)

	col, err := ParseColor("Teal")
	require.NoError(t, err)
	assert.Equal(t, ColorTeal, col)

	_, err = ParseColor("magenta")
	assert.Error(t, err)
}

func TestNewProductReview(t *testing.T) {
	productID, customerID := uuid.New(), uuid.New()

	t.Run("defaults rating and approval", func(t *testing.T) {
		r, err := NewProductReview(productID, customerID, nil, 0, " great ")
		require.NoError(t, err)
		assert.Equal(t, DefaultRating, r.Rating)
		assert.True(t, r.Approved)
		assert.Equal(t, "great", r.Comment)
	})

	t.Run("rejects rating outside 1..5", func(t *testing.T) {
		_, err := NewProductReview(productID, customerID, nil, 6, "")
		require.Error(t, err)
		_, err = NewProductReview(productID, customerID, nil, -1, "")
		require.Error(t, err)
	})

	t.Run("average rating", func(t *testing.T) {
		assert.Equal(t, 0.0, AverageRating(nil))
		assert.Equal(t, 4.3, AverageRating([]ProductReview{{Rating: 5}, {Rating: 4}, {Rating: 4}}))
	})
}
