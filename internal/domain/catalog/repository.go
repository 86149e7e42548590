package catalog

import (
	"context"
	"time"

	"github.com/drobe/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductFilter narrows a catalog listing
type ProductFilter struct {
	Query    string
	Category *Category
	BrandID  *uuid.UUID
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Page     int
	PageSize int
}

// BrandRepository defines the interface for brand persistence
type BrandRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Brand, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Brand, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Save(ctx context.Context, brand *Brand) error

	// DeleteCascade removes the brand together with its products and their
	// variants, and returns how many products were removed
	DeleteCascade(ctx context.Context, id uuid.UUID) (int64, error)
}

// ProductRepository defines the interface for product persistence.
// Products are loaded together with their variants.
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindVariantByID loads a variant together with its parent product
	FindVariantByID(ctx context.Context, variantID uuid.UUID) (*Product, *ProductVariant, error)

	// List returns one page of products matching the filter and the total match count
	List(ctx context.Context, filter ProductFilter) ([]Product, int64, error)

	Save(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// DiscountRepository defines the interface for discount persistence
type DiscountRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Discount, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Discount, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// FindActiveOn returns discounts whose flag is set and whose date window
	// contains asOf, ordered by priority descending then name
	FindActiveOn(ctx context.Context, asOf time.Time) ([]Discount, error)

	Save(ctx context.Context, discount *Discount) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReviewRepository defines the interface for product review persistence
type ReviewRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ProductReview, error)
	FindApprovedByProduct(ctx context.Context, productID uuid.UUID) ([]ProductReview, error)
	Exists(ctx context.Context, productID, customerID uuid.UUID, variantID *uuid.UUID) (bool, error)
	Save(ctx context.Context, review *ProductReview) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)
}
