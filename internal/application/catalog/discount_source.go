package catalog

import (
	"context"
	"time"

	"github.com/drobe/backend/internal/domain/catalog"
	"github.com/drobe/backend/internal/domain/pricing"
)

// RepositoryDiscountSource feeds the pricing resolver straight from the
// discount repository. Inside a transaction scope it reads through the
// transaction; elsewhere it is usually wrapped by a cache.
type RepositoryDiscountSource struct {
	repo catalog.DiscountRepository
}

// NewRepositoryDiscountSource creates a new RepositoryDiscountSource
func NewRepositoryDiscountSource(repo catalog.DiscountRepository) *RepositoryDiscountSource {
	return &RepositoryDiscountSource{repo: repo}
}

// ActiveDiscounts returns the discounts in force on asOf
func (s *RepositoryDiscountSource) ActiveDiscounts(ctx context.Context, asOf time.Time) ([]catalog.Discount, error) {
	return s.repo.FindActiveOn(ctx, asOf)
}

var _ pricing.DiscountSource = (*RepositoryDiscountSource)(nil)
