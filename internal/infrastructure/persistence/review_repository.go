package persistence

import (
	"context"

	"github.com/drobe/backend/internal/domain/catalog"
	"github.com/drobe/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormReviewRepository implements ReviewRepository using GORM
type GormReviewRepository struct {
	db *gorm.DB
}

// NewGormReviewRepository creates a new GormReviewRepository
func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// FindByID finds a review by its ID
func (r *GormReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ProductReview, error) {
	var model models.ProductReviewModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "Review not found")
	}
	return model.ToDomain(), nil
}

// FindApprovedByProduct lists approved reviews of a product, newest first
func (r *GormReviewRepository) FindApprovedByProduct(ctx context.Context, productID uuid.UUID) ([]catalog.ProductReview, error) {
	var rows []models.ProductReviewModel
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND approved = ?", productID, true).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	reviews := make([]catalog.ProductReview, len(rows))
	for i := range rows {
		reviews[i] = *rows[i].ToDomain()
	}
	return reviews, nil
}

// Exists reports whether the customer already reviewed the product (or the
// given variant of it). A nil variant matches only variant-less reviews.
func (r *GormReviewRepository) Exists(ctx context.Context, productID, customerID uuid.UUID, variantID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.ProductReviewModel{}).
		Where("product_id = ? AND customer_id = ?", productID, customerID)
	if variantID == nil {
		query = query.Where("variant_id IS NULL")
	} else {
		query = query.Where("variant_id = ?", *variantID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a review
func (r *GormReviewRepository) Save(ctx context.Context, review *catalog.ProductReview) error {
	model := models.ProductReviewModelFromDomain(review)
	return translateWriteError(r.db.WithContext(ctx).Save(model).Error, "Review")
}

// Delete deletes a review
func (r *GormReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.ProductReviewModel{}, "id = ?", id).Error
}

// DeleteByCustomer deletes every review written by the customer
func (r *GormReviewRepository) DeleteByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Where("customer_id = ?", customerID).Delete(&models.ProductReviewModel{})
	return result.RowsAffected, result.Error
}

// Ensure GormReviewRepository implements ReviewRepository
var _ catalog.ReviewRepository = (*GormReviewRepository)(nil)
