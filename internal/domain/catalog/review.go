package catalog

import (
	"strings"
	"time"

	"github.com/drobe/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DefaultRating is used when a review is submitted without a rating
const DefaultRating = 5

// ProductReview is a customer's rating of a product, optionally of one
// variant. A customer reviews a (product, variant) pair at most once.
type ProductReview struct {
	shared.BaseEntity
	ProductID  uuid.UUID
	CustomerID uuid.UUID
	VariantID  *uuid.UUID
	Rating     int
	Comment    string
	Approved   bool
}

// NewProductReview creates an approved review. A zero rating means DefaultRating.
func NewProductReview(productID, customerID uuid.UUID, variantID *uuid.UUID, rating int, comment string) (*ProductReview, error) {
	if productID == uuid.Nil {
		return nil, invalid("Product is required")
	}
	if customerID == uuid.Nil {
		return nil, invalid("Customer is required")
	}
	if rating == 0 {
		rating = DefaultRating
	}
	if rating < 1 || rating > 5 {
		return nil, invalid("Rating must be between 1 and 5")
	}
	return &ProductReview{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		CustomerID: customerID,
		VariantID:  variantID,
		Rating:     rating,
		Comment:    strings.TrimSpace(comment),
		Approved:   true,
	}, nil
}

// Approve makes the review visible
func (r *ProductReview) Approve() {
	r.Approved = true
	r.UpdatedAt = time.Now()
}

// Unapprove hides the review
func (r *ProductReview) Unapprove() {
	r.Approved = false
	r.UpdatedAt = time.Now()
}

// AverageRating returns the mean rating rounded to one decimal, 0 when empty
func AverageRating(reviews []ProductReview) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	avg := float64(sum) / float64(len(reviews))
	return float64(int(avg*10+0.5)) / 10
}
