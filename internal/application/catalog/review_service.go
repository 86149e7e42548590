package catalog

import (
	"context"

	"github.com/drobe/backend/internal/domain/catalog"
	"github.com/drobe/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReviewService handles product reviews and their moderation
type ReviewService struct {
	reviewRepo  catalog.ReviewRepository
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewReviewService creates a new ReviewService
func NewReviewService(reviewRepo catalog.ReviewRepository, productRepo catalog.ProductRepository, logger *zap.Logger) *ReviewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReviewService{reviewRepo: reviewRepo, productRepo: productRepo, logger: logger}
}

// ListApproved returns the visible reviews of a product
func (s *ReviewService) ListApproved(ctx context.Context, productID uuid.UUID) ([]ReviewResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	reviews, err := s.reviewRepo.FindApprovedByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	items := make([]ReviewResponse, len(reviews))
	for i := range reviews {
		items[i] = ToReviewResponse(&reviews[i])
	}
	return items, nil
}

// Create records a review by a signed-in customer. A customer reviews each
// product, or each variant of it, once.
func (s *ReviewService) Create(ctx context.Context, customerID, productID uuid.UUID, req CreateReviewRequest) (*ReviewResponse, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("Reviews require a signed-in customer")
	}
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if req.VariantID != nil {
		if _, err := product.Variant(*req.VariantID); err != nil {
			return nil, shared.NewValidationError("Variant does not belong to this product")
		}
	}

	exists, err := s.reviewRepo.Exists(ctx, productID, customerID, req.VariantID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "You have already reviewed this product")
	}

	review, err := catalog.NewProductReview(productID, customerID, req.VariantID, req.Rating, req.Comment)
	if err != nil {
		return nil, err
	}
	if err := s.reviewRepo.Save(ctx, review); err != nil {
		return nil, err
	}
	s.logger.Debug("Review created",
		zap.String("review_id", review.ID.String()),
		zap.String("product_id", productID.String()),
		zap.Int("rating", review.Rating),
	)
	resp := ToReviewResponse(review)
	return &resp, nil
}

// Approve makes a review visible
func (s *ReviewService) Approve(ctx context.Context, id uuid.UUID) (*ReviewResponse, error) {
	return s.moderate(ctx, id, (*catalog.ProductReview).Approve)
}

// Unapprove hides a review
func (s *ReviewService) Unapprove(ctx context.Context, id uuid.UUID) (*ReviewResponse, error) {
	return s.moderate(ctx, id, (*catalog.ProductReview).Unapprove)
}

func (s *ReviewService) moderate(ctx context.Context, id uuid.UUID, change func(*catalog.ProductReview)) (*ReviewResponse, error) {
	review, err := s.reviewRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	change(review)
	if err := s.reviewRepo.Save(ctx, review); err != nil {
		return nil, err
	}
	resp := ToReviewResponse(review)
	return &resp, nil
}
