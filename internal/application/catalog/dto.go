package catalog

import (
	"time"

	"github.com/drobe/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateBrandRequest represents a request to create a brand
type CreateBrandRequest struct {
	Name string `json:"name" binding:"required,notblank,max=100"`
}

// UpdateBrandRequest represents a request to rename a brand
type UpdateBrandRequest struct {
	Name string `json:"name" binding:"required,notblank,max=100"`
}

// BrandListFilter represents filter options for brand list
type BrandListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
}

// BrandResponse represents a brand in API responses
type BrandResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToBrandResponse converts a domain Brand to BrandResponse
func ToBrandResponse(b *catalog.Brand) BrandResponse {
	return BrandResponse{
		ID:        b.ID,
		Name:      b.Name,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Name        string          `json:"name" binding:"required,notblank,max=200"`
	Description string          `json:"description" binding:"max=2000"`
	Category    string          `json:"category" binding:"required,category"`
	BrandID     uuid.UUID       `json:"brand_id" binding:"required"`
	Price       decimal.Decimal `json:"price"`
	Tags        []string        `json:"tags" binding:"max=20,dive,max=50"`
}

// UpdateProductRequest represents a request to update a product. Omitted
// fields keep their value.
type UpdateProductRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string          `json:"description" binding:"omitempty,max=2000"`
	Category    *string          `json:"category" binding:"omitempty,category"`
	BrandID     *uuid.UUID       `json:"brand_id"`
	Price       *decimal.Decimal `json:"price"`
	Tags        []string         `json:"tags" binding:"omitempty,max=20,dive,max=50"`
}

// ProductListFilter represents the catalog browse query
type ProductListFilter struct {
	Query    string `form:"q"`
	Category string `form:"category"`
	BrandID  string `form:"brand"`
	MinPrice string `form:"min_price"`
	MaxPrice string `form:"max_price"`
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
}

// AddVariantRequest represents a request to add a size/color variant
type AddVariantRequest struct {
	Size            string          `json:"size" binding:"required"`
	Color           string          `json:"color" binding:"required"`
	Stock           int             `json:"stock" binding:"min=0"`
	PriceAdjustment decimal.Decimal `json:"price_adjustment"`
}

// UpdateVariantRequest represents a request to change stock or price adjustment
type UpdateVariantRequest struct {
	Stock           *int             `json:"stock" binding:"omitempty,min=0"`
	PriceAdjustment *decimal.Decimal `json:"price_adjustment"`
}

// ProductSummaryResponse is a product in a catalog listing
type ProductSummaryResponse struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Category   string          `json:"category"`
	BrandID    uuid.UUID       `json:"brand_id"`
	Price      decimal.Decimal `json:"price"`
	LivePrice  decimal.Decimal `json:"live_price"`
	Discounted bool            `json:"discounted"`
	Tags       []string        `json:"tags"`
}

// VariantResponse is a variant with its live unit price
type VariantResponse struct {
	ID              uuid.UUID       `json:"id"`
	Size            string          `json:"size"`
	Color           string          `json:"color"`
	Label           string          `json:"label"`
	Stock           int             `json:"stock"`
	PriceAdjustment decimal.Decimal `json:"price_adjustment"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	ImageURL        string          `json:"image_url,omitempty"`
}

// ProductDetailResponse is the full product page
type ProductDetailResponse struct {
	ProductSummaryResponse
	Description   string                    `json:"description"`
	Variants      []VariantResponse         `json:"variants"`
	Discounts     []AppliedDiscountResponse `json:"discounts"`
	Reviews       []ReviewResponse          `json:"reviews"`
	AverageRating float64                   `json:"average_rating"`
	CreatedAt     time.Time                 `json:"created_at"`
	UpdatedAt     time.Time                 `json:"updated_at"`
}

// AppliedDiscountResponse is a discount shown on a product page
type AppliedDiscountResponse struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Type     string          `json:"type"`
	Value    decimal.Decimal `json:"value"`
	Priority string          `json:"priority"`
}

// CreateDiscountRequest represents a request to create a discount
type CreateDiscountRequest struct {
	Name       string          `json:"name" binding:"required,notblank,max=100"`
	Type       string          `json:"type" binding:"required,oneof=PERCENTAGE FIXED"`
	Value      decimal.Decimal `json:"value"`
	StartDate  time.Time       `json:"start_date" binding:"required"`
	EndDate    *time.Time      `json:"end_date"`
	Priority   string          `json:"priority" binding:"omitempty,oneof=PRODUCT BRAND CATEGORY"`
	ProductIDs []uuid.UUID     `json:"product_ids"`
	BrandIDs   []uuid.UUID     `json:"brand_ids"`
	Categories []string        `json:"categories"`
}

// UpdateDiscountRequest replaces every field of a discount
type UpdateDiscountRequest = CreateDiscountRequest

// DiscountListFilter represents filter options for discount list
type DiscountListFilter struct {
	Search   string `form:"search"`
	Active   *bool  `form:"active"`
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
}

// DiscountResponse represents a discount in API responses
type DiscountResponse struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Type       string          `json:"type"`
	Value      decimal.Decimal `json:"value"`
	StartDate  time.Time       `json:"start_date"`
	EndDate    *time.Time      `json:"end_date,omitempty"`
	Active     bool            `json:"active"`
	Priority   string          `json:"priority"`
	ProductIDs []uuid.UUID     `json:"product_ids"`
	BrandIDs   []uuid.UUID     `json:"brand_ids"`
	Categories []string        `json:"categories"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// ToDiscountResponse converts a domain Discount to DiscountResponse
func ToDiscountResponse(d *catalog.Discount) DiscountResponse {
	categories := make([]string, len(d.Categories))
	for i, c := range d.Categories {
		categories[i] = string(c)
	}
	return DiscountResponse{
		ID:         d.ID,
		Name:       d.Name,
		Type:       string(d.Type),
		Value:      d.Value,
		StartDate:  d.StartDate,
		EndDate:    d.EndDate,
		Active:     d.Active,
		Priority:   string(d.Priority),
		ProductIDs: d.ProductIDs,
		BrandIDs:   d.BrandIDs,
		Categories: categories,
		UpdatedAt:  d.UpdatedAt,
	}
}

// CreateReviewRequest represents a customer review submission
type CreateReviewRequest struct {
	VariantID *uuid.UUID `json:"variant_id"`
	Rating    int        `json:"rating" binding:"omitempty,min=1,max=5"`
	Comment   string     `json:"comment" binding:"max=2000"`
}

// ReviewResponse represents a review in API responses
type ReviewResponse struct {
	ID         uuid.UUID  `json:"id"`
	ProductID  uuid.UUID  `json:"product_id"`
	CustomerID uuid.UUID  `json:"customer_id"`
	VariantID  *uuid.UUID `json:"variant_id,omitempty"`
	Rating     int        `json:"rating"`
	Comment    string     `json:"comment"`
	Approved   bool       `json:"approved"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ToReviewResponse converts a domain ProductReview to ReviewResponse
func ToReviewResponse(r *catalog.ProductReview) ReviewResponse {
	return ReviewResponse{
		ID:         r.ID,
		ProductID:  r.ProductID,
		CustomerID: r.CustomerID,
		VariantID:  r.VariantID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		Approved:   r.Approved,
		CreatedAt:  r.CreatedAt,
	}
}

// InitiateImageUploadRequest represents a request to upload a variant image
type InitiateImageUploadRequest struct {
	FileName    string `json:"file_name" binding:"required,min=1,max=255"`
	ContentType string `json:"content_type" binding:"required,max=100"`
	FileSize    int64  `json:"file_size" binding:"required,min=1"`
}

// InitiateImageUploadResponse carries the presigned upload URL
type InitiateImageUploadResponse struct {
	StorageKey string    `json:"storage_key"`
	UploadURL  string    `json:"upload_url"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// ConfirmImageUploadRequest attaches an uploaded object to the variant
type ConfirmImageUploadRequest struct {
	StorageKey string `json:"storage_key" binding:"required,max=500"`
}
