package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/drobe/backend/internal/domain/catalog"
	"github.com/drobe/backend/internal/domain/pricing"
	"github.com/drobe/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ImageURLResolver turns a stored image key into a URL a browser can fetch
type ImageURLResolver interface {
	DownloadURL(ctx context.Context, storageKey string) (string, error)
}

// ProductService handles catalog browsing and product administration
type ProductService struct {
	productRepo    catalog.ProductRepository
	brandRepo      catalog.BrandRepository
	reviewRepo     catalog.ReviewRepository
	discounts      pricing.DiscountSource
	images         ImageURLResolver
	clock          shared.Clock
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	brandRepo catalog.BrandRepository,
	reviewRepo catalog.ReviewRepository,
	discounts pricing.DiscountSource,
	clock shared.Clock,
	logger *zap.Logger,
) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		productRepo: productRepo,
		brandRepo:   brandRepo,
		reviewRepo:  reviewRepo,
		discounts:   discounts,
		clock:       clock,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetImageURLResolver enables image URLs on variant responses
func (s *ProductService) SetImageURLResolver(images ImageURLResolver) {
	s.images = images
}

// List returns one page of the catalog with live prices
func (s *ProductService) List(ctx context.Context, f ProductListFilter) ([]ProductSummaryResponse, int64, error) {
	filter, err := parseProductFilter(f)
	if err != nil {
		return nil, 0, err
	}
	products, total, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	quote, err := s.quote(ctx)
	if err != nil {
		return nil, 0, err
	}

	items := make([]ProductSummaryResponse, len(products))
	for i := range products {
		items[i] = toSummary(&products[i], quote)
	}
	return items, total, nil
}

// Get returns the product page: variants with live unit prices, the
// discounts in force, and the approved reviews
func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*ProductDetailResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, product, true)
}

// Create adds a product to the catalog
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductDetailResponse, error) {
	category, err := catalog.ParseCategory(req.Category)
	if err != nil {
		return nil, err
	}
	if err := s.checkBrand(ctx, req.BrandID); err != nil {
		return nil, err
	}

	product, err := catalog.NewProduct(req.Name, category, req.BrandID, req.Price)
	if err != nil {
		return nil, err
	}
	product.Description = strings.TrimSpace(req.Description)
	product.SetTags(req.Tags)

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("name", product.Name),
	)
	publishEvents(ctx, s.eventPublisher, s.logger, product)
	return s.detail(ctx, product, false)
}

// Update changes the fields present in the request
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductDetailResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Description != nil || req.Category != nil || req.BrandID != nil {
		name, description := product.Name, product.Description
		category, brandID := product.Category, product.BrandID
		if req.Name != nil {
			name = *req.Name
		}
		if req.Description != nil {
			description = strings.TrimSpace(*req.Description)
		}
		if req.Category != nil {
			if category, err = catalog.ParseCategory(*req.Category); err != nil {
				return nil, err
			}
		}
		if req.BrandID != nil && *req.BrandID != product.BrandID {
			if err := s.checkBrand(ctx, *req.BrandID); err != nil {
				return nil, err
			}
			brandID = *req.BrandID
		}
		if err := product.Update(name, description, category, brandID); err != nil {
			return nil, err
		}
	}
	if req.Price != nil {
		if err := product.SetPrice(*req.Price); err != nil {
			return nil, err
		}
	}
	if req.Tags != nil {
		product.SetTags(req.Tags)
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, product)
	return s.detail(ctx, product, true)
}

// Delete removes a product and its variants
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Product deleted", zap.String("product_id", id.String()))
	product.DiscardEvents()
	product.RecordEvent(catalog.NewProductChangedEvent(product, catalog.ProductActionDeleted))
	publishEvents(ctx, s.eventPublisher, s.logger, product)
	return nil
}

// AddVariant adds a size/color combination to a product
func (s *ProductService) AddVariant(ctx context.Context, productID uuid.UUID, req AddVariantRequest) (*VariantResponse, error) {
	size, err := catalog.ParseSize(req.Size)
	if err != nil {
		return nil, err
	}
	color, err := catalog.ParseColor(req.Color)
	if err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	variant, err := product.AddVariant(size, color, req.Stock, req.PriceAdjustment)
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	return s.variantView(ctx, product, variant)
}

// UpdateVariant changes the stock or price adjustment of a variant
func (s *ProductService) UpdateVariant(ctx context.Context, variantID uuid.UUID, req UpdateVariantRequest) (*VariantResponse, error) {
	product, variant, err := s.productRepo.FindVariantByID(ctx, variantID)
	if err != nil {
		return nil, err
	}
	// FindVariantByID may hand back a copy; edit the product's own slice entry.
	if variant, err = product.Variant(variant.ID); err != nil {
		return nil, err
	}
	if req.Stock != nil {
		if err := variant.SetStock(*req.Stock); err != nil {
			return nil, err
		}
	}
	if req.PriceAdjustment != nil {
		variant.SetPriceAdjustment(*req.PriceAdjustment)
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	return s.variantView(ctx, product, variant)
}

// RemoveVariant deletes a variant
func (s *ProductService) RemoveVariant(ctx context.Context, variantID uuid.UUID) error {
	product, variant, err := s.productRepo.FindVariantByID(ctx, variantID)
	if err != nil {
		return err
	}
	if err := product.RemoveVariant(variant.ID); err != nil {
		return err
	}
	return s.productRepo.Save(ctx, product)
}

func (s *ProductService) checkBrand(ctx context.Context, brandID uuid.UUID) error {
	if brandID == uuid.Nil {
		return shared.NewValidationError("Brand is required")
	}
	if _, err := s.brandRepo.FindByID(ctx, brandID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewValidationError("Brand does not exist")
		}
		return err
	}
	return nil
}

func (s *ProductService) quote(ctx context.Context) (*pricing.Quote, error) {
	return pricing.NewResolver(s.discounts).Quote(ctx, s.clock.Now())
}

func (s *ProductService) detail(ctx context.Context, product *catalog.Product, withReviews bool) (*ProductDetailResponse, error) {
	quote, err := s.quote(ctx)
	if err != nil {
		return nil, err
	}

	resp := &ProductDetailResponse{
		ProductSummaryResponse: toSummary(product, quote),
		Description:            product.Description,
		Variants:               make([]VariantResponse, 0, len(product.Variants)),
		Discounts:              []AppliedDiscountResponse{},
		Reviews:                []ReviewResponse{},
		CreatedAt:              product.CreatedAt,
		UpdatedAt:              product.UpdatedAt,
	}
	for i := range product.Variants {
		resp.Variants = append(resp.Variants, s.toVariant(ctx, product, &product.Variants[i], quote))
	}
	for _, d := range quote.Discounts(product) {
		resp.Discounts = append(resp.Discounts, AppliedDiscountResponse{
			ID:       d.ID,
			Name:     d.Name,
			Type:     string(d.Type),
			Value:    d.Value,
			Priority: string(d.Priority),
		})
	}

	if withReviews && s.reviewRepo != nil {
		reviews, err := s.reviewRepo.FindApprovedByProduct(ctx, product.ID)
		if err != nil {
			return nil, err
		}
		for i := range reviews {
			resp.Reviews = append(resp.Reviews, ToReviewResponse(&reviews[i]))
		}
		resp.AverageRating = catalog.AverageRating(reviews)
	}
	return resp, nil
}

func (s *ProductService) variantView(ctx context.Context, product *catalog.Product, variant *catalog.ProductVariant) (*VariantResponse, error) {
	quote, err := s.quote(ctx)
	if err != nil {
		return nil, err
	}
	resp := s.toVariant(ctx, product, variant, quote)
	return &resp, nil
}

func (s *ProductService) toVariant(ctx context.Context, product *catalog.Product, v *catalog.ProductVariant, quote *pricing.Quote) VariantResponse {
	resp := VariantResponse{
		ID:              v.ID,
		Size:            string(v.Size),
		Color:           string(v.Color),
		Label:           v.Label(product.Name),
		Stock:           v.Stock,
		PriceAdjustment: v.PriceAdjustment,
		UnitPrice:       pricing.Snapshot(quote.Variant(product, v)),
	}
	if v.ImageKey != "" && s.images != nil {
		url, err := s.images.DownloadURL(ctx, v.ImageKey)
		if err != nil {
			s.logger.Warn("Failed to sign variant image URL",
				zap.String("variant_id", v.ID.String()),
				zap.Error(err),
			)
		} else {
			resp.ImageURL = url
		}
	}
	return resp
}

func toSummary(product *catalog.Product, quote *pricing.Quote) ProductSummaryResponse {
	live := pricing.Snapshot(quote.Product(product))
	tags := product.Tags
	if tags == nil {
		tags = []string{}
	}
	return ProductSummaryResponse{
		ID:         product.ID,
		Name:       product.Name,
		Category:   string(product.Category),
		BrandID:    product.BrandID,
		Price:      product.Price,
		LivePrice:  live,
		Discounted: live.LessThan(product.Price),
		Tags:       tags,
	}
}

func parseProductFilter(f ProductListFilter) (catalog.ProductFilter, error) {
	filter := catalog.ProductFilter{
		Query:    strings.TrimSpace(f.Query),
		Page:     f.Page,
		PageSize: f.PageSize,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = shared.DefaultPageSize
	}

	if f.Category != "" {
		category, err := catalog.ParseCategory(f.Category)
		if err != nil {
			return filter, err
		}
		filter.Category = &category
	}
	if f.BrandID != "" {
		brandID, err := uuid.Parse(f.BrandID)
		if err != nil {
			return filter, shared.NewValidationError("Invalid brand ID")
		}
		filter.BrandID = &brandID
	}
	var err error
	if filter.MinPrice, err = parseAmount(f.MinPrice, "min_price"); err != nil {
		return filter, err
	}
	if filter.MaxPrice, err = parseAmount(f.MaxPrice, "max_price"); err != nil {
		return filter, err
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		return filter, shared.NewValidationError("min_price cannot exceed max_price")
	}
	return filter, nil
}

func parseAmount(raw, field string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil || amount.IsNegative() {
		return nil, shared.NewValidationError("Invalid " + field)
	}
	return &amount, nil
}
