package catalog

import (
	"context"
	"strings"

	"github.com/drobe/backend/internal/domain/catalog"
	"github.com/drobe/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BrandService handles brand administration
type BrandService struct {
	brandRepo      catalog.BrandRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewBrandService creates a new BrandService
func NewBrandService(brandRepo catalog.BrandRepository, logger *zap.Logger) *BrandService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BrandService{brandRepo: brandRepo, logger: logger}
}

// SetEventPublisher sets the event publisher
func (s *BrandService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// List returns brands sorted by name and the total count
func (s *BrandService) List(ctx context.Context, f BrandListFilter) ([]BrandResponse, int64, error) {
	filter := shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		OrderBy:  "name",
		Search:   f.Search,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}

	brands, err := s.brandRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.brandRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	items := make([]BrandResponse, len(brands))
	for i := range brands {
		items[i] = ToBrandResponse(&brands[i])
	}
	return items, total, nil
}

// Create adds a brand. Names are unique ignoring case.
func (s *BrandService) Create(ctx context.Context, req CreateBrandRequest) (*BrandResponse, error) {
	if err := s.checkNameFree(ctx, req.Name); err != nil {
		return nil, err
	}
	brand, err := catalog.NewBrand(req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.brandRepo.Save(ctx, brand); err != nil {
		return nil, err
	}
	resp := ToBrandResponse(brand)
	return &resp, nil
}

// Update renames a brand
func (s *BrandService) Update(ctx context.Context, id uuid.UUID, req UpdateBrandRequest) (*BrandResponse, error) {
	brand, err := s.brandRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(strings.TrimSpace(req.Name), brand.Name) {
		if err := s.checkNameFree(ctx, req.Name); err != nil {
			return nil, err
		}
	}
	if err := brand.Rename(req.Name); err != nil {
		return nil, err
	}
	if err := s.brandRepo.Save(ctx, brand); err != nil {
		return nil, err
	}
	resp := ToBrandResponse(brand)
	return &resp, nil
}

// Delete removes a brand together with every product it owns
func (s *BrandService) Delete(ctx context.Context, id uuid.UUID) error {
	brand, err := s.brandRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	removed, err := s.brandRepo.DeleteCascade(ctx, id)
	if err != nil {
		return err
	}

	s.logger.Info("Brand deleted",
		zap.String("brand_id", id.String()),
		zap.Int64("products_removed", removed),
	)
	brand.RecordEvent(catalog.NewBrandDeletedEvent(brand, removed))
	publishEvents(ctx, s.eventPublisher, s.logger, brand)
	return nil
}

func (s *BrandService) checkNameFree(ctx context.Context, name string) error {
	exists, err := s.brandRepo.ExistsByName(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError(shared.CodeAlreadyExists, "Brand with this name already exists")
	}
	return nil
}
