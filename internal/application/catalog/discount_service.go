package catalog

import (
	"context"

	"github.com/drobe/backend/internal/domain/catalog"
	"github.com/drobe/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DiscountService handles discount administration. Every change publishes a
// DiscountChanged event so cached price inputs can be dropped.
type DiscountService struct {
	discountRepo   catalog.DiscountRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewDiscountService creates a new DiscountService
func NewDiscountService(discountRepo catalog.DiscountRepository, logger *zap.Logger) *DiscountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DiscountService{discountRepo: discountRepo, logger: logger}
}

// SetEventPublisher sets the event publisher
func (s *DiscountService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// List returns discounts matching the filter and the total count
func (s *DiscountService) List(ctx context.Context, f DiscountListFilter) ([]DiscountResponse, int64, error) {
	filter := shared.DefaultFilter()
	filter.OrderBy = "name"
	filter.OrderDir = "asc"
	filter.Search = f.Search
	if f.Page > 0 {
		filter.Page = f.Page
	}
	if f.PageSize > 0 {
		filter.PageSize = f.PageSize
	}
	if f.Active != nil {
		filter.Filters["active"] = *f.Active
	}

	discounts, err := s.discountRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.discountRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	items := make([]DiscountResponse, len(discounts))
	for i := range discounts {
		items[i] = ToDiscountResponse(&discounts[i])
	}
	return items, total, nil
}

// Get returns one discount
func (s *DiscountService) Get(ctx context.Context, id uuid.UUID) (*DiscountResponse, error) {
	discount, err := s.discountRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToDiscountResponse(discount)
	return &resp, nil
}

// Create adds a discount. New discounts are active.
func (s *DiscountService) Create(ctx context.Context, req CreateDiscountRequest) (*DiscountResponse, error) {
	targets, err := req.targets()
	if err != nil {
		return nil, err
	}
	discount, err := catalog.NewDiscount(req.Name, catalog.DiscountType(req.Type), req.Value, req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	if err := applyDiscountSettings(discount, req, targets); err != nil {
		return nil, err
	}
	if err := s.discountRepo.Save(ctx, discount); err != nil {
		return nil, err
	}

	s.logger.Info("Discount created",
		zap.String("discount_id", discount.ID.String()),
		zap.String("name", discount.Name),
		zap.String("type", string(discount.Type)),
		zap.String("value", discount.Value.String()),
	)
	publishEvents(ctx, s.eventPublisher, s.logger, discount)
	resp := ToDiscountResponse(discount)
	return &resp, nil
}

// Update replaces the terms, priority and targets of a discount
func (s *DiscountService) Update(ctx context.Context, id uuid.UUID, req UpdateDiscountRequest) (*DiscountResponse, error) {
	targets, err := req.targets()
	if err != nil {
		return nil, err
	}
	discount, err := s.discountRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := discount.Update(req.Name, catalog.DiscountType(req.Type), req.Value, req.StartDate, req.EndDate); err != nil {
		return nil, err
	}
	if err := applyDiscountSettings(discount, req, targets); err != nil {
		return nil, err
	}
	if err := s.discountRepo.Save(ctx, discount); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, discount)
	resp := ToDiscountResponse(discount)
	return &resp, nil
}

// Delete removes a discount
func (s *DiscountService) Delete(ctx context.Context, id uuid.UUID) error {
	discount, err := s.discountRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.discountRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Discount deleted", zap.String("discount_id", id.String()))
	discount.DiscardEvents()
	discount.RecordEvent(catalog.NewDiscountChangedEvent(discount, catalog.DiscountActionDeleted))
	publishEvents(ctx, s.eventPublisher, s.logger, discount)
	return nil
}

// Activate turns a discount on
func (s *DiscountService) Activate(ctx context.Context, id uuid.UUID) (*DiscountResponse, error) {
	return s.toggle(ctx, id, (*catalog.Discount).Activate)
}

// Deactivate turns a discount off
func (s *DiscountService) Deactivate(ctx context.Context, id uuid.UUID) (*DiscountResponse, error) {
	return s.toggle(ctx, id, (*catalog.Discount).Deactivate)
}

func (s *DiscountService) toggle(ctx context.Context, id uuid.UUID, change func(*catalog.Discount)) (*DiscountResponse, error) {
	discount, err := s.discountRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	change(discount)
	// Toggling to the current state records no event and needs no write.
	if len(discount.PendingEvents()) > 0 {
		if err := s.discountRepo.Save(ctx, discount); err != nil {
			return nil, err
		}
		publishEvents(ctx, s.eventPublisher, s.logger, discount)
	}
	resp := ToDiscountResponse(discount)
	return &resp, nil
}

func applyDiscountSettings(discount *catalog.Discount, req CreateDiscountRequest, targets catalog.DiscountTargets) error {
	if req.Priority != "" {
		if err := discount.SetPriority(catalog.DiscountPriority(req.Priority)); err != nil {
			return err
		}
	}
	return discount.SetTargets(targets)
}

func (r CreateDiscountRequest) targets() (catalog.DiscountTargets, error) {
	targets := catalog.DiscountTargets{
		ProductIDs: r.ProductIDs,
		BrandIDs:   r.BrandIDs,
		Categories: make([]catalog.Category, 0, len(r.Categories)),
	}
	for _, raw := range r.Categories {
		c, err := catalog.ParseCategory(raw)
		if err != nil {
			return targets, err
		}
		targets.Categories = append(targets.Categories, c)
	}
	return targets, nil
}
