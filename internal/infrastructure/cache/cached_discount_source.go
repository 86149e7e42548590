package cache

import (
	"context"
	"time"

	"github.com/drobe/backend/internal/domain/catalog"
	"github.com/drobe/backend/internal/domain/pricing"
	"github.com/drobe/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const discountDayLayout = "2006-01-02"

// CachedDiscountSource wraps a DiscountSource with a DiscountCache keyed by
// pricing day. A failing cache never fails pricing: errors are logged and
// the wrapped source answers.
type CachedDiscountSource struct {
	source pricing.DiscountSource
	cache  DiscountCache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedDiscountSource creates a new CachedDiscountSource
func NewCachedDiscountSource(source pricing.DiscountSource, cache DiscountCache, ttl time.Duration, logger *zap.Logger) *CachedDiscountSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedDiscountSource{source: source, cache: cache, ttl: ttl, logger: logger}
}

// ActiveDiscounts implements pricing.DiscountSource
func (s *CachedDiscountSource) ActiveDiscounts(ctx context.Context, asOf time.Time) ([]catalog.Discount, error) {
	// Discount windows are calendar dates in asOf's own location, so the
	// key must be too
	day := shared.DateOf(asOf).Format(discountDayLayout)

	cached, gen, ok, err := s.cache.Get(ctx, day)
	if err != nil {
		s.logger.Warn("Discount cache read failed", zap.String("day", day), zap.Error(err))
	} else if ok {
		return cached, nil
	}

	discounts, err := s.source.ActiveDiscounts(ctx, asOf)
	if err != nil {
		return nil, err
	}
	if cacheErr := s.cache.Set(ctx, day, gen, discounts, s.ttl); cacheErr != nil {
		s.logger.Warn("Discount cache write failed", zap.String("day", day), zap.Error(cacheErr))
	}
	return discounts, nil
}

var _ pricing.DiscountSource = (*CachedDiscountSource)(nil)

// DiscountCacheInvalidator drops cached discounts when anything that can
// change a live price is edited
type DiscountCacheInvalidator struct {
	cache  DiscountCache
	logger *zap.Logger
}

// NewDiscountCacheInvalidator creates a new DiscountCacheInvalidator
func NewDiscountCacheInvalidator(cache DiscountCache, logger *zap.Logger) *DiscountCacheInvalidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DiscountCacheInvalidator{cache: cache, logger: logger}
}

// EventTypes implements shared.EventHandler
func (h *DiscountCacheInvalidator) EventTypes() []string {
	return []string{
		catalog.EventTypeDiscountChanged,
		catalog.EventTypeBrandDeleted,
		catalog.EventTypeProductChanged,
	}
}

// Handle implements shared.EventHandler. Product creates and updates leave
// the discount list untouched and are ignored.
func (h *DiscountCacheInvalidator) Handle(ctx context.Context, event shared.DomainEvent) error {
	if pc, ok := event.(*catalog.ProductChangedEvent); ok && pc.Action != catalog.ProductActionDeleted {
		return nil
	}
	if err := h.cache.Invalidate(ctx); err != nil {
		h.logger.Error("Failed to invalidate discount cache",
			zap.String("event_type", event.EventType()),
			zap.String("aggregate_id", event.AggregateID().String()),
			zap.Error(err),
		)
		return err
	}
	h.logger.Debug("Discount cache invalidated", zap.String("event_type", event.EventType()))
	return nil
}

var _ shared.EventHandler = (*DiscountCacheInvalidator)(nil)
