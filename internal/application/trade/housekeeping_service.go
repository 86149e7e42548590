package trade

import (
	"context"
	"fmt"
	"time"

	"github.com/drobe/backend/internal/domain/shared"
	"github.com/drobe/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// HousekeepingConfig sets the ages after which stale data is purged
type HousekeepingConfig struct {
	// AbandonedOrderAge is how long an unpaid, unfulfilled order may live
	AbandonedOrderAge time.Duration
	// IdleCartAge is how long an anonymous cart may go untouched
	IdleCartAge time.Duration
}

// HousekeepingService purges abandoned orders and idle anonymous carts
type HousekeepingService struct {
	orderRepo trade.OrderRepository
	cartRepo  trade.CartRepository
	cfg       HousekeepingConfig
	clock     shared.Clock
	logger    *zap.Logger
}

// NewHousekeepingService creates a new HousekeepingService
func NewHousekeepingService(
	orderRepo trade.OrderRepository,
	cartRepo trade.CartRepository,
	cfg HousekeepingConfig,
	clock shared.Clock,
	logger *zap.Logger,
) *HousekeepingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HousekeepingService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		cfg:       cfg,
		clock:     clock,
		logger:    logger,
	}
}

// abandonedStatuses are the statuses an order can sit in before anything
// was shipped
var abandonedStatuses = []trade.OrderStatus{trade.OrderStatusUnconfirmed, trade.OrderStatusPending}

// PurgeAbandonedOrders deletes unpaid orders that never left the
// unconfirmed or pending status and are older than AbandonedOrderAge
func (s *HousekeepingService) PurgeAbandonedOrders(ctx context.Context) (int64, error) {
	if s.cfg.AbandonedOrderAge <= 0 {
		return 0, nil
	}
	cutoff := s.clock.Now().Add(-s.cfg.AbandonedOrderAge)

	var total int64
	for _, status := range abandonedStatuses {
		n, err := s.orderRepo.DeleteAbandoned(ctx, status, cutoff)
		if err != nil {
			return total, fmt.Errorf("purge %s orders: %w", status, err)
		}
		total += n
	}
	return total, nil
}

// PurgeIdleCarts deletes anonymous carts untouched for IdleCartAge
func (s *HousekeepingService) PurgeIdleCarts(ctx context.Context) (int64, error) {
	if s.cfg.IdleCartAge <= 0 {
		return 0, nil
	}
	n, err := s.cartRepo.DeleteAnonymousIdleSince(ctx, s.clock.Now().Add(-s.cfg.IdleCartAge))
	if err != nil {
		return 0, fmt.Errorf("purge idle carts: %w", err)
	}
	return n, nil
}

// Run performs every housekeeping task. A failing task does not stop the
// others; the first error is returned.
func (s *HousekeepingService) Run(ctx context.Context) (*HousekeepingResult, error) {
	result := &HousekeepingResult{}
	var firstErr error

	orders, err := s.PurgeAbandonedOrders(ctx)
	result.OrdersPurged = orders
	if err != nil {
		s.logger.Error("Housekeeping failed to purge orders", zap.Error(err))
		firstErr = err
	}

	carts, err := s.PurgeIdleCarts(ctx)
	result.CartsPurged = carts
	if err != nil {
		s.logger.Error("Housekeeping failed to purge carts", zap.Error(err))
		if firstErr == nil {
			firstErr = err
		}
	}

	s.logger.Info("Housekeeping finished",
		zap.Int64("orders_purged", result.OrdersPurged),
		zap.Int64("carts_purged", result.CartsPurged),
	)
	return result, firstErr
}
