package trade

import (
	"context"

	"github.com/drobe/backend/internal/domain/shared"
	"github.com/drobe/backend/internal/domain/trade"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService handles order history and status updates
type OrderService struct {
	orderRepo      trade.OrderRepository
	eventPublisher shared.EventPublisher
	metrics        MetricsRecorder
	logger         *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo trade.OrderRepository, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		orderRepo: orderRepo,
		metrics:   noopMetrics{},
		logger:    logger,
	}
}

// SetEventPublisher sets the event publisher
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetMetrics sets the business metrics recorder
func (s *OrderService) SetMetrics(metrics MetricsRecorder) {
	if metrics != nil {
		s.metrics = metrics
	}
}

// List returns one page of the customer's orders, newest first
func (s *OrderService) List(ctx context.Context, customerID uuid.UUID, filter OrderListFilter) ([]OrderResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = shared.DefaultPageSize
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != "" {
		status, err := trade.ParseOrderStatus(filter.Status)
		if err != nil {
			return nil, 0, err
		}
		domainFilter.Filters["status"] = string(status)
	}

	orders, err := s.orderRepo.FindByCustomer(ctx, customerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.CountByCustomer(ctx, customerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToOrderResponses(orders), total, nil
}

// Get returns one of the customer's orders
func (s *OrderService) Get(ctx context.Context, customerID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.IsOwnedBy(customerID) {
		return nil, shared.NewAuthorizationError("Order does not belong to the caller")
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// UpdateStatus sets the status of one of the customer's orders. Any listed
// status may follow any other.
func (s *OrderService) UpdateStatus(ctx context.Context, customerID, orderID uuid.UUID, req UpdateOrderStatusRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	version := order.Version
	if err := order.SetStatus(customerID, trade.OrderStatus(req.Status)); err != nil {
		return nil, err
	}
	if order.Version != version {
		if err := s.orderRepo.UpdateState(ctx, order); err != nil {
			return nil, err
		}
		s.logger.Info("Order status changed",
			zap.String("order_id", order.ID.String()),
			zap.String("status", string(order.Status)),
		)
	}
	publishEvents(ctx, s.eventPublisher, s.logger, order)

	response := ToOrderResponse(order)
	return &response, nil
}

// MarkPaid records payment of an order. Marking a paid order again is a no-op.
func (s *OrderService) MarkPaid(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !order.Paid {
		order.MarkPaid()
		if err := s.orderRepo.UpdateState(ctx, order); err != nil {
			return nil, err
		}
		s.metrics.RecordOrderPaid(ctx, order.Total())
		s.logger.Info("Order marked paid", zap.String("order_id", order.ID.String()))
	}
	publishEvents(ctx, s.eventPublisher, s.logger, order)

	response := ToOrderResponse(order)
	return &response, nil
}
