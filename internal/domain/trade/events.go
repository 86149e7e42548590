package trade

import (
	"github.com/drobe/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeCart  = "Cart"
	AggregateTypeOrder = "Order"
)

// Event type constants
const (
	EventTypeCartMerged         = "CartMerged"
	EventTypeOrderPlaced        = "OrderPlaced"
	EventTypeOrderStatusChanged = "OrderStatusChanged"
	EventTypeOrderPaid          = "OrderPaid"
)

// CartMergedEvent is published when an anonymous cart is folded into a customer cart
type CartMergedEvent struct {
	shared.BaseDomainEvent
	CartID       uuid.UUID `json:"cart_id"`
	SourceCartID uuid.UUID `json:"source_cart_id"`
	LinesMerged  int       `json:"lines_merged"`
}

// NewCartMergedEvent creates a new CartMergedEvent
func NewCartMergedEvent(dest, source *Cart) *CartMergedEvent {
	return &CartMergedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCartMerged, AggregateTypeCart, dest.ID),
		CartID:          dest.ID,
		SourceCartID:    source.ID,
		LinesMerged:     len(source.Items),
	}
}

// OrderPlacedEvent is published after checkout commits
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	OrderID    uuid.UUID       `json:"order_id"`
	CustomerID uuid.UUID       `json:"customer_id"`
	CartID     uuid.UUID       `json:"cart_id"`
	ItemCount  int             `json:"item_count"`
	Total      decimal.Decimal `json:"total"`
}

// NewOrderPlacedEvent creates a new OrderPlacedEvent
func NewOrderPlacedEvent(order *Order, cartID uuid.UUID) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		CustomerID:      order.CustomerID,
		CartID:          cartID,
		ItemCount:       order.ItemCount(),
		Total:           order.Total(),
	}
}

// OrderStatusChangedEvent is published when the owner changes the status
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID    uuid.UUID   `json:"order_id"`
	FromStatus OrderStatus `json:"from_status"`
	ToStatus   OrderStatus `json:"to_status"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(order *Order, from OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		FromStatus:      from,
		ToStatus:        order.Status,
	}
}

// OrderPaidEvent is published when payment is recorded
type OrderPaidEvent struct {
	shared.BaseDomainEvent
	OrderID uuid.UUID       `json:"order_id"`
	Total   decimal.Decimal `json:"total"`
}

// NewOrderPaidEvent creates a new OrderPaidEvent
func NewOrderPaidEvent(order *Order) *OrderPaidEvent {
	return &OrderPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPaid, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		Total:           order.Total(),
	}
}
