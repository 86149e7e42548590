package trade

import (
	"strings"

	"github.com/drobe/backend/internal/domain/shared"
)

// OrderStatus represents the fulfilment status of an order
type OrderStatus string

const (
	OrderStatusUnconfirmed OrderStatus = "unconfirmed"
	OrderStatusPending     OrderStatus = "pending"
	OrderStatusShipped     OrderStatus = "shipped"
	OrderStatusDelivered   OrderStatus = "delivered"
	OrderStatusReturned    OrderStatus = "returned"
)

// AllOrderStatuses lists statuses in their usual progression
func AllOrderStatuses() []OrderStatus {
	return []OrderStatus{
		OrderStatusUnconfirmed,
		OrderStatusPending,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusReturned,
	}
}

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusUnconfirmed, OrderStatusPending, OrderStatusShipped, OrderStatusDelivered, OrderStatusReturned:
		return true
	}
	return false
}

// IsTerminal reports whether the status normally ends the lifecycle.
// Nothing prevents moving out of a terminal status.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusReturned
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// ParseOrderStatus validates a status name, ignoring case
func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", shared.NewValidationError("Invalid order status: " + s)
	}
	return status, nil
}
