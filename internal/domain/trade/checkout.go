package trade

import (
	"time"

	"github.com/drobe/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LinePrice is a frozen price for one cart line
type LinePrice struct {
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
	Label     string
}

// LineSnapshotter freezes the price of a target at checkout time
type LineSnapshotter interface {
	Snapshot(target LineTarget) (LinePrice, error)
}

// PlaceOrder turns the cart into a pending, unpaid order owned by
// customerID and clears the cart. It checks every precondition before
// touching the cart, so a failure leaves the cart as it was.
func PlaceOrder(cart *Cart, customerID uuid.UUID, details ShippingDetails, prices LineSnapshotter, placedAt time.Time) (*Order, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("Checkout requires a signed-in customer")
	}
	if owner, ok := cart.Owner.CustomerID(); !ok || owner != customerID {
		return nil, shared.NewAuthorizationError("Cart does not belong to the caller")
	}
	if cart.IsEmpty() {
		return nil, shared.NewValidationError("Your cart is empty")
	}
	details, err := details.Normalize()
	if err != nil {
		return nil, err
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		Telephone:         details.Telephone,
		Destination:       details.Destination,
		Paid:              false,
		Status:            OrderStatusPending,
		Items:             make([]OrderItem, 0, len(cart.Items)),
	}
	order.CreatedAt = placedAt
	order.UpdatedAt = placedAt

	for _, line := range cart.Items {
		price, err := prices.Snapshot(line.Target)
		if err != nil {
			return nil, err
		}
		order.Items = append(order.Items, OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			Target:    line.Target,
			Label:     price.Label,
			Quantity:  line.Quantity,
			UnitPrice: price.UnitPrice,
			Discount:  price.Discount,
		})
	}

	cart.Clear()
	order.RecordEvent(NewOrderPlacedEvent(order, cart.ID))
	return order, nil
}
