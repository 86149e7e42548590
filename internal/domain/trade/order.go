package trade

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/drobe/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Limits on the shipping details stored on an order, after trimming
const (
	MaxTelephoneLength   = 20
	MaxDestinationLength = 500
)

// OrderItem is a line of an order. UnitPrice and Discount are frozen when
// the order is placed and never recomputed.
type OrderItem struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	Target    LineTarget
	Label     string
	Quantity  int
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
}

// Subtotal is (unit price - discount) * quantity
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Sub(i.Discount).Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is a placed purchase. After creation only Status and Paid change.
type Order struct {
	shared.BaseAggregateRoot
	CustomerID  uuid.UUID
	Telephone   string
	Destination string
	Paid        bool
	Status      OrderStatus
	Items       []OrderItem
}

// Total sums item subtotals
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// ItemCount is the total number of units ordered
func (o *Order) ItemCount() int {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

// IsOwnedBy reports whether customerID placed the order
func (o *Order) IsOwnedBy(customerID uuid.UUID) bool {
	return o.CustomerID != uuid.Nil && o.CustomerID == customerID
}

// SetStatus moves the order to status. Any listed status may follow any
// other; only the owning customer may change it.
func (o *Order) SetStatus(actor uuid.UUID, status OrderStatus) error {
	if !o.IsOwnedBy(actor) {
		return shared.NewAuthorizationError("Order does not belong to the caller")
	}
	if !status.IsValid() {
		return shared.NewValidationError("Invalid order status: " + string(status))
	}
	if status == o.Status {
		return nil
	}
	from := o.Status
	o.Status = status
	o.Revise()
	o.RecordEvent(NewOrderStatusChangedEvent(o, from))
	return nil
}

// MarkPaid records payment
func (o *Order) MarkPaid() {
	if o.Paid {
		return
	}
	o.Paid = true
	o.Revise()
	o.RecordEvent(NewOrderPaidEvent(o))
}

// ShippingDetails are the contact details captured at checkout
type ShippingDetails struct {
	Telephone   string
	Destination string
}

// Normalize trims both fields and checks they are present
func (d ShippingDetails) Normalize() (ShippingDetails, error) {
	d.Telephone = strings.TrimSpace(d.Telephone)
	d.Destination = strings.TrimSpace(d.Destination)
	if d.Telephone == "" || d.Destination == "" {
		return d, shared.NewValidationError("Please provide both telephone and destination")
	}
	if utf8.RuneCountInString(d.Telephone) > MaxTelephoneLength {
		return d, shared.NewValidationError(fmt.Sprintf("Telephone cannot exceed %d characters", MaxTelephoneLength))
	}
	if utf8.RuneCountInString(d.Destination) > MaxDestinationLength {
		return d, shared.NewValidationError(fmt.Sprintf("Destination cannot exceed %d characters", MaxDestinationLength))
	}
	return d, nil
}
