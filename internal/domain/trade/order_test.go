package trade

import (
	"errors"
	"testing"

	"github.com/drobe/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrder(customerID uuid.UUID) *Order {
	return &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		Status:            OrderStatusPending,
		Items: []OrderItem{
			{Target: ProductTarget(uuid.New()), Quantity: 2, UnitPrice: decimal.RequireFromString("100.00"), Discount: decimal.Zero},
			{Target: VariantTarget(uuid.New()), Quantity: 3, UnitPrice: decimal.RequireFromString("45.00"), Discount: decimal.RequireFromString("5.00")},
		},
	}
}

func TestOrder_Total(t *testing.T) {
	order := newOrder(uuid.New())
	assert.Equal(t, "200.00", order.Items[0].Subtotal().StringFixed(2))
	assert.Equal(t, "120.00", order.Items[1].Subtotal().StringFixed(2))
	assert.Equal(t, "320.00", order.Total().StringFixed(2))
	assert.Equal(t, 5, order.ItemCount())

	empty := &Order{}
	assert.True(t, empty.Total().IsZero())
}

func TestOrder_SetStatus(t *testing.T) {
	owner := uuid.New()

	t.Run("owner may set any listed status from any status", func(t *testing.T) {
		order := newOrder(owner)
		for _, s := range []OrderStatus{OrderStatusDelivered, OrderStatusPending, OrderStatusReturned, OrderStatusUnconfirmed, OrderStatusShipped} {
			require.NoError(t, order.SetStatus(owner, s))
			assert.Equal(t, s, order.Status)
		}
		assert.Len(t, order.PendingEvents(), 5)
	})

	t.Run("same status is a no-op", func(t *testing.T) {
		order := newOrder(owner)
		require.NoError(t, order.SetStatus(owner, OrderStatusPending))
		assert.Empty(t, order.PendingEvents())
	})

	t.Run("other customer is rejected", func(t *testing.T) {
		order := newOrder(owner)
		err := order.SetStatus(uuid.New(), OrderStatusShipped)
		assert.True(t, errors.Is(err, shared.ErrForbidden))
		assert.Equal(t, OrderStatusPending, order.Status)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		order := newOrder(owner)
		err := order.SetStatus(owner, OrderStatus("lost"))
		assert.True(t, errors.Is(err, shared.ErrValidation))
		assert.Equal(t, OrderStatusPending, order.Status)
	})
}

func TestOrder_MarkPaid(t *testing.T) {
	order := newOrder(uuid.New())
	order.MarkPaid()
	order.MarkPaid()
	assert.True(t, order.Paid)
	assert.Len(t, order.PendingEvents(), 1)
}

func TestOrderStatus(t *testing.T) {
	for _, s := range AllOrderStatuses() {
		assert.True(t, s.IsValid(), s)
	}
	assert.False(t, OrderStatus("cancelled").IsValid())
	assert.True(t, OrderStatusDelivered.IsTerminal())
	assert.False(t, OrderStatusShipped.IsTerminal())
}
