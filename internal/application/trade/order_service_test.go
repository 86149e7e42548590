package trade

import (
	"context"
	"testing"

	"github.com/drobe/backend/internal/domain/shared"
	"github.com/drobe/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newPlacedOrder(customerID uuid.UUID) *trade.Order {
	order := &trade.Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		Telephone:         "555-0100",
		Destination:       "1 Main St",
		Status:            trade.OrderStatusPending,
	}
	order.Items = []trade.OrderItem{
		{
			ID:        uuid.New(),
			OrderID:   order.ID,
			Target:    trade.ProductTarget(uuid.New()),
			Label:     "Plain Tee",
			Quantity:  2,
			UnitPrice: decimal.RequireFromString("100.00"),
			Discount:  decimal.Zero,
		},
	}
	return order
}

func TestOrderService_List(t *testing.T) {
	ctx := context.Background()
	customerID := uuid.New()

	t.Run("defaults paging and sorts newest first", func(t *testing.T) {
		orders := new(MockOrderRepository)
		expected := shared.Filter{
			Page:     1,
			PageSize: shared.DefaultPageSize,
			OrderBy:  "created_at",
			OrderDir: "desc",
			Filters:  map[string]interface{}{},
		}
		orders.On("FindByCustomer", ctx, customerID, expected).Return([]trade.Order{*newPlacedOrder(customerID)}, nil)
		orders.On("CountByCustomer", ctx, customerID, expected).Return(int64(1), nil)

		svc := NewOrderService(orders, nil)
		list, total, err := svc.List(ctx, customerID, OrderListFilter{})

		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, list, 1)
		assert.True(t, list[0].Total.Equal(decimal.RequireFromString("200.00")))
		orders.AssertExpectations(t)
	})

	t.Run("status filter applies to the count too", func(t *testing.T) {
		orders := new(MockOrderRepository)
		withStatus := mock.MatchedBy(func(f shared.Filter) bool {
			return f.Filters["status"] == "shipped" && f.Page == 2 && f.PageSize == 5
		})
		orders.On("FindByCustomer", ctx, customerID, withStatus).Return([]trade.Order{}, nil)
		orders.On("CountByCustomer", ctx, customerID, withStatus).Return(int64(6), nil)

		svc := NewOrderService(orders, nil)
		list, total, err := svc.List(ctx, customerID, OrderListFilter{Status: "SHIPPED", Page: 2, PageSize: 5})

		require.NoError(t, err)
		assert.Empty(t, list)
		assert.Equal(t, int64(6), total)
	})

	t.Run("unknown status", func(t *testing.T) {
		orders := new(MockOrderRepository)
		svc := NewOrderService(orders, nil)

		_, _, err := svc.List(ctx, customerID, OrderListFilter{Status: "lost"})

		assert.ErrorIs(t, err, shared.ErrValidation)
		orders.AssertNotCalled(t, "FindByCustomer", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestOrderService_Get(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	order := newPlacedOrder(owner)

	orders := new(MockOrderRepository)
	orders.On("FindByID", ctx, order.ID).Return(order, nil)
	svc := NewOrderService(orders, nil)

	resp, err := svc.Get(ctx, owner, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, resp.ID)
	assert.Equal(t, 2, resp.ItemCount)

	_, err = svc.Get(ctx, uuid.New(), order.ID)
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestOrderService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("owner may move to any status", func(t *testing.T) {
		owner := uuid.New()
		order := newPlacedOrder(owner)
		order.Status = trade.OrderStatusDelivered
		orders := new(MockOrderRepository)
		orders.On("FindByID", ctx, order.ID).Return(order, nil)
		orders.On("UpdateState", ctx, order).Return(nil)

		publisher := new(MockEventPublisher)
		publisher.On("Publish", ctx, mock.MatchedBy(func(events []shared.DomainEvent) bool {
			return len(events) == 1 && events[0].EventType() == trade.EventTypeOrderStatusChanged
		})).Return(nil)

		svc := NewOrderService(orders, nil)
		svc.SetEventPublisher(publisher)
		resp, err := svc.UpdateStatus(ctx, owner, order.ID, UpdateOrderStatusRequest{Status: "unconfirmed"})

		require.NoError(t, err)
		assert.Equal(t, "unconfirmed", resp.Status)
		orders.AssertExpectations(t)
		publisher.AssertExpectations(t)
	})

	t.Run("same status writes nothing", func(t *testing.T) {
		owner := uuid.New()
		order := newPlacedOrder(owner)
		orders := new(MockOrderRepository)
		orders.On("FindByID", ctx, order.ID).Return(order, nil)

		svc := NewOrderService(orders, nil)
		_, err := svc.UpdateStatus(ctx, owner, order.ID, UpdateOrderStatusRequest{Status: "pending"})

		require.NoError(t, err)
		orders.AssertNotCalled(t, "UpdateState", mock.Anything, mock.Anything)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		order := newPlacedOrder(uuid.New())
		orders := new(MockOrderRepository)
		orders.On("FindByID", ctx, order.ID).Return(order, nil)

		svc := NewOrderService(orders, nil)
		_, err := svc.UpdateStatus(ctx, uuid.New(), order.ID, UpdateOrderStatusRequest{Status: "shipped"})

		assert.ErrorIs(t, err, shared.ErrForbidden)
		assert.Equal(t, trade.OrderStatusPending, order.Status)
	})

	t.Run("invalid status", func(t *testing.T) {
		owner := uuid.New()
		order := newPlacedOrder(owner)
		orders := new(MockOrderRepository)
		orders.On("FindByID", ctx, order.ID).Return(order, nil)

		svc := NewOrderService(orders, nil)
		_, err := svc.UpdateStatus(ctx, owner, order.ID, UpdateOrderStatusRequest{Status: "cancelled"})

		assert.ErrorIs(t, err, shared.ErrValidation)
		orders.AssertNotCalled(t, "UpdateState", mock.Anything, mock.Anything)
	})

	t.Run("concurrent modification", func(t *testing.T) {
		owner := uuid.New()
		order := newPlacedOrder(owner)
		orders := new(MockOrderRepository)
		orders.On("FindByID", ctx, order.ID).Return(order, nil)
		orders.On("UpdateState", ctx, order).Return(shared.ErrConcurrencyConflict)

		svc := NewOrderService(orders, nil)
		_, err := svc.UpdateStatus(ctx, owner, order.ID, UpdateOrderStatusRequest{Status: "shipped"})

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})

	t.Run("missing order", func(t *testing.T) {
		orders := new(MockOrderRepository)
		id := uuid.New()
		orders.On("FindByID", ctx, id).Return(nil, shared.NewNotFoundError("Order not found"))

		svc := NewOrderService(orders, nil)
		_, err := svc.UpdateStatus(ctx, uuid.New(), id, UpdateOrderStatusRequest{Status: "shipped"})

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestOrderService_MarkPaid(t *testing.T) {
	ctx := context.Background()
	order := newPlacedOrder(uuid.New())
	orders := new(MockOrderRepository)
	orders.On("FindByID", ctx, order.ID).Return(order, nil)
	orders.On("UpdateState", ctx, order).Return(nil).Once()

	svc := NewOrderService(orders, nil)
	resp, err := svc.MarkPaid(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, resp.Paid)

	resp, err = svc.MarkPaid(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, resp.Paid)
	orders.AssertNumberOfCalls(t, "UpdateState", 1)
}
