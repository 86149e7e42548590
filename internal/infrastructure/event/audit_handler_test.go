package event

import (
	"context"
	"testing"

	"github.com/drobe/backend/internal/domain/shared"
	"github.com/drobe/backend/internal/domain/trade"
	"github.com/drobe/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestAuditHandler_OrderPlaced(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := NewAuditHandler(zap.New(core))
	assert.Empty(t, h.EventTypes())

	orderID := uuid.New()
	event := &trade.OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(trade.EventTypeOrderPlaced, trade.AggregateTypeOrder, orderID),
		OrderID:         orderID,
		CustomerID:      uuid.New(),
		ItemCount:       3,
		Total:           decimal.RequireFromString("245"),
	}

	ctx := logger.WithRequestID(logger.WithContext(context.Background(), zap.NewNop()), "req-7")
	require.NoError(t, h.Handle(ctx, event))

	entries := logs.FilterMessage("Domain event").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "OrderPlaced", fields["event_type"])
	assert.Equal(t, "245.00", fields["total"])
	assert.Equal(t, int64(3), fields["item_count"])
	assert.Equal(t, "req-7", fields["request_id"])
	assert.Contains(t, fields["payload"], `"item_count":3`)
}

func TestAuditHandler_CartMergedIsDebug(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := NewAuditHandler(zap.New(core))

	event := &trade.CartMergedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(trade.EventTypeCartMerged, trade.AggregateTypeCart, uuid.New()),
		LinesMerged:     2,
	}
	require.NoError(t, h.Handle(context.Background(), event))
	assert.Zero(t, logs.Len())
}
