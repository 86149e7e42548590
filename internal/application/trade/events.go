package trade

import (
	"context"

	"github.com/drobe/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// MetricsRecorder receives shop business counters.
// The telemetry package provides the OpenTelemetry implementation.
type MetricsRecorder interface {
	RecordCheckout(ctx context.Context, itemCount int, total decimal.Decimal)
	RecordCheckoutFailure(ctx context.Context, reason string)
	RecordCartMerge(ctx context.Context, lines int)
	RecordOrderPaid(ctx context.Context, total decimal.Decimal)
}

type noopMetrics struct{}

func (noopMetrics) RecordCheckout(context.Context, int, decimal.Decimal) {}
func (noopMetrics) RecordCheckoutFailure(context.Context, string)        {}
func (noopMetrics) RecordCartMerge(context.Context, int)                 {}
func (noopMetrics) RecordOrderPaid(context.Context, decimal.Decimal)     {}

// publishEvents hands the pending events of each aggregate to the publisher
// after the surrounding transaction committed. Publishing failures are
// logged and do not fail the operation.
func publishEvents(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, aggregates ...shared.AggregateRoot) {
	for _, agg := range aggregates {
		if agg == nil {
			continue
		}
		events := agg.PullEvents()
		if publisher != nil && len(events) > 0 {
			if err := publisher.Publish(ctx, events...); err != nil {
				logger.Warn("Failed to publish domain events",
					zap.String("aggregate_id", agg.GetID().String()),
					zap.Int("events", len(events)),
					zap.Error(err),
				)
			}
		}
	}
}
