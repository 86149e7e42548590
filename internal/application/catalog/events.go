package catalog

import (
	"context"

	"github.com/drobe/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// publishEvents hands the pending events of each aggregate to the publisher.
// Publishing failures are logged and do not fail the operation.
func publishEvents(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, aggregates ...shared.AggregateRoot) {
	for _, agg := range aggregates {
		if agg == nil {
			continue
		}
		events := agg.PullEvents()
		if publisher != nil && len(events) > 0 {
			if err := publisher.Publish(ctx, events...); err != nil {
				logger.Warn("Failed to publish catalog events",
					zap.String("aggregate_id", agg.GetID().String()),
					zap.Int("events", len(events)),
					zap.Error(err),
				)
			}
		}
	}
}
