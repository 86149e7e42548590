package event

import (
	"context"
	"encoding/json"

	"github.com/drobe/backend/internal/domain/catalog"
	"github.com/drobe/backend/internal/domain/shared"
	"github.com/drobe/backend/internal/domain/trade"
	"github.com/drobe/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// AuditHandler writes one structured log line per domain event. Order and
// catalog changes log at info, cart merges at debug. The full event is
// attached as a JSON payload.
type AuditHandler struct {
	logger *zap.Logger
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(log *zap.Logger) *AuditHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuditHandler{logger: log.Named("audit")}
}

// EventTypes implements shared.EventHandler. Empty means every event.
func (h *AuditHandler) EventTypes() []string {
	return nil
}

// Handle implements shared.EventHandler
func (h *AuditHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	level := zapcore.InfoLevel
	if event.EventType() == trade.EventTypeCartMerged {
		level = zapcore.DebugLevel
	}
	if ce := h.logger.Check(level, "Domain event"); ce != nil {
		fields := append([]zap.Field{
			zap.String("event_type", event.EventType()),
			zap.String("event_id", event.EventID().String()),
			zap.String("aggregate_type", event.AggregateType()),
			zap.String("aggregate_id", event.AggregateID().String()),
			zap.Time("occurred_at", event.OccurredAt()),
		}, summaryFields(event)...)
		if id := logger.RequestID(ctx); id != "" {
			fields = append(fields, zap.String("request_id", id))
		}
		payload, err := json.Marshal(event)
		if err != nil {
			return err
		}
		ce.Write(append(fields, zap.ByteString("payload", payload))...)
	}
	return nil
}

func summaryFields(event shared.DomainEvent) []zap.Field {
	switch e := event.(type) {
	case *trade.OrderPlacedEvent:
		return []zap.Field{
			zap.String("customer_id", e.CustomerID.String()),
			zap.Int("item_count", e.ItemCount),
			zap.String("total", e.Total.StringFixed(2)),
		}
	case *trade.OrderStatusChangedEvent:
		return []zap.Field{
			zap.String("from_status", string(e.FromStatus)),
			zap.String("to_status", string(e.ToStatus)),
		}
	case *trade.OrderPaidEvent:
		return []zap.Field{zap.String("total", e.Total.StringFixed(2))}
	case *trade.CartMergedEvent:
		return []zap.Field{
			zap.String("source_cart_id", e.SourceCartID.String()),
			zap.Int("lines_merged", e.LinesMerged),
		}
	case *catalog.ProductChangedEvent:
		return []zap.Field{zap.String("action", string(e.Action))}
	case *catalog.DiscountChangedEvent:
		return []zap.Field{zap.String("action", string(e.Action)), zap.String("name", e.Name)}
	case *catalog.BrandDeletedEvent:
		return []zap.Field{zap.Int64("products_removed", e.ProductsRemoved)}
	}
	return nil
}

var _ shared.EventHandler = (*AuditHandler)(nil)
