package telemetry

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var attrReason = attribute.Key("reason")

// Order amounts are histogrammed in the shop currency
var orderValueBuckets = []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000}

// BusinessMetrics records checkout and cart activity. It satisfies the
// trade application MetricsRecorder.
type BusinessMetrics struct {
	checkouts        *Counter
	checkoutFailures *Counter
	checkoutItems    *Histogram
	orderValue       *Histogram
	cartMerges       *Counter
	mergedLines      *Counter
	ordersPaid       *Counter
	revenue          metric.Float64Counter
}

// NewBusinessMetrics registers the shop instruments on meter
func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	if meter == nil {
		return nil, errors.New("telemetry: meter is required")
	}
	bm := &BusinessMetrics{}
	var err error

	if bm.checkouts, err = NewCounter(meter, "shop_checkouts_total", "Orders placed through checkout", "{order}"); err != nil {
		return nil, err
	}
	if bm.checkoutFailures, err = NewCounter(meter, "shop_checkout_failures_total", "Checkouts that were rejected or failed", "{checkout}"); err != nil {
		return nil, err
	}
	if bm.checkoutItems, err = NewHistogram(meter, "shop_checkout_items", "Line items per placed order", "{item}", []float64{1, 2, 3, 5, 8, 13, 21}); err != nil {
		return nil, err
	}
	if bm.orderValue, err = NewHistogram(meter, "shop_order_value", "Order total at checkout", "{currency}", orderValueBuckets); err != nil {
		return nil, err
	}
	if bm.cartMerges, err = NewCounter(meter, "shop_cart_merges_total", "Session carts merged into a customer cart", "{merge}"); err != nil {
		return nil, err
	}
	if bm.mergedLines, err = NewCounter(meter, "shop_cart_merged_lines_total", "Cart lines moved by merges", "{line}"); err != nil {
		return nil, err
	}
	if bm.ordersPaid, err = NewCounter(meter, "shop_orders_paid_total", "Orders marked as paid", "{order}"); err != nil {
		return nil, err
	}
	if bm.revenue, err = meter.Float64Counter("shop_revenue_total",
		metric.WithDescription("Sum of paid order totals"),
		metric.WithUnit("{currency}"),
	); err != nil {
		return nil, err
	}
	return bm, nil
}

func (bm *BusinessMetrics) RecordCheckout(ctx context.Context, itemCount int, total decimal.Decimal) {
	bm.checkouts.Inc(ctx)
	bm.checkoutItems.Record(ctx, float64(itemCount))
	bm.orderValue.Record(ctx, total.InexactFloat64())
}

func (bm *BusinessMetrics) RecordCheckoutFailure(ctx context.Context, reason string) {
	bm.checkoutFailures.Inc(ctx, attrReason.String(reason))
}

func (bm *BusinessMetrics) RecordCartMerge(ctx context.Context, lines int) {
	bm.cartMerges.Inc(ctx)
	bm.mergedLines.Add(ctx, int64(lines))
}

func (bm *BusinessMetrics) RecordOrderPaid(ctx context.Context, total decimal.Decimal) {
	bm.ordersPaid.Inc(ctx)
	bm.revenue.Add(ctx, total.InexactFloat64())
}
