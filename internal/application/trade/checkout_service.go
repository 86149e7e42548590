package trade

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	appcatalog "github.com/drobe/backend/internal/application/catalog"
	"github.com/drobe/backend/internal/domain/shared"
	"github.com/drobe/backend/internal/domain/trade"
	"github.com/drobe/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// MaxIdempotencyKeyLength bounds the Idempotency-Key a client may send
const MaxIdempotencyKeyLength = 128

// CheckoutService turns a customer's cart into an order
type CheckoutService struct {
	scope          TransactionScope
	idempotency    shared.IdempotencyStore
	idempotencyTTL time.Duration
	clock          shared.Clock
	eventPublisher shared.EventPublisher
	metrics        MetricsRecorder
	logger         *zap.Logger
}

// NewCheckoutService creates a new CheckoutService. idempotency may be nil,
// in which case Idempotency-Key headers are ignored.
func NewCheckoutService(
	scope TransactionScope,
	idempotency shared.IdempotencyStore,
	idempotencyTTL time.Duration,
	clock shared.Clock,
	logger *zap.Logger,
) *CheckoutService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if idempotencyTTL <= 0 {
		idempotencyTTL = shared.DefaultIdempotencyTTL
	}
	return &CheckoutService{
		scope:          scope,
		idempotency:    idempotency,
		idempotencyTTL: idempotencyTTL,
		clock:          clock,
		metrics:        noopMetrics{},
		logger:         logger,
	}
}

// SetEventPublisher sets the event publisher
func (s *CheckoutService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetMetrics sets the business metrics recorder
func (s *CheckoutService) SetMetrics(metrics MetricsRecorder) {
	if metrics != nil {
		s.metrics = metrics
	}
}

// Checkout places an order from the caller's cart. The order, its lines
// with frozen unit prices, and the emptied cart are committed together or
// not at all. A non-empty idempotencyKey that was already used by the same
// customer within the TTL is rejected with ALREADY_EXISTS.
func (s *CheckoutService) Checkout(ctx context.Context, id trade.Identity, req CheckoutRequest, idempotencyKey string) (*OrderResponse, error) {
	if !id.IsAuthenticated() {
		return nil, shared.NewValidationError("Checkout requires a signed-in customer")
	}
	details, err := trade.ShippingDetails{Telephone: req.Telephone, Destination: req.Destination}.Normalize()
	if err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "checkout", "place",
		telemetry.SpanAttrCustomerID, id.CustomerID.String(),
		telemetry.SpanAttrIdempotent, idempotencyKey != "",
	)
	defer span.End()

	claimed, err := s.claimKey(ctx, id, idempotencyKey)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	var order *trade.Order
	telemetry.WithProfilingLabels(ctx, telemetry.OperationLabels(telemetry.OperationCheckout), func(c context.Context) {
		order, err = s.place(c, id, details)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		if claimed != "" {
			if ferr := s.idempotency.Forget(ctx, claimed); ferr != nil {
				s.logger.Warn("Failed to release idempotency key", zap.String("key", claimed), zap.Error(ferr))
			}
		}
		s.metrics.RecordCheckoutFailure(ctx, failureReason(err))
		return nil, err
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderID, order.ID.String(),
		telemetry.SpanAttrItemCount, order.ItemCount(),
		telemetry.SpanAttrTotal, order.Total().StringFixed(2),
	)
	s.metrics.RecordCheckout(ctx, order.ItemCount(), order.Total())
	s.logger.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("customer_id", order.CustomerID.String()),
		zap.Int("items", len(order.Items)),
		zap.String("total", order.Total().StringFixed(2)),
	)
	publishEvents(ctx, s.eventPublisher, s.logger, order)

	response := ToOrderResponse(order)
	return &response, nil
}

func (s *CheckoutService) place(ctx context.Context, id trade.Identity, details trade.ShippingDetails) (*trade.Order, error) {
	owner, err := trade.CustomerOwner(id.CustomerID)
	if err != nil {
		return nil, err
	}

	var order *trade.Order
	var cart *trade.Cart
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		carts := repos.CartRepo()
		cart, err = carts.FindByOwnerForUpdate(ctx, owner)
		if errors.Is(err, shared.ErrNotFound) {
			if cart, err = trade.NewCart(owner); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
		if _, err := mergePendingCart(ctx, carts, id, cart); err != nil {
			return err
		}
		if cart.IsEmpty() {
			return shared.NewValidationError("Your cart is empty")
		}

		now := s.clock.Now()
		discounts := appcatalog.NewRepositoryDiscountSource(repos.DiscountRepo())
		pricer, err := loadLinePricer(ctx, repos.ProductRepo(), discounts, now, cartTargets(cart))
		if err != nil {
			return err
		}

		order, err = trade.PlaceOrder(cart, id.CustomerID, details, pricer, now)
		if err != nil {
			return err
		}
		if err := repos.OrderRepo().Create(ctx, order); err != nil {
			return err
		}
		return carts.Save(ctx, cart)
	})
	if err != nil {
		return nil, err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, cart)
	return order, nil
}

// claimKey records the client's Idempotency-Key. It returns the stored key
// so a failed checkout can release it, or "" when nothing was recorded.
func (s *CheckoutService) claimKey(ctx context.Context, id trade.Identity, key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" || s.idempotency == nil {
		return "", nil
	}
	if len(key) > MaxIdempotencyKeyLength {
		return "", shared.NewValidationError(fmt.Sprintf("Idempotency-Key cannot exceed %d characters", MaxIdempotencyKeyLength))
	}

	stored := "checkout:" + id.CustomerID.String() + ":" + key
	fresh, err := s.idempotency.MarkProcessed(ctx, stored, s.idempotencyTTL)
	if err != nil {
		return "", fmt.Errorf("record idempotency key: %w", err)
	}
	if !fresh {
		return "", shared.NewDomainError(shared.CodeAlreadyExists, "This checkout was already submitted")
	}
	return stored, nil
}

func failureReason(err error) string {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return strings.ToLower(domainErr.Code)
	}
	return "internal"
}
