package trade

import (
	"context"
	"errors"

	"github.com/drobe/backend/internal/domain/catalog"
	"github.com/drobe/backend/internal/domain/pricing"
	"github.com/drobe/backend/internal/domain/shared"
	"github.com/drobe/backend/internal/domain/trade"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CartService handles cart operations for customers and anonymous sessions
type CartService struct {
	scope          TransactionScope
	cartRepo       trade.CartRepository
	productRepo    catalog.ProductRepository
	discounts      pricing.DiscountSource
	clock          shared.Clock
	eventPublisher shared.EventPublisher
	metrics        MetricsRecorder
	logger         *zap.Logger
}

// NewCartService creates a new CartService
func NewCartService(
	scope TransactionScope,
	cartRepo trade.CartRepository,
	productRepo catalog.ProductRepository,
	discounts pricing.DiscountSource,
	clock shared.Clock,
	logger *zap.Logger,
) *CartService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartService{
		scope:       scope,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		discounts:   discounts,
		clock:       clock,
		metrics:     noopMetrics{},
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher
func (s *CartService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetMetrics sets the business metrics recorder
func (s *CartService) SetMetrics(metrics MetricsRecorder) {
	if metrics != nil {
		s.metrics = metrics
	}
}

// Get returns the caller's cart with live prices. A caller without a cart
// gets an empty one that is not persisted. A pending session cart is merged
// first.
func (s *CartService) Get(ctx context.Context, id trade.Identity) (*CartResponse, error) {
	cart, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, cart)
}

// Count returns the number of units in the caller's cart, 0 without a cart
func (s *CartService) Count(ctx context.Context, id trade.Identity) (int, error) {
	cart, err := s.load(ctx, id)
	if err != nil {
		return 0, err
	}
	if cart == nil {
		return 0, nil
	}
	return cart.Count(), nil
}

// AddItem adds a product or variant to the caller's cart, creating the cart
// on first use. Adding a target the cart already holds sums the quantities.
func (s *CartService) AddItem(ctx context.Context, id trade.Identity, req AddCartItemRequest) (*CartResponse, error) {
	target, err := req.Target()
	if err != nil {
		return nil, err
	}
	quantity := req.Qty()
	if quantity <= 0 {
		return nil, shared.NewValidationError("Quantity must be at least 1")
	}
	if err := checkTargetExists(ctx, s.productRepo, target); err != nil {
		return nil, err
	}

	cart, err := s.mutate(ctx, id, func(_ trade.CartRepository, cart *trade.Cart) error {
		_, err := cart.AddItem(target, quantity)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.view(ctx, cart)
}

// UpdateItem sets the quantity of a line. Zero or less removes the line.
func (s *CartService) UpdateItem(ctx context.Context, id trade.Identity, itemID uuid.UUID, req UpdateCartItemRequest) (*CartResponse, error) {
	cart, err := s.mutate(ctx, id, func(carts trade.CartRepository, cart *trade.Cart) error {
		if err := checkItemOwnership(ctx, carts, cart, itemID); err != nil {
			return err
		}
		return cart.UpdateQuantity(itemID, req.Quantity)
	})
	if err != nil {
		return nil, err
	}
	return s.view(ctx, cart)
}

// RemoveItem deletes a line from the caller's cart
func (s *CartService) RemoveItem(ctx context.Context, id trade.Identity, itemID uuid.UUID) (*CartResponse, error) {
	cart, err := s.mutate(ctx, id, func(carts trade.CartRepository, cart *trade.Cart) error {
		if err := checkItemOwnership(ctx, carts, cart, itemID); err != nil {
			return err
		}
		return cart.RemoveItem(itemID)
	})
	if err != nil {
		return nil, err
	}
	return s.view(ctx, cart)
}

// Clear empties the caller's cart. The cart itself is kept.
func (s *CartService) Clear(ctx context.Context, id trade.Identity) (*CartResponse, error) {
	cart, err := s.mutate(ctx, id, func(_ trade.CartRepository, cart *trade.Cart) error {
		cart.Clear()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.view(ctx, cart)
}

// load returns the caller's cart, or nil when there is none. A pending
// session cart is merged before reading.
func (s *CartService) load(ctx context.Context, id trade.Identity) (*trade.Cart, error) {
	owner, err := id.Owner()
	if err != nil {
		return nil, err
	}
	if _, pending := id.PendingMerge(); pending {
		return s.mutate(ctx, id, func(trade.CartRepository, *trade.Cart) error { return nil })
	}

	cart, err := s.cartRepo.FindByOwner(ctx, owner)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	return cart, err
}

// mutate runs fn against the caller's locked cart inside a transaction and
// saves the result. The cart is created first when missing, and a pending
// session cart is merged into it before fn runs.
func (s *CartService) mutate(ctx context.Context, id trade.Identity, fn func(carts trade.CartRepository, cart *trade.Cart) error) (*trade.Cart, error) {
	owner, err := id.Owner()
	if err != nil {
		return nil, err
	}
	if err := ensureCart(ctx, s.cartRepo, owner); err != nil {
		return nil, err
	}

	var result *trade.Cart
	var merged int
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		carts := repos.CartRepo()
		cart, err := carts.FindByOwnerForUpdate(ctx, owner)
		if err != nil {
			return err
		}
		merged, err = mergePendingCart(ctx, carts, id, cart)
		if err != nil {
			return err
		}
		if err := fn(carts, cart); err != nil {
			return err
		}
		if err := carts.Save(ctx, cart); err != nil {
			return err
		}
		result = cart
		return nil
	})
	if err != nil {
		return nil, err
	}

	if merged > 0 {
		s.metrics.RecordCartMerge(ctx, merged)
		s.logger.Info("Merged session cart into customer cart",
			zap.String("cart_id", result.ID.String()),
			zap.Int("lines", merged),
		)
	}
	publishEvents(ctx, s.eventPublisher, s.logger, result)
	return result, nil
}

func (s *CartService) view(ctx context.Context, cart *trade.Cart) (*CartResponse, error) {
	now := s.clock.Now()
	if cart == nil {
		return &CartResponse{Items: []CartItemResponse{}, PricedAt: now}, nil
	}

	pricer, err := loadLinePricer(ctx, s.productRepo, s.discounts, now, cartTargets(cart))
	if err != nil {
		return nil, err
	}
	total, err := cart.Total(pricer)
	if err != nil {
		return nil, err
	}

	items := make([]CartItemResponse, len(cart.Items))
	for i, item := range cart.Items {
		unit, err := pricer.UnitPrice(item.Target)
		if err != nil {
			return nil, err
		}
		productID, variantID := item.Target.Refs()
		items[i] = CartItemResponse{
			ID:        item.ID,
			ProductID: productID,
			VariantID: variantID,
			Label:     pricer.Label(item.Target),
			Quantity:  item.Quantity,
			UnitPrice: unit,
			Subtotal:  unit.Mul(decimalFromInt(item.Quantity)),
			AddedAt:   item.AddedAt,
		}
	}

	cartID := cart.ID
	return &CartResponse{
		ID:       &cartID,
		Items:    items,
		Count:    cart.Count(),
		Total:    total,
		PricedAt: now,
	}, nil
}

// ensureCart creates an empty cart for owner unless one exists. Losing a
// creation race to a concurrent request is not an error.
func ensureCart(ctx context.Context, carts trade.CartRepository, owner trade.CartOwner) error {
	_, err := carts.FindByOwner(ctx, owner)
	if err == nil || !errors.Is(err, shared.ErrNotFound) {
		return err
	}
	cart, err := trade.NewCart(owner)
	if err != nil {
		return err
	}
	if err := carts.Save(ctx, cart); err != nil && !errors.Is(err, shared.ErrAlreadyExists) {
		return err
	}
	return nil
}

// mergePendingCart folds the session cart of a caller who just signed in
// into dest and deletes it. It returns the number of lines moved.
func mergePendingCart(ctx context.Context, carts trade.CartRepository, id trade.Identity, dest *trade.Cart) (int, error) {
	sessionOwner, pending := id.PendingMerge()
	if !pending {
		return 0, nil
	}
	source, err := carts.FindByOwnerForUpdate(ctx, sessionOwner)
	if errors.Is(err, shared.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if err := dest.MergeFrom(source); err != nil {
		return 0, err
	}
	if err := carts.Delete(ctx, source.ID); err != nil {
		return 0, err
	}
	return len(source.Items), nil
}

// checkItemOwnership rejects item IDs that live in another owner's cart
func checkItemOwnership(ctx context.Context, carts trade.CartRepository, cart *trade.Cart, itemID uuid.UUID) error {
	if _, err := cart.Item(itemID); err == nil {
		return nil
	}
	holder, err := carts.FindItemCartID(ctx, itemID)
	if err != nil {
		return err
	}
	if holder != cart.ID {
		return shared.NewAuthorizationError("Cart item does not belong to the caller")
	}
	return shared.NewNotFoundError("Cart item not found")
}
