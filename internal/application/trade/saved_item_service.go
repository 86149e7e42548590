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

// SavedItemService manages customer wishlists
type SavedItemService struct {
	scope          TransactionScope
	savedRepo      trade.SavedItemRepository
	cartRepo       trade.CartRepository
	productRepo    catalog.ProductRepository
	discounts      pricing.DiscountSource
	clock          shared.Clock
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewSavedItemService creates a new SavedItemService
func NewSavedItemService(
	scope TransactionScope,
	savedRepo trade.SavedItemRepository,
	cartRepo trade.CartRepository,
	productRepo catalog.ProductRepository,
	discounts pricing.DiscountSource,
	clock shared.Clock,
	logger *zap.Logger,
) *SavedItemService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SavedItemService{
		scope:       scope,
		savedRepo:   savedRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		discounts:   discounts,
		clock:       clock,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher
func (s *SavedItemService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// List returns the customer's wishlist with current prices. Entries whose
// product has disappeared are skipped.
func (s *SavedItemService) List(ctx context.Context, customerID uuid.UUID) ([]SavedItemResponse, error) {
	items, err := s.savedRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	targets := make([]trade.LineTarget, len(items))
	for i := range items {
		targets[i] = items[i].Target
	}
	pricer, err := loadLinePricer(ctx, s.productRepo, s.discounts, s.clock.Now(), targets)
	if err != nil {
		return nil, err
	}

	responses := make([]SavedItemResponse, 0, len(items))
	for i := range items {
		response, err := toSavedItemResponse(&items[i], pricer)
		if errors.Is(err, shared.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		responses = append(responses, response)
	}
	return responses, nil
}

// Save adds a target to the wishlist. Saving the same target twice returns
// the existing entry.
func (s *SavedItemService) Save(ctx context.Context, customerID uuid.UUID, req SaveItemRequest) (*SavedItemResponse, error) {
	target, err := req.Target()
	if err != nil {
		return nil, err
	}

	item, err := s.savedRepo.FindByCustomerAndTarget(ctx, customerID, target)
	switch {
	case err == nil:
	case errors.Is(err, shared.ErrNotFound):
		if item, err = trade.NewSavedItem(customerID, target); err != nil {
			return nil, err
		}
		if err := checkTargetExists(ctx, s.productRepo, target); err != nil {
			return nil, err
		}
		if err := s.savedRepo.Save(ctx, item); err != nil {
			if !errors.Is(err, shared.ErrAlreadyExists) {
				return nil, err
			}
			if item, err = s.savedRepo.FindByCustomerAndTarget(ctx, customerID, target); err != nil {
				return nil, err
			}
		}
	default:
		return nil, err
	}

	pricer, err := loadLinePricer(ctx, s.productRepo, s.discounts, s.clock.Now(), []trade.LineTarget{target})
	if err != nil {
		return nil, err
	}
	response, err := toSavedItemResponse(item, pricer)
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// Remove deletes one of the customer's wishlist entries
func (s *SavedItemService) Remove(ctx context.Context, customerID, itemID uuid.UUID) error {
	item, err := s.savedRepo.FindByID(ctx, itemID)
	if err != nil {
		return err
	}
	if !item.IsOwnedBy(customerID) {
		return shared.NewAuthorizationError("Saved item does not belong to the caller")
	}
	return s.savedRepo.Delete(ctx, itemID)
}

// MoveToCart adds one unit of a saved target to the caller's cart and
// removes it from the wishlist, in one transaction
func (s *SavedItemService) MoveToCart(ctx context.Context, id trade.Identity, itemID uuid.UUID) error {
	if !id.IsAuthenticated() {
		return shared.NewValidationError("Wishlist requires a signed-in customer")
	}
	owner, err := id.Owner()
	if err != nil {
		return err
	}
	if err := ensureCart(ctx, s.cartRepo, owner); err != nil {
		return err
	}

	var cart *trade.Cart
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		saved := repos.SavedItemRepo()
		item, err := saved.FindByID(ctx, itemID)
		if err != nil {
			return err
		}
		if !item.IsOwnedBy(id.CustomerID) {
			return shared.NewAuthorizationError("Saved item does not belong to the caller")
		}

		carts := repos.CartRepo()
		cart, err = carts.FindByOwnerForUpdate(ctx, owner)
		if err != nil {
			return err
		}
		if _, err := mergePendingCart(ctx, carts, id, cart); err != nil {
			return err
		}
		if _, err := cart.AddItem(item.Target, 1); err != nil {
			return err
		}
		if err := carts.Save(ctx, cart); err != nil {
			return err
		}
		return saved.Delete(ctx, item.ID)
	})
	if err != nil {
		return err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, cart)
	return nil
}

func toSavedItemResponse(item *trade.SavedItem, pricer *linePricer) (SavedItemResponse, error) {
	price, err := pricer.UnitPrice(item.Target)
	if err != nil {
		return SavedItemResponse{}, err
	}
	productID, variantID := item.Target.Refs()
	return SavedItemResponse{
		ID:        item.ID,
		ProductID: productID,
		VariantID: variantID,
		Label:     pricer.Label(item.Target),
		UnitPrice: price,
		AddedAt:   item.AddedAt,
	}, nil
}
