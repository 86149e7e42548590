package trade

import (
	"context"
	"time"

	"github.com/drobe/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CartRepository defines the interface for cart persistence.
// Carts are loaded together with their items.
type CartRepository interface {
	// FindByOwner returns the cart of owner, or shared.ErrNotFound
	FindByOwner(ctx context.Context, owner CartOwner) (*Cart, error)

	// FindByOwnerForUpdate is FindByOwner with the cart row locked until
	// the surrounding transaction ends
	FindByOwnerForUpdate(ctx context.Context, owner CartOwner) (*Cart, error)

	// FindItemCartID returns the ID of the cart holding itemID, or
	// shared.ErrNotFound if no such item exists
	FindItemCartID(ctx context.Context, itemID uuid.UUID) (uuid.UUID, error)

	// Save creates or updates the cart and replaces its items
	Save(ctx context.Context, cart *Cart) error

	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByCustomer removes the customer's cart
	DeleteByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)

	// DeleteAnonymousIdleSince removes session carts not updated since cutoff
	DeleteAnonymousIdleSince(ctx context.Context, cutoff time.Time) (int64, error)
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByCustomer lists a customer's orders, newest first
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]Order, error)
	CountByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) (int64, error)

	// Create inserts the order with all its items
	Create(ctx context.Context, order *Order) error

	// UpdateState persists Status and Paid only
	UpdateState(ctx context.Context, order *Order) error

	DeleteByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)

	// DeleteAbandoned removes unpaid orders in status placed before cutoff
	DeleteAbandoned(ctx context.Context, status OrderStatus, cutoff time.Time) (int64, error)
}

// SavedItemRepository defines the interface for wishlist persistence
type SavedItemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SavedItem, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]SavedItem, error)
	FindByCustomerAndTarget(ctx context.Context, customerID uuid.UUID, target LineTarget) (*SavedItem, error)
	Save(ctx context.Context, item *SavedItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)
}
