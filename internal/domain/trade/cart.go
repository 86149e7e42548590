package trade

import (
	"fmt"
	"time"

	"github.com/drobe/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxLineQuantity caps the units of one cart line
const MaxLineQuantity = 9999

// CartItem is one line of a cart. A cart holds at most one item per target.
type CartItem struct {
	ID       uuid.UUID
	CartID   uuid.UUID
	Target   LineTarget
	Quantity int
	AddedAt  time.Time
}

// Cart is the mutable basket of a customer or an anonymous session.
// Prices are never stored on a cart; they are looked up live.
type Cart struct {
	shared.BaseAggregateRoot
	Owner CartOwner
	Items []CartItem
}

// UnitPricer prices a line target at one instant
type UnitPricer interface {
	UnitPrice(target LineTarget) (decimal.Decimal, error)
}

// NewCart creates an empty cart for owner
func NewCart(owner CartOwner) (*Cart, error) {
	if owner.IsZero() {
		return nil, shared.NewValidationError("Cart owner is required")
	}
	return &Cart{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Owner:             owner,
		Items:             []CartItem{},
	}, nil
}

// AddItem adds quantity units of target. If the cart already holds the
// target the quantities are summed. A non-positive quantity is rejected
// and leaves the cart unchanged.
func (c *Cart) AddItem(target LineTarget, quantity int) (*CartItem, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, shared.NewValidationError("Quantity must be at least 1")
	}
	if quantity > MaxLineQuantity {
		return nil, quantityTooLarge()
	}

	if item := c.FindByTarget(target); item != nil {
		if quantity > MaxLineQuantity-item.Quantity {
			return nil, quantityTooLarge()
		}
		item.Quantity += quantity
		c.touch()
		return item, nil
	}

	c.Items = append(c.Items, CartItem{
		ID:       uuid.New(),
		CartID:   c.ID,
		Target:   target,
		Quantity: quantity,
		AddedAt:  time.Now(),
	})
	c.touch()
	return &c.Items[len(c.Items)-1], nil
}

// UpdateQuantity sets the quantity of an item. A quantity of zero or less
// removes the item.
func (c *Cart) UpdateQuantity(itemID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return c.RemoveItem(itemID)
	}
	if quantity > MaxLineQuantity {
		return quantityTooLarge()
	}
	item, err := c.Item(itemID)
	if err != nil {
		return err
	}
	item.Quantity = quantity
	c.touch()
	return nil
}

// RemoveItem deletes an item from the cart
func (c *Cart) RemoveItem(itemID uuid.UUID) error {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.touch()
			return nil
		}
	}
	return shared.NewNotFoundError("Cart item not found")
}

// Item returns the item with the given ID
func (c *Cart) Item(itemID uuid.UUID) (*CartItem, error) {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return &c.Items[i], nil
		}
	}
	return nil, shared.NewNotFoundError("Cart item not found")
}

// FindByTarget returns the item for target, or nil
func (c *Cart) FindByTarget(target LineTarget) *CartItem {
	for i := range c.Items {
		if c.Items[i].Target == target {
			return &c.Items[i]
		}
	}
	return nil
}

// Clear empties the cart. The cart itself survives.
func (c *Cart) Clear() {
	c.Items = []CartItem{}
	c.touch()
}

// MergeFrom moves every line of source into c, summing quantities for
// targets both carts hold. A summed line is capped at MaxLineQuantity so a
// login never fails on the merge. The caller deletes source afterwards.
func (c *Cart) MergeFrom(source *Cart) error {
	if source == nil {
		return nil
	}
	if source.ID == c.ID {
		return shared.NewValidationError("Cannot merge a cart into itself")
	}
	for _, item := range source.Items {
		if err := item.Target.Validate(); err != nil {
			return err
		}
	}
	for _, item := range source.Items {
		qty := item.Quantity
		if existing := c.FindByTarget(item.Target); existing != nil {
			qty = min(qty, MaxLineQuantity-existing.Quantity)
		}
		qty = min(qty, MaxLineQuantity)
		if qty <= 0 {
			continue
		}
		if _, err := c.AddItem(item.Target, qty); err != nil {
			return err
		}
	}
	c.RecordEvent(NewCartMergedEvent(c, source))
	return nil
}

// Count is the total number of units in the cart
func (c *Cart) Count() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// IsEmpty reports whether the cart has no items
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Total sums unit price times quantity over every item
func (c *Cart) Total(pricer UnitPricer) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, item := range c.Items {
		price, err := pricer.UnitPrice(item.Target)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total, nil
}

func quantityTooLarge() error {
	return shared.NewValidationError(fmt.Sprintf("A cart line holds at most %d units", MaxLineQuantity))
}

func (c *Cart) touch() {
	c.UpdatedAt = time.Now()
}
