package models

import (
	"fmt"
	"time"

	"github.com/drobe/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartModel is the persistence model for the Cart aggregate root.
// Exactly one of CustomerID and SessionKey is set.
type CartModel struct {
	AggregateColumns
	CustomerID *uuid.UUID      `gorm:"type:uuid;uniqueIndex:idx_carts_customer"`
	SessionKey *string         `gorm:"type:varchar(40);uniqueIndex:idx_carts_session"`
	Items      []CartItemModel `gorm:"foreignKey:CartID;references:ID"`
}

// TableName returns the table name for GORM
func (CartModel) TableName() string {
	return "carts"
}

// ToDomain converts the persistence model to a domain Cart entity.
func (m *CartModel) ToDomain() (*trade.Cart, error) {
	owner, err := cartOwnerFromColumns(m.CustomerID, m.SessionKey)
	if err != nil {
		return nil, fmt.Errorf("cart %s: %w", m.ID, err)
	}
	cart := &trade.Cart{
		Owner: owner,
		Items: make([]trade.CartItem, len(m.Items)),
	}
	m.ApplyTo(&cart.BaseAggregateRoot)
	for i := range m.Items {
		item, err := m.Items[i].ToDomain()
		if err != nil {
			return nil, err
		}
		cart.Items[i] = *item
	}
	return cart, nil
}

// FromDomain populates the persistence model from a domain Cart entity.
func (m *CartModel) FromDomain(c *trade.Cart) {
	m.SetAggregate(c.BaseAggregateRoot)
	m.CustomerID = nil
	m.SessionKey = nil
	if id, ok := c.Owner.CustomerID(); ok {
		m.CustomerID = &id
	}
	if key, ok := c.Owner.SessionKey(); ok {
		m.SessionKey = &key
	}
	m.Items = make([]CartItemModel, len(c.Items))
	for i := range c.Items {
		m.Items[i] = *CartItemModelFromDomain(&c.Items[i])
	}
}

// CartModelFromDomain creates a new persistence model from a domain Cart entity.
func CartModelFromDomain(c *trade.Cart) *CartModel {
	m := &CartModel{}
	m.FromDomain(c)
	return m
}

func cartOwnerFromColumns(customerID *uuid.UUID, sessionKey *string) (trade.CartOwner, error) {
	switch {
	case customerID != nil && sessionKey != nil:
		return trade.CartOwner{}, fmt.Errorf("owned by both a customer and a session")
	case customerID != nil:
		return trade.CustomerOwner(*customerID)
	case sessionKey != nil:
		return trade.SessionOwner(*sessionKey)
	}
	return trade.CartOwner{}, fmt.Errorf("has no owner")
}

// CartItemModel is the persistence model for the CartItem entity.
// The partial unique indexes keep one line per product and one per variant
// in each cart; the checks mirror the PostgreSQL schema for auto-migrated
// SQLite databases.
type CartItemModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key"`
	CartID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_cart_product,priority:1,where:variant_id IS NULL;uniqueIndex:idx_cart_items_cart_variant,priority:1,where:product_id IS NULL"`
	ProductID *uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_cart_items_cart_product,priority:2"`
	VariantID *uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_cart_items_cart_variant,priority:2;check:chk_cart_items_target,(product_id IS NULL) <> (variant_id IS NULL)"`
	Quantity  int        `gorm:"not null;default:1;check:chk_cart_items_quantity,quantity BETWEEN 1 AND 9999"`
	AddedAt   time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CartItemModel) TableName() string {
	return "cart_items"
}

// ToDomain converts the persistence model to a domain CartItem entity.
func (m *CartItemModel) ToDomain() (*trade.CartItem, error) {
	target, err := trade.TargetFromRefs(m.ProductID, m.VariantID)
	if err != nil {
		return nil, err
	}
	return &trade.CartItem{
		ID:       m.ID,
		CartID:   m.CartID,
		Target:   target,
		Quantity: m.Quantity,
		AddedAt:  m.AddedAt,
	}, nil
}

// CartItemModelFromDomain creates a new persistence model from a domain CartItem entity.
func CartItemModelFromDomain(item *trade.CartItem) *CartItemModel {
	productID, variantID := item.Target.Refs()
	return &CartItemModel{
		ID:        item.ID,
		CartID:    item.CartID,
		ProductID: productID,
		VariantID: variantID,
		Quantity:  item.Quantity,
		AddedAt:   item.AddedAt,
	}
}

// OrderModel is the persistence model for the Order aggregate root.
type OrderModel struct {
	AggregateColumns
	CustomerID  uuid.UUID        `gorm:"type:uuid;not null;index"`
	Telephone   string           `gorm:"type:varchar(20);not null"`
	Destination string           `gorm:"type:varchar(500);not null"`
	Paid        bool             `gorm:"not null;default:false"`
	Status      string           `gorm:"type:varchar(20);not null;default:'unconfirmed';index"`
	Items       []OrderItemModel `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order entity.
func (m *OrderModel) ToDomain() (*trade.Order, error) {
	order := &trade.Order{
		CustomerID:  m.CustomerID,
		Telephone:   m.Telephone,
		Destination: m.Destination,
		Paid:        m.Paid,
		Status:      trade.OrderStatus(m.Status),
		Items:       make([]trade.OrderItem, len(m.Items)),
	}
	m.ApplyTo(&order.BaseAggregateRoot)
	for i := range m.Items {
		item, err := m.Items[i].ToDomain()
		if err != nil {
			return nil, err
		}
		order.Items[i] = *item
	}
	return order, nil
}

// FromDomain populates the persistence model from a domain Order entity.
func (m *OrderModel) FromDomain(o *trade.Order) {
	m.SetAggregate(o.BaseAggregateRoot)
	m.CustomerID = o.CustomerID
	m.Telephone = o.Telephone
	m.Destination = o.Destination
	m.Paid = o.Paid
	m.Status = string(o.Status)
	m.Items = make([]OrderItemModel, len(o.Items))
	for i := range o.Items {
		m.Items[i] = *OrderItemModelFromDomain(&o.Items[i])
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order entity.
func OrderModelFromDomain(o *trade.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderItemModel is the persistence model for the OrderItem entity.
// Prices are frozen at checkout and never recomputed.
type OrderItemModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID *uuid.UUID      `gorm:"type:uuid;index"`
	VariantID *uuid.UUID      `gorm:"type:uuid;index;check:chk_order_items_target,(product_id IS NULL) <> (variant_id IS NULL)"`
	Label     string          `gorm:"type:varchar(300);not null"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Discount  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain OrderItem entity.
func (m *OrderItemModel) ToDomain() (*trade.OrderItem, error) {
	target, err := trade.TargetFromRefs(m.ProductID, m.VariantID)
	if err != nil {
		return nil, err
	}
	return &trade.OrderItem{
		ID:        m.ID,
		OrderID:   m.OrderID,
		Target:    target,
		Label:     m.Label,
		Quantity:  m.Quantity,
		UnitPrice: m.UnitPrice,
		Discount:  m.Discount,
	}, nil
}

// OrderItemModelFromDomain creates a new persistence model from a domain OrderItem entity.
func OrderItemModelFromDomain(item *trade.OrderItem) *OrderItemModel {
	productID, variantID := item.Target.Refs()
	return &OrderItemModel{
		ID:        item.ID,
		OrderID:   item.OrderID,
		ProductID: productID,
		VariantID: variantID,
		Label:     item.Label,
		Quantity:  item.Quantity,
		UnitPrice: item.UnitPrice,
		Discount:  item.Discount,
	}
}

// SavedItemModel is the persistence model for a wishlist entry.
// A customer saves each product or variant at most once.
type SavedItemModel struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key"`
	CustomerID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_saved_items_customer_product,priority:1,where:variant_id IS NULL;uniqueIndex:idx_saved_items_customer_variant,priority:1,where:product_id IS NULL"`
	ProductID  *uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_saved_items_customer_product,priority:2"`
	VariantID  *uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_saved_items_customer_variant,priority:2;check:chk_saved_items_target,(product_id IS NULL) <> (variant_id IS NULL)"`
	AddedAt    time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SavedItemModel) TableName() string {
	return "saved_items"
}

// ToDomain converts the persistence model to a domain SavedItem entity.
func (m *SavedItemModel) ToDomain() (*trade.SavedItem, error) {
	target, err := trade.TargetFromRefs(m.ProductID, m.VariantID)
	if err != nil {
		return nil, err
	}
	return &trade.SavedItem{
		ID:         m.ID,
		CustomerID: m.CustomerID,
		Target:     target,
		AddedAt:    m.AddedAt,
	}, nil
}

// SavedItemModelFromDomain creates a new persistence model from a domain SavedItem entity.
func SavedItemModelFromDomain(s *trade.SavedItem) *SavedItemModel {
	productID, variantID := s.Target.Refs()
	return &SavedItemModel{
		ID:         s.ID,
		CustomerID: s.CustomerID,
		ProductID:  productID,
		VariantID:  variantID,
		AddedAt:    s.AddedAt,
	}
}

// AllModels lists every persistence model, parents before children.
// Tests use it to auto-migrate an in-memory database.
func AllModels() []any {
	return []any{
		&BrandModel{},
		&ProductModel{},
		&ProductVariantModel{},
		&ProductTagModel{},
		&DiscountModel{},
		&DiscountProductModel{},
		&DiscountBrandModel{},
		&DiscountCategoryModel{},
		&ProductReviewModel{},
		&CartModel{},
		&CartItemModel{},
		&OrderModel{},
		&OrderItemModel{},
		&SavedItemModel{},
	}
}
