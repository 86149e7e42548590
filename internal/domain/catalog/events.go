package catalog

import (
	"github.com/drobe/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constants
const (
	AggregateTypeProduct  = "Product"
	AggregateTypeDiscount = "Discount"
	AggregateTypeBrand    = "Brand"
)

// Event type constants
const (
	EventTypeProductChanged  = "ProductChanged"
	EventTypeDiscountChanged = "DiscountChanged"
	EventTypeBrandDeleted    = "BrandDeleted"
)

// ProductAction describes what happened to a product
type ProductAction string

const (
	ProductActionCreated ProductAction = "created"
	ProductActionUpdated ProductAction = "updated"
	ProductActionDeleted ProductAction = "deleted"
)

// DiscountAction describes what happened to a discount
type DiscountAction string

const (
	DiscountActionCreated     DiscountAction = "created"
	DiscountActionUpdated     DiscountAction = "updated"
	DiscountActionActivated   DiscountAction = "activated"
	DiscountActionDeactivated DiscountAction = "deactivated"
	DiscountActionDeleted     DiscountAction = "deleted"
)

// ProductChangedEvent is published whenever a product is created, updated or deleted
type ProductChangedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID     `json:"product_id"`
	BrandID   uuid.UUID     `json:"brand_id"`
	Name      string        `json:"name"`
	Action    ProductAction `json:"action"`
}

// NewProductChangedEvent creates a new ProductChangedEvent
func NewProductChangedEvent(p *Product, action ProductAction) *ProductChangedEvent {
	return &ProductChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductChanged, AggregateTypeProduct, p.ID),
		ProductID:       p.ID,
		BrandID:         p.BrandID,
		Name:            p.Name,
		Action:          action,
	}
}

// DiscountChangedEvent is published on any change that can move prices
type DiscountChangedEvent struct {
	shared.BaseDomainEvent
	DiscountID uuid.UUID      `json:"discount_id"`
	Name       string         `json:"name"`
	Action     DiscountAction `json:"action"`
}

// NewDiscountChangedEvent creates a new DiscountChangedEvent
func NewDiscountChangedEvent(d *Discount, action DiscountAction) *DiscountChangedEvent {
	return &DiscountChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDiscountChanged, AggregateTypeDiscount, d.ID),
		DiscountID:      d.ID,
		Name:            d.Name,
		Action:          action,
	}
}

// BrandDeletedEvent is published after a brand and its products were removed
type BrandDeletedEvent struct {
	shared.BaseDomainEvent
	BrandID         uuid.UUID `json:"brand_id"`
	Name            string    `json:"name"`
	ProductsRemoved int64     `json:"products_removed"`
}

// NewBrandDeletedEvent creates a new BrandDeletedEvent
func NewBrandDeletedEvent(b *Brand, productsRemoved int64) *BrandDeletedEvent {
	return &BrandDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBrandDeleted, AggregateTypeBrand, b.ID),
		BrandID:         b.ID,
		Name:            b.Name,
		ProductsRemoved: productsRemoved,
	}
}
