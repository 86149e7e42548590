package trade

import (
	"time"

	"github.com/drobe/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Cart DTOs ====================

// AddCartItemRequest adds a product or a variant to the caller's cart.
// Exactly one of ProductID and VariantID must be set.
type AddCartItemRequest struct {
	ProductID *uuid.UUID `json:"product_id"`
	VariantID *uuid.UUID `json:"variant_id"`
	Quantity  *int       `json:"quantity"`
}

// Target returns the line target named by the request
func (r AddCartItemRequest) Target() (trade.LineTarget, error) {
	return trade.TargetFromRefs(r.ProductID, r.VariantID)
}

// Qty returns the requested quantity, 1 when omitted
func (r AddCartItemRequest) Qty() int {
	if r.Quantity == nil {
		return 1
	}
	return *r.Quantity
}

// UpdateCartItemRequest sets the quantity of a line; zero or less removes it
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// CartItemResponse is a cart line priced at the time of the request
type CartItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID *uuid.UUID      `json:"product_id,omitempty"`
	VariantID *uuid.UUID      `json:"variant_id,omitempty"`
	Label     string          `json:"label"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	AddedAt   time.Time       `json:"added_at"`
}

// CartResponse is the caller's cart with live prices
type CartResponse struct {
	ID       *uuid.UUID         `json:"id,omitempty"`
	Items    []CartItemResponse `json:"items"`
	Count    int                `json:"count"`
	Total    decimal.Decimal    `json:"total"`
	PricedAt time.Time          `json:"priced_at"`
}

// CartCountResponse carries the number of units in the cart
type CartCountResponse struct {
	Count int `json:"count"`
}

// ==================== Checkout / Order DTOs ====================

// CheckoutRequest carries the shipping details captured at checkout. Both
// fields are trimmed before their limits are checked.
type CheckoutRequest struct {
	Telephone   string `json:"telephone"`
	Destination string `json:"destination"`
}

// UpdateOrderStatusRequest sets an order status
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// OrderListFilter pages through a customer's orders
type OrderListFilter struct {
	Status   string `form:"status"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// OrderItemResponse is an order line with its frozen prices
type OrderItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID *uuid.UUID      `json:"product_id,omitempty"`
	VariantID *uuid.UUID      `json:"variant_id,omitempty"`
	Label     string          `json:"label"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// OrderResponse is a placed order
type OrderResponse struct {
	ID          uuid.UUID           `json:"id"`
	CustomerID  uuid.UUID           `json:"customer_id"`
	Telephone   string              `json:"telephone"`
	Destination string              `json:"destination"`
	Paid        bool                `json:"paid"`
	Status      string              `json:"status"`
	Items       []OrderItemResponse `json:"items"`
	ItemCount   int                 `json:"item_count"`
	Total       decimal.Decimal     `json:"total"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// ToOrderResponse converts a domain Order to OrderResponse
func ToOrderResponse(o *trade.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		productID, variantID := item.Target.Refs()
		items[i] = OrderItemResponse{
			ID:        item.ID,
			ProductID: productID,
			VariantID: variantID,
			Label:     item.Label,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Discount:  item.Discount,
			Subtotal:  item.Subtotal(),
		}
	}
	return OrderResponse{
		ID:          o.ID,
		CustomerID:  o.CustomerID,
		Telephone:   o.Telephone,
		Destination: o.Destination,
		Paid:        o.Paid,
		Status:      string(o.Status),
		Items:       items,
		ItemCount:   o.ItemCount(),
		Total:       o.Total(),
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

// ToOrderResponses converts a slice of domain Orders
func ToOrderResponses(orders []trade.Order) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses
}

// ==================== Wishlist DTOs ====================

// SaveItemRequest adds a product or variant to the wishlist
type SaveItemRequest struct {
	ProductID *uuid.UUID `json:"product_id"`
	VariantID *uuid.UUID `json:"variant_id"`
}

// Target returns the line target named by the request
func (r SaveItemRequest) Target() (trade.LineTarget, error) {
	return trade.TargetFromRefs(r.ProductID, r.VariantID)
}

// SavedItemResponse is a wishlist entry with its current price
type SavedItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID *uuid.UUID      `json:"product_id,omitempty"`
	VariantID *uuid.UUID      `json:"variant_id,omitempty"`
	Label     string          `json:"label"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	AddedAt   time.Time       `json:"added_at"`
}

// ==================== Maintenance DTOs ====================

// ErasureResult counts what a customer erasure removed
type ErasureResult struct {
	CustomerID        uuid.UUID `json:"customer_id"`
	CartsDeleted      int64     `json:"carts_deleted"`
	OrdersDeleted     int64     `json:"orders_deleted"`
	SavedItemsDeleted int64     `json:"saved_items_deleted"`
	ReviewsDeleted    int64     `json:"reviews_deleted"`
	TokensRevoked     bool      `json:"tokens_revoked"`
}

// HousekeepingResult counts what one housekeeping run purged
type HousekeepingResult struct {
	OrdersPurged int64 `json:"orders_purged"`
	CartsPurged  int64 `json:"carts_purged"`
}
