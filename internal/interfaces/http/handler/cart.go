package handler

import (
	tradeapp "github.com/drobe/backend/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// CartHandler handles the caller's shopping cart. The cart belongs to the
// authenticated customer, or to the X-Session-Key for anonymous shoppers.
type CartHandler struct {
	BaseHandler
	cartService *tradeapp.CartService
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService *tradeapp.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

// Get godoc
// @Summary      View the cart
// @Description  Lines are priced with the discounts active right now
// @Tags         cart
// @Produce      json
// @Param        X-Session-Key header string false "Anonymous session key"
// @Success      200 {object} dto.Response{data=tradeapp.CartResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /cart [get]
func (h *CartHandler) Get(c *gin.Context) {
	cart, err := h.cartService.Get(c.Request.Context(), getIdentity(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, cart)
}

// Count godoc
// @Summary      Count units in the cart
// @Tags         cart
// @Produce      json
// @Param        X-Session-Key header string false "Anonymous session key"
// @Success      200 {object} dto.Response{data=tradeapp.CartCountResponse}
// @Router       /cart/count [get]
func (h *CartHandler) Count(c *gin.Context) {
	count, err := h.cartService.Count(c.Request.Context(), getIdentity(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, tradeapp.CartCountResponse{Count: count})
}

// AddItem godoc
// @Summary      Add a product or variant to the cart
// @Description  Adding a target already in the cart raises its quantity
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        X-Session-Key header string false "Anonymous session key"
// @Param        request body tradeapp.AddCartItemRequest true "Line"
// @Success      200 {object} dto.Response{data=tradeapp.CartResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	var req tradeapp.AddCartItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), getIdentity(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, cart)
}

// UpdateItem godoc
// @Summary      Set a line's quantity
// @Description  A quantity of zero or less removes the line
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        id path string true "Cart item ID" format(uuid)
// @Param        request body tradeapp.UpdateCartItemRequest true "Quantity"
// @Success      200 {object} dto.Response{data=tradeapp.CartResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /cart/items/{id} [put]
func (h *CartHandler) UpdateItem(c *gin.Context) {
	itemID, ok := h.parseUUIDParam(c, "id", "cart item")
	if !ok {
		return
	}

	var req tradeapp.UpdateCartItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	cart, err := h.cartService.UpdateItem(c.Request.Context(), getIdentity(c), itemID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, cart)
}

// RemoveItem godoc
// @Summary      Remove a line from the cart
// @Tags         cart
// @Produce      json
// @Param        id path string true "Cart item ID" format(uuid)
// @Success      200 {object} dto.Response{data=tradeapp.CartResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /cart/items/{id} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	itemID, ok := h.parseUUIDParam(c, "id", "cart item")
	if !ok {
		return
	}

	cart, err := h.cartService.RemoveItem(c.Request.Context(), getIdentity(c), itemID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, cart)
}

// Clear godoc
// @Summary      Empty the cart
// @Tags         cart
// @Produce      json
// @Success      200 {object} dto.Response{data=tradeapp.CartResponse}
// @Router       /cart [delete]
func (h *CartHandler) Clear(c *gin.Context) {
	cart, err := h.cartService.Clear(c.Request.Context(), getIdentity(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, cart)
}
