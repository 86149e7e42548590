package handler

import (
	tradeapp "github.com/drobe/backend/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// WishlistHandler handles a customer's saved items
type WishlistHandler struct {
	BaseHandler
	savedItemService *tradeapp.SavedItemService
}

// NewWishlistHandler creates a new WishlistHandler
func NewWishlistHandler(savedItemService *tradeapp.SavedItemService) *WishlistHandler {
	return &WishlistHandler{
		savedItemService: savedItemService,
	}
}

// List godoc
// @Summary      List saved items
// @Tags         wishlist
// @Produce      json
// @Success      200 {object} dto.Response{data=[]tradeapp.SavedItemResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /wishlist [get]
func (h *WishlistHandler) List(c *gin.Context) {
	customerID, err := getCustomerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	items, err := h.savedItemService.List(c.Request.Context(), customerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, items)
}

// Save godoc
// @Summary      Save a product or variant for later
// @Tags         wishlist
// @Accept       json
// @Produce      json
// @Param        request body tradeapp.SaveItemRequest true "Target"
// @Success      201 {object} dto.Response{data=tradeapp.SavedItemResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /wishlist [post]
func (h *WishlistHandler) Save(c *gin.Context) {
	customerID, err := getCustomerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req tradeapp.SaveItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	item, err := h.savedItemService.Save(c.Request.Context(), customerID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, item)
}

// Remove godoc
// @Summary      Remove a saved item
// @Tags         wishlist
// @Param        id path string true "Saved item ID" format(uuid)
// @Success      204
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /wishlist/{id} [delete]
func (h *WishlistHandler) Remove(c *gin.Context) {
	customerID, err := getCustomerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	itemID, ok := h.parseUUIDParam(c, "id", "saved item")
	if !ok {
		return
	}

	if err := h.savedItemService.Remove(c.Request.Context(), customerID, itemID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// MoveToCart godoc
// @Summary      Move a saved item into the cart
// @Tags         wishlist
// @Param        id path string true "Saved item ID" format(uuid)
// @Success      204
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /wishlist/{id}/move-to-cart [post]
func (h *WishlistHandler) MoveToCart(c *gin.Context) {
	itemID, ok := h.parseUUIDParam(c, "id", "saved item")
	if !ok {
		return
	}

	if err := h.savedItemService.MoveToCart(c.Request.Context(), getIdentity(c), itemID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
