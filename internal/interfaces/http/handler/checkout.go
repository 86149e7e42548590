package handler

import (
	"strings"

	tradeapp "github.com/drobe/backend/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// CheckoutHandler turns the caller's cart into an order
type CheckoutHandler struct {
	BaseHandler
	checkoutService *tradeapp.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkoutService *tradeapp.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
	}
}

// Checkout godoc
// @Summary      Place an order from the cart
// @Description  Freezes every line at its current discounted price and empties
// @Description  the cart in one transaction. A repeated Idempotency-Key is
// @Description  rejected with 409 while the key is remembered.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Client retry key"
// @Param        request body tradeapp.CheckoutRequest true "Shipping details"
// @Success      201 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cart/checkout [post]
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req tradeapp.CheckoutRequest
	if !h.bindJSON(c, &req) {
		return
	}

	key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
	order, err := h.checkoutService.Checkout(c.Request.Context(), getIdentity(c), req, key)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, order)
}
