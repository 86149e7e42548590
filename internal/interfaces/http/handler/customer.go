package handler

import (
	tradeapp "github.com/drobe/backend/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// CustomerHandler handles administrative operations on customer data
type CustomerHandler struct {
	BaseHandler
	customerDataService *tradeapp.CustomerDataService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerDataService *tradeapp.CustomerDataService) *CustomerHandler {
	return &CustomerHandler{
		customerDataService: customerDataService,
	}
}

// Erase godoc
// @Summary      Erase a customer's data
// @Description  Deletes the customer's carts, orders, saved items and reviews and revokes their tokens
// @Tags         customers-admin
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Success      200 {object} dto.Response{data=tradeapp.ErasureResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /customers/{id} [delete]
func (h *CustomerHandler) Erase(c *gin.Context) {
	customerID, ok := h.parseUUIDParam(c, "id", "customer")
	if !ok {
		return
	}

	result, err := h.customerDataService.Erase(c.Request.Context(), customerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}
