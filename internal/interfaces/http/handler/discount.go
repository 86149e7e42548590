package handler

import (
	catalogapp "github.com/drobe/backend/internal/application/catalog"
	"github.com/gin-gonic/gin"
)

// DiscountHandler handles discount administration
type DiscountHandler struct {
	BaseHandler
	discountService *catalogapp.DiscountService
}

// NewDiscountHandler creates a new DiscountHandler
func NewDiscountHandler(discountService *catalogapp.DiscountService) *DiscountHandler {
	return &DiscountHandler{
		discountService: discountService,
	}
}

// List godoc
// @Summary      List discounts
// @Tags         catalog-admin
// @Produce      json
// @Param        search query string false "Name contains"
// @Param        active query bool false "Only active or only inactive"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(12) maximum(100)
// @Success      200 {object} dto.Response{data=[]catalogapp.DiscountResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /catalog/discounts [get]
func (h *DiscountHandler) List(c *gin.Context) {
	var filter catalogapp.DiscountListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	discounts, total, err := h.discountService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	page, pageSize := pageOrDefault(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, discounts, total, page, pageSize)
}

// GetByID godoc
// @Summary      Get a discount
// @Tags         catalog-admin
// @Produce      json
// @Param        id path string true "Discount ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.DiscountResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/discounts/{id} [get]
func (h *DiscountHandler) GetByID(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id", "discount")
	if !ok {
		return
	}

	discount, err := h.discountService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, discount)
}

// Create godoc
// @Summary      Create a discount
// @Description  Percentage or fixed discount targeting products, brands and categories
// @Tags         catalog-admin
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateDiscountRequest true "Discount"
// @Success      201 {object} dto.Response{data=catalogapp.DiscountResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/discounts [post]
func (h *DiscountHandler) Create(c *gin.Context) {
	var req catalogapp.CreateDiscountRequest
	if !h.bindJSON(c, &req) {
		return
	}

	discount, err := h.discountService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, discount)
}

// Update godoc
// @Summary      Replace a discount
// @Tags         catalog-admin
// @Accept       json
// @Produce      json
// @Param        id path string true "Discount ID" format(uuid)
// @Param        request body catalogapp.UpdateDiscountRequest true "Discount"
// @Success      200 {object} dto.Response{data=catalogapp.DiscountResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/discounts/{id} [put]
func (h *DiscountHandler) Update(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id", "discount")
	if !ok {
		return
	}

	var req catalogapp.UpdateDiscountRequest
	if !h.bindJSON(c, &req) {
		return
	}

	discount, err := h.discountService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, discount)
}

// Delete godoc
// @Summary      Delete a discount
// @Tags         catalog-admin
// @Param        id path string true "Discount ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/discounts/{id} [delete]
func (h *DiscountHandler) Delete(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id", "discount")
	if !ok {
		return
	}

	if err := h.discountService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// Activate godoc
// @Summary      Activate a discount
// @Tags         catalog-admin
// @Produce      json
// @Param        id path string true "Discount ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.DiscountResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/discounts/{id}/activate [post]
func (h *DiscountHandler) Activate(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id", "discount")
	if !ok {
		return
	}

	discount, err := h.discountService.Activate(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, discount)
}

// Deactivate godoc
// @Summary      Deactivate a discount
// @Tags         catalog-admin
// @Produce      json
// @Param        id path string true "Discount ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.DiscountResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/discounts/{id}/deactivate [post]
func (h *DiscountHandler) Deactivate(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id", "discount")
	if !ok {
		return
	}

	discount, err := h.discountService.Deactivate(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, discount)
}
