package handler

import (
	catalogapp "github.com/drobe/backend/internal/application/catalog"
	"github.com/gin-gonic/gin"
)

// BrandHandler handles brand endpoints
type BrandHandler struct {
	BaseHandler
	brandService *catalogapp.BrandService
}

// NewBrandHandler creates a new BrandHandler
func NewBrandHandler(brandService *catalogapp.BrandService) *BrandHandler {
	return &BrandHandler{
		brandService: brandService,
	}
}

// List godoc
// @Summary      List brands
// @Tags         catalog
// @Produce      json
// @Param        search query string false "Name contains"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(12) maximum(100)
// @Success      200 {object} dto.Response{data=[]catalogapp.BrandResponse,meta=dto.Meta}
// @Router       /catalog/brands [get]
func (h *BrandHandler) List(c *gin.Context) {
	var filter catalogapp.BrandListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	brands, total, err := h.brandService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	page, pageSize := pageOrDefault(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, brands, total, page, pageSize)
}

// Create godoc
// @Summary      Create a brand
// @Tags         catalog-admin
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateBrandRequest true "Brand"
// @Success      201 {object} dto.Response{data=catalogapp.BrandResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/brands [post]
func (h *BrandHandler) Create(c *gin.Context) {
	var req catalogapp.CreateBrandRequest
	if !h.bindJSON(c, &req) {
		return
	}

	brand, err := h.brandService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, brand)
}

// Update godoc
// @Summary      Rename a brand
// @Tags         catalog-admin
// @Accept       json
// @Produce      json
// @Param        id path string true "Brand ID" format(uuid)
// @Param        request body catalogapp.UpdateBrandRequest true "Brand"
// @Success      200 {object} dto.Response{data=catalogapp.BrandResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/brands/{id} [put]
func (h *BrandHandler) Update(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id", "brand")
	if !ok {
		return
	}

	var req catalogapp.UpdateBrandRequest
	if !h.bindJSON(c, &req) {
		return
	}

	brand, err := h.brandService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, brand)
}

// Delete godoc
// @Summary      Delete a brand
// @Description  Deletes the brand together with its products
// @Tags         catalog-admin
// @Param        id path string true "Brand ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/brands/{id} [delete]
func (h *BrandHandler) Delete(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id", "brand")
	if !ok {
		return
	}

	if err := h.brandService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
