package handler

import (
	catalogapp "github.com/drobe/backend/internal/application/catalog"
	"github.com/gin-gonic/gin"
)

// ProductHandler handles catalog browsing and product administration
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// List godoc
// @Summary      Browse products
// @Description  List products with live discounted prices. Filters combine with AND.
// @Tags         catalog
// @Produce      json
// @Param        q query string false "Search in name, description and tags"
// @Param        category query string false "Category" Enums(MENS, WOMENS, KIDS, SHOES, ACCESSORIES, ACTIVEWEAR, OUTERWEAR)
// @Param        brand query string false "Brand ID"
// @Param        min_price query string false "Minimum base price"
// @Param        max_price query string false "Maximum base price"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(12) maximum(100)
// @Success      200 {object} dto.Response{data=[]catalogapp.ProductSummaryResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /catalog/products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var filter catalogapp.ProductListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	products, total, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	page, pageSize := pageOrDefault(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, products, total, page, pageSize)
}

// GetByID godoc
// @Summary      Get product detail
// @Description  Product page with variants, applied discounts and approved reviews
// @Tags         catalog
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.ProductDetailResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /catalog/products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id", "product")
	if !ok {
		return
	}

	product, err := h.productService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, product)
}

// Create godoc
// @Summary      Create a product
// @Tags         catalog-admin
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateProductRequest true "Product"
// @Success      201 {object} dto.Response{data=catalogapp.ProductDetailResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, product)
}

// Update godoc
// @Summary      Update a product
// @Tags         catalog-admin
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalogapp.UpdateProductRequest true "Changed fields"
// @Success      200 {object} dto.Response{data=catalogapp.ProductDetailResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id", "product")
	if !ok {
		return
	}

	var req catalogapp.UpdateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.productService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, product)
}

// Delete godoc
// @Summary      Delete a product
// @Description  Products that appear on an order cannot be deleted
// @Tags         catalog-admin
// @Param        id path string true "Product ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id", "product")
	if !ok {
		return
	}

	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// AddVariant godoc
// @Summary      Add a size/color variant
// @Tags         catalog-admin
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalogapp.AddVariantRequest true "Variant"
// @Success      201 {object} dto.Response{data=catalogapp.VariantResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/products/{id}/variants [post]
func (h *ProductHandler) AddVariant(c *gin.Context) {
	productID, ok := h.parseUUIDParam(c, "id", "product")
	if !ok {
		return
	}

	var req catalogapp.AddVariantRequest
	if !h.bindJSON(c, &req) {
		return
	}

	variant, err := h.productService.AddVariant(c.Request.Context(), productID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, variant)
}

// UpdateVariant godoc
// @Summary      Update a variant
// @Tags         catalog-admin
// @Accept       json
// @Produce      json
// @Param        id path string true "Variant ID" format(uuid)
// @Param        request body catalogapp.UpdateVariantRequest true "Changed fields"
// @Success      200 {object} dto.Response{data=catalogapp.VariantResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/variants/{id} [put]
func (h *ProductHandler) UpdateVariant(c *gin.Context) {
	variantID, ok := h.parseUUIDParam(c, "id", "variant")
	if !ok {
		return
	}

	var req catalogapp.UpdateVariantRequest
	if !h.bindJSON(c, &req) {
		return
	}

	variant, err := h.productService.UpdateVariant(c.Request.Context(), variantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, variant)
}

// RemoveVariant godoc
// @Summary      Remove a variant
// @Tags         catalog-admin
// @Param        id path string true "Variant ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/variants/{id} [delete]
func (h *ProductHandler) RemoveVariant(c *gin.Context) {
	variantID, ok := h.parseUUIDParam(c, "id", "variant")
	if !ok {
		return
	}

	if err := h.productService.RemoveVariant(c.Request.Context(), variantID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
