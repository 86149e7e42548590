package handler

import (
	catalogapp "github.com/drobe/backend/internal/application/catalog"
	"github.com/gin-gonic/gin"
)

// VariantImageHandler handles variant image uploads through presigned URLs
type VariantImageHandler struct {
	BaseHandler
	imageService *catalogapp.VariantImageService
}

// NewVariantImageHandler creates a new VariantImageHandler
func NewVariantImageHandler(imageService *catalogapp.VariantImageService) *VariantImageHandler {
	return &VariantImageHandler{
		imageService: imageService,
	}
}

// InitiateUpload godoc
// @Summary      Start a variant image upload
// @Description  Returns a presigned URL the client PUTs the image to
// @Tags         catalog-admin
// @Accept       json
// @Produce      json
// @Param        id path string true "Variant ID" format(uuid)
// @Param        request body catalogapp.InitiateImageUploadRequest true "Image metadata"
// @Success      200 {object} dto.Response{data=catalogapp.InitiateImageUploadResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/variants/{id}/image/upload-url [post]
func (h *VariantImageHandler) InitiateUpload(c *gin.Context) {
	variantID, ok := h.parseUUIDParam(c, "id", "variant")
	if !ok {
		return
	}

	var req catalogapp.InitiateImageUploadRequest
	if !h.bindJSON(c, &req) {
		return
	}

	upload, err := h.imageService.Initiate(c.Request.Context(), variantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, upload)
}

// ConfirmUpload godoc
// @Summary      Attach an uploaded image to a variant
// @Description  Replaces the variant's image; the previous object is deleted
// @Tags         catalog-admin
// @Accept       json
// @Produce      json
// @Param        id path string true "Variant ID" format(uuid)
// @Param        request body catalogapp.ConfirmImageUploadRequest true "Uploaded object"
// @Success      200 {object} dto.Response{data=catalogapp.VariantResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/variants/{id}/image [post]
func (h *VariantImageHandler) ConfirmUpload(c *gin.Context) {
	variantID, ok := h.parseUUIDParam(c, "id", "variant")
	if !ok {
		return
	}

	var req catalogapp.ConfirmImageUploadRequest
	if !h.bindJSON(c, &req) {
		return
	}

	variant, err := h.imageService.Confirm(c.Request.Context(), variantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, variant)
}
