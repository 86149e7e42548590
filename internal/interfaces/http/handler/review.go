package handler

import (
	catalogapp "github.com/drobe/backend/internal/application/catalog"
	"github.com/gin-gonic/gin"
)

// ReviewHandler handles product reviews and their moderation
type ReviewHandler struct {
	BaseHandler
	reviewService *catalogapp.ReviewService
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviewService *catalogapp.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

// ListApproved godoc
// @Summary      List approved reviews of a product
// @Tags         reviews
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]catalogapp.ReviewResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /catalog/products/{id}/reviews [get]
func (h *ReviewHandler) ListApproved(c *gin.Context) {
	productID, ok := h.parseUUIDParam(c, "id", "product")
	if !ok {
		return
	}

	reviews, err := h.reviewService.ListApproved(c.Request.Context(), productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, reviews)
}

// Create godoc
// @Summary      Review a product
// @Description  New reviews wait for moderation before they are listed
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalogapp.CreateReviewRequest true "Review"
// @Success      201 {object} dto.Response{data=catalogapp.ReviewResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/products/{id}/reviews [post]
func (h *ReviewHandler) Create(c *gin.Context) {
	customerID, err := getCustomerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	productID, ok := h.parseUUIDParam(c, "id", "product")
	if !ok {
		return
	}

	var req catalogapp.CreateReviewRequest
	if !h.bindJSON(c, &req) {
		return
	}

	review, err := h.reviewService.Create(c.Request.Context(), customerID, productID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, review)
}

// Approve godoc
// @Summary      Approve a review
// @Tags         reviews
// @Produce      json
// @Param        id path string true "Review ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.ReviewResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/reviews/{id}/approve [post]
func (h *ReviewHandler) Approve(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id", "review")
	if !ok {
		return
	}

	review, err := h.reviewService.Approve(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, review)
}

// Unapprove godoc
// @Summary      Withdraw a review's approval
// @Tags         reviews
// @Produce      json
// @Param        id path string true "Review ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.ReviewResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/reviews/{id}/unapprove [post]
func (h *ReviewHandler) Unapprove(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id", "review")
	if !ok {
		return
	}

	review, err := h.reviewService.Unapprove(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, review)
}
