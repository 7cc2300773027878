package handlers

import (
	"github.com/gin-gonic/gin"
	"storefront-service/internal/middleware"
	"storefront-service/internal/models"
	"storefront-service/internal/services"
)

type CheckoutHandler struct {
	checkout *services.CheckoutService
}

func NewCheckoutHandler(checkout *services.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

// Checkout submits the session's cart as an order
// @Summary Place an order
// @Description Validates the buyer, submits the cart and clears it once the backend accepts the order
// @Tags checkout
// @Accept json
// @Produce json
// @Param request body models.CheckoutRequest true "Buyer details and optional coupon"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /storefront/checkout [post]
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}

	result, err := h.checkout.Checkout(c.Request.Context(), middleware.GetSessionID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, result)
}
