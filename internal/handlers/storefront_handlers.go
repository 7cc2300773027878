package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"storefront-service/internal/catalog"
	"storefront-service/internal/middleware"
	"storefront-service/internal/models"
	"storefront-service/internal/services"
)

type StorefrontHandler struct {
	storefront *services.StorefrontService
}

func NewStorefrontHandler(storefront *services.StorefrontService) *StorefrontHandler {
	return &StorefrontHandler{storefront: storefront}
}

// SeedFiltersRequest carries a query-string mirror such as "q=beras&page=2"
type SeedFiltersRequest struct {
	Query string `json:"query"`
}

// CouponRequest carries a coupon code; empty clears it
type CouponRequest struct {
	Coupon string `json:"coupon"`
}

// GetCatalog returns the session's current catalog page
// @Summary Browse the catalog
// @Description Filtered, sorted and paginated products for the session's filters
// @Tags storefront
// @Produce json
// @Param X-Session-ID header string false "Session id"
// @Success 200 {object} models.Response
// @Failure 502 {object} models.ErrorResponse
// @Router /storefront/catalog [get]
func (h *StorefrontHandler) GetCatalog(c *gin.Context) {
	page, err := h.storefront.Catalog(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, page)
}

// ReloadCatalog refetches products and categories
// @Summary Reload the catalog
// @Tags storefront
// @Produce json
// @Success 200 {object} models.Response
// @Failure 502 {object} models.ErrorResponse
// @Router /storefront/catalog/reload [post]
func (h *StorefrontHandler) ReloadCatalog(c *gin.Context) {
	if err := h.storefront.Reload(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	h.GetCatalog(c)
}

// SeedFilters replaces the session's filters from a query string
// @Summary Replace filters
// @Tags storefront
// @Accept json
// @Produce json
// @Param request body SeedFiltersRequest true "Query-string mirror"
// @Success 200 {object} models.Response
// @Router /storefront/filters [put]
func (h *StorefrontHandler) SeedFilters(c *gin.Context) {
	var req SeedFiltersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}

	page, err := h.storefront.SeedFilters(c.Request.Context(), middleware.GetSessionID(c), req.Query)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, page)
}

// UpdateFilters applies individual filter changes
// @Summary Change filters
// @Description Changing anything but the page or layout returns to page 1
// @Tags storefront
// @Accept json
// @Produce json
// @Param request body catalog.FilterPatch true "Filter changes"
// @Success 200 {object} models.Response
// @Router /storefront/filters [patch]
func (h *StorefrontHandler) UpdateFilters(c *gin.Context) {
	var patch catalog.FilterPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}

	page, err := h.storefront.UpdateFilters(c.Request.Context(), middleware.GetSessionID(c), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, page)
}

// ResetFilters restores the default filters
// @Summary Reset filters
// @Tags storefront
// @Produce json
// @Success 200 {object} models.Response
// @Router /storefront/filters/reset [post]
func (h *StorefrontHandler) ResetFilters(c *gin.Context) {
	page, err := h.storefront.ResetFilters(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, page)
}

// couponParam returns the ?coupon= override, or nil when the parameter is absent
func couponParam(c *gin.Context) *string {
	if coupon, present := c.GetQuery("coupon"); present {
		return &coupon
	}
	return nil
}

// GetCart returns the cart lines, counts and totals
// @Summary Show the cart
// @Tags cart
// @Produce json
// @Param coupon query string false "Coupon to price with instead of the stored one"
// @Success 200 {object} models.Response
// @Router /storefront/cart [get]
func (h *StorefrontHandler) GetCart(c *gin.Context) {
	ok(c, h.storefront.Cart(c.Request.Context(), middleware.GetSessionID(c), couponParam(c)))
}

// GetTotals previews pricing for the cart
// @Summary Price the cart
// @Tags cart
// @Produce json
// @Param coupon query string false "Coupon to preview"
// @Success 200 {object} models.Response
// @Router /storefront/totals [get]
func (h *StorefrontHandler) GetTotals(c *gin.Context) {
	ok(c, h.storefront.Totals(c.Request.Context(), middleware.GetSessionID(c), couponParam(c)))
}

// AddCartItem adds one unit of a product
// @Summary Add to cart
// @Tags cart
// @Produce json
// @Param productId path string true "Product ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /storefront/cart/items/{productId} [post]
func (h *StorefrontHandler) AddCartItem(c *gin.Context) {
	summary, err := h.storefront.AddToCart(c.Request.Context(), middleware.GetSessionID(c), c.Param("productId"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, summary)
}

// SetCartItem sets the quantity of a line; zero or less removes it
// @Summary Set line quantity
// @Tags cart
// @Accept json
// @Produce json
// @Param productId path string true "Product ID"
// @Param request body models.SetQuantityRequest true "Quantity"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /storefront/cart/items/{productId} [put]
func (h *StorefrontHandler) SetCartItem(c *gin.Context) {
	var req models.SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}
	if req.Quantity == nil {
		badRequest(c, "INVALID_REQUEST", "quantity is required")
		return
	}

	summary, err := h.storefront.SetCartQuantity(c.Request.Context(), middleware.GetSessionID(c), c.Param("productId"), *req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, summary)
}

// RemoveCartItem drops a line from the cart
// @Summary Remove from cart
// @Tags cart
// @Produce json
// @Param productId path string true "Product ID"
// @Success 200 {object} models.Response
// @Router /storefront/cart/items/{productId} [delete]
func (h *StorefrontHandler) RemoveCartItem(c *gin.Context) {
	ok(c, h.storefront.RemoveFromCart(c.Request.Context(), middleware.GetSessionID(c), c.Param("productId")))
}

// SetCoupon stores the session's coupon code
// @Summary Set coupon
// @Tags cart
// @Accept json
// @Produce json
// @Param request body CouponRequest true "Coupon"
// @Success 200 {object} models.Response
// @Router /storefront/cart/coupon [put]
func (h *StorefrontHandler) SetCoupon(c *gin.Context) {
	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}
	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Data:    h.storefront.SetCoupon(c.Request.Context(), middleware.GetSessionID(c), req.Coupon),
	})
}
