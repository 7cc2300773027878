package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"storefront-service/internal/clients"
	"storefront-service/internal/models"
	"storefront-service/internal/services"
)

// respondError maps a service error onto the error envelope
func respondError(c *gin.Context, err error) {
	var vErr *services.ValidationError
	var apiErr *clients.APIError

	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    vErr.Code,
				Message: vErr.Message,
				Field:   vErr.Field,
			},
		})
	case errors.Is(err, services.ErrOutOfStock):
		c.JSON(http.StatusConflict, models.NewErrorResponse("OUT_OF_STOCK", err.Error()))
	case errors.Is(err, services.ErrCheckoutInProgress):
		c.JSON(http.StatusConflict, models.NewErrorResponse("CHECKOUT_IN_PROGRESS", err.Error()))
	case errors.Is(err, services.ErrProductNotFound):
		c.JSON(http.StatusNotFound, models.NewErrorResponse("PRODUCT_NOT_FOUND", err.Error()))
	case errors.Is(err, services.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, models.NewErrorResponse("UNAUTHORIZED", "Login required"))
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, models.NewErrorResponse("FORBIDDEN", "Admin role required"))
	case errors.As(err, &apiErr):
		c.JSON(http.StatusBadGateway, models.NewErrorResponse("BACKEND_REJECTED", apiErr.Detail))
	default:
		c.JSON(http.StatusBadGateway, models.NewErrorResponse("BACKEND_UNAVAILABLE", err.Error()))
	}
}

func badRequest(c *gin.Context, code, message string) {
	c.JSON(http.StatusBadRequest, models.NewErrorResponse(code, message))
}

func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, models.Response{Success: true, Data: data})
}
