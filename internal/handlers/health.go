package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const serviceName = "storefront-service"

// HealthCheck handles health check requests
// @Summary Health check endpoint
// @Description Check if the service is running
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": "1.0.0",
	})
}

// CatalogLoader is the part of the catalog readiness depends on
type CatalogLoader interface {
	EnsureLoaded(ctx context.Context) error
}

// EventsStatus reports the events connection, if any
type EventsStatus interface {
	IsConnected() bool
}

// ReadinessCheck reports ready once the catalog has been loaded
// @Summary Readiness check endpoint
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /ready [get]
func ReadinessCheck(catalog CatalogLoader, events EventsStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		body := gin.H{
			"service": serviceName,
			"events":  events != nil && events.IsConnected(),
		}
		if err := catalog.EnsureLoaded(ctx); err != nil {
			body["status"] = "unavailable"
			body["error"] = err.Error()
			c.JSON(http.StatusServiceUnavailable, body)
			return
		}

		body["status"] = "ready"
		c.JSON(http.StatusOK, body)
	}
}
