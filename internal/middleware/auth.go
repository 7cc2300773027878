package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"storefront-service/internal/models"
	"storefront-service/internal/services"
)

// AdminChecker resolves a session's admin login
type AdminChecker interface {
	RequireAdmin(ctx context.Context, sessionID string) (*models.AuthSession, error)
}

// RequireAdmin lets only sessions logged in with the admin role through.
// It must run after SessionID.
func RequireAdmin(checker AdminChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, err := checker.RequireAdmin(c.Request.Context(), GetSessionID(c))
		if err != nil {
			status := http.StatusForbidden
			code := "FORBIDDEN"
			message := "Admin role required"
			if errors.Is(err, services.ErrNotAuthenticated) {
				status = http.StatusUnauthorized
				code = "UNAUTHORIZED"
				message = "Login required"
			}
			c.AbortWithStatusJSON(status, models.NewErrorResponse(code, message))
			return
		}

		c.Next()
	}
}
