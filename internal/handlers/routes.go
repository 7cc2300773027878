package handlers

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"storefront-service/internal/middleware"
	"storefront-service/internal/services"
)

// Services is everything the BFF routes call into
type Services struct {
	Storefront *services.StorefrontService
	Checkout   *services.CheckoutService
	Auth       *services.AuthService
	Admin      *services.AdminService
	Catalog    *services.CatalogService
	Events     EventsStatus
}

// RegisterRoutes mounts the health, storefront, auth and admin routes.
// limiter guards the auth and checkout routes and may be nil.
func RegisterRoutes(router *gin.Engine, svc Services, limiter *middleware.RateLimiter) {
	router.GET("/health", HealthCheck)
	router.GET("/ready", ReadinessCheck(svc.Catalog, svc.Events))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	storefrontHandler := NewStorefrontHandler(svc.Storefront)
	checkoutHandler := NewCheckoutHandler(svc.Checkout)
	authHandler := NewAuthHandler(svc.Auth)
	adminHandler := NewAdminHandler(svc.Admin)

	limited := func(h gin.HandlerFunc) []gin.HandlerFunc {
		if limiter == nil {
			return []gin.HandlerFunc{h}
		}
		return []gin.HandlerFunc{middleware.RateLimit(limiter), h}
	}

	v1 := router.Group("/api/v1")
	v1.Use(middleware.SessionID())
	{
		storefront := v1.Group("/storefront")
		{
			storefront.GET("/catalog", storefrontHandler.GetCatalog)
			storefront.POST("/catalog/reload", storefrontHandler.ReloadCatalog)

			storefront.PUT("/filters", storefrontHandler.SeedFilters)
			storefront.PATCH("/filters", storefrontHandler.UpdateFilters)
			storefront.POST("/filters/reset", storefrontHandler.ResetFilters)

			storefront.GET("/cart", storefrontHandler.GetCart)
			storefront.PUT("/cart/coupon", storefrontHandler.SetCoupon)
			storefront.POST("/cart/items/:productId", storefrontHandler.AddCartItem)
			storefront.PUT("/cart/items/:productId", storefrontHandler.SetCartItem)
			storefront.DELETE("/cart/items/:productId", storefrontHandler.RemoveCartItem)
			storefront.GET("/totals", storefrontHandler.GetTotals)

			storefront.POST("/checkout", limited(checkoutHandler.Checkout)...)
		}

		auth := v1.Group("/auth")
		{
			auth.POST("/login", limited(authHandler.Login)...)
			auth.POST("/register", limited(authHandler.Register)...)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", authHandler.Me)
		}

		admin := v1.Group("/admin")
		admin.Use(middleware.RequireAdmin(svc.Auth))
		{
			admin.POST("/categories", adminHandler.CreateCategory)
			admin.POST("/products", adminHandler.CreateProduct)
			admin.GET("/products/import/template", adminHandler.GetImportTemplate)
			admin.POST("/products/import", adminHandler.ImportProducts)
			admin.POST("/settings/qris", adminHandler.UploadQRIS)
			admin.GET("/topup-requests", adminHandler.ListTopupRequests)
			admin.POST("/topup-requests/:id/approve", adminHandler.ApproveTopup)
			admin.POST("/topup-requests/:id/reject", adminHandler.RejectTopup)
		}
	}
}
