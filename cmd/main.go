package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"storefront-service/internal/clients"
	"storefront-service/internal/config"
	"storefront-service/internal/events"
	"storefront-service/internal/handlers"
	"storefront-service/internal/middleware"
	"storefront-service/internal/pricing"
	"storefront-service/internal/repository"
	"storefront-service/internal/services"
)

// @title Storefront API
// @version 1.0.0
// @description Session-scoped catalog browsing, cart, coupon pricing and checkout in front of the storefront backend

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey SessionID
// @in header
// @name X-Session-ID

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found, using system environment variables")
	}

	cfg := config.Load()
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	// Session store
	store, err := openSessionStore(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open session store")
	}
	defer store.Close()

	// NATS events publisher (optional)
	var publisher *events.Publisher
	if cfg.NATSURL != "" {
		publisher, err = events.NewPublisher(cfg.NATSURL, logger)
		if err != nil {
			logger.WithError(err).Warn("Failed to initialize events publisher (events won't be published)")
			publisher = nil
		} else {
			defer publisher.Close()
			logger.Info("✓ NATS events publisher initialized")
		}
	} else {
		logger.Info("NATS_URL not configured, order events disabled")
	}

	backend := clients.NewBackendClient(cfg.BackendURL, cfg.BackendTimeout)
	calculator := pricing.NewCalculator(cfg.DeliveryFee, pricing.DefaultRules())
	sessions := services.NewSessionManager(store, logger)
	catalogService := services.NewCatalogService(backend, logger)
	authService := services.NewAuthService(backend, sessions, logger)

	var orderPublisher services.OrderPublisher
	if publisher != nil {
		orderPublisher = publisher
	}

	svc := handlers.Services{
		Storefront: services.NewStorefrontService(sessions, catalogService, calculator, cfg.PageSizeOptions, logger),
		Checkout:   services.NewCheckoutService(backend, sessions, calculator, orderPublisher, logger),
		Auth:       authService,
		Admin:      services.NewAdminService(backend, authService, catalogService, logger),
		Catalog:    catalogService,
		Events:     publisher,
	}

	// Warm the catalog; a failure here is retried on the first request
	warmCtx, cancelWarm := context.WithTimeout(context.Background(), cfg.BackendTimeout)
	if err := catalogService.Load(warmCtx); err != nil {
		logger.WithError(err).Warn("Initial catalog load failed")
	} else {
		logger.WithField("products", len(catalogService.Products())).Info("✓ Catalog loaded")
	}
	cancelWarm()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	limiterCtx, stopLimiter := context.WithCancel(context.Background())
	defer stopLimiter()
	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	limiter.StartCleanup(limiterCtx, 5*time.Minute)

	handlers.RegisterRoutes(router, svc, limiter)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Infof("Storefront service starting on port %s (backend %s)", cfg.Port, backend.BaseURL())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	<-quit
	logger.Info("Shutting down storefront-service...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Storefront service stopped")
}

// openSessionStore builds the session store chosen by SESSION_STORE
func openSessionStore(cfg *config.Config, logger *logrus.Logger) (repository.SessionStore, error) {
	switch cfg.SessionStore {
	case config.SessionStoreRedis:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		store, err := repository.NewRedisStore(ctx, cfg.RedisURL, cfg.SessionTTL)
		if err != nil {
			return nil, err
		}
		logger.Info("✓ Connected to Redis for session storage")
		return store, nil
	case config.SessionStorePostgres:
		db, err := config.InitDB(cfg)
		if err != nil {
			return nil, err
		}
		logger.Info("✓ Connected to Postgres for session storage")
		return repository.NewPostgresStore(db), nil
	case config.SessionStoreSQLite:
		store, err := repository.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		logger.WithField("path", cfg.SQLitePath).Info("✓ Opened SQLite session storage")
		return store, nil
	default:
		logger.Info("Using in-memory session storage")
		return repository.NewMemoryStore(), nil
	}
}
