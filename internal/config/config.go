package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"storefront-service/internal/models"
)

// Session store backends
const (
	SessionStoreMemory   = "memory"
	SessionStoreRedis    = "redis"
	SessionStorePostgres = "postgres"
	SessionStoreSQLite   = "sqlite"
)

type Config struct {
	// Server
	Port        string
	Environment string
	LogLevel    string

	// Backend API
	BackendURL     string
	BackendTimeout time.Duration

	// Storefront
	DeliveryFee     float64
	PageSizeOptions []int
	AllowedOrigins  []string

	// Session storage
	SessionStore string
	SessionTTL   time.Duration
	RedisURL     string
	SQLitePath   string

	// Database (SESSION_STORE=postgres)
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Events
	NATSURL string

	// Rate limiting for auth and checkout, per client IP
	RateLimitRPS   float64
	RateLimitBurst int
}

func Load() *Config {
	dbPort, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	deliveryFee, err := strconv.ParseFloat(getEnv("DELIVERY_FEE", "15000"), 64)
	if err != nil || deliveryFee < 0 {
		deliveryFee = 15000
	}
	backendTimeout, err := time.ParseDuration(getEnv("BACKEND_TIMEOUT", "10s"))
	if err != nil || backendTimeout <= 0 {
		backendTimeout = 10 * time.Second
	}
	sessionTTL, err := time.ParseDuration(getEnv("SESSION_TTL", "720h"))
	if err != nil {
		sessionTTL = 720 * time.Hour
	}
	rps, err := strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "5"), 64)
	if err != nil || rps <= 0 {
		rps = 5
	}
	burst, err := strconv.Atoi(getEnv("RATE_LIMIT_BURST", "10"))
	if err != nil || burst <= 0 {
		burst = 10
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		BackendURL:     strings.TrimSuffix(getEnv("BACKEND_URL", "http://localhost:8000"), "/"),
		BackendTimeout: backendTimeout,

		DeliveryFee:     deliveryFee,
		PageSizeOptions: ParsePageSizeOptions(getEnv("PAGE_SIZE_OPTIONS", "8,12,16,24")),
		AllowedOrigins:  splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),

		SessionStore: strings.ToLower(getEnv("SESSION_STORE", SessionStoreMemory)),
		SessionTTL:   sessionTTL,
		RedisURL:     getEnv("REDIS_URL", "redis://localhost:6379/0"),
		SQLitePath:   getEnv("SQLITE_PATH", "storefront.db"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     dbPort,
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "password"),
		DBName:     getEnv("DB_NAME", "storefront_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		NATSURL: getEnv("NATS_URL", ""),

		RateLimitRPS:   rps,
		RateLimitBurst: burst,
	}
}

// ParsePageSizeOptions reads a comma separated list of positive sizes.
// Invalid entries are skipped; an empty result falls back to 8,12,16,24.
func ParsePageSizeOptions(raw string) []int {
	var sizes []int
	for _, part := range splitList(raw) {
		n, err := strconv.Atoi(part)
		if err != nil || n <= 0 {
			continue
		}
		sizes = append(sizes, n)
	}
	if len(sizes) == 0 {
		return []int{8, 12, 16, 24}
	}
	return sizes
}

func InitDB(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)

	var logLevel logger.LogLevel
	if cfg.Environment == "production" {
		logLevel = logger.Error
	} else {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Running auto-migrations...")
	if err := db.AutoMigrate(&models.SessionRecord{}); err != nil {
		return nil, fmt.Errorf("failed to run auto-migrations: %w", err)
	}
	log.Println("Auto-migrations completed successfully")

	return db, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
