package config

import (
	"errors"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Port            string
	Env             string
	LogLevel        string
	DBUrl           string
	JWTSecret       string
	AllowedOrigin   string
	FrontendURL     string
	TokenExpiry     time.Duration
	ShutdownTimeout time.Duration
	// DB Config
	DBMaxConns        int32
	DBMinConns        int32
	DBMaxConnIdleTime time.Duration
	// R2 receipt archive
	R2AccountID       string
	R2AccessKeyID     string
	R2AccessKeySecret string
	R2BucketName      string
	R2PublicURL       string
	R2UploadTimeout   time.Duration
	// Order events
	RabbitMQURL   string
	OrderExchange string
	// Conversions API
	FBPixelID     string
	FBAccessToken string
	FBAPIVersion  string
	// Cache
	CacheProductTTL   time.Duration
	CachePromotionTTL time.Duration
	CacheTotalsTTL    time.Duration
	CacheCategoryTTL  time.Duration
	CartSessionTTL    time.Duration
	// Rate limiting
	RateLimitRPS   float64
	RateLimitBurst int
	// Business Rules
	ShippingBaseCost     decimal.Decimal
	Currency             string
	MaxCartQuantity      int
	RequireVerifiedEmail bool
}

func LoadConfig() *Config {
	// 1. Check if a specific config file is requested via env var
	configFile := os.Getenv("CONFIG_FILE")
	if configFile != "" {
		if err := godotenv.Load(configFile); err != nil {
			log.Printf("Warning: Failed to load config file '%s': %v", configFile, err)
		} else {
			log.Printf("Loaded configuration from %s", configFile)
		}
	} else {
		// 2. Default fallback: .env for local dev, system env vars otherwise
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found or error loading it, relying on system env vars")
		}
	}

	return &Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DBUrl:           getEnv("DB_DSN", ""),
		JWTSecret:       getEnv("JWT_SECRET", defaultJWTSecret),
		AllowedOrigin:   getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),
		FrontendURL:     getEnv("FRONTEND_URL", "http://localhost:3000"),
		TokenExpiry:     getDurationEnv("ACCESS_TOKEN_EXPIRY", 24*time.Hour),
		ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 5*time.Second),

		DBMaxConns:        getInt32Env("DB_MAX_CONNS", 50),
		DBMinConns:        getInt32Env("DB_MIN_CONNS", 10),
		DBMaxConnIdleTime: getDurationEnv("DB_MAX_CONN_IDLE_TIME", 15*time.Minute),

		R2AccountID:       getEnv("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
		R2AccessKeySecret: getEnv("R2_ACCESS_KEY_SECRET", ""),
		R2BucketName:      getEnv("R2_BUCKET_NAME", ""),
		R2PublicURL:       getEnv("R2_PUBLIC_URL", ""),
		R2UploadTimeout:   getDurationEnv("R2_UPLOAD_TIMEOUT", 30*time.Second),

		RabbitMQURL:   getEnv("RABBITMQ_URL", ""),
		OrderExchange: getEnv("ORDER_EXCHANGE", "storefront.orders"),

		FBPixelID:     getEnv("FB_PIXEL_ID", ""),
		FBAccessToken: getEnv("FB_ACCESS_TOKEN", ""),
		FBAPIVersion:  getEnv("FB_API_VERSION", "v19.0"),

		// Cache defaults: 10m product and category, 5m promotion, 1m totals, 24h cart session
		CacheProductTTL:   getDurationEnv("CACHE_PRODUCT_TTL", 10*time.Minute),
		CachePromotionTTL: getDurationEnv("CACHE_PROMOTION_TTL", 5*time.Minute),
		CacheTotalsTTL:    getDurationEnv("CACHE_TOTALS_TTL", time.Minute),
		CacheCategoryTTL:  getDurationEnv("CACHE_CATEGORY_TTL", 10*time.Minute),
		CartSessionTTL:    getDurationEnv("CART_SESSION_TTL", 24*time.Hour),

		RateLimitRPS:   getFloatEnv("RATE_LIMIT_RPS", 50),
		RateLimitBurst: getIntEnv("RATE_LIMIT_BURST", 100),

		ShippingBaseCost:     getDecimalEnv("SHIPPING_BASE_COST", decimal.NewFromInt(300)),
		Currency:             getEnv("CURRENCY", "BDT"),
		MaxCartQuantity:      getIntEnv("MAX_CART_QUANTITY", 1000),
		RequireVerifiedEmail: getBoolEnv("REQUIRE_VERIFIED_EMAIL", true),
	}
}

const defaultJWTSecret = "default_secret_CHANGE_ME"

// Validate checks what the HTTP server needs before it starts.
func (c *Config) Validate() error {
	var errs []error
	if c.DBUrl == "" {
		errs = append(errs, errors.New("DB_DSN environment variable is required"))
	}
	if c.ShippingBaseCost.IsNegative() {
		errs = append(errs, errors.New("SHIPPING_BASE_COST must not be negative"))
	}
	if c.MaxCartQuantity < 1 {
		errs = append(errs, errors.New("MAX_CART_QUANTITY must be at least 1"))
	}
	if c.JWTSecret == defaultJWTSecret {
		if c.IsProduction() {
			errs = append(errs, errors.New("JWT_SECRET must be set in production"))
		} else {
			log.Println("WARNING: Using default JWT secret. Setting up for failure in production.")
		}
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}
