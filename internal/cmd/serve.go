package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"storefront-backend/internal/cart"
	"storefront-backend/internal/delivery/http/middleware"
	v1 "storefront-backend/internal/delivery/http/v1"
	"storefront-backend/internal/domain"
	"storefront-backend/internal/identity"
	"storefront-backend/internal/infrastructure/cache"
	"storefront-backend/internal/infrastructure/facebook"
	"storefront-backend/internal/infrastructure/messaging"
	"storefront-backend/internal/pricing"
	"storefront-backend/internal/repository/postgres"
	"storefront-backend/internal/usecase"
	"storefront-backend/pkg/logger"
	"storefront-backend/pkg/metrics"
	"storefront-backend/pkg/storage"

	"github.com/NYTimes/gziphandler"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

const serviceName = "storefront"

var migrateOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the storefront HTTP API. RabbitMQ, R2 receipts and the Conversions
API are optional and are skipped when not configured.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&migrateOnStart, "migrate", false, "Apply the schema before serving")
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	log := logger.Get()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize Database with pgx
	pgxPool, err := postgres.NewPgxPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pgxPool.Close()
	log.Info().Msg("Successfully connected to PostgreSQL via pgx")

	if migrateOnStart {
		if err := postgres.Migrate(ctx, pgxPool); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	// Initialize Repositories
	productRepo := postgres.NewProductRepository(pgxPool)
	promotionRepo := postgres.NewPromotionRepository(pgxPool)
	orderRepo := postgres.NewOrderRepository(pgxPool)
	txManager := postgres.NewTransactionManager(pgxPool)

	// Initialize Cache (In-Memory)
	// Default expiration is the session TTL, cleanup every 10m
	memCache := cache.NewMemoryCache(cfg.CartSessionTTL, 10*time.Minute)
	go reportCacheSize(ctx, memCache.ItemCount)

	// --- Optional integrations ---

	var events domain.OrderEventPublisher
	if cfg.RabbitMQURL != "" {
		publisher, err := messaging.NewRabbitMQPublisher(cfg.RabbitMQURL, cfg.OrderExchange)
		if err != nil {
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		defer publisher.Close()
		events = publisher
		log.Info().Str("exchange", cfg.OrderExchange).Msg("Publishing order events")
	} else {
		log.Info().Msg("RABBITMQ_URL not set, order events disabled")
	}

	var receipts domain.ReceiptStore
	if cfg.R2BucketName != "" {
		r2Storage, err := storage.NewR2Storage(
			ctx,
			cfg.R2AccountID,
			cfg.R2AccessKeyID,
			cfg.R2AccessKeySecret,
			cfg.R2BucketName,
			cfg.R2PublicURL,
			cfg.R2UploadTimeout,
		)
		if err != nil {
			return fmt.Errorf("failed to initialize R2 storage: %w", err)
		}
		receipts = r2Storage
	} else {
		log.Info().Msg("R2 not configured, receipts disabled")
	}

	var conversions domain.ConversionTracker
	if capi := facebook.NewCAPIClient(cfg.FBPixelID, cfg.FBAccessToken, cfg.FBAPIVersion, cfg.Currency); capi != nil {
		conversions = capi
	}

	// --- Modules Initialization ---

	id := identity.New()
	sessions := cart.NewSessionStore(memCache, cfg.CartSessionTTL)
	calculator := pricing.NewCalculator(cfg.ShippingBaseCost, memCache, cfg.CacheTotalsTTL)

	catalogUC := usecase.NewCatalogUsecase(productRepo, memCache, cfg)
	promotionUC := usecase.NewPromotionUsecase(promotionRepo, id, memCache, cfg)
	cartUC := usecase.NewCartUsecase(sessions, catalogUC, promotionUC, calculator, cfg)
	orderUC := usecase.NewOrderUsecase(orderRepo, txManager, id, events)
	checkoutUC := usecase.NewCheckoutUsecase(usecase.CheckoutDeps{
		Sessions:             sessions,
		Identity:             id,
		Orders:               orderRepo,
		Inventory:            productRepo,
		TxManager:            txManager,
		Calculator:           calculator,
		Events:               events,
		Receipts:             receipts,
		Conversions:          conversions,
		OnStockChanged:       catalogUC.InvalidateProduct,
		RequireVerifiedEmail: cfg.RequireVerifiedEmail,
	})

	// Set up Router
	mux := http.NewServeMux()
	v1.Router{
		Catalog:         v1.NewCatalogHandler(catalogUC),
		Cart:            v1.NewCartHandler(cartUC),
		Checkout:        v1.NewCheckoutHandler(cartUC, checkoutUC),
		Orders:          v1.NewOrderHandler(orderUC),
		AdminOrders:     v1.NewAdminOrderHandler(orderUC),
		AdminPromotions: v1.NewAdminPromotionHandler(promotionUC),
		Health:          v1.NewHealthHandler(pgxPool),
		Session:         middleware.NewSessionMiddleware(cfg.CartSessionTTL, cfg.IsProduction()),
		Admin:           middleware.NewAdminMiddleware(id),
	}.Register(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Initialize Rate Limiter with lifecycle management
	// cleanup every minute, TTL 3 minutes
	rateLimiter := middleware.NewRateLimiter(
		ctx,
		rate.Limit(cfg.RateLimitRPS),
		cfg.RateLimitBurst,
		time.Minute,
		3*time.Minute,
	)

	// Apply Metrics, CORS, Request Logger, Rate Limit, and Gzip
	handler := middleware.Metrics(mux)
	handler = middleware.NewCORSMiddleware(cfg)(handler)
	handler = middleware.RequestLogger(handler)
	handler = rateLimiter.Middleware()(handler)
	handler = gziphandler.GzipHandler(handler)

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()
	logger.ServiceStart(serviceName, version, cfg.Port)

	select {
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info().Msg("Server shutting down...")
	rateLimiter.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// let post-order steps of already placed orders finish
	checkoutUC.Wait()

	logger.ServiceStop(serviceName)
	return nil
}

// reportCacheSize exports the cache item count until ctx is done.
func reportCacheSize(ctx context.Context, count func() int) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		metrics.CacheItems.Set(float64(count()))
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}
