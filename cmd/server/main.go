package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/drobe/backend/internal/application/catalog"
	tradeapp "github.com/drobe/backend/internal/application/trade"
	"github.com/drobe/backend/internal/domain/pricing"
	"github.com/drobe/backend/internal/domain/shared"
	"github.com/drobe/backend/internal/infrastructure/auth"
	"github.com/drobe/backend/internal/infrastructure/cache"
	"github.com/drobe/backend/internal/infrastructure/config"
	"github.com/drobe/backend/internal/infrastructure/event"
	"github.com/drobe/backend/internal/infrastructure/logger"
	"github.com/drobe/backend/internal/infrastructure/persistence"
	"github.com/drobe/backend/internal/infrastructure/persistence/models"
	"github.com/drobe/backend/internal/infrastructure/scheduler"
	"github.com/drobe/backend/internal/infrastructure/storage"
	"github.com/drobe/backend/internal/infrastructure/telemetry"
	"github.com/drobe/backend/internal/interfaces/http/handler"
	"github.com/drobe/backend/internal/interfaces/http/middleware"
	"github.com/drobe/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//	@title			Drobe Shop API
//	@version		1.0
//	@description	Storefront backend: catalog with live discounts, carts, checkout and order history

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output}
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	// Telemetry first, so the OpenTelemetry log bridge can be attached to
	// the logger everything else receives
	providers, err := telemetry.Setup(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down telemetry", zap.Error(err))
		}
	}()
	if providers.Logs.IsEnabled() {
		level, _ := logger.ParseLevel(cfg.Log.Level)
		bridged, err := logger.New(logCfg, providers.Logs.Core(cfg.Telemetry.ServiceName, level))
		if err != nil {
			log.Fatal("Failed to attach OpenTelemetry log bridge", zap.Error(err))
		}
		log = bridged
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Drobe backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	db := openDatabase(ctx, cfg, providers, log)
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	// Caches and checkout idempotency
	stores, err := cache.NewStores(ctx, cfg.Shop, cfg.Redis, cfg.App.Env == "production", log)
	if err != nil {
		log.Fatal("Failed to initialize cache stores", zap.Error(err))
	}
	defer func() {
		if err := stores.Close(); err != nil {
			log.Error("Error closing cache stores", zap.Error(err))
		}
	}()

	// Initialize repositories
	brandRepo := persistence.NewGormBrandRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	discountRepo := persistence.NewGormDiscountRepository(db.DB)
	reviewRepo := persistence.NewGormReviewRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	savedItemRepo := persistence.NewGormSavedItemRepository(db.DB)
	scope := persistence.NewGormTransactionScope(db.DB)

	var discounts pricing.DiscountSource = catalogapp.NewRepositoryDiscountSource(discountRepo)
	if cfg.Shop.DiscountCacheTTL > 0 {
		discounts = cache.NewCachedDiscountSource(discounts, stores.Discounts, cfg.Shop.DiscountCacheTTL, log)
	}
	clock := shared.SystemClock{}

	// Initialize application services
	brandService := catalogapp.NewBrandService(brandRepo, log)
	discountService := catalogapp.NewDiscountService(discountRepo, log)
	reviewService := catalogapp.NewReviewService(reviewRepo, productRepo, log)
	productService := catalogapp.NewProductService(productRepo, brandRepo, reviewRepo, discounts, clock, log)
	cartService := tradeapp.NewCartService(scope, cartRepo, productRepo, discounts, clock, log)
	checkoutService := tradeapp.NewCheckoutService(scope, stores.Idempotency, cfg.Shop.IdempotencyTTL, clock, log)
	orderService := tradeapp.NewOrderService(orderRepo, log)
	savedItemService := tradeapp.NewSavedItemService(scope, savedItemRepo, cartRepo, productRepo, discounts, clock, log)
	customerDataService := tradeapp.NewCustomerDataService(scope, log)

	// Token revocations share Redis with the caches when it is available
	var revocations auth.RevocationList = auth.NewInMemoryRevocationList()
	if client := stores.Redis(); client != nil {
		revocations = auth.NewRedisRevocationList(client)
	}
	customerDataService.SetSessionRevoker(revocations, cfg.JWT.AccessTokenExpiration)
	housekeepingService := tradeapp.NewHousekeepingService(orderRepo, cartRepo, tradeapp.HousekeepingConfig{
		AbandonedOrderAge: cfg.Shop.AbandonedOrderAge,
		IdleCartAge:       cfg.Shop.IdleCartAge,
	}, clock, log)

	// Variant images live in S3-compatible storage when it is configured
	var variantImageHandler *handler.VariantImageHandler
	if cfg.Storage.Enabled {
		images, err := storage.NewS3ImageStore(ctx, cfg.Storage, log)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		if err := images.EnsureBucket(ctx); err != nil {
			log.Fatal("Failed to prepare image bucket", zap.Error(err), zap.String("bucket", images.Bucket()))
		}
		imageService := catalogapp.NewVariantImageService(productRepo, images, log)
		if cfg.Storage.PresignExpiration > 0 {
			imageCfg := catalogapp.DefaultVariantImageConfig()
			imageCfg.UploadURLExpiry = cfg.Storage.PresignExpiration
			imageCfg.DownloadURLExpiry = cfg.Storage.PresignExpiration
			imageService.SetConfig(imageCfg)
		}
		productService.SetImageURLResolver(imageService)
		variantImageHandler = handler.NewVariantImageHandler(imageService)
		log.Info("Variant image storage enabled", zap.String("bucket", images.Bucket()))
	}

	// Business metrics
	if providers.Meter.IsEnabled() {
		metrics, err := telemetry.NewBusinessMetrics(providers.Meter.Meter("drobe.shop"))
		if err != nil {
			log.Warn("Failed to create business metrics", zap.Error(err))
		} else {
			cartService.SetMetrics(metrics)
			checkoutService.SetMetrics(metrics)
			orderService.SetMetrics(metrics)
		}
	}

	// Initialize event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewAuditHandler(log))
	if cfg.Shop.DiscountCacheTTL > 0 {
		eventBus.Subscribe(cache.NewDiscountCacheInvalidator(stores.Discounts, log))
	}
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	brandService.SetEventPublisher(eventBus)
	discountService.SetEventPublisher(eventBus)
	productService.SetEventPublisher(eventBus)
	cartService.SetEventPublisher(eventBus)
	checkoutService.SetEventPublisher(eventBus)
	orderService.SetEventPublisher(eventBus)
	savedItemService.SetEventPublisher(eventBus)

	// Housekeeping scheduler (if enabled)
	if cfg.Scheduler.Enabled {
		stop := startHousekeeping(ctx, cfg.Scheduler, housekeepingService, log)
		defer stop()
	}

	var rateLimiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer rateLimiter.Stop()
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := router.NewEngine(router.EngineConfig{
		HTTP:           cfg.HTTP,
		Production:     cfg.App.Env == "production",
		ServiceName:    cfg.Telemetry.ServiceName,
		TracingEnabled: providers.Tracer.IsEnabled(),
		AdminRole:      cfg.JWT.AdminRole,
		JWTService:     auth.NewJWTService(cfg.JWT),
		Revocations:    revocations,
		Meters:         providers.Meter,
		RateLimiter:    rateLimiter,
		Logger:         log,
	}, router.Handlers{
		Product:      handler.NewProductHandler(productService),
		Brand:        handler.NewBrandHandler(brandService),
		Discount:     handler.NewDiscountHandler(discountService),
		Review:       handler.NewReviewHandler(reviewService),
		VariantImage: variantImageHandler,
		Cart:         handler.NewCartHandler(cartService),
		Checkout:     handler.NewCheckoutHandler(checkoutService),
		Order:        handler.NewOrderHandler(orderService),
		Wishlist:     handler.NewWishlistHandler(savedItemService),
		Customer:     handler.NewCustomerHandler(customerDataService),
		System:       handler.NewSystemHandler(cfg.App.Name, version, db),
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// openDatabase connects with zap-backed GORM logging and installs query
// tracing and pool metrics. SQLite databases are migrated in place; PostgreSQL
// is migrated with cmd/migrate.
func openDatabase(ctx context.Context, cfg *config.Config, providers *telemetry.Providers, log *zap.Logger) *persistence.Database {
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithGormLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.Ping(pingCtx); err != nil {
		log.Fatal("Database is unreachable", zap.Error(err))
	}
	log.Info("Database connected successfully", zap.String("driver", db.Driver))

	if db.Driver == config.DriverSQLite {
		if err := db.DB.AutoMigrate(models.AllModels()...); err != nil {
			log.Fatal("Failed to migrate SQLite schema", zap.Error(err))
		}
	}

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfigFrom(cfg.Telemetry), log); err != nil {
		log.Warn("Failed to register database tracing", zap.Error(err))
	}
	if providers.Meter.IsEnabled() {
		if _, err := telemetry.RegisterDBMetrics(db.DB, providers.Meter.Meter("drobe.db"), cfg.Telemetry.DBSlowQueryThresh); err != nil {
			log.Warn("Failed to register database metrics", zap.Error(err))
		}
	}
	return db
}

// startHousekeeping runs the purge jobs on the configured interval and
// returns a function that stops them
func startHousekeeping(ctx context.Context, cfg config.SchedulerConfig, housekeeping *tradeapp.HousekeepingService, log *zap.Logger) func() {
	sched, err := scheduler.NewScheduler(scheduler.ConfigFrom(cfg), log)
	if err != nil {
		log.Fatal("Invalid scheduler configuration", zap.Error(err))
	}
	if err := sched.Start(ctx); err != nil {
		log.Fatal("Failed to start scheduler", zap.Error(err))
	}

	trigger, err := scheduler.NewIntervalTrigger(cfg.HousekeepingInterval, true, sched, log,
		scheduler.Task{Name: "purge-abandoned-orders", Run: func(ctx context.Context) error {
			_, err := housekeeping.PurgeAbandonedOrders(ctx)
			return err
		}},
		scheduler.Task{Name: "purge-idle-carts", Run: func(ctx context.Context) error {
			_, err := housekeeping.PurgeIdleCarts(ctx)
			return err
		}},
	)
	if err != nil {
		log.Fatal("Invalid housekeeping interval", zap.Error(err))
	}
	if err := trigger.Start(ctx); err != nil {
		log.Fatal("Failed to start housekeeping trigger", zap.Error(err))
	}
	log.Info("Housekeeping scheduler started",
		zap.Duration("interval", cfg.HousekeepingInterval),
		zap.Int("max_concurrent_jobs", cfg.MaxConcurrentJobs),
	)

	return func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := trigger.Stop(stopCtx); err != nil {
			log.Error("Error stopping housekeeping trigger", zap.Error(err))
		}
		if err := sched.Stop(stopCtx); err != nil {
			log.Error("Error stopping scheduler", zap.Error(err))
		}
	}
}
