package router

import (
	"net/http"
	"time"

	"github.com/drobe/backend/internal/infrastructure/auth"
	"github.com/drobe/backend/internal/infrastructure/config"
	"github.com/drobe/backend/internal/infrastructure/logger"
	"github.com/drobe/backend/internal/infrastructure/telemetry"
	"github.com/drobe/backend/internal/interfaces/http/dto"
	"github.com/drobe/backend/internal/interfaces/http/handler"
	"github.com/drobe/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DefaultAdminRole is the role claim that unlocks catalog and order
// administration when none is configured
const DefaultAdminRole = "admin"

const productionHSTS = 365 * 24 * time.Hour

// Handlers are the endpoints the shop API serves. VariantImage may be nil
// when object storage is disabled; its routes are then not mounted.
type Handlers struct {
	Product      *handler.ProductHandler
	Brand        *handler.BrandHandler
	Discount     *handler.DiscountHandler
	Review       *handler.ReviewHandler
	VariantImage *handler.VariantImageHandler
	Cart         *handler.CartHandler
	Checkout     *handler.CheckoutHandler
	Order        *handler.OrderHandler
	Wishlist     *handler.WishlistHandler
	Customer     *handler.CustomerHandler
	System       *handler.SystemHandler
}

// EngineConfig holds what the HTTP stack needs beyond the handlers
type EngineConfig struct {
	HTTP           config.HTTPConfig
	Production     bool
	ServiceName    string
	TracingEnabled bool
	AdminRole      string
	JWTService     *auth.JWTService
	Revocations    auth.RevocationList
	Meters         *telemetry.MeterProvider
	// RateLimiter is used when HTTP.RateLimitEnabled is set. The caller owns
	// it and stops it on shutdown.
	RateLimiter *middleware.RateLimiter
	Logger      *zap.Logger
}

// NewEngine builds the gin engine with the full middleware stack and every
// shop route mounted under /api/v1.
//
// Engine-wide, in order: RequestID, Recovery, request logging, tracing,
// security headers, CORS, body limit, request timeout, profiling labels and
// HTTP metrics. API-wide: identity resolution, span attributes and rate
// limiting keyed by the resolved identity.
func NewEngine(cfg EngineConfig, h Handlers) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	adminRole := cfg.AdminRole
	if adminRole == "" {
		adminRole = DefaultAdminRole
	}

	middleware.RegisterValidators()
	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	var hsts time.Duration
	if cfg.Production {
		hsts = productionHSTS
	}
	cors := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		logger.GinMiddleware(log, "/health"),
		middleware.Tracing(middleware.TracingConfig{ServiceName: cfg.ServiceName, Enabled: cfg.TracingEnabled}),
		middleware.Secure(hsts),
		middleware.CORS(cors),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
		middleware.Timeout(cfg.HTTP.RequestTimeout),
		middleware.Profiling(middleware.DefaultProfilingConfig()),
		middleware.HTTPMetrics(cfg.Meters, log),
	)
	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeNotFound, "Route not found", c.GetString(middleware.RequestIDKey)))
	})
	engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeBadRequest, "Method not allowed", c.GetString(middleware.RequestIDKey)))
	})

	if h.System != nil {
		engine.GET("/health", h.System.Health)
	}

	api := NewAPI(engine, "v1", Guards{
		Customer: middleware.RequireCustomer(),
		Admin:    middleware.RequireRole(adminRole),
	})
	api.Use(
		middleware.Identity(middleware.IdentityConfig{
			JWTService:    cfg.JWTService,
			Revocations:   cfg.Revocations,
			SessionHeader: cfg.HTTP.SessionHeader,
			Logger:        log,
		}),
		middleware.TracingAttributeInjector(),
	)
	if cfg.HTTP.RateLimitEnabled && cfg.RateLimiter != nil {
		api.Use(middleware.RateLimit(cfg.RateLimiter))
	}

	api.Add(
		catalogArea(h),
		cartArea(h),
		orderArea(h),
		wishlistArea(h),
		customerArea(h),
	)
	if h.System != nil {
		api.Add(NewArea("system", "/system").GET("/info", h.System.GetSystemInfo))
	}
	routes := api.Mount()
	log.Debug("API routes mounted", zap.String("base_path", api.BasePath()), zap.Int("routes", len(routes)))

	return engine
}

func catalogArea(h Handlers) *Area {
	a := NewArea("catalog", "/catalog")

	a.GET("/products", h.Product.List)
	a.GET("/products/:id", h.Product.GetByID)
	a.POST("/products", h.Product.Create, Admin)
	a.PUT("/products/:id", h.Product.Update, Admin)
	a.DELETE("/products/:id", h.Product.Delete, Admin)
	a.POST("/products/:id/variants", h.Product.AddVariant, Admin)
	a.PUT("/variants/:id", h.Product.UpdateVariant, Admin)
	a.DELETE("/variants/:id", h.Product.RemoveVariant, Admin)
	if h.VariantImage != nil {
		a.POST("/variants/:id/image/upload-url", h.VariantImage.InitiateUpload, Admin)
		a.POST("/variants/:id/image", h.VariantImage.ConfirmUpload, Admin)
	}

	a.GET("/brands", h.Brand.List)
	a.POST("/brands", h.Brand.Create, Admin)
	a.PUT("/brands/:id", h.Brand.Update, Admin)
	a.DELETE("/brands/:id", h.Brand.Delete, Admin)

	a.GET("/discounts", h.Discount.List, Admin)
	a.GET("/discounts/:id", h.Discount.GetByID, Admin)
	a.POST("/discounts", h.Discount.Create, Admin)
	a.PUT("/discounts/:id", h.Discount.Update, Admin)
	a.DELETE("/discounts/:id", h.Discount.Delete, Admin)
	a.POST("/discounts/:id/activate", h.Discount.Activate, Admin)
	a.POST("/discounts/:id/deactivate", h.Discount.Deactivate, Admin)

	a.GET("/products/:id/reviews", h.Review.ListApproved)
	a.POST("/products/:id/reviews", h.Review.Create, Customer)
	a.POST("/reviews/:id/approve", h.Review.Approve, Admin)
	a.POST("/reviews/:id/unapprove", h.Review.Unapprove, Admin)

	return a
}

// cartArea serves anonymous sessions too; only checkout needs a customer
func cartArea(h Handlers) *Area {
	return NewArea("cart", "/cart").
		GET("", h.Cart.Get).
		DELETE("", h.Cart.Clear).
		GET("/count", h.Cart.Count).
		POST("/items", h.Cart.AddItem).
		PUT("/items/:id", h.Cart.UpdateItem).
		DELETE("/items/:id", h.Cart.RemoveItem).
		POST("/checkout", h.Checkout.Checkout, Customer)
}

func orderArea(h Handlers) *Area {
	return NewArea("orders", "/orders").
		RequireAll(Customer).
		GET("", h.Order.List).
		GET("/:id", h.Order.GetByID).
		PATCH("/:id/status", h.Order.UpdateStatus).
		POST("/:id/paid", h.Order.MarkPaid, Admin)
}

func wishlistArea(h Handlers) *Area {
	return NewArea("wishlist", "/wishlist").
		RequireAll(Customer).
		GET("", h.Wishlist.List).
		POST("", h.Wishlist.Save).
		DELETE("/:id", h.Wishlist.Remove).
		POST("/:id/move-to-cart", h.Wishlist.MoveToCart)
}

func customerArea(h Handlers) *Area {
	return NewArea("customers", "/customers").
		RequireAll(Admin).
		DELETE("/:id", h.Customer.Erase)
}
