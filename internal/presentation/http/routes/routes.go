package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sangkips/shopledger-api/internal/config"
	domainRepo "github.com/sangkips/shopledger-api/internal/domain/repository"
	"github.com/sangkips/shopledger-api/internal/presentation/http/handler"
	"github.com/sangkips/shopledger-api/internal/presentation/http/middleware"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Shop      *handler.ShopHandler
	Product   *handler.ProductHandler
	Customer  *handler.CustomerHandler
	Ledger    *handler.LedgerHandler
	Activity  *handler.ActivityHandler
	Admin     *handler.AdminHandler
	Dashboard *handler.DashboardHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg             *config.Config
	Log             *zap.Logger
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.ClientRateLimiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.ActorMiddleware())
	router.Use(middleware.LoggerMiddleware(deps.Log))
	router.Use(middleware.PrometheusMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	if deps.RateLimiter != nil {
		v1.Use(deps.RateLimiter.Middleware())
	}
	{
		registerShopRoutes(v1, h)
		registerProductRoutes(v1, h)
		registerCustomerRoutes(v1, h)
		registerLedgerRoutes(v1, h, deps)
		v1.GET("/activity", h.Activity.List)
		v1.GET("/dashboard", h.Dashboard.GetStats)
		registerAdminRoutes(v1, h)
	}

	return router
}

func registerShopRoutes(v1 *gin.RouterGroup, h *Handlers) {
	shops := v1.Group("/shops")
	{
		shops.GET("", h.Shop.List)
		shops.GET("/:id", h.Shop.Get)
	}
}

func registerProductRoutes(v1 *gin.RouterGroup, h *Handlers) {
	products := v1.Group("/products")
	{
		products.GET("", h.Product.List)
		products.POST("", h.Product.Create)
		products.POST("/import", h.Product.Import)
		products.POST("/transfer", h.Product.Transfer)
		products.PUT("/:id", h.Product.Update)
	}
}

func registerCustomerRoutes(v1 *gin.RouterGroup, h *Handlers) {
	customers := v1.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.GET("/:id/statement", h.Customer.Statement)
		customers.GET("/:id/verify", h.Customer.Verify)
		customers.GET("/:id/sales", h.Customer.Sales)
	}
}

func registerLedgerRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps) {
	ledger := v1.Group("")
	if deps.IdempotencyRepo != nil {
		ledger.Use(middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
			Log:  deps.Log,
		}))
	}
	{
		ledger.POST("/sales", h.Ledger.CreateSale)
		ledger.POST("/payments", h.Ledger.RecordPayment)
		ledger.POST("/expenses", h.Ledger.RecordExpense)
	}
}

func registerAdminRoutes(v1 *gin.RouterGroup, h *Handlers) {
	admin := v1.Group("/admin")
	{
		admin.GET("/mirror", h.Admin.MirrorStatus)
		admin.POST("/mirror/requeue", h.Admin.Requeue)
	}
}
