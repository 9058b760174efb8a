package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// Handlers groups the HTTP handlers registered on the router
type Handlers struct {
	Auth    *handler.AuthHandler
	Product *handler.ProductHandler
	Order   *handler.OrderHandler
	User    *handler.UserHandler
}

// Dependencies carries everything the router needs to assemble the engine
type Dependencies struct {
	Config     *config.Config
	Logger     *zap.Logger
	DB         *persistence.Database
	JWTService *auth.JWTService
	Blacklist  auth.TokenBlacklist
	Handlers   Handlers
}

// New assembles the gin engine with the full middleware stack and all
// API routes mounted under /api/v1.
func New(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	if len(deps.Config.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(deps.Config.HTTP.TrustedProxies); err != nil {
			deps.Logger.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(deps.Logger))
	engine.Use(logger.GinMiddleware(deps.Logger))
	engine.Use(middleware.Secure())
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		Enabled:     deps.Config.Telemetry.Enabled,
		ServiceName: deps.Config.Telemetry.ServiceName,
	}))
	engine.Use(middleware.TraceEnrichment())

	corsConfig := middleware.DefaultCORSConfig()
	if len(deps.Config.HTTP.CORSAllowOrigins) > 0 {
		corsConfig.AllowOrigins = deps.Config.HTTP.CORSAllowOrigins
		corsConfig.AllowCredentials = true
	}
	if len(deps.Config.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = deps.Config.HTTP.CORSAllowMethods
	}
	if len(deps.Config.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = deps.Config.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.GET("/health", healthHandler(deps.DB))

	if deps.Config.Swagger.Enabled {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := engine.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: deps.JWTService,
		Blacklist:  deps.Blacklist,
		SkipPaths: []string{
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
		},
		Logger: deps.Logger,
	}))

	registerAuthRoutes(api, deps.Handlers.Auth)
	registerCatalogRoutes(api, deps.Handlers.Product)
	registerOrderRoutes(api, deps.Handlers.Order)
	registerIdentityRoutes(api, deps.Handlers.User)

	return engine
}

func registerAuthRoutes(api *gin.RouterGroup, h *handler.AuthHandler) {
	authGroup := api.Group("/auth")
	authGroup.POST("/login", h.Login)
	authGroup.POST("/refresh", h.Refresh)
	authGroup.POST("/logout", h.Logout)
	authGroup.GET("/me", h.Me)
	authGroup.PUT("/password", h.ChangePassword)
}

func registerCatalogRoutes(api *gin.RouterGroup, h *handler.ProductHandler) {
	products := api.Group("/catalog/products")
	products.POST("", h.Create)
	products.GET("", h.List)
	products.GET("/:id", h.GetByID)
	products.PUT("/:id", h.Update)
	products.PUT("/:id/price", h.ChangePrice)
	products.POST("/:id/stock", h.AdjustStock)
	products.DELETE("/:id", h.Delete)
}

func registerOrderRoutes(api *gin.RouterGroup, h *handler.OrderHandler) {
	orders := api.Group("/orders")
	orders.POST("", h.Create)
	orders.POST("/on-behalf", h.CreateForClient)
	orders.GET("", h.List)
	orders.GET("/mine", h.ListMine)
	orders.GET("/:id", h.GetByID)
	orders.POST("/:id/payment", h.ConfirmPayment)
	orders.POST("/:id/dispatch", h.Dispatch)
	orders.POST("/:id/cancel", h.Cancel)
	orders.DELETE("/:id", h.Remove)
}

func registerIdentityRoutes(api *gin.RouterGroup, h *handler.UserHandler) {
	users := api.Group("/identity/users")
	users.POST("", h.Create)
	users.GET("", h.List)
	users.GET("/:id", h.GetByID)
	users.PUT("/:id", h.Update)
	users.POST("/:id/roles", h.AssignRole)
	users.DELETE("/:id/roles/:role", h.RemoveRole)
	users.POST("/:id/deactivate", h.Deactivate)
}

// healthHandler reports liveness and database reachability
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
