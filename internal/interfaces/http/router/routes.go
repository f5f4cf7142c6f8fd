package router

import (
	"time"

	"github.com/assetreg/backend/internal/infrastructure/config"
	"github.com/assetreg/backend/internal/infrastructure/logger"
	"github.com/assetreg/backend/internal/interfaces/http/handler"
	"github.com/assetreg/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers groups the HTTP handlers mounted under /api/v1
type Handlers struct {
	Auth          *handler.AuthHandler
	PasswordReset *handler.PasswordResetHandler
	User          *handler.UserHandler
	Category      *handler.CategoryHandler
	Rate          *handler.DepreciationRateHandler
	Asset         *handler.AssetHandler
	Purchase      *handler.PurchaseHandler
	Valuation     *handler.ValuationHandler
	Dashboard     *handler.DashboardHandler
	System        *handler.SystemHandler
}

// PublicPaths are the API paths served without a bearer token
var PublicPaths = []string{
	"/health",
	"/api/v1/health",
	"/api/v1/auth/login",
	"/api/v1/auth/refresh-token",
	"/api/v1/auth/forgot-password",
	"/api/v1/auth/validate-otp",
	"/api/v1/auth/reset-password",
}

// NewEngine creates a gin engine with the standard middleware stack:
// request ID, panic recovery, access log, security headers, CORS and body limit.
func NewEngine(cfg *config.HTTPConfig, log *zap.Logger) *gin.Engine {
	engine := gin.New()

	if len(cfg.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.CORSAllowOrigins,
		AllowMethods:     cfg.CORSAllowMethods,
		AllowHeaders:     cfg.CORSAllowHeaders,
		ExposeHeaders:    []string{middleware.RequestIDHeader, "Content-Disposition", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.MaxBodySize))

	return engine
}

// Mount registers every route on engine. authn guards the API group;
// loginGuard, when not nil, throttles the public auth endpoints.
func Mount(engine *gin.Engine, h Handlers, authn gin.HandlerFunc, loginGuard gin.HandlerFunc) *Router {
	engine.GET("/health", h.System.Health)

	r := NewRouter(engine, WithAPIVersion("v1"))
	if authn != nil {
		r.Use(authn)
	}
	r.Register(Groups(h, loginGuard)...)
	r.Setup()
	return r
}

// Groups builds the API route groups. Writes to reference data, user
// management and job control are restricted to administrators.
func Groups(h Handlers, loginGuard gin.HandlerFunc) []RouteRegistrar {
	admin := middleware.RequireAdmin()

	system := NewDomainGroup("system", "")
	system.GET("/health", h.System.Health)
	system.GET("/system/jobs", admin, h.System.JobStatus)
	system.POST("/system/jobs/:name/trigger", admin, h.System.TriggerJob)

	guarded := func(next gin.HandlerFunc) []gin.HandlerFunc {
		if loginGuard == nil {
			return []gin.HandlerFunc{next}
		}
		return []gin.HandlerFunc{loginGuard, next}
	}

	authRoutes := NewDomainGroup("auth", "/auth")
	authRoutes.POST("/login", guarded(h.Auth.Login)...)
	authRoutes.POST("/refresh-token", guarded(h.Auth.RefreshToken)...)
	authRoutes.POST("/forgot-password", guarded(h.PasswordReset.ForgotPassword)...)
	authRoutes.POST("/validate-otp", guarded(h.PasswordReset.ValidateOTP)...)
	authRoutes.POST("/reset-password", guarded(h.PasswordReset.ResetPassword)...)
	authRoutes.POST("/logout", h.Auth.Logout)
	authRoutes.GET("/me", h.Auth.GetCurrentUser)
	authRoutes.PUT("/password", h.Auth.ChangePassword)

	users := NewDomainGroup("users", "/users").Use(admin)
	users.POST("", h.User.Create)
	users.GET("", h.User.List)
	users.GET("/:id", h.User.GetByID)
	users.PUT("/:id", h.User.Update)
	users.POST("/:id/activate", h.User.Activate)
	users.POST("/:id/deactivate", h.User.Deactivate)
	users.PUT("/:id/password", h.User.ResetPassword)

	categories := NewDomainGroup("categories", "/categories")
	categories.GET("", h.Category.List)
	categories.GET("/:id", h.Category.GetByID)
	categories.POST("", admin, h.Category.Create)
	categories.PUT("/:id", admin, h.Category.Update)
	categories.DELETE("/:id", admin, h.Category.Delete)
	categories.GET("/:id/depreciation-rates/:label", h.Rate.ForCategoryAndFinancialYear)

	rates := NewDomainGroup("depreciation-rates", "/depreciation-rates")
	rates.GET("", h.Rate.List)
	rates.GET("/resolve", h.Rate.Resolve)
	rates.GET("/:id", h.Rate.GetByID)
	rates.POST("", admin, h.Rate.Create)
	rates.PUT("/:id", admin, h.Rate.Update)
	rates.DELETE("/:id", admin, h.Rate.Delete)

	assets := NewDomainGroup("assets", "/assets")
	assets.POST("", h.Asset.Create)
	assets.GET("", h.Asset.List)
	assets.GET("/:id", h.Asset.GetByID)
	assets.PUT("/:id", h.Asset.Update)
	assets.POST("/:id/assign", h.Asset.Assign)
	assets.POST("/:id/return", h.Asset.Return)
	assets.POST("/:id/deactivate", h.Asset.Deactivate)
	assets.POST("/:id/activate", h.Asset.Activate)
	assets.POST("/:id/stolen", h.Asset.MarkStolen)
	assets.POST("/:id/dispose", h.Asset.MarkDisposed)
	assets.GET("/:id/history", h.Asset.History)
	assets.POST("/:id/image-upload-url", h.Asset.ImageUploadURL)
	assets.GET("/:id/purchases", h.Purchase.ListByAsset)
	assets.POST("/:id/purchases", h.Purchase.Create)

	purchases := NewDomainGroup("purchases", "/purchases")
	purchases.GET("", h.Purchase.List)
	purchases.GET("/:id", h.Purchase.GetByID)
	purchases.POST("/:id/bill-upload-url", h.Purchase.BillUploadURL)
	purchases.GET("/:id/bill-download-url", h.Purchase.BillDownloadURL)

	valuations := NewDomainGroup("valuations", "/valuations")
	valuations.GET("/purchases/:id", h.Valuation.PresentPurchase)
	valuations.GET("/financial-years", h.Valuation.SummaryForRange)
	valuations.GET("/financial-years/:label", h.Valuation.SummaryForFiscalYear)
	valuations.GET("/financial-years/:label/export", h.Valuation.ExportFinancialYearCSV)
	valuations.GET("/financial-year-of", h.Valuation.FinancialYearOf)

	dashboard := NewDomainGroup("dashboard", "/dashboard")
	dashboard.GET("/stats", h.Dashboard.Stats)

	return []RouteRegistrar{system, authRoutes, users, categories, rates, assets, purchases, valuations, dashboard}
}
