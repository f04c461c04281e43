package handler

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"rates-api-go/internal/auth"
	"rates-api-go/internal/hierarchy"
	"rates-api-go/internal/middleware"
	"rates-api-go/internal/rates"
	"rates-api-go/pkg/logger"
)

// RouterConfig carries everything the HTTP routes depend on
type RouterConfig struct {
	RateService    *rates.Service
	Hierarchy      *hierarchy.Cache
	DB             Pinger
	Tokens         *auth.TokenService
	Logger         *logger.Logger
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
	ServiceName    string
}

// NewRouter builds the gin engine with middleware and routes
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		router.Use(otelgin.Middleware(cfg.ServiceName))
	}
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(cfg.Logger))
	router.Use(middleware.Metrics())

	if len(cfg.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", middleware.RequestIDHeader},
			ExposeHeaders:    []string{"Content-Length", "Content-Type", middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           24 * time.Hour,
		}))
	}

	ratesHandler := NewRatesHandler(cfg.RateService, cfg.Logger)
	locationHandler := NewLocationHandler(cfg.RateService, cfg.Logger)
	healthHandler := NewHealthHandler(cfg.DB, cfg.Hierarchy)
	adminHandler := NewAdminHandler(cfg.Hierarchy, cfg.Logger)

	// Operational routes are not rate limited
	router.GET("/health", healthHandler.GetHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	limited := router.Group("/")
	limited.Use(middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.Logger).Handler())
	{
		limited.GET("/rates", ratesHandler.GetRates)
		limited.GET("/api/locations/:identifier", locationHandler.GetLocation)

		admin := limited.Group("/api/admin")
		admin.Use(middleware.JWTAuthMiddleware(cfg.Tokens, auth.RoleAdmin))
		{
			admin.POST("/hierarchy/refresh", adminHandler.RefreshHierarchy)
		}
	}

	return router
}
