package api

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/codyseavey/trading-dashboard/internal/api/handlers"
	"github.com/codyseavey/trading-dashboard/internal/config"
	"github.com/codyseavey/trading-dashboard/internal/metrics"
	"github.com/codyseavey/trading-dashboard/internal/services"
)

func SetupRouter(cfg *config.Config, accountService *services.AccountService, log *zap.SugaredLogger) (*gin.Engine, error) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))
	router.Use(metrics.GinMiddleware())

	// CORS configuration - terminals post from anywhere, dashboards from configured origins
	corsConfig := cors.DefaultConfig()
	if len(cfg.CORSOrigins) == 0 || (len(cfg.CORSOrigins) == 1 && strings.TrimSpace(cfg.CORSOrigins[0]) == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", APIKeyHeader}
	corsConfig.ExposeHeaders = []string{RequestIDHeader, handlers.ErrorHeader}
	corsConfig.AllowCredentials = false
	router.Use(cors.New(corsConfig))

	limiter, err := NewClientRateLimiter(cfg.Ingest.RatePerSec, cfg.Ingest.Burst)
	if err != nil {
		return nil, err
	}

	if cfg.APIKey == "" {
		log.Warn("API_KEY is not set: ingest and summary endpoints accept unauthenticated requests")
	}
	auth := APIKeyAuth(cfg.APIKey)

	// Initialize handlers
	accountHandler := handlers.NewAccountHandler(accountService, log)
	dashboardHandler := handlers.NewDashboardHandler(cfg.DashboardPath)

	// Ingest: the original path and the short alias used by older terminals
	// Auth before the limiter: only authenticated requests spend tokens
	router.POST("/api/account", auth, limiter.Middleware(), accountHandler.UpdateAccount)
	router.POST("/update", auth, limiter.Middleware(), accountHandler.UpdateAccount)

	// Dashboard polling
	router.GET("/data", accountHandler.GetAccounts)
	router.GET("/api/summary", auth, accountHandler.GetSummary)

	// API routes
	api := router.Group("/api")
	{
		accounts := api.Group("/accounts")
		{
			accounts.GET("", accountHandler.GetAccounts)
			accounts.GET("/summary", auth, accountHandler.GetSummary)
		}

		account := api.Group("/account")
		{
			account.GET("/:id", accountHandler.GetAccount)
			account.GET("/:id/history", accountHandler.GetAccountHistory)
		}

		api.GET("/stats", accountHandler.GetStats)
	}

	// Health check
	router.GET("/health", accountHandler.Health)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Dashboard page
	router.GET("/", dashboardHandler.Serve)
	router.GET("/dashboard", dashboardHandler.Serve)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return router, nil
}
