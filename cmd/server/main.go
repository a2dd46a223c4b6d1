package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/trading-dashboard/internal/api"
	"github.com/codyseavey/trading-dashboard/internal/config"
	"github.com/codyseavey/trading-dashboard/internal/database"
	"github.com/codyseavey/trading-dashboard/internal/logging"
	"github.com/codyseavey/trading-dashboard/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	// Initialize stores. The in-memory store keeps no history.
	var (
		accountStore services.AccountStore
		historyStore services.HistoryStore
	)
	switch cfg.Store {
	case config.StoreMemory:
		accountStore = services.NewMemoryStore()
		logger.Warn("Using in-memory store: accounts are lost on restart and history is disabled")
	default:
		db, err := database.Open(cfg.DBPath, logger)
		if err != nil {
			logger.Fatalw("Failed to initialize database", "error", err)
		}
		sqliteStore := services.NewSQLiteStore(db)
		accountStore = sqliteStore
		historyStore = sqliteStore
	}

	accountService := services.NewAccountService(accountStore, historyStore, cfg.AccountKeyMode(), logger)

	// Setup router
	router, err := api.SetupRouter(cfg, accountService, logger)
	if err != nil {
		logger.Fatalw("Failed to setup router", "error", err)
	}

	// Create HTTP server for graceful shutdown
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infow("Starting server", "port", cfg.Port, "store", accountStore.Name(), "key_mode", cfg.KeyMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalw("Failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Give outstanding requests a deadline to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}
