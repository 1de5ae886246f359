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

	"github.com/01moynul/souq-catalog/internal/config"
	"github.com/01moynul/souq-catalog/internal/database"
	"github.com/01moynul/souq-catalog/internal/handlers"
	"github.com/01moynul/souq-catalog/internal/logger"
	"github.com/01moynul/souq-catalog/internal/routes"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// 0. --- Configuration (.env, CATALOG_CONFIG, environment) ---
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 1. --- Logger ---
	zl, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zl.Sync()

	// 2. --- Database Connection ---
	db, err := database.Open(cfg.Database.Driver, cfg.Database.DSN, zl)
	if err != nil {
		zl.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// --- Application Setup ---
	app := &handlers.Handlers{
		DB:        db,
		Logger:    zl,
		UploadDir: cfg.Server.UploadDir,
	}

	// --- Router Setup ---
	gin.SetMode(gin.ReleaseMode)
	router := routes.SetupRouter(app, cfg.Server.CORSOrigins)

	// --- Start Server ---
	srv := &http.Server{Addr: cfg.Server.Addr(), Handler: router}
	serveErr := make(chan error, 1)
	go func() {
		zl.Info("Starting catalog API server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sigCh:
		zl.Info("Received shutdown signal")
	case err := <-serveErr:
		zl.Fatal("Server error", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zl.Error("Graceful shutdown failed", zap.Error(err))
	}
	zl.Info("Server stopped")
}
