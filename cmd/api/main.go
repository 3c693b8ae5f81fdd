package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/emilythestrangee/social-network/backend/internal/config"
	"github.com/emilythestrangee/social-network/backend/internal/database"
	"github.com/emilythestrangee/social-network/backend/internal/logger"
	"github.com/emilythestrangee/social-network/backend/internal/server"
	"github.com/emilythestrangee/social-network/backend/internal/telemetry"
)

func main() {
	// 1. Config & Logger
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.Init(cfg.Env)
	log.Info("🚀 Starting Social Network API", "env", cfg.Env, "db_driver", cfg.Database.Driver)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Tracing
	if cfg.OtelEndpoint != "" {
		tp, err := telemetry.InitTracer(ctx, cfg.ServiceName, cfg.Env, cfg.OtelEndpoint)
		if err != nil {
			log.Error("Failed to init tracer", "error", err)
		} else {
			defer func() { _ = tp.Shutdown(context.Background()) }()
		}
	}

	// 3. Database
	db, err := database.New(cfg.Database, log)
	if err != nil {
		log.Error("Unable to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// 4. HTTP
	srv, err := server.NewServer(cfg, db, log)
	if err != nil {
		log.Error("Unable to build server", "error", err)
		os.Exit(1)
	}

	go func() {
		log.Info("📡 HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	// Graceful Shutdown
	<-ctx.Done()
	log.Info("🛑 Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	log.Info("✅ Server exited properly")
}
