package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	database "github.com/tourvn/go-tourism-backend/app/db"
	appLogger "github.com/tourvn/go-tourism-backend/app/logger"
	"github.com/tourvn/go-tourism-backend/app/tracer"
	"github.com/tourvn/go-tourism-backend/config"
	"github.com/tourvn/go-tourism-backend/internal/api/auth"
	"github.com/tourvn/go-tourism-backend/internal/container"
	"github.com/tourvn/go-tourism-backend/internal/router"
)

const (
	serviceName = "Tourism API"
	version     = "1.0.0"
)

func main() {
	// Use standard log until slog is configured, in case godotenv fails.
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := setupLogger(cfg.Mode)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := tracer.InitTracingAndMetrics(serviceName, cfg.Server.MetricsPort, logger); err != nil {
		logger.Error("Failed to initialize tracing and metrics", slog.Any("error", err))
		os.Exit(1)
	}

	// Migrations run before the main pool opens.
	connectionURL, err := database.ConnectionURL(&cfg)
	if err != nil {
		logger.Error("Failed to build database URL", slog.Any("error", err))
		os.Exit(1)
	}
	if err := database.RunMigrations(connectionURL, logger); err != nil {
		logger.Error("Failed to run database migrations", slog.Any("error", err))
		os.Exit(1)
	}

	c, err := container.NewContainer(ctx, &cfg, logger)
	if err != nil {
		logger.Error("Failed to build dependency container", slog.Any("error", err))
		os.Exit(1)
	}
	defer c.Close()

	if !c.WaitForDB(ctx) {
		logger.Error("Database not ready after waiting, exiting")
		os.Exit(1)
	}

	if err := c.AuthService.EnsureAdminUser(ctx, cfg.Admin); err != nil {
		logger.Error("Failed to ensure admin account", slog.Any("error", err))
		os.Exit(1)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appLogger.StructuredLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.Timeout))

	r.Mount("/", router.SetupRouter(&router.Config{
		AuthHandler:      c.AuthHandler,
		PlaceHandler:     c.PlaceHandler,
		MapsHandler:      c.MapsHandler,
		AIHandler:        c.AIHandler,
		ItineraryHandler: c.ItineraryHandler,
		UserHandler:      c.UserHandler,
		AdminHandler:     c.AdminHandler,

		Authenticate:         auth.Authenticate(logger, cfg.JWT),
		OptionalAuthenticate: auth.OptionalAuthenticate(logger, cfg.JWT),
		RequireAdmin:         auth.RequireAdmin(logger),

		ServiceName: serviceName,
		Version:     version,
		UploadDir:   cfg.Upload.Dir,
	}))

	server := &http.Server{
		Addr:         ":" + cfg.Server.HTTPPort,
		Handler:      r,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  2 * cfg.Server.Timeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server listening", slog.String("addr", server.Addr), slog.String("mode", cfg.Mode))
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", slog.Any("error", err))
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("Shutdown signal received")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Graceful shutdown failed", slog.Any("error", err))
			if err := server.Close(); err != nil {
				logger.Error("Forced close failed", slog.Any("error", err))
			}
		}
	}

	logger.Info("Server stopped")
}

func setupLogger(mode string) *slog.Logger {
	if mode == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: time.Kitchen,
	}))
}
