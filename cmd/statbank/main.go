// Package main is the entry point for the statbank server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"statbank/internal/cache"
	"statbank/internal/config"
	"statbank/internal/database"
	"statbank/internal/export"
	"statbank/internal/handlers"
	"statbank/internal/router"
	"statbank/internal/schema"
	"statbank/internal/session"
	"statbank/internal/stats"
	"statbank/internal/storage"
	"statbank/internal/store"
)

func main() {
	// Structured logger — outputs JSON in production, text in development.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Redis (FieldSpec cache + session store).
	redisClient, err := cache.Connect(cfg.RedisAddr(), cfg.RedisPassword)
	if err != nil {
		slog.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	// Initialize session store backed by Redis.
	// In non-development environments, mark session cookies as Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(redisClient, secureCookies)

	// Initialize data stores.
	userStore := store.NewUserStore(db)
	categoryStore := store.NewCategoryStore(db)
	fieldStore := store.NewFieldStore(db)
	recordStore := store.NewRecordStore(db)

	// Schema layer: resolver with a Redis-backed spec cache, and the
	// manager that owns schema mutations and cache invalidation.
	specCache := schema.NewCache(redisClient, schema.DefaultSpecTTL)
	resolver := schema.NewResolver(categoryStore, fieldStore, specCache)
	manager := schema.NewManager(categoryStore, fieldStore, specCache)

	// Statistics pipelines.
	ingestor := stats.NewIngestor(resolver, recordStore)
	projector := stats.NewProjector(resolver, recordStore)

	// Connect to S3-compatible object storage (optional — app works without it).
	storageClient, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	var exporter *export.Exporter
	if storageClient != nil {
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
		exporter = export.New(projector, storageClient)
	} else {
		slog.Warn("s3 storage not configured — CSV exports disabled")
	}

	// Create handler groups with their dependencies.
	apiHandlers := handlers.NewAPI(ingestor, projector)
	adminHandlers := handlers.NewAdmin(manager, categoryStore, fieldStore, recordStore, exporter)
	authHandlers := handlers.NewAuth(sessionStore, userStore)

	// Set up the Chi router with all middleware and routes.
	r := router.New(sessionStore, apiHandlers, adminHandlers, authHandlers)

	// Create the HTTP server with sensible timeouts.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
