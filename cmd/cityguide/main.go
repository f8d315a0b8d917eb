// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the CityGuide API server.
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

	"cityguide/internal/cache"
	"cityguide/internal/config"
	"cityguide/internal/database"
	"cityguide/internal/handlers"
	"cityguide/internal/middleware"
	"cityguide/internal/router"
	"cityguide/internal/session"
	"cityguide/internal/storage"
	"cityguide/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

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

	// Connect to Valkey (response cache + session store).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// In non-development environments, mark cookies as Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)
	responseCache := cache.NewResponseCache(valkeyClient, cache.DefaultResponseTTL)

	// File storage: S3-compatible when configured, local disk otherwise.
	var fileStore storage.Store
	uploadsDir := ""
	if cfg.HasS3() {
		s3, err := storage.NewS3(
			cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
			cfg.S3Bucket, cfg.S3PublicURL,
		)
		if err != nil {
			slog.Error("failed to initialize S3 storage", "error", err)
			os.Exit(1)
		}
		fileStore = s3
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		local, err := storage.NewLocal(cfg.UploadDir, "/uploads")
		if err != nil {
			slog.Error("failed to initialize local storage", "error", err)
			os.Exit(1)
		}
		fileStore = local
		uploadsDir = local.Dir()
		slog.Info("local storage ready", "dir", uploadsDir)
	}

	// Login attempts are rate limited per client IP.
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)
	defer loginLimiter.Stop()

	r := router.New(router.Deps{
		Sessions:     sessionStore,
		Secure:       secureCookies,
		LoginLimiter: loginLimiter,

		Auth:        handlers.NewAuth(sessionStore, store.NewUserStore(db)),
		Categories:  handlers.NewCategories(store.NewCategoryStore(db), responseCache),
		Types:       handlers.NewTypes(store.NewTypeStore(db), responseCache),
		Brands:      handlers.NewBrands(store.NewBrandStore(db), responseCache),
		Businesses:  handlers.NewBusinesses(store.NewBusinessStore(db), responseCache),
		Attractions: handlers.NewAttractions(store.NewAttractionStore(db), responseCache),
		Events:      handlers.NewEvents(store.NewEventStore(db), responseCache),
		SubEvents:   handlers.NewSubEvents(store.NewSubEventStore(db), responseCache),
		Sections:    handlers.NewSections(store.NewSectionStore(db), responseCache),
		Upload:      handlers.NewUpload(fileStore),

		UploadsDir: uploadsDir,
	})

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
