// Package main is the entry point for the CMS + QR backend server.
// It loads configuration, opens the database, sets up routing, and starts
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

	"lexcms/internal/auth"
	"lexcms/internal/config"
	"lexcms/internal/database"
	"lexcms/internal/handlers"
	"lexcms/internal/qr"
	"lexcms/internal/router"
	"lexcms/internal/store"
	"lexcms/internal/upload"
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
		"db", cfg.DBPath,
	)

	// Open the SQLite database.
	db, err := database.Connect(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
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

	// Prepare the upload root and its folder taxonomy.
	saver, err := upload.NewSaver(cfg)
	if err != nil {
		slog.Error("failed to prepare upload directories", "error", err)
		os.Exit(1)
	}
	saver.SweepTemp(time.Hour)

	// Initialize data stores.
	contentStore := store.NewContentStore(db)
	treeStore := store.NewTreeStore(db)
	profileStore := store.NewProfileStore(db)
	settingStore := store.NewSettingStore(db)
	activityStore := store.NewActivityStore(db)
	userStore := store.NewUserStore(db)
	sessionStore := store.NewSessionStore(db)

	// Auth service and QR artifact generator.
	authSvc := auth.NewService(userStore, sessionStore, activityStore, cfg.SessionTTL)
	qrGen := qr.NewGenerator(saver.Root())

	// Create the API handler group with its dependencies.
	api := handlers.New(cfg, contentStore, treeStore, profileStore,
		settingStore, activityStore, authSvc, saver, qrGen)

	// Set up the Chi router with all middleware and routes.
	r := router.New(cfg, api, authSvc)

	// Create the HTTP server with sensible timeouts. WriteTimeout must
	// accommodate large base64 uploads pushed through the image pipeline.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
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
