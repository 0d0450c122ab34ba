// Copyright (c) 2025-2026 Monarch360
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/monarch360/sidenav-go/internal/cache"
	"github.com/monarch360/sidenav-go/internal/config"
	"github.com/monarch360/sidenav-go/internal/handler"
	"github.com/monarch360/sidenav-go/internal/logging"
	"github.com/monarch360/sidenav-go/internal/middleware"
	"github.com/monarch360/sidenav-go/internal/scheduler"
	"github.com/monarch360/sidenav-go/internal/service"
	"github.com/monarch360/sidenav-go/internal/store"
	"github.com/monarch360/sidenav-go/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "sidenav - sidebar navigation configuration service\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SIDENAV_SITE_URL          Portal site base URL (required)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SIDENAV_API_TOKEN         Bearer token for the asset storage API\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SIDENAV_ASSET_LIBRARY     Asset library name (default: SiteAssets)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SIDENAV_CONFIG_FILE       Configuration file name (default: monarchSidebarNav.json)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SIDENAV_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SIDENAV_CACHE_TTL         Cache TTL in seconds (default: 86400)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SIDENAV_REDIS_URL         Redis URL for shared caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SIDENAV_PREFS_DB_PATH     SQLite preferences database path (default: ./data/sidenav.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SIDENAV_REFRESH_SCHEDULE  Cache refresh cron spec (default: @every 15m)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("sidenav %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	versionInfo := &version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	// Setup logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Ensure data directory exists
	dbDir := filepath.Dir(cfg.PrefsDBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	// Initialize preferences database
	slog.Info("initializing database", "path", cfg.PrefsDBPath)
	db, err := store.NewDB(cfg.PrefsDBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade logger to also write WARN and ERROR records to the audit table
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	auditHandler := logging.NewAuditHandler(textHandler, db)
	logger = slog.New(auditHandler)
	slog.SetDefault(logger)
	slog.Info("audit log integration enabled", "min_level", "warn")

	// Cache: Redis when configured, in-memory otherwise
	appCache, err := cache.New(cache.Config{
		RedisURL:         cfg.RedisURL,
		Prefix:           cfg.CachePrefix,
		DefaultTTL:       cfg.CacheTTLDuration(),
		CleanupInterval:  time.Minute,
		FallbackToMemory: true,
	})
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() {
		if err := appCache.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()

	// Remote asset client and configuration service
	remote := store.NewAssetClient(store.AssetClientOptions{
		SiteURL:  cfg.SiteURL,
		Library:  cfg.AssetLibrary,
		FileName: cfg.ConfigFileName,
		Token:    cfg.APIToken,
	})
	svc := service.NewConfigService(service.Options{
		Remote:        remote,
		Cache:         appCache,
		CacheTTL:      cfg.CacheTTLDuration(),
		RetryAttempts: cfg.RetryAttempts,
		RetryDelay:    cfg.RetryDelayDuration(),
		UserName:      cfg.UserName,
		Logger:        logger,
	})

	// Warm the cache so the first request is served without a remote round
	// trip. Load never fails; a broken remote yields the defaults.
	if _, err := svc.Load(context.Background()); err != nil {
		slog.Warn("initial configuration load failed", "error", err)
	}

	// Background cache refresh
	if cfg.RefreshSchedule != "" {
		sched := scheduler.New(func(ctx context.Context) error {
			_, err := svc.Refresh(ctx)
			return err
		}, logger)
		if err := sched.Start(cfg.RefreshSchedule); err != nil {
			return fmt.Errorf("starting scheduler: %w", err)
		}
		defer sched.Stop()
	}

	// HTTP API
	router := handler.NewRouter(
		handler.NewConfigHandler(svc, logger),
		handler.NewPrefsHandler(store.NewPrefsStore(db), logger),
		handler.NewHealthHandler(db, appCache, versionInfo.Version),
	)

	rateLimiter := middleware.NewRateLimiter(10, 20)
	var root http.Handler = router
	root = rateLimiter.Middleware()(root)
	root = middleware.Timeout(30 * time.Second)(root)

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           root,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
