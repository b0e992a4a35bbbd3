// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/veslatte/clipdex/internal/api"
	"github.com/veslatte/clipdex/internal/catalog"
	"github.com/veslatte/clipdex/internal/mcpserver"
	"github.com/veslatte/clipdex/internal/metacache"
	"github.com/veslatte/clipdex/internal/settings"
	"github.com/veslatte/clipdex/internal/sse"
	"github.com/veslatte/clipdex/internal/storage"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger. In MCP mode stdout carries the
	// protocol, so logs go to stderr.
	logOut := os.Stdout
	if app.mcpMode {
		logOut = os.Stderr
	}
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("vault_path", cfg.Vault.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Ensure vault directory exists.
	if err := os.MkdirAll(cfg.Vault.Path, 0o755); err != nil {
		return fmt.Errorf("create vault dir: %w", err)
	}

	// Initialize storage.
	store, err := storage.NewFS(cfg.Vault.Path)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	// Initialize SQLite metadata cache.
	cache, err := metacache.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init metadata cache: %w", err)
	}
	defer cache.Close()

	// Mutable settings store, seeded from config defaults on first run.
	settingsStore, err := settings.Open(cfg.Settings.Dir, settings.Settings{
		SourceProperties:       cfg.Catalog.SourceProperties,
		ReadProperty:           cfg.Catalog.ReadProperty,
		IncludeFrontmatterTags: cfg.Catalog.IncludeFrontmatterTags,
	})
	if err != nil {
		return fmt.Errorf("init settings store: %w", err)
	}

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)

	// Catalog engine.
	interval := time.Duration(cfg.Catalog.RefreshIntervalSeconds) * time.Second
	engine := catalog.NewEngine(store, cache, settingsStore, interval, logger, broker.PublishCatalogEvent)

	// Any settings change invalidates the current catalog.
	settingsStore.OnChange(engine.RequestRefresh)

	g, gCtx := errgroup.WithContext(ctx)

	// Catalog refresh loop (timer plus trigger requests).
	g.Go(func() error {
		return engine.Run(gCtx)
	})

	// Vault file watcher feeding refresh requests.
	g.Go(func() error {
		if err := catalog.Watch(gCtx, cfg.Vault.Path, logger, engine.RequestRefresh); err != nil {
			logger.Warn("watcher stopped", slog.String("error", err.Error()))
		}
		return nil
	})

	if app.mcpMode {
		// Serve the catalog over MCP stdio instead of HTTP.
		engine.RefreshNow(gCtx)
		mcpSrv := mcpserver.New(engine)

		g.Go(func() error {
			logger.Info("Starting MCP server on stdio")
			if err := mcpSrv.ServeStdio(); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("MCP server error: %w", err)
			}
			return nil
		})

		if err := g.Wait(); err != nil {
			logger.Error("Application error", slog.String("error", err.Error()))
			return err
		}
		return nil
	}

	// Build API router.
	apiRouter := api.NewRouter(engine, settingsStore, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
