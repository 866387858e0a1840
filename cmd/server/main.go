// NOVA - Study Assistant Server
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

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/novalabs/nova-server/internal/api"
	"github.com/novalabs/nova-server/internal/assistant"
	"github.com/novalabs/nova-server/internal/assistant/provider"
	"github.com/novalabs/nova-server/internal/auth"
	"github.com/novalabs/nova-server/internal/config"
	"github.com/novalabs/nova-server/internal/middleware"
	"github.com/novalabs/nova-server/internal/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment())

	// Initialize dependencies.
	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected")

	// Construct AI providers from immutable configuration. A missing
	// credential skips the provider; zero providers means every feature
	// runs on the deterministic canned responses.
	textProviders, visionProviders, providerNames := buildProviders(cfg)
	if len(providerNames) == 0 {
		slog.Info("No AI provider credentials configured, running in mock mode")
	} else {
		slog.Info("AI providers configured", "providers", providerNames)
	}

	pipeline := assistant.New(assistant.Options{
		Providers:       textProviders,
		VisionProviders: visionProviders,
		History:         repo,
		Timeout:         cfg.ProviderTimeout,
		HistoryWindow:   cfg.HistoryWindow,
	})

	authSvc := auth.NewService(repo, cfg.JWTSecret, cfg.TokenTTL)

	// Initialize handlers.
	baseHandler := api.NewHandler(repo, pipeline, authSvc)
	healthHandler := api.NewHealthHandler(repo, providerNames)
	wsHandler := api.NewChatSocketHandler(pipeline, authSvc, cfg.FrontendURL, cfg.IsDevelopment())

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/ping"))
	corsOrigins := []string{"*"}
	if cfg.FrontendURL != "" {
		corsOrigins = []string{cfg.FrontendURL}
	}
	r.Use(middleware.CORS(corsOrigins))

	// Public routes.
	healthHandler.RegisterHealth(r)

	// API routes (auth enforced per-route inside RegisterRoutes).
	baseHandler.RegisterRoutes(r)

	// WebSocket endpoint.
	r.Get("/ws/chat", wsHandler.ServeHTTP)

	// Create server.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start history retention sweep.
	if cfg.HistoryRetention > 0 {
		startRetentionWorker(ctx, repo, cfg.HistoryRetention)
		slog.Info("History retention worker started", "retention", cfg.HistoryRetention)
	}

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}

// buildProviders constructs every configured provider adapter in priority
// order: the chat-completion provider first, the alternate-model provider
// second. The vision provider serves only the image feature.
func buildProviders(cfg *config.Config) (text, vision []provider.Provider, names []string) {
	if openaiProv, err := provider.NewOpenAI(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.BaseURL); err == nil {
		text = append(text, openaiProv)
		names = append(names, openaiProv.Name())
	} else if !errors.Is(err, provider.ErrUnavailable) {
		slog.Warn("Failed to initialize OpenAI provider", "error", err)
	}

	if geminiProv, err := provider.NewGemini(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.BaseURL); err == nil {
		text = append(text, geminiProv)
		names = append(names, geminiProv.Name())
	} else if !errors.Is(err, provider.ErrUnavailable) {
		slog.Warn("Failed to initialize Gemini provider", "error", err)
	}

	if visionProv, err := provider.NewVision(cfg.Vision.APIKey, cfg.Vision.Model, cfg.Vision.BaseURL); err == nil {
		vision = append(vision, visionProv)
		names = append(names, visionProv.Name())
	} else if !errors.Is(err, provider.ErrUnavailable) {
		slog.Warn("Failed to initialize vision provider", "error", err)
	}

	return text, vision, names
}

// startRetentionWorker periodically purges history entries older than the
// retention window.
func startRetentionWorker(ctx context.Context, repo store.Repository, retention time.Duration) {
	interval := retention / 10
	if interval < time.Minute {
		interval = time.Minute
	}
	if interval > time.Hour {
		interval = time.Hour
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cutoff := time.Now().Add(-retention)
				purged, err := repo.PurgeHistoryOlderThan(ctx, cutoff)
				if err != nil {
					slog.Error("History retention sweep failed", "error", err)
					continue
				}
				if purged > 0 {
					slog.Info("History retention sweep complete", "purged", purged)
				}
			}
		}
	}()
}
