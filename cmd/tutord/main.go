// TutorChat proxy server.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/tutorchat/tutorchat"
	"github.com/tutorchat/tutorchat/config"
	"github.com/tutorchat/tutorchat/provider"
	"github.com/tutorchat/tutorchat/render"
	"github.com/tutorchat/tutorchat/server"
	"github.com/tutorchat/tutorchat/store"
	"github.com/tutorchat/tutorchat/tags"
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

	slog.Info("Starting server", "port", cfg.Port, "renderer", cfg.Renderer,
		"credential_configured", cfg.ProviderAPIKey != "")

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

	gateway := provider.New(&provider.Config{
		BaseURL: cfg.ProviderBaseURL,
		Model:   cfg.ProviderModel,
	})

	var formatter render.Formatter = render.New()
	if cfg.Renderer == config.RendererMarkdown {
		formatter = render.NewMarkdown()
	}

	var tagLookup tutorchat.TagLookup
	if cfg.TagEndpoint != "" {
		tagLookup = tags.New(&tags.Config{Endpoint: cfg.TagEndpoint})
	}

	handler := server.New(gateway, repo, &server.Config{
		DefaultAPIKey:  cfg.ProviderAPIKey,
		AllowedOrigins: cfg.AllowedOrigins,
		Formatter:      formatter,
		Tags:           tagLookup,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	case sig := <-stop:
		slog.Info("Shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("Graceful shutdown failed", "error", err)
		}
	}
}
