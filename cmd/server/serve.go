package main

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

	"github.com/ashureev/nextgen-minds/internal/api"
	"github.com/ashureev/nextgen-minds/internal/auth"
	"github.com/ashureev/nextgen-minds/internal/catalog"
	"github.com/ashureev/nextgen-minds/internal/chat"
	"github.com/ashureev/nextgen-minds/internal/config"
	"github.com/ashureev/nextgen-minds/internal/store"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default)",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	logger := slog.Default()

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment())

	repo, err := store.NewSQLite(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(cmd.Context()); err != nil {
		return fmt.Errorf("database health check: %w", err)
	}
	slog.Info("Database connected", "path", cfg.DatabaseURL)

	seed, err := catalog.Default()
	if err != nil {
		return err
	}
	seeded, err := catalog.Seed(cmd.Context(), repo, seed, false)
	if err != nil {
		return err
	}
	slog.Info("Catalog ready", "seeded", seeded)

	var completer chat.Completer
	if cfg.ChatEnabled() {
		g, err := chat.NewGenAICompleter(cmd.Context(), cfg.Chat.APIKey)
		if err != nil {
			return err
		}
		completer = g
		slog.Info("Chat enabled", "model", cfg.Chat.Model)
	} else {
		slog.Info("Chat disabled (CHAT_API_KEY not set)")
	}

	limiter := chat.NewRateLimiter(cfg.RateLimit.RequestsPerWindow, cfg.RateLimit.WindowDuration)
	defer limiter.Stop()

	h := api.NewHandler(api.Deps{
		Repo:           repo,
		Issuer:         auth.NewIssuer(cfg.JWT.Secret, cfg.JWT.ExpiresIn),
		Chat:           chat.NewService(completer, cfg.Chat.Model, logger),
		Limiter:        limiter,
		Logger:         logger,
		Dev:            cfg.IsDevelopment(),
		AllowedOrigins: cfg.AllowedOrigins(),
		MaxBodyBytes:   cfg.MaxBodyBytes,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      api.NewRouter(h, chiMiddleware.Logger),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // websocket chat holds connections open
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("Server stopped successfully")
	return nil
}
