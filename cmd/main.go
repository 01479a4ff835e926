/*
Package main is the entry point for the cobrowse demo server.

It loads configuration, initializes the global logger, selects the session store,
serves the customer/agent pages and token API, and shuts down gracefully on
SIGINT or SIGTERM.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cobrowse/internal/app/cobrowse"
	"cobrowse/internal/app/session"
	"cobrowse/internal/configs"
	"cobrowse/internal/handler"
	"cobrowse/internal/pkg/auth/token"
	"cobrowse/internal/pkg/logx"
	"cobrowse/internal/web"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logx.InitGlobalLogger(cfg.IsDevelopment())
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Str("domain", cfg.Domain).
		Int("token_lifetime", cfg.TokenLifetimeSeconds).
		Bool("credentials_configured", cfg.CredentialsConfigured()).
		Msg("Configuration loaded successfully")

	if !cfg.CredentialsConfigured() {
		logx.Warn("COBROWSE_APP_KEY / COBROWSE_APP_SECRET are not set; token endpoints will answer 503")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := newSessionStore(ctx, cfg)
	if err != nil {
		logx.Fatal(err, "Failed to initialize session store")
	}

	assets, err := web.Assets(cfg.StaticDir)
	if err != nil {
		logx.Fatal(err, "Failed to load static assets")
	}

	codec := token.NewCodec()
	deps := &handler.AppDeps{
		Config:  cfg,
		Codec:   codec,
		Service: cobrowse.NewService(cfg, codec, store),
		Assets:  assets,
	}

	limiters := handler.NewLimiters()
	defer limiters.Stop()

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler.Router(deps, limiters),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("Cobrowse demo server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Error(err, "Server forced to shutdown")
	}

	if err := store.Close(); err != nil {
		logx.Error(err, "Failed to close session store")
	}

	logx.Info("Server gracefully stopped.")
}

// newSessionStore returns a Redis-backed store when REDIS_ADDR is set, in-memory otherwise.
func newSessionStore(ctx context.Context, cfg *configs.AppConfig) (session.Store, error) {
	if cfg.RedisAddr == "" {
		logx.Info("Using in-memory session store")
		return session.NewMemoryStore(), nil
	}

	dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client, err := session.DialRedis(dialCtx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, err
	}

	logx.Info("Using redis session store", "addr", cfg.RedisAddr)
	return session.NewRedisStore(client), nil
}
