package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"storefront-bff/internal/analytics"
	"storefront-bff/internal/api"
	"storefront-bff/internal/auth"
	"storefront-bff/internal/cache"
	"storefront-bff/internal/cart"
	"storefront-bff/internal/checkout"
	"storefront-bff/internal/config"
	"storefront-bff/internal/dashboard"
	"storefront-bff/internal/logging"
	"storefront-bff/internal/server"
	"storefront-bff/internal/upstream"
)

func main() {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	logger.Info("starting storefront gateway", "port", cfg.HTTPPort, "upstream", cfg.CommerceAPIURL)

	redisClient, err := cache.NewClient(cfg.RedisAddr)
	if err != nil {
		logger.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	logger.Info("connected to redis", "addr", cfg.RedisAddr)

	upstreamClient := upstream.NewClient(cfg.CommerceAPIURL)

	cartService := cart.NewService(upstreamClient)
	draftStore := checkout.NewRedisStore(redisClient, cfg.DraftTTL)
	flow := checkout.NewFlow(upstreamClient, draftStore, cfg.ShippingFee)

	aggregator := dashboard.NewAggregator(upstreamClient, redisClient, cfg.ReportCacheTTL)
	view := dashboard.NewView()
	actions := dashboard.NewActions(upstreamClient, aggregator)

	tracker := analytics.NewTracker(cfg.LogSinkURL)

	handler := api.NewHandler(cfg, upstreamClient, cartService, flow, aggregator, view, actions, tracker, redisClient)
	authMiddleware := auth.NewMiddleware(cfg.JWTSecret)

	mux := api.NewRouter(handler, authMiddleware)
	root := server.CORS(cfg.AllowedOrigins, server.RequestLogging(logger, mux))

	addr := fmt.Sprintf("%s:%s", cfg.HTTPHost, cfg.HTTPPort)
	srv := server.New(logger, addr, root)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil {
			logger.Error("server stopped unexpectedly", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
