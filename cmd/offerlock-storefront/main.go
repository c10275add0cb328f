// Package main initializes and runs the offerlock storefront plane.
//
// It is the composition root for the read-side price API: it wires the
// Redis rule store and the Postgres catalog into the price endpoints and
// owns the server lifecycle. Unlike the admin plane it carries no caching
// layer; every price read is live.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmartinc/offerlock/internal/catalog"
	"github.com/dmartinc/offerlock/internal/config"
	"github.com/dmartinc/offerlock/internal/database"
	"github.com/dmartinc/offerlock/internal/logger"
	"github.com/dmartinc/offerlock/internal/store"
	"github.com/dmartinc/offerlock/internal/storefrontapi"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// -------------------------------------------------------------------------
	// 1. Configuration & Logging
	// -------------------------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.New(&cfg.App)
	slog.SetDefault(log)
	ctx = logger.WithContext(ctx, log)

	log.Info("starting offerlock storefront plane")
	cfg.LogConfig(log)

	// -------------------------------------------------------------------------
	// 2. Infrastructure Setup
	// -------------------------------------------------------------------------
	pool, err := database.NewPostgresPool(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer pool.Close()

	redisClient, err := store.NewRedisClient(ctx, &cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer func() { _ = redisClient.Close() }()

	// -------------------------------------------------------------------------
	// 3. Wiring (Dependency Injection)
	// -------------------------------------------------------------------------
	ruleStore := store.NewRedisRuleStore(redisClient, cfg.Pricing.RulesKey, cfg.Pricing.Decimals)
	products := catalog.NewPostgresCatalog(pool)

	api := storefrontapi.NewAPI(storefrontapi.Deps{
		RuleStore: ruleStore,
		Products:  products,
		Decimals:  cfg.Pricing.Decimals,
	})

	// -------------------------------------------------------------------------
	// 4. HTTP Server
	// -------------------------------------------------------------------------
	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Storefront.Host, cfg.Server.Storefront.Port),
		Handler:           api.Router,
		ReadTimeout:       cfg.Server.Storefront.ReadTimeout,
		WriteTimeout:      cfg.Server.Storefront.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.Storefront.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.Storefront.IdleTimeout,
		BaseContext:       func(net.Listener) context.Context { return logger.WithContext(context.Background(), log) },
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("storefront plane listening", slog.String("addr", srv.Addr))
		if serveErr := srv.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server failed: %w", serveErr)
		}
	}()

	// -------------------------------------------------------------------------
	// 5. Graceful Shutdown
	// -------------------------------------------------------------------------
	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		log.Info("shutdown signal received, draining connections")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	log.Info("storefront plane exited")
	return nil
}
