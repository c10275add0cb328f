// Package main initializes and runs the offerlock admin plane.
//
// It is the composition root for the rule management API: it wires the
// Redis rule store, the Postgres product catalog (with the picker cache),
// the rule set service, and the HTTP server, and owns their lifecycle.
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

	"github.com/dmartinc/offerlock/internal/adminapi"
	"github.com/dmartinc/offerlock/internal/catalog"
	"github.com/dmartinc/offerlock/internal/config"
	"github.com/dmartinc/offerlock/internal/database"
	"github.com/dmartinc/offerlock/internal/logger"
	"github.com/dmartinc/offerlock/internal/service"
	"github.com/dmartinc/offerlock/internal/store"
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

	log.Info("starting offerlock admin plane")
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

	products, err := catalog.NewCachedCatalog(
		catalog.NewPostgresCatalog(pool),
		cfg.Server.Admin.ProductCacheSize,
		cfg.Server.Admin.ProductCacheTTL,
	)
	if err != nil {
		return fmt.Errorf("failed to build catalog cache: %w", err)
	}
	defer products.Close()

	rules := service.New(ruleStore, cfg.Pricing.Decimals, log)

	// Running without an API key is allowed only outside production; the
	// config validator enforces the hash there.
	skipAuth := cfg.App.Environment != config.EnvironmentProduction && cfg.Server.Admin.APIKeyHash == ""
	if skipAuth {
		log.Warn("admin API authentication disabled: no API key hash configured")
	}

	api := adminapi.NewAPIWithConfig(adminapi.Deps{
		Rules:     rules,
		RuleStore: ruleStore,
		Products:  products,
		Decimals:  cfg.Pricing.Decimals,
	}, cfg.Server.Admin.APIKeyHash, skipAuth)

	// -------------------------------------------------------------------------
	// 4. HTTP Server
	// -------------------------------------------------------------------------
	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Admin.Host, cfg.Server.Admin.Port),
		Handler:           api.Router,
		ReadTimeout:       cfg.Server.Admin.ReadTimeout,
		WriteTimeout:      cfg.Server.Admin.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.Admin.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.Admin.IdleTimeout,
		MaxHeaderBytes:    cfg.Server.Admin.MaxHeaderBytes,
		BaseContext:       func(net.Listener) context.Context { return logger.WithContext(context.Background(), log) },
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("admin plane listening", slog.String("addr", srv.Addr), slog.Bool("tls", cfg.Server.Admin.TLSEnabled))

		var serveErr error
		if cfg.Server.Admin.TLSEnabled {
			serveErr = srv.ListenAndServeTLS(cfg.Server.Admin.TLSCert, cfg.Server.Admin.TLSKey)
		} else {
			serveErr = srv.ListenAndServe()
		}
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
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

	log.Info("admin plane exited")
	return nil
}
