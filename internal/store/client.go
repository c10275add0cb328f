package store

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmartinc/offerlock/internal/config"
	"github.com/dmartinc/offerlock/internal/logger"
)

// NewRedisClient initializes the Redis client connection for the rule store
// using the provided configuration. It handles pooling, TLS, and an initial
// connectivity check with retries so a slow-starting Redis does not kill
// the process on boot.
func NewRedisClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("store: redis config cannot be nil")
	}

	opts := &redis.Options{
		Addr:         cfg.Address(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		PoolTimeout:  cfg.PoolTimeout,
		MaxRetries:   cfg.MaxRetries,
	}

	if cfg.TLSEnabled {
		opts.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
	}

	client := redis.NewClient(opts)

	log := logger.FromContext(ctx)
	backoff := cfg.PingBackoff

	var lastErr error
	for attempt := 1; attempt <= cfg.PingMaxRetries; attempt++ {
		initCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
		lastErr = client.Ping(initCtx).Err()
		cancel()

		if lastErr == nil {
			log.Info("connected to redis", slog.String("addr", cfg.Address()), slog.Int("attempt", attempt))
			return client, nil
		}

		log.Warn("redis ping failed",
			slog.Int("attempt", attempt),
			slog.Int("max_retries", cfg.PingMaxRetries),
			slog.String("error", lastErr.Error()),
		)

		if attempt < cfg.PingMaxRetries {
			select {
			case <-ctx.Done():
				_ = client.Close()
				return nil, fmt.Errorf("store: redis connect canceled: %w", ctx.Err())
			case <-time.After(backoff):
			}
			backoff *= 2
		}
	}

	_ = client.Close()
	return nil, fmt.Errorf("store: failed to connect to redis after %d attempts: %w", cfg.PingMaxRetries, lastErr)
}
