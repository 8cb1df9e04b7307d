// Package redis builds the instrumented client that backs the shared
// circuit breaker state.
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultDialTimeout  = 2 * time.Second
	defaultReadTimeout  = 2 * time.Second
	defaultWriteTimeout = 2 * time.Second
	defaultPoolTimeout  = 2 * time.Second

	defaultPingTimeout = 2 * time.Second

	defaultPoolSize     = 20
	defaultMinIdleConns = 2
)

type Config struct {
	// host:port. An empty Addr disables redis and the breaker.
	Addr     string
	Password string
	DB       int
	// Reported by CLIENT LIST.
	Name string
	// Providers for redisotel. The global ones are used when nil.
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
}

func NewClient(c Config, logger *slog.Logger) *redis.Client {
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(
		slog.String("component", "redis"),
		slog.String("addr", c.Addr),
		slog.Int("db", c.DB),
	)

	opts := &redis.Options{
		Addr:         c.Addr,
		Password:     c.Password,
		DB:           c.DB,
		DialTimeout:  defaultDialTimeout,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		PoolTimeout:  defaultPoolTimeout,
		PoolSize:     defaultPoolSize,
		MinIdleConns: defaultMinIdleConns,
		ClientName:   c.Name,
	}

	logger.Info("initializing redis client")

	rdb := redis.NewClient(opts)

	var tracing []redisotel.TracingOption
	if c.TracerProvider != nil {
		tracing = append(tracing, redisotel.WithTracerProvider(c.TracerProvider))
	}
	err := redisotel.InstrumentTracing(rdb, tracing...)
	if err != nil {
		logger.Warn("redis tracing instrumentation failed", slog.Any("error", err))
	}

	var metrics []redisotel.MetricsOption
	if c.MeterProvider != nil {
		metrics = append(metrics, redisotel.WithMeterProvider(c.MeterProvider))
	}
	err = redisotel.InstrumentMetrics(rdb, metrics...)
	if err != nil {
		logger.Warn("redis metrics instrumentation failed", slog.Any("error", err))
	}
	return rdb
}

// Ping checks rdb within defaultPingTimeout unless ctx ends sooner.
func Ping(ctx context.Context, rdb *redis.Client) error {
	ctx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping %s: %w", rdb.Options().Addr, err)
	}
	return nil
}
