package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/DSACMS/training-registry-client/api"
	"github.com/DSACMS/training-registry-client/pkg/circuitbreaker"
	"github.com/DSACMS/training-registry-client/pkg/core"
	"github.com/DSACMS/training-registry-client/pkg/redis"
	"github.com/DSACMS/training-registry-client/pkg/registry"
)

func main() {
	if err := core.LoadEnv(); err != nil {
		log.Printf("loading env files: %v", err)
	}

	cfg, err := core.NewConfigFromEnv()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var otelService core.OtelService
	logger := core.NewLogger(cfg)
	if !cfg.Otel.Disable {
		otelService, err = core.NewOtelService(ctx, &cfg)
		if err != nil {
			logger.Error("failed to start telemetry", slog.Any("error", err))
			otelService = nil
		} else {
			logger = core.NewLoggerWithOtel(cfg, otelService)
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				otelService.Shutdown(shutdownCtx, logger)
			}()
		}
	}
	slog.SetDefault(logger)

	app, cleanup, err := buildApp(ctx, cfg, logger, otelService)
	if err != nil {
		logger.Error("failed to build app", slog.Any("error", err))
		return
	}
	defer cleanup()

	if err := runServer(ctx, app, fmt.Sprintf(":%d", cfg.Port)); err != nil {
		logger.Error("server error", slog.Any("error", err))
	}
}

// buildApp wires redis, the breaker and the registry client into the fiber
// app. telemetry may be nil, in which case the global providers are used.
func buildApp(ctx context.Context, cfg core.Config, logger *slog.Logger, telemetry core.OtelService) (*fiber.App, func(), error) {
	var (
		rdb     *goredis.Client
		breaker circuitbreaker.Breaker
	)
	cleanup := func() {}

	if cfg.Registry.Breaker && cfg.Redis.Addr != "" {
		redisCfg := redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Name:     core.ServiceName,
		}
		if telemetry != nil {
			redisCfg.TracerProvider = telemetry.TracerProvider()
			redisCfg.MeterProvider = telemetry.MeterProvider()
		}
		rdb = redis.NewClient(redisCfg, logger)
		cleanup = func() { _ = rdb.Close() }

		breaker = circuitbreaker.NewRedisBreaker(
			rdb,
			"registry:"+cfg.Registry.Environment,
			circuitbreaker.DefaultOptions(),
			logger,
		)
	}

	opts := registry.Options{
		Breaker: breaker,
		Logger:  logger,
	}
	if telemetry != nil {
		opts.TracerProvider = telemetry.TracerProvider()
		opts.MeterProvider = telemetry.MeterProvider()
	}

	client, err := registry.New(ctx, &cfg.Registry, opts)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	app, err := api.New(&api.Config{
		Logger:   logger,
		Registry: client,
		Redis:    rdb,
		Config:   cfg,
	})
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return app, cleanup, nil
}

func runServer(ctx context.Context, app *fiber.App, addr string) error {
	srvErr := make(chan error, 1)

	go func() {
		srvErr <- app.Listen(addr)
	}()

	select {
	case err := <-srvErr:
		return err
	case <-ctx.Done():
	}

	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		return fmt.Errorf("error during shutdown: %w", err)
	}
	return nil
}
