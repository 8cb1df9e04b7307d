package api

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/gofiber/contrib/otelfiber/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	slogfiber "github.com/samber/slog-fiber"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/DSACMS/training-registry-client/api/handlers"
	"github.com/DSACMS/training-registry-client/api/middleware"
	"github.com/DSACMS/training-registry-client/api/routes"
	"github.com/DSACMS/training-registry-client/pkg/core"
	"github.com/DSACMS/training-registry-client/pkg/registry"
)

func errorHandler(logger *slog.Logger) fiber.ErrorHandler {
	handleFiberError := func(ctx *fiber.Ctx, err *fiber.Error) error {
		span := trace.SpanFromContext(ctx.UserContext())
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Message)

		logger.ErrorContext(
			ctx.UserContext(),
			"fiber error",
			slog.Int("code", err.Code),
			slog.String("message", err.Message),
		)

		return ctx.
			Status(err.Code).
			SendString(err.Message)
	}

	return func(ctx *fiber.Ctx, err error) error {
		var e *fiber.Error
		if !errors.As(err, &e) {
			status := handlers.StatusFor(err)
			e = fiber.NewError(status, err.Error())
			if status == fiber.StatusInternalServerError {
				e = fiber.ErrInternalServerError
			}
		}
		return handleFiberError(ctx, e)
	}
}

func stackTraceHandler(logger *slog.Logger) func(*fiber.Ctx, any) {
	return func(c *fiber.Ctx, e any) {
		stack := debug.Stack()
		logger.ErrorContext(
			c.Context(),
			"panic!",
			slog.String("stack", string(stack)),
			slog.Any("err", e),
		)
	}
}

type Config struct {
	Logger *slog.Logger
	// Registry sends the submitted operations.
	Registry *registry.Client
	// Redis is pinged by /status when breaker state is shared. May be nil.
	Redis *redis.Client
	core.Config
}

func New(cfg *Config) (*fiber.App, error) {
	if cfg.Registry == nil {
		return nil, errors.New("registry client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	fiberConfig := fiber.Config{
		ErrorHandler: errorHandler(logger),
	}

	app := fiber.New(fiberConfig)

	app.Use(recover.New(recover.Config{
		Next:              nil,
		EnableStackTrace:  true,
		StackTraceHandler: stackTraceHandler(logger),
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "*",
		AllowMethods: "*",
	}))

	app.Use(otelfiber.Middleware())

	app.Use(slogfiber.NewWithConfig(
		logger,
		slogfiber.Config{
			WithRequestID: true,
			WithSpanID:    true,
			WithTraceID:   true,
		},
	))

	routes.StatusRouter(app, cfg.Redis)

	if !cfg.SkipAuth {
		verifier, err := middleware.NewCognitoVerifier(middleware.CognitoConfig{
			Region:     cfg.Cognito.Region,
			UserPoolID: cfg.Cognito.UserPoolID,
			ClientID:   cfg.Cognito.AppClientID,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize cognito middleware: %w", err)
		}
		app.Use(verifier.FiberMiddleware())
	}

	routes.RegisterRoutes(app, cfg.Registry, logger)

	return app, nil
}
