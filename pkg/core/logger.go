package core

import (
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
	"go.opentelemetry.io/contrib/bridges/otelslog"
)

func newStdoutHandler(cfg Config) slog.Handler {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.IsProd() {
		return slog.NewJSONHandler(os.Stdout, opts)
	}
	opts.AddSource = cfg.LogLevel <= slog.LevelDebug
	return slog.NewTextHandler(os.Stdout, opts)
}

// NewLogger writes JSON in production and text elsewhere, at cfg.LogLevel.
func NewLogger(cfg Config) *slog.Logger {
	stdoutHandler := newStdoutHandler(cfg)
	return slog.New(stdoutHandler).
		With(slog.String("registry_environment", cfg.Registry.Environment))
}

func NewLoggerWithOtel(cfg Config, otel OtelService) *slog.Logger {
	stdoutHandler := newStdoutHandler(cfg)
	otelHandler := otelslog.NewHandler(
		ServiceName,
		otelslog.WithLoggerProvider(otel.LoggerProvider()),
	)

	return slog.New(
		slogmulti.Fanout(
			stdoutHandler,
			otelHandler,
		),
	).With(slog.String("registry_environment", cfg.Registry.Environment))
}
