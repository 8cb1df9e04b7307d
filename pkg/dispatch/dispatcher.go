package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/DSACMS/training-registry-client/pkg/circuitbreaker"
	"github.com/DSACMS/training-registry-client/pkg/encryption"
)

const (
	instrumentationName = "github.com/DSACMS/training-registry-client/pkg/dispatch"
	snippetLimit        = 800
)

// Outcome is a classified registry response.
type Outcome struct {
	RequestID string `json:"requestId"`
	Status    int    `json:"status"`
	Class     Class  `json:"class"`
	Notice    string `json:"notice"`
	Detail    string `json:"detail"`
	// JSON holds the decoded body when it parsed, Text the raw body otherwise.
	JSON      any    `json:"json,omitempty"`
	Text      string `json:"text,omitempty"`
	Decrypted bool   `json:"decrypted"`
}

// Sender performs the request, typically one of the httprequest.Builder
// terminal calls.
type Sender func(ctx context.Context) (*http.Response, error)

type Options struct {
	// Cipher decrypts responses of encrypted operations.
	Cipher *encryption.Cipher
	// Breaker, when set, is consulted before every request.
	Breaker circuitbreaker.Breaker
	// Structured logger using slog package
	Logger *slog.Logger
	// Telemetry providers. The global providers are used when nil.
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
	// Context timeout
	Timeout time.Duration
}

type Dispatcher struct {
	cipher   *encryption.Cipher
	breaker  circuitbreaker.Breaker
	logger   *slog.Logger
	tracer   trace.Tracer
	requests metric.Int64Counter
	opts     Options
}

func New(opts Options) (*Dispatcher, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(
		slog.String("component", "dispatch"),
		slog.String("vendor", "training-registry"),
	)

	tp := opts.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	mp := opts.MeterProvider
	if mp == nil {
		mp = otel.GetMeterProvider()
	}

	requests, err := mp.Meter(instrumentationName).Int64Counter(
		"registry.requests",
		metric.WithDescription("Requests sent to the training registry"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create request counter: %w", err)
	}

	return &Dispatcher{
		cipher:   opts.Cipher,
		breaker:  opts.Breaker,
		logger:   logger,
		tracer:   tp.Tracer(instrumentationName),
		requests: requests,
		opts:     opts,
	}, nil
}

// Do sends one request for the named operation and handles its response.
// Requests are never retried.
func (d *Dispatcher) Do(ctx context.Context, operation string, send Sender, requireDecryption bool) (Outcome, error) {
	if d.opts.Timeout > 0 {
		if _, hasDeadline := ctx.Deadline(); !hasDeadline {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, d.opts.Timeout)
			defer cancel()
		}
	}

	requestID := uuid.NewString()
	ctx, span := d.tracer.Start(ctx, "registry."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("registry.operation", operation),
			attribute.String("registry.request_id", requestID),
			attribute.Bool("registry.decrypt", requireDecryption),
		),
	)
	defer span.End()

	log := d.logger.With(
		slog.String("operation", operation),
		slog.String("request_id", requestID),
	)

	outcome, err := d.do(ctx, log, send, requireDecryption)
	outcome.RequestID = requestID

	class := "error"
	if outcome.Status != 0 {
		class = outcome.Class.String()
		span.SetAttributes(attribute.Int("http.response.status_code", outcome.Status))
	}
	d.requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("class", class),
	))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else if outcome.Class == Failure {
		span.SetStatus(codes.Error, outcome.Notice)
	}
	return outcome, err
}

func (d *Dispatcher) do(ctx context.Context, log *slog.Logger, send Sender, requireDecryption bool) (Outcome, error) {
	if d.breaker != nil {
		if err := d.breaker.Allow(ctx); err != nil {
			log.Warn("registry request blocked by circuit breaker", slog.Any("error", err))
			return Outcome{}, ClassifyError(err)
		}
	}

	start := time.Now()
	resp, err := send(ctx)
	latency := time.Since(start)

	if err != nil {
		err = ClassifyError(err)

		if d.breaker != nil {
			var netErr *NetworkError
			if errors.As(err, &netErr) && netErr.Category == CategoryConnection {
				d.breaker.OnFailure(ctx)
			} else {
				d.breaker.Release(ctx)
			}
		}

		log.Error("registry request failed",
			slog.Any("error", err),
			slog.Duration("latency", latency),
		)
		return Outcome{}, err
	}
	defer resp.Body.Close()

	log.Info("registry response received",
		slog.Int("status", resp.StatusCode),
		slog.String("content_type", resp.Header.Get("Content-Type")),
		slog.Duration("latency", latency),
	)

	if d.breaker != nil {
		if resp.StatusCode >= http.StatusInternalServerError {
			d.breaker.OnFailure(ctx)
		} else {
			d.breaker.OnSuccess(ctx)
		}
	}

	outcome, err := d.Handle(resp, requireDecryption)
	if outcome.Class == Failure {
		log.Error("registry non-2xx",
			slog.Int("status", outcome.Status),
			slog.String("body_snippet", snippet(outcome.Text, outcome.JSON)),
		)
	}
	if err != nil {
		log.Error("registry response decryption failed", slog.Any("error", err))
	}
	return outcome, err
}

// Handle reads and classifies resp. When requireDecryption is set and the
// status is a success, the body is decrypted first. A body that is not JSON
// is returned as text.
func (d *Dispatcher) Handle(resp *http.Response, requireDecryption bool) (Outcome, error) {
	short, long := Notice(resp.StatusCode)
	outcome := Outcome{
		Status: resp.StatusCode,
		Class:  Classify(resp.StatusCode),
		Notice: short,
		Detail: long,
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return outcome, fmt.Errorf("read response body: %w", err)
	}

	if requireDecryption && outcome.Class == Success {
		plain, err := d.decrypt(body)
		if err != nil {
			outcome.Text = string(body)
			return outcome, fmt.Errorf("%w: %w", ErrDecrypt, err)
		}
		body = plain
		outcome.Decrypted = true
	}

	decodeBody(&outcome, body)
	return outcome, nil
}

// decrypt accepts the ciphertext either bare or as a JSON string.
func (d *Dispatcher) decrypt(body []byte) ([]byte, error) {
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '"' {
		var s string
		if err := json.Unmarshal(body, &s); err != nil {
			return nil, fmt.Errorf("unquote ciphertext: %w", err)
		}
		body = []byte(s)
	}
	return d.cipher.Decrypt(body)
}

func decodeBody(o *Outcome, body []byte) {
	if len(bytes.TrimSpace(body)) == 0 {
		return
	}

	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		o.Text = string(body)
		return
	}
	o.JSON = v
}

func snippet(text string, v any) string {
	if text == "" && v != nil {
		b, _ := json.Marshal(v)
		text = string(b)
	}
	if len(text) > snippetLimit {
		text = text[:snippetLimit] + "..."
	}
	return text
}
