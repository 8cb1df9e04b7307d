package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/DSACMS/training-registry-client/pkg/choice"
	"github.com/DSACMS/training-registry-client/pkg/circuitbreaker"
	"github.com/DSACMS/training-registry-client/pkg/core"
	"github.com/DSACMS/training-registry-client/pkg/dispatch"
	"github.com/DSACMS/training-registry-client/pkg/encryption"
	"github.com/DSACMS/training-registry-client/pkg/httprequest"
	ri "github.com/DSACMS/training-registry-client/pkg/requestinfo"
)

var (
	ErrUnknownEnvironment = errors.New("unknown registry environment")
	ErrNoInfo             = errors.New("operation requires request info")
)

const apiVersionHeader = "x-api-version"

var baseURLs = map[string]string{
	"production": "https://api.ssg-wsg.sg",
	"uat":        "https://uat-api.ssg-wsg.sg",
	"mock":       "https://mock-api.ssg-wsg.sg",
}

// BaseURL resolves the registry root for cfg. An explicit BaseURL wins over
// the environment.
func BaseURL(cfg *core.RegistryConfig) (string, error) {
	if cfg.BaseURL != "" {
		return cfg.BaseURL, nil
	}
	base, ok := baseURLs[cfg.Environment]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownEnvironment, cfg.Environment)
	}
	return base, nil
}

type Options struct {
	// Override for testing the HTTP client
	HTTPClient httprequest.HTTPTransport
	// Breaker, when set, gates every request.
	Breaker circuitbreaker.Breaker
	// Structured logger using slog package
	Logger *slog.Logger
	// Telemetry providers. The global providers are used when nil.
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
}

// Client sends catalog operations to one registry environment.
type Client struct {
	cfg        *core.RegistryConfig
	baseURL    string
	client     httprequest.HTTPTransport
	cipher     *encryption.Cipher
	dispatcher *dispatch.Dispatcher
	logger     *slog.Logger
}

func New(ctx context.Context, cfg *core.RegistryConfig, opts Options) (*Client, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(
		slog.String("component", "registry"),
		slog.String("environment", cfg.Environment),
	)

	baseURL, err := BaseURL(cfg)
	if err != nil {
		return nil, err
	}

	var cipher *encryption.Cipher
	if cfg.EncryptionKey != "" {
		cipher, err = encryption.FromBase64(cfg.EncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("registry encryption key: %w", err)
		}
	} else {
		logger.Warn("no encryption key configured, encrypted operations will fail")
	}

	timeout := cfg.Timeout()

	client := opts.HTTPClient
	if client == nil {
		client, err = newHTTPClient(ctx, cfg, timeout)
		if err != nil {
			return nil, err
		}
	}

	dispatcher, err := dispatch.New(dispatch.Options{
		Cipher:         cipher,
		Breaker:        opts.Breaker,
		Logger:         opts.Logger,
		TracerProvider: opts.TracerProvider,
		MeterProvider:  opts.MeterProvider,
		Timeout:        timeout,
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		cfg:        cfg,
		baseURL:    baseURL,
		client:     client,
		cipher:     cipher,
		dispatcher: dispatcher,
		logger:     logger,
	}, nil
}

func newHTTPClient(ctx context.Context, cfg *core.RegistryConfig, timeout time.Duration) (*http.Client, error) {
	var cc *clientcredentials.Config
	if cfg.OAuthClientID != "" {
		cc = &clientcredentials.Config{
			ClientID:     cfg.OAuthClientID,
			ClientSecret: cfg.OAuthClientSecret,
			TokenURL:     cfg.OAuthTokenURL,
		}
	}

	if cfg.CertPath == "" {
		base := httprequest.HeaderPreservingClient()
		base.Timeout = timeout
		if cc == nil {
			return base, nil
		}
		return httprequest.ClientCredentialsHTTPClient(ctx, cc, base), nil
	}

	client, err := httprequest.NewMutualTLSClient(ctx, httprequest.TLSOptions{
		CertFile: cfg.CertPath,
		KeyFile:  cfg.KeyPath,
		CAFile:   cfg.CAPath,
		Timeout:  timeout,
		OAuth:    cc,
	})
	if err != nil {
		return nil, fmt.Errorf("registry client: %w", err)
	}
	return client, nil
}

// Cipher returns the configured payload cipher, nil when no key is set.
func (c *Client) Cipher() *encryption.Cipher {
	return c.cipher
}

// UEN is the training provider UEN used to prefill request infos.
func (c *Client) UEN() string {
	return c.cfg.UEN
}

// Submission is one operation call: path values, query values and the
// request info for operations with a body.
type Submission struct {
	Operation string
	Path      map[string]string
	Query     map[string]any
	Info      ri.RequestInfo
}

// Prepared is a validated submission turned into a request.
type Prepared struct {
	Operation Operation
	Result    ri.Result
	builder   *httprequest.Builder
}

// Preview renders the request as it will be sent, before encryption.
func (p *Prepared) Preview() string {
	return p.builder.Repr(p.Operation.Method)
}

// Prepare validates the submission and builds its request. A submission with
// validation errors returns the Result together with an *ri.InvalidError.
func (c *Client) Prepare(sub Submission) (*Prepared, error) {
	op, err := Lookup(sub.Operation)
	if err != nil {
		return nil, err
	}

	var (
		result ri.Result
		body   map[string]any
	)
	if op.HasBody() {
		if sub.Info == nil {
			return nil, fmt.Errorf("%w: %s", ErrNoInfo, op.Name)
		}

		result = sub.Info.Validate()
		if err := result.Err(); err != nil {
			return &Prepared{Operation: op, Result: result}, err
		}

		body, err = sub.Info.Payload(false)
		if err != nil {
			return nil, fmt.Errorf("build %s payload: %w", op.Name, err)
		}
	}

	path, err := op.Expand(c.withUEN(op.PathParams(), sub.Path))
	if err != nil {
		return nil, err
	}

	b := httprequest.New(c.client, c.cipher).
		WithEndpoint(c.baseURL, path).
		WithHeader(apiVersionHeader, choice.Ternary(op.APIVersion != "", op.APIVersion, c.cfg.APIVersion))

	if err := c.applyQuery(b, op, sub.Query); err != nil {
		return nil, err
	}
	if body != nil {
		b.WithBody(body)
	}
	if err := b.Err(); err != nil {
		return nil, err
	}

	return &Prepared{Operation: op, Result: result, builder: b}, nil
}

// withUEN fills a missing "uen" path value from the configuration.
func (c *Client) withUEN(names []string, values map[string]string) map[string]string {
	out := make(map[string]string, len(values)+1)
	for k, v := range values {
		out[k] = v
	}
	for _, name := range names {
		if name == "uen" && out[name] == "" && c.cfg.UEN != "" {
			out[name] = c.cfg.UEN
		}
	}
	return out
}

func (c *Client) applyQuery(b *httprequest.Builder, op Operation, values map[string]any) error {
	var errs []error
	for name := range values {
		if _, ok := op.param(name); !ok {
			errs = append(errs, fmt.Errorf("%w: query %q", ErrUnknownParam, name))
		}
	}

	for _, p := range op.Query {
		v, ok := values[p.Name]
		if (!ok || v == nil || v == "") && p.Name == "uen" && c.cfg.UEN != "" {
			v, ok = c.cfg.UEN, true
		}
		if !ok || v == nil || v == "" {
			if p.Required {
				errs = append(errs, fmt.Errorf("%w: query %q", ErrMissingParam, p.Name))
			}
			continue
		}
		b.WithParam(p.Name, v)
	}
	return errors.Join(errs...)
}

// Preview validates and renders a submission without sending it.
type Preview struct {
	Result  ri.Result `json:"result"`
	Request string    `json:"request"`
}

func (c *Client) Preview(sub Submission) (Preview, error) {
	p, err := c.Prepare(sub)
	if err != nil {
		if p != nil {
			return Preview{Result: p.Result}, err
		}
		return Preview{}, err
	}
	return Preview{Result: p.Result, Request: p.Preview()}, nil
}

// Submitted is the result of a dispatched submission.
type Submitted struct {
	Result  ri.Result        `json:"result"`
	Outcome dispatch.Outcome `json:"outcome"`
}

// Submit validates, builds and sends a submission. Warnings do not block the
// request.
func (c *Client) Submit(ctx context.Context, sub Submission) (Submitted, error) {
	p, err := c.Prepare(sub)
	if err != nil {
		if p != nil {
			return Submitted{Result: p.Result}, err
		}
		return Submitted{}, err
	}

	if len(p.Result.Warnings) > 0 {
		c.logger.InfoContext(ctx, "submitting with warnings",
			slog.String("operation", p.Operation.Name),
			slog.Int("warnings", len(p.Result.Warnings)),
		)
	}

	outcome, err := c.dispatcher.Do(ctx, p.Operation.Name, p.sender(), p.Operation.Decrypt)
	return Submitted{Result: p.Result, Outcome: outcome}, err
}

func (p *Prepared) sender() dispatch.Sender {
	switch {
	case p.Operation.Method == http.MethodGet:
		return p.builder.Get
	case p.Operation.Encrypted:
		return p.builder.PostEncrypted
	default:
		return p.builder.Post
	}
}

// Decode reads a JSON request info for op, rejecting unknown fields.
func Decode(op Operation, uen string, raw json.RawMessage) (ri.RequestInfo, error) {
	info := op.NewInfo(uen)
	if info == nil {
		if len(raw) > 0 && string(raw) != "null" {
			return nil, fmt.Errorf("%s takes no request info", op.Name)
		}
		return nil, nil
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoInfo, op.Name)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(info); err != nil {
		return nil, fmt.Errorf("decode %s: %w", op.Name, err)
	}
	return info, nil
}
