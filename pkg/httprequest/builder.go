// Package httprequest builds and sends requests to the training registry:
// a fluent Builder that accumulates the endpoint, headers, query parameters
// and body, and an HTTP client authenticated with a client certificate.
package httprequest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/http/httpguts"

	"github.com/DSACMS/training-registry-client/pkg/encryption"
)

var (
	ErrNoEndpoint      = errors.New("no endpoint configured")
	ErrInvalidEndpoint = errors.New("invalid endpoint")
	ErrInvalidHeader   = errors.New("invalid header")
	ErrInvalidParam    = errors.New("invalid query parameter")
	ErrAlreadySent     = errors.New("request already sent")
)

const jsonContentType = "application/json"

type HTTPTransport interface {
	Do(req *http.Request) (*http.Response, error)
}

type pair struct {
	key   string
	value string
}

// ordered is a small insertion-ordered map. Setting an existing key keeps its
// original position.
type ordered []pair

func (o ordered) set(key, value string) ordered {
	for i := range o {
		if o[i].key == key {
			o[i].value = value
			return o
		}
	}
	return append(o, pair{key, value})
}

// Builder accumulates one request. The first error from a fluent call is kept
// and returned by the terminal call. A Builder sends at most one request.
type Builder struct {
	client   HTTPTransport
	cipher   *encryption.Cipher
	endpoint string
	headers  ordered
	params   ordered
	body     string
	err      error
	sent     bool
}

// New returns a Builder sending through client. cipher may be nil when no
// encrypted requests are made.
func New(client HTTPTransport, cipher *encryption.Cipher) *Builder {
	if client == nil {
		client = HeaderPreservingClient()
	}
	b := &Builder{client: client, cipher: cipher}
	b.headers = b.headers.set("accept", jsonContentType)
	return b
}

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// Err returns the first error recorded by a fluent call.
func (b *Builder) Err() error {
	return b.err
}

// WithEndpoint sets the request URL to base joined with suffix by exactly one
// slash. Trailing slashes on both parts are dropped.
func (b *Builder) WithEndpoint(base, suffix string) *Builder {
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		return b.fail(fmt.Errorf("%w: %q must start with http:// or https://", ErrInvalidEndpoint, base))
	}

	base = strings.TrimRight(base, "/")
	suffix = strings.TrimRight(suffix, "/")
	if suffix != "" && !strings.HasPrefix(suffix, "/") {
		suffix = "/" + suffix
	}
	b.endpoint = base + suffix
	return b
}

func (b *Builder) WithHeader(key, value string) *Builder {
	if key == "" || !httpguts.ValidHeaderFieldName(key) {
		return b.fail(fmt.Errorf("%w: name %q", ErrInvalidHeader, key))
	}
	if !httpguts.ValidHeaderFieldValue(value) {
		return b.fail(fmt.Errorf("%w: value for %q", ErrInvalidHeader, key))
	}
	b.headers = b.headers.set(key, value)
	return b
}

// WithParam adds a query parameter. Any JSON-serialisable value is accepted;
// strings are sent as-is and other values in their JSON form.
func (b *Builder) WithParam(key string, value any) *Builder {
	if key == "" {
		return b.fail(fmt.Errorf("%w: empty key", ErrInvalidParam))
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return b.fail(fmt.Errorf("%w: %q: %w", ErrInvalidParam, key, err))
	}

	s, ok := value.(string)
	if !ok {
		s = string(raw)
	}
	b.params = b.params.set(key, s)
	return b
}

// WithBody serialises body to compact JSON immediately. Later changes to body
// do not affect the request.
func (b *Builder) WithBody(body map[string]any) *Builder {
	raw, err := json.Marshal(body)
	if err != nil {
		return b.fail(fmt.Errorf("marshal body: %w", err))
	}
	b.body = string(raw)
	b.headers = b.headers.set("Content-Type", jsonContentType)
	return b
}

// URL returns the endpoint with the query string appended.
func (b *Builder) URL() string {
	if len(b.params) == 0 {
		return b.endpoint
	}

	parts := make([]string, 0, len(b.params))
	for _, p := range b.params {
		parts = append(parts, url.QueryEscape(p.key)+"="+url.QueryEscape(p.value))
	}
	return b.endpoint + "?" + strings.Join(parts, "&")
}

// Repr renders the request for preview. The output only depends on the
// builder state.
func (b *Builder) Repr(method string) string {
	var sb strings.Builder
	sb.WriteString(method + " " + b.URL() + "\n")

	sb.WriteString("\nHeaders:\n")
	for _, h := range b.headers {
		sb.WriteString(h.key + ": " + h.value + "\n")
	}

	sb.WriteString("\nBody:\n")
	if b.body != "" {
		var indented bytes.Buffer
		if err := json.Indent(&indented, []byte(b.body), "", "    "); err != nil {
			sb.WriteString(b.body)
		} else {
			sb.Write(indented.Bytes())
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (b *Builder) Get(ctx context.Context) (*http.Response, error) {
	return b.send(ctx, http.MethodGet, nil)
}

// Post sends the stored JSON body as is.
func (b *Builder) Post(ctx context.Context) (*http.Response, error) {
	return b.send(ctx, http.MethodPost, []byte(b.body))
}

// PostEncrypted encrypts the stored JSON body and sends the ciphertext as a
// bare JSON string.
func (b *Builder) PostEncrypted(ctx context.Context) (*http.Response, error) {
	if err := b.ready(); err != nil {
		return nil, err
	}

	ciphertext, err := b.cipher.EncryptString(b.body)
	if err != nil {
		return nil, fmt.Errorf("encrypt body: %w", err)
	}
	payload, err := json.Marshal(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("marshal encrypted body: %w", err)
	}
	b.headers = b.headers.set("Content-Type", jsonContentType)
	return b.send(ctx, http.MethodPost, payload)
}

func (b *Builder) ready() error {
	switch {
	case b.err != nil:
		return b.err
	case b.endpoint == "":
		return ErrNoEndpoint
	case b.sent:
		return ErrAlreadySent
	}
	return nil
}

func (b *Builder) send(ctx context.Context, method string, body []byte) (*http.Response, error) {
	if err := b.ready(); err != nil {
		return nil, err
	}
	b.sent = true

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.URL(), reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for _, h := range b.headers {
		if method == http.MethodGet && h.key == "Content-Type" {
			continue
		}
		req.Header.Set(h.key, h.value)
	}

	return b.client.Do(req)
}
