package httprequest

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

var ErrInvalidCA = errors.New("no certificates found in CA bundle")

// TLSOptions configures the client certificate used against the registry.
type TLSOptions struct {
	CertFile string
	KeyFile  string
	// CAFile optionally replaces the system roots.
	CAFile  string
	Timeout time.Duration
	// OAuth enables client-credentials tokens on top of the certificate.
	OAuth *clientcredentials.Config
}

// NewMutualTLSClient returns a client presenting the configured certificate
// and key (PEM) on every connection.
func NewMutualTLSClient(ctx context.Context, opts TLSOptions) (*http.Client, error) {
	cert, err := tls.LoadX509KeyPair(opts.CertFile, opts.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("load client certificate: %w", err)
	}

	tlsConfig := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}

	if opts.CAFile != "" {
		pem, err := os.ReadFile(opts.CAFile)
		if err != nil {
			return nil, fmt.Errorf("read CA bundle: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidCA, opts.CAFile)
		}
		tlsConfig.RootCAs = pool
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = tlsConfig

	base := HeaderPreservingClient()
	base.Transport = transport
	base.Timeout = opts.Timeout

	if opts.OAuth == nil {
		return base, nil
	}
	return ClientCredentialsHTTPClient(ctx, opts.OAuth, base), nil
}

// HeaderPreservingClient copies the original request headers onto every
// redirect.
func HeaderPreservingClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(r *http.Request, via []*http.Request) error {
			if len(via) > 0 {
				r.Header = via[0].Header.Clone()
			}

			return nil
		},
	}
}

// ClientCredentialsHTTPClient wraps base with an oauth2 token source. Token
// requests go through base too.
func ClientCredentialsHTTPClient(ctx context.Context, cc *clientcredentials.Config, base *http.Client) *http.Client {
	if base == nil {
		base = http.DefaultClient
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	client := oauth2.NewClient(ctx, cc.TokenSource(ctx))
	client.CheckRedirect = base.CheckRedirect
	client.Timeout = base.Timeout
	return client
}
