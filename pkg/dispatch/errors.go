package dispatch

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/DSACMS/training-registry-client/pkg/circuitbreaker"
	"github.com/DSACMS/training-registry-client/pkg/httprequest"
)

var ErrDecrypt = errors.New("could not decrypt response")

// Category names a kind of network failure.
type Category string

const (
	CategorySSL           Category = "ssl"
	CategoryInvalidURL    Category = "invalid_url"
	CategoryInvalidHeader Category = "invalid_header"
	CategoryConnection    Category = "connection"
	CategoryCircuitOpen   Category = "circuit_open"
)

var hints = map[Category]string{
	CategorySSL:           "The TLS handshake failed. Check that the certificate and key files match, are in PEM format and are registered for this environment.",
	CategoryInvalidURL:    "The request URL is malformed. Check the base URL and any path parameters.",
	CategoryInvalidHeader: "A request header is invalid. Check the API version and any custom header values.",
	CategoryConnection:    "The registry could not be reached. Check your network connection and the selected environment.",
	CategoryCircuitOpen:   "Recent requests to this environment kept failing, so sending is paused. Try again shortly.",
}

// NetworkError is a classified transport failure.
type NetworkError struct {
	Category Category
	Hint     string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s error: %v", e.Category, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func newNetworkError(c Category, err error) *NetworkError {
	return &NetworkError{Category: c, Hint: hints[c], Err: err}
}

// ClassifyError maps transport failures to a *NetworkError. Any other error,
// including context cancellation, is returned unchanged.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}

	var already *NetworkError
	if errors.As(err, &already) {
		return err
	}

	if errors.Is(err, context.Canceled) {
		return err
	}

	if category, ok := categorize(err); ok {
		return newNetworkError(category, err)
	}
	return err
}

func categorize(err error) (Category, bool) {
	switch {
	case errors.Is(err, httprequest.ErrInvalidHeader), isHeaderError(err):
		return CategoryInvalidHeader, true
	case errors.Is(err, httprequest.ErrInvalidEndpoint), isURLError(err):
		return CategoryInvalidURL, true
	case errors.Is(err, circuitbreaker.ErrCircuitOpen):
		return CategoryCircuitOpen, true
	case isTLSError(err):
		return CategorySSL, true
	case isConnectionError(err):
		return CategoryConnection, true
	}
	return "", false
}

func isHeaderError(err error) bool {
	return strings.Contains(err.Error(), "invalid header field")
}

func isURLError(err error) bool {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Op == "parse" {
		return true
	}
	var escape url.EscapeError
	if errors.As(err, &escape) {
		return true
	}
	var host url.InvalidHostError
	if errors.As(err, &host) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "unsupported protocol scheme") || strings.Contains(msg, "no Host in request URL")
}

func isTLSError(err error) bool {
	var (
		verify    *tls.CertificateVerificationError
		record    tls.RecordHeaderError
		alert     tls.AlertError
		unknownCA x509.UnknownAuthorityError
		hostname  x509.HostnameError
		invalid   x509.CertificateInvalidError
	)
	switch {
	case errors.As(err, &verify), errors.As(err, &record), errors.As(err, &alert),
		errors.As(err, &unknownCA), errors.As(err, &hostname), errors.As(err, &invalid):
		return true
	}
	return strings.Contains(err.Error(), "tls: ")
}

// isConnectionError matches dial, DNS and timeout failures. *url.Error is
// itself a net.Error, so timeouts are read from the error it wraps.
func isConnectionError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	inner := err
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		inner = urlErr.Err
	}
	var timeout interface{ Timeout() bool }
	if _, isURL := inner.(*url.Error); !isURL && errors.As(inner, &timeout) {
		return timeout.Timeout()
	}
	return false
}
