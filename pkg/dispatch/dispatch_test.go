package dispatch

import (
	"bytes"
	"context"
	"crypto/x509"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/DSACMS/training-registry-client/pkg/circuitbreaker"
	"github.com/DSACMS/training-registry-client/pkg/encryption"
	"github.com/DSACMS/training-registry-client/pkg/httprequest"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func newResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewBufferString(body)),
	}
}

func newTestCipher(t *testing.T) *encryption.Cipher {
	t.Helper()

	c, err := encryption.New(testKey)
	require.NoError(t, err)
	return c
}

func newTestDispatcher(t *testing.T, opts Options) *Dispatcher {
	t.Helper()

	d, err := New(opts)
	require.NoError(t, err)
	return d
}

func TestClassify(t *testing.T) {
	for status, expected := range map[int]Class{
		100: Informational,
		199: Informational,
		200: Success,
		204: Success,
		299: Success,
		301: Redirection,
		399: Redirection,
		400: Failure,
		404: Failure,
		500: Failure,
	} {
		assert.Equalf(t, expected, Classify(status), "Classify(%d)", status)
	}
}

func TestNotice(t *testing.T) {
	short, long := Notice(http.StatusBadRequest)

	assert.Equal(t, "Request failed (400)", short)
	assert.NotEmpty(t, long)
}

func TestHandle_JSON(t *testing.T) {
	d := newTestDispatcher(t, Options{})

	outcome, err := d.Handle(newResponse(http.StatusOK, `{"data":{"runs":[{"id":10026}]}}`), false)
	require.NoError(t, err)

	assert.Equal(t, Success, outcome.Class)
	assert.Equal(t, map[string]any{"data": map[string]any{"runs": []any{map[string]any{"id": 10026.0}}}}, outcome.JSON)
	assert.Empty(t, outcome.Text)
}

func TestHandle_TextFallback(t *testing.T) {
	d := newTestDispatcher(t, Options{})

	outcome, err := d.Handle(newResponse(http.StatusBadGateway, "<html>bad gateway</html>"), false)
	require.NoError(t, err)

	assert.Equal(t, Failure, outcome.Class)
	assert.Nil(t, outcome.JSON)
	assert.Equal(t, "<html>bad gateway</html>", outcome.Text)
}

func TestHandle_Decrypts(t *testing.T) {
	c := newTestCipher(t)
	d := newTestDispatcher(t, Options{Cipher: c})

	ciphertext, err := c.EncryptString(`{"status":200,"data":{"referenceNumber":"ENR-2501-000123"}}`)
	require.NoError(t, err)

	for _, body := range []string{ciphertext, `"` + ciphertext + `"`} {
		outcome, err := d.Handle(newResponse(http.StatusOK, body), true)
		require.NoError(t, err)

		assert.True(t, outcome.Decrypted)
		assert.Equal(t, map[string]any{"status": 200.0, "data": map[string]any{"referenceNumber": "ENR-2501-000123"}}, outcome.JSON)
	}
}

func TestHandle_DecryptedTextFallsBackToText(t *testing.T) {
	c := newTestCipher(t)
	d := newTestDispatcher(t, Options{Cipher: c})

	ciphertext, err := c.EncryptString("not json")
	require.NoError(t, err)

	outcome, err := d.Handle(newResponse(http.StatusOK, ciphertext), true)
	require.NoError(t, err)
	assert.Equal(t, "not json", outcome.Text)
}

func TestHandle_DecryptionFailure(t *testing.T) {
	d := newTestDispatcher(t, Options{Cipher: newTestCipher(t)})

	outcome, err := d.Handle(newResponse(http.StatusOK, "%%% not base64"), true)

	assert.ErrorIs(t, err, ErrDecrypt)
	assert.Equal(t, "%%% not base64", outcome.Text)

	_, err = newTestDispatcher(t, Options{}).Handle(newResponse(http.StatusOK, "abc"), true)
	assert.ErrorIs(t, err, encryption.ErrNoKey)
}

func TestHandle_FailureIsNotDecrypted(t *testing.T) {
	d := newTestDispatcher(t, Options{Cipher: newTestCipher(t)})

	outcome, err := d.Handle(newResponse(http.StatusBadRequest, `{"error":{"message":"invalid uen"}}`), true)
	require.NoError(t, err)

	assert.False(t, outcome.Decrypted)
	assert.Equal(t, map[string]any{"error": map[string]any{"message": "invalid uen"}}, outcome.JSON)
}

func assertCategory(t *testing.T, expected Category, err error) {
	t.Helper()

	var netErr *NetworkError
	require.Truef(t, errors.As(err, &netErr), "expected a *NetworkError, got %T: %v", err, err)
	assert.Equal(t, expected, netErr.Category)
	assert.NotEmpty(t, netErr.Hint)
}

func TestClassifyError(t *testing.T) {
	_, parseErr := url.Parse("https://host/%zz")

	assertCategory(t, CategoryInvalidHeader, ClassifyError(httprequest.New(nil, nil).WithHeader("bad header", "v").Err()))
	assertCategory(t, CategoryInvalidURL, ClassifyError(parseErr))
	assertCategory(t, CategoryInvalidURL, ClassifyError(httprequest.New(nil, nil).WithEndpoint("ftp://host", "").Err()))
	assertCategory(t, CategorySSL, ClassifyError(&url.Error{Op: "Get", URL: "https://host", Err: x509.UnknownAuthorityError{}}))
	assertCategory(t, CategoryConnection, ClassifyError(&net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}))
	assertCategory(t, CategoryCircuitOpen, ClassifyError(circuitbreaker.ErrCircuitOpen))

	other := errors.New("boom")
	assert.Same(t, other, ClassifyError(other))
	assert.Equal(t, context.Canceled, ClassifyError(context.Canceled))
	assert.NoError(t, ClassifyError(nil))
}

func TestClassifyError_UntrustedServer(t *testing.T) {
	ts := httptest.NewTLSServer(http.NotFoundHandler())
	defer ts.Close()

	_, err := httprequest.New(&http.Client{}, nil).WithEndpoint(ts.URL, "/x").Get(context.Background())
	require.Error(t, err)

	assertCategory(t, CategorySSL, ClassifyError(err))
}

func TestClassifyError_ConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	_, err = httprequest.New(&http.Client{}, nil).WithEndpoint("http://"+addr, "/x").Get(context.Background())
	require.Error(t, err)

	assertCategory(t, CategoryConnection, ClassifyError(err))
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestClassifyError_ClientErrorsPassThrough(t *testing.T) {
	boom := errors.New("boom")
	client := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		return nil, boom
	})}

	_, err := httprequest.New(client, nil).WithEndpoint("https://registry.example.com", "/x").Get(context.Background())
	require.Error(t, err)

	got := ClassifyError(err)

	var netErr *NetworkError
	assert.False(t, errors.As(got, &netErr), "got %v", got)
	assert.ErrorIs(t, got, boom)
}

func TestClassifyError_RejectedClientCredentials(t *testing.T) {
	tokens := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":"invalid_client"}`)
	}))
	defer tokens.Close()

	client := httprequest.ClientCredentialsHTTPClient(context.Background(), &clientcredentials.Config{
		ClientID:     "client",
		ClientSecret: "wrong",
		TokenURL:     tokens.URL,
	}, &http.Client{})

	_, err := httprequest.New(client, nil).WithEndpoint("https://registry.example.com", "/x").Get(context.Background())
	require.Error(t, err)

	var netErr *NetworkError
	assert.False(t, errors.As(ClassifyError(err), &netErr))
}

func TestClassifyError_ClientTimeout(t *testing.T) {
	block := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer ts.Close()
	defer close(block)

	client := &http.Client{Timeout: 50 * time.Millisecond}
	_, err := httprequest.New(client, nil).WithEndpoint(ts.URL, "/x").Get(context.Background())
	require.Error(t, err)

	assertCategory(t, CategoryConnection, ClassifyError(err))
}

type fakeBreaker struct {
	allowErr  error
	successes int
	failures  int
	releases  int
}

func (f *fakeBreaker) Allow(context.Context) error { return f.allowErr }
func (f *fakeBreaker) OnSuccess(context.Context)   { f.successes++ }
func (f *fakeBreaker) OnFailure(context.Context)   { f.failures++ }
func (f *fakeBreaker) Release(context.Context)     { f.releases++ }

func TestDo_RecordsSpanAndCounter(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	d := newTestDispatcher(t, Options{TracerProvider: tp, MeterProvider: mp})

	outcome, err := d.Do(context.Background(), "view-course-run", func(context.Context) (*http.Response, error) {
		return newResponse(http.StatusOK, `{"status":200}`), nil
	}, false)
	require.NoError(t, err)
	assert.NotEmpty(t, outcome.RequestID)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "registry.view-course-run", spans[0].Name())

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)
	require.Len(t, rm.ScopeMetrics[0].Metrics, 1)

	m := rm.ScopeMetrics[0].Metrics[0]
	assert.Equal(t, "registry.requests", m.Name)
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(1), sum.DataPoints[0].Value)

	class, ok := sum.DataPoints[0].Attributes.Value("class")
	require.True(t, ok)
	assert.Equal(t, "success", class.AsString())
}

func TestDo_BreakerOpen(t *testing.T) {
	breaker := &fakeBreaker{allowErr: circuitbreaker.ErrCircuitOpen}
	d := newTestDispatcher(t, Options{Breaker: breaker})

	called := false
	_, err := d.Do(context.Background(), "create-enrolment", func(context.Context) (*http.Response, error) {
		called = true
		return newResponse(http.StatusOK, "{}"), nil
	}, true)

	assertCategory(t, CategoryCircuitOpen, err)
	assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
	assert.False(t, called)
}

func TestDo_BreakerCountsServerErrorsOnly(t *testing.T) {
	breaker := &fakeBreaker{}
	d := newTestDispatcher(t, Options{Breaker: breaker})

	for _, status := range []int{http.StatusOK, http.StatusBadRequest, http.StatusServiceUnavailable} {
		_, err := d.Do(context.Background(), "search-enrolments", func(context.Context) (*http.Response, error) {
			return newResponse(status, "{}"), nil
		}, false)
		require.NoError(t, err)
	}

	_, err := d.Do(context.Background(), "search-enrolments", func(context.Context) (*http.Response, error) {
		return nil, &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	}, false)
	assertCategory(t, CategoryConnection, err)

	assert.Equal(t, 2, breaker.successes)
	assert.Equal(t, 2, breaker.failures)
}

func TestDo_ReleasesBreakerOnUncountedErrors(t *testing.T) {
	breaker := &fakeBreaker{}
	d := newTestDispatcher(t, Options{Breaker: breaker})

	for _, sendErr := range []error{
		httprequest.ErrInvalidHeader,
		&url.Error{Op: "Get", URL: "https://host", Err: x509.UnknownAuthorityError{}},
		errors.New("boom"),
	} {
		_, err := d.Do(context.Background(), "view-enrolment", func(context.Context) (*http.Response, error) {
			return nil, sendErr
		}, false)
		require.Error(t, err)
	}

	assert.Equal(t, 3, breaker.releases)
	assert.Zero(t, breaker.failures)
	assert.Zero(t, breaker.successes)
}

func TestDo_PassesOtherErrorsThrough(t *testing.T) {
	d := newTestDispatcher(t, Options{})
	boom := errors.New("boom")

	_, err := d.Do(context.Background(), "view-claim", func(context.Context) (*http.Response, error) {
		return nil, boom
	}, false)

	assert.Same(t, boom, err)
}
