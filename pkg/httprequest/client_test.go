package httprequest

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"encoding/pem"
	"math/big"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2/clientcredentials"
)

type clientCert struct {
	certFile string
	keyFile  string
	pool     *x509.CertPool
}

// newClientCert issues a client certificate from a throwaway CA and writes
// the pair to PEM files.
func newClientCert(t *testing.T) clientCert {
	t.Helper()

	caKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	caTemplate := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "test training provider CA"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		IsCA:                  true,
		KeyUsage:              x509.KeyUsageCertSign,
		BasicConstraintsValid: true,
	}
	caDER, err := x509.CreateCertificate(rand.Reader, caTemplate, caTemplate, &caKey.PublicKey, caKey)
	require.NoError(t, err)
	ca, err := x509.ParseCertificate(caDER)
	require.NoError(t, err)

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := &x509.Certificate{
		SerialNumber: big.NewInt(2),
		Subject:      pkix.Name{CommonName: "201000372W"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth},
	}
	der, err := x509.CreateCertificate(rand.Reader, template, ca, &key.PublicKey, caKey)
	require.NoError(t, err)

	keyDER, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	dir := t.TempDir()
	cc := clientCert{
		certFile: filepath.Join(dir, "cert.pem"),
		keyFile:  filepath.Join(dir, "key.pem"),
		pool:     x509.NewCertPool(),
	}
	cc.pool.AddCert(ca)

	require.NoError(t, os.WriteFile(cc.certFile, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0o600))
	require.NoError(t, os.WriteFile(cc.keyFile, pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}), 0o600))
	return cc
}

// newMutualTLSServer starts a server that rejects connections without a
// client certificate signed by pool. It returns the path of its CA bundle.
func newMutualTLSServer(t *testing.T, pool *x509.CertPool, h http.Handler) (*httptest.Server, string) {
	t.Helper()

	ts := httptest.NewUnstartedServer(h)
	ts.TLS = &tls.Config{
		ClientAuth: tls.RequireAndVerifyClientCert,
		ClientCAs:  pool,
	}
	ts.StartTLS()
	t.Cleanup(ts.Close)

	caFile := filepath.Join(t.TempDir(), "ca.pem")
	require.NoError(t, os.WriteFile(caFile, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: ts.Certificate().Raw}), 0o600))
	return ts, caFile
}

func TestNewMutualTLSClient_PresentsCertificate(t *testing.T) {
	cc := newClientCert(t)

	var subject string
	ts, caFile := newMutualTLSServer(t, cc.pool, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject = r.TLS.PeerCertificates[0].Subject.CommonName
		w.WriteHeader(http.StatusOK)
	}))

	client, err := NewMutualTLSClient(context.Background(), TLSOptions{
		CertFile: cc.certFile,
		KeyFile:  cc.keyFile,
		CAFile:   caFile,
		Timeout:  5 * time.Second,
	})
	require.NoError(t, err)

	resp, err := New(client, nil).WithEndpoint(ts.URL, "/trainingProviders/201000372W/trainers").Get(context.Background())
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "201000372W", subject)
}

func TestNewMutualTLSClient_ServerRejectsPlainClient(t *testing.T) {
	cc := newClientCert(t)
	ts, _ := newMutualTLSServer(t, cc.pool, http.NotFoundHandler())

	_, err := New(ts.Client(), nil).WithEndpoint(ts.URL, "/x").Get(context.Background())

	assert.Error(t, err)
}

func TestNewMutualTLSClient_BadFiles(t *testing.T) {
	_, err := NewMutualTLSClient(context.Background(), TLSOptions{CertFile: "missing.pem", KeyFile: "missing.pem"})
	assert.Error(t, err)

	cc := newClientCert(t)
	notPEM := filepath.Join(t.TempDir(), "ca.pem")
	require.NoError(t, os.WriteFile(notPEM, []byte("not a certificate"), 0o600))

	_, err = NewMutualTLSClient(context.Background(), TLSOptions{CertFile: cc.certFile, KeyFile: cc.keyFile, CAFile: notPEM})
	assert.ErrorIs(t, err, ErrInvalidCA)
}

func TestNewMutualTLSClient_OAuthOverMutualTLS(t *testing.T) {
	cc := newClientCert(t)

	var seenAuth string
	ts, caFile := newMutualTLSServer(t, cc.pool, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"access_token": "test-token",
				"token_type":   "Bearer",
				"expires_in":   3600,
			})
		case "/redirect":
			http.Redirect(w, r, "/final", http.StatusFound)
		case "/final":
			seenAuth = r.Header.Get("Authorization")
			w.WriteHeader(http.StatusOK)
		default:
			http.NotFound(w, r)
		}
	}))

	client, err := NewMutualTLSClient(context.Background(), TLSOptions{
		CertFile: cc.certFile,
		KeyFile:  cc.keyFile,
		CAFile:   caFile,
		OAuth: &clientcredentials.Config{
			ClientID:     "abc",
			ClientSecret: "secret",
			TokenURL:     ts.URL + "/token",
		},
	})
	require.NoError(t, err)

	resp, err := New(client, nil).WithEndpoint(ts.URL, "/redirect").Get(context.Background())
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Bearer test-token", seenAuth)
}
