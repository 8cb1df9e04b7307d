package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DSACMS/training-registry-client/pkg/core"
	"github.com/DSACMS/training-registry-client/pkg/registry"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

const deleteRunInfo = `{"courseReferenceNumber":"TGS-2020001234","uen":"201000372W"}`

func newTestApp(t *testing.T, baseURL string, options ...func(*core.Config)) *fiber.App {
	t.Helper()

	cfg := core.NewConfig(append([]func(*core.Config){
		core.WithSkipAuth(),
		core.WithRegistryBaseURL(baseURL),
		core.WithRegistryEncryptionKey(base64.StdEncoding.EncodeToString(testKey)),
		core.WithRegistryUEN("201000372W"),
	}, options...)...)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	client, err := registry.New(context.Background(), &cfg.Registry, registry.Options{Logger: logger})
	require.NoError(t, err)

	app, err := New(&Config{Logger: logger, Registry: client, Config: cfg})
	require.NoError(t, err)

	return app
}

func call(t *testing.T, app *fiber.App, method, path, body string) (int, string) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(raw)
}

func TestRoutes(t *testing.T) {
	app := newTestApp(t, "https://registry.example.com")

	tests := []struct {
		description  string
		route        string
		expectedCode int
		expectedBody string
	}{
		{"index route", "/", http.StatusOK, "OK"},
		{"status route", "/status", http.StatusOK, "OK"},
		{"non existing route", "/i-dont-exist", http.StatusNotFound, "Cannot GET /i-dont-exist"},
		{"unknown lookup", "/api/lookups/planets", http.StatusNotFound, "unknown lookup table planets"},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			code, body := call(t, app, http.MethodGet, tt.route, "")

			assert.Equal(t, tt.expectedCode, code)
			assert.Equal(t, tt.expectedBody, strings.TrimSpace(body))
		})
	}
}

func TestOperations_List(t *testing.T) {
	app := newTestApp(t, "https://registry.example.com")

	code, body := call(t, app, http.MethodGet, "/api/operations", "")
	require.Equal(t, http.StatusOK, code)

	var ops []registry.Operation
	require.NoError(t, json.Unmarshal([]byte(body), &ops))
	assert.Len(t, ops, len(registry.Operations()))
	assert.Equal(t, "view-course-run", ops[0].Name)
}

func TestOperations_Describe(t *testing.T) {
	app := newTestApp(t, "https://registry.example.com")

	code, body := call(t, app, http.MethodGet, "/api/operations/create-assessment", "")
	require.Equal(t, http.StatusOK, code)

	assert.Contains(t, body, `"trainingPartnerUen":"201000372W"`)
}

func TestLookups(t *testing.T) {
	app := newTestApp(t, "https://registry.example.com")

	code, body := call(t, app, http.MethodGet, "/api/lookups/modes-of-training", "")
	require.Equal(t, http.StatusOK, code)

	var codes []map[string]string
	require.NoError(t, json.Unmarshal([]byte(body), &codes))
	require.Len(t, codes, 9)
	assert.Equal(t, "1", codes[0]["code"])

	code, body = call(t, app, http.MethodGet, "/api/lookups", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `"survey-languages"`)
}

func TestValidate_ReportsErrors(t *testing.T) {
	app := newTestApp(t, "https://registry.example.com")

	code, body := call(t, app, http.MethodPost, "/api/operations/delete-course-run/validate", `{"info":{"uen":"201000372W"}}`)
	require.Equal(t, http.StatusOK, code)

	assert.JSONEq(t, `{"errors":["course reference number is required"],"warnings":[]}`, body)
}

func TestPreview_RejectsUnknownFields(t *testing.T) {
	app := newTestApp(t, "https://registry.example.com")

	code, _ := call(t, app, http.MethodPost, "/api/operations/delete-course-run/preview",
		`{"path":{"runId":"1"},"info":{"courseReferenceNumber":"TGS-2020001234","uen":"201000372W","sessions":[]}}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = call(t, app, http.MethodPost, "/api/operations/delete-course-run/preview", `{"body":{}}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestPreview_Invalid(t *testing.T) {
	app := newTestApp(t, "https://registry.example.com")

	code, body := call(t, app, http.MethodPost, "/api/operations/delete-course-run/preview",
		`{"path":{"runId":"1"},"info":{"courseReferenceNumber":"TGS-2020001234"}}`)
	require.Equal(t, http.StatusUnprocessableEntity, code)

	var got struct {
		Result struct {
			Errors []string `json:"errors"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.Equal(t, []string{"training provider UEN is required"}, got.Result.Errors)
}

func TestPreview_Request(t *testing.T) {
	app := newTestApp(t, "https://registry.example.com")

	code, body := call(t, app, http.MethodPost, "/api/operations/delete-course-run/preview",
		`{"path":{"runId":"10026"},"info":`+deleteRunInfo+`}`)
	require.Equal(t, http.StatusOK, code)

	var got registry.Preview
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.True(t, strings.HasPrefix(got.Request, "POST https://registry.example.com/courses/courseRuns/edit/10026\n"))
}

func TestSubmit(t *testing.T) {
	var path string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"status":200,"data":{"runs":[{"id":10026}]}}`)
	}))
	defer ts.Close()

	app := newTestApp(t, ts.URL)

	code, body := call(t, app, http.MethodPost, "/api/operations/delete-course-run/submit",
		`{"path":{"runId":"10026"},"info":`+deleteRunInfo+`}`)
	require.Equal(t, http.StatusOK, code, body)

	assert.Equal(t, "/courses/courseRuns/edit/10026", path)

	var got struct {
		Outcome struct {
			Status int    `json:"status"`
			Class  string `json:"class"`
			JSON   any    `json:"json"`
		} `json:"outcome"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.Equal(t, "success", got.Outcome.Class)
	assert.Equal(t, http.StatusOK, got.Outcome.Status)
	assert.Equal(t, map[string]any{"status": float64(200), "data": map[string]any{"runs": []any{map[string]any{"id": float64(10026)}}}}, got.Outcome.JSON)
}

func TestSubmit_ConnectionRefused(t *testing.T) {
	app := newTestApp(t, "http://127.0.0.1:1")

	code, body := call(t, app, http.MethodPost, "/api/operations/view-course-run/submit", `{"path":{"runId":"10026"}}`)
	require.Equal(t, http.StatusBadGateway, code)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.Equal(t, "connection", got["category"])
	assert.NotEmpty(t, got["hint"])
}

func TestSubmit_UnknownOperation(t *testing.T) {
	app := newTestApp(t, "https://registry.example.com")

	code, _ := call(t, app, http.MethodPost, "/api/operations/launch-rocket/submit", `{}`)

	assert.Equal(t, http.StatusNotFound, code)
}

func TestCipher_RoundTrip(t *testing.T) {
	app := newTestApp(t, "https://registry.example.com")

	code, body := call(t, app, http.MethodPost, "/api/cipher/encrypt", `{"text":"{\"a\":1}"}`)
	require.Equal(t, http.StatusOK, code)

	var encrypted struct {
		Text string `json:"text"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &encrypted))

	payload, err := json.Marshal(map[string]string{"text": encrypted.Text})
	require.NoError(t, err)

	code, body = call(t, app, http.MethodPost, "/api/cipher/decrypt", string(payload))
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"text":"{\"a\":1}"}`, body)

	code, _ = call(t, app, http.MethodPost, "/api/cipher/decrypt", `{"text":"bm90IGEgYmxvY2s="}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestCipher_NoKey(t *testing.T) {
	app := newTestApp(t, "https://registry.example.com", core.WithRegistryEncryptionKey(""))

	code, _ := call(t, app, http.MethodPost, "/api/cipher/encrypt", `{"text":"x"}`)

	assert.Equal(t, http.StatusServiceUnavailable, code)
}

func TestAuth_Required(t *testing.T) {
	app := newTestApp(t, "https://registry.example.com", core.WithSkipAuth(false))

	code, _ := call(t, app, http.MethodGet, "/api/operations", "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = call(t, app, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, code)
}

func TestNew_RequiresRegistry(t *testing.T) {
	_, err := New(&Config{Config: core.NewConfig()})

	require.Error(t, err)
}
