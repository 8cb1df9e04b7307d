package httprequest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DSACMS/training-registry-client/pkg/encryption"
)

type fakeTransport struct {
	req    *http.Request
	body   []byte
	called bool
}

func (f *fakeTransport) Do(req *http.Request) (*http.Response, error) {
	f.called = true
	f.req = req
	if req.Body != nil {
		f.body, _ = io.ReadAll(req.Body)
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewBufferString(`{}`)),
	}, nil
}

var testKey = []byte("0123456789abcdef0123456789abcdef")

func TestWithEndpoint_Normalises(t *testing.T) {
	for _, tc := range []struct{ base, suffix string }{
		{"http://host/", "suffix/"},
		{"http://host", "/suffix"},
		{"http://host", "suffix"},
		{"http://host//", "/suffix//"},
	} {
		b := New(&fakeTransport{}, nil).WithEndpoint(tc.base, tc.suffix)

		require.NoError(t, b.Err())
		assert.Equalf(t, "http://host/suffix", b.URL(), "WithEndpoint(%q, %q)", tc.base, tc.suffix)
	}

	assert.Equal(t, "https://host", New(nil, nil).WithEndpoint("https://host/", "").URL())
}

func TestWithEndpoint_RequiresScheme(t *testing.T) {
	b := New(&fakeTransport{}, nil).WithEndpoint("host/api", "x")

	assert.ErrorIs(t, b.Err(), ErrInvalidEndpoint)
}

func TestSend_WithoutEndpoint(t *testing.T) {
	ft := &fakeTransport{}
	b := New(ft, nil)

	_, err := b.Get(context.Background())
	assert.ErrorIs(t, err, ErrNoEndpoint)

	_, err = b.Post(context.Background())
	assert.ErrorIs(t, err, ErrNoEndpoint)

	c, err := encryption.New(testKey)
	require.NoError(t, err)
	_, err = New(ft, c).PostEncrypted(context.Background())
	assert.ErrorIs(t, err, ErrNoEndpoint)

	assert.False(t, ft.called)
}

func TestWithHeader_Invalid(t *testing.T) {
	ft := &fakeTransport{}
	b := New(ft, nil).
		WithEndpoint("https://host", "/x").
		WithHeader("bad header", "v").
		WithHeader("x-api-version", "v1.2")

	assert.ErrorIs(t, b.Err(), ErrInvalidHeader)

	_, err := b.Get(context.Background())
	assert.ErrorIs(t, err, ErrInvalidHeader)
	assert.False(t, ft.called)

	assert.ErrorIs(t, New(ft, nil).WithHeader("", "v").Err(), ErrInvalidHeader)
	assert.ErrorIs(t, New(ft, nil).WithHeader("x", "line\nbreak").Err(), ErrInvalidHeader)
}

func TestWithParam(t *testing.T) {
	b := New(&fakeTransport{}, nil).
		WithEndpoint("https://host", "/courses").
		WithParam("includeExpiredCourses", true).
		WithParam("page", 2).
		WithParam("q", "a b&c")

	require.NoError(t, b.Err())
	assert.Equal(t, "https://host/courses?includeExpiredCourses=true&page=2&q=a+b%26c", b.URL())

	assert.ErrorIs(t, New(nil, nil).WithParam("ch", make(chan int)).Err(), ErrInvalidParam)
	assert.ErrorIs(t, New(nil, nil).WithParam("", "v").Err(), ErrInvalidParam)
}

func TestWithBody_IsEager(t *testing.T) {
	body := map[string]any{"a": 1}
	b := New(&fakeTransport{}, nil).WithEndpoint("https://host", "/x").WithBody(body)

	body["a"] = 2
	body["b"] = 3

	assert.Contains(t, b.Repr(http.MethodPost), `"a": 1`)
	assert.NotContains(t, b.Repr(http.MethodPost), `"b"`)
}

func TestRepr(t *testing.T) {
	b := New(&fakeTransport{}, nil).
		WithEndpoint("https://uat-api.example.sg/", "/tpg/enrolments/search").
		WithParam("b", "2").
		WithParam("a", "1").
		WithHeader("x-api-version", "v1").
		WithBody(map[string]any{"enrolment": map[string]any{"action": "Cancel"}})

	expected := `POST https://uat-api.example.sg/tpg/enrolments/search?b=2&a=1

Headers:
accept: application/json
x-api-version: v1
Content-Type: application/json

Body:
{
    "enrolment": {
        "action": "Cancel"
    }
}
`
	assert.Equal(t, expected, b.Repr(http.MethodPost))
	assert.Equal(t, b.Repr(http.MethodPost), b.Repr(http.MethodPost))
}

func TestGet_SendsHeadersAndQuery(t *testing.T) {
	var seen *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	resp, err := New(ts.Client(), nil).
		WithEndpoint(ts.URL, "/courses/runs/10026/sessions").
		WithParam("uen", "201000372W").
		WithParam("courseReferenceNumber", "TGS-2020001234").
		Get(context.Background())
	require.NoError(t, err)
	defer resp.Body.Close()

	require.NotNil(t, seen)
	assert.Equal(t, http.MethodGet, seen.Method)
	assert.Equal(t, "/courses/runs/10026/sessions", seen.URL.Path)
	assert.Equal(t, "uen=201000372W&courseReferenceNumber=TGS-2020001234", seen.URL.RawQuery)
	assert.Equal(t, "application/json", seen.Header.Get("Accept"))
}

func TestPost_SendsCompactJSON(t *testing.T) {
	ft := &fakeTransport{}

	resp, err := New(ft, nil).
		WithEndpoint("https://host", "/x").
		WithBody(map[string]any{"b": []int{1, 2}, "a": "x"}).
		Post(context.Background())
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, `{"a":"x","b":[1,2]}`, string(ft.body))
	assert.Equal(t, "application/json", ft.req.Header.Get("Content-Type"))
}

func TestPostEncrypted_SendsBareJSONString(t *testing.T) {
	c, err := encryption.New(testKey)
	require.NoError(t, err)

	ft := &fakeTransport{}
	resp, err := New(ft, c).
		WithEndpoint("https://host", "/tpg/enrolments").
		WithBody(map[string]any{"a": 1}).
		PostEncrypted(context.Background())
	require.NoError(t, err)
	defer resp.Body.Close()

	var ciphertext string
	require.NoError(t, json.Unmarshal(ft.body, &ciphertext))

	plain, err := c.DecryptString(ciphertext)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(plain))
}

func TestPostEncrypted_WithoutKey(t *testing.T) {
	ft := &fakeTransport{}

	_, err := New(ft, nil).
		WithEndpoint("https://host", "/x").
		WithBody(map[string]any{"a": 1}).
		PostEncrypted(context.Background())

	assert.ErrorIs(t, err, encryption.ErrNoKey)
	assert.False(t, ft.called)
}

func TestBuilder_SendsOnce(t *testing.T) {
	b := New(&fakeTransport{}, nil).WithEndpoint("https://host", "/x")

	resp, err := b.Get(context.Background())
	require.NoError(t, err)
	resp.Body.Close()

	_, err = b.Get(context.Background())
	assert.ErrorIs(t, err, ErrAlreadySent)
}
