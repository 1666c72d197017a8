package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/webreq/packages/core/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, opts ...ClientOption) *Client {
	t.Helper()
	c, err := NewClient(opts...)
	require.NoError(t, err)
	return c
}

func TestClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/items/42", r.URL.Path)
		assert.Equal(t, "q=1&n=2", r.URL.RawQuery)
		assert.Empty(t, r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.Empty(t, body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"message": "hello"}`))
	}))
	defer server.Close()

	req := NewRequest(MethodGet, server.URL+"/items/42?q=1&n=2")
	// a GET never carries the template body
	req.SetBody(json.RawMessage(`{"ignored": true}`))

	resp, err := newTestClient(t).Do(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "OK", resp.Reason())
	assert.Equal(t, "application/json", resp.ContentType())
	assert.Contains(t, resp.BodyString(), "hello")
	assert.True(t, resp.IsSuccess())
	assert.Greater(t, resp.Duration, time.Duration(0))
}

func TestClient_PostAndPutSendJSONBody(t *testing.T) {
	for _, method := range []Method{MethodPost, MethodPut} {
		t.Run(method.String(), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, method.String(), r.Method)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				body, _ := io.ReadAll(r.Body)
				assert.JSONEq(t, `{"name": "test"}`, string(body))
				w.WriteHeader(http.StatusCreated)
			}))
			defer server.Close()

			req := NewRequest(method, server.URL).SetBody(json.RawMessage(`{"name": "test"}`))
			resp, err := newTestClient(t).Do(context.Background(), req)

			require.NoError(t, err)
			assert.Equal(t, 201, resp.StatusCode)
			assert.Equal(t, "Created", resp.Reason())
		})
	}
}

func TestClient_HeaderOverridesContentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/vnd.api+json", r.Header.Get("Content-Type"))
		assert.Equal(t, "default", r.Header.Get("X-Default"))
		assert.Equal(t, "request", r.Header.Get("X-Both"))
	}))
	defer server.Close()

	client := newTestClient(t, WithDefaultHeaders(map[string]string{
		"X-Default": "default",
		"X-Both":    "default",
	}))
	req := NewRequest(MethodPost, server.URL).
		SetBody(json.RawMessage(`{}`)).
		SetHeader("Content-Type", "application/vnd.api+json").
		SetHeader("X-Both", "request")

	_, err := client.Do(context.Background(), req)
	require.NoError(t, err)
}

func TestClient_BasicAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "admin" || pass != "s3cret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	resp, err := newTestClient(t).Do(context.Background(), NewRequest(MethodGet, server.URL).SetBasicAuth("admin", "s3cret"))
	require.NoError(t, err)
	assert.Equal(t, 204, resp.StatusCode)

	resp, err = newTestClient(t).Do(context.Background(), NewRequest(MethodGet, server.URL))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
	assert.False(t, resp.IsSuccess())
}

func TestClient_WithTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(t, WithTimeout(50*time.Millisecond))
	_, err := client.Do(context.Background(), NewRequest(MethodGet, server.URL))

	require.Error(t, err)
	assert.True(t, errs.IsTransport(err))
}

func TestClient_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestClient(t).Do(context.Background(), NewRequest(MethodGet, url))
	require.Error(t, err)

	var te *errs.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "GET", te.Method)
	assert.Equal(t, url, te.URL)
}

type failingTransport struct{ err error }

func (f failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, f.err
}

func TestClient_WithTransport(t *testing.T) {
	cause := errors.New("network unreachable")
	client := newTestClient(t, WithTransport(failingTransport{err: cause}))

	_, err := client.Do(context.Background(), NewRequest(MethodPut, "http://api.test/items"))
	require.Error(t, err)
	assert.True(t, errs.IsTransport(err))
	assert.ErrorIs(t, err, cause)
}

func TestClient_InvalidMethod(t *testing.T) {
	_, err := newTestClient(t).Do(context.Background(), NewRequest(Method(0), "http://api.test"))
	require.Error(t, err)
	assert.True(t, errs.IsConfig(err))
}

func TestNewClient_InvalidProxy(t *testing.T) {
	_, err := NewClient(WithProxy("::not a url"))
	require.Error(t, err)
	assert.True(t, errs.IsConfig(err))

	_, err = NewClient(WithProxy("http://proxy.local:3128"), WithValidateSSL(false))
	assert.NoError(t, err)
}
