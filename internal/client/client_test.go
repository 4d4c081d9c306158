package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	apierrors "commerce-events-go/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type headerAuthorizer struct {
	header string
	value  string
	calls  atomic.Int32
}

func (a *headerAuthorizer) Authorize(_ context.Context, req *http.Request) error {
	a.calls.Add(1)
	req.Header.Set(a.header, a.value)
	return nil
}

func TestClientDoSuccess(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"p-1","label":"demo"}`))
	}))
	t.Cleanup(srv.Close)

	auth := &headerAuthorizer{header: "Authorization", value: "Bearer tok"}
	c := New("events", srv.URL, auth)

	res := c.Do(context.Background(), "/providers/p-1", http.MethodGet, nil, nil)
	require.True(t, res.Success)
	body, ok := res.Message.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "p-1", body["id"])
	assert.Equal(t, int32(1), auth.calls.Load())
}

func TestClientDoNoContent(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	c := New("events", srv.URL, nil)
	res := c.Do(context.Background(), "/registrations/r-1", http.MethodDelete, nil, nil)
	require.True(t, res.Success)
	assert.Nil(t, res.Message)
}

func TestClientDoHTTPErrorCarriesBody(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"no such provider"}`))
	}))
	t.Cleanup(srv.Close)

	c := New("events", srv.URL, nil)
	res := c.Do(context.Background(), "/providers/nope", http.MethodGet, nil, nil)
	require.False(t, res.Success)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "HTTP error! status: 404", res.Message)
	body, ok := res.Body.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "no such provider", body["message"])
}

func TestClientDoTransportFailure(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from now on

	c := New("events", srv.URL, nil, WithMaxRetries(0))
	res := c.Do(context.Background(), "/providers", http.MethodGet, nil, nil)
	require.False(t, res.Success)
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	msg, ok := res.Message.(string)
	require.True(t, ok)
	assert.Contains(t, msg, "Unexpected error, check logs. Original error ")
}

func TestClientDoNeverReturnsRawError(t *testing.T) {
	t.Parallel()
	// unserializable payload is an unexpected failure, still a Result
	c := New("events", "http://127.0.0.1:0", nil, WithMaxRetries(0))
	res := c.Do(context.Background(), "/x", http.MethodPost, nil, map[string]interface{}{"bad": make(chan int)})
	require.False(t, res.Success)
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
}

func TestTransportRetriesThenSucceeds(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(srv.Close)

	var retries []int
	hooks := &Hooks{
		BeforeRetry: func(attempt int, err error) { retries = append(retries, attempt) },
	}
	tr := NewTransport(srv.URL, WithHooks(hooks))

	body, _, err := tr.DoRaw(context.Background(), http.MethodGet, "/thing", nil, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
	assert.Equal(t, int32(2), calls.Load())
	require.Len(t, retries, 1)
	assert.Equal(t, 1, retries[0])
}

func TestTransportDoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	t.Cleanup(srv.Close)

	tr := NewTransport(srv.URL)
	_, _, err := tr.DoRaw(context.Background(), http.MethodGet, "/thing", nil, nil)
	require.Error(t, err)

	var httpErr *apierrors.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestTransportHooksFire(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"denied"}`))
	}))
	t.Cleanup(srv.Close)

	var gotRequest, gotResponse, gotError bool
	var errBody []byte
	hooks := &Hooks{
		BeforeRequest: func(method, url string) { gotRequest = true },
		AfterResponse: func(status int, method, url string) { gotResponse = true },
		OnError:       func(err error, body []byte) { gotError = true; errBody = body },
	}

	tr := NewTransport(srv.URL, WithHooks(hooks))
	_, _, err := tr.DoRaw(context.Background(), http.MethodGet, "/thing", nil, nil)
	require.Error(t, err)
	assert.True(t, gotRequest, "BeforeRequest should fire")
	assert.True(t, gotResponse, "AfterResponse should fire")
	assert.True(t, gotError, "OnError should fire")
	assert.JSONEq(t, `{"message":"denied"}`, string(errBody))
}

func TestTransportNonJSONBody(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("plain text"))
	}))
	t.Cleanup(srv.Close)

	tr := NewTransport(srv.URL)
	body, err := tr.Do(context.Background(), http.MethodGet, "/thing", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "plain text", body)
}

func TestTransportPayloadSetsContentType(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"created":true}`))
	}))
	t.Cleanup(srv.Close)

	tr := NewTransport(srv.URL)
	body, err := tr.Do(context.Background(), http.MethodPost, "/thing", nil, map[string]string{"a": "b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"created": true}, body)
}

func TestTransportGetSendsNoContentType(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	tr := NewTransport(srv.URL)
	_, _, err := tr.DoRaw(context.Background(), http.MethodGet, "/thing", nil, nil)
	require.NoError(t, err)
}

func TestTransportResolve(t *testing.T) {
	t.Parallel()
	tr := NewTransport("https://api.example.com/base/")
	assert.Equal(t, "https://api.example.com/base/things", tr.resolve("things"))
	assert.Equal(t, "https://api.example.com/base/things", tr.resolve("/things"))
	assert.Equal(t, "https://other.example.com/next", tr.resolve("https://other.example.com/next"))
}
